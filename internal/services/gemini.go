package services

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"google.golang.org/genai"

	"alfredoptarigan/hirehub/internal/apperrors"
	"alfredoptarigan/hirehub/internal/config"
	"alfredoptarigan/hirehub/internal/models"
)

type ChatMessage struct {
	Role    models.MessageRole
	Content string
}

type CompletionRequest struct {
	SystemInstruction string
	Messages          []ChatMessage
	Temperature       float32
	// JSON asks the provider for an application/json response body.
	JSON bool
}

// Completer produces a reply from the hosted language model.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type GeminiService interface {
	Completer
	Embedder
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
}

// NewGeminiService builds the provider client. Without an API key the service
// is still returned and every call fails with apperrors.ErrAINotConfigured.
func NewGeminiService(ctx context.Context, cfg config.AIConfig) (GeminiService, error) {
	svc := &geminiService{
		modelName:  cfg.Model,
		embedModel: cfg.EmbedModel,
	}

	if cfg.APIKey == "" {
		log.Println("⚠️  AI_API_KEY not set, AI features are disabled")
		return svc, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.AppName != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{
			Headers: http.Header{"X-Title": []string{cfg.AppName}},
		}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	svc.client = client

	return svc, nil
}

// maxEmbedChars keeps embedding input near the model's ~10000 token limit.
const maxEmbedChars = 40000

func embedInput(text string) string {
	return TruncateRunes(text, maxEmbedChars)
}

// Embed implements Embedder.
func (g *geminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	if g.client == nil {
		return nil, apperrors.ErrAINotConfigured
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(embedInput(text)), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// Complete implements Completer.
func (g *geminiService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if g.client == nil {
		return "", apperrors.ErrAINotConfigured
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == models.RoleAssistant {
			role = genai.Role(genai.RoleModel)
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	temperature := req.Temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}
	if req.SystemInstruction != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.Role(genai.RoleUser))
	}
	if req.JSON {
		genConfig.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", apperrors.Upstream(apperrors.UpstreamMalformed, fmt.Errorf("nil response"))
	}

	text := resp.Text()
	if text == "" {
		return "", apperrors.Upstream(apperrors.UpstreamMalformed, fmt.Errorf("no text content in response"))
	}

	return text, nil
}
