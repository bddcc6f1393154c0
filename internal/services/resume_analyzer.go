package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"alfredoptarigan/hirehub/internal/apperrors"
	"alfredoptarigan/hirehub/internal/models"
)

const resumeField = "resume"

type ResumeAnalyzer interface {
	Analyze(ctx context.Context, file *multipart.FileHeader) (*AnalysisResult, error)
}

type AnalysisResult struct {
	Analysis *models.ResumeAnalysis
	// Text is the extracted text that was sent to the provider.
	Text string
}

type resumeAnalyzer struct {
	storage   StorageService
	pdfParser PDFParserService
	completer Completer
	prompts   *PromptBuilder
	textLimit int
}

func NewResumeAnalyzer(
	storage StorageService,
	pdfParser PDFParserService,
	completer Completer,
	textLimit int,
) ResumeAnalyzer {
	return &resumeAnalyzer{
		storage:   storage,
		pdfParser: pdfParser,
		completer: completer,
		prompts:   NewPromptBuilder(),
		textLimit: textLimit,
	}
}

// Analyze saves the upload, extracts its text, asks the provider for a critique
// and removes the saved file on every exit path.
func (a *resumeAnalyzer) Analyze(ctx context.Context, file *multipart.FileHeader) (*AnalysisResult, error) {
	if file == nil {
		return nil, apperrors.Validation("No file uploaded",
			apperrors.FieldError{Field: resumeField, Message: "is required"})
	}

	filePath, err := a.storage.SaveFile(file, resumeField)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := a.storage.DeleteFile(filePath); err != nil {
			log.Printf("⚠️  Failed to remove upload %s: %v\n", filePath, err)
		}
	}()

	content, err := a.pdfParser.ExtractText(filePath)
	if err != nil {
		log.Printf("❌ Failed to parse resume %s: %v\n", file.Filename, err)
		return nil, apperrors.Validation("Could not read text from the uploaded PDF",
			apperrors.FieldError{Field: resumeField, Message: "has no extractable text"})
	}

	text := TruncateRunes(content.Text, a.textLimit)
	log.Printf("📄 Resume parsed: %d pages, %d characters sent for analysis\n", content.PageCount, len(text))

	analysis, err := a.requestAnalysis(ctx, text)
	if err != nil {
		return nil, err
	}

	return &AnalysisResult{Analysis: analysis, Text: text}, nil
}

// requestAnalysis allows one extra attempt when the provider's answer does not
// match the expected shape.
func (a *resumeAnalyzer) requestAnalysis(ctx context.Context, text string) (*models.ResumeAnalysis, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		response, err := a.completer.Complete(ctx, CompletionRequest{
			SystemInstruction: a.prompts.ResumeAnalysisInstruction(),
			Messages: []ChatMessage{{
				Role:    models.RoleUser,
				Content: a.prompts.BuildResumeAnalysisPrompt(text, attempt > 0),
			}},
			Temperature: 0.3,
			JSON:        true,
		})
		if err != nil {
			return nil, err
		}

		analysis, err := ParseResumeAnalysis(response)
		if err == nil {
			return analysis, nil
		}

		lastErr = err
		log.Printf("⚠️  Resume analysis response rejected (attempt %d): %v\n", attempt+1, err)
	}

	return nil, apperrors.Upstream(apperrors.UpstreamMalformed, lastErr)
}

type rawAnalysis struct {
	Score           *float64  `json:"score"`
	Strengths       *[]string `json:"strengths"`
	Suggestions     *[]string `json:"suggestions"`
	MissingKeywords *[]string `json:"missingKeywords"`
}

var errAnalysisShape = errors.New("analysis does not match schema")

// ParseResumeAnalysis decodes and checks a provider answer.
func ParseResumeAnalysis(response string) (*models.ResumeAnalysis, error) {
	var raw rawAnalysis
	if err := json.Unmarshal([]byte(extractJSON(response)), &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	switch {
	case raw.Score == nil:
		return nil, fmt.Errorf("%w: score is missing", errAnalysisShape)
	case *raw.Score < 0 || *raw.Score > 100:
		return nil, fmt.Errorf("%w: score %v out of range", errAnalysisShape, *raw.Score)
	case raw.Strengths == nil || raw.Suggestions == nil || raw.MissingKeywords == nil:
		return nil, fmt.Errorf("%w: list fields are missing", errAnalysisShape)
	}

	return &models.ResumeAnalysis{
		Score:           *raw.Score,
		Strengths:       nonNil(*raw.Strengths),
		Suggestions:     nonNil(*raw.Suggestions),
		MissingKeywords: nonNil(*raw.MissingKeywords),
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return strings.TrimSpace(text)
}
