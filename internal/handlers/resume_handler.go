package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hirehub/internal/apperrors"
	"alfredoptarigan/hirehub/internal/models"
	"alfredoptarigan/hirehub/internal/services"
)

type ResumeHandler struct {
	analyzer services.ResumeAnalyzer
}

func NewResumeHandler(analyzer services.ResumeAnalyzer) *ResumeHandler {
	return &ResumeHandler{
		analyzer: analyzer,
	}
}

// HandleAnalyze handles POST /resumes/analyze
func (h *ResumeHandler) HandleAnalyze(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		log.Printf("⚠️  Resume upload missing: %v\n", err)
		return apperrors.Validation("No file uploaded",
			apperrors.FieldError{Field: "resume", Message: "is required"})
	}

	log.Printf("📤 Analyzing resume %s (%d bytes)\n", file.Filename, file.Size)

	result, err := h.analyzer.Analyze(c.UserContext(), file)
	if err != nil {
		return err
	}

	return c.JSON(models.AnalyzeResumeResponse{
		Success:  true,
		Analysis: result.Analysis,
		Text:     result.Text,
	})
}
