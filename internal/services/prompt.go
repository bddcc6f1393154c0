package services

import (
	"fmt"
)

const resumeAnalysisInstruction = `You are an expert HR recruiter and resume reviewer.
Analyze the resume text you are given and respond with a single JSON object and nothing else.
The object must have exactly these keys:
{
  "score": <integer 0-100 rating the overall quality of the resume>,
  "strengths": ["<strength>", ...],
  "suggestions": ["<concrete improvement>", ...],
  "missingKeywords": ["<keyword commonly expected for this profile but absent>", ...]
}
Do not wrap the JSON in markdown code blocks.`

const resumeAnalysisRetryNote = `Your previous answer did not match the required JSON shape. Return only the JSON object with the keys score, strengths, suggestions and missingKeywords.`

const chatInstruction = `You are a helpful career assistant on a hiring platform.
You help applicants improve their resumes, prepare for interviews and understand job postings.
Keep answers concise and practical.`

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// ResumeAnalysisInstruction is the system instruction for resume critique.
func (pb *PromptBuilder) ResumeAnalysisInstruction() string {
	return resumeAnalysisInstruction
}

// BuildResumeAnalysisPrompt wraps the extracted resume text. retry adds a reminder
// of the expected shape after a malformed answer.
func (pb *PromptBuilder) BuildResumeAnalysisPrompt(resumeText string, retry bool) string {
	prompt := fmt.Sprintf("RESUME TEXT:\n%s", resumeText)
	if retry {
		prompt += "\n\n" + resumeAnalysisRetryNote
	}
	return prompt
}

// ChatInstruction is the system instruction for the career chat assistant.
func (pb *PromptBuilder) ChatInstruction() string {
	return chatInstruction
}
