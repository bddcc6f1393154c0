package models

type CreateJobRequest struct {
	Title        string   `json:"title" validate:"required"`
	Department   string   `json:"department" validate:"required"`
	Location     string   `json:"location" validate:"required"`
	Type         JobType  `json:"type" validate:"required,oneof=full-time part-time contract internship temporary"`
	Status       string   `json:"status" validate:"omitempty,oneof=draft published closed"`
	Description  string   `json:"description" validate:"required"`
	Requirements []string `json:"requirements"`
	Salary       string   `json:"salary"`
	Experience   string   `json:"experience"`
}

// UpdateJobRequest is a partial update; nil fields keep their stored value.
type UpdateJobRequest struct {
	Title        *string   `json:"title" validate:"omitempty,min=1"`
	Department   *string   `json:"department" validate:"omitempty,min=1"`
	Location     *string   `json:"location" validate:"omitempty,min=1"`
	Type         *string   `json:"type" validate:"omitempty,oneof=full-time part-time contract internship temporary"`
	Status       *string   `json:"status" validate:"omitempty,oneof=draft published closed"`
	Description  *string   `json:"description" validate:"omitempty,min=1"`
	Requirements *[]string `json:"requirements"`
	Salary       *string   `json:"salary"`
	Experience   *string   `json:"experience"`
}

type JobListQuery struct {
	Page       int
	Limit      int
	Search     string
	Department string
	Location   string
	Type       string
	Status     string
}

type PaginatedJobs struct {
	Documents []JobPosting `json:"documents"`
	Total     int64        `json:"total"`
	Page      int          `json:"page"`
	Limit     int          `json:"limit"`
	Pages     int          `json:"pages"`
}

type StatusCount struct {
	Status JobStatus `json:"status"`
	Count  int64     `json:"count"`
}

type MonthlyApplications struct {
	Month        string `json:"month"`
	Applications int64  `json:"applications"`
	Postings     int64  `json:"postings"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

type JobStats struct {
	Total               int64                 `json:"total"`
	Statuses            map[JobStatus]int64   `json:"statuses"`
	MonthlyApplications []MonthlyApplications `json:"monthlyApplications"`
	TopDepartments      []DepartmentCount     `json:"topDepartments"`
}

type SimilarJob struct {
	Job   JobPosting `json:"job"`
	Score float32    `json:"score"`
}

type ResumeAnalysis struct {
	Score           float64  `json:"score"`
	Strengths       []string `json:"strengths"`
	Suggestions     []string `json:"suggestions"`
	MissingKeywords []string `json:"missingKeywords"`
}

type AnalyzeResumeResponse struct {
	Success  bool            `json:"success"`
	Analysis *ResumeAnalysis `json:"analysis"`
	Text     string          `json:"text"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversationId" validate:"required"`
	Content        string `json:"content" validate:"required"`
}

type CreateConversationRequest struct {
	ParticipantIDs []string `json:"participantIds"`
}

type ChatTurn struct {
	UserMessage Message `json:"userMessage"`
	AIMessage   Message `json:"aiMessage"`
}
