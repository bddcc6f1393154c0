package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeTemporary  JobType = "temporary"
)

type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusPublished JobStatus = "published"
	JobStatusClosed    JobStatus = "closed"
)

// JobStatuses lists every status in display order.
var JobStatuses = []JobStatus{JobStatusDraft, JobStatusPublished, JobStatusClosed}

type JobPosting struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title        string         `gorm:"type:text;not null" json:"title"`
	Department   string         `gorm:"type:text;not null;index" json:"department"`
	Location     string         `gorm:"type:text;not null" json:"location"`
	Type         JobType        `gorm:"type:text;not null" json:"type"`
	Status       JobStatus      `gorm:"type:text;not null;default:'draft';index" json:"status"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Salary       string         `gorm:"type:text" json:"salary,omitempty"`
	Experience   string         `gorm:"type:text" json:"experience,omitempty"`
	Requirements pq.StringArray `gorm:"type:text[]" json:"requirements"`
	// Applications is stored and reported but nothing increments it yet.
	Applications int       `gorm:"not null;default:0" json:"applications"`
	PostedByID   uuid.UUID `gorm:"type:uuid;not null;index" json:"postedById"`
	PostedBy     *User     `gorm:"foreignKey:PostedByID" json:"postedBy,omitempty"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index" json:"companyId"`
	Company      *Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Version      int       `gorm:"not null;default:1" json:"version"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (JobPosting) TableName() string {
	return "job_postings"
}

// PostedDate is the human-readable creation date.
func (j JobPosting) PostedDate() string {
	if j.CreatedAt.IsZero() {
		return ""
	}
	return j.CreatedAt.Format("January 2, 2006")
}

func (j JobPosting) MarshalJSON() ([]byte, error) {
	type alias JobPosting
	return json.Marshal(struct {
		alias
		PostedDate string `json:"postedDate"`
	}{
		alias:      alias(j),
		PostedDate: j.PostedDate(),
	})
}

// IsOwnedBy reports whether userID posted the job. Identifiers compare as strings.
func (j *JobPosting) IsOwnedBy(userID string) bool {
	return j.PostedByID.String() == userID
}

// SearchText is the text embedded for similarity search.
func (j *JobPosting) SearchText() string {
	text := j.Title + "\n" + j.Department + "\n" + j.Location + "\n" + j.Description
	for _, r := range j.Requirements {
		text += "\n" + r
	}
	return text
}
