package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"alfredoptarigan/hirehub/internal/apperrors"
	"alfredoptarigan/hirehub/internal/models"
	"alfredoptarigan/hirehub/internal/repositories"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	statsWindowMonths = 6
)

type JobService interface {
	Create(ctx context.Context, principal *models.Principal, req *models.CreateJobRequest) (*models.JobPosting, error)
	Get(ctx context.Context, id string) (*models.JobPosting, error)
	List(ctx context.Context, query models.JobListQuery) (*models.PaginatedJobs, error)
	Update(ctx context.Context, principal *models.Principal, id string, expectedVersion *int, req *models.UpdateJobRequest) (*models.JobPosting, error)
	Delete(ctx context.Context, principal *models.Principal, id string, expectedVersion *int) error
	Stats(ctx context.Context) (*models.JobStats, error)
	Similar(ctx context.Context, id string, limit int) ([]models.SimilarJob, error)
}

type jobService struct {
	jobRepo repositories.JobRepository
	index   JobIndex
	indexer Worker
	now     func() time.Time
}

func NewJobService(jobRepo repositories.JobRepository, index JobIndex, indexer Worker) JobService {
	return &jobService{
		jobRepo: jobRepo,
		index:   index,
		indexer: indexer,
		now:     time.Now,
	}
}

// ParsePagination validates page and limit query values. Empty values take the defaults.
func ParsePagination(pageStr, limitStr string) (int, int, error) {
	page, err := parsePositive("page", pageStr, DefaultPage)
	if err != nil {
		return 0, 0, err
	}
	limit, err := parsePositive("limit", limitStr, DefaultLimit)
	if err != nil {
		return 0, 0, err
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit, nil
}

func parsePositive(field, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperrors.Validation("Invalid pagination parameters",
			apperrors.FieldError{Field: field, Message: "must be a positive integer"})
	}
	return n, nil
}

// CleanRequirements trims entries and drops the ones left empty.
func CleanRequirements(reqs []string) []string {
	cleaned := make([]string, 0, len(reqs))
	for _, r := range reqs {
		if r = strings.TrimSpace(r); r != "" {
			cleaned = append(cleaned, r)
		}
	}
	return cleaned
}

func (s *jobService) Create(ctx context.Context, principal *models.Principal, req *models.CreateJobRequest) (*models.JobPosting, error) {
	trimCreateRequest(req)
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	postedBy, err := uuid.Parse(principal.UserID)
	if err != nil {
		return nil, &apperrors.AuthenticationError{Message: "Invalid user identity"}
	}
	companyID, err := uuid.Parse(principal.CompanyID)
	if err != nil {
		return nil, apperrors.Validation("Validation failed",
			apperrors.FieldError{Field: "company", Message: "is required"})
	}

	status := models.JobStatus(req.Status)
	if status == "" {
		status = models.JobStatusDraft
	}

	now := s.now()
	job := &models.JobPosting{
		ID:           uuid.New(),
		Title:        req.Title,
		Department:   req.Department,
		Location:     req.Location,
		Type:         req.Type,
		Status:       status,
		Description:  req.Description,
		Salary:       req.Salary,
		Experience:   req.Experience,
		Requirements: CleanRequirements(req.Requirements),
		PostedByID:   postedBy,
		CompanyID:    companyID,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	log.Printf("📝 Job posting %s created by %s\n", job.ID, principal.UserID)
	s.indexer.EnqueueIndex(job.ID)

	return job, nil
}

func (s *jobService) Get(ctx context.Context, id string) (*models.JobPosting, error) {
	jobID, err := parseJobID(id)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return job, nil
}

func (s *jobService) List(ctx context.Context, query models.JobListQuery) (*models.PaginatedJobs, error) {
	if query.Page < 1 {
		query.Page = DefaultPage
	}
	if query.Limit < 1 {
		query.Limit = DefaultLimit
	}
	return s.jobRepo.List(ctx, query)
}

func (s *jobService) Update(ctx context.Context, principal *models.Principal, id string, expectedVersion *int, req *models.UpdateJobRequest) (*models.JobPosting, error) {
	job, err := s.authorizedJob(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	trimUpdateRequest(req)
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	updates := buildUpdates(req)
	if len(updates) == 0 {
		return job, nil
	}

	version := job.Version
	if expectedVersion != nil {
		version = *expectedVersion
	}

	updated, err := s.jobRepo.Update(ctx, job.ID, version, updates)
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.indexer.EnqueueIndex(updated.ID)
	return updated, nil
}

func (s *jobService) Delete(ctx context.Context, principal *models.Principal, id string, expectedVersion *int) error {
	job, err := s.authorizedJob(ctx, principal, id)
	if err != nil {
		return err
	}

	version := job.Version
	if expectedVersion != nil {
		version = *expectedVersion
	}

	if err := s.jobRepo.Delete(ctx, job.ID, version); err != nil {
		return mapRepoError(err)
	}

	log.Printf("🗑️  Job posting %s deleted by %s\n", job.ID, principal.UserID)
	s.indexer.EnqueueRemove(job.ID)
	return nil
}

func (s *jobService) Stats(ctx context.Context) (*models.JobStats, error) {
	since := s.now().AddDate(0, -statsWindowMonths, 0)
	return s.jobRepo.Stats(ctx, since)
}

func (s *jobService) Similar(ctx context.Context, id string, limit int) ([]models.SimilarJob, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	matches, err := s.index.Similar(ctx, job, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.JobID)
	}
	jobs, err := s.jobRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.JobPosting, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}

	similar := make([]models.SimilarJob, 0, len(matches))
	for _, m := range matches {
		if j, ok := byID[m.JobID]; ok && j.Status == models.JobStatusPublished {
			similar = append(similar, models.SimilarJob{Job: j, Score: m.Score})
		}
	}
	return similar, nil
}

// authorizedJob loads the job and checks the caller is its poster or an admin.
func (s *jobService) authorizedJob(ctx context.Context, principal *models.Principal, id string) (*models.JobPosting, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if principal == nil || !(job.IsOwnedBy(principal.UserID) || principal.IsAdmin()) {
		return nil, &apperrors.AuthorizationError{Message: "Not authorized to modify this job posting"}
	}
	return job, nil
}

func parseJobID(id string) (uuid.UUID, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperrors.Validation("Invalid job posting ID format",
			apperrors.FieldError{Field: "id", Message: "must be a UUID"})
	}
	return jobID, nil
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NotFound("Job posting")
	case errors.Is(err, repositories.ErrStaleVersion):
		return &apperrors.ConflictError{Message: "Job posting was modified by another request, reload and retry"}
	}
	return err
}

func trimCreateRequest(req *models.CreateJobRequest) {
	req.Title = strings.TrimSpace(req.Title)
	req.Department = strings.TrimSpace(req.Department)
	req.Location = strings.TrimSpace(req.Location)
	req.Type = models.JobType(strings.TrimSpace(string(req.Type)))
	req.Status = strings.TrimSpace(req.Status)
	req.Salary = strings.TrimSpace(req.Salary)
	req.Experience = strings.TrimSpace(req.Experience)
}

func trimUpdateRequest(req *models.UpdateJobRequest) {
	for _, field := range []*string{
		req.Title, req.Department, req.Location, req.Type,
		req.Status, req.Salary, req.Experience,
	} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

// buildUpdates maps only the fields present in req to column updates.
func buildUpdates(req *models.UpdateJobRequest) map[string]interface{} {
	updates := map[string]interface{}{}
	set := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}

	set("title", req.Title)
	set("department", req.Department)
	set("location", req.Location)
	set("type", req.Type)
	set("status", req.Status)
	set("description", req.Description)
	set("salary", req.Salary)
	set("experience", req.Experience)

	if req.Requirements != nil {
		updates["requirements"] = pq.StringArray(CleanRequirements(*req.Requirements))
	}

	return updates
}
