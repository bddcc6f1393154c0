package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"alfredoptarigan/hirehub/internal/models"
	"alfredoptarigan/hirehub/internal/repositories"
)

// stubCompleter answers with fn and records every request.
type stubCompleter struct {
	mu       sync.Mutex
	requests []CompletionRequest
	fn       func(ctx context.Context, call int, req CompletionRequest) (string, error)
}

func (s *stubCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	call := len(s.requests)
	s.mu.Unlock()
	return s.fn(ctx, call, req)
}

func (s *stubCompleter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func replyWith(text string) *stubCompleter {
	return &stubCompleter{fn: func(context.Context, int, CompletionRequest) (string, error) {
		return text, nil
	}}
}

func failWith(err error) *stubCompleter {
	return &stubCompleter{fn: func(context.Context, int, CompletionRequest) (string, error) {
		return "", err
	}}
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*models.JobPosting
}

func newFakeJobRepo(jobs ...*models.JobPosting) *fakeJobRepo {
	r := &fakeJobRepo{jobs: make(map[uuid.UUID]*models.JobPosting)}
	for _, j := range jobs {
		r.jobs[j.ID] = j
	}
	return r
}

func (r *fakeJobRepo) Create(_ context.Context, job *models.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = job.CreatedAt
	}
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *fakeJobRepo) FindByID(_ context.Context, id uuid.UUID) (*models.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *fakeJobRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.JobPosting{}
	for _, id := range ids {
		if job, ok := r.jobs[id]; ok {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) List(_ context.Context, query models.JobListQuery) (*models.PaginatedJobs, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.JobPosting, 0, len(r.jobs))
	for _, job := range r.jobs {
		if query.Status != "" && string(job.Status) != query.Status {
			continue
		}
		all = append(all, *job)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := (query.Page - 1) * query.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + query.Limit
	if end > len(all) {
		end = len(all)
	}
	return &models.PaginatedJobs{
		Documents: all[start:end],
		Total:     int64(len(all)),
		Page:      query.Page,
		Limit:     query.Limit,
		Pages:     repositories.PageCount(int64(len(all)), query.Limit),
	}, nil
}

func (r *fakeJobRepo) Update(_ context.Context, id uuid.UUID, version int, updates map[string]interface{}) (*models.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if job.Version != version {
		return nil, repositories.ErrStaleVersion
	}
	for column, value := range updates {
		switch column {
		case "title":
			job.Title = value.(string)
		case "department":
			job.Department = value.(string)
		case "location":
			job.Location = value.(string)
		case "type":
			job.Type = models.JobType(value.(string))
		case "status":
			job.Status = models.JobStatus(value.(string))
		case "description":
			job.Description = value.(string)
		case "salary":
			job.Salary = value.(string)
		case "experience":
			job.Experience = value.(string)
		case "requirements":
			job.Requirements = value.(pq.StringArray)
		}
	}
	job.Version++
	job.UpdatedAt = time.Now()
	cp := *job
	return &cp, nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id uuid.UUID, version int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if job.Version != version {
		return repositories.ErrStaleVersion
	}
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) Stats(_ context.Context, _ time.Time) (*models.JobStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[models.JobStatus]int64{}
	for _, job := range r.jobs {
		counts[job.Status]++
	}
	statuses := make([]models.StatusCount, 0, len(counts))
	for status, n := range counts {
		statuses = append(statuses, models.StatusCount{Status: status, Count: n})
	}
	return repositories.BuildJobStats(statuses, nil, nil), nil
}

func (r *fakeJobRepo) EachBatch(_ context.Context, _ int, fn func([]models.JobPosting) error) error {
	r.mu.Lock()
	batch := make([]models.JobPosting, 0, len(r.jobs))
	for _, job := range r.jobs {
		batch = append(batch, *job)
	}
	r.mu.Unlock()
	return fn(batch)
}

type recordingWorker struct {
	mu      sync.Mutex
	indexed []uuid.UUID
	removed []uuid.UUID
}

func (w *recordingWorker) Start(context.Context) {}
func (w *recordingWorker) Stop()                 {}

func (w *recordingWorker) EnqueueIndex(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.indexed = append(w.indexed, id)
}

func (w *recordingWorker) EnqueueRemove(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.removed = append(w.removed, id)
}

type fakeJobIndex struct {
	matches []IndexMatch
}

func (f *fakeJobIndex) InitCollection(context.Context) error            { return nil }
func (f *fakeJobIndex) Index(context.Context, *models.JobPosting) error { return nil }
func (f *fakeJobIndex) Remove(context.Context, uuid.UUID) error         { return nil }

func (f *fakeJobIndex) Similar(_ context.Context, _ *models.JobPosting, limit int) ([]IndexMatch, error) {
	if limit < len(f.matches) {
		return f.matches[:limit], nil
	}
	return f.matches, nil
}
