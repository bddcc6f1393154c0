package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/hirehub/internal/models"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrStaleVersion = errors.New("record was modified by another request")
)

type JobRepository interface {
	Create(ctx context.Context, job *models.JobPosting) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.JobPosting, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.JobPosting, error)
	List(ctx context.Context, query models.JobListQuery) (*models.PaginatedJobs, error)
	Update(ctx context.Context, id uuid.UUID, version int, updates map[string]interface{}) (*models.JobPosting, error)
	Delete(ctx context.Context, id uuid.UUID, version int) error
	Stats(ctx context.Context, since time.Time) (*models.JobStats, error)
	EachBatch(ctx context.Context, size int, fn func([]models.JobPosting) error) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *models.JobPosting) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job posting: %w", err)
	}
	return nil
}

func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.JobPosting, error) {
	var job models.JobPosting
	err := r.db.WithContext(ctx).Scopes(Populate).Where("id = ?", id).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job posting %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find job posting: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	if len(ids) == 0 {
		return jobs, nil
	}
	if err := r.db.WithContext(ctx).Scopes(Populate).Where("id IN ?", ids).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to find job postings: %w", err)
	}
	return jobs, nil
}

func (r *jobRepository) List(ctx context.Context, query models.JobListQuery) (*models.PaginatedJobs, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.JobPosting{}).Scopes(JobFilter(query)).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count job postings: %w", err)
	}

	jobs := []models.JobPosting{}
	err := r.db.WithContext(ctx).
		Model(&models.JobPosting{}).
		Scopes(JobFilter(query), Populate, Paginate(query.Page, query.Limit)).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}

	return &models.PaginatedJobs{
		Documents: jobs,
		Total:     total,
		Page:      query.Page,
		Limit:     query.Limit,
		Pages:     PageCount(total, query.Limit),
	}, nil
}

// Update applies updates only when the stored version still matches.
func (r *jobRepository) Update(ctx context.Context, id uuid.UUID, version int, updates map[string]interface{}) (*models.JobPosting, error) {
	updates["version"] = gorm.Expr("version + 1")
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&models.JobPosting{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to update job posting: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, r.missingOrStale(ctx, id)
	}

	return r.FindByID(ctx, id)
}

func (r *jobRepository) Delete(ctx context.Context, id uuid.UUID, version int) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND version = ?", id, version).
		Delete(&models.JobPosting{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete job posting: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, id)
	}

	return nil
}

func (r *jobRepository) missingOrStale(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.JobPosting{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check job posting: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("job posting %s: %w", id, ErrNotFound)
	}
	return fmt.Errorf("job posting %s: %w", id, ErrStaleVersion)
}

func (r *jobRepository) Stats(ctx context.Context, since time.Time) (*models.JobStats, error) {
	db := r.db.WithContext(ctx)

	var statuses []models.StatusCount
	if err := StatusCountsQuery(db).Scan(&statuses).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate statuses: %w", err)
	}

	var monthly []models.MonthlyApplications
	if err := MonthlyApplicationsQuery(db, since).Scan(&monthly).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly applications: %w", err)
	}

	var departments []models.DepartmentCount
	if err := TopDepartmentsQuery(db, topDepartments).Scan(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate departments: %w", err)
	}

	return BuildJobStats(statuses, monthly, departments), nil
}

// EachBatch walks every posting in primary key order. FindInBatches pages on
// id > last id, so an extra ORDER BY would make it skip rows.
func (r *jobRepository) EachBatch(ctx context.Context, size int, fn func([]models.JobPosting) error) error {
	var batch []models.JobPosting
	result := r.db.WithContext(ctx).
		FindInBatches(&batch, size, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		})
	if result.Error != nil {
		return fmt.Errorf("failed to iterate job postings: %w", result.Error)
	}
	return nil
}
