package repositories

import (
	"time"

	"gorm.io/gorm"

	"alfredoptarigan/hirehub/internal/models"
)

// SearchDocument is the expression covered by the full-text index created in
// config.InitDatabase. Queries must use the same expression to hit the index.
const SearchDocument = "job_search_document(title, description, department, location, requirements)"

// JobFilter turns list parameters into WHERE clauses. Empty fields add no constraint.
func JobFilter(q models.JobListQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.Search != "" {
			db = db.Where(SearchDocument+" @@ plainto_tsquery('english', ?)", q.Search)
		}
		if q.Department != "" {
			db = db.Where("department = ?", q.Department)
		}
		if q.Location != "" {
			db = db.Where("location = ?", q.Location)
		}
		if q.Type != "" {
			db = db.Where("type = ?", q.Type)
		}
		if q.Status != "" {
			db = db.Where("status = ?", q.Status)
		}
		return db
	}
}

// Populate loads the poster's name/email and the company's name/logo.
func Populate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("PostedBy", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Preload("Company", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "logo")
		})
}

// Paginate applies a 1-based page of the given size.
func Paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

func PageCount(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

const topDepartments = 5

// StatusCountsQuery counts postings per status.
func StatusCountsQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&models.JobPosting{}).
		Select("status, count(*) AS count").
		Group("status")
}

// MonthlyApplicationsQuery sums applications per calendar month for postings
// created on or after since.
func MonthlyApplicationsQuery(db *gorm.DB, since time.Time) *gorm.DB {
	return db.Model(&models.JobPosting{}).
		Select("to_char(date_trunc('month', created_at), 'YYYY-MM') AS month, coalesce(sum(applications), 0) AS applications, count(*) AS postings").
		Where("created_at >= ?", since).
		Group("month").
		Order("month ASC")
}

// TopDepartmentsQuery returns the n departments with the most postings.
func TopDepartmentsQuery(db *gorm.DB, n int) *gorm.DB {
	return db.Model(&models.JobPosting{}).
		Select("department, count(*) AS count").
		Group("department").
		Order("count DESC, department ASC").
		Limit(n)
}

// BuildJobStats merges the three aggregation results into one response.
func BuildJobStats(statuses []models.StatusCount, monthly []models.MonthlyApplications, departments []models.DepartmentCount) *models.JobStats {
	stats := &models.JobStats{
		Statuses:            make(map[models.JobStatus]int64, len(models.JobStatuses)),
		MonthlyApplications: monthly,
		TopDepartments:      departments,
	}
	for _, s := range models.JobStatuses {
		stats.Statuses[s] = 0
	}
	for _, s := range statuses {
		stats.Statuses[s.Status] += s.Count
		stats.Total += s.Count
	}
	if stats.MonthlyApplications == nil {
		stats.MonthlyApplications = []models.MonthlyApplications{}
	}
	if stats.TopDepartments == nil {
		stats.TopDepartments = []models.DepartmentCount{}
	}
	return stats
}
