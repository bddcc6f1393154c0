package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"alfredoptarigan/hirehub/internal/models"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestJobFilter(t *testing.T) {
	db := dryRunDB(t)

	tests := []struct {
		name     string
		query    models.JobListQuery
		contains []string
		missing  []string
		vars     []interface{}
	}{
		{
			name:    "no filters",
			query:   models.JobListQuery{},
			missing: []string{"WHERE"},
		},
		{
			name:     "scalar filters",
			query:    models.JobListQuery{Department: "Engineering", Type: "full-time"},
			contains: []string{"department = $", "type = $"},
			missing:  []string{"location =", "status =", "plainto_tsquery"},
			vars:     []interface{}{"Engineering", "full-time"},
		},
		{
			name:     "full text search",
			query:    models.JobListQuery{Search: "golang", Status: "published"},
			contains: []string{SearchDocument + " @@ plainto_tsquery('english', $", "status = $"},
			vars:     []interface{}{"golang", "published"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := db.Model(&models.JobPosting{}).
				Scopes(JobFilter(tt.query)).
				Find(&[]models.JobPosting{}).Statement

			sql := stmt.SQL.String()
			for _, fragment := range tt.contains {
				assert.Contains(t, sql, fragment)
			}
			for _, fragment := range tt.missing {
				assert.NotContains(t, sql, fragment)
			}
			assert.Equal(t, len(tt.vars), len(stmt.Vars))
			for _, v := range tt.vars {
				assert.Contains(t, stmt.Vars, v)
			}
		})
	}
}

func TestStatsQueries(t *testing.T) {
	db := dryRunDB(t)
	since := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("statuses", func(t *testing.T) {
		stmt := StatusCountsQuery(db).Find(&[]models.StatusCount{}).Statement
		sql := stmt.SQL.String()
		assert.Contains(t, sql, "count(*) AS count")
		assert.Contains(t, sql, "GROUP BY")
		assert.Contains(t, sql, "status")
		assert.NotContains(t, sql, "WHERE")
	})

	t.Run("monthly window", func(t *testing.T) {
		stmt := MonthlyApplicationsQuery(db, since).Find(&[]models.MonthlyApplications{}).Statement
		sql := stmt.SQL.String()
		assert.Contains(t, sql, "date_trunc('month', created_at)")
		assert.Contains(t, sql, "coalesce(sum(applications), 0) AS applications")
		assert.Contains(t, sql, "created_at >= $1")
		assert.Regexp(t, `GROUP BY "?month"?`, sql)
		assert.Contains(t, sql, "ORDER BY month ASC")
		require.Len(t, stmt.Vars, 1)
		assert.Equal(t, since, stmt.Vars[0])
	})

	t.Run("top departments", func(t *testing.T) {
		stmt := TopDepartmentsQuery(db, topDepartments).Find(&[]models.DepartmentCount{}).Statement
		sql := stmt.SQL.String()
		assert.Regexp(t, `GROUP BY "?department"?`, sql)
		assert.Contains(t, sql, "ORDER BY count DESC, department ASC")
		assert.Contains(t, sql, "LIMIT")
		assert.NotContains(t, sql, "created_at")
		if len(stmt.Vars) > 0 {
			assert.EqualValues(t, 5, stmt.Vars[len(stmt.Vars)-1])
		} else {
			assert.Contains(t, sql, "LIMIT 5")
		}
	})
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 0, PageCount(5, 0))
}

func TestBuildJobStats(t *testing.T) {
	stats := BuildJobStats([]models.StatusCount{
		{Status: models.JobStatusDraft, Count: 2},
		{Status: models.JobStatusPublished, Count: 3},
		{Status: models.JobStatusClosed, Count: 1},
	}, nil, []models.DepartmentCount{{Department: "Engineering", Count: 4}})

	assert.Equal(t, int64(6), stats.Total)
	assert.Equal(t, map[models.JobStatus]int64{
		models.JobStatusDraft:     2,
		models.JobStatusPublished: 3,
		models.JobStatusClosed:    1,
	}, stats.Statuses)
	assert.NotNil(t, stats.MonthlyApplications)
	assert.Len(t, stats.TopDepartments, 1)
}

func TestBuildJobStatsEmpty(t *testing.T) {
	stats := BuildJobStats(nil, nil, nil)

	assert.Zero(t, stats.Total)
	assert.Len(t, stats.Statuses, 3)
	assert.Empty(t, stats.TopDepartments)
}
