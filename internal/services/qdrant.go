package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"alfredoptarigan/hirehub/internal/models"
)

type IndexMatch struct {
	JobID uuid.UUID
	Score float32
}

// JobIndex is a similarity index over job postings.
type JobIndex interface {
	InitCollection(ctx context.Context) error
	Index(ctx context.Context, job *models.JobPosting) error
	Remove(ctx context.Context, jobID uuid.UUID) error
	Similar(ctx context.Context, job *models.JobPosting, limit int) ([]IndexMatch, error)
}

type qdrantJobIndex struct {
	client         *qdrant.Client
	embedder       Embedder
	collectionName string
	vectorSize     uint64
}

func NewQdrantJobIndex(urlStr, apiKey, collectionName string, embedder Embedder) (JobIndex, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantJobIndex{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004
	}, nil
}

func (q *qdrantJobIndex) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// Index upserts the posting's embedding. The point id is the posting id, so
// reindexing replaces the previous point.
func (q *qdrantJobIndex) Index(ctx context.Context, job *models.JobPosting) error {
	embedding, err := q.embedder.Embed(ctx, job.SearchText())
	if err != nil {
		return fmt.Errorf("failed to embed job posting: %w", err)
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(job.ID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"job_id":     job.ID.String(),
			"status":     string(job.Status),
			"department": job.Department,
			"title":      job.Title,
		}),
	}

	_, err = q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

func (q *qdrantJobIndex) Remove(ctx context.Context, jobID uuid.UUID) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("job_id", jobID.String()),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete job posting point: %w", err)
	}

	return nil
}

func (q *qdrantJobIndex) Similar(ctx context.Context, job *models.JobPosting, limit int) ([]IndexMatch, error) {
	embedding, err := q.embedder.Embed(ctx, job.SearchText())
	if err != nil {
		return nil, fmt.Errorf("failed to embed job posting: %w", err)
	}

	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("status", string(models.JobStatusPublished)),
		},
		MustNot: []*qdrant.Condition{
			qdrant.NewMatch("job_id", job.ID.String()),
		},
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	matches := make([]IndexMatch, 0, len(points))
	for _, point := range points {
		raw, ok := point.Payload["job_id"]
		if !ok {
			continue
		}
		val, ok := raw.GetKind().(*qdrant.Value_StringValue)
		if !ok {
			continue
		}
		id, err := uuid.Parse(val.StringValue)
		if err != nil {
			continue
		}
		matches = append(matches, IndexMatch{JobID: id, Score: point.Score})
	}

	return matches, nil
}

type noopJobIndex struct{}

// NewNoopJobIndex is used when no Qdrant URL is configured.
func NewNoopJobIndex() JobIndex {
	return noopJobIndex{}
}

func (noopJobIndex) InitCollection(context.Context) error { return nil }
func (noopJobIndex) Index(context.Context, *models.JobPosting) error { return nil }
func (noopJobIndex) Remove(context.Context, uuid.UUID) error { return nil }
func (noopJobIndex) Similar(context.Context, *models.JobPosting, int) ([]IndexMatch, error) {
	return []IndexMatch{}, nil
}
