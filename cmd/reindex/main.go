package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"alfredoptarigan/hirehub/internal/config"
	"alfredoptarigan/hirehub/internal/models"
	"alfredoptarigan/hirehub/internal/repositories"
	"alfredoptarigan/hirehub/internal/services"
)

func main() {
	batchSize := flag.Int("batch", 100, "number of job postings loaded per batch")
	flag.Parse()

	log.Println("🚀 Starting job index rebuild...")

	// Load configuration
	cfg := config.Load()
	if cfg.Qdrant.URL == "" {
		log.Fatalf("❌ QDRANT_URL is not set, nothing to index")
	}

	ctx := context.Background()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	jobRepo := repositories.NewJobRepository(db)

	// Initialize services
	geminiService, err := services.NewGeminiService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("❌ Failed to initialize AI provider: %v", err)
	}

	jobIndex, err := services.NewQdrantJobIndex(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := jobIndex.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	successCount := 0
	failCount := 0

	err = jobRepo.EachBatch(ctx, *batchSize, func(jobs []models.JobPosting) error {
		for i := range jobs {
			job := &jobs[i]
			if err := jobIndex.Index(ctx, job); err != nil {
				log.Printf("   ❌ Failed to index %s (%s): %v", job.ID, job.Title, err)
				failCount++
				continue
			}
			successCount++
		}
		log.Printf("   📊 Progress: %d indexed, %d failed", successCount, failCount)
		return nil
	})
	if err != nil {
		log.Fatalf("❌ Failed to read job postings: %v", err)
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Reindex Summary:")
	log.Printf("   ✅ Indexed: %d job postings", successCount)
	log.Printf("   ❌ Failed: %d job postings", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some job postings failed to index. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All job postings indexed successfully!")
}
