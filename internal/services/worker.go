package services

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/hirehub/internal/repositories"
)

// Worker keeps the job index in step with the job table in the background.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueIndex(jobID uuid.UUID)
	EnqueueRemove(jobID uuid.UUID)
}

type indexTask struct {
	jobID  uuid.UUID
	remove bool
}

type worker struct {
	jobRepo     repositories.JobRepository
	index       JobIndex
	taskQueue   chan indexTask
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewWorker(
	jobRepo repositories.JobRepository,
	index JobIndex,
	concurrency int,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &worker{
		jobRepo:     jobRepo,
		index:       index,
		taskQueue:   make(chan indexTask, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting index worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processTasks(ctx, i+1)
	}
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping index worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Index worker stopped")
	})
}

// EnqueueIndex implements Worker.
func (w *worker) EnqueueIndex(jobID uuid.UUID) {
	w.enqueue(indexTask{jobID: jobID})
}

// EnqueueRemove implements Worker.
func (w *worker) EnqueueRemove(jobID uuid.UUID) {
	w.enqueue(indexTask{jobID: jobID, remove: true})
}

// enqueue never blocks a request; a dropped task is picked up by the next reindex run.
func (w *worker) enqueue(task indexTask) {
	select {
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, dropping index task for %s\n", task.jobID)
	case w.taskQueue <- task:
	default:
		log.Printf("⚠️  Index queue full, dropping index task for %s\n", task.jobID)
	}
}

func (w *worker) processTasks(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case task := <-w.taskQueue:
			if err := w.handle(ctx, task); err != nil {
				log.Printf("❌ Worker #%d failed to index job %s: %v\n", workerID, task.jobID, err)
			}
		}
	}
}

func (w *worker) handle(ctx context.Context, task indexTask) error {
	if task.remove {
		return w.index.Remove(ctx, task.jobID)
	}

	job, err := w.jobRepo.FindByID(ctx, task.jobID)
	if err != nil {
		return err
	}
	return w.index.Index(ctx, job)
}
