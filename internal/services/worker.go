package services

import (
	"context"
	"log"
	"sync"
	"time"

	"alfredoptarigan/ai-interviewer/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(evaluationID string)
}

type worker struct {
	evalRepo     repositories.EvaluationRepository
	processor    EvaluationProcessor
	jobQueue     chan string
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once

	// ids sitting in jobQueue and not yet picked up by a worker
	mu      sync.Mutex
	inQueue map[string]struct{}
}

func NewWorker(
	evalRepo repositories.EvaluationRepository,
	processor EvaluationProcessor,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}

	return &worker{
		evalRepo:     evalRepo,
		processor:    processor,
		jobQueue:     make(chan string, 100),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
		inQueue:      make(map[string]struct{}),
	}
}

func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting evaluation worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	log.Println("✅ Worker started successfully")
}

func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Worker stopped")
	})
}

// EnqueueJob never blocks. An id already waiting in the queue is skipped, and
// when the queue is full the evaluation stays queued in the database for the
// poller to pick up later.
func (w *worker) EnqueueJob(evaluationID string) {
	select {
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue evaluation %s\n", evaluationID)
		return
	default:
	}

	if w.tryEnqueue(evaluationID) {
		log.Printf("📥 Evaluation %s enqueued\n", evaluationID)
	}
}

func (w *worker) tryEnqueue(evaluationID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.inQueue[evaluationID]; ok {
		return false
	}

	select {
	case w.jobQueue <- evaluationID:
		w.inQueue[evaluationID] = struct{}{}
		return true
	default:
		log.Printf("⚠️  Job queue full, evaluation %s left for the poller\n", evaluationID)
		return false
	}
}

func (w *worker) dequeued(evaluationID string) {
	w.mu.Lock()
	delete(w.inQueue, evaluationID)
	w.mu.Unlock()
}

// queued reports how many ids are waiting in the queue.
func (w *worker) queued() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.inQueue)
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			log.Printf("👷 Worker #%d context cancelled\n", workerID)
			return
		case evaluationID := <-w.jobQueue:
			w.dequeued(evaluationID)
			log.Printf("👷 Worker #%d processing evaluation %s\n", workerID, evaluationID)
			if err := w.processor.ProcessEvaluation(ctx, evaluationID); err != nil {
				log.Printf("❌ Worker #%d failed to process evaluation %s: %v\n", workerID, evaluationID, err)
			} else {
				log.Printf("✅ Worker #%d finished evaluation %s\n", workerID, evaluationID)
			}
		}
	}
}

// pollPendingJobs re-enqueues evaluations left queued, e.g. after a restart.
func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Pending evaluations poller stopped")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.evalRepo.FindPendingJobs(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending evaluations: %v\n", err)
				continue
			}

			if len(pending) > 0 {
				log.Printf("📋 Found %d pending evaluations\n", len(pending))
			}

			for _, eval := range pending {
				w.tryEnqueue(eval.EvaluationID)
			}
		}
	}
}
