package queue

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Worker processes jobs from the queue and runs recurring scheduled tasks
type Worker struct {
	redis      *RedisClient
	handlers   map[JobType]JobHandler
	numWorkers int
	wg         sync.WaitGroup
	quit       chan struct{}
	scheduler  *gocron.Scheduler
}

// NewWorker creates a new worker
func NewWorker(redis *RedisClient, numWorkers int) *Worker {
	return &Worker{
		redis:      redis,
		handlers:   make(map[JobType]JobHandler),
		numWorkers: numWorkers,
		quit:       make(chan struct{}),
		scheduler:  gocron.NewScheduler(time.UTC),
	}
}

// RegisterHandler registers a handler for a job type
func (w *Worker) RegisterHandler(jobType JobType, handler JobHandler) {
	w.handlers[jobType] = handler
}

// ScheduleRecurring runs fn on the given interval for as long as the worker
// is running
func (w *Worker) ScheduleRecurring(name string, interval time.Duration, fn func()) {
	if _, err := w.scheduler.Every(interval).Do(fn); err != nil {
		log.Printf("Failed to schedule recurring task %s: %v", name, err)
		return
	}
	log.Printf("Scheduled recurring task %s every %s", name, interval)
}

// Start starts the worker goroutines and the recurring-task scheduler
func (w *Worker) Start() {
	log.Printf("Starting %d queue workers", w.numWorkers)

	for i := 0; i < w.numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}

	w.scheduler.StartAsync()
}

// Stop stops the worker
func (w *Worker) Stop() {
	log.Println("Stopping queue workers")
	close(w.quit)
	w.wg.Wait()
	w.scheduler.Stop()
}

// process consumes jobs until the worker is stopped
func (w *Worker) process(workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.quit:
			log.Printf("Worker %d stopped", workerID)
			return
		default:
			job, err := w.redis.Dequeue(1 * time.Second)
			if err != nil {
				log.Printf("Error dequeueing job: %v", err)
				time.Sleep(1 * time.Second)
				continue
			}
			if job == nil {
				continue
			}

			handler, ok := w.handlers[job.Type]
			if !ok {
				log.Printf("No handler registered for job type %s", job.Type)
				continue
			}

			if err := handler(context.Background(), *job); err != nil {
				log.Printf("Job %s (%s) failed: %v", job.ID, job.Type, err)
				w.redis.Fail(job, err)
				continue
			}
			w.redis.Complete(job)
		}
	}
}
