package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Redis key names
const (
	jobsQueueKey   = "queue:jobs"
	delayedJobsKey = "delayed:jobs"
)

// RedisClient is a redis-backed job queue. Jobs are mirrored into the
// database for auditability; redis carries the dispatch.
type RedisClient struct {
	client *redis.Client
	db     *gorm.DB
	ctx    context.Context
	quit   chan struct{}
}

// NewRedisClient creates a new redis queue client
func NewRedisClient(client *redis.Client, db *gorm.DB) *RedisClient {
	r := &RedisClient{
		client: client,
		db:     db,
		ctx:    context.Background(),
		quit:   make(chan struct{}),
	}

	// Move due delayed jobs back onto the main queue
	go r.processDelayedJobs()

	return r
}

// Close stops the delayed-job mover and closes the redis connection
func (r *RedisClient) Close() error {
	close(r.quit)
	return r.client.Close()
}

// Enqueue persists a job and pushes it onto the queue
func (r *RedisClient) Enqueue(jobType JobType, payload interface{}) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := Job{
		ID:         uuid.New(),
		Type:       jobType,
		Payload:    payloadBytes,
		Status:     JobStatusPending,
		MaxRetries: 3,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := r.db.Create(&job).Error; err != nil {
		return "", fmt.Errorf("failed to save job: %w", err)
	}

	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := r.client.LPush(r.ctx, jobsQueueKey, data).Err(); err != nil {
		return "", fmt.Errorf("failed to push job to queue: %w", err)
	}

	return job.ID.String(), nil
}

// Dequeue blocks up to timeout waiting for the next job. Returns nil when
// the queue stays empty.
func (r *RedisClient) Dequeue(timeout time.Duration) (*Job, error) {
	result, err := r.client.BRPop(r.ctx, timeout, jobsQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pop job from queue: %w", err)
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	r.updateJobStatus(&job, JobStatusProcessing, "")
	return &job, nil
}

// Complete marks a job as successfully processed
func (r *RedisClient) Complete(job *Job) {
	r.updateJobStatus(job, JobStatusCompleted, "")
}

// Fail records a failed attempt. Jobs with retries left are re-queued with
// a growing delay; exhausted jobs are marked failed.
func (r *RedisClient) Fail(job *Job, jobErr error) {
	job.RetryCount++
	if job.RetryCount > job.MaxRetries {
		r.updateJobStatus(job, JobStatusFailed, jobErr.Error())
		log.Printf("Job %s failed permanently after %d attempts: %v", job.ID, job.RetryCount, jobErr)
		return
	}

	r.updateJobStatus(job, JobStatusPending, jobErr.Error())

	delay := time.Duration(job.RetryCount*job.RetryCount) * 10 * time.Second
	data, err := json.Marshal(job)
	if err != nil {
		log.Printf("Failed to marshal job %s for retry: %v", job.ID, err)
		return
	}

	readyAt := float64(time.Now().Add(delay).Unix())
	if err := r.client.ZAdd(r.ctx, delayedJobsKey, &redis.Z{Score: readyAt, Member: data}).Err(); err != nil {
		log.Printf("Failed to schedule retry for job %s: %v", job.ID, err)
	}
}

// processDelayedJobs periodically moves due jobs from the delayed set onto
// the main queue until the client is closed
func (r *RedisClient) processDelayedJobs() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
		}

		now := strconv.FormatInt(time.Now().Unix(), 10)
		jobs, err := r.client.ZRangeByScore(r.ctx, delayedJobsKey, &redis.ZRangeBy{
			Min: "-inf",
			Max: now,
		}).Result()
		if err != nil {
			log.Printf("Error reading delayed jobs: %v", err)
			continue
		}

		for _, data := range jobs {
			if err := r.client.LPush(r.ctx, jobsQueueKey, data).Err(); err != nil {
				log.Printf("Error re-queueing delayed job: %v", err)
				continue
			}
			r.client.ZRem(r.ctx, delayedJobsKey, data)
		}
	}
}

func (r *RedisClient) updateJobStatus(job *Job, status JobStatus, errMsg string) {
	job.Status = status
	job.UpdatedAt = time.Now()
	job.Error = errMsg

	updates := map[string]interface{}{
		"status":      status,
		"retry_count": job.RetryCount,
		"error":       errMsg,
		"updated_at":  job.UpdatedAt,
	}
	if err := r.db.Model(&Job{}).Where("id = ?", job.ID).Updates(updates).Error; err != nil {
		log.Printf("Failed to update job %s status: %v", job.ID, err)
	}
}
