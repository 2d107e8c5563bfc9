package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"pagefetch/pkg/logger"
	"pagefetch/pkg/ratelimit"
)

// FetchJob represents a single image item to download.
type FetchJob struct {
	URL      string
	Segment  string
	Filename string
	Page     int
	Index    int
}

// FetchResult represents the result of a fetch job.
type FetchResult struct {
	Job      FetchJob
	Success  bool
	Skipped  bool
	Error    error
	Duration time.Duration
	Size     int
}

// ImageFetcher downloads a single image by URL.
type ImageFetcher interface {
	FetchImage(url string) ([]byte, error)
}

// ImageStorage stores downloaded images.
type ImageStorage interface {
	Exists(segment, filename string) bool
	SaveImage(r io.Reader, segment, filename string) error
}

// WorkerPool manages concurrent download workers. It is only used when the
// concurrent extension is enabled; the default run is strictly sequential
// and never constructs a pool.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan FetchJob
	resultQueue chan FetchResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	client      ImageFetcher
	storage     ImageStorage
	limiter     ratelimit.Limiter
	logger      logger.Logger
}

// NewWorkerPool creates a new download worker pool.
func NewWorkerPool(
	numWorkers int,
	client ImageFetcher,
	storage ImageStorage,
	limiter ratelimit.Limiter,
	log logger.Logger,
) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan FetchJob, numWorkers*2),
		resultQueue: make(chan FetchResult, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		client:      client,
		storage:     storage,
		limiter:     limiter,
		logger:      log,
	}
}

// Start launches all workers.
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the job queue, waits for in-flight jobs, and closes the
// result queue.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// Submit adds a new fetch job to the queue.
func (wp *WorkerPool) Submit(job FetchJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// Results returns the result channel for consuming fetch results.
func (wp *WorkerPool) Results() <-chan FetchResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

// processJob handles a single fetch job. Every failure is contained in the
// result; workers never abort the pool.
func (wp *WorkerPool) processJob(job FetchJob, workerID int) FetchResult {
	start := time.Now()
	result := FetchResult{Job: job}

	// Producer already filters existing files, but a concurrent worker may
	// have written the file since the job was queued.
	if wp.storage.Exists(job.Segment, job.Filename) {
		result.Skipped = true
		result.Success = true
		result.Duration = time.Since(start)
		return result
	}

	wp.limiter.Wait()

	data, err := wp.client.FetchImage(job.URL)
	if err != nil {
		result.Error = fmt.Errorf("fetch failed: %w", err)
		result.Duration = time.Since(start)

		wp.logger.WarnWithFields("worker failed to fetch image", map[string]interface{}{
			"worker_id": workerID,
			"segment":   job.Segment,
			"filename":  job.Filename,
			"error":     err.Error(),
		})

		return result
	}

	result.Size = len(data)

	if err := wp.storage.SaveImage(bytes.NewReader(data), job.Segment, job.Filename); err != nil {
		result.Error = fmt.Errorf("save failed: %w", err)
		result.Duration = time.Since(start)

		wp.logger.ErrorWithFields("worker failed to save image", map[string]interface{}{
			"worker_id": workerID,
			"segment":   job.Segment,
			"filename":  job.Filename,
			"error":     err.Error(),
		})

		return result
	}

	result.Success = true
	result.Duration = time.Since(start)

	wp.logger.DebugWithFields("worker completed job", map[string]interface{}{
		"worker_id": workerID,
		"segment":   job.Segment,
		"filename":  job.Filename,
		"size":      result.Size,
		"duration":  result.Duration,
	})

	return result
}
