package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/bwrigley/docoutline/internal/artifact"
	"github.com/bwrigley/docoutline/internal/assemble"
	"github.com/bwrigley/docoutline/internal/cache"
	"github.com/bwrigley/docoutline/internal/config"
	"github.com/bwrigley/docoutline/internal/outline"
	"github.com/bwrigley/docoutline/internal/parser"
)

// Orchestrator manages the document extraction pipeline.
type Orchestrator struct {
	jobs      *JobStore
	queue     chan *Job
	assembler *assemble.Assembler
	store     *artifact.Store
	results   *cache.ResultCache
	stats     *ProcessingStats
	log       *slog.Logger
	cfg       config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator wires the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, store *artifact.Store, results *cache.ResultCache, log *slog.Logger) *Orchestrator {
	asmCfg := assemble.DefaultConfig()
	asmCfg.MinFontSize = cfg.MinFontSize
	asmCfg.MaxOutlineDepth = cfg.MaxOutlineDepth
	asmCfg.Normalize.MinHeadingLength = cfg.MinHeadingLength
	asmCfg.Normalize.MaxHeadingLength = cfg.MaxHeadingLength
	asmCfg.Normalize.PunctRatioThreshold = cfg.PunctRatioThreshold
	asmCfg.Classify.ConfidenceThreshold = cfg.ConfidenceThreshold
	asmCfg.Classify.FontSizeH1 = cfg.FontSizeH1
	asmCfg.Classify.FontSizeH2 = cfg.FontSizeH2
	asmCfg.Classify.FontSizeH3 = cfg.FontSizeH3

	return &Orchestrator{
		jobs:      NewJobStore(cfg.JobTTL),
		queue:     make(chan *Job, cfg.MaxQueueSize),
		assembler: assemble.New(asmCfg),
		store:     store,
		results:   results,
		stats:     NewProcessingStats(time.Hour),
		log:       log,
		cfg:       cfg,
	}
}

// Start launches worker goroutines. Worker count never exceeds the machine's
// logical CPUs; extraction is CPU bound.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	workers := min(o.cfg.WorkerCount, runtime.NumCPU())
	if workers < 1 {
		workers = 1
	}

	retry := RetryPolicy{
		Attempts: uint(o.cfg.MaxRetries),
		Base:     o.cfg.RetryBackoffBase,
		Factor:   o.cfg.RetryBackoffFactor,
	}

	for range workers {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.assembler, o.store, o.results, o.stats, retry, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. The result cache and artifact
// store are owned by the caller and stay usable.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// NewJob registers a queued job for a file.
func (o *Orchestrator) NewJob(filename string, data []byte) *Job {
	now := time.Now()
	job := &Job{
		ID:        generateULID(),
		DocID:     generateULID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)
	return job
}

// Submit queues a job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// ProcessSync extracts an outline inline, bypassing the queue. It shares the
// result cache, retry policy, and latency stats with the async workers.
func (o *Orchestrator) ProcessSync(ctx context.Context, filename string, data []byte) (*outline.Result, error) {
	started := time.Now()

	key := cache.Key(data)
	if res, ok := o.results.Get(key); ok {
		return res, nil
	}

	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}

	retry := RetryPolicy{
		Attempts: uint(o.cfg.MaxRetries),
		Base:     o.cfg.RetryBackoffBase,
		Factor:   o.cfg.RetryBackoffFactor,
	}

	var doc *outline.Document
	err = retry.Do(ctx, func() error {
		var parseErr error
		doc, parseErr = p.Parse(bytes.NewReader(data), filename)
		return parseErr
	})
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	res := o.assembler.Assemble(doc)
	o.results.Put(key, res)
	o.stats.Record(time.Since(started).Milliseconds())
	return res, nil
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Assembler exposes the shared assembler for synchronous extraction.
func (o *Orchestrator) Assembler() *assemble.Assembler {
	return o.assembler
}

// Store exposes the artifact store for document handlers.
func (o *Orchestrator) Store() *artifact.Store {
	return o.store
}

// Results exposes the outline cache for synchronous extraction.
func (o *Orchestrator) Results() *cache.ResultCache {
	return o.results
}

// Stats returns the processing latency snapshot.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}
