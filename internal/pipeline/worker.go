package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwrigley/docoutline/internal/artifact"
	"github.com/bwrigley/docoutline/internal/assemble"
	"github.com/bwrigley/docoutline/internal/cache"
	"github.com/bwrigley/docoutline/internal/outline"
	"github.com/bwrigley/docoutline/internal/parser"
)

// Worker processes a single document job.
type Worker struct {
	assembler *assemble.Assembler
	store     *artifact.Store
	results   *cache.ResultCache
	stats     *ProcessingStats
	retry     RetryPolicy
	log       *slog.Logger
}

func NewWorker(asm *assemble.Assembler, store *artifact.Store, results *cache.ResultCache, stats *ProcessingStats, retry RetryPolicy, log *slog.Logger) *Worker {
	return &Worker{
		assembler: asm,
		store:     store,
		results:   results,
		stats:     stats,
		retry:     retry,
		log:       log,
	}
}

// Process runs parse, assemble, and persist for a job. A failed document
// still produces a persisted result so callers always get an artifact.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)
	started := time.Now()

	data := job.FileData()
	job.SetFileData(nil)
	job.SetContentHash(cache.Key(data))

	// Repeat submissions of identical bytes skip the pipeline.
	if res, ok := w.results.Get(job.ContentHash); ok {
		log.Info("cache hit", "content_hash", job.ContentHash)
		w.finish(job, res, started, log)
		return
	}

	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		w.fail(job, "parsing", err, started, log)
		return
	}

	var doc *outline.Document
	err = w.retry.Do(ctx, func() error {
		var parseErr error
		doc, parseErr = p.Parse(bytes.NewReader(data), job.Filename)
		return parseErr
	})
	if err != nil {
		log.Error("parse failed", "error", err)
		w.fail(job, "parsing", fmt.Errorf("parse: %w", err), started, log)
		return
	}

	job.SetStatus(StatusAssembling, "assembling")
	res := w.assembler.Assemble(doc)
	job.SetCounts(len(doc.Runs), len(doc.Builtin), len(res.Outline))

	w.results.Put(job.ContentHash, res)
	w.finish(job, res, started, log)
}

func (w *Worker) finish(job *Job, res *outline.Result, started time.Time, log *slog.Logger) {
	if err := w.persist(job, res); err != nil {
		log.Error("persist failed", "error", err)
		job.AddError(fmt.Sprintf("persist: %s", err))
		job.SetStatus(StatusFailed, "persisting")
		return
	}
	w.stats.Record(time.Since(started).Milliseconds())
	job.SetStatus(StatusCompleted, "done")
	log.Info("document processed", "entries", len(res.Outline), "title", res.Title)
}

// fail persists an empty-outline result carrying the error, so the result
// endpoint and document store stay consistent with the job state.
func (w *Worker) fail(job *Job, phase string, cause error, started time.Time, log *slog.Logger) {
	job.AddError(cause.Error())

	res := &outline.Result{
		Title:   assemble.TitleFromFilename(job.Filename),
		Outline: []outline.Entry{},
		Error:   cause.Error(),
	}
	if err := w.persist(job, res); err != nil {
		log.Error("failure artifact persist failed", "error", err)
		job.AddError(fmt.Sprintf("persist: %s", err))
	}
	w.stats.Record(time.Since(started).Milliseconds())
	job.SetStatus(StatusFailed, phase)
}

func (w *Worker) persist(job *Job, res *outline.Result) error {
	return w.store.Save(&artifact.Record{
		DocID:       job.DocID,
		Filename:    job.Filename,
		ContentHash: job.ContentHash,
		CreatedAt:   job.CreatedAt,
		Result:      res,
	})
}
