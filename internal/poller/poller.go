// Package poller drives submitted translation jobs to a terminal state. One
// goroutine per job polls the translator at a fixed interval, records each
// observation in the job table, and on success hands off to the renamer.
package poller

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"lingobridge/internal/jobs"
	"lingobridge/internal/pkg/errors"
	"lingobridge/internal/pkg/logger"
	"lingobridge/internal/renamer"
	"lingobridge/internal/translator"
)

type Deps struct {
	Translator translator.Client
	Jobs       jobs.Store
	Renamer    *renamer.Renamer
	Log        *logger.Logger

	Interval time.Duration
	MaxWait  time.Duration
	// MaxConcurrent caps how many jobs poll at once; further jobs stay
	// Running and wait for a slot.
	MaxConcurrent int64
}

type Poller struct {
	translator translator.Client
	jobs       jobs.Store
	renamer    *renamer.Renamer
	log        *logger.Logger

	interval time.Duration
	maxWait  time.Duration
	sem      *semaphore.Weighted
	wg       sync.WaitGroup
}

func New(d Deps) *Poller {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	if d.Interval <= 0 {
		d.Interval = 5 * time.Second
	}
	if d.MaxWait <= 0 {
		d.MaxWait = 2 * time.Hour
	}
	if d.MaxConcurrent <= 0 {
		d.MaxConcurrent = 32
	}

	return &Poller{
		translator: d.Translator,
		jobs:       d.Jobs,
		renamer:    d.Renamer,
		log:        log.WithComponent("poller"),
		interval:   d.Interval,
		maxWait:    d.MaxWait,
		sem:        semaphore.NewWeighted(d.MaxConcurrent),
	}
}

// Watch starts the background polling loop for a job. The job record must
// already exist in the store.
func (p *Poller) Watch(ctx context.Context, jobID string) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.watch(logger.ContextWithJobID(ctx, jobID), jobID)
	}()
}

// Drain blocks until every polling loop has returned, or ctx expires.
func (p *Poller) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) watch(ctx context.Context, jobID string) {
	log := p.log.WithJobID(jobID)

	if err := p.sem.Acquire(ctx, 1); err != nil {
		log.Warn("poll slot acquire canceled", "error", err.Error())
		return
	}
	defer p.sem.Release(1)

	log.Info("polling started", "interval", p.interval.String())
	deadline := time.Now().Add(p.maxWait)

	for {
		st, err := p.translator.GetStatus(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				// Shutdown, not a job failure. The record stays Running.
				log.Info("polling stopped by shutdown")
				return
			}
			p.recordError(ctx, jobID, errors.Wrap(err, "poller.status", "status poll failed"))
			return
		}

		status := jobs.Status(st.Status)
		if status == "" {
			status = jobs.StatusRunning
		}

		if _, err := p.jobs.Update(ctx, jobID, func(j *jobs.Job) {
			j.Status = status
			j.RawStatus = st.Raw
		}); err != nil {
			p.recordError(ctx, jobID, errors.Wrap(err, "poller.store", "failed to record status"))
			return
		}

		if status.Terminal() {
			log.Info("job reached terminal state", "status", string(status))
			if status == jobs.StatusSucceeded {
				p.renameOutputs(ctx, jobID)
			}
			return
		}

		if time.Now().After(deadline) {
			p.recordError(ctx, jobID,
				errors.New(errors.CodeTimeout, "job did not reach a terminal state within "+p.maxWait.String()))
			return
		}

		select {
		case <-ctx.Done():
			log.Info("polling stopped by shutdown")
			return
		case <-time.After(p.interval):
		}
	}
}

func (p *Poller) renameOutputs(ctx context.Context, jobID string) {
	job, ok, err := p.jobs.Get(ctx, jobID)
	if err != nil {
		p.recordError(ctx, jobID, errors.Wrap(err, "poller.rename", "failed to load job before rename"))
		return
	}
	if !ok {
		p.recordError(ctx, jobID, errors.New(errors.CodeNotFound, "job record vanished before rename"))
		return
	}

	renamed, err := p.renamer.RenameOutputs(ctx, job.SourceBlobs)
	if err != nil {
		p.recordError(ctx, jobID, errors.Wrap(err, "poller.rename", "output rename failed"))
		return
	}

	_, _ = p.jobs.Update(ctx, jobID, func(j *jobs.Job) {
		j.Renamed = renamed
	})
}

// recordError marks the job Error with the message, mirroring how the poll
// loop surfaces failures to check-status.
func (p *Poller) recordError(ctx context.Context, jobID string, cause error) {
	msg := ""
	if cause != nil {
		msg = cause.Error()
		if len(msg) > 2000 {
			msg = msg[:2000]
		}
	}

	p.log.WithJobID(jobID).Error("job failed", "error", msg)

	// Best effort with a fresh context: ctx may already be canceled.
	updCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	_, _ = p.jobs.Update(updCtx, jobID, func(j *jobs.Job) {
		j.Status = jobs.StatusError
		j.Error = msg
	})
}
