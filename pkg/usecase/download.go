package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/rtxtools/remixer/pkg/domain/interfaces"
	"github.com/rtxtools/remixer/pkg/domain/model"
	"github.com/rtxtools/remixer/pkg/domain/types"
	"github.com/rtxtools/remixer/pkg/utils/async"
)

// eventBuffer lets the worker run ahead of a slow consumer without dropping events
const eventBuffer = 64

type downloadUseCase struct {
	fetcher interfaces.Fetcher
	active  atomic.Bool
	now     func() time.Time

	mu     sync.Mutex
	latest *downloadJob
}

// NewDownload creates a new instance of DownloadUseCase
func NewDownload(fetcher interfaces.Fetcher) interfaces.DownloadUseCase {
	return &downloadUseCase{
		fetcher: fetcher,
		now:     time.Now,
	}
}

type downloadJob struct {
	id     string
	events chan model.ProgressEvent
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	snapshot model.DownloadJob
}

func (j *downloadJob) ID() string                         { return j.id }
func (j *downloadJob) Events() <-chan model.ProgressEvent { return j.events }
func (j *downloadJob) Cancel()                            { j.cancel() }

func (j *downloadJob) Wait() model.DownloadJob {
	<-j.done
	return j.Snapshot()
}

func (j *downloadJob) Snapshot() model.DownloadJob {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.snapshot
}

func (j *downloadJob) update(fn func(s *model.DownloadJob)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	fn(&j.snapshot)
}

// Start begins downloading url into dest on a worker goroutine. Events of the
// returned job must be drained by the caller; the channel is closed after the
// terminal event.
func (uc *downloadUseCase) Start(ctx context.Context, url, dest string) (interfaces.DownloadJob, error) {
	if url == "" || dest == "" {
		return nil, goerr.Wrap(types.ErrUsage, "download requires a URL and a destination",
			goerr.V("url", url), goerr.V("dest", dest))
	}
	if !uc.active.CompareAndSwap(false, true) {
		return nil, goerr.Wrap(types.ErrDownloadInProgress, "refusing to start a second download",
			goerr.V("url", url))
	}

	jobCtx, cancel := context.WithCancel(async.Detach(ctx))
	job := &downloadJob{
		id:     uuid.NewString(),
		events: make(chan model.ProgressEvent, eventBuffer),
		cancel: cancel,
		done:   make(chan struct{}),
		snapshot: model.DownloadJob{
			URL:         url,
			Destination: dest,
			Total:       -1,
			Status:      model.JobStatusPending,
			StartedAt:   uc.now(),
		},
	}
	job.snapshot.ID = job.id

	uc.mu.Lock()
	uc.latest = job
	uc.mu.Unlock()

	logger := ctxlog.From(ctx).With("job_id", job.id)
	jobCtx = ctxlog.With(jobCtx, logger)
	logger.Info("Starting download", "url", url, "dest", dest)

	result := async.Dispatch(jobCtx, func(ctx context.Context) error {
		job.update(func(s *model.DownloadJob) { s.Status = model.JobStatusDownloading })
		return uc.fetcher.Fetch(ctx, url, dest, func(downloaded, total int64) {
			event := progressEvent(job.id, downloaded, total)
			job.update(func(s *model.DownloadJob) {
				s.Downloaded = downloaded
				s.Total = total
				if event.Kind == model.ProgressKindProgress {
					s.Percent = event.Percent
				}
			})
			job.events <- event
		})
	})

	go uc.finish(jobCtx, job, result)

	return job, nil
}

// finish emits the terminal event once the worker returned, so it is always the last one
func (uc *downloadUseCase) finish(ctx context.Context, job *downloadJob, result <-chan error) {
	defer close(job.done)
	defer job.cancel()

	err := <-result

	var terminal model.ProgressEvent
	job.update(func(s *model.DownloadJob) {
		s.FinishedAt = uc.now()
		if err != nil {
			s.Status = model.JobStatusFailed
			s.Error = err.Error()
			terminal = model.ProgressEvent{
				JobID:      job.id,
				Kind:       model.ProgressKindFailed,
				Percent:    s.Percent,
				Downloaded: s.Downloaded,
				Total:      s.Total,
				Err:        err,
			}
			return
		}
		s.Status = model.JobStatusCompleted
		s.Percent = 100
		terminal = model.ProgressEvent{
			JobID:      job.id,
			Kind:       model.ProgressKindCompleted,
			Percent:    100,
			Downloaded: s.Downloaded,
			Total:      s.Total,
		}
	})

	logger := ctxlog.From(ctx)
	if err != nil {
		logger.Error("Download failed", "error", err)
	} else {
		logger.Info("Download completed", "bytes", terminal.Downloaded)
	}

	// Re-entry is allowed as soon as the terminal event is observable
	uc.active.Store(false)
	job.events <- terminal
	close(job.events)
}

// Current returns a copy of the latest job snapshot
func (uc *downloadUseCase) Current() *model.DownloadJob {
	uc.mu.Lock()
	job := uc.latest
	uc.mu.Unlock()

	if job == nil {
		return nil
	}
	snapshot := job.Snapshot()
	return &snapshot
}

// progressEvent converts byte counts into a percentage. An unknown or zero total
// yields an indeterminate event instead of dividing by it.
func progressEvent(jobID string, downloaded, total int64) model.ProgressEvent {
	event := model.ProgressEvent{
		JobID:      jobID,
		Downloaded: downloaded,
		Total:      total,
	}
	if total <= 0 {
		event.Kind = model.ProgressKindIndeterminate
		return event
	}

	percent := int(100 * downloaded / total)
	if percent > 100 {
		percent = 100
	}
	event.Kind = model.ProgressKindProgress
	event.Percent = percent
	return event
}
