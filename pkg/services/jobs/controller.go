package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Pipeline is the synchronous analysis the controller detaches.
type Pipeline interface {
	Ask(ctx context.Context, question string, style domain.Style) (domain.Analysis, error)
}

// Controller owns the in-process job table. Each entry carries its own
// lock so a write to one job never blocks polls on another; poll always
// returns a copied snapshot. Terminal jobs are never mutated again.
type Controller struct {
	pipeline Pipeline
	now      func() time.Time

	mu   sync.RWMutex
	jobs map[string]*entry
}

type entry struct {
	mu  sync.Mutex
	job domain.AnalysisJob
}

func NewController(pipeline Pipeline) *Controller {
	return &Controller{
		pipeline: pipeline,
		now:      time.Now,
		jobs:     make(map[string]*entry),
	}
}

// Submit registers a PENDING job and returns its id immediately; the
// pipeline runs on a detached goroutine. The job keeps the submitter's
// logger but not its cancellation, so an abandoned HTTP request does
// not kill the analysis.
func (c *Controller) Submit(ctx context.Context, question string, style domain.Style) (string, error) {
	id := uuid.NewString()
	now := c.now().UTC()

	e := &entry{job: domain.AnalysisJob{
		ID:        id,
		Question:  question,
		Status:    domain.JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}}

	c.mu.Lock()
	c.jobs[id] = e
	c.mu.Unlock()

	runCtx := zerolog.Ctx(ctx).WithContext(context.Background())
	go c.run(runCtx, e, question, style)

	return id, nil
}

func (c *Controller) run(ctx context.Context, e *entry, question string, style domain.Style) {
	c.transition(e, func(job *domain.AnalysisJob) {
		job.Status = domain.JobRunning
	})

	result, err := c.pipeline.Ask(ctx, question, style)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("job_id", e.job.ID).Msg("analysis job failed")
		c.transition(e, func(job *domain.AnalysisJob) {
			job.Status = domain.JobFailed
			job.Error = err.Error()
		})
		return
	}

	c.transition(e, func(job *domain.AnalysisJob) {
		job.Status = domain.JobDone
		job.Result = &result
	})
}

func (c *Controller) transition(e *entry, mutate func(*domain.AnalysisJob)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.job.Status.Terminal() {
		return
	}
	mutate(&e.job)
	e.job.UpdatedAt = c.now().UTC()
}

// Poll returns a snapshot of the job, or ErrJobNotFound.
func (c *Controller) Poll(_ context.Context, id string) (domain.AnalysisJob, error) {
	c.mu.RLock()
	e, ok := c.jobs[id]
	c.mu.RUnlock()
	if !ok {
		return domain.AnalysisJob{}, fmt.Errorf("%w: %s", domain.ErrJobNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.job, nil
}

// List returns up to limit jobs, newest first.
func (c *Controller) List(_ context.Context, limit int) []domain.AnalysisJob {
	if limit <= 0 {
		limit = 20
	}

	c.mu.RLock()
	snapshots := make([]domain.AnalysisJob, 0, len(c.jobs))
	for _, e := range c.jobs {
		e.mu.Lock()
		snapshots = append(snapshots, e.job)
		e.mu.Unlock()
	}
	c.mu.RUnlock()

	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].CreatedAt.Equal(snapshots[j].CreatedAt) {
			return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
		}
		return snapshots[i].ID < snapshots[j].ID
	})

	if len(snapshots) > limit {
		snapshots = snapshots[:limit]
	}
	return snapshots
}
