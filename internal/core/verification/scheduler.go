package verification

import (
	"RelayBot/internal/core/domain"
	"RelayBot/internal/core/ports"
	"container/heap"
	"context"
	"errors"
	"html"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultDelay is how long a verification takes.
const DefaultDelay = 600 * time.Second

// Notifier sends a rendered template to a user.
type Notifier interface {
	Notify(ctx context.Context, userID int64, key string, params map[string]any) error
}

// Config tunes the scheduler.
type Config struct {
	Delay      time.Duration
	Workers    int
	MaxPending int // 0 means unbounded
	Weights    Weights
}

type task struct {
	id        uuid.UUID
	userID    int64
	sub       domain.Submission
	state     domain.TaskState
	outcome   domain.Outcome
	startedAt time.Time
	endedAt   time.Time
	due       time.Time
	index     int
}

// Scheduler runs one delayed verification per submission. A single
// dispatcher goroutine waits for the earliest due task and hands it to
// a fixed pool of workers.
type Scheduler struct {
	mu    sync.Mutex
	tasks map[int64]*task // latest task per user
	queue taskQueue

	wake chan struct{}
	jobs chan *task

	cfg      Config
	clock    ports.Clock
	sample   Sampler
	notifier Notifier
	log      zerolog.Logger
}

// NewScheduler creates a scheduler. Call Run to start processing.
func NewScheduler(
	cfg Config,
	clock ports.Clock,
	sample Sampler,
	notifier Notifier,
	baseLogger *zerolog.Logger,
) (*Scheduler, error) {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights
	}
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if sample == nil {
		sample = RandomSampler
	}
	if notifier == nil {
		return nil, errors.New("scheduler needs a notifier")
	}

	return &Scheduler{
		tasks:    make(map[int64]*task),
		wake:     make(chan struct{}, 1),
		jobs:     make(chan *task),
		cfg:      cfg,
		clock:    clock,
		sample:   sample,
		notifier: notifier,
		log:      baseLogger.With().Str("component", "verification").Logger(),
	}, nil
}

// Start begins a verification for userID and returns at once. Any earlier
// task of the same user keeps running but is no longer visible.
func (s *Scheduler) Start(ctx context.Context, userID int64, sub domain.Submission) (domain.TaskSnapshot, error) {
	s.mu.Lock()
	if s.cfg.MaxPending > 0 && s.queue.Len() >= s.cfg.MaxPending {
		s.mu.Unlock()
		s.log.Warn().Int64("user_id", userID).Int("pending", s.cfg.MaxPending).Msg("Verification queue full")
		return domain.TaskSnapshot{}, domain.ErrSchedulerBusy
	}

	now := s.clock.Now()
	t := &task{
		id:        uuid.New(),
		userID:    userID,
		sub:       sub,
		state:     domain.TaskPending,
		startedAt: now,
		due:       now.Add(s.cfg.Delay),
	}
	t.state = domain.TaskInProgress
	s.tasks[userID] = t
	heap.Push(&s.queue, t)
	snap := s.snapshotLocked(t, now)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}

	ctxLogger := s.log.With().Int64("user_id", userID).Str("task_id", t.id.String()).Logger()
	ctxLogger.Info().Str("file_name", sub.FileName).Time("due", t.due).Msg("Verification started")

	if err := s.notifier.Notify(ctx, userID, "check_started", fileParams(sub)); err != nil {
		ctxLogger.Error().Err(err).Msg("Failed to send check_started")
	}
	return snap, nil
}

// Status returns the user's latest task.
func (s *Scheduler) Status(userID int64) (domain.TaskSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[userID]
	if !ok {
		return domain.TaskSnapshot{}, false
	}
	return s.snapshotLocked(t, s.clock.Now()), true
}

// Prune forgets finished tasks that ended before the cutoff.
func (s *Scheduler) Prune(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	pruned := 0
	for id, t := range s.tasks {
		if t.state.IsTerminal() && t.endedAt.Before(before) {
			delete(s.tasks, id)
			pruned++
		}
	}
	return pruned
}

// Pending returns the number of queued completions.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Run dispatches due tasks until ctx is cancelled. Queued work is dropped
// on shutdown.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info().Int("workers", s.cfg.Workers).Dur("delay", s.cfg.Delay).Msg("Verification scheduler started")

	var wg sync.WaitGroup
	for w := 1; w <= s.cfg.Workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t := <-s.jobs:
					s.complete(ctx, t)
				}
			}
		}(w)
	}

	s.dispatch(ctx)
	wg.Wait()

	s.mu.Lock()
	dropped := s.queue.Len()
	s.mu.Unlock()
	s.log.Info().Int("dropped", dropped).Msg("Verification scheduler stopped")
}

func (s *Scheduler) dispatch(ctx context.Context) {
	for {
		s.mu.Lock()
		next := s.queue.peek()
		if next != nil && !next.due.After(s.clock.Now()) {
			heap.Pop(&s.queue)
			s.mu.Unlock()
			select {
			case s.jobs <- next:
			case <-ctx.Done():
				return
			}
			continue
		}
		s.mu.Unlock()

		var timer <-chan time.Time
		if next != nil {
			timer = s.clock.WaitUntil(next.due)
		}
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		case <-timer:
		}
	}
}

// complete draws the outcome and reports it to the user.
func (s *Scheduler) complete(ctx context.Context, t *task) {
	outcome := s.cfg.Weights.Pick(s.sample())
	ctxLogger := s.log.With().Int64("user_id", t.userID).Str("task_id", t.id.String()).Logger()

	err := s.notifier.Notify(ctx, t.userID, templateKey(outcome), fileParams(t.sub))

	s.mu.Lock()
	t.outcome = outcome
	t.endedAt = s.clock.Now()
	next := domain.TaskCompleted
	if err != nil {
		next = domain.TaskFailed
	}
	if t.state.CanTransitionTo(next) {
		t.state = next
	}
	s.mu.Unlock()

	if err != nil {
		ctxLogger.Error().Err(err).Str("outcome", string(outcome)).Msg("Failed to deliver verification result")
		return
	}
	ctxLogger.Info().Str("outcome", string(outcome)).Msg("Verification completed")
}

func (s *Scheduler) snapshotLocked(t *task, now time.Time) domain.TaskSnapshot {
	snap := domain.TaskSnapshot{
		ID:         t.id,
		UserID:     t.userID,
		Submission: t.sub,
		State:      t.state,
		Outcome:    t.outcome,
		StartedAt:  t.startedAt,
		EndedAt:    t.endedAt,
	}
	if t.state.IsTerminal() {
		snap.Elapsed = t.endedAt.Sub(t.startedAt)
		return snap
	}
	snap.Elapsed = now.Sub(t.startedAt)
	if remaining := t.due.Sub(now); remaining > 0 {
		snap.Remaining = remaining
	}
	return snap
}

func fileParams(sub domain.Submission) map[string]any {
	name := sub.FileName
	if name == "" {
		name = "-"
	}
	return map[string]any{"file_name": html.EscapeString(name)}
}
