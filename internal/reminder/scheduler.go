package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/adhocore/gronx"

	"neuronest-backend/internal/platform/whatsapp"
)

// Sender delivers a reminder text to a phone number. Delivery failures are
// reported inside the Result, never as a panic or raised error.
type Sender interface {
	Send(ctx context.Context, to, body string) whatsapp.Result
}

type entry struct {
	job Job
	// lastFired holds the "2006-01-02 15:04" minute the job last fired in,
	// so a tick cadence finer than a minute cannot double-fire it.
	lastFired string
}

// Scheduler keeps the in-memory job registry and fires due jobs once per day
// at their stored local time. Upserts and the periodic fire-check share one
// mutex, so a replace-in-flight job can never fire with stale parameters.
type Scheduler struct {
	mu   sync.Mutex
	jobs map[string]*entry

	store       Store
	sender      Sender
	gron        *gronx.Gronx
	interval    time.Duration
	sendTimeout time.Duration
	logger      *slog.Logger

	done chan struct{}
	once sync.Once
}

func NewScheduler(store Store, sender Sender, logger *slog.Logger, interval, sendTimeout time.Duration) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if sendTimeout <= 0 {
		sendTimeout = 15 * time.Second
	}
	return &Scheduler{
		jobs:        make(map[string]*entry),
		store:       store,
		sender:      sender,
		gron:        gronx.New(),
		interval:    interval,
		sendTimeout: sendTimeout,
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// Load rebuilds the registry from the durable store. Called once on boot.
func (s *Scheduler) Load(ctx context.Context) error {
	jobs, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range jobs {
		s.jobs[j.ID()] = &entry{job: j}
	}
	s.logger.Info("reminder registry loaded", "jobs", len(s.jobs))
	return nil
}

// Upsert persists the job and replaces any registry entry with the same
// identity. Re-registering an identity resets its fired state.
func (s *Scheduler) Upsert(ctx context.Context, j Job) error {
	if err := s.store.Upsert(ctx, j); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID()] = &entry{job: j}
	s.logger.Info("reminder scheduled", "phone", j.Phone, "medicine", j.Medicine, "time", j.FireTime)
	return nil
}

// Start runs the fire-check loop on a dedicated goroutine.
func (s *Scheduler) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				s.TriggerDue(now)
			case <-s.done:
				return
			}
		}
	}()
}

// Stop terminates the fire-check loop. In-flight notifications finish on
// their own timeout.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.done) })
}

// TriggerDue fires every job whose schedule matches now's minute and that has
// not already fired within that minute. Notifications are dispatched on
// short-lived goroutines so a slow recipient cannot delay other due jobs.
// It returns the identities of the jobs fired.
func (s *Scheduler) TriggerDue(now time.Time) []string {
	minute := now.Format("2006-01-02 15:04")

	s.mu.Lock()
	var fired []Job
	for _, e := range s.jobs {
		if e.lastFired == minute {
			continue
		}
		due, err := s.gron.IsDue(e.job.CronExpr(), now)
		if err != nil {
			s.logger.Error("bad cron expression", "job", e.job.ID(), "error", err)
			continue
		}
		if !due {
			continue
		}
		e.lastFired = minute
		fired = append(fired, e.job)
	}
	s.mu.Unlock()

	ids := make([]string, 0, len(fired))
	for _, j := range fired {
		ids = append(ids, j.ID())
		go s.deliver(j)
	}
	return ids
}

// Count returns the number of registered jobs.
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *Scheduler) deliver(j Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
	defer cancel()

	res := s.sender.Send(ctx, j.Phone, reminderBody(j.Medicine))
	if !res.OK() {
		// The job stays scheduled for tomorrow regardless; no retry today.
		s.logger.Error("reminder delivery failed", "job", j.ID(), "error", res.Err)
		return
	}
	s.logger.Info("reminder delivered", "job", j.ID(), "method", res.Method)
}

func reminderBody(medicine string) string {
	return fmt.Sprintf("Reminder: Time to take your %s!", medicine)
}
