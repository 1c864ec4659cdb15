package reminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"neuronest-backend/internal/platform/whatsapp"
)

type fakeStore struct {
	mu      sync.Mutex
	jobs    map[string]Job
	upserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{jobs: make(map[string]Job)}
}

func (f *fakeStore) Upsert(ctx context.Context, j Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[j.ID()] = j
	f.upserts++
	return nil
}

func (f *fakeStore) List(ctx context.Context) ([]Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Job, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, j)
	}
	return out, nil
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []string
	fail  bool
	sends chan struct{}
}

func newFakeSender() *fakeSender {
	return &fakeSender{sends: make(chan struct{}, 16)}
}

func (f *fakeSender) Send(ctx context.Context, to, body string) whatsapp.Result {
	f.mu.Lock()
	f.sent = append(f.sent, to+"|"+body)
	fail := f.fail
	f.mu.Unlock()
	f.sends <- struct{}{}
	if fail {
		return whatsapp.Result{Method: whatsapp.MethodMock, Body: body, Err: errors.New("gateway down")}
	}
	return whatsapp.Result{Method: whatsapp.MethodWhatsApp, Body: body}
}

func (f *fakeSender) waitForSend(t *testing.T) {
	t.Helper()
	select {
	case <-f.sends:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a notification send")
	}
}

func testScheduler(store Store, sender Sender) *Scheduler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewScheduler(store, sender, logger, time.Second, time.Second)
}

func mustJob(t *testing.T, phone, medicine, fireTime string) Job {
	t.Helper()
	j, err := NewJob(phone, medicine, fireTime)
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	return j
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 8, 28, hour, minute, 5, 0, time.Local)
}

func TestUpsertSameIdentityReplaces(t *testing.T) {
	store := newFakeStore()
	sender := newFakeSender()
	s := testScheduler(store, sender)

	job := mustJob(t, "+923001112233", "Panadol", "08:00")
	if err := s.Upsert(context.Background(), job); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := s.Upsert(context.Background(), job); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if s.Count() != 1 {
		t.Fatalf("expected 1 registered job after duplicate upsert, got %d", s.Count())
	}

	fired := s.TriggerDue(at(8, 0))
	if len(fired) != 1 {
		t.Fatalf("expected exactly 1 job to fire, got %d", len(fired))
	}
	sender.waitForSend(t)
}

func TestDistinctMedicinesAreIndependentJobs(t *testing.T) {
	store := newFakeStore()
	sender := newFakeSender()
	s := testScheduler(store, sender)

	ctx := context.Background()
	if err := s.Upsert(ctx, mustJob(t, "+923001112233", "Panadol", "08:00")); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, mustJob(t, "+923001112233", "Ibuprofen", "08:00")); err != nil {
		t.Fatal(err)
	}

	if s.Count() != 2 {
		t.Fatalf("expected 2 independent jobs, got %d", s.Count())
	}
	if fired := s.TriggerDue(at(8, 0)); len(fired) != 2 {
		t.Fatalf("expected both jobs to fire, got %d", len(fired))
	}
	sender.waitForSend(t)
	sender.waitForSend(t)
}

func TestNoDoubleFireWithinSameMinute(t *testing.T) {
	store := newFakeStore()
	sender := newFakeSender()
	s := testScheduler(store, sender)

	if err := s.Upsert(context.Background(), mustJob(t, "+923001112233", "Panadol", "08:00")); err != nil {
		t.Fatal(err)
	}

	first := s.TriggerDue(time.Date(2026, 8, 28, 8, 0, 1, 0, time.Local))
	second := s.TriggerDue(time.Date(2026, 8, 28, 8, 0, 31, 0, time.Local))

	if len(first) != 1 {
		t.Fatalf("expected first check to fire the job, got %d", len(first))
	}
	if len(second) != 0 {
		t.Fatalf("expected no re-fire within the same minute, got %d", len(second))
	}
}

func TestFiresAgainNextDay(t *testing.T) {
	store := newFakeStore()
	sender := newFakeSender()
	s := testScheduler(store, sender)

	if err := s.Upsert(context.Background(), mustJob(t, "+923001112233", "Panadol", "08:00")); err != nil {
		t.Fatal(err)
	}

	day1 := time.Date(2026, 8, 28, 8, 0, 10, 0, time.Local)
	day2 := day1.AddDate(0, 0, 1)

	if fired := s.TriggerDue(day1); len(fired) != 1 {
		t.Fatalf("expected fire on day 1, got %d", len(fired))
	}
	if fired := s.TriggerDue(day2); len(fired) != 1 {
		t.Fatalf("expected fire on day 2, got %d", len(fired))
	}
}

func TestNotDueOutsideScheduledMinute(t *testing.T) {
	store := newFakeStore()
	sender := newFakeSender()
	s := testScheduler(store, sender)

	if err := s.Upsert(context.Background(), mustJob(t, "+923001112233", "Panadol", "08:00")); err != nil {
		t.Fatal(err)
	}

	if fired := s.TriggerDue(at(8, 1)); len(fired) != 0 {
		t.Fatalf("expected no fire at 08:01, got %d", len(fired))
	}
	if fired := s.TriggerDue(at(20, 0)); len(fired) != 0 {
		t.Fatalf("expected no fire at 20:00, got %d", len(fired))
	}
}

func TestFailedDeliveryKeepsJobScheduled(t *testing.T) {
	store := newFakeStore()
	sender := newFakeSender()
	sender.fail = true
	s := testScheduler(store, sender)

	if err := s.Upsert(context.Background(), mustJob(t, "+923001112233", "Panadol", "08:00")); err != nil {
		t.Fatal(err)
	}

	day1 := time.Date(2026, 8, 28, 8, 0, 10, 0, time.Local)
	if fired := s.TriggerDue(day1); len(fired) != 1 {
		t.Fatal("expected the job to fire despite the failing sender")
	}
	sender.waitForSend(t)

	if s.Count() != 1 {
		t.Fatal("failed delivery must not unschedule the job")
	}
	if fired := s.TriggerDue(day1.AddDate(0, 0, 1)); len(fired) != 1 {
		t.Fatal("expected the job to fire again the next day")
	}
}

func TestLoadRebuildsRegistryFromStore(t *testing.T) {
	store := newFakeStore()
	sender := newFakeSender()
	ctx := context.Background()

	if err := store.Upsert(ctx, mustJob(t, "+923001112233", "Panadol", "08:00")); err != nil {
		t.Fatal(err)
	}
	if err := store.Upsert(ctx, mustJob(t, "+15551234567", "Aspirin", "21:30")); err != nil {
		t.Fatal(err)
	}

	s := testScheduler(store, sender)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Count() != 2 {
		t.Fatalf("expected 2 jobs after reload, got %d", s.Count())
	}
	if fired := s.TriggerDue(at(21, 30)); len(fired) != 1 {
		t.Fatalf("expected the 21:30 job to fire, got %d", len(fired))
	}
}
