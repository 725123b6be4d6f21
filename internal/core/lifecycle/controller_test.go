package lifecycle_test

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"pomodoro/internal/core/lifecycle"
	"pomodoro/internal/core/model"
	"pomodoro/internal/storage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(d)
}

type armCall struct {
	kind  model.Kind
	label string
	delay time.Duration
}

type fakeScheduler struct {
	mu        sync.Mutex
	nextToken int64
	armed     []armCall
	disarmed  []int64
}

func (scheduler *fakeScheduler) Arm(kind model.Kind, label string, delay time.Duration) (int64, error) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.nextToken++
	scheduler.armed = append(scheduler.armed, armCall{kind: kind, label: label, delay: delay})
	return scheduler.nextToken, nil
}

func (scheduler *fakeScheduler) Disarm(token int64) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.disarmed = append(scheduler.disarmed, token)
}

type fakeSounds struct {
	mu     sync.Mutex
	played []model.Kind
	stops  int
}

func (sounds *fakeSounds) PlayLoop(kind model.Kind) {
	sounds.mu.Lock()
	defer sounds.mu.Unlock()
	sounds.played = append(sounds.played, kind)
}

func (sounds *fakeSounds) StopAll() {
	sounds.mu.Lock()
	defer sounds.mu.Unlock()
	sounds.stops++
}

func (sounds *fakeSounds) playedKinds() []model.Kind {
	sounds.mu.Lock()
	defer sounds.mu.Unlock()
	return append([]model.Kind(nil), sounds.played...)
}

type fixture struct {
	controller *lifecycle.Controller
	store      *storage.EntryStore
	clock      *fakeClock
	scheduler  *fakeScheduler
	sounds     *fakeSounds
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := storage.OpenEntryStore(filepath.Join(t.TempDir(), "entries.json"))
	if err != nil {
		t.Fatalf("OpenEntryStore: %v", err)
	}

	clock := &fakeClock{now: time.Date(2025, 1, 20, 9, 0, 0, 0, time.Local)}
	scheduler := &fakeScheduler{}
	sounds := &fakeSounds{}

	controller := lifecycle.New(store, lifecycle.Config{
		RestDurationMinutes: 5,
		Now:                 clock.Now,
	})
	controller.SetScheduler(scheduler)
	controller.SetSounds(sounds)

	return &fixture{
		controller: controller,
		store:      store,
		clock:      clock,
		scheduler:  scheduler,
		sounds:     sounds,
	}
}

// uncompletedCount walks the day's entries so tests can assert the
// single-active invariant directly against the store.
func (fx *fixture) uncompletedCount(dateKey string) int {
	count := 0
	for _, entry := range fx.store.ByDate(dateKey) {
		if !entry.Completed {
			count++
		}
	}
	return count
}

func TestStartWork(t *testing.T) {
	fx := newFixture(t)

	entry, err := fx.controller.StartWork("Write spec", 25)
	if err != nil {
		t.Fatalf("StartWork: %v", err)
	}
	if entry.Kind != model.KindWork || entry.Name != "Write spec" || entry.DurationMinutes != 25 {
		t.Errorf("entry = %+v", entry)
	}
	if entry.DateKey != "2025-01-20" {
		t.Errorf("DateKey = %q, want 2025-01-20", entry.DateKey)
	}
	if entry.StartedAt != fx.clock.Now().UnixMilli() {
		t.Errorf("StartedAt = %d, want clock now", entry.StartedAt)
	}

	if len(fx.scheduler.armed) != 1 {
		t.Fatalf("armed %d wake signals, want 1", len(fx.scheduler.armed))
	}
	if got := fx.scheduler.armed[0].delay; got != 25*time.Minute {
		t.Errorf("armed delay = %v, want 25m", got)
	}
}

func TestStartWorkRejectsInvalidInput(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.controller.StartWork("", 25)
	var validationErr *model.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error = %v, want *model.ValidationError", err)
	}
	if _, ok := fx.store.Active(); ok {
		t.Error("rejected start must not create an entry")
	}
}

func TestStartWorkConflict(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.controller.StartWork("first", 25); err != nil {
		t.Fatal(err)
	}
	_, err := fx.controller.StartWork("second", 25)
	if !errors.Is(err, model.ErrConflict) {
		t.Errorf("second StartWork = %v, want ErrConflict", err)
	}
	if fx.uncompletedCount("2025-01-20") != 1 {
		t.Error("conflicting start corrupted the single-active invariant")
	}
}

// Scenario: a 25-minute pomodoro expires, chains a 5-minute rest started at
// the completion instant, and the rest's expiry returns the machine to idle.
func TestWorkExpiryChainsRestThenIdle(t *testing.T) {
	fx := newFixture(t)

	work, err := fx.controller.StartWork("Write spec", 25)
	if err != nil {
		t.Fatal(err)
	}

	fx.clock.Advance(1500 * time.Second)
	fx.controller.Evaluate(fx.clock.Now())

	rest, ok := fx.store.Active()
	if !ok {
		t.Fatal("expected chained rest entry")
	}
	if rest.Kind != model.KindRest || rest.Name != model.RestName || rest.DurationMinutes != 5 {
		t.Errorf("rest entry = %+v", rest)
	}
	if rest.StartedAt != fx.clock.Now().UnixMilli() {
		t.Errorf("rest StartedAt = %d, want completion time %d", rest.StartedAt, fx.clock.Now().UnixMilli())
	}

	entries := fx.store.ByDate("2025-01-20")
	if len(entries) != 2 || !entries[0].Completed || entries[0].ID != work.ID {
		t.Errorf("day entries after work expiry = %+v", entries)
	}

	fx.clock.Advance(300 * time.Second)
	fx.controller.Evaluate(fx.clock.Now())

	if _, ok := fx.store.Active(); ok {
		t.Error("expected idle after rest expiry")
	}
	if fx.uncompletedCount("2025-01-20") != 0 {
		t.Error("uncompleted entries remain after full cycle")
	}
	if kinds := fx.sounds.playedKinds(); len(kinds) != 2 || kinds[0] != model.KindWork || kinds[1] != model.KindRest {
		t.Errorf("played = %v, want [pomodoro rest]", kinds)
	}
}

// Completing a rest must not chain anything new.
func TestRestCompletionProducesNoEntry(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.controller.StartWork("X", 0.5); err != nil {
		t.Fatal(err)
	}
	fx.clock.Advance(30 * time.Second)
	fx.controller.Evaluate(fx.clock.Now())
	fx.clock.Advance(5 * time.Minute)
	fx.controller.Evaluate(fx.clock.Now())

	if got := len(fx.store.ByDate("2025-01-20")); got != 2 {
		t.Errorf("total entries = %d, want 2 (work + rest)", got)
	}
}

func TestEvaluateIdempotentOnExpiredEntry(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.controller.StartWork("X", 25); err != nil {
		t.Fatal(err)
	}
	fx.clock.Advance(26 * time.Minute)

	now := fx.clock.Now()
	fx.controller.Evaluate(now)
	fx.controller.Evaluate(now)

	restCount := 0
	for _, entry := range fx.store.ByDate("2025-01-20") {
		if entry.Kind == model.KindRest {
			restCount++
		}
	}
	if restCount != 1 {
		t.Errorf("rest entries = %d, want exactly 1", restCount)
	}
	if kinds := fx.sounds.playedKinds(); len(kinds) != 1 {
		t.Errorf("alert fired %d times, want once per transition", len(kinds))
	}
}

// Scenario: simulated tick and resume hitting an expired entry at the same
// instant must produce a single completion transition.
func TestConcurrentEvaluateSingleTransition(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.controller.StartWork("X", 25); err != nil {
		t.Fatal(err)
	}
	fx.clock.Advance(26 * time.Minute)
	now := fx.clock.Now()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fx.controller.Evaluate(now)
		}()
	}
	wg.Wait()

	restCount := 0
	for _, entry := range fx.store.ByDate("2025-01-20") {
		if entry.Kind == model.KindRest {
			restCount++
		}
	}
	if restCount != 1 {
		t.Errorf("rest entries = %d, want exactly 1", restCount)
	}
	if fx.uncompletedCount("2025-01-20") != 1 {
		t.Error("single-active invariant violated under concurrent evaluate")
	}
}

// Scenario: MarkComplete before expiry finishes the work immediately and
// starts the rest at the completion instant.
func TestMarkCompleteEarly(t *testing.T) {
	fx := newFixture(t)

	work, err := fx.controller.StartWork("X", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	fx.clock.Advance(5 * time.Second)

	if err := fx.controller.MarkComplete(); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}

	rest, ok := fx.store.Active()
	if !ok || rest.Kind != model.KindRest {
		t.Fatalf("expected active rest after early completion, got %+v", rest)
	}
	if rest.StartedAt != fx.clock.Now().UnixMilli() {
		t.Errorf("rest StartedAt = %d, want completion instant", rest.StartedAt)
	}
	if rest.DurationMinutes != 5 {
		t.Errorf("rest duration = %g, want 5", rest.DurationMinutes)
	}

	entries := fx.store.ByDate("2025-01-20")
	if entries[0].ID != work.ID || !entries[0].Completed {
		t.Errorf("work entry not completed early: %+v", entries[0])
	}
}

func TestMarkCompleteWhenIdle(t *testing.T) {
	fx := newFixture(t)
	if err := fx.controller.MarkComplete(); !errors.Is(err, model.ErrNoActiveEntry) {
		t.Errorf("MarkComplete when idle = %v, want ErrNoActiveEntry", err)
	}
}

func TestMarkCompleteDisarmsWakeSignal(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.controller.StartWork("X", 25); err != nil {
		t.Fatal(err)
	}
	if err := fx.controller.MarkComplete(); err != nil {
		t.Fatal(err)
	}

	fx.scheduler.mu.Lock()
	defer fx.scheduler.mu.Unlock()
	if len(fx.scheduler.disarmed) != 1 || fx.scheduler.disarmed[0] != 1 {
		t.Errorf("disarmed = %v, want the work entry's token", fx.scheduler.disarmed)
	}
	// The chained rest re-arms.
	if len(fx.scheduler.armed) != 2 || fx.scheduler.armed[1].kind != model.KindRest {
		t.Errorf("armed = %+v, want work then rest", fx.scheduler.armed)
	}
}

func TestCompletedIsMonotonic(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.controller.StartWork("X", 0.5); err != nil {
		t.Fatal(err)
	}
	fx.clock.Advance(time.Minute)
	fx.controller.Evaluate(fx.clock.Now())

	// Re-evaluating and stopping sounds must never un-complete anything.
	fx.controller.Evaluate(fx.clock.Now())
	fx.controller.StopSounds()

	entries := fx.store.ByDate("2025-01-20")
	if !entries[0].Completed {
		t.Errorf("completed flag reverted: %+v", entries[0])
	}
}

func TestSoundLifecycle(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.controller.StartWork("X", 0.5); err != nil {
		t.Fatal(err)
	}
	if fx.controller.SoundPlaying() {
		t.Error("no alert should play while running")
	}

	fx.clock.Advance(time.Minute)
	fx.controller.Evaluate(fx.clock.Now())
	if !fx.controller.SoundPlaying() {
		t.Error("alert should loop after a completion transition")
	}

	fx.controller.StopSounds()
	if fx.controller.SoundPlaying() {
		t.Error("StopSounds should clear the playing flag")
	}
	if _, ok := fx.store.Active(); !ok {
		t.Error("StopSounds must not touch entry state")
	}
}

func TestEvaluateWhileRunningChangesNothing(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.controller.StartWork("X", 25); err != nil {
		t.Fatal(err)
	}
	fx.clock.Advance(time.Minute)
	fx.controller.Evaluate(fx.clock.Now())

	entries := fx.store.ByDate("2025-01-20")
	if len(entries) != 1 || entries[0].Completed {
		t.Errorf("evaluate on ongoing entry mutated the store: %+v", entries)
	}
	if kinds := fx.sounds.playedKinds(); len(kinds) != 0 {
		t.Errorf("alert fired without a transition: %v", kinds)
	}
}
