// Package lifecycle implements the state machine that owns the single
// active interval. The periodic tick, the resume check and the delivered
// wake signal all funnel into the same idempotent Evaluate call, so
// redundant or racing triggers cannot double-process an expiry.
package lifecycle

import (
	"strings"
	"sync"
	"time"

	"pomodoro/internal/core/interval"
	"pomodoro/internal/core/model"
)

// Store is the narrow view of the entry store the controller mutates through.
type Store interface {
	Create(kind model.Kind, name string, durationMinutes float64, dateKey string, now time.Time) (model.Entry, error)
	Complete(id string) error
	Active() (model.Entry, bool)
}

// WakeScheduler arms an out-of-band wake signal for an interval's expected
// completion. Arm returns an opaque token for the armed signal. Delivery is
// best-effort; the controller detects expiry on its own and treats a late
// signal as just another trigger.
type WakeScheduler interface {
	Arm(kind model.Kind, label string, delay time.Duration) (int64, error)
	Disarm(token int64)
}

// SoundPlayer loops a completion alert until acknowledged.
type SoundPlayer interface {
	PlayLoop(kind model.Kind)
	StopAll()
}

// Config contains runtime options for the Controller.
type Config struct {
	RestDurationMinutes float64
	TickInterval        time.Duration
	// Now supplies the wall clock; defaults to time.Now.
	Now func() time.Time
}

// Controller is the state machine governing the active interval.
type Controller struct {
	mu           sync.Mutex
	store        Store
	config       Config
	scheduler    WakeScheduler
	sounds       SoundPlayer
	wakeToken    int64
	wakeArmed    bool
	soundPlaying bool
	events       []chan Event
	stopCh       chan struct{}
	running      bool
}

// New creates a Controller backed by the given store.
func New(store Store, config Config) *Controller {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.RestDurationMinutes <= 0 {
		config.RestDurationMinutes = model.RestMinutes
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Controller{
		store:  store,
		config: config,
		stopCh: make(chan struct{}),
	}
}

// SetScheduler injects the wake-signal bridge.
func (controller *Controller) SetScheduler(scheduler WakeScheduler) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.scheduler = scheduler
}

// SetSounds injects the completion alert adapter.
func (controller *Controller) SetSounds(sounds SoundPlayer) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.sounds = sounds
}

// UpdateConfig updates runtime configuration. The tick interval of an
// already-running loop is left alone.
func (controller *Controller) UpdateConfig(config Config) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if config.TickInterval <= 0 {
		config.TickInterval = controller.config.TickInterval
	}
	if config.RestDurationMinutes <= 0 {
		config.RestDurationMinutes = model.RestMinutes
	}
	if config.Now == nil {
		config.Now = controller.config.Now
	}
	controller.config = config
}

// Subscribe registers a new observer channel.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	controller.events = append(controller.events, ch)
	controller.mu.Unlock()
	return ch
}

// Start launches the ticking loop.
func (controller *Controller) Start() {
	controller.mu.Lock()
	if controller.running {
		controller.mu.Unlock()
		return
	}
	controller.running = true
	controller.mu.Unlock()

	go controller.run()
}

// Stop terminates the ticking loop and closes observers.
func (controller *Controller) Stop() {
	controller.mu.Lock()
	if !controller.running {
		controller.mu.Unlock()
		return
	}
	close(controller.stopCh)
	controller.running = false
	events := controller.events
	controller.events = nil
	controller.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// StartWork begins a new work interval. It fails closed with ErrConflict
// when an interval is already active, regardless of what the UI allowed.
func (controller *Controller) StartWork(name string, durationMinutes float64) (model.Entry, error) {
	if err := interval.ValidateNewPomodoro(name, durationMinutes); err != nil {
		return model.Entry{}, err
	}
	name = strings.TrimSpace(name)

	controller.mu.Lock()
	defer controller.mu.Unlock()

	if _, ok := controller.store.Active(); ok {
		return model.Entry{}, model.ErrConflict
	}

	controller.stopSoundsLocked()

	now := controller.config.Now()
	entry, err := controller.store.Create(model.KindWork, name, durationMinutes, interval.DateKey(now), now)
	if err != nil {
		return model.Entry{}, err
	}

	controller.armLocked(entry, now)
	controller.emitLocked(Event{
		Type:             EventStateChange,
		State:            StateWork,
		Entry:            entry,
		RemainingSeconds: interval.RemainingSeconds(entry, now),
		At:               now,
	})
	return entry, nil
}

// Evaluate is the canonical trigger handler. It is idempotent: if the
// active entry is still counting down it only reports progress, and an
// expired entry is completed exactly once no matter how many triggers race,
// because the completed flag is re-read under the lock before committing.
func (controller *Controller) Evaluate(now time.Time) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	entry, ok := controller.store.Active()
	if !ok {
		return
	}

	if interval.IsOngoing(entry, now) {
		controller.emitLocked(Event{
			Type:             EventProgress,
			State:            stateOf(entry),
			Entry:            entry,
			RemainingSeconds: interval.RemainingSeconds(entry, now),
			At:               now,
		})
		return
	}

	controller.completeLocked(entry, now)
}

// Wake handles a delivered wake signal. A signal that raced a disarm is
// harmless: evaluation no-ops once the entry is completed.
func (controller *Controller) Wake() {
	controller.Evaluate(controller.config.Now())
}

// Resume re-checks state after the app returns to the foreground and emits
// a snapshot so observers can re-render.
func (controller *Controller) Resume() {
	controller.Evaluate(controller.config.Now())

	controller.mu.Lock()
	defer controller.mu.Unlock()
	now := controller.config.Now()
	entry, ok := controller.store.Active()
	if !ok {
		controller.emitLocked(Event{Type: EventStateChange, State: StateIdle, At: now})
		return
	}
	controller.emitLocked(Event{
		Type:             EventStateChange,
		State:            stateOf(entry),
		Entry:            entry,
		RemainingSeconds: interval.RemainingSeconds(entry, now),
		At:               now,
	})
}

// MarkComplete finishes the active interval immediately, whether or not its
// time has elapsed. The chained rest (after work) starts at the completion
// instant, not the originally planned end.
func (controller *Controller) MarkComplete() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.stopSoundsLocked()

	entry, ok := controller.store.Active()
	if !ok {
		return model.ErrNoActiveEntry
	}
	now := controller.config.Now()
	return controller.completeLocked(entry, now)
}

// StopSounds silences a playing completion alert. Entry state is untouched.
func (controller *Controller) StopSounds() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.stopSoundsLocked()
}

// SoundPlaying reports whether a completion alert is currently looping.
func (controller *Controller) SoundPlaying() bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.soundPlaying
}

func (controller *Controller) run() {
	ticker := time.NewTicker(controller.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-controller.stopCh:
			return
		case tickTime := <-ticker.C:
			controller.Evaluate(tickTime)
		}
	}
}

// completeLocked performs the completion transition: persist the flag,
// disarm the wake signal, start the alert, and chain the rest interval when
// a work interval finished. A failed persist leaves the entry unprocessed
// for the next trigger to retry.
func (controller *Controller) completeLocked(entry model.Entry, now time.Time) error {
	if err := controller.store.Complete(entry.ID); err != nil {
		controller.emitLocked(Event{Type: EventError, State: stateOf(entry), Message: err.Error(), At: now})
		return err
	}

	controller.disarmLocked()

	if entry.Kind == model.KindWork {
		controller.playLocked(model.KindWork)

		rest, err := controller.store.Create(model.KindRest, model.RestName, controller.config.RestDurationMinutes, interval.DateKey(now), now)
		if err != nil {
			controller.emitLocked(Event{Type: EventError, State: StateIdle, Message: err.Error(), At: now})
			controller.emitLocked(Event{Type: EventStateChange, State: StateIdle, At: now})
			return err
		}

		controller.armLocked(rest, now)
		controller.emitLocked(Event{
			Type:             EventStateChange,
			State:            StateRest,
			Entry:            rest,
			RemainingSeconds: interval.RemainingSeconds(rest, now),
			At:               now,
		})
		return nil
	}

	controller.playLocked(model.KindRest)
	controller.emitLocked(Event{Type: EventStateChange, State: StateIdle, At: now})
	return nil
}

func (controller *Controller) armLocked(entry model.Entry, now time.Time) {
	if controller.scheduler == nil {
		return
	}
	delay := time.Duration(entry.DurationMinutes * float64(time.Minute))
	token, err := controller.scheduler.Arm(entry.Kind, entry.Name, delay)
	if err != nil {
		controller.emitLocked(Event{Type: EventError, State: stateOf(entry), Message: err.Error(), At: now})
		return
	}
	controller.wakeToken = token
	controller.wakeArmed = true
}

func (controller *Controller) disarmLocked() {
	if controller.scheduler == nil || !controller.wakeArmed {
		return
	}
	controller.scheduler.Disarm(controller.wakeToken)
	controller.wakeArmed = false
}

func (controller *Controller) playLocked(kind model.Kind) {
	if controller.sounds == nil {
		return
	}
	controller.sounds.PlayLoop(kind)
	controller.soundPlaying = true
}

func (controller *Controller) stopSoundsLocked() {
	if controller.sounds != nil {
		controller.sounds.StopAll()
	}
	controller.soundPlaying = false
}

func (controller *Controller) emitLocked(event Event) {
	events := append([]chan Event(nil), controller.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}

func stateOf(entry model.Entry) State {
	if entry.Kind == model.KindRest {
		return StateRest
	}
	return StateWork
}
