package platform

import (
	"sync"
	"time"

	"pomodoro/internal/core/model"
)

// WakeTimer schedules wake signals with in-process timers. Arm and Disarm
// are best-effort on both sides: a disarm that loses the race with delivery
// simply results in one extra firing, which the lifecycle controller treats
// as a redundant trigger.
type WakeTimer struct {
	mu        sync.Mutex
	onFire    func(kind model.Kind, label string)
	nextToken int64
	timers    map[int64]*time.Timer
}

// NewWakeTimer creates a wake scheduler invoking onFire on delivery.
func NewWakeTimer(onFire func(kind model.Kind, label string)) *WakeTimer {
	return &WakeTimer{
		onFire: onFire,
		timers: make(map[int64]*time.Timer),
	}
}

// Arm schedules a wake signal after delay, floored at one second.
func (wake *WakeTimer) Arm(kind model.Kind, label string, delay time.Duration) (int64, error) {
	if delay < time.Second {
		delay = time.Second
	}

	wake.mu.Lock()
	defer wake.mu.Unlock()

	wake.nextToken++
	token := wake.nextToken
	wake.timers[token] = time.AfterFunc(delay, func() {
		wake.fire(token, kind, label)
	})
	return token, nil
}

// Disarm cancels a scheduled wake signal. Unknown or already-fired tokens
// are ignored.
func (wake *WakeTimer) Disarm(token int64) {
	wake.mu.Lock()
	timer, ok := wake.timers[token]
	delete(wake.timers, token)
	wake.mu.Unlock()

	if ok {
		timer.Stop()
	}
}

// Shutdown cancels every pending signal.
func (wake *WakeTimer) Shutdown() {
	wake.mu.Lock()
	timers := wake.timers
	wake.timers = make(map[int64]*time.Timer)
	wake.mu.Unlock()

	for _, timer := range timers {
		timer.Stop()
	}
}

func (wake *WakeTimer) fire(token int64, kind model.Kind, label string) {
	wake.mu.Lock()
	delete(wake.timers, token)
	wake.mu.Unlock()

	if wake.onFire != nil {
		wake.onFire(kind, label)
	}
}
