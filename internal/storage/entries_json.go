package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"pomodoro/internal/core/interval"
	"pomodoro/internal/core/model"
)

const entriesFileName = "entries.json"

// EntryStore is the durable log of intervals. The whole collection lives in
// one JSON file; every mutation is a read-modify-write of that file, atomic
// via temp file plus rename, and all-or-nothing from the caller's view.
//
// The store does not enforce the single-active invariant; the lifecycle
// controller is the only writer and owns it.
type EntryStore struct {
	mu      sync.Mutex
	path    string
	entries []model.Entry
}

// OpenEntryStore loads the entry log from path. A missing file yields an
// empty store. A corrupt file is backed up beside the original and the store
// starts empty rather than refusing to run.
func OpenEntryStore(path string) (*EntryStore, error) {
	store := &EntryStore{path: path}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, &model.PersistenceError{Op: "read entries file", Err: err}
	}

	if err := json.Unmarshal(rawData, &store.entries); err != nil {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		store.entries = nil
	}
	return store, nil
}

// DefaultEntriesPath returns the entry log location under the OS config dir.
func DefaultEntriesPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, entriesFileName), nil
}

// Create appends a new uncompleted entry started at now and persists it.
// On write failure the entry is rolled back and never visible to reads.
func (store *EntryStore) Create(kind model.Kind, name string, durationMinutes float64, dateKey string, now time.Time) (model.Entry, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entry := model.Entry{
		ID:              model.NewEntryID(now),
		Name:            strings.TrimSpace(name),
		DurationMinutes: durationMinutes,
		DateKey:         dateKey,
		Completed:       false,
		StartedAt:       now.UnixMilli(),
		Kind:            kind,
	}

	store.entries = append(store.entries, entry)
	if err := store.saveLocked(); err != nil {
		store.entries = store.entries[:len(store.entries)-1]
		return model.Entry{}, &model.PersistenceError{Op: "create entry", Err: err}
	}
	return entry, nil
}

// Complete marks the entry with the given id completed. Completing an
// already-completed entry is a no-op; an unknown id is ErrNotFound.
func (store *EntryStore) Complete(id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for i := range store.entries {
		if store.entries[i].ID != id {
			continue
		}
		if store.entries[i].Completed {
			return nil
		}
		store.entries[i].Completed = true
		if err := store.saveLocked(); err != nil {
			store.entries[i].Completed = false
			return &model.PersistenceError{Op: "complete entry", Err: err}
		}
		return nil
	}
	return model.ErrNotFound
}

// Active returns the single not-yet-completed entry, whether ongoing or
// expired. When misuse has left several, the earliest-started wins so the
// controller drains them one at a time.
func (store *EntryStore) Active() (model.Entry, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	found := false
	var active model.Entry
	for _, entry := range store.entries {
		if entry.Completed {
			continue
		}
		if !found || entry.StartedAt < active.StartedAt {
			active = entry
			found = true
		}
	}
	return active, found
}

// ByDate returns all entries bucketed under dateKey, ordered by start time
// ascending with ties broken by id (ids sort by creation order).
func (store *EntryStore) ByDate(dateKey string) []model.Entry {
	store.mu.Lock()
	defer store.mu.Unlock()

	var matched []model.Entry
	for _, entry := range store.entries {
		if entry.DateKey == dateKey {
			matched = append(matched, entry)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].StartedAt != matched[j].StartedAt {
			return matched[i].StartedAt < matched[j].StartedAt
		}
		return matched[i].ID < matched[j].ID
	})
	return matched
}

// MonthSummary counts completed work entries per dateKey within one month.
func (store *EntryStore) MonthSummary(year int, month time.Month) model.MonthSummary {
	store.mu.Lock()
	defer store.mu.Unlock()

	summary := model.MonthSummary{}
	for _, entry := range store.entries {
		if entry.Kind != model.KindWork || !entry.Completed {
			continue
		}
		if interval.SameMonth(entry.DateKey, year, month) {
			summary[entry.DateKey]++
		}
	}
	return summary
}

// Clear wipes the whole history. Administrative escape hatch, not part of
// the state machine.
func (store *EntryStore) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	previous := store.entries
	store.entries = nil
	if err := store.saveLocked(); err != nil {
		store.entries = previous
		return &model.PersistenceError{Op: "clear entries", Err: err}
	}
	return nil
}

func (store *EntryStore) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	entries := store.entries
	if entries == nil {
		entries = []model.Entry{}
	}
	serialized, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}

	tmpPath := store.path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
