package db

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// historyKey is the fixed settings key holding the serialized project history.
const historyKey = "project_history"

// HistoryRecord is one persisted (prompt, code) checkpoint of a project.
// ID is the creation timestamp in Unix milliseconds.
type HistoryRecord struct {
	ID     int64  `json:"id"`
	Prompt string `json:"prompt"`
	Code   string `json:"code"`
}

// HistoryStore is the append-only project history: newest record first.
// The full record list is loaded once at startup and rewritten on every
// mutation, independent of in-session undo/redo.
type HistoryStore struct {
	mu      sync.Mutex
	records []HistoryRecord
	persist func([]HistoryRecord) error
}

// OpenHistoryStore loads the persisted history from the settings table
func OpenHistoryStore() (*HistoryStore, error) {
	raw, err := GetSetting(historyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load project history: %w", err)
	}

	var records []HistoryRecord
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			return nil, fmt.Errorf("failed to decode project history: %w", err)
		}
	}

	return &HistoryStore{
		records: records,
		persist: persistHistory,
	}, nil
}

// NewMemoryHistoryStore returns a store with no persistence, for tests
func NewMemoryHistoryStore() *HistoryStore {
	return &HistoryStore{
		persist: func([]HistoryRecord) error { return nil },
	}
}

func persistHistory(records []HistoryRecord) error {
	if len(records) == 0 {
		return DeleteSetting(historyKey)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return SetSetting(historyKey, string(data))
}

// All returns a copy of the records, newest first
func (s *HistoryStore) All() []HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]HistoryRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given id, or nil
func (s *HistoryStore) Get(id int64) *HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.ID == id {
			rec := r
			return &rec
		}
	}
	return nil
}

// Prepend adds a brand-new record at the front and returns it
func (s *HistoryStore) Prepend(prompt, code string) (HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := HistoryRecord{ID: time.Now().UnixMilli(), Prompt: prompt, Code: code}
	// Keep ids strictly increasing even for sub-millisecond prepends
	if len(s.records) > 0 && rec.ID <= s.records[0].ID {
		rec.ID = s.records[0].ID + 1
	}
	s.records = append([]HistoryRecord{rec}, s.records...)
	return rec, s.persist(s.records)
}

// UpdateLatestCode replaces the most recent record's code in place.
// No-op when the store is empty.
func (s *HistoryStore) UpdateLatestCode(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return nil
	}
	s.records[0].Code = code
	return s.persist(s.records)
}

// MarkLatestSaved updates the latest record with the saved code, prefixing
// its prompt with "(Saved)" once. When the store is empty a new record with
// the prompt "Manually Saved Code" is created instead.
func (s *HistoryStore) MarkLatestSaved(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		rec := HistoryRecord{ID: time.Now().UnixMilli(), Prompt: "Manually Saved Code", Code: code}
		s.records = []HistoryRecord{rec}
		return s.persist(s.records)
	}

	s.records[0].Code = code
	if len(s.records[0].Prompt) < 7 || s.records[0].Prompt[:7] != "(Saved)" {
		s.records[0].Prompt = "(Saved) " + s.records[0].Prompt
	}
	return s.persist(s.records)
}

// Clear removes all records
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return s.persist(s.records)
}

// Len returns the number of records
func (s *HistoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
