package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/career-assessor/internal/types"
	"go.uber.org/zap"
)

// Record keys of the last-session snapshot
const (
	KeyProfile   = "last_profile"
	KeyRawScores = "last_raw_scores"
	KeyReport    = "last_report"
)

// ErrCorrupt marks a record that exists but cannot be decoded or fails
// validation. Load converts it to "absent" after wiping the cache.
var ErrCorrupt = errors.New("corrupt session record")

// Snapshot is the last completed session.
type Snapshot struct {
	Profile types.UserProfile
	Raw     types.RawScores
	Report  types.ReportData
}

// Store reads and writes the snapshot records through a Cache.
type Store struct {
	cache  Cache
	logger *zap.Logger
}

// NewStore wraps cache. A nil logger discards output.
func NewStore(cache Cache, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{cache: cache, logger: logger}
}

// SaveCheckpoint replaces any previous snapshot with profile and raw scores.
// The old report is removed first so it can never pair with new scores.
func (s *Store) SaveCheckpoint(ctx context.Context, profile types.UserProfile, raw types.RawScores) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear previous session: %w", err)
	}
	if err := s.put(ctx, KeyProfile, profile); err != nil {
		return err
	}
	return s.put(ctx, KeyRawScores, raw)
}

// SaveReport stores the report that completes the checkpoint.
func (s *Store) SaveReport(ctx context.Context, report *types.ReportData) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}
	return s.put(ctx, KeyReport, report)
}

// Load returns the last snapshot, or nil when any record is missing. A
// record that is present but unreadable wipes the cache and also yields nil.
// Only I/O failures are returned as errors.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	records := make(map[string][]byte, 3)
	for _, key := range []string{KeyProfile, KeyRawScores, KeyReport} {
		data, err := s.cache.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if data == nil {
			s.logger.Debug("session snapshot incomplete", zap.String("missing", key))
			return nil, nil
		}
		records[key] = data
	}

	snap, err := decodeSnapshot(records)
	if err != nil {
		s.logger.Debug("discarding corrupt session snapshot", zap.Error(err))
		if clearErr := s.cache.Clear(ctx); clearErr != nil {
			return nil, fmt.Errorf("failed to clear corrupt session: %w", clearErr)
		}
		return nil, nil
	}
	return snap, nil
}

// Clear removes every snapshot record.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.cache.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func decodeSnapshot(records map[string][]byte) (*Snapshot, error) {
	var snap Snapshot
	if err := decodeStrict(records[KeyProfile], &snap.Profile); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, KeyProfile, err)
	}
	if err := decodeStrict(records[KeyRawScores], &snap.Raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, KeyRawScores, err)
	}
	if err := snap.Raw.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, KeyRawScores, err)
	}
	if err := decodeStrict(records[KeyReport], &snap.Report); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, KeyReport, err)
	}
	if err := snap.Report.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, KeyReport, err)
	}
	if err := snap.Report.ValidateAlignment(snap.Raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, KeyReport, err)
	}
	return &snap, nil
}

// decodeStrict rejects null documents, unknown fields and trailing data.
func decodeStrict(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errors.New("empty record")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after record")
	}
	return nil
}
