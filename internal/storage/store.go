package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/privacy"
)

const (
	recordExt = ".json"

	// DefaultRetention is how long records are kept by Cleanup.
	DefaultRetention = 90 * 24 * time.Hour
)

var (
	ErrNotFound  = errors.New("candidate record not found")
	ErrInvalidID = errors.New("invalid candidate id")
)

// Store keeps one JSON file per candidate record and audits every access.
// It is safe for concurrent use.
type Store struct {
	dir    string
	audit  *AuditLog
	logger *zap.Logger
	now    func() time.Time
}

// New creates the record directory if needed and opens the audit log.
func New(dir, auditPath string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("data directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if auditPath == "" {
		auditPath = filepath.Join(dir, "audit.log")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	audit, err := OpenAuditLog(auditPath)
	if err != nil {
		return nil, err
	}

	return &Store{dir: dir, audit: audit, logger: logger, now: time.Now}, nil
}

// Audit exposes the audit log.
func (s *Store) Audit() *AuditLog {
	return s.audit
}

// Close releases the audit log.
func (s *Store) Close() error {
	return s.audit.Close()
}

// Save writes the record atomically. Saving the same ID again replaces it.
func (s *Store) Save(record *privacy.Record) error {
	if record == nil {
		return errors.New("record is nil")
	}

	id := record.AnonymousID
	if err := s.checkID(id); err != nil {
		s.fail(OpSave, id, err)
		return err
	}

	if err := s.write(record); err != nil {
		s.fail(OpSave, id, err)
		return fmt.Errorf("saving record %s: %w", id, err)
	}

	s.record(AuditEntry{Operation: OpSave, CandidateID: id})
	s.logger.Debug("candidate record saved", zap.String("candidate_id", id))
	return nil
}

// Retrieve loads a record by ID.
func (s *Store) Retrieve(id string) (*privacy.Record, error) {
	if err := s.checkID(id); err != nil {
		s.fail(OpRetrieve, id, err)
		return nil, err
	}

	record, err := s.read(id)
	if err != nil {
		s.fail(OpRetrieve, id, err)
		return nil, err
	}

	s.record(AuditEntry{Operation: OpRetrieve, CandidateID: id})
	return record, nil
}

// Delete removes a record. The attempt is audited even when the record does
// not exist.
func (s *Store) Delete(id string) error {
	return s.delete(id, "")
}

// List returns every stored record ordered by creation time.
func (s *Store) List() ([]*privacy.Record, error) {
	return s.records(nil)
}

// records loads every stored record ordered by creation time. When skip is
// set, unreadable records are handed to it instead of failing the whole scan.
func (s *Store) records(skip func(id string, err error)) ([]*privacy.Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	records := make([]*privacy.Record, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != recordExt {
			continue
		}

		id := strings.TrimSuffix(name, recordExt)
		if !privacy.ValidCandidateID(id) {
			continue
		}

		record, err := s.read(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if skip == nil {
				return nil, err
			}
			skip(id, err)
			continue
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].AnonymousID < records[j].AnonymousID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	return records, nil
}

// Cleanup deletes records created before now minus retention and returns the
// number of removed records. Unreadable record files are audited and skipped.
func (s *Store) Cleanup(retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("retention must be positive, got %s", retention)
	}

	skipped := 0
	records, err := s.records(func(id string, err error) {
		skipped++
		s.record(AuditEntry{
			Operation:   OpError,
			CandidateID: id,
			Details:     fmt.Sprintf("retention cleanup skipped unreadable record: %v", err),
		})
		s.logger.Warn("skipping unreadable record",
			zap.String("candidate_id", id),
			zap.Error(err),
		)
	})
	if err != nil {
		return 0, err
	}

	cutoff := s.now().UTC().Add(-retention)
	removed := 0
	for _, record := range records {
		if !record.CreatedAt.Before(cutoff) {
			continue
		}
		if err := s.delete(record.AnonymousID, "retention cleanup"); err != nil {
			return removed, err
		}
		removed++
	}

	s.logger.Info("retention cleanup finished",
		zap.Int("removed", removed),
		zap.Int("kept", len(records)-removed),
		zap.Int("skipped", skipped),
		zap.Duration("retention", retention),
	)
	return removed, nil
}

func (s *Store) delete(id, details string) error {
	if err := s.checkID(id); err != nil {
		s.fail(OpDelete, id, err)
		return err
	}

	err := os.Remove(s.path(id))
	switch {
	case errors.Is(err, os.ErrNotExist):
		err = fmt.Errorf("%w: %s", ErrNotFound, id)
		details = strings.TrimSpace(details + " record did not exist")
	case err != nil:
		s.fail(OpDelete, id, err)
		return fmt.Errorf("deleting record %s: %w", id, err)
	}

	s.record(AuditEntry{Operation: OpDelete, CandidateID: id, Details: details})
	return err
}

func (s *Store) write(record *privacy.Record) error {
	tmp, err := os.CreateTemp(s.dir, record.AnonymousID+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path(record.AnonymousID))
}

func (s *Store) read(id string) (*privacy.Record, error) {
	file, err := os.Open(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var record privacy.Record
	if err := json.NewDecoder(file).Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding record %s: %w", id, err)
	}
	return &record, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+recordExt)
}

func (s *Store) checkID(id string) error {
	if !privacy.ValidCandidateID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func (s *Store) fail(op Operation, id string, err error) {
	s.record(AuditEntry{
		Operation:   OpError,
		CandidateID: id,
		Details:     fmt.Sprintf("%s failed: %v", op, err),
	})
}

// record appends to the audit log. An audit failure is logged and does not
// change the result of the audited operation.
func (s *Store) record(entry AuditEntry) {
	if err := s.audit.Append(entry); err != nil {
		s.logger.Error("failed to write audit entry",
			zap.String("operation", string(entry.Operation)),
			zap.String("candidate_id", entry.CandidateID),
			zap.Error(err),
		)
	}
}
