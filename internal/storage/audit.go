package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Operation names an audited action.
type Operation string

const (
	OpSave     Operation = "save"
	OpRetrieve Operation = "retrieve"
	OpDelete   Operation = "delete"
	OpExport   Operation = "export"
	OpError    Operation = "error"
)

// AuditEntry is one line of the audit log.
type AuditEntry struct {
	Operation   Operation `json:"operation"`
	Timestamp   time.Time `json:"timestamp"`
	CandidateID string    `json:"candidate_id,omitempty"`
	Details     string    `json:"details,omitempty"`
}

// AuditLog is an append-only JSON-lines file.
type AuditLog struct {
	mu   sync.Mutex
	path string
	file *os.File
	now  func() time.Time
}

// OpenAuditLog opens or creates the log at path.
func OpenAuditLog(path string) (*AuditLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating audit log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening audit log %q: %w", path, err)
	}

	return &AuditLog{path: path, file: file, now: time.Now}, nil
}

// Path returns the location of the log file.
func (l *AuditLog) Path() string {
	return l.path
}

// Append writes one entry. A zero Timestamp is set to the current UTC time.
func (l *AuditLog) Append(entry AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding audit entry: %w", err)
	}

	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing audit entry: %w", err)
	}
	return nil
}

// Entries reads the whole log back in write order.
func (l *AuditLog) Entries() ([]AuditEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []AuditEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var entry AuditEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("decoding audit entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// Close closes the underlying file.
func (l *AuditLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}
