package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/hh-screener/internal/privacy"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"

	listSeparator = ";"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// csvHeader fixes the column order of CSV exports.
var csvHeader = []string{
	"anonymous_id",
	"created_at",
	"version",
	"name_hash",
	"email_hash",
	"phone_hash",
	"location",
	"location_hashed",
	"experience",
	"positions",
	"tech_stack",
	"questions",
	"answers",
}

type csvRow struct {
	AnonymousID    string `csv:"anonymous_id"`
	CreatedAt      string `csv:"created_at"`
	Version        string `csv:"version"`
	NameHash       string `csv:"name_hash"`
	EmailHash      string `csv:"email_hash"`
	PhoneHash      string `csv:"phone_hash"`
	Location       string `csv:"location"`
	LocationHashed string `csv:"location_hashed"`
	Experience     string `csv:"experience"`
	Positions      string `csv:"positions"`
	TechStack      string `csv:"tech_stack"`
	Questions      string `csv:"questions"`
	Answers        string `csv:"answers"`
}

// ParseFormat accepts "json" or "csv" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Export writes the requested records, or every record when ids is empty.
func (s *Store) Export(w io.Writer, format Format, ids ...string) error {
	if format != FormatJSON && format != FormatCSV {
		err := fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		s.fail(OpExport, "", err)
		return err
	}

	records, err := s.collect(ids)
	if err != nil {
		s.fail(OpExport, "", err)
		return err
	}

	switch format {
	case FormatCSV:
		err = writeCSV(w, records)
	default:
		err = writeJSON(w, records)
	}
	if err != nil {
		s.fail(OpExport, "", err)
		return fmt.Errorf("exporting records as %s: %w", format, err)
	}

	s.record(AuditEntry{
		Operation: OpExport,
		Details:   fmt.Sprintf("format=%s records=%d", format, len(records)),
	})
	return nil
}

func (s *Store) collect(ids []string) ([]*privacy.Record, error) {
	if len(ids) == 0 {
		return s.List()
	}

	records := make([]*privacy.Record, 0, len(ids))
	for _, id := range ids {
		if err := s.checkID(id); err != nil {
			return nil, err
		}
		record, err := s.read(id)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func writeJSON(w io.Writer, records []*privacy.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeCSV(w io.Writer, records []*privacy.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, record := range records {
		values, err := rowValues(record)
		if err != nil {
			return err
		}
		if err := cw.Write(values); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// rowValues flattens a record into csvHeader order.
func rowValues(record *privacy.Record) ([]string, error) {
	row := csvRow{
		AnonymousID:    record.AnonymousID,
		CreatedAt:      record.CreatedAt.UTC().Format(time.RFC3339),
		Version:        record.Version,
		NameHash:       record.NameHash,
		EmailHash:      record.EmailHash,
		PhoneHash:      record.PhoneHash,
		Location:       record.Location,
		LocationHashed: strconv.FormatBool(record.LocationHashed),
		Experience:     record.Experience,
		Positions:      strings.Join(record.Positions, listSeparator),
		TechStack:      strings.Join(record.TechStack, listSeparator),
		Questions:      strings.Join(record.Questions, listSeparator),
		Answers:        strings.Join(record.Answers, listSeparator),
	}

	fields := map[string]string{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &fields,
		TagName: "csv",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(row); err != nil {
		return nil, fmt.Errorf("flattening record %s: %w", record.AnonymousID, err)
	}

	values := make([]string, len(csvHeader))
	for i, column := range csvHeader {
		values[i] = fields[column]
	}
	return values, nil
}
