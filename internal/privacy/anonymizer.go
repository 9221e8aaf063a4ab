package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/spigell/hh-screener/internal/conversation"
	"github.com/spigell/hh-screener/internal/validation"
)

// RecordVersion is written into every record.
const RecordVersion = "1.0"

const (
	idPrefix     = "CAND_"
	idTimeLayout = "20060102150405"
	idSuffixLen  = 12
)

var (
	ErrEmptySalt = errors.New("anonymization salt is empty")

	candidateIDPattern = regexp.MustCompile(`^CAND_\d{14}_[0-9a-f]{12}$`)
)

// Policy controls which non-identifying fields are hashed as well.
type Policy struct {
	// HashLocation stores the location as a salted hash instead of clear text.
	HashLocation bool
}

// DefaultPolicy hashes the location.
func DefaultPolicy() Policy {
	return Policy{HashLocation: true}
}

// Anonymizer turns a collected candidate into a record without direct identifiers.
type Anonymizer struct {
	salt     string
	policy   Policy
	validate *validator.Validate
	now      func() time.Time
}

// New returns an Anonymizer using salt for every hash. The salt is kept in
// memory only.
func New(salt string, policy Policy) (*Anonymizer, error) {
	if strings.TrimSpace(salt) == "" {
		return nil, ErrEmptySalt
	}

	return &Anonymizer{
		salt:     salt,
		policy:   policy,
		validate: validation.New(),
		now:      time.Now,
	}, nil
}

// Policy returns the active policy.
func (a *Anonymizer) Policy() Policy {
	return a.policy
}

// Hash returns the hex sha256 of the normalized value and the salt. Empty
// values hash to an empty string.
func (a *Anonymizer) Hash(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(normalized + a.salt))
	return hex.EncodeToString(sum[:])
}

// NewCandidateID returns an identifier shaped like CAND_20260102150405_1a2b3c4d5e6f.
func (a *Anonymizer) NewCandidateID() (string, error) {
	return NewCandidateID(a.now())
}

// NewCandidateID builds an identifier from the timestamp and a random suffix.
func NewCandidateID(at time.Time) (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating candidate id: %w", err)
	}

	suffix := strings.ReplaceAll(u.String(), "-", "")[:idSuffixLen]
	return idPrefix + at.UTC().Format(idTimeLayout) + "_" + suffix, nil
}

// ValidCandidateID reports whether id has the shape produced by NewCandidateID.
func ValidCandidateID(id string) bool {
	return candidateIDPattern.MatchString(id)
}

// Anonymize validates the candidate and builds a record with hashed
// identifiers. The transcript is copied with identifying values redacted.
func (a *Anonymizer) Anonymize(c *conversation.Candidate, transcript []conversation.Message) (*Record, error) {
	if c == nil {
		return nil, errors.New("candidate is nil")
	}
	if err := a.validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid candidate: %w", err)
	}

	id, err := a.NewCandidateID()
	if err != nil {
		return nil, err
	}

	record := &Record{
		AnonymousID: id,
		CreatedAt:   a.now().UTC(),
		Version:     RecordVersion,
		NameHash:    a.Hash(c.FullName),
		EmailHash:   a.Hash(c.Email),
		PhoneHash:   a.Hash(validation.PhoneDigits(c.Phone)),
		Location:    c.Location,
		Experience:  c.Experience,
		Positions:   copyStrings(c.Positions),
		TechStack:   copyStrings(c.TechStack),
		Questions:   copyStrings(c.Questions),
		Answers:     copyStrings(c.Answers),
	}

	if a.policy.HashLocation && c.Location != "" {
		record.Location = a.Hash(c.Location)
		record.LocationHashed = true
	}

	record.Transcript = make([]conversation.Message, 0, len(transcript))
	for _, msg := range transcript {
		msg.Text = Redact(msg.Text, c, a.policy)
		record.Transcript = append(record.Transcript, msg)
	}

	return record, nil
}

func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
