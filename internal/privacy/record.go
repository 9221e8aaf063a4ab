package privacy

import (
	"time"

	"github.com/spigell/hh-screener/internal/conversation"
)

// Record is the persisted, anonymized form of a screening.
type Record struct {
	AnonymousID    string                 `json:"anonymous_id"`
	CreatedAt      time.Time              `json:"created_at"`
	Version        string                 `json:"version"`
	NameHash       string                 `json:"name_hash"`
	EmailHash      string                 `json:"email_hash"`
	PhoneHash      string                 `json:"phone_hash"`
	Location       string                 `json:"location"`
	LocationHashed bool                   `json:"location_hashed"`
	Experience     string                 `json:"experience"`
	Positions      []string               `json:"positions"`
	TechStack      []string               `json:"tech_stack"`
	Questions      []string               `json:"questions"`
	Answers        []string               `json:"answers"`
	Transcript     []conversation.Message `json:"transcript"`
}
