package conversation

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultWindow is the number of recent messages handed to the language model.
const DefaultWindow = 6

// Message is a single entry of the conversation log.
type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// History is an append-only message log. Transcript and Window are views
// computed on read; neither shares memory with the log.
type History struct {
	messages []Message
	now      func() time.Time
}

// NewHistory returns an empty log.
func NewHistory() *History {
	return &History{now: time.Now}
}

// Append adds a message at the end of the log.
func (h *History) Append(role Role, text string) {
	now := time.Now
	if h.now != nil {
		now = h.now
	}
	h.messages = append(h.messages, Message{Role: role, Text: text, At: now().UTC()})
}

// Len returns the number of messages in the log.
func (h *History) Len() int {
	return len(h.messages)
}

// Transcript returns a copy of the whole log.
func (h *History) Transcript() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Window returns a copy of the last n messages. Non-positive n yields an empty slice.
func (h *History) Window(n int) []Message {
	if n <= 0 {
		return []Message{}
	}

	start := len(h.messages) - n
	if start < 0 {
		start = 0
	}

	out := make([]Message, len(h.messages)-start)
	copy(out, h.messages[start:])
	return out
}
