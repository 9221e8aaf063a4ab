package conversation

// State is a step of the screening conversation.
type State string

const (
	StateGreeting             State = "GREETING"
	StateCollectingName       State = "COLLECTING_NAME"
	StateCollectingContact    State = "COLLECTING_CONTACT"
	StateCollectingExperience State = "COLLECTING_EXPERIENCE"
	StateCollectingPosition   State = "COLLECTING_POSITION"
	StateCollectingLocation   State = "COLLECTING_LOCATION"
	StateCollectingTechStack  State = "COLLECTING_TECH_STACK"
	StateAskingQuestions      State = "ASKING_QUESTIONS"
	StateClosing              State = "CLOSING"
)

var canonicalOrder = []State{
	StateGreeting,
	StateCollectingName,
	StateCollectingContact,
	StateCollectingExperience,
	StateCollectingPosition,
	StateCollectingLocation,
	StateCollectingTechStack,
	StateAskingQuestions,
	StateClosing,
}

// States returns every state in canonical order.
func States() []State {
	states := make([]State, len(canonicalOrder))
	copy(states, canonicalOrder)
	return states
}

// Index returns the position of the state in canonical order or -1 for unknown values.
func (s State) Index() int {
	for i, state := range canonicalOrder {
		if state == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	return s.Index() != -1
}

// Next returns the following state. CLOSING and unknown states map to CLOSING.
func (s State) Next() State {
	idx := s.Index()
	if idx == -1 || idx == len(canonicalOrder)-1 {
		return StateClosing
	}
	return canonicalOrder[idx+1]
}

func (s State) String() string {
	return string(s)
}
