package conversation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/hh-screener/internal/techstack"
)

// Action tells the caller what to do with a Step.
type Action int

const (
	// ActionPrompt asks the candidate for the field of the current state.
	ActionPrompt Action = iota
	// ActionClarify asks again because the answer could not be used.
	ActionClarify
	// ActionGenerateQuestions requests technical questions for the collected tech stack.
	ActionGenerateQuestions
	// ActionAskQuestion asks the next technical question.
	ActionAskQuestion
	// ActionClose finishes the conversation; the caller persists the candidate.
	ActionClose
)

func (a Action) String() string {
	switch a {
	case ActionPrompt:
		return "prompt"
	case ActionClarify:
		return "clarify"
	case ActionGenerateQuestions:
		return "generate_questions"
	case ActionAskQuestion:
		return "ask_question"
	case ActionClose:
		return "close"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

const (
	FieldName       = "full_name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldExperience = "years_of_experience"
	FieldPositions  = "desired_positions"
	FieldLocation   = "location"
	FieldTechStack  = "tech_stack"
	FieldAnswer     = "answer"
)

var (
	ErrUnexpectedState  = errors.New("unexpected conversation state")
	ErrNoQuestions      = errors.New("at least one question is required")
	ErrQuestionsAlready = errors.New("questions are already set")
)

// Instructor renders the instruction text for a state.
type Instructor interface {
	Instruction(state State, c *Candidate) string
	Clarification(state State, c *Candidate, missing []string) string
}

// Step is the outcome of a single Advance call.
type Step struct {
	From        State
	State       State
	Action      Action
	Instruction string
	// Missing lists the fields that could not be extracted when Action is ActionClarify.
	Missing []string
	// Exit is set when the step was caused by exit intent.
	Exit bool
}

type handler func(m *Machine, from State, input string) Step

// Machine drives one screening conversation. It is not safe for concurrent
// use; a session processes one turn at a time.
type Machine struct {
	state      State
	candidate  *Candidate
	history    *History
	visited    []State
	instructor Instructor
	handlers   map[State]handler

	questionIndex int
	pendingEmail  string
	pendingPhone  string
}

// NewMachine returns a machine in the GREETING state.
func NewMachine(instructor Instructor) *Machine {
	if instructor == nil {
		instructor = plainInstructor{}
	}

	return &Machine{
		state:      StateGreeting,
		candidate:  &Candidate{},
		history:    NewHistory(),
		visited:    []State{StateGreeting},
		instructor: instructor,
		handlers: map[State]handler{
			StateGreeting:             (*Machine).handleGreeting,
			StateCollectingName:       (*Machine).handleName,
			StateCollectingContact:    (*Machine).handleContact,
			StateCollectingExperience: (*Machine).handleExperience,
			StateCollectingPosition:   (*Machine).handlePosition,
			StateCollectingLocation:   (*Machine).handleLocation,
			StateCollectingTechStack:  (*Machine).handleTechStack,
			StateAskingQuestions:      (*Machine).handleAnswer,
			StateClosing:              (*Machine).handleClosing,
		},
	}
}

func (m *Machine) State() State { return m.state }

// Candidate returns the live candidate record.
func (m *Machine) Candidate() *Candidate { return m.candidate }

func (m *Machine) History() *History { return m.history }

// Visited returns the states entered so far, starting with GREETING.
func (m *Machine) Visited() []State {
	out := make([]State, len(m.visited))
	copy(out, m.visited)
	return out
}

// QuestionIndex is the index of the next technical question to be answered.
func (m *Machine) QuestionIndex() int { return m.questionIndex }

// Done reports whether the conversation reached CLOSING.
func (m *Machine) Done() bool { return m.state == StateClosing }

// CurrentQuestion returns the question awaiting an answer.
func (m *Machine) CurrentQuestion() (string, bool) {
	if m.state != StateAskingQuestions || m.questionIndex >= len(m.candidate.Questions) {
		return "", false
	}
	return m.candidate.Questions[m.questionIndex], true
}

// Advance feeds one user turn into the machine. Exit intent is checked before
// any state-specific handling and moves every state to CLOSING.
func (m *Machine) Advance(input string) Step {
	text := strings.TrimSpace(input)
	if text != "" {
		m.history.Append(RoleUser, text)
	}

	from := m.state
	if from != StateClosing && IsExitIntent(text) {
		m.transition(StateClosing)
		step := m.step(from, ActionClose)
		step.Exit = true
		return step
	}

	return m.handlers[from](m, from, text)
}

// SetQuestions stores the technical questions generated for the candidate.
// It is accepted once, while the machine waits in ASKING_QUESTIONS.
func (m *Machine) SetQuestions(questions []string) (Step, error) {
	if m.state != StateAskingQuestions {
		return Step{}, fmt.Errorf("%w: %s", ErrUnexpectedState, m.state)
	}
	if len(m.candidate.Questions) > 0 {
		return Step{}, ErrQuestionsAlready
	}

	cleaned := make([]string, 0, len(questions))
	for _, q := range questions {
		if q = strings.TrimSpace(q); q != "" {
			cleaned = append(cleaned, q)
		}
	}
	if len(cleaned) == 0 {
		return Step{}, ErrNoQuestions
	}

	m.candidate.Questions = cleaned
	m.questionIndex = 0
	return m.step(m.state, ActionAskQuestion), nil
}

func (m *Machine) handleGreeting(from State, input string) Step {
	if input == "" {
		return m.step(from, ActionPrompt)
	}

	// The first reply to the greeting is the name.
	m.transition(StateCollectingName)
	return m.handleName(from, input)
}

func (m *Machine) handleName(from State, input string) Step {
	name, ok := extractName(input)
	if !ok {
		return m.clarify(from, FieldName)
	}

	m.candidate.FullName = name
	return m.advanceTo(from, StateCollectingContact)
}

func (m *Machine) handleContact(from State, input string) Step {
	if m.pendingEmail == "" {
		m.pendingEmail = findEmail(input)
	}
	if m.pendingPhone == "" {
		m.pendingPhone = findPhone(input)
	}

	var missing []string
	if m.pendingEmail == "" {
		missing = append(missing, FieldEmail)
	}
	if m.pendingPhone == "" {
		missing = append(missing, FieldPhone)
	}
	if len(missing) > 0 {
		return m.clarify(from, missing...)
	}

	m.candidate.Email = m.pendingEmail
	m.candidate.Phone = m.pendingPhone
	return m.advanceTo(from, StateCollectingExperience)
}

func (m *Machine) handleExperience(from State, input string) Step {
	experience, ok := extractFreeText(input)
	if !ok {
		return m.clarify(from, FieldExperience)
	}

	m.candidate.Experience = experience
	return m.advanceTo(from, StateCollectingPosition)
}

func (m *Machine) handlePosition(from State, input string) Step {
	positions := extractPositions(input)
	if len(positions) == 0 {
		return m.clarify(from, FieldPositions)
	}

	m.candidate.Positions = positions
	return m.advanceTo(from, StateCollectingLocation)
}

func (m *Machine) handleLocation(from State, input string) Step {
	location, ok := extractFreeText(input)
	if !ok {
		return m.clarify(from, FieldLocation)
	}

	m.candidate.Location = location
	return m.advanceTo(from, StateCollectingTechStack)
}

func (m *Machine) handleTechStack(from State, input string) Step {
	stack := techstack.Parse(input)
	if len(stack) == 0 {
		return m.clarify(from, FieldTechStack)
	}

	m.candidate.TechStack = stack
	m.transition(StateAskingQuestions)
	return m.step(from, ActionGenerateQuestions)
}

func (m *Machine) handleAnswer(from State, input string) Step {
	if len(m.candidate.Questions) == 0 {
		return m.step(from, ActionGenerateQuestions)
	}

	if !hasContent(input) {
		return m.clarify(from, FieldAnswer)
	}

	m.candidate.Answers = append(m.candidate.Answers, input)
	m.questionIndex++

	if m.questionIndex >= len(m.candidate.Questions) {
		m.transition(StateClosing)
		return m.step(from, ActionClose)
	}

	return m.step(from, ActionAskQuestion)
}

func (m *Machine) handleClosing(from State, _ string) Step {
	return m.step(from, ActionClose)
}

func (m *Machine) advanceTo(from, next State) Step {
	m.transition(next)
	return m.step(from, ActionPrompt)
}

func (m *Machine) transition(next State) {
	m.state = next
	m.visited = append(m.visited, next)
}

func (m *Machine) clarify(from State, missing ...string) Step {
	return Step{
		From:        from,
		State:       m.state,
		Action:      ActionClarify,
		Instruction: m.instructor.Clarification(m.state, m.candidate, missing),
		Missing:     missing,
	}
}

func (m *Machine) step(from State, action Action) Step {
	return Step{
		From:        from,
		State:       m.state,
		Action:      action,
		Instruction: m.instructor.Instruction(m.state, m.candidate),
	}
}

// plainInstructor is used when no Instructor is supplied.
type plainInstructor struct{}

func (plainInstructor) Instruction(state State, _ *Candidate) string {
	return "continue the conversation in state " + state.String()
}

func (plainInstructor) Clarification(state State, _ *Candidate, missing []string) string {
	return "ask again for " + strings.Join(missing, ", ") + " in state " + state.String()
}
