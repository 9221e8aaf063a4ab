package prompts

import (
	"fmt"
	"strconv"
	"strings"

	_ "embed"

	"github.com/spigell/hh-screener/internal/conversation"
)

//go:embed system.md
var systemTemplate string

//go:embed questions.md
var questionsTemplate string

const (
	defaultCompany       = "TalentScout"
	DefaultQuestionCount = 5
)

// Manager builds instruction and prompt texts. All methods are pure.
type Manager struct {
	company       string
	questionCount int
}

// New returns a Manager introducing itself on behalf of company.
func New(company string, questionCount int) *Manager {
	company = strings.TrimSpace(company)
	if company == "" {
		company = defaultCompany
	}
	if questionCount <= 0 {
		questionCount = DefaultQuestionCount
	}
	return &Manager{company: company, questionCount: questionCount}
}

// Company returns the name the assistant speaks for.
func (m *Manager) Company() string { return m.company }

// System returns the system prompt sent with every conversational request.
func (m *Manager) System() string {
	return strings.ReplaceAll(strings.TrimSpace(systemTemplate), "{{COMPANY}}", m.company)
}

// Instruction describes what the assistant should say next in state.
func (m *Manager) Instruction(state conversation.State, c *conversation.Candidate) string {
	name := addressee(c)

	switch state {
	case conversation.StateGreeting:
		return fmt.Sprintf("Welcome the candidate to %s's hiring assistant. Briefly explain that you will run their initial screening interview and ask for their full name. Keep it warm, professional and encouraging.", m.company)
	case conversation.StateCollectingName:
		return "Ask the candidate for their full name."
	case conversation.StateCollectingContact:
		return fmt.Sprintf("Thank %s and ask for their email address and phone number. Mention they will be used for follow-up communication only.", name)
	case conversation.StateCollectingExperience:
		return fmt.Sprintf("Ask %s how many years of experience they have in software development or technology.", name)
	case conversation.StateCollectingPosition:
		return fmt.Sprintf("Ask %s which position or positions they are interested in.", name)
	case conversation.StateCollectingLocation:
		return fmt.Sprintf("Ask %s for their current or preferred working location.", name)
	case conversation.StateCollectingTechStack:
		return fmt.Sprintf("Ask %s about their tech stack: programming languages, frameworks, databases and tools they are proficient with. Ask them to list several technologies.", name)
	case conversation.StateAskingQuestions:
		if c != nil && len(c.Answers) < len(c.Questions) {
			return fmt.Sprintf("Ask technical question %d of %d exactly as written: %s", len(c.Answers)+1, len(c.Questions), c.Questions[len(c.Answers)])
		}
		var stack []string
		if c != nil {
			stack = c.TechStack
		}
		return m.QuestionGeneration(stack)
	case conversation.StateClosing:
		return m.Closing(c)
	default:
		return m.Fallback()
	}
}

// Clarification asks the candidate to repeat an answer that could not be used.
func (m *Manager) Clarification(state conversation.State, c *conversation.Candidate, missing []string) string {
	fields := describeFields(missing)
	if fields == "" {
		return m.Fallback()
	}
	return fmt.Sprintf("The candidate's last answer did not contain a usable %s. Politely ask %s to provide it again%s.", fields, addressee(c), formatHint(missing))
}

// Fallback handles input that is unclear or off-topic.
func (m *Manager) Fallback() string {
	return "The user input was unclear or off-topic. Apologize briefly, remind them that you are here to run a hiring screening, and ask them to rephrase. Keep it concise."
}

// QuestionGeneration asks the model for numbered technical questions.
func (m *Manager) QuestionGeneration(techStack []string) string {
	stack := strings.Join(techStack, ", ")
	if stack == "" {
		stack = "general software development"
	}
	prompt := strings.ReplaceAll(strings.TrimSpace(questionsTemplate), "{{TECH_STACK}}", stack)
	return strings.ReplaceAll(prompt, "{{COUNT}}", strconv.Itoa(m.questionCount))
}

// Closing thanks the candidate and explains the next steps.
func (m *Manager) Closing(c *conversation.Candidate) string {
	summary := ""
	if c != nil && len(c.TechStack) > 0 {
		summary = fmt.Sprintf(" Briefly summarize what you learned: tech stack %s", strings.Join(c.TechStack, ", "))
		if c.Experience != "" {
			summary += fmt.Sprintf(", experience %s", c.Experience)
		}
		summary += "."
	}
	return fmt.Sprintf("Thank %s for their time in this screening interview.%s Explain that their information will be reviewed and that they will be contacted within 2-3 business days if there is a suitable match. Keep it professional, warm and encouraging.", addressee(c), summary)
}

// Conversation renders the recent messages followed by the instruction for the next reply.
func (m *Manager) Conversation(window []conversation.Message, instruction string) string {
	var b strings.Builder
	if len(window) > 0 {
		b.WriteString("Conversation history:\n")
		for _, msg := range window {
			fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(msg.Role)), msg.Text)
		}
		b.WriteString("\n")
	}
	b.WriteString("Instruction for your next reply:\n")
	b.WriteString(strings.TrimSpace(instruction))
	return b.String()
}

func addressee(c *conversation.Candidate) string {
	if name := c.FirstName(); name != "" {
		return name
	}
	return "the candidate"
}

var fieldLabels = map[string]string{
	conversation.FieldName:       "full name",
	conversation.FieldEmail:      "email address",
	conversation.FieldPhone:      "phone number",
	conversation.FieldExperience: "years of experience",
	conversation.FieldPositions:  "desired position",
	conversation.FieldLocation:   "location",
	conversation.FieldTechStack:  "list of technologies",
	conversation.FieldAnswer:     "answer to the question",
}

func describeFields(missing []string) string {
	labels := make([]string, 0, len(missing))
	for _, field := range missing {
		label, ok := fieldLabels[field]
		if !ok {
			label = strings.ReplaceAll(field, "_", " ")
		}
		labels = append(labels, label)
	}
	return strings.Join(labels, " and ")
}

func formatHint(missing []string) string {
	var hints []string
	for _, field := range missing {
		switch field {
		case conversation.FieldEmail:
			hints = append(hints, "an email like yourname@example.com")
		case conversation.FieldPhone:
			hints = append(hints, "a phone number like 555-123-4567")
		}
	}
	if len(hints) == 0 {
		return ""
	}
	return ", for example " + strings.Join(hints, " and ")
}
