package prompts

import (
	"fmt"
	"strings"

	"github.com/spigell/hh-screener/internal/conversation"
)

const genericQuestion = "Tell me about a challenging project you have worked on and the technical decisions you made."

// Canned returns a static reply for state, used when the language model is unavailable.
func (m *Manager) Canned(state conversation.State, c *conversation.Candidate) string {
	name := c.FirstName()
	greet := "Thanks"
	if name != "" {
		greet = "Thanks, " + name
	}

	switch state {
	case conversation.StateGreeting:
		return fmt.Sprintf("Welcome to %s! I'm your hiring assistant and I'll run your initial screening interview. Could you please share your full name to get started?", m.company)
	case conversation.StateCollectingName:
		return "Could you please share your full name?"
	case conversation.StateCollectingContact:
		return greet + "! Could you share your email address and phone number? We'll only use them for follow-up."
	case conversation.StateCollectingExperience:
		return greet + "! How many years of experience do you have in software development?"
	case conversation.StateCollectingPosition:
		return "Great! Which position or positions are you interested in?"
	case conversation.StateCollectingLocation:
		return "Noted. What is your current or preferred working location?"
	case conversation.StateCollectingTechStack:
		return "Tell me about your tech stack: the languages, frameworks, databases and tools you work with."
	case conversation.StateAskingQuestions:
		if c != nil && len(c.Answers) < len(c.Questions) {
			return fmt.Sprintf("Q%d: %s", len(c.Answers)+1, c.Questions[len(c.Answers)])
		}
		return "Let me prepare some technical questions for you..."
	case conversation.StateClosing:
		return "Thank you for your time! Your information has been recorded. We'll be in touch within 2-3 business days if there is a suitable match. Have a great day!"
	default:
		return "Could you rephrase your answer? I'm here to run your screening interview."
	}
}

// CannedClarification returns a static request to repeat the missing fields.
func (m *Manager) CannedClarification(missing []string) string {
	fields := describeFields(missing)
	if fields == "" {
		return "Could you rephrase your answer? I'm here to run your screening interview."
	}
	return fmt.Sprintf("Sorry, I couldn't find a valid %s in your answer. Could you provide it again%s?", fields, formatHint(missing))
}

// FallbackQuestions builds technical questions without the language model.
func (m *Manager) FallbackQuestions(techStack []string) []string {
	templates := []string{
		"Describe a production problem you solved with %s. How did you find the root cause?",
		"What are the most common performance pitfalls in %s and how do you avoid them?",
		"How do you structure and test a non-trivial project that uses %s?",
		"Which features or trade-offs of %s would you explain first to a junior colleague, and why?",
		"How do you keep a %s codebase secure and maintainable over time?",
	}

	questions := make([]string, 0, m.questionCount)
	for i, tech := range techStack {
		if len(questions) == m.questionCount-1 {
			break
		}
		tech = strings.TrimSpace(tech)
		if tech == "" {
			continue
		}
		questions = append(questions, fmt.Sprintf(templates[i%len(templates)], tech))
	}

	return append(questions, genericQuestion)
}
