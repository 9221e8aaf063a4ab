package conversation

// Candidate accumulates what the candidate shared during the conversation.
// A field is filled once its state completes and is never cleared afterwards.
type Candidate struct {
	FullName   string   `json:"full_name,omitempty" validate:"max=200"`
	Email      string   `json:"email,omitempty" validate:"omitempty,screening_email"`
	Phone      string   `json:"phone,omitempty" validate:"omitempty,screening_phone"`
	Experience string   `json:"years_of_experience,omitempty" validate:"max=200"`
	Positions  []string `json:"desired_positions,omitempty" validate:"dive,max=200"`
	Location   string   `json:"location,omitempty" validate:"max=200"`
	TechStack  []string `json:"tech_stack,omitempty"`
	Questions  []string `json:"questions,omitempty"`
	Answers    []string `json:"answers,omitempty"`
}

// Clone returns a deep copy of the candidate.
func (c *Candidate) Clone() *Candidate {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Positions = cloneStrings(c.Positions)
	clone.TechStack = cloneStrings(c.TechStack)
	clone.Questions = cloneStrings(c.Questions)
	clone.Answers = cloneStrings(c.Answers)
	return &clone
}

// FirstName returns the first word of the full name, used to address the candidate.
func (c *Candidate) FirstName() string {
	if c == nil {
		return ""
	}

	for i, r := range c.FullName {
		if r == ' ' {
			return c.FullName[:i]
		}
	}
	return c.FullName
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
