package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/ai"
	"github.com/spigell/hh-screener/internal/conversation"
	"github.com/spigell/hh-screener/internal/logger"
	"github.com/spigell/hh-screener/internal/privacy"
	"github.com/spigell/hh-screener/internal/prompts"
)

const (
	greetingTemperature float32 = 0.8
	chatTemperature     float32 = 0.7
	questionTemperature float32 = 0.5
)

// Anonymizer converts the collected candidate into a storable record.
type Anonymizer interface {
	Anonymize(c *conversation.Candidate, transcript []conversation.Message) (*privacy.Record, error)
}

// Saver persists records.
type Saver interface {
	Save(record *privacy.Record) error
}

// Deps aggregates the collaborators of a session.
type Deps struct {
	Generator  ai.Generator
	Prompts    *prompts.Manager
	Anonymizer Anonymizer
	Store      Saver
	Logger     *zap.Logger
}

// Config tunes a session.
type Config struct {
	// HistoryWindow is the number of recent messages sent as context.
	HistoryWindow int
	// MaxQuestions caps the number of technical questions.
	MaxQuestions int
}

// Reply is what the assistant says after a turn.
type Reply struct {
	Text  string
	State conversation.State
	Done  bool
}

// Session runs one screening conversation. It is not safe for concurrent use.
type Session struct {
	id      string
	machine *conversation.Machine
	deps    Deps
	cfg     Config
	logger  *zap.Logger

	record *privacy.Record
	saved  bool
}

// New starts a session in the GREETING state.
func New(deps Deps, cfg Config) (*Session, error) {
	if deps.Anonymizer == nil || deps.Store == nil {
		return nil, errors.New("anonymizer and store are required")
	}
	if deps.Prompts == nil {
		deps.Prompts = prompts.New("", cfg.MaxQuestions)
	}
	if deps.Generator == nil {
		deps.Generator = ai.Disabled{}
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = conversation.DefaultWindow
	}
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = prompts.DefaultQuestionCount
	}

	id := uuid.NewString()
	return &Session{
		id:      id,
		machine: conversation.NewMachine(deps.Prompts),
		deps:    deps,
		cfg:     cfg,
		logger:  logger.WithFields(deps.Logger, logger.SessionFields(id, "")...),
	}, nil
}

// ID identifies the session in logs. It is unrelated to the candidate ID.
func (s *Session) ID() string { return s.id }

func (s *Session) State() conversation.State { return s.machine.State() }

// Candidate returns a copy of the collected information.
func (s *Session) Candidate() *conversation.Candidate { return s.machine.Candidate().Clone() }

// Transcript returns the full conversation so far.
func (s *Session) Transcript() []conversation.Message { return s.machine.History().Transcript() }

// Start produces the greeting.
func (s *Session) Start(ctx context.Context) Reply {
	step := s.machine.Advance("")
	text := s.say(ctx, step.Instruction, greetingTemperature, s.deps.Prompts.Canned(step.State, s.machine.Candidate()))
	return s.reply(text)
}

// Respond processes one candidate message. The conversation state never
// depends on whether the language model succeeded.
func (s *Session) Respond(ctx context.Context, input string) Reply {
	if s.machine.Done() {
		s.machine.Advance(input)
		text := s.deps.Prompts.Canned(conversation.StateClosing, s.machine.Candidate())
		s.machine.History().Append(conversation.RoleAssistant, text)
		return s.reply(text)
	}

	step := s.machine.Advance(input)
	s.logger.Debug("turn processed",
		zap.String("from", step.From.String()),
		zap.String(logger.FieldState, step.State.String()),
		zap.String("action", step.Action.String()),
		zap.Bool("exit", step.Exit),
		zap.Strings("missing", step.Missing),
	)

	c := s.machine.Candidate()
	var text string
	switch step.Action {
	case conversation.ActionClarify:
		text = s.say(ctx, step.Instruction, chatTemperature, s.deps.Prompts.CannedClarification(step.Missing))
	case conversation.ActionGenerateQuestions:
		next := s.prepareQuestions(ctx)
		text = s.say(ctx, next.Instruction, chatTemperature, s.deps.Prompts.Canned(next.State, c))
	default:
		text = s.say(ctx, step.Instruction, chatTemperature, s.deps.Prompts.Canned(step.State, c))
	}

	return s.reply(text)
}

// Finish anonymizes and saves the candidate. After a successful save further
// calls return the same record; after a failed save the call can be repeated
// and stores the same record.
func (s *Session) Finish(ctx context.Context) (*privacy.Record, error) {
	if s.saved {
		return s.record, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.record == nil {
		record, err := s.deps.Anonymizer.Anonymize(s.machine.Candidate(), s.machine.History().Transcript())
		if err != nil {
			return nil, fmt.Errorf("anonymizing candidate: %w", err)
		}
		s.record = record
	}

	if err := s.deps.Store.Save(s.record); err != nil {
		s.logger.Error("failed to save candidate record",
			zap.String("candidate_id", s.record.AnonymousID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("saving candidate: %w", err)
	}

	s.saved = true
	s.logger.Info("candidate record saved",
		zap.String("candidate_id", s.record.AnonymousID),
		zap.Int("questions", len(s.record.Questions)),
		zap.Int("answers", len(s.record.Answers)),
	)
	return s.record, nil
}

// prepareQuestions asks the model for technical questions and falls back to
// templated ones when the answer is unusable.
func (s *Session) prepareQuestions(ctx context.Context) conversation.Step {
	techStack := s.machine.Candidate().TechStack

	raw, err := s.deps.Generator.Generate(ctx, ai.Request{
		System:      s.deps.Prompts.System(),
		Prompt:      s.deps.Prompts.QuestionGeneration(techStack),
		Temperature: questionTemperature,
	})

	questions := ai.ParseQuestions(raw, s.cfg.MaxQuestions)
	switch {
	case err != nil:
		s.logger.Warn("question generation failed, using fallback questions", zap.Error(err))
		questions = s.deps.Prompts.FallbackQuestions(techStack)
	case len(questions) == 0:
		s.logger.Warn("no questions found in model response, using fallback questions")
		questions = s.deps.Prompts.FallbackQuestions(techStack)
	}

	step, err := s.machine.SetQuestions(questions)
	if err != nil {
		// Fallback questions are never empty.
		step, _ = s.machine.SetQuestions(s.deps.Prompts.FallbackQuestions(techStack))
	}

	s.logger.Debug("technical questions prepared", zap.Int("count", len(s.machine.Candidate().Questions)))
	return step
}

// say asks the model to follow instruction with the recent history as context
// and returns canned when it fails.
func (s *Session) say(ctx context.Context, instruction string, temperature float32, canned string) string {
	prompt := s.deps.Prompts.Conversation(s.machine.History().Window(s.cfg.HistoryWindow), instruction)

	text, err := s.deps.Generator.Generate(ctx, ai.Request{
		System:      s.deps.Prompts.System(),
		Prompt:      prompt,
		Temperature: temperature,
	})
	if err != nil {
		if !errors.Is(err, ai.ErrDisabled) {
			s.logger.Warn("language model failed, using canned reply",
				zap.String(logger.FieldState, s.machine.State().String()),
				zap.Error(err),
			)
		}
		text = canned
	}

	s.machine.History().Append(conversation.RoleAssistant, text)
	return text
}

func (s *Session) reply(text string) Reply {
	return Reply{Text: text, State: s.machine.State(), Done: s.machine.Done()}
}
