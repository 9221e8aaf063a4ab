package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/ai"
	"github.com/spigell/hh-screener/internal/assistant"
	"github.com/spigell/hh-screener/internal/logger"
	"github.com/spigell/hh-screener/internal/prompts"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	maxSaveAttempts = 3
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive screening conversation",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("provider", "p", "", "language model provider: gemini, ollama or none")
	viper.BindPFlag("ai.provider", chatCmd.Flags().Lookup("provider"))
}

func chat(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %v", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting config", zap.Error(err))
	}

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("language model unavailable, using built-in replies", zap.Error(err))
		generator = ai.Disabled{}
	}

	anonymizer, err := newAnonymizer(config.Data)
	if err != nil {
		logger.Fatal("preparing anonymizer", zap.Error(err))
	}

	store, err := openStore(config.Data, logger)
	if err != nil {
		logger.Fatal("opening candidate storage", zap.Error(err))
	}
	defer store.Close()

	session, err := assistant.New(assistant.Deps{
		Generator:  generator,
		Prompts:    prompts.New(config.Company, config.Conversation.MaxQuestions),
		Anonymizer: anonymizer,
		Store:      store,
		Logger:     logger,
	}, assistant.Config{
		HistoryWindow: config.Conversation.HistoryWindow,
		MaxQuestions:  config.Conversation.MaxQuestions,
	})
	if err != nil {
		logger.Fatal("starting session", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	reply := session.Start(ctx)
	fmt.Fprintf(out, "\n%s\n\n", reply.Text)

	input := promptui.Prompt{Label: "You"}
	for !reply.Done {
		text, err := input.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			logger.Info("conversation interrupted, nothing was saved",
				zap.String("session_id", session.ID()),
				zap.String("state", session.State().String()),
			)
			return
		}
		if err != nil {
			logger.Fatal("reading input", zap.Error(err))
		}

		reply = session.Respond(ctx, text)
		fmt.Fprintf(out, "\n%s\n\n", reply.Text)
	}

	if err := finish(ctx, session, logger); err != nil {
		logger.Fatal("saving candidate", zap.Error(err))
	}
}

// finish saves the session, offering a retry when the store fails.
func finish(ctx context.Context, session *assistant.Session, logger *zap.Logger) error {
	retry := promptui.Select{
		Label: "Saving failed. Retry?",
		Items: []string{PromptYes, PromptNo},
	}

	var err error
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		saved, saveErr := session.Finish(ctx)
		if saveErr == nil {
			logger.Info("screening finished", zap.String("candidate_id", saved.AnonymousID))
			return nil
		}
		err = saveErr
		logger.Error("saving candidate failed", zap.Int("attempt", attempt), zap.Error(err))

		if attempt == maxSaveAttempts {
			break
		}
		if _, answer, promptErr := retry.Run(); promptErr != nil || answer != PromptYes {
			break
		}
	}

	return err
}
