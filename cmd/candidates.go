package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/logger"
	"github.com/spigell/hh-screener/internal/privacy"
	"github.com/spigell/hh-screener/internal/storage"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Inspect and maintain stored screening records",
}

var candidatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records ordered by creation time",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		withStore(func(store *storage.Store, logger *zap.Logger) error {
			records, err := store.List()
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), records)
		})
	},
}

var candidatesShowCmd = &cobra.Command{
	Use:   "show <candidate-id>",
	Short: "Print one record as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(store *storage.Store, _ *zap.Logger) error {
			record, err := store.Retrieve(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(record)
		})
	},
}

var candidatesDeleteCmd = &cobra.Command{
	Use:   "delete <candidate-id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(store *storage.Store, logger *zap.Logger) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(fmt.Sprintf("Delete %s?", args[0])) {
				logger.Info("deletion cancelled", zap.String("candidate_id", args[0]))
				return nil
			}

			if err := store.Delete(args[0]); err != nil {
				return err
			}
			logger.Info("record deleted", zap.String("candidate_id", args[0]))
			return nil
		})
	},
}

var candidatesExportCmd = &cobra.Command{
	Use:   "export [candidate-id...]",
	Short: "Export records as JSON or CSV (all records when no ids are given)",
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(store *storage.Store, logger *zap.Logger) error {
			rawFormat, _ := cmd.Flags().GetString("format")
			format, err := storage.ParseFormat(rawFormat)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			path, _ := cmd.Flags().GetString("output")
			if path != "" {
				file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}

			if err := store.Export(out, format, args...); err != nil {
				return err
			}
			if path != "" {
				logger.Info("records exported", zap.String("filename", path), zap.String("format", string(format)))
			}
			return nil
		})
	},
}

var candidatesCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete records older than the retention period",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		withStore(func(store *storage.Store, _ *zap.Logger) error {
			days := viper.GetInt("data.retention-days")
			if days <= 0 {
				return fmt.Errorf("retention days must be positive, got %d", days)
			}

			removed, err := store.Cleanup(time.Duration(days) * 24 * time.Hour)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d record(s) older than %d days\n", removed, days)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(candidatesCmd)
	candidatesCmd.AddCommand(candidatesListCmd, candidatesShowCmd, candidatesDeleteCmd, candidatesExportCmd, candidatesCleanupCmd)

	candidatesDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	candidatesExportCmd.Flags().StringP("format", "f", string(storage.FormatJSON), "export format: json or csv")
	candidatesExportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	candidatesCleanupCmd.Flags().Int("retention-days", 0, "override data.retention-days")

	viper.BindPFlag("data.retention-days", candidatesCleanupCmd.Flags().Lookup("retention-days"))
}

// withStore opens the configured store, runs fn and terminates on error.
func withStore(fn func(store *storage.Store, logger *zap.Logger) error) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %v", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting config", zap.Error(err))
	}

	store, err := openStore(config.Data, logger)
	if err != nil {
		logger.Fatal("opening candidate storage", zap.Error(err))
	}

	err = fn(store, logger)
	store.Close()
	if err != nil {
		logger.Fatal("candidates command failed", zap.Error(err))
	}
}

func confirm(label string) bool {
	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptNo, PromptYes},
	}
	_, answer, err := prompt.Run()
	return err == nil && answer == PromptYes
}

func printRecords(out io.Writer, records []*privacy.Record) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tPOSITIONS\tTECH STACK\tANSWERS")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\n",
			r.AnonymousID,
			r.CreatedAt.Format(time.RFC3339),
			strings.Join(r.Positions, ", "),
			strings.Join(r.TechStack, ", "),
			len(r.Answers), len(r.Questions),
		)
	}
	return w.Flush()
}
