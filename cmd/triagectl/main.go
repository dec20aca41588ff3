package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/animalrescue/rescue-connect/internal/ai"
	"github.com/animalrescue/rescue-connect/internal/config"
	"github.com/animalrescue/rescue-connect/internal/logging"
	"github.com/animalrescue/rescue-connect/internal/triage"
)

var (
	configPath string
	timeout    time.Duration
	verbose    bool

	condition string
	location  string
	contact   string
)

var rootCmd = &cobra.Command{
	Use:           "triagectl",
	Short:         "Run urgency triage against the configured model backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify one animal condition report",
	Long: `Sends a single report to the configured model backend and prints
the verdict as JSON. Missing fields are reported before any model call.`,
	RunE: runClassify,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to YAML config")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "deadline for the model call")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	classifyCmd.Flags().StringVar(&condition, "condition", "", "description of the animal's condition")
	classifyCmd.Flags().StringVar(&location, "location", "", "where the animal was found")
	classifyCmd.Flags().StringVar(&contact, "contact", "", "reporter contact details")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAI(); err != nil {
		return err
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	backend, err := ai.New(ctx, cfg.Backend(), logger)
	if err != nil {
		return err
	}

	req := triage.Request{
		ConditionReport: condition,
		LocationDetails: location,
		ReporterContact: contact,
	}
	return classify(ctx, triage.NewClassifier(backend, logger), req, cmd.OutOrStdout())
}

func classify(ctx context.Context, c triage.Classifier, req triage.Request, out io.Writer) error {
	verdict, err := c.Classify(ctx, req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(verdict)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, triage.ErrClassification) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", triage.Kind(err), err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
