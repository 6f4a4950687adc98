package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PrintfR/HardCode/internal/config"
	"github.com/PrintfR/HardCode/internal/evaluation"
	"github.com/PrintfR/HardCode/internal/observability"
	"github.com/PrintfR/HardCode/internal/types"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score an interview transcript",
	Long:  "Scores a transcript file with the configured model and prints the feedback. The file holds either a JSON array of {role, content} messages or an object with a transcript field.",
	RunE:  runEvaluate,
}

var (
	evalTranscriptFile string
	evalJSON           bool
)

func init() {
	evaluateCmd.Flags().StringVarP(&evalTranscriptFile, "transcript", "i", "", "Path to transcript JSON file (required)")
	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "Print the feedback as JSON")

	if err := evaluateCmd.MarkFlagRequired("transcript"); err != nil {
		panic(fmt.Sprintf("failed to mark transcript flag as required: %v", err))
	}

	rootCmd.AddCommand(evaluateCmd)
}

func readTranscript(path string) ([]types.TranscriptMessage, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript file: %w", err)
	}

	var req types.AnalyzeRequest
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &req.Transcript)
	} else {
		err = json.Unmarshal(trimmed, &req)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcript JSON: %w", err)
	}
	if req.Transcript == nil {
		return nil, fmt.Errorf("transcript file has no transcript")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transcript: %w", err)
	}
	return req.Transcript, nil
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	transcript, err := readTranscript(evalTranscriptFile)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateLLM(); err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.LogLevel, observability.FormatConsole)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := newLLMClient(cmd.Context(), cfg.LLM())
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	feedback, err := evaluation.NewEvaluator(client, logger).Evaluate(cmd.Context(), transcript)
	if err != nil {
		return fmt.Errorf("failed to evaluate transcript: %w", err)
	}

	out := cmd.OutOrStdout()
	if evalJSON {
		data, err := json.MarshalIndent(feedback, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}
	observability.NewPrinter(out).PrintFeedback(feedback)
	return nil
}
