package main

import (
	"encoding/json"
	"fmt"

	"github.com/PrintfR/HardCode/internal/config"
	"github.com/PrintfR/HardCode/internal/observability"
	"github.com/PrintfR/HardCode/internal/questions"
	"github.com/PrintfR/HardCode/internal/types"
	"github.com/spf13/cobra"
)

var generateQuestionsCmd = &cobra.Command{
	Use:   "generate-questions",
	Short: "Generate interview questions",
	Long:  "Asks the configured model for interview questions and prints them without storing anything.",
	RunE:  runGenerateQuestions,
}

var (
	genTitle      string
	genPosition   string
	genTechStack  []string
	genType       string
	genDifficulty string
	genCount      int
	genJSON       bool
)

func init() {
	generateQuestionsCmd.Flags().StringVar(&genTitle, "title", "", "Interview title; prints the full interview header when set")
	generateQuestionsCmd.Flags().StringVarP(&genPosition, "position", "p", "", "Job position (required)")
	generateQuestionsCmd.Flags().StringSliceVarP(&genTechStack, "tech-stack", "s", nil, "Comma-separated tech stack (required)")
	generateQuestionsCmd.Flags().StringVarP(&genType, "type", "t", string(types.InterviewMix), "Interview type: technical, behavioral or mix")
	generateQuestionsCmd.Flags().StringVarP(&genDifficulty, "difficulty", "d", string(types.DifficultyMedium), "Difficulty: easy, medium or hard")
	generateQuestionsCmd.Flags().IntVarP(&genCount, "count", "n", 5, "Number of questions")
	generateQuestionsCmd.Flags().BoolVar(&genJSON, "json", false, "Print the questions as a JSON array")

	if err := generateQuestionsCmd.MarkFlagRequired("position"); err != nil {
		panic(fmt.Sprintf("failed to mark position flag as required: %v", err))
	}
	if err := generateQuestionsCmd.MarkFlagRequired("tech-stack"); err != nil {
		panic(fmt.Sprintf("failed to mark tech-stack flag as required: %v", err))
	}

	rootCmd.AddCommand(generateQuestionsCmd)
}

func runGenerateQuestions(cmd *cobra.Command, _ []string) error {
	params := types.GenerationParams{
		Position:   genPosition,
		TechStack:  genTechStack,
		Type:       types.InterviewType(genType),
		Difficulty: types.Difficulty(genDifficulty),
		Count:      genCount,
	}
	if !params.Type.Valid() {
		return fmt.Errorf("invalid interview type %q", genType)
	}
	if !params.Difficulty.Valid() {
		return fmt.Errorf("invalid difficulty %q", genDifficulty)
	}
	if params.Count < 1 || params.Count > types.MaxQuestions {
		return fmt.Errorf("count must be between 1 and %d", types.MaxQuestions)
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

	qs, err := questions.NewGenerator(client, logger).Generate(cmd.Context(), params)
	if err != nil {
		return fmt.Errorf("failed to generate questions: %w", err)
	}

	out := cmd.OutOrStdout()
	if genJSON {
		data, err := json.MarshalIndent(qs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}

	printer := observability.NewPrinter(out)
	if genTitle == "" {
		printer.PrintQuestions(qs)
		return nil
	}
	interview := &types.Interview{
		Title:             genTitle,
		Position:          params.Position,
		TechStack:         params.TechStack,
		Type:              params.Type,
		Difficulty:        params.Difficulty,
		NumberOfQuestions: len(qs),
	}
	for _, q := range qs {
		interview.Questions = append(interview.Questions, types.Question{Text: q})
	}
	printer.PrintInterview(interview)
	return nil
}
