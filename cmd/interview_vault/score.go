package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/observability"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/scoring"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job description",
	Long:  "Compute the ATS match score of a resume text file against a job description text file without a database.",
	RunE:  runScore,
}

var (
	scoreResumeFile string
	scoreJobFile    string
	scoreTitle      string
	scoreJSON       bool
	scoreVerbose    bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResumeFile, "resume", "r", "", "Path to the resume text file (required)")
	scoreCmd.Flags().StringVarP(&scoreJobFile, "job", "j", "", "Path to the job description text file (required)")
	scoreCmd.Flags().StringVarP(&scoreTitle, "title", "t", "", "Job title (derived from the job description when empty)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the full result as JSON")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print extracted skills and matches")

	_ = scoreCmd.MarkFlagRequired("resume")
	_ = scoreCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	resume, err := os.ReadFile(scoreResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}
	job, err := os.ReadFile(scoreJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description file: %w", err)
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	svc := scoring.NewService(engine, scoring.WithLogger(logger))
	result := svc.ScoreText(context.Background(), string(resume), string(job), scoreTitle)

	if scoreVerbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintExtractedSkills("RESUME SKILLS", engine.ExtractSkills(string(resume)))
		printer.PrintExtractedSkills("JOB DESCRIPTION SKILLS", engine.ExtractSkills(string(job)))
		printer.PrintMatches(result)
		printer.PrintScore(result)
	}

	if scoreJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("ATS score: %s%%\n", scoring.FormatScore(result.FinalScore))
	if len(result.MissingSkills) > 0 {
		fmt.Printf("Missing skills: %v\n", result.MissingSkills)
	}
	return nil
}
