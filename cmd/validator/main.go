// Command validator runs every read operation against a live budget and
// reports responses the client rejects or whose contents contradict
// themselves.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eshaffer321/ynab-go/pkg/ynab"
)

// ValidatorConfig holds configuration for the validator
type ValidatorConfig struct {
	Token     string
	BudgetID  string
	BaseURL   string
	OutputDir string
	Verbose   bool
	Checks    []string
}

func main() {
	config := parseFlags()

	if config.Token == "" {
		log.Fatal("YNAB_TOKEN environment variable or -token is required")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	client, err := ynab.NewClient(&ynab.ClientOptions{
		Token:   config.Token,
		BaseURL: config.BaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	validator := NewValidator(config, client)
	report := validator.Run(context.Background())

	reportPath := filepath.Join(config.OutputDir, fmt.Sprintf("validation_report_%d.json", time.Now().Unix()))
	if err := saveReport(report, reportPath); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}

	printSummary(report, reportPath)

	if report.Failed > 0 {
		os.Exit(1)
	}
}

func parseFlags() *ValidatorConfig {
	config := &ValidatorConfig{}

	flag.StringVar(&config.Token, "token", os.Getenv("YNAB_TOKEN"), "Personal access token")
	flag.StringVar(&config.BudgetID, "budget", "last-used", "Budget ID to check")
	flag.StringVar(&config.BaseURL, "base-url", os.Getenv("YNAB_BASE_URL"), "API base URL")
	flag.StringVar(&config.OutputDir, "output", "./validation_results", "Output directory for results")
	flag.BoolVar(&config.Verbose, "verbose", false, "Verbose output")

	checkList := flag.String("checks", "", "Comma-separated list of checks to run (empty for all)")

	flag.Parse()

	if *checkList != "" {
		config.Checks = strings.Split(*checkList, ",")
	}

	return config
}

func saveReport(report *ValidationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printSummary(report *ValidationReport, path string) {
	fmt.Println("\n=== Validation Report ===")
	fmt.Printf("Budget: %s\n", report.BudgetID)
	fmt.Printf("Total Checks: %d\n", report.TotalChecks)
	fmt.Printf("Passed: %d\n", report.Passed)
	fmt.Printf("Failed: %d\n", report.Failed)
	fmt.Printf("Success Rate: %.1f%%\n", report.SuccessRate)

	if report.Failed > 0 {
		fmt.Println("\nFailed Checks:")
		for _, result := range report.Results {
			if result.Passed {
				continue
			}
			fmt.Printf("  - %s [%s]: %s\n", result.Check, result.Outcome, result.Error)
			for _, f := range result.Findings {
				fmt.Printf("      %s\n", f)
			}
		}
	}

	fmt.Printf("\nReport saved to: %s\n", path)
}
