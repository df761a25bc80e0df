package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/saiharshith312004/performance-dashboard/internal/collector"
	"github.com/saiharshith312004/performance-dashboard/internal/config"
	"github.com/saiharshith312004/performance-dashboard/internal/dashboard"
	"github.com/saiharshith312004/performance-dashboard/internal/domain"
	apperrors "github.com/saiharshith312004/performance-dashboard/internal/errors"
	"github.com/saiharshith312004/performance-dashboard/internal/storage"
	"github.com/saiharshith312004/performance-dashboard/internal/storage/postgres"
	"github.com/saiharshith312004/performance-dashboard/internal/storage/sqlite"
)

var (
	outputJSON   bool
	windowDays   int
	useCached    bool
	refreshFirst bool
	historyLimit int
)

var rootCmd = &cobra.Command{
	Use:   "perfdash",
	Short: "Repository performance dashboard",
	Long: `A CLI tool for measuring the recent development health of a GitHub repository.

It collects commits, pull requests, issues, and code reviews over a bounded
window, derives five health metrics from them, and answers free-text
questions about those metrics.`,
}

var collectCmd = &cobra.Command{
	Use:   "collect [repository]",
	Short: "Collect repository activity and compute metrics",
	Long:  `Fetch recent activity for a repository (owner/name or GitHub URL), store the snapshot, and compute its health metrics.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCollect,
}

var showCmd = &cobra.Command{
	Use:   "show [repository]",
	Short: "Show repository health metrics",
	Long:  `Display the five health metrics for a repository. By default fresh activity is collected first; use --cached to serve the last stored record.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var askCmd = &cobra.Command{
	Use:   "ask [repository] [question...]",
	Short: "Ask a question about repository metrics",
	Long: `Answer a free-text question about a repository's metrics, for example:

  perfdash ask octocat/hello-world what is the commit frequency`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute [repository]",
	Short: "Recompute metrics from the stored snapshot",
	Long:  `Re-derive the health metrics from the latest stored activity snapshot without contacting GitHub.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRecompute,
}

var historyCmd = &cobra.Command{
	Use:   "history [repository]",
	Short: "Show previously computed metrics",
	Long:  `List the stored metrics records for a repository, newest first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")

	collectCmd.Flags().IntVar(&windowDays, "days", 0, "window length in days (default from WINDOW_DAYS)")
	showCmd.Flags().IntVar(&windowDays, "days", 0, "window length in days (default from WINDOW_DAYS)")
	showCmd.Flags().BoolVar(&useCached, "cached", false, "serve the last stored record without collecting")
	askCmd.Flags().BoolVar(&refreshFirst, "refresh", false, "collect fresh activity before answering")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum number of records to list")

	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageType {
	case "postgres":
		return postgres.NewPostgresStorage(cfg.PostgresURL)
	default:
		return sqlite.NewSQLiteStorage(cfg.SQLitePath)
	}
}

func getCollector(cfg *config.Config) collector.Collector {
	switch cfg.CollectorType {
	case "fixture":
		return collector.NewFixtureCollector(cfg.FixturePath)
	default:
		return collector.NewGitHubCollector(cfg.GitHubToken)
	}
}

// newService wires up the dashboard service. Commands that only read stored
// data skip the collector credential check.
func newService(requireCollector bool) (dashboard.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if requireCollector {
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	store, err := getStorage(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	svc := dashboard.NewService(getCollector(cfg), store, cfg.WindowDays)
	return svc, func() { _ = store.Close() }, nil
}

func runCollect(cmd *cobra.Command, args []string) error {
	repo, err := domain.ParseRepoRef(args[0])
	if err != nil {
		return err
	}

	svc, cleanup, err := newService(true)
	if err != nil {
		return err
	}
	defer cleanup()

	if !outputJSON {
		fmt.Printf("Collecting activity for %s...\n", repo)
	}

	record, err := svc.Collect(context.Background(), repo, windowDays)
	if err != nil {
		return fmt.Errorf("failed to collect activity: %w", err)
	}

	if !outputJSON {
		fmt.Printf("Stored snapshot %s covering the last %d days\n", record.SnapshotID, record.WindowDays)
	}
	return printMetrics(record)
}

func runShow(cmd *cobra.Command, args []string) error {
	repo, err := domain.ParseRepoRef(args[0])
	if err != nil {
		return err
	}

	svc, cleanup, err := newService(!useCached)
	if err != nil {
		return err
	}
	defer cleanup()

	record, err := svc.Metrics(context.Background(), repo, !useCached, windowDays)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return fmt.Errorf("no stored metrics for %s: run 'perfdash collect %s' first", repo, repo)
		}
		return fmt.Errorf("failed to get metrics: %w", err)
	}

	return printMetrics(record)
}

func runAsk(cmd *cobra.Command, args []string) error {
	repo, err := domain.ParseRepoRef(args[0])
	if err != nil {
		return err
	}
	question := strings.Join(args[1:], " ")

	svc, cleanup, err := newService(refreshFirst)
	if err != nil {
		return err
	}
	defer cleanup()

	answer, err := svc.Answer(context.Background(), repo, question, refreshFirst)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return fmt.Errorf("no stored metrics for %s: run 'perfdash collect %s' first", repo, repo)
		}
		return fmt.Errorf("failed to answer question: %w", err)
	}

	if outputJSON {
		return printJSON(map[string]string{
			"question": question,
			"answer":   answer,
		})
	}

	fmt.Println(answer)
	return nil
}

func runRecompute(cmd *cobra.Command, args []string) error {
	repo, err := domain.ParseRepoRef(args[0])
	if err != nil {
		return err
	}

	svc, cleanup, err := newService(false)
	if err != nil {
		return err
	}
	defer cleanup()

	record, err := svc.Recompute(context.Background(), repo)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return fmt.Errorf("no stored activity for %s: run 'perfdash collect %s' first", repo, repo)
		}
		return fmt.Errorf("failed to recompute metrics: %w", err)
	}

	return printMetrics(record)
}

func runHistory(cmd *cobra.Command, args []string) error {
	repo, err := domain.ParseRepoRef(args[0])
	if err != nil {
		return err
	}

	svc, cleanup, err := newService(false)
	if err != nil {
		return err
	}
	defer cleanup()

	records, err := svc.History(context.Background(), repo, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list metrics history: %w", err)
	}

	if outputJSON {
		return printJSON(records)
	}

	if len(records) == 0 {
		fmt.Printf("No stored metrics for %s.\n", repo)
		return nil
	}

	fmt.Printf("\nMetrics History: %s\n\n", repo)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Computed At", "Days", "Commits/Day", "Merge Rate", "Issue Hours", "Review Hours", "Contributors"})
	for _, record := range records {
		m := record.Metrics
		table.Append([]string{
			record.ComputedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", record.WindowDays),
			fmt.Sprintf("%.2f", m.CommitFrequency),
			fmt.Sprintf("%.2f%%", m.PRMergeRate*100),
			fmt.Sprintf("%.2f", m.AvgIssueResolutionTime),
			fmt.Sprintf("%.2f", m.AvgReviewTurnaroundTime),
			fmt.Sprintf("%d", m.NewContributors),
		})
	}
	table.Render()

	return nil
}

// printMetrics renders one metrics record as a table, or as JSON with --json
func printMetrics(record *domain.MetricsSnapshot) error {
	if outputJSON {
		return printJSON(record)
	}

	fmt.Printf("\nRepository Health: %s/%s\n", record.Owner, record.Repo)
	fmt.Printf("Window: last %d days, computed %s\n\n", record.WindowDays, record.ComputedAt.Format(time.RFC3339))

	m := record.Metrics
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Commit Frequency", fmt.Sprintf("%.2f commits/day", m.CommitFrequency)})
	table.Append([]string{"PR Merge Rate", fmt.Sprintf("%.2f%%", m.PRMergeRate*100)})
	table.Append([]string{"Avg Issue Resolution", fmt.Sprintf("%.2f hours", m.AvgIssueResolutionTime)})
	table.Append([]string{"Avg Review Turnaround", fmt.Sprintf("%.2f hours", m.AvgReviewTurnaroundTime)})
	table.Append([]string{"New Contributors", fmt.Sprintf("%d", m.NewContributors)})
	table.Render()

	return nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
