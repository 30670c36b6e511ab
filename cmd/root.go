package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pizzalog/eventgen/pkg/chart"
	"github.com/pizzalog/eventgen/pkg/config"
	"github.com/pizzalog/eventgen/pkg/export"
	"github.com/pizzalog/eventgen/pkg/logger"
	"github.com/pizzalog/eventgen/pkg/menu"
	"github.com/pizzalog/eventgen/pkg/simulation"
	"github.com/spf13/cobra"
)

var (
	configFile       string
	menuFile         string
	outputFile       string
	outputFormat     string
	showTimeline     bool
	timelineLimit    int
	showEventSummary bool
	showDemandChart  bool
	bucketSchedule   string
	natsURL          string
	natsSubject      string
	logLevel         string
	logFormat        string
	logOutput        string

	numberOfCases int
	startDate     string
	endDate       string
	seed          uint64
)

var rootCmd = &cobra.Command{
	Use:   "eventgen",
	Short: "Pizza Restaurant Event Log Generator",
	Long: `A CLI tool that synthesizes process-mining event logs for a pizza restaurant.

This tool reads a generation configuration and a menu catalog, simulates the
lifecycle of every order (payment, preparation, quality checks, rework and
delivery outcomes) and writes a time-ordered event log as CSV or JSON lines,
optionally publishing each event to NATS.`,
	RunE:         runGenerate,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", string(logger.LevelInfo), "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logOutput, "log-output", "stderr", "Log destination (stderr, stdout or a file path)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (built-in defaults when empty)")
	rootCmd.PersistentFlags().StringVarP(&menuFile, "menu", "m", "", "Path to a YAML menu catalog (defaults to the config's menu, then the built-in catalog)")

	rootCmd.Flags().StringVarP(&outputFile, "output", "o", export.DefaultCSVFile, "Output file, or - for stdout")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", string(export.FormatCSV), "Output format (csv, jsonl)")
	rootCmd.Flags().BoolVarP(&showTimeline, "timeline", "t", false, "Show detailed timeline of events")
	rootCmd.Flags().IntVarP(&timelineLimit, "timeline-limit", "l", 50, "Limit number of timeline events to display")
	rootCmd.Flags().BoolVarP(&showEventSummary, "summary", "s", true, "Show event summary")
	rootCmd.Flags().BoolVar(&showDemandChart, "chart", false, "Show order arrivals chart")
	rootCmd.Flags().StringVar(&bucketSchedule, "bucket-schedule", chart.DefaultBucketSchedule, "Cron schedule delimiting chart buckets")
	rootCmd.Flags().StringVar(&natsURL, "nats-url", "", "Publish every event to this NATS server")
	rootCmd.Flags().StringVar(&natsSubject, "nats-subject", export.DefaultSubject, "NATS subject prefix")

	rootCmd.Flags().IntVar(&numberOfCases, "cases", 0, "Override numberOfCases")
	rootCmd.Flags().StringVar(&startDate, "start", "", "Override startDate (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&endDate, "end", "", "Override endDate (YYYY-MM-DD)")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "Override the random seed (0 draws a fresh one)")

	rootCmd.AddCommand(serveCmd, menuCmd)
}

func newLogger() (*logger.Logger, error) {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.LogLevel(logLevel)
	cfg.Format = logFormat
	cfg.Output = logOutput
	return logger.New(cfg)
}

// readConfig returns the configuration file's contents, or the defaults
// when no file is given
func readConfig() (config.Config, error) {
	if configFile == "" {
		return config.Default(), nil
	}
	loaded, err := config.LoadConfig(configFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	return *loaded, nil
}

// loadConfig reads the configuration file, if any, and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("cases") {
		cfg.NumberOfCases = numberOfCases
	}
	if flags.Changed("start") {
		cfg.StartDate = startDate
	}
	if flags.Changed("end") {
		cfg.EndDate = endDate
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	items, err := menu.Resolve(cfg, menuFile)
	if err != nil {
		return fmt.Errorf("failed to load menu: %w", err)
	}

	base, err := newLogger()
	if err != nil {
		return err
	}
	defer base.Close()

	runID := uuid.NewString()
	log := base.WithRun(runID)

	// Reports move to stderr when the event log itself goes to stdout
	var report io.Writer = cmd.OutOrStdout()
	if outputFile == "-" {
		report = cmd.ErrOrStderr()
	}

	// Create and run simulator
	sim, err := simulation.NewSimulator(cfg, items, simulation.WithLogger(log.WithComponent("simulation").Logger))
	if err != nil {
		return err
	}

	source := "built-in defaults"
	if configFile != "" {
		source = configFile
	}
	effective := sim.Config()
	fmt.Fprintf(report, "Loaded configuration from %s\n", source)
	fmt.Fprintf(report, "  - Cases: %d (x%.1f at peak, %d generated)\n", effective.NumberOfCases, effective.PeakHourMultiplier,
		simulation.TotalCases(effective.NumberOfCases, effective.PeakHourMultiplier))
	fmt.Fprintf(report, "  - Window: %s to %s (%s)\n", effective.Start.Format(time.RFC3339), effective.End.Format(time.RFC3339), effective.WeekendBasis)
	fmt.Fprintf(report, "  - Chefs: %v, Ovens: %d, Drivers: %d\n", effective.ActivePizzaChefs, effective.ActiveOvens, effective.ActiveDrivers)
	fmt.Fprintf(report, "  - Quality Check: %t (rework %.0f%%)\n", effective.QualityCheckEnabled, effective.ReworkRate)
	fmt.Fprintf(report, "  - Menu Items: %d\n\n", len(items))

	if err := sim.Run(cmd.Context()); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	events := sim.GetEvents()

	if err := writeOutput(cmd, format, runID, events); err != nil {
		return err
	}
	log.Info("event log written", "output", outputFile, "format", format, "events", len(events))

	if natsURL != "" {
		sink, err := export.ConnectNATS(natsURL, natsSubject, runID)
		if err != nil {
			return err
		}
		defer sink.Close()

		if err := sink.Publish(cmd.Context(), events); err != nil {
			return err
		}
		log.Info("event log published", "url", natsURL, "subject", natsSubject, "events", len(events))
	}

	chartGen := chart.NewGenerator()

	// Display event summary
	if showEventSummary {
		fmt.Fprintln(report, chartGen.GenerateEventSummary(events))
		fmt.Fprintln(report, chartGen.GenerateLosses(events))
	}

	// Display arrivals chart
	if showDemandChart {
		demandChart, err := chartGen.GenerateDemandChart(events, bucketSchedule)
		if err != nil {
			return err
		}
		fmt.Fprintln(report, demandChart)
	}

	// Display detailed timeline if requested
	if showTimeline {
		fmt.Fprintln(report, chartGen.GenerateDetailedTimeline(events, timelineLimit))
	}

	return nil
}

func writeOutput(cmd *cobra.Command, format export.Format, runID string, events []simulation.OrderEvent) error {
	if outputFile == "-" {
		return export.Write(cmd.OutOrStdout(), format, runID, events)
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := export.Write(file, format, runID, events); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
