package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rocjay1/statement-sorter/internal/classifier"
	"github.com/rocjay1/statement-sorter/internal/config"
	"github.com/rocjay1/statement-sorter/internal/csvexport"
	"github.com/rocjay1/statement-sorter/internal/pdfdoc"
	"github.com/rocjay1/statement-sorter/internal/services"
	"github.com/rocjay1/statement-sorter/internal/statement"
)

type options struct {
	pdf        string
	month      string
	sheetID    string
	configPath string
	sink       string
	dump       string
	debug      bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("statement", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.pdf, "pdf", "", "Path to PDF statement file (required)")
	fs.StringVar(&o.month, "month", "", `Statement month, e.g. "December 2025" (required)`)
	fs.StringVar(&o.sheetID, "sheet-id", "", "Google Sheet ID (overrides config)")
	fs.StringVar(&o.configPath, "config", "config.yaml", "Path to config file")
	fs.StringVar(&o.sink, "sink", "", "Output sink: sheets, table or workbook (overrides config)")
	fs.StringVar(&o.dump, "dump", "", "Write every transaction and its category to this CSV file")
	fs.BoolVar(&o.debug, "debug", false, "Log parsing and classification details")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.pdf == "" || o.month == "" {
		fs.Usage()
		return o, errors.New("--pdf and --month are required")
	}
	return o, nil
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	if _, err := os.Stat(opts.pdf); err != nil {
		fmt.Fprintf(stderr, "Error: PDF file not found: %s\n", opts.pdf)
		return 1
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	if opts.sink != "" {
		cfg.Sink = opts.sink
	}
	if opts.sheetID != "" {
		cfg.SheetID = opts.sheetID
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if cfg.Sink == config.SinkSheets {
			fmt.Fprintln(stderr, "Please create a service account and download credentials.json")
		}
		return 1
	}

	rules := classifier.DefaultRules()
	if cfg.RulesFile != "" {
		if rules, err = classifier.LoadRules(cfg.RulesFile); err != nil {
			fmt.Fprintf(stderr, "Error loading rules: %v\n", err)
			return 1
		}
	}

	fmt.Fprintf(stdout, "Parsing PDF: %s\n", opts.pdf)
	doc, err := pdfdoc.Open(opts.pdf)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing PDF: %v\n", err)
		return 1
	}
	defer doc.Close()

	result, err := statement.NewProcessor(rules).Process(ctx, doc)
	if errors.Is(err, statement.ErrNoTransactions) {
		fmt.Fprintln(stderr, "Warning: No transactions found in PDF")
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing PDF: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Found %d transactions\n", len(result.Transactions))

	if opts.dump != "" {
		if err := csvexport.WriteFile(opts.dump, result.Transactions, result.Verdicts); err != nil {
			fmt.Fprintf(stderr, "Error writing dump: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote transaction dump: %s\n", opts.dump)
	}

	printSummary(stdout, result.Summary)

	sink, target, err := newSink(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "\nWriting to %s\n", target)
	if err := statement.Publish(ctx, sink, opts.month, result.Summary); err != nil {
		if errors.Is(err, statement.ErrSinkUnavailable) {
			printSinkHints(stderr, cfg.Sink, err)
			return 1
		}
		fmt.Fprintf(stderr, "Error writing category totals: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "Successfully appended category totals!")
	return 0
}

// newSink builds the configured sink and a description of where it writes.
func newSink(ctx context.Context, cfg *config.Config) (statement.Sink, string, error) {
	switch cfg.Sink {
	case config.SinkSheets:
		s, err := services.NewSheetsService(ctx, cfg.Google.CredentialsFile, cfg.SheetID)
		return s, "Google Sheet: " + cfg.SheetID, err
	case config.SinkTable:
		s, err := services.NewLedgerServiceFor(cfg.Table.ServiceURL, cfg.Table.Name)
		return s, "table storage: " + cfg.Table.ServiceURL, err
	case config.SinkWorkbook:
		return services.NewWorkbookService(cfg.Workbook.Path, cfg.Workbook.Sheet), "workbook: " + cfg.Workbook.Path, nil
	}
	return nil, "", fmt.Errorf("unknown sink %q", cfg.Sink)
}
