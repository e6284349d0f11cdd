package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/taxon/internal/config"
	"github.com/JaimeStill/taxon/internal/export"
	"github.com/JaimeStill/taxon/internal/filter"
	"github.com/JaimeStill/taxon/internal/infrastructure"
	"github.com/JaimeStill/taxon/internal/ingest"
	"github.com/JaimeStill/taxon/internal/mapping"
	"github.com/JaimeStill/taxon/internal/records"
	"github.com/JaimeStill/taxon/internal/sessions"
	"github.com/JaimeStill/taxon/internal/table"
)

type classifyOptions struct {
	input    string
	output   string
	format   string
	locale   string
	filters  string
	search   string
	sort     string
	desc     bool
	mappings string
}

func newClassifyCmd(root *rootOptions) *cobra.Command {
	opts := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a field inventory file and write the labelled records.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.Context(), root.configPath, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "field inventory CSV (required)")
	f.StringVarP(&opts.output, "output", "o", "-", "output file, or - for stdout")
	f.StringVar(&opts.format, "format", "", "csv, json, or parquet (default from the output extension, else csv)")
	f.StringVar(&opts.locale, "locale", "", "CSV header locale: en or zh")
	f.StringVar(&opts.filters, "filters", "", "JSON file holding a list of filter conditions")
	f.StringVar(&opts.search, "search", "", "keep only fields whose name contains this term")
	f.StringVar(&opts.sort, "sort", "", "sort column")
	f.BoolVar(&opts.desc, "desc", false, "sort descending")
	f.StringVar(&opts.mappings, "mappings", "", "write the mapping table of the run to this JSON file")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runClassify(ctx context.Context, configPath string, opts *classifyOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	exportOpts, err := opts.exportOptions()
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	conds, err := readConditions(opts.filters)
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	if _, err := filter.Compile(conds); err != nil {
		return &exitError{code: 2, err: err}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	infra, err := infrastructure.New(cfg, stderr, "classify")
	if err != nil {
		return err
	}
	defer infra.Close()

	engine := table.New(cfg.API.Pagination)
	state := engine.SetSearchTerm(engine.NewState(), opts.search)
	if opts.sort != "" {
		state, err = engine.SortBy(state, opts.sort)
		if err != nil {
			return &exitError{code: 2, err: err}
		}
		if opts.desc {
			state, _ = engine.SortBy(state, opts.sort)
		}
	}

	in, err := os.Open(opts.input)
	if err != nil {
		return err
	}
	parsed, err := ingest.ParseRows(in)
	in.Close()
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	for _, w := range parsed.Warnings {
		infra.Logger.Warn("input row skipped", "row", w.Row, "reason", w.Message)
	}

	outcome, runErr := sessions.Run(ctx, infra.Dispatcher, parsed.Items, mapping.NewTaskID())
	if outcome == nil {
		return runErr
	}

	infra.Logger.Info(
		"classification finished",
		"task_id", outcome.TaskID,
		"encoding", parsed.Encoding,
		"rows", len(parsed.Items),
		"restored", len(outcome.Records),
		"failed", len(outcome.Failures),
		"orphans", len(outcome.Orphans),
		"missing", len(outcome.Missing),
	)

	filtered, err := filter.Evaluate(conds, outcome.Records)
	if err != nil {
		return err
	}

	if err := writeOutput(opts.output, stdout, engine.Resolve(filtered, state), exportOpts); err != nil {
		return err
	}

	if opts.mappings != "" {
		if err := writeJSONFile(opts.mappings, outcome.Entries); err != nil {
			return err
		}
	}

	if runErr != nil {
		return &exitError{code: 3, err: fmt.Errorf("partial result written: %w", runErr)}
	}
	if len(outcome.Failures) > 0 || len(outcome.Missing) > 0 {
		return &exitError{code: 3, err: fmt.Errorf(
			"partial result written: %d failed, %d missing",
			len(outcome.Failures), len(outcome.Missing),
		)}
	}
	return nil
}

func (o *classifyOptions) exportOptions() (export.Options, error) {
	name := o.format
	if name == "" && o.output != "-" {
		name = strings.TrimPrefix(filepath.Ext(o.output), ".")
	}

	format, err := export.ParseFormat(name)
	if err != nil {
		return export.Options{}, err
	}
	locale, err := export.ParseLocale(o.locale)
	if err != nil {
		return export.Options{}, err
	}
	return export.Options{Format: format, Locale: locale}, nil
}

func readConditions(path string) ([]filter.Condition, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var conds []filter.Condition
	if err := json.Unmarshal(data, &conds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return conds, nil
}

func writeOutput(path string, stdout io.Writer, rs []records.Record, opts export.Options) error {
	if path == "-" || path == "" {
		return export.Write(stdout, rs, opts)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.Write(f, rs, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
