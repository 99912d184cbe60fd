package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/swingscore/internal/app"
	"github.com/okian/swingscore/internal/config"
	"github.com/okian/swingscore/internal/domain/model"
	"github.com/okian/swingscore/internal/domain/swing"
	"github.com/okian/swingscore/pkg/logger"
)

type scoreOpts struct {
	configPath string
	inputPath  string
	inputFmt   string
	outputFmt  string
	mode       string
	level      string
	workers    int
	drain      time.Duration
}

func newScoreCmd(configPath *string) *cobra.Command {
	var opts scoreOpts

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score every analysis in an input file",
		Long: `Reads a JSON or YAML list of analyses, scores them on a worker pool and
prints one row per analysis in input order.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath = *configPath
			return runScore(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.inputPath, "input", "i", "-", "Input file, - for stdin")
	cmd.Flags().StringVar(&opts.inputFmt, "format", "", "Input format: json or yaml (default: by extension)")
	cmd.Flags().StringVarP(&opts.outputFmt, "output", "o", "text", "Output format: text or json")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "Mode for analyses that do not name one")
	cmd.Flags().StringVar(&opts.level, "level", "", "Level for analyses that do not name one")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Scoring workers (default: from config)")
	cmd.Flags().DurationVar(&opts.drain, "drain-timeout", defaultDrainTimeout, "How long to wait for the batch to finish scoring")

	return cmd
}

// defaultDrainTimeout bounds a whole batch, not a single analysis.
const defaultDrainTimeout = 10 * time.Minute

// scoredRow is one line of output.
type scoredRow struct {
	AnalysisID string              `json:"analysis_id"`
	PlayerID   string              `json:"player_id,omitempty"`
	Duplicate  bool                `json:"duplicate,omitempty"`
	Error      string              `json:"error,omitempty"`
	Result     *swing.ScoredResult `json:"result,omitempty"`
}

func runScore(ctx context.Context, stdin io.Reader, out io.Writer, opts scoreOpts) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.outputFmt != "text" && opts.outputFmt != "json" {
		return fmt.Errorf("unknown output format %q; want text or json", opts.outputFmt)
	}
	format, err := detectFormat(opts.inputFmt, opts.inputPath)
	if err != nil {
		return err
	}
	cfg, err := config.LoadFrom(ctx, opts.configPath)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithLevel("warn")); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	items, err := readBatch(opts.inputPath, format, stdin)
	if err != nil {
		return err
	}
	analyses := make([]model.Analysis, len(items))
	for i := range items {
		if items[i].Mode == "" {
			items[i].Mode = opts.mode
		}
		if items[i].Level == "" {
			items[i].Level = opts.level
		}
		if analyses[i], err = items[i].analysis(); err != nil {
			return err
		}
	}

	workers := cfg.WorkerCount
	if opts.workers > 0 {
		workers = opts.workers
	}
	svc, err := service.New(
		service.WithWorkerCount(workers),
		service.WithQueueSize(max(len(analyses), 1)),
		service.WithDedupeSize(len(analyses)),
		service.WithHistoryLimit(max(len(analyses), 1)),
		service.WithProfiles(cfg.Profiles),
		service.WithThresholds(cfg.Anomaly),
		service.WithStopTimeout(opts.drain),
	)
	if err != nil {
		return err
	}
	rows, err := scoreAll(ctx, svc, analyses)
	if err != nil {
		return err
	}

	if opts.outputFmt == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	return writeTable(out, rows)
}

// scoreAll queues every analysis, drains the pool and collects results in
// input order.
func scoreAll(ctx context.Context, svc *service.Service, analyses []model.Analysis) ([]scoredRow, error) {
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}

	rows := make([]scoredRow, len(analyses))
	for i := range analyses {
		sub, err := svc.Submit(ctx, analyses[i])
		if err != nil {
			_ = svc.Stop(ctx)
			return nil, fmt.Errorf("submit analysis %d: %w", i, err)
		}
		rows[i] = scoredRow{AnalysisID: sub.ID, PlayerID: analyses[i].PlayerID, Duplicate: sub.Duplicate}
	}
	if err := svc.Stop(ctx); err != nil {
		return nil, fmt.Errorf("drain workers: %w", err)
	}

	for i := range rows {
		if rows[i].Duplicate {
			continue
		}
		rec, err := svc.Result(ctx, rows[i].AnalysisID)
		if err != nil {
			rows[i].Error = err.Error()
			continue
		}
		if rec.Err != "" {
			rows[i].Error = rec.Err
			continue
		}
		res := rec.Result
		rows[i].Result = &res
	}
	return rows, nil
}

func writeTable(out io.Writer, rows []scoredRow) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ANALYSIS\tPLAYER\tOVERALL\tBODY\tBAT\tBALL\tFLAGS")
	for i := range rows {
		r := &rows[i]
		switch {
		case r.Duplicate:
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\t-\tduplicate\n", r.AnalysisID, r.PlayerID)
		case r.Error != "":
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\t-\terror: %s\n", r.AnalysisID, r.PlayerID, r.Error)
		default:
			res := r.Result
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.AnalysisID, r.PlayerID,
				score(res.Overall), score(res.Body), score(res.Bat), score(res.Ball), res.Weirdness.Message)
		}
	}
	return tw.Flush()
}

func score(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
