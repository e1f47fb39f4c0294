package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/fluxcore/internal/store"
	"github.com/roach88/fluxcore/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	StoreID  string
	Action   string
}

// TraceEvent is one recorded dispatch.
type TraceEvent struct {
	Seq        int64  `json:"seq"`
	StoreID    string `json:"store_id"`
	StoreName  string `json:"store_name,omitempty"`
	Type       string `json:"type"`
	Action     string `json:"action"`
	Payload    string `json:"payload,omitempty"`
	Version    int64  `json:"version"`
	Error      string `json:"error,omitempty"`
	DurationNS int64  `json:"duration_ns"`
}

// TraceStats counts events per outcome.
type TraceStats struct {
	TotalEvents int `json:"total_events"`
	Applied     int `json:"applied"`
	Ignored     int `json:"ignored"`
	Failed      int `json:"failed"`
	Rejected    int `json:"rejected"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Timeline []TraceEvent `json:"timeline"`
	Stats    TraceStats   `json:"stats"`
}

// WriteText renders the timeline for the text format.
func (r TraceResult) WriteText(w io.Writer) error {
	if len(r.Timeline) == 0 {
		_, err := fmt.Fprintln(w, "No events found")
		return err
	}
	for _, e := range r.Timeline {
		line := fmt.Sprintf("#%d %s %s %s version=%d", e.Seq, e.StoreID, e.Type, e.Action, e.Version)
		if e.Payload != "" {
			line += " payload=" + e.Payload
		}
		if e.Error != "" {
			line += fmt.Sprintf(" error=%q", e.Error)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	s := r.Stats
	_, err := fmt.Fprintf(w, "\n%d event(s): %d applied, %d ignored, %d failed, %d rejected\n",
		s.TotalEvents, s.Applied, s.Ignored, s.Failed, s.Rejected)
	return err
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show recorded dispatches",
		Long: `Show the dispatch events a trace.Recorder wrote to a SQLite database.

Select events of one store with --store, of one action identifier with
--action, or both.

Examples:
  fluxgen trace --db ./dispatch.db --store todo-1
  fluxgen trace --db ./dispatch.db --action ADD_ITEM --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.StoreID, "store", "", "store id to show")
	cmd.Flags().StringVar(&opts.Action, "action", "", "action identifier to show")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.StoreID == "" && opts.Action == "" {
		return outputGenerateError(formatter, ErrCodeUsage, "one of --store or --action is required")
	}

	db, err := trace.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer db.Close()

	var records []trace.Record
	if opts.StoreID != "" {
		records, err = db.ReadStore(ctx, opts.StoreID)
	} else {
		records, err = db.ReadAction(ctx, opts.Action)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}

	formatter.VerboseLog("Read %d event(s) from %s", len(records), opts.Database)
	return formatter.Success(buildTrace(records, opts.Action))
}

// buildTrace converts records to the timeline, keeping only actionFilter
// when it is set.
func buildTrace(records []trace.Record, actionFilter string) TraceResult {
	result := TraceResult{Timeline: []TraceEvent{}}
	for _, r := range records {
		if actionFilter != "" && r.ActionType != actionFilter {
			continue
		}
		result.Timeline = append(result.Timeline, TraceEvent{
			Seq:        r.Seq,
			StoreID:    r.StoreID,
			StoreName:  r.StoreName,
			Type:       string(r.EventType),
			Action:     r.ActionType,
			Payload:    r.Payload,
			Version:    r.Version,
			Error:      r.Error,
			DurationNS: r.Duration.Nanoseconds(),
		})

		switch r.EventType {
		case store.EventDispatchApplied:
			result.Stats.Applied++
		case store.EventDispatchIgnored:
			result.Stats.Ignored++
		case store.EventDispatchFailed:
			result.Stats.Failed++
		case store.EventDispatchRejected:
			result.Stats.Rejected++
		}
	}
	result.Stats.TotalEvents = len(result.Timeline)
	return result
}
