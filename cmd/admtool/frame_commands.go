package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"admkit/internal/flowstore"
	"admkit/internal/sadm"
	"admkit/internal/timecode"
)

func newFrameCommand(ctx *commandContext) *cobra.Command {
	frameCmd := &cobra.Command{
		Use:   "frame",
		Short: "Serial ADM frame utilities",
	}

	frameCmd.AddCommand(newFrameIngestCommand(ctx))
	frameCmd.AddCommand(newFrameFlowsCommand(ctx))
	frameCmd.AddCommand(newFrameHistoryCommand(ctx))
	frameCmd.AddCommand(newFrameShowCommand(ctx))
	frameCmd.AddCommand(newFrameDeleteCommand(ctx))

	return frameCmd
}

type ingestResult struct {
	Source     string `json:"source"`
	FlowID     string `json:"flow_id"`
	Sequence   int64  `json:"sequence"`
	FrameID    string `json:"frame_format_id"`
	Contiguous bool   `json:"contiguous"`
	New        int    `json:"new"`
	Changed    int    `json:"changed"`
	Extended   int    `json:"extended"`
	Expired    int    `json:"expired"`
}

func newFrameIngestCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Append frames to their flow history",
		Long: "Frames are ingested in argument order. Each frame's changedIDs are\n" +
			"recomputed against the previous frame stored for its flow.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			opts, err := ctx.writerOptions(cmd, logger)
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *flowstore.Store) error {
				ingester := sadm.NewIngester(store, opts, logger)
				results := make([]ingestResult, 0, len(args))
				for _, path := range args {
					if err := cmd.Context().Err(); err != nil {
						return err
					}
					file, err := os.Open(path)
					if err != nil {
						return fmt.Errorf("open %s: %w", path, err)
					}
					res, err := ingester.IngestReader(cmd.Context(), file, path)
					file.Close()
					if err != nil {
						return fmt.Errorf("ingest %s: %w", path, err)
					}
					rec := res.Record
					results = append(results, ingestResult{
						Source:     path,
						FlowID:     rec.FlowID.String(),
						Sequence:   rec.Sequence,
						FrameID:    rec.FrameFormatID,
						Contiguous: res.Contiguous,
						New:        rec.Changed.New,
						Changed:    rec.Changed.Changed,
						Extended:   rec.Changed.Extended,
						Expired:    rec.Changed.Expired,
					})
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, results)
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, r := range results {
					kind := statusOK
					msg := fmt.Sprintf("%s #%d %s (+%d ~%d >%d -%d)",
						shortFlow(r.FlowID), r.Sequence, r.FrameID, r.New, r.Changed, r.Extended, r.Expired)
					if !r.Contiguous {
						kind = statusWarn
						msg += " gap before frame"
					}
					fmt.Fprintln(out, renderStatusLine(r.Source, kind, msg, colorize))
				}
				return nil
			})
		},
	}
	cmd.Flags().Bool("write-defaults", false, "Store frames with default-valued attributes written out")
	return cmd
}

func newFrameFlowsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "flows",
		Short: "List stored flows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *flowstore.Store) error {
				flows, err := store.Flows(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, flows)
				}
				out := cmd.OutOrStdout()
				if len(flows) == 0 {
					fmt.Fprintln(out, "No flows stored")
					return nil
				}
				rows := make([][]string, 0, len(flows))
				for _, f := range flows {
					rows = append(rows, []string{
						f.FlowID.String(),
						strconv.Itoa(f.Frames),
						f.LastFrameID,
						timecode.Format(f.LastEnd),
						f.LastUpdatedAt.Local().Format("2006-01-02 15:04:05"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]column{left("Flow"), right("Frames"), left("Last Frame"), right("End"), left("Updated")},
					rows,
				))
				return nil
			})
		},
	}
}

func newFrameHistoryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history FLOW_ID",
		Short: "Show the frames stored for a flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flowID, err := parseFlowArg(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *flowstore.Store) error {
				records, err := store.History(cmd.Context(), flowID)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, historyJSON(records))
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintf(out, "No frames stored for flow %s\n", flowID)
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, r := range records {
					rows = append(rows, []string{
						strconv.FormatInt(r.Sequence, 10),
						r.FrameFormatID,
						r.FrameType,
						timecode.Format(r.Start),
						timecode.Format(r.Duration),
						fmt.Sprintf("%d/%d/%d/%d", r.Changed.New, r.Changed.Changed, r.Changed.Extended, r.Changed.Expired),
						r.SourcePath,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]column{right("#"), left("Frame"), left("Type"), right("Start"), right("Duration"), right("New/Chg/Ext/Exp"), left("Source")},
					rows,
				))
				return nil
			})
		},
	}
}

func newFrameShowCommand(ctx *commandContext) *cobra.Command {
	var sequence int64

	cmd := &cobra.Command{
		Use:   "show FLOW_ID",
		Short: "Print a stored frame document",
		Long:  "Prints the latest frame of the flow, or the frame selected by --seq.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flowID, err := parseFlowArg(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *flowstore.Store) error {
				var rec *flowstore.FrameRecord
				if sequence > 0 {
					records, err := store.History(cmd.Context(), flowID)
					if err != nil {
						return err
					}
					for _, r := range records {
						if r.Sequence == sequence {
							rec = r
							break
						}
					}
				} else {
					if rec, err = store.Latest(cmd.Context(), flowID); err != nil {
						return err
					}
				}
				if rec == nil {
					return fmt.Errorf("no stored frame for flow %s", flowID)
				}
				_, err := cmd.OutOrStdout().Write(rec.XML)
				return err
			})
		},
	}
	cmd.Flags().Int64Var(&sequence, "seq", 0, "Sequence number of the frame to print")
	return cmd
}

func newFrameDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete FLOW_ID",
		Short: "Remove a flow and all of its frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flowID, err := parseFlowArg(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *flowstore.Store) error {
				removed, err := store.DeleteFlow(cmd.Context(), flowID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d frames from flow %s\n", removed, flowID)
				return nil
			})
		},
	}
}

type historyEntry struct {
	Sequence      int64  `json:"sequence"`
	FrameFormatID string `json:"frame_format_id"`
	FrameType     string `json:"frame_type"`
	Start         string `json:"start"`
	Duration      string `json:"duration"`
	New           int    `json:"new"`
	Changed       int    `json:"changed"`
	Extended      int    `json:"extended"`
	Expired       int    `json:"expired"`
	SourcePath    string `json:"source_path,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func historyJSON(records []*flowstore.FrameRecord) []historyEntry {
	out := make([]historyEntry, 0, len(records))
	for _, r := range records {
		out = append(out, historyEntry{
			Sequence:      r.Sequence,
			FrameFormatID: r.FrameFormatID,
			FrameType:     r.FrameType,
			Start:         timecode.Format(r.Start),
			Duration:      timecode.Format(r.Duration),
			New:           r.Changed.New,
			Changed:       r.Changed.Changed,
			Extended:      r.Changed.Extended,
			Expired:       r.Changed.Expired,
			SourcePath:    r.SourcePath,
			CreatedAt:     r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return out
}

func parseFlowArg(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(arg))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid flow id %q: %w", arg, err)
	}
	return id, nil
}

func shortFlow(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
