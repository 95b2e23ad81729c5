package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"admkit/internal/admxml"
	"admkit/internal/fileutil"
	"admkit/internal/logging"
)

type convertResult struct {
	Source string `json:"source"`
	Output string `json:"output"`
	Frame  bool   `json:"frame"`
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Re-serialise ADM documents and frames",
		Long: "Parse each file and write it back in canonical form. Outputs are written next\n" +
			"to the source (or into --out-dir) using the configured output suffix.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "convert")
			opts, err := ctx.writerOptions(cmd, logger)
			if err != nil {
				return err
			}
			if outDir != "" {
				if outDir, err = filepath.Abs(outDir); err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}

			results := make([]convertResult, len(args))
			g, gctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(cfg.Convert.Workers)
			for i, src := range args {
				target := outputPath(src, outDir, cfg.Convert.OutputSuffix)
				g.Go(func() error {
					frame, err := convertFile(gctx, src, target, opts, logger)
					if err != nil {
						return err
					}
					results[i] = convertResult{Source: src, Output: target, Frame: frame}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, results)
			}
			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "%s -> %s\n", r.Source, r.Output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Directory for converted files")
	cmd.Flags().Bool("write-defaults", false, "Write optional attributes that hold their default value")
	cmd.Flags().Bool("itu", false, "Wrap documents in ituADM instead of ebuCoreMain")
	return cmd
}

// outputPath derives the converted file name from src: the extension is
// replaced by suffix and the result placed in dir when one is given.
func outputPath(src, dir, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + suffix
	if dir == "" {
		dir = filepath.Dir(src)
	}
	return filepath.Join(dir, base)
}

func convertFile(ctx context.Context, src, target string, opts admxml.WriterOptions, logger *slog.Logger) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", src, err)
	}
	isFrame, err := isFrameDocument(data)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", src, err)
	}

	fileLogger := logging.WithContext(logging.WithFile(ctx, src), logger)
	opts.Logger = fileLogger
	parseOpt := admxml.WithLogger(fileLogger)

	var fill func(io.Writer) error
	if isFrame {
		frame, err := admxml.ParseFrame(bytes.NewReader(data), parseOpt)
		if err != nil {
			return false, fmt.Errorf("parse %s: %w", src, err)
		}
		fill = func(w io.Writer) error { return admxml.WriteFrame(w, frame, opts) }
	} else {
		doc, err := admxml.Parse(bytes.NewReader(data), parseOpt)
		if err != nil {
			return false, fmt.Errorf("parse %s: %w", src, err)
		}
		fill = func(w io.Writer) error { return admxml.Write(w, doc, opts) }
	}

	if err := fileutil.WriteAtomic(target, 0o644, fill); err != nil {
		logging.ErrorWithContext(fileLogger, "convert failed", "convert_write_failed",
			logging.String("output", target),
			logging.Error(err),
			logging.ErrorKind(err),
		)
		return false, fmt.Errorf("write %s: %w", target, err)
	}
	fileLogger.Info("document converted",
		logging.String(logging.FieldEventType, "convert_complete"),
		logging.String("output", target),
		logging.Bool("frame", isFrame),
	)
	return isFrame, nil
}
