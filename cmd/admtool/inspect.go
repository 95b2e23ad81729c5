package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"admkit/internal/adm"
	"admkit/internal/admxml"
	"admkit/internal/attr"
	"admkit/internal/language"
	"admkit/internal/logging"
	"admkit/internal/timecode"
)

type documentSummary struct {
	Path          string             `json:"path"`
	TimeReference string             `json:"time_reference"`
	Counts        map[string]int     `json:"counts"`
	Programmes    []programmeSummary `json:"programmes,omitempty"`
	Frame         *frameSummary      `json:"frame,omitempty"`
}

type programmeSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Language     string `json:"language,omitempty"`
	LanguageName string `json:"language_name,omitempty"`
	Contents     int    `json:"contents"`
}

type frameSummary struct {
	FrameFormatID   string `json:"frame_format_id"`
	Type            string `json:"type"`
	Start           string `json:"start"`
	Duration        string `json:"duration"`
	FlowID          string `json:"flow_id,omitempty"`
	TransportTracks int    `json:"transport_tracks"`
	ChangedNew      int    `json:"changed_new"`
	ChangedChanged  int    `json:"changed_changed"`
	ChangedExtended int    `json:"changed_extended"`
	ChangedExpired  int    `json:"changed_expired"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarise an ADM document or S-ADM frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			summary, err := inspectFile(cmd, args[0], logger)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, summary)
			}
			renderDocumentSummary(cmd.OutOrStdout(), summary, shouldColorize(cmd.OutOrStdout()))
			return nil
		},
	}
}

func inspectFile(cmd *cobra.Command, path string, logger *slog.Logger) (*documentSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	parseLogger := logging.WithContext(logging.WithFile(cmd.Context(), path), logger)
	opt := admxml.WithLogger(parseLogger)

	frame, err := isFrameDocument(data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if frame {
		f, err := admxml.ParseFrame(bytes.NewReader(data), opt)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		summary := summarizeDocument(path, f.Document, f.TimeReference())
		summary.Frame = summarizeFrame(f)
		return summary, nil
	}
	doc, err := admxml.Parse(bytes.NewReader(data), opt)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return summarizeDocument(path, doc, doc.TimeReference()), nil
}

// isFrameDocument reports whether the root element is an S-ADM frame.
func isFrameDocument(data []byte) (bool, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return false, err
	}
	root := tree.Root()
	return root != nil && root.Tag == "frame", nil
}

func summarizeDocument(path string, doc *adm.Document, ref adm.TimeReference) *documentSummary {
	summary := &documentSummary{
		Path:          filepath.Clean(path),
		TimeReference: ref.String(),
		Counts:        make(map[string]int, len(adm.Kinds)),
	}
	for _, kind := range adm.Kinds {
		summary.Counts[kind.String()] = doc.Len(kind)
	}
	for _, p := range doc.Programmes() {
		ps := programmeSummary{
			ID:       p.IDText(),
			Contents: len(p.Contents()),
		}
		ps.Name, _ = attr.Lookup[string](p, adm.KeyName)
		if code, ok := attr.Lookup[string](p, adm.KeyLanguage); ok {
			ps.Language = language.Canonical(code)
			ps.LanguageName = language.DisplayName(code)
		}
		summary.Programmes = append(summary.Programmes, ps)
	}
	return summary
}

func summarizeFrame(f *adm.Frame) *frameSummary {
	format := f.Header.Format
	start, _ := attr.Get[time.Duration](format, adm.KeyStart)
	duration, _ := attr.Get[time.Duration](format, adm.KeyDuration)
	typ, _ := attr.Get[adm.FrameType](format, adm.KeyFrameType)
	fs := &frameSummary{
		FrameFormatID:   format.ID().String(),
		Type:            string(typ),
		Start:           timecode.Format(start),
		Duration:        timecode.Format(duration),
		TransportTracks: len(f.Header.TransportTracks),
		ChangedNew:      format.ChangedIDs.Count(adm.StatusNew),
		ChangedChanged:  format.ChangedIDs.Count(adm.StatusChanged),
		ChangedExtended: format.ChangedIDs.Count(adm.StatusExtended),
		ChangedExpired:  format.ChangedIDs.Count(adm.StatusExpired),
	}
	if flow, ok := format.FlowID(); ok {
		fs.FlowID = flow.String()
	}
	return fs
}

func renderDocumentSummary(out io.Writer, s *documentSummary, colorize bool) {
	for _, line := range renderSectionHeader(s.Path, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Time reference", statusInfo, s.TimeReference, colorize))
	if s.Frame != nil {
		f := s.Frame
		fmt.Fprintln(out, renderStatusLine("Frame", statusInfo,
			fmt.Sprintf("%s (%s) %s +%s", f.FrameFormatID, f.Type, f.Start, f.Duration), colorize))
		flow := f.FlowID
		kind := statusOK
		if flow == "" {
			flow = "none"
			kind = statusWarn
		}
		fmt.Fprintln(out, renderStatusLine("Flow", kind, flow, colorize))
		fmt.Fprintln(out, renderStatusLine("Changed IDs", statusInfo,
			fmt.Sprintf("new %d, changed %d, extended %d, expired %d",
				f.ChangedNew, f.ChangedChanged, f.ChangedExtended, f.ChangedExpired), colorize))
	}
	fmt.Fprintln(out)

	rows := make([][]string, 0, len(adm.Kinds))
	for _, kind := range adm.Kinds {
		rows = append(rows, []string{kind.String(), strconv.Itoa(s.Counts[kind.String()])})
	}
	fmt.Fprintln(out, renderTable([]column{left("Element"), right("Count")}, rows))

	if len(s.Programmes) == 0 {
		return
	}
	rows = rows[:0]
	for _, p := range s.Programmes {
		lang := p.LanguageName
		if lang == "" {
			lang = "-"
		}
		rows = append(rows, []string{p.ID, p.Name, lang, strconv.Itoa(p.Contents)})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(
		[]column{left("Programme"), left("Name"), left("Language"), right("Contents")}, rows))
}
