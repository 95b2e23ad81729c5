package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"admkit/internal/flowstore"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the flow database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *flowstore.Store) error {
				health, err := store.CheckHealth(cmd.Context())
				if ctx.jsonOutput() {
					if jerr := writeJSON(cmd, health); jerr != nil {
						return jerr
					}
					return err
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Flow database", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, line := range healthLines(health, colorize) {
					fmt.Fprintln(out, line)
				}
				if err != nil {
					return err
				}
				if len(health.MissingColumns) > 0 || !health.IntegrityCheck {
					return errors.New("flow database is unhealthy")
				}
				return nil
			})
		},
	}
}

func healthLines(h flowstore.DatabaseHealth, colorize bool) []string {
	check := func(ok bool) statusKind {
		if ok {
			return statusOK
		}
		return statusError
	}
	lines := []string{
		renderStatusLine("Path", statusInfo, h.DBPath, colorize),
		renderStatusLine("Exists", check(h.DatabaseExists), yesNo(h.DatabaseExists), colorize),
		renderStatusLine("Readable", check(h.DatabaseReadable), yesNo(h.DatabaseReadable), colorize),
		renderStatusLine("Schema version", statusInfo, h.SchemaVersion, colorize),
		renderStatusLine("Frames table", check(h.TableExists), yesNo(h.TableExists), colorize),
		renderStatusLine("Integrity", check(h.IntegrityCheck), yesNo(h.IntegrityCheck), colorize),
		renderStatusLine("Stored frames", statusInfo, strconv.Itoa(h.TotalFrames), colorize),
	}
	if len(h.MissingColumns) > 0 {
		lines = append(lines, renderStatusLine("Missing columns", statusError, strings.Join(h.MissingColumns, ", "), colorize))
	}
	if h.Error != "" {
		lines = append(lines, renderStatusLine("Error", statusError, h.Error, colorize))
	}
	return lines
}
