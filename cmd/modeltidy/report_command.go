package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"modeltidy/internal/api"
	"modeltidy/internal/reconcile"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var categories []string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Reconcile the model database against the models directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report, err := api.BuildReport(cmd.Context(), api.ReportRequest{Config: cfg, Logger: ctx.ensureLogger()})
			if err != nil {
				return err
			}
			if len(categories) > 0 {
				report = filterReport(report, categories)
			}
			if jsonOutput {
				return writeJSON(cmd, report)
			}
			renderReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the report as JSON")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Only show entries in these categories (ok, missing, orphaned, lfs-pointer, in-place)")
	return cmd
}

func filterReport(report *api.Report, categories []string) *api.Report {
	keep := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		keep[strings.ToLower(strings.TrimSpace(category))] = struct{}{}
	}
	filtered := &api.Report{
		Counts:   report.Counts,
		Groups:   report.Groups,
		Warnings: report.Warnings,
	}
	for _, entry := range report.Entries {
		if _, ok := keep[entry.Category]; ok {
			filtered.Entries = append(filtered.Entries, entry)
		}
	}
	return filtered
}

func renderReport(cmd *cobra.Command, report *api.Report) {
	out := cmd.OutOrStdout()

	entries := make([]api.ModelEntry, len(report.Entries))
	copy(entries, report.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Category != entries[j].Category {
			return entries[i].Category < entries[j].Category
		}
		return entries[i].Name < entries[j].Name
	})

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		var notes []string
		if entry.DuplicateKey != "" {
			notes = append(notes, "dup")
		}
		if entry.Symlink {
			notes = append(notes, "symlink")
		}
		rows = append(rows, []string{
			entry.ID,
			entry.Name,
			entry.Type,
			entry.Category,
			humanize.IBytes(uint64(max64(entry.SizeBytes, 0))),
			strings.Join(notes, ","),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Type", "Category", "Size", ""}, rows, 5))

	fmt.Fprintln(out, summarizeCounts(report.Counts))

	if len(report.Groups) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Duplicate groups (%d):\n", len(report.Groups))
		for _, group := range report.Groups {
			fmt.Fprintf(out, "  %s: keep %s, prune %s (reclaims %s)\n",
				shortHash(group.Hash),
				group.Keeper,
				strings.Join(group.Removable, ", "),
				humanize.IBytes(uint64(max64(group.ReclaimableBytes, 0))))
		}
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}
}

// summarizeCounts renders category totals in display order, e.g.
// "12 ok, 2 missing, 1 orphaned".
func summarizeCounts(counts map[string]int) string {
	parts := make([]string, 0, len(reconcile.Categories))
	for _, category := range reconcile.Categories {
		if n := counts[string(category)]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, category))
		}
	}
	if len(parts) == 0 {
		return "no entries"
	}
	return strings.Join(parts, ", ")
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func max64(value, floor int64) int64 {
	if value < floor {
		return floor
	}
	return value
}
