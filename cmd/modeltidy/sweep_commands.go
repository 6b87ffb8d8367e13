package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"modeltidy/internal/api"
	"modeltidy/internal/sweeper"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var yes bool
	var categories []string

	cmd := &cobra.Command{
		Use:   "clean [entry-id...]",
		Short: "Move broken entries into the review directory and drop their records",
		Long: `Clean moves the payloads of missing, orphaned, lfs-pointer, and in-place
entries into the review directory, then removes their database records.
Nothing is deleted; review the moved folders and remove them yourself once
satisfied. With no arguments every eligible entry is selected, optionally
narrowed with --category.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweepCommand(cmd, ctx, sweepOptions{
				kind:       sweeper.KindDelete,
				targets:    args,
				categories: categories,
				jsonOutput: jsonOutput,
				yes:        yes,
				prompt:     "Move the selected entries to review and delete their records?",
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Only clean entries in these categories (missing, orphaned, lfs-pointer, in-place)")
	return cmd
}

func newDedupeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "dedupe [hash...]",
		Short: "Prune duplicate models, keeping the oldest copy of each group",
		Long: `Dedupe moves every non-keeper member of the selected duplicate groups into
the review directory and removes their records. The keeper of each group is
the record with the earliest creation time. With no arguments every
duplicate group is selected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweepCommand(cmd, ctx, sweepOptions{
				kind:       sweeper.KindPrune,
				targets:    args,
				jsonOutput: jsonOutput,
				yes:        yes,
				prompt:     "Prune the selected duplicate groups?",
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newStageImportCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stage-import [entry-id...]",
		Short: "Symlink stranded payloads into the import directory",
		Long: `Stage-import creates symlinks in the import directory pointing at the
payloads of missing, orphaned, and lfs-pointer entries so an external
importer can re-register them. The database and the payloads themselves are
never touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweepCommand(cmd, ctx, sweepOptions{
				kind:       sweeper.KindStageImport,
				targets:    args,
				jsonOutput: jsonOutput,
				yes:        true,
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	return cmd
}

type sweepOptions struct {
	kind       sweeper.Kind
	targets    []string
	categories []string
	jsonOutput bool
	yes        bool
	prompt     string
}

func runSweepCommand(cmd *cobra.Command, ctx *commandContext, opts sweepOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !opts.yes {
		confirmed, err := confirm(cmd, opts.prompt)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
	}

	result, err := api.RunSweep(cmd.Context(), api.SweepRequest{
		Config:     cfg,
		Logger:     ctx.ensureLogger(),
		Kind:       opts.kind,
		Targets:    opts.targets,
		Categories: opts.categories,
	})
	if err != nil {
		return err
	}
	if opts.jsonOutput {
		return writeJSON(cmd, result)
	}
	renderSweepResult(cmd, result)
	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d entries failed", len(result.Failed), len(result.Failed)+len(result.Succeeded))
	}
	return nil
}

// confirm asks on the terminal before a mutating batch runs. Non-interactive
// invocations must pass --yes; refusing silently is safer than mutating a
// model store from an unattended script that never meant to.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	stdin, ok := cmd.InOrStdin().(*os.File)
	if ok && !isatty.IsTerminal(stdin.Fd()) && !isatty.IsCygwinTerminal(stdin.Fd()) {
		return false, fmt.Errorf("refusing to run without confirmation; pass --yes in non-interactive use")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func renderSweepResult(cmd *cobra.Command, result *api.SweepResult) {
	out := cmd.OutOrStdout()

	if len(result.Succeeded) == 0 && len(result.Failed) == 0 {
		fmt.Fprintln(out, "Nothing to do")
		return
	}
	fmt.Fprintf(out, "Processed %d entries: %d succeeded, %d failed\n",
		len(result.Succeeded)+len(result.Failed), len(result.Succeeded), len(result.Failed))
	for _, failure := range result.Failed {
		fmt.Fprintf(out, "  failed %s: %s\n", failure.ID, failure.Reason)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", warning)
	}
}
