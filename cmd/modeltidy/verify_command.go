package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modeltidy/internal/api"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-hash healthy payloads and compare against recorded hashes",
		Long: `Verify reads every healthy payload back and compares its sha256 digest
against the hash stored in the model database. Records hashed with another
algorithm are skipped. This is a read-only pass and can take a while on
large stores.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			result, err := api.VerifyModels(cmd.Context(), api.VerifyRequest{Config: cfg, Logger: ctx.ensureLogger()})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Verified %d payloads (%d skipped)\n", result.Checked, result.Skipped)
			for _, mismatch := range result.Mismatches {
				fmt.Fprintf(out, "  mismatch %s: %s\n", mismatch.ID, mismatch.Path)
			}
			for _, warning := range result.Warnings {
				fmt.Fprintf(out, "  warning: %s\n", warning)
			}
			if len(result.Mismatches) > 0 {
				return fmt.Errorf("%d payloads do not match their recorded hash", len(result.Mismatches))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	return cmd
}
