package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modeltidy/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the configured paths and model database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			status, err := api.GatherStatus(cmd.Context(), api.StatusRequest{Config: cfg, ConfigPath: ctx.configPath})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderSectionHeader("Environment", colorize))
			configSource := status.ConfigPath
			if configSource == "" {
				configSource = "defaults (no config file)"
			}
			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, configSource, colorize))
			fmt.Fprintln(out, renderStatusLine("Database", statusInfo, status.DatabasePath, colorize))
			fmt.Fprintln(out, renderStatusLine("Models", statusInfo, status.ModelsDir, colorize))
			fmt.Fprintln(out, renderStatusLine("Records", statusInfo, fmt.Sprintf("%d", status.TotalRecords), colorize))

			fmt.Fprintln(out, renderSectionHeader("Checks", colorize))
			for _, check := range status.Checks {
				kind := statusOK
				if !check.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}

			if !status.Healthy {
				return fmt.Errorf("environment is not ready")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the status as JSON")
	return cmd
}
