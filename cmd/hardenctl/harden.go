package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hardenkit/internal/observability"
	"github.com/joshuapare/hardenkit/pkg/hardener"
)

var hardenIgnoreMissing bool

func init() {
	cmd := newHardenCmd()
	cmd.Flags().BoolVar(&hardenIgnoreMissing, "ignore-missing", false,
		"Skip options that are not in the binary (overrides profile.ignore_missing)")
	addSaveFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func newHardenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harden <binary>",
		Short: "Apply the configured hardening profile",
		Long: `The harden command applies the profile from the config file: fuses first, in
schema order, then Node.js flags, Electron switches and DevTools messages.

Without a config file the profile disables ELECTRON_RUN_AS_NODE and patches
every known debugging option. Nothing is written if a step fails.

Example:
  hardenctl harden MyApp --backup
  hardenctl harden MyApp --config hardenctl.yaml --ignore-missing --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHarden(cmd.Context(), args)
		},
	}
	return cmd
}

func runHarden(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	binPath := args[0]

	profile, err := currentConfig().Profile.Resolve()
	if err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	if hardenIgnoreMissing {
		profile.IgnoreMissing = true
	}

	printVerbose("Opening binary: %s\n", binPath)

	f, err := hardener.OpenFile(binPath)
	if err != nil {
		return fmt.Errorf("failed to open binary: %w", err)
	}
	defer f.Close()

	report, err := f.App().Apply(profile, &hardener.ApplyOptions{Logger: observability.GetLogger()})
	if err != nil {
		if !jsonOut {
			printInfo("\nHardening %s:\n", binPath)
			printSteps(report.Steps)
		}
		return fmt.Errorf("hardening failed, nothing was written: %w", err)
	}

	res, err := saveFile(ctx, f)
	if err != nil {
		return fmt.Errorf("failed to save binary: %w", err)
	}

	if jsonOut {
		result := map[string]interface{}{
			"binary": binPath,
			"steps":  report.Steps,
			"save":   res,
		}
		return printJSON(result)
	}

	printInfo("\nHardening %s:\n", binPath)
	printSteps(report.Steps)
	printInfo("\n%d fuse(s) modified, %d option(s) patched, %d skipped\n",
		report.Count(hardener.ResultModified),
		report.Count(hardener.ResultPatched),
		report.Count(hardener.ResultSkipped))
	printSaveResult(res)
	return nil
}
