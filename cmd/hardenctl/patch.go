package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hardenkit/pkg/hardener"
	"github.com/joshuapare/hardenkit/pkg/types"
)

var patchIgnoreMissing bool

func init() {
	cmd := newPatchCmd()
	cmd.Flags().BoolVar(&patchIgnoreMissing, "ignore-missing", false, "Skip options that are not in the binary")
	addSaveFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func newPatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch <binary> <option>...",
		Short: "Disable debugging options",
		Long: `The patch command neutralizes Node.js debugging flags, Electron command-line
switches and DevTools listening messages inside the binary. Each replacement has
the same length as the original string.

Options:
  Node.js flags:     inspect, inspect-brk, inspect-port, debug, debug-brk,
                     debug-port, inspect-brk-node, inspect-publish-uid
  Electron switches: js-flags, remote-debugging-pipe, remote-debugging-port,
                     wait-for-debugger-children
  DevTools messages: listening, listening-ws

An option that was already patched is reported as not present. Nothing is
written if any option fails, unless --ignore-missing skips it.

Example:
  hardenctl patch MyApp inspect inspect-brk js-flags
  hardenctl patch MyApp remote-debugging-port --ignore-missing --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(cmd.Context(), args)
		},
	}
	return cmd
}

func runPatch(ctx context.Context, args []string) error {
	if err := checkMinArgs(args, 2, "hardenctl patch <binary> <option>..."); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	binPath := args[0]

	opts := make([]types.Option, 0, len(args)-1)
	for _, name := range args[1:] {
		opt, err := types.ParseOption(name)
		if err != nil {
			return err
		}
		opts = append(opts, opt)
	}

	printVerbose("Opening binary: %s\n", binPath)

	f, err := hardener.OpenFile(binPath)
	if err != nil {
		return fmt.Errorf("failed to open binary: %w", err)
	}
	defer f.Close()

	report := &hardener.Report{}
	for _, opt := range opts {
		step := hardener.Step{Kind: hardener.StepOption, Family: opt.Family().String(), Target: opt.Name()}
		if r, ok := f.App().Locate(opt); ok {
			printVerbose("Found %s at %s\n", opt.Name(), colorAddr("0x%08x", r.Start))
		}
		err := f.App().PatchOption(opt)
		switch {
		case err == nil:
			step.Result = hardener.ResultPatched
		case patchIgnoreMissing && types.IsNotPresent(err):
			step.Result, step.Err, step.Error = hardener.ResultSkipped, err, err.Error()
		default:
			return fmt.Errorf("failed to patch %s: %w", opt.Name(), err)
		}
		report.Steps = append(report.Steps, step)
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

	printInfo("\nPatching %s:\n", binPath)
	printSteps(report.Steps)
	printSaveResult(res)
	return nil
}

// printSteps prints one line per step with its outcome.
func printSteps(steps []hardener.Step) {
	for _, s := range steps {
		switch s.Result {
		case hardener.ResultModified, hardener.ResultPatched:
			printInfo("  %s %-28s %s\n", colorOK("✓"), colorName(s.Target), s.Result)
		case hardener.ResultUnchanged:
			printInfo("  %s %-28s %s\n", colorWarn("•"), colorName(s.Target), s.Result)
		case hardener.ResultSkipped:
			printInfo("  %s %-28s %s: %s\n", colorWarn("•"), colorName(s.Target), s.Result, s.Error)
		default:
			printInfo("  %s %-28s %s: %s\n", colorErr("✗"), colorName(s.Target), s.Result, s.Error)
		}
	}
}
