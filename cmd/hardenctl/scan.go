package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hardenkit/internal/patch"
	"github.com/joshuapare/hardenkit/pkg/hardener"
	"github.com/joshuapare/hardenkit/pkg/types"
)

func init() {
	rootCmd.AddCommand(newScanCmd())
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <binary>",
		Short: "List which debugging options are still present",
		Long: `The scan command searches the binary for every patchable option without
modifying it. Options reported as absent are either already patched or were
never compiled in.

Example:
  hardenctl scan MyApp
  hardenctl scan MyApp --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args)
		},
	}
	return cmd
}

type scanEntry struct {
	Option  string          `json:"option"`
	Family  string          `json:"family"`
	Present bool            `json:"present"`
	Range   *hardener.Range `json:"range,omitempty"`
}

func runScan(args []string) error {
	binPath := args[0]

	printVerbose("Opening binary: %s\n", binPath)

	f, err := hardener.OpenFile(binPath)
	if err != nil {
		return fmt.Errorf("failed to open binary: %w", err)
	}
	defer f.Close()

	entries := make([]scanEntry, 0, len(types.AllOptions()))
	for _, opt := range types.AllOptions() {
		e := scanEntry{Option: opt.Name(), Family: opt.Family().String()}
		if r, ok := f.App().Locate(opt); ok {
			e.Present = true
			e.Range = &r
		}
		entries = append(entries, e)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"binary":  binPath,
			"options": entries,
		})
	}

	present := 0
	printInfo("\nPatchable options in %s:\n", binPath)
	for _, e := range entries {
		if e.Present {
			present++
			printInfo("  %s %-28s %-18s %s\n", colorErr("✗"), colorName(e.Option), e.Family,
				colorAddr("0x%08x", e.Range.Start))
			continue
		}
		printInfo("  %s %-28s %-18s absent\n", colorOK("✓"), colorName(e.Option), e.Family)
	}
	if verbose {
		printVerbose("\nSearch patterns:\n")
		for _, opt := range types.AllOptions() {
			search, fallback, _ := patch.Pattern(opt)
			printVerbose("  %-28s %q\n", opt.Name(), search)
			if fallback != nil {
				printVerbose("  %-28s %q (fallback)\n", "", fallback)
			}
		}
	}
	printInfo("\n%d of %d option(s) still present\n", present, len(entries))
	return nil
}
