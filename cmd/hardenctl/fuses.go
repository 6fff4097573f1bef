package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hardenkit/pkg/hardener"
	"github.com/joshuapare/hardenkit/pkg/types"
)

func init() {
	rootCmd.AddCommand(newFusesCmd())
}

func newFusesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuses <binary>",
		Short: "Show the status of every fuse",
		Long: `The fuses command locates the fuse wire in an Electron binary and prints
the status of each known fuse.

Example:
  hardenctl fuses "MyApp.app/Contents/Frameworks/Electron Framework.framework/Electron Framework"
  hardenctl fuses MyApp.exe --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFuses(args)
		},
	}
	return cmd
}

func runFuses(args []string) error {
	binPath := args[0]

	printVerbose("Opening binary: %s\n", binPath)

	f, err := hardener.OpenFile(binPath)
	if err != nil {
		return fmt.Errorf("failed to open binary: %w", err)
	}
	defer f.Close()

	app := f.App()
	reports := app.Fuses()

	if jsonOut {
		result := map[string]interface{}{
			"binary": binPath,
			"wire":   app.Wire(),
			"fuses":  reports,
		}
		return printJSON(result)
	}

	w := app.Wire()
	printInfo("\nFuse wire in %s:\n", binPath)
	printInfo("  Offset: %s\n", colorAddr("0x%08x", w.Start))
	printInfo("  Length: %d\n\n", w.Len())

	for _, r := range reports {
		printInfo("  %-40s %s\n", colorName(r.Fuse.ElectronName()), fuseStatusText(r))
		printVerbose("    go name: %s, offset: %s\n", r.Fuse, colorAddr("0x%08x", r.Offset))
	}
	return nil
}

func fuseStatusText(r hardener.FuseReport) string {
	if r.Err != nil {
		return colorErr(r.Error)
	}
	switch {
	case r.Status.Kind == types.StatusRemoved:
		return colorWarn(r.Status.String())
	case r.Status.IsPresent(true):
		return colorOK(r.Status.String())
	default:
		return r.Status.String()
	}
}
