package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hardenkit/pkg/hardener"
)

var (
	saveOutput string
	saveBackup bool
	saveDryRun bool
)

// addSaveFlags registers the flags shared by every command that writes.
func addSaveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&saveOutput, "output", "o", "", "Write the patched binary here instead of in place")
	cmd.Flags().BoolVar(&saveBackup, "backup", false, "Copy the binary to <binary>.bak before patching in place")
	cmd.Flags().BoolVar(&saveDryRun, "dry-run", false, "Report changes without writing them")
}

// saveFile persists f according to the save flags and output config.
func saveFile(ctx context.Context, f *hardener.File) (*hardener.SaveResult, error) {
	out := currentConfig().Output
	opts := &hardener.SaveOptions{
		Output:   saveOutput,
		Backup:   saveBackup || out.Backup,
		DryRun:   saveDryRun,
		FullSync: out.FullSync,
	}
	printVerbose("Saving %d changed range(s)\n", len(f.App().Changes()))
	return f.Save(ctx, opts)
}

// printSaveResult reports where changes went.
func printSaveResult(res *hardener.SaveResult) {
	switch {
	case res.DryRun:
		printInfo("\n%s Dry run: %d byte(s) in %d range(s) would be written to %s\n",
			colorWarn("•"), res.BytesChanged, len(res.Ranges), res.Path)
	case res.BytesChanged == 0 && res.InPlace:
		printInfo("\n%s No changes to write\n", colorOK("✓"))
	default:
		printInfo("\n%s Wrote %d byte(s) to %s\n", colorOK("✓"), res.BytesChanged, res.Path)
	}
	if res.Backup != "" {
		printInfo("Backup created: %s\n", res.Backup)
	}
	for _, r := range res.Ranges {
		printVerbose("  %s\n", colorAddr("0x%08x-0x%08x (%d bytes)", r.Start, r.End, r.Len()))
	}
}
