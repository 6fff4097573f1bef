package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hardenkit/pkg/hardener"
	"github.com/joshuapare/hardenkit/pkg/types"
)

func init() {
	cmd := newSetFuseCmd()
	addSaveFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func newSetFuseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-fuse <binary> <fuse>=<on|off>...",
		Short: "Enable or disable fuses",
		Long: `The set-fuse command sets one or more fuses. Fuse names are matched
case-insensitively against both the Go name (RunAsNode) and Electron's name
(EnableNodeCliInspectArguments). Nothing is written if any fuse fails.

Example:
  hardenctl set-fuse MyApp RunAsNode=off
  hardenctl set-fuse MyApp RunAsNode=off NodeOptions=off NodeCliInspect=off --backup
  hardenctl set-fuse MyApp EncryptedCookies=on -o MyApp.hardened`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetFuse(cmd.Context(), args)
		},
	}
	return cmd
}

// fuseAssignment is one <fuse>=<on|off> argument.
type fuseAssignment struct {
	Fuse   types.Fuse
	Enable bool
}

func parseFuseAssignment(arg string) (fuseAssignment, error) {
	name, value, ok := strings.Cut(arg, "=")
	if !ok {
		return fuseAssignment{}, fmt.Errorf("invalid fuse assignment %q: expected <fuse>=<on|off>", arg)
	}
	f, err := types.ParseFuse(name)
	if err != nil {
		return fuseAssignment{}, err
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "enable", "enabled":
		return fuseAssignment{Fuse: f, Enable: true}, nil
	case "off", "false", "0", "disable", "disabled":
		return fuseAssignment{Fuse: f, Enable: false}, nil
	default:
		return fuseAssignment{}, fmt.Errorf("invalid value %q for fuse %s: expected on or off", value, f)
	}
}

type fuseChange struct {
	Fuse   types.Fuse `json:"fuse"`
	Enable bool       `json:"enable"`
	Result string     `json:"result"`
}

func runSetFuse(ctx context.Context, args []string) error {
	if err := checkMinArgs(args, 2, "hardenctl set-fuse <binary> <fuse>=<on|off>..."); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	binPath := args[0]

	assignments := make([]fuseAssignment, 0, len(args)-1)
	for _, arg := range args[1:] {
		a, err := parseFuseAssignment(arg)
		if err != nil {
			return err
		}
		assignments = append(assignments, a)
	}

	printVerbose("Opening binary: %s\n", binPath)

	f, err := hardener.OpenFile(binPath)
	if err != nil {
		return fmt.Errorf("failed to open binary: %w", err)
	}
	defer f.Close()

	changes := make([]fuseChange, 0, len(assignments))
	for _, a := range assignments {
		st, err := f.App().SetFuseStatus(a.Fuse, a.Enable)
		if err != nil {
			return fmt.Errorf("failed to set %s: %w", a.Fuse, err)
		}
		result := "unchanged"
		if st.Kind == types.StatusModified {
			result = "modified"
		}
		changes = append(changes, fuseChange{Fuse: a.Fuse, Enable: a.Enable, Result: result})
	}

	res, err := saveFile(ctx, f)
	if err != nil {
		return fmt.Errorf("failed to save binary: %w", err)
	}

	if jsonOut {
		result := map[string]interface{}{
			"binary":  binPath,
			"changes": changes,
			"save":    res,
		}
		return printJSON(result)
	}

	printInfo("\nSetting fuses in %s:\n", binPath)
	for _, c := range changes {
		state := "off"
		if c.Enable {
			state = "on"
		}
		if c.Result == "modified" {
			printInfo("  %s %s=%s\n", colorOK("✓"), colorName(c.Fuse.String()), state)
		} else {
			printInfo("  %s %s=%s (already set)\n", colorWarn("•"), colorName(c.Fuse.String()), state)
		}
	}
	printSaveResult(res)
	return nil
}
