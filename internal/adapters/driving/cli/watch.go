package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autoname-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driving"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the rules whenever the rules file changes",
	Long: `Watches the rules file and reloads it after every save, printing whether
the new rules are valid. Invalid rules leave the previous ones in effect.
Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	rt, stop, err := startRuntime(ctx, Session{NoCache: true})
	if err != nil {
		return err
	}
	defer stop()

	cmd.Printf("Watching %s (%d rules loaded)\n", rt.RulesPath, ruleCount(rt.Naming))
	return watchRules(ctx, rt, cmd.OutOrStdout())
}

// watchRules fires the config-changed event whenever the rules file
// changes, until ctx is done.
func watchRules(ctx context.Context, rt *Runtime, out io.Writer) error {
	w, err := file.NewWatcher(rt.RulesPath)
	if err != nil {
		return err
	}
	defer w.Close()

	return w.Watch(ctx, func(ctx context.Context) error {
		return reloadRules(ctx, rt, out)
	})
}

// reloadRules reports the outcome of a reload to out.
func reloadRules(ctx context.Context, rt *Runtime, out io.Writer) error {
	if err := rt.Events.Dispatch(ctx, driving.EventConfigChanged); err != nil {
		fmt.Fprintf(out, "Rules not reloaded: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "Rules reloaded (%d rules)\n", ruleCount(rt.Naming))
	return nil
}

func ruleCount(n driving.NamingService) int {
	if rs := n.Rules(); rs != nil {
		return len(rs.Rules)
	}
	return 0
}
