package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

var (
	renameDryRun      bool
	renameConfirm     bool
	renameInteractive bool
	renameRecursive   bool
	renameNoCache     bool
	renameJSON        bool
)

var renameCmd = &cobra.Command{
	Use:   "rename [paths...]",
	Short: "Rename files from their metadata",
	Long: `Renames each file according to the best matching rule.

Files whose placeholders cannot be filled are skipped and reported. When two
sources disagree on a value with equal confidence the file is skipped unless
--interactive is given, in which case you pick the value.

Examples:
  autoname rename --dry-run ~/Downloads/*.pdf
  autoname rename --recursive --confirm ~/Documents/inbox`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRename,
}

func init() {
	renameCmd.Flags().BoolVarP(&renameDryRun, "dry-run", "n", false, "show what would be renamed without renaming")
	renameCmd.Flags().BoolVarP(&renameConfirm, "confirm", "c", false, "ask before each rename")
	renameCmd.Flags().BoolVarP(&renameInteractive, "interactive", "i", false, "pick between tied candidates")
	renameCmd.Flags().BoolVarP(&renameRecursive, "recursive", "r", false, "descend into directories")
	renameCmd.Flags().BoolVar(&renameNoCache, "no-cache", false, "do not read or write the extraction cache")
	renameCmd.Flags().BoolVar(&renameJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	if renameDryRun && renameConfirm {
		return errors.New("--dry-run and --confirm cannot be combined")
	}

	interactive := renameInteractive
	if (interactive || renameConfirm) && !stdinIsTerminal() {
		if renameConfirm {
			return errors.New("--confirm needs an interactive terminal")
		}
		logger.Warn("stdin is not a terminal; tied fields will skip their files")
		interactive = false
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt, stop, err := startRuntime(ctx, Session{
		NoCache:     renameNoCache,
		Confirm:     renameConfirm,
		Interactive: interactive,
		Abort:       cancel,
	})
	if err != nil {
		return err
	}
	defer stop()

	report, err := rt.Naming.Run(ctx, args, domain.RunOptions{
		Interactive: interactive,
		DryRun:      renameDryRun,
		Recursive:   renameRecursive,
	})
	if report != nil {
		if renameJSON {
			if jsonErr := writeReportJSON(cmd.OutOrStdout(), report); jsonErr != nil {
				return jsonErr
			}
		} else {
			writeReport(cmd.OutOrStdout(), report, terminalWidth(cmd.OutOrStdout()))
		}
	}
	if err != nil {
		if report != nil && report.Cancelled {
			return fmt.Errorf("run aborted: %w", err)
		}
		return err
	}

	if n := report.Count(domain.ResultFailed); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(report.Results))
	}
	return nil
}
