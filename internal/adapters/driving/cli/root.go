// Package cli provides the cobra command tree for autoname.
// It is a driving adapter: commands call into the core through driving ports.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autoname-cli/internal/core/ports/driving"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// version is set at build time.
var version = "dev"

var verbose bool

var (
	settingsService driving.SettingsService
	buildRuntime    BuildFunc
	openCache       func() (CacheAdmin, error)
)

var rootCmd = &cobra.Command{
	Use:   "autoname",
	Short: "Rename files from their metadata and contents",
	Long: `autoname proposes new filenames from what it can learn about each file:
filesystem attributes, embedded metadata (exiftool), extracted text and
patterns in the current name. Rules decide which name template applies and
where each placeholder's value comes from.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline decisions to stderr")
}

// Services holds what the commands call into.
type Services struct {
	Settings driving.SettingsService

	// Build assembles the naming pipeline for one invocation.
	Build BuildFunc

	// OpenCache opens the persistent extraction cache.
	OpenCache func() (CacheAdmin, error)
}

// SetServices installs the services used by the commands.
func SetServices(s Services) {
	settingsService = s.Settings
	buildRuntime = s.Build
	openCache = s.OpenCache
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
