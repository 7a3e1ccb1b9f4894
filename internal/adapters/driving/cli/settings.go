package cli

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the settings stored in ~/.autoname/config.toml.

Use "settings set <key> <value>" to change a single setting.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting. Keys:

  post_processing.sanitize_filename   true|false
  post_processing.sanitize_strict     true|false
  post_processing.lowercase           true|false
  post_processing.uppercase           true|false
  rules.path                          path to the rules file
  canonicalizer.paths                 comma-separated directories
  cache.enabled                       true|false
  cache.dir                           cache directory
  tools.exiftool                      exiftool executable
  tools.pdftotext                     pdftotext executable
  tools.rate_per_second               external tool calls per second
  resolver.multivalued_policy         drop|first|join
  providers.priority.<name>           producer priority`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsPolicyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Choose how lists fill single-valued fields",
	Long: `Choose what happens when a source yields several values for a
placeholder that takes one, such as several titles for {title}.`,
	RunE: runSettingsPolicy,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsPolicyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	pp := settings.PostProcessing
	cmd.Println("[Post-processing]")
	cmd.Printf("  Sanitize: %s\n", sanitizeMode(pp))
	cmd.Printf("  Case: %s\n", caseMode(pp))
	if len(pp.Replacements) == 0 {
		cmd.Println("  Replacements: (none)")
	} else {
		cmd.Println("  Replacements:")
		for _, r := range pp.Replacements {
			cmd.Printf("    %q -> %q\n", r.Pattern, r.Replacement)
		}
	}
	cmd.Println()

	cmd.Println("[Rules]")
	cmd.Printf("  Path: %s\n", valueOrDefault(settings.RulesPath, "~/.autoname/rules.yaml"))
	if len(settings.CanonicalizerPaths) > 0 {
		cmd.Printf("  Canonical tables: %s\n", strings.Join(settings.CanonicalizerPaths, ", "))
	}
	cmd.Printf("  Multivalued policy: %s\n", settings.MultivaluedPolicy)
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.CacheEnabled))
	cmd.Printf("  Directory: %s\n", valueOrDefault(settings.CacheDir, "~/.autoname/cache"))
	cmd.Println()

	cmd.Println("[Tools]")
	cmd.Printf("  exiftool: %s\n", settings.ExiftoolPath)
	cmd.Printf("  pdftotext: %s\n", settings.PdftotextPath)
	cmd.Printf("  Rate limit: %d calls/s\n", settings.ToolRatePerSecond)

	if len(settings.ProviderPriority) > 0 {
		cmd.Println()
		cmd.Println("[Provider priority]")
		names := make([]string, 0, len(settings.ProviderPriority))
		for name := range settings.ProviderPriority {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			cmd.Printf("  %s: %d\n", name, settings.ProviderPriority[name])
		}
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runSettingsPolicy(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	policies := []struct {
		policy domain.MultivaluedPolicy
		desc   string
	}{
		{domain.MultivaluedDrop, "drop - ignore sources with more than one value"},
		{domain.MultivaluedFirst, "first - use the first value"},
		{domain.MultivaluedJoin, "join - join the values with the field separator"},
	}

	current := 1
	for i, p := range policies {
		marker := " "
		if p.policy == settings.MultivaluedPolicy {
			marker = "*"
			current = i + 1
		}
		cmd.Printf(" %s%d. %s\n", marker, i+1, p.desc)
	}
	cmd.Printf("\nEnter choice [%d]: ", current)

	reader := bufio.NewReader(cmd.InOrStdin())
	idx := parseChoice(readLine(reader), len(policies), current)
	selected := policies[idx-1].policy

	if err := settingsService.Set("resolver.multivalued_policy", string(selected)); err != nil {
		return fmt.Errorf("failed to set policy: %w", err)
	}
	cmd.Printf("Multivalued policy set to: %s\n", selected)
	return nil
}

func sanitizeMode(pp domain.PostProcessing) string {
	switch {
	case !pp.SanitizeFilename:
		return "off"
	case pp.SanitizeStrict:
		return "strict"
	default:
		return "on"
	}
}

func caseMode(pp domain.PostProcessing) string {
	switch {
	case pp.Lowercase:
		return "lowercase"
	case pp.Uppercase:
		return "uppercase"
	default:
		return "unchanged"
	}
}

func valueOrDefault(v, def string) string {
	if v == "" {
		return def + " (default)"
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// readLine reads a line of input, trimming whitespace.
func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// parseChoice parses a 1-based menu choice, returning defaultVal when the
// input is empty or out of range.
func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > maxVal {
		return defaultVal
	}
	return n
}
