package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autoname-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

var rulesInitForce bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the naming rules",
	Long: `Prints the name templates and rules in the order they are evaluated.
Without a rules file the built-in rules are used; "autoname rules init"
writes them out as a starting point.`,
	RunE: runRulesList,
}

var rulesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in rules to the rules file",
	RunE:  runRulesInit,
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a rules file",
	Long:  `Validates a rules file against the schema without loading it. Defaults to the configured rules file.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRulesCheck,
}

func init() {
	rulesInitCmd.Flags().BoolVarP(&rulesInitForce, "force", "f", false, "overwrite an existing rules file")
	rulesCmd.AddCommand(rulesInitCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesList(cmd *cobra.Command, _ []string) error {
	rt, stop, err := startRuntime(cmd.Context(), Session{NoCache: true})
	if err != nil {
		return err
	}
	defer stop()

	rs := rt.Naming.Rules()
	if rs == nil {
		return errors.New("no rules loaded")
	}

	cmd.Printf("Rules file: %s\n\n", rt.RulesPath)
	printTemplates(cmd, rs)
	for i, r := range rs.Rules {
		printRule(cmd, i, r)
	}
	return nil
}

func printTemplates(cmd *cobra.Command, rs *domain.RuleSet) {
	if len(rs.Templates) == 0 {
		return
	}
	names := make([]string, 0, len(rs.Templates))
	for name := range rs.Templates {
		names = append(names, name)
	}
	sort.Strings(names)

	cmd.Println("Templates")
	for _, name := range names {
		cmd.Printf("  %-20s %s\n", name, rs.Templates[name].Format)
	}
	cmd.Println()
}

func printRule(cmd *cobra.Command, index int, r *domain.Rule) {
	match := "weighted"
	if r.ExactMatch {
		match = "exact"
	}
	cmd.Printf("%d. %s\n", index+1, r.Description)
	cmd.Printf("   match: %s, bias %.2f\n", match, r.RankingBias)
	if r.TemplateName != "" {
		cmd.Printf("   template: %s (%s)\n", r.Template.Format, r.TemplateName)
	} else {
		cmd.Printf("   template: %s\n", r.Template.Format)
	}
	for _, c := range r.Conditions {
		expr := c.Expression
		if expr == "" {
			expr = "*"
		}
		cmd.Printf("   when %s = %s\n", c.URI, expr)
	}
	for _, ds := range r.DataSources {
		uris := make([]string, len(ds.URIs))
		for i, u := range ds.URIs {
			uris[i] = u.String()
		}
		cmd.Printf("   {%s} <- %s\n", ds.Field.Placeholder(), strings.Join(uris, ", "))
	}
	cmd.Println()
}

// rulesPath returns the configured rules file.
func rulesPath() (string, error) {
	configured := ""
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return "", fmt.Errorf("failed to get settings: %w", err)
		}
		configured = settings.RulesPath
	}
	loader, err := file.NewRulesLoader(configured)
	if err != nil {
		return "", err
	}
	return loader.Path(), nil
}

func runRulesInit(cmd *cobra.Command, _ []string) error {
	path, err := rulesPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !rulesInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating rules directory: %w", err)
	}
	if err := os.WriteFile(path, file.DefaultRulesYAML(), 0600); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	cmd.Printf("Wrote built-in rules to %s\n", path)
	return nil
}

func runRulesCheck(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		p, err := rulesPath()
		if err != nil {
			return err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading rules: %w", err)
	}
	rs, err := file.ParseRules(data, path)
	if err != nil {
		return err
	}

	cmd.Printf("%s: %d rules, %d templates\n", path, len(rs.Rules), len(rs.Templates))
	return nil
}
