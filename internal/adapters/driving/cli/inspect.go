package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

var (
	inspectRaw     bool
	inspectJSON    bool
	inspectNoCache bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show every datum extracted from a file",
	Long: `Runs every registered producer on a file and prints what it found.
The URIs shown here are the ones rule conditions and data sources refer to.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectRaw, "raw", false, "dump the extracted bundles verbatim")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output as JSON")
	inspectCmd.Flags().BoolVar(&inspectNoCache, "no-cache", false, "do not read or write the extraction cache")
	rootCmd.AddCommand(inspectCmd)
}

type datumJSON struct {
	URI    string             `json:"uri"`
	Value  string             `json:"value"`
	Type   string             `json:"type"`
	Source string             `json:"source"`
	Fields map[string]float64 `json:"fields,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	rt, stop, err := startRuntime(cmd.Context(), Session{NoCache: inspectNoCache})
	if err != nil {
		return err
	}
	defer stop()

	bundles, err := rt.Naming.Inspect(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}
	sort.SliceStable(bundles, func(i, j int) bool {
		return bundles[i].URI.String() < bundles[j].URI.String()
	})

	if inspectRaw {
		cmd.Print(logger.Sdump(bundles))
		return nil
	}
	if inspectJSON {
		return outputInspectJSON(cmd, bundles)
	}
	return outputInspectTable(cmd, bundles)
}

func formatDatum(b *domain.DataBundle) string {
	s, err := b.Format()
	if err != nil {
		return fmt.Sprint(b.Value)
	}
	return s
}

func mappedFields(b *domain.DataBundle) string {
	parts := make([]string, 0, len(b.MappedFields))
	for _, m := range b.MappedFields {
		parts = append(parts, fmt.Sprintf("%s:%.2f", m.Field.Placeholder(), m.Weight))
	}
	return strings.Join(parts, " ")
}

func outputInspectTable(cmd *cobra.Command, bundles []domain.DataBundle) error {
	if len(bundles) == 0 {
		cmd.Println("No data extracted.")
		return nil
	}

	cmd.Printf("Extracted %d values:\n\n", len(bundles))
	for i := range bundles {
		b := &bundles[i]
		cmd.Printf("%s\n", b.URI)
		cmd.Printf("  value:  %s\n", formatDatum(b))
		cmd.Printf("  type:   %s (from %s)\n", b.Coercer.Name(), b.Source)
		if fields := mappedFields(b); fields != "" {
			cmd.Printf("  fields: %s\n", fields)
		}
	}
	return nil
}

func outputInspectJSON(cmd *cobra.Command, bundles []domain.DataBundle) error {
	out := make([]datumJSON, 0, len(bundles))
	for i := range bundles {
		b := &bundles[i]
		d := datumJSON{
			URI:    b.URI.String(),
			Value:  formatDatum(b),
			Type:   b.Coercer.Name(),
			Source: b.Source,
		}
		if len(b.MappedFields) > 0 {
			d.Fields = make(map[string]float64, len(b.MappedFields))
			for _, m := range b.MappedFields {
				d.Fields[m.Field.Placeholder()] = m.Weight
			}
		}
		out = append(out, d)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
