package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/morphlex/morphlex/pkg/morphlex"
	"github.com/morphlex/morphlex/pkg/morphnode"
	"github.com/morphlex/morphlex/pkg/morphreport"
)

const morphArgCount = 2

// NewMorphCommand morphs a current markup file in place to match a
// reference markup file and reports the structural edits performed.
func NewMorphCommand() *cobra.Command {
	var chartPath string

	cmd := &cobra.Command{
		Use:   "morph current.html reference.html",
		Short: "Morph a current HTML document to match a reference document",
		Long: `Parse current.html and reference.html as full HTML documents, morph
current in place to match reference, and print a colored diff of the
rendered result plus a summary of the structural edits performed.

Examples:
  morphlex morph before.html after.html
  morphlex morph --chart trend.html before.html after.html`,
		Args: cobra.ExactArgs(morphArgCount),
		RunE: func(_ *cobra.Command, args []string) error {
			return runMorph(args[0], args[1], chartPath)
		},
	}

	cmd.Flags().StringVar(&chartPath, "chart", "", "write an HTML bar chart of the edit counts to this path")

	return cmd
}

func runMorph(currentPath, referencePath, chartPath string) error {
	currentBytes, err := os.ReadFile(currentPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", currentPath, err)
	}

	referenceBytes, err := os.ReadFile(referencePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", referencePath, err)
	}

	before := string(currentBytes)

	root, err := morphnode.ParseDocument(before)
	if err != nil {
		return fmt.Errorf("parse %s: %w", currentPath, err)
	}

	recorder := morphreport.NewRecorder(nil)

	if err := morphlex.MorphDocument(root, string(referenceBytes), recorder.Options()); err != nil {
		return fmt.Errorf("morph %s into %s: %w", currentPath, referencePath, err)
	}

	after := morphnode.Render(root)
	snapshot := recorder.Stats.Snapshot()

	fmt.Fprintln(os.Stdout, morphreport.TextDiff(before, after))
	fmt.Fprintln(os.Stdout, morphreport.SummaryTable(snapshot))
	fmt.Fprintln(os.Stdout, morphreport.MarkupSizeSummary(before, after))

	if chartPath != "" {
		if err := morphreport.WriteTrendChart(chartPath, currentPath, snapshot); err != nil {
			return fmt.Errorf("write trend chart: %w", err)
		}
	}

	return nil
}
