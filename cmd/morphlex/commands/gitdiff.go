package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/morphlex/morphlex/pkg/gitlib"
	"github.com/morphlex/morphlex/pkg/morphlex"
	"github.com/morphlex/morphlex/pkg/morphreport"
	"github.com/morphlex/morphlex/pkg/morphsrc"
)

const gitDiffArgCount = 4

// NewGitDiffCommand parses a source file as it existed at two git revisions,
// morphs the older parsed tree to match the newer one, and reports the
// structural edits performed. Unlike morph, which operates on markup files
// already on disk, gitdiff resolves both revisions through a repository.
func NewGitDiffCommand() *cobra.Command {
	var chartPath string

	cmd := &cobra.Command{
		Use:   "gitdiff repo path old-rev new-rev",
		Short: "Morph a source file's parsed tree between two git revisions",
		Long: `Resolve old-rev and new-rev in repo, read path's content at each
revision, parse both with the language detected from path, morph the old
tree to match the new one, and report the structural edits performed.

Example:
  morphlex gitdiff . internal/config/config.go HEAD~5 HEAD`,
		Args: cobra.ExactArgs(gitDiffArgCount),
		RunE: func(_ *cobra.Command, args []string) error {
			return runGitDiff(args[0], args[1], args[2], args[3], chartPath)
		},
	}

	cmd.Flags().StringVar(&chartPath, "chart", "", "write an HTML bar chart of the edit counts to this path")

	return cmd
}

func runGitDiff(repoPath, filePath, oldRev, newRev, chartPath string) error {
	repo, err := gitlib.OpenRepository(repoPath)
	if err != nil {
		return fmt.Errorf("open repository %s: %w", repoPath, err)
	}
	defer repo.Free()

	oldContent, err := fileContentsAtRevision(repo, filePath, oldRev)
	if err != nil {
		return err
	}

	newContent, err := fileContentsAtRevision(repo, filePath, newRev)
	if err != nil {
		return err
	}

	language := morphsrc.DetectLanguage(filePath, oldContent)

	oldRoot, err := morphsrc.ParseAs(language, oldContent)
	if err != nil {
		return fmt.Errorf("parse %s at %s: %w", filePath, oldRev, err)
	}

	newRoot, err := morphsrc.ParseAs(language, newContent)
	if err != nil {
		return fmt.Errorf("parse %s at %s: %w", filePath, newRev, err)
	}

	recorder := morphreport.NewRecorder(nil)

	if err := morphlex.Morph(oldRoot, newRoot, recorder.Options()); err != nil {
		return fmt.Errorf("morph %s from %s to %s: %w", filePath, oldRev, newRev, err)
	}

	snapshot := recorder.Stats.Snapshot()

	fmt.Fprintln(os.Stdout, morphreport.TextDiff(string(oldContent), string(newContent)))
	fmt.Fprintln(os.Stdout, morphreport.SummaryTable(snapshot))
	fmt.Fprintln(os.Stdout, morphreport.MarkupSizeSummary(string(oldContent), string(newContent)))

	if chartPath != "" {
		if err := morphreport.WriteTrendChart(chartPath, filePath, snapshot); err != nil {
			return fmt.Errorf("write trend chart: %w", err)
		}
	}

	return nil
}

func fileContentsAtRevision(repo *gitlib.Repository, filePath, rev string) ([]byte, error) {
	hash, err := repo.ResolveRevision(rev)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", rev, err)
	}

	commit, err := repo.LookupCommit(context.Background(), hash)
	if err != nil {
		return nil, fmt.Errorf("lookup commit %s: %w", rev, err)
	}
	defer commit.Free()

	file, err := commit.File(filePath)
	if err != nil {
		return nil, fmt.Errorf("find %s at %s: %w", filePath, rev, err)
	}

	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("read %s at %s: %w", filePath, rev, err)
	}

	return content, nil
}
