package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mcunha12/medstudent/internal/app"
	"github.com/mcunha12/medstudent/internal/logger"
	"github.com/mcunha12/medstudent/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importQuestionsCmd = &cobra.Command{
	Use:   "import-questions <dir>",
	Short: "Import every *.json question file in a directory",
	Long: `Reads each JSON file in <dir> and inserts or updates its questions.
The exam name of a file is taken from its name up to the second hyphen,
so "ENARE-2023-R1.json" becomes "ENARE-2023".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := readQuestionFiles(args[0])
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no .json files found in %s", args[0])
		}

		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			report, err := a.Questions.ImportQuestions(ctx, files)
			if err != nil {
				return err
			}
			logger.Get().Info("Import finished",
				zap.Int("files", report.Files),
				zap.Int("created", report.Created),
				zap.Int("updated", report.Updated),
				zap.Int("unchanged", report.Unchanged),
				zap.Int("skipped", report.Skipped),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "files=%d created=%d updated=%d unchanged=%d skipped=%d\n",
				report.Files, report.Created, report.Updated, report.Unchanged, report.Skipped)
			return nil
		})
	},
}

func readQuestionFiles(dir string) ([]service.ImportFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var files []service.ImportFile
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		files = append(files, service.ImportFile{Name: e.Name(), Data: data})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
