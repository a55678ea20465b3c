package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SAP-F-2025/reproducible-assessment/internal/drafts"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/services"
	"github.com/spf13/cobra"
)

var freezeCmd = &cobra.Command{
	Use:   "freeze",
	Short: "Freeze a draft file into a question bank version",
	Long:  "Loads drafts from a .json, .yaml, .xlsx or .csv file (or the built-in pool) and prints the content-addressed version id.",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		useDefault, _ := cmd.Flags().GetBool("default")
		description, _ := cmd.Flags().GetString("description")

		pool, err := readDrafts(file, useDefault)
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		version, created, err := a.services.QuestionBank().Freeze(ctx, pool, description)
		if err != nil {
			var fve *services.FreezeValidationError
			if errors.As(err, &fve) {
				for _, id := range fve.DraftIDs {
					fmt.Fprintf(cmd.ErrOrStderr(), "invalid draft: %s\n", id)
				}
			}
			return err
		}

		status := "existing"
		if created {
			status = "created"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d questions\n", version.ID, status, version.QuestionCount)
		return nil
	},
}

func init() {
	freezeCmd.Flags().String("file", "", "Draft file (.json, .yaml, .yml, .xlsx, .csv)")
	freezeCmd.Flags().Bool("default", false, "Freeze the built-in calculus pool")
	freezeCmd.Flags().String("description", "", "Version description")
	freezeCmd.MarkFlagsMutuallyExclusive("file", "default")
	freezeCmd.MarkFlagsOneRequired("file", "default")
}

func readDrafts(file string, useDefault bool) ([]models.QuestionDraft, error) {
	if useDefault {
		return drafts.DefaultPool(), nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open drafts: %w", err)
	}
	defer f.Close()
	return drafts.Load(filepath.Base(file), f)
}
