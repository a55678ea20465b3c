package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/services"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var paperCmd = &cobra.Command{
	Use:   "paper",
	Short: "Generate a paper and print it as JSON",
	Long:  "Generating twice with the same version, quotas and seed prints the same questions in the same order.",
	Example: `  reproducible-assessment paper --mode equivalent --topic derivatives:2:1:5 --seed 42
  reproducible-assessment paper --mode fixed --question Q1 --question Q4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := paperRequestFromFlags(cmd)
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		paper, err := a.services.Paper().Create(ctx, req)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(paper)
	},
}

func init() {
	addPaperFlags(paperCmd.Flags())
}

func addPaperFlags(flags *pflag.FlagSet) {
	flags.String("mode", string(models.PaperModeEquivalent), "fixed or equivalent")
	flags.StringArray("topic", nil, "Quota as topic:count[:min[:max]], repeatable")
	flags.StringArray("question", nil, "Question id for fixed mode, repeatable and ordered")
	flags.Int64("seed", 0, "Seed for equivalent mode (omit to draw one)")
	flags.String("version", "", "Question bank version (defaults to latest)")
	flags.String("student", "cli", "Student id recorded on the paper")
}

func paperRequestFromFlags(cmd *cobra.Command) (*services.CreatePaperRequest, error) {
	mode, _ := cmd.Flags().GetString("mode")
	topics, _ := cmd.Flags().GetStringArray("topic")
	questionIDs, _ := cmd.Flags().GetStringArray("question")
	versionID, _ := cmd.Flags().GetString("version")
	studentID, _ := cmd.Flags().GetString("student")

	req := &services.CreatePaperRequest{
		StudentID:   studentID,
		Mode:        models.PaperMode(strings.ToLower(mode)),
		QuestionIDs: questionIDs,
		VersionID:   versionID,
	}
	for _, raw := range topics {
		quota, err := parseTopicQuota(raw)
		if err != nil {
			return nil, err
		}
		req.Params = append(req.Params, quota)
	}
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetInt64("seed")
		req.Seed = &seed
	}
	return req, nil
}

// parseTopicQuota reads topic:count[:min[:max]].
func parseTopicQuota(raw string) (models.TopicQuota, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 4 || strings.TrimSpace(parts[0]) == "" {
		return models.TopicQuota{}, fmt.Errorf("invalid topic quota %q, want topic:count[:min[:max]]", raw)
	}

	nums := make([]int, 3)
	for i, part := range parts[1:] {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return models.TopicQuota{}, fmt.Errorf("invalid topic quota %q: %w", raw, err)
		}
		nums[i] = n
	}

	return models.TopicQuota{
		Topic:         strings.TrimSpace(parts[0]),
		Count:         nums[0],
		MinDifficulty: nums[1],
		MaxDifficulty: nums[2],
	}, nil
}
