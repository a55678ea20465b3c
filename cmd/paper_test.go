package cmd

import (
	"testing"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTopicQuota(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    models.TopicQuota
		wantErr bool
	}{
		{name: "count only", raw: "limits:2", want: models.TopicQuota{Topic: "limits", Count: 2}},
		{name: "min bound", raw: "derivatives:3:2", want: models.TopicQuota{Topic: "derivatives", Count: 3, MinDifficulty: 2}},
		{name: "full range", raw: " integrals : 1 : 1 : 5", want: models.TopicQuota{Topic: "integrals", Count: 1, MinDifficulty: 1, MaxDifficulty: 5}},
		{name: "missing count", raw: "limits", wantErr: true},
		{name: "empty topic", raw: ":2", wantErr: true},
		{name: "not a number", raw: "limits:two", wantErr: true},
		{name: "too many parts", raw: "limits:1:1:5:9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTopicQuota(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newPaperFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "paper"}
	addPaperFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestPaperRequestFromFlags(t *testing.T) {
	t.Run("equivalent with seed", func(t *testing.T) {
		cmd := newPaperFlags(t, "--mode", "Equivalent", "--topic", "limits:1", "--topic", "derivatives:2:1:5", "--seed", "42")

		req, err := paperRequestFromFlags(cmd)
		require.NoError(t, err)
		assert.Equal(t, models.PaperModeEquivalent, req.Mode)
		assert.Len(t, req.Params, 2)
		require.NotNil(t, req.Seed)
		assert.Equal(t, int64(42), *req.Seed)
		assert.Equal(t, "cli", req.StudentID)
	})

	t.Run("fixed keeps question order", func(t *testing.T) {
		cmd := newPaperFlags(t, "--mode", "fixed", "--question", "Q4", "--question", "Q1")

		req, err := paperRequestFromFlags(cmd)
		require.NoError(t, err)
		assert.Equal(t, []string{"Q4", "Q1"}, req.QuestionIDs)
		assert.Nil(t, req.Seed)
	})

	t.Run("bad quota", func(t *testing.T) {
		cmd := newPaperFlags(t, "--topic", "limits")

		_, err := paperRequestFromFlags(cmd)
		assert.Error(t, err)
	})
}
