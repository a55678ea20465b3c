package drafts

import (
	"strings"
	"testing"

	apperrors "github.com/SAP-F-2025/reproducible-assessment/internal/errors"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const jsonDrafts = `{
  "questions": [
    {
      "id": "Q1",
      "stem": "d/dx ln x?",
      "type": "multiple_choice",
      "options": ["x", "1/x"],
      "correct_answer": "1/x",
      "topic": "derivatives",
      "difficulty": "easy",
      "knowledge_points": "logarithms, derivatives"
    },
    {
      "id": 2,
      "stem": "Integral of 1 from 0 to 5",
      "correct_answer": 5,
      "tolerance": 0.01,
      "difficulty": 3.0,
      "isomorphic_group": "constant-integral"
    }
  ]
}`

const yamlDrafts = `
- id: Q1
  stem: d/dx ln x?
  type: multiple_choice
  options:
    - {id: a, text: x}
    - {id: b, text: 1/x}
  correct_answer: b
  difficulty: hard
  knowledge_points: [logarithms]
- id: Q2
  stem: Integral of 1 from 0 to 5
  type: short_answer
  correct_answer: "5"
  tolerance: 0
  difficulty: 2
`

func TestLoad_JSON(t *testing.T) {
	drafts, err := Load("bank.json", strings.NewReader(jsonDrafts))
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	mc := drafts[0]
	assert.Equal(t, models.MultipleChoice, mc.Type)
	assert.Equal(t, []models.Option{{ID: "A", Text: "x"}, {ID: "B", Text: "1/x"}}, mc.Options)
	assert.Equal(t, "B", mc.CorrectAnswer)
	assert.Equal(t, 1, mc.Difficulty)
	assert.Equal(t, []string{"logarithms", "derivatives"}, mc.KnowledgePoints)

	short := drafts[1]
	assert.Equal(t, "2", short.ID)
	assert.Equal(t, models.ShortAnswer, short.Type)
	assert.Equal(t, "5", short.CorrectAnswer)
	require.NotNil(t, short.Tolerance)
	assert.Equal(t, 0.01, *short.Tolerance)
	assert.Equal(t, 3, short.Difficulty)
	require.NotNil(t, short.IsomorphicGroup)
	assert.Equal(t, "constant-integral", *short.IsomorphicGroup)
}

func TestLoad_JSONBareList(t *testing.T) {
	drafts, err := Load("bank.JSON", strings.NewReader(`[{"id":"Q9","stem":"s","correct_answer":"x"}]`))
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Q9", drafts[0].ID)
}

func TestLoad_YAML(t *testing.T) {
	drafts, err := Load("bank.yml", strings.NewReader(yamlDrafts))
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "b", drafts[0].CorrectAnswer)
	assert.Equal(t, 5, drafts[0].Difficulty)
	assert.Equal(t, []string{"logarithms"}, drafts[0].KnowledgePoints)

	require.NotNil(t, drafts[1].Tolerance)
	assert.Zero(t, *drafts[1].Tolerance)
	assert.Nil(t, drafts[1].IsomorphicGroup)
}

func TestLoad_Excel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{"ID", "Stem", "Type", "Options", "Correct_Answer", "Tolerance", "Topic", "Difficulty", "Knowledge_Points"}
	rows := [][]interface{}{
		{"Q1", "d/dx ln x?", "multiple_choice", "A:x|B:1/x", "1/x", "", "derivatives", "medium", "logarithms, derivatives"},
		{},
		{"Q2", "Integral of 1 from 0 to 5", "short_answer", "", "5", "0.01", "integrals", "2", ""},
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	drafts, err := Load("bank.xlsx", buf)
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, []models.Option{{ID: "A", Text: "x"}, {ID: "B", Text: "1/x"}}, drafts[0].Options)
	assert.Equal(t, "B", drafts[0].CorrectAnswer)
	assert.Equal(t, 3, drafts[0].Difficulty)
	assert.Equal(t, []string{"logarithms", "derivatives"}, drafts[0].KnowledgePoints)

	assert.Equal(t, "Q2", drafts[1].ID)
	require.NotNil(t, drafts[1].Tolerance)
	assert.Equal(t, 0.01, *drafts[1].Tolerance)
	assert.Empty(t, drafts[1].Options)
}

func TestLoad_CSV(t *testing.T) {
	data := "id,stem,correct_answer,difficulty\nQ1,\"1 + 1 = ?\",2,easy\n"

	drafts, err := Load("bank.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "1 + 1 = ?", drafts[0].Stem)
	assert.Equal(t, 1, drafts[0].Difficulty)
}

func TestLoad_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		input string
		field string
	}{
		{"unsupported extension", "bank.txt", "", "file"},
		{"malformed json", "bank.json", "{", "file"},
		{"json scalar", "bank.json", `"questions"`, "file"},
		{"non-object entry", "bank.yaml", "- 1\n", "questions[0]"},
		{"header only", "bank.csv", "id,stem\n", "file"},
		{"missing id column", "bank.csv", "stem\nhello\n", "headers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.file, strings.NewReader(tt.input))
			var validationErr *apperrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestNormalize_Defaults(t *testing.T) {
	d := normalize(record{"id": " Q1 ", "options": "yes|no", "type": "MULTIPLE_CHOICE", "correct_answer": "no"})

	assert.Equal(t, "Q1", d.ID)
	assert.Equal(t, models.MultipleChoice, d.Type)
	assert.Equal(t, []models.Option{{ID: "A", Text: "yes"}, {ID: "B", Text: "no"}}, d.Options)
	assert.Equal(t, "B", d.CorrectAnswer)
	assert.Zero(t, d.Difficulty)
	assert.Nil(t, d.Tolerance)
}

func TestDefaultPool_Freezable(t *testing.T) {
	pool := DefaultPool()

	errs := validator.New().Question().ValidateDrafts(pool)
	assert.Empty(t, errs)

	groups := make(map[string]int)
	for _, d := range pool {
		if d.IsomorphicGroup != nil {
			groups[*d.IsomorphicGroup]++
		}
	}
	multi := 0
	for _, n := range groups {
		if n > 1 {
			multi++
		}
	}
	assert.Equal(t, 3, multi)
}
