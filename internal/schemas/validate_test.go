package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	Skills          []string `json:"skills"`
	Experiences     []string `json:"experiences"`
	Score           int      `json:"score"`
	Feedback        string   `json:"feedback"`
	Recommendations []string `json:"recommendations"`
}

func TestValidateResult_Valid(t *testing.T) {
	err := ValidateResult(result{
		Skills:          []string{"Python", "React"},
		Experiences:     []string{"Led a team of 5 engineers."},
		Score:           72,
		Feedback:        "Good resume with some room for improvement.",
		Recommendations: []string{"Add a professional summary or objective at the beginning of your resume."},
	})
	assert.NoError(t, err)
}

func TestValidateResult_EmptyCollections(t *testing.T) {
	err := ValidateResult(result{
		Skills:          []string{},
		Experiences:     []string{},
		Score:           2,
		Feedback:        "Needs substantial improvements to be competitive.",
		Recommendations: []string{},
	})
	assert.NoError(t, err)
}

func TestValidateResultJSON_MissingField(t *testing.T) {
	err := ValidateResultJSON([]byte(`{"skills": [], "experiences": [], "score": 10, "feedback": "x"}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr), "error should be ValidationError type")
	assert.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, err.Error(), "recommendations")
}

func TestValidateResultJSON_Violations(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"null skills", `{"skills": null, "experiences": [], "score": 10, "feedback": "x", "recommendations": []}`},
		{"score above range", `{"skills": [], "experiences": [], "score": 101, "feedback": "x", "recommendations": []}`},
		{"fractional score", `{"skills": [], "experiences": [], "score": 7.5, "feedback": "x", "recommendations": []}`},
		{"duplicate skills", `{"skills": ["Go", "Go"], "experiences": [], "score": 10, "feedback": "x", "recommendations": []}`},
		{"extra field", `{"skills": [], "experiences": [], "score": 10, "feedback": "x", "recommendations": [], "band": "weak"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResultJSON([]byte(tt.json))
			var validationErr *ValidationError
			assert.True(t, errors.As(err, &validationErr), "got %v", err)
		})
	}
}

func TestValidateResultJSON_Malformed(t *testing.T) {
	err := ValidateResultJSON([]byte("{ invalid json }"))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}
