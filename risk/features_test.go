package risk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeatures(t *testing.T) {
	data, err := json.Marshal(SampleFeatures())
	require.NoError(t, err)

	f, err := ParseFeatures(data)
	require.NoError(t, err)
	assert.Equal(t, SampleFeatures(), f)
}

func TestParseFeatures_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{name: "not json", input: "{name_similarity: 1", wantErr: ErrInvalidJSON},
		{name: "not an object", input: "[1, 2]", wantErr: ErrInvalidJSON},
		{name: "missing fields", input: `{"name_similarity": 0.9}`, wantErr: ErrInvalidFeatures, wantMsg: "credit_score"},
		{
			name:    "unknown field",
			input:   `{"name_similarity":0.9,"phone_match":1,"credit_score":750,"income_range":3,"avg_monthly_spend":1,"existing_loans":1,"loan_amount":1,"loan_tenure":1,"debt_to_income_ratio":0.1,"pan_verified":1,"aadhaar_verified":1,"shoe_size":44}`,
			wantErr: ErrInvalidFeatures,
			wantMsg: "shoe_size",
		},
		{
			name:    "wrong type",
			input:   `{"name_similarity":"high","phone_match":1,"credit_score":750,"income_range":3,"avg_monthly_spend":1,"existing_loans":1,"loan_amount":1,"loan_tenure":1,"debt_to_income_ratio":0.1,"pan_verified":1,"aadhaar_verified":1}`,
			wantErr: ErrInvalidFeatures,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFeatures([]byte(tt.input))
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestFeatures_Value(t *testing.T) {
	f := SampleFeatures()
	for _, name := range FeatureNames {
		_, ok := f.Value(name)
		assert.True(t, ok, name)
	}
	_, ok := f.Value("shoe_size")
	assert.False(t, ok)
}
