package risk

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidJSON     = errors.New("invalid JSON input")
	ErrInvalidFeatures = errors.New("invalid feature record")
)

// FeatureNames lists the model inputs in a fixed order.
var FeatureNames = []string{
	"name_similarity",
	"phone_match",
	"credit_score",
	"income_range",
	"avg_monthly_spend",
	"existing_loans",
	"loan_amount",
	"loan_tenure",
	"debt_to_income_ratio",
	"pan_verified",
	"aadhaar_verified",
}

// Features is one loan applicant's feature record.
type Features struct {
	NameSimilarity    float64 `json:"name_similarity"`
	PhoneMatch        float64 `json:"phone_match"`
	CreditScore       float64 `json:"credit_score"`
	IncomeRange       float64 `json:"income_range"`
	AvgMonthlySpend   float64 `json:"avg_monthly_spend"`
	ExistingLoans     float64 `json:"existing_loans"`
	LoanAmount        float64 `json:"loan_amount"`
	LoanTenure        float64 `json:"loan_tenure"`
	DebtToIncomeRatio float64 `json:"debt_to_income_ratio"`
	PanVerified       float64 `json:"pan_verified"`
	AadhaarVerified   float64 `json:"aadhaar_verified"`
}

// SampleFeatures is the record scored when no input is given.
func SampleFeatures() Features {
	return Features{
		NameSimilarity:    0.9,
		PhoneMatch:        1,
		CreditScore:       750,
		IncomeRange:       3,
		AvgMonthlySpend:   150000,
		ExistingLoans:     1,
		LoanAmount:        5000000,
		LoanTenure:        120,
		DebtToIncomeRatio: 0.1,
		PanVerified:       1,
		AadhaarVerified:   1,
	}
}

// ParseFeatures decodes a JSON object holding exactly the known features.
func ParseFeatures(data []byte) (Features, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Features{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	var missing []string
	for _, name := range FeatureNames {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Features{}, fmt.Errorf("%w: missing %s", ErrInvalidFeatures, strings.Join(missing, ", "))
	}

	var f Features
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return Features{}, fmt.Errorf("%w: %v", ErrInvalidFeatures, err)
	}
	return f, nil
}

// Value returns the named feature.
func (f Features) Value(name string) (float64, bool) {
	switch name {
	case "name_similarity":
		return f.NameSimilarity, true
	case "phone_match":
		return f.PhoneMatch, true
	case "credit_score":
		return f.CreditScore, true
	case "income_range":
		return f.IncomeRange, true
	case "avg_monthly_spend":
		return f.AvgMonthlySpend, true
	case "existing_loans":
		return f.ExistingLoans, true
	case "loan_amount":
		return f.LoanAmount, true
	case "loan_tenure":
		return f.LoanTenure, true
	case "debt_to_income_ratio":
		return f.DebtToIncomeRatio, true
	case "pan_verified":
		return f.PanVerified, true
	case "aadhaar_verified":
		return f.AadhaarVerified, true
	}
	return 0, false
}

func isFeature(name string) bool {
	i := sort.SearchStrings(sortedFeatureNames, name)
	return i < len(sortedFeatureNames) && sortedFeatureNames[i] == name
}

var sortedFeatureNames = func() []string {
	names := append([]string(nil), FeatureNames...)
	sort.Strings(names)
	return names
}()
