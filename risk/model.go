// Package risk scores loan applications with a pretrained logistic model.
package risk

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_model.yaml
var defaultModelYAML []byte

// Coefficient weights one standardised feature.
type Coefficient struct {
	Feature string  `yaml:"feature"`
	Weight  float64 `yaml:"weight"`
	Mean    float64 `yaml:"mean"`
	Scale   float64 `yaml:"scale"`
}

// Model is a logistic regression over standardised features.
type Model struct {
	Name         string        `yaml:"name"`
	Intercept    float64       `yaml:"intercept"`
	Coefficients []Coefficient `yaml:"coefficients"`
}

// Contribution is one feature's share of the model's log-odds.
type Contribution struct {
	Feature string
	Value   float64
	LogOdds float64
}

// DefaultModel returns the model shipped with the binary.
func DefaultModel() (*Model, error) {
	return ParseModel(defaultModelYAML)
}

// LoadModel reads a model file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read risk model: %w", err)
	}
	return ParseModel(data)
}

func ParseModel(data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse risk model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Model) Validate() error {
	if len(m.Coefficients) == 0 {
		return errors.New("risk model has no coefficients")
	}
	seen := make(map[string]bool, len(m.Coefficients))
	for _, c := range m.Coefficients {
		if !isFeature(c.Feature) {
			return fmt.Errorf("risk model references unknown feature %q", c.Feature)
		}
		if seen[c.Feature] {
			return fmt.Errorf("risk model lists feature %q twice", c.Feature)
		}
		seen[c.Feature] = true
		if c.Scale == 0 {
			return fmt.Errorf("risk model feature %q has zero scale", c.Feature)
		}
	}
	return nil
}

// Explain returns every coefficient's contribution to the log-odds.
func (m *Model) Explain(f Features) []Contribution {
	out := make([]Contribution, 0, len(m.Coefficients))
	for _, c := range m.Coefficients {
		x, _ := f.Value(c.Feature)
		out = append(out, Contribution{
			Feature: c.Feature,
			Value:   x,
			LogOdds: c.Weight * (x - c.Mean) / c.Scale,
		})
	}
	return out
}

// PredictProba returns the probability that the applicant is high risk.
func (m *Model) PredictProba(f Features) float64 {
	z := m.Intercept
	for _, c := range m.Explain(f) {
		z += c.LogOdds
	}
	return 1 / (1 + math.Exp(-z))
}

// Score maps a probability to the 0-10 scale, rounded to one decimal.
func Score(probability float64) float64 {
	return math.Round(probability*100) / 10
}
