package router

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed departments.yaml
var defaultTableYAML []byte

var defaultTable = mustParseTable(defaultTableYAML)

// Department is a routing target and the keyword phrases that point at it.
type Department struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Table is an ordered, read-only list of departments. The zero value is empty.
type Table struct {
	departments []Department
}

// DefaultTable returns the built-in department table.
func DefaultTable() Table {
	return defaultTable
}

// LoadTable reads a department table from a YAML file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read keyword table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable parses a YAML department table. Keywords are lowercased and
// trimmed; empty names, duplicate names and departments without keywords are
// rejected.
func ParseTable(data []byte) (Table, error) {
	var doc struct {
		Departments []Department `yaml:"departments"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Table{}, fmt.Errorf("failed to parse keyword table: %w", err)
	}
	if len(doc.Departments) == 0 {
		return Table{}, errors.New("keyword table defines no departments")
	}

	seen := make(map[string]struct{}, len(doc.Departments))
	departments := make([]Department, 0, len(doc.Departments))
	for i, d := range doc.Departments {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return Table{}, fmt.Errorf("department %d has an empty name", i)
		}
		if _, dup := seen[name]; dup {
			return Table{}, fmt.Errorf("department %q is listed twice", name)
		}
		seen[name] = struct{}{}

		keywords := make([]string, 0, len(d.Keywords))
		for _, kw := range d.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) == 0 {
			return Table{}, fmt.Errorf("department %q has no keywords", name)
		}
		departments = append(departments, Department{Name: name, Keywords: keywords})
	}
	return Table{departments: departments}, nil
}

func mustParseTable(data []byte) Table {
	t, err := ParseTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Departments returns a copy of the table in priority order.
func (t Table) Departments() []Department {
	out := make([]Department, len(t.departments))
	for i, d := range t.departments {
		out[i] = Department{Name: d.Name, Keywords: append([]string(nil), d.Keywords...)}
	}
	return out
}

// Len reports the number of departments.
func (t Table) Len() int {
	return len(t.departments)
}
