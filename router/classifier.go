package router

import "strings"

const (
	tokenMatchPoints     = 2
	substringMatchPoints = 1
)

// DepartmentScore is the keyword score of one department for one text.
type DepartmentScore struct {
	Department string
	Score      int
}

// Scores holds one entry per department, in table order.
type Scores []DepartmentScore

// Best returns the highest scoring department. Ties go to the department that
// comes first in table order. ok is false when every score is zero.
func (s Scores) Best() (department string, ok bool) {
	best := 0
	for _, ds := range s {
		if ds.Score > best {
			best = ds.Score
			department = ds.Department
		}
	}
	return department, best > 0
}

// Classifier scores text against a department table.
type Classifier struct {
	table Table
}

func NewClassifier(table Table) *Classifier {
	return &Classifier{table: table}
}

// Score computes every department's score. A keyword that equals a
// whitespace-separated token earns two points; one that only occurs as a
// substring earns one.
func (c *Classifier) Score(text string) Scores {
	lower := strings.ToLower(text)
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(lower) {
		tokens[tok] = struct{}{}
	}

	scores := make(Scores, 0, len(c.table.departments))
	for _, d := range c.table.departments {
		score := 0
		for _, kw := range d.Keywords {
			if _, ok := tokens[kw]; ok {
				score += tokenMatchPoints
			} else if strings.Contains(lower, kw) {
				score += substringMatchPoints
			}
		}
		scores = append(scores, DepartmentScore{Department: d.Name, Score: score})
	}
	return scores
}

// Classify returns the best department for text, or ok=false if nothing matched.
func (c *Classifier) Classify(text string) (department string, ok bool) {
	return c.Score(text).Best()
}
