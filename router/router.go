// Package router decides what happens to a transcribed customer query: it is
// either rejected by the content filter or routed to a bank department by
// keyword score.
package router

// Decision is the outcome of routing one text.
type Decision struct {
	Filter     FilterResult
	Department string
	Routed     bool
	Scores     Scores
}

// Rejected reports whether the content filter refused the text.
func (d Decision) Rejected() bool {
	return !d.Filter.Allowed
}

// Router is immutable and safe for concurrent use.
type Router struct {
	filter     *Filter
	classifier *Classifier
}

// New returns a Router over table using the default content filter.
func New(table Table) *Router {
	return NewWithFilter(table, NewFilter())
}

func NewWithFilter(table Table, filter *Filter) *Router {
	return &Router{filter: filter, classifier: NewClassifier(table)}
}

// Route filters text and, if it passes, classifies it.
func (r *Router) Route(text string) Decision {
	fr := r.filter.Check(text)
	if !fr.Allowed {
		return Decision{Filter: fr}
	}
	scores := r.classifier.Score(text)
	department, ok := scores.Best()
	return Decision{
		Filter:     fr,
		Department: department,
		Routed:     ok,
		Scores:     scores,
	}
}

// Score exposes the per-department scores without filtering.
func (r *Router) Score(text string) Scores {
	return r.classifier.Score(text)
}
