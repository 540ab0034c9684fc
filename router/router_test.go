package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouter_Route(t *testing.T) {
	r := New(DefaultTable())

	t.Run("rejected text is not classified", func(t *testing.T) {
		d := r.Route("i want to hack my loan account")
		assert.True(t, d.Rejected())
		assert.Equal(t, "hack", d.Filter.Keyword)
		assert.False(t, d.Routed)
		assert.Empty(t, d.Department)
		assert.Nil(t, d.Scores)
	})

	t.Run("routed", func(t *testing.T) {
		d := r.Route("please check my fd maturity status")
		assert.False(t, d.Rejected())
		assert.True(t, d.Routed)
		assert.Equal(t, wealthDept, d.Department)
		assert.Len(t, d.Scores, 5)
	})

	t.Run("allowed but unrouted", func(t *testing.T) {
		d := r.Route("hello there")
		assert.False(t, d.Rejected())
		assert.False(t, d.Routed)
		assert.Empty(t, d.Department)
	})
}

func TestRouter_CustomFilter(t *testing.T) {
	r := NewWithFilter(DefaultTable(), NewFilter("fraud"))

	d := r.Route("fraud on my credit card")
	assert.True(t, d.Rejected())
	assert.Equal(t, "fraud", d.Filter.Keyword)
}
