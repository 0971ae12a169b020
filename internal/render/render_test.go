package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plainclause/plainclause/internal/llm"
)

func TestSummary(t *testing.T) {
	assert.Equal(t,
		"<div class='summary-section'><p>Plain words.</p></div>",
		Summary("Plain words."))
}

func TestClauses(t *testing.T) {
	got := Clauses([]llm.Clause{
		{Title: "Term", Explanation: "Runs one year.", Importance: "High", OriginalExcerpt: "valid for one year"},
		{Explanation: "No title given."},
	})
	require.Len(t, got, 2)

	assert.Contains(t, got[0], "data-clause-id='clause_1'")
	assert.Contains(t, got[0], "<h4 class='clause-title'>Term</h4>")
	assert.Contains(t, got[0], "importance-high'>Importance: High<")
	assert.Contains(t, got[0], "<blockquote class='original-text'>valid for one year</blockquote>")

	assert.Contains(t, got[1], "data-clause-id='clause_2'")
	assert.Contains(t, got[1], "<h4 class='clause-title'>Clause 2</h4>")
	assert.Contains(t, got[1], "Importance: Medium")
	assert.NotContains(t, got[1], "blockquote")
}

func TestRiskAggregate(t *testing.T) {
	got := Risk(llm.RiskAssessment{OverallRisk: 7, RiskFactors: []string{"No exit clause"}})
	assert.Contains(t, got, "risk-level-7'><strong>Overall Risk Score: 7/10</strong>")
	assert.Contains(t, got, "<li class='risk-item'>No exit clause</li>")
}

func TestRiskBareScore(t *testing.T) {
	got := Risk(llm.RiskAssessment{OverallRisk: 8, BareScore: true})
	assert.Equal(t, "<div class='risk-assessment'><p>Risk Score: 8/10</p></div>", got)
}

func TestTermsSortedStable(t *testing.T) {
	got := Terms(map[string]string{"Lessor": "The owner", "Lessee": "The renter"})
	lessee := "<strong class='term-name'>Lessee</strong>: <span class='term-definition'>The renter</span>"
	lessor := "<strong class='term-name'>Lessor</strong>: <span class='term-definition'>The owner</span>"
	assert.Contains(t, got, lessee)
	assert.Contains(t, got, lessor)
	assert.Less(t, strings.Index(got, lessee), strings.Index(got, lessor))
}

func TestActions(t *testing.T) {
	assert.Equal(t,
		"<ul class='action-items'><li class='action-item'>Sign by Friday</li></ul>",
		Actions([]string{"Sign by Friday"}))
	assert.Equal(t, "<ul class='action-items'></ul>", Actions(nil))
}

func TestAnswer(t *testing.T) {
	assert.Equal(t, "<div class='qa-response'><p>Yes.</p></div>", Answer("<p>Yes.</p>"))
}
