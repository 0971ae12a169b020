// Package render turns a normalized analysis into the fixed HTML fragments
// the presentation layer consumes. The fragments deliberately carry the
// model's own markdown/HTML through unescaped: the presentation contract
// treats section content as trusted renderer input, and the annotator has
// already guaranteed the document text itself is untouched outside
// highlight markup.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/plainclause/plainclause/internal/llm"
)

// Summary renders the plain-language summary section.
func Summary(summary string) string {
	return "<div class='summary-section'><p>" + summary + "</p></div>"
}

// Clauses renders one fragment per clause, keyed by its positional id.
func Clauses(clauses []llm.Clause) []string {
	out := make([]string, 0, len(clauses))
	for i, c := range clauses {
		var b strings.Builder
		fmt.Fprintf(&b, "<div class='clause-item' data-clause-id='clause_%d'>", i+1)

		title := c.Title
		if title == "" {
			title = fmt.Sprintf("Clause %d", i+1)
		}
		b.WriteString("<h4 class='clause-title'>" + title + "</h4>")

		importance := c.Importance
		if importance == "" {
			importance = "Medium"
		}
		fmt.Fprintf(&b, "<div class='clause-importance importance-%s'>Importance: %s</div>",
			strings.ToLower(importance), importance)

		b.WriteString("<p class='clause-explanation'>" + c.Explanation + "</p>")
		if c.OriginalExcerpt != "" {
			b.WriteString("<blockquote class='original-text'>" + c.OriginalExcerpt + "</blockquote>")
		}
		b.WriteString("</div>")
		out = append(out, b.String())
	}
	return out
}

// Risk renders the risk assessment. A bare score (the model returned a lone
// number) renders as a one-line fragment; the aggregate form renders the
// overall score plus an itemized factor list.
func Risk(r llm.RiskAssessment) string {
	if r.BareScore {
		return fmt.Sprintf("<div class='risk-assessment'><p>Risk Score: %d/10</p></div>", r.OverallRisk)
	}

	var b strings.Builder
	b.WriteString("<div class='risk-assessment'>")
	fmt.Fprintf(&b, "<div class='overall-risk risk-level-%d'><strong>Overall Risk Score: %d/10</strong></div>",
		r.OverallRisk, r.OverallRisk)
	b.WriteString("<ul class='risk-factors'>")
	for _, factor := range r.RiskFactors {
		b.WriteString("<li class='risk-item'>" + factor + "</li>")
	}
	b.WriteString("</ul></div>")
	return b.String()
}

// Terms renders one line per term/definition pair. Map order is not
// meaningful, so terms are sorted for stable output.
func Terms(terms map[string]string) string {
	names := make([]string, 0, len(terms))
	for name := range terms {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("<div class='terms-section'>")
	for _, name := range names {
		b.WriteString("<div class='term-item'><strong class='term-name'>" + name +
			"</strong>: <span class='term-definition'>" + terms[name] + "</span></div>")
	}
	b.WriteString("</div>")
	return b.String()
}

// Actions renders one list item per action.
func Actions(actions []string) string {
	var b strings.Builder
	b.WriteString("<ul class='action-items'>")
	for _, a := range actions {
		b.WriteString("<li class='action-item'>" + a + "</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

// Answer wraps a raw Q&A completion in its presentation template.
func Answer(completion string) string {
	return "<div class='qa-response'>" + completion + "</div>"
}
