package keyword

import (
	"unicode/utf8"

	"github.com/hyperjump/resumatch/pkg/utils"
)

// fuzzyMinRunes is the shortest term that may match with one edit.
const fuzzyMinRunes = 5

// Coverage is the share of distinct job-description terms found in a résumé.
type Coverage struct {
	Percent float64  `json:"percent"`
	Total   int      `json:"total"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// Matcher computes Coverage with a fixed analyzer.
type Matcher struct {
	analyzer *Analyzer
	fuzzy    bool
}

// NewMatcher creates a matcher. With fuzzy set, terms of five or more runes
// also match a résumé term one edit away ("kubernets" covers "kubernetes").
func NewMatcher(analyzer *Analyzer, fuzzy bool) *Matcher {
	return &Matcher{analyzer: analyzer, fuzzy: fuzzy}
}

// Coverage analyzes both texts and reports which job-description terms the
// résumé contains. A job description without terms yields 0% with Total 0.
func (m *Matcher) Coverage(resume, job string) *Coverage {
	jobTerms := m.analyzer.Terms(job)
	resumeTerms := m.analyzer.Terms(resume)
	have := make(map[string]struct{}, len(resumeTerms))
	for _, t := range resumeTerms {
		have[t] = struct{}{}
	}

	c := &Coverage{Total: len(jobTerms), Matched: []string{}, Missing: []string{}}
	for _, term := range jobTerms {
		if _, ok := have[term]; ok || (m.fuzzy && nearMatch(term, resumeTerms)) {
			c.Matched = append(c.Matched, term)
		} else {
			c.Missing = append(c.Missing, term)
		}
	}
	if c.Total > 0 {
		c.Percent = utils.Round2(float64(len(c.Matched)) / float64(c.Total) * 100)
	}
	return c
}

func nearMatch(term string, candidates []string) bool {
	n := utf8.RuneCountInString(term)
	if n < fuzzyMinRunes {
		return false
	}
	for _, c := range candidates {
		cn := utf8.RuneCountInString(c)
		if cn < fuzzyMinRunes || cn-n > 1 || n-cn > 1 {
			continue
		}
		if EditDistance(term, c) <= 1 {
			return true
		}
	}
	return false
}
