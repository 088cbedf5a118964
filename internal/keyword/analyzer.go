// Package keyword measures how many of a job description's terms a résumé covers.
package keyword

import (
	"fmt"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
)

// Analyzer names accepted by NewAnalyzer.
const (
	// English lowercases, removes stop words and possessives, and stems.
	English = en.AnalyzerName
	// Standard lowercases and removes stop words without stemming.
	Standard = standard.Name
)

// Analyzer turns text into distinct index terms using a bleve analyzer.
type Analyzer struct {
	name     string
	analyzer analysis.Analyzer
}

// NewAnalyzer looks up a registered bleve analyzer by name.
func NewAnalyzer(name string) (*Analyzer, error) {
	if name == "" {
		name = English
	}
	a := bleve.NewIndexMapping().AnalyzerNamed(name)
	if a == nil {
		return nil, fmt.Errorf("unknown analyzer %q", name)
	}
	return &Analyzer{name: name, analyzer: a}, nil
}

// Name returns the bleve analyzer name.
func (a *Analyzer) Name() string {
	return a.name
}

// Terms returns the distinct terms of text in first-seen order. Terms shorter
// than two runes and purely numeric terms are dropped.
func (a *Analyzer) Terms(text string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, tok := range a.analyzer.Analyze([]byte(text)) {
		term := string(tok.Term)
		if _, ok := seen[term]; ok || !meaningful(term) {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}

func meaningful(term string) bool {
	n := 0
	letter := false
	for _, r := range term {
		n++
		if unicode.IsLetter(r) {
			letter = true
		}
	}
	return n >= 2 && letter
}
