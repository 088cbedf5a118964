package keyword

import (
	"reflect"
	"testing"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "go", 2},
		{"kubernetes", "kubernetes", 0},
		{"kubernetes", "kubernets", 1},
		{"kitten", "sitting", 3},
		{"ab", "ba", 1},
		{"golnag", "golang", 1},
		{"café", "cafe", 1},
	}
	for _, tt := range tests {
		if got := EditDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("EditDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := EditDistance(tt.b, tt.a); got != tt.want {
			t.Errorf("EditDistance(%q, %q) not symmetric: %d", tt.b, tt.a, got)
		}
	}
}

func TestNewAnalyzer(t *testing.T) {
	if _, err := NewAnalyzer("no-such-analyzer"); err == nil {
		t.Error("expected error for unknown analyzer")
	}
	a, err := NewAnalyzer("")
	if err != nil {
		t.Fatal(err)
	}
	if a.Name() != English {
		t.Errorf("default analyzer = %q", a.Name())
	}
}

func TestAnalyzer_Terms(t *testing.T) {
	a, err := NewAnalyzer(Standard)
	if err != nil {
		t.Fatal(err)
	}
	got := a.Terms("The Go engineer, the GO team: 5 years of Go and a K8s cluster")
	want := []string{"go", "engineer", "team", "years", "k8s", "cluster"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms = %v, want %v", got, want)
	}
}

func TestMatcher_Coverage(t *testing.T) {
	a, err := NewAnalyzer(English)
	if err != nil {
		t.Fatal(err)
	}
	m := NewMatcher(a, false)
	c := m.Coverage("Built REST APIs in Go. Deployed services to Kubernetes.",
		"Go developer with Kubernetes and Terraform")
	if c.Total == 0 {
		t.Fatal("expected job terms")
	}
	if !contains(c.Matched, "kubernet") && !contains(c.Matched, "kubernetes") {
		t.Errorf("kubernetes should be matched: %+v", c)
	}
	if !contains(c.Missing, "terraform") {
		t.Errorf("terraform should be missing: %+v", c)
	}
	if c.Percent <= 0 || c.Percent >= 100 {
		t.Errorf("Percent = %v", c.Percent)
	}
	if len(c.Matched)+len(c.Missing) != c.Total {
		t.Errorf("matched+missing != total: %+v", c)
	}
}

func TestMatcher_CoverageFuzzy(t *testing.T) {
	a, err := NewAnalyzer(Standard)
	if err != nil {
		t.Fatal(err)
	}
	strict := NewMatcher(a, false).Coverage("kubernets", "kubernetes")
	if strict.Percent != 0 {
		t.Errorf("strict coverage = %v, want 0", strict.Percent)
	}
	fuzzy := NewMatcher(a, true).Coverage("kubernets", "kubernetes")
	if fuzzy.Percent != 100 {
		t.Errorf("fuzzy coverage = %v, want 100", fuzzy.Percent)
	}
	// short terms never match fuzzily
	if c := NewMatcher(a, true).Coverage("java", "jav"); c.Percent != 0 {
		t.Errorf("short term coverage = %v, want 0", c.Percent)
	}
}

func TestMatcher_CoverageEmptyJob(t *testing.T) {
	a, _ := NewAnalyzer(English)
	c := NewMatcher(a, true).Coverage("anything", "   ")
	if c.Total != 0 || c.Percent != 0 {
		t.Errorf("got %+v", c)
	}
	if c.Matched == nil || c.Missing == nil {
		t.Error("lists should be non-nil for JSON output")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
