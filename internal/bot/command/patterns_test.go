package command

import (
	"reflect"
	"testing"
)

func TestExtractPatterns(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []string
	}{
		{"single", "check out [[[AAPL]]]", []string{"AAPL"}},
		{"multiple", "[[[AAPL]]] vs [[[MSFT]]]", []string{"AAPL", "MSFT"}},
		{"trimmed", "[[[ AAPL ]]]", []string{"AAPL"}},
		{"empty group", "[[[]]]", []string{""}},
		{"no pattern", "just chatting about AAPL", []string{}},
		{"incomplete brackets", "[[AAPL]]", []string{}},
		{"mixed forms", "[[[?apple]]] and [[[-TSLA]]] and [[[NVDA,6]]]", []string{"?apple", "-TSLA", "NVDA,6"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := extractPatterns(tc.content)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("extractPatterns(%q) = %v, want %v", tc.content, got, tc.want)
			}
		})
	}
}

func TestPatternClassification(t *testing.T) {
	cases := []struct {
		pattern string
		query   bool
		minimal bool
		alert   bool
		period  bool
		plain   bool
	}{
		{"AAPL", false, false, false, false, true},
		{"-AAPL", false, true, false, false, false},
		{"?apple", true, false, false, false, false},
		{"AAPL,6", false, false, false, true, false},
		{"AAPL@150", false, false, true, false, false},
		{"AAPL@150.50!", false, false, true, false, false},
		{"-AAPL,6", false, true, false, false, false},
		{"?apple,inc", true, false, false, false, false},
		{"", false, false, false, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.pattern, func(t *testing.T) {
			if got := isQueryPattern(tc.pattern); got != tc.query {
				t.Errorf("isQueryPattern = %v, want %v", got, tc.query)
			}
			if got := isMinimalPattern(tc.pattern); got != tc.minimal {
				t.Errorf("isMinimalPattern = %v, want %v", got, tc.minimal)
			}
			if got := isAlertPattern(tc.pattern); got != tc.alert {
				t.Errorf("isAlertPattern = %v, want %v", got, tc.alert)
			}
			if got := isPeriodPattern(tc.pattern); got != tc.period {
				t.Errorf("isPeriodPattern = %v, want %v", got, tc.period)
			}
			if got := isPlainPattern(tc.pattern); got != tc.plain {
				t.Errorf("isPlainPattern = %v, want %v", got, tc.plain)
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"AAPL", "MSFT", "AAPL", "TSLA", "MSFT"})
	want := []string{"AAPL", "MSFT", "TSLA"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dedupe = %v, want %v", got, want)
	}
}
