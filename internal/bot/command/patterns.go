package command

import (
	"regexp"
	"strings"
)

// Messages address the bot with triple-bracket patterns: [[[AAPL]]],
// [[[AAPL,6]]], [[[-AAPL]]], [[[?apple]]], [[[AAPL@150]]].
var bracketRe = regexp.MustCompile(`\[\[\[(.*?)\]\]\]`)

// extractPatterns returns the trimmed inner content of every triple-bracket
// group in the message, in order.
func extractPatterns(content string) []string {
	matches := bracketRe.FindAllStringSubmatch(content, -1)
	patterns := make([]string, 0, len(matches))
	for _, m := range matches {
		patterns = append(patterns, strings.TrimSpace(m[1]))
	}
	return patterns
}

func isQueryPattern(p string) bool {
	return strings.HasPrefix(p, "?")
}

func isMinimalPattern(p string) bool {
	return strings.HasPrefix(p, "-")
}

func isAlertPattern(p string) bool {
	return !isQueryPattern(p) && !isMinimalPattern(p) &&
		!strings.Contains(p, ",") && strings.Contains(p, "@")
}

func isPeriodPattern(p string) bool {
	return !isQueryPattern(p) && !isMinimalPattern(p) && strings.Contains(p, ",")
}

func isPlainPattern(p string) bool {
	return p != "" && !isQueryPattern(p) && !isMinimalPattern(p) &&
		!strings.Contains(p, ",") && !strings.Contains(p, "@")
}

// dedupe removes duplicates preserving first-seen order
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
