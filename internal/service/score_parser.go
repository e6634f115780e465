package service

import (
	"regexp"
	"strconv"
	"strings"
)

// The judgment model is asked to end with a `Score:` line, but replies drift.
// parseScore therefore walks an ordered chain of progressively looser
// patterns; the first stage that yields a number wins, and ties between
// stages never arise. Stage order is a behavioral contract: different stages
// can disagree on text containing several numbers.
var (
	scoreDeclPattern   = regexp.MustCompile(`(?i)\bscore\s*[:=]\s*(-?\d+)`)
	scoreOutOfPattern  = regexp.MustCompile(`(?i)(-?\d+)\s*out\s*of\s*100`)
	scoreOfPattern     = regexp.MustCompile(`(?i)\bscore\s+of\s+(-?\d+)`)
	scoreNearbyPattern = regexp.MustCompile(`(?i)score[^\n]*?(\d{1,3})`)
	smallNumberPattern = regexp.MustCompile(`\b(\d{1,3})\b`)
)

// tailLinesForFallback bounds the last-resort scan to the end of the reply,
// where the score line lands when the model follows the requested format.
const tailLinesForFallback = 5

// parseScore extracts the grade stated in the judgment text, clamped into
// [0,100]. It is total: text with no numeric signal at all resolves to the
// neutral fallback, never an error. Out-of-range declarations are clamped
// rather than rejected because the surrounding prose is still trustworthy.
func parseScore(text string, fallback int) int {
	// Stage 1-3: explicit declarations, loudest first.
	for _, pattern := range []*regexp.Regexp{scoreDeclPattern, scoreOutOfPattern, scoreOfPattern} {
		if match := pattern.FindStringSubmatch(text); match != nil {
			if value, err := strconv.Atoi(match[1]); err == nil {
				return clampScore(value)
			}
		}
	}

	// Stage 4: the word "score" with a small number later on the same line.
	if match := scoreNearbyPattern.FindStringSubmatch(text); match != nil {
		if value, err := strconv.Atoi(match[1]); err == nil {
			return clampScore(value)
		}
	}

	// Stage 5: scan the final lines in reverse for a plausible bare number.
	lines := strings.Split(text, "\n")
	start := len(lines) - tailLinesForFallback
	if start < 0 {
		start = 0
	}
	tail := lines[start:]
	for i := len(tail) - 1; i >= 0; i-- {
		for _, match := range smallNumberPattern.FindAllStringSubmatch(tail[i], -1) {
			value, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			if value >= 0 && value <= 100 {
				return value
			}
		}
	}

	return clampScore(fallback)
}

func clampScore(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
