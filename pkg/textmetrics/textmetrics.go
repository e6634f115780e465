// Package textmetrics implements lexical overlap scores between two texts.
// The scores are deterministic companions to the model-based judgment: a
// unigram F1 capturing shared vocabulary and an LCS F1 rewarding matching
// token order.
package textmetrics

import "strings"

// Scores groups the two overlap metrics produced for a candidate/reference pair.
type Scores struct {
	UnigramF1 float64 `json:"unigram_f1"`
	LCSF1     float64 `json:"lcs_f1"`
}

// Overlap computes both overlap metrics for the candidate against the reference.
// Both values are in [0,1]. If either text has no tokens after normalization the
// result is zero for both metrics.
func Overlap(candidate, reference string) Scores {
	candidateTokens := tokenize(candidate)
	referenceTokens := tokenize(reference)

	if len(candidateTokens) == 0 || len(referenceTokens) == 0 {
		return Scores{}
	}

	return Scores{
		UnigramF1: unigramF1(candidateTokens, referenceTokens),
		LCSF1:     lcsF1(candidateTokens, referenceTokens),
	}
}

// UnigramF1 returns the F1 of the token-set overlap between the two texts.
// Order does not matter, only shared vocabulary.
func UnigramF1(candidate, reference string) float64 {
	candidateTokens := tokenize(candidate)
	referenceTokens := tokenize(reference)
	if len(candidateTokens) == 0 || len(referenceTokens) == 0 {
		return 0
	}
	return unigramF1(candidateTokens, referenceTokens)
}

// LCSF1 returns the F1 built from the longest common subsequence of tokens.
// Unlike UnigramF1 it rewards matching token sequences.
func LCSF1(candidate, reference string) float64 {
	candidateTokens := tokenize(candidate)
	referenceTokens := tokenize(reference)
	if len(candidateTokens) == 0 || len(referenceTokens) == 0 {
		return 0
	}
	return lcsF1(candidateTokens, referenceTokens)
}

func unigramF1(candidate, reference []string) float64 {
	candidateSet := uniqueTokens(candidate)
	referenceSet := uniqueTokens(reference)

	shared := 0
	for token := range candidateSet {
		if _, ok := referenceSet[token]; ok {
			shared++
		}
	}

	precision := float64(shared) / float64(len(candidateSet))
	recall := float64(shared) / float64(len(referenceSet))

	return f1(precision, recall)
}

func lcsF1(candidate, reference []string) float64 {
	length := lcsLength(candidate, reference)

	precision := float64(length) / float64(len(candidate))
	recall := float64(length) / float64(len(reference))

	return f1(precision, recall)
}

// lcsLength computes the longest common subsequence length with a rolling
// two-row table, keeping memory linear in the reference length.
func lcsLength(candidate, reference []string) int {
	previous := make([]int, len(reference)+1)
	current := make([]int, len(reference)+1)

	for i := 1; i <= len(candidate); i++ {
		for j := 1; j <= len(reference); j++ {
			if candidate[i-1] == reference[j-1] {
				current[j] = previous[j-1] + 1
			} else if previous[j] >= current[j-1] {
				current[j] = previous[j]
			} else {
				current[j] = current[j-1]
			}
		}
		previous, current = current, previous
	}

	return previous[len(reference)]
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

func uniqueTokens(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// tokenize lowercases the text and splits it into alphanumeric runs, the same
// normalization ROUGE-style metrics apply before matching.
func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	tokens := make([]string, 0, len(lowered)/5)

	var builder strings.Builder
	for _, r := range lowered {
		if isAlphanumeric(r) {
			builder.WriteRune(r)
			continue
		}
		if builder.Len() > 0 {
			tokens = append(tokens, builder.String())
			builder.Reset()
		}
	}
	if builder.Len() > 0 {
		tokens = append(tokens, builder.String())
	}

	return tokens
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
