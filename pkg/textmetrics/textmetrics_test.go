package textmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlapIdenticalTexts(t *testing.T) {
	scores := Overlap(
		"Backpropagation trains neural networks.",
		"Backpropagation trains neural networks.",
	)

	assert.Equal(t, 1.0, scores.UnigramF1)
	assert.Equal(t, 1.0, scores.LCSF1)
}

func TestOverlapDisjointTexts(t *testing.T) {
	scores := Overlap("apples oranges pears", "gradient descent optimizer")

	assert.Equal(t, 0.0, scores.UnigramF1)
	assert.Equal(t, 0.0, scores.LCSF1)
}

func TestOverlapEmptyInputs(t *testing.T) {
	cases := []struct {
		name       string
		candidate  string
		reference  string
	}{
		{name: "empty candidate", candidate: "", reference: "a reference answer"},
		{name: "empty reference", candidate: "a student answer", reference: ""},
		{name: "both empty", candidate: "", reference: ""},
		{name: "punctuation only", candidate: "?! ... ---", reference: "a reference answer"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scores := Overlap(tc.candidate, tc.reference)
			assert.Equal(t, 0.0, scores.UnigramF1)
			assert.Equal(t, 0.0, scores.LCSF1)
		})
	}
}

func TestOverlapBounded(t *testing.T) {
	pairs := [][2]string{
		{"a b c", "c b a"},
		{"the network learns weights", "weights are learned by the network"},
		{"completely different words here", "nothing shared at all"},
		{"short", "a much longer reference answer with many tokens in it"},
	}

	for _, pair := range pairs {
		scores := Overlap(pair[0], pair[1])
		require.GreaterOrEqual(t, scores.UnigramF1, 0.0)
		require.LessOrEqual(t, scores.UnigramF1, 1.0)
		require.GreaterOrEqual(t, scores.LCSF1, 0.0)
		require.LessOrEqual(t, scores.LCSF1, 1.0)
	}
}

func TestLCSRewardsOrder(t *testing.T) {
	reference := "errors are propagated backward through the network"
	ordered := "errors are propagated backward"
	shuffled := "backward propagated are errors"

	// Same vocabulary, so the unigram score cannot tell them apart.
	assert.Equal(t, UnigramF1(ordered, reference), UnigramF1(shuffled, reference))
	assert.Greater(t, LCSF1(ordered, reference), LCSF1(shuffled, reference))
}

func TestTokenizeNormalization(t *testing.T) {
	tokens := tokenize("Back-Propagation, trains (Neural) NETWORKS!")
	assert.Equal(t, []string{"back", "propagation", "trains", "neural", "networks"}, tokens)
}

func TestUnigramF1PartialOverlap(t *testing.T) {
	// candidate set {a b c d}, reference set {c d e f}: 2 shared,
	// precision = recall = 0.5, F1 = 0.5.
	assert.InDelta(t, 0.5, UnigramF1("a b c d", "c d e f"), 1e-9)
}
