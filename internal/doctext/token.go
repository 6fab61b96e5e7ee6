package doctext

import "regexp"

var wordRE = regexp.MustCompile(`\w+`)

// EstimateTokens gives a rough token count from the word count.
// Empirically English prose runs ~0.75 words per token, so we use
// words * 1.33. Exact tokenization is not required for chunk sizing.
func EstimateTokens(text string) int {
	words := len(wordRE.FindAllStringIndex(text, -1))
	return int(float64(words)*1.33) + 1
}
