package doctext

// SplitSentences splits prose at punctuation boundaries followed by a
// plausible sentence opener. It is a lightweight splitter for overlap
// windows and sub-unit grouping, not a linguistic segmenter.
func SplitSentences(text string) []string {
	t := NormalizeWS(text)
	if t == "" {
		return nil
	}
	rs := []rune(t)
	var out []string
	start := 0
	for i := 0; i < len(rs)-1; i++ {
		if rs[i] != '.' && rs[i] != '!' && rs[i] != '?' {
			continue
		}
		if rs[i+1] != ' ' {
			continue
		}
		j := i + 1
		for j < len(rs) && rs[j] == ' ' {
			j++
		}
		if j < len(rs) && sentenceOpener(rs[j]) {
			out = append(out, string(rs[start:i+1]))
			start = j
			i = j - 1
		}
	}
	if start < len(rs) {
		out = append(out, string(rs[start:]))
	}
	return out
}

func sentenceOpener(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '"' || r == '\'' || r == '(' || r == '[':
		return true
	}
	return false
}
