package scoring

import "strings"

// KeywordResult reports how many of a rubric's expected keywords appear in the
// transcript.
type KeywordResult struct {
	Found    []string
	Expected int
	Score    float64
}

// ScoreKeywords checks the token sequence against a delimited keyword spec.
// Entries are split on ',' or ';', trimmed and lower-cased; duplicates are
// kept and count towards the denominator. A phrase (entry with a space) must
// appear as a substring of the space-joined tokens, a single word must match a
// token exactly. An empty spec means the criterion has no keyword requirement
// and scores full credit.
func ScoreKeywords(spec string, tokens []string) KeywordResult {
	expected := splitKeywordSpec(spec)
	if len(expected) == 0 {
		return KeywordResult{Found: []string{}, Expected: 0, Score: 1.0}
	}

	tokenSet := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		tokenSet[token] = struct{}{}
	}
	joined := strings.Join(tokens, " ")

	found := make([]string, 0, len(expected))
	for _, keyword := range expected {
		if strings.Contains(keyword, " ") {
			if strings.Contains(joined, keyword) {
				found = append(found, keyword)
			}
			continue
		}
		if _, ok := tokenSet[keyword]; ok {
			found = append(found, keyword)
		}
	}

	return KeywordResult{
		Found:    found,
		Expected: len(expected),
		Score:    float64(len(found)) / float64(len(expected)),
	}
}

func splitKeywordSpec(spec string) []string {
	parts := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ';'
	})

	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		keyword := strings.ToLower(strings.TrimSpace(part))
		if keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}
