package scoring

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases the text and splits it into word tokens. A token is a
// maximal run of word characters; apostrophes are kept when they sit inside a
// word ("don't" stays one token). Everything else acts as a separator.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	tokens := make([]string, 0)

	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		token := strings.Trim(current.String(), "'")
		if token != "" {
			tokens = append(tokens, token)
		}
		current.Reset()
	}

	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			current.WriteRune(r)
		case r == '\'' && current.Len() > 0:
			current.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return tokens
}
