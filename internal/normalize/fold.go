// Package normalize implements the screening engine's string folding,
// tokenization, and phonetic encoding pipeline.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// specialLetters maps a handful of letters that NFD decomposition does
// not reduce to a plain ASCII base (Icelandic/Scandinavian, mostly) to
// their closest ASCII transliteration.
var specialLetters = map[rune]string{
	'ð': "d",
	'Ð': "d",
	'þ': "th",
	'Þ': "th",
	'ø': "o",
	'Ø': "o",
	'æ': "ae",
	'Æ': "ae",
	'ß': "ss",
	'ł': "l",
	'Ł': "l",
}

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold lowercases s, strips diacritics via canonical decomposition and
// combining-mark removal, substitutes a small set of special letters,
// drops punctuation except hyphens, and collapses whitespace.
func Fold(s string) string {
	if s == "" {
		return ""
	}

	lowered := strings.ToLower(s)

	var substituted strings.Builder
	substituted.Grow(len(lowered))
	for _, r := range lowered {
		if repl, ok := specialLetters[r]; ok {
			substituted.WriteString(repl)
			continue
		}
		substituted.WriteRune(r)
	}

	stripped, _, err := transform.String(diacriticStripper, substituted.String())
	if err != nil {
		stripped = substituted.String()
	}

	var out strings.Builder
	out.Grow(len(stripped))
	lastWasSpace := false
	for _, r := range stripped {
		switch {
		case unicode.IsSpace(r):
			if !lastWasSpace && out.Len() > 0 {
				out.WriteRune(' ')
			}
			lastWasSpace = true
		case r == '-':
			out.WriteRune(r)
			lastWasSpace = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			out.WriteRune(r)
			lastWasSpace = false
		default:
			// punctuation, dropped
		}
	}

	return strings.TrimRight(out.String(), " ")
}
