package normalize

import "strings"

// soundexCode maps a letter to its classical Soundex digit. Vowels,
// 'h', 'w', and 'y' are absent and treated as non-coding.
var soundexCode = map[byte]byte{
	'b': '1', 'f': '1', 'p': '1', 'v': '1',
	'c': '2', 'g': '2', 'j': '2', 'k': '2', 'q': '2', 's': '2', 'x': '2', 'z': '2',
	'd': '3', 't': '3',
	'l': '4',
	'm': '5', 'n': '5',
	'r': '6',
}

// Soundex computes the classical 4-character Soundex code for word:
// the first letter is kept (uppercased), subsequent consonants map to
// digits per soundexCode, vowels/h/w/y do not code, consecutive
// duplicate digits collapse to one, and the result is padded with '0'
// to length 4.
func Soundex(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return "0000"
	}

	var letters []byte
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c >= 'a' && c <= 'z' {
			letters = append(letters, c)
		}
	}
	if len(letters) == 0 {
		return "0000"
	}

	var code strings.Builder
	code.WriteByte(upper(letters[0]))

	lastDigit := soundexCode[letters[0]]
	for _, c := range letters[1:] {
		digit, coded := soundexCode[c]
		if !coded {
			// vowels and y reset the duplicate-collapse window; h and w do not
			if c != 'h' && c != 'w' {
				lastDigit = 0
			}
			continue
		}
		if digit != lastDigit {
			code.WriteByte(digit)
		}
		lastDigit = digit
		if code.Len() >= 4 {
			break
		}
	}

	out := code.String()
	for len(out) < 4 {
		out += "0"
	}
	return out[:4]
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// phoneticEquivalents lists first-letter classes that are considered
// phonetically interchangeable for the leading-character pre-filter.
var phoneticEquivalents = [][2]rune{
	{'c', 'k'},
	{'c', 's'},
	{'s', 'z'},
	{'f', 'p'},
	{'j', 'g'},
}

func phoneticEquivalent(a, b rune) bool {
	for _, pair := range phoneticEquivalents {
		if (pair[0] == a && pair[1] == b) || (pair[0] == b && pair[1] == a) {
			return true
		}
	}
	return false
}

// PhoneticallyCompatible reports whether a and b's first folded
// characters are equal, are a listed phonetic equivalent pair, or are
// both digits.
func PhoneticallyCompatible(a, b string) bool {
	a, b = Fold(a), Fold(b)
	if a == "" || b == "" {
		return a == b
	}
	ra := []rune(a)[0]
	rb := []rune(b)[0]
	if ra == rb {
		return true
	}
	if isDigit(ra) && isDigit(rb) {
		return true
	}
	return phoneticEquivalent(ra, rb)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
