// Package soundex implements the classic American Soundex phonetic encoding
// used by the phonetic term map and the standalone encoding endpoints.
package soundex

// Encode returns the Soundex code for a name: the first letter uppercased
// followed by exactly three digits. Non-ASCII-letter characters are stripped
// before encoding; an input with no letters encodes to "".
//
// The first letter's own class primes duplicate suppression, vowels and y
// reset it, and h/w are transparent, so same-class consonants on either side
// of an h or w collapse ("Ashcraft" → "A261", not "A226").
func Encode(name string) string {
	letters := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c >= 'A' && c <= 'Z' {
			letters = append(letters, c)
		}
	}
	if len(letters) == 0 {
		return ""
	}

	code := make([]byte, 1, 4)
	code[0] = letters[0]
	prev := digit(letters[0])

	for _, c := range letters[1:] {
		if c == 'H' || c == 'W' {
			continue // transparent: duplicate suppression carries across
		}
		d := digit(c)
		if d == 0 {
			prev = 0 // vowels and y reset the suppression state
			continue
		}
		if d != prev {
			code = append(code, d)
			if len(code) == 4 {
				break
			}
		}
		prev = d
	}

	for len(code) < 4 {
		code = append(code, '0')
	}
	return string(code)
}

// Matches reports whether two names share the same Soundex code.
func Matches(a, b string) bool {
	return Encode(a) == Encode(b)
}

// digit maps a consonant to its Soundex class digit, or 0 for vowels and y
// (h and w are handled by the caller).
func digit(c byte) byte {
	switch c {
	case 'B', 'F', 'P', 'V':
		return '1'
	case 'C', 'G', 'J', 'K', 'Q', 'S', 'X', 'Z':
		return '2'
	case 'D', 'T':
		return '3'
	case 'L':
		return '4'
	case 'M', 'N':
		return '5'
	case 'R':
		return '6'
	}
	return 0
}
