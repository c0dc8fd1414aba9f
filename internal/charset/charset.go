// Package charset assembles the candidate alphabet from selector flags.
package charset

import "github.com/ZerkerEOD/p12crack/internal/errs"

// Character classes addressable from the charset selector flag.
const (
	Lower   = "abcdefghijklmnopqrstuvwxyz"
	Upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits  = "0123456789"
	Special = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~ "
)

// Build assembles the working charset from selector characters plus any
// custom characters appended verbatim.
//
// Selectors: 'a' lowercase, 'A' uppercase, 'n' digits, 's' specials,
// 'x' all four classes. Unknown selectors are rejected. When neither
// selectors nor custom characters are given the charset defaults to
// lowercase. Duplicate characters are dropped, keeping first occurrence
// order, so the reported keyspace matches the candidates actually tried.
func Build(selectors, custom string) ([]byte, error) {
	var raw []byte

	for i := 0; i < len(selectors); i++ {
		switch selectors[i] {
		case 'a':
			raw = append(raw, Lower...)
		case 'A':
			raw = append(raw, Upper...)
		case 'n':
			raw = append(raw, Digits...)
		case 's':
			raw = append(raw, Special...)
		case 'x':
			raw = append(raw, Lower...)
			raw = append(raw, Upper...)
			raw = append(raw, Digits...)
			raw = append(raw, Special...)
		default:
			return nil, errs.Configuration("unknown charset selector %q (valid: a, A, n, s, x)", selectors[i])
		}
	}

	raw = append(raw, custom...)

	if len(raw) == 0 {
		raw = []byte(Lower)
	}

	return dedupe(raw), nil
}

// dedupe removes repeated bytes, preserving first occurrence order.
func dedupe(raw []byte) []byte {
	var seen [256]bool
	out := raw[:0]
	for _, b := range raw {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}
