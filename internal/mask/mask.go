// Package mask parses password pattern templates.
//
// A template is a literal string in which every occurrence of a sentinel
// byte marks a variable position to be filled from a charset. "pass@@"
// with sentinel '@' fixes the first four characters and varies the last
// two.
package mask

import (
	"github.com/ZerkerEOD/p12crack/internal/errs"
	"github.com/ZerkerEOD/p12crack/internal/keyspace"
)

// Position represents a single position in a pattern template
type Position struct {
	Char      byte // the literal byte, or the sentinel for variable positions
	IsLiteral bool // true if this position is fixed, false if filled from the charset
}

// Parse splits a pattern template into positions. Every occurrence of
// sentinel becomes a variable position; every other byte is literal.
func Parse(template string, sentinel byte) ([]Position, error) {
	if template == "" {
		return nil, errs.Configuration("pattern template cannot be empty")
	}

	positions := make([]Position, len(template))
	for i := 0; i < len(template); i++ {
		positions[i] = Position{
			Char:      template[i],
			IsLiteral: template[i] != sentinel,
		}
	}

	return positions, nil
}

// VariableIndices returns the template indices of the variable positions,
// leftmost first.
func VariableIndices(positions []Position) []int {
	var indices []int
	for i, pos := range positions {
		if !pos.IsLiteral {
			indices = append(indices, i)
		}
	}
	return indices
}

// CountVariables returns the number of variable positions.
func CountVariables(positions []Position) int {
	count := 0
	for _, pos := range positions {
		if !pos.IsLiteral {
			count++
		}
	}
	return count
}

// Keyspace returns the number of candidates the template expands to with
// a charset of the given size, saturating at keyspace.MaxCardinality.
// A template with no variable positions expands to exactly one candidate.
func Keyspace(positions []Position, charsetSize uint64) uint64 {
	return keyspace.Pow(charsetSize, CountVariables(positions))
}

// Scaffold returns a candidate buffer with all literal bytes placed.
// Variable slots are left zero and are overwritten during generation.
func Scaffold(positions []Position) []byte {
	buf := make([]byte, len(positions))
	for i, pos := range positions {
		if pos.IsLiteral {
			buf[i] = pos.Char
		}
	}
	return buf
}
