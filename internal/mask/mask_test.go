package mask

import (
	"errors"
	"testing"

	"github.com/ZerkerEOD/p12crack/internal/errs"
	"github.com/ZerkerEOD/p12crack/internal/keyspace"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		template  string
		sentinel  byte
		wantVars  []int
		wantErr   bool
		wantCount int
	}{
		{
			name:      "all literal",
			template:  "secret",
			sentinel:  '@',
			wantVars:  nil,
			wantCount: 6,
		},
		{
			name:      "all variable",
			template:  "@@@",
			sentinel:  '@',
			wantVars:  []int{0, 1, 2},
			wantCount: 3,
		},
		{
			name:      "mixed positions",
			template:  "pass@word@",
			sentinel:  '@',
			wantVars:  []int{4, 9},
			wantCount: 10,
		},
		{
			name:      "custom sentinel",
			template:  "a#b#",
			sentinel:  '#',
			wantVars:  []int{1, 3},
			wantCount: 4,
		},
		{
			name:      "default sentinel is literal under custom one",
			template:  "a@b#",
			sentinel:  '#',
			wantVars:  []int{3},
			wantCount: 4,
		},
		{
			name:     "empty template",
			template: "",
			sentinel: '@',
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positions, err := Parse(tt.template, tt.sentinel)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, errs.ErrConfiguration) {
					t.Errorf("Parse() error class = %v, want ErrConfiguration", err)
				}
				return
			}

			if len(positions) != tt.wantCount {
				t.Errorf("Parse() returned %d positions, want %d", len(positions), tt.wantCount)
			}

			gotVars := VariableIndices(positions)
			if len(gotVars) != len(tt.wantVars) {
				t.Fatalf("VariableIndices() = %v, want %v", gotVars, tt.wantVars)
			}
			for i := range gotVars {
				if gotVars[i] != tt.wantVars[i] {
					t.Errorf("VariableIndices()[%d] = %d, want %d", i, gotVars[i], tt.wantVars[i])
				}
			}

			if got := CountVariables(positions); got != len(tt.wantVars) {
				t.Errorf("CountVariables() = %d, want %d", got, len(tt.wantVars))
			}
		})
	}
}

func TestParseKeepsLiteralBytes(t *testing.T) {
	positions, err := Parse("p@ss", '@')
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !positions[0].IsLiteral || positions[0].Char != 'p' {
		t.Errorf("positions[0] = %+v, want literal 'p'", positions[0])
	}
	if positions[1].IsLiteral {
		t.Errorf("positions[1] = %+v, want variable", positions[1])
	}
}

func TestKeyspace(t *testing.T) {
	tests := []struct {
		name        string
		template    string
		charsetSize uint64
		want        uint64
	}{
		{name: "no variables is single candidate", template: "exact", charsetSize: 26, want: 1},
		{name: "two variables", template: "ab@@", charsetSize: 10, want: 100},
		{name: "three variables", template: "@@@", charsetSize: 26, want: 17576},
		{name: "saturates", template: "@@@@@@@@@@@@@@@@", charsetSize: 100000, want: keyspace.MaxCardinality},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positions, err := Parse(tt.template, '@')
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := Keyspace(positions, tt.charsetSize); got != tt.want {
				t.Errorf("Keyspace() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScaffold(t *testing.T) {
	positions, err := Parse("ab@d@", '@')
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	buf := Scaffold(positions)
	if len(buf) != 5 {
		t.Fatalf("Scaffold() length = %d, want 5", len(buf))
	}
	if buf[0] != 'a' || buf[1] != 'b' || buf[3] != 'd' {
		t.Errorf("Scaffold() = %q, want literals at 0,1,3", buf)
	}
	if buf[2] != 0 || buf[4] != 0 {
		t.Errorf("Scaffold() = %q, want zeroed variable slots", buf)
	}
}
