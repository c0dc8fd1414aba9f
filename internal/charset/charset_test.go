package charset

import (
	"errors"
	"strings"
	"testing"

	"github.com/ZerkerEOD/p12crack/internal/errs"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		selectors string
		custom    string
		want      string
		wantErr   bool
	}{
		{
			name: "empty defaults to lowercase",
			want: Lower,
		},
		{
			name:      "lowercase selector",
			selectors: "a",
			want:      Lower,
		},
		{
			name:      "uppercase selector",
			selectors: "A",
			want:      Upper,
		},
		{
			name:      "digit selector",
			selectors: "n",
			want:      Digits,
		},
		{
			name:      "special selector",
			selectors: "s",
			want:      Special,
		},
		{
			name:      "all classes",
			selectors: "x",
			want:      Lower + Upper + Digits + Special,
		},
		{
			name:      "combined selectors keep order",
			selectors: "nA",
			want:      Digits + Upper,
		},
		{
			name:   "custom only skips lowercase default",
			custom: "abc123",
			want:   "abc123",
		},
		{
			name:      "custom appended after selectors",
			selectors: "n",
			custom:    "xy",
			want:      Digits + "xy",
		},
		{
			name:      "duplicates collapse to first occurrence",
			selectors: "aa",
			want:      Lower,
		},
		{
			name:      "custom overlapping a class collapses",
			selectors: "n",
			custom:    "90!",
			want:      Digits + "!",
		},
		{
			name:      "x with redundant selectors",
			selectors: "xa",
			want:      Lower + Upper + Digits + Special,
		},
		{
			name:      "unknown selector rejected",
			selectors: "az",
			wantErr:   true,
		},
		{
			name:      "uppercase variant of valid selector rejected",
			selectors: "N",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(tt.selectors, tt.custom)
			if (err != nil) != tt.wantErr {
				t.Errorf("Build() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, errs.ErrConfiguration) {
					t.Errorf("Build() error class = %v, want ErrConfiguration", err)
				}
				return
			}
			if string(got) != tt.want {
				t.Errorf("Build(%q, %q) = %q, want %q", tt.selectors, tt.custom, got, tt.want)
			}
		})
	}
}

func TestSpecialIncludesSpace(t *testing.T) {
	if !strings.HasSuffix(Special, " ") {
		t.Error("Special should end with a space character")
	}
	if !strings.ContainsRune(Special, '\\') {
		t.Error("Special should contain a backslash")
	}
}

func TestClassSizes(t *testing.T) {
	if len(Lower) != 26 || len(Upper) != 26 {
		t.Errorf("letter classes = %d/%d characters, want 26/26", len(Lower), len(Upper))
	}
	if len(Digits) != 10 {
		t.Errorf("Digits = %d characters, want 10", len(Digits))
	}

	all, err := Build("x", "")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if want := 26 + 26 + 10 + len(Special); len(all) != want {
		t.Errorf("full charset = %d characters, want %d", len(all), want)
	}
}
