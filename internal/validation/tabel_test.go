package validation

import "testing"

func TestIsValidTabelNumber(t *testing.T) {
	tests := []struct {
		name  string
		tabel string
		want  bool
	}{
		{name: "valid short", tabel: "42", want: true},
		{name: "valid long", tabel: "0012345", want: true},
		{name: "too short", tabel: "1", want: false},
		{name: "empty", tabel: "", want: false},
		{name: "letters", tabel: "ab", want: false},
		{name: "mixed", tabel: "12a4", want: false},
		{name: "spaces", tabel: "1 2", want: false},
		{name: "negative sign", tabel: "-12", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidTabelNumber(tt.tabel); got != tt.want {
				t.Errorf("IsValidTabelNumber(%q) = %v, want %v", tt.tabel, got, tt.want)
			}
		})
	}
}
