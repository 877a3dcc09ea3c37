package bridge

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{450, "$450"},
		{-450, "$-450"},
		{999.6, "$1000"},
		{1000, "$1000"},
		{1000.4, "$1000"},
		{1001, "$1K"},
		{1499, "$1K"},
		{1500, "$2K"},
		{4800, "$5K"},
		{-1500, "$-1K"},
		{-2500, "$-2K"},
		{2.5, "$3"},
		{-2.5, "$-2"},
		{-0.4, "$0"},
		{1234567, "$1235K"},
	}

	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatterCustom(t *testing.T) {
	f := Formatter{Prefix: "€"}
	if got := f.Format(2500); got != "€3" {
		t.Errorf("Format(2500) = %q, want %q", got, "€3")
	}
	f.Thousand = "k"
	if got := f.Format(2500); got != "€3k" {
		t.Errorf("Format(2500) = %q, want %q", got, "€3k")
	}
}
