package format

import "testing"

func TestComma(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{100, "100"},
		{2300, "2,300"},
		{1234567, "1,234,567"},
		{999999999999, "999,999,999,999"},
	}
	for _, tc := range cases {
		if got := Comma(tc.in); got != tc.want {
			t.Errorf("Comma(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestYen(t *testing.T) {
	if got := Yen(2300); got != "¥2,300" {
		t.Errorf("Yen(2300) = %q", got)
	}
}

func TestCapitalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"apple", "Apple"},
		{"KIWI", "Kiwi"},
		{"dragon fruit", "Dragon fruit"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Capitalize(tc.in); got != tc.want {
			t.Errorf("Capitalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
