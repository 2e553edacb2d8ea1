package wca

import "testing"

func TestFormatClock(t *testing.T) {
	cases := []struct {
		cs   int
		want string
	}{
		{999, "9.99"},
		{1000, "10.00"},
		{5999, "59.99"},
		{6000, "1:00.00"},
		{6789, "1:07.89"},
		{61234, "10:12.34"},
		{DNF, "DNF"},
		{-1, "DNF"},
	}
	for _, c := range cases {
		if got := FormatClock(c.cs); got != c.want {
			t.Fatalf("FormatClock(%d) = %q want %q", c.cs, got, c.want)
		}
	}
}

func TestFormatMoves(t *testing.T) {
	cases := []struct {
		v    int
		want string
	}{
		{2400, "24"},
		{2433, "24.33"},
		{2467, "24.67"},
		{DNF, "DNF"},
	}
	for _, c := range cases {
		if got := FormatMoves(c.v); got != c.want {
			t.Fatalf("FormatMoves(%d) = %q want %q", c.v, got, c.want)
		}
	}
}
