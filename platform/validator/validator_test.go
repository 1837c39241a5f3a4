package validator

import "testing"

func TestIsEmail(t *testing.T) {
	val := New()
	cases := map[string]bool{
		"jane@example.com":   true,
		" jane@example.com ": true,
		"jane.doe+x@mail.ae": true,
		"jane@":              false,
		"not-an-email":       false,
		"":                   false,
	}
	for input, want := range cases {
		if got := val.IsEmail(input); got != want {
			t.Errorf("IsEmail(%q) = %v, want %v", input, got, want)
		}
	}
}
