package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"national number gets country prefix", "9876543210", "+919876543210"},
		{"already E.164 passes through", "+919876543210", "+919876543210"},
		{"foreign prefix is preserved", "+31612345678", "+31612345678"},
		{"whitespace is trimmed", "  9876543210 ", "+919876543210"},
		{"garbage returned as entered", "not-a-number", "not-a-number"},
		{"too short returned as entered", "12345", "12345"},
		{"empty stays empty", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input); got != tc.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	if !Valid("9876543210") {
		t.Error("a ten digit mobile number should be dialable")
	}
	if Valid("12345") {
		t.Error("a five digit string should not be dialable")
	}
	if Valid("") {
		t.Error("empty input should not be dialable")
	}
}
