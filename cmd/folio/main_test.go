package main

import (
	"bufio"
	"strings"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestReadSecret_Stdin(t *testing.T) {
	orig := stdinReader
	t.Cleanup(func() { stdinReader = orig })

	stdinReader = bufio.NewReader(strings.NewReader("secret1\r\nsecond\nlast"))

	for _, want := range []string{"secret1", "second", "last"} {
		got, err := readSecret("", true)
		if err != nil {
			t.Fatalf("readSecret() error = %v", err)
		}
		if got != want {
			t.Errorf("readSecret() = %q, want %q", got, want)
		}
	}

	if _, err := readSecret("", true); err == nil {
		t.Error("readSecret() at EOF expected error")
	}
}

func TestReadNewSecret_Stdin(t *testing.T) {
	orig := stdinReader
	t.Cleanup(func() { stdinReader = orig })
	stdinReader = bufio.NewReader(strings.NewReader("secret1\n"))

	secret, confirm, err := readNewSecret("", true)
	if err != nil {
		t.Fatalf("readNewSecret() error = %v", err)
	}
	if secret != "secret1" || confirm != "secret1" {
		t.Errorf("readNewSecret() = %q, %q", secret, confirm)
	}
}
