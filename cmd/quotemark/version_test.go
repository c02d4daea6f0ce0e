package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestVersionGetters tests that every getter has a usable fallback even
// without ldflags.
func TestVersionGetters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  func() string
	}{
		{name: "version", got: getVersion},
		{name: "commit", got: getCommit},
		{name: "date", got: getDate},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got() == "" {
				t.Errorf("%s getter returned empty string", tt.name)
			}
		})
	}
}

func TestShortCommit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rev  string
		want string
	}{
		{name: "full hash is trimmed", rev: "0123456789abcdef0123456789abcdef01234567", want: "0123456"},
		{name: "short value passes through", rev: "abc123", want: "abc123"},
		{name: "empty passes through", rev: "", want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := shortCommit(tt.rev); got != tt.want {
				t.Errorf("shortCommit(%q) = %q, want %q", tt.rev, got, tt.want)
			}
		})
	}
}

func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()

	t.Run("command has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "version" {
			t.Errorf("expected Use to be 'version', got %q", cmd.Use)
		}
	})

	t.Run("command has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected Short to be non-empty")
		}
	})

	t.Run("command outputs version info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewVersionCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{})

		err := cmd.Execute()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"quotemark", "commit:", "built:"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got %q", want, output)
			}
		}
	})
}
