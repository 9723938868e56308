package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestSecretRedactsFormatting(t *testing.T) {
	secret := NewSecret("a1b2c3d4e5f6")

	tests := []struct {
		format string
		want   string
	}{
		{"%v", "[REDACTED]"},
		{"%s", "[REDACTED]"},
		{"%+v", "[REDACTED]"},
		{"%#v", "core.Secret{[REDACTED]}"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got := fmt.Sprintf(tt.format, secret)
			if got != tt.want {
				t.Errorf("fmt.Sprintf(%q, secret) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestSecretInStructPrinting(t *testing.T) {
	type settings struct {
		BaseURL string
		APIKey  Secret
	}
	cfg := settings{BaseURL: "https://api.synthesia.io/v2", APIKey: NewSecret("a1b2c3d4e5f6")}

	for _, format := range []string{"%v", "%+v", "%#v"} {
		got := fmt.Sprintf(format, cfg)
		if strings.Contains(got, "a1b2c3d4e5f6") {
			t.Errorf("fmt.Sprintf(%q, cfg) exposed the secret: %s", format, got)
		}
		if !strings.Contains(got, "REDACTED") {
			t.Errorf("fmt.Sprintf(%q, cfg) = %s, should contain REDACTED", format, got)
		}
	}
}

func TestSecretMarshalers(t *testing.T) {
	type settings struct {
		Name   string `json:"name"`
		APIKey Secret `json:"api_key"`
	}

	data, err := json.Marshal(settings{Name: "prod", APIKey: NewSecret("a1b2c3d4e5f6")})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if want := `{"name":"prod","api_key":"[REDACTED]"}`; string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}

	text, err := NewSecret("x").MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(text) != "[REDACTED]" {
		t.Errorf("MarshalText() = %s, want [REDACTED]", text)
	}
}

func TestSecretMasked(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"", "****"},
		{"abcd", "****"},
		{"abcde", "****bcde"},
		{"8f3c0000e1a9", "****e1a9"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := NewSecret(tt.value).Masked(); got != tt.want {
				t.Errorf("Masked() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSecretExposeAndIsEmpty(t *testing.T) {
	if got := NewSecret("key").Expose(); got != "key" {
		t.Errorf("Expose() = %q, want key", got)
	}
	if !NewSecret("").IsEmpty() {
		t.Error("IsEmpty() = false for empty secret")
	}
	if NewSecret("  ").IsEmpty() {
		t.Error("IsEmpty() = true for whitespace secret")
	}
}
