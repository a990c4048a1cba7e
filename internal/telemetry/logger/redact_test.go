package logger

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestRedactSensitive_BearerValue(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.Info("request", "header", "Bearer eyJhbGciOiJIUzI1NiJ9.payload.sig123")

	entry := decodeEntry(t, &buf)
	if got := entry["header"]; got != "Bearer eyJ...123" {
		t.Errorf("header = %v, want masked bearer value", got)
	}
}

func TestRedactSensitive_SensitiveKeyName(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"password", "mysecret123"},
		{"new_password", "hunter2"},
		{"token", "abc"},
		{"Authorization", "Basic Zm9vOmJhcg=="},
		{"client_secret", "s3cr3t"},
		{"credential", "cred123"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var buf bytes.Buffer
			newJSONLogger(t, &buf).Info("test", tt.key, tt.value)

			entry := decodeEntry(t, &buf)
			if got := entry[tt.key]; got != redactedValue {
				t.Errorf("%s = %v, want %q", tt.key, got, redactedValue)
			}
		})
	}
}

func TestRedactSensitive_NormalValues(t *testing.T) {
	var buf bytes.Buffer
	newJSONLogger(t, &buf).Info("login", "user_id", "u-1", "username", "admin", "password", "")

	entry := decodeEntry(t, &buf)
	if entry["user_id"] != "u-1" || entry["username"] != "admin" {
		t.Errorf("public fields should not be redacted: %v", entry)
	}
	if entry["password"] != "" {
		t.Errorf("empty value should stay empty, got %v", entry["password"])
	}
}

func TestRedactSensitive_Group(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.Info("request", slog.Group("headers", "Authorization", "Bearer abcdefghij"))
	entry := decodeEntry(t, &buf)
	headers, ok := entry["headers"].(map[string]any)
	if !ok {
		t.Fatalf("headers group missing: %v", entry)
	}
	if got := headers["Authorization"]; got != "Bearer abc...hij" {
		t.Errorf("Authorization = %v", got)
	}
}

func TestRedactString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Bearer abcdefghijklmnop", "Bearer abc...nop"},
		{"Bearer abc", "Bearer ***"},
		{"bearer abcdefghijklmnop", "bearer abc...nop"},
		{"plain value", "plain value"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := RedactString(tt.input); got != tt.expected {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRedactToken(t *testing.T) {
	if got := RedactToken("abcdefghijkl"); got != "abc...jkl" {
		t.Errorf("RedactToken() = %q", got)
	}
	if got := RedactToken("short"); got != "***" {
		t.Errorf("RedactToken(short) = %q", got)
	}
	if got := RedactToken(""); got != "" {
		t.Errorf("RedactToken(empty) = %q", got)
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"password", true},
		{"PASSWORD", true},
		{"x_token", true},
		{"authorization", true},
		{"username", false},
		{"resource", false},
		{"author", false},
	}

	for _, tt := range tests {
		if got := IsSensitiveKey(tt.key); got != tt.want {
			t.Errorf("IsSensitiveKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestIsSensitiveValue(t *testing.T) {
	if !IsSensitiveValue("Bearer x") {
		t.Error("bearer value should be sensitive")
	}
	if IsSensitiveValue("req-01hx") {
		t.Error("request id should not be sensitive")
	}
}
