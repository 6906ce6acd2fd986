package pii

import (
	"encoding/json"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

func TestRedactor(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	redactor := NewRedactor([]string{"contact_email", " ", "phone"}, logger)

	tests := []struct {
		name           string
		input          string
		expected       string
		expectRedacted bool
		expectErr      bool
	}{
		{
			name:           "Redact nested field",
			input:          `{"title":"Launch","organizer_info":{"name":"Acme","contact_email":"ops@acme.test"}}`,
			expected:       `{"title":"Launch","organizer_info":{"name":"Acme","contact_email":"[REDACTED]"}}`,
			expectRedacted: true,
		},
		{
			name:           "Redact inside arrays",
			input:          `{"contacts":[{"phone":"555"},{"phone":"556","name":"x"}]}`,
			expected:       `{"contacts":[{"phone":"[REDACTED]"},{"name":"x","phone":"[REDACTED]"}]}`,
			expectRedacted: true,
		},
		{
			name:           "No fields to redact",
			input:          `{"title":"Launch","location":{"name":"HQ"}}`,
			expected:       `{"title":"Launch","location":{"name":"HQ"}}`,
			expectRedacted: false,
		},
		{
			name:      "Invalid JSON",
			input:     `{"contact_email": "x"`,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, redacted, err := redactor.Redact([]byte(tt.input))

			if (err != nil) != tt.expectErr {
				t.Fatalf("Redact() error = %v, wantErr %v", err, tt.expectErr)
			}
			if err != nil {
				return
			}
			if redacted != tt.expectRedacted {
				t.Errorf("redacted got = %v, want %v", redacted, tt.expectRedacted)
			}

			// Compare decoded values to avoid key order issues
			var want, got any
			if err := json.Unmarshal([]byte(tt.expected), &want); err != nil {
				t.Fatalf("failed to unmarshal expected: %v", err)
			}
			if err := json.Unmarshal(out, &got); err != nil {
				t.Fatalf("failed to unmarshal output: %v", err)
			}
			if !reflect.DeepEqual(want, got) {
				t.Errorf("document mismatch: got %s, want %s", out, tt.expected)
			}
		})
	}
}

func TestRedactor_NoFieldsConfigured(t *testing.T) {
	redactor := NewRedactor(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	in := []byte(`not even json`)

	out, redacted, err := redactor.Redact(in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if redacted {
		t.Error("expected nothing to be redacted")
	}
	if string(out) != string(in) {
		t.Errorf("expected input returned unchanged, got %q", out)
	}
}
