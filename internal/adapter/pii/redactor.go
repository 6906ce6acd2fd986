package pii

import (
	"encoding/json"
	"log/slog"
	"strings"
)

const RedactedPlaceholder = "[REDACTED]"

// Redactor masks personal fields in JSON documents before they are logged.
type Redactor struct {
	fieldsToRedact map[string]struct{}
	logger         *slog.Logger
}

// NewRedactor creates a Redactor for the given field names. Blank names are ignored.
func NewRedactor(fields []string, logger *slog.Logger) *Redactor {
	fieldSet := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		fieldSet[field] = struct{}{}
	}
	return &Redactor{
		fieldsToRedact: fieldSet,
		logger:         logger,
	}
}

// Redact returns doc with every configured field replaced by the
// placeholder, at any nesting depth. The bool reports whether anything was
// redacted; doc is returned unchanged when nothing matched.
func (r *Redactor) Redact(doc []byte) ([]byte, bool, error) {
	if len(r.fieldsToRedact) == 0 || len(doc) == 0 {
		return doc, false, nil
	}

	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		r.logger.Warn("failed to unmarshal document for PII redaction", "error", err)
		return nil, false, err
	}

	if !r.walk(v) {
		return doc, false, nil
	}

	out, err := json.Marshal(v)
	if err != nil {
		r.logger.Error("failed to marshal document after PII redaction", "error", err)
		return nil, false, err
	}
	return out, true, nil
}

func (r *Redactor) walk(v any) bool {
	redacted := false
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			if _, ok := r.fieldsToRedact[k]; ok {
				node[k] = RedactedPlaceholder
				redacted = true
				continue
			}
			if r.walk(child) {
				redacted = true
			}
		}
	case []any:
		for _, child := range node {
			if r.walk(child) {
				redacted = true
			}
		}
	}
	return redacted
}
