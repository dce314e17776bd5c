package models

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrorPayload is an API error body kept verbatim, e.g.
// {"detail": "..."} or {"name": ["This field may not be blank."]}.
type ErrorPayload map[string]any

// DetailPayload builds the single-message payload shape.
func DetailPayload(msg string) ErrorPayload {
	return ErrorPayload{"detail": msg}
}

// Message flattens the payload into one line for display.
func (p ErrorPayload) Message() string {
	if len(p) == 0 {
		return ""
	}
	if d, ok := p["detail"]; ok {
		return fmt.Sprint(d)
	}

	parts := make([]string, 0, len(p))
	for _, k := range slices.Sorted(maps.Keys(p)) {
		parts = append(parts, k+": "+flatten(p[k]))
	}
	return strings.Join(parts, "; ")
}

func flatten(v any) string {
	list, ok := v.([]any)
	if !ok {
		return fmt.Sprint(v)
	}
	items := make([]string, len(list))
	for i, item := range list {
		items[i] = fmt.Sprint(item)
	}
	return strings.Join(items, " ")
}
