// Package binding resolves data binding paths against the form overlay and the
// server data model.
package binding

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Source is the read side of the surface store.
type Source interface {
	OverlayValue(path string) (any, bool)
	DataValue(path string) (any, bool)
}

// Resolver looks up overlay values first, then the data model.
type Resolver struct {
	source Source
}

func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the bound value, or "" when the path is nil or unbound.
func (r *Resolver) Resolve(path *string) any {
	if path == nil || r == nil || r.source == nil {
		return ""
	}
	if v, ok := r.source.OverlayValue(*path); ok {
		return v
	}
	if v, ok := r.source.DataValue(*path); ok {
		return v
	}
	return ""
}

// ResolveString resolves path and formats the result for display.
func (r *Resolver) ResolveString(path *string) string {
	return Display(r.Resolve(path))
}

// Display formats a data model value the way the surface shows it.
func Display(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}
