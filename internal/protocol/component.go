package protocol

import (
	"encoding/json"
	"fmt"
)

// Kind is the discriminant of a component's variant.
type Kind int

const (
	KindUnknown Kind = iota
	KindColumn
	KindRow
	KindCard
	KindText
	KindTextField
	KindButton
)

var kindNames = []string{
	KindUnknown:   "Unknown",
	KindColumn:    "Column",
	KindRow:       "Row",
	KindCard:      "Card",
	KindText:      "Text",
	KindTextField: "TextField",
	KindButton:    "Button",
}

// wireKinds lists the variant keys accepted on the wire, in a stable order.
var wireKinds = []Kind{KindColumn, KindRow, KindCard, KindText, KindTextField, KindButton}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// Variant is the sealed set of component shapes. A Component holds at most one.
type Variant interface {
	Kind() Kind
	isVariant()
}

// Column stacks children vertically.
type Column struct {
	Children []string `json:"children"`
}

// Row lays children out horizontally.
type Row struct {
	Children []string `json:"children"`
}

// Card wraps a single child.
type Card struct {
	Child string `json:"child"`
}

// Text displays a literal or a bound value. A non-empty literal wins.
type Text struct {
	Text        *string      `json:"text,omitempty"`
	DataBinding *DataBinding `json:"dataBinding,omitempty"`
}

// TextField is an editable, optionally bound input.
type TextField struct {
	Label       *string      `json:"label,omitempty"`
	Placeholder *string      `json:"placeholder,omitempty"`
	DataBinding *DataBinding `json:"dataBinding,omitempty"`
}

// Button triggers its action when activated.
type Button struct {
	Text   string `json:"text"`
	Action Action `json:"action"`
}

func (Column) Kind() Kind    { return KindColumn }
func (Row) Kind() Kind       { return KindRow }
func (Card) Kind() Kind      { return KindCard }
func (Text) Kind() Kind      { return KindText }
func (TextField) Kind() Kind { return KindTextField }
func (Button) Kind() Kind    { return KindButton }

func (Column) isVariant()    {}
func (Row) isVariant()       {}
func (Card) isVariant()      {}
func (Text) isVariant()      {}
func (TextField) isVariant() {}
func (Button) isVariant()    {}

// Literal returns the literal text when it is set and non-empty.
func (t Text) Literal() (string, bool) {
	if t.Text == nil || *t.Text == "" {
		return "", false
	}
	return *t.Text, true
}

// BindingPath returns the bound path, if any.
func (t Text) BindingPath() *string {
	return bindingPath(t.DataBinding)
}

// BindingPath returns the bound path, if any.
func (f TextField) BindingPath() *string {
	return bindingPath(f.DataBinding)
}

func bindingPath(b *DataBinding) *string {
	if b == nil || b.Path == "" {
		return nil
	}
	path := b.Path
	return &path
}

// Component is a registry entry: an id plus exactly one variant (or none, when
// the server sent a shape this client does not know).
type Component struct {
	ID      string
	Variant Variant
}

// Kind reports the variant discriminant.
func (c Component) Kind() Kind {
	if c.Variant == nil {
		return KindUnknown
	}
	return c.Variant.Kind()
}

// UnmarshalJSON decodes {"id": ..., "<Variant>": {...}}. More than one variant
// key is rejected; unknown keys are ignored.
func (c *Component) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Component
	if idRaw, ok := raw["id"]; ok {
		if err := json.Unmarshal(idRaw, &out.ID); err != nil {
			return fmt.Errorf("component id: %w", err)
		}
	}
	for _, kind := range wireKinds {
		body, ok := raw[kind.String()]
		if !ok {
			continue
		}
		if out.Variant != nil {
			return fmt.Errorf("component %q declares both %s and %s", out.ID, out.Variant.Kind(), kind)
		}
		v, err := decodeVariant(kind, body)
		if err != nil {
			return fmt.Errorf("component %q %s: %w", out.ID, kind, err)
		}
		out.Variant = v
	}
	*c = out
	return nil
}

func decodeVariant(kind Kind, body json.RawMessage) (Variant, error) {
	switch kind {
	case KindColumn:
		var v Column
		err := json.Unmarshal(body, &v)
		return v, err
	case KindRow:
		var v Row
		err := json.Unmarshal(body, &v)
		return v, err
	case KindCard:
		var v Card
		err := json.Unmarshal(body, &v)
		return v, err
	case KindText:
		var v Text
		err := json.Unmarshal(body, &v)
		return v, err
	case KindTextField:
		var v TextField
		err := json.Unmarshal(body, &v)
		return v, err
	case KindButton:
		var v Button
		err := json.Unmarshal(body, &v)
		return v, err
	}
	return nil, fmt.Errorf("unsupported kind %s", kind)
}

// MarshalJSON writes the component back in wire shape.
func (c Component) MarshalJSON() ([]byte, error) {
	out := map[string]any{"id": c.ID}
	if c.Variant != nil {
		out[c.Variant.Kind().String()] = c.Variant
	}
	return json.Marshal(out)
}
