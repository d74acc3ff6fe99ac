package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okian/trackmeet/internal/domain/errs"
	"gopkg.in/yaml.v3"
)

// RelayMarker identifies relay events by name.
const RelayMarker = "4x"

// IsRelay reports whether an event name denotes a relay.
func IsRelay(name string) bool {
	return strings.Contains(name, RelayMarker)
}

// Event is one entry of the event pool.
type Event struct {
	Name    string `json:"name" yaml:"name"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// Category groups events for display. Grouping has no effect on generation.
type Category struct {
	Name   string
	Events []Event
}

// EventPool is the ordered catalog of categories. It serializes as an
// object keyed by category name, keeping category order.
type EventPool []Category

// Enabled returns every enabled event name in category order. Repeated
// names are kept once.
func (p EventPool) Enabled() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range p {
		for _, e := range c.Events {
			if !e.Enabled {
				continue
			}
			if _, dup := seen[e.Name]; dup {
				continue
			}
			seen[e.Name] = struct{}{}
			out = append(out, e.Name)
		}
	}
	return out
}

// Partition splits the enabled names into relays and everything else.
func (p EventPool) Partition() (relays, others []string) {
	for _, name := range p.Enabled() {
		if IsRelay(name) {
			relays = append(relays, name)
		} else {
			others = append(others, name)
		}
	}
	return relays, others
}

// SetEnabled toggles every event called name. It reports whether one was found.
func (p EventPool) SetEnabled(name string, enabled bool) bool {
	found := false
	for ci := range p {
		for ei := range p[ci].Events {
			if p[ci].Events[ei].Name == name {
				p[ci].Events[ei].Enabled = enabled
				found = true
			}
		}
	}
	return found
}

// Clone deep-copies the pool.
func (p EventPool) Clone() EventPool {
	if p == nil {
		return nil
	}
	out := make(EventPool, len(p))
	for i, c := range p {
		out[i] = Category{Name: c.Name, Events: append([]Event(nil), c.Events...)}
	}
	return out
}

// MarshalJSON writes {"category": [events...], ...} in pool order.
func (p EventPool) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		events := c.Events
		if events == nil {
			events = []Event{}
		}
		val, err := json.Marshal(events)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form, preserving key order.
func (p *EventPool) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("event pool: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("event pool: expected object, got %v", tok)
	}
	var out EventPool
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("event pool: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("event pool: expected category name, got %v", tok)
		}
		var events []Event
		if err := dec.Decode(&events); err != nil {
			return fmt.Errorf("event pool: category %q: %w", name, err)
		}
		out = append(out, Category{Name: name, Events: events})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("event pool: %w", err)
	}
	*p = out
	return nil
}

// MarshalYAML writes a mapping node in pool order.
func (p EventPool) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range p {
		var val yaml.Node
		events := c.Events
		if events == nil {
			events = []Event{}
		}
		if err := val.Encode(events); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Name},
			&val,
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping of category -> events, preserving order.
func (p *EventPool) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("event pool: line %d: expected mapping", value.Line)
	}
	var out EventPool
	for i := 0; i+1 < len(value.Content); i += 2 {
		var events []Event
		if err := value.Content[i+1].Decode(&events); err != nil {
			return fmt.Errorf("event pool: category %q: %w", value.Content[i].Value, err)
		}
		out = append(out, Category{Name: value.Content[i].Value, Events: events})
	}
	*p = out
	return nil
}

// Validate requires named, distinct categories and named events.
func (p EventPool) Validate() error {
	const op = "model.validate_pool"
	if len(p) == 0 {
		return errs.Newf(op, errs.ErrInvalidEventPool, "event pool has no categories")
	}
	seen := make(map[string]struct{}, len(p))
	for _, c := range p {
		if strings.TrimSpace(c.Name) == "" {
			return errs.Newf(op, errs.ErrInvalidEventPool, "event pool has an unnamed category")
		}
		if _, dup := seen[c.Name]; dup {
			return errs.Newf(op, errs.ErrInvalidEventPool, "category %q appears twice", c.Name)
		}
		seen[c.Name] = struct{}{}
		for _, e := range c.Events {
			if strings.TrimSpace(e.Name) == "" {
				return errs.Newf(op, errs.ErrInvalidEventPool, "category %q has an unnamed event", c.Name)
			}
		}
	}
	return nil
}
