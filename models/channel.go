package models

import (
	"encoding/json"
	"strings"
)

// ChannelKind discriminates the two stored channel representations
type ChannelKind int

const (
	// ChannelEmpty means no channel is configured
	ChannelEmpty ChannelKind = iota
	// ChannelRaw is a bare routable identifier stored as-is
	ChannelRaw
	// ChannelStructured is a serialized record carrying a unique name
	// and/or a display name
	ChannelStructured
)

// Channel is the tagged value behind the channel column. The column holds
// either a bare identifier or a JSON record; ParseChannel inspects the
// stored string exactly once so downstream code never re-examines shape.
type Channel struct {
	Kind        ChannelKind
	Raw         string
	UniqueName  string
	DisplayName string
}

// structuredChannel is the wire shape of the serialized record variant
type structuredChannel struct {
	UniqueName  string `json:"unique_name"`
	DisplayName string `json:"name"`
}

// displayPrefix is stripped once from the front of a display name
const displayPrefix = "#"

// ParseChannel converts a stored channel value into a Channel. Values that
// do not start with '{' are bare identifiers. Values that look like a JSON
// record but fail to parse come back as ChannelEmpty: callers treat
// malformed data identically to "no channel configured".
func ParseChannel(stored string) Channel {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return Channel{Kind: ChannelEmpty}
	}
	if !strings.HasPrefix(stored, "{") {
		return Channel{Kind: ChannelRaw, Raw: stored}
	}

	var rec structuredChannel
	if err := json.Unmarshal([]byte(stored), &rec); err != nil {
		return Channel{Kind: ChannelEmpty}
	}
	if rec.UniqueName == "" && rec.DisplayName == "" {
		return Channel{Kind: ChannelEmpty}
	}
	return Channel{
		Kind:        ChannelStructured,
		UniqueName:  rec.UniqueName,
		DisplayName: rec.DisplayName,
	}
}

// Identifier returns the canonical routable channel identifier, or "" when
// the channel is empty or unusable. It never fails: an unresolvable value
// means "skip delivery", not an error.
func (c Channel) Identifier() string {
	switch c.Kind {
	case ChannelRaw:
		return c.Raw
	case ChannelStructured:
		if c.UniqueName != "" {
			return c.UniqueName
		}
		return strings.TrimPrefix(c.DisplayName, displayPrefix)
	default:
		return ""
	}
}

// IsEmpty reports whether the channel resolves to no destination.
func (c Channel) IsEmpty() bool {
	return c.Identifier() == ""
}

// StoredValue returns the representation persisted in the channel column.
func (c Channel) StoredValue() string {
	switch c.Kind {
	case ChannelRaw:
		return c.Raw
	case ChannelStructured:
		b, err := json.Marshal(structuredChannel{
			UniqueName:  c.UniqueName,
			DisplayName: c.DisplayName,
		})
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return ""
	}
}

// MarshalJSON encodes the channel as its canonical identifier.
func (c Channel) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Identifier())
}

// UnmarshalJSON decodes a channel from a stored string value.
func (c *Channel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseChannel(s)
	return nil
}

// NormalizeChannel converts a stored channel value straight to its canonical
// identifier. Empty result means no usable channel; it never panics or
// returns an error regardless of input.
func NormalizeChannel(stored string) string {
	return ParseChannel(stored).Identifier()
}
