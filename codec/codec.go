// Package codec encodes grid snapshot headers and CLI reports.
//
// A snapshot records the name of the codec that wrote its header and is read
// back with the codec of that name, so names are part of the snapshot format.
package codec

import "slices"

// Codec marshals values for one named encoding. Implementations must be safe
// for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Indenter is implemented by codecs that can pretty print.
type Indenter interface {
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
}

// Default writes new snapshot headers and CLI reports.
var Default Codec = GoJSON{}

var builtin = map[string]Codec{
	JSON{}.Name():   JSON{},
	GoJSON{}.Name(): GoJSON{},
}

// ByName returns the built-in codec recorded under name in a snapshot.
func ByName(name string) (Codec, bool) {
	c, ok := builtin[name]
	return c, ok
}

// Names lists the built-in codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Indent encodes a report with two space indentation. A nil codec means
// Default; codecs without MarshalIndent produce compact output.
func Indent(c Codec, v any) ([]byte, error) {
	if c == nil {
		c = Default
	}
	if in, ok := c.(Indenter); ok {
		return in.MarshalIndent(v, "", "  ")
	}
	return c.Marshal(v)
}
