// Package catalog holds the declarative tool catalog and derives concrete
// HTTP request descriptors from it.
//
// A Tool describes one backend operation: its method, a path template with
// {name} placeholders, and an ordered parameter list. Each parameter is placed
// in exactly one of the path, the query string, or the body. Catalogs are
// validated once at construction and are read-only afterwards, so a *Catalog
// may be shared between goroutines without locking.
package catalog

import (
	"fmt"
	"strings"
)

// Kind is the value shape a parameter accepts.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	// KindJSONObject is a JSON-encoded object passed as a string. A tool whose
	// only body parameter has this kind sends the decoded object as its body.
	KindJSONObject Kind = "json-object-string"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindString, KindNumber, KindBoolean, KindJSONObject:
		return true
	}
	return false
}

// Placement says where a parameter goes in the request. The zero value is
// invalid so an unset placement is caught at catalog construction.
type Placement uint8

const (
	InPath Placement = iota + 1
	InQuery
	InBody
)

var placementNames = map[Placement]string{
	InPath:  "path",
	InQuery: "query",
	InBody:  "body",
}

// String returns "path", "query" or "body".
func (p Placement) String() string {
	if s, ok := placementNames[p]; ok {
		return s
	}
	return fmt.Sprintf("placement(%d)", uint8(p))
}

// Valid reports whether p is one of InPath, InQuery or InBody.
func (p Placement) Valid() bool {
	_, ok := placementNames[p]
	return ok
}

// MarshalText encodes the placement by name.
func (p Placement) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid placement %d", uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes "path", "query" or "body".
func (p *Placement) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for k, name := range placementNames {
		if name == s {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("unknown placement %q (want path, query or body)", s)
}

// Param describes one tool parameter.
type Param struct {
	Name        string    `json:"name" toml:"name"`
	Kind        Kind      `json:"kind" toml:"kind"`
	Required    bool      `json:"required" toml:"required"`
	In          Placement `json:"in" toml:"in"`
	Description string    `json:"description,omitempty" toml:"description"`
}

// Tool describes one backend operation.
type Tool struct {
	ID          string  `json:"id" toml:"id"`
	Label       string  `json:"label" toml:"label"`
	Method      string  `json:"method" toml:"method"`
	Path        string  `json:"path" toml:"path"`
	Params      []Param `json:"params" toml:"params"`
	Description string  `json:"description,omitempty" toml:"description"`
}

// ParamsIn returns the tool's parameters with the given placement, in declared order.
func (t Tool) ParamsIn(in Placement) []Param {
	var out []Param
	for _, p := range t.Params {
		if p.In == in {
			out = append(out, p)
		}
	}
	return out
}

// Param returns the named parameter.
func (t Tool) Param(name string) (Param, bool) {
	for _, p := range t.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// clone returns a deep copy so callers cannot mutate catalog state.
func (t Tool) clone() Tool {
	c := t
	c.Params = append([]Param(nil), t.Params...)
	return c
}

// allowedMethods is the whitelist of HTTP methods for catalog tools.
var allowedMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
}
