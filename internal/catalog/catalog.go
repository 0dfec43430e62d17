package catalog

import (
	"fmt"
	"strings"
)

// Catalog is an immutable, validated set of tools indexed by id.
type Catalog struct {
	tools []Tool
	index map[string]int
}

// New validates tools and builds a catalog. It fails on the first duplicate id
// (*DuplicateToolIDError) or malformed entry (*InvalidToolDefinitionError).
// The tools are copied; later changes to the arguments do not affect the catalog.
func New(tools ...Tool) (*Catalog, error) {
	c := &Catalog{
		tools: make([]Tool, 0, len(tools)),
		index: make(map[string]int, len(tools)),
	}
	for _, t := range tools {
		if err := ValidateTool(t); err != nil {
			return nil, err
		}
		if _, exists := c.index[t.ID]; exists {
			return nil, &DuplicateToolIDError{ID: t.ID}
		}
		c.index[t.ID] = len(c.tools)
		c.tools = append(c.tools, t.clone())
	}
	return c, nil
}

// MustNew is like New but panics on error. Use it for catalogs compiled into
// the binary, where a bad entry is a programming error.
func MustNew(tools ...Tool) *Catalog {
	c, err := New(tools...)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Lookup returns the tool with the given id.
func (c *Catalog) Lookup(id string) (Tool, error) {
	i, ok := c.index[id]
	if !ok {
		return Tool{}, &UnknownToolError{ID: id}
	}
	return c.tools[i].clone(), nil
}

// All returns every tool in registration order.
func (c *Catalog) All() []Tool {
	out := make([]Tool, len(c.tools))
	for i, t := range c.tools {
		out[i] = t.clone()
	}
	return out
}

// Len returns the number of tools.
func (c *Catalog) Len() int {
	return len(c.tools)
}

// ValidateTool checks a single tool entry against the catalog invariants:
// a supported method, a rooted path, well-formed kinds and placements, unique
// parameter names, and a one-to-one match between {name} placeholders and
// required path parameters.
func ValidateTool(t Tool) error {
	invalid := func(param, format string, args ...any) error {
		return &InvalidToolDefinitionError{Tool: t.ID, Param: param, Reason: fmt.Sprintf(format, args...)}
	}

	if t.ID == "" {
		return invalid("", "empty id")
	}
	if strings.ContainsAny(t.ID, " \t\r\n") {
		return invalid("", "id contains whitespace")
	}
	if !allowedMethods[t.Method] {
		return invalid("", "unsupported method %q", t.Method)
	}
	if !strings.HasPrefix(t.Path, "/") {
		return invalid("", "path %q must start with /", t.Path)
	}
	if strings.Contains(t.Path, "..") {
		return invalid("", "path %q contains ..", t.Path)
	}

	placeholders, err := parsePlaceholders(t.Path)
	if err != nil {
		return invalid("", "%v", err)
	}

	seen := make(map[string]bool, len(t.Params))
	for _, p := range t.Params {
		if p.Name == "" {
			return invalid("", "parameter with empty name")
		}
		if seen[p.Name] {
			return invalid(p.Name, "declared more than once")
		}
		seen[p.Name] = true
		if !p.Kind.Valid() {
			return invalid(p.Name, "unknown kind %q", p.Kind)
		}
		if !p.In.Valid() {
			return invalid(p.Name, "missing or unknown placement")
		}
		if p.In == InPath {
			if !placeholders[p.Name] {
				return invalid(p.Name, "path parameter has no {%s} placeholder in %q", p.Name, t.Path)
			}
			if !p.Required {
				return invalid(p.Name, "path parameter must be required")
			}
			if p.Kind == KindJSONObject {
				return invalid(p.Name, "path parameter cannot be %s", KindJSONObject)
			}
		}
	}

	for name := range placeholders {
		p, ok := t.Param(name)
		if !ok || p.In != InPath {
			return invalid(name, "placeholder {%s} has no matching path parameter", name)
		}
	}
	return nil
}

// parsePlaceholders returns the set of {name} placeholders in a path template.
func parsePlaceholders(path string) (map[string]bool, error) {
	names := make(map[string]bool)
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '}':
			return nil, fmt.Errorf("unbalanced } at offset %d in %q", i, path)
		case '{':
			end := strings.IndexAny(path[i+1:], "{}")
			if end < 0 || path[i+1+end] != '}' {
				return nil, fmt.Errorf("unterminated placeholder at offset %d in %q", i, path)
			}
			name := path[i+1 : i+1+end]
			if name == "" {
				return nil, fmt.Errorf("empty placeholder at offset %d in %q", i, path)
			}
			names[name] = true
			i += end + 1
		}
	}
	return names, nil
}
