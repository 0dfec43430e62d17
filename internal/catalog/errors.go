package catalog

import "fmt"

// UnknownToolError is returned when a tool id is not in the catalog.
type UnknownToolError struct {
	ID string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.ID)
}

// DuplicateToolIDError is returned by New when two tools share an id.
type DuplicateToolIDError struct {
	ID string
}

func (e *DuplicateToolIDError) Error() string {
	return fmt.Sprintf("duplicate tool id %q", e.ID)
}

// InvalidToolDefinitionError reports a malformed catalog entry. Param is
// empty when the problem is with the tool itself rather than one parameter.
type InvalidToolDefinitionError struct {
	Tool   string
	Param  string
	Reason string
}

func (e *InvalidToolDefinitionError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("invalid tool %q: %s", e.Tool, e.Reason)
	}
	return fmt.Sprintf("invalid tool %q: parameter %q: %s", e.Tool, e.Param, e.Reason)
}

// MissingRequiredParameterError is returned when a required parameter has no value.
type MissingRequiredParameterError struct {
	Tool  string
	Param string
	In    Placement
}

func (e *MissingRequiredParameterError) Error() string {
	return fmt.Sprintf("tool %q: missing required %s parameter %q", e.Tool, e.In, e.Param)
}

// MalformedJSONBodyError is returned when a json-object-string value does not
// decode to a JSON object. Offset is the byte position of a syntax error, or
// -1 when the JSON was well formed but not an object.
type MalformedJSONBodyError struct {
	Tool   string
	Param  string
	Offset int64
	Err    error
}

func (e *MalformedJSONBodyError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("tool %q: parameter %q: malformed JSON at offset %d: %v", e.Tool, e.Param, e.Offset, e.Err)
	}
	return fmt.Sprintf("tool %q: parameter %q: malformed JSON: %v", e.Tool, e.Param, e.Err)
}

func (e *MalformedJSONBodyError) Unwrap() error { return e.Err }

// InvalidParameterTypeError is returned when a value does not fit its parameter's kind.
type InvalidParameterTypeError struct {
	Tool  string
	Param string
	Kind  Kind
	Value any
}

func (e *InvalidParameterTypeError) Error() string {
	return fmt.Sprintf("tool %q: parameter %q: %v (%T) is not a valid %s", e.Tool, e.Param, e.Value, e.Value, e.Kind)
}
