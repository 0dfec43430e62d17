package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Request is a transport-agnostic description of one HTTP call.
// URL is the resolved path plus query string, relative to the backend base URL.
// Body is nil when the request carries no body.
type Request struct {
	Method string `json:"method"`
	URL    string `json:"url"`
	Body   any    `json:"body,omitempty"`
}

// Build resolves tool id against the catalog and derives a request from values.
// Values are keyed by parameter name; a nil value counts as absent.
func (c *Catalog) Build(id string, values map[string]any) (Request, error) {
	t, err := c.Lookup(id)
	if err != nil {
		return Request{}, err
	}
	return BuildTool(t, values)
}

// BuildTool derives a request for an already-resolved tool. Errors are
// reported in a fixed order: path parameters, then query, then body.
func BuildTool(t Tool, values map[string]any) (Request, error) {
	path, err := resolvePath(t, values)
	if err != nil {
		return Request{}, err
	}

	query, err := buildQuery(t, values)
	if err != nil {
		return Request{}, err
	}
	if query != "" {
		path += "?" + query
	}

	body, err := buildBody(t, values)
	if err != nil {
		return Request{}, err
	}

	return Request{Method: t.Method, URL: path, Body: body}, nil
}

func lookupValue(values map[string]any, name string) (any, bool) {
	v, ok := values[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// resolvePath checks every path parameter before substituting any of them,
// so a missing value never produces a partial URL.
func resolvePath(t Tool, values map[string]any) (string, error) {
	params := t.ParamsIn(InPath)
	resolved := make(map[string]string, len(params))
	for _, p := range params {
		v, ok := lookupValue(values, p.Name)
		if !ok {
			return "", &MissingRequiredParameterError{Tool: t.ID, Param: p.Name, In: InPath}
		}
		s, err := scalarString(t, p, v)
		if err != nil {
			return "", err
		}
		resolved[p.Name] = s
	}

	path := t.Path
	for name, s := range resolved {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(s))
	}
	if i := strings.IndexByte(path, '{'); i >= 0 {
		return "", &InvalidToolDefinitionError{Tool: t.ID, Reason: fmt.Sprintf("unresolved placeholder at offset %d in %q", i, t.Path)}
	}
	return path, nil
}

// buildQuery encodes query parameters in declared order.
func buildQuery(t Tool, values map[string]any) (string, error) {
	var b strings.Builder
	for _, p := range t.ParamsIn(InQuery) {
		v, ok := lookupValue(values, p.Name)
		if !ok {
			if p.Required {
				return "", &MissingRequiredParameterError{Tool: t.ID, Param: p.Name, In: InQuery}
			}
			continue
		}
		var s string
		if p.Kind == KindJSONObject {
			obj, err := decodeJSONParam(t, p, v)
			if err != nil {
				return "", err
			}
			raw, err := json.Marshal(obj)
			if err != nil {
				return "", &MalformedJSONBodyError{Tool: t.ID, Param: p.Name, Offset: -1, Err: err}
			}
			s = string(raw)
		} else {
			var err error
			if s, err = scalarString(t, p, v); err != nil {
				return "", err
			}
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(s))
	}
	return b.String(), nil
}

// buildBody returns nil when the tool declares no body parameters. A single
// json-object-string parameter becomes the whole body; otherwise body
// parameters are collected into an object keyed by name.
func buildBody(t Tool, values map[string]any) (any, error) {
	params := t.ParamsIn(InBody)
	if len(params) == 0 {
		return nil, nil
	}

	if len(params) == 1 && params[0].Kind == KindJSONObject {
		p := params[0]
		v, ok := lookupValue(values, p.Name)
		if !ok {
			if p.Required {
				return nil, &MissingRequiredParameterError{Tool: t.ID, Param: p.Name, In: InBody}
			}
			return nil, nil
		}
		return decodeJSONParam(t, p, v)
	}

	body := make(map[string]any, len(params))
	for _, p := range params {
		v, ok := lookupValue(values, p.Name)
		if !ok {
			if p.Required {
				return nil, &MissingRequiredParameterError{Tool: t.ID, Param: p.Name, In: InBody}
			}
			continue
		}
		val, err := coerce(t, p, v)
		if err != nil {
			return nil, err
		}
		body[p.Name] = val
	}
	if len(body) == 0 {
		return nil, nil
	}
	return body, nil
}

// decodeJSONParam parses a json-object-string value. Values that are already
// decoded objects are passed through.
func decodeJSONParam(t Tool, p Param, v any) (map[string]any, error) {
	var raw []byte
	switch x := v.(type) {
	case map[string]any:
		// Decoded objects may hold values JSON cannot carry (NaN, channels).
		if _, err := json.Marshal(x); err != nil {
			return nil, &MalformedJSONBodyError{Tool: t.ID, Param: p.Name, Offset: -1, Err: err}
		}
		return x, nil
	case string:
		raw = []byte(x)
	case []byte:
		raw = x
	case json.RawMessage:
		raw = x
	default:
		return nil, &InvalidParameterTypeError{Tool: t.ID, Param: p.Name, Kind: p.Kind, Value: v}
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		var offset int64
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			offset = syntaxErr.Offset
		case errors.As(err, &typeErr):
			offset = typeErr.Offset
		default:
			offset = int64(len(raw))
		}
		return nil, &MalformedJSONBodyError{Tool: t.ID, Param: p.Name, Offset: offset, Err: err}
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, &MalformedJSONBodyError{Tool: t.ID, Param: p.Name, Offset: -1, Err: fmt.Errorf("expected a JSON object, got %s", jsonTypeName(decoded))}
	}
	return obj, nil
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}

// jsonNumber parses s as a finite number and returns it as a valid JSON number
// literal. Text that is already a JSON number is kept verbatim so large
// integers stay exact; other accepted forms ("+5", ".5", "5.", "0x1p4") are
// rewritten in shortest float form.
func jsonNumber(s string) (json.Number, bool) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(f) {
		return "", false
	}
	if isJSONNumber(s) {
		return json.Number(s), true
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), true
}

// isJSONNumber reports whether s is a single JSON number literal.
func isJSONNumber(s string) bool {
	if !json.Valid([]byte(s)) {
		return false
	}
	c := s[0]
	return c == '-' || (c >= '0' && c <= '9')
}

// coerce checks v against the parameter kind and returns the value to place in
// a body. Strings are accepted for number and boolean kinds when they parse,
// so values typed on a command line or in a form work unchanged.
func coerce(t Tool, p Param, v any) (any, error) {
	bad := &InvalidParameterTypeError{Tool: t.ID, Param: p.Name, Kind: p.Kind, Value: v}
	switch p.Kind {
	case KindString:
		s, ok := formatScalar(v)
		if !ok {
			return nil, bad
		}
		return s, nil
	case KindNumber:
		switch x := v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return x, nil
		case float32:
			if !finite(float64(x)) {
				return nil, bad
			}
			return x, nil
		case float64:
			if !finite(x) {
				return nil, bad
			}
			return x, nil
		case json.Number:
			n, ok := jsonNumber(string(x))
			if !ok {
				return nil, bad
			}
			return n, nil
		case string:
			n, ok := jsonNumber(x)
			if !ok {
				return nil, bad
			}
			return n, nil
		}
		return nil, bad
	case KindBoolean:
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			if err != nil {
				return nil, bad
			}
			return b, nil
		}
		return nil, bad
	case KindJSONObject:
		return decodeJSONParam(t, p, v)
	}
	return nil, bad
}

// scalarString renders a path or query value after checking its kind.
func scalarString(t Tool, p Param, v any) (string, error) {
	val, err := coerce(t, p, v)
	if err != nil {
		return "", err
	}
	s, _ := formatScalar(val)
	return s, nil
}

// formatScalar renders strings, numbers and booleans in their canonical text form.
func formatScalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.FormatInt(int64(x), 10), true
	case int8:
		return strconv.FormatInt(int64(x), 10), true
	case int16:
		return strconv.FormatInt(int64(x), 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case json.Number:
		return x.String(), true
	}
	return "", false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
