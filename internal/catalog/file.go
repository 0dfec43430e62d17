package catalog

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// fileFormat is the on-disk layout of a catalog file:
//
//	[[tools]]
//	id = "get_task"
//	label = "Get task"
//	method = "GET"
//	path = "/api/v1/projects/{project_id}/tasks/{task_number}"
//
//	[[tools.params]]
//	name = "project_id"
//	kind = "string"
//	required = true
//	in = "path"
type fileFormat struct {
	Tools []Tool `toml:"tools"`
}

// Parse decodes a TOML catalog and validates it with New. Unknown keys are
// rejected so a misspelt field does not silently drop a parameter.
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(f.Tools...)
}

// LoadFile reads and validates a TOML catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return c, nil
}

// Marshal encodes the catalog in the file format accepted by Parse.
func (c *Catalog) Marshal() ([]byte, error) {
	return toml.Marshal(fileFormat{Tools: c.All()})
}
