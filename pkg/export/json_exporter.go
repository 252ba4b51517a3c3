package export

import (
	"encoding/json"
	"fmt"
)

// JSONExporter renders an arbitrary document as indented JSON.
type JSONExporter struct{}

// NewJSONExporter constructs a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Render marshals the document to JSON bytes.
func (e *JSONExporter) Render(document interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json export: %w", err)
	}
	return data, nil
}
