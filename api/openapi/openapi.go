// Package openapi embeds the API description served at /api-docs.
package openapi

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var document []byte

// YAML returns the document as written.
func YAML() []byte {
	out := make([]byte, len(document))
	copy(out, document)
	return out
}

// Document returns the document decoded into generic maps, ready to be
// encoded as JSON.
func Document() (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(document, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	return doc, nil
}

// Paths returns the path keys declared in the document.
func Paths() ([]string, error) {
	doc, err := Document()
	if err != nil {
		return nil, err
	}
	raw, ok := doc["paths"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("OpenAPI document has no paths object")
	}
	paths := make([]string, 0, len(raw))
	for p := range raw {
		paths = append(paths, p)
	}
	return paths, nil
}
