package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat indicates a file extension or format that cannot be
// decoded.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Format is the encoding of a settings file.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from the file extension, ignoring case.
// Supported extensions: .yaml, .yml, .json
func FormatFor(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: file extension %q", ErrUnsupportedFormat, ext)
	}
}

// FromFile loads configuration from a file, auto-detecting format by extension.
func FromFile(path string) (Config, error) {
	format, err := FormatFor(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (Config, error) {
	switch format {
	case FormatYAML:
		return FromYAML(data)
	case FormatJSON:
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// FromYAML parses YAML data into a Config.
// An empty document yields an empty Config. Any other document must be a
// mapping at the top level.
func FromYAML(data []byte) (Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return New(nil), nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
			return New(nil), nil
		}
		return Config{}, fmt.Errorf("parse yaml: line %d: top level must be a mapping", root.Line)
	}

	var m map[string]any
	if err := root.Decode(&m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON data into a Config.
// The document must be a single object; trailing data is an error.
func FromJSON(data []byte) (Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Config{}, errors.New("parse json: unexpected data after top-level object")
	}
	return New(m), nil
}
