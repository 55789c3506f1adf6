package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aretw0/quizpath/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a questionnaire file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported questionnaire extension %q", filepath.Ext(path))
	}
}

// Document is the top-level shape of a questionnaire file.
// A YAML or JSON file may also be a bare list of questions.
type Document struct {
	Title       string            `mapstructure:"title"`
	Description string            `mapstructure:"description"`
	Questions   []domain.Question `mapstructure:"questions"`
}

// Loader implements ports.QuestionLoader for a single file.
type Loader struct {
	Path string
}

// New creates a file loader. The format is inferred from the extension on Load.
func New(path string) *Loader {
	return &Loader{Path: path}
}

// Load reads and decodes the file.
func (l *Loader) Load(ctx context.Context) ([]domain.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(l.Path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", l.Path, err)
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(l.Path), err)
	}
	return doc.Questions, nil
}

// Decode parses raw bytes in the given format into a Document.
// Unknown keys are rejected so that typos such as "default" for
// "default_next" surface instead of silently changing the flow.
func Decode(data []byte, format Format) (*Document, error) {
	raw, err := unmarshal(data, format)
	if err != nil {
		return nil, err
	}

	if list, ok := raw.([]any); ok {
		raw = map[string]any{"questions": list}
	}
	if raw == nil {
		return &Document{}, nil
	}

	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringifyScalars,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid questionnaire: %w", err)
	}
	return &doc, nil
}

func unmarshal(data []byte, format Format) (any, error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	case FormatTOML:
		// TOML documents are always tables; questions live under [[questions]].
		var table map[string]any
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("invalid toml: %w", err)
		}
		raw = table
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return raw, nil
}

// stringifyScalars renders booleans and numbers in their natural text form
// when the destination is a string (ids like 10, metadata like required: true).
func stringifyScalars(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	switch v := data.(type) {
	case bool, int, int64, uint64, float64, json.Number:
		return fmt.Sprint(v), nil
	}
	return data, nil
}
