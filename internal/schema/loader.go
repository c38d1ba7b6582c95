package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/class.schema.json
var schemaFS embed.FS

var (
	classSchemaOnce sync.Once
	classSchema     *jsonschema.Schema
	classSchemaErr  error
)

func compiledClassSchema() (*jsonschema.Schema, error) {
	classSchemaOnce.Do(func() {
		raw, err := schemaFS.ReadFile("schemas/class.schema.json")
		if err != nil {
			classSchemaErr = fmt.Errorf("failed to read embedded class schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("class.schema.json", bytes.NewReader(raw)); err != nil {
			classSchemaErr = fmt.Errorf("failed to load class schema: %w", err)
			return
		}
		classSchema, classSchemaErr = compiler.Compile("class.schema.json")
	})
	return classSchema, classSchemaErr
}

// Parse decodes a YAML document-class schema and fail-fast validates it,
// first structurally against the embedded JSON Schema, then semantically
// (method/type compatibility, threshold bounds).
func Parse(data []byte) (*Class, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid schema YAML: %w", err)
	}

	js, err := compiledClassSchema()
	if err != nil {
		return nil, err
	}
	if err := js.Validate(normalizeYAML(doc)); err != nil {
		return nil, fmt.Errorf("schema does not match the class schema: %w", err)
	}

	var c Class
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses a document-class schema file.
func Load(path string) (*Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadDir loads every *.yaml/*.yml schema in dir, keyed by class name,
// sorted deterministically. Duplicate class names are a configuration error.
func LoadDir(dir string) (map[string]*Class, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	classes := make(map[string]*Class, len(names))
	for _, name := range names {
		c, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if _, ok := classes[c.Name]; ok {
			return nil, fmt.Errorf("duplicate schema for class %q (file %s)", c.Name, name)
		}
		classes[c.Name] = c
	}
	return classes, nil
}

// normalizeYAML converts yaml.v3's map[string]any trees into the
// JSON-compatible shapes the jsonschema validator expects (ints stay ints;
// map keys are already strings with yaml.v3).
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeYAML(item)
		}
		return out
	case int:
		return json.Number(fmt.Sprintf("%d", val))
	case float64:
		b, _ := json.Marshal(val)
		return json.Number(b)
	default:
		return v
	}
}
