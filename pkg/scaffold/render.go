package scaffold

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

var (
	ErrRender        = errors.New("rendering template failed")
	ErrInvalidOutput = errors.New("rendered file is invalid")
)

func render(t *Template, name string, content []byte, vars *Variables) ([]byte, error) {
	tmpl, err := template.New(name).
		Delims(t.Manifest.Delims[0], t.Manifest.Delims[1]).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: parsing: %w", ErrRender, name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, fmt.Errorf("%w: %s: executing: %w", ErrRender, name, err)
	}

	return buf.Bytes(), nil
}

// validateOutput checks that structured files still parse after rendering.
func validateOutput(name string, content []byte) error {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		if !json.Valid(jsonc.ToJSON(content)) {
			return fmt.Errorf("%w: %s is not valid JSON", ErrInvalidOutput, name)
		}
	case ".yml", ".yaml":
		var v any
		if err := yaml.Unmarshal(content, &v); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidOutput, name, err)
		}
	}

	return nil
}
