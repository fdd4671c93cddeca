package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
	JSON Format = "json"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrUnknownKeys       = errors.New("unknown keys")
	ErrExtraDocument     = errors.New("more than one document")
)

// FormatOf picks the format from a file name's extension. A name without one is read as TOML.
func FormatOf(name string) (Format, error) {
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case "", ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w %q (supported: .toml, .yaml, .yml, .json)", ErrUnsupportedFormat, ext)
	}
}

// Strict decodes one document from r over v. Keys v has no field for are an error,
// and an empty document leaves v as it was. JSON may carry comments and trailing commas.
func Strict(format Format, r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	switch format {
	case TOML:
		md, err := toml.Decode(string(data), v)
		if err != nil {
			return err
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			keys := make([]string, len(undec))
			for i, k := range undec {
				keys[i] = k.String()
			}
			return fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(keys, ", "))
		}
		return nil

	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil {
			return err
		}
		return single(dec.Decode(new(yaml.Node)))

	case JSON:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return err
		}
		return single(dec.Decode(new(json.RawMessage)))

	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
}

// File decodes the file at name with the format its extension names.
func File(name string, v any) error {
	format, err := FormatOf(name)
	if err != nil {
		return err
	}

	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	return Strict(format, f, v)
}

// single turns the result of decoding past the first document into an error, if there was more.
func single(err error) error {
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err == nil:
		return ErrExtraDocument
	default:
		return err
	}
}
