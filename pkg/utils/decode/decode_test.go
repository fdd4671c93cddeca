package decode

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type settings struct {
	URL     string `toml:"url" yaml:"url" json:"url"`
	Retries int    `toml:"retries" yaml:"retries" json:"retries"`
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"creatif.toml", TOML},
		{"creatif", TOML},
		{"creatif.YAML", YAML},
		{"template.yml", YAML},
		{"creatif.json", JSON},
	}

	for _, tt := range tests {
		got, err := FormatOf(tt.name)
		if err != nil || got != tt.want {
			t.Errorf("FormatOf(%q) = %q, %v, want %q", tt.name, got, err, tt.want)
		}
	}

	if _, err := FormatOf("creatif.ini"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("FormatOf(.ini) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestStrict(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		input   string
		want    settings
		wantErr error
	}{
		{"toml", TOML, "url = \"https://a\"\nretries = 2\n", settings{"https://a", 2}, nil},
		{"yaml", YAML, "url: https://a\nretries: 2\n", settings{"https://a", 2}, nil},
		{"jsonc", JSON, "{\n  // mirror\n  \"url\": \"https://a\",\n  \"retries\": 2,\n}", settings{"https://a", 2}, nil},
		{"empty keeps defaults", YAML, "  \n", settings{"https://default", 0}, nil},
		{"toml unknown key", TOML, "colour = \"red\"\n", settings{}, ErrUnknownKeys},
		{"yaml two documents", YAML, "url: https://a\n---\nurl: https://b\n", settings{}, ErrExtraDocument},
		{"json trailing document", JSON, "{\"url\": \"https://a\"} {}", settings{}, ErrExtraDocument},
		{"json second document with keys", JSON, "{\"url\": \"https://a\"} {\"url\": \"https://b\"}", settings{}, ErrExtraDocument},
		{"yaml second document unknown to target", YAML, "url: https://a\n---\ncolour: red\n", settings{}, ErrExtraDocument},
		{"unsupported", Format("ini"), "url=a", settings{}, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := settings{URL: "https://default"}
			err := Strict(tt.format, strings.NewReader(tt.input), &got)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Strict() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Strict() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Strict() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStrict_UnknownFieldsRejected(t *testing.T) {
	for format, input := range map[Format]string{
		YAML: "url: https://a\ncolour: red\n",
		JSON: `{"url": "https://a", "colour": "red"}`,
	} {
		var got settings
		if err := Strict(format, strings.NewReader(input), &got); err == nil {
			t.Errorf("%s: expected an error for an unknown key", format)
		}
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creatif.yaml")
	if err := os.WriteFile(path, []byte("retries: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var got settings
	if err := File(path, &got); err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if got.Retries != 3 {
		t.Errorf("Retries = %d, want 3", got.Retries)
	}

	if err := File(filepath.Join(t.TempDir(), "missing.toml"), &got); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("File(missing) error = %v, want ErrNotExist", err)
	}
}
