package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/model/forms"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
)

type Format string

const (
	JsonFormat Format = "json"
	YamlFormat Format = "yaml"
)

// Template is a form description captured from an existing form. It is read-only once loaded;
// use StrippedItems to get copies that are safe to send to the remote service.
type Template struct {
	Info  forms.Info
	Items []forms.Item
}

type document struct {
	Info  *forms.Info  `json:"info" yaml:"info"`
	Items []forms.Item `json:"items" yaml:"items"`
}

// FormatFor picks the template format from the file extension. Anything that isn't YAML is treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YamlFormat
	default:
		return JsonFormat
	}
}

// Load reads and parses the template at path.
func Load(path string) (Template, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return Template{}, fmt.Errorf("failed to read template %s: %w", path, err)
	}

	tmpl, err := Parse(data, FormatFor(path))

	if err != nil {
		return Template{}, fmt.Errorf("failed to parse template %s: %w", path, err)
	}

	return tmpl, nil
}

func Parse(data []byte, format Format) (Template, error) {
	doc := document{}

	switch format {
	case YamlFormat:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Template{}, err
		}
	default:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&doc); err != nil {
			return Template{}, err
		}
	}

	if doc.Info == nil {
		return Template{}, errors.New("template has no info block")
	}

	if strings.TrimSpace(doc.Info.Title) == "" {
		return Template{}, errors.New("template info has no title")
	}

	for index, item := range doc.Items {
		if item == nil {
			return Template{}, fmt.Errorf("template item %d is empty", index)
		}
	}

	return Template{
		Info:  *doc.Info,
		Items: doc.Items,
	}, nil
}

// StrippedItems returns the template items, in template order, with their template-scoped identifiers removed.
func (t Template) StrippedItems() []forms.Item {
	return lo.Map(t.Items, func(item forms.Item, index int) forms.Item {
		return Strip(item)
	})
}

func (t Template) Titles() []string {
	return lo.Map(t.Items, func(item forms.Item, index int) string {
		return item.Title()
	})
}
