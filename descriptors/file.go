package descriptors

import (
	"bytes"
	"context"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/don7panic/classgen/errors"
	"github.com/don7panic/classgen/models"
)

// document is the on-disk descriptor format. JSON documents decode through
// the same path since JSON is valid YAML.
type document struct {
	Classes []classEntry `yaml:"classes"`
}

type classEntry struct {
	Name           string        `yaml:"name"`
	Bases          []string      `yaml:"bases"`
	Fields         []fieldEntry  `yaml:"fields"`
	Methods        []methodEntry `yaml:"methods"`
	HasConstructor bool          `yaml:"has_constructor"`
	Constructor    []fieldEntry  `yaml:"constructor"`
}

type fieldEntry struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Base    string `yaml:"base"`
	Forward bool   `yaml:"forward"`
}

type methodEntry struct {
	Name    string   `yaml:"name"`
	Params  []string `yaml:"params"`
	Returns string   `yaml:"returns"`
}

// FileSource reads class descriptors from a YAML or JSON file.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Load(ctx context.Context) ([]models.ClassDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read descriptor file %s", s.Path)
	}
	descs, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "descriptor file %s", s.Path)
	}
	return descs, nil
}

// Parse decodes a descriptor document.
func Parse(data []byte) ([]models.ClassDescriptor, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.WithHint(
			errors.Wrap(errors.ErrInvalidInput, err.Error()),
			"expected a top-level 'classes' list",
		)
	}

	out := make([]models.ClassDescriptor, 0, len(doc.Classes))
	for i, c := range doc.Classes {
		if strings.TrimSpace(c.Name) == "" {
			return nil, errors.NewInvalidInputError("class #%d has no name", i+1)
		}
		desc := models.ClassDescriptor{
			Name:           c.Name,
			Bases:          c.Bases,
			HasConstructor: c.HasConstructor || len(c.Constructor) > 0,
		}
		for _, f := range c.Fields {
			desc.Fields = append(desc.Fields, f.raw())
		}
		for _, p := range c.Constructor {
			desc.Constructor = append(desc.Constructor, p.raw())
		}
		for _, m := range c.Methods {
			rm := models.RawMethod{Name: m.Name, Params: m.Params}
			if m.Returns != "" {
				ret := parseType(m.Returns, "", false)
				rm.Returns = &ret
			}
			desc.Methods = append(desc.Methods, rm)
		}
		out = append(out, desc)
	}
	return out, nil
}

func (f fieldEntry) raw() models.RawField {
	return models.RawField{Name: f.Name, Type: parseType(f.Type, f.Base, f.Forward)}
}

// parseType treats a quoted type text as a forward reference to a class by
// name.
func parseType(text, base string, forward bool) models.RawType {
	text = strings.TrimSpace(text)
	if len(text) >= 2 && (text[0] == '\'' || text[0] == '"') && text[len(text)-1] == text[0] {
		return models.RawType{Text: text[1 : len(text)-1], Forward: true}
	}
	return models.RawType{Text: text, Base: base, Forward: forward}
}
