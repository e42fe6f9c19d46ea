package diagram

import (
	"fmt"
	"io"
	"strings"

	"github.com/don7panic/classgen/classmodel"
	"github.com/don7panic/classgen/errors"
	"github.com/don7panic/classgen/models"
)

const (
	diagramKeyword = "classDiagram"
	fenceOpen      = "```mermaid"
	fenceClose     = "```"
	constructorTag = "self → "
)

// Mermaid reads parentheses in a member line as a method signature.
var parenReplacer = strings.NewReplacer("(", "[", ")", "]")

// RenderClass returns the diagram lines for one class: its block, then use
// edges, then parent edges.
func RenderClass(m models.ClassModel, cfg Config) []string {
	var body []string
	if cfg.ShowProperties {
		body = append(body, renderFields(m.Fields)...)
	}
	if cfg.ShowMethods {
		body = append(body, renderMethods(m.Methods)...)
	}

	var lines []string
	if len(body) == 0 {
		lines = append(lines, "class "+m.Name)
	} else {
		lines = append(lines, "class "+m.Name+" {")
		lines = append(lines, body...)
		lines = append(lines, "}")
	}

	if cfg.ShowUses {
		lines = append(lines, renderUses(m, cfg.ShowEdgeLabels)...)
	}
	if cfg.ShowParents {
		lines = append(lines, renderParents(m, cfg.ShowEdgeLabels)...)
	}
	return lines
}

func renderFields(fields []models.FieldDescriptor) []string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		line := fmt.Sprintf("%s: %s", f.Type.Name, f.Name)
		if f.FromConstructor {
			line = constructorTag + line
		}
		lines = append(lines, "\t"+parenReplacer.Replace(line))
	}
	return lines
}

func renderMethods(methods []models.MethodDescriptor) []string {
	lines := make([]string, 0, len(methods))
	for _, m := range methods {
		ret := ""
		if m.Return != nil {
			ret = m.Return.Name
		}
		lines = append(lines, fmt.Sprintf("\t%s(%s) %s", m.Name, strings.Join(m.Params, ", "), ret))
	}
	return lines
}

// renderUses emits one edge per distinct erased type, in order of first
// appearance, labelled with the number of fields referencing it.
func renderUses(m models.ClassModel, labels bool) []string {
	counts := make(map[string]int, len(m.Uses))
	var order []models.TypeReference
	for _, u := range m.Uses {
		if _, ok := counts[u.Type.Erased]; !ok {
			order = append(order, u.Type)
		}
		counts[u.Type.Erased]++
	}

	lines := make([]string, 0, len(order))
	for _, ref := range order {
		line := fmt.Sprintf("%s \"%d\" ..> %s", m.Name, counts[ref.Erased], ref.Erased)
		if labels {
			line += ": " + ref.Full
		}
		lines = append(lines, line)
	}
	return lines
}

func renderParents(m models.ClassModel, labels bool) []string {
	lines := make([]string, 0, len(m.Bases))
	for _, base := range m.Bases {
		line := base + " <|-- " + m.Name
		if labels {
			line += ": parent"
		}
		lines = append(lines, line)
	}
	return lines
}

// Document is a rendered class diagram.
type Document struct {
	Direction Direction
	Fenced    bool
	Body      []string
}

// Render validates cfg and renders every class. With RecursiveAncestors the
// rendered set is expanded to the transitive ancestors found in reg. No
// output is produced when the configuration is invalid.
func Render(classes []models.ClassModel, reg *classmodel.Registry, cfg Config) (Document, error) {
	cfg, err := cfg.Validate()
	if err != nil {
		return Document{}, err
	}

	if cfg.RecursiveAncestors {
		classes = classmodel.ExpandAncestors(classes, reg)
	}

	doc := Document{Direction: cfg.Direction, Fenced: cfg.WrapInMarkdownFence}
	for _, c := range classes {
		doc.Body = append(doc.Body, RenderClass(c, cfg)...)
	}
	return doc, nil
}

// Lines returns the complete document: optional fence, diagram keyword,
// direction, body and closing fence.
func (d Document) Lines() []string {
	lines := make([]string, 0, len(d.Body)+4)
	if d.Fenced {
		lines = append(lines, fenceOpen)
	}
	lines = append(lines, diagramKeyword, "direction "+string(d.Direction))
	lines = append(lines, d.Body...)
	if d.Fenced {
		lines = append(lines, fenceClose)
	}
	return lines
}

func (d Document) String() string {
	return strings.Join(d.Lines(), "\n") + "\n"
}

// WriteTo writes the whole document to w in a single write.
func (d Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	if err != nil {
		return int64(n), errors.Wrap(err, "failed to write diagram")
	}
	return int64(n), nil
}
