package diagram

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/don7panic/classgen/classmodel"
	"github.com/don7panic/classgen/errors"
	"github.com/don7panic/classgen/models"
)

func build(t *testing.T, includeConstructor bool, descs ...models.ClassDescriptor) ([]models.ClassModel, *classmodel.Registry) {
	t.Helper()
	built := classmodel.NewBuilder(includeConstructor).Build(descs)
	return built, classmodel.NewRegistry(built)
}

func field(name, text string) models.RawField {
	return models.RawField{Name: name, Type: models.RawType{Text: text}}
}

func carDescriptor() models.ClassDescriptor {
	return models.ClassDescriptor{
		Name:   "Car",
		Bases:  []string{"Vehicle"},
		Fields: []models.RawField{field("doors", "int"), field("wheels", "int")},
	}
}

func TestRenderClass_CarExample(t *testing.T) {
	classes, _ := build(t, false, carDescriptor())
	cfg := Config{ShowProperties: true, ShowParents: true, ShowEdgeLabels: true, Direction: TopBottom}

	want := []string{
		"class Car {",
		"\tint: doors",
		"\tint: wheels",
		"}",
		"Vehicle <|-- Car: parent",
	}
	assert.Equal(t, want, RenderClass(classes[0], cfg))
}

func TestRenderClass_EmptyBody(t *testing.T) {
	classes, _ := build(t, false,
		models.ClassDescriptor{Name: "Empty"},
		models.ClassDescriptor{
			Name:    "Hidden",
			Fields:  []models.RawField{field("x", "int")},
			Methods: []models.RawMethod{{Name: "run"}},
		},
	)

	assert.Equal(t, []string{"class Empty"}, RenderClass(classes[0], DefaultConfig()))

	cfg := DefaultConfig()
	cfg.ShowProperties = false
	cfg.ShowMethods = false
	assert.Equal(t, []string{"class Hidden"}, RenderClass(classes[1], cfg))
}

func TestRenderClass_Methods(t *testing.T) {
	classes, _ := build(t, false, models.ClassDescriptor{
		Name: "Person",
		Methods: []models.RawMethod{
			{Name: "walk"},
			{Name: "eat", Params: []string{"food", "amount"}, Returns: &models.RawType{Text: "bool"}},
			{Name: "wrap", Returns: &models.RawType{Text: "Box<int>"}},
		},
	})
	cfg := Config{ShowMethods: true, Direction: TopBottom}

	assert.Equal(t, []string{
		"class Person {",
		"\twalk() ",
		"\teat(food, amount) bool",
		"\twrap() Box",
		"}",
	}, RenderClass(classes[0], cfg))
}

func TestRenderClass_ParenthesesBecomeBrackets(t *testing.T) {
	classes, _ := build(t, true, models.ClassDescriptor{
		Name:           "Handler",
		Fields:         []models.RawField{field("callback", "func(int) error")},
		HasConstructor: true,
		Constructor:    []models.RawField{field("hook", "func()")},
	})
	cfg := Config{ShowProperties: true, Direction: TopBottom}

	lines := RenderClass(classes[0], cfg)
	assert.Equal(t, []string{
		"class Handler {",
		"\tfunc[int] error: callback",
		"\tself → func[]: hook",
		"}",
	}, lines)
	for _, l := range lines[1:3] {
		assert.False(t, strings.ContainsAny(l, "()"), l)
	}
}

func TestRenderClass_ConstructorFieldsNeedOwnConstructor(t *testing.T) {
	desc := models.ClassDescriptor{
		Name:        "Engine",
		Constructor: []models.RawField{field("fuel", "str")},
	}
	classes, _ := build(t, true, desc)
	cfg := Config{ShowProperties: true, Direction: TopBottom}
	assert.Equal(t, []string{"class Engine"}, RenderClass(classes[0], cfg))
}

func TestRenderClass_UseEdgesCounted(t *testing.T) {
	classes, _ := build(t, false, models.ClassDescriptor{
		Name: "Family",
		Fields: []models.RawField{
			field("children", "list[Person]"),
			field("parents", "list[Person]"),
			field("pet", "Dog"),
			{Name: "home", Type: models.RawType{Text: "Home", Forward: true}},
			field("boxed", "Box<Dog>"),
		},
	})
	cfg := Config{ShowUses: true, Direction: TopBottom}

	assert.Equal(t, []string{
		"class Family",
		`Family "2" ..> list`,
		`Family "1" ..> Dog`,
		`Family "1" ..> Home`,
		`Family "1" ..> Box`,
	}, RenderClass(classes[0], cfg))

	cfg.ShowEdgeLabels = true
	assert.Equal(t, []string{
		"class Family",
		`Family "2" ..> list: list[Person]`,
		`Family "1" ..> Dog: Dog`,
		`Family "1" ..> Home: Home`,
		`Family "1" ..> Box: Box`,
	}, RenderClass(classes[0], cfg))
}

func TestRenderClass_UseCountsMatchFields(t *testing.T) {
	var fields []models.RawField
	for i, typ := range []string{"A", "B", "A", "C", "A", "B"} {
		fields = append(fields, field(string(rune('a'+i)), typ))
	}
	classes, _ := build(t, false, models.ClassDescriptor{Name: "Owner", Fields: fields})

	lines := RenderClass(classes[0], Config{ShowUses: true, Direction: TopBottom})
	assert.Equal(t, []string{
		"class Owner",
		`Owner "3" ..> A`,
		`Owner "2" ..> B`,
		`Owner "1" ..> C`,
	}, lines)
}

func TestRenderClass_UseEdgesTargetElementType(t *testing.T) {
	classes, _ := build(t, false, models.ClassDescriptor{
		Name:   "Car",
		Fields: []models.RawField{field("parts", "[]Part"), field("spare", "*[]*Part"), field("axles", "[2]Axle")},
	})

	assert.Equal(t, []string{
		"class Car {",
		"\t[]Part: parts",
		"\t*[]*Part: spare",
		"\t[2]Axle: axles",
		"}",
		`Car "2" ..> Part`,
		`Car "1" ..> Axle`,
	}, RenderClass(classes[0], Config{ShowProperties: true, ShowUses: true, Direction: TopBottom}))
}

func TestRenderClass_ParentsNotDeduplicated(t *testing.T) {
	classes, _ := build(t, false, models.ClassDescriptor{Name: "Mixed", Bases: []string{"A", "B", "A"}})

	assert.Equal(t, []string{
		"class Mixed",
		"A <|-- Mixed",
		"B <|-- Mixed",
		"A <|-- Mixed",
	}, RenderClass(classes[0], Config{ShowParents: true, Direction: TopBottom}))
}

func TestRenderClass_SectionOrder(t *testing.T) {
	classes, _ := build(t, false, models.ClassDescriptor{
		Name:    "Car",
		Bases:   []string{"Vehicle"},
		Fields:  []models.RawField{field("engine", "Engine")},
		Methods: []models.RawMethod{{Name: "drive"}},
	})
	cfg := Config{ShowProperties: true, ShowMethods: true, ShowUses: true, ShowParents: true, Direction: TopBottom}

	assert.Equal(t, []string{
		"class Car {",
		"\tEngine: engine",
		"\tdrive() ",
		"}",
		`Car "1" ..> Engine`,
		"Vehicle <|-- Car",
	}, RenderClass(classes[0], cfg))
}

func TestParseDirection(t *testing.T) {
	for _, in := range []string{"lr", "LR", "Lr", " lR "} {
		d, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, LeftRight, d)
	}

	_, err := ParseDirection("XY")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidDirection))
	assert.Contains(t, errors.FlattenHints(err), "LR, RL, TB, BT")
}

func TestRender_InvalidDirectionProducesNothing(t *testing.T) {
	classes, reg := build(t, false, carDescriptor())
	cfg := DefaultConfig()
	cfg.Direction = "XY"

	doc, err := Render(classes, reg, cfg)
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Empty(t, doc.Body)
}

func TestRender_RecursiveAncestors(t *testing.T) {
	all, reg := build(t, false,
		models.ClassDescriptor{Name: "C", Bases: []string{"B"}},
		models.ClassDescriptor{Name: "B", Bases: []string{"A"}},
		models.ClassDescriptor{Name: "A"},
	)
	discovered := all[:1]
	cfg := Config{ShowParents: true, RecursiveAncestors: true, Direction: "tb"}

	doc, err := Render(discovered, reg, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"class C",
		"B <|-- C",
		"class B",
		"A <|-- B",
		"class A",
	}, doc.Body)
	assert.Equal(t, TopBottom, doc.Direction)

	cfg.RecursiveAncestors = false
	doc, err = Render(discovered, reg, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"class C", "B <|-- C"}, doc.Body)
}

func TestRender_DuplicateNamesWithoutExpansion(t *testing.T) {
	classes, reg := build(t, false,
		models.ClassDescriptor{Name: "Dup", Fields: []models.RawField{field("a", "int")}},
		models.ClassDescriptor{Name: "Dup"},
	)
	cfg := Config{ShowProperties: true, Direction: LeftRight}

	doc, err := Render(classes, reg, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"class Dup {", "\tint: a", "}", "class Dup"}, doc.Body)

	cfg.RecursiveAncestors = true
	doc, err = Render(classes, reg, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"class Dup {", "\tint: a", "}"}, doc.Body)
}

func TestDocument_Lines(t *testing.T) {
	classes, reg := build(t, false, carDescriptor())
	cfg := Config{ShowProperties: true, ShowParents: true, Direction: "lr", WrapInMarkdownFence: true}

	doc, err := Render(classes, reg, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"```mermaid",
		"classDiagram",
		"direction LR",
		"class Car {",
		"\tint: doors",
		"\tint: wheels",
		"}",
		"Vehicle <|-- Car",
		"```",
	}, doc.Lines())

	doc.Fenced = false
	assert.Equal(t, "classDiagram", doc.Lines()[0])
	assert.Equal(t, "Vehicle <|-- Car", doc.Lines()[len(doc.Lines())-1])
}

func TestDocument_Idempotent(t *testing.T) {
	descs := []models.ClassDescriptor{
		carDescriptor(),
		{Name: "Vehicle", Fields: []models.RawField{field("fuel", "str"), field("seats", "Box<int>")}},
	}
	cfg := DefaultConfig()
	cfg.ShowUses = true
	cfg.ShowEdgeLabels = true

	render := func() string {
		classes, reg := build(t, true, descs...)
		doc, err := Render(classes, reg, cfg)
		require.NoError(t, err)
		var buf bytes.Buffer
		_, err = doc.WriteTo(&buf)
		require.NoError(t, err)
		return buf.String()
	}

	first := render()
	assert.Equal(t, first, render())
	assert.True(t, strings.HasSuffix(first, "```\n"))
	assert.NotContains(t, strings.SplitN(first, "\n", 2)[1], "<int>")
}
