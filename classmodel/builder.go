package classmodel

import (
	"go.uber.org/zap"

	"github.com/don7panic/classgen/logger"
	"github.com/don7panic/classgen/models"
)

// Builder turns class descriptors into class models.
type Builder struct {
	// IncludeConstructor appends the parameters of a class's own constructor
	// to its fields.
	IncludeConstructor bool

	log *zap.SugaredLogger
}

func NewBuilder(includeConstructor bool) *Builder {
	return &Builder{
		IncludeConstructor: includeConstructor,
		log:                logger.Named("classmodel"),
	}
}

// Build returns one model per descriptor, in input order.
func (b *Builder) Build(descs []models.ClassDescriptor) []models.ClassModel {
	out := make([]models.ClassModel, 0, len(descs))
	seen := make(map[string]int, len(descs))
	for _, d := range descs {
		seen[d.Name]++
		if seen[d.Name] == 2 {
			b.log.Debugw("duplicate class name, both declarations are kept", "class", d.Name)
		}
		out = append(out, b.BuildClass(d))
	}
	b.log.Infow("built class models", "count", len(out))
	return out
}

// BuildClass builds the model of a single descriptor.
func (b *Builder) BuildClass(d models.ClassDescriptor) models.ClassModel {
	return models.ClassModel{
		Name:    d.Name,
		Bases:   append([]string(nil), d.Bases...),
		Fields:  BuildFields(d, b.IncludeConstructor),
		Methods: buildMethods(d.Methods),
		Uses:    BuildUses(d.Fields),
	}
}

// BuildFields returns the declared fields of d followed, when
// includeConstructor is set and d has its own constructor, by the
// constructor's parameters marked as constructor-origin.
func BuildFields(d models.ClassDescriptor, includeConstructor bool) []models.FieldDescriptor {
	fields := make([]models.FieldDescriptor, 0, len(d.Fields))
	for _, f := range d.Fields {
		fields = append(fields, models.FieldDescriptor{Name: f.Name, Type: ResolveTypeName(f.Type)})
	}
	if !includeConstructor || !d.HasConstructor {
		return fields
	}
	for _, p := range d.Constructor {
		fields = append(fields, models.FieldDescriptor{
			Name:            p.Name,
			Type:            ResolveTypeName(p.Type),
			FromConstructor: true,
		})
	}
	return fields
}

// BuildUses returns one use per declared field. Uses are not deduplicated;
// the serializer collapses uses that share an erased name.
func BuildUses(fields []models.RawField) []models.Use {
	uses := make([]models.Use, 0, len(fields))
	for _, f := range fields {
		uses = append(uses, models.Use{Field: f.Name, Type: ResolveTypeName(f.Type)})
	}
	return uses
}

func buildMethods(raw []models.RawMethod) []models.MethodDescriptor {
	methods := make([]models.MethodDescriptor, 0, len(raw))
	for _, m := range raw {
		md := models.MethodDescriptor{Name: m.Name, Params: append([]string{}, m.Params...)}
		if m.Returns != nil {
			ret := ResolveTypeName(*m.Returns)
			md.Return = &ret
		}
		methods = append(methods, md)
	}
	return methods
}
