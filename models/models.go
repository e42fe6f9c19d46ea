// Package models contains the data structures shared by the extractors,
// the class model builder and the diagram serializer.
package models

// RawType is a type annotation as an extractor saw it, before name resolution.
type RawType struct {
	Text    string `json:"text" yaml:"text"`
	Base    string `json:"base,omitempty" yaml:"base,omitempty"`
	Forward bool   `json:"forward,omitempty" yaml:"forward,omitempty"`
}

type RawField struct {
	Name string  `json:"name" yaml:"name"`
	Type RawType `json:"type" yaml:"type"`
}

type RawMethod struct {
	Name    string   `json:"name" yaml:"name"`
	Params  []string `json:"params,omitempty" yaml:"params,omitempty"`
	Returns *RawType `json:"returns,omitempty" yaml:"returns,omitempty"`
}

// ClassDescriptor is the structural description of one class produced by an
// extractor. Constructor holds the parameters of the class's own constructor
// and is only meaningful when HasConstructor is set.
type ClassDescriptor struct {
	Name           string      `json:"name" yaml:"name"`
	Package        string      `json:"package,omitempty" yaml:"package,omitempty"`
	File           string      `json:"file,omitempty" yaml:"file,omitempty"`
	Bases          []string    `json:"bases,omitempty" yaml:"bases,omitempty"`
	Fields         []RawField  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods        []RawMethod `json:"methods,omitempty" yaml:"methods,omitempty"`
	HasConstructor bool        `json:"has_constructor,omitempty" yaml:"has_constructor,omitempty"`
	Constructor    []RawField  `json:"constructor,omitempty" yaml:"constructor,omitempty"`
}

// TypeReference is a resolved type as it appears in diagram output.
// Name never contains '<' or '>'.
type TypeReference struct {
	Name          string `json:"name"`
	Full          string `json:"full"`
	Erased        string `json:"erased"`
	Parameterized bool   `json:"parameterized,omitempty"`
	Unresolved    bool   `json:"unresolved,omitempty"`
}

type FieldDescriptor struct {
	Name            string        `json:"name"`
	Type            TypeReference `json:"type"`
	FromConstructor bool          `json:"from_constructor,omitempty"`
}

// MethodDescriptor describes one method. A nil Return means the return type
// is absent.
type MethodDescriptor struct {
	Name   string         `json:"name"`
	Params []string       `json:"params"`
	Return *TypeReference `json:"return,omitempty"`
}

// Use is a raw use edge: the field that references a type and the type it references.
type Use struct {
	Field string        `json:"field"`
	Type  TypeReference `json:"type"`
}

// ClassModel is the normalized model of one class. Values are built once and
// never mutated; use Clone to obtain an independent copy.
type ClassModel struct {
	Name    string             `json:"name"`
	Bases   []string           `json:"bases"`
	Fields  []FieldDescriptor  `json:"fields"`
	Methods []MethodDescriptor `json:"methods"`
	Uses    []Use              `json:"uses"`
}

// Clone returns a deep copy of m.
func (m ClassModel) Clone() ClassModel {
	c := ClassModel{
		Name:    m.Name,
		Bases:   append([]string(nil), m.Bases...),
		Fields:  append([]FieldDescriptor(nil), m.Fields...),
		Methods: make([]MethodDescriptor, len(m.Methods)),
		Uses:    append([]Use(nil), m.Uses...),
	}
	for i, meth := range m.Methods {
		cm := MethodDescriptor{Name: meth.Name, Params: append([]string(nil), meth.Params...)}
		if meth.Return != nil {
			ret := *meth.Return
			cm.Return = &ret
		}
		c.Methods[i] = cm
	}
	return c
}
