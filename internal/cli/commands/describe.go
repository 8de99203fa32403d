package commands

import (
	"strings"

	"github.com/typegraph-lang/typegraph/internal/lazy"
	"github.com/typegraph-lang/typegraph/internal/model"
)

// declarationInfo is the printable summary of a completed declaration
type declarationInfo struct {
	Name           string   `json:"name"`
	Kind           string   `json:"kind"`
	TypeParameters []string `json:"type_parameters,omitempty"`
	Extends        string   `json:"extends,omitempty"`
	Satisfies      []string `json:"satisfies,omitempty"`
	Type           string   `json:"type,omitempty"`
	Parameters     string   `json:"parameters,omitempty"`
	Members        []string `json:"members,omitempty"`
	Annotations    []string `json:"annotations,omitempty"`
}

// describe completes d and summarizes it. A failed completion is returned
// as the *errors.CompletionError raised by the accessor.
func describe(d model.Declaration) (info declarationInfo, err error) {
	defer lazy.Recover(&err)

	info.Name = d.QualifiedName()
	info.Kind = d.Kind().String()
	if p, ok := d.(lazy.Proxy); ok {
		if err := p.Load(); err != nil {
			return info, err
		}
	}

	for _, a := range d.Annotations() {
		info.Annotations = append(info.Annotations, a.Name)
	}

	switch decl := d.(type) {
	case model.TypeDeclaration:
		info.TypeParameters = typeParameters(decl.TypeParameters())
		if ext := decl.ExtendedType(); ext != nil {
			info.Extends = ext.String()
		}
		for _, t := range decl.SatisfiedTypes() {
			info.Satisfies = append(info.Satisfies, t.String())
		}
		for _, m := range decl.Members() {
			info.Members = append(info.Members, m.Name())
		}
		if c, ok := decl.(interface{ ParameterList() *model.ParameterList }); ok && c.ParameterList() != nil {
			info.Parameters = formatParameterList(c.ParameterList())
		}
	case model.Functional:
		info.TypeParameters = typeParameters(decl.TypeParameters())
		info.Type = typeString(decl.Type(), decl.IsDeclaredVoid())
		var lists []string
		for _, pl := range decl.ParameterLists() {
			lists = append(lists, formatParameterList(pl))
		}
		info.Parameters = strings.Join(lists, "")
	case model.TypedDeclaration:
		info.Type = typeString(decl.Type(), false)
	}
	return info, nil
}

func typeParameters(tps []*model.TypeParameter) []string {
	var out []string
	for _, tp := range tps {
		name := tp.Name()
		if v := tp.Variance().String(); v != "" {
			name = v + " " + name
		}
		out = append(out, name)
	}
	return out
}

func typeString(t model.Type, void bool) string {
	switch {
	case void:
		return "void"
	case t == nil:
		return ""
	}
	return t.String()
}

// formatParameterList renders (Type name, Type* rest, fn(x)) in the order
// of the list
func formatParameterList(pl *model.ParameterList) string {
	parts := make([]string, len(pl.Parameters))
	for i, p := range pl.Parameters {
		var b strings.Builder
		if p.Type != nil {
			b.WriteString(p.Type.String())
			switch {
			case p.AtLeastOne:
				b.WriteString("+")
			case p.Sequenced:
				b.WriteString("*")
			}
			b.WriteString(" ")
		}
		b.WriteString(p.Name)
		for _, nested := range p.ParameterLists {
			b.WriteString(formatParameterList(nested))
		}
		if p.Defaulted {
			b.WriteString("=")
		}
		parts[i] = b.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func joinList(items []string) string { return strings.Join(items, ", ") }
