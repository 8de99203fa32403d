package model

import (
	"strings"
	"sync"
)

// SiteVariance is a variance annotation on a type parameter or argument
type SiteVariance int

const (
	// VarianceNone means invariant, or no use-site variance recorded
	VarianceNone SiteVariance = iota
	// VarianceOut is covariance
	VarianceOut
	// VarianceIn is contravariance
	VarianceIn
)

// String returns the signature keyword, or "" for VarianceNone
func (v SiteVariance) String() string {
	switch v {
	case VarianceOut:
		return "out"
	case VarianceIn:
		return "in"
	}
	return ""
}

// ParseVariance converts "in"/"out" to a variance; anything else is none
func ParseVariance(s string) SiteVariance {
	switch s {
	case "out":
		return VarianceOut
	case "in":
		return VarianceIn
	}
	return VarianceNone
}

// Type is a node of the type graph. A Type refers to its declaration but
// does not own it.
type Type interface {
	// Declaration returns the instantiated declaration, or nil for union
	// and intersection types
	Declaration() TypeDeclaration

	// QualifyingType returns the type a nested type was reached through
	QualifyingType() Type

	TypeArguments() []Type

	IsUnion() bool
	IsIntersection() bool

	// Equal compares two types structurally
	Equal(other Type) bool

	// String renders the type in signature grammar
	String() string
}

// SimpleType is a declaration applied to type arguments, optionally through
// a qualifying type.
type SimpleType struct {
	declaration TypeDeclaration
	qualifying  Type
	arguments   []Type

	mu       sync.RWMutex
	variance map[*TypeParameter]SiteVariance
}

// NewSimpleType creates an applied type. A mismatch between len(args) and
// the declaration's type parameters is the caller's problem.
func NewSimpleType(decl TypeDeclaration, qualifying Type, args []Type) *SimpleType {
	return &SimpleType{declaration: decl, qualifying: qualifying, arguments: args}
}

// Declaration returns the applied declaration
func (t *SimpleType) Declaration() TypeDeclaration { return t.declaration }

// QualifyingType returns the qualifying type, or nil
func (t *SimpleType) QualifyingType() Type { return t.qualifying }

// TypeArguments returns the type arguments
func (t *SimpleType) TypeArguments() []Type { return t.arguments }

// IsUnion returns false
func (t *SimpleType) IsUnion() bool { return false }

// IsIntersection returns false
func (t *SimpleType) IsIntersection() bool { return false }

// SetVariance records use-site variance for the argument of tp
func (t *SimpleType) SetVariance(tp *TypeParameter, v SiteVariance) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.variance == nil {
		t.variance = make(map[*TypeParameter]SiteVariance)
	}
	t.variance[tp] = v
}

// Variance returns the use-site variance recorded for tp
func (t *SimpleType) Variance(tp *TypeParameter) SiteVariance {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.variance[tp]
}

// ArgumentVariance returns the use-site variance of the i-th argument
func (t *SimpleType) ArgumentVariance(i int) SiteVariance {
	t.mu.RLock()
	empty := len(t.variance) == 0
	t.mu.RUnlock()
	if empty || t.declaration == nil {
		return VarianceNone
	}

	tps := t.declaration.TypeParameters()
	if i < 0 || i >= len(tps) {
		return VarianceNone
	}
	return t.Variance(tps[i])
}

// Equal compares declaration identity, qualifying type, arguments and
// argument variance.
func (t *SimpleType) Equal(other Type) bool {
	o, ok := other.(*SimpleType)
	if !ok || o == nil {
		return false
	}
	if !SameDeclaration(t.declaration, o.declaration) {
		return false
	}
	if !equalOptional(t.qualifying, o.qualifying) {
		return false
	}
	if len(t.arguments) != len(o.arguments) {
		return false
	}
	for i := range t.arguments {
		if !equalOptional(t.arguments[i], o.arguments[i]) {
			return false
		}
		if t.ArgumentVariance(i) != o.ArgumentVariance(i) {
			return false
		}
	}
	return true
}

// String renders pkg::Name<out A,B>, Outer.Inner or <A|B>.Inner
func (t *SimpleType) String() string {
	var b strings.Builder

	switch {
	case t.qualifying != nil && (t.qualifying.IsUnion() || t.qualifying.IsIntersection()):
		b.WriteString("<")
		b.WriteString(t.qualifying.String())
		b.WriteString(">.")
		b.WriteString(t.declaration.Name())
	case t.qualifying != nil:
		b.WriteString(t.qualifying.String())
		b.WriteString(".")
		b.WriteString(t.declaration.Name())
	case t.declaration == nil:
		b.WriteString("<nil>")
	case t.declaration.Kind() == KindTypeParameter:
		b.WriteString(t.declaration.Name())
	default:
		b.WriteString(t.declaration.QualifiedName())
	}

	if len(t.arguments) > 0 {
		b.WriteString("<")
		for i, arg := range t.arguments {
			if i > 0 {
				b.WriteString(",")
			}
			if v := t.ArgumentVariance(i); v != VarianceNone {
				b.WriteString(v.String())
				b.WriteString(" ")
			}
			if arg == nil {
				b.WriteString("<nil>")
			} else {
				b.WriteString(arg.String())
			}
		}
		b.WriteString(">")
	}
	return b.String()
}

// UnionType is an ordered disjunction of case types.
type UnionType struct {
	cases []Type
}

// NewUnionType creates a union of the given cases in order. It panics when
// cases is empty.
func NewUnionType(cases []Type) *UnionType {
	if len(cases) == 0 {
		panic("model: union type requires at least one case type")
	}
	return &UnionType{cases: cases}
}

// CaseTypes returns the case types in order
func (u *UnionType) CaseTypes() []Type { return u.cases }

// Declaration returns nil
func (u *UnionType) Declaration() TypeDeclaration { return nil }

// QualifyingType returns nil
func (u *UnionType) QualifyingType() Type { return nil }

// TypeArguments returns nil
func (u *UnionType) TypeArguments() []Type { return nil }

// IsUnion returns true
func (u *UnionType) IsUnion() bool { return true }

// IsIntersection returns false
func (u *UnionType) IsIntersection() bool { return false }

// Member returns the member called name only if every case type resolves it
// to the same declaration.
func (u *UnionType) Member(name string) Declaration {
	var found Declaration
	for i, c := range u.cases {
		d := MemberOfType(c, name)
		if d == nil {
			return nil
		}
		if i == 0 {
			found = d
		} else if !SameDeclaration(found, d) {
			return nil
		}
	}
	return found
}

// Equal compares case types pairwise in order
func (u *UnionType) Equal(other Type) bool {
	o, ok := other.(*UnionType)
	if !ok || o == nil {
		return false
	}
	return equalLists(u.cases, o.cases)
}

// String renders A|B|C
func (u *UnionType) String() string { return joinTypes(u.cases, "|") }

// IntersectionType is an ordered conjunction of satisfied types.
type IntersectionType struct {
	satisfied []Type
}

// NewIntersectionType creates an intersection of the given types in order.
// It panics when satisfied is empty.
func NewIntersectionType(satisfied []Type) *IntersectionType {
	if len(satisfied) == 0 {
		panic("model: intersection type requires at least one satisfied type")
	}
	return &IntersectionType{satisfied: satisfied}
}

// SatisfiedTypes returns the satisfied types in order
func (i *IntersectionType) SatisfiedTypes() []Type { return i.satisfied }

// Declaration returns nil
func (i *IntersectionType) Declaration() TypeDeclaration { return nil }

// QualifyingType returns nil
func (i *IntersectionType) QualifyingType() Type { return nil }

// TypeArguments returns nil
func (i *IntersectionType) TypeArguments() []Type { return nil }

// IsUnion returns false
func (i *IntersectionType) IsUnion() bool { return false }

// IsIntersection returns true
func (i *IntersectionType) IsIntersection() bool { return true }

// Member returns the member of the first satisfied type declaring name
func (i *IntersectionType) Member(name string) Declaration {
	for _, st := range i.satisfied {
		if d := MemberOfType(st, name); d != nil {
			return d
		}
	}
	return nil
}

// Equal compares satisfied types pairwise in order
func (i *IntersectionType) Equal(other Type) bool {
	o, ok := other.(*IntersectionType)
	if !ok || o == nil {
		return false
	}
	return equalLists(i.satisfied, o.satisfied)
}

// String renders A&B&C
func (i *IntersectionType) String() string { return joinTypes(i.satisfied, "&") }

func equalOptional(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func equalLists(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalOptional(a[i], b[i]) {
			return false
		}
	}
	return true
}

func joinTypes(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}
