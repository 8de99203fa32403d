// Package artifact stores compiled units as msgpack-encoded module artifacts
// and exposes them to the loader through the mirror interfaces.
package artifact

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the record layout changes
const SchemaVersion uint16 = 1

// Flags are the access and inheritance modifiers of a compiled element
type Flags uint16

const (
	FlagStatic Flags = 1 << iota
	FlagPublic
	FlagProtected
	FlagPrivate
	FlagAbstract
	FlagFinal
)

func (f Flags) IsStatic() bool    { return f&FlagStatic != 0 }
func (f Flags) IsPublic() bool    { return f&FlagPublic != 0 }
func (f Flags) IsProtected() bool { return f&FlagProtected != 0 }
func (f Flags) IsAbstract() bool  { return f&FlagAbstract != 0 }
func (f Flags) IsFinal() bool     { return f&FlagFinal != 0 }

// IsDefaultAccess reports package-private access
func (f Flags) IsDefaultAccess() bool {
	return f&(FlagPublic|FlagProtected|FlagPrivate) == 0
}

// Artifact is the compiled form of one module version
type Artifact struct {
	Schema   uint16     `msgpack:"schema"`
	Module   string     `msgpack:"module"`
	Version  string     `msgpack:"version"`
	Packages []*Package `msgpack:"packages"`
}

// Package groups the toplevel units of one package. Nested units live
// under their enclosing class.
type Package struct {
	Name    string   `msgpack:"name"`
	Classes []*Class `msgpack:"classes,omitempty"`
}

// Annotation is a metadata annotation
type Annotation struct {
	Name   string   `msgpack:"name"`
	Value  string   `msgpack:"value,omitempty"`
	Values []string `msgpack:"values,omitempty"`
}

// TypeParameter is a declared type parameter
type TypeParameter struct {
	Name     string   `msgpack:"name"`
	Variance string   `msgpack:"variance,omitempty"`
	Bounds   []string `msgpack:"bounds,omitempty"`
}

// Parameter is a method parameter as compiled, synthetic ones included
type Parameter struct {
	Type        string       `msgpack:"type"`
	Annotations []Annotation `msgpack:"annotations,omitempty"`
}

// Method is a method or constructor
type Method struct {
	Name           string          `msgpack:"name"`
	Flags          Flags           `msgpack:"flags"`
	Constructor    bool            `msgpack:"constructor,omitempty"`
	Variadic       bool            `msgpack:"variadic,omitempty"`
	Overriding     bool            `msgpack:"overriding,omitempty"`
	ReturnType     string          `msgpack:"return_type,omitempty"`
	TypeParameters []TypeParameter `msgpack:"type_parameters,omitempty"`
	Parameters     []Parameter     `msgpack:"parameters,omitempty"`
	Annotations    []Annotation    `msgpack:"annotations,omitempty"`
}

// Field is a field of a class
type Field struct {
	Name        string       `msgpack:"name"`
	Flags       Flags        `msgpack:"flags"`
	Type        string       `msgpack:"type"`
	Annotations []Annotation `msgpack:"annotations,omitempty"`
}

// Class is a compiled unit. Local and anonymous classes name the method of
// the enclosing class they are declared in.
type Class struct {
	Name            string          `msgpack:"name"`
	Flags           Flags           `msgpack:"flags"`
	Interface       bool            `msgpack:"interface,omitempty"`
	Enum            bool            `msgpack:"enum,omitempty"`
	Anonymous       bool            `msgpack:"anonymous,omitempty"`
	Local           bool            `msgpack:"local,omitempty"`
	FromSource      bool            `msgpack:"from_source,omitempty"`
	EnclosingMethod string          `msgpack:"enclosing_method,omitempty"`
	TypeParameters  []TypeParameter `msgpack:"type_parameters,omitempty"`
	SuperClass      string          `msgpack:"super_class,omitempty"`
	Interfaces      []string        `msgpack:"interfaces,omitempty"`
	Annotations     []Annotation    `msgpack:"annotations,omitempty"`
	Methods         []Method        `msgpack:"methods,omitempty"`
	Fields          []Field         `msgpack:"fields,omitempty"`
	Inner           []*Class        `msgpack:"inner,omitempty"`
}

// New returns an empty artifact for module at version
func New(module, version string) *Artifact {
	return &Artifact{Schema: SchemaVersion, Module: module, Version: version}
}

// Package returns the package called name, creating it if needed
func (a *Artifact) Package(name string) *Package {
	for _, p := range a.Packages {
		if p.Name == name {
			return p
		}
	}
	p := &Package{Name: name}
	a.Packages = append(a.Packages, p)
	return p
}

// Write encodes a to w
func Write(w io.Writer, a *Artifact) error {
	if a.Schema == 0 {
		a.Schema = SchemaVersion
	}
	return msgpack.NewEncoder(w).Encode(a)
}

// Read decodes an artifact from r and checks its schema version
func Read(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := msgpack.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if a.Schema != SchemaVersion {
		return nil, fmt.Errorf("artifact %s has schema %d, want %d", a.Module, a.Schema, SchemaVersion)
	}
	if a.Module == "" {
		return nil, fmt.Errorf("artifact has no module name")
	}
	return &a, nil
}

// Open reads the artifact stored at path
func Open(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Save writes a to path, replacing any existing file atomically
func Save(path string, a *Artifact) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if err = Write(f, a); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
