// Package pool reads declarative type pool files and builds them into a
// description.Pool. Pools are written in TOML or YAML and compiled into a
// canonical CBOR image (.bbi) that loads identically.
package pool

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"
)

var log = commonlog.GetLogger("bytebind.pool")

// File is one pool declaration file.
type File struct {
	Types []TypeDecl `toml:"type" yaml:"types" cbor:"1,keyasint" validate:"dive"`
}

// TypeDecl declares a class, interface or annotation type.
type TypeDecl struct {
	Name        string           `toml:"name" yaml:"name" cbor:"1,keyasint" validate:"required"`
	Kind        string           `toml:"kind" yaml:"kind" cbor:"2,keyasint,omitempty" validate:"omitempty,oneof=class interface annotation"`
	Modifiers   []string         `toml:"modifiers" yaml:"modifiers" cbor:"3,keyasint,omitempty"`
	Super       string           `toml:"super" yaml:"super" cbor:"4,keyasint,omitempty"`
	Interfaces  []string         `toml:"interfaces" yaml:"interfaces" cbor:"5,keyasint,omitempty" validate:"dive,required"`
	Annotations []AnnotationDecl `toml:"annotation" yaml:"annotations" cbor:"6,keyasint,omitempty" validate:"dive"`
	Methods     []MethodDecl     `toml:"method" yaml:"methods" cbor:"7,keyasint,omitempty" validate:"dive"`
}

// MethodDecl declares a method. The name "<init>" declares a constructor.
type MethodDecl struct {
	Name        string           `toml:"name" yaml:"name" cbor:"1,keyasint" validate:"required"`
	Modifiers   []string         `toml:"modifiers" yaml:"modifiers" cbor:"2,keyasint,omitempty"`
	Returns     string           `toml:"returns" yaml:"returns" cbor:"3,keyasint,omitempty"`
	Parameters  []ParameterDecl  `toml:"parameter" yaml:"parameters" cbor:"4,keyasint,omitempty" validate:"dive"`
	Annotations []AnnotationDecl `toml:"annotation" yaml:"annotations" cbor:"5,keyasint,omitempty" validate:"dive"`
	Throws      []string         `toml:"throws" yaml:"throws" cbor:"6,keyasint,omitempty" validate:"dive,required"`
}

// ParameterDecl declares one method parameter.
type ParameterDecl struct {
	Type        string           `toml:"type" yaml:"type" cbor:"1,keyasint" validate:"required"`
	Annotations []AnnotationDecl `toml:"annotation" yaml:"annotations" cbor:"2,keyasint,omitempty" validate:"dive"`
}

// AnnotationDecl declares an annotation with its element values.
type AnnotationDecl struct {
	Type   string         `toml:"type" yaml:"type" cbor:"1,keyasint" validate:"required"`
	Values map[string]any `toml:"values" yaml:"values" cbor:"2,keyasint,omitempty"`
}

var validate = validator.New()

// Validate checks the structural constraints of f.
func (f *File) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("pool: invalid declaration: %w", err)
	}
	return nil
}

// Merge concatenates the declarations of files.
func Merge(files ...*File) *File {
	merged := &File{}
	for _, f := range files {
		merged.Types = append(merged.Types, f.Types...)
	}
	return merged
}

// DecodeTOML parses a TOML pool. Unknown keys are an error.
func DecodeTOML(data []byte) (*File, error) {
	var f File
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("pool: parse toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("pool: unknown keys %s", strings.Join(keys, ", "))
	}
	return &f, nil
}

// DecodeYAML parses a YAML pool. Unknown keys are an error.
func DecodeYAML(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("pool: parse yaml: %w", err)
	}
	return &f, nil
}

// ReadFile decodes a pool file by extension: .toml, .yaml, .yml or .bbi.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var f *File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		f, err = DecodeTOML(data)
	case ".yaml", ".yml":
		f, err = DecodeYAML(data)
	case ImageExtension:
		f, err = UnmarshalImage(data)
	default:
		return nil, fmt.Errorf("pool: %s: unsupported file type %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("read %d type declarations from %s", len(f.Types), path)
	return f, nil
}

// ReadFiles decodes and merges every path.
func ReadFiles(paths ...string) (*File, error) {
	files := make([]*File, 0, len(paths))
	for _, p := range paths {
		f, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return Merge(files...), nil
}
