// Package manifest handles bytebind.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/chazu/bytebind/assign"
	"github.com/chazu/bytebind/bind"
	"github.com/chazu/bytebind/bind/annotation"
	"github.com/chazu/bytebind/lookup"
)

// FileName is the name of the project configuration file.
const FileName = "bytebind.toml"

// Manifest represents a bytebind.toml project configuration.
type Manifest struct {
	Project Project      `toml:"project"`
	Lookup  LookupConfig `toml:"lookup"`
	Binder  BinderConfig `toml:"binder"`
	Pool    PoolConfig   `toml:"pool"`

	// Dir is the directory containing the bytebind.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// LookupConfig configures the method lookup engine.
type LookupConfig struct {
	ExtractDefaultMethods bool `toml:"extract-default-methods"`
}

// BinderConfig configures the delegation binder.
type BinderConfig struct {
	Binders     []string `toml:"binders" validate:"dive,oneof=Argument AllArguments This Origin SuperCall DefaultCall Empty StubValue"`
	Defaults    string   `toml:"defaults" validate:"oneof=next-unbound empty"`
	Termination string   `toml:"termination" validate:"oneof=returning dropping"`
	Resolvers   []string `toml:"resolvers" validate:"dive,oneof=binding-priority declaring-type argument-type method-name parameter-length"`
	Resolution  string   `toml:"resolution" validate:"oneof=tournament unique"`
	Log         bool     `toml:"log"`
}

// PoolConfig lists the type pool files of the project.
type PoolConfig struct {
	Sources []string `toml:"sources" validate:"dive,required"`
}

// Default returns the configuration used for absent keys.
func Default() *Manifest {
	return &Manifest{
		Lookup: LookupConfig{ExtractDefaultMethods: true},
		Binder: BinderConfig{
			Binders: []string{
				"Argument", "AllArguments", "This", "Origin",
				"SuperCall", "DefaultCall", "Empty", "StubValue",
			},
			Defaults:    "next-unbound",
			Termination: "returning",
			Resolvers: []string{
				"binding-priority", "declaring-type", "argument-type",
				"method-name", "parameter-length",
			},
			Resolution: "tournament",
		},
	}
}

var validate = validator.New()

// Validate checks the configured names.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return nil
}

// Load parses a bytebind.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// FindAndLoad walks up from startDir to find a bytebind.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// PoolPaths returns absolute paths for the configured pool sources.
func (m *Manifest) PoolPaths() []string {
	var paths []string
	for _, s := range m.Pool.Sources {
		if filepath.IsAbs(s) {
			paths = append(paths, s)
			continue
		}
		paths = append(paths, filepath.Join(m.Dir, s))
	}
	return paths
}

// Engine returns the configured lookup engine.
func (m *Manifest) Engine() *lookup.Engine {
	return lookup.NewEngine(m.Lookup.ExtractDefaultMethods)
}

var resolvers = map[string]bind.AmbiguityResolver{
	"binding-priority": annotation.BindingPriority,
	"declaring-type":   bind.DeclaringTypeResolver,
	"argument-type":    bind.ArgumentTypeResolver,
	"method-name":      bind.MethodNameEqualityResolver,
	"parameter-length": bind.ParameterLengthResolver,
}

// AmbiguityResolver chains the configured resolvers in order.
func (m *Manifest) AmbiguityResolver() (bind.AmbiguityResolver, error) {
	chain := make([]bind.AmbiguityResolver, 0, len(m.Binder.Resolvers))
	for _, name := range m.Binder.Resolvers {
		r, ok := resolvers[name]
		if !ok {
			return nil, fmt.Errorf("unknown resolver %q", name)
		}
		chain = append(chain, r)
	}
	return bind.Compound(chain...), nil
}

// BindingResolver returns the configured binding resolver.
func (m *Manifest) BindingResolver() bind.BindingResolver {
	r := bind.DefaultBindingResolver
	if m.Binder.Resolution == "unique" {
		r = bind.UniqueBindingResolver
	}
	if m.Binder.Log {
		r = bind.LoggingBindingResolver(r)
	}
	return r
}

// NewBinder returns the annotation binder with the configured parameter
// binders, defaults provider and termination handler.
func (m *Manifest) NewBinder() (*annotation.Binder, error) {
	binders := make([]annotation.ParameterBinder, 0, len(m.Binder.Binders))
	for _, name := range m.Binder.Binders {
		b, ok := annotation.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown binder %q", name)
		}
		binders = append(binders, b)
	}
	var defaults annotation.DefaultsProvider = annotation.NextUnbound
	if m.Binder.Defaults == "empty" {
		defaults = annotation.EmptyDefaults
	}
	termination := bind.Returning
	if m.Binder.Termination == "dropping" {
		termination = bind.Dropping
	}
	return annotation.NewBinder(binders, defaults, termination, assign.Default, bind.SimpleInvoker)
}

// Processor returns the delegation processor the manifest describes.
func (m *Manifest) Processor() (*bind.Processor, error) {
	binder, err := m.NewBinder()
	if err != nil {
		return nil, err
	}
	ambiguity, err := m.AmbiguityResolver()
	if err != nil {
		return nil, err
	}
	return bind.NewProcessor(binder, ambiguity, m.BindingResolver()), nil
}
