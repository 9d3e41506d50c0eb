package typesys

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"typedshell/internal/types"
	"typedshell/pkg/typedtypes"
)

// TypeDecl declares one type in an external type file. Exactly one of Alias
// and Choices must be set.
type TypeDecl struct {
	Alias   string   `yaml:"alias" toml:"alias"`
	Choices []string `yaml:"choices" toml:"choices"`
}

// ReadTypeFile parses a YAML (.yaml, .yml) or TOML (.toml) type file whose
// top-level keys are type names.
func ReadTypeFile(path string) (map[string]TypeDecl, error) {
	decls := make(map[string]TypeDecl)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &decls); err != nil {
			return nil, typedtypes.NewArgumentError("could not load external types", "path", path).Wrap(err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, typedtypes.NewArgumentError("could not load external types", "path", path).Wrap(err)
		}
		if err := yaml.Unmarshal(data, &decls); err != nil {
			return nil, typedtypes.NewArgumentError("could not load external types", "path", path).Wrap(err)
		}
	default:
		return nil, typedtypes.NewArgumentError("unsupported type file extension", "path", path)
	}
	return decls, nil
}

// BuildModule turns declarations into a type module. Aliases are resolved
// against r, so they may refer to composite types or to types from other
// sources.
func (r *Registry) BuildModule(decls map[string]TypeDecl) (typedtypes.Module, error) {
	mod := make(typedtypes.Module, len(decls))
	for name, d := range decls {
		switch {
		case d.Alias != "" && len(d.Choices) > 0:
			return nil, typedtypes.NewTypeSystemError("type declares both alias and choices", "type", name)
		case d.Alias != "":
			target, err := r.Resolve(d.Alias)
			if err != nil {
				return nil, err
			}
			mod[name] = &aliasType{name: Canonicalize(name), target: target}
		case len(d.Choices) > 0:
			mod[name] = types.NewEnum(Canonicalize(name), d.Choices)
		default:
			return nil, typedtypes.NewTypeSystemError("type declares neither alias nor choices", "type", name)
		}
	}
	return mod, nil
}

// LoadExternalTypes reads a type file and registers its types, returning how
// many were registered. Individual registration failures are skipped.
func (r *Registry) LoadExternalTypes(path string) (int, error) {
	decls, err := ReadTypeFile(path)
	if err != nil {
		return 0, err
	}
	mod, err := r.BuildModule(decls)
	if err != nil {
		return 0, err
	}
	n := r.LoadTypeModule(mod)
	r.logger.Debug("Loaded external types", "path", path, "count", n)
	return n, nil
}

// FileSource returns a lazy source that loads a type file when consulted.
func FileSource(path string) SourceFunc {
	return func(r *Registry) error {
		_, err := r.LoadExternalTypes(path)
		return err
	}
}
