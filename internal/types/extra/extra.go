// Package extra contributes the semver and uuid types to the default plugin
// group. Importing it for side effects makes both types resolvable, on first
// use, from any registry that consults typesys.DefaultPluginGroup.
package extra

import (
	"typedshell/internal/types"
	"typedshell/internal/typesys"
	"typedshell/pkg/typedtypes"
)

func init() {
	typesys.RegisterPlugin(typesys.DefaultPluginGroup, typesys.PluginEntry{
		Name: "semver",
		Load: func() (typedtypes.Module, error) {
			return typedtypes.Module{"semver": types.NewSemver()}, nil
		},
	})
	typesys.RegisterPlugin(typesys.DefaultPluginGroup, typesys.PluginEntry{
		Name: "uuid",
		Load: func() (typedtypes.Module, error) {
			return typedtypes.Module{"uuid": types.NewUUID()}, nil
		},
	})
}
