package types

import (
	"fmt"
	"reflect"

	"github.com/Masterminds/semver/v3"

	"typedshell/pkg/typedtypes"
)

// Semver is the "semver" type, backed by *semver.Version.
type Semver struct {
	table
}

// NewSemver creates the semver type.
func NewSemver() *Semver {
	t := &Semver{table: newTable()}
	t.formatters["short"] = func(v any, _ ...string) (string, error) {
		sv, err := t.typed(v)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d.%d.%d", sv.Major(), sv.Minor(), sv.Patch()), nil
	}
	t.validators["constraint"] = func(v any, args ...any) error {
		sv, ok := v.(*semver.Version)
		if !ok || sv == nil {
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("constraint validator takes 1 argument, got %d", len(args))
		}
		c, err := semver.NewConstraint(fmt.Sprint(args[0]))
		if err != nil {
			return fmt.Errorf("invalid version constraint %q: %w", args[0], err)
		}
		if !c.Check(sv) {
			return fmt.Errorf("version %s does not satisfy %s", sv, args[0])
		}
		return nil
	}
	return t
}

func (t *Semver) Name() string { return "semver" }

func (t *Semver) NativeType() reflect.Type { return reflect.TypeOf((*semver.Version)(nil)) }

func (t *Semver) Convert(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *semver.Version:
		return v, nil
	case semver.Version:
		return &v, nil
	case string:
		sv, err := semver.NewVersion(v)
		if err != nil {
			return nil, typedtypes.NewConversionError("invalid semantic version", "value", v).Wrap(err)
		}
		return sv, nil
	}
	return nil, typedtypes.NewConversionError("unknown argument type", "type", fmt.Sprintf("%T", value))
}

func (t *Semver) typed(v any) (*semver.Version, error) {
	c, err := t.Convert(v)
	if err != nil {
		return nil, err
	}
	sv, _ := c.(*semver.Version)
	if sv == nil {
		return nil, typedtypes.NewConversionError("no version given")
	}
	return sv, nil
}

func (t *Semver) Format(value any) (string, error) {
	sv, err := t.typed(value)
	if err != nil {
		return "", err
	}
	return sv.String(), nil
}
