package types

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"typedshell/pkg/typedtypes"
)

// UUID is the "uuid" type, backed by uuid.UUID. It converts from the 16 byte
// binary form as well as from text.
type UUID struct {
	table
}

// NewUUID creates the uuid type.
func NewUUID() *UUID {
	t := &UUID{table: newTable()}
	t.formatters["urn"] = func(v any, _ ...string) (string, error) {
		id, err := t.typed(v)
		if err != nil {
			return "", err
		}
		return id.URN(), nil
	}
	t.validators["version"] = func(v any, args ...any) error {
		id, ok := v.(uuid.UUID)
		if !ok {
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("version validator takes 1 argument, got %d", len(args))
		}
		want, err := numericArg(args[0])
		if err != nil {
			return err
		}
		if int(id.Version()) != int(want) {
			return fmt.Errorf("uuid is version %d, want %d", id.Version(), int(want))
		}
		return nil
	}
	return t
}

func (t *UUID) Name() string { return "uuid" }

func (t *UUID) NativeType() reflect.Type { return reflect.TypeOf(uuid.UUID{}) }

func (t *UUID) Size() int { return 16 }

func (t *UUID) Convert(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, typedtypes.NewConversionError("invalid uuid", "value", v).Wrap(err)
		}
		return id, nil
	}
	return nil, typedtypes.NewConversionError("unknown argument type", "type", fmt.Sprintf("%T", value))
}

func (t *UUID) ConvertBinary(data []byte) (any, error) {
	id, err := uuid.FromBytes(data)
	if err != nil {
		return nil, typedtypes.NewConversionError("invalid uuid bytes").Wrap(err)
	}
	return id, nil
}

func (t *UUID) typed(v any) (uuid.UUID, error) {
	c, err := t.Convert(v)
	if err != nil {
		return uuid.Nil, err
	}
	id, _ := c.(uuid.UUID)
	return id, nil
}

func (t *UUID) Format(value any) (string, error) {
	id, err := t.typed(value)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
