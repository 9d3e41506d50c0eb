package typesys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typedshell/internal/types"
	"typedshell/pkg/typedtypes"
)

// fixedWidth is a 4 byte big-endian integer type with a binary form.
type fixedWidth struct {
	*types.Integer
}

func (fixedWidth) Size() int { return 4 }

func (fixedWidth) ConvertBinary(data []byte) (any, error) {
	return int64(data[0])<<24 | int64(data[1])<<16 | int64(data[2])<<8 | int64(data[3]), nil
}

func TestConvert_IntegerRoundTrip(t *testing.T) {
	r := New()

	v, err := r.Convert("42", "integer")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	out, err := r.Format(int64(42), "integer", "")
	require.NoError(t, err)
	assert.Equal(t, "42", out)

	out, err = r.Format(42, "integer", "hex")
	require.NoError(t, err)
	assert.Equal(t, "0x2A", out)

	out, err = r.Format("42", "integer", "default")
	require.NoError(t, err)
	assert.Equal(t, "42", out)
}

func TestConvert_Idempotent(t *testing.T) {
	r := New()

	tests := []struct {
		typeName string
		value    any
	}{
		{"integer", "0x10"},
		{"float", "2.5"},
		{"bool", "TRUE"},
		{"bytes", "0xabcd"},
		{"string", "hello"},
		{"path", "/var/log"},
		{"dict", `{"k": [1, 2]}`},
		{"list(integer)", "[1, 2, 3]"},
		{"map(string,integer)", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			once, err := r.Convert(tt.value, tt.typeName)
			require.NoError(t, err)
			twice, err := r.Convert(once, tt.typeName)
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		})
	}
}

func TestConvert_NilPropagates(t *testing.T) {
	r := New()
	for _, name := range []string{"integer", "bool", "bytes", "list(integer)", "map(string,integer)", "nosuchtype"} {
		v, err := r.Convert(nil, name)
		assert.NoError(t, err, name)
		assert.Nil(t, v, name)
	}
}

func TestConvert_Bool(t *testing.T) {
	r := New()

	tests := []struct {
		input any
		want  any
	}{
		{"True", true},
		{"false", false},
		{0, false},
		{1, true},
	}
	for _, tt := range tests {
		got, err := r.Convert(tt.input, "bool")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := r.Convert("maybe", "bool")
	require.Error(t, err)
	assert.ErrorIs(t, err, typedtypes.ErrValidation)
	assert.ErrorIs(t, err, typedtypes.ErrConversion)
}

func TestConvert_Bytes(t *testing.T) {
	r := New()

	fromString, err := r.Convert("0xabcd", "bytes")
	require.NoError(t, err)
	fromBytes, err := r.Convert([]byte{0xab, 0xcd}, "bytes")
	require.NoError(t, err)
	assert.Equal(t, fromString, fromBytes)

	out, err := r.Format([]byte{0xAB, 0x0C}, "bytes", "hex")
	require.NoError(t, err)
	assert.Equal(t, "ab0c", out)

	data := make([]byte, 20)
	dump, err := r.Format(data, "bytes", "hexdump")
	require.NoError(t, err)
	assert.Equal(t, types.Hexdump(data), dump)
}

func TestConvertBinary_SizeCheck(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("uint32_be", fixedWidth{types.NewInteger()}))

	v, err := r.ConvertBinary([]byte{0, 0, 1, 0}, "uint32_be")
	require.NoError(t, err)
	assert.Equal(t, int64(256), v)

	v, err = r.Convert([]byte{0, 0, 0, 7}, "uint32_be")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	_, err = r.ConvertBinary([]byte{1, 2}, "uint32_be")
	require.Error(t, err)
	assert.ErrorIs(t, err, typedtypes.ErrArgument)

	_, err = r.ConvertBinary([]byte{1}, "integer")
	assert.ErrorIs(t, err, typedtypes.ErrArgument)
}

func TestConvert_List(t *testing.T) {
	r := New()

	v, err := r.Convert("[1, 2, 3]", "list(integer)")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, v)

	v, err = r.Convert([]string{"0x10", "7"}, "list(integer)")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(16), int64(7)}, v)

	_, err = r.Convert("[1, 'a']", "list(integer)")
	assert.ErrorIs(t, err, typedtypes.ErrValidation)

	_, err = r.Convert("5", "list(integer)")
	assert.ErrorIs(t, err, typedtypes.ErrValidation)

	v, err = r.Convert(nil, "list(integer)")
	require.NoError(t, err)
	assert.Nil(t, v)

	out, err := r.Format([]int{1, 2}, "list(integer)", "")
	require.NoError(t, err)
	assert.Equal(t, "1\n2", out)

	out, err = r.Format([]int{10, 11}, "list(integer)", "compact")
	require.NoError(t, err)
	assert.Equal(t, "[10, 11]", out)

	out, err = r.Format([]int{10, 11}, "list(integer)", "compact", "hex")
	require.NoError(t, err)
	assert.Equal(t, "[0xA, 0xB]", out)

	out, err = r.Format("[[1, 2], [3]]", "list(list(integer))", "compact", "compact")
	require.NoError(t, err)
	assert.Equal(t, "[[1, 2], [3]]", out)
}

func TestFormat_Map(t *testing.T) {
	r := New()

	out, err := r.Format(map[string]int{"hello": 5}, "map(string,integer)", "")
	require.NoError(t, err)
	assert.Equal(t, "hello: 5", out)

	out, err = r.Format(`{"b": 2, "a": 1}`, "map(string,integer)", "")
	require.NoError(t, err)
	assert.Equal(t, "a: 1\nb: 2", out)

	out, err = r.Format(map[string]int{"b": 11, "a": 10}, "map(string,integer)", "one_line")
	require.NoError(t, err)
	assert.Equal(t, "{a: 10, b: 11}", out)

	out, err = r.Format(map[string]int{"b": 11, "a": 10}, "map(string,integer)", "one_line", "repr", "hex")
	require.NoError(t, err)
	assert.Equal(t, `{"a": 0xA, "b": 0xB}`, out)

	out, err = r.Format(map[string]int{}, "map(string,integer)", "one_line")
	require.NoError(t, err)
	assert.Equal(t, "{}", out)

	numeric := map[int]string{1: "a", 10: "b", 2: "c"}
	out, err = r.Format(numeric, "map(integer,string)", "")
	require.NoError(t, err)
	assert.Equal(t, "1: a\n2: c\n10: b", out)

	out, err = r.Format(numeric, "map(integer,string)", "one_line")
	require.NoError(t, err)
	assert.Equal(t, "{1: a, 2: c, 10: b}", out)

	_, err = r.Format(map[string]int{"a": 1}, "map(string,integer)", "one_line", "", "bogus")
	assert.ErrorIs(t, err, typedtypes.ErrValidation)

	_, err = r.Convert(`{"a": "x"}`, "map(string,integer)")
	assert.ErrorIs(t, err, typedtypes.ErrValidation)
}

func TestFormat_UnknownFormatter(t *testing.T) {
	r := New()

	_, err := r.Format(1, "integer", "binary")
	require.Error(t, err)
	assert.ErrorIs(t, err, typedtypes.ErrArgument)
	assert.Contains(t, err.Error(), "Unknown format for type")

	known, err := r.IsKnownFormat("integer", "hex")
	require.NoError(t, err)
	assert.True(t, known)

	known, err = r.IsKnownFormat("integer", "binary")
	require.NoError(t, err)
	assert.False(t, known)
}

func TestFormat_NilValue(t *testing.T) {
	out, err := New().Format(nil, "integer", "hex")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestValidate(t *testing.T) {
	r := New()

	assert.NoError(t, r.Validate(int64(5), "integer", "range", 1, 10))

	err := r.Validate(int64(-1), "integer", "nonnegative")
	require.Error(t, err)
	assert.ErrorIs(t, err, typedtypes.ErrValidation)

	err = r.Validate(int64(1), "integer", "prime")
	assert.ErrorIs(t, err, typedtypes.ErrValidation)
}
