package types

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"

	"typedshell/pkg/typedtypes"
)

// Bytes is the "bytes" type, backed by []byte. Strings starting with "0x" are
// decoded as hex, any other string is taken as its raw bytes.
type Bytes struct {
	table
}

// NewBytes creates the bytes type.
func NewBytes() *Bytes {
	t := &Bytes{table: newTable()}
	t.formatters["hex"] = t.bytesFormatter(hex.EncodeToString)
	t.formatters["hexdump"] = t.bytesFormatter(Hexdump)
	t.formatters["repr"] = t.bytesFormatter(func(b []byte) string {
		return fmt.Sprintf("%q", b)
	})
	return t
}

func (t *Bytes) bytesFormatter(render func([]byte) string) typedtypes.FormatFunc {
	return func(v any, _ ...string) (string, error) {
		b, err := t.typed(v)
		if err != nil {
			return "", err
		}
		return render(b), nil
	}
}

func (t *Bytes) Name() string { return "bytes" }

func (t *Bytes) NativeType() reflect.Type { return reflect.TypeOf([]byte(nil)) }

func (t *Bytes) Convert(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		if len(v) > 2 && strings.HasPrefix(v, "0x") {
			data, err := hex.DecodeString(v[2:])
			if err != nil {
				return nil, typedtypes.NewConversionError("invalid hex string", "value", v).Wrap(err)
			}
			return data, nil
		}
		return []byte(v), nil
	}
	return nil, typedtypes.NewConversionError("bytes must be created from a byte slice or a hex string",
		"type", fmt.Sprintf("%T", value))
}

// ConvertBinary copies data so the caller's buffer can be reused.
func (t *Bytes) ConvertBinary(data []byte) (any, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (t *Bytes) typed(v any) ([]byte, error) {
	c, err := t.Convert(v)
	if err != nil {
		return nil, err
	}
	b, _ := c.([]byte)
	return b, nil
}

// Format renders the value as a 0x-prefixed hex string, which Convert reads back.
func (t *Bytes) Format(value any) (string, error) {
	b, err := t.typed(value)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(b), nil
}

const hexdumpWidth = 16

// Hexdump renders data as rows of 16 bytes: an 8 digit offset, the hex
// pairs padded to a fixed column and the printable ASCII characters, with
// every other byte shown as '.'. Rows are joined with newlines.
func Hexdump(data []byte) string {
	rows := make([]string, 0, (len(data)+hexdumpWidth-1)/hexdumpWidth)
	hexCol := hexdumpWidth*3 - 1

	for off := 0; off < len(data); off += hexdumpWidth {
		end := min(off+hexdumpWidth, len(data))
		chunk := data[off:end]

		pairs := make([]string, len(chunk))
		var ascii strings.Builder
		for i, c := range chunk {
			pairs[i] = fmt.Sprintf("%02x", c)
			if c >= 0x20 && c < 0x7f {
				ascii.WriteByte(c)
			} else {
				ascii.WriteByte('.')
			}
		}

		rows = append(rows, fmt.Sprintf("%08x  %-*s  %s", off, hexCol, strings.Join(pairs, " "), ascii.String()))
	}
	return strings.Join(rows, "\n")
}
