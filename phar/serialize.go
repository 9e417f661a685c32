package phar

import (
	"fmt"
	"strconv"
	"strings"
)

// Entry is a single key of an ordered PHP array
type Entry struct {
	Key   string
	Value interface{}
}

// Metadata is stored in the archive as a serialized PHP array, keeping the
// order of its entries
type Metadata []Entry

// Get returns the value of the first entry with the key
func (m Metadata) Get(key string) (interface{}, bool) {
	for _, entry := range m {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// Serialize encodes a value the same way as PHP's `serialize`. Supported
// values are strings, integers, booleans, nil, string and value lists, and
// Metadata
func Serialize(value interface{}) (string, error) {
	var out strings.Builder
	if err := serializeValue(&out, value); err != nil {
		return "", err
	}
	return out.String(), nil
}

func serializeString(out *strings.Builder, s string) {
	// PHP counts the length in bytes
	fmt.Fprintf(out, `s:%d:"%s";`, len(s), s)
}

func serializeValue(out *strings.Builder, value interface{}) error {
	switch v := value.(type) {
	case nil:
		out.WriteString("N;")
	case bool:
		if v {
			out.WriteString("b:1;")
		} else {
			out.WriteString("b:0;")
		}
	case int:
		out.WriteString("i:" + strconv.Itoa(v) + ";")
	case int64:
		out.WriteString("i:" + strconv.FormatInt(v, 10) + ";")
	case string:
		serializeString(out, v)
	case []string:
		fmt.Fprintf(out, "a:%d:{", len(v))
		for ind, item := range v {
			fmt.Fprintf(out, "i:%d;", ind)
			serializeString(out, item)
		}
		out.WriteString("}")
	case []interface{}:
		fmt.Fprintf(out, "a:%d:{", len(v))
		for ind, item := range v {
			fmt.Fprintf(out, "i:%d;", ind)
			if err := serializeValue(out, item); err != nil {
				return err
			}
		}
		out.WriteString("}")
	case Metadata:
		fmt.Fprintf(out, "a:%d:{", len(v))
		for _, entry := range v {
			serializeString(out, entry.Key)
			if err := serializeValue(out, entry.Value); err != nil {
				return fmt.Errorf("%s: %w", entry.Key, err)
			}
		}
		out.WriteString("}")
	default:
		return fmt.Errorf("can not serialize value of type %T", value)
	}
	return nil
}
