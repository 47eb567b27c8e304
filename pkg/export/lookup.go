package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// field is one key/value pair of a JSON object, kept in document order
type field struct {
	key   string
	value any
}

// object is a JSON object whose members keep their document order, so that
// lookups over it are deterministic for a given file.
type object []field

// decodeOrdered parses data into object, []any and scalar values
func decodeOrdered(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		var obj object
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is not a string: %v", keyTok)
			}
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj = append(obj, field{key: key, value: value})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		var arr []any
		for dec.More() {
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}

// lookupString does a pre-order depth-first search for key. The members of
// an object are checked before any of its nested objects is entered, and
// nested objects are entered in document order. Only string values match.
// Arrays are not descended into, so titles of shared links inside the
// messages array are never picked up.
func lookupString(v any, key string) (string, bool) {
	obj, ok := v.(object)
	if !ok {
		return "", false
	}

	for _, f := range obj {
		if f.key != key {
			continue
		}
		if s, ok := f.value.(string); ok {
			return s, true
		}
	}

	for _, f := range obj {
		if s, ok := lookupString(f.value, key); ok {
			return s, true
		}
	}

	return "", false
}
