package keypath

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// JSON registers DecodeJSON for the ".json" extension.
var JSON = NewFormat(".json", DecodeJSON)

// Unmarshalers returns the set of unmarshalers decoding into:
//   - any/interface{} -> objects as D, arrays as A
//   - *D              -> direct ordered object decoding
//   - *A              -> direct array decoding
//
// Primitive values are left to the default json logic.
func Unmarshalers() *json.Unmarshalers {
	return json.JoinUnmarshalers(
		unmarshalValue(),
		unmarshalDocument(),
		unmarshalCollection(),
	)
}

// DecodeJSON decodes a JSON object into an ordered document. The root value
// must be an object.
func DecodeJSON(data []byte) (D, error) {
	var out any
	if err := json.Unmarshal(data, &out, json.WithUnmarshalers(Unmarshalers())); err != nil {
		return nil, err
	}
	d, ok := out.(D)
	if !ok {
		return nil, fmt.Errorf("decode json: root must be an object (got %T)", out)
	}
	return d, nil
}

func unmarshalValue() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *any) error {
		switch dec.PeekKind() {
		case '{':
			d, err := decodeObject(dec)
			if err != nil {
				return err
			}
			*v = d
			return nil
		case '[':
			arr, err := decodeArray(dec)
			if err != nil {
				return err
			}
			*v = arr
			return nil
		default:
			return json.SkipFunc
		}
	})
}

func unmarshalDocument() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *D) error {
		if dec.PeekKind() != '{' {
			return json.SkipFunc
		}
		d, err := decodeObject(dec)
		if err != nil {
			return err
		}
		*v = d
		return nil
	})
}

func unmarshalCollection() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *A) error {
		if dec.PeekKind() != '[' {
			return json.SkipFunc
		}
		arr, err := decodeArray(dec)
		if err != nil {
			return err
		}
		*v = arr
		return nil
	})
}

// decodeObject decodes a JSON object into a D, keeping member order.
func decodeObject(dec *jsontext.Decoder) (D, error) {
	if _, err := dec.ReadToken(); err != nil { // '{'
		return nil, fmt.Errorf("read object open: %w", err)
	}
	res := D{}
	for dec.PeekKind() != '}' {
		var k string
		if err := json.UnmarshalDecode(dec, &k); err != nil {
			return nil, fmt.Errorf("read object key: %w", err)
		}
		var vv any
		if err := json.UnmarshalDecode(dec, &vv); err != nil {
			return nil, fmt.Errorf("read object value for key %q: %w", k, err)
		}
		res = append(res, E{Key: k, Value: vv})
	}
	if _, err := dec.ReadToken(); err != nil { // '}'
		return nil, fmt.Errorf("read object close: %w", err)
	}
	return res, nil
}

// decodeArray decodes a JSON array into A.
func decodeArray(dec *jsontext.Decoder) (A, error) {
	if _, err := dec.ReadToken(); err != nil { // '['
		return nil, fmt.Errorf("read array open: %w", err)
	}
	arr := A{}
	for dec.PeekKind() != ']' {
		var elem any
		if err := json.UnmarshalDecode(dec, &elem); err != nil {
			return nil, fmt.Errorf("read array element: %w", err)
		}
		arr = append(arr, elem)
	}
	if _, err := dec.ReadToken(); err != nil { // ']'
		return nil, fmt.Errorf("read array close: %w", err)
	}
	return arr, nil
}
