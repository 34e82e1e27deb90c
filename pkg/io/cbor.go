package io

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	encMode, decMode = em, dm
}

// MarshalCBOR encodes v as CBOR by transcoding its JSON form. Integral
// numbers become CBOR integers; all others keep their float64 value.
func MarshalCBOR(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "encode json")
	}
	tree, err := jsonTree(data)
	if err != nil {
		return nil, err
	}
	out, err := encMode.Marshal(tree)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "encode cbor")
	}
	return out, nil
}

// UnmarshalCBOR decodes CBOR produced by [MarshalCBOR] into v through v's
// JSON decoder.
func UnmarshalCBOR(data []byte, v any) error {
	var tree any
	if err := decMode.Unmarshal(data, &tree); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidFormat, err, "decode cbor")
	}
	j, err := json.Marshal(tree)
	if err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidFormat, err, "cbor payload has no json form")
	}
	return json.Unmarshal(j, v)
}

func jsonTree(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "decode json tree")
	}
	return numbers(tree), nil
}

// numbers replaces json.Number leaves with int64 or float64.
func numbers(v any) any {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case map[string]any:
		for k, e := range v {
			v[k] = numbers(e)
		}
		return v
	case []any:
		for i, e := range v {
			v[i] = numbers(e)
		}
		return v
	}
	return v
}
