package zenoh

import (
	"fmt"
	"strconv"
)

// Encoding descriptors carried on the wire next to each payload.
const (
	EncodingString     = "text/plain"
	EncodingJSON       = "application/json"
	EncodingInteger    = "application/integer"
	EncodingFloat      = "application/float"
	EncodingProperties = "application/properties"
	EncodingRaw        = "application/octet-stream"
)

// A Value is a typed payload stored at a path or carried on a change. The
// encoding descriptor travels with the payload so receivers can decode
// without out of band agreement.
type Value interface {
	Encoding() string
	Payload() []byte
	String() string
}

// StringValue is a UTF-8 string value.
type StringValue string

func (v StringValue) Encoding() string { return EncodingString }
func (v StringValue) Payload() []byte  { return []byte(v) }
func (v StringValue) String() string   { return string(v) }

// JSONValue is a JSON document in string form.
type JSONValue string

func (v JSONValue) Encoding() string { return EncodingJSON }
func (v JSONValue) Payload() []byte  { return []byte(v) }
func (v JSONValue) String() string   { return string(v) }

// IntValue is a signed integer value.
type IntValue int64

func (v IntValue) Encoding() string { return EncodingInteger }
func (v IntValue) Payload() []byte  { return []byte(strconv.FormatInt(int64(v), 10)) }
func (v IntValue) String() string   { return strconv.FormatInt(int64(v), 10) }

// FloatValue is a floating point value.
type FloatValue float64

func (v FloatValue) Encoding() string { return EncodingFloat }
func (v FloatValue) Payload() []byte  { return []byte(v.String()) }
func (v FloatValue) String() string   { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

// PropertiesValue is a string dictionary value encoded as k=v;k=v.
type PropertiesValue Properties

func (v PropertiesValue) Encoding() string { return EncodingProperties }
func (v PropertiesValue) Payload() []byte  { return []byte(Properties(v).String()) }
func (v PropertiesValue) String() string   { return Properties(v).String() }

// RawValue is an opaque byte value.
type RawValue []byte

func (v RawValue) Encoding() string { return EncodingRaw }
func (v RawValue) Payload() []byte  { return []byte(v) }
func (v RawValue) String() string   { return fmt.Sprintf("%x", []byte(v)) }

// CustomValue is an opaque value with a caller supplied encoding descriptor.
type CustomValue struct {
	Descr string
	Data  []byte
}

func (v CustomValue) Encoding() string { return v.Descr }
func (v CustomValue) Payload() []byte  { return v.Data }
func (v CustomValue) String() string   { return fmt.Sprintf("%s:%x", v.Descr, v.Data) }

// DecodeValue turns a wire payload back into a typed Value. Unknown encoding
// descriptors decode to a CustomValue carrying the descriptor; malformed
// integer and float payloads are errors.
func DecodeValue(encoding string, payload []byte) (Value, error) {
	switch encoding {
	case EncodingString, "":
		return StringValue(payload), nil
	case EncodingJSON:
		return JSONValue(payload), nil
	case EncodingInteger:
		n, err := strconv.ParseInt(string(payload), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode integer value: %w", err)
		}
		return IntValue(n), nil
	case EncodingFloat:
		f, err := strconv.ParseFloat(string(payload), 64)
		if err != nil {
			return nil, fmt.Errorf("decode float value: %w", err)
		}
		return FloatValue(f), nil
	case EncodingProperties:
		return PropertiesValue(PropertiesFromString(string(payload))), nil
	case EncodingRaw:
		return RawValue(payload), nil
	default:
		return CustomValue{Descr: encoding, Data: payload}, nil
	}
}
