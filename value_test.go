package zenoh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValue(t *testing.T) {
	type TestCase struct {
		tName    string
		encoding string
		payload  []byte
		value    Value
		err      bool
	}
	tt := []TestCase{
		{
			tName:    "string",
			encoding: EncodingString,
			payload:  []byte("hello"),
			value:    StringValue("hello"),
		},
		{
			tName:    "missing encoding defaults to string",
			encoding: "",
			payload:  []byte("hello"),
			value:    StringValue("hello"),
		},
		{
			tName:    "integer",
			encoding: EncodingInteger,
			payload:  []byte("-42"),
			value:    IntValue(-42),
		},
		{
			tName:    "malformed integer",
			encoding: EncodingInteger,
			payload:  []byte("forty two"),
			err:      true,
		},
		{
			tName:    "float",
			encoding: EncodingFloat,
			payload:  []byte("3.14"),
			value:    FloatValue(3.14),
		},
		{
			tName:    "properties",
			encoding: EncodingProperties,
			payload:  []byte("p1=v1;p2=v2"),
			value:    PropertiesValue{"p1": "v1", "p2": "v2"},
		},
		{
			tName:    "unknown encoding becomes custom",
			encoding: "application/x-flatbuffers",
			payload:  []byte{0x48, 0x69, 0x33},
			value:    CustomValue{Descr: "application/x-flatbuffers", Data: []byte{0x48, 0x69, 0x33}},
		},
	}
	for _, tc := range tt {
		tc := tc
		t.Run(tc.tName, func(t *testing.T) {
			t.Parallel()

			v, err := DecodeValue(tc.encoding, tc.payload)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.value, v)
		})
	}
}

func TestValue_roundTrip(t *testing.T) {
	for _, v := range []Value{
		StringValue("hot"),
		JSONValue(`{"kind":"memory"}`),
		IntValue(3),
		FloatValue(3.14),
		PropertiesValue{"p1": "v1"},
		RawValue{0x48, 0x69},
		CustomValue{Descr: "my_encoding", Data: []byte{0x33}},
	} {
		got, err := DecodeValue(v.Encoding(), v.Payload())
		require.NoError(t, err, v.Encoding())
		assert.Equal(t, v, got, v.Encoding())
	}
}
