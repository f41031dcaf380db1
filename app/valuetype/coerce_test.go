package valuetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceBoolean(t *testing.T) {
	tests := []struct {
		raw  any
		want bool
	}{
		{"TRUE", true},
		{"true", true},
		{"1", true},
		{"Yes", true},
		{"on", true},
		{"no", false},
		{"false", false},
		{"", false},
		{" true", false},
		{true, true},
		{false, false},
		{float64(1), true},
		{float64(0), false},
	}
	for _, tt := range tests {
		got := Coerce(Boolean, tt.raw)
		assert.Equal(t, BoolValue(tt.want), got, "raw=%#v", tt.raw)
	}
}

func TestCoerceNumbers(t *testing.T) {
	assert.Equal(t, IntValue(42), Coerce(Integer, "42"))
	assert.Equal(t, IntValue(42), Coerce(Integer, " 42 "))
	assert.Equal(t, IntValue(0), Coerce(Integer, "4.5"))
	assert.Equal(t, IntValue(0), Coerce(Integer, "abc"))
	assert.Equal(t, IntValue(4), Coerce(Integer, float64(4.9)))
	assert.Equal(t, IntValue(10), Coerce(Integer, "010"))

	assert.Equal(t, FloatValue(3.25), Coerce(Float, "3.25"))
	assert.Equal(t, FloatValue(0), Coerce(Float, "x1"))
	assert.Equal(t, FloatValue(7), Coerce(Float, float64(7)))
}

func TestCoerceJSON(t *testing.T) {
	m := map[string]any{"a": float64(1)}
	assert.Equal(t, JSONValue{Doc: m}, Coerce(JSON, m))
	assert.Equal(t, JSONValue{Doc: map[string]any{"b": "c"}}, Coerce(JSON, `{"b":"c"}`))
	assert.Equal(t, JSONValue{Doc: map[string]any{}}, Coerce(JSON, "{broken"))
	assert.Equal(t, JSONValue{Doc: map[string]any{}}, Coerce(JSON, float64(3)))
	// 非字符串的数组不是对象
	assert.Equal(t, JSONValue{Doc: map[string]any{}}, Coerce(JSON, []any{"a"}))
	assert.Equal(t, JSONValue{Doc: []any{float64(1), float64(2)}}, Coerce(JSON, "[1,2]"))
}

func TestCoerceText(t *testing.T) {
	for _, vt := range []ValueType{String, Text, URL, Email} {
		assert.Equal(t, TextValue("hello"), Coerce(vt, "hello"))
		assert.Equal(t, TextValue("42"), Coerce(vt, float64(42)))
		assert.Equal(t, TextValue("true"), Coerce(vt, true))
	}
	assert.Equal(t, TextValue("x"), Coerce(ValueType("unknown"), "x"))
}

func TestCoerceNil(t *testing.T) {
	assert.Nil(t, Coerce(Integer, nil))
	assert.Nil(t, CoerceStored(Integer, nil))
	assert.Nil(t, Interface(nil))

	s := "7"
	assert.Equal(t, int64(7), Interface(CoerceStored(Integer, &s)))
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		vt   ValueType
		raw  any
		want string
	}{
		{"bool from string false", Boolean, "false", "false"},
		{"bool from true", Boolean, true, "true"},
		{"bool from yes", Boolean, "yes", "true"},
		{"int from number", Integer, float64(42), "42"},
		{"float from number", Float, 2.5, "2.5"},
		{"json string stored verbatim", JSON, `{"a":1}`, `{"a":1}`},
		{"json map marshalled", JSON, map[string]any{"a": "b"}, `{"a":"b"}`},
		{"text", String, "abc", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.vt, tt.raw)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
	assert.Nil(t, Encode(String, nil))
}

func TestParse(t *testing.T) {
	vt, err := Parse("email")
	require.NoError(t, err)
	assert.Equal(t, Email, vt)
	assert.Equal(t, "邮箱地址", vt.Label())

	_, err = Parse("decimal")
	assert.Error(t, err)
	assert.Len(t, Types(), 8)
}

func TestValueEncode(t *testing.T) {
	assert.Equal(t, "true", BoolValue(true).Encode())
	assert.Equal(t, "-3", IntValue(-3).Encode())
	assert.Equal(t, "0.5", FloatValue(0.5).Encode())
	assert.Equal(t, `{"k":"v"}`, JSONValue{Doc: map[string]any{"k": "v"}}.Encode())
}
