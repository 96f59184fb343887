package keypath

import (
	"testing"

	json "github.com/go-json-experiment/json"
	"github.com/stretchr/testify/require"
)

func unmarshal(t *testing.T, src string) any {
	t.Helper()
	var out any
	err := json.Unmarshal([]byte(src), &out, json.WithUnmarshalers(Unmarshalers()))
	require.NoError(t, err)
	return out
}

func assertD(t *testing.T, v any) D {
	t.Helper()
	d, ok := v.(D)
	require.True(t, ok, "expected D, got %T", v)
	return d
}

func assertA(t *testing.T, v any) A {
	t.Helper()
	a, ok := v.(A)
	require.True(t, ok, "expected A, got %T", v)
	return a
}

func TestUnmarshalers(t *testing.T) {
	t.Run("empty object -> empty D", func(t *testing.T) {
		d := assertD(t, unmarshal(t, `{}`))
		require.Len(t, d, 0)
	})

	t.Run("empty array -> empty A", func(t *testing.T) {
		a := assertA(t, unmarshal(t, `[]`))
		require.Len(t, a, 0)
	})

	t.Run("regular object ordering preserved", func(t *testing.T) {
		d := assertD(t, unmarshal(t, `{"b":1,"a":2}`))
		require.Equal(t, []E{{Key: "b", Value: float64(1)}, {Key: "a", Value: float64(2)}}, []E(d))
	})

	t.Run("nested array wraps objects", func(t *testing.T) {
		a := assertA(t, unmarshal(t, `[1,{"x":2}]`))
		require.Len(t, a, 2)
		require.Equal(t, float64(1), a[0])
		d := assertD(t, a[1])
		require.Equal(t, "x", d[0].Key)
	})

	t.Run("dollar keys are plain keys", func(t *testing.T) {
		d := assertD(t, unmarshal(t, `{"$ref":"#/definitions/a"}`))
		require.Equal(t, D{{Key: "$ref", Value: "#/definitions/a"}}, d)
	})

	t.Run("primitive value bypassed (SkipFunc)", func(t *testing.T) {
		v := unmarshal(t, `123`)
		require.Equal(t, float64(123), v)
	})

	t.Run("direct D target", func(t *testing.T) {
		var d D
		err := json.Unmarshal([]byte(`{"k":[true,null]}`), &d, json.WithUnmarshalers(Unmarshalers()))
		require.NoError(t, err)
		require.Equal(t, D{{Key: "k", Value: A{true, nil}}}, d)
	})

	t.Run("direct A target", func(t *testing.T) {
		var a A
		err := json.Unmarshal([]byte(`["x",{"y":"z"}]`), &a, json.WithUnmarshalers(Unmarshalers()))
		require.NoError(t, err)
		require.Equal(t, A{"x", D{{Key: "y", Value: "z"}}}, a)
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Run("object root", func(t *testing.T) {
		d, err := DecodeJSON([]byte(`{"familyName":"Test","fontMaster":[{"id":"m01"}]}`))
		require.NoError(t, err)
		require.Equal(t, []string{"familyName", "fontMaster"}, d.Keys())
	})

	t.Run("array root is rejected", func(t *testing.T) {
		_, err := DecodeJSON([]byte(`[1,2]`))
		require.Error(t, err)
	})

	t.Run("malformed input fails", func(t *testing.T) {
		_, err := DecodeJSON([]byte(`{"a":`))
		require.Error(t, err)
	})
}
