package keypath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
	t.Run("decode uses registered function", func(t *testing.T) {
		want := D{{Key: "x", Value: "y"}}
		r, err := NewRegistry(NewFormat(".glyphs", constDecoder(want)))
		require.NoError(t, err)

		got, err := r.Decode("a.glyphs", nil)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("invalid extension surfaces at registry construction", func(t *testing.T) {
		r, err := NewRegistry(NewFormat("glyphs", constDecoder(nil)))
		require.Error(t, err)
		assert.Nil(t, r)
	})
}

func TestGroup(t *testing.T) {
	t.Run("empty bundle succeeds", func(t *testing.T) {
		r, err := NewRegistry(Group())
		require.NoError(t, err)
		assert.NotNil(t, r)
	})

	t.Run("combines multiple formats", func(t *testing.T) {
		r, err := NewRegistry(Group(
			NewFormat(".a", constDecoder(D{{Key: "a"}})),
			NewFormat(".b", constDecoder(D{{Key: "b"}})),
		))
		require.NoError(t, err)

		gotA, err := r.Decode("x.a", nil)
		require.NoError(t, err)
		assert.Equal(t, "a", gotA[0].Key)

		gotB, err := r.Decode("x.b", nil)
		require.NoError(t, err)
		assert.Equal(t, "b", gotB[0].Key)
	})

	t.Run("registration error stops processing", func(t *testing.T) {
		called := false
		_, err := NewRegistry(Group(
			Registration(func(r *Registry) error { return assert.AnError }),
			Registration(func(r *Registry) error { called = true; return nil }),
		))
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, called, "later registration ran after error")
	})
}

func TestApply(t *testing.T) {
	t.Run("empty registration list succeeds", func(t *testing.T) {
		r := newRegistry()
		err := Apply(r)
		assert.NoError(t, err)
	})

	t.Run("applies all registrations", func(t *testing.T) {
		count := 0
		r := newRegistry()
		err := Apply(r,
			Registration(func(r *Registry) error { count++; return nil }),
			Registration(func(r *Registry) error { count++; return nil }),
		)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("registration error stops processing", func(t *testing.T) {
		called := false
		r := newRegistry()
		err := Apply(r,
			Registration(func(r *Registry) error { return assert.AnError }),
			Registration(func(r *Registry) error { called = true; return nil }),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, called, "later registration ran after error")
	})
}

func TestJSONFormat(t *testing.T) {
	r, err := NewRegistry(JSON)
	require.NoError(t, err)

	d, err := r.Decode("font.json", []byte(`{"unitsPerEm":1000}`))
	require.NoError(t, err)
	assert.Equal(t, D{{Key: "unitsPerEm", Value: float64(1000)}}, d)
}
