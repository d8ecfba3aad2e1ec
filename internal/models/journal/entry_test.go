package models

import (
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftValidate(t *testing.T) {
	err := Draft{Location: "Paris"}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	assert.NoError(t, Draft{Title: "Paris Trip"}.Validate())
}

func TestEffectiveCover(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
		found bool
	}{
		{"stored cover", Entry{CoverImage: lo.ToPtr("c"), Gallery: []string{"g1"}}, "c", true},
		{"gallery fallback", Entry{Gallery: []string{"g1", "g2"}}, "g1", true},
		{"placeholder", Entry{}, "", false},
		{"empty cover string falls back", Entry{CoverImage: lo.ToPtr(""), Gallery: []string{"g1"}}, "g1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EffectiveCover(tt.entry)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayImages(t *testing.T) {
	e := Entry{CoverImage: lo.ToPtr("x"), Gallery: []string{"x", "y", "x", "z"}}
	assert.Equal(t, []string{"x", "y", "z"}, DisplayImages(e))

	noCover := Entry{Gallery: []string{"a", "b"}}
	assert.Equal(t, []string{"a", "b"}, DisplayImages(noCover))

	assert.Empty(t, DisplayImages(Entry{}))
}

func TestWithoutPhotoClearsCover(t *testing.T) {
	e := Entry{CoverImage: lo.ToPtr("X"), Gallery: []string{"X", "Y"}}

	updated := WithoutPhoto(e, "X").Apply(e)

	assert.Nil(t, updated.CoverImage)
	assert.Equal(t, []string{"Y"}, updated.Gallery)
}

func TestWithoutPhotoIsIdempotent(t *testing.T) {
	e := Entry{CoverImage: lo.ToPtr("a"), Gallery: []string{"a", "b", "b", "c"}}

	once := WithoutPhoto(e, "b").Apply(e)
	twice := WithoutPhoto(once, "b").Apply(once)

	assert.Equal(t, once.Gallery, twice.Gallery)
	assert.Equal(t, []string{"a", "c"}, twice.Gallery)
	require.NotNil(t, twice.CoverImage)
	assert.Equal(t, "a", *twice.CoverImage)
	assert.NotContains(t, twice.Gallery, "b")
}

func TestWithPhotos(t *testing.T) {
	empty := Entry{}
	p := WithPhotos(empty, []string{"u1", "u2"})
	got := p.Apply(empty)
	require.NotNil(t, got.CoverImage)
	assert.Equal(t, "u1", *got.CoverImage)
	assert.Equal(t, []string{"u1", "u2"}, got.Gallery)

	withCover := Entry{CoverImage: lo.ToPtr("c"), Gallery: []string{"c"}}
	got = WithPhotos(withCover, []string{"u3"}).Apply(withCover)
	assert.Equal(t, "c", *got.CoverImage)
	assert.Equal(t, []string{"c", "u3"}, got.Gallery)
}

func TestMatches(t *testing.T) {
	e := Entry{Title: "Paris Trip", Location: "Île-de-France"}

	assert.True(t, e.Matches(""))
	assert.True(t, e.Matches("paris"))
	assert.True(t, e.Matches("TRIP"))
	assert.True(t, e.Matches("de-fr"))
	assert.False(t, e.Matches("rome"))
	assert.False(t, e.Matches("   "))
}

func TestPatchApplyDoesNotAliasGallery(t *testing.T) {
	gallery := []string{"a"}
	e := Patch{Gallery: &gallery}.Apply(Entry{})
	gallery[0] = "changed"
	assert.Equal(t, []string{"a"}, e.Gallery)
	assert.True(t, Patch{}.IsEmpty())
}
