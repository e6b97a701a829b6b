package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("builtins", func(t *testing.T) {
		assert.Equal(t, []Tag{TagCommon, TagFunction, TagStruct, TagField, TagFlag}, Tags())
		for _, tag := range Tags() {
			r, ok := New(tag)
			require.True(t, ok, tag.String())
			assert.Equal(t, tag, r.Tag())
		}
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, ok := New(Tag(200))
		assert.False(t, ok)
		assert.False(t, Registered(Tag(200)))
		assert.Equal(t, "tag(200)", Tag(200).String())
	})

	t.Run("parse", func(t *testing.T) {
		tag, ok := ParseTag("Function")
		require.True(t, ok)
		assert.Equal(t, TagFunction, tag)
		assert.Equal(t, "function", tag.String())

		_, ok = ParseTag("widget")
		assert.False(t, ok)
	})

	t.Run("duplicate panics", func(t *testing.T) {
		assert.Panics(t, func() { Register(TagCommon, "other", func() Record { return &Common{} }) })
		assert.Panics(t, func() { Register(Tag(99), "common", func() Record { return &Common{} }) })
		assert.Panics(t, func() { Register(TagInvalid, "zero", func() Record { return &Common{} }) })
	})

	t.Run("fresh values", func(t *testing.T) {
		a, _ := New(TagFunction)
		b, _ := New(TagFunction)
		a.(*Function).Name = "changed"
		assert.Empty(t, b.Header().Name)
	})
}

func TestHeader(t *testing.T) {
	var r Record = &Field{Entry: Entry{Name: "x", Description: "d"}, Parent: "mobj_t"}
	assert.Equal(t, Entry{Name: "x", Description: "d"}, r.Header())
}

func TestParseAccessibility(t *testing.T) {
	tests := []struct {
		in   string
		want Accessibility
	}{
		{"Yes", AccessReadWrite},
		{"no", AccessReadOnly},
		{"Partial", AccessPartiallyReadOnly},
		{"read+write", AccessReadWrite},
		{"read-only", AccessReadOnly},
		{"read+write, read-only in some cases", AccessPartiallyReadOnly},
		{"unknown", AccessNone},
		{"", AccessNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseAccessibility(tt.in), tt.in)
	}
	assert.Equal(t, "Read & Write", AccessReadWrite.String())
	assert.Equal(t, "N/A", AccessNone.String())
}

func TestRender(t *testing.T) {
	t.Run("function", func(t *testing.T) {
		f := &Function{
			Entry:      Entry{Name: "P_Example", Description: "Does a thing. Really does it. Then more."},
			Signature:  "P_Example(mobj_t mo)",
			ReturnType: "boolean",
		}
		out := Render(f)
		assert.Contains(t, out, "https://wiki.srb2.org/wiki/Lua/Functions#P_Example")
		assert.Contains(t, out, "boolean P_Example(mobj_t mo)")
		assert.Contains(t, out, "Does a thing. Really does it. ")
		assert.NotContains(t, out, "Then more.")
	})

	t.Run("missing description", func(t *testing.T) {
		out := Render(&Field{Entry: Entry{Name: "health"}, Parent: "mobj_t", Accessibility: AccessReadWrite})
		assert.Contains(t, out, "mobj_t.health")
		assert.Contains(t, out, NoDescription)
		assert.Contains(t, out, "Read & Write")
	})

	t.Run("struct", func(t *testing.T) {
		out := Render(&Struct{Entry: Entry{Name: "player_t", Description: "A player."}, Category: "General", AllowsCustomVariables: true})
		assert.Contains(t, out, "Userdata Structs → General")
		assert.Contains(t, out, "Allows Custom Variables: Yes")
	})

	t.Run("common", func(t *testing.T) {
		out := Render(&Common{Entry: Entry{Name: "SOC", Description: "Scripts."}, URL: "https://wiki.srb2.org/wiki/SOC"})
		assert.Equal(t, "SOC <https://wiki.srb2.org/wiki/SOC>\n\nScripts.", out)
	})

	t.Run("nil", func(t *testing.T) {
		assert.Empty(t, Render(nil))
	})
}
