package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	th := Default()

	assert.Equal(t, "var(--font-family-sans)", th.FontFamily["display"])
	assert.Equal(t, "var(--font-family-sans)", th.FontFamily["sans"])
	assert.Equal(t, "var(--font-family-serif)", th.FontFamily["serif"])

	assert.Equal(t, "var(--highlight)", th.Colors["highlight"].Ref)
	assert.Nil(t, th.Colors["highlight"].Scale)

	for _, name := range []string{"brand", "body", "text"} {
		scale := th.Colors[name].Scale
		require.Len(t, scale, 9, name)
		assert.Equal(t, "var(--"+name+"-500)", scale["500"])
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, th.Colors["gap"].Scale.Keys())
}

func TestMerge(t *testing.T) {
	base := Default()
	merged := base.Merge(&Theme{
		FontFamily: map[string]string{"mono": Ref("font-family-mono")},
		Colors:     map[string]Color{"highlight": {Ref: Ref("accent")}},
	})

	assert.Equal(t, "var(--accent)", merged.Colors["highlight"].Ref)
	assert.Equal(t, "var(--font-family-mono)", merged.FontFamily["mono"])
	assert.Equal(t, "var(--highlight)", base.Colors["highlight"].Ref, "base must not change")

	assert.Equal(t, base.Tokens(), base.Merge(nil).Tokens())
}

func TestTokens(t *testing.T) {
	th := &Theme{
		FontFamily: map[string]string{"sans": Ref("font-family-sans")},
		Colors: map[string]Color{
			"highlight": {Ref: Ref("highlight")},
			"gap":       {Scale: GenerateScale("gap", 2, 1)},
		},
	}

	assert.Equal(t, []Token{
		{Category: "fontFamily", Name: "sans", Value: "var(--font-family-sans)"},
		{Category: "colors", Name: "gap-1", Value: "var(--gap-1)"},
		{Category: "colors", Name: "gap-2", Value: "var(--gap-2)"},
		{Category: "colors", Name: "highlight", Value: "var(--highlight)"},
	}, th.Tokens())
}
