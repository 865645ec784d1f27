package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "# (React) `useHooks`\n" +
	"\n" +
	"- [Hooks](#hooks)\n" +
	"  - [useToggle](#usetoggle)\n" +
	"- [Docs](https://example.com/docs#intro)\n" +
	"\n" +
	"## Hooks\n" +
	"\n" +
	"### useToggle\n" +
	"\n" +
	"```tsx\n" +
	"export const useToggle = () => {};\n" +
	"\n" +
	"  const indented = true;\n" +
	"```\n" +
	"\n" +
	"<https://usehooks.com/>\n"

func TestParseOutline(t *testing.T) {
	out, err := ParseOutline([]byte(sample))
	require.NoError(t, err)

	require.Len(t, out.Headings, 3)
	assert.Equal(t, Heading{Level: 1, Text: "(React) useHooks", ID: "react-usehooks"}, out.Headings[0])
	assert.Equal(t, Heading{Level: 2, Text: "Hooks", ID: "hooks"}, out.Headings[1])
	assert.Equal(t, Heading{Level: 3, Text: "useToggle", ID: "usetoggle"}, out.Headings[2])

	assert.Equal(t, []Link{
		{Kind: LinkKindInline, Destination: "#hooks"},
		{Kind: LinkKindInline, Destination: "#usetoggle"},
		{Kind: LinkKindInline, Destination: "https://example.com/docs#intro"},
		{Kind: LinkKindAuto, Destination: "https://usehooks.com/"},
	}, out.Links)

	require.Len(t, out.CodeBlocks, 1)
	cb := out.CodeBlocks[0]
	assert.Equal(t, "tsx", cb.Language)
	assert.Equal(t, "usetoggle", cb.HeadingID)
	assert.Equal(t, "export const useToggle = () => {};\n\n  const indented = true;\n", string(cb.Content))

	assert.Len(t, out.CodeBlocksUnder("usetoggle"), 1)
	assert.Empty(t, out.CodeBlocksUnder("hooks"))

	h, ok := out.HeadingByID("hooks")
	assert.True(t, ok)
	assert.Equal(t, 2, h.Level)
	assert.Empty(t, out.VerifyAnchors())
}

func TestParseOutline_WideFence(t *testing.T) {
	doc := "### useFence\n\n````tsx\nconst s = ```nested```;\n````\n"
	out, err := ParseOutline([]byte(doc))
	require.NoError(t, err)
	require.Len(t, out.CodeBlocks, 1)
	assert.Equal(t, "const s = ```nested```;\n", string(out.CodeBlocks[0].Content))
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"useLocalStorage":    "uselocalstorage",
		"Native":             "native",
		"(React) `useHooks`": "react-usehooks",
		"use_snake Case":     "use_snake-case",
		"useÉlan":            "useélan",
		"  padded  ":         "padded",
		"v1.2":               "v12",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestVerifyAnchors(t *testing.T) {
	doc := "- [Hooks](#hooks)\n- [Gone](#missing)\n\n## Hooks\n\n### hooks\n"
	out, err := ParseOutline([]byte(doc))
	require.NoError(t, err)

	require.Len(t, out.Headings, 2)
	assert.Equal(t, "hooks-1", out.Headings[1].ID)
	assert.True(t, out.Headings[1].Duplicate)

	problems := out.VerifyAnchors()
	require.Len(t, problems, 2)
	assert.Equal(t, "hooks-1", problems[0].Anchor)
	assert.Equal(t, "missing", problems[1].Anchor)
	assert.Equal(t, "#missing: no heading with this anchor", problems[1].String())
}
