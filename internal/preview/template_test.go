package preview

import (
	"html"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotTemplate_Valid(t *testing.T) {
	tmpl, err := newSlotTemplate("t", "<b>{{a}}</b>{{b}}", map[string]slotKind{"a": slotText, "b": slotRaw})
	require.NoError(t, err)

	out := tmpl.render(map[string]string{"a": "<i>", "b": "<i>"})
	assert.Equal(t, "<b>&lt;i&gt;</b><i>", out)
}

func TestSlotTemplate_RepeatedSlot(t *testing.T) {
	tmpl, err := newSlotTemplate("t", "{{a}}-{{a}}", map[string]slotKind{"a": slotText})
	require.NoError(t, err)
	assert.Equal(t, "x-x", tmpl.render(map[string]string{"a": "x"}))
}

func TestSlotTemplate_MissingSlot(t *testing.T) {
	_, err := newSlotTemplate("t", "{{a}}", map[string]slotKind{"a": slotText, "b": slotText})
	assert.ErrorContains(t, err, `missing slot "b"`)
}

func TestSlotTemplate_UnknownSlot(t *testing.T) {
	_, err := newSlotTemplate("t", "{{a}}{{c}}", map[string]slotKind{"a": slotText})
	assert.ErrorContains(t, err, "unknown slots")
}

func TestSlotTemplate_UnknownKind(t *testing.T) {
	_, err := newSlotTemplate("t", "{{a}}", map[string]slotKind{"a": slotKind(42)})
	assert.ErrorContains(t, err, "unknown kind")
}

func TestSlotTemplate_WrongValueCount(t *testing.T) {
	tmpl, err := newSlotTemplate("t", "{{a}}", map[string]slotKind{"a": slotText})
	require.NoError(t, err)
	assert.Panics(t, func() { tmpl.render(map[string]string{}) })
	assert.Panics(t, func() { tmpl.render(map[string]string{"a": "1", "b": "2"}) })
}

func TestSlotTemplate_CSSStringSlot(t *testing.T) {
	tmpl, err := newSlotTemplate("t", `<p style="x: '{{a}}'">`, map[string]slotKind{"a": slotCSSString})
	require.NoError(t, err)

	out := tmpl.render(map[string]string{"a": `a'b"c\d<e>&`})
	assert.Equal(t, `<p style="x: 'a\27 b\22 c\5c d\3c e\3e \26 '">`, out)
}

func TestEscapeCSSString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Noto Sans", "Noto Sans"},
		{"O'Reilly Sans", `O\27 Reilly Sans`},
		{`back\slash`, `back\5c slash`},
		{"tab\tnl\n", `tab\9 nl\a `},
		{"del\x7f", `del\7f `},
		{"思源黑体", "思源黑体"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := escapeCSSString(tt.in)
			assert.Equal(t, tt.want, got)
			// Nothing the HTML layer would touch survives.
			assert.Equal(t, got, html.EscapeString(got))
		})
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	assert.ElementsMatch(t, []string{slotStyle, slotPreviews}, pageTemplate.slots)
	assert.ElementsMatch(t, []string{slotChar, slotFamily, slotFamilyCSS}, blockTemplate.slots)
	assert.Equal(t, slotRaw, pageTemplate.kinds[slotPreviews])
	assert.Equal(t, slotText, blockTemplate.kinds[slotFamily])
	assert.Equal(t, slotCSSString, blockTemplate.kinds[slotFamilyCSS])
}
