package properties

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPropFromName(t *testing.T) {
	for prop := KnownProp(1); prop < NbProperties; prop++ {
		p, ok := PropFromName(prop.String())
		require.True(t, ok, prop.String())
		require.Equal(t, prop, p)
		_, hasInitial := InitialValues[prop]
		require.True(t, hasInitial, prop.String())
	}
	p, ok := PropFromName("White-Space")
	require.True(t, ok)
	require.Equal(t, PWhiteSpace, p)

	_, ok = PropFromName("margin") // shorthands are expanded before
	require.False(t, ok)
}

func TestValidate(t *testing.T) {
	for _, test := range []struct {
		prop  KnownProp
		value string
		exp   string
		ok    bool
	}{
		{PDisplay, " Inline-Block ", "inline-block", true},
		{PDisplay, "table-cell", "table-cell", true},
		{PDisplay, "bogus", "bogus", false},
		{PWhiteSpace, "pre-wrap", "pre-wrap", true},
		{PTextTransform, "full-width", "full-width", true},
		{PTextTransform, "small-caps", "small-caps", false},
		{PColor, "INHERIT", "inherit", true},
		{PColor, "RGB(1, 2, 3)", "RGB(1, 2, 3)", true},
		{PMarginTop, "", "", false},
	} {
		got, ok := Validate(test.prop, test.value)
		require.Equal(t, test.ok, ok, test.value)
		require.Equal(t, test.exp, got, test.value)
	}
}

func TestWhiteSpace(t *testing.T) {
	for ws, collapsible := range map[WhiteSpace]bool{
		WsNormal:  true,
		WsNowrap:  true,
		WsPreLine: true,
		WsPre:     false,
		WsPreWrap: false,
	} {
		require.Equal(t, collapsible, ws.IsCollapsible(), ws)
	}
}

func TestProperties(t *testing.T) {
	var empty Properties
	require.Equal(t, "inline", string(empty.GetDisplay()))

	p := Properties{PColor: "red", PDisplay: "block"}
	c := p.Copy()
	c.SetDisplay("inline")
	require.Equal(t, Display("block"), p.GetDisplay())
	require.Equal(t, "color: red; display: inline", c.String())
	require.True(t, Display("none").IsNone())
}
