package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWidgetNode_AttrHelpers(t *testing.T) {
	n := &WidgetNode{Attrs: []Attr{
		{Key: "width", Value: "120"},
		{Key: "value", Value: "3.5"},
		{Key: "draggable", Value: "true"},
		{Key: "label", Value: ""},
	}}

	assert.Equal(t, 120, n.IntAttr("width", 0))
	assert.Equal(t, 7, n.IntAttr("missing", 7))
	assert.Equal(t, 7, n.IntAttr("label", 7), "unparseable values keep the fallback")
	assert.InDelta(t, 3.5, n.FloatAttr("value", 0), 1e-9)
	assert.True(t, n.BoolAttr("draggable"))
	assert.False(t, n.BoolAttr("missing"))
	assert.True(t, n.HasAttr("label"), "empty values still count as present")
	assert.Equal(t, "fallback", n.AttrOr("missing", "fallback"))
}

func TestTree_Walk(t *testing.T) {
	tree := &Tree{Widgets: []*WidgetNode{
		{Tag: "widget", Children: []*WidgetNode{
			{Tag: "container", Children: []*WidgetNode{
				{Tag: "text"},
				{Tag: "spacer"},
			}},
			{Tag: "clock"},
		}},
		{Tag: "widget"},
	}}

	var order []string
	tree.Walk(func(n *WidgetNode) {
		order = append(order, n.Tag)
	})
	assert.Equal(t, []string{"widget", "container", "text", "spacer", "clock", "widget"}, order)
	assert.Equal(t, 6, tree.Len())
}
