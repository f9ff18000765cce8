package d2diagram_test

import (
	"testing"

	tassert "github.com/stretchr/testify/assert"

	"oss.terrastruct.com/util-go/assert"

	"oss.terrastruct.com/d2flow/d2diagram"
	"oss.terrastruct.com/d2flow/lib/geo"
)

func TestSubscribe(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	var changes []d2diagram.Change
	unsubscribe := d.Subscribe(func(c d2diagram.Change) {
		changes = append(changes, c)
	})

	addNode(t, d, "a", 0, 0, 100, 50)
	tassert.Equal(t, []d2diagram.Change{
		{Kind: d2diagram.Added, Entity: d2diagram.NodeEntity, IDs: []string{"a"}},
		{Kind: d2diagram.Added, Entity: d2diagram.PortEntity, IDs: []string{"a.Top", "a.Right", "a.Bottom", "a.Left"}},
	}, changes)

	addNode(t, d, "b", 300, 0, 100, 50)
	addNode(t, d, "c", 600, 0, 100, 50)
	addLink(t, d, "ab", d2diagram.PortEndpoint("a.Right"), d2diagram.PortEndpoint("b.Left"))
	addLink(t, d, "bc", d2diagram.PortEndpoint("b.Right"), d2diagram.PortEndpoint("c.Left"))

	changes = nil
	assert.Success(t, d.MoveNode("a", 0, 100))
	tassert.Equal(t, []d2diagram.Change{
		{Kind: d2diagram.Updated, Entity: d2diagram.NodeEntity, IDs: []string{"a"}},
		{Kind: d2diagram.Updated, Entity: d2diagram.LinkEntity, IDs: []string{"ab"}},
	}, changes)

	changes = nil
	d.Select("bc", false)
	d.SetZoom(1.5)
	tassert.Equal(t, []d2diagram.Change{
		{Kind: d2diagram.SelectionChanged, Entity: d2diagram.SelectionEntity, IDs: []string{"bc"}},
		{Kind: d2diagram.Updated, Entity: d2diagram.ViewEntity},
	}, changes)

	changes = nil
	unsubscribe()
	assert.Success(t, d.MoveNode("a", 0, 0))
	tassert.Empty(t, changes)
}

func TestObserversSeeConsistentState(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	addNode(t, d, "a", 0, 0, 100, 50)
	addNode(t, d, "b", 300, 0, 100, 50)
	l := addLink(t, d, "ab", d2diagram.PortEndpoint("a.Right"), d2diagram.PortEndpoint("b.Left"))

	calls := 0
	d.Subscribe(func(c d2diagram.Change) {
		calls++
		// The link is already rerouted when the node move is observed.
		tassert.True(t, l.Route[0].Equals(geo.NewPoint(100, 125)))
	})
	assert.Success(t, d.MoveNode("a", 0, 100))
	tassert.Equal(t, 2, calls)
}

func TestObserverMutations(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	addNode(t, d, "a", 0, 0, 100, 50)

	var seen []string
	d.Subscribe(func(c d2diagram.Change) {
		seen = append(seen, c.Kind.String()+" "+c.Entity.String())
		if c.Kind == d2diagram.Updated && c.Entity == d2diagram.NodeEntity {
			d.Select("a", false)
		}
	})
	assert.Success(t, d.MoveNode("a", 10, 10))
	tassert.Equal(t, []string{"updated node", "selection_changed selection"}, seen)
}

func TestClosedDiagramIsSilent(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	calls := 0
	d.Subscribe(func(d2diagram.Change) {
		calls++
	})
	d.Close()
	tassert.ErrorIs(t, d.AddNode(d2diagram.NewNode("a", 0, 0, 10, 10)), d2diagram.ErrDiagramClosed)
	tassert.False(t, d.SetZoom(1.5))
	tassert.Equal(t, 0, calls)
}
