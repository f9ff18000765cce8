package d2diagram

type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Updated
	SelectionChanged
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Updated:
		return "updated"
	case SelectionChanged:
		return "selection_changed"
	}
	return "unknown"
}

func (k ChangeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type EntityKind int

const (
	NodeEntity EntityKind = iota
	PortEntity
	LinkEntity
	GroupEntity
	SelectionEntity
	// ViewEntity is the diagram's zoom and pan.
	ViewEntity
)

func (k EntityKind) String() string {
	switch k {
	case NodeEntity:
		return "node"
	case PortEntity:
		return "port"
	case LinkEntity:
		return "link"
	case GroupEntity:
		return "group"
	case SelectionEntity:
		return "selection"
	case ViewEntity:
		return "view"
	}
	return "unknown"
}

func (k EntityKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Change tells observers what an operation did once it has completed.
type Change struct {
	Kind   ChangeKind `json:"kind"`
	Entity EntityKind `json:"entity"`
	IDs    []string   `json:"ids"`
}

type subscriber struct {
	id int
	fn func(Change)
}

// Subscribe registers fn to receive every change. Changes are delivered after
// the operation that caused them finished, in the order they happened.
// Calling the returned function stops delivery.
func (d *Diagram) Subscribe(fn func(Change)) (unsubscribe func()) {
	d.nextSubscriber++
	id := d.nextSubscriber
	d.subscribers = append(d.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range d.subscribers {
			if s.id == id {
				d.subscribers = append(d.subscribers[:i:i], d.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (d *Diagram) emit(kind ChangeKind, entity EntityKind, ids ...string) {
	if len(ids) == 0 && entity != SelectionEntity && entity != ViewEntity {
		return
	}
	d.queue = append(d.queue, Change{Kind: kind, Entity: entity, IDs: ids})
}

// flush delivers queued changes. Changes queued by observers are delivered in
// the same loop.
func (d *Diagram) flush() {
	if d.flushing {
		return
	}
	d.flushing = true
	defer func() {
		d.flushing = false
	}()
	for len(d.queue) > 0 {
		c := d.queue[0]
		d.queue = d.queue[1:]
		if d.closed.Load() {
			continue
		}
		subs := append([]subscriber(nil), d.subscribers...)
		for _, s := range subs {
			s.fn(c)
		}
	}
	d.queue = nil
}
