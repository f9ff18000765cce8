package d2diagram

// Select selects the node, link or group id. Unless additive, everything else
// is unselected first. Additive selection while multi selection is disabled
// is ignored. It reports whether the request was applied.
func (d *Diagram) Select(id string, additive bool) bool {
	if d.closed.Load() {
		return false
	}
	kind, ok := d.Kind(id)
	if !ok || kind == PortEntity {
		return false
	}
	if additive && !d.opts.AllowMultiSelection {
		return false
	}

	changed := false
	if !additive {
		for _, other := range append([]string(nil), d.selection...) {
			if other != id {
				d.deselect(other)
				changed = true
			}
		}
	}
	if !d.IsSelected(id) {
		d.selection = append(d.selection, id)
		d.setSelected(id, true)
		changed = true
	}
	if changed {
		d.emit(SelectionChanged, SelectionEntity, d.Selected()...)
	}
	d.flush()
	return true
}

func (d *Diagram) Unselect(id string) {
	if d.deselect(id) {
		d.emit(SelectionChanged, SelectionEntity, d.Selected()...)
		d.flush()
	}
}

func (d *Diagram) UnselectAll() {
	if len(d.selection) == 0 {
		return
	}
	for _, id := range append([]string(nil), d.selection...) {
		d.deselect(id)
	}
	d.emit(SelectionChanged, SelectionEntity)
	d.flush()
}

// Selected returns the selected IDs in selection order.
func (d *Diagram) Selected() []string {
	return append([]string(nil), d.selection...)
}

func (d *Diagram) IsSelected(id string) bool {
	for _, s := range d.selection {
		if s == id {
			return true
		}
	}
	return false
}

// deselect queues nothing on its own so callers can batch.
func (d *Diagram) deselect(id string) bool {
	for i, s := range d.selection {
		if s == id {
			d.selection = append(d.selection[:i:i], d.selection[i+1:]...)
			d.setSelected(id, false)
			return true
		}
	}
	return false
}

func (d *Diagram) setSelected(id string, selected bool) {
	if n, ok := d.nodes[id]; ok {
		n.Selected = selected
	} else if l, ok := d.links[id]; ok {
		l.Selected = selected
	} else if g, ok := d.groups[id]; ok {
		g.Selected = selected
	}
}
