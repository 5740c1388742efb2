package plugin

// SlotKind tells which of the two accepted shapes a slot contribution was
// authored in.
type SlotKind int

const (
	// SlotKindList is a bare ordered list of components.
	SlotKindList SlotKind = iota
	// SlotKindSingle is one component wrapped in an object ({component: X}).
	SlotKindSingle
)

// String returns the manifest spelling of the kind.
func (k SlotKind) String() string {
	switch k {
	case SlotKindList:
		return "list"
	case SlotKindSingle:
		return "single"
	default:
		return "unknown"
	}
}

// SlotContribution is what one manifest contributes to one slot. Both shapes
// normalize to an ordered component list through Components.
type SlotContribution struct {
	kind       SlotKind
	components []Component
}

// SlotList builds a list-shaped contribution. Nil components are dropped.
func SlotList(components ...Component) SlotContribution {
	return SlotContribution{kind: SlotKindList, components: compact(components)}
}

// SlotSingle builds a single-component contribution.
func SlotSingle(component Component) SlotContribution {
	return SlotContribution{kind: SlotKindSingle, components: compact([]Component{component})}
}

// Kind returns the authored shape.
func (s SlotContribution) Kind() SlotKind {
	return s.kind
}

// Components returns the contributed components in manifest order. The
// returned slice is a copy.
func (s SlotContribution) Components() []Component {
	out := make([]Component, len(s.components))
	copy(out, s.components)
	return out
}

// Len returns the number of contributed components.
func (s SlotContribution) Len() int {
	return len(s.components)
}

func compact(in []Component) []Component {
	out := make([]Component, 0, len(in))
	for _, c := range in {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
