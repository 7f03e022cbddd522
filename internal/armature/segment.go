package armature

// Segment is a maximal run of bones with no branching that leads to a pin.
// Branch points and pinned bones end a segment; their effectored children
// start child segments.
type Segment struct {
	parent   *Segment
	bones    []*Bone
	children []*Segment

	// Segments below (or equal to) this one whose tip is pinned, with no
	// pinned segment in between.
	pinnedDescendants []*Segment

	basePinned bool
	tipPinned  bool
}

func buildSegment(root *Bone, parent *Segment, index map[*Bone]*Segment) *Segment {
	s := &Segment{parent: parent}
	b := root
	for {
		s.bones = append(s.bones, b)
		index[b] = s
		if b.IsPinned() {
			break
		}
		next := b.EffectoredChildren()
		if len(next) != 1 {
			break
		}
		b = next[0]
	}

	s.tipPinned = b.IsPinned()
	s.basePinned = root.parent != nil && root.parent.IsPinned()
	for _, c := range b.EffectoredChildren() {
		s.children = append(s.children, buildSegment(c, s, index))
	}
	if s.tipPinned {
		s.pinnedDescendants = []*Segment{s}
	} else {
		for _, c := range s.children {
			s.pinnedDescendants = append(s.pinnedDescendants, c.pinnedDescendants...)
		}
	}
	return s
}

func (s *Segment) Parent() *Segment { return s.parent }
func (s *Segment) Root() *Bone      { return s.bones[0] }
func (s *Segment) Tip() *Bone       { return s.bones[len(s.bones)-1] }
func (s *Segment) ChainLength() int { return len(s.bones) }
func (s *Segment) BasePinned() bool { return s.basePinned }
func (s *Segment) TipPinned() bool  { return s.tipPinned }

// Bones returns the segment's bones from root to tip.
func (s *Segment) Bones() []*Bone {
	out := make([]*Bone, len(s.bones))
	copy(out, s.bones)
	return out
}

// Children returns the segments hanging off this segment's tip.
func (s *Segment) Children() []*Segment {
	out := make([]*Segment, len(s.children))
	copy(out, s.children)
	return out
}

// PinnedDescendants returns the nearest pinned segments at or below s.
func (s *Segment) PinnedDescendants() []*Segment {
	out := make([]*Segment, len(s.pinnedDescendants))
	copy(out, s.pinnedDescendants)
	return out
}

// pinnedTips returns the tip bones of the nearest pinned segments.
func (s *Segment) pinnedTips() []*Bone {
	tips := make([]*Bone, len(s.pinnedDescendants))
	for i, p := range s.pinnedDescendants {
		tips[i] = p.Tip()
	}
	return tips
}

// solveRoot climbs to the highest ancestor segment reachable without
// crossing a pinned base.
func (s *Segment) solveRoot() *Segment {
	for s.parent != nil && !s.basePinned {
		s = s.parent
	}
	return s
}

func (s *Segment) walk(fn func(*Segment)) {
	fn(s)
	for _, c := range s.children {
		c.walk(fn)
	}
}
