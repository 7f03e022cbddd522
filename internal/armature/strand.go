package armature

import "slices"

// Strand is the bone path from a pinned tip back up to its collection's root,
// ordered tip first.
type Strand struct {
	bones []*Bone
}

func (s *Strand) Tip() *Bone  { return s.bones[0] }
func (s *Strand) Root() *Bone { return s.bones[len(s.bones)-1] }
func (s *Strand) Len() int    { return len(s.bones) }

// Bones returns the strand from tip to root.
func (s *Strand) Bones() []*Bone {
	return slices.Clone(s.bones)
}

// Contains reports whether b lies on the strand.
func (s *Strand) Contains(b *Bone) bool {
	return slices.Contains(s.bones, b)
}

// StrandCollection groups the strands that share a root. Bones below a
// strand's pinned tip belong to child collections.
type StrandCollection struct {
	parent   *StrandCollection
	root     *Bone
	strands  []*Strand
	bones    []*Bone
	children []*StrandCollection
}

func buildStrandCollection(root *Bone, parent *StrandCollection, index map[*Bone]*StrandCollection) *StrandCollection {
	c := &StrandCollection{parent: parent, root: root}

	var tips []*Bone
	collectPinnedTips(root, &tips)
	seen := make(map[*Bone]bool)
	for _, tip := range tips {
		s := &Strand{}
		for b := tip; ; b = b.parent {
			s.bones = append(s.bones, b)
			if !seen[b] {
				seen[b] = true
				c.bones = append(c.bones, b)
			}
			if b == root {
				break
			}
		}
		c.strands = append(c.strands, s)
	}

	depth := make(map[*Bone]int, len(c.bones))
	for _, b := range c.bones {
		depth[b] = b.depth()
		index[b] = c
	}
	slices.SortStableFunc(c.bones, func(x, y *Bone) int { return depth[x] - depth[y] })

	for _, tip := range tips {
		for _, child := range tip.EffectoredChildren() {
			c.children = append(c.children, buildStrandCollection(child, c, index))
		}
	}
	return c
}

// collectPinnedTips gathers the first pinned bone on every effectored path
// below (and including) b.
func collectPinnedTips(b *Bone, out *[]*Bone) {
	if b.IsPinned() {
		*out = append(*out, b)
		return
	}
	for _, c := range b.EffectoredChildren() {
		collectPinnedTips(c, out)
	}
}

func (c *StrandCollection) Parent() *StrandCollection { return c.parent }
func (c *StrandCollection) Root() *Bone               { return c.root }

// Strands returns the collection's strands.
func (c *StrandCollection) Strands() []*Strand {
	return slices.Clone(c.strands)
}

// Bones returns every bone in the collection, parents before children.
func (c *StrandCollection) Bones() []*Bone {
	return slices.Clone(c.bones)
}

// Children returns the collections rooted below this one's pinned tips.
func (c *StrandCollection) Children() []*StrandCollection {
	return slices.Clone(c.children)
}

// StrandsContaining returns the strands b lies on.
func (c *StrandCollection) StrandsContaining(b *Bone) []*Strand {
	var out []*Strand
	for _, s := range c.strands {
		if s.Contains(b) {
			out = append(out, s)
		}
	}
	return out
}

func (c *StrandCollection) walk(fn func(*StrandCollection)) {
	fn(c)
	for _, ch := range c.children {
		ch.walk(fn)
	}
}
