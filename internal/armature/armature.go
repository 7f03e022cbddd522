// Package armature holds the bone tree, its pins, and the IK solvers that
// pose it.
package armature

import (
	"slices"

	"go.uber.org/zap"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/frame"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

// SolverConfig holds the defaults used by SolveDefault.
type SolverConfig struct {
	// Damping is the largest rotation, in radians, any bone may take per
	// iteration.
	Damping    float64
	Iterations int
	Variant    SolverVariant
	// AbilityBias weights shared-bone averaging towards strands that have
	// less freedom left between the bone and their tip.
	AbilityBias bool
	// TranslateRoot lets the solver move an unpinned root bone.
	TranslateRoot bool
}

// DefaultSolverConfig returns 15 iterations of the tranquil solver with 5°
// damping.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		Damping:     mathutil.Deg2Rad(5),
		Iterations:  15,
		Variant:     Tranquil,
		AbilityBias: true,
	}
}

// Armature owns a bone tree, its world frame, and the cached chain and
// strand decompositions the solvers walk.
type Armature struct {
	tag   string
	frame *frame.Axes
	root  *Bone
	bones []*Bone
	byTag map[string]*Bone

	stale        bool
	segmentRoot  *Segment
	boneSegments map[*Bone]*Segment
	strandRoot   *StrandCollection
	boneStrands  map[*Bone]*StrandCollection

	cfg  SolverConfig
	log  *zap.Logger
	last SolveReport
}

// Option configures an Armature.
type Option func(*Armature)

// WithLogger routes rebuild and solve diagnostics to l.
func WithLogger(l *zap.Logger) Option {
	return func(a *Armature) {
		if l != nil {
			a.log = l
		}
	}
}

// WithSolverConfig replaces the solver defaults.
func WithSolverConfig(c SolverConfig) Option {
	return func(a *Armature) { a.cfg = c }
}

// WithFrame places the armature in the world. Pins are expressed relative
// to the parent of this frame.
func WithFrame(f *frame.Axes) Option {
	return func(a *Armature) {
		if f != nil {
			a.frame = f
		}
	}
}

// New returns an empty armature.
func New(tag string, opts ...Option) *Armature {
	a := &Armature{
		tag:   tag,
		frame: frame.Identity(),
		byTag: make(map[string]*Bone),
		stale: true,
		cfg:   DefaultSolverConfig(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Armature) Tag() string                { return a.tag }
func (a *Armature) Frame() *frame.Axes         { return a.frame }
func (a *Armature) Root() *Bone                { return a.root }
func (a *Armature) SolverConfig() SolverConfig { return a.cfg }

// SetSolverConfig replaces the defaults used by SolveDefault.
func (a *Armature) SetSolverConfig(c SolverConfig) { a.cfg = c }

// Bones returns every bone in creation order.
func (a *Armature) Bones() []*Bone {
	return slices.Clone(a.bones)
}

// BoneByTag looks a bone up by its tag.
func (a *Armature) BoneByTag(tag string) (*Bone, bool) {
	b, ok := a.byTag[tag]
	return b, ok
}

// Pins returns the enabled pins in bone creation order.
func (a *Armature) Pins() []*Pin {
	var out []*Pin
	for _, b := range a.bones {
		if b.IsPinned() {
			out = append(out, b.pin)
		}
	}
	return out
}

func (a *Armature) register(b *Bone) {
	a.bones = append(a.bones, b)
	a.byTag[b.tag] = b
	a.invalidate()
}

func (a *Armature) unregister(b *Bone) {
	a.bones = slices.DeleteFunc(a.bones, func(x *Bone) bool { return x == b })
	delete(a.byTag, b.tag)
}

// invalidate drops the decompositions and every bone's child cache. The
// next solve rebuilds them.
func (a *Armature) invalidate() {
	a.stale = true
	for _, b := range a.bones {
		b.cache.valid = false
	}
}

func (a *Armature) ensureDecomposed() {
	if a.stale {
		a.UpdateDecompositions()
	}
}

// UpdateDecompositions rebuilds the chain and strand views of the tree.
// Solvers call it on demand after a structural or pin change.
func (a *Armature) UpdateDecompositions() {
	a.boneSegments = make(map[*Bone]*Segment)
	a.boneStrands = make(map[*Bone]*StrandCollection)
	a.segmentRoot = nil
	a.strandRoot = nil
	if a.root != nil && (a.root.IsPinned() || a.root.HasPinnedDescendant()) {
		a.segmentRoot = buildSegment(a.root, nil, a.boneSegments)
		a.strandRoot = buildStrandCollection(a.root, nil, a.boneStrands)
	}
	a.stale = false

	segments, strands := 0, 0
	if a.segmentRoot != nil {
		a.segmentRoot.walk(func(*Segment) { segments++ })
	}
	if a.strandRoot != nil {
		a.strandRoot.walk(func(c *StrandCollection) { strands += len(c.strands) })
	}
	a.log.Debug("rebuilt decompositions",
		zap.String("armature", a.tag),
		zap.Int("bones", len(a.bones)),
		zap.Int("segments", segments),
		zap.Int("strands", strands),
	)
}

// Segments returns the root of the chain decomposition, or nil when nothing
// is pinned.
func (a *Armature) Segments() *Segment {
	a.ensureDecomposed()
	return a.segmentRoot
}

// SegmentFor returns the chain segment containing b.
func (a *Armature) SegmentFor(b *Bone) (*Segment, bool) {
	a.ensureDecomposed()
	s, ok := a.boneSegments[b]
	return s, ok
}

// Strands returns the root strand collection, or nil when nothing is pinned.
func (a *Armature) Strands() *StrandCollection {
	a.ensureDecomposed()
	return a.strandRoot
}

// StrandCollectionFor returns the strand collection b takes part in.
func (a *Armature) StrandCollectionFor(b *Bone) (*StrandCollection, bool) {
	a.ensureDecomposed()
	c, ok := a.boneStrands[b]
	return c, ok
}

// LastReport returns the report of the most recent solve.
func (a *Armature) LastReport() SolveReport {
	return a.last
}
