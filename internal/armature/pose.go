package armature

import "github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/frame"

// Pose is a snapshot of local bone transforms keyed by bone tag.
type Pose map[string]frame.Basis

// SavePose records every bone's local transform.
func (a *Armature) SavePose() Pose {
	p := make(Pose, len(a.bones))
	for _, b := range a.bones {
		p[b.tag] = b.frame.Local()
	}
	return p
}

// RestorePose applies a saved pose. Tags missing from the armature are
// ignored, as are bones missing from the pose.
func (a *Armature) RestorePose(p Pose) {
	for tag, local := range p {
		if b, ok := a.byTag[tag]; ok {
			b.frame.SetLocal(local)
		}
	}
}
