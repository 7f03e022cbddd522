package armature

import "errors"

var (
	// ErrNullParent is returned when a bone is created with neither a parent
	// bone nor an owning armature: a bone cannot exist outside a tree.
	ErrNullParent = errors.New("armature: bone has no parent and no armature")
	// ErrRootExists is returned when a second parentless bone is added.
	ErrRootExists = errors.New("armature: root bone already set")
	// ErrDuplicateTag is returned when a bone tag is reused within an armature.
	ErrDuplicateTag = errors.New("armature: duplicate bone tag")
	// ErrForeignBone is returned when a bone from another armature is passed in.
	ErrForeignBone = errors.New("armature: bone belongs to a different armature")
	// ErrInvalidLength is returned for negative or non-finite bone lengths.
	ErrInvalidLength = errors.New("armature: invalid bone length")
	// ErrUnknownSolver is returned for an unrecognised solver variant.
	ErrUnknownSolver = errors.New("armature: unknown solver variant")
)
