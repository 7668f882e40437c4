package birch

import "github.com/go-gl/mathgl/mgl32"

// Transform holds a translation, rotation and scale and lazily derives the
// 4x4 matrix M = Translate * Rotate * Scale from them.
//
// The zero value is not usable: scale and rotation would be zero. Use
// NewTransform, or the Transform embedded in a SceneObject.
type Transform struct {
	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       mgl32.Vec3

	// matrix is only valid while dirty is false.
	matrix mgl32.Mat4
	dirty  bool

	// version is drawn from transformVersions on every mutation, so it
	// never repeats across transforms. World-matrix propagation compares it
	// instead of dirty because Matrix() clears dirty.
	version uint64

	recomputes int
}

// transformVersions is shared by all transforms: a SceneObject whose
// Transform field is reassigned wholesale must still see a new version.
var transformVersions uint64

func nextTransformVersion() uint64 {
	transformVersions++
	return transformVersions
}

// NewTransform returns an identity transform: no translation, no rotation
// and a scale of 1.
func NewTransform() *Transform {
	t := &Transform{}
	t.init()
	return t
}

func (t *Transform) init() {
	t.translation = mgl32.Vec3{}
	t.rotation = mgl32.QuatIdent()
	t.scale = mgl32.Vec3{1, 1, 1}
	t.matrix = mgl32.Ident4()
	t.dirty = false
	t.version = nextTransformVersion()
}

// Reset restores the identity state. The next world-matrix pass treats the
// transform as changed.
func (t *Transform) Reset() *Transform {
	t.init()
	return t
}

func (t *Transform) touch() {
	t.dirty = true
	t.version = nextTransformVersion()
}

// ScaleAbs sets the absolute scale.
func (t *Transform) ScaleAbs(v mgl32.Vec3) *Transform {
	t.scale = v
	t.touch()
	return t
}

// ScaleBy multiplies the current scale component-wise by v.
func (t *Transform) ScaleBy(v mgl32.Vec3) *Transform {
	t.scale = mgl32.Vec3{t.scale[0] * v[0], t.scale[1] * v[1], t.scale[2] * v[2]}
	t.touch()
	return t
}

// RotateAbs sets the absolute rotation. q must be unit length.
func (t *Transform) RotateAbs(q mgl32.Quat) *Transform {
	t.rotation = q
	t.touch()
	return t
}

// RotateBy right-multiplies the current rotation by q, so q is applied in
// the object's local frame after the existing rotation.
func (t *Transform) RotateBy(q mgl32.Quat) *Transform {
	t.rotation = t.rotation.Mul(q)
	t.touch()
	return t
}

// TranslateAbs sets the absolute translation.
func (t *Transform) TranslateAbs(v mgl32.Vec3) *Transform {
	t.translation = v
	t.touch()
	return t
}

// TranslateBy adds v to the current translation.
func (t *Transform) TranslateBy(v mgl32.Vec3) *Transform {
	t.translation = t.translation.Add(v)
	t.touch()
	return t
}

// Matrix returns Translate * Rotate * Scale, recomputing it only if a
// mutator ran since the last call.
func (t *Transform) Matrix() mgl32.Mat4 {
	if t.dirty {
		t.matrix = composeTRS(t.rotation, t.translation, t.scale)
		t.dirty = false
		t.recomputes++
	}
	return t.matrix
}

// Translation returns the current translation.
func (t *Transform) Translation() mgl32.Vec3 { return t.translation }

// Rotation returns the current rotation.
func (t *Transform) Rotation() mgl32.Quat { return t.rotation }

// Scale returns the current scale.
func (t *Transform) Scale() mgl32.Vec3 { return t.scale }

// Dirty reports whether the cached matrix is stale.
func (t *Transform) Dirty() bool { return t.dirty }

// Version returns a counter that changes on every mutation.
func (t *Transform) Version() uint64 { return t.version }

// composeTRS builds the local matrix. Composition order:
//
//	Scale -> Rotate -> Translate
func composeTRS(r mgl32.Quat, tr, s mgl32.Vec3) mgl32.Mat4 {
	m := r.Mat4()
	// Scale columns, then place the translation in the last column.
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			m[col*4+row] *= s[col]
		}
	}
	m[12] = tr[0]
	m[13] = tr[1]
	m[14] = tr[2]
	return m
}
