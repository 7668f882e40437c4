package birch

import "github.com/go-gl/mathgl/mgl32"

// Renderable is the per-frame hook contract. The host (or Scene) calls
// Update then Render once per frame with now = seconds since app start.
type Renderable interface {
	Update(now float64)
	Render(now float64)
}

// Hooks adapts plain functions to Renderable. Nil funcs are no-ops.
type Hooks struct {
	UpdateFunc func(now float64)
	RenderFunc func(now float64)
}

// Update calls UpdateFunc if set.
func (h Hooks) Update(now float64) {
	if h.UpdateFunc != nil {
		h.UpdateFunc(now)
	}
}

// Render calls RenderFunc if set.
func (h Hooks) Render(now float64) {
	if h.RenderFunc != nil {
		h.RenderFunc(now)
	}
}

// --- ID counter ---

// objectIDCounter is a plain counter (no atomic: birch is single-threaded).
var objectIDCounter uint32

func nextObjectID() uint32 {
	objectIDCounter++
	return objectIDCounter
}

// --- SceneObject ---

// SceneObject is a node of the scene graph. It owns its Transform and its
// children; a child belongs to exactly one parent and there are no parent
// back-references.
//
// Update and Render never recurse into children. Walking the tree is the
// job of Scene (or of a host that walks it itself).
type SceneObject struct {
	ID   uint32
	Name string

	// Transform is relative to the parent object.
	Transform Transform

	// Behavior supplies the variant's hooks. Nil means both are no-ops,
	// which is what a plain grouping node wants.
	Behavior Renderable

	// Visible=false skips this subtree during the Scene render pass.
	// Update still runs.
	Visible bool

	UserData any

	children []*SceneObject
	attached bool

	// World matrix, maintained by the Scene render pass.
	world        mgl32.Mat4
	worldVersion uint64
	worldValid   bool
	// worldStamp changes on every recompute of world; parentStamp is the
	// parent's stamp that world was last derived from.
	worldStamp, parentStamp uint64

	// walkPass is the last Walk pass that visited this object.
	walkPass uint64

	disposed bool
}

// NewSceneObject creates an object with the given debug name, an identity
// transform and no children.
func NewSceneObject(name string) *SceneObject {
	o := &SceneObject{
		ID:      nextObjectID(),
		Name:    name,
		Visible: true,
		world:   mgl32.Ident4(),
	}
	o.Transform.init()
	return o
}

// Update advances the object's own state. Children are not visited.
func (o *SceneObject) Update(now float64) {
	if o.Behavior != nil {
		o.Behavior.Update(now)
	}
}

// Render issues the object's own drawing work. Children are not visited.
func (o *SceneObject) Render(now float64) {
	if o.Behavior != nil {
		o.Behavior.Render(now)
	}
}

// WorldMatrix returns the parent-relative chain of transforms composed into
// world space, as of the last Scene render pass. Before the object has been
// through a render pass it is the identity.
func (o *SceneObject) WorldMatrix() mgl32.Mat4 {
	return o.world
}

// --- Tree manipulation ---

// AddChild appends child and takes ownership of it.
// Panics if child is nil, already has a parent, or is this object or one of
// its ancestors (cycle).
func (o *SceneObject) AddChild(child *SceneObject) {
	o.checkAdd(child, "AddChild")
	child.attached = true
	child.worldValid = false
	o.children = append(o.children, child)
	if globalDebug {
		debugCheckChildCount(o)
	}
}

// AddChildAt inserts child at the given index.
// Same ownership and cycle checks as AddChild.
func (o *SceneObject) AddChildAt(child *SceneObject, index int) {
	o.checkAdd(child, "AddChildAt")
	if index < 0 || index > len(o.children) {
		panic("birch: child index out of range")
	}
	child.attached = true
	child.worldValid = false
	o.children = append(o.children, nil)
	copy(o.children[index+1:], o.children[index:])
	o.children[index] = child
	if globalDebug {
		debugCheckChildCount(o)
	}
}

func (o *SceneObject) checkAdd(child *SceneObject, op string) {
	if child == nil {
		panic("birch: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(o, op+" (parent)")
		debugCheckDisposed(child, op+" (child)")
	}
	if child.attached {
		panic("birch: child already has a parent")
	}
	// Without back-references the cycle check searches child's subtree for o.
	if child.contains(o) {
		panic("birch: adding child would create a cycle")
	}
}

// RemoveChild detaches child and hands ownership back to the caller.
// Panics if child is not a direct child of this object.
func (o *SceneObject) RemoveChild(child *SceneObject) {
	if globalDebug {
		debugCheckDisposed(o, "RemoveChild")
	}
	for i, c := range o.children {
		if c == child {
			o.RemoveChildAt(i)
			return
		}
	}
	panic("birch: object is not a child of this node")
}

// RemoveChildAt detaches and returns the child at the given index.
func (o *SceneObject) RemoveChildAt(index int) *SceneObject {
	if index < 0 || index >= len(o.children) {
		panic("birch: child index out of range")
	}
	child := o.children[index]
	copy(o.children[index:], o.children[index+1:])
	o.children[len(o.children)-1] = nil
	o.children = o.children[:len(o.children)-1]
	child.attached = false
	child.worldValid = false
	return child
}

// RemoveChildren detaches all children. They are not disposed.
func (o *SceneObject) RemoveChildren() {
	for i, child := range o.children {
		child.attached = false
		child.worldValid = false
		o.children[i] = nil
	}
	o.children = o.children[:0]
}

// Children returns the child list in insertion order. The returned slice
// MUST NOT be mutated by the caller.
func (o *SceneObject) Children() []*SceneObject {
	return o.children
}

// NumChildren returns the number of children.
func (o *SceneObject) NumChildren() int {
	return len(o.children)
}

// ChildAt returns the child at the given index.
func (o *SceneObject) ChildAt(index int) *SceneObject {
	return o.children[index]
}

// HasParent reports whether the object is currently owned by a parent.
func (o *SceneObject) HasParent() bool {
	return o.attached
}

// walkPasses numbers Walk calls so a pass can tell which children it has
// already visited.
var walkPasses uint64

// Walk visits o and its descendants depth-first, pre-order, children in
// insertion order. Returning false from fn skips that object's children.
//
// fn may restructure the tree. Children added during the pass are visited
// in it. Removing a sibling never causes another sibling to be skipped; an
// object already visited is not visited again.
func (o *SceneObject) Walk(fn func(*SceneObject) bool) {
	walkPasses++
	o.walk(fn, walkPasses)
}

func (o *SceneObject) walk(fn func(*SceneObject) bool, pass uint64) {
	o.walkPass = pass
	if !fn(o) {
		return
	}
	for i := 0; i < len(o.children); i++ {
		c := o.children[i]
		if c.walkPass == pass {
			continue
		}
		c.walk(fn, pass)
		if i >= len(o.children) || o.children[i] != c {
			// Siblings shifted; rescan and skip the visited ones.
			i = -1
		}
	}
}

// --- Disposal ---

// Dispose releases the object and, recursively, its whole subtree.
// The object must already be detached from its parent (or be a root).
func (o *SceneObject) Dispose() {
	if o.disposed {
		return
	}
	if o.attached {
		panic("birch: dispose of an attached object; remove it from its parent first")
	}
	o.dispose()
}

func (o *SceneObject) dispose() {
	o.disposed = true
	o.ID = 0
	for _, child := range o.children {
		child.attached = false
		child.dispose()
	}
	o.children = nil
	o.Behavior = nil
	o.UserData = nil
	o.worldValid = false
}

// IsDisposed returns true if this object has been disposed.
func (o *SceneObject) IsDisposed() bool {
	return o.disposed
}

// --- Helpers ---

// contains reports whether target is o or one of its descendants.
func (o *SceneObject) contains(target *SceneObject) bool {
	if o == target {
		return true
	}
	for _, c := range o.children {
		if c.contains(target) {
			return true
		}
	}
	return false
}
