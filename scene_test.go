package birch

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// traceBehavior records "<name>.update@t" / "<name>.render@t" into a shared log.
type traceBehavior struct {
	name string
	log  *[]string
}

func (b traceBehavior) Update(now float64) { *b.log = append(*b.log, b.name+".update") }
func (b traceBehavior) Render(now float64) { *b.log = append(*b.log, b.name+".render") }

func newTraced(name string, log *[]string) *SceneObject {
	o := NewSceneObject(name)
	o.Behavior = traceBehavior{name: name, log: log}
	return o
}

func TestNewScene(t *testing.T) {
	s := NewScene()
	require.NotNil(t, s.Root())
	assert.Equal(t, "root", s.Root().Name)
	assert.Same(t, s.root, s.Root())
}

func TestSceneFrameUpdatesBeforeRender(t *testing.T) {
	var log []string
	s := NewScene()
	a := newTraced("a", &log)
	b := newTraced("b", &log)
	a1 := newTraced("a1", &log)
	s.Root().AddChild(a)
	s.Root().AddChild(b)
	a.AddChild(a1)

	s.Frame(1)
	assert.Equal(t, []string{
		"a.update", "a1.update", "b.update",
		"a.render", "a1.render", "b.render",
	}, log)
}

func TestSceneRenderSeesUpdateMutations(t *testing.T) {
	s := NewScene()
	mover := NewSceneObject("mover")
	watcher := NewSceneObject("watcher")
	s.Root().AddChild(watcher)
	s.Root().AddChild(mover)

	var seen mgl32.Vec4
	// watcher renders before mover's later sibling update would matter, but
	// the update pass has already finished by then.
	mover.Behavior = Hooks{UpdateFunc: func(now float64) {
		mover.Transform.TranslateAbs(mgl32.Vec3{float32(now), 0, 0})
	}}
	watcher.Behavior = Hooks{RenderFunc: func(float64) {
		seen = mover.Transform.Matrix().Col(3)
	}}

	s.Frame(3)
	assert.Equal(t, mgl32.Vec4{3, 0, 0, 1}, seen)
}

func TestSceneWorldMatrices(t *testing.T) {
	s := NewScene()
	parent := NewSceneObject("parent")
	child := NewSceneObject("child")
	s.Root().AddChild(parent)
	parent.AddChild(child)

	parent.Transform.TranslateAbs(mgl32.Vec3{10, 0, 0}).ScaleAbs(mgl32.Vec3{2, 2, 2})
	child.Transform.TranslateAbs(mgl32.Vec3{1, 1, 0})

	s.Render(0)
	p := child.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec4{12, 2, 0, 1}, epsilon), "got %v", p)

	// Moving the parent propagates even though the child is unchanged.
	parent.Transform.TranslateBy(mgl32.Vec3{0, 5, 0})
	s.Render(0)
	p = child.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec4{12, 7, 0, 1}, epsilon), "got %v", p)
}

func TestSceneWorldMatrixRecomputedOnlyWhenChanged(t *testing.T) {
	s := NewScene()
	o := NewSceneObject("o")
	s.Root().AddChild(o)
	o.Transform.TranslateAbs(mgl32.Vec3{1, 0, 0})

	s.Render(0)
	assert.Equal(t, 1, o.Transform.recomputes)
	s.Render(0)
	s.Render(0)
	assert.Equal(t, 1, o.Transform.recomputes)

	// A Matrix() read from a hook clears dirty; the world pass must still
	// notice the mutation.
	o.Transform.TranslateAbs(mgl32.Vec3{4, 0, 0})
	o.Transform.Matrix()
	s.Render(0)
	assert.Equal(t, mgl32.Vec4{4, 0, 0, 1}, o.WorldMatrix().Col(3))
}

func TestSceneReassignedTransformRefreshesWorld(t *testing.T) {
	s := NewScene()
	o := NewSceneObject("o")
	s.Root().AddChild(o)
	o.Transform.TranslateAbs(mgl32.Vec3{1, 0, 0})
	s.Frame(0)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, o.WorldMatrix().Col(3))

	// A fresh transform has had the same number of mutations as the old one.
	o.Transform = *NewTransform().TranslateAbs(mgl32.Vec3{5, 0, 0})
	s.Frame(1)
	assert.Equal(t, mgl32.Vec4{5, 0, 0, 1}, o.WorldMatrix().Col(3))
	assert.Equal(t, o.Transform.Matrix(), o.WorldMatrix())
}

func TestSceneReparentRefreshesWorld(t *testing.T) {
	s := NewScene()
	a := NewSceneObject("a")
	b := NewSceneObject("b")
	child := NewSceneObject("child")
	a.Transform.TranslateAbs(mgl32.Vec3{1, 0, 0})
	b.Transform.TranslateAbs(mgl32.Vec3{0, 1, 0})
	s.Root().AddChild(a)
	s.Root().AddChild(b)
	a.AddChild(child)
	s.Render(0)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, child.WorldMatrix().Col(3))

	a.RemoveChild(child)
	b.AddChild(child)
	s.Render(0)
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, child.WorldMatrix().Col(3))
}

func TestSceneInvisibleSkipsRenderOnly(t *testing.T) {
	var log []string
	s := NewScene()
	hidden := newTraced("hidden", &log)
	hidden.AddChild(newTraced("inner", &log))
	hidden.Visible = false
	s.Root().AddChild(hidden)

	s.Frame(0)
	assert.Equal(t, []string{"hidden.update", "inner.update"}, log)
}

func TestSceneHiddenSubtreeCatchesUp(t *testing.T) {
	s := NewScene()
	parent := NewSceneObject("parent")
	child := NewSceneObject("child")
	s.Root().AddChild(parent)
	parent.AddChild(child)
	s.Render(0)

	child.Visible = false
	parent.Transform.TranslateAbs(mgl32.Vec3{3, 0, 0})
	s.Render(0)
	s.Render(0)

	child.Visible = true
	s.Render(0)
	assert.Equal(t, mgl32.Vec4{3, 0, 0, 1}, child.WorldMatrix().Col(3))
}

func TestSceneClampsTime(t *testing.T) {
	var times []float64
	s := NewScene()
	o := NewSceneObject("o")
	o.Behavior = Hooks{UpdateFunc: func(now float64) { times = append(times, now) }}
	s.Root().AddChild(o)

	s.Update(2)
	s.Update(1)
	s.Update(3)
	assert.Equal(t, []float64{2, 2, 3}, times)
	assert.Equal(t, 3.0, s.Now())
}

func TestSceneChildAddedDuringUpdateIsVisited(t *testing.T) {
	var log []string
	s := NewScene()
	spawner := NewSceneObject("spawner")
	spawned := false
	spawner.Behavior = Hooks{UpdateFunc: func(float64) {
		if !spawned {
			spawned = true
			spawner.AddChild(newTraced("spawn", &log))
		}
	}}
	s.Root().AddChild(spawner)
	s.Frame(0)
	assert.Equal(t, []string{"spawn.update", "spawn.render"}, log)
}

func TestSceneSiblingRemovedDuringUpdateSkipsNone(t *testing.T) {
	var log []string
	s := NewScene()
	a := newTraced("a", &log)
	c := newTraced("c", &log)
	b := NewSceneObject("b")
	b.Behavior = Hooks{UpdateFunc: func(float64) { s.Root().RemoveChild(a) }}
	s.Root().AddChild(a)
	s.Root().AddChild(b)
	s.Root().AddChild(c)

	s.Update(0)
	assert.Equal(t, []string{"a.update", "c.update"}, log)
}

func TestSceneSetDebugMode(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	assert.True(t, s.debug)
	assert.True(t, globalDebug)
	s.SetDebugMode(false)
	assert.False(t, s.debug)
	assert.False(t, globalDebug)
}

func TestSceneDebugLogsFrameStats(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)
	s.Root().AddChild(NewSceneObject("a"))

	s.Frame(1)
	s.Update(0)

	out := buf.String()
	assert.Contains(t, out, "birch: frame")
	assert.Contains(t, out, "objects=2")
	assert.Contains(t, out, "frame time went backwards")
}

func TestSceneDebugWarnsDeepTree(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	parent := s.Root()
	for i := 0; i < debugMaxTreeDepth+1; i++ {
		o := NewSceneObject("deep")
		parent.AddChild(o)
		parent = o
	}
	s.Render(0)
	assert.Contains(t, buf.String(), "tree depth exceeds threshold")
}
