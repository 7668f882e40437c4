package birch

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene owns the root of a SceneObject tree and walks it once per frame on
// behalf of the host render loop.
//
// Traversal policy: SceneObject hooks never recurse. Scene.Update runs the
// update pass over the whole tree, then Scene.Render runs the render pass,
// each depth-first and pre-order with children in insertion order. Every
// mutation made during the update pass is therefore visible to every Render
// of the same frame.
type Scene struct {
	root  *SceneObject
	debug bool

	now     float64
	started bool

	updateTime time.Duration
}

// NewScene creates a new scene with a pre-created root object.
func NewScene() *Scene {
	root := NewSceneObject("root")
	return &Scene{root: root}
}

// Root returns the scene's root object.
func (s *Scene) Root() *SceneObject {
	return s.root
}

// Now returns the time passed to the most recent Update or Render, after
// clamping.
func (s *Scene) Now() float64 {
	return s.now
}

// clampTime keeps hook time monotonically non-decreasing even if the host
// hands in an earlier value.
func (s *Scene) clampTime(now float64) float64 {
	if s.started && now < s.now {
		if s.debug {
			Logger().Warn("birch: frame time went backwards", "now", now, "last", s.now)
		}
		return s.now
	}
	s.started = true
	s.now = now
	return now
}

// Update calls Update(now) on every object in the tree.
func (s *Scene) Update(now float64) {
	now = s.clampTime(now)

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.root.Walk(func(o *SceneObject) bool {
		o.Update(now)
		return true
	})

	if s.debug {
		s.updateTime = time.Since(t0)
	}
}

// Render refreshes world matrices and calls Render(now) on every visible
// object. An invisible object hides its whole subtree.
func (s *Scene) Render(now float64) {
	now = s.clampTime(now)

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.render(s.root, mgl32.Ident4(), 0, now, 1, &stats)

	if s.debug {
		stats.updateTime = s.updateTime
		stats.renderTime = time.Since(t0)
		s.debugLog(stats)
	}
}

// Frame runs the update pass then the render pass for one frame.
func (s *Scene) Frame(now float64) {
	s.Update(now)
	s.Render(now)
}

// worldStampCounter hands out a fresh stamp per world recompute, so a
// stamp identifies one parent world matrix across the whole process.
var worldStampCounter uint64

// render refreshes o's world matrix if its transform, its parent's world or
// its parent changed since the last pass. Invisible subtrees are skipped
// and catch up when shown again.
func (s *Scene) render(o *SceneObject, parent mgl32.Mat4, parentStamp uint64, now float64, depth int, stats *debugStats) {
	if !o.Visible {
		return
	}

	if !o.worldValid || o.worldVersion != o.Transform.version || o.parentStamp != parentStamp {
		o.world = parent.Mul4(o.Transform.Matrix())
		o.worldVersion = o.Transform.version
		o.parentStamp = parentStamp
		o.worldValid = true
		worldStampCounter++
		o.worldStamp = worldStampCounter
		stats.worldUpdates++
	}

	if s.debug {
		stats.objectCount++
		if depth > stats.maxDepth {
			stats.maxDepth = depth
		}
		debugCheckDisposed(o, "Render")
	}

	o.Render(now)

	for i := 0; i < len(o.children); i++ {
		s.render(o.children[i], o.world, o.worldStamp, now, depth+1, stats)
	}
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-object
// access panics, tree depth and child count warnings are logged, and
// per-frame timing stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that object
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool
