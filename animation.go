package birch

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates one component of a SceneObject's Transform. Create one
// via TweenTranslation, TweenScale or TweenRotation and advance it with
// Update(dt), or hand it to an Animator. Values are written through the
// Transform setters, so the matrix is invalidated on every step. If the
// target object is disposed, the group stops immediately.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	apply  func(vals [3]float32)
	target *SceneObject
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target transform.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	var vals [3]float32
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = val
		if !finished {
			allDone = false
		}
	}
	g.apply(vals)
	g.Done = allDone
}

func newVec3Tween(from, to mgl32.Vec3, duration float32, fn ease.TweenFunc) [3]*gween.Tween {
	return [3]*gween.Tween{
		gween.New(from[0], to[0], duration, fn),
		gween.New(from[1], to[1], duration, fn),
		gween.New(from[2], to[2], duration, fn),
	}
}

// TweenTranslation animates the object's translation to `to`.
func TweenTranslation(obj *SceneObject, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return &TweenGroup{
		tweens: newVec3Tween(obj.Transform.Translation(), to, duration, fn),
		count:  3,
		target: obj,
		apply: func(v [3]float32) {
			obj.Transform.TranslateAbs(mgl32.Vec3{v[0], v[1], v[2]})
		},
	}
}

// TweenScale animates the object's scale to `to`.
func TweenScale(obj *SceneObject, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return &TweenGroup{
		tweens: newVec3Tween(obj.Transform.Scale(), to, duration, fn),
		count:  3,
		target: obj,
		apply: func(v [3]float32) {
			obj.Transform.ScaleAbs(mgl32.Vec3{v[0], v[1], v[2]})
		},
	}
}

// TweenRotation animates the object's rotation to `to` along the shortest
// arc. The easing function shapes the slerp parameter.
func TweenRotation(obj *SceneObject, to mgl32.Quat, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := obj.Transform.Rotation()
	g := &TweenGroup{count: 1, target: obj}
	g.tweens[0] = gween.New(0, 1, duration, fn)
	g.apply = func(v [3]float32) {
		obj.Transform.RotateAbs(mgl32.QuatSlerp(from, to, v[0]).Normalize())
	}
	return g
}

// --- Animator ---

// Animator is a Renderable that drives tweens from the update hook. It turns
// the absolute frame time into per-frame deltas and drops groups once they
// finish.
//
// There is no global animation manager: attach an Animator as an object's
// Behavior, or call Update yourself.
type Animator struct {
	groups  []*TweenGroup
	last    float64
	started bool
}

// Add schedules g. It starts advancing on the next Update.
func (a *Animator) Add(g *TweenGroup) {
	a.groups = append(a.groups, g)
}

// Len returns the number of unfinished groups.
func (a *Animator) Len() int {
	return len(a.groups)
}

// Update advances every group by the time elapsed since the previous call.
// The first call only records the start time.
func (a *Animator) Update(now float64) {
	if !a.started {
		a.started = true
		a.last = now
		return
	}
	dt := float32(now - a.last)
	a.last = now
	if dt <= 0 {
		return
	}

	live := a.groups[:0]
	for _, g := range a.groups {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(a.groups); i++ {
		a.groups[i] = nil
	}
	a.groups = live
}

// Render does nothing; the animated object draws itself.
func (a *Animator) Render(now float64) {}
