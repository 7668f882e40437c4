package kagedevice

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/birch"
)

const fpsRefresh = 0.5 // seconds between redraws of the counter

// fpsCounter redraws its label every fpsRefresh seconds of scene time and
// stamps it onto the host canvas at the object's world position.
type fpsCounter struct {
	obj  *birch.SceneObject
	host *Host
	img  *ebiten.Image
	last float64
	op   ebiten.DrawImageOptions
}

// NewFPSObject returns an object that shows ebiten's measured FPS and TPS.
// Add it last under the root so it draws over the rest of the scene.
func NewFPSObject(h *Host) *birch.SceneObject {
	o := birch.NewSceneObject("fps")
	o.Transform.TranslateAbs(mgl32.Vec3{4, 4, 0})
	o.Behavior = &fpsCounter{
		obj:  o,
		host: h,
		img:  ebiten.NewImage(100, 32),
		last: -fpsRefresh,
	}
	return o
}

func (f *fpsCounter) Update(now float64) {
	if now-f.last < fpsRefresh {
		return
	}
	f.last = now
	f.img.Clear()
	f.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (f *fpsCounter) Render(now float64) {
	m := f.obj.WorldMatrix()
	f.op.GeoM.Reset()
	f.op.GeoM.Translate(float64(m[12]), float64(m[13]))
	f.host.Canvas().DrawImage(f.img, &f.op)
}
