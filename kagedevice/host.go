package kagedevice

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"

	"github.com/phanxgames/birch"
)

// Host drives a birch.Scene from Ebitengine's game loop. Renderables draw
// into Canvas during the render pass; Draw then runs the post-processing
// program over the canvas onto the screen.
type Host struct {
	Scene  *birch.Scene
	Device *Device
	Cache  *birch.ShaderCache

	// ScreenshotDir receives the PNGs queued with Screenshot.
	ScreenshotDir string

	cfg    RunConfig
	pp     *birch.PostProcessor
	canvas *ebiten.Image
	ticks  uint64
	failed bool

	screenshots []string
}

// NewHost creates a host for scene. The post-processing program is built on
// the first Update.
func NewHost(scene *birch.Scene, cfg RunConfig) (*Host, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	dev := New()
	if cfg.Saturation != nil {
		Saturation(*cfg.Saturation).Bind(dev)
	}
	return &Host{
		Scene:  scene,
		Device: dev,
		Cache:  birch.NewShaderCache(dev),

		ScreenshotDir: cfg.ScreenshotDir,
		cfg:           cfg,
	}, nil
}

// Canvas is the offscreen image the scene renders into this frame.
func (h *Host) Canvas() *ebiten.Image {
	return h.canvas
}

// PostProcessor returns the active post-processing program, or nil before
// the first Update.
func (h *Host) PostProcessor() *birch.PostProcessor {
	return h.pp
}

// Now returns the scene time of the current tick in seconds.
func (h *Host) Now() float64 {
	return float64(h.ticks) / float64(h.cfg.TPS)
}

// Update implements ebiten.Game. A post-processor that fails to build ends
// the game with its error.
func (h *Host) Update() error {
	if h.pp == nil {
		pp, err := birch.NewPostProcessor(h.Cache, h.cfg.Effect)
		if err != nil {
			return errors.Wrap(err, "kagedevice")
		}
		h.pp = pp
	}
	h.ticks++
	h.Scene.Update(h.Now())
	return nil
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	if h.canvas == nil || h.canvas.Bounds().Dx() != sw || h.canvas.Bounds().Dy() != sh {
		if h.canvas != nil {
			h.canvas.Deallocate()
		}
		h.canvas = ebiten.NewImage(sw, sh)
	}
	h.canvas.Clear()
	h.Scene.Render(h.Now())

	if !h.postProcess(screen) {
		screen.DrawImage(h.canvas, nil)
	}
	h.flushScreenshots(screen)
}

// postProcess draws the canvas through the post-processor. After the first
// failure it logs once and reports false from then on, so Draw falls back
// to a plain copy.
func (h *Host) postProcess(screen *ebiten.Image) bool {
	if h.pp == nil || h.failed {
		return false
	}
	err := h.pp.Activate()
	if err == nil {
		err = h.Device.Draw(screen, h.canvas)
	}
	if err != nil {
		h.failed = true
		birch.Logger().Error("kagedevice: post-processing disabled", "err", err)
		return false
	}
	return true
}

// Layout implements ebiten.Game.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if h.cfg.Resizable {
		return outsideWidth, outsideHeight
	}
	return h.cfg.Width, h.cfg.Height
}

// Close releases the post-processor and the shared identity stages.
func (h *Host) Close() {
	if h.pp != nil {
		h.pp.Delete()
		h.pp = nil
	}
	h.Cache.Release()
	if h.canvas != nil {
		h.canvas.Deallocate()
		h.canvas = nil
	}
}

// Config returns the run config with defaults applied.
func (h *Host) Config() RunConfig {
	return h.cfg
}

// Run opens the window and blocks until it is closed or Update fails.
func (h *Host) Run() error {
	ebiten.SetWindowTitle(h.cfg.Title)
	ebiten.SetWindowSize(h.cfg.Width, h.cfg.Height)
	ebiten.SetTPS(h.cfg.TPS)
	if h.cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(h)
}

// Run opens a window described by cfg and runs scene until the window is
// closed or the post-processor fails to build.
func Run(scene *birch.Scene, cfg RunConfig) error {
	h, err := NewHost(scene, cfg)
	if err != nil {
		return err
	}
	defer h.Close()
	return h.Run()
}
