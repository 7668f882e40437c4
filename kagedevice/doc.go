// Package kagedevice runs birch scenes on Ebitengine.
//
// Device implements birch.Device with Kage fragment programs, so the same
// ShaderCache and PostProcessor code that targets OpenGL drives an
// Ebitengine post-processing pass. Kage has no user vertex stage; the device
// accepts only the IdentityVertex marker there and reports anything else as
// a compile error.
//
// Host adapts a birch.Scene to ebiten.Game:
//
//	cfg, err := kagedevice.LoadRunConfig("run.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := kagedevice.Run(scene, cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Each tick advances scene time by 1/TPS seconds and runs the update pass.
// Each draw runs the render pass into Host.Canvas, then the post-processor
// copies the canvas to the screen.
package kagedevice
