// Package birch is the scene and shader-pipeline core of a real-time
// renderer.
//
// Birch provides a hierarchical scene graph whose transforms recompute their
// matrices lazily, and a shader-program abstraction for full-screen
// postprocessing. Everything else (window, input, assets, draw submission)
// belongs to the host, which drives the per-frame hooks and supplies the
// graphics [Device].
//
// # Scene graph
//
// Every positioned element is a [SceneObject]. Objects form a tree rooted at
// [Scene.Root]; each object owns its [Transform] and its children.
//
//	scene := birch.NewScene()
//	ship := birch.NewSceneObject("ship")
//	ship.Transform.
//		TranslateAbs(mgl32.Vec3{0, 1, -5}).
//		RotateBy(mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0}))
//	scene.Root().AddChild(ship)
//
// Per-variant behavior is a [Renderable] set as [SceneObject.Behavior]:
//
//	ship.Behavior = birch.Hooks{
//		RenderFunc: func(now float64) { drawShip(ship.WorldMatrix()) },
//	}
//
// The host calls [Scene.Frame] (or [Scene.Update] then [Scene.Render]) once
// per frame with the seconds elapsed since startup. Hooks never recurse:
// the Scene visits every object, depth-first in insertion order, running the
// whole update pass before the render pass.
//
// # Postprocessing
//
// A [PostProcessor] pairs the identity vertex stage with an effect fragment
// stage. The identity pair lives in a [ShaderCache], created once per device
// and shared by every processor:
//
//	cache := birch.NewShaderCache(dev)
//	copyPass, err := birch.NewPostProcessor(cache, "")      // identity
//	grayPass, err := birch.NewPostProcessor(cache, grayFrag) // custom effect
//	...
//	if err := grayPass.Activate(); err != nil { ... }
//
// Compile and link failures come back as [*ShaderCompileError] and
// [*ProgramLinkError]; the failed object is never returned.
//
// Ready-made devices live in the kagedevice (Ebitengine) and gldevice
// (OpenGL) packages. Tweens (via [gween]) animate transforms through an
// [Animator].
//
// All of birch is single-threaded: call it only from the thread that owns
// the graphics context.
//
// [gween]: https://github.com/tanema/gween
package birch
