package birch

import (
	_ "embed"

	"github.com/pkg/errors"
)

// IdentityVertexShader places 2D points directly in clip space and passes the
// position remapped from [-1, 1] to [0, 1] as position_norm.
//
//go:embed shaders/identity.vert
var IdentityVertexShader string

// IdentityFragmentShader samples the bound texture at position_norm,
// unmodified.
//
//go:embed shaders/identity.frag
var IdentityFragmentShader string

// --- ShaderCache ---

// ShaderCache owns the identity shader pair shared by every PostProcessor
// created from it. Create one per device at startup and pass it around;
// each stage compiles at most once, on first use.
type ShaderCache struct {
	dev Device

	vertexSrc, fragmentSrc string

	vertex, fragment       ShaderHandle
	hasVertex, hasFragment bool

	// compile attempts per stage, for diagnostics and tests
	vertexCompiles, fragmentCompiles int
}

// NewShaderCache creates an empty cache for dev. If dev implements
// IdentitySourcer its sources replace the built-in GLSL pair.
func NewShaderCache(dev Device) *ShaderCache {
	c := &ShaderCache{
		dev:         dev,
		vertexSrc:   IdentityVertexShader,
		fragmentSrc: IdentityFragmentShader,
	}
	if is, ok := dev.(IdentitySourcer); ok {
		c.vertexSrc, c.fragmentSrc = is.IdentitySources()
	}
	return c
}

// Device returns the device the cache compiles on.
func (c *ShaderCache) Device() Device {
	return c.dev
}

// IdentityVertex returns the shared identity vertex stage, compiling it on
// the first call. A failed compile is not cached.
func (c *ShaderCache) IdentityVertex() (ShaderHandle, error) {
	if !c.hasVertex {
		c.vertexCompiles++
		sh, err := CompileShader(c.dev, ShaderVertex, c.vertexSrc)
		if err != nil {
			return 0, errors.Wrap(err, "identity vertex shader")
		}
		c.vertex, c.hasVertex = sh, true
	}
	return c.vertex, nil
}

// IdentityFragment returns the shared identity fragment stage, compiling it
// on the first call. A failed compile is not cached.
func (c *ShaderCache) IdentityFragment() (ShaderHandle, error) {
	if !c.hasFragment {
		c.fragmentCompiles++
		sh, err := CompileShader(c.dev, ShaderFragment, c.fragmentSrc)
		if err != nil {
			return 0, errors.Wrap(err, "identity fragment shader")
		}
		c.fragment, c.hasFragment = sh, true
	}
	return c.fragment, nil
}

// Release deletes the cached stages. Only for host teardown: processors
// still using them are left with dangling shaders.
func (c *ShaderCache) Release() {
	if c.hasVertex {
		c.dev.DeleteShader(c.vertex)
		c.hasVertex = false
	}
	if c.hasFragment {
		c.dev.DeleteShader(c.fragment)
		c.hasFragment = false
	}
}

// --- PostProcessor ---

// PostProcessor is a full-screen effect: the identity vertex stage paired
// with an effect fragment stage.
type PostProcessor struct {
	program *ShaderProgram
	effect  string
}

// NewPostProcessor builds a postprocessing program. An empty effect falls
// back to the shared identity fragment stage, which copies the bound texture
// to the screen. A non-empty effect is compiled for this processor alone.
func NewPostProcessor(cache *ShaderCache, effect string) (*PostProcessor, error) {
	vs, err := cache.IdentityVertex()
	if err != nil {
		return nil, err
	}

	var fs ShaderHandle
	ownsFragment := false
	if effect == "" {
		fs, err = cache.IdentityFragment()
		if err != nil {
			return nil, err
		}
	} else {
		fs, err = CompileShader(cache.dev, ShaderFragment, effect)
		if err != nil {
			return nil, errors.Wrap(err, "effect shader")
		}
		ownsFragment = true
	}

	prog, err := newProgramFromShaders(cache.dev, vs, fs, false, ownsFragment)
	if err != nil {
		return nil, errors.Wrap(err, "postprocessor")
	}
	return &PostProcessor{program: prog, effect: effect}, nil
}

// Activate makes the processor's program the active one.
func (pp *PostProcessor) Activate() error {
	return pp.program.Activate()
}

// Program returns the underlying linked program.
func (pp *PostProcessor) Program() *ShaderProgram {
	return pp.program
}

// Effect returns the effect source, or "" for the identity effect.
func (pp *PostProcessor) Effect() string {
	return pp.effect
}

// Delete releases the program and the effect stage. The shared identity
// stages stay in the cache.
func (pp *PostProcessor) Delete() {
	pp.program.Delete()
}
