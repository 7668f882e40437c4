package kagedevice

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"

	"github.com/phanxgames/birch"
)

// IdentityVertex is the only vertex source the device accepts. Ebitengine
// always runs its own vertex stage for DrawRectShader, which already maps
// the rectangle straight to the target, so the directive just names it.
const IdentityVertex = "//kage:vertex identity"

// IdentityFragment copies the source image to the target unchanged.
const IdentityFragment = `//kage:unit pixels
package main

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	return imageSrc0At(srcPos)
}
`

type shader struct {
	kind     birch.ShaderKind
	src      string
	compiled *ebiten.Shader
	ok       bool
	log      string
}

type program struct {
	attached []birch.ShaderHandle
	linked   bool
	log      string
	fragment birch.ShaderHandle
	// compiled is the fragment stage as it was at link time. Recompiling
	// or deleting the shader object does not affect it.
	compiled *ebiten.Shader
}

// Device implements birch.Device on Ebitengine. Fragment stages are Kage
// programs compiled with ebiten.NewShader; the vertex stage is fixed.
//
// Like every ebiten call, the device must be used from the game goroutine.
type Device struct {
	shaders  map[birch.ShaderHandle]*shader
	programs map[birch.ProgramHandle]*program
	next     uint32
	active   birch.ProgramHandle
	// live counts the linked programs holding each compiled stage.
	live map[*ebiten.Shader]int

	// Uniforms are passed to the active program on every Draw.
	Uniforms map[string]any

	newShader  func([]byte) (*ebiten.Shader, error)
	freeShader func(*ebiten.Shader)
	op         ebiten.DrawRectShaderOptions
}

// New creates an empty device.
func New() *Device {
	return &Device{
		shaders:    make(map[birch.ShaderHandle]*shader),
		programs:   make(map[birch.ProgramHandle]*program),
		live:       make(map[*ebiten.Shader]int),
		Uniforms:   make(map[string]any),
		newShader:  ebiten.NewShader,
		freeShader: (*ebiten.Shader).Deallocate,
	}
}

// IdentitySources returns the Kage identity pair, replacing the GLSL one in
// birch.ShaderCache.
func (d *Device) IdentitySources() (vertex, fragment string) {
	return IdentityVertex, IdentityFragment
}

func (d *Device) nextHandle() uint32 {
	d.next++
	return d.next
}

// CreateShader allocates an empty shader object.
func (d *Device) CreateShader(kind birch.ShaderKind) birch.ShaderHandle {
	h := birch.ShaderHandle(d.nextHandle())
	d.shaders[h] = &shader{kind: kind}
	return h
}

// ShaderSource sets the source compiled by the next CompileShader.
func (d *Device) ShaderSource(sh birch.ShaderHandle, src string) {
	if s, ok := d.shaders[sh]; ok {
		s.src = src
	}
}

// CompileShader compiles the shader's source. Kage errors end up in the
// info log.
func (d *Device) CompileShader(sh birch.ShaderHandle) {
	s, ok := d.shaders[sh]
	if !ok {
		return
	}
	switch s.kind {
	case birch.ShaderVertex:
		if strings.TrimSpace(s.src) != IdentityVertex {
			s.ok = false
			s.log = "kagedevice: custom vertex stages are not supported, use " + IdentityVertex
			return
		}
		s.ok, s.log = true, ""
	case birch.ShaderFragment:
		compiled, err := d.newShader([]byte(s.src))
		if err != nil {
			s.ok = false
			s.log = err.Error()
			return
		}
		d.release(s)
		s.compiled, s.ok, s.log = compiled, true, ""
	default:
		s.ok = false
		s.log = "kagedevice: unsupported shader kind " + s.kind.String()
	}
}

// ShaderCompiled reports whether the last compile succeeded.
func (d *Device) ShaderCompiled(sh birch.ShaderHandle) bool {
	s, ok := d.shaders[sh]
	return ok && s.ok
}

// ShaderInfoLog returns the last compile diagnostics.
func (d *Device) ShaderInfoLog(sh birch.ShaderHandle) string {
	if s, ok := d.shaders[sh]; ok {
		return s.log
	}
	return ""
}

// DeleteShader deletes the shader object. Like GL, its compiled stage stays
// alive until no linked program uses it.
func (d *Device) DeleteShader(sh birch.ShaderHandle) {
	s, ok := d.shaders[sh]
	if !ok {
		return
	}
	d.release(s)
	delete(d.shaders, sh)
}

// release drops the shader object's compiled stage, freeing it unless a
// linked program still holds it.
func (d *Device) release(s *shader) {
	if s.compiled != nil && d.live[s.compiled] == 0 {
		d.freeShader(s.compiled)
	}
	s.compiled = nil
}

// unlink drops prog's hold on its compiled stage and frees the stage once
// neither a program nor its shader object owns it.
func (d *Device) unlink(prog *program) {
	c := prog.compiled
	prog.compiled = nil
	if c == nil {
		return
	}
	d.live[c]--
	if d.live[c] > 0 {
		return
	}
	delete(d.live, c)
	if s, ok := d.shaders[prog.fragment]; !ok || s.compiled != c {
		d.freeShader(c)
	}
}

// CreateProgram allocates an empty program object.
func (d *Device) CreateProgram() birch.ProgramHandle {
	h := birch.ProgramHandle(d.nextHandle())
	d.programs[h] = &program{}
	return h
}

// AttachShader adds sh to the program's stages.
func (d *Device) AttachShader(p birch.ProgramHandle, sh birch.ShaderHandle) {
	if prog, ok := d.programs[p]; ok {
		prog.attached = append(prog.attached, sh)
	}
}

// DetachShader removes sh from the program's stages.
func (d *Device) DetachShader(p birch.ProgramHandle, sh birch.ShaderHandle) {
	prog, ok := d.programs[p]
	if !ok {
		return
	}
	for i, h := range prog.attached {
		if h == sh {
			prog.attached = append(prog.attached[:i], prog.attached[i+1:]...)
			return
		}
	}
}

// LinkProgram checks for exactly one compiled stage of each kind.
func (d *Device) LinkProgram(p birch.ProgramHandle) {
	prog, ok := d.programs[p]
	if !ok {
		return
	}
	fragment, err := d.link(prog)
	d.unlink(prog)
	if err != nil {
		prog.linked = false
		prog.log = err.Error()
		return
	}
	prog.fragment = fragment
	prog.compiled = d.shaders[fragment].compiled
	d.live[prog.compiled]++
	prog.linked, prog.log = true, ""
}

// link validates the attached stages and returns the fragment stage.
func (d *Device) link(prog *program) (birch.ShaderHandle, error) {
	var vertex, fragment []birch.ShaderHandle
	for _, h := range prog.attached {
		s, ok := d.shaders[h]
		if !ok || !s.ok {
			return 0, errors.Errorf("kagedevice: shader %d is not compiled", h)
		}
		if s.kind == birch.ShaderVertex {
			vertex = append(vertex, h)
		} else {
			fragment = append(fragment, h)
		}
	}
	if len(vertex) != 1 || len(fragment) != 1 {
		return 0, errors.Errorf("kagedevice: need one vertex and one fragment stage, have %d and %d",
			len(vertex), len(fragment))
	}
	return fragment[0], nil
}

// ProgramLinked reports whether the last link succeeded.
func (d *Device) ProgramLinked(p birch.ProgramHandle) bool {
	prog, ok := d.programs[p]
	return ok && prog.linked
}

// ProgramInfoLog returns the last link diagnostics.
func (d *Device) ProgramInfoLog(p birch.ProgramHandle) string {
	if prog, ok := d.programs[p]; ok {
		return prog.log
	}
	return ""
}

// DeleteProgram releases the program and any stage only it kept alive.
func (d *Device) DeleteProgram(p birch.ProgramHandle) {
	prog, ok := d.programs[p]
	if !ok {
		return
	}
	d.unlink(prog)
	delete(d.programs, p)
	if d.active == p {
		d.active = 0
	}
}

// UseProgram selects the program used by Draw.
func (d *Device) UseProgram(p birch.ProgramHandle) {
	d.active = p
}

// Active returns the handle selected by UseProgram, or zero.
func (d *Device) Active() birch.ProgramHandle {
	return d.active
}

// Draw runs the active program over src, writing to dst. src is bound as
// imageSrc0 and stretched to cover dst.
func (d *Device) Draw(dst, src *ebiten.Image) error {
	prog, ok := d.programs[d.active]
	if !ok || !prog.linked {
		return birch.ErrProgramNotLinked
	}
	fs := prog.compiled

	sb := src.Bounds()
	db := dst.Bounds()
	d.op.GeoM.Reset()
	d.op.GeoM.Scale(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	d.op.Images[0] = src
	d.op.Uniforms = d.Uniforms
	dst.DrawRectShader(sb.Dx(), sb.Dy(), fs, &d.op)
	d.op.Images[0] = nil
	return nil
}
