package birch

import (
	"github.com/pkg/errors"
)

// CompileShader submits src to dev as a shader of the given kind. On failure
// the shader object is deleted and a *ShaderCompileError carrying the
// device log is returned.
func CompileShader(dev Device, kind ShaderKind, src string) (ShaderHandle, error) {
	sh := dev.CreateShader(kind)
	dev.ShaderSource(sh, src)
	dev.CompileShader(sh)

	if !dev.ShaderCompiled(sh) {
		log := dev.ShaderInfoLog(sh)
		Logger().Error("birch: failed to compile shader", "kind", kind, "log", log)
		dev.DeleteShader(sh)
		return 0, &ShaderCompileError{Kind: kind, Log: log}
	}
	return sh, nil
}

// CreateProgram attaches vs and fs to a new program and links it. On failure
// the program object is deleted (the shaders are left to their owners) and a
// *ProgramLinkError carrying the device log is returned.
func CreateProgram(dev Device, vs, fs ShaderHandle) (ProgramHandle, error) {
	p := dev.CreateProgram()
	dev.AttachShader(p, vs)
	dev.AttachShader(p, fs)
	dev.LinkProgram(p)

	if !dev.ProgramLinked(p) {
		log := dev.ProgramInfoLog(p)
		Logger().Error("birch: failed to link program", "log", log)
		dev.DetachShader(p, vs)
		dev.DetachShader(p, fs)
		dev.DeleteProgram(p)
		return 0, &ProgramLinkError{Log: log}
	}
	return p, nil
}

// ShaderProgram is a linked vertex+fragment program. A *ShaderProgram only
// exists in the linked state (until Delete); construction either links or
// returns an error.
type ShaderProgram struct {
	dev   Device
	id    ProgramHandle
	state ProgramState

	VertexShader, FragmentShader ShaderHandle

	// Shared stages (the ShaderCache identity pair) are not owned and
	// survive Delete.
	ownsVertex, ownsFragment bool
}

// NewShaderProgram compiles both stages from source and links them.
// Every object created along the way is released if a later step fails.
func NewShaderProgram(dev Device, vertexSrc, fragmentSrc string) (*ShaderProgram, error) {
	p := &ShaderProgram{dev: dev}

	vs, err := CompileShader(dev, ShaderVertex, vertexSrc)
	if err != nil {
		return nil, errors.Wrap(err, "vertex shader")
	}
	p.VertexShader, p.ownsVertex = vs, true
	p.state = ProgramVertexCompiled

	fs, err := CompileShader(dev, ShaderFragment, fragmentSrc)
	if err != nil {
		dev.DeleteShader(vs)
		return nil, errors.Wrap(err, "fragment shader")
	}
	p.FragmentShader, p.ownsFragment = fs, true
	p.state = ProgramCompiled

	if err := p.link(); err != nil {
		return nil, err
	}
	return p, nil
}

// newProgramFromShaders links already-compiled stages. The owns flags say
// which of them the program deletes on failure or Delete.
func newProgramFromShaders(dev Device, vs, fs ShaderHandle, ownsVertex, ownsFragment bool) (*ShaderProgram, error) {
	p := &ShaderProgram{
		dev:            dev,
		VertexShader:   vs,
		FragmentShader: fs,
		ownsVertex:     ownsVertex,
		ownsFragment:   ownsFragment,
		state:          ProgramCompiled,
	}
	if err := p.link(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *ShaderProgram) link() error {
	id, err := CreateProgram(p.dev, p.VertexShader, p.FragmentShader)
	if err != nil {
		p.state = ProgramFailed
		p.deleteOwnedShaders()
		return err
	}
	p.id = id
	p.state = ProgramLinked
	return nil
}

// Activate makes this the active program for subsequent draws on the device.
func (p *ShaderProgram) Activate() error {
	if p == nil || p.state != ProgramLinked {
		return ErrProgramNotLinked
	}
	p.dev.UseProgram(p.id)
	return nil
}

// Handle returns the device program handle. Zero once deleted.
func (p *ShaderProgram) Handle() ProgramHandle {
	return p.id
}

// State returns the program's lifecycle state.
func (p *ShaderProgram) State() ProgramState {
	return p.state
}

// Delete releases the program and the shaders it owns. Shared stages are
// detached but left alive.
func (p *ShaderProgram) Delete() {
	if p.state != ProgramLinked {
		return
	}
	p.dev.DetachShader(p.id, p.VertexShader)
	p.dev.DetachShader(p.id, p.FragmentShader)
	p.dev.DeleteProgram(p.id)
	p.deleteOwnedShaders()
	p.id = 0
	p.state = ProgramDeleted
}

func (p *ShaderProgram) deleteOwnedShaders() {
	if p.ownsVertex {
		p.dev.DeleteShader(p.VertexShader)
		p.ownsVertex = false
	}
	if p.ownsFragment {
		p.dev.DeleteShader(p.FragmentShader)
		p.ownsFragment = false
	}
}
