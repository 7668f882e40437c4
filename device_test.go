package birch

import "strings"

// fakeDevice is an in-memory Device. A shader "compiles" when it has a main
// function and balanced brackets; a program links when it has exactly one
// live compiled shader of each kind attached.
type fakeDevice struct {
	next     uint32
	shaders  map[ShaderHandle]*fakeShader
	programs map[ProgramHandle]*fakeProgram
	active   ProgramHandle
	uses     int

	compiles map[string]int // by source text
	failLink bool
}

type fakeShader struct {
	kind     ShaderKind
	src      string
	compiled bool
	log      string
	deleted  bool
}

type fakeProgram struct {
	attached []ShaderHandle
	linked   bool
	log      string
	deleted  bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		shaders:  make(map[ShaderHandle]*fakeShader),
		programs: make(map[ProgramHandle]*fakeProgram),
		compiles: make(map[string]int),
	}
}

func (d *fakeDevice) handle() uint32 {
	d.next++
	return d.next
}

func (d *fakeDevice) CreateShader(kind ShaderKind) ShaderHandle {
	h := ShaderHandle(d.handle())
	d.shaders[h] = &fakeShader{kind: kind}
	return h
}

func (d *fakeDevice) ShaderSource(sh ShaderHandle, src string) { d.shaders[sh].src = src }

func (d *fakeDevice) CompileShader(sh ShaderHandle) {
	s := d.shaders[sh]
	d.compiles[s.src]++
	if !strings.Contains(s.src, "void main()") || !balanced(s.src) {
		s.compiled = false
		s.log = "0:1(1): error: syntax error"
		return
	}
	s.compiled = true
}

func balanced(src string) bool {
	depth := map[rune]int{}
	pairs := map[rune]rune{')': '(', '}': '{', ']': '['}
	for _, r := range src {
		switch r {
		case '(', '{', '[':
			depth[r]++
		case ')', '}', ']':
			depth[pairs[r]]--
			if depth[pairs[r]] < 0 {
				return false
			}
		}
	}
	return depth['('] == 0 && depth['{'] == 0 && depth['['] == 0
}

func (d *fakeDevice) ShaderCompiled(sh ShaderHandle) bool { return d.shaders[sh].compiled }
func (d *fakeDevice) ShaderInfoLog(sh ShaderHandle) string { return d.shaders[sh].log }
func (d *fakeDevice) DeleteShader(sh ShaderHandle)         { d.shaders[sh].deleted = true }

func (d *fakeDevice) CreateProgram() ProgramHandle {
	h := ProgramHandle(d.handle())
	d.programs[h] = &fakeProgram{}
	return h
}

func (d *fakeDevice) AttachShader(p ProgramHandle, sh ShaderHandle) {
	d.programs[p].attached = append(d.programs[p].attached, sh)
}

func (d *fakeDevice) DetachShader(p ProgramHandle, sh ShaderHandle) {
	prog := d.programs[p]
	for i, h := range prog.attached {
		if h == sh {
			prog.attached = append(prog.attached[:i], prog.attached[i+1:]...)
			return
		}
	}
}

func (d *fakeDevice) LinkProgram(p ProgramHandle) {
	prog := d.programs[p]
	if d.failLink {
		prog.log = "error: linking forced to fail"
		return
	}
	var kinds [2]int
	for _, h := range prog.attached {
		s := d.shaders[h]
		if s.deleted || !s.compiled {
			prog.log = "error: attached shader is not compiled"
			return
		}
		kinds[s.kind]++
	}
	if kinds[ShaderVertex] != 1 || kinds[ShaderFragment] != 1 {
		prog.log = "error: need one vertex and one fragment shader"
		return
	}
	prog.linked = true
}

func (d *fakeDevice) ProgramLinked(p ProgramHandle) bool  { return d.programs[p].linked }
func (d *fakeDevice) ProgramInfoLog(p ProgramHandle) string { return d.programs[p].log }
func (d *fakeDevice) DeleteProgram(p ProgramHandle)        { d.programs[p].deleted = true }

func (d *fakeDevice) UseProgram(p ProgramHandle) {
	d.active = p
	d.uses++
}

// liveShaders counts shaders that were created and not deleted.
func (d *fakeDevice) liveShaders() int {
	n := 0
	for _, s := range d.shaders {
		if !s.deleted {
			n++
		}
	}
	return n
}

// sourcedDevice overrides the identity pair, like a non-GLSL backend would.
type sourcedDevice struct {
	*fakeDevice
	vertex, fragment string
}

func (d *sourcedDevice) IdentitySources() (string, string) {
	return d.vertex, d.fragment
}
