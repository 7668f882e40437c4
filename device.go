package birch

// Device is the graphics capability set birch consumes. The host supplies it
// (see the gldevice and kagedevice packages) and must only call into birch
// from the thread that owns the device's context.
type Device interface {
	CreateShader(kind ShaderKind) ShaderHandle
	ShaderSource(sh ShaderHandle, src string)
	CompileShader(sh ShaderHandle)
	ShaderCompiled(sh ShaderHandle) bool
	ShaderInfoLog(sh ShaderHandle) string
	DeleteShader(sh ShaderHandle)

	CreateProgram() ProgramHandle
	AttachShader(p ProgramHandle, sh ShaderHandle)
	DetachShader(p ProgramHandle, sh ShaderHandle)
	LinkProgram(p ProgramHandle)
	ProgramLinked(p ProgramHandle) bool
	ProgramInfoLog(p ProgramHandle) string
	DeleteProgram(p ProgramHandle)
	UseProgram(p ProgramHandle)
}

// IdentitySourcer is implemented by devices whose shading language is not
// GLSL. ShaderCache uses it in place of the built-in GLSL identity pair.
type IdentitySourcer interface {
	IdentitySources() (vertex, fragment string)
}
