// Package gldevice implements birch.Device on OpenGL 2.1 through go-gl.
//
// The built-in GLSL identity shaders target this profile, so a Device needs
// no IdentitySources override. All calls must happen on the goroutine that
// owns the current GL context.
package gldevice

import (
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/pkg/errors"

	"github.com/phanxgames/birch"
)

var glShaderTypes = map[birch.ShaderKind]uint32{
	birch.ShaderVertex:   gl.VERTEX_SHADER,
	birch.ShaderFragment: gl.FRAGMENT_SHADER,
}

// shaderType maps a stage to its GL enum. Unknown kinds map to zero, which
// glCreateShader rejects.
func shaderType(kind birch.ShaderKind) uint32 {
	return glShaderTypes[kind]
}

// Device forwards every birch.Device call to the current GL context.
type Device struct{}

// New loads the GL function pointers. A context must be current.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "gldevice: init")
	}
	return &Device{}, nil
}

// Version returns the GL_VERSION string of the current context.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// CreateShader wraps glCreateShader for the given stage.
func (d *Device) CreateShader(kind birch.ShaderKind) birch.ShaderHandle {
	return birch.ShaderHandle(gl.CreateShader(shaderType(kind)))
}

// ShaderSource wraps glShaderSource with a single source string.
func (d *Device) ShaderSource(sh birch.ShaderHandle, src string) {
	csource, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(uint32(sh), 1, csource, nil)
}

// CompileShader wraps glCompileShader.
func (d *Device) CompileShader(sh birch.ShaderHandle) {
	gl.CompileShader(uint32(sh))
}

// ShaderCompiled reports GL_COMPILE_STATUS.
func (d *Device) ShaderCompiled(sh birch.ShaderHandle) bool {
	var status int32
	gl.GetShaderiv(uint32(sh), gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

// ShaderInfoLog returns the shader info log.
func (d *Device) ShaderInfoLog(sh birch.ShaderHandle) string {
	var logSize int32
	gl.GetShaderiv(uint32(sh), gl.INFO_LOG_LENGTH, &logSize)
	if logSize == 0 {
		return ""
	}
	buf := make([]uint8, logSize+1)
	gl.GetShaderInfoLog(uint32(sh), int32(len(buf)), &logSize, &buf[0])
	return string(buf[:logSize])
}

// DeleteShader wraps glDeleteShader.
func (d *Device) DeleteShader(sh birch.ShaderHandle) {
	gl.DeleteShader(uint32(sh))
}

// CreateProgram wraps glCreateProgram.
func (d *Device) CreateProgram() birch.ProgramHandle {
	return birch.ProgramHandle(gl.CreateProgram())
}

// AttachShader wraps glAttachShader.
func (d *Device) AttachShader(p birch.ProgramHandle, sh birch.ShaderHandle) {
	gl.AttachShader(uint32(p), uint32(sh))
}

// DetachShader wraps glDetachShader.
func (d *Device) DetachShader(p birch.ProgramHandle, sh birch.ShaderHandle) {
	gl.DetachShader(uint32(p), uint32(sh))
}

// LinkProgram wraps glLinkProgram.
func (d *Device) LinkProgram(p birch.ProgramHandle) {
	gl.LinkProgram(uint32(p))
}

// ProgramLinked reports GL_LINK_STATUS.
func (d *Device) ProgramLinked(p birch.ProgramHandle) bool {
	var isLinked int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &isLinked)
	return isLinked != gl.FALSE
}

// ProgramInfoLog returns the program info log.
func (d *Device) ProgramInfoLog(p birch.ProgramHandle) string {
	var logSize int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &logSize)
	if logSize == 0 {
		return ""
	}
	buf := make([]uint8, logSize+1)
	gl.GetProgramInfoLog(uint32(p), int32(len(buf)), &logSize, &buf[0])
	return string(buf[:logSize])
}

// DeleteProgram wraps glDeleteProgram.
func (d *Device) DeleteProgram(p birch.ProgramHandle) {
	gl.DeleteProgram(uint32(p))
}

// UseProgram wraps glUseProgram.
func (d *Device) UseProgram(p birch.ProgramHandle) {
	gl.UseProgram(uint32(p))
}
