package birch

import "log/slog"

// ShaderKind identifies the pipeline stage a shader is compiled for.
type ShaderKind uint8

const (
	ShaderVertex   ShaderKind = iota // per-vertex stage
	ShaderFragment                   // per-pixel stage
)

// String returns the lower-case stage name used in diagnostics.
func (k ShaderKind) String() string {
	switch k {
	case ShaderVertex:
		return "vertex"
	case ShaderFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// ShaderHandle is an opaque device handle to a compiled shader object.
// Zero is never a valid handle.
type ShaderHandle uint32

// ProgramHandle is an opaque device handle to a program object.
// Zero is never a valid handle.
type ProgramHandle uint32

// ProgramState tracks how far a ShaderProgram got through compile and link.
type ProgramState uint8

const (
	ProgramUncompiled     ProgramState = iota // nothing submitted yet
	ProgramVertexCompiled                     // vertex stage compiled
	ProgramCompiled                           // both stages compiled
	ProgramLinked                             // linked and activatable
	ProgramFailed                             // a compile or link step was rejected
	ProgramDeleted                            // device objects released
)

var programStateNames = [...]string{
	ProgramUncompiled:     "uncompiled",
	ProgramVertexCompiled: "vertex-compiled",
	ProgramCompiled:       "compiled",
	ProgramLinked:         "linked",
	ProgramFailed:         "failed",
	ProgramDeleted:        "deleted",
}

func (s ProgramState) String() string {
	if int(s) < len(programStateNames) {
		return programStateNames[s]
	}
	return "unknown"
}

// pkgLogger overrides slog.Default() when set. No locking: birch is
// single-threaded.
var pkgLogger *slog.Logger

// SetLogger replaces the logger used for compile/link diagnostics and scene
// debug output. Passing nil goes back to slog.Default().
func SetLogger(l *slog.Logger) {
	pkgLogger = l
}

// Logger returns the logger set with SetLogger, or slog.Default().
func Logger() *slog.Logger {
	if pkgLogger != nil {
		return pkgLogger
	}
	return slog.Default()
}
