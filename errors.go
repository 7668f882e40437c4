package birch

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrProgramNotLinked is returned when activating a program that never
// linked or has been deleted.
var ErrProgramNotLinked = errors.New("birch: program is not linked")

// ShaderCompileError reports a shader rejected by the device compiler.
type ShaderCompileError struct {
	Kind ShaderKind
	Log  string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("birch: failed to compile %s shader: %q", e.Kind, e.Log)
}

// ProgramLinkError reports a program rejected by the device linker.
type ProgramLinkError struct {
	Log string
}

func (e *ProgramLinkError) Error() string {
	return fmt.Sprintf("birch: failed to link program: %q", e.Log)
}
