// Package shader compiles the GLSL programs used by the renderer.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// CompileProgram builds a linked program from vertex and fragment sources.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	stages := [2]struct {
		kind uint32
		name string
		src  string
	}{
		{gl.VERTEX_SHADER, "vertex", vertexSrc},
		{gl.FRAGMENT_SHADER, "fragment", fragmentSrc},
	}

	program := gl.CreateProgram()
	for _, st := range stages {
		sh := gl.CreateShader(st.kind)
		csrc, free := gl.Strs(st.src + "\x00")
		gl.ShaderSource(sh, 1, csrc, nil)
		free()
		gl.CompileShader(sh)

		var status int32
		gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
		if status == gl.FALSE {
			msg := infoLog(sh, gl.GetShaderiv, gl.GetShaderInfoLog)
			gl.DeleteShader(sh)
			gl.DeleteProgram(program)
			return 0, fmt.Errorf("%s shader: %s", st.name, msg)
		}
		gl.AttachShader(program, sh)
		// Flagged for deletion; freed when the program releases it
		gl.DeleteShader(sh)
	}

	gl.LinkProgram(program)
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", msg)
	}
	return program, nil
}

// infoLog fetches the compile or link log for a shader object.
func infoLog(obj uint32, getiv func(uint32, uint32, *int32), getLog func(uint32, int32, *int32, *uint8)) string {
	var logLen int32
	getiv(obj, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return "no log"
	}
	log := make([]byte, logLen)
	getLog(obj, logLen, nil, &log[0])
	return string(log)
}

// GetUniform returns the location of the named uniform, -1 if it is not
// active in the program.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
