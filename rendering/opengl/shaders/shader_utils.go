package shaders

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

type stage struct {
	name string
	kind uint32
}

var (
	vertexStage   = stage{"vertex", gl.VERTEX_SHADER}
	fragmentStage = stage{"fragment", gl.FRAGMENT_SHADER}
)

// ShaderError carries the driver's info log for a failed compile or link
type ShaderError struct {
	Program string
	Stage   string // empty when linking failed
	Log     string
}

func (e *ShaderError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("%s program: link failed: %s", e.Program, e.Log)
	}
	return fmt.Sprintf("%s %s shader: %s", e.Program, e.Stage, e.Log)
}

// buildProgram compiles and links a vertex/fragment pair into a program
// named name. Failures are returned as *ShaderError.
func buildProgram(name, vertexSource, fragmentSource string) (uint32, error) {
	vs, err := compileStage(name, vertexStage, vertexSource)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileStage(name, fragmentStage, fragmentSource)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	// detached shaders are freed by the deferred DeleteShader
	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)

	var status, length int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
		msg := infoLog(length, func(n int32, buf *uint8) {
			gl.GetProgramInfoLog(program, n, nil, buf)
		})
		gl.DeleteProgram(program)
		return 0, &ShaderError{Program: name, Log: msg}
	}
	return program, nil
}

func compileStage(program string, st stage, source string) (uint32, error) {
	shader := gl.CreateShader(st.kind)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status, length int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
		msg := infoLog(length, func(n int32, buf *uint8) {
			gl.GetShaderInfoLog(shader, n, nil, buf)
		})
		gl.DeleteShader(shader)
		return 0, &ShaderError{Program: program, Stage: st.name, Log: annotate(msg, source)}
	}
	return shader, nil
}

// infoLog reads a driver log of the reported length through read
func infoLog(length int32, read func(n int32, buf *uint8)) string {
	if length <= 0 {
		return "(no info log)"
	}
	buf := make([]byte, length+1)
	read(length, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n ")
}

// Mesa and Apple report "ERROR: 0:12: ...", NVIDIA reports "0(12) : error ..."
var logLine = regexp.MustCompile(`^(?:ERROR|WARNING): \d+:(\d+):|^\d+\((\d+)\)`)

// annotate appends the offending source line under each log entry that
// names one
func annotate(log, source string) string {
	src := strings.Split(source, "\n")
	var b strings.Builder
	for i, line := range strings.Split(log, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		m := logLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1] + m[2])
		if err != nil || n < 1 || n > len(src) {
			continue
		}
		fmt.Fprintf(&b, "\n    %d | %s", n, strings.TrimSpace(src[n-1]))
	}
	return b.String()
}
