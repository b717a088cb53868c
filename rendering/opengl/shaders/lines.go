package shaders

// Helper line shaders: interleaved position + color, no lighting
const lineVertexShader = `#version 410 core

layout(location = 0) in vec3 position;
layout(location = 1) in vec3 color;

uniform mat4 modelViewMatrix;
uniform mat4 projectionMatrix;

out vec3 fragColor;

void main() {
    gl_Position = projectionMatrix * modelViewMatrix * vec4(position, 1.0);
    fragColor = color;
}
`

const lineFragmentShader = `#version 410 core

in vec3 fragColor;
out vec4 outColor;

void main() {
    outColor = vec4(fragColor, 1.0);
}
`

// CompileLineShaders creates the shader program for the axes and grid helpers
func CompileLineShaders() (uint32, error) {
	return buildProgram("line", lineVertexShader, lineFragmentShader)
}
