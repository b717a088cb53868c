package shaders

// Attribute locations shared with the point buffer layout
const (
	PositionLocation    = 0
	SecPositionLocation = 1
)

// Morphing point sprite shaders. Each vertex carries both endpoints and the
// GPU blends them with mix(), so updating mixFactor is the only per-frame work.
const pointVertexShader = `#version 410 core

layout(location = 0) in vec3 position;
layout(location = 1) in vec3 secPosition;

uniform mat4 modelViewMatrix;
uniform mat4 projectionMatrix;
uniform float mixFactor;
uniform float pointSize;

void main() {
    vec3 newPosition = mix(position, secPosition, mixFactor);
    gl_Position = projectionMatrix * modelViewMatrix * vec4(newPosition, 1.0);
    gl_PointSize = pointSize;
}
`

const pointFragmentShader = `#version 410 core

uniform vec4 pointColor;
uniform float discRadius;

out vec4 outColor;

void main() {
    // Round sprite; corners of the square are dropped
    float dist = length(gl_PointCoord - vec2(0.5, 0.5));
    if (dist > discRadius) {
        discard;
    }
    outColor = pointColor;
}
`

// CompilePointShaders creates the shader program for the morphing points
func CompilePointShaders() (uint32, error) {
	return buildProgram("point", pointVertexShader, pointFragmentShader)
}
