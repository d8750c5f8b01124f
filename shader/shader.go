// Package shader holds the GLSL sources for the primary and post-process
// programs. Sources are WebGL2 (GLSL ES 3.00) and are translated to the
// context's dialect when the programs are built.
package shader

// Uniform names shared between the sources below and the passes that feed them.
const (
	UniformTime           = "u_time"
	UniformResolution     = "u_resolution"
	UniformViewProjection = "u_viewProjection"

	UniformDiffuse   = "tDiffuse"
	UniformLuminance = "u_luminance"
	UniformBaseColor = "u_baseColor"
	UniformContrast  = "u_contrast"
	UniformNoise     = "u_noise"
	UniformBehavior  = "u_behavior"
)

// ─────────────────────────────────── Primary ───────────────────────────────────

const primaryVertexSource = `#version 300 es
precision highp float;

layout (location = 0) in vec3 position;
layout (location = 1) in vec2 uv;

uniform mat4  u_viewProjection;
uniform float u_time;

out vec2  vUv;
out float vElevation;

void main() {
    vUv = uv;
    vec3 p = position;
    float e = sin(p.x * 6.0 + u_time * 2.0) * 0.08
            + cos(p.y * 9.0 - u_time * 1.3) * 0.05
            + sin((p.x + p.y) * 14.0 + u_time * 3.1) * 0.02;
    p.z += e;
    vElevation = e;
    gl_Position = u_viewProjection * vec4(p, 1.0);
}
`

const primaryFragmentSource = `#version 300 es
precision highp float;

uniform float u_time;
uniform vec2  u_resolution;

in vec2  vUv;
in float vElevation;
out vec4 fragColor;

vec3 palette(float t) {
    vec3 a = vec3(0.5, 0.5, 0.5);
    vec3 b = vec3(0.5, 0.5, 0.5);
    vec3 c = vec3(1.0, 1.0, 1.0);
    vec3 d = vec3(0.263, 0.416, 0.557);
    return a + b * cos(6.28318 * (c * t + d));
}

void main() {
    vec2 st = gl_FragCoord.xy / u_resolution;
    vec2 p = vUv * 2.0 - 1.0;
    float d = length(p) * exp(-length(p));
    vec3 col = palette(length(p) + vElevation * 4.0 + u_time * 0.4);
    d = sin(d * 8.0 + u_time) / 8.0;
    d = abs(d);
    d = pow(0.01 / d, 1.2);
    col *= clamp(d, 0.0, 4.0);
    col *= 0.6 + 0.4 * st.y;
    fragColor = vec4(col * 0.35, 0.35);
}
`

// ───────────────────────────────── Post process ────────────────────────────────

const postVertexSource = `#version 300 es
precision highp float;

layout (location = 0) in vec3 position;
layout (location = 1) in vec2 uv;

out vec2 vUv;

void main() {
    vUv = uv;
    gl_Position = vec4(position.xy, 0.0, 1.0);
}
`

// u_behavior 0 is night vision, 1 is chromatic aberration.
const postFragmentSource = `#version 300 es
precision highp float;
precision highp int;

uniform sampler2D tDiffuse;
uniform float u_time;
uniform vec3  u_luminance;
uniform vec3  u_baseColor;
uniform float u_contrast;
uniform float u_noise;
uniform int   u_behavior;

in vec2 vUv;
out vec4 fragColor;

float random(vec2 st) {
    return fract(sin(dot(st, vec2(12.9898, 78.233))) * 43758.5453123);
}

vec3 nightVision(vec2 uv) {
    vec3 color = texture(tDiffuse, uv).rgb;
    float lum = dot(color, u_luminance);
    float grain = random(uv * (u_time + 1.0)) * u_noise;
    float scan = 0.85 + 0.15 * sin(uv.y * 800.0 + u_time * 10.0);
    vec3 amp = u_baseColor * (lum + grain) * scan;
    return clamp((amp - 0.5) * u_contrast + 0.5, 0.0, 1.0);
}

vec3 chromaticAberration(vec2 uv) {
    vec2 dir = uv - 0.5;
    float amount = 0.01 * u_noise * (1.0 + 0.5 * sin(u_time));
    float r = texture(tDiffuse, uv + dir * amount).r;
    float g = texture(tDiffuse, uv).g;
    float b = texture(tDiffuse, uv - dir * amount).b;
    vec3 color = vec3(r, g, b);
    return clamp((color - 0.5) * u_contrast + 0.5, 0.0, 1.0);
}

void main() {
    vec3 color;
    if (u_behavior == 1) {
        color = chromaticAberration(vUv);
    } else {
        color = nightVision(vUv);
    }
    fragColor = vec4(color, 1.0);
}
`

// Source is the vertex and fragment text of one program.
type Source struct {
	Vertex   string
	Fragment string
}

func Primary() Source {
	return Source{Vertex: primaryVertexSource, Fragment: primaryFragmentSource}
}

func PostProcess() Source {
	return Source{Vertex: postVertexSource, Fragment: postFragmentSource}
}
