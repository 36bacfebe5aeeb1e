package shader

// ModelVertex transforms mesh vertices, optionally pushing them along
// their normals by an animated noise field.
const ModelVertex = `#version 300 es
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;

uniform mat4  uModel;
uniform mat4  uView;
uniform mat4  uProjection;
uniform float uTime;
uniform float uNoise;

out vec3 vNormal;
out vec3 vWorld;

float wave(vec3 p) {
    return sin(dot(p, vec3(12.9898, 78.233, 37.719)) * 3.0 + uTime * 2.7)
         * cos(dot(p, vec3(-4.1, 9.7, 2.3)) * 2.0 - uTime * 1.3);
}

void main() {
    vec3 pos = aPosition + aNormal * uNoise * 0.15 * wave(aPosition);
    vec4 world = uModel * vec4(pos, 1.0);
    vWorld = world.xyz;
    vNormal = normalize(mat3(uModel) * aNormal);
    gl_Position = uProjection * uView * world;
}
`

// ModelFragment lights a mesh with a directional light, a specular
// highlight and a fixed-direction rim. When uUseTexture is set the base
// layer is projected onto the surface instead of the flat color.
const ModelFragment = `#version 300 es
precision highp float;
in vec3 vNormal;
in vec3 vWorld;
out vec4 outColor;

uniform vec3  uColor;
uniform float uAlpha;
uniform int   uUseTexture;
uniform sampler2D uBaseTexture;
uniform vec3  uCameraPos;

void main() {
    vec3 n = normalize(vNormal);
    vec3 albedo = uColor;
    if (uUseTexture == 1) {
        vec2 uv = vec2(atan(n.z, n.x) / 6.28318530718 + 0.5, asin(clamp(n.y, -1.0, 1.0)) / 3.14159265359 + 0.5);
        albedo = texture(uBaseTexture, uv).rgb;
    }
    vec3 l = normalize(vec3(0.5, 0.8, 0.6));
    vec3 v = normalize(uCameraPos - vWorld);
    float diffuse = max(dot(n, l), 0.0);
    float spec = pow(max(dot(n, normalize(l + v)), 0.0), 48.0);
    float rim = pow(1.0 - max(dot(n, v), 0.0), 3.0) * (0.5 + 0.5 * dot(n, normalize(vec3(-0.4, 0.3, -1.0))));
    vec3 color = albedo * (0.25 + 0.75 * diffuse) + vec3(0.6 * spec) + vec3(0.45 * max(rim, 0.0));
    outColor = vec4(color, uAlpha);
}
`

// WireFragment draws model edges in a flat color.
const WireFragment = `#version 300 es
precision highp float;
in vec3 vNormal;
in vec3 vWorld;
out vec4 outColor;

uniform vec3  uColor;
uniform float uAlpha;

void main() {
    outColor = vec4(uColor, uAlpha);
}
`
