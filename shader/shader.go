// Package shader holds the GLSL sources of the fixed render passes. All of
// them are GLSL ES 3.00 and go through the translator like user shaders.
package shader

// QuadVertex is shared by every full-screen pass.
const QuadVertex = `#version 300 es
layout(location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// CompositeFragment draws an overlay over the base layer, aspect-fit and
// centred, blending by the overlay's own alpha times the opacity control.
const CompositeFragment = `#version 300 es
precision highp float;
in vec2 frag_uv;
out vec4 outColor;

uniform sampler2D uBase;
uniform sampler2D uOverlay;
uniform int   uHasOverlay;
uniform vec2  uCanvasSize;
uniform vec2  uOverlaySize;
uniform float uOpacity;

void main() {
    vec4 base = texture(uBase, frag_uv);
    outColor = base;
    if (uHasOverlay == 0 || uOverlaySize.x <= 0.0 || uOverlaySize.y <= 0.0) {
        return;
    }
    float scale = min(uCanvasSize.x / uOverlaySize.x, uCanvasSize.y / uOverlaySize.y);
    vec2 covered = uOverlaySize * scale / uCanvasSize;
    vec2 uv = (frag_uv - 0.5) / covered + 0.5;
    if (any(lessThan(uv, vec2(0.0))) || any(greaterThan(uv, vec2(1.0)))) {
        return;
    }
    vec4 over = texture(uOverlay, uv);
    outColor = vec4(mix(base.rgb, over.rgb, over.a * uOpacity), base.a);
}
`

// TransitionFragment cross-fades two scenes through a bidirectional zoom
// blur centred on uCenter. With uStrength at zero each side is a single
// unmodified texel fetch.
const TransitionFragment = `#version 300 es
precision highp float;
in vec2 frag_uv;
out vec4 outColor;

uniform sampler2D uFrom;
uniform sampler2D uTo;
uniform float uProgress;
uniform float uStrength;
uniform vec2  uCenter;
uniform int   uSamples;

vec4 zoomBlur(sampler2D tex, vec2 uv) {
    if (uStrength <= 0.0 || uSamples < 2) {
        return texture(tex, uv);
    }
    vec2 dir = uv - uCenter;
    vec4 acc = vec4(0.0);
    float total = 0.0;
    for (int i = 0; i < 64; i++) {
        if (i >= uSamples) {
            break;
        }
        float t = float(i) / float(uSamples - 1) - 0.5;
        float w = 1.0 - abs(t);
        acc += texture(tex, uv + dir * t * uStrength * 0.3) * w;
        total += w;
    }
    return acc / total;
}

void main() {
    outColor = mix(zoomBlur(uFrom, frag_uv), zoomBlur(uTo, frag_uv), uProgress);
}
`

// ParticleFragment is drawn additively over the finished frame: a jittered
// grid of soft dots whose spawn rate, size, drift and brightness follow the
// audio bands (x low, y mid, z high, w overall).
const ParticleFragment = `#version 300 es
precision highp float;
in vec2 frag_uv;
out vec4 outColor;

uniform vec2  uResolution;
uniform float uTime;
uniform vec4  uAudio;
uniform float uAmount;

float hash12(vec2 p) {
    vec3 p3 = fract(vec3(p.xyx) * 0.1031);
    p3 += dot(p3, p3.yzx + 33.33);
    return fract((p3.x + p3.y) * p3.z);
}

void main() {
    vec2 aspect = vec2(uResolution.x / max(uResolution.y, 1.0), 1.0);
    float density = mix(6.0, 22.0, uAmount) * (1.0 + 0.35 * uAudio.w);
    vec2 flow = vec2(0.02 + 0.08 * uAudio.z, 0.04 + 0.25 * uAudio.x) * uTime;
    vec2 p = (frag_uv * aspect + flow) * density;
    vec2 cell = floor(p);
    float spawn = mix(0.25, 0.9, clamp(uAmount * 0.6 + uAudio.w * 0.6, 0.0, 1.0));

    vec3 col = vec3(0.0);
    for (int y = -1; y <= 1; y++) {
        for (int x = -1; x <= 1; x++) {
            vec2 c = cell + vec2(float(x), float(y));
            float seed = hash12(c);
            if (seed > spawn) {
                continue;
            }
            float period = 2.0 + 4.0 * hash12(c + 7.13);
            float phase = fract(uTime / period + seed);
            vec2 jitter = 0.35 * vec2(sin(6.2831 * phase + seed * 17.0), cos(4.398 * phase + seed * 29.0));
            vec2 pos = c + 0.5 + jitter;
            float size = (0.05 + 0.1 * hash12(c + 3.7)) * (1.0 + 1.5 * uAudio.x);
            float d = length(p - pos);
            float life = sin(3.14159 * phase);
            vec3 tint = mix(vec3(1.0, 0.55, 0.25), vec3(0.35, 0.7, 1.0), hash12(c + 11.1) + 0.3 * uAudio.z);
            col += tint * exp(-d * d / (size * size)) * life * (0.4 + 1.2 * uAudio.y);
        }
    }
    outColor = vec4(col * uAmount, 1.0);
}
`
