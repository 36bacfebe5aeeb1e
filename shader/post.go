package shader

// PostFragment runs the post-processing chain in a fixed order: mandala
// fold, box blur, radial glow, chromatic aberration, hue rotation,
// saturation and levels. A stage whose control is zero (or neutral for
// saturation and levels) is skipped.
const PostFragment = `#version 300 es
precision highp float;
in vec2 frag_uv;
out vec4 outColor;

uniform sampler2D uInput;
uniform vec2  uResolution;
uniform float uMandala;    // segments, 0 disables
uniform float uBlur;       // radius in pixels
uniform float uGlow;       // 0..1
uniform float uChroma;     // uv offset at the edge
uniform float uHue;        // radians
uniform float uSaturation; // 1 is neutral
uniform float uBlack;
uniform float uWhite;
uniform float uGamma;

const float TAU = 6.28318530718;

vec2 mandalaFold(vec2 uv) {
    float aspect = uResolution.x / max(uResolution.y, 1.0);
    vec2 p = uv - 0.5;
    p.x *= aspect;
    float r = length(p);
    float slice = TAU / uMandala;
    float a = mod(atan(p.y, p.x), slice);
    a = abs(a - 0.5 * slice);
    p = vec2(cos(a), sin(a)) * r;
    p.x /= aspect;
    return p + 0.5;
}

vec3 blurred(vec2 uv) {
    if (uBlur <= 0.0) {
        return texture(uInput, uv).rgb;
    }
    vec2 texel = uBlur / (2.0 * uResolution);
    vec3 acc = vec3(0.0);
    for (int y = -2; y <= 2; y++) {
        for (int x = -2; x <= 2; x++) {
            acc += texture(uInput, uv + vec2(float(x), float(y)) * texel).rgb;
        }
    }
    return acc / 25.0;
}

vec3 glow(vec2 uv) {
    vec2 radius = uGlow * 24.0 / uResolution;
    vec3 acc = vec3(0.0);
    for (int i = 0; i < 12; i++) {
        float a = float(i) / 12.0 * TAU;
        for (int ring = 1; ring <= 2; ring++) {
            vec3 s = texture(uInput, uv + vec2(cos(a), sin(a)) * radius * float(ring)).rgb;
            float luma = dot(s, vec3(0.2126, 0.7152, 0.0722));
            acc += s * smoothstep(0.55, 1.0, luma);
        }
    }
    return acc / 24.0;
}

vec3 hueRotate(vec3 c, float angle) {
    const vec3 k = vec3(0.57735);
    float ca = cos(angle);
    return c * ca + cross(k, c) * sin(angle) + k * dot(k, c) * (1.0 - ca);
}

void main() {
    vec2 uv = frag_uv;
    if (uMandala >= 2.0) {
        uv = mandalaFold(uv);
    }

    vec3 base = blurred(uv);
    vec3 c = base;

    if (uGlow > 0.0) {
        c += glow(uv) * uGlow * 1.5;
    }

    if (uChroma > 0.0) {
        vec2 offset = (uv - 0.5) * uChroma;
        // shift as a delta so glow stays in every channel
        c.r += blurred(uv + offset).r - base.r;
        c.b += blurred(uv - offset).b - base.b;
    }

    if (uHue != 0.0) {
        c = hueRotate(c, uHue);
    }

    if (uSaturation != 1.0) {
        float luma = dot(c, vec3(0.2126, 0.7152, 0.0722));
        c = mix(vec3(luma), c, uSaturation);
    }

    if (uBlack != 0.0 || uWhite != 1.0 || uGamma != 1.0) {
        c = clamp((c - uBlack) / max(uWhite - uBlack, 1e-3), 0.0, 1.0);
        c = pow(c, vec3(1.0 / uGamma));
    }

    outColor = vec4(c, 1.0);
}
`
