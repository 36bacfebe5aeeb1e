package transpiler

import (
	"regexp"
	"strings"
)

const tiledTemplate = `#version 300 es
precision highp float;
precision highp int;

uniform vec3  iResolution;
uniform float iTime;
uniform vec4  iMouse;
uniform vec4  iAudio;
uniform float iZoom;

out vec4 outColor;

#line 1
{{BODY}}

vec2 tiledCoord(vec2 coord) {
    vec2 res = iResolution.xy;
    vec2 p = (coord - 0.5 * res) / max(iZoom, 1e-4) / res + 0.5;
    vec2 tile = floor(p);
    vec2 f = fract(p);
    // mirror every other tile so seams line up
    f = mix(f, 1.0 - f, mod(tile, 2.0));
    return f * res;
}

void main() {
    vec4 color = vec4(0.0, 0.0, 0.0, 1.0);
    mainImage(color, tiledCoord(gl_FragCoord.xy));
    outColor = vec4(color.rgb, 1.0);
}
`

// WrapTiled embeds an adapted mainImage body in the base-layer program: it
// declares the shared uniforms and evaluates the body at a zoomed, mirrored
// tile coordinate. An empty body yields an empty program.
func WrapTiled(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return strings.Replace(tiledTemplate, "{{BODY}}", body, 1)
}

var reMainImageName = regexp.MustCompile(`\bmainImage\b`)

const compositeTemplate = `{{SHAPE}}

{{COLOR}}

vec3 compositeRGB2HSL(vec3 c) {
    float maxc = max(max(c.r, c.g), c.b);
    float minc = min(min(c.r, c.g), c.b);
    float l = 0.5 * (maxc + minc);
    float d = maxc - minc;
    if (d < 1e-5) {
        return vec3(0.0, 0.0, l);
    }
    float s = l > 0.5 ? d / (2.0 - maxc - minc) : d / (maxc + minc);
    float h;
    if (maxc == c.r) {
        h = (c.g - c.b) / d + (c.g < c.b ? 6.0 : 0.0);
    } else if (maxc == c.g) {
        h = (c.b - c.r) / d + 2.0;
    } else {
        h = (c.r - c.g) / d + 4.0;
    }
    return vec3(h / 6.0, s, l);
}

float compositeHue(float p, float q, float t) {
    t = fract(t);
    if (t < 1.0 / 6.0) return p + (q - p) * 6.0 * t;
    if (t < 0.5) return q;
    if (t < 2.0 / 3.0) return p + (q - p) * (2.0 / 3.0 - t) * 6.0;
    return p;
}

vec3 compositeHSL2RGB(vec3 hsl) {
    if (hsl.y < 1e-5) {
        return vec3(hsl.z);
    }
    float q = hsl.z < 0.5 ? hsl.z * (1.0 + hsl.y) : hsl.z + hsl.y - hsl.z * hsl.y;
    float p = 2.0 * hsl.z - q;
    return vec3(
        compositeHue(p, q, hsl.x + 1.0 / 3.0),
        compositeHue(p, q, hsl.x),
        compositeHue(p, q, hsl.x - 1.0 / 3.0));
}

void mainImage(out vec4 fragColor, in vec2 fragCoord) {
    vec4 shape = vec4(0.0);
    vec4 color = vec4(0.0);
    shapeImage(shape, fragCoord);
    colorImage(color, fragCoord);
    vec3 s = compositeRGB2HSL(clamp(shape.rgb, 0.0, 1.0));
    vec3 c = compositeRGB2HSL(clamp(color.rgb, 0.0, 1.0));
    fragColor = vec4(compositeHSL2RGB(vec3(c.x, c.y, s.z)), 1.0);
}
`

// WrapComposite combines two adapted bodies into one mainImage body. The
// first contributes lightness (the shape), the second hue and saturation.
// Helper functions that share a name across the two bodies will collide.
func WrapComposite(shape, color string) string {
	if strings.TrimSpace(shape) == "" || strings.TrimSpace(color) == "" {
		return ""
	}
	out := strings.Replace(compositeTemplate, "{{SHAPE}}", reMainImageName.ReplaceAllLiteralString(shape, "shapeImage"), 1)
	return strings.Replace(out, "{{COLOR}}", reMainImageName.ReplaceAllLiteralString(color, "colorImage"), 1)
}

// SplitComposite splits a "shape+color" key. ok is false for plain keys.
func SplitComposite(key string) (shape, color string, ok bool) {
	shape, color, ok = strings.Cut(key, "+")
	if !ok || shape == "" || color == "" {
		return "", "", false
	}
	return shape, color, true
}
