// Package transpiler rewrites fragment shaders written against foreign
// conventions into the mainImage form the renderer compiles, and wraps
// adapted bodies in the full programs the render passes use.
package transpiler

import (
	"regexp"
	"strings"
)

var (
	// a bare entry point with no parameters, the glslsandbox / twigl form
	reForeignMain = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(?:void)?\s*\)`)
	reMainImage   = regexp.MustCompile(`\bvoid\s+mainImage\s*\(`)

	reGLESBlock  = regexp.MustCompile(`(?s)#ifdef\s+GL_ES\b.*?#endif[^\n]*\n?`)
	rePrecision  = regexp.MustCompile(`(?m)^[ \t]*precision\s+\w+\s+\w+\s*;[^\n]*\n?`)
	reExtension  = regexp.MustCompile(`(?m)^[ \t]*#extension\b[^\n]*\n?`)
	reVersion    = regexp.MustCompile(`(?m)^[ \t]*#version\b[^\n]*\n?`)
	reForeignUni = regexp.MustCompile(`(?m)^[ \t]*uniform\s+(?:(?:lowp|mediump|highp)\s+)?(?:vec2|float)\s+(?:resolution|mouse|time)(?:\s*,\s*(?:resolution|mouse|time))*\s*;[^\n]*\n?`)
	reSurfaceVar = regexp.MustCompile(`(?m)^[ \t]*varying\s+(?:(?:lowp|mediump|highp)\s+)?vec2\s+surfacePosition\s*;[^\n]*\n?`)
	reOutDecl    = regexp.MustCompile(`(?m)^[ \t]*(?:layout\s*\([^)]*\)\s*)?out\s+(?:(?:lowp|mediump|highp)\s+)?vec4\s+(\w+)\s*;[^\n]*\n?`)
)

// rewrites are applied in order after the declarations are stripped.
var rewrites = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`\bresolution\b`), "iResolution.xy"},
	{regexp.MustCompile(`\bmouse\b`), "(iMouse.xy / iResolution.xy)"},
	{regexp.MustCompile(`\btime\b`), "iTime"},
	{regexp.MustCompile(`\bsurfaceSize\b`), "iResolution.xy"},
	{regexp.MustCompile(`\bsurfacePosition\b`), "((fragCoord / iResolution.xy) * 2.0 - 1.0)"},
	{regexp.MustCompile(`\bgl_FragColor\b`), "fragColor"},
	{regexp.MustCompile(`\bgl_FragCoord\b`), "vec4(fragCoord, 0.0, 1.0)"},
	{regexp.MustCompile(`\btexture2D\s*\(`), "texture("},
}

const mainImageSignature = "void mainImage(out vec4 fragColor, in vec2 fragCoord)"

// Adapt converts a fragment shader that uses the bare main() convention into
// one that defines mainImage. Sources that already define mainImage, or that
// have no foreign entry point at all, are returned unchanged. Empty input
// yields empty output.
func Adapt(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	if !IsForeign(src) {
		return src
	}

	out := reForeignMain.ReplaceAllLiteralString(src, mainImageSignature)

	out = reForeignUni.ReplaceAllLiteralString(out, "")
	out = reSurfaceVar.ReplaceAllLiteralString(out, "")

	// a global color output becomes the mainImage parameter
	if m := reOutDecl.FindStringSubmatch(out); m != nil {
		out = reOutDecl.ReplaceAllLiteralString(out, "")
		out = regexp.MustCompile(`\b`+regexp.QuoteMeta(m[1])+`\b`).ReplaceAllLiteralString(out, "fragColor")
	}

	// the new signature contains fragColor/fragCoord, neither of which
	// collides with the rewrite patterns below
	for _, rw := range rewrites {
		out = rw.re.ReplaceAllLiteralString(out, rw.with)
	}

	out = reGLESBlock.ReplaceAllLiteralString(out, "")
	out = rePrecision.ReplaceAllLiteralString(out, "")
	out = reExtension.ReplaceAllLiteralString(out, "")
	out = reVersion.ReplaceAllLiteralString(out, "")

	return strings.TrimLeft(out, "\n")
}

// IsForeign reports whether src uses the bare main() entry point instead of
// mainImage.
func IsForeign(src string) bool {
	return !reMainImage.MatchString(src) && reForeignMain.MatchString(src)
}
