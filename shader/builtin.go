package shader

// ErrorBody is substituted for any scene whose shader fails to build: an
// unmistakable scrolling magenta checkerboard.
const ErrorBody = `void mainImage(out vec4 fragColor, in vec2 fragCoord) {
    vec2 cell = floor((fragCoord + vec2(iTime * 40.0, 0.0)) / 32.0);
    float check = mod(cell.x + cell.y, 2.0);
    fragColor = vec4(mix(vec3(0.05), vec3(1.0, 0.0, 1.0), check), 1.0);
}
`

// BlackBody is the built-in "black" scene.
const BlackBody = `void mainImage(out vec4 fragColor, in vec2 fragCoord) {
    fragColor = vec4(0.0, 0.0, 0.0, 1.0);
}
`
