package gfx

// Square program. Every square shares it; its color is a uniform.
const squareVertex = `
#version 330 core

in vec2 vertPos;

void main() {
    gl_Position = vec4(vertPos, 0, 1);
}
`

const squareFragment = `
#version 330 core

uniform vec3 color;

out vec4 outputColor;

void main() {
    outputColor = vec4(color, 1);
}
`

// Canvas program. Draws an RGBA texture on a quad covering the viewport.
const canvasVertex = `
#version 330 core

in  vec2 vertPos;
in  vec2 vertTexCoord;
out vec2 fragTexCoord;

void main() {
    fragTexCoord = vertTexCoord;
    gl_Position  = vec4(vertPos, 0, 1);
}
`

const canvasFragment = `
#version 330 core

uniform sampler2D canvas;

in  vec2 fragTexCoord;
out vec4 outputColor;

void main() {
    outputColor = texture(canvas, fragTexCoord);
}
`
