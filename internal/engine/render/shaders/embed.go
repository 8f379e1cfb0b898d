// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// QuadVertexShader is the vertex shader for textured quad rendering.
//
//go:embed quad.vert
var QuadVertexShader string

// QuadFragmentShader is the fragment shader for textured quad rendering.
//
//go:embed quad.frag
var QuadFragmentShader string
