package kagedevice

// ColorMatrixEffect is a post-processing effect driven by the "Matrix"
// uniform. Ebitengine images are premultiplied, so the shader
// un-premultiplies before the transform and re-premultiplies after.
const ColorMatrixEffect = `//kage:unit pixels
package main

var Matrix [20]float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	c := imageSrc0At(srcPos)
	if c.a > 0 {
		c.rgb /= c.a
	}
	r := Matrix[0]*c.r + Matrix[1]*c.g + Matrix[2]*c.b + Matrix[3]*c.a + Matrix[4]
	g := Matrix[5]*c.r + Matrix[6]*c.g + Matrix[7]*c.b + Matrix[8]*c.a + Matrix[9]
	b := Matrix[10]*c.r + Matrix[11]*c.g + Matrix[12]*c.b + Matrix[13]*c.a + Matrix[14]
	a := Matrix[15]*c.r + Matrix[16]*c.g + Matrix[17]*c.b + Matrix[18]*c.a + Matrix[19]
	r = clamp(r, 0, 1)
	g = clamp(g, 0, 1)
	b = clamp(b, 0, 1)
	a = clamp(a, 0, 1)
	return vec4(r*a, g*a, b*a, a)
}
`

// ColorMatrix is a row-major 4x5 color transform for ColorMatrixEffect:
// [R_r, R_g, R_b, R_a, R_offset, G_r, ...].
type ColorMatrix [20]float32

// IdentityColorMatrix leaves colors unchanged.
func IdentityColorMatrix() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Brightness offsets every channel by b in [-1, 1].
func Brightness(b float32) ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, b,
		0, 1, 0, 0, b,
		0, 0, 1, 0, b,
		0, 0, 0, 1, 0,
	}
}

// Contrast scales around mid-gray. c=1 is unchanged, 0 is flat gray.
func Contrast(c float32) ColorMatrix {
	t := (1 - c) / 2
	return ColorMatrix{
		c, 0, 0, 0, t,
		0, c, 0, 0, t,
		0, 0, c, 0, t,
		0, 0, 0, 1, 0,
	}
}

// Saturation mixes toward luma. s=1 is unchanged, 0 is grayscale.
func Saturation(s float32) ColorMatrix {
	sr := (1 - s) * 0.299
	sg := (1 - s) * 0.587
	sb := (1 - s) * 0.114
	return ColorMatrix{
		sr + s, sg, sb, 0, 0,
		sr, sg + s, sb, 0, 0,
		sr, sg, sb + s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Bind stores m as the device's "Matrix" uniform for the next Draw.
func (m ColorMatrix) Bind(d *Device) {
	d.Uniforms["Matrix"] = m[:]
}
