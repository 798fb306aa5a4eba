package colorscale

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ontoloviz/ontoloviz/pkg/errors"
)

// Space selects the color space gradients are interpolated in.
type Space string

const (
	// RGB interpolates each channel linearly and truncates, matching
	// gradients exported by earlier versions of the tool.
	RGB Space = "rgb"
	// Lab interpolates in CIE L*a*b*, which looks more even to the eye.
	Lab Space = "lab"
	// HCL interpolates hue, chroma and luminance.
	HCL Space = "hcl"
)

// ParseSpace validates an interpolation space name. Empty means RGB.
func ParseSpace(s string) (Space, error) {
	switch sp := Space(strings.ToLower(strings.TrimSpace(s))); sp {
	case "":
		return RGB, nil
	case RGB, Lab, HCL:
		return sp, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown interpolation %q (valid: rgb, lab, hcl)", s)
	}
}

// Gradient returns n colors from "from" to "to", both ends included. One
// color yields just "from"; zero or fewer yields none. Invalid colors are
// treated as black.
func Gradient(from, to string, n int, space Space) []string {
	if n <= 0 {
		return nil
	}
	a, _ := colorful.Hex(from)
	b, _ := colorful.Hex(to)
	if n == 1 {
		return []string{toHex(a)}
	}

	out := make([]string, n)
	switch space {
	case Lab, HCL:
		for i := range n {
			t := float64(i) / float64(n-1)
			var c colorful.Color
			if space == Lab {
				c = a.BlendLab(b, t)
			} else {
				c = a.BlendHcl(b, t)
			}
			out[i] = toHex(c.Clamped())
		}
	default:
		ar, ag, ab := a.RGB255()
		br, bg, bb := b.RGB255()
		for i := range n {
			out[i] = fmt.Sprintf("#%02X%02X%02X", lerp(ar, br, i, n), lerp(ag, bg, i, n), lerp(ab, bb, i, n))
		}
	}
	return out
}

// lerp returns step i of n between a and b, truncated toward zero.
func lerp(a, b uint8, i, n int) int {
	step := (float64(b) - float64(a)) / float64(n-1)
	v := int(float64(a) + float64(i)*step)
	return max(0, min(255, v))
}

func toHex(c colorful.Color) string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
