// Package color picks display colors for profile avatars.
package color

import (
	"fmt"
	"hash/fnv"
)

// ForPerson returns a stable hex color for a profile ID. Hue varies with the
// ID; saturation and lightness are fixed so initials stay readable.
func ForPerson(personID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(personID))
	hue := float64(h.Sum32() % 360)

	r, g, b := hslToRGB(hue, 0.4, 0.65)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// hslToRGB converts hue (0-360), saturation and lightness (0-1) to RGB bytes.
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	h /= 360.0

	if s == 0 {
		v := uint8(l * 255)
		return v, v, v
	}

	q := l + s - l*s
	if l < 0.5 {
		q = l * (1 + s)
	}
	p := 2*l - q

	return uint8(channel(p, q, h+1.0/3.0) * 255),
		uint8(channel(p, q, h) * 255),
		uint8(channel(p, q, h-1.0/3.0) * 255)
}

func channel(p, q, t float64) float64 {
	switch {
	case t < 0:
		t++
	case t > 1:
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
