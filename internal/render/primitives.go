package render

import "math"

// DrawCapsule rasterizes a thick line from (x0,y0,z0) to (x1,y1,z1) with
// depth testing. Pixels are shaded darker towards the rim so the bone reads
// as a cylinder.
func DrawCapsule(fb *FrameBuffer, x0, y0, z0, x1, y1, z1, radius float64, col [4]uint8) {
	minX, maxX := clampSpan(math.Min(x0, x1)-radius, math.Max(x0, x1)+radius, fb.Width)
	minY, maxY := clampSpan(math.Min(y0, y1)-radius, math.Max(y0, y1)+radius, fb.Height)
	if minX > maxX || minY > maxY {
		return
	}

	dx, dy := x1-x0, y1-y0
	len2 := dx*dx + dy*dy
	r2 := radius * radius

	for sy := minY; sy <= maxY; sy++ {
		py := float64(sy) + 0.5
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			px := float64(sx) + 0.5
			t := 0.0
			if len2 > 1e-12 {
				t = ((px-x0)*dx + (py-y0)*dy) / len2
				t = math.Max(0, math.Min(1, t))
			}
			ex, ey := px-(x0+t*dx), py-(y0+t*dy)
			d2 := ex*ex + ey*ey
			if d2 > r2 {
				continue
			}

			z := z0 + t*(z1-z0)
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = z

			shade := 0.55 + 0.45*math.Sqrt(1-d2/r2)
			fb.put(sx, sy, [4]uint8{
				clamp255(float64(col[0]) * shade),
				clamp255(float64(col[1]) * shade),
				clamp255(float64(col[2]) * shade),
				col[3],
			})
		}
	}
}

// DrawMarker draws an X of the given half-size over everything else.
func DrawMarker(fb *FrameBuffer, cx, cy, half, thickness float64, col [4]uint8) {
	minX, maxX := clampSpan(cx-half-thickness, cx+half+thickness, fb.Width)
	minY, maxY := clampSpan(cy-half-thickness, cy+half+thickness, fb.Height)
	for sy := minY; sy <= maxY; sy++ {
		dy := float64(sy) + 0.5 - cy
		for sx := minX; sx <= maxX; sx++ {
			dx := float64(sx) + 0.5 - cx
			if math.Abs(dx) > half || math.Abs(dy) > half {
				continue
			}
			if math.Abs(dx-dy) <= thickness || math.Abs(dx+dy) <= thickness {
				fb.put(sx, sy, col)
			}
		}
	}
}

func clampSpan(lo, hi float64, size int) (int, int) {
	a := int(math.Floor(lo))
	b := int(math.Ceil(hi))
	if a < 0 {
		a = 0
	}
	if b >= size {
		b = size - 1
	}
	return a, b
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
