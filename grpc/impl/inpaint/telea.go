package inpaint

import (
	"container/heap"
	"context"
	"image"
	"math"
)

// Fast marching inpainting after A. Telea, "An Image Inpainting Technique
// Based on the Fast Marching Method" (2004). Pixels are filled in order of
// their distance to the hole boundary; each is a weighted average of the
// known pixels within the radius, favoring close neighbors that lie on the
// same distance level and along the direction the boundary is advancing.

const (
	flagKnown uint8 = iota
	flagBand
	flagInside
)

const distUnknown = 1.0e6

type telea struct {
	radius int
}

func NewTelea(radius int) Filler {
	return &telea{radius: radius}
}

func (t *telea) Fill(ctx context.Context, canvas *image.RGBA, mask *image.Gray) error {
	hole := maskBounds(mask).Intersect(canvas.Bounds())
	if hole.Empty() {
		return nil
	}

	// Pixels farther than this from the hole never contribute to a fill.
	margin := 2*t.radius + 2
	f := newField(canvas, mask, hole.Inset(-margin).Intersect(canvas.Bounds()))
	f.computeOutsideDistances(t.radius)
	return f.march(ctx, t.radius)
}

type field struct {
	canvas *image.RGBA
	roi    image.Rectangle
	width  int
	height int
	flags  []uint8
	dists  []float64
	band   pixelHeap
}

func newField(canvas *image.RGBA, mask *image.Gray, roi image.Rectangle) *field {
	f := &field{
		canvas: canvas,
		roi:    roi,
		width:  roi.Dx(),
		height: roi.Dy(),
	}
	f.flags = make([]uint8, f.width*f.height)
	f.dists = make([]float64, f.width*f.height)

	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			i := f.index(x, y)
			f.dists[i] = distUnknown
			if mask.GrayAt(roi.Min.X+x, roi.Min.Y+y).Y != 0 {
				f.flags[i] = flagInside
			}
		}
	}

	// The initial band is the ring of known pixels touching the hole.
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			if f.flags[f.index(x, y)] != flagInside {
				continue
			}
			for _, nb := range neighbors(x, y) {
				if !f.contains(nb.X, nb.Y) {
					continue
				}
				j := f.index(nb.X, nb.Y)
				if f.flags[j] != flagKnown {
					continue
				}
				f.flags[j] = flagBand
				f.dists[j] = 0
				heap.Push(&f.band, pixel{dist: 0, index: j})
			}
		}
	}
	return f
}

// computeOutsideDistances marches outward from the band into the known
// region, up to twice the radius, and stores those distances negated so
// the level term of the weight works on both sides of the boundary.
func (f *field) computeOutsideDistances(radius int) {
	band := make(pixelHeap, len(f.band))
	copy(band, f.band)

	flags := make([]uint8, len(f.flags))
	for i, flag := range f.flags {
		switch flag {
		case flagKnown:
			flags[i] = flagInside
		case flagInside:
			flags[i] = flagKnown
		default:
			flags[i] = flag
		}
	}

	outside := &field{canvas: f.canvas, roi: f.roi, width: f.width, height: f.height, flags: flags, dists: f.dists}
	lastDist := 0.0
	for band.Len() > 0 && lastDist < float64(2*radius) {
		p := heap.Pop(&band).(pixel)
		flags[p.index] = flagKnown
		x, y := f.coords(p.index)
		for _, nb := range neighbors(x, y) {
			if !f.contains(nb.X, nb.Y) {
				continue
			}
			j := f.index(nb.X, nb.Y)
			if flags[j] != flagInside {
				continue
			}
			lastDist = outside.arrival(nb.X, nb.Y)
			f.dists[j] = lastDist
			flags[j] = flagBand
			heap.Push(&band, pixel{dist: lastDist, index: j})
		}
	}

	for i := range f.dists {
		f.dists[i] = -f.dists[i]
	}
}

func (f *field) march(ctx context.Context, radius int) error {
	for steps := 0; f.band.Len() > 0; steps++ {
		if steps%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		p := heap.Pop(&f.band).(pixel)
		f.flags[p.index] = flagKnown
		x, y := f.coords(p.index)
		for _, nb := range neighbors(x, y) {
			if !f.contains(nb.X, nb.Y) {
				continue
			}
			j := f.index(nb.X, nb.Y)
			if f.flags[j] != flagInside {
				continue
			}
			dist := f.arrival(nb.X, nb.Y)
			f.dists[j] = dist
			f.inpaintPixel(nb.X, nb.Y, radius)
			f.flags[j] = flagBand
			heap.Push(&f.band, pixel{dist: dist, index: j})
		}
	}
	return nil
}

// arrival is the smallest solution of the eikonal equation over the four
// quadrants around (x, y).
func (f *field) arrival(x, y int) float64 {
	return min(
		f.solve(x, y-1, x-1, y),
		f.solve(x, y+1, x+1, y),
		f.solve(x, y-1, x+1, y),
		f.solve(x, y+1, x-1, y),
	)
}

func (f *field) solve(x1, y1, x2, y2 int) float64 {
	if !f.contains(x1, y1) || !f.contains(x2, y2) {
		return distUnknown
	}
	i1, i2 := f.index(x1, y1), f.index(x2, y2)
	flag1, flag2 := f.flags[i1], f.flags[i2]
	dist1, dist2 := f.dists[i1], f.dists[i2]

	if flag1 == flagKnown && flag2 == flagKnown {
		d := 2 - (dist1-dist2)*(dist1-dist2)
		if d > 0 {
			r := math.Sqrt(d)
			s := (dist1 + dist2 - r) / 2
			if s >= dist1 && s >= dist2 {
				return s
			}
			s += r
			if s >= dist1 && s >= dist2 {
				return s
			}
			return distUnknown
		}
	}
	if flag1 == flagKnown {
		return 1 + dist1
	}
	if flag2 == flagKnown {
		return 1 + dist2
	}
	return distUnknown
}

// gradient of the distance field at (x, y), using only pixels outside the hole.
func (f *field) gradient(x, y int) (float64, float64) {
	axis := func(prevX, prevY, nextX, nextY int) float64 {
		if !f.contains(prevX, prevY) || !f.contains(nextX, nextY) {
			return 0
		}
		here := f.dists[f.index(x, y)]
		prev, next := f.index(prevX, prevY), f.index(nextX, nextY)
		prevKnown, nextKnown := f.flags[prev] != flagInside, f.flags[next] != flagInside
		switch {
		case prevKnown && nextKnown:
			return (f.dists[next] - f.dists[prev]) / 2
		case prevKnown:
			return here - f.dists[prev]
		case nextKnown:
			return f.dists[next] - here
		default:
			return 0
		}
	}
	return axis(x-1, y, x+1, y), axis(x, y-1, x, y+1)
}

func (f *field) inpaintPixel(x, y, radius int) {
	dist := f.dists[f.index(x, y)]
	gradX, gradY := f.gradient(x, y)

	var sum [4]float64
	weightSum := 0.0
	for ny := y - radius; ny <= y+radius; ny++ {
		for nx := x - radius; nx <= x+radius; nx++ {
			if !f.contains(nx, ny) {
				continue
			}
			j := f.index(nx, ny)
			if f.flags[j] == flagInside {
				continue
			}
			dirX, dirY := float64(x-nx), float64(y-ny)
			lengthSquare := dirX*dirX + dirY*dirY
			if lengthSquare == 0 {
				continue
			}
			length := math.Sqrt(lengthSquare)
			if length > float64(radius) {
				continue
			}

			dirFactor := math.Abs(dirX*gradX + dirY*gradY)
			if dirFactor == 0 {
				dirFactor = 1e-6
			}
			levelFactor := 1 / (1 + math.Abs(f.dists[j]-dist))
			distFactor := 1 / (length * lengthSquare)
			weight := dirFactor * distFactor * levelFactor

			offset := f.canvas.PixOffset(f.roi.Min.X+nx, f.roi.Min.Y+ny)
			for c := 0; c < 4; c++ {
				sum[c] += weight * float64(f.canvas.Pix[offset+c])
			}
			weightSum += weight
		}
	}
	if weightSum == 0 {
		return
	}

	offset := f.canvas.PixOffset(f.roi.Min.X+x, f.roi.Min.Y+y)
	for c := 0; c < 4; c++ {
		f.canvas.Pix[offset+c] = uint8(math.Max(0, math.Min(255, math.Round(sum[c]/weightSum))))
	}
}

func (f *field) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.width && y < f.height
}

func (f *field) index(x, y int) int {
	return y*f.width + x
}

func (f *field) coords(index int) (int, int) {
	return index % f.width, index / f.width
}

func neighbors(x, y int) [4]image.Point {
	return [4]image.Point{{X: x, Y: y - 1}, {X: x - 1, Y: y}, {X: x, Y: y + 1}, {X: x + 1, Y: y}}
}

type pixel struct {
	dist  float64
	index int
}

// pixelHeap is a min-heap on distance for container/heap.
type pixelHeap []pixel

func (h pixelHeap) Len() int           { return len(h) }
func (h pixelHeap) Less(i, j int) bool { return h[i].dist < h[j].dist }
func (h pixelHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *pixelHeap) Push(x any) {
	*h = append(*h, x.(pixel))
}

func (h *pixelHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}
