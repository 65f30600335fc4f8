package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the soft shadow placed behind text labels so they
// stay legible on busy photos.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
	Color   color.RGBA
}

// ShadowResult captures the output of ApplyShadow.
type ShadowResult struct {
	// Image is the composited image that includes the blurred shadow.
	Image *image.RGBA
	// Offset is where the source's top-left corner landed inside Image.
	Offset image.Point
}

// ShadowForSize scales a black label shadow to a font size.
func ShadowForSize(size float64) ShadowOptions {
	r := max(1, int(size/12))
	return ShadowOptions{
		Radius:  r,
		Offset:  image.Pt(max(1, r/2), max(1, r/2)),
		Opacity: 0.6,
		Color:   color.RGBA{A: 255},
	}
}

// ApplyShadow composites img over a blurred copy of its alpha channel. The
// result has a zero origin and grows to fit the blur and offset.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) ShadowResult {
	switch {
	case img == nil:
		return ShadowResult{}
	case img.Bounds().Empty(), opts.Opacity <= 0:
		return ShadowResult{Image: img}
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	src := img.Bounds()
	padded := src.Inset(-radius)
	shadow := padded.Add(opts.Offset)
	all := src.Union(shadow)

	mask := image.NewGray(padded.Sub(padded.Min))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			if a := img.RGBAAt(x, y).A; a != 0 {
				mask.SetGray(x-padded.Min.X, y-padded.Min.Y, color.Gray{Y: a})
			}
		}
	}
	blurred := boxBlur(mask, radius)

	dst := image.NewRGBA(all.Sub(all.Min))
	tint := opts.Color
	tint.A = uint8(float64(tint.A)*opacity + 0.5)
	if tint.A > 0 {
		at := blurred.Bounds().Add(shadow.Min.Sub(all.Min))
		draw.DrawMask(dst, at, image.NewUniform(tint), image.Point{}, blurred, image.Point{}, draw.Over)
	}
	draw.Draw(dst, src.Sub(all.Min), img, src.Min, draw.Over)
	return ShadowResult{Image: dst, Offset: src.Min.Sub(all.Min)}
}

// boxBlur runs a separable box filter of the given radius using running
// prefix sums, one pass per axis.
func boxBlur(src *image.Gray, radius int) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(b)
	if radius <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := b.Dx(), b.Dy()
	tmp := image.NewGray(b)
	blur1D(w, h, radius,
		func(row, i int) int { return int(src.Pix[row*src.Stride+i]) },
		func(row, i int, v uint8) { tmp.Pix[row*tmp.Stride+i] = v })
	blur1D(h, w, radius,
		func(col, i int) int { return int(tmp.Pix[i*tmp.Stride+col]) },
		func(col, i int, v uint8) { out.Pix[i*out.Stride+col] = v })
	return out
}

func blur1D(n, lines, radius int, get func(line, i int) int, set func(line, i int, v uint8)) {
	prefix := make([]int, n+1)
	for line := 0; line < lines; line++ {
		for i := 0; i < n; i++ {
			prefix[i+1] = prefix[i] + get(line, i)
		}
		for i := 0; i < n; i++ {
			lo, hi := max(i-radius, 0), min(i+radius, n-1)
			set(line, i, uint8((prefix[hi+1]-prefix[lo])/(hi-lo+1)))
		}
	}
}
