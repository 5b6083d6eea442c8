package watermark

import (
	"context"
	"fmt"
	"image"
	"io/fs"

	"github.com/disintegration/imaging"
)

// Engine removes the overlay watermark from decoded images. A handle is
// constructed once per process with New; after that it holds only
// immutable state and is safe for concurrent use. Multiple handles may
// coexist, for example in tests.
type Engine struct {
	alphaMaps map[int][]float32
}

// Option configures engine construction.
type Option func(*engineOptions)

type engineOptions struct {
	assets fs.FS
}

// WithAssetFS overrides the filesystem the logo alpha maps are loaded
// from. The default is the embedded asset set; tests use this to exercise
// initialization failure paths.
func WithAssetFS(fsys fs.FS) Option {
	return func(o *engineOptions) {
		o.assets = fsys
	}
}

// New constructs a ready engine. It is the only initialization boundary:
// the logo alpha maps are loaded and validated here, and a handle is
// returned only once they are usable. Construction fails with
// ErrInitialization if an asset is missing or malformed; a failed handle
// must not be used. Re-creating an engine is allowed but wasteful.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	o := engineOptions{assets: embeddedAssets}
	for _, opt := range opts {
		opt(&o)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maps, err := loadAlphaMaps(o.assets)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	return &Engine{alphaMaps: maps}, nil
}

// WatermarkInfo reports the watermark region for an image of the given
// dimensions. It never fails for positive dimensions and returns
// ErrInvalidDimensions otherwise. Cheap enough to call repeatedly; no
// caching is involved.
func (e *Engine) WatermarkInfo(width, height int) (Region, error) {
	if width <= 0 || height <= 0 {
		return Region{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return ResolveRegion(width, height), nil
}

// Remove returns a copy of img with the watermark region replaced by
// synthesized content. Every pixel outside the region is byte-identical
// to the source, which is never mutated. Returns ErrProcessing for a nil
// or zero-area image; once constructed the engine has no other failure
// mode, beyond ctx cancellation.
func (e *Engine) Remove(ctx context.Context, img image.Image) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrProcessing)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: zero-area image %dx%d", ErrProcessing, width, height)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Clone normalizes any source type to a non-premultiplied RGBA buffer
	// anchored at the origin, leaving the caller's image untouched.
	out := imaging.Clone(img)

	region := ResolveRegion(width, height)
	rect := region.Rect()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	patch := synthesizePatch(out, rect, e.alphaMaps[region.Size])

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	splicePatch(out, patch, rect)
	return out, nil
}

// splicePatch copies the patch rows into dst at rect. Row copies keep the
// operation byte-exact; a draw.Draw round trip could perturb pixels with
// fractional alpha.
func splicePatch(dst *image.NRGBA, patch *image.NRGBA, rect image.Rectangle) {
	rowLen := rect.Dx() * 4
	for row := 0; row < rect.Dy(); row++ {
		dOff := dst.PixOffset(rect.Min.X, rect.Min.Y+row)
		pOff := patch.PixOffset(0, row)
		copy(dst.Pix[dOff:dOff+rowLen], patch.Pix[pOff:pOff+rowLen])
	}
}
