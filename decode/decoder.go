package decode

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/sync/singleflight"

	zi "github.com/gogpu/zoomimage"
	"github.com/gogpu/zoomimage/subsampling"
)

// Decoder implements subsampling.Decoder on top of the Go image codecs.
// It is safe for concurrent use.
//
// The codecs have no region decoding, so the first tile of a source decodes
// the whole image at full resolution and keeps it (see WithRetained) for the
// following tiles. Peak memory is therefore about 4 bytes per source pixel
// regardless of the tile manager's decode budget. Sources larger than
// WithMaxImagePixels fail with ErrImageTooLarge instead of being decoded.
type Decoder struct {
	opts  options
	group singleflight.Group

	mu       sync.Mutex
	retained []decoded // most recently used first
}

type decoded struct {
	key string
	img image.Image
}

var _ subsampling.Decoder = (*Decoder)(nil)

// NewDecoder creates a Decoder.
func NewDecoder(opts ...Option) *Decoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Decoder{opts: o}
}

// DecodeInfo reads the image header.
func (d *Decoder) DecodeInfo(ctx context.Context, src subsampling.ImageSource) (subsampling.ImageInfo, error) {
	if err := ctx.Err(); err != nil {
		return subsampling.ImageInfo{}, err
	}
	r, err := src.OpenReader()
	if err != nil {
		return subsampling.ImageInfo{}, err
	}
	defer func() { _ = r.Close() }()

	f := sniff(r)
	cfg, err := f.decodeConfig(io.NewSectionReader(r, 0, r.Size()))
	if err != nil {
		return subsampling.ImageInfo{}, formatError(f, src, err)
	}
	return subsampling.ImageInfo{Width: cfg.Width, Height: cfg.Height, MimeType: f.mime}, nil
}

// DecodeRegion cuts region out of the decoded image and shrinks it by
// sampleSize. The result is ceil(w/sampleSize) x ceil(h/sampleSize) pixels.
func (d *Decoder) DecodeRegion(ctx context.Context, src subsampling.ImageSource, key string, region image.Rectangle, sampleSize int) (subsampling.TileBitmap, error) {
	if sampleSize < 1 {
		return nil, ErrInvalidSampleSize
	}
	img, err := d.Image(ctx, src)
	if err != nil {
		return nil, err
	}
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return nil, ErrEmptyRegion
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := (region.Dx() + sampleSize - 1) / sampleSize
	h := (region.Dy() + sampleSize - 1) / sampleSize
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if sampleSize == 1 {
		draw.Copy(dst, image.Point{}, img, region, draw.Src, nil)
	} else {
		d.opts.scaler.Scale(dst, dst.Bounds(), img, region, draw.Src, nil)
	}
	return subsampling.NewImageBitmap(key, dst, subsampling.FromLocal), nil
}

// Image returns the fully decoded source image. Concurrent calls for the
// same source share one decode.
func (d *Decoder) Image(ctx context.Context, src subsampling.ImageSource) (image.Image, error) {
	key := src.Key()
	if img := d.lookup(key); img != nil {
		return img, nil
	}

	ch := d.group.DoChan(key, func() (any, error) {
		img, err := d.decodeFull(src)
		if err != nil {
			return nil, err
		}
		d.retain(key, img)
		return img, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	}
}

// Forget drops the retained image of the source with the given key.
func (d *Decoder) Forget(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, e := range d.retained {
		if e.key == key {
			d.retained = append(d.retained[:i], d.retained[i+1:]...)
			return
		}
	}
}

func (d *Decoder) decodeFull(src subsampling.ImageSource) (image.Image, error) {
	r, err := src.OpenReader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	f := sniff(r)
	if limit := d.opts.maxImagePixels; limit > 0 {
		cfg, err := f.decodeConfig(io.NewSectionReader(r, 0, r.Size()))
		if err != nil {
			return nil, formatError(f, src, err)
		}
		if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > limit {
			return nil, fmt.Errorf("%w: %s is %dx%d, limit %d pixels",
				ErrImageTooLarge, src.Key(), cfg.Width, cfg.Height, limit)
		}
	}
	img, err := f.decode(io.NewSectionReader(r, 0, r.Size()))
	if err != nil {
		return nil, formatError(f, src, err)
	}
	zi.Logger().Debug("decode: image decoded",
		"source", src.Key(),
		"format", f.name,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return img, nil
}

// formatError reports bytes nothing recognized as ErrUnknownFormat, since
// the TGA fallback accepts any header.
func formatError(f format, src subsampling.ImageSource, err error) error {
	if f.name == tgaFormat.name {
		return fmt.Errorf("%w: %s: %v", ErrUnknownFormat, src.Key(), err)
	}
	return fmt.Errorf("decode: %s %s: %w", f.name, src.Key(), err)
}

func (d *Decoder) lookup(key string) image.Image {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, e := range d.retained {
		if e.key == key {
			copy(d.retained[1:i+1], d.retained[:i])
			d.retained[0] = e
			return e.img
		}
	}
	return nil
}

func (d *Decoder) retain(key string, img image.Image) {
	if d.opts.retained == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range d.retained {
		if e.key == key {
			return
		}
	}
	d.retained = append([]decoded{{key: key, img: img}}, d.retained...)
	if len(d.retained) > d.opts.retained {
		clear(d.retained[d.opts.retained:])
		d.retained = d.retained[:d.opts.retained]
	}
}
