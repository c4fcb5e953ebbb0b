package subsampling

import (
	"context"
	"fmt"
	"image"
	"io"

	zi "github.com/gogpu/zoomimage"
)

// BitmapFrom records where a tile bitmap came from.
type BitmapFrom int

const (
	// FromLocal is a bitmap decoded from the image source.
	FromLocal BitmapFrom = iota
	// FromMemoryCache is a bitmap served by a TileBitmapCache.
	FromMemoryCache
)

// String returns the source name.
func (f BitmapFrom) String() string {
	switch f {
	case FromLocal:
		return "local"
	case FromMemoryCache:
		return "memoryCache"
	default:
		return fmt.Sprintf("BitmapFrom(%d)", int(f))
	}
}

// ImageInfo describes the source image.
type ImageInfo struct {
	Width    int
	Height   int
	MimeType string
}

// Size returns the pixel dimensions.
func (i ImageInfo) Size() zi.IntSize {
	return zi.IntSize{Width: i.Width, Height: i.Height}
}

// IsEmpty reports whether the image has no pixels.
func (i ImageInfo) IsEmpty() bool {
	return i.Width <= 0 || i.Height <= 0
}

func (i ImageInfo) String() string {
	return fmt.Sprintf("ImageInfo(%dx%d, %q)", i.Width, i.Height, i.MimeType)
}

// TileBitmap is a decoded tile. Implementations must be safe to read from
// any goroutine once created.
type TileBitmap interface {
	Key() string
	Width() int
	Height() int
	ByteCount() int64
	From() BitmapFrom
	Image() image.Image
}

// TileBitmapCache is the tile cache port. Both operations are best effort:
// Get returns nil on a miss and Put returns nil when the cache declined the
// bitmap. Implementations must be safe for concurrent use and return
// quickly.
type TileBitmapCache interface {
	Get(key string) TileBitmap
	Put(key string, bitmap TileBitmap, imageKey string, info ImageInfo) TileBitmap
}

// RegionReader gives random access to the encoded image bytes.
type RegionReader interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

// ImageSource identifies an image and opens readers over its bytes.
type ImageSource interface {
	// Key identifies the image for caching. Equal keys mean equal pixels.
	Key() string
	OpenReader() (RegionReader, error)
}

// Decoder decodes image metadata and tile regions. It is called from
// worker goroutines and must be safe for concurrent use.
type Decoder interface {
	DecodeInfo(ctx context.Context, src ImageSource) (ImageInfo, error)
	// DecodeRegion decodes region, given in source pixels, downsampled by
	// sampleSize. The result is keyed by key.
	DecodeRegion(ctx context.Context, src ImageSource, key string, region image.Rectangle, sampleSize int) (TileBitmap, error)
}

// ImageBitmap is a TileBitmap backed by an image.Image.
type ImageBitmap struct {
	key  string
	img  image.Image
	from BitmapFrom
}

// NewImageBitmap wraps img.
func NewImageBitmap(key string, img image.Image, from BitmapFrom) *ImageBitmap {
	return &ImageBitmap{key: key, img: img, from: from}
}

func (b *ImageBitmap) Key() string        { return b.key }
func (b *ImageBitmap) Width() int         { return b.img.Bounds().Dx() }
func (b *ImageBitmap) Height() int        { return b.img.Bounds().Dy() }
func (b *ImageBitmap) From() BitmapFrom   { return b.from }
func (b *ImageBitmap) Image() image.Image { return b.img }

// ByteCount returns the pixel buffer size, assuming 4 bytes per pixel for
// image types without a flat buffer.
func (b *ImageBitmap) ByteCount() int64 {
	switch img := b.img.(type) {
	case *image.RGBA:
		return int64(len(img.Pix))
	case *image.NRGBA:
		return int64(len(img.Pix))
	case *image.Gray:
		return int64(len(img.Pix))
	case *image.RGBA64:
		return int64(len(img.Pix))
	}
	return int64(b.Width()) * int64(b.Height()) * 4
}

// WithFrom returns a copy of b tagged with a different origin.
func (b *ImageBitmap) WithFrom(from BitmapFrom) *ImageBitmap {
	return &ImageBitmap{key: b.key, img: b.img, from: from}
}

func (b *ImageBitmap) String() string {
	return fmt.Sprintf("ImageBitmap(key=%q, %dx%d, from=%v)", b.key, b.Width(), b.Height(), b.from)
}
