package decode

import "golang.org/x/image/draw"

const (
	// DefaultRetained is the number of fully decoded images a Decoder keeps.
	DefaultRetained = 2

	// DefaultMaxImagePixels caps full decodes at 64 Mpx, 256 MiB as RGBA.
	DefaultMaxImagePixels = 64 << 20
)

// Option configures a Decoder.
type Option func(*options)

type options struct {
	scaler         draw.Scaler
	retained       int
	maxImagePixels int64
}

func defaultOptions() options {
	return options{
		scaler:         draw.CatmullRom,
		retained:       DefaultRetained,
		maxImagePixels: DefaultMaxImagePixels,
	}
}

// WithScaler sets the filter used to downsample tiles.
// The default is draw.CatmullRom.
func WithScaler(s draw.Scaler) Option {
	return func(o *options) {
		if s != nil {
			o.scaler = s
		}
	}
}

// WithRetained sets how many decoded images are kept for cutting tiles.
// Zero decodes the image again for every tile.
func WithRetained(n int) Option {
	return func(o *options) {
		o.retained = max(n, 0)
	}
}

// WithMaxImagePixels bounds the pixel count of a source the Decoder will
// decode in full. Larger sources fail with ErrImageTooLarge. Zero or less
// removes the limit.
func WithMaxImagePixels(pixels int64) Option {
	return func(o *options) { o.maxImagePixels = pixels }
}
