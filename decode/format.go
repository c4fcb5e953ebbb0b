package decode

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// format is a decodable image format. TGA has no magic number, so it is
// tried last, after every format recognized by its header.
type format struct {
	name         string
	mime         string
	match        func(header []byte) bool
	decode       func(io.Reader) (image.Image, error)
	decodeConfig func(io.Reader) (image.Config, error)
}

func prefix(magic ...string) func([]byte) bool {
	return func(h []byte) bool {
		for _, m := range magic {
			if bytes.HasPrefix(h, []byte(m)) {
				return true
			}
		}
		return false
	}
}

// headerLen is the number of bytes needed by every matcher.
const headerLen = 12

var formats = []format{
	{"png", "image/png", prefix("\x89PNG\r\n\x1a\n"), png.Decode, png.DecodeConfig},
	{"jpeg", "image/jpeg", prefix("\xff\xd8"), jpeg.Decode, jpeg.DecodeConfig},
	{"gif", "image/gif", prefix("GIF87a", "GIF89a"), gif.Decode, gif.DecodeConfig},
	{"bmp", "image/bmp", prefix("BM"), bmp.Decode, bmp.DecodeConfig},
	{"tiff", "image/tiff", prefix("II*\x00", "MM\x00*"), tiff.Decode, tiff.DecodeConfig},
	{"webp", "image/webp", func(h []byte) bool {
		return len(h) >= headerLen && string(h[:4]) == "RIFF" && string(h[8:12]) == "WEBP"
	}, webp.Decode, webp.DecodeConfig},
}

var tgaFormat = format{
	name:         "tga",
	mime:         "image/x-tga",
	match:        func([]byte) bool { return true },
	decode:       tga.Decode,
	decodeConfig: tga.DecodeConfig,
}

// sniff picks the format of the bytes behind r.
func sniff(r io.ReaderAt) format {
	header := make([]byte, headerLen)
	n, _ := r.ReadAt(header, 0)
	header = header[:n]
	for _, f := range formats {
		if f.match(header) {
			return f
		}
	}
	return tgaFormat
}

// MimeType returns the mime type of the named format, or "" when unknown.
func MimeType(name string) string {
	if name == tgaFormat.name {
		return tgaFormat.mime
	}
	for _, f := range formats {
		if f.name == name {
			return f.mime
		}
	}
	return ""
}
