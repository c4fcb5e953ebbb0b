// Package decode provides image sources and a region decoder for the
// subsampling tile manager.
//
// The decoder reads PNG, JPEG, GIF, BMP, TIFF, WebP and TGA. Go's image
// codecs cannot decode a sub-rectangle directly, so the full image is decoded
// once per source (concurrent requests share one decode) and retained while
// tiles are cut from it and downsampled with golang.org/x/image/draw.
package decode
