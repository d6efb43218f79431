package wlr

import "fmt"

// DRM fourcc pixel formats understood by the built-in renderer.
const (
	FormatInvalid  uint32 = 0
	FormatXRGB8888 uint32 = 0x34325258 // XR24
	FormatARGB8888 uint32 = 0x34325241 // AR24
	FormatXBGR8888 uint32 = 0x34324258 // XB24
	FormatABGR8888 uint32 = 0x34324241 // AB24
)

// Buffer capabilities, as reported by renderers and allocators.
const (
	BufferCapDataPtr uint32 = 1 << 0
	BufferCapDmabuf  uint32 = 1 << 1
	BufferCapShm     uint32 = 1 << 2
)

// Flags for BufferBeginDataPtrAccess.
const (
	DataPtrAccessRead  uint32 = 1 << 0
	DataPtrAccessWrite uint32 = 1 << 1
)

// FormatBytesPerPixel returns the pixel size of a packed format, or 0 if
// the format is unknown.
func FormatBytesPerPixel(format uint32) int {
	switch format {
	case FormatXRGB8888, FormatARGB8888, FormatXBGR8888, FormatABGR8888:
		return 4
	}
	return 0
}

// FormatName returns the four character code of format.
func FormatName(format uint32) string {
	if format == FormatInvalid {
		return "INVALID"
	}
	b := []byte{byte(format), byte(format >> 8), byte(format >> 16), byte(format >> 24)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%08x", format)
		}
	}
	return string(b)
}

// Box is an integer rectangle.
type Box struct {
	X, Y, Width, Height int
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Within reports whether b lies entirely inside a width x height area.
func (b Box) Within(width, height int) bool {
	return b.X >= 0 && b.Y >= 0 && b.X+b.Width <= width && b.Y+b.Height <= height
}
