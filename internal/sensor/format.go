package sensor

import (
	"fmt"
	"strings"
)

// BytesPerPixel is the packed size of one BGR32 color pixel.
const BytesPerPixel = 4

// ColorImageFormat selects the color stream resolution and frame rate.
type ColorImageFormat int

const (
	ColorFormatUndefined ColorImageFormat = iota
	RgbResolution640x480Fps30
	RgbResolution1280x960Fps12
)

// DefaultColorFormat is the format used when none is configured.
const DefaultColorFormat = RgbResolution640x480Fps30

// Width returns the frame width in pixels.
func (f ColorImageFormat) Width() int {
	switch f {
	case RgbResolution640x480Fps30:
		return 640
	case RgbResolution1280x960Fps12:
		return 1280
	default:
		return 0
	}
}

// Height returns the frame height in pixels.
func (f ColorImageFormat) Height() int {
	switch f {
	case RgbResolution640x480Fps30:
		return 480
	case RgbResolution1280x960Fps12:
		return 960
	default:
		return 0
	}
}

// FPS returns the nominal frame rate.
func (f ColorImageFormat) FPS() int {
	switch f {
	case RgbResolution640x480Fps30:
		return 30
	case RgbResolution1280x960Fps12:
		return 12
	default:
		return 0
	}
}

func (f ColorImageFormat) String() string {
	switch f {
	case RgbResolution640x480Fps30:
		return "RgbResolution640x480Fps30"
	case RgbResolution1280x960Fps12:
		return "RgbResolution1280x960Fps12"
	default:
		return "Undefined"
	}
}

// ParseColorImageFormat parses a format name. Matching ignores case, and the
// short forms "640x480" and "1280x960" are accepted.
func ParseColorImageFormat(s string) (ColorImageFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rgbresolution640x480fps30", "640x480":
		return RgbResolution640x480Fps30, nil
	case "rgbresolution1280x960fps12", "1280x960":
		return RgbResolution1280x960Fps12, nil
	default:
		return ColorFormatUndefined, fmt.Errorf("unknown color format %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f ColorImageFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *ColorImageFormat) UnmarshalText(text []byte) error {
	parsed, err := ParseColorImageFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
