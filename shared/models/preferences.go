package models

// ImageQuality selects the rendering quality for generated images.
type ImageQuality string

const (
	QualityStandard ImageQuality = "standard"
	QualityHD       ImageQuality = "hd"
)

// Valid reports whether q is one of the supported qualities.
func (q ImageQuality) Valid() bool {
	return q == QualityStandard || q == QualityHD
}

// ImageSize selects the dimensions of generated images.
type ImageSize string

const (
	SizeSquare    ImageSize = "1024x1024"
	SizePortrait  ImageSize = "1024x1792"
	SizeLandscape ImageSize = "1792x1024"
)

// Valid reports whether s is one of the supported sizes.
func (s ImageSize) Valid() bool {
	return s == SizeSquare || s == SizePortrait || s == SizeLandscape
}
