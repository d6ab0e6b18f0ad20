package imgproc

import (
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// Orientation reads the EXIF orientation tag and returns the counter-clockwise
// rotation angle (0, 90, 180 or 270) needed to display the image upright.
// Images without EXIF data or without the tag need no rotation.
func Orientation(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return 0, nil
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0, nil
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0, nil
	}
	switch v {
	case 3:
		return 180, nil
	case 6:
		return 270, nil
	case 8:
		return 90, nil
	default:
		return 0, nil
	}
}
