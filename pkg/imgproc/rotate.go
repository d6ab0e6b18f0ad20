package imgproc

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Rotate turns an image counter-clockwise by a right-angle multiple.
func Rotate(img image.Image, angle int) (image.Image, error) {
	switch angle {
	case 0:
		return img, nil
	case 90:
		return imaging.Rotate90(img), nil
	case 180:
		return imaging.Rotate180(img), nil
	case 270:
		return imaging.Rotate270(img), nil
	default:
		return nil, fmt.Errorf("unsupported rotation angle %d", angle)
	}
}

// RotateFile rotates src by angle degrees counter-clockwise and writes the
// result to dst. src and dst may be the same path.
func RotateFile(src, dst string, angle int) error {
	img, err := imaging.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	rotated, err := Rotate(img, angle)
	if err != nil {
		return err
	}
	if err := imaging.Save(rotated, dst); err != nil {
		return fmt.Errorf("save %s: %w", dst, err)
	}
	return nil
}

// AutoRotateFile applies the rotation the EXIF orientation calls for, writing
// the upright image to dst.
func AutoRotateFile(src, dst string) error {
	angle, err := Orientation(src)
	if err != nil {
		return err
	}
	if angle == 0 && src == dst {
		return nil
	}
	return RotateFile(src, dst, angle)
}

// black is the canvas fill used across the package.
var black = color.NRGBA{0, 0, 0, 255}
