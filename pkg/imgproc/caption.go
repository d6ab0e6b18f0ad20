package imgproc

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Caption layout. The output is always a Full HD frame: the photo scaled to
// frame height, the person's name overlaid in yellow with a drop shadow.
// Vertical photos are shifted sideways so the name fits beside them; for
// horizontal photos the name sits on a translucent bar near the bottom edge.
const (
	canvasWidth  = 1920
	canvasHeight = 1080

	captionFontSize = 120
	lineSpacing     = 32
	maxLineChars    = 10

	sideMargin      = 200
	bottomOffset    = 50
	paddingVertical = 20
	shadowOffset    = 4
)

var (
	captionYellow = color.NRGBA{255, 215, 0, 255}
	captionShadow = color.NRGBA{0, 0, 0, 168}
	barGray       = color.NRGBA{80, 80, 80, 255}
	barOpacity    = 168.0 / 255.0
)

// Caption renders src onto a 1920x1080 black canvas with name overlaid and
// writes the result to dst. EXIF orientation is applied on load.
func Caption(src, dst, name string) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}

	bounds := img.Bounds()
	vertical := bounds.Dy() > bounds.Dx()

	canvas := imaging.New(canvasWidth, canvasHeight, black)
	resized := imaging.Resize(img, 0, canvasHeight, imaging.Lanczos)
	photoWidth := resized.Bounds().Dx()

	face, err := captionFace()
	if err != nil {
		return err
	}
	defer face.Close()

	lines := []string{name}
	if vertical {
		lines = wrapName(name, maxLineChars)
	}
	textWidth, textHeight := measureLines(face, lines)

	if vertical {
		// photo to the right, name on the left
		shift := (canvasWidth - photoWidth - textWidth) / 4
		canvas = imaging.Paste(canvas, resized, image.Pt(canvasWidth-photoWidth-paddingVertical-shift, 0))
		textY := (canvasHeight - textHeight) / 2
		drawLines(canvas, face, lines, sideMargin, textY)
	} else {
		canvas = imaging.Paste(canvas, resized, image.Pt((canvasWidth-photoWidth)/2, 0))
		barHeight := textHeight + 2*paddingVertical
		barY := canvasHeight - barHeight - bottomOffset
		bar := imaging.New(canvasWidth, barHeight, barGray)
		canvas = imaging.Overlay(canvas, bar, image.Pt(0, barY), barOpacity)
		drawLines(canvas, face, lines, (canvasWidth-textWidth)/2, barY+paddingVertical)
	}

	if err := imaging.Save(canvas, dst); err != nil {
		return fmt.Errorf("save %s: %w", dst, err)
	}
	return nil
}

func captionFace() (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse caption font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    captionFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// wrapName breaks a name into short lines, splitting after hyphens like at
// spaces so double names wrap too.
func wrapName(name string, maxChars int) []string {
	words := strings.Fields(strings.ReplaceAll(name, "-", "- "))
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+len(w)+1 <= maxChars {
			current += " " + w
		} else {
			lines = append(lines, current)
			current = w
		}
	}
	return append(lines, current)
}

func measureLines(face font.Face, lines []string) (width, height int) {
	lineHeight := face.Metrics().Height.Ceil()
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > width {
			width = w
		}
	}
	height = len(lines)*lineHeight + (len(lines)-1)*lineSpacing
	return width, height
}

// drawLines renders the shadow pass first, then the text, top-left anchored.
func drawLines(dst *image.NRGBA, face font.Face, lines []string, x, y int) {
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil() + lineSpacing
	ascent := metrics.Ascent.Ceil()

	for i, line := range lines {
		baseline := y + ascent + i*lineHeight
		drawString(dst, face, line, x+shadowOffset, baseline+shadowOffset, captionShadow)
		drawString(dst, face, line, x, baseline, captionYellow)
	}
}

func drawString(dst *image.NRGBA, face font.Face, s string, x, y int, c color.NRGBA) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
