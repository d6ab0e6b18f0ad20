package imgproc

import (
	"image/color"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/disintegration/imaging"
)

func TestRotateSwapsDimensions(t *testing.T) {
	img := imaging.New(40, 20, color.NRGBA{255, 0, 0, 255})

	rotated, err := Rotate(img, 90)
	if err != nil {
		t.Fatal(err)
	}
	if rotated.Bounds().Dx() != 20 || rotated.Bounds().Dy() != 40 {
		t.Fatalf("bounds after 90 = %v", rotated.Bounds())
	}

	rotated, err = Rotate(img, 180)
	if err != nil {
		t.Fatal(err)
	}
	if rotated.Bounds().Dx() != 40 || rotated.Bounds().Dy() != 20 {
		t.Fatalf("bounds after 180 = %v", rotated.Bounds())
	}

	if _, err := Rotate(img, 45); err == nil {
		t.Fatal("expected error for non-right-angle rotation")
	}
}

func TestRotateFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	dst := filepath.Join(dir, "out.png")
	if err := imaging.Save(imaging.New(30, 10, color.NRGBA{0, 255, 0, 255}), src); err != nil {
		t.Fatal(err)
	}

	if err := RotateFile(src, dst, 90); err != nil {
		t.Fatal(err)
	}
	out, err := imaging.Open(dst)
	if err != nil {
		t.Fatal(err)
	}
	if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 30 {
		t.Fatalf("rotated bounds = %v", out.Bounds())
	}
}

func TestOrientationWithoutExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.png")
	if err := imaging.Save(imaging.New(8, 8, color.NRGBA{0, 0, 255, 255}), path); err != nil {
		t.Fatal(err)
	}
	angle, err := Orientation(path)
	if err != nil {
		t.Fatal(err)
	}
	if angle != 0 {
		t.Fatalf("angle = %d, want 0", angle)
	}
}

func TestCaptionProducesFullHDFrame(t *testing.T) {
	dir := t.TempDir()
	for name, size := range map[string][2]int{
		"vertical.png":   {600, 800},
		"horizontal.png": {800, 600},
	} {
		src := filepath.Join(dir, name)
		if err := imaging.Save(imaging.New(size[0], size[1], color.NRGBA{120, 120, 120, 255}), src); err != nil {
			t.Fatal(err)
		}
		dst := filepath.Join(dir, "out_"+name)
		if err := Caption(src, dst, "Anna Müller"); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		out, err := imaging.Open(dst)
		if err != nil {
			t.Fatal(err)
		}
		if out.Bounds().Dx() != 1920 || out.Bounds().Dy() != 1080 {
			t.Fatalf("%s: bounds = %v", name, out.Bounds())
		}
	}
}

func TestWrapName(t *testing.T) {
	got := wrapName("Anna Marie Müller", 10)
	want := []string{"Anna Marie", "Müller"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapName = %v, want %v", got, want)
	}

	got = wrapName("Anna-Lena Schmidt", 10)
	want = []string{"Anna- Lena", "Schmidt"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapName hyphen = %v, want %v", got, want)
	}
}
