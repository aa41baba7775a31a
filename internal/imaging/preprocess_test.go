package imaging

import (
	"image"
	"image/color"
	"testing"
)

func grayPage(w, h int, fill uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = fill
	}
	return img
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	src := grayPage(16, 16, 200)
	src.SetGray(3, 3, color.Gray{Y: 10})
	backup := make([]uint8, len(src.Pix))
	copy(backup, src.Pix)

	in := ImageData{Image: src, SourcePath: "/in/a.png", PageNumber: 1, TotalPages: 1}
	p := NewPreprocessor(nil)
	out, err := p.Apply(in, PreprocessOptions{RemoveWatermark: true, Binarize: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range backup {
		if src.Pix[i] != backup[i] {
			t.Fatal("input image was mutated")
		}
	}
	if out.SourcePath != in.SourcePath || out.PageNumber != in.PageNumber {
		t.Errorf("page metadata lost: %+v", out)
	}
}

func TestApplyBinarizeProducesBlackAndWhite(t *testing.T) {
	src := grayPage(16, 16, 220)
	// a dark text-ish block
	for y := 4; y < 8; y++ {
		for x := 2; x < 14; x++ {
			src.SetGray(x, y, color.Gray{Y: 30})
		}
	}

	p := NewPreprocessor(nil)
	out, err := p.Apply(ImageData{Image: src, SourcePath: "a", PageNumber: 1, TotalPages: 1},
		PreprocessOptions{Binarize: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g, ok := out.Image.(*image.Gray)
	if !ok {
		t.Fatalf("output is %T, want *image.Gray", out.Image)
	}
	for i, v := range g.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("pixel %d = %d, want 0 or 255", i, v)
		}
	}
	if g.GrayAt(5, 5).Y != 0 {
		t.Error("dark block should binarize to black")
	}
	if g.GrayAt(0, 0).Y != 255 {
		t.Error("light background should binarize to white")
	}
}

func TestApplyWatermarkFade(t *testing.T) {
	src := grayPage(8, 8, 255)
	src.SetGray(2, 2, color.Gray{Y: 200}) // watermark-gray pixel
	src.SetGray(4, 4, color.Gray{Y: 40})  // genuine ink

	p := NewPreprocessor(nil)
	out, err := p.Apply(ImageData{Image: src, SourcePath: "a", PageNumber: 1, TotalPages: 1},
		PreprocessOptions{RemoveWatermark: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := out.Image.(*image.Gray)
	if g.GrayAt(2, 2).Y != 255 {
		t.Errorf("watermark pixel = %d, want faded to 255", g.GrayAt(2, 2).Y)
	}
	if g.GrayAt(4, 4).Y != 40 {
		t.Errorf("ink pixel = %d, want untouched", g.GrayAt(4, 4).Y)
	}
}
