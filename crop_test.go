package palbmp

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquareCrop(t *testing.T) {
	tables := []struct {
		w, h int
		want image.Rectangle
	}{
		{100, 50, image.Rect(25, 0, 75, 50)},
		{50, 100, image.Rect(0, 25, 50, 75)},
		{80, 80, image.Rect(0, 0, 80, 80)},
		{101, 50, image.Rect(25, 0, 75, 50)},
		{1, 3, image.Rect(0, 1, 1, 2)},
		{4032, 3024, image.Rect(504, 0, 3528, 3024)},
	}

	for _, table := range tables {
		assert.Equal(t, table.want, SquareCrop(table.w, table.h), "%dx%d", table.w, table.h)
	}
}

func TestSquareCropBounds(t *testing.T) {
	for w := 1; w <= 40; w++ {
		for h := 1; h <= 40; h++ {
			r := SquareCrop(w, h)
			assert.Equal(t, r.Dx(), r.Dy(), "%dx%d not square", w, h)
			assert.True(t, r.In(image.Rect(0, 0, w, h)), "%dx%d outside bounds", w, h)
			assert.Equal(t, min(w, h), r.Dx())
		}
	}
}

func TestSquareCropImage(t *testing.T) {
	m := image.NewRGBA(image.Rect(10, 20, 110, 70))
	assert.Equal(t, image.Rect(35, 20, 85, 70), SquareCropImage(m))
}
