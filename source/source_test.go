package source

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoflaresat/slidecam/texture"
)

func writePNG(t *testing.T, dir, name string, w, h int, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func newLoader(t *testing.T) *texture.Loader {
	t.Helper()
	l, err := texture.NewLoader(8)
	require.NoError(t, err)
	return l
}

func TestLoadAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	specs := []Spec{
		{Path: writePNG(t, dir, "a.png", 8, 4, color.NRGBA{R: 255, A: 255}), Title: "Alpha"},
		{Path: writePNG(t, dir, "b.png", 6, 6, color.NRGBA{G: 255, A: 255}), Title: "Beta"},
		{Path: writePNG(t, dir, "c.png", 4, 8, color.NRGBA{B: 255, A: 255})},
	}

	var calls []int
	items, err := LoadAll(context.Background(), newLoader(t), specs, 2, func(done, total int) {
		assert.Equal(t, 3, total)
		calls = append(calls, done)
	})
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Alpha", items[0].Title)
	assert.Equal(t, "Beta", items[1].Title)
	assert.Equal(t, "", items[2].Title)
	assert.Equal(t, 8, items[0].Image.Bounds().Dx())
	assert.Equal(t, 8, items[2].Image.Bounds().Dy())
	assert.Equal(t, []int{1, 2, 3}, calls)
}

func TestLoadAllEmpty(t *testing.T) {
	_, err := LoadAll(context.Background(), newLoader(t), nil, 1, nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoadAllMissingFile(t *testing.T) {
	specs := []Spec{{Path: filepath.Join(t.TempDir(), "missing.png")}}
	_, err := LoadAll(context.Background(), newLoader(t), specs, 1, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAllCancelled(t *testing.T) {
	dir := t.TempDir()
	specs := []Spec{{Path: writePNG(t, dir, "a.png", 2, 2, color.NRGBA{A: 255})}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadAll(ctx, newLoader(t), specs, 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImageSourceSinglePage(t *testing.T) {
	path := writePNG(t, t.TempDir(), "a.png", 3, 3, color.NRGBA{A: 255})
	s := NewImageSource(newLoader(t), path)
	assert.Equal(t, 1, s.PageCount())

	_, err := s.RenderPage(1, DefaultDPI)
	assert.Error(t, err)
	img, err := s.RenderPage(0, DefaultDPI)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.NoError(t, s.Close())
}

func TestOpenPicksByExtension(t *testing.T) {
	path := writePNG(t, t.TempDir(), "a.png", 1, 1, color.NRGBA{A: 255})
	src, err := Open(newLoader(t), path)
	require.NoError(t, err)
	assert.IsType(t, &ImageSource{}, src)

	_, err = Open(newLoader(t), filepath.Join(t.TempDir(), "missing.PDF"))
	assert.Error(t, err, "pdf sources open eagerly")
}

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total int
		want        string
	}{
		{0, 0, "00%"},
		{0, 4, "00%"},
		{1, 20, "05%"},
		{1, 3, "33%"},
		{3, 3, "99%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.done, tt.total))
	}
}
