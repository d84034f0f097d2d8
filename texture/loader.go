package texture

import (
	"fmt"
	"image"
	"io"
	"log/slog"

	_ "image/gif"  // register GIF format with image.Decode
	_ "image/jpeg" // register JPEG format with image.Decode
	_ "image/png"  // register PNG format with image.Decode

	"github.com/echoflaresat/tiff"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/exp/mmap"
	"golang.org/x/image/draw"
)

// Loader decodes slide images from disk and keeps recently used ones.
// It is safe for concurrent use.
type Loader struct {
	cache *lru.Cache // path -> image.Image
}

// NewLoader returns a loader caching up to size decoded images.
func NewLoader(size int) (*Loader, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("image cache: %w", err)
	}
	return &Loader{cache: cache}, nil
}

// Load decodes the image at path, trying TIFF first and then the
// registered image codecs.
func (l *Loader) Load(path string) (image.Image, error) {
	if v, ok := l.cache.Get(path); ok {
		return v.(image.Image), nil
	}

	reader, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer reader.Close()

	img, err := Decode(io.NewSectionReader(reader, 0, int64(reader.Len())))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	// uncompressed TIFFs read pixels lazily from the mapping
	img = toNRGBA(img)

	l.cache.Add(path, img)
	slog.Info("decoded image", "path", path, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, nil
}

// Decode reads an image from r, trying TIFF first. The result may read
// pixels from r lazily, so r must outlive it.
func Decode(r *io.SectionReader) (image.Image, error) {
	img, err := tiff.Decode(r)
	if err == nil {
		return img, nil
	}

	// fallback to image codecs
	if _, serr := r.Seek(0, io.SeekStart); serr != nil {
		return nil, serr
	}
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	slog.Debug("decoded with image codec", "format", format)
	return img, nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Len reports how many decoded images are cached.
func (l *Loader) Len() int {
	return l.cache.Len()
}
