// Package source turns slide files into decoded images. Plain images and
// TIFFs are one slide each; a PDF contributes one slide per page.
package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/slidecam/carousel"
	"github.com/echoflaresat/slidecam/texture"
)

// ErrEmpty is returned when the given files hold no slides.
var ErrEmpty = errors.New("source: no slides")

// DefaultDPI is used for PDF pages without an explicit resolution.
const DefaultDPI = 150

type Source interface {
	PageCount() int
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// ImageSource is a single raster file read through a texture.Loader.
type ImageSource struct {
	loader *texture.Loader
	path   string
}

func NewImageSource(loader *texture.Loader, path string) *ImageSource {
	return &ImageSource{loader: loader, path: path}
}

func (s *ImageSource) PageCount() int { return 1 }

func (s *ImageSource) RenderPage(index int, dpi int) (image.Image, error) {
	if index != 0 {
		return nil, fmt.Errorf("%s: page %d out of range", s.path, index)
	}
	return s.loader.Load(s.path)
}

func (s *ImageSource) Close() error { return nil }

// FitzPDFSource rasterizes PDF pages with MuPDF.
type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

// RenderPage opens its own document so that pages render concurrently.
func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}

// Spec names one slide file.
type Spec struct {
	Path  string
	DPI   int
	Title string
}

// Open picks the source for a file by its extension.
func Open(loader *texture.Loader, path string) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewFitzPDFSource(path)
	}
	return NewImageSource(loader, path), nil
}

type job struct {
	src   Source
	page  int
	dpi   int
	title string
}

// LoadAll decodes every slide of specs in parallel, keeping their order.
// progress, if set, is called after each decoded slide with the number
// done so far.
func LoadAll(ctx context.Context, loader *texture.Loader, specs []Spec, workers int, progress func(done, total int)) ([]carousel.Item, error) {
	var sources []Source
	defer func() {
		for _, s := range sources {
			s.Close()
		}
	}()

	var jobs []job
	for _, spec := range specs {
		src, err := Open(loader, spec.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", spec.Path, err)
		}
		sources = append(sources, src)

		dpi := spec.DPI
		if dpi <= 0 {
			dpi = DefaultDPI
		}
		n := src.PageCount()
		for page := 0; page < n; page++ {
			title := spec.Title
			if n > 1 && title != "" {
				title = fmt.Sprintf("%s %d", title, page+1)
			}
			jobs = append(jobs, job{src: src, page: page, dpi: dpi, title: title})
		}
	}
	if len(jobs) == 0 {
		return nil, ErrEmpty
	}

	items := make([]carousel.Item, len(jobs))
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := j.src.RenderPage(j.page, j.dpi)
			if err != nil {
				return fmt.Errorf("slide %d: %w", i, err)
			}
			items[i] = carousel.Item{Image: img, Title: j.title}

			mu.Lock()
			done++
			if progress != nil {
				progress(done, len(jobs))
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("slides loaded", "files", len(specs), "slides", len(items))
	return items, nil
}

// Percent formats loading progress as a two digit percentage that stays
// at 99% until the caller is done.
func Percent(done, total int) string {
	p := 0
	if total > 0 {
		p = min(done*100/total, 99)
	}
	return fmt.Sprintf("%02d%%", p)
}
