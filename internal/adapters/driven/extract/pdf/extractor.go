// Package pdf provides the page extractor adapter for PDF manuals.
//
// Text is read per page with a pure Go PDF reader. Embedded figures are
// pulled out by shelling to the pdfimages tool (poppler-utils) when it is
// installed; without it, extraction still works but pages carry no
// images.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	ledongthuc "github.com/ledongthuc/pdf"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driven"
	"github.com/floorwise/floorwise-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// imagePrefix is the output filename prefix passed to pdfimages.
const imagePrefix = "fig"

// imageName matches pdfimages -p output: <prefix>-<page>-<index>.png.
var imageName = regexp.MustCompile(`-(\d+)-(\d+)\.png$`)

// Extractor reads PDF pages and their embedded figures.
type Extractor struct {
	runner driven.CommandRunner
}

// NewExtractor creates a PDF extractor. runner may be nil, in which case
// figure extraction is skipped for every document.
func NewExtractor(runner driven.CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Extract reads the document at path and returns its pages in order.
// A page whose text cannot be decoded is returned empty rather than
// failing the document.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	f, reader, err := ledongthuc.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	images, err := e.extractImages(ctx, path)
	if err != nil {
		logger.Debug("Figure extraction unavailable for %s: %v", path, err)
		images = nil
	}

	total := reader.NumPage()
	pages := make([]domain.Page, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var text string
		page := reader.Page(i)
		if !page.V.IsNull() {
			text, err = page.GetPlainText(nil)
			if err != nil {
				logger.Warn("Undecodable text on page %d of %s: %v", i, path, err)
				text = ""
			}
		}

		pages = append(pages, domain.Page{
			Number: i,
			Text:   text,
			Images: images[i],
		})
	}

	return pages, nil
}

// extractImages runs pdfimages into a temporary directory and groups the
// produced files by page number.
func (e *Extractor) extractImages(ctx context.Context, path string) (map[int][]domain.PageImage, error) {
	if e.runner == nil {
		return nil, nil
	}

	dir, err := os.MkdirTemp("", "floorwise-figures-")
	if err != nil {
		return nil, fmt.Errorf("creating figure directory: %w", err)
	}
	defer os.RemoveAll(dir)

	// -p embeds the page number in the output filenames.
	prefix := filepath.Join(dir, imagePrefix)
	if out, err := e.runner.Run(ctx, "pdfimages", "-png", "-p", path, prefix); err != nil {
		return nil, fmt.Errorf("pdfimages: %w (%s)", err, out)
	}

	return collectImages(dir)
}

// collectImages reads every produced figure file, keyed by page number.
// Files are visited in name order so figures keep their on-page order.
func collectImages(dir string) (map[int][]domain.PageImage, error) {
	names, err := filepath.Glob(filepath.Join(dir, imagePrefix+"-*.png"))
	if err != nil {
		return nil, fmt.Errorf("listing figures: %w", err)
	}
	sort.Strings(names)

	images := make(map[int][]domain.PageImage)
	for _, name := range names {
		page, ok := parseImagePage(name)
		if !ok {
			continue
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading figure %s: %w", name, err)
		}
		images[page] = append(images[page], domain.PageImage{Data: data})
	}
	return images, nil
}

// parseImagePage extracts the 1-based page number from a pdfimages
// output filename.
func parseImagePage(name string) (int, bool) {
	m := imageName.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	page, err := strconv.Atoi(m[1])
	if err != nil || page < 1 {
		return 0, false
	}
	return page, true
}
