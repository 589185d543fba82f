// Package pdf counts and splits PDF pages with pdfcpu.
package pdf

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// Splitter reads page counts and writes single-page PDFs.
type Splitter struct {
	conf *model.Configuration
}

func NewSplitter() *Splitter {
	// pdfcpu otherwise creates a config dir under $HOME, which is read-only on Lambda
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Splitter{conf: conf}
}

// PageCount returns the number of pages in the PDF at path.
func (s *Splitter) PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	n, err := api.PageCount(f, s.conf)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count for %s: %w", path, err)
	}
	return n, nil
}

// ExtractPage writes page (1-based) of src to dst as a one-page PDF.
func (s *Splitter) ExtractPage(src string, page int, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open PDF %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if err := api.Trim(in, out, []string{strconv.Itoa(page)}, s.conf); err != nil {
		out.Close()
		return fmt.Errorf("extract page %d of %s: %w", page, src, err)
	}
	return out.Close()
}
