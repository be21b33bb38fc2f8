// Package pdfrender validates uploaded PDF documents and turns their pages
// into rasters through the external rendering service.
package pdfrender

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultDPI is the raster density used when the config does not set one.
const DefaultDPI = 150

// Inspector runs pdfcpu structural checks on uploaded documents.
type Inspector struct{}

// PageCount parses the document and returns the number of pages. A parse
// failure means the upload is not a usable PDF.
func (Inspector) PageCount(rs io.ReadSeeker) (int, error) {
	n, err := pdfapi.PageCount(rs, pdfmodel.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("failed to inspect pdf: %w", err)
	}
	return n, nil
}

// Page is one rendered PDF page, numbered from 1.
type Page struct {
	Number int
	Image  image.Image
}

// Client renders PDF pages through the external rasterizer service.
type Client struct {
	baseURL string
	dpi     int
	httpc   *http.Client
}

func NewClient(baseURL string, dpi int) *Client {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		dpi:     dpi,
		httpc:   &http.Client{Timeout: 2 * time.Minute},
	}
}

// RenderPages posts the document to the rasterizer and decodes one raster
// per page from the multipart response, in page order.
func (c *Client) RenderPages(ctx context.Context, pdf io.Reader) ([]Page, error) {
	url := fmt.Sprintf("%s/render?dpi=%d", c.baseURL, c.dpi)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to build rasterizer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/pdf")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call rasterizer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rasterizer responded %s", resp.Status)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return nil, fmt.Errorf("unexpected rasterizer content type %q", resp.Header.Get("Content-Type"))
	}

	mr := multipart.NewReader(resp.Body, params["boundary"])
	var pages []Page
	for n := 1; ; n++ {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read page part %d: %w", n, err)
		}

		img, err := imaging.Decode(part)
		if err != nil {
			return nil, fmt.Errorf("failed to DEcode page %d: %w", n, err)
		}
		pages = append(pages, Page{Number: n, Image: img})
	}

	if len(pages) == 0 {
		return nil, errors.New("rasterizer returned no pages")
	}
	return pages, nil
}
