// Package assets resolves image and narration sources before rendering
// starts, so every failure surfaces while no audio resource is open yet.
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
)

// LoadError marks an asset that could not be fetched or decoded. It aborts
// the whole render.
type LoadError struct {
	Source string
	Err    error
}

func (e LoadError) Error() string {
	return fmt.Sprintf("asset %q: %v", e.Source, e.Err)
}

func (e LoadError) Unwrap() error { return e.Err }

var httpClient = &http.Client{Timeout: 30 * time.Second}

// FetchBytes resolves a source reference to its raw bytes. Supported forms:
// local paths, http(s) URLs, and data: URIs (the generative image/speech
// providers hand their payloads back base64-inlined).
func FetchBytes(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "data:"):
		idx := strings.Index(source, ",")
		if idx < 0 {
			return nil, LoadError{Source: truncate(source), Err: fmt.Errorf("malformed data URI")}
		}
		meta, payload := source[:idx], source[idx+1:]
		if !strings.HasSuffix(meta, ";base64") {
			return nil, LoadError{Source: truncate(source), Err: fmt.Errorf("only base64 data URIs are supported")}
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, LoadError{Source: truncate(source), Err: err}
		}
		return data, nil

	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, LoadError{Source: source, Err: err}
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, LoadError{Source: source, Err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, LoadError{Source: source, Err: fmt.Errorf("status %s", resp.Status)}
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, LoadError{Source: source, Err: err}
		}
		return data, nil

	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, LoadError{Source: source, Err: err}
		}
		return data, nil
	}
}

// LoadImage decodes a still image from any supported source. A local PDF
// page is addressed as "slides.pdf#3" (pages are 1-based).
func LoadImage(ctx context.Context, source string) (image.Image, error) {
	if path, page, ok := splitPDFRef(source); ok {
		return loadPDFPage(path, page)
	}

	data, err := FetchBytes(ctx, source)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, LoadError{Source: truncate(source), Err: err}
	}
	return img, nil
}

// splitPDFRef recognizes the "file.pdf#N" page addressing form.
func splitPDFRef(source string) (path string, page int, ok bool) {
	idx := strings.LastIndex(source, "#")
	if idx <= 0 {
		return "", 0, false
	}
	path = source[:idx]
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return "", 0, false
	}
	page, err := strconv.Atoi(source[idx+1:])
	if err != nil || page < 1 {
		return "", 0, false
	}
	return path, page, true
}

func loadPDFPage(path string, page int) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, LoadError{Source: path, Err: err}
	}
	defer doc.Close()

	if page > doc.NumPage() {
		return nil, LoadError{Source: path, Err: fmt.Errorf("page %d of %d", page, doc.NumPage())}
	}
	img, err := doc.Image(page - 1)
	if err != nil {
		return nil, LoadError{Source: path, Err: err}
	}
	return img, nil
}

// truncate keeps data URIs from flooding error messages.
func truncate(source string) string {
	if len(source) > 64 {
		return source[:64] + "..."
	}
	return source
}
