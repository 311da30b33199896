package dataset

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
)

// Opener resolves a dataset locator to a readable CSV stream.
type Opener interface {
	Open(ctx context.Context, locator string) (io.ReadCloser, error)
}

// Source opens local files under DataDir and http(s) URLs.
// Sources ending in .gz, .lz4 or .zip are unpacked on the fly.
type Source struct {
	DataDir string
	Client  *http.Client
}

func NewSource(dataDir string, client *http.Client) *Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &Source{DataDir: dataDir, Client: client}
}

func (s *Source) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	var (
		body io.ReadCloser
		err  error
	)
	if isURL(locator) {
		body, err = s.fetch(ctx, locator)
	} else {
		body, err = os.Open(s.resolve(locator))
	}
	if err != nil {
		return nil, err
	}
	return unpack(locator, body)
}

func (s *Source) resolve(locator string) string {
	if filepath.IsAbs(locator) || s.DataDir == "" {
		return locator
	}
	return filepath.Join(s.DataDir, filepath.FromSlash(strings.TrimPrefix(locator, "/")))
}

func (s *Source) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}

func isURL(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func unpack(locator string, body io.ReadCloser) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(stripQuery(locator))) {
	case ".gz":
		gr, err := gzip.NewReader(body)
		if err != nil {
			body.Close()
			return nil, err
		}
		return &readCloser{Reader: gr, closers: []io.Closer{gr, body}}, nil
	case ".lz4":
		return &readCloser{Reader: lz4.NewReader(body), closers: []io.Closer{body}}, nil
	case ".zip":
		return unpackZip(body)
	}
	return body, nil
}

// unpackZip buffers the archive and returns its largest file.
func unpackZip(body io.ReadCloser) (io.ReadCloser, error) {
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var largestFile *zip.File
	var largestSize uint64
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largestFile == nil || f.UncompressedSize64 > largestSize {
			largestFile = f
			largestSize = f.UncompressedSize64
		}
	}
	if largestFile == nil {
		return nil, errors.New("zip archive contains no files")
	}
	return largestFile.Open()
}

func stripQuery(locator string) string {
	if i := strings.IndexAny(locator, "?#"); i >= 0 {
		return locator[:i]
	}
	return locator
}
