package services

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

const acceptEncoding = "gzip, br, zstd"

// compressionTransport wraps an [http.RoundTripper], advertising gzip, brotli and zstd and decoding the response body.
type compressionTransport struct {
	transport http.RoundTripper
}

func newCompressionTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &compressionTransport{transport: base}
}

// RoundTrip sends req with an Accept-Encoding header (unless the caller set one) and swaps in a decoding body.
func (t *compressionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		return resp, nil
	}

	var reader io.ReadCloser
	switch contentEncoding(resp.Header.Get("Content-Encoding")) {
	case "":
		return resp, nil
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		reader = gz
	case "br":
		reader = io.NopCloser(brotli.NewReader(resp.Body))
	case "zstd":
		zr, err := zstd.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		reader = zr.IOReadCloser()
	default:
		return resp, nil
	}

	resp.Body = &decodingBody{decoder: reader, raw: resp.Body}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

// contentEncoding returns the outermost (last applied) coding in a Content-Encoding header value.
func contentEncoding(header string) string {
	parts := strings.Split(header, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		enc := strings.ToLower(strings.TrimSpace(parts[i]))
		if enc != "" && enc != "identity" {
			return enc
		}
	}
	return ""
}

// decodingBody closes both the decoder and the underlying network body.
type decodingBody struct {
	decoder io.ReadCloser
	raw     io.ReadCloser
}

func (d *decodingBody) Read(p []byte) (int, error) {
	return d.decoder.Read(p)
}

func (d *decodingBody) Close() error {
	derr := d.decoder.Close()
	rerr := d.raw.Close()
	if derr != nil {
		return derr
	}
	return rerr
}
