package store

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Transport fetches a named resource, typically "data/projects.json".
type Transport interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// HTTPTransport fetches resources relative to a site's base URL.
type HTTPTransport struct {
	client *resty.Client
}

// NewHTTPTransport returns a transport rooted at baseURL. Requests are sent
// with no-cache semantics so a rebuilt data file is always picked up.
func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Cache-Control", "no-cache").
		SetHeader("Accept", "application/json")
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Fetch(ctx context.Context, name string) ([]byte, error) {
	resp, err := t.client.R().SetContext(ctx).Get("/" + strings.TrimPrefix(name, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch '%s': %w", name, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch '%s': unexpected status %d", name, resp.StatusCode())
	}
	return resp.Body(), nil
}

// FileTransport reads resources from a file system, usually the site
// checkout or a build output directory.
type FileTransport struct {
	fsys fs.FS
}

func NewFileTransport(fsys fs.FS) *FileTransport {
	return &FileTransport{fsys: fsys}
}

// NewDirTransport reads resources below dir on the local disk.
func NewDirTransport(dir string) *FileTransport {
	return &FileTransport{fsys: os.DirFS(dir)}
}

func (t *FileTransport) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := path.Clean(strings.TrimPrefix(name, "/"))
	data, err := fs.ReadFile(t.fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", clean, err)
	}
	return data, nil
}
