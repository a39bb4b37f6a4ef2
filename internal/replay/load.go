package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

// ErrBadStatus is returned by Fetch for any non-2xx response.
var ErrBadStatus = errors.New("unexpected response status")

// Fetch performs the single inbound request for a replay document and decodes it.
func Fetch(ctx context.Context, client *http.Client, url string) (*Dataset, []byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, fmt.Errorf("fetch %s: %w: %d", url, ErrBadStatus, resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", url, err)
	}
	ds, err := Decode(raw)
	if err != nil {
		return nil, nil, err
	}
	return ds, raw, nil
}

// LoadFile reads and decodes a replay document from disk.
func LoadFile(path string) (*Dataset, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read replay %s: %w", path, err)
	}
	ds, err := Decode(raw)
	if err != nil {
		return nil, nil, err
	}
	return ds, raw, nil
}
