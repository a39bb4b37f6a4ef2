package replay

import (
	"context"
	"net/http"
)

// Source produces a replay document. Load is the only suspension point
// before playback starts.
type Source interface {
	Load(ctx context.Context) (*Dataset, []byte, error)
	String() string
}

// HTTPSource fetches the document from a URL.
type HTTPSource struct {
	Client *http.Client
	URL    string
}

func (s HTTPSource) Load(ctx context.Context) (*Dataset, []byte, error) {
	return Fetch(ctx, s.Client, s.URL)
}

func (s HTTPSource) String() string { return s.URL }

// FileSource reads the document from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load(context.Context) (*Dataset, []byte, error) {
	return LoadFile(s.Path)
}

func (s FileSource) String() string { return "file://" + s.Path }
