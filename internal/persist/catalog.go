package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
)

// documentLoader is the part of ReplayRepo a CatalogSource needs.
type documentLoader interface {
	Load(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// CatalogSource loads a replay document from the catalog.
type CatalogSource struct {
	repo documentLoader
	id   uuid.UUID
}

func NewCatalogSource(repo *ReplayRepo, id uuid.UUID) CatalogSource {
	return CatalogSource{repo: repo, id: id}
}

func (s CatalogSource) Load(ctx context.Context) (*replay.Dataset, []byte, error) {
	raw, err := s.repo.Load(ctx, s.id)
	if err != nil {
		return nil, nil, err
	}
	ds, err := replay.Decode(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("decode catalog replay %s: %w", s.id, err)
	}
	return ds, raw, nil
}

func (s CatalogSource) String() string { return "catalog:" + s.id.String() }
