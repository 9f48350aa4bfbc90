// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a local history of harvests. Each harvest stores
// where its records came from, when, and every extracted record including
// the abstract, in document order.
package archive

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

// ErrUnknownArchive is returned for an archive type other than sqlite or bbolt.
var ErrUnknownArchive = errors.New("unknown archive type")

// Harvest is one archived run.
type Harvest struct {
	// ID is assigned by the store on Save.
	ID int64 `json:"id"`

	// Source is the request URL, or the input file for local runs.
	Source string `json:"source"`

	HarvestedAt time.Time `json:"harvested_at"`

	// ResumptionToken is set when the server had more pages than were fetched.
	ResumptionToken string `json:"resumption_token,omitempty"`

	Records []types.ArticleRecord `json:"records"`
}

// Store persists harvests.
type Store interface {
	// Save appends h and returns its ID.
	Save(ctx context.Context, h Harvest) (int64, error)
	// List returns all harvests, oldest first, with their records.
	List(ctx context.Context) ([]Harvest, error)
	Close() error
}

// NewStore opens the backend selected by cfg. An empty path disables
// archiving and returns a store that keeps nothing.
func NewStore(cfg types.ArchiveConfig) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return noopStore{}, nil
	}
	var (
		store Store
		err   error
	)
	switch types.ArchiveType(strings.ToLower(strings.TrimSpace(string(cfg.Type)))) {
	case "", types.ArchiveSQLite:
		store, err = openSQLite(cfg.Path)
	case types.ArchiveBBolt:
		store, err = openBolt(cfg.Path)
	default:
		return nil, fmt.Errorf("%w %q (want sqlite or bbolt)", ErrUnknownArchive, cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

type noopStore struct{}

func (noopStore) Save(context.Context, Harvest) (int64, error) { return 0, nil }
func (noopStore) List(context.Context) ([]Harvest, error)     { return nil, nil }
func (noopStore) Close() error                                { return nil }
