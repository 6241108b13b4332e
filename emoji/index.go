package emoji

import (
	"sync/atomic"

	"parrot/metrics"
)

// Index owns the live catalog for one asset directory. Rebuilds swap
// the catalog atomically, scans in flight keep the snapshot they
// started with.
type Index struct {
	dir     string
	current atomic.Pointer[Catalog]
}

// NewIndex builds the catalog eagerly. A directory that cannot be
// cataloged is a startup failure, not something to limp past.
func NewIndex(dir string) (*Index, error) {
	catalog, err := BuildCatalog(dir)
	if err != nil {
		return nil, err
	}

	ix := &Index{dir: dir}
	ix.current.Store(catalog)
	metrics.CatalogEntries.Set(float64(catalog.Len()))

	return ix, nil
}

func (ix *Index) Dir() string {
	return ix.dir
}

func (ix *Index) Catalog() *Catalog {
	return ix.current.Load()
}

// Rebuild rescans the asset directory. The previous catalog stays live
// if the rebuild fails.
func (ix *Index) Rebuild() (*Catalog, error) {
	catalog, err := BuildCatalog(ix.dir)
	if err != nil {
		return nil, err
	}

	ix.current.Store(catalog)
	metrics.CatalogEntries.Set(float64(catalog.Len()))

	return catalog, nil
}
