package counter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/wikidex/blobstore"
)

// DefaultBlob is the blob name the count is stored under.
const DefaultBlob = "querycount"

// BlobPersister stores the count as decimal text in a blob.
type BlobPersister struct {
	store blobstore.Store
	name  string
}

// NewBlobPersister stores the count in name, or DefaultBlob when name is empty.
func NewBlobPersister(store blobstore.Store, name string) *BlobPersister {
	if name == "" {
		name = DefaultBlob
	}
	return &BlobPersister{store: store, name: name}
}

// Load implements Persister.
func (p *BlobPersister) Load(ctx context.Context) (uint64, error) {
	data, err := blobstore.ReadAll(ctx, p.store, p.name)
	if errors.Is(err, blobstore.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrBadCount, p.name)
	}
	return n, nil
}

// Save implements Persister.
func (p *BlobPersister) Save(ctx context.Context, n uint64) error {
	return p.store.Put(ctx, p.name, strconv.AppendUint(nil, n, 10))
}
