package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cognee/cognee-cli/pkg/cognee"
)

// DatasetLister is the part of the datasets API that name lookup needs.
type DatasetLister interface {
	List(ctx context.Context) ([]cognee.Dataset, error)
}

// DatasetID resolves ref to a dataset id. UUIDs are returned without a
// request; anything else is matched against the listed datasets.
func DatasetID(ctx context.Context, lister DatasetLister, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrEmptyQuery
	}
	if _, err := uuid.Parse(ref); err == nil {
		return ref, nil
	}

	datasets, err := lister.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list datasets: %w", err)
	}
	items := make([]Named, 0, len(datasets))
	for _, ds := range datasets {
		if ds.ID == "" {
			continue
		}
		items = append(items, Named{ID: ds.ID, Name: ds.Name})
	}
	if len(items) == 0 {
		return "", fmt.Errorf("dataset %q not found: %w", ref, ErrEmptyItems)
	}
	id, err := FuzzyMatch(ref, items)
	if err != nil {
		return "", fmt.Errorf("dataset %q: %w", ref, err)
	}
	return id, nil
}
