package resolve_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognee/cognee-cli/internal/resolve"
	"github.com/cognee/cognee-cli/pkg/cognee"
)

type fakeLister struct {
	datasets []cognee.Dataset
	err      error
	calls    int
}

func (f *fakeLister) List(context.Context) ([]cognee.Dataset, error) {
	f.calls++
	return f.datasets, f.err
}

func TestDatasetIDPassesUUIDThrough(t *testing.T) {
	lister := &fakeLister{}
	id, err := resolve.DatasetID(context.Background(), lister, "3f2b8c9e-4d1a-4c6e-9b7a-2e5f1d0c8a41")
	require.NoError(t, err)
	assert.Equal(t, "3f2b8c9e-4d1a-4c6e-9b7a-2e5f1d0c8a41", id)
	assert.Zero(t, lister.calls)
}

func TestDatasetIDByName(t *testing.T) {
	lister := &fakeLister{datasets: []cognee.Dataset{
		{ID: "ds-1", Name: "Research Papers"},
		{ID: "ds-2", Name: "Support Tickets"},
		{Name: "no id"},
	}}
	id, err := resolve.DatasetID(context.Background(), lister, "support")
	require.NoError(t, err)
	assert.Equal(t, "ds-2", id)
	assert.Equal(t, 1, lister.calls)
}

func TestDatasetIDListError(t *testing.T) {
	lister := &fakeLister{err: errors.New("boom")}
	_, err := resolve.DatasetID(context.Background(), lister, "papers")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list datasets")
}

func TestDatasetIDNoDatasets(t *testing.T) {
	_, err := resolve.DatasetID(context.Background(), &fakeLister{}, "papers")
	assert.ErrorIs(t, err, resolve.ErrEmptyItems)

	_, err = resolve.DatasetID(context.Background(), &fakeLister{}, " ")
	assert.ErrorIs(t, err, resolve.ErrEmptyQuery)
}
