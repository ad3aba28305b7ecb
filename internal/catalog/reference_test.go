// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog_test

import (
	"context"
	"testing"

	"github.com/janderssonse/dex/internal/catalog"
	"github.com/janderssonse/dex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategories_LoadOnce(t *testing.T) {
	t.Parallel()

	api := &MockCatalogAPI{}
	api.On("ListCategories", mock.Anything).Return([]domain.Category{
		{ID: "1", Name: "normal"},
		{ID: "10", Name: "feu"},
	}, nil).Once()

	categories := catalog.NewCategories(api, nil)

	require.NoError(t, categories.Load(context.Background()))
	require.NoError(t, categories.Load(context.Background()))

	assert.Len(t, categories.All(), 2)
	assert.Equal(t, "feu", categories.Name("10"))
	assert.Equal(t, "42", categories.Name("42"), "unknown ids fall back to the id")
	assert.Empty(t, categories.ErrorMessage())

	id, ok := categories.Resolve("FEU")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryID("10"), id)

	id, ok = categories.Resolve("1")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryID("1"), id)

	_, ok = categories.Resolve("plasma")
	assert.False(t, ok)

	api.AssertNumberOfCalls(t, "ListCategories", 1)
}

func TestCategories_FailureIsPersistent(t *testing.T) {
	t.Parallel()

	api := &MockCatalogAPI{}
	api.On("ListCategories", mock.Anything).Return(nil, errBoom).Once()

	categories := catalog.NewCategories(api, nil)

	err := categories.Load(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, domain.MsgCategoriesFailed, categories.ErrorMessage())

	// No retry: the second call reports the same failure without a request
	require.ErrorIs(t, categories.Load(context.Background()), errBoom)
	assert.Empty(t, categories.All())
	api.AssertNumberOfCalls(t, "ListCategories", 1)
}

func TestLoadItem(t *testing.T) {
	t.Parallel()

	api := &MockCatalogAPI{}
	api.On("GetItem", mock.Anything, 25).Return(&domain.Item{ID: 25, Name: "pikachu"}, nil).Once()
	api.On("GetItem", mock.Anything, 9999).Return(nil, domain.ErrItemNotFound).Once()

	item, message, err := catalog.LoadItem(context.Background(), api, 25, nil)
	require.NoError(t, err)
	assert.Empty(t, message)
	assert.Equal(t, "pikachu", item.Name)

	item, message, err = catalog.LoadItem(context.Background(), api, 9999, nil)
	require.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.Nil(t, item)
	assert.Equal(t, domain.MsgDetailFailed, message)
}
