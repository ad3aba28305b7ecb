// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"context"
)

// CatalogAPI defines the remote catalog operations.
// Implemented by the HTTP adapter and by test doubles.
type CatalogAPI interface {
	// ListItems returns one page of items, at most query.PerPage long, in server order.
	ListItems(ctx context.Context, query PageQuery) ([]Item, error)

	// GetItem returns the full detail of a single item.
	GetItem(ctx context.Context, id int) (*Item, error)

	// ListCategories returns the complete category reference set.
	ListCategories(ctx context.Context) ([]Category, error)
}
