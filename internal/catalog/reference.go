// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/janderssonse/dex/internal/domain"
	"go.uber.org/zap"
)

// Categories is the category reference set of a session. It is loaded once;
// a failed load is remembered and not retried.
type Categories struct {
	api    domain.CatalogAPI
	logger *zap.Logger

	once   sync.Once
	mu     sync.RWMutex
	list   []domain.Category
	byID   map[domain.CategoryID]domain.Category
	errMsg string
	err    error
}

// NewCategories creates an unloaded reference set.
func NewCategories(api domain.CatalogAPI, logger *zap.Logger) *Categories {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Categories{
		api:    api,
		logger: logger,
		byID:   make(map[domain.CategoryID]domain.Category),
	}
}

// Load fetches the reference set on first call. Later calls return the first result.
func (c *Categories) Load(ctx context.Context) error {
	c.once.Do(func() {
		list, err := c.api.ListCategories(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()

		if err != nil {
			c.err = fmt.Errorf("load categories: %w", err)
			c.errMsg = domain.MsgCategoriesFailed
			c.logger.Error("category load failed", zap.Error(err))

			return
		}

		c.list = slices.Clone(list)
		for _, category := range list {
			c.byID[category.ID] = category
		}

		c.logger.Info("categories loaded", zap.Int("count", len(list)))
	})

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.err
}

// All returns the loaded categories in server order.
func (c *Categories) All() []domain.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.list)
}

// Lookup returns the category with the given id.
func (c *Categories) Lookup(id domain.CategoryID) (domain.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	category, ok := c.byID[id]

	return category, ok
}

// Name returns the display name of a category id, or the id itself when unknown.
func (c *Categories) Name(id domain.CategoryID) string {
	if category, ok := c.Lookup(id); ok {
		return category.Name
	}

	return string(id)
}

// ErrorMessage returns the persistent load failure message, empty on success.
func (c *Categories) ErrorMessage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.errMsg
}

// LoadItem fetches a single item's detail. The returned message is the
// user-facing failure text and is empty on success.
func LoadItem(ctx context.Context, api domain.CatalogAPI, id int, logger *zap.Logger) (*domain.Item, string, error) {
	item, err := api.GetItem(ctx, id)
	if err != nil {
		if logger != nil {
			logger.Warn("item detail failed", zap.Int("id", id), zap.Error(err))
		}

		return nil, domain.MsgDetailFailed, fmt.Errorf("load item %d: %w", id, err)
	}

	return item, "", nil
}

// Resolve maps a category id or a case-insensitive name to its id.
func (c *Categories) Resolve(value string) (domain.CategoryID, bool) {
	value = strings.TrimSpace(value)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.byID[domain.CategoryID(value)]; ok {
		return domain.CategoryID(value), true
	}

	for _, category := range c.list {
		if strings.EqualFold(category.Name, value) {
			return category.ID, true
		}
	}

	return "", false
}
