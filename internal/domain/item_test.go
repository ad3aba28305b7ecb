// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/janderssonse/dex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailPayload = `{
  "id": 4,
  "name": "salamèche",
  "image": "https://example.test/4.png",
  "types": [{"id": 10, "name": "feu"}],
  "stats": {"HP": 39, "speed": 65, "attack": 52, "defense": 43},
  "evolutions": [{"pokedexId": 5, "name": "reptincel"}, {"pokedexId": 6, "name": "dracaufeu"}]
}`

func TestItemDecodeDetail(t *testing.T) {
	t.Parallel()

	var item domain.Item
	require.NoError(t, json.Unmarshal([]byte(detailPayload), &item))

	assert.Equal(t, 4, item.ID)
	assert.Equal(t, "salamèche", item.Name)
	require.Len(t, item.Categories, 1)
	assert.Equal(t, domain.CategoryID("10"), item.Categories[0].ID)
	assert.Equal(t, "feu", item.Categories[0].Name)

	// Server order is kept, not sorted
	names := make([]string, 0, len(item.Stats))
	for _, stat := range item.Stats {
		names = append(names, stat.Name)
	}

	assert.Equal(t, []string{"HP", "speed", "attack", "defense"}, names)

	speed, ok := item.Stats.Value("speed")
	require.True(t, ok)
	assert.InDelta(t, 65.0, speed, 0.0001)

	_, ok = item.Stats.Value("luck")
	assert.False(t, ok)

	require.Len(t, item.Evolutions, 2)
	assert.Equal(t,
		"https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/5.png",
		item.Evolutions[0].ArtworkURL())
	assert.Equal(t, "/item/4", item.Route())
}

func TestCategoryIDDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		payload  string
		expected domain.CategoryID
	}{
		{"integer id", `{"id": 3, "name": "eau"}`, "3"},
		{"string id", `{"id": "eau", "name": "eau"}`, "eau"},
		{"null id", `{"id": null, "name": "eau"}`, ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var category domain.Category
			require.NoError(t, json.Unmarshal([]byte(testCase.payload), &category))
			assert.Equal(t, testCase.expected, category.ID)
		})
	}
}

func TestCategoryRefAcceptsBareNames(t *testing.T) {
	t.Parallel()

	var item domain.Item
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "name": "bulbizarre", "types": ["plante", "poison"]}`), &item))

	require.Len(t, item.Categories, 2)
	assert.Equal(t, domain.CategoryRef{ID: "plante", Name: "plante"}, item.Categories[0])
	assert.True(t, item.HasCategory("poison"))
	assert.False(t, item.HasCategory("feu"))
}

func TestStatsRejectsNonObject(t *testing.T) {
	t.Parallel()

	var stats domain.Stats
	require.Error(t, json.Unmarshal([]byte(`[1, 2]`), &stats))
}

func TestStatsMarshalKeepsOrder(t *testing.T) {
	t.Parallel()

	stats := domain.Stats{{Name: "speed", Value: 90}, {Name: "HP", Value: 35.5}}

	data, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `{"speed": 90, "HP": 35.5}`, string(data))
	assert.Equal(t, `{"speed":90,"HP":35.5}`, string(data))
}
