// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package domain contains the catalog model and the ports used to reach the remote catalog.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ArtworkURLTemplate builds the official artwork URL for an evolution reference.
const ArtworkURLTemplate = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/%d.png"

// CategoryID identifies a category. The API sends either strings or integers;
// both are held in their decimal/string form.
type CategoryID string

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (id *CategoryID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""

		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode category id: %w", err)
		}

		*id = CategoryID(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode category id: %w", err)
	}

	*id = CategoryID(n.String())

	return nil
}

// Category is a static label used to filter items.
type Category struct {
	ID    CategoryID `json:"id"`
	Name  string     `json:"name"`
	Image string     `json:"image,omitempty"`
}

// CategoryRef is the category information embedded in an item.
type CategoryRef struct {
	ID   CategoryID `json:"id"`
	Name string     `json:"name"`
}

// UnmarshalJSON accepts either a bare category name or an {id, name} object.
func (r *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("failed to decode category: %w", err)
		}

		r.ID = CategoryID(name)
		r.Name = name

		return nil
	}

	type plain CategoryRef

	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("failed to decode category: %w", err)
	}

	*r = CategoryRef(decoded)
	if r.Name == "" {
		r.Name = string(r.ID)
	}

	return nil
}

// Stat is a single named statistic.
type Stat struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Stats keeps statistics in the order the server sent them.
type Stats []Stat

// Value returns the statistic with the given name.
func (s Stats) Value(name string) (float64, bool) {
	for _, stat := range s {
		if stat.Name == name {
			return stat.Value, true
		}
	}

	return 0, false
}

// UnmarshalJSON decodes a JSON object of name -> number while preserving key order.
func (s *Stats) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil

		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to decode stats: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("failed to decode stats: expected object, got %v", tok)
	}

	var stats Stats

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to decode stats: %w", err)
		}

		name, _ := keyTok.(string)

		var num json.Number
		if err := dec.Decode(&num); err != nil {
			return fmt.Errorf("failed to decode stat %q: %w", name, err)
		}

		value, err := strconv.ParseFloat(num.String(), 64)
		if err != nil {
			return fmt.Errorf("failed to decode stat %q: %w", name, err)
		}

		stats = append(stats, Stat{Name: name, Value: value})
	}

	*s = stats

	return nil
}

// MarshalJSON encodes the statistics back into an ordered JSON object.
func (s Stats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, stat := range s {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(stat.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to encode stat name: %w", err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(stat.Value, 'f', -1, 64))
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Evolution references another item in the same evolution line.
type Evolution struct {
	PokedexID int    `json:"pokedexId"`
	Name      string `json:"name"`
}

// ArtworkURL returns the artwork image for the referenced item.
func (e Evolution) ArtworkURL() string {
	return fmt.Sprintf(ArtworkURLTemplate, e.PokedexID)
}

// Item is a single catalog entry. Values returned by the API are never mutated.
type Item struct {
	ID         int           `json:"id"`
	Name       string        `json:"name"`
	Image      string        `json:"image"`
	Categories []CategoryRef `json:"types"`
	Stats      Stats         `json:"stats,omitempty"`
	Evolutions []Evolution   `json:"evolutions,omitempty"`
}

// HasCategory reports whether the item carries the given category.
func (i Item) HasCategory(id CategoryID) bool {
	for _, ref := range i.Categories {
		if ref.ID == id {
			return true
		}
	}

	return false
}

// Route returns the navigation path of the item's detail view.
func (i Item) Route() string {
	return "/item/" + strconv.Itoa(i.ID)
}
