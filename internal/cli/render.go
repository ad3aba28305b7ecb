// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/janderssonse/dex/internal/catalog"
	"github.com/janderssonse/dex/internal/domain"
	"github.com/janderssonse/dex/internal/stringutil"
)

// Column widths in terminal cells.
const (
	idColumn     = 6
	nameColumn   = 18
	markdownWrap = 80
)

func itemTable(items []domain.Item) string {
	var builder strings.Builder

	builder.WriteString(stringutil.PadRight("ID", idColumn) + "  " + stringutil.PadRight("NAME", nameColumn) + "  TYPES\n")

	for _, item := range items {
		builder.WriteString(stringutil.PadRight(stringutil.PadID(item.ID), idColumn))
		builder.WriteString("  ")
		builder.WriteString(stringutil.PadRight(stringutil.TitleCase(item.Name), nameColumn))
		builder.WriteString("  ")
		builder.WriteString(strings.Join(refNames(item.Categories, nil), ", "))
		builder.WriteString("\n")
	}

	return builder.String()
}

func categoryTable(categories []domain.Category) string {
	var builder strings.Builder

	builder.WriteString(stringutil.PadRight("ID", idColumn) + "  NAME\n")

	for _, category := range categories {
		builder.WriteString(stringutil.PadRight(string(category.ID), idColumn))
		builder.WriteString("  ")
		builder.WriteString(stringutil.TitleCase(category.Name))
		builder.WriteString("\n")
	}

	return builder.String()
}

// plainItemLine is one tab-separated line: id, name, comma-joined type names.
func plainItemLine(item domain.Item) string {
	return strconv.Itoa(item.ID) + "\t" + item.Name + "\t" + strings.Join(refNames(item.Categories, nil), ",")
}

func plainItemDetail(item *domain.Item, categories *catalog.Categories) []string {
	lines := []string{
		"id:" + strconv.Itoa(item.ID),
		"name:" + item.Name,
		"types:" + strings.Join(refNames(item.Categories, categories), ","),
		"image:" + item.Image,
	}

	for _, stat := range item.Stats {
		lines = append(lines, "stat."+stat.Name+":"+formatStat(stat.Value))
	}

	for _, evolution := range item.Evolutions {
		lines = append(lines, "evolution:"+strconv.Itoa(evolution.PokedexID)+":"+evolution.Name)
	}

	return lines
}

// refNames prefers names from the reference set when the item only carries ids.
func refNames(refs []domain.CategoryRef, categories *catalog.Categories) []string {
	names := make([]string, 0, len(refs))

	for _, ref := range refs {
		name := ref.Name
		if categories != nil && (name == "" || name == string(ref.ID)) {
			name = categories.Name(ref.ID)
		}

		names = append(names, stringutil.TitleCase(name))
	}

	return names
}

func formatStat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func itemMarkdown(item *domain.Item, categories *catalog.Categories) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "# %s %s\n\n", stringutil.PadID(item.ID), stringutil.TitleCase(item.Name))

	if types := refNames(item.Categories, categories); len(types) > 0 {
		fmt.Fprintf(&builder, "**Types:** %s\n\n", strings.Join(types, ", "))
	}

	builder.WriteString("## Stats\n\n")

	if len(item.Stats) == 0 {
		builder.WriteString("No stats available\n\n")
	} else {
		builder.WriteString("| Stat | Value |\n|------|-------|\n")

		for _, stat := range item.Stats {
			fmt.Fprintf(&builder, "| %s | %s |\n", stat.Name, formatStat(stat.Value))
		}

		builder.WriteString("\n")
	}

	builder.WriteString("## Evolutions\n\n")

	if len(item.Evolutions) == 0 {
		builder.WriteString("No evolutions available\n\n")
	}

	for _, evolution := range item.Evolutions {
		fmt.Fprintf(&builder, "- %s %s (`dex show %d`)\n",
			stringutil.PadID(evolution.PokedexID), stringutil.TitleCase(evolution.Name), evolution.PokedexID)
	}

	if item.Image != "" {
		fmt.Fprintf(&builder, "\nArtwork: %s\n", item.Image)
	}

	return builder.String()
}

func renderMarkdown(markdown string, color bool) (string, error) {
	style := "notty"
	if color {
		style = "dark"
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(markdownWrap),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return rendered, nil
}
