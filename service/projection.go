package service

import (
	"sort"
	"strings"

	"github.com/naijj/ml-shelf/entity"
)

// Project derives the displayed subset of the catalog from the view state.
// Pure function: no I/O, input slice is not mutated.
//
// A model is kept when the search matches its name or any tag
// (case-insensitive substring, empty search matches everything) AND the
// framework filter matches exactly (empty filter matches everything).
// Sorting is downloads desc or created_at desc; ties break on higher id so the
// output is deterministic.
func Project(models []entity.Model, query entity.CatalogQuery) []entity.Model {
	search := strings.ToLower(strings.TrimSpace(query.Search))
	framework := query.Framework

	filtered := make([]entity.Model, 0, len(models))
	for _, model := range models {
		if !matchesSearch(model, search) {
			continue
		}
		if framework != "" && model.Framework != framework {
			continue
		}
		filtered = append(filtered, model)
	}

	switch query.Sort {
	case entity.SortDownloads:
		sort.SliceStable(filtered, func(i, j int) bool {
			if filtered[i].Downloads != filtered[j].Downloads {
				return filtered[i].Downloads > filtered[j].Downloads
			}
			return filtered[i].ID > filtered[j].ID
		})
	default: // latest
		sort.SliceStable(filtered, func(i, j int) bool {
			if !filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
				return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
			}
			return filtered[i].ID > filtered[j].ID
		})
	}

	return filtered
}

func matchesSearch(model entity.Model, search string) bool {
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(model.Name), search) {
		return true
	}
	for _, tag := range model.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}
