package menu

import (
	"strings"
)

// MarkCurrent flags the items pointing at uri as current and all their
// ancestors as current ancestors.
func MarkCurrent(items []*Item, uri string) {
	if uri == "" {
		return
	}
	byID := make(map[int]*Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	want := normalizeURI(uri)
	for _, item := range items {
		if item.URL == "" || normalizeURI(item.URL) != want {
			continue
		}
		item.Current = true
		seen := map[int]bool{item.ID: true}
		for parent, ok := byID[item.ParentID]; ok && !seen[parent.ID]; parent, ok = byID[parent.ParentID] {
			seen[parent.ID] = true
			parent.CurrentAncestor = true
		}
	}
}

func normalizeURI(uri string) string {
	if i := strings.IndexAny(uri, "?#"); i >= 0 {
		uri = uri[:i]
	}
	if len(uri) > 1 {
		uri = strings.TrimSuffix(uri, "/")
	}
	return uri
}
