package folio

import (
	"strings"
	"time"
)

// Design is a single catalog entry.
type Design struct {
	ID          int64
	Link        string // seed key, stable across reseeds
	Title       string
	Category    string // may hold several categories joined by ", "
	Image       string
	Description string
}

// DesignDetail is a design together with its gallery images and text blocks,
// both in insertion order.
type DesignDetail struct {
	Design *Design
	Images []string
	Texts  []string
}

// Gallery returns the images to show for the design. Designs without detail
// images fall back to their cover image.
func (d *DesignDetail) Gallery() []string {
	if len(d.Images) > 0 {
		return d.Images
	}
	if d.Design != nil && d.Design.Image != "" {
		return []string{d.Design.Image}
	}
	return nil
}

// User is a registered account. The password hash never leaves the database layer.
type User struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}

// SavedDesign is a design on a user's saved list.
type SavedDesign struct {
	Design
	AddedAt time.Time
}

// CatalogEntry is one design as it comes out of the seed documents.
type CatalogEntry struct {
	Link        string
	Title       string
	Category    string
	Image       string
	Description string
	Images      []string
	Texts       []string
}

// ImportResult reports what ImportCatalog changed.
type ImportResult struct {
	Inserted int
	Updated  int
	Pruned   int
}

// SplitCategories splits a comma-joined category string into its trimmed,
// non-empty parts.
func SplitCategories(category string) []string {
	var out []string
	for _, part := range strings.Split(category, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Categories returns the distinct categories across designs in order of first
// appearance. Matching is case-insensitive; the first spelling seen wins.
func Categories(designs []*Design) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range designs {
		for _, c := range SplitCategories(d.Category) {
			key := strings.ToLower(c)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, c)
		}
	}
	return out
}

// HasCategory reports whether the design's category field contains category
// as a case-insensitive substring. This mirrors the store query.
func (d *Design) HasCategory(category string) bool {
	return strings.Contains(strings.ToLower(d.Category), strings.ToLower(strings.TrimSpace(category)))
}
