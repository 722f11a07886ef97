// Package seed reads the catalog documents that populate the design store.
package seed

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"folio-go/internal/config"
	"folio-go/internal/folio"
)

//go:embed data/portfolio.json data/projects.json
var bundled embed.FS

// Sector is a portfolio entry's category: a single string or a list.
type Sector []string

func (s *Sector) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = Sector{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("sector must be a string or a list of strings: %w", err)
	}
	*s = Sector(many)
	return nil
}

// Category joins the trimmed, non-empty sectors with ", ".
func (s Sector) Category() string {
	parts := make([]string, 0, len(s))
	for _, p := range s {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type portfolioItem struct {
	Title       string `json:"title"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Sector      Sector `json:"sector"`
	Link        string `json:"link"`
}

type projectItem struct {
	URL    string   `json:"url"`
	Images []string `json:"images"`
	Texts  []string `json:"texts"`
}

// Stats describes what Load kept and dropped.
type Stats struct {
	Entries        int // entries returned
	Skipped        int // missing title, image or link
	Duplicates     int // repeated links after the first
	WithoutDetails int // no matching project record
	OrphanProjects int // project records no entry points to
}

// normalizeLink makes portfolio links and project urls comparable.
func normalizeLink(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}

// Load joins the portfolio and projects documents into catalog entries,
// in portfolio order.
func Load(portfolio, projects io.Reader) ([]*folio.CatalogEntry, *Stats, error) {
	var pdoc struct {
		Portfolio []portfolioItem `json:"portfolio"`
	}
	if err := json.NewDecoder(portfolio).Decode(&pdoc); err != nil {
		return nil, nil, fmt.Errorf("decoding portfolio: %w", err)
	}

	var jdoc struct {
		Projects []projectItem `json:"projects"`
	}
	if err := json.NewDecoder(projects).Decode(&jdoc); err != nil {
		return nil, nil, fmt.Errorf("decoding projects: %w", err)
	}

	details := make(map[string]projectItem, len(jdoc.Projects))
	for _, p := range jdoc.Projects {
		key := normalizeLink(p.URL)
		if _, ok := details[key]; key == "" || ok {
			continue
		}
		details[key] = p
	}

	stats := &Stats{}
	used := make(map[string]bool, len(pdoc.Portfolio))
	entries := make([]*folio.CatalogEntry, 0, len(pdoc.Portfolio))

	for _, item := range pdoc.Portfolio {
		link := normalizeLink(item.Link)
		title := strings.TrimSpace(item.Title)
		image := strings.TrimSpace(item.Image)
		if link == "" || title == "" || image == "" {
			stats.Skipped++
			continue
		}
		if used[link] {
			stats.Duplicates++
			continue
		}
		used[link] = true

		e := &folio.CatalogEntry{
			Link:        link,
			Title:       title,
			Category:    item.Sector.Category(),
			Image:       image,
			Description: item.Description,
			Images:      []string{},
			Texts:       []string{},
		}
		if p, ok := details[link]; ok {
			e.Images = append(e.Images, p.Images...)
			e.Texts = append(e.Texts, p.Texts...)
		} else {
			stats.WithoutDetails++
		}
		entries = append(entries, e)
	}

	for key := range details {
		if !used[key] {
			stats.OrphanProjects++
		}
	}
	stats.Entries = len(entries)
	return entries, stats, nil
}

// Bundled loads the catalog compiled into the binary.
func Bundled() ([]*folio.CatalogEntry, *Stats, error) {
	portfolio, err := bundled.ReadFile("data/portfolio.json")
	if err != nil {
		return nil, nil, fmt.Errorf("reading bundled portfolio: %w", err)
	}
	projects, err := bundled.ReadFile("data/projects.json")
	if err != nil {
		return nil, nil, fmt.Errorf("reading bundled projects: %w", err)
	}
	return Load(bytes.NewReader(portfolio), bytes.NewReader(projects))
}

// FromConfig loads the catalog, reading each document from its configured
// path when one is set and from the bundled copy otherwise.
func FromConfig(cfg config.SeedConfig) ([]*folio.CatalogEntry, *Stats, error) {
	portfolio, err := readDocument(cfg.PortfolioPath, "data/portfolio.json")
	if err != nil {
		return nil, nil, err
	}
	projects, err := readDocument(cfg.ProjectsPath, "data/projects.json")
	if err != nil {
		return nil, nil, err
	}
	return Load(bytes.NewReader(portfolio), bytes.NewReader(projects))
}

func readDocument(path, fallback string) ([]byte, error) {
	if path == "" {
		data, err := bundled.ReadFile(fallback)
		if err != nil {
			return nil, fmt.Errorf("reading bundled %s: %w", fallback, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed document: %w", err)
	}
	return data, nil
}
