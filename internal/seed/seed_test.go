package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"folio-go/internal/config"
	"folio-go/internal/testutil"
)

func TestSector_Category(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"string", `{"portfolio":[{"title":"T","image":"I","link":"L","sector":"Bedroom"}]}`, "Bedroom"},
		{"list", `{"portfolio":[{"title":"T","image":"I","link":"L","sector":["Living Room","Kitchen"]}]}`, "Living Room, Kitchen"},
		{"list trimmed", `{"portfolio":[{"title":"T","image":"I","link":"L","sector":[" Office ","", "Den"]}]}`, "Office, Den"},
		{"missing", `{"portfolio":[{"title":"T","image":"I","link":"L"}]}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, _, err := Load(strings.NewReader(tt.json), strings.NewReader(`{"projects":[]}`))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(entries) != 1 || entries[0].Category != tt.want {
				t.Errorf("Category = %q, want %q", entries[0].Category, tt.want)
			}
		})
	}
}

func TestLoad_InvalidSector(t *testing.T) {
	_, _, err := Load(
		strings.NewReader(`{"portfolio":[{"title":"T","image":"I","link":"L","sector":42}]}`),
		strings.NewReader(`{"projects":[]}`),
	)
	if err == nil {
		t.Fatal("Load() expected error for numeric sector")
	}
}

func TestLoad_JoinsDetails(t *testing.T) {
	portfolio := `{"portfolio":[
		{"title":"A","image":"img-a","link":"https://x.com/a/","sector":"Kitchen","description":" Bright. "},
		{"title":"B","image":"img-b","link":"https://x.com/b","sector":"Bedroom"},
		{"title":"","image":"img-c","link":"https://x.com/c","sector":"Bedroom"},
		{"title":"D","image":"","link":"https://x.com/d","sector":"Bedroom"},
		{"title":"A again","image":"img-a2","link":" https://x.com/a","sector":"Kitchen"}
	]}`
	projects := `{"projects":[
		{"url":"https://x.com/a","images":["i1"," ","i2"],"texts":["t1"]},
		{"url":"https://x.com/zzz","images":["orphan"],"texts":[]}
	]}`

	entries, stats, err := Load(strings.NewReader(portfolio), strings.NewReader(projects))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Load() returned %d entries, want 2", len(entries))
	}
	a := entries[0]
	if a.Link != "https://x.com/a" || a.Title != "A" || a.Description != " Bright. " {
		t.Errorf("entries[0] = %+v", a)
	}
	if !reflect.DeepEqual(a.Images, []string{"i1", " ", "i2"}) || !reflect.DeepEqual(a.Texts, []string{"t1"}) {
		t.Errorf("entries[0] details = %v %v", a.Images, a.Texts)
	}
	b := entries[1]
	if b.Images == nil || len(b.Images) != 0 || len(b.Texts) != 0 {
		t.Errorf("entries[1] details = %#v %#v, want empty", b.Images, b.Texts)
	}

	want := Stats{Entries: 2, Skipped: 2, Duplicates: 1, WithoutDetails: 1, OrphanProjects: 1}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}
}

func TestLoad_DetailsSurviveImport(t *testing.T) {
	tests := []struct {
		name   string
		images []string
		texts  []string
	}{
		{name: "plain", images: []string{"a.jpg", "b.jpg"}, texts: []string{"Intro.", "Outro"}},
		{name: "whitespace kept", images: []string{"a.jpg", " b.jpg "}, texts: []string{"  Intro.\n", "Outro\t"}},
		{name: "empty strings kept", images: []string{"a.jpg", ""}, texts: []string{"", "Outro", ""}},
		{name: "repeated entries", images: []string{"a.jpg", "a.jpg"}, texts: []string{"same", "same"}},
		{name: "no details", images: []string{}, texts: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			portfolio := `{"portfolio":[{"title":"Loft","image":"cover.jpg","link":"https://x.com/loft","sector":"Kitchen"}]}`
			projects, err := json.Marshal(map[string]any{
				"projects": []map[string]any{{"url": "https://x.com/loft", "images": tt.images, "texts": tt.texts}},
			})
			if err != nil {
				t.Fatal(err)
			}

			entries, _, err := Load(strings.NewReader(portfolio), bytes.NewReader(projects))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !reflect.DeepEqual(entries[0].Images, tt.images) || !reflect.DeepEqual(entries[0].Texts, tt.texts) {
				t.Fatalf("Load() details = %q %q, want %q %q", entries[0].Images, entries[0].Texts, tt.images, tt.texts)
			}

			db := testutil.NewTestDatabase(t, testutil.NewClock())
			if _, err := db.ImportCatalog(ctx, entries, false); err != nil {
				t.Fatalf("ImportCatalog() error = %v", err)
			}
			designs, err := db.ListDesigns(ctx)
			if err != nil || len(designs) != 1 {
				t.Fatalf("ListDesigns() = %v, %v", designs, err)
			}

			images, err := db.FindDetailImages(ctx, designs[0].ID)
			if err != nil {
				t.Fatalf("FindDetailImages() error = %v", err)
			}
			texts, err := db.FindDetailTexts(ctx, designs[0].ID)
			if err != nil {
				t.Fatalf("FindDetailTexts() error = %v", err)
			}
			if !reflect.DeepEqual(images, tt.images) {
				t.Errorf("FindDetailImages() = %q, want %q", images, tt.images)
			}
			if !reflect.DeepEqual(texts, tt.texts) {
				t.Errorf("FindDetailTexts() = %q, want %q", texts, tt.texts)
			}
		})
	}
}

func TestBundled_DetailsSurviveImport(t *testing.T) {
	ctx := context.Background()
	entries, _, err := Bundled()
	if err != nil {
		t.Fatalf("Bundled() error = %v", err)
	}

	db := testutil.NewTestDatabase(t, testutil.NewClock())
	if _, err := db.ImportCatalog(ctx, entries, false); err != nil {
		t.Fatalf("ImportCatalog() error = %v", err)
	}
	designs, err := db.ListDesigns(ctx)
	if err != nil {
		t.Fatalf("ListDesigns() error = %v", err)
	}
	if len(designs) != len(entries) {
		t.Fatalf("ListDesigns() returned %d designs, want %d", len(designs), len(entries))
	}

	for i, e := range entries {
		d := designs[i]
		if d.Link != e.Link || d.Description != e.Description {
			t.Errorf("design %d = %+v, want link %q description %q", i, d, e.Link, e.Description)
		}
		images, err := db.FindDetailImages(ctx, d.ID)
		if err != nil {
			t.Fatalf("FindDetailImages() error = %v", err)
		}
		texts, err := db.FindDetailTexts(ctx, d.ID)
		if err != nil {
			t.Fatalf("FindDetailTexts() error = %v", err)
		}
		if !reflect.DeepEqual(images, e.Images) {
			t.Errorf("%s images = %q, want %q", e.Link, images, e.Images)
		}
		if !reflect.DeepEqual(texts, e.Texts) {
			t.Errorf("%s texts = %q, want %q", e.Link, texts, e.Texts)
		}
	}
}

func TestLoad_MalformedDocuments(t *testing.T) {
	if _, _, err := Load(strings.NewReader("{"), strings.NewReader(`{"projects":[]}`)); err == nil {
		t.Error("Load() expected error for malformed portfolio")
	}
	if _, _, err := Load(strings.NewReader(`{"portfolio":[]}`), strings.NewReader("[")); err == nil {
		t.Error("Load() expected error for malformed projects")
	}
}

func TestBundled(t *testing.T) {
	entries, stats, err := Bundled()
	if err != nil {
		t.Fatalf("Bundled() error = %v", err)
	}
	if len(entries) == 0 || stats.Skipped != 0 || stats.Duplicates != 0 {
		t.Fatalf("Bundled() = %d entries, stats %+v", len(entries), *stats)
	}

	byTitle := make(map[string]int)
	for i, e := range entries {
		byTitle[e.Title] = i
		if strings.HasSuffix(e.Link, "/") {
			t.Errorf("link %q keeps trailing slash", e.Link)
		}
	}
	cozy, ok := byTitle["Cozy Apartment"]
	if !ok || entries[cozy].Category != "Living Room" || len(entries[cozy].Images) == 0 {
		t.Errorf("Cozy Apartment entry = %+v", entries[cozy])
	}
	bedroom, ok := byTitle["Minimalist Bedroom"]
	if !ok || entries[bedroom].Category != "Bedroom" || len(entries[bedroom].Images) == 0 {
		t.Errorf("Minimalist Bedroom entry missing details: %+v", entries[bedroom])
	}
	loft, ok := byTitle["Open Plan Loft"]
	if !ok || entries[loft].Category != "Living Room, Kitchen" {
		t.Errorf("Open Plan Loft category = %q", entries[loft].Category)
	}
}

func TestFromConfig(t *testing.T) {
	t.Run("bundled by default", func(t *testing.T) {
		entries, _, err := FromConfig(config.SeedConfig{})
		if err != nil {
			t.Fatalf("FromConfig() error = %v", err)
		}
		bundledEntries, _, _ := Bundled()
		if len(entries) != len(bundledEntries) {
			t.Errorf("FromConfig() = %d entries, want %d", len(entries), len(bundledEntries))
		}
	})

	t.Run("portfolio override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "portfolio.json")
		doc := `{"portfolio":[{"title":"Only","image":"img","link":"https://folio.example.com/projects/cozy-apartment","sector":"Studio"}]}`
		if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
			t.Fatal(err)
		}

		entries, stats, err := FromConfig(config.SeedConfig{PortfolioPath: path})
		if err != nil {
			t.Fatalf("FromConfig() error = %v", err)
		}
		if len(entries) != 1 || entries[0].Title != "Only" {
			t.Fatalf("FromConfig() = %v", entries)
		}
		if len(entries[0].Images) == 0 {
			t.Error("override entry not joined with bundled projects")
		}
		if stats.WithoutDetails != 0 {
			t.Errorf("WithoutDetails = %d, want 0", stats.WithoutDetails)
		}
	})

	t.Run("missing override", func(t *testing.T) {
		if _, _, err := FromConfig(config.SeedConfig{ProjectsPath: "/nonexistent/projects.json"}); err == nil {
			t.Error("FromConfig() expected error for missing file")
		}
	})
}
