package db

import (
	"database/sql"
	"fmt"

	"github.com/example/folio/internal/core/item"
)

// SeedFixtures populates the database with example saved sections.
// Fixtures already present are left alone.
func SeedFixtures(conn *sql.DB) error {
	fixtures := []struct {
		id      string
		name    string
		payload item.Payload
	}{
		{"SAVED-001", "Short bio", item.Library{
			Name:     "Short bio",
			Template: item.Text{Heading: "About me", Body: "I design and build things for the web."},
		}},
		{"SAVED-002", "Socials", item.Library{
			Name: "Socials",
			Template: item.Links{Links: []item.Link{
				{Label: "GitHub", URL: "https://github.com/"},
				{Label: "Mastodon", URL: "https://mastodon.social/"},
			}},
		}},
		{"SAVED-003", "Case study intro", item.Library{
			Name:     "Case study intro",
			Template: item.RichText{Markdown: "## The problem\n\nWhat we set out to fix."},
		}},
	}

	for _, f := range fixtures {
		data, err := item.Encode(f.payload)
		if err != nil {
			return fmt.Errorf("seed %s: %w", f.id, err)
		}
		if _, err := conn.Exec(
			"INSERT OR IGNORE INTO saved_items (id, name, payload) VALUES (?, ?, ?)",
			f.id, f.name, data,
		); err != nil {
			return fmt.Errorf("seed saved_items: %w", err)
		}
	}
	return nil
}
