// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/core/zone"
	"github.com/example/folio/internal/ports/primary"
	"github.com/example/folio/internal/script"
)

// PlacementAdapter is a thin adapter that translates CLI operations to PlacementService calls.
// It depends only on the PlacementService interface, enabling easy testing with mocks.
type PlacementAdapter struct {
	service  primary.PlacementService
	registry *zone.Registry
	logger   *log.Logger
	out      io.Writer
	mu       sync.Mutex // notices arrive on persistence goroutines
}

// NewPlacementAdapter creates a new PlacementAdapter with the given service.
func NewPlacementAdapter(service primary.PlacementService, registry *zone.Registry, logger *log.Logger, out io.Writer) *PlacementAdapter {
	return &PlacementAdapter{
		service:  service,
		registry: registry,
		logger:   logger,
		out:      out,
	}
}

// Zones lists the configured zones with their rules and occupancy.
func (a *PlacementAdapter) Zones(ctx context.Context) error {
	snap := a.service.Snapshot()

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(header("ZONE"), header("ACCEPTS"), header("CAPACITY"), header("ITEMS"))
	for _, z := range a.registry.Zones() {
		accepts := "any (clones)"
		if !z.IsLibrary {
			kinds := make([]string, 0, len(z.AcceptedKinds))
			for _, k := range z.Kinds() {
				kinds = append(kinds, string(k))
			}
			accepts = strings.Join(kinds, ", ")
		}
		tbl.AddRow(z.ID, accepts, capacityLabel(z.Capacity), len(snap.ZoneOrder[z.ID]))
	}
	fmt.Fprintln(a.out, tbl)
	return nil
}

// Show prints the items of one zone, or of every zone when zoneID is empty.
func (a *PlacementAdapter) Show(ctx context.Context, zoneID string) error {
	zones := a.registry.Zones()
	if zoneID != "" {
		z, ok := a.registry.ZoneByID(zoneID)
		if !ok {
			return fmt.Errorf("unknown zone: %s", zoneID)
		}
		zones = []zone.Zone{z}
	}

	snap := a.service.Snapshot()
	for _, z := range zones {
		fmt.Fprintf(a.out, "\n%s (%d/%s)\n", color.New(color.Bold).Sprint(z.ID), len(snap.ZoneOrder[z.ID]), capacityLabel(z.Capacity))
		order := snap.ZoneOrder[z.ID]
		if len(order) == 0 {
			fmt.Fprintln(a.out, "  (empty)")
			continue
		}
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 60
		for i, id := range order {
			it := snap.Items[id]
			tbl.AddRow(fmt.Sprintf("  %d.", i+1), id, kindLabel(it), Summarize(it.Payload))
		}
		fmt.Fprintln(a.out, tbl)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Library lists the saved sections held by the library zone.
func (a *PlacementAdapter) Library(ctx context.Context) error {
	lib, ok := a.registry.Library()
	if !ok {
		return fmt.Errorf("no library zone configured")
	}

	snap := a.service.Snapshot()
	order := snap.ZoneOrder[lib.ID]
	if len(order) == 0 {
		fmt.Fprintln(a.out, "No saved sections found")
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(header("REMOTE"), header("NAME"), header("KIND"), header("ITEM"))
	for _, id := range order {
		it := snap.Items[id]
		remote := it.RemoteID
		if remote == "" {
			remote = color.New(color.FgYellow).Sprint("(saving)")
		}
		tbl.AddRow(remote, Summarize(it.Payload), it.OriginKind(), id)
	}
	fmt.Fprintln(a.out, tbl)
	return nil
}

// DeleteSaved removes the saved section with the given remote ID and waits for persistence.
func (a *PlacementAdapter) DeleteSaved(ctx context.Context, remoteID string) error {
	snap := a.service.Snapshot()
	var itemID string
	for id, it := range snap.Items {
		if it.IsLibrary() && it.RemoteID == remoteID {
			itemID = id
			break
		}
	}
	if itemID == "" {
		return fmt.Errorf("saved section %s not found", remoteID)
	}

	var failure error
	unsubscribe := a.service.SubscribeNotices(func(n primary.Notice) {
		if n.Kind == primary.NoticePersistenceFailure && n.ItemID == itemID {
			failure = n.Err
		}
	})
	defer unsubscribe()

	out, err := a.service.RemoveItem(itemID)
	if err != nil {
		return err
	}
	if out != primary.RemovePending {
		return fmt.Errorf("saved section %s was not removable: %s", remoteID, out)
	}
	if err := a.service.ConfirmDelete(ctx); err != nil {
		return err
	}
	a.service.Wait()

	if failure != nil {
		return fmt.Errorf("failed to delete saved section: %w", failure)
	}
	fmt.Fprintf(a.out, "%s Deleted saved section %s\n", check(), remoteID)
	return nil
}

// Run executes a session script and prints each step and persistence notice.
func (a *PlacementAdapter) Run(ctx context.Context, s *script.Script, baseDir string) error {
	unsubscribe := a.service.SubscribeNotices(a.printNotice)
	defer unsubscribe()

	runner := script.NewRunner(a.service, baseDir, a.logger)
	results, err := runner.Run(ctx, s)
	for _, r := range results {
		fmt.Fprintf(a.out, "%s %2d %-14s %s\n", check(), r.Index, r.Action, r.Detail)
	}
	if err != nil {
		fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgRed).Sprint("✗"), err)
		return err
	}

	name := s.Name
	if name == "" {
		name = "script"
	}
	fmt.Fprintf(a.out, "%s %s finished: %d steps\n", check(), name, len(results))
	return nil
}

func (a *PlacementAdapter) printNotice(n primary.Notice) {
	var c *color.Color
	switch n.Level {
	case primary.NoticeError:
		c = color.New(color.FgRed)
	case primary.NoticeWarning:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgCyan)
	}

	msg := fmt.Sprintf("[%s] %s", n.Kind, n.ItemID)
	if n.RemoteID != "" {
		msg += " -> " + n.RemoteID
	}
	if n.Err != nil {
		msg += ": " + n.Err.Error()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintln(a.out, c.Sprint(msg))
}

// Summarize renders a one-line description of a payload.
func Summarize(p item.Payload) string {
	switch v := p.(type) {
	case item.Text:
		if v.Heading != "" {
			return v.Heading
		}
		return firstLine(v.Body)
	case item.RichText:
		return firstLine(v.Markdown)
	case item.Media:
		switch {
		case v.Caption != "":
			return v.Caption
		case v.URL != "":
			return v.URL
		case v.Asset != nil:
			return v.Asset.Filename + " (not uploaded)"
		}
	case item.Links:
		if len(v.Links) == 1 {
			return "1 link"
		}
		return fmt.Sprintf("%d links", len(v.Links))
	case item.Library:
		return v.Name
	}
	return ""
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func kindLabel(it item.Item) string {
	if it.IsLibrary() {
		return fmt.Sprintf("%s(%s)", it.Kind(), it.OriginKind())
	}
	return string(it.Kind())
}

func capacityLabel(capacity int) string {
	if capacity == zone.Unbounded {
		return "∞"
	}
	return fmt.Sprint(capacity)
}

func header(s string) string {
	return color.New(color.Bold).Sprint(s)
}

func check() string {
	return color.New(color.FgGreen).Sprint("✓")
}
