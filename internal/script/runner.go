package script

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/core/placement"
	"github.com/example/folio/internal/ports/primary"
)

// ErrExpectation is returned when an expect step does not hold.
var ErrExpectation = errors.New("expectation failed")

// StepResult describes what one step did.
type StepResult struct {
	Index  int
	Action string
	Detail string
}

// Runner executes scripts against a PlacementService.
type Runner struct {
	svc     primary.PlacementService
	baseDir string
	logger  *log.Logger
	aliases map[string]string
	last    primary.DropOutcome
}

// NewRunner creates a Runner. baseDir resolves relative asset paths.
func NewRunner(svc primary.PlacementService, baseDir string, logger *log.Logger) *Runner {
	return &Runner{
		svc:     svc,
		baseDir: baseDir,
		logger:  logger,
		aliases: make(map[string]string),
	}
}

// Run executes every step in order and stops at the first error.
// Background persistence is awaited before returning.
func (r *Runner) Run(ctx context.Context, s *Script) ([]StepResult, error) {
	defer r.svc.Wait()

	results := make([]StepResult, 0, len(s.Steps))
	for i, step := range s.Steps {
		action, err := step.Action()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		detail, err := r.runStep(ctx, step)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, action, err)
		}
		r.logger.Debug("step done", "step", i+1, "action", action, "detail", detail)
		results = append(results, StepResult{Index: i + 1, Action: action, Detail: detail})
	}
	return results, nil
}

// Resolve maps an alias to an item id; unknown names pass through as ids.
func (r *Runner) Resolve(name string) string {
	if id, ok := r.aliases[name]; ok {
		return id
	}
	return name
}

func (r *Runner) bind(alias, id string) {
	if alias != "" && id != "" {
		r.aliases[alias] = id
	}
}

func (r *Runner) runStep(ctx context.Context, step Step) (string, error) {
	switch {
	case step.Add != nil:
		kind, err := item.ParseKind(step.Add.Kind)
		if err != nil {
			return "", err
		}
		id, err := r.svc.AddItem(step.Add.Zone, kind)
		if err != nil {
			return "", err
		}
		r.bind(step.Add.As, id)
		return fmt.Sprintf("added %s %s to %s", kind, id, step.Add.Zone), nil

	case step.Update != nil:
		return r.update(step.Update)

	case step.Drag != nil:
		return r.drag(step.Drag)

	case step.Save != nil:
		id, err := r.svc.ConfirmSave(ctx, step.Save.Name)
		if err != nil {
			return "", err
		}
		r.bind(step.Save.As, id)
		return fmt.Sprintf("saved %q as %s", step.Save.Name, id), nil

	case step.CancelSave:
		r.svc.CancelSave()
		return "save cancelled", nil

	case step.Remove != nil:
		id := r.Resolve(step.Remove.Item)
		out, err := r.svc.RemoveItem(id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("remove %s: %s", id, out), nil

	case step.ConfirmDelete:
		if err := r.svc.ConfirmDelete(ctx); err != nil {
			return "", err
		}
		return "delete confirmed", nil

	case step.CancelDelete:
		r.svc.CancelDelete()
		return "delete cancelled", nil

	case step.Reorder != nil:
		rs := step.Reorder
		if err := r.svc.Reorder(rs.Zone, rs.From, rs.To); err != nil {
			return "", err
		}
		return fmt.Sprintf("reordered %s %d -> %d", rs.Zone, rs.From, rs.To), nil

	case step.Expect != nil:
		return r.expect(step.Expect)
	}
	return "", fmt.Errorf("step has no action")
}

func (r *Runner) drag(ds *DragStep) (string, error) {
	id := r.Resolve(ds.Item)
	if err := r.svc.StartDrag(id); err != nil {
		return "", err
	}
	for _, o := range ds.Over {
		if err := r.svc.DragOver(r.target(o, false)); err != nil {
			return "", err
		}
	}
	if ds.Cancel {
		r.svc.CancelDrag()
		r.last = primary.DropOutcome{Result: primary.DropReverted, ItemID: id}
		return fmt.Sprintf("drag of %s cancelled", id), nil
	}

	out, err := r.svc.EndDrag(r.target(ds.Drop, ds.Below))
	if err != nil {
		return "", err
	}
	r.last = out
	if out.Result == primary.DropCloned {
		r.bind(ds.As, out.ItemID)
	}
	if out.Reason != "" {
		return fmt.Sprintf("drop of %s on %s: %s (%s)", id, ds.Drop, out.Result, out.Reason), nil
	}
	return fmt.Sprintf("drop of %s on %s: %s", id, ds.Drop, out.Result), nil
}

// target builds a hover target with a unit-height rect; below puts the
// pointer past the midpoint.
func (r *Runner) target(name string, below bool) placement.Target {
	y := 0.25
	if below {
		y = 0.75
	}
	return placement.Target{ID: r.Resolve(name), PointerY: y, Rect: placement.Rect{Top: 0, Height: 1}}
}

func (r *Runner) update(us *UpdateStep) (string, error) {
	id := r.Resolve(us.Item)
	it, ok := r.svc.Snapshot().Items[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", placement.ErrUnknownItem, us.Item)
	}

	patch, err := r.patchFor(it.Kind(), us)
	if err != nil {
		return "", err
	}
	if err := r.svc.UpdateItem(id, patch); err != nil {
		return "", err
	}
	return fmt.Sprintf("updated %s", id), nil
}

func (r *Runner) patchFor(kind item.Kind, us *UpdateStep) (item.Patch, error) {
	switch kind {
	case item.KindText:
		return item.TextPatch{Heading: us.Heading, Body: us.Body}, nil
	case item.KindRichText:
		return item.RichTextPatch{Markdown: us.Markdown}, nil
	case item.KindMedia:
		p := item.MediaPatch{URL: us.URL, Caption: us.Caption, Alt: us.Alt}
		if us.Asset != "" {
			asset, err := r.readAsset(us.Asset)
			if err != nil {
				return nil, err
			}
			p.Asset = asset
		}
		return p, nil
	case item.KindLinks:
		if us.Links == nil {
			return item.LinksPatch{}, nil
		}
		links := make([]item.Link, 0, len(us.Links))
		for _, l := range us.Links {
			links = append(links, item.Link{Label: l.Label, URL: l.URL})
		}
		return item.LinksPatch{Links: &links}, nil
	case item.KindLibrary:
		return item.LibraryPatch{Name: us.Name}, nil
	}
	return nil, fmt.Errorf("unknown item kind %q", kind)
}

func (r *Runner) readAsset(path string) (*item.Asset, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset: %w", err)
	}
	return &item.Asset{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}, nil
}

func (r *Runner) expect(es *ExpectStep) (string, error) {
	if es.Result != "" && string(r.last.Result) != es.Result {
		return "", fmt.Errorf("%w: last drop was %s, want %s", ErrExpectation, r.last.Result, es.Result)
	}
	if es.Zone == "" {
		return "ok", nil
	}

	order, ok := r.svc.Snapshot().ZoneOrder[es.Zone]
	if !ok {
		return "", fmt.Errorf("%w: %s", placement.ErrUnknownZone, es.Zone)
	}
	if es.Count != nil && len(order) != *es.Count {
		return "", fmt.Errorf("%w: zone %s has %d items, want %d", ErrExpectation, es.Zone, len(order), *es.Count)
	}
	if es.Items != nil {
		want := make([]string, 0, len(es.Items))
		for _, name := range es.Items {
			want = append(want, r.Resolve(name))
		}
		if !slices.Equal(order, want) {
			return "", fmt.Errorf("%w: zone %s holds %v, want %v", ErrExpectation, es.Zone, order, want)
		}
	}
	return "ok", nil
}
