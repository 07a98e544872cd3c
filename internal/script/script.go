// Package script runs YAML-described editing sessions against a PlacementService.
// A script is a list of steps, each naming exactly one intent: add, update,
// drag, save, remove, reorder and so on, plus expect steps that assert on the
// resulting placement.
package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a parsed session file.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step holds exactly one action.
type Step struct {
	Add           *AddStep     `yaml:"add,omitempty"`
	Update        *UpdateStep  `yaml:"update,omitempty"`
	Drag          *DragStep    `yaml:"drag,omitempty"`
	Save          *SaveStep    `yaml:"save,omitempty"`
	CancelSave    bool         `yaml:"cancel_save,omitempty"`
	Remove        *RemoveStep  `yaml:"remove,omitempty"`
	ConfirmDelete bool         `yaml:"confirm_delete,omitempty"`
	CancelDelete  bool         `yaml:"cancel_delete,omitempty"`
	Reorder       *ReorderStep `yaml:"reorder,omitempty"`
	Expect        *ExpectStep  `yaml:"expect,omitempty"`
}

// AddStep adds an empty item; As binds an alias to its id.
type AddStep struct {
	Zone string `yaml:"zone"`
	Kind string `yaml:"kind"`
	As   string `yaml:"as,omitempty"`
}

// UpdateStep patches an item. Only the fields matching the item's kind may be set.
// Asset is a file path, relative to the script, uploaded when the item is saved.
type UpdateStep struct {
	Item     string     `yaml:"item"`
	Heading  *string    `yaml:"heading,omitempty"`
	Body     *string    `yaml:"body,omitempty"`
	Markdown *string    `yaml:"markdown,omitempty"`
	URL      *string    `yaml:"url,omitempty"`
	Caption  *string    `yaml:"caption,omitempty"`
	Alt      *string    `yaml:"alt,omitempty"`
	Asset    string     `yaml:"asset,omitempty"`
	Links    []LinkSpec `yaml:"links,omitempty"`
	Name     *string    `yaml:"name,omitempty"`
}

// LinkSpec is one entry of a links payload.
type LinkSpec struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// DragStep is one gesture: start on Item, hover each Over target, then drop
// on Drop (or cancel). Below drops past the hovered item's midpoint.
// As binds an alias to the cloned item when the drop clones out of the library.
type DragStep struct {
	Item   string   `yaml:"item"`
	Over   []string `yaml:"over,omitempty"`
	Drop   string   `yaml:"drop,omitempty"`
	Below  bool     `yaml:"below,omitempty"`
	Cancel bool     `yaml:"cancel,omitempty"`
	As     string   `yaml:"as,omitempty"`
}

// SaveStep confirms the pending save under Name.
type SaveStep struct {
	Name string `yaml:"name"`
	As   string `yaml:"as,omitempty"`
}

// RemoveStep removes an item (or raises a pending delete for a library item).
type RemoveStep struct {
	Item string `yaml:"item"`
}

// ReorderStep moves an item within a zone.
type ReorderStep struct {
	Zone string `yaml:"zone"`
	From int    `yaml:"from"`
	To   int    `yaml:"to"`
}

// ExpectStep asserts on the placement or on the last drop.
type ExpectStep struct {
	Zone   string   `yaml:"zone,omitempty"`
	Count  *int     `yaml:"count,omitempty"`
	Items  []string `yaml:"items,omitempty"`
	Result string   `yaml:"result,omitempty"`
}

// Action names the step's single action.
func (s Step) Action() (string, error) {
	var actions []string
	if s.Add != nil {
		actions = append(actions, "add")
	}
	if s.Update != nil {
		actions = append(actions, "update")
	}
	if s.Drag != nil {
		actions = append(actions, "drag")
	}
	if s.Save != nil {
		actions = append(actions, "save")
	}
	if s.CancelSave {
		actions = append(actions, "cancel_save")
	}
	if s.Remove != nil {
		actions = append(actions, "remove")
	}
	if s.ConfirmDelete {
		actions = append(actions, "confirm_delete")
	}
	if s.CancelDelete {
		actions = append(actions, "cancel_delete")
	}
	if s.Reorder != nil {
		actions = append(actions, "reorder")
	}
	if s.Expect != nil {
		actions = append(actions, "expect")
	}

	switch len(actions) {
	case 0:
		return "", fmt.Errorf("step has no action")
	case 1:
		return actions[0], nil
	}
	return "", fmt.Errorf("step has more than one action: %v", actions)
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, step := range s.Steps {
		if _, err := step.Action(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Drag != nil && step.Drag.Drop == "" && !step.Drag.Cancel {
			return nil, fmt.Errorf("step %d: drag needs drop or cancel", i+1)
		}
	}
	return &s, nil
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}
