// models/mutations.go
package models

import (
	"errors"
	"strings"
)

// Validation failures are rejected before any document write happens.
var (
	ErrNameRequired        = errors.New("name must not be empty")
	ErrCategoryRequired    = errors.New("category must be selected")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCompetitionNotFound = errors.New("competition not found")
)

// AddCategory appends a category. The id is generated by the caller.
func (d *EventDocument) AddCategory(id, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	d.Categories = append(d.Categories, Category{ID: id, Name: name})
	return &d.Categories[len(d.Categories)-1], nil
}

// RemoveCategory deletes the category and cascades: every competition
// referencing it goes too. Removing an unknown id is a no-op, matching the
// delete-by-filter write semantics.
func (d *EventDocument) RemoveCategory(id string) {
	kept := d.Categories[:0]
	for _, cat := range d.Categories {
		if cat.ID != id {
			kept = append(kept, cat)
		}
	}
	d.Categories = kept

	comps := d.Competitions[:0]
	for _, comp := range d.Competitions {
		if comp.CategoryID != id {
			comps = append(comps, comp)
		}
	}
	d.Competitions = comps
}

// AddTeam appends a team. The id is generated by the caller.
func (d *EventDocument) AddTeam(id, name string) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	d.Teams = append(d.Teams, Team{ID: id, Name: name})
	return &d.Teams[len(d.Teams)-1], nil
}

// AddCompetition appends a draft competition under an existing category.
// New competitions always start unpublished with no results.
func (d *EventDocument) AddCompetition(id, categoryID, name string) (*Competition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if categoryID == "" {
		return nil, ErrCategoryRequired
	}
	if d.FindCategory(categoryID) == nil {
		return nil, ErrCategoryNotFound
	}
	d.Competitions = append(d.Competitions, Competition{
		ID:          id,
		CategoryID:  categoryID,
		Name:        name,
		IsPublished: false,
		Results:     []Result{},
	})
	return &d.Competitions[len(d.Competitions)-1], nil
}

// RenameCompetition sets a new non-empty name.
func (d *EventDocument) RenameCompetition(id, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrNameRequired
	}
	comp := d.FindCompetition(id)
	if comp == nil {
		return ErrCompetitionNotFound
	}
	comp.Name = newName
	return nil
}

// RemoveCompetition deletes by id; unknown ids are a no-op.
func (d *EventDocument) RemoveCompetition(id string) {
	kept := d.Competitions[:0]
	for _, comp := range d.Competitions {
		if comp.ID != id {
			kept = append(kept, comp)
		}
	}
	d.Competitions = kept
}

// ReplaceResults swaps the competition's results wholesale. Entries with a
// blank student name are dropped (clearing a slot is done by leaving the
// name blank), and each place keeps only its latest entry: a place is a
// slot, not a list.
func (d *EventDocument) ReplaceResults(id string, results []Result) error {
	comp := d.FindCompetition(id)
	if comp == nil {
		return ErrCompetitionNotFound
	}
	replaced := []Result{}
	slot := map[string]int{}
	for _, r := range results {
		r.Name = strings.TrimSpace(r.Name)
		r.Class = strings.TrimSpace(r.Class)
		if r.Name == "" {
			continue
		}
		if i, taken := slot[r.Place]; taken {
			replaced[i] = r
			continue
		}
		slot[r.Place] = len(replaced)
		replaced = append(replaced, r)
	}
	comp.Results = replaced
	return nil
}

// TogglePublish flips the publication flag. Results are untouched, so
// re-publishing restores the prior score contribution exactly.
func (d *EventDocument) TogglePublish(id string) (bool, error) {
	comp := d.FindCompetition(id)
	if comp == nil {
		return false, ErrCompetitionNotFound
	}
	comp.IsPublished = !comp.IsPublished
	return comp.IsPublished, nil
}
