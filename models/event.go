// models/event.go
package models

const (
	PlaceFirst  = "1st"
	PlaceSecond = "2nd"
	PlaceThird  = "3rd"
)

// Points awarded per place in a published competition.
const (
	PointsFirst  = 10
	PointsSecond = 7
	PointsThird  = 5
)

// PointsForPlace maps a place value to its points. Unknown place values
// score nothing and are skipped by the aggregation engine, never rejected.
func PointsForPlace(place string) (int, bool) {
	switch place {
	case PlaceFirst:
		return PointsFirst, true
	case PlaceSecond:
		return PointsSecond, true
	case PlaceThird:
		return PointsThird, true
	}
	return 0, false
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Result is one placed entry in a competition. Team holds a team *name*,
// not an id: results whose team name no longer matches a registered team
// are silently excluded from scoring.
type Result struct {
	Place string `json:"place"`
	Name  string `json:"name"`
	Class string `json:"class"`
	Team  string `json:"team"`
}

type Competition struct {
	ID          string   `json:"id"`
	CategoryID  string   `json:"categoryId"`
	Name        string   `json:"name"`
	IsPublished bool     `json:"isPublished"`
	Results     []Result `json:"results"`
}

// EventDocument is the root aggregate for one event. The whole document is
// read and replaced on every write; the JSON field names are the stored
// format and must not change.
type EventDocument struct {
	Categories   []Category    `json:"categories"`
	Teams        []Team        `json:"teams"`
	Competitions []Competition `json:"competitions"`
}

// Normalize substitutes empty collections for anything missing so callers
// never see nil slices. A nil document normalizes to the empty document.
// Normalizing twice yields an identical value.
func Normalize(doc *EventDocument) *EventDocument {
	if doc == nil {
		doc = &EventDocument{}
	}
	if doc.Categories == nil {
		doc.Categories = []Category{}
	}
	if doc.Teams == nil {
		doc.Teams = []Team{}
	}
	if doc.Competitions == nil {
		doc.Competitions = []Competition{}
	}
	for i := range doc.Competitions {
		if doc.Competitions[i].Results == nil {
			doc.Competitions[i].Results = []Result{}
		}
	}
	return doc
}

// FindCategory returns the category with the given id, or nil. Dangling
// categoryId references on competitions are tolerated, not repaired.
func (d *EventDocument) FindCategory(id string) *Category {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return &d.Categories[i]
		}
	}
	return nil
}

// FindCompetition returns the competition with the given id, or nil.
func (d *EventDocument) FindCompetition(id string) *Competition {
	for i := range d.Competitions {
		if d.Competitions[i].ID == id {
			return &d.Competitions[i]
		}
	}
	return nil
}

// HasTeam reports whether a team with the given name is registered.
func (d *EventDocument) HasTeam(name string) bool {
	for i := range d.Teams {
		if d.Teams[i].Name == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the document.
func (d *EventDocument) Clone() *EventDocument {
	if d == nil {
		return nil
	}
	out := &EventDocument{
		Categories:   append([]Category{}, d.Categories...),
		Teams:        append([]Team{}, d.Teams...),
		Competitions: make([]Competition, len(d.Competitions)),
	}
	for i, comp := range d.Competitions {
		comp.Results = append([]Result{}, comp.Results...)
		out.Competitions[i] = comp
	}
	return out
}
