// services/scoring.go
package services

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"fest-score-system/models"
)

// ComputeScores rolls per-result points up into team totals, overall and
// per category. Scores are never stored; this recomputes from scratch on
// every call.
//
// Only published competitions whose category still exists contribute.
// A result scores when its place is a known place value and its team field
// names a registered team; everything else is skipped silently.
func ComputeScores(doc *models.EventDocument) models.ScoreBoard {
	doc = models.Normalize(doc)

	// Every registered team gets a row, zero-scored or not. Insertion
	// order doubles as the tie-break order below.
	order := make([]string, 0, len(doc.Teams))
	overall := map[string]int{}
	for _, team := range doc.Teams {
		if _, seen := overall[team.Name]; seen {
			continue
		}
		overall[team.Name] = 0
		order = append(order, team.Name)
	}

	byCategory := map[string]map[string]int{}
	for _, cat := range doc.Categories {
		scores := map[string]int{}
		for _, team := range order {
			scores[team] = 0
		}
		byCategory[cat.Name] = scores
	}

	for _, comp := range doc.Competitions {
		if !comp.IsPublished {
			continue
		}
		cat := doc.FindCategory(comp.CategoryID)
		if cat == nil {
			continue
		}
		for _, result := range comp.Results {
			points, ok := models.PointsForPlace(result.Place)
			if !ok {
				continue
			}
			if result.Team == "" {
				continue
			}
			if _, known := overall[result.Team]; !known {
				continue
			}
			overall[result.Team] += points
			byCategory[cat.Name][result.Team] += points
		}
	}

	board := models.ScoreBoard{
		Overall:    rankScores(overall, order),
		ByCategory: map[string][]models.TeamScore{},
	}
	for name, scores := range byCategory {
		board.ByCategory[name] = rankScores(scores, order)
	}
	return board
}

// rankScores orders teams by descending score. The sort is stable over
// team registration order: tied teams keep their relative order, there is
// no secondary alphabetical tie-break. Rank is the 1-based position.
func rankScores(scores map[string]int, order []string) []models.TeamScore {
	rows := make([]models.TeamScore, 0, len(order))
	for _, team := range order {
		rows = append(rows, models.TeamScore{Team: team, Score: scores[team]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// FilterZeroScores drops zero-score rows and re-ranks the remainder.
// Category leaderboards omit zero-score teams; the overall board keeps
// them.
func FilterZeroScores(rows []models.TeamScore) []models.TeamScore {
	filtered := []models.TeamScore{}
	for _, row := range rows {
		if row.Score == 0 {
			continue
		}
		row.Rank = len(filtered) + 1
		filtered = append(filtered, row)
	}
	return filtered
}

// PublicScoreboard is the board handed to rendering: full overall table,
// zero-filtered category tables.
func PublicScoreboard(doc *models.EventDocument) models.ScoreBoard {
	board := ComputeScores(doc)
	for name, rows := range board.ByCategory {
		board.ByCategory[name] = FilterZeroScores(rows)
	}
	return board
}

var nameCollator = collate.New(language.English)

// PublishedCompetitions returns the competitions visible outside the admin
// surface, by name order. Pass categoryID to restrict to one category, or
// "" for all.
func PublishedCompetitions(doc *models.EventDocument, categoryID string) []models.Competition {
	doc = models.Normalize(doc)
	comps := []models.Competition{}
	for _, comp := range doc.Competitions {
		if !comp.IsPublished {
			continue
		}
		if categoryID != "" && comp.CategoryID != categoryID {
			continue
		}
		comps = append(comps, comp)
	}
	sort.SliceStable(comps, func(i, j int) bool {
		return nameCollator.CompareString(comps[i].Name, comps[j].Name) < 0
	})
	return comps
}

// VisibleCategories returns categories that have at least one published
// competition, by name order. Categories holding only drafts stay hidden.
func VisibleCategories(doc *models.EventDocument) []models.Category {
	doc = models.Normalize(doc)
	published := map[string]bool{}
	for _, comp := range doc.Competitions {
		if comp.IsPublished {
			published[comp.CategoryID] = true
		}
	}
	cats := []models.Category{}
	for _, cat := range doc.Categories {
		if published[cat.ID] {
			cats = append(cats, cat)
		}
	}
	sort.SliceStable(cats, func(i, j int) bool {
		return nameCollator.CompareString(cats[i].Name, cats[j].Name) < 0
	})
	return cats
}

// SortResultsByPlace orders results by the leading number of the place
// label ("1st" before "2nd" before "3rd"); unparseable places sort last.
func SortResultsByPlace(results []models.Result) []models.Result {
	sorted := append([]models.Result{}, results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return placeOrdinal(sorted[i].Place) < placeOrdinal(sorted[j].Place)
	})
	return sorted
}

func placeOrdinal(place string) int {
	digits := 0
	for digits < len(place) && place[digits] >= '0' && place[digits] <= '9' {
		digits++
	}
	n, err := strconv.Atoi(place[:digits])
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}
