package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fest-score-system/models"
	"fest-score-system/services"
	"fest-score-system/store"
)

const testAdminToken = "test-admin-secret"

func newTestApp(t *testing.T) (*fiber.App, *store.MemoryStore) {
	t.Helper()
	t.Setenv("ADMIN_TOKEN", testAdminToken)

	s := store.NewMemoryStore()
	app := fiber.New()
	SetupPublicRoutes(app, services.NewPublicService(s))
	SetupAdminRoutes(app, services.NewEventService(s))
	return app, s
}

func adminReq(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	return req
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
}

func TestAdminRoutesRejectMissingToken(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/e/fest-2026/admin/document", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req.Header.Set("Authorization", "Bearer wrong-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetDocumentForFreshEvent(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(adminReq(http.MethodGet, "/e/fest-2026/admin/document", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var doc models.EventDocument
	decode(t, resp, &doc)
	assert.Empty(t, doc.Categories)
	assert.Empty(t, doc.Teams)
	assert.Empty(t, doc.Competitions)
}

func TestCreateCategoryPersists(t *testing.T) {
	app, s := newTestApp(t)

	resp, err := app.Test(adminReq(http.MethodPost, "/e/fest-2026/admin/categories", fiber.Map{"name": "Music"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var cat models.Category
	decode(t, resp, &cat)
	assert.Equal(t, "Music", cat.Name)
	assert.NotEmpty(t, cat.ID)

	doc, err := s.Get(context.Background(), "fest-2026")
	require.NoError(t, err)
	require.Len(t, doc.Categories, 1)
	assert.Equal(t, cat.ID, doc.Categories[0].ID)
}

func TestCreateCategoryRejectsBlankName(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(adminReq(http.MethodPost, "/e/fest-2026/admin/categories", fiber.Map{"name": "  "}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateCompetitionUnknownCategory(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(adminReq(http.MethodPost, "/e/fest-2026/admin/competitions",
		fiber.Map{"categoryId": "missing", "name": "Solo Song"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTogglePublishUnknownCompetition(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(adminReq(http.MethodPost, "/e/fest-2026/admin/competitions/missing/publish", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// Full admin flow: register everything, record results, publish, then read
// the public surface.
func TestAdminFlowThroughToPublicScoreboard(t *testing.T) {
	app, _ := newTestApp(t)

	var cat models.Category
	resp, err := app.Test(adminReq(http.MethodPost, "/e/fest-2026/admin/categories", fiber.Map{"name": "Music"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &cat)

	for _, name := range []string{"Red House", "Blue House"} {
		resp, err = app.Test(adminReq(http.MethodPost, "/e/fest-2026/admin/teams", fiber.Map{"name": name}))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var comp models.Competition
	resp, err = app.Test(adminReq(http.MethodPost, "/e/fest-2026/admin/competitions",
		fiber.Map{"categoryId": cat.ID, "name": "Solo Song"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &comp)
	assert.False(t, comp.IsPublished)

	resp, err = app.Test(adminReq(http.MethodPut, "/e/fest-2026/admin/competitions/"+comp.ID+"/results",
		fiber.Map{"results": []fiber.Map{
			{"place": "1st", "name": "Amina", "class": "P5", "team": "Red House"},
			{"place": "2nd", "name": "Betty", "class": "P6", "team": "Blue House"},
		}}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Still a draft: public surface sees nothing
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/e/fest-2026/competitions/"+comp.ID+"/results", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/e/fest-2026/categories", nil))
	require.NoError(t, err)
	var cats []models.Category
	decode(t, resp, &cats)
	assert.Empty(t, cats)

	resp, err = app.Test(adminReq(http.MethodPost, "/e/fest-2026/admin/competitions/"+comp.ID+"/publish", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var toggled struct {
		ID          string `json:"id"`
		IsPublished bool   `json:"isPublished"`
	}
	decode(t, resp, &toggled)
	assert.True(t, toggled.IsPublished)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/e/fest-2026/scores", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var board models.ScoreBoard
	decode(t, resp, &board)
	require.Len(t, board.Overall, 2)
	assert.Equal(t, "Red House", board.Overall[0].Team)
	assert.Equal(t, 10, board.Overall[0].Score)
	assert.Equal(t, 1, board.Overall[0].Rank)
	assert.Equal(t, "Blue House", board.Overall[1].Team)
	assert.Equal(t, 7, board.Overall[1].Score)

	require.Contains(t, board.ByCategory, "Music")
	assert.Len(t, board.ByCategory["Music"], 2)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/e/fest-2026/competitions/"+comp.ID+"/results", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail struct {
		Name     string          `json:"name"`
		Category string          `json:"category"`
		Results  []models.Result `json:"results"`
	}
	decode(t, resp, &detail)
	assert.Equal(t, "Solo Song", detail.Name)
	assert.Equal(t, "Music", detail.Category)
	require.Len(t, detail.Results, 2)
	assert.Equal(t, "1st", detail.Results[0].Place)
}

func TestListCompetitionsFiltersByCategory(t *testing.T) {
	app, s := newTestApp(t)

	require.NoError(t, s.Set(context.Background(), "fest-2026", &models.EventDocument{
		Categories: []models.Category{
			{ID: "music", Name: "Music"},
			{ID: "drama", Name: "Drama"},
		},
		Competitions: []models.Competition{
			{ID: "c1", CategoryID: "music", Name: "Solo Song", IsPublished: true},
			{ID: "c2", CategoryID: "drama", Name: "Skit", IsPublished: true},
			{ID: "c3", CategoryID: "music", Name: "Duet", IsPublished: false},
		},
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/e/fest-2026/competitions?category_id=music", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var comps []models.Competition
	decode(t, resp, &comps)
	require.Len(t, comps, 1)
	assert.Equal(t, "Solo Song", comps[0].Name)
}

func TestRenameAndDeleteCompetition(t *testing.T) {
	app, s := newTestApp(t)

	require.NoError(t, s.Set(context.Background(), "fest-2026", &models.EventDocument{
		Categories:   []models.Category{{ID: "music", Name: "Music"}},
		Competitions: []models.Competition{{ID: "c1", CategoryID: "music", Name: "Solo Song"}},
	}))

	resp, err := app.Test(adminReq(http.MethodPut, "/e/fest-2026/admin/competitions/c1", fiber.Map{"name": "Group Song"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var comp models.Competition
	decode(t, resp, &comp)
	assert.Equal(t, "Group Song", comp.Name)

	resp, err = app.Test(adminReq(http.MethodDelete, "/e/fest-2026/admin/competitions/c1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := s.Get(context.Background(), "fest-2026")
	require.NoError(t, err)
	assert.Empty(t, doc.Competitions)
}

func TestDeleteCategoryCascadesOverHTTP(t *testing.T) {
	app, s := newTestApp(t)

	require.NoError(t, s.Set(context.Background(), "fest-2026", &models.EventDocument{
		Categories: []models.Category{{ID: "music", Name: "Music"}},
		Competitions: []models.Competition{
			{ID: "c1", CategoryID: "music", Name: "Solo Song", IsPublished: true},
		},
	}))

	resp, err := app.Test(adminReq(http.MethodDelete, "/e/fest-2026/admin/categories/music", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := s.Get(context.Background(), "fest-2026")
	require.NoError(t, err)
	assert.Empty(t, doc.Categories)
	assert.Empty(t, doc.Competitions)
}

func TestEventKeysAreSlugged(t *testing.T) {
	app, s := newTestApp(t)

	resp, err := app.Test(adminReq(http.MethodPost, "/e/Fest-2026/admin/teams", fiber.Map{"name": "Red House"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	doc, err := s.Get(context.Background(), "fest-2026")
	require.NoError(t, err)
	require.Len(t, doc.Teams, 1)
}
