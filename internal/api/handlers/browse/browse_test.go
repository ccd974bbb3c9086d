package browse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	browseCore "recipe-planner/internal/core/browse"
	"recipe-planner/internal/core/planner"
	"recipe-planner/internal/infrastructure/config"
)

// fakeSource 回傳固定食譜池的假來源
type fakeSource struct {
	recipes []browseCore.RecipeSummary
	err     error
	cuisine string
}

func (f *fakeSource) FetchRecipes(_ context.Context, cuisine string) ([]browseCore.RecipeSummary, error) {
	f.cuisine = cuisine
	if f.err != nil {
		return nil, f.err
	}
	return f.recipes, nil
}

func intPtr(v int) *int { return &v }

func summary(title, difficulty string, totalTime *int, slugs ...string) browseCore.RecipeSummary {
	lines := make([]planner.IngredientLine, 0, len(slugs))
	for _, slug := range slugs {
		lines = append(lines, planner.IngredientLine{Name: slug, Image: slug})
	}
	return browseCore.RecipeSummary{
		ID:          title,
		Title:       title,
		Slug:        title,
		Ingredients: lines,
		Difficulty:  difficulty,
		TotalTime:   totalTime,
	}
}

func testPool() []browseCore.RecipeSummary {
	return []browseCore.RecipeSummary{
		summary("Roast Chicken", "Hard", intPtr(90), "chicken", "garlic"),
		summary("Garlic Pasta", "Easy", intPtr(20), "pasta", "garlic"),
		summary("Chicken Salad", "Easy", intPtr(15), "chicken", "lettuce"),
		summary("Beef Stew", "Medium", intPtr(120), "beef"),
	}
}

func setupTestRouter(source *fakeSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Planner: config.PlannerConfig{
			MaxServings:     99,
			DefaultMaxTime:  60,
			DefaultPageSize: 2,
		},
	}
	handler := NewHandler(source, cfg)

	router := gin.New()
	router.POST("/browse/filter", handler.HandleFilter)
	return router
}

func doFilter(t *testing.T, router *gin.Engine, req FilterRequest) (FilterResponse, int) {
	t.Helper()

	data, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodPost, "/browse/filter", bytes.NewReader(data))
	httpReq.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httpReq)

	var resp FilterResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w.Code
}

func TestHandleFilterDefaults(t *testing.T) {
	source := &fakeSource{recipes: testPool()}
	router := setupTestRouter(source)

	resp, code := doFilter(t, router, FilterRequest{})
	require.Equal(t, http.StatusOK, code)

	// 沒給 max_time 時用整池的上界，所有食譜都進池
	assert.Equal(t, 120, resp.Filter.MaxTime)
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.PageSize)
	assert.Len(t, resp.Recipes, 2)
	assert.True(t, resp.HasMore)
	assert.Equal(t, 15, resp.TimeRange.Min)
	assert.Equal(t, 120, resp.TimeRange.Max)
}

func TestHandleFilterIngredientAND(t *testing.T) {
	source := &fakeSource{recipes: testPool()}
	router := setupTestRouter(source)

	resp, code := doFilter(t, router, FilterRequest{
		Ingredients: []string{"chicken", "garlic"},
	})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Roast Chicken", resp.Recipes[0].Title)
}

// 難度只過濾結果列表，facet 仍然反映整個池
func TestHandleFilterDifficultyFacetIndependent(t *testing.T) {
	source := &fakeSource{recipes: testPool()}
	router := setupTestRouter(source)

	resp, code := doFilter(t, router, FilterRequest{Difficulty: "easy"})
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, 2, resp.Total)
	for _, rec := range resp.Recipes {
		assert.Equal(t, "Easy", rec.Difficulty)
	}
	assert.True(t, resp.AvailableDifficulties.Easy)
	assert.True(t, resp.AvailableDifficulties.Medium)
	assert.True(t, resp.AvailableDifficulties.Hard)

	// 食材選項會套用已選難度
	keys := make([]string, 0, len(resp.IngredientOptions))
	for _, opt := range resp.IngredientOptions {
		keys = append(keys, opt.Key)
	}
	assert.ElementsMatch(t, []string{"pasta", "garlic", "chicken", "lettuce"}, keys)
}

func TestHandleFilterIngredientSearch(t *testing.T) {
	source := &fakeSource{recipes: testPool()}
	router := setupTestRouter(source)

	resp, code := doFilter(t, router, FilterRequest{IngredientSearch: "chick"})
	require.Equal(t, http.StatusOK, code)
	require.Len(t, resp.IngredientOptions, 1)
	assert.Equal(t, "chicken", resp.IngredientOptions[0].Key)
}

// 篩選組合一變就回到第 1 頁；沒變就保留請求的頁碼
func TestHandleFilterPageReset(t *testing.T) {
	source := &fakeSource{recipes: testPool()}
	router := setupTestRouter(source)

	unchanged := &browseCore.FilterState{MaxTime: 120}
	resp, code := doFilter(t, router, FilterRequest{
		Page:     2,
		Previous: unchanged,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, resp.Page)
	assert.False(t, resp.HasMore)

	changed := &browseCore.FilterState{Difficulty: "hard", MaxTime: 120}
	resp, code = doFilter(t, router, FilterRequest{
		Page:     2,
		Previous: changed,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, resp.Page)
}

func TestHandleFilterPagination(t *testing.T) {
	source := &fakeSource{recipes: testPool()}
	router := setupTestRouter(source)

	resp, code := doFilter(t, router, FilterRequest{Page: 2, PageSize: 3})
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Recipes, 1)
	assert.False(t, resp.HasMore)

	// 超出範圍的頁碼回空列表而不是錯誤
	resp, code = doFilter(t, router, FilterRequest{Page: 9, PageSize: 3})
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp.Recipes)
}

func TestHandleFilterCuisinePassThrough(t *testing.T) {
	source := &fakeSource{recipes: testPool()}
	router := setupTestRouter(source)

	_, code := doFilter(t, router, FilterRequest{Cuisine: "italian"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "italian", source.cuisine)
}

func TestHandleFilterSourceUnavailable(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	router := setupTestRouter(source)

	_, code := doFilter(t, router, FilterRequest{})
	assert.Equal(t, http.StatusServiceUnavailable, code)
}
