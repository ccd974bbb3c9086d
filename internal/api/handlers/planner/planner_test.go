package planner

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	plannerCore "recipe-planner/internal/core/planner"
	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/infrastructure/persistence"
)

func testConfig() *config.Config {
	return &config.Config{
		Planner: config.PlannerConfig{
			MaxServings:     99,
			DefaultMaxTime:  60,
			DefaultPageSize: 12,
		},
	}
}

func setupTestRouter(store persistence.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(store, testConfig())

	router := gin.New()
	router.GET("/planner/:user_id", handler.HandleGetState)
	router.PUT("/planner/:user_id", handler.HandlePutState)
	router.POST("/planner/:user_id/checked", handler.HandleToggleChecked)
	router.GET("/planner/:user_id/shopping-list", handler.HandleShoppingList)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetStateNewUser(t *testing.T) {
	router := setupTestRouter(persistence.NewMemoryStore())

	w := doJSON(router, http.MethodGet, "/planner/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var state plannerCore.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Empty(t, state.Items)
	assert.Empty(t, state.CheckedIngredients)
	assert.Equal(t, 1, state.Servings)
}

func TestPutThenGetState(t *testing.T) {
	router := setupTestRouter(persistence.NewMemoryStore())

	put := doJSON(router, http.MethodPut, "/planner/u1", StateRequest{
		Items: []plannerCore.Item{
			{
				ID:    "1",
				Slug:  "garlic-pasta",
				Title: "Garlic Pasta",
				Ingredients: []plannerCore.IngredientLine{
					{Name: "Garlic", Quantity: "3 cloves", Image: "garlic"},
				},
				IncludeIngredients: true,
			},
		},
		CheckedIngredients: []string{"garlic"},
		Servings:           2,
	})
	require.Equal(t, http.StatusOK, put.Code)

	get := doJSON(router, http.MethodGet, "/planner/u1", nil)
	require.Equal(t, http.StatusOK, get.Code)

	var state plannerCore.State
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &state))
	require.Len(t, state.Items, 1)
	assert.Equal(t, "Garlic Pasta", state.Items[0].Title)
	assert.Equal(t, []string{"garlic"}, state.CheckedIngredients)
	assert.Equal(t, 2, state.Servings)
}

// 不同使用者的狀態互不干擾
func TestStateIsolatedPerUser(t *testing.T) {
	router := setupTestRouter(persistence.NewMemoryStore())

	put := doJSON(router, http.MethodPut, "/planner/u1", StateRequest{
		Items:    []plannerCore.Item{{ID: "1", Title: "Stew"}},
		Servings: 3,
	})
	require.Equal(t, http.StatusOK, put.Code)

	get := doJSON(router, http.MethodGet, "/planner/u2", nil)
	var state plannerCore.State
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &state))
	assert.Empty(t, state.Items)
}

func TestPutStateClampsServings(t *testing.T) {
	router := setupTestRouter(persistence.NewMemoryStore())

	put := doJSON(router, http.MethodPut, "/planner/u1", StateRequest{
		Items:    []plannerCore.Item{},
		Servings: 1000,
	})
	require.Equal(t, http.StatusOK, put.Code)

	var state plannerCore.State
	require.NoError(t, json.Unmarshal(put.Body.Bytes(), &state))
	assert.Equal(t, 99, state.Servings)
}

func TestPutStateInvalidBody(t *testing.T) {
	router := setupTestRouter(persistence.NewMemoryStore())

	req := httptest.NewRequest(http.MethodPut, "/planner/u1", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleChecked(t *testing.T) {
	router := setupTestRouter(persistence.NewMemoryStore())

	// 勾選（名稱小寫化後儲存）
	w := doJSON(router, http.MethodPost, "/planner/u1/checked", CheckedRequest{
		Ingredient: "  Salt ",
		Checked:    true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var state plannerCore.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, []string{"salt"}, state.CheckedIngredients)

	// 重複勾選不會產生重複項
	w = doJSON(router, http.MethodPost, "/planner/u1/checked", CheckedRequest{
		Ingredient: "salt",
		Checked:    true,
	})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, []string{"salt"}, state.CheckedIngredients)

	// 取消勾選
	w = doJSON(router, http.MethodPost, "/planner/u1/checked", CheckedRequest{
		Ingredient: "Salt",
		Checked:    false,
	})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Empty(t, state.CheckedIngredients)
}

// PUT 存入的勾選名稱要正規化，toggle 才取消得掉
func TestPutStateNormalizesCheckedIngredients(t *testing.T) {
	router := setupTestRouter(persistence.NewMemoryStore())

	put := doJSON(router, http.MethodPut, "/planner/u1", StateRequest{
		Items:              []plannerCore.Item{},
		CheckedIngredients: []string{" Salt ", "GARLIC", "salt"},
		Servings:           1,
	})
	require.Equal(t, http.StatusOK, put.Code)

	var state plannerCore.State
	require.NoError(t, json.Unmarshal(put.Body.Bytes(), &state))
	assert.Equal(t, []string{"salt", "garlic"}, state.CheckedIngredients)

	w := doJSON(router, http.MethodPost, "/planner/u1/checked", CheckedRequest{
		Ingredient: "Salt",
		Checked:    false,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, []string{"garlic"}, state.CheckedIngredients)
}

func TestShoppingListAggregation(t *testing.T) {
	router := setupTestRouter(persistence.NewMemoryStore())

	put := doJSON(router, http.MethodPut, "/planner/u1", StateRequest{
		Items: []plannerCore.Item{
			{
				ID:    "1",
				Title: "Roast Chicken",
				Ingredients: []plannerCore.IngredientLine{
					{Name: "Salt", Quantity: "1 tsp"},
				},
				IncludeIngredients: true,
			},
			{
				ID:    "2",
				Title: "Garlic Pasta",
				Ingredients: []plannerCore.IngredientLine{
					{Name: "Salt", Quantity: "2 tsp"},
				},
				IncludeIngredients: true,
			},
		},
		Servings: 1,
	})
	require.Equal(t, http.StatusOK, put.Code)

	w := doJSON(router, http.MethodGet, "/planner/u1/shopping-list", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ShoppingListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Ingredients, 1)
	assert.Equal(t, "Salt", resp.Ingredients[0].Ingredient)
	assert.Equal(t, "3 tsp", resp.Ingredients[0].Total)
	assert.Len(t, resp.Ingredients[0].Lines, 2)
	assert.Contains(t, resp.Export.Text, "[ ] Salt: 3 tsp")

	// 查詢參數覆蓋份數
	w = doJSON(router, http.MethodGet, "/planner/u1/shopping-list?servings=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Servings)
	assert.Equal(t, "9 tsp", resp.Ingredients[0].Total)

	w = doJSON(router, http.MethodGet, "/planner/u1/shopping-list?servings=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
