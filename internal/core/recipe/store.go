package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"recipe-planner/internal/core/browse"
	"recipe-planner/internal/core/planner"
	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Source 食譜池的來源
// 列表頁一個 context（cuisine）抓一次整池，之後的篩選都在記憶體做
type Source interface {
	FetchRecipes(ctx context.Context, cuisine string) ([]browse.RecipeSummary, error)
}

// Store 外部食譜庫（hosted REST 後端）客戶端，唯讀
type Store struct {
	config *config.RecipeStoreConfig
	client *resty.Client
}

// NewStore 創建食譜庫客戶端
func NewStore(cfg *config.RecipeStoreConfig) *Store {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.APIKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Accept", "application/json")

	return &Store{
		config: cfg,
		client: client,
	}
}

// FetchRecipes 抓取食譜摘要清單，cuisine 為空時抓全部
func (s *Store) FetchRecipes(ctx context.Context, cuisine string) ([]browse.RecipeSummary, error) {
	req := s.client.R().
		SetContext(ctx).
		SetQueryParam("select", "id,title,slug,ingredients,difficulty,total_time,cook_time,cuisine,serving_time")
	if cuisine != "" {
		req.SetQueryParam("cuisine", "eq."+cuisine)
	}

	resp, err := req.Get("/recipes")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipes: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		common.LogError("食譜庫回應異常",
			zap.Int("status", resp.StatusCode()),
			zap.String("cuisine", cuisine),
		)
		return nil, fmt.Errorf("recipe store returned status %d", resp.StatusCode())
	}

	var records []recipeRecord
	if err := common.ParseJSONBytes(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("failed to parse recipe store response: %w", err)
	}

	recipes := make([]browse.RecipeSummary, 0, len(records))
	for _, rec := range records {
		recipes = append(recipes, rec.toSummary())
	}

	common.LogInfo("食譜池已載入",
		zap.String("cuisine", cuisine),
		zap.Int("count", len(recipes)),
	)
	return recipes, nil
}

// recipeRecord 食譜庫的原始資料列
// ingredients 欄位在來源資料裡有時是 JSON 字串、有時是陣列，
// 一律在這個邊界整形成 []IngredientLine，核心不再做型別嗅探
type recipeRecord struct {
	ID          json.Number    `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Ingredients rawIngredients `json:"ingredients"`
	Difficulty  string         `json:"difficulty"`
	TotalTime   *int           `json:"total_time"`
	CookTime    *int           `json:"cook_time"`
	Cuisine     string         `json:"cuisine"`
	ServingTime string         `json:"serving_time"`
}

func (r recipeRecord) toSummary() browse.RecipeSummary {
	return browse.RecipeSummary{
		ID:          r.ID.String(),
		Title:       r.Title,
		Slug:        r.Slug,
		Ingredients: r.Ingredients,
		Difficulty:  r.Difficulty,
		TotalTime:   r.TotalTime,
		CookTime:    r.CookTime,
		Cuisine:     r.Cuisine,
		ServingTime: r.ServingTime,
	}
}

// rawIngredients 容忍字串與陣列兩種形狀的 ingredients 欄位
type rawIngredients []planner.IngredientLine

func (r *rawIngredients) UnmarshalJSON(data []byte) error {
	// 先試陣列
	var lines []planner.IngredientLine
	if err := json.Unmarshal(data, &lines); err == nil {
		*r = lines
		return nil
	}

	// 再試「內容是 JSON 陣列的字串」
	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		if err := common.ParseJSON(encoded, &lines); err == nil {
			*r = lines
			return nil
		}
	}

	// 兩種都不是就當沒有食材，壞資料不該拖垮整頁
	*r = rawIngredients{}
	return nil
}
