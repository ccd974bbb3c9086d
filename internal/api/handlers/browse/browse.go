package browse

import (
	"net/http"
	"strings"

	browseCore "recipe-planner/internal/core/browse"
	"recipe-planner/internal/core/recipe"
	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FilterRequest 列表頁的篩選請求
// Previous 是客戶端上一次送出的篩選組合：組合一變就強制回到第 1 頁
type FilterRequest struct {
	Cuisine          string                  `json:"cuisine"`
	Ingredients      []string                `json:"ingredients"`
	Difficulty       string                  `json:"difficulty"`
	MaxTime          *int                    `json:"max_time"`
	IngredientSearch string                  `json:"ingredient_search"`
	Page             int                     `json:"page"`
	PageSize         int                     `json:"page_size"`
	Previous         *browseCore.FilterState `json:"previous,omitempty"`
}

// TimeRange 時間滑桿的上下界
type TimeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FilterResponse 篩選結果：當頁食譜加上重新計算的 facet 選項
type FilterResponse struct {
	Filter                browseCore.FilterState           `json:"filter"`
	Recipes               []browseCore.RecipeSummary       `json:"recipes"`
	Total                 int                              `json:"total"`
	Page                  int                              `json:"page"`
	PageSize              int                              `json:"page_size"`
	HasMore               bool                             `json:"has_more"`
	AvailableDifficulties browseCore.AvailableDifficulties `json:"available_difficulties"`
	IngredientOptions     []browseCore.IngredientOption    `json:"ingredient_options"`
	TimeRange             TimeRange                        `json:"time_range"`
}

// Handler 列表篩選處理程序
type Handler struct {
	source recipe.Source
	config *config.Config
}

// NewHandler 創建新的列表篩選處理程序
func NewHandler(source recipe.Source, cfg *config.Config) *Handler {
	return &Handler{
		source: source,
		config: cfg,
	}
}

// HandleFilter 計算篩選後的食譜池與 facet 選項
// 每次請求都從當前快照同步重算，facet 選項永遠不會過期
func (h *Handler) HandleFilter(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}

	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	allRecipes, err := h.source.FetchRecipes(c.Request.Context(), req.Cuisine)
	if err != nil {
		common.LogError("載入食譜池失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("cuisine", req.Cuisine),
		)
		c.JSON(common.ErrRecipeStoreError.Status, gin.H{
			"error": common.ErrRecipeStoreError.Message,
			"code":  common.ErrRecipeStoreError.Code,
		})
		return
	}

	timeMin, timeMax := browseCore.TimeRange(allRecipes, h.config.Planner.DefaultMaxTime)

	// 沒給 max_time 時用整池推出的上界（滑桿初始位置）
	maxTime := timeMax
	if req.MaxTime != nil {
		maxTime = *req.MaxTime
	}

	filter := browseCore.FilterState{
		Ingredients: req.Ingredients,
		Difficulty:  req.Difficulty,
		MaxTime:     maxTime,
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	// 篩選組合變了就整個重置：回到第 1 頁重新累積
	if req.Previous != nil && !filter.Equal(*req.Previous) {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = h.config.Planner.DefaultPageSize
	}

	// facet 用的池只含時間與食材條件，難度不在其中（難度 facet 不自我排除）
	pool := browseCore.ComputePool(allRecipes, req.Ingredients, maxTime)
	availableDifficulties := browseCore.ComputeAvailableDifficulties(pool)
	ingredientOptions := browseCore.SearchOptions(
		browseCore.ComputeIngredientOptions(pool, req.Difficulty),
		req.IngredientSearch,
	)

	// 結果列表才套用難度
	results := pool
	if req.Difficulty != "" {
		results = make([]browseCore.RecipeSummary, 0, len(pool))
		for _, rec := range pool {
			if strings.EqualFold(rec.Difficulty, req.Difficulty) {
				results = append(results, rec)
			}
		}
	}

	total := len(results)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	response := FilterResponse{
		Filter:                filter,
		Recipes:               results[start:end],
		Total:                 total,
		Page:                  page,
		PageSize:              pageSize,
		HasMore:               end < total,
		AvailableDifficulties: availableDifficulties,
		IngredientOptions:     ingredientOptions,
		TimeRange:             TimeRange{Min: timeMin, Max: timeMax},
	}

	common.LogInfo("篩選完成",
		zap.String("request_id", requestID),
		zap.Int("pool", len(pool)),
		zap.Int("total", total),
		zap.Int("page", page),
	)
	c.JSON(http.StatusOK, response)
}
