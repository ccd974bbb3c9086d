package planner

import (
	"net/http"
	"strconv"
	"strings"

	plannerCore "recipe-planner/internal/core/planner"
	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/infrastructure/persistence"
	"recipe-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StateRequest 整份取代規劃器狀態的請求
type StateRequest struct {
	Items              []plannerCore.Item `json:"items" binding:"required"`
	CheckedIngredients []string           `json:"checked_ingredients"`
	Servings           int                `json:"servings"`
}

// CheckedRequest 勾選／取消勾選某個食材名稱
type CheckedRequest struct {
	Ingredient string `json:"ingredient" binding:"required"`
	Checked    bool   `json:"checked"`
}

// ShoppingListResponse 購物清單回應：彙總結果加上匯出文字
type ShoppingListResponse struct {
	Servings    int                      `json:"servings"`
	Ingredients []AggregatedIngredient   `json:"ingredients"`
	Export      plannerCore.ShoppingList `json:"export"`
}

// AggregatedIngredient 購物清單的一列，total 已是渲染好的字串
type AggregatedIngredient struct {
	Ingredient string                         `json:"ingredient"`
	Image      string                         `json:"image,omitempty"`
	Total      string                         `json:"total"`
	IsChecked  bool                           `json:"is_checked"`
	Lines      []plannerCore.ContributionLine `json:"lines"`
}

// Handler 規劃器處理程序
type Handler struct {
	store  persistence.Store
	config *config.Config
}

// NewHandler 創建新的規劃器處理程序
func NewHandler(store persistence.Store, cfg *config.Config) *Handler {
	return &Handler{
		store:  store,
		config: cfg,
	}
}

// HandleGetState 載入使用者的規劃器狀態，沒有狀態時回傳空狀態
func (h *Handler) HandleGetState(c *gin.Context) {
	requestID := ensureRequestID(c)
	userID := c.Param("user_id")

	state, err := h.store.Load(c.Request.Context(), userID)
	if err != nil {
		if err == persistence.ErrStateNotFound {
			c.JSON(http.StatusOK, emptyState())
			return
		}
		common.LogError("載入規劃器狀態失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(common.ErrPlannerStoreError.Status, gin.H{
			"error": common.ErrPlannerStoreError.Message,
			"code":  common.ErrPlannerStoreError.Code,
		})
		return
	}

	c.JSON(http.StatusOK, state)
}

// HandlePutState 整份覆寫使用者的規劃器狀態
func (h *Handler) HandlePutState(c *gin.Context) {
	requestID := ensureRequestID(c)
	userID := c.Param("user_id")

	var req StateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	state := &plannerCore.State{
		Items:              req.Items,
		CheckedIngredients: normalizeChecked(req.CheckedIngredients),
		Servings:           clampServings(req.Servings, h.config.Planner.MaxServings),
	}

	if err := h.store.Save(c.Request.Context(), userID, state); err != nil {
		common.LogError("儲存規劃器狀態失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(common.ErrPlannerStoreError.Status, gin.H{
			"error": common.ErrPlannerStoreError.Message,
			"code":  common.ErrPlannerStoreError.Code,
		})
		return
	}

	common.LogInfo("規劃器狀態已更新",
		zap.String("request_id", requestID),
		zap.Int("items", len(state.Items)),
		zap.Int("servings", state.Servings),
	)
	c.JSON(http.StatusOK, state)
}

// HandleToggleChecked 勾選／取消勾選一個食材名稱
// 勾選狀態屬於小寫化的食材名稱，跨食譜共用
func (h *Handler) HandleToggleChecked(c *gin.Context) {
	requestID := ensureRequestID(c)
	userID := c.Param("user_id")

	var req CheckedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	state, err := h.store.Load(c.Request.Context(), userID)
	if err != nil {
		if err == persistence.ErrStateNotFound {
			state = emptyState()
		} else {
			common.LogError("載入規劃器狀態失敗",
				zap.Error(err),
				zap.String("request_id", requestID),
			)
			c.JSON(common.ErrPlannerStoreError.Status, gin.H{
				"error": common.ErrPlannerStoreError.Message,
				"code":  common.ErrPlannerStoreError.Code,
			})
			return
		}
	}

	key := strings.ToLower(strings.TrimSpace(req.Ingredient))
	checked := make([]string, 0, len(state.CheckedIngredients)+1)
	for _, name := range state.CheckedIngredients {
		if name != key {
			checked = append(checked, name)
		}
	}
	if req.Checked {
		checked = append(checked, key)
	}
	state.CheckedIngredients = checked

	if err := h.store.Save(c.Request.Context(), userID, state); err != nil {
		common.LogError("儲存規劃器狀態失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(common.ErrPlannerStoreError.Status, gin.H{
			"error": common.ErrPlannerStoreError.Message,
			"code":  common.ErrPlannerStoreError.Code,
		})
		return
	}

	c.JSON(http.StatusOK, state)
}

// HandleShoppingList 彙總購物清單
// servings 可由查詢參數覆蓋，預設用狀態裡存的份數
func (h *Handler) HandleShoppingList(c *gin.Context) {
	requestID := ensureRequestID(c)
	userID := c.Param("user_id")

	state, err := h.store.Load(c.Request.Context(), userID)
	if err != nil {
		if err == persistence.ErrStateNotFound {
			state = emptyState()
		} else {
			common.LogError("載入規劃器狀態失敗",
				zap.Error(err),
				zap.String("request_id", requestID),
			)
			c.JSON(common.ErrPlannerStoreError.Status, gin.H{
				"error": common.ErrPlannerStoreError.Message,
				"code":  common.ErrPlannerStoreError.Code,
			})
			return
		}
	}

	servings := state.Servings
	if raw := c.Query("servings"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid servings value"})
			return
		}
		servings = parsed
	}
	servings = clampServings(servings, h.config.Planner.MaxServings)

	aggregated := plannerCore.Aggregate(state.Items, servings, plannerCore.CheckedSet(state.CheckedIngredients))

	response := ShoppingListResponse{
		Servings:    servings,
		Ingredients: make([]AggregatedIngredient, len(aggregated)),
		Export:      plannerCore.BuildShoppingList(state.Items, aggregated, servings),
	}
	for i, entry := range aggregated {
		response.Ingredients[i] = AggregatedIngredient{
			Ingredient: entry.Name,
			Image:      entry.Image,
			Total:      plannerCore.FormatTotal(entry),
			IsChecked:  entry.IsChecked,
			Lines:      entry.Lines,
		}
	}

	common.LogInfo("購物清單已彙總",
		zap.String("request_id", requestID),
		zap.Int("items", len(state.Items)),
		zap.Int("ingredients", len(response.Ingredients)),
		zap.Int("servings", servings),
	)
	c.JSON(http.StatusOK, response)
}

// ensureRequestID 補齊缺少的 X-Request-ID
func ensureRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// normalizeChecked 把勾選名稱正規化成小寫去空白的鍵並去重
// 勾選狀態一律以這種鍵儲存，toggle 端點才找得到要移除的項目
func normalizeChecked(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	normalized := make([]string, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		normalized = append(normalized, key)
	}
	return normalized
}

// clampServings 把份數限制在 1 到設定上限之間
func clampServings(servings, maxServings int) int {
	if servings < 1 {
		return 1
	}
	if servings > maxServings {
		return maxServings
	}
	return servings
}

// emptyState 新使用者的初始狀態
func emptyState() *plannerCore.State {
	return &plannerCore.State{
		Items:              []plannerCore.Item{},
		CheckedIngredients: []string{},
		Servings:           1,
	}
}
