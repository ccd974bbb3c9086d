package recipe

import (
	"net/http"

	"recipe-planner/internal/core/planner"
	"recipe-planner/internal/core/quantity"
	"recipe-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScaleRequest 食譜頁份數選擇器的縮放請求
// BaseServings 是食譜原本的份數，Servings 是使用者選的份數
type ScaleRequest struct {
	Ingredients  []planner.IngredientLine `json:"ingredients" binding:"required"`
	BaseServings int                      `json:"base_servings"`
	Servings     int                      `json:"servings" binding:"required"`
}

// ScaledIngredient 縮放後的一行食材
type ScaledIngredient struct {
	Ingredient string `json:"ingredient"`
	Quantity   string `json:"quantity"`
	Image      string `json:"image,omitempty"`
}

// ScaleResponse 縮放結果
type ScaleResponse struct {
	Factor      float64            `json:"factor"`
	Ingredients []ScaledIngredient `json:"ingredients"`
}

// HandleScale 依份數縮放食材數量
// 解析不出數字的數量（「to taste」）原樣保留，縮放永不失敗
func HandleScale(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}

	var req ScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	baseServings := req.BaseServings
	if baseServings < 1 {
		baseServings = 1
	}
	servings := req.Servings
	if servings < 1 {
		servings = 1
	}
	factor := float64(servings) / float64(baseServings)

	response := ScaleResponse{
		Factor:      factor,
		Ingredients: make([]ScaledIngredient, len(req.Ingredients)),
	}
	for i, ing := range req.Ingredients {
		response.Ingredients[i] = ScaledIngredient{
			Ingredient: ing.Name,
			Quantity:   quantity.Scale(ing.Quantity, factor),
			Image:      ing.Image,
		}
	}

	common.LogInfo("食材數量已縮放",
		zap.String("request_id", requestID),
		zap.Int("ingredients", len(response.Ingredients)),
		zap.Float64("factor", factor),
	)
	c.JSON(http.StatusOK, response)
}
