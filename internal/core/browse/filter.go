package browse

import (
	"sort"
	"strings"

	"recipe-planner/internal/core/planner"
)

// RecipeSummary 列表頁使用的食譜摘要，由外部食譜庫提供、唯讀
// TotalTime / CookTime 為 nil 表示來源沒有可解析的時間
type RecipeSummary struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Slug        string                   `json:"slug"`
	Ingredients []planner.IngredientLine `json:"ingredients"`
	Difficulty  string                   `json:"difficulty"`
	TotalTime   *int                     `json:"total_time,omitempty"`
	CookTime    *int                     `json:"cook_time,omitempty"`
	Cuisine     string                   `json:"cuisine,omitempty"`
	ServingTime string                   `json:"serving_time,omitempty"`
}

// FilterState 對外可見的篩選組合；任一欄位改變時下游必須整個重置分頁
type FilterState struct {
	Ingredients []string `json:"ingredients"`
	Difficulty  string   `json:"difficulty"`
	MaxTime     int      `json:"max_time"`
}

// Equal 判斷兩組篩選是否等價（食材順序視為有意義，沿用來源的陣列比較）
func (f FilterState) Equal(other FilterState) bool {
	if f.Difficulty != other.Difficulty || f.MaxTime != other.MaxTime {
		return false
	}
	if len(f.Ingredients) != len(other.Ingredients) {
		return false
	}
	for i := range f.Ingredients {
		if f.Ingredients[i] != other.Ingredients[i] {
			return false
		}
	}
	return true
}

// AvailableDifficulties 三個難度 facet 是否還有至少一道食譜可選
type AvailableDifficulties struct {
	Easy   bool `json:"easy"`
	Medium bool `json:"medium"`
	Hard   bool `json:"hard"`
}

// IngredientOption 食材 facet 的一個選項（鍵為圖片 slug）
type IngredientOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// recipeTime 取得食譜時間：total_time 優先，其次 cook_time
func recipeTime(rec RecipeSummary) *int {
	if rec.TotalTime != nil {
		return rec.TotalTime
	}
	return rec.CookTime
}

// imageSlugs 收集食譜所有食材的圖片 slug（略過沒有圖片的行）
func imageSlugs(rec RecipeSummary) map[string]struct{} {
	slugs := make(map[string]struct{}, len(rec.Ingredients))
	for _, ing := range rec.Ingredients {
		if ing.Image != "" {
			slugs[ing.Image] = struct{}{}
		}
	}
	return slugs
}

// ComputePool 計算符合時間與食材條件的食譜池
// 食材是 AND 語意：每個被選的 slug 都要出現；沒有時間的食譜不受時間條件排除
func ComputePool(allRecipes []RecipeSummary, selectedIngredients []string, maxTime int) []RecipeSummary {
	if len(allRecipes) == 0 {
		return []RecipeSummary{}
	}

	pool := make([]RecipeSummary, 0, len(allRecipes))
	for _, rec := range allRecipes {
		if t := recipeTime(rec); t != nil && *t > maxTime {
			continue
		}

		if len(selectedIngredients) > 0 {
			slugs := imageSlugs(rec)
			hasAll := true
			for _, selected := range selectedIngredients {
				if _, ok := slugs[selected]; !ok {
					hasAll = false
					break
				}
			}
			if !hasAll {
				continue
			}
		}

		pool = append(pool, rec)
	}
	return pool
}

// ComputeAvailableDifficulties 掃描食譜池標記可選難度
// 刻意在套用難度篩選「之前」計算，使用者才不會被自己選的難度鎖死
func ComputeAvailableDifficulties(pool []RecipeSummary) AvailableDifficulties {
	var avail AvailableDifficulties
	for _, rec := range pool {
		switch strings.ToLower(rec.Difficulty) {
		case "easy":
			avail.Easy = true
		case "medium":
			avail.Medium = true
		case "hard":
			avail.Hard = true
		}
	}
	return avail
}

// ComputeIngredientOptions 計算食材 facet 還可選的項目
// 與難度 facet 不對稱：這裡「會」套用已選難度，再以圖片 slug 去重
func ComputeIngredientOptions(pool []RecipeSummary, selectedDifficulty string) []IngredientOption {
	options := make(map[string]IngredientOption)

	for _, rec := range pool {
		if selectedDifficulty != "" && !strings.EqualFold(rec.Difficulty, selectedDifficulty) {
			continue
		}
		for _, ing := range rec.Ingredients {
			if ing.Image == "" {
				continue
			}
			if _, ok := options[ing.Image]; !ok {
				options[ing.Image] = IngredientOption{
					Key:   ing.Image,
					Label: strings.ReplaceAll(ing.Image, "-", " "),
				}
			}
		}
	}

	result := make([]IngredientOption, 0, len(options))
	for _, opt := range options {
		result = append(result, opt)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Label < result[j].Label
	})
	return result
}

// SearchOptions 以關鍵字過濾食材選項（facet 上方的搜尋框）
func SearchOptions(options []IngredientOption, query string) []IngredientOption {
	if query == "" {
		return options
	}
	lowered := strings.ToLower(query)
	filtered := make([]IngredientOption, 0, len(options))
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt.Label), lowered) {
			filtered = append(filtered, opt)
		}
	}
	return filtered
}

// TimeRange 從整個食譜池推出時間滑桿的上下界
// 全部沒有時間時下界為 0、上界用 fallbackMax
func TimeRange(allRecipes []RecipeSummary, fallbackMax int) (min, max int) {
	min = -1
	for _, rec := range allRecipes {
		t := recipeTime(rec)
		if t == nil {
			continue
		}
		if min == -1 || *t < min {
			min = *t
		}
		if *t > max {
			max = *t
		}
	}
	if min == -1 {
		min = 0
	}
	if max == 0 {
		max = fallbackMax
	}
	return min, max
}
