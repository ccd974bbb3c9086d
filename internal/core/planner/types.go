package planner

// IngredientLine 食譜上的一行食材
// Name 一定存在；Quantity 與 Image 可為空（空 Quantity 顯示為 As needed）
type IngredientLine struct {
	Name     string `json:"ingredient"`
	Quantity string `json:"quantity,omitempty"`
	Image    string `json:"image,omitempty"`
}

// Item 加入餐期規劃的食譜
type Item struct {
	ID                 string           `json:"id"`
	Slug               string           `json:"slug"`
	Title              string           `json:"title"`
	Ingredients        []IngredientLine `json:"ingredients"`
	IncludeIngredients bool             `json:"include_ingredients"`
}

// State 使用者的規劃器狀態，由外部儲存層（redis）整份載入與存回
type State struct {
	Items              []Item   `json:"items"`
	CheckedIngredients []string `json:"checked_ingredients"`
	Servings           int      `json:"servings"`
}

// ContributionLine 單一食譜對某食材的貢獻，永遠保留作為加總失敗時的顯示後援
type ContributionLine struct {
	RecipeTitle string `json:"recipe_title"`
	Text        string `json:"text"`
}

// AggregatedIngredient 彙總後的食材（購物清單的一列）
// BaseUnit 為空字串有兩種情況：尚未建立、或建立時就偵測不到標準單位，
// 以 UnitSet / UnitConflict 區分三態
type AggregatedIngredient struct {
	Name         string             `json:"ingredient"`
	Image        string             `json:"image,omitempty"`
	TotalAmount  float64            `json:"total_amount"`
	BaseUnit     string             `json:"base_unit,omitempty"`
	UnitSet      bool               `json:"-"`
	UnitConflict bool               `json:"unit_conflict"`
	DisplayUnit  string             `json:"display_unit,omitempty"`
	IsChecked    bool               `json:"is_checked"`
	Lines        []ContributionLine `json:"lines"`
}
