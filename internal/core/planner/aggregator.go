package planner

import (
	"sort"
	"strings"

	"recipe-planner/internal/core/quantity"
)

// Aggregate 把所有勾選納入的食譜食材依名稱分組並加總
// 每次呼叫都從頭重建整個結果（同輸入必同輸出），永不失敗：
// 解析不了的數量、單位衝突都降級成逐行文字顯示
func Aggregate(items []Item, servings int, checkedNames map[string]struct{}) []AggregatedIngredient {
	groups := make(map[string]*AggregatedIngredient)
	order := make([]string, 0)

	factor := float64(servings)
	if factor < 1 {
		factor = 1
	}

	for _, item := range items {
		if !item.IncludeIngredients {
			continue
		}

		for _, ing := range item.Ingredients {
			if ing.Name == "" {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(ing.Name))
			_, isChecked := checkedNames[key]

			entry, exists := groups[key]
			if !exists {
				// 第一次看到這個食材，用這一行的名稱與圖片當顯示身分
				entry = &AggregatedIngredient{
					Name:  ing.Name,
					Image: ing.Image,
					Lines: []ContributionLine{},
				}
				groups[key] = entry
				order = append(order, key)
			}
			// 勾選狀態屬於食材名稱本身，後寫覆蓋
			entry.IsChecked = isChecked

			parsed := quantity.ParseQuantity(ing.Quantity)
			currentBaseUnit := quantity.DetectBaseUnit(parsed.UnitText)

			var displayString string
			if parsed.Value > 0 {
				scaledValue := parsed.Value * factor
				niceNumber := quantity.FormatFraction(scaledValue)
				if parsed.UnitText != "" {
					displayString = niceNumber + " " + parsed.UnitText
				} else {
					displayString = niceNumber
				}

				switch {
				case !entry.UnitConflict && !entry.UnitSet && entry.TotalAmount == 0:
					entry.BaseUnit = currentBaseUnit
					entry.UnitSet = true
					entry.DisplayUnit = parsed.UnitText
					entry.TotalAmount = scaledValue
				case !entry.UnitConflict && entry.BaseUnit == currentBaseUnit:
					// 嚴格相等才合併：兩個偵測不到的單位（皆為空）也視為相同
					entry.TotalAmount += scaledValue
				default:
					entry.UnitConflict = true
				}
			} else {
				if parsed.UnitText != "" {
					displayString = parsed.UnitText
				} else {
					displayString = "As needed"
				}
				entry.UnitConflict = true
			}

			entry.Lines = append(entry.Lines, ContributionLine{
				RecipeTitle: item.Title,
				Text:        displayString,
			})
		}
	}

	result := make([]AggregatedIngredient, 0, len(order))
	for _, key := range order {
		result = append(result, *groups[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result
}

// FormatTotal 渲染一列彙總食材的總量
// 加總有效時輸出「3 tsp」這種合併總量，否則回退成去重後的逐行文字
func FormatTotal(entry AggregatedIngredient) string {
	if !entry.UnitConflict && entry.TotalAmount > 0 {
		nice := quantity.FormatFraction(entry.TotalAmount)
		if entry.DisplayUnit != "" {
			return nice + " " + entry.DisplayUnit
		}
		return nice
	}

	seen := make(map[string]struct{})
	unique := make([]string, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		if _, ok := seen[line.Text]; ok {
			continue
		}
		seen[line.Text] = struct{}{}
		unique = append(unique, line.Text)
	}
	if len(unique) == 0 {
		return "As needed"
	}
	return strings.Join(unique, ", ")
}

// CheckedSet 把持久化的勾選名稱清單轉成查詢用集合（鍵一律小寫）
func CheckedSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return set
}
