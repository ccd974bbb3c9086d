package planner

import (
	"fmt"
	"strings"
)

// ShoppingList 匯出用的購物清單文字（複製／分享／列印共用）
type ShoppingList struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// BuildShoppingList 把彙總結果排版成純文字購物清單
// 分成「要買」「已有」「納入的食譜」三段，勾選狀態用 [ ] / [x] 標記
func BuildShoppingList(items []Item, aggregated []AggregatedIngredient, servings int) ShoppingList {
	if servings < 1 {
		servings = 1
	}

	var have, need []AggregatedIngredient
	for _, entry := range aggregated {
		if entry.IsChecked {
			have = append(have, entry)
		} else {
			need = append(need, entry)
		}
	}

	plural := "s"
	if servings == 1 {
		plural = ""
	}
	title := fmt.Sprintf("Meal Planner Shopping List (%d serving%s)", servings, plural)

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\n[ITEMS TO BUY]\n")
	if len(need) > 0 {
		for i, entry := range need {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("[ ] %s: %s", entry.Name, FormatTotal(entry)))
		}
	} else {
		sb.WriteString("• None - you have everything!")
	}

	sb.WriteString("\n\n[ALREADY HAVE]\n")
	if len(have) > 0 {
		for i, entry := range have {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("[x] %s: %s", entry.Name, FormatTotal(entry)))
		}
	} else {
		sb.WriteString("• None yet")
	}

	sb.WriteString("\n\n[RECIPES INCLUDED]\n")
	for _, item := range items {
		mark := "[ ]"
		if item.IncludeIngredients {
			mark = "[x]"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, item.Title))
	}

	return ShoppingList{Title: title, Text: sb.String()}
}
