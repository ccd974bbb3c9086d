package quantity

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedQuantity 解析後的數量
// Value 為 0 表示無法解析出數字（不是合法的零數量），原始文字保留在 UnitText
type ParsedQuantity struct {
	Value    float64 `json:"value"`
	UnitText string  `json:"unit_text"`
}

// 數量字串開頭的數字 token：帶分數「1 1/2」、分數「3/4」、整數或小數「2」「0.5」
var leadingNumberPattern = regexp.MustCompile(`^(\d+\s+\d+/\d+|(?:\d+/\d+)|\d+(?:\.\d+)?)\s*(.*)$`)

// ParseQuantity 解析食材數量字串，例如「1 1/2 cups」→ {1.5, "cups"}
// 永遠不會失敗：解析不出數字時回傳 {0, 原始文字}，讓呼叫端仍可顯示原文
func ParseQuantity(text string) ParsedQuantity {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ParsedQuantity{Value: 0, UnitText: ""}
	}

	match := leadingNumberPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return ParsedQuantity{Value: 0, UnitText: trimmed}
	}

	numberString := match[1]
	unitText := strings.TrimSpace(match[2])

	var value float64
	switch {
	case strings.Contains(numberString, " ") && strings.Contains(numberString, "/"):
		// 帶分數「W N/D」
		parts := strings.Fields(numberString)
		whole, _ := strconv.ParseFloat(parts[0], 64)
		n, d := splitFraction(parts[1])
		if d != 0 {
			value = whole + n/d
		} else {
			value = 0
		}
	case strings.Contains(numberString, "/"):
		// 分數「N/D」，分母為 0 視為無法解析
		n, d := splitFraction(numberString)
		if d != 0 {
			value = n / d
		} else {
			value = 0
		}
	default:
		value, _ = strconv.ParseFloat(numberString, 64)
	}

	return ParsedQuantity{Value: value, UnitText: unitText}
}

// splitFraction 拆解「N/D」
func splitFraction(s string) (n, d float64) {
	parts := strings.SplitN(s, "/", 2)
	n, _ = strconv.ParseFloat(parts[0], 64)
	if len(parts) == 2 {
		d, _ = strconv.ParseFloat(parts[1], 64)
	}
	return n, d
}
