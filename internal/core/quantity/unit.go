package quantity

import "strings"

// standardUnits 封閉的單位同義詞表，只認這些字（getBaseUnit 的比對基準）
var standardUnits = map[string]struct{}{
	"cup": {}, "cups": {}, "c": {},
	"teaspoon": {}, "teaspoons": {}, "tsp": {}, "tsps": {}, "t": {},
	"tablespoon": {}, "tablespoons": {}, "tbsp": {}, "tbsps": {},
	"ounce": {}, "ounces": {}, "oz": {},
	"pound": {}, "pounds": {}, "lb": {}, "lbs": {},
	"gram": {}, "grams": {}, "g": {},
	"kilogram": {}, "kilograms": {}, "kg": {},
	"milliliter": {}, "milliliters": {}, "ml": {},
	"liter": {}, "liters": {}, "l": {},
	"pint": {}, "pints": {}, "pt": {},
	"quart": {}, "quarts": {}, "qt": {},
	"gallon": {}, "gallons": {}, "gal": {},
	"clove": {}, "cloves": {},
	"pinch": {}, "pinches": {},
	"dash": {}, "dashes": {},
	"slice": {}, "slices": {},
	"can": {}, "cans": {},
	"package": {}, "packages": {}, "pkt": {},
	"piece": {}, "pieces": {},
}

var punctuationReplacer = strings.NewReplacer("(", "", ")", "", ",", "")

// DetectBaseUnit 從自由文字的單位部分取出標準單位 token
// 回傳空字串表示「沒有可辨識的單位」；加總時以嚴格相等比較，
// 兩個空字串視為相同單位（沿用來源行為）
func DetectBaseUnit(unitText string) string {
	if unitText == "" {
		return ""
	}
	cleaned := strings.ToLower(strings.TrimSpace(punctuationReplacer.Replace(unitText)))
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return ""
	}
	firstWord := words[0]

	// 「fluid oz」「fluid ounces」是唯一的複合單位
	if firstWord == "fluid" && len(words) > 1 &&
		(strings.HasPrefix(words[1], "oz") || strings.HasPrefix(words[1], "ounce")) {
		return "fl oz"
	}

	if _, ok := standardUnits[firstWord]; ok {
		return firstWord
	}
	return ""
}
