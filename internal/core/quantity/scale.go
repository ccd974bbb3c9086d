package quantity

// Scale 依份數倍率縮放數量字串，例如 Scale("1 1/2 cups", 2) →「3 cups」
// 解析不出數字的字串（如「to taste」）原樣回傳
func Scale(quantityText string, factor float64) string {
	if quantityText == "" || factor == 1 {
		return quantityText
	}

	parsed := ParseQuantity(quantityText)
	if parsed.Value <= 0 {
		return quantityText
	}

	scaled := FormatFraction(parsed.Value * factor)
	if parsed.UnitText == "" {
		return scaled
	}
	return scaled + " " + parsed.UnitText
}
