package quantity

import (
	"math"
	"strconv"
)

// 候選分母，依序搜尋：誤差打平時保留先出現（較小）的分母，輸出才穩定
var fractionDenominators = []int{2, 3, 4, 6, 8, 10, 12, 16}

// FormatFraction 把小數轉成人類可讀的分數字串，例如 1.5 →「1 1/2」
// 與整數差距在 0.001 內直接取整，吸收重複縮放造成的浮點漂移
func FormatFraction(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ""
	}

	if math.Abs(value-math.Round(value)) < 0.001 {
		return strconv.Itoa(int(math.Round(value)))
	}

	whole := int(math.Floor(value))
	remainder := value - math.Floor(value)

	bestN, bestD := 0, 1
	bestError := math.Inf(1)
	for _, d := range fractionDenominators {
		n := int(math.Round(remainder * float64(d)))
		err := math.Abs(remainder - float64(n)/float64(d))
		if err < bestError-0.0001 {
			bestN, bestD, bestError = n, d, err
		}
	}

	common := gcd(bestN, bestD)
	n := bestN / common
	d := bestD / common

	// 約分後 n==d 表示四捨五入進位成整數
	if n == d {
		return strconv.Itoa(whole + 1)
	}
	if n == 0 {
		return strconv.Itoa(whole)
	}

	if whole > 0 {
		return strconv.Itoa(whole) + " " + strconv.Itoa(n) + "/" + strconv.Itoa(d)
	}
	return strconv.Itoa(n) + "/" + strconv.Itoa(d)
}

func gcd(a, b int) int {
	if b == 0 {
		return a
	}
	return gcd(b, a%b)
}
