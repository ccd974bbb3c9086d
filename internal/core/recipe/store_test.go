package recipe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ingredients 欄位是正常陣列
func TestRecipeRecordArrayIngredients(t *testing.T) {
	raw := `{
		"id": 7,
		"title": "Garlic Pasta",
		"slug": "garlic-pasta",
		"ingredients": [
			{"ingredient": "Garlic", "quantity": "3 cloves", "image": "garlic"},
			{"ingredient": "Pasta", "quantity": "200 g", "image": "pasta"}
		],
		"difficulty": "Easy",
		"total_time": 20
	}`

	var rec recipeRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	summary := rec.toSummary()
	assert.Equal(t, "7", summary.ID)
	require.Len(t, summary.Ingredients, 2)
	assert.Equal(t, "Garlic", summary.Ingredients[0].Name)
	assert.Equal(t, "3 cloves", summary.Ingredients[0].Quantity)
	require.NotNil(t, summary.TotalTime)
	assert.Equal(t, 20, *summary.TotalTime)
	assert.Nil(t, summary.CookTime)
}

// ingredients 欄位是「內容為 JSON 陣列的字串」，來源資料常見的形狀
func TestRecipeRecordStringEncodedIngredients(t *testing.T) {
	raw := `{
		"id": 42,
		"title": "Roast Chicken",
		"ingredients": "[{\"ingredient\": \"Chicken\", \"quantity\": \"1\", \"image\": \"chicken\"}]"
	}`

	var rec recipeRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	require.Len(t, rec.Ingredients, 1)
	assert.Equal(t, "Chicken", rec.Ingredients[0].Name)
}

// 壞資料不該讓整批解析失敗，只當成沒有食材
func TestRecipeRecordMalformedIngredients(t *testing.T) {
	cases := []string{
		`{"id": 1, "title": "A", "ingredients": "not json"}`,
		`{"id": 2, "title": "B", "ingredients": 42}`,
		`{"id": 3, "title": "C", "ingredients": {"oops": true}}`,
	}

	for _, raw := range cases {
		var rec recipeRecord
		require.NoError(t, json.Unmarshal([]byte(raw), &rec))
		assert.Empty(t, rec.Ingredients)
	}
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "all", snapshotKey(""))
	assert.Equal(t, "cuisine:italian", snapshotKey("italian"))
}
