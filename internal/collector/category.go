package collector

import "strings"

// Category is the coarse topic a repository is filed under.
type Category string

const (
	CategorySIMRS          Category = "SIMRS"
	CategoryObat           Category = "Obat"
	CategoryKardiovaskular Category = "Kardiovaskular"
	CategoryGeneral        Category = "General Healthcare"
)

// keywordGroups are checked in order; the first group with a hit wins.
// " his " keeps its surrounding spaces so it only matches the standalone word.
var keywordGroups = []struct {
	category Category
	keywords []string
}{
	{CategorySIMRS, []string{"simrs", "hospital information system", "rekam medis", " his "}},
	{CategoryObat, []string{"obat", "drug", "pharmaceutical", "farmasi", "medicine"}},
	{CategoryKardiovaskular, []string{"kardi", "cardio", "heart", "ecg", "ekg"}},
}

// Classify maps free text to a Category by case-insensitive substring match.
func Classify(text string) Category {
	t := strings.ToLower(text)
	for _, g := range keywordGroups {
		for _, k := range g.keywords {
			if strings.Contains(t, k) {
				return g.category
			}
		}
	}
	return CategoryGeneral
}
