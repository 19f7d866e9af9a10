package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klimeurt/healthcare-repo-collector/internal/collector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(fullName string, category collector.Category, language string, stars int) collector.Record {
	return collector.Record{
		FullName: fullName,
		URL:      "https://github.com/" + fullName,
		Category: category,
		Language: language,
		Stars:    stars,
	}
}

func TestSummarizeCategories(t *testing.T) {
	s := Summarize([]collector.Record{
		rec("org/a", collector.CategorySIMRS, "Go", 1),
		rec("org/b", collector.CategoryObat, "Go", 2),
		rec("org/c", collector.CategorySIMRS, "Go", 3),
	})

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, []Count{
		{Label: "SIMRS", Count: 2},
		{Label: "Obat", Count: 1},
	}, s.Categories)
}

func TestSummarizeTiesKeepFirstSeenOrder(t *testing.T) {
	s := Summarize([]collector.Record{
		rec("org/a", collector.CategoryKardiovaskular, "R", 0),
		rec("org/b", collector.CategoryObat, "Python", 0),
		rec("org/c", collector.CategoryObat, "", 0),
		rec("org/d", collector.CategoryKardiovaskular, "", 0),
	})

	assert.Equal(t, []Count{
		{Label: "Kardiovaskular", Count: 2},
		{Label: "Obat", Count: 2},
	}, s.Categories)
	assert.Equal(t, []Count{
		{Label: "Unknown", Count: 2},
		{Label: "R", Count: 1},
		{Label: "Python", Count: 1},
	}, s.Languages)
}

func TestSummarizeLimits(t *testing.T) {
	var records []collector.Record
	for i := 0; i < 30; i++ {
		records = append(records, rec(fmt.Sprintf("org/r%d", i), collector.CategoryGeneral, fmt.Sprintf("lang%d", i), i%25))
	}

	s := Summarize(records)

	assert.Len(t, s.Languages, TopLanguages)
	require.Len(t, s.TopStarred, TopStarred)
	assert.Equal(t, "org/r24", s.TopStarred[0].FullName)
	for i := 1; i < len(s.TopStarred); i++ {
		assert.GreaterOrEqual(t, s.TopStarred[i-1].Stars, s.TopStarred[i].Stars)
	}
}

func TestSummarizeStarsStableSort(t *testing.T) {
	records := []collector.Record{
		rec("org/first", collector.CategoryGeneral, "Go", 5),
		rec("org/top", collector.CategoryGeneral, "Go", 9),
		rec("org/second", collector.CategoryGeneral, "Go", 5),
	}

	s := Summarize(records)

	var names []string
	for _, r := range s.TopStarred {
		names = append(names, r.FullName)
	}
	assert.Equal(t, []string{"org/top", "org/first", "org/second"}, names)
	assert.Equal(t, "org/first", records[0].FullName, "input order must not change")
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "summary.md")
	records := []collector.Record{
		rec("org/a", collector.CategorySIMRS, "PHP", 10),
		rec("org/b", collector.CategoryObat, "", 30),
		rec("org/c", collector.CategorySIMRS, "PHP", 20),
	}

	require.NoError(t, WriteSummary(records, path, 1200))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := strings.Join([]string{
		"# Ringkasan Pengumpulan GitHub Healthcare Repositories",
		"",
		"- Target entri: **1200**",
		"- Total entri terkumpul: **3**",
		"",
		"## Distribusi Kategori",
		"- SIMRS: 2",
		"- Obat: 1",
		"",
		"## Top Bahasa Pemrograman",
		"- PHP: 2",
		"- Unknown: 1",
		"",
		"## Top 20 Repository Berdasarkan Stars",
		"- [org/b](https://github.com/org/b) — ⭐ 30 — Obat",
		"- [org/c](https://github.com/org/c) — ⭐ 20 — SIMRS",
		"- [org/a](https://github.com/org/a) — ⭐ 10 — SIMRS",
		"",
	}, "\n")
	assert.Equal(t, want, string(data))
}

func TestWriteSummaryEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")

	require.NoError(t, WriteSummary(nil, path, 5))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- Total entri terkumpul: **0**")
	assert.NotContains(t, string(data), "General Healthcare")
}
