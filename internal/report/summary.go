package report

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/klimeurt/healthcare-repo-collector/internal/collector"
)

const (
	// TopLanguages is how many languages the summary lists.
	TopLanguages = 15
	// TopStarred is how many repositories the summary lists by stars.
	TopStarred = 20

	unknownLanguage = "Unknown"
)

// Count is a label with the number of records carrying it.
type Count struct {
	Label string
	Count int
}

// Summary holds the aggregates rendered into the summary report.
type Summary struct {
	Total      int
	Categories []Count
	Languages  []Count
	TopStarred []collector.Record
}

// Summarize computes category and language counts, most frequent first with
// ties kept in first-seen order, plus the most starred records.
func Summarize(records []collector.Record) Summary {
	categories := newCounter()
	languages := newCounter()
	for _, r := range records {
		categories.add(string(r.Category))
		lang := r.Language
		if lang == "" {
			lang = unknownLanguage
		}
		languages.add(lang)
	}

	starred := make([]collector.Record, len(records))
	copy(starred, records)
	sort.SliceStable(starred, func(i, j int) bool {
		return starred[i].Stars > starred[j].Stars
	})
	if len(starred) > TopStarred {
		starred = starred[:TopStarred]
	}

	return Summary{
		Total:      len(records),
		Categories: categories.mostCommon(0),
		Languages:  languages.mostCommon(TopLanguages),
		TopStarred: starred,
	}
}

// WriteSummary renders the markdown summary to path, creating parent
// directories.
func WriteSummary(records []collector.Record, path string, target int) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	s := Summarize(records)
	w := bufio.NewWriter(f)

	fmt.Fprint(w, "# Ringkasan Pengumpulan GitHub Healthcare Repositories\n\n")
	fmt.Fprintf(w, "- Target entri: **%d**\n", target)
	fmt.Fprintf(w, "- Total entri terkumpul: **%d**\n\n", s.Total)

	fmt.Fprint(w, "## Distribusi Kategori\n")
	for _, c := range s.Categories {
		fmt.Fprintf(w, "- %s: %d\n", c.Label, c.Count)
	}

	fmt.Fprint(w, "\n## Top Bahasa Pemrograman\n")
	for _, c := range s.Languages {
		fmt.Fprintf(w, "- %s: %d\n", c.Label, c.Count)
	}

	fmt.Fprint(w, "\n## Top 20 Repository Berdasarkan Stars\n")
	for _, r := range s.TopStarred {
		fmt.Fprintf(w, "- [%s](%s) — ⭐ %d — %s\n", r.FullName, r.URL, r.Stars, r.Category)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// counter tallies labels and remembers the order they first appeared in.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

// mostCommon returns counts sorted descending; n <= 0 returns all of them.
func (c *counter) mostCommon(n int) []Count {
	out := make([]Count, 0, len(c.order))
	for _, label := range c.order {
		out = append(out, Count{Label: label, Count: c.counts[label]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
