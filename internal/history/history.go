// Package history summarises and renders stored test results.
package history

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/minutetype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// missedWordsLimit caps the most-missed words listed in a report.
const missedWordsLimit = 10

// Source is the subset of the store a report needs.
type Source interface {
	ListResults(ctx context.Context, f model.HistoryFilter) ([]model.Result, error)
	ListMissedWords(ctx context.Context, resultIDs []string, limit int) ([]model.WordAggregate, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Results     []model.Result
	Summary     Summary
	MissedWords []model.WordAggregate
}

// Summary aggregates a set of results.
type Summary struct {
	Sessions    int
	AvgWPM      float64
	BestWPM     int
	AvgCPM      float64
	AvgAccuracy float64
	Tiers       []TierCount
}

// TierCount is how many results landed in a tier.
type TierCount struct {
	Tier  string
	Icon  string
	Count int
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, src Source, f model.HistoryFilter) (Report, error) {
	results, err := src.ListResults(ctx, f)
	if err != nil {
		return Report{}, err
	}
	if f.Last > 0 && len(results) > f.Last {
		results = results[len(results)-f.Last:]
	}
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	missed, err := src.ListMissedWords(ctx, ids, missedWordsLimit)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Results:     results,
		Summary:     Summarize(results),
		MissedWords: missed,
	}, nil
}

// Summarize computes averages, the best WPM and the tier histogram.
func Summarize(results []model.Result) Summary {
	if len(results) == 0 {
		return Summary{}
	}
	var totalWPM, totalCPM, totalAcc float64
	best := 0
	counts := map[string]*TierCount{}
	for _, r := range results {
		totalWPM += float64(r.WPM)
		totalCPM += float64(r.CPM)
		totalAcc += float64(r.Accuracy)
		if r.WPM > best {
			best = r.WPM
		}
		tc, ok := counts[r.Tier]
		if !ok {
			tc = &TierCount{Tier: r.Tier, Icon: r.TierIcon}
			counts[r.Tier] = tc
		}
		tc.Count++
	}
	tiers := make([]TierCount, 0, len(counts))
	for _, tc := range counts {
		tiers = append(tiers, *tc)
	}
	sort.Slice(tiers, func(i, j int) bool {
		if tiers[i].Count == tiers[j].Count {
			return tiers[i].Tier < tiers[j].Tier
		}
		return tiers[i].Count > tiers[j].Count
	})
	n := float64(len(results))
	return Summary{
		Sessions:    len(results),
		AvgWPM:      totalWPM / n,
		BestWPM:     best,
		AvgCPM:      totalCPM / n,
		AvgAccuracy: totalAcc / n,
		Tiers:       tiers,
	}
}

// WPMSeries extracts WPM values in result order.
func WPMSeries(results []model.Result) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = float64(r.WPM)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline, keeping at most width trailing values.
func Sparkline(values []float64, width int) string {
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the summary block.
func RenderSummary(w io.Writer, s Summary) error {
	if s.Sessions == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Tests: %d", s.Sessions),
		fmt.Sprintf("Avg WPM: %.1f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg CPM: %.1f", s.AvgCPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
	}
	for _, tc := range s.Tiers {
		lines = append(lines, fmt.Sprintf("  %s %s × %d", tc.Icon, tc.Tier, tc.Count))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints the WPM sparkline smoothed over window results.
func RenderTrend(w io.Writer, results []model.Result, window, width int) error {
	if len(results) == 0 {
		return nil
	}
	line := Sparkline(MovingAverage(WPMSeries(results), window), width)
	_, err := fmt.Fprintf(w, "WPM trend (window %d)\n%s\n\n", window, line)
	return err
}

// RenderTable prints one line per result.
func RenderTable(w io.Writer, results []model.Result) error {
	if len(results) == 0 {
		return nil
	}
	headers := []string{"Date", "WPM", "CPM", "Correct", "Mistakes", "Acc", "Tier"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", r.WPM),
			fmt.Sprintf("%d", r.CPM),
			fmt.Sprintf("%d", r.CorrectWords),
			fmt.Sprintf("%d", r.IncorrectWords),
			fmt.Sprintf("%d%%", r.Accuracy),
			strings.TrimSpace(r.TierIcon + " " + r.Tier),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderMissedWords prints the most frequently mistyped words.
func RenderMissedWords(w io.Writer, words []model.WordAggregate) error {
	if len(words) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Most missed words"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(words))
	for _, agg := range words {
		rows = append(rows, []string{agg.Word, fmt.Sprintf("%d", agg.Misses)})
	}
	for _, line := range formatTable([]string{"Word", "Misses"}, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Render prints the full plain-text report.
func Render(w io.Writer, r Report, window, width int) error {
	if err := RenderSummary(w, r.Summary); err != nil {
		return err
	}
	if err := RenderTrend(w, r.Results, window, width); err != nil {
		return err
	}
	if err := RenderTable(w, r.Results); err != nil {
		return err
	}
	return RenderMissedWords(w, r.MissedWords)
}
