package client

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tina-Mai/storm/pkg/bandit"
)

const (
	barWidth   = 30
	trendWidth = 40
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#20B9B4")).
			Padding(0, 1)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	nameStyle  = lipgloss.NewStyle().Width(10)
	cellStyle  = lipgloss.NewStyle().Width(9).Align(lipgloss.Right)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2CD7C7"))
	winStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D26A"))
	loseStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF3838"))
)

// Render formats a snapshot for a terminal: one row per region with its
// attempts, observed rate, posterior mean and 95% credible interval, and a
// bar showing its share of the spent budget. Hidden effectiveness is only
// shown once the run is exhausted.
func Render(snap bandit.Snapshot) string {
	var b strings.Builder

	spent := snap.TotalBudget - snap.RemainingBudget
	b.WriteString(titleStyle.Render(fmt.Sprintf("run %s", shortID(snap.RunID))))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s  %d/%d spent", snap.State, spent, snap.TotalBudget)))
	b.WriteString("\n\n")

	header := []string{"attempts", "success", "rate", "mean", "ci-lo", "ci-hi"}
	if snap.Exhausted() {
		header = append(header, "true")
	}
	b.WriteString(nameStyle.Render(""))
	for _, h := range header {
		b.WriteString(mutedStyle.Inherit(cellStyle).Render(h))
	}
	b.WriteString("\n")

	for _, r := range snap.Regions {
		lo, hi := r.CredibleInterval(0.95)
		cells := []string{
			fmt.Sprintf("%d", r.TotalAttempts),
			fmt.Sprintf("%d", r.SuccessCount),
			fmt.Sprintf("%.3f", observedRate(r)),
			fmt.Sprintf("%.3f", r.PosteriorMean()),
			fmt.Sprintf("%.3f", lo),
			fmt.Sprintf("%.3f", hi),
		}
		if snap.Exhausted() {
			cells = append(cells, fmt.Sprintf("%.3f", r.HiddenEffectiveness))
		}
		b.WriteString(nameStyle.Render(r.Name))
		for _, c := range cells {
			b.WriteString(cellStyle.Render(c))
		}
		b.WriteString("  ")
		b.WriteString(barStyle.Render(bar(r.TotalAttempts, spent)))
		b.WriteString("\n")
	}

	if len(snap.RewardHistory) > 0 {
		avg := bandit.MovingAverage(snap.RewardHistory, bandit.TrendWindow)
		cum := bandit.CumulativeRate(snap.RewardHistory)
		b.WriteString("\n")
		b.WriteString(trendLine(fmt.Sprintf("avg(%d)", bandit.TrendWindow), avg))
		b.WriteString(trendLine("cumulative", cum))
	}

	if snap.Results != nil {
		b.WriteString("\n")
		b.WriteString(RenderResults(*snap.Results))
	}
	return b.String()
}

// RenderResults formats the final comparison.
func RenderResults(res bandit.Results) string {
	verdict := loseStyle.Render("uniform allocation did as well or better")
	switch {
	case res.ThompsonWon() && res.UniformAllocationSuccesses == 0:
		// No baseline to take a percentage of.
		verdict = winStyle.Render(fmt.Sprintf("Thompson Sampling won by %d successes",
			res.ThompsonSamplingSuccesses-res.UniformAllocationSuccesses))
	case res.ThompsonWon():
		verdict = winStyle.Render(fmt.Sprintf("Thompson Sampling won by %.1f%%", res.ImprovementPct))
	}
	return fmt.Sprintf("Thompson Sampling %d vs uniform %d over %d attempts\n%s\nbest region %d got %.1f%% of the budget, expected regret %.1f\n",
		res.ThompsonSamplingSuccesses, res.UniformAllocationSuccesses, res.TotalAttempts,
		verdict, res.BestRegionID, res.BestRegionShare*100, res.ExpectedRegret)
}

func observedRate(r bandit.Region) float64 {
	if r.TotalAttempts == 0 {
		return 0
	}
	return float64(r.SuccessCount) / float64(r.TotalAttempts)
}

func bar(n, total int) string {
	if total <= 0 {
		return ""
	}
	return strings.Repeat("█", n*barWidth/total)
}

func trendLine(label string, series []float64) string {
	last := series[len(series)-1]
	return nameStyle.Render(label) + barStyle.Render(sparkline(series, trendWidth)) +
		mutedStyle.Render(fmt.Sprintf("  %.3f", last)) + "\n"
}

// sparkline draws values in [0,1] as block characters, averaging them into
// at most width buckets.
func sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	n := min(width, len(values))
	out := make([]rune, n)
	for i := range n {
		lo, hi := i*len(values)/n, (i+1)*len(values)/n
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		v := min(max(sum/float64(hi-lo), 0), 1)
		out[i] = sparkLevels[int(v*float64(len(sparkLevels)-1)+0.5)]
	}
	return string(out)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
