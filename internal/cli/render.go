package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/timmy/arbitrage/internal/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"})
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	statusStyle = map[domain.JobStatus]lipgloss.Style{
		domain.JobStatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"}),
		domain.JobStatusProcessing: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"}),
		domain.JobStatusFailed:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}),
	}
)

// maxItemsShown limits item rows in text output.
const maxItemsShown = 20

type renderer struct {
	out   io.Writer
	json  bool
	plain bool
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{out: out, json: isJSON(), plain: noColor}
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

func (r *renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// progressLine formats job progress; an unknown total renders as indeterminate.
func progressLine(job *domain.Job) string {
	pct, ok := job.ProgressPercent()
	if !ok {
		return "Processing items..."
	}
	return fmt.Sprintf("Processing items: %d / %d (%d%%)", job.ProcessedItems, job.TotalItems, pct)
}

func (r *renderer) Progress(job *domain.Job) {
	if r.json {
		return
	}
	fmt.Fprintln(r.out, r.style(labelStyle, progressLine(job)))
}

func (r *renderer) Job(job *domain.Job) error {
	if r.json {
		return r.writeJSON(job)
	}

	fmt.Fprintln(r.out, r.style(titleStyle, job.DisplayName))
	r.field("Upload ID", job.ID)
	r.field("Status", r.style(statusStyle[job.Status], string(job.Status)))
	if job.Status == domain.JobStatusProcessing {
		r.field("Progress", progressLine(job))
	}
	if job.ErrorMessage != "" {
		r.field("Error", job.ErrorMessage)
	}

	if job.Summary != nil && len(job.Summary.Figures) > 0 {
		heading := "Summary"
		if job.Summary.Partial {
			heading = "Summary (partial)"
		}
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.style(headerStyle, heading))
		for _, k := range sortedKeys(job.Summary.Figures) {
			r.field(humanize(k), formatValue(job.Summary.Figures[k]))
		}
	}

	if len(job.Items) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.style(headerStyle, fmt.Sprintf("Items (%d)", len(job.Items))))
		for i, it := range job.Items {
			if i == maxItemsShown {
				fmt.Fprintf(r.out, "  ... %d more\n", len(job.Items)-maxItemsShown)
				break
			}
			fmt.Fprintf(r.out, "  %s\n", itemLine(it))
		}
	}
	return nil
}

func (r *renderer) History(entries []domain.HistoryEntry) error {
	if r.json {
		return r.writeJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "No previous analyses.")
		return nil
	}

	widths := []int{38, 32, 12, 12, 20}
	row := func(cols ...string) string {
		var b strings.Builder
		for i, c := range cols {
			b.WriteString(lipgloss.NewStyle().Width(widths[i]).Render(truncate(c, widths[i]-2)))
		}
		return strings.TrimRight(b.String(), " ")
	}

	fmt.Fprintln(r.out, r.style(headerStyle, row("UPLOAD ID", "NAME", "STATUS", "ITEMS", "CREATED")))
	for _, e := range entries {
		created := e.CreatedAt
		if t, ok := e.CreatedTime(); ok {
			created = t.Local().Format("2006-01-02 15:04")
		}
		items := fmt.Sprintf("%d", e.TotalItems)
		if e.Status == domain.JobStatusProcessing {
			items = fmt.Sprintf("%d/%d", e.ProcessedItems, e.TotalItems)
		}
		line := row(e.ID, e.DisplayName(), string(e.Status), items, created)
		if st, ok := statusStyle[e.Status]; ok && !r.plain && !e.Selectable() {
			line = st.Render(line)
		}
		fmt.Fprintln(r.out, line)
	}
	return nil
}

func (r *renderer) ItemCheck(res *domain.ItemCheckResult) error {
	if r.json {
		return r.writeJSON(res)
	}
	for _, section := range []struct {
		name string
		m    map[string]any
	}{{"Item", res.Item}, {"Analysis", res.Analysis}, {"Summary", res.Summary}} {
		if len(section.m) == 0 {
			continue
		}
		fmt.Fprintln(r.out, r.style(headerStyle, section.name))
		for _, k := range sortedKeys(section.m) {
			r.field(humanize(k), formatValue(section.m[k]))
		}
		fmt.Fprintln(r.out)
	}
	return nil
}

func (r *renderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", r.style(labelStyle, fmt.Sprintf("%-22s", label+":")), value)
}

func itemLine(it domain.Item) string {
	title := formatValue(it["title"])
	if title == "" {
		title = formatValue(it["item_title"])
	}
	var extras []string
	for _, k := range []string{"msrp", "profit", "recommendation"} {
		if v, ok := it[k]; ok {
			extras = append(extras, k+"="+formatValue(v))
		}
	}
	if len(extras) == 0 {
		return title
	}
	return title + "  " + strings.Join(extras, "  ")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func humanize(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "-", "_"), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%.2f", x)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
