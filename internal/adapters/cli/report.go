package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"localesync/internal/domain/catalog"
	"localesync/internal/domain/entities"
	"localesync/internal/infrastructure/i18n"
	"localesync/internal/ports/output"
	"localesync/pkg/tz"
)

const (
	ruleWidth = 80
	// examplesPerFile bounds the literals printed for each scanned file.
	examplesPerFile = 5
	// exampleWidth bounds the printed length of a literal, in runes.
	exampleWidth = 60
)

var (
	okColor    = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errColor   = color.New(color.FgRed)
	titleColor = color.New(color.Bold)
)

// Reporter renders analysis, merge and scan results as localized text.
type Reporter struct {
	w      io.Writer
	t      output.T
	locale string
	upper  cases.Caser
	// order is the configured language order; reports follow it.
	order []string
}

func NewReporter(w io.Writer, t output.T, locale string, order []string) *Reporter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Reporter{w: w, t: t, locale: locale, upper: cases.Upper(tag), order: order}
}

func (r *Reporter) tr(key string, data map[string]any) string {
	return r.t.T(r.locale, key, data)
}

func (r *Reporter) name(lang string) string {
	return i18n.LanguageName(r.t, r.locale, lang)
}

func (r *Reporter) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

func (r *Reporter) heading(title string) {
	r.printf("%s\n%s\n%s\n", strings.Repeat("=", ruleWidth), titleColor.Sprint(title), strings.Repeat("=", ruleWidth))
}

func (r *Reporter) keys(keys []string) {
	for _, k := range keys {
		r.printf("  - %s\n", k)
	}
}

// languages orders langs by the configured order, unknown ones last and sorted.
func (r *Reporter) languages(langs []string) []string {
	rank := make(map[string]int, len(r.order))
	for i, l := range r.order {
		rank[l] = i
	}
	out := append([]string(nil), langs...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := rank[out[i]]
		rj, jok := rank[out[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return out[i] < out[j]
	})
	return out
}

// Analysis prints the key-set comparison of every loaded language.
func (r *Reporter) Analysis(a *entities.Analysis) {
	rep := a.Report
	langs := r.languages(rep.Languages)

	r.heading(r.tr("analyze_title", nil))
	r.printf("\n")
	r.failures(a.Failures)

	r.printf("%s\n%s\n", titleColor.Sprint(r.tr("analyze_stats", nil)), strings.Repeat("-", ruleWidth))
	for _, lang := range langs {
		r.printf("%s\n", r.tr("analyze_total_keys", map[string]any{"Language": r.name(lang), "Code": lang, "Count": rep.Counts[lang]}))
	}
	r.printf("\n%s\n\n", r.tr("analyze_unique_keys", map[string]any{"Count": len(rep.AllKeys)}))

	r.missing(rep, langs)

	r.heading(r.tr("analyze_exclusive_title", nil))
	if !rep.HasExclusive() {
		r.printf("%s %s\n", okColor.Sprint("✓"), r.tr("analyze_none_exclusive", nil))
	}
	for _, lang := range langs {
		only := rep.Exclusive[lang]
		if len(only) == 0 {
			continue
		}
		r.printf("\n%s\n", r.tr("analyze_exclusive_in", map[string]any{"Language": r.name(lang), "Count": len(only)}))
		r.keys(only)
	}
	r.printf("\n")

	r.summary(rep, langs)
}

func (r *Reporter) missing(rep catalog.DiffReport, langs []string) {
	for _, lang := range langs {
		r.heading(r.tr("analyze_missing_title", map[string]any{"Language": r.upper.String(r.name(lang)), "Code": lang}))
		missing := rep.Missing[lang]
		if len(missing) == 0 {
			r.printf("%s %s\n\n", okColor.Sprint("✓"), r.tr("analyze_none_missing", nil))
			continue
		}
		r.printf("%s\n\n", r.tr("analyze_missing_count", map[string]any{"Count": len(missing)}))
		r.keys(missing)
		r.printf("\n")
	}
}

func (r *Reporter) summary(rep catalog.DiffReport, langs []string) {
	r.heading(r.tr("analyze_summary", nil))
	total := rep.TotalMissing()
	if total == 0 {
		r.printf("%s %s\n\n", okColor.Sprint("✓"), r.tr("analyze_parity", map[string]any{"Count": len(langs)}))
		return
	}
	r.printf("%s %s\n", warnColor.Sprint("⚠"), r.tr("analyze_total_missing", map[string]any{"Count": total}))
	for _, lang := range langs {
		r.printf("  - %s\n", r.tr("analyze_missing_in", map[string]any{"Count": len(rep.Missing[lang]), "Language": r.name(lang)}))
	}
	r.printf("\n")
}

func (r *Reporter) failures(failures []entities.Failure) {
	if len(failures) == 0 {
		return
	}
	r.printf("%s\n", errColor.Sprint(r.tr("report_failures", nil)))
	for _, f := range failures {
		r.printf("  %s %s\n", errColor.Sprint("✗"), r.tr("report_failure", map[string]any{
			"Language": r.name(f.Language),
			"Stage":    f.Stage,
			"Reason":   i18n.ErrorMessage(r.t, r.locale, f.Err),
		}))
	}
	r.printf("\n")
}

// Merge prints per-language merge counts, conflicts and what is left to translate.
func (r *Reporter) Merge(m *entities.MergeReport) {
	r.heading(r.tr("merge_title", nil))
	r.printf("%s\n", r.tr("merge_policy", map[string]any{"Policy": m.Policy.String()}))
	if m.DryRun {
		r.printf("%s\n", warnColor.Sprint(r.tr("merge_dry_run", nil)))
	}
	r.printf("\n")
	r.failures(m.Failures)

	langs := make([]string, 0, len(m.Languages))
	for lang := range m.Languages {
		langs = append(langs, lang)
	}
	for _, lang := range r.languages(langs) {
		lm := m.Languages[lang]
		mark := okColor.Sprint("✓")
		if lm.Changed() > 0 {
			mark = warnColor.Sprint("+")
		}
		r.printf("%s %s\n", mark, r.tr("merge_language", map[string]any{
			"Language":    r.name(lang),
			"Added":       lm.Added,
			"Filled":      lm.Filled,
			"Overwritten": lm.Overwritten,
			"Unchanged":   lm.Unchanged,
			"Glossary":    lm.FromGlossary,
		}))
		if len(lm.Preview) > 0 {
			r.printf("  %s\n  %s\n", r.tr("merge_preview", map[string]any{"Language": r.name(lang)}), lm.Preview)
		}
	}
	r.printf("\n%s\n\n", r.tr("merge_total", map[string]any{"Count": m.TotalChanged()}))

	r.heading(r.tr("merge_conflicts", map[string]any{"Count": len(m.Conflicts)}))
	if len(m.Conflicts) == 0 {
		r.printf("%s %s\n", okColor.Sprint("✓"), r.tr("merge_no_conflicts", nil))
	}
	for _, c := range m.Conflicts {
		r.printf("  %s %s\n", errColor.Sprint("✗"), r.tr("merge_conflict", map[string]any{
			"Language": r.name(c.Language),
			"Key":      c.KeyPath,
			"Reason":   i18n.ErrorMessage(r.t, r.locale, c.Err),
		}))
	}
	r.printf("\n")

	r.heading(r.tr("merge_remaining", nil))
	r.missing(m.Remaining, r.languages(m.Remaining.Languages))
}

// Scan prints the hardcoded literals found per file, the totals and the top files.
func (r *Reporter) Scan(s *entities.ScanReport) {
	r.heading(r.tr("scan_title", nil))
	for _, f := range s.Files {
		r.printf("\n📁 %s\n", f.File)
		r.printf("   %s\n", r.tr("scan_file_counts", map[string]any{"French": f.French, "Hebrew": f.Hebrew}))
		for i, c := range f.Candidates {
			if i == examplesPerFile {
				r.printf("   %s\n", r.tr("scan_more", map[string]any{"Count": len(f.Candidates) - examplesPerFile}))
				break
			}
			script := "🇮🇱 HE"
			if c.Script.Has(entities.ScriptFrench) {
				script = "🇫🇷 FR"
			}
			r.printf("   %s\n", r.tr("scan_line", map[string]any{"Line": c.Line, "Script": script, "Text": clip(c.Text, exampleWidth)}))
		}
	}

	r.printf("\n%s\n", strings.Repeat("=", ruleWidth))
	total := r.tr("scan_total", map[string]any{"French": s.French, "Hebrew": s.Hebrew})
	if s.French+s.Hebrew > 0 {
		r.printf("%s\n", warnColor.Sprint(total))
	} else {
		r.printf("%s\n", okColor.Sprint(total))
	}
	r.printf("%s\n", strings.Repeat("=", ruleWidth))

	if len(s.Top) == 0 {
		return
	}
	r.printf("\n🔥 %s\n", r.tr("scan_top", map[string]any{"Count": len(s.Top)}))
	for i, f := range s.Top {
		r.printf("%s\n", r.tr("scan_top_line", map[string]any{"Rank": i + 1, "File": f.File, "Count": len(f.Candidates)}))
	}
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// History prints recorded runs, newest first.
func (r *Reporter) History(runs []entities.Run, loc *time.Location) {
	r.heading(r.tr("history_title", nil))
	if len(runs) == 0 {
		r.printf("%s\n", r.tr("history_empty", nil))
		return
	}
	for _, run := range runs {
		r.printf("%s\n", r.tr("history_line", map[string]any{
			"At":        tz.Stamp(run.StartedAt, loc),
			"Command":   run.Command,
			"Languages": strings.Join(run.Languages, ","),
			"Missing":   run.MissingTotal,
			"Merged":    run.Merged,
			"Conflicts": run.Conflicts,
			"Duration":  run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
		}))
	}
}
