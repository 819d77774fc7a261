package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"localesync/internal/domain/entities"
	"localesync/internal/infrastructure/i18n"
	"localesync/internal/ports/output"
	"localesync/pkg/tz"
)

const (
	colorParity  = 0x57F287
	colorMissing = 0xFEE75C
	colorFailure = 0xED4245

	// maxListed bounds the keys shown per language field.
	maxListed = 10
	// fieldLimit is Discord's embed field value limit.
	fieldLimit = 1024
)

// BuildAnalysisEmbed summarizes an analysis: one field per language with its
// key count and first missing keys, plus a field for failed languages.
func BuildAnalysisEmbed(t output.T, locale string, loc *time.Location, analysis *entities.Analysis, at time.Time) *discordgo.MessageEmbed {
	r := analysis.Report
	total := 0
	for _, keys := range r.Missing {
		total += len(keys)
	}

	embed := &discordgo.MessageEmbed{
		Title:     "🌍 " + t.T(locale, "notify_title", nil),
		Color:     colorParity,
		Timestamp: at.UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: tz.Stamp(at, loc)},
	}
	if total == 0 {
		embed.Description = "✅ " + t.T(locale, "notify_parity", nil)
	} else {
		embed.Color = colorMissing
		embed.Description = "⚠️ " + t.T(locale, "notify_missing", map[string]any{"Count": total})
	}

	for _, lang := range r.Languages {
		name := i18n.LanguageName(t, locale, lang)
		missing := r.Missing[lang]

		var b strings.Builder
		b.WriteString(t.T(locale, "analyze_total_keys", map[string]any{"Language": name, "Code": lang, "Count": r.Counts[lang]}))
		b.WriteString("\n")
		b.WriteString(t.T(locale, "analyze_missing_count", map[string]any{"Count": len(missing)}))
		for i, key := range missing {
			if i == maxListed {
				b.WriteString("\n" + t.T(locale, "scan_more", map[string]any{"Count": len(missing) - maxListed}))
				break
			}
			b.WriteString(fmt.Sprintf("\n• `%s`", key))
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s (%s)", name, lang),
			Value:  truncate(b.String(), fieldLimit),
			Inline: false,
		})
	}

	if len(analysis.Failures) > 0 {
		embed.Color = colorFailure
		lines := make([]string, 0, len(analysis.Failures))
		for _, f := range analysis.Failures {
			lines = append(lines, "❌ "+t.T(locale, "report_failure", map[string]any{
				"Language": i18n.LanguageName(t, locale, f.Language),
				"Stage":    f.Stage,
				"Reason":   i18n.ErrorMessage(t, locale, f.Err),
			}))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  t.T(locale, "report_failures", nil),
			Value: truncate(strings.Join(lines, "\n"), fieldLimit),
		})
	}
	return embed
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
