package database

import (
	"time"

	"github.com/google/uuid"

	"localesync/internal/domain/entities"
)

type entryRow struct {
	KeyPath  string `db:"key_path"`
	Language string `db:"language"`
	Text     string `db:"text"`
}

type glossaryRow struct {
	SourceLanguage string `db:"source_language"`
	SourceText     string `db:"source_text"`
	Language       string `db:"language"`
	Text           string `db:"text"`
}

type runRow struct {
	ID           uuid.UUID `db:"id"`
	Command      string    `db:"command"`
	Languages    []string  `db:"languages"`
	MissingTotal int32     `db:"missing_total"`
	Merged       int32     `db:"merged"`
	Conflicts    int32     `db:"conflicts"`
	StartedAt    time.Time `db:"started_at"`
	FinishedAt   time.Time `db:"finished_at"`
}

// entriesToDomain groups rows ordered by key path into entries.
func entriesToDomain(rows []entryRow) []entities.TranslationEntry {
	var out []entities.TranslationEntry
	for _, r := range rows {
		if n := len(out); n == 0 || out[n-1].KeyPath != r.KeyPath {
			out = append(out, entities.TranslationEntry{KeyPath: r.KeyPath, Texts: map[string]string{}})
		}
		out[len(out)-1].Texts[r.Language] = r.Text
	}
	return out
}

func entriesToRows(entries []entities.TranslationEntry) [][]any {
	var out [][]any
	for _, e := range entries {
		for _, lang := range sortedKeys(e.Texts) {
			out = append(out, []any{e.KeyPath, lang, e.Texts[lang]})
		}
	}
	return out
}

func glossaryToRows(source string, glossary map[string]map[string]string) [][]any {
	var out [][]any
	for _, text := range sortedKeys(glossary) {
		for _, lang := range sortedKeys(glossary[text]) {
			out = append(out, []any{source, text, lang, glossary[text][lang]})
		}
	}
	return out
}

func runToDomain(r runRow) entities.Run {
	return entities.Run{
		ID:           r.ID,
		Command:      r.Command,
		Languages:    r.Languages,
		MissingTotal: int(r.MissingTotal),
		Merged:       int(r.Merged),
		Conflicts:    int(r.Conflicts),
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
	}
}
