package entities

// TranslationEntry supplies the text of one key-path in one or more languages.
type TranslationEntry struct {
	KeyPath string
	Texts   map[string]string // language -> text
}

// TranslationTable is the curated input of a merge pass.
type TranslationTable struct {
	Entries []TranslationEntry

	// SourceLanguage names the catalog whose texts are looked up in Glossary.
	SourceLanguage string
	// Glossary maps a source-language text to its translations, keyed by language.
	Glossary map[string]map[string]string
}

// Languages returns every language the table carries a text for.
func (t *TranslationTable) Languages() map[string]struct{} {
	out := make(map[string]struct{})
	for _, e := range t.Entries {
		for lang := range e.Texts {
			out[lang] = struct{}{}
		}
	}
	for _, texts := range t.Glossary {
		for lang := range texts {
			out[lang] = struct{}{}
		}
	}
	return out
}

// Empty reports whether the table holds no entry and no glossary term.
func (t *TranslationTable) Empty() bool {
	return t == nil || (len(t.Entries) == 0 && len(t.Glossary) == 0)
}
