// Package translations loads the curated translation table from a data file.
package translations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"localesync/internal/domain"
	"localesync/internal/domain/catalog"
	"localesync/internal/domain/entities"
	"localesync/internal/ports/output"
)

var _ output.TranslationSource = (*FileSource)(nil)

// tableFile is the on-disk shape of a translation table:
//
//	source_language: he
//	entries:
//	  admin.common.save: {he: שמור, fr: Enregistrer, en: Save}
//	glossary:
//	  הכנסות לפי שעה: {fr: Revenus par heure, en: Revenue per hour}
type tableFile struct {
	SourceLanguage string                       `json:"source_language" yaml:"source_language" toml:"source_language"`
	Entries        map[string]map[string]string `json:"entries" yaml:"entries" toml:"entries"`
	Glossary       map[string]map[string]string `json:"glossary" yaml:"glossary" toml:"glossary"`
}

// FileSource reads a translation table from a JSON, YAML or TOML file,
// chosen by extension.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Table(_ context.Context) (*entities.TranslationTable, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", s.path, domain.ErrMissingFile)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	table, err := Parse(filepath.Ext(s.path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return table, nil
}

// Parse decodes a table in the format named by ext (".json", ".yaml",
// ".yml" or ".toml") and validates it.
func Parse(ext string, data []byte) (*entities.TranslationTable, error) {
	var raw tableFile
	var err error
	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: translation table extension %q", domain.ErrUnknownFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse translation table: %w", err)
	}
	return raw.table()
}

func (f tableFile) table() (*entities.TranslationTable, error) {
	t := &entities.TranslationTable{
		SourceLanguage: f.SourceLanguage,
		Glossary:       f.Glossary,
	}
	if t.SourceLanguage != "" {
		if err := ValidateLanguage(t.SourceLanguage); err != nil {
			return nil, err
		}
	}
	if len(t.Glossary) > 0 && t.SourceLanguage == "" {
		return nil, errors.New("glossary requires source_language")
	}
	for text, texts := range t.Glossary {
		for lang := range texts {
			if err := ValidateLanguage(lang); err != nil {
				return nil, fmt.Errorf("glossary %q: %w", text, err)
			}
		}
	}

	keys := make([]string, 0, len(f.Entries))
	for k := range f.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := catalog.ParseKeyPath(k); err != nil {
			return nil, err
		}
		for lang := range f.Entries[k] {
			if err := ValidateLanguage(lang); err != nil {
				return nil, fmt.Errorf("entry %s: %w", k, err)
			}
		}
		t.Entries = append(t.Entries, entities.TranslationEntry{KeyPath: k, Texts: f.Entries[k]})
	}
	return t, nil
}

// ValidateLanguage checks that lang is a well-formed BCP 47 tag.
func ValidateLanguage(lang string) error {
	if _, err := language.Parse(lang); err != nil {
		return fmt.Errorf("%w: %q: %v", domain.ErrInvalidLanguage, lang, err)
	}
	return nil
}
