package application

import (
	"context"
	"fmt"
	"sort"

	"localesync/internal/domain/entities"
	"localesync/internal/ports/input"
	"localesync/internal/ports/output"
)

var _ input.ScanUseCase = (*ScanService)(nil)

// ScanService reports literal strings that should live in the catalogs.
type ScanService struct {
	scanner output.SourceScanner
}

func NewScanService(scanner output.SourceScanner) *ScanService {
	return &ScanService{scanner: scanner}
}

// Scan groups the scanner's candidates per file and keeps the top files with
// the most candidates. top <= 0 leaves Top empty.
func (s *ScanService) Scan(ctx context.Context, top int) (*entities.ScanReport, error) {
	candidates, err := s.scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan sources: %w", err)
	}

	byFile := make(map[string]*entities.FileCandidates)
	report := &entities.ScanReport{}
	for _, c := range candidates {
		fc, ok := byFile[c.File]
		if !ok {
			fc = &entities.FileCandidates{File: c.File}
			byFile[c.File] = fc
		}
		fc.Candidates = append(fc.Candidates, c)
		if c.Script.Has(entities.ScriptFrench) {
			fc.French++
			report.French++
		}
		if c.Script.Has(entities.ScriptHebrew) {
			fc.Hebrew++
			report.Hebrew++
		}
	}

	for _, file := range sortedKeys(byFile) {
		fc := byFile[file]
		sort.SliceStable(fc.Candidates, func(i, j int) bool {
			return fc.Candidates[i].Line < fc.Candidates[j].Line
		})
		report.Files = append(report.Files, *fc)
	}

	if top > 0 {
		ranked := make([]entities.FileCandidates, len(report.Files))
		copy(ranked, report.Files)
		sort.SliceStable(ranked, func(i, j int) bool {
			return len(ranked[i].Candidates) > len(ranked[j].Candidates)
		})
		if len(ranked) > top {
			ranked = ranked[:top]
		}
		report.Top = ranked
	}

	log.Infow("scan done", "files", len(report.Files), "french", report.French, "hebrew", report.Hebrew)
	return report, nil
}
