package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"casereport/config"
	"casereport/grid"
	"casereport/record"

	"go.uber.org/zap"
)

type Result struct {
	FilesProcessed   int
	RowsRead         int
	RowsSkipped      int
	RecordsExtracted int
	Warnings         []string
	Files            []FileResult
}

// FileResult is the extraction of a single input file. Warning is set when
// the file type has no extraction logic.
type FileResult struct {
	Path       string
	FileType   record.FileType
	Extraction Extraction
	Warning    string
}

type RunOptions struct {
	// FileType overrides rule matching for every path when non-zero.
	FileType record.FileType
	Logger   *zap.Logger
}

// Run loads and extracts every path. Unreadable files abort the run;
// unsupported file types are reported as warnings.
func Run(paths []string, cfg config.Config, options RunOptions) (*Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	result := &Result{Files: make([]FileResult, 0, len(paths))}
	for _, path := range paths {
		g, err := grid.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}

		file := extractGrid(path, g, ResolveFileType(path, options.FileType, cfg.Rules))
		if file.Warning != "" {
			logger.Warn("file skipped", zap.String("path", path), zap.String("warning", file.Warning))
			result.Warnings = append(result.Warnings, file.Warning)
		} else {
			logger.Debug("file extracted",
				zap.String("path", path),
				zap.String("file_type", file.FileType.String()),
				zap.Int("records", len(file.Extraction.Records)),
			)
		}

		result.FilesProcessed++
		result.RowsRead += file.Extraction.RowsRead
		result.RowsSkipped += file.Extraction.RowsSkipped
		result.RecordsExtracted += len(file.Extraction.Records)
		result.Files = append(result.Files, file)
	}

	return result, nil
}

// ExtractBytes decodes an uploaded file held in memory. name selects the
// loader by extension and feeds rule matching when ft is zero.
func ExtractBytes(name string, content []byte, ft record.FileType, rules []config.Rule) (FileResult, error) {
	g, err := grid.LoadBytes(name, content)
	if err != nil {
		return FileResult{}, err
	}
	return extractGrid(name, g, ResolveFileType(name, ft, rules)), nil
}

func extractGrid(path string, g *grid.Grid, ft record.FileType) FileResult {
	file := FileResult{Path: path, FileType: ft}
	extraction, err := Dispatch(ft, g)
	if errors.Is(err, ErrUnsupportedFileType) {
		file.Warning = fmt.Sprintf("%s: no logic implemented for file type %d", filepath.Base(path), int(ft))
	}
	file.Extraction = extraction
	return file
}

// ResolveFileType returns explicit when set, else the file type of the
// first rule whose template matches path, else zero.
func ResolveFileType(path string, explicit record.FileType, rules []config.Rule) record.FileType {
	if explicit != 0 {
		return explicit
	}
	rule := MatchRuleByTemplate(path, rules)
	return rule.Type()
}

func MatchRuleByTemplate(path string, rules []config.Rule) config.Rule {
	baseName := filepath.Base(path)
	for _, rule := range rules {
		template := strings.TrimSpace(rule.FileTemplate)
		if template == "" {
			continue
		}
		matchesBase, err := filepath.Match(template, baseName)
		if err == nil && matchesBase {
			return rule
		}
		matchesFull, err := filepath.Match(template, path)
		if err == nil && matchesFull {
			return rule
		}
	}
	return config.Rule{}
}
