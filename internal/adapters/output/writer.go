// Package output persists validation reports as JSON artifacts: one
// directory per company holding the final report plus a file per settled
// check, for manual review of the evidence behind a score.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"legitscan/internal/core/domain"
	"legitscan/internal/platform/errors"
	"legitscan/internal/platform/logx"
	"legitscan/internal/platform/validator"
)

// Writer writes report artifacts under a base directory.
type Writer struct {
	baseDir string
	logger  logx.Logger
}

// NewWriter creates a writer rooted at baseDir.
func NewWriter(baseDir string, logger logx.Logger) *Writer {
	return &Writer{
		baseDir: baseDir,
		logger:  logger.With("component", "output"),
	}
}

// Write persists the report and returns the directory it was written to.
// Layout:
//
//	<base>/<company>/report_<timestamp>.json
//	<base>/<company>/<source>_result.json
func (w *Writer) Write(report *domain.LegitimacyReport) (string, error) {
	if report == nil {
		return "", errors.New("nil report")
	}

	dirName := validator.SanitizeFilename(report.Identity.Name)
	if dirName == "" {
		dirName = "company"
	}
	dir := filepath.Join(w.baseDir, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create output dir %s", dir)
	}

	stamp := report.GeneratedAt.Format("20060102_150405")
	reportPath := filepath.Join(dir, fmt.Sprintf("report_%s.json", stamp))
	if err := w.WriteTo(report, reportPath); err != nil {
		return "", err
	}

	for _, name := range domain.AllSources {
		result := report.Result(name)
		if result == nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_result.json", name))
		if err := writeJSON(path, result); err != nil {
			return "", err
		}
	}

	w.logger.Info("artifacts written", "dir", dir, "report", filepath.Base(reportPath))
	return dir, nil
}

// WriteTo marshals the report to a single JSON file at path.
func (w *Writer) WriteTo(report *domain.LegitimacyReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create dir for %s", path)
	}
	return writeJSON(path, report)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "marshal %s", path)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// Prune removes artifact directories older than maxAge. Used by the server
// to keep the artifact store bounded.
func (w *Writer) Prune(maxAge time.Duration) error {
	entries, err := os.ReadDir(w.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read output dir %s", w.baseDir)
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(w.baseDir, entry.Name())
			if err := os.RemoveAll(path); err != nil {
				w.logger.Warn("prune failed", "dir", path, "error", err.Error())
				continue
			}
			w.logger.Debug("pruned artifact dir", "dir", path)
		}
	}
	return nil
}
