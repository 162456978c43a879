package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/browser"

	"github.com/prompteval/driftreport/internal/records"
)

// Publish writes the rendered document to the dialect's fixed path directly
// under the results root, overwriting any prior run's output, and then
// optionally opens it in the default viewer. A viewer failure is logged but
// never escalates: the document is already durably on disk.
func Publish(root string, d records.Dialect, html string, openViewer bool) (string, error) {
	path := filepath.Join(root, d.ReportName())
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("writing report %s: %w", path, err)
	}
	slog.Info("report written", "path", path)

	if openViewer {
		if err := browser.OpenFile(path); err != nil {
			slog.Warn("could not open report in viewer", "path", path, "error", err)
		}
	}
	return path, nil
}
