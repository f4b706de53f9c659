package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wafreport/wafreport/internal/models"
	"github.com/wafreport/wafreport/internal/report"
)

// spool writes the rendered document and its statistics sidecar into
// the output directory. The sidecar keeps the collected numbers in a
// machine-readable form next to the document they produced.
func spool(outputDir string, doc *report.Document, artifact *models.Artifact) (localPath string, artifactPath string, err error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", "", fmt.Errorf("create output directory: %w", err)
	}

	localPath = filepath.Join(outputDir, doc.Filename)
	if err := os.WriteFile(localPath, doc.Bytes, 0644); err != nil {
		return "", "", fmt.Errorf("write report file: %w", err)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal statistics sidecar: %w", err)
	}

	artifactPath = strings.TrimSuffix(localPath, ".pdf") + ".json"
	if err := os.WriteFile(artifactPath, append(data, '\n'), 0644); err != nil {
		return "", "", fmt.Errorf("write statistics sidecar: %w", err)
	}

	return localPath, artifactPath, nil
}
