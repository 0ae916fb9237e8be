// Package ingest folds uploaded, pre-extracted document text into the
// training pipeline's text stream.
package ingest

import (
	"fmt"
	"strings"

	"sitetrainer/pkg/models"
)

// Concatenate renders uploaded documents as one delimited text block. The
// caller is responsible for having extracted text from binary formats; the
// content is passed through untouched.
func Concatenate(docs []models.Document) string {
	if len(docs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("--- UPLOADED DOCUMENTS ---\n\n")
	for i, doc := range docs {
		name := doc.Name
		if name == "" {
			name = fmt.Sprintf("document-%d", i+1)
		}
		sb.WriteString(fmt.Sprintf("--- DOCUMENT %d: %s ---\n", i+1, name))
		sb.WriteString(doc.Content)
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
