package pesu

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"pesuslides/lib/textutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var filenameUtf8Regex = regexp.MustCompile(`filename\*=UTF-8''([^;]+)`)
var filenamePlainRegex = regexp.MustCompile(`filename="?([^";]+)"?`)

// extensionForContentType maps a response content type onto a slide file
// extension. The portal frequently omits the header entirely for pdf
// slides, so the empty value maps to .pdf rather than .bin.
func extensionForContentType(contentType string) string {
	if contentType == "" {
		return ".pdf"
	}
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "pdf"):
		return ".pdf"
	case strings.Contains(ct, "powerpoint"),
		strings.Contains(ct, "presentation"),
		strings.Contains(ct, "ppt"):
		return ".pptx"
	case strings.Contains(ct, "msword"),
		strings.Contains(ct, "word"),
		strings.Contains(ct, "doc"):
		return ".docx"
	case strings.Contains(ct, "zip"):
		return ".zip"
	}
	return ".bin"
}

func filenameFromDisposition(disposition string) string {
	if m := filenameUtf8Regex.FindStringSubmatch(disposition); m != nil {
		return m[1]
	}
	if m := filenamePlainRegex.FindStringSubmatch(disposition); m != nil {
		return m[1]
	}
	return ""
}

func synthesizeFilename(position, index int, multiple bool, title, contentType string) string {
	suffix := ""
	if multiple {
		suffix = fmt.Sprintf("_%d", index)
	}
	return fmt.Sprintf(
		"%02d%s_%s%s",
		position, suffix,
		textutil.Slugify(title),
		extensionForContentType(contentType),
	)
}

// SavedDocument is one file written to disk.
type SavedDocument struct {
	DocID string
	Path  string
	Size  int64
}

// DownloadDocuments fetches each document by id and writes it under
// destDir, creating the directory if needed. `position` is the 1-based
// class number used in synthesized filenames. A non-success status, empty
// body or failed write skips that document and continues with the rest;
// name collisions overwrite.
func (c *Client) DownloadDocuments(ctx context.Context, docIds []string, position int, title, destDir string) ([]SavedDocument, error) {
	ctx, span := tracer.Start(ctx, "client:DownloadDocuments")
	defer span.End()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		span.SetStatus(codes.Error, "failed to create destination directory")
		return nil, err
	}

	var saved []SavedDocument
	for i, docId := range docIds {
		res, err := c.Http.R().
			SetContext(ctx).
			SetHeader("Referer", c.profileUrl()).
			SetHeader("X-Requested-With", "XMLHttpRequest").
			Get(downloadPath + docId)
		if err != nil {
			slog.WarnContext(ctx, "document fetch failed", "doc_id", docId, "err", err)
			continue
		}
		if res.StatusCode() != http.StatusOK || len(res.Body()) == 0 {
			slog.DebugContext(
				ctx, "skipping document",
				"doc_id", docId,
				"status", res.StatusCode(),
				"bytes", len(res.Body()),
			)
			continue
		}

		name := filenameFromDisposition(res.Header().Get("Content-Disposition"))
		if name == "" {
			name = synthesizeFilename(
				position, i+1, len(docIds) > 1,
				title, res.Header().Get("Content-Type"),
			)
		}

		path := filepath.Join(destDir, name)
		if err := os.WriteFile(path, res.Body(), 0644); err != nil {
			slog.WarnContext(ctx, "failed to write document", "path", path, "err", err)
			continue
		}

		saved = append(saved, SavedDocument{
			DocID: docId,
			Path:  path,
			Size:  int64(len(res.Body())),
		})
	}

	span.SetAttributes(attribute.Int("saved", len(saved)))
	return saved, nil
}
