package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// DownloadedDocument is one manifest row. SavedAt is a unix timestamp in
// seconds.
type DownloadedDocument struct {
	DocID      string
	ClassTitle string
	Path       string
	SizeBytes  int64
	SavedAt    int64
}

type NoteDownloadParams struct {
	DocID      string
	ClassTitle string
	Path       string
	SizeBytes  int64
	SavedAt    int64
}

const noteDownload = `
INSERT INTO downloaded_document (doc_id, class_title, path, size_bytes, saved_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (doc_id, path) DO UPDATE SET
    class_title = excluded.class_title,
    size_bytes = excluded.size_bytes,
    saved_at = excluded.saved_at
`

// NoteDownload records a saved file. Re-downloading the same document to
// the same path updates the existing row instead of adding one.
func (q *Queries) NoteDownload(ctx context.Context, arg NoteDownloadParams) error {
	_, err := q.db.ExecContext(
		ctx, noteDownload,
		arg.DocID, arg.ClassTitle, arg.Path, arg.SizeBytes, arg.SavedAt,
	)
	return err
}

const listDownloads = `
SELECT doc_id, class_title, path, size_bytes, saved_at
FROM downloaded_document
ORDER BY saved_at DESC, path ASC
`

func (q *Queries) ListDownloads(ctx context.Context) ([]DownloadedDocument, error) {
	rows, err := q.db.QueryContext(ctx, listDownloads)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []DownloadedDocument
	for rows.Next() {
		var doc DownloadedDocument
		err := rows.Scan(&doc.DocID, &doc.ClassTitle, &doc.Path, &doc.SizeBytes, &doc.SavedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, doc)
	}
	return items, rows.Err()
}
