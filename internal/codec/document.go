package codec

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
)

// Document translates rows of the documents table. Only name and category
// are user-mutable; the Drive link columns are written once on upload.
type Document struct{}

func (Document) ID(doc entity.Document) uuid.UUID    { return doc.ID }
func (Document) Owner(doc entity.Document) uuid.UUID { return doc.UserID }

func (Document) Decode(row tablestore.Row) (entity.Document, error) {
	d := decoderFor(row)

	doc := entity.Document{
		ID:           d.uuid("id"),
		UserID:       d.uuid("user_id"),
		Name:         d.str("name"),
		Category:     d.str("category"),
		DriveFileID:  d.str("drive_file_id"),
		WebViewLink:  d.str("web_view_link"),
		DownloadLink: d.str("download_link"),
		SizeBytes:    d.integer("size_bytes"),
		CreatedAt:    d.tstamp("created_at"),
	}
	if d.err != nil {
		return entity.Document{}, d.err
	}

	return doc, nil
}

func (Document) Encode(doc entity.Document) (tablestore.Row, error) {
	return tablestore.Row{
		"name":          doc.Name,
		"category":      doc.Category,
		"drive_file_id": doc.DriveFileID,
		"web_view_link": doc.WebViewLink,
		"download_link": doc.DownloadLink,
		"size_bytes":    doc.SizeBytes,
	}, nil
}

func (Document) EncodePatch(p entity.DocumentPatch) (tablestore.Row, error) {
	row := tablestore.Row{}
	put(row, "name", p.Name)
	put(row, "category", p.Category)

	return row, nil
}

func (Document) Apply(doc entity.Document, p entity.DocumentPatch, _ time.Time) entity.Document {
	if p.Name != nil {
		doc.Name = *p.Name
	}

	if p.Category != nil {
		doc.Category = *p.Category
	}

	return doc
}
