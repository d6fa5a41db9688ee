package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Document is the record of a file stored in Google Drive. The links come
// back from the Drive upload relay and are stored as-is.
type Document struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	DriveFileID  string    `json:"driveFileId"`
	WebViewLink  string    `json:"webViewLink"`
	DownloadLink string    `json:"downloadLink"`
	SizeBytes    int64     `json:"sizeBytes"`
	CreatedAt    time.Time `json:"createdAt"`
}

type DocumentPatch struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
}
