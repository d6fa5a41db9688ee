package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// DriveToken is the per-actor Google Drive credential set persisted after the
// OAuth callback.
type DriveToken struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expiresAt"`
	IsConnected  bool      `json:"isConnected"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DriveFile is the upload relay's view of a stored file.
type DriveFile struct {
	ID           string `json:"fileId"`
	WebViewLink  string `json:"webViewLink"`
	DownloadLink string `json:"downloadLink"`
}
