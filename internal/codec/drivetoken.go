package codec

import (
	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
)

// DriveToken translates rows of the drive_tokens table. It is not part of a
// collection; the service reads and writes single rows keyed by user_id.
type DriveToken struct{}

func (DriveToken) Decode(row tablestore.Row) (entity.DriveToken, error) {
	d := decoderFor(row)

	t := entity.DriveToken{
		ID:           d.uuid("id"),
		UserID:       d.uuid("user_id"),
		AccessToken:  d.str("access_token"),
		RefreshToken: d.str("refresh_token"),
		ExpiresAt:    d.tstamp("expires_at"),
		IsConnected:  d.boolean("is_connected"),
		CreatedAt:    d.tstamp("created_at"),
		UpdatedAt:    d.tstamp("updated_at"),
	}
	if d.err != nil {
		return entity.DriveToken{}, d.err
	}

	return t, nil
}

func (DriveToken) Encode(t entity.DriveToken) tablestore.Row {
	return tablestore.Row{
		"user_id":       t.UserID,
		"access_token":  t.AccessToken,
		"refresh_token": t.RefreshToken,
		"expires_at":    t.ExpiresAt,
		"is_connected":  t.IsConnected,
	}
}
