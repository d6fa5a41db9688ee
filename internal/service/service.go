// Package service composes the collection mirrors, the derived views, the
// Google Drive relay and the alerting job behind one facade the transport
// layer calls.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/bizdesk/backend/internal/analytics"
	"github.com/bizdesk/backend/internal/clients/drive"
	"github.com/bizdesk/backend/internal/codec"
	"github.com/bizdesk/backend/internal/collection"
	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
	"github.com/bizdesk/backend/pkg/broker"
	"github.com/bizdesk/backend/pkg/security"
)

const (
	maxCashFlowMonths     = 36
	defaultCashFlowMonths = 6
)

type DriveAPI interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (drive.Token, error)
	Upload(ctx context.Context, accessToken, name, mimeType string, data []byte) (entity.DriveFile, error)
}

type AlertSink interface {
	LowStock(ctx context.Context, event broker.LowStockEvent)
}

type Service struct {
	collections *collection.Set
	tables      tablestore.Client
	drive       DriveAPI
	state       *security.StateSigner
	alerts      AlertSink

	// allInventory spans every owner, for the background stock scan only.
	allInventory *collection.Store[entity.InventoryItem, entity.InventoryItemPatch]

	now func() time.Time
}

func New(
	tables tablestore.Client,
	collections *collection.Set,
	driveAPI DriveAPI,
	state *security.StateSigner,
	alerts AlertSink,
) *Service {
	return &Service{
		collections: collections,
		tables:      tables,
		drive:       driveAPI,
		state:       state,
		alerts:      alerts,
		allInventory: collection.New[entity.InventoryItem, entity.InventoryItemPatch](
			tables, codec.InventoryItem{}, nil, collection.Options{
				Table:   "inventory_items",
				OrderBy: "name",
			}),
		now: time.Now,
	}
}

func (s *Service) Collections() *collection.Set {
	return s.collections
}

// Dashboard refreshes the collections the summary is derived from and
// computes it for the context actor. The summary is built from the fetched
// snapshots, so concurrent requests under other actors cannot bleed into it.
func (s *Service) Dashboard(ctx context.Context) (analytics.Summary, error) {
	clients, err := s.collections.Clients.Fetch(ctx)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("dashboard: %w", err)
	}

	projects, err := s.collections.Projects.Fetch(ctx)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("dashboard: %w", err)
	}

	deals, err := s.collections.Deals.Fetch(ctx)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("dashboard: %w", err)
	}

	tasks, err := s.collections.Tasks.Fetch(ctx)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("dashboard: %w", err)
	}

	transactions, err := s.collections.Transactions.Fetch(ctx)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("dashboard: %w", err)
	}

	inventory, err := s.collections.Inventory.Fetch(ctx)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("dashboard: %w", err)
	}

	return analytics.Dashboard(s.now(), clients, projects, deals, tasks, transactions, inventory), nil
}

// CashFlow returns the trailing monthly cash-flow buckets. months outside
// [1, 36] is rejected; callers pass 0 to get the default window.
func (s *Service) CashFlow(ctx context.Context, months int) ([]analytics.MonthFlow, error) {
	if months == 0 {
		months = defaultCashFlowMonths
	}

	if months < 1 || months > maxCashFlowMonths {
		return nil, fmt.Errorf("cash flow: months %d out of range: %w", months, entity.ErrInvalidArgument)
	}

	transactions, err := s.collections.Transactions.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("cash flow: %w", err)
	}

	return analytics.MonthlyFlow(transactions, months, s.now()), nil
}

// LowStock returns the context actor's items at or below reorder level.
func (s *Service) LowStock(ctx context.Context) ([]entity.InventoryItem, error) {
	items, err := s.collections.Inventory.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}

	return analytics.LowStock(items), nil
}

// LowStockAlertJob scans the whole inventory table across owners and emits
// one alert event per item at or below its reorder level.
func (s *Service) LowStockAlertJob(ctx context.Context) error {
	items, err := s.allInventory.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("low stock scan: %w", err)
	}

	low := analytics.LowStock(items)

	for _, item := range low {
		s.alerts.LowStock(ctx, broker.LowStockEvent{
			ItemID:       item.ID,
			UserID:       item.UserID,
			Name:         item.Name,
			Quantity:     item.Quantity,
			ReorderLevel: item.ReorderLevel,
		})
	}

	if len(low) > 0 {
		slog.InfoContext(ctx, "low stock alerts emitted", "count", len(low))
	}

	return nil
}

// DriveAuthURL returns the consent URL for the context actor, with the actor
// id bound into the signed state.
func (s *Service) DriveAuthURL(ctx context.Context) (string, error) {
	actor, err := entity.ActorFromCtx(ctx)
	if err != nil {
		return "", fmt.Errorf("drive auth url: %w", err)
	}

	return s.drive.AuthURL(s.state.Sign(actor.ID)), nil
}

// HandleDriveCallback verifies the state, exchanges the code and stores the
// tokens for the actor the state names. The callback arrives unauthenticated,
// so the state is the only identity source.
func (s *Service) HandleDriveCallback(ctx context.Context, code, state string) error {
	actorID, err := s.state.Verify(state)
	if err != nil {
		return fmt.Errorf("drive callback: %w: %w", entity.ErrInvalidArgument, err)
	}

	token, err := s.drive.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("drive callback: %w: %w", entity.ErrRemote, err)
	}

	err = s.saveToken(ctx, actorID, token)
	if err != nil {
		return fmt.Errorf("drive callback: %w", err)
	}

	return nil
}

type DriveStatus struct {
	Connected bool       `json:"connected"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (s *Service) DriveStatus(ctx context.Context) (DriveStatus, error) {
	actor, err := entity.ActorFromCtx(ctx)
	if err != nil {
		return DriveStatus{}, fmt.Errorf("drive status: %w", err)
	}

	token, err := s.loadToken(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, entity.ErrDriveNotLinked) {
			return DriveStatus{Connected: false}, nil
		}

		return DriveStatus{}, fmt.Errorf("drive status: %w", err)
	}

	expiresAt := token.ExpiresAt

	return DriveStatus{Connected: token.IsConnected, ExpiresAt: &expiresAt}, nil
}

// UploadDocument relays the file to Drive under the actor's stored token and
// records the resulting document in the documents collection.
func (s *Service) UploadDocument(ctx context.Context, name, category, mimeType string, data []byte) (entity.Document, error) {
	actor, err := entity.ActorFromCtx(ctx)
	if err != nil {
		return entity.Document{}, fmt.Errorf("upload document: %w", err)
	}

	if name == "" || len(data) == 0 {
		return entity.Document{}, fmt.Errorf("upload document: empty name or content: %w", entity.ErrInvalidArgument)
	}

	token, err := s.loadToken(ctx, actor.ID)
	if err != nil {
		return entity.Document{}, fmt.Errorf("upload document: %w", err)
	}

	file, err := s.drive.Upload(ctx, token.AccessToken, name, mimeType, data)
	if err != nil {
		return entity.Document{}, fmt.Errorf("upload document: %w: %w", entity.ErrRemote, err)
	}

	doc, err := s.collections.Documents.Add(ctx, entity.Document{
		Name:         name,
		Category:     category,
		DriveFileID:  file.ID,
		WebViewLink:  file.WebViewLink,
		DownloadLink: file.DownloadLink,
		SizeBytes:    int64(len(data)),
	})
	if err != nil {
		return entity.Document{}, fmt.Errorf("upload document: %w", err)
	}

	return doc, nil
}

func (s *Service) loadToken(ctx context.Context, userID uuid.UUID) (entity.DriveToken, error) {
	rows, err := s.tables.Select(ctx, tablestore.Query{
		Table: "drive_tokens",
		Eq:    map[string]any{"user_id": userID},
	})
	if err != nil {
		return entity.DriveToken{}, fmt.Errorf("load drive token: %w: %w", entity.ErrRemote, err)
	}

	if len(rows) == 0 {
		return entity.DriveToken{}, entity.ErrDriveNotLinked
	}

	token, err := codec.DriveToken{}.Decode(rows[0])
	if err != nil {
		return entity.DriveToken{}, fmt.Errorf("load drive token: %w", err)
	}

	if !token.IsConnected {
		return entity.DriveToken{}, entity.ErrDriveNotLinked
	}

	return token, nil
}

func (s *Service) saveToken(ctx context.Context, userID uuid.UUID, token drive.Token) error {
	now := s.now()

	stored := entity.DriveToken{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    now.Add(time.Duration(token.ExpiresIn) * time.Second),
		IsConnected:  true,
	}

	row := codec.DriveToken{}.Encode(stored)

	existing, err := s.tables.Select(ctx, tablestore.Query{
		Table: "drive_tokens",
		Eq:    map[string]any{"user_id": userID},
	})
	if err != nil {
		return fmt.Errorf("save drive token: %w: %w", entity.ErrRemote, err)
	}

	if len(existing) == 0 {
		if _, err := s.tables.Insert(ctx, "drive_tokens", row); err != nil {
			return fmt.Errorf("save drive token: %w: %w", entity.ErrRemote, err)
		}

		return nil
	}

	current, err := codec.DriveToken{}.Decode(existing[0])
	if err != nil {
		return fmt.Errorf("save drive token: %w", err)
	}

	row["updated_at"] = now

	if err := s.tables.Update(ctx, "drive_tokens", current.ID, map[string]any{"user_id": userID}, row); err != nil {
		return fmt.Errorf("save drive token: %w: %w", entity.ErrRemote, err)
	}

	return nil
}
