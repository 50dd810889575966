package service

import (
	"context"
	"errors"
	"io"

	"fantamatto_bot/internal/model"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrMattoNotFound    = errors.New("matto not found")
	ErrSightingNotFound = errors.New("sighting not found")
	ErrNotRegistered    = errors.New("user is not registered")
	ErrWrongPassword    = errors.New("wrong registration password")

	// ErrRecipientUnreachable marks a send that failed because the chat
	// blocked the bot, was deleted or deactivated. Messengers wrap it.
	ErrRecipientUnreachable = errors.New("recipient unreachable")
)

type Service struct {
	Users     *UserService
	Catalog   *CatalogService
	Sightings *SightingService
	Broadcast *BroadcastService
}

func NewService(users *UserService, catalog *CatalogService, sightings *SightingService, broadcast *BroadcastService) *Service {
	return &Service{
		Users:     users,
		Catalog:   catalog,
		Sightings: sightings,
		Broadcast: broadcast,
	}
}

type UserServiceI interface {
	Start(ctx context.Context, chatID int64, username, firstName string) (*model.User, error)
	Register(ctx context.Context, chatID int64, password string) error
	GetUser(ctx context.Context, chatID int64) (*model.User, error)
	IsRegistered(ctx context.Context, chatID int64) (bool, error)
	Standing(ctx context.Context, chatID int64) (*model.Standing, error)
	Leaderboard(ctx context.Context, limit int) ([]*model.User, error)
	ListRegistered(ctx context.Context) ([]*model.User, error)
}

type CatalogServiceI interface {
	Reload(ctx context.Context, r io.Reader) (*ReloadResult, error)
	List(ctx context.Context) ([]*model.Matto, error)
	Get(ctx context.Context, id int64) (*model.Matto, error)
}

type SightingServiceI interface {
	Select(ctx context.Context, mattoID int64, username, firstName string) (*model.PendingReport, error)
	Report(ctx context.Context, chatID int64, pending model.PendingReport, fileID string) (*model.ReportResult, error)
	Delete(ctx context.Context, sightingID int64) (*model.Sighting, error)
	MattoGallery(ctx context.Context, mattoID int64) (*model.Matto, []*model.MattoSighting, error)
	UserGallery(ctx context.Context, chatID int64) (*model.User, *model.UserGallery, error)
}

type UserRepository interface {
	UpsertUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, chatID int64) (*model.User, error)
	SetRegistered(ctx context.Context, chatID int64, registered bool) error
	ListRegisteredUsers(ctx context.Context) ([]*model.User, error)
	Leaderboard(ctx context.Context, limit int) ([]*model.User, error)
	RankAndPoints(ctx context.Context, chatID int64) (*model.Standing, error)
}

type CatalogRepository interface {
	ReloadCatalog(ctx context.Context, entries []model.CatalogEntry) (int, error)
	ListCatalog(ctx context.Context) ([]*model.Matto, error)
	GetMatto(ctx context.Context, id int64) (*model.Matto, error)
}

type SightingRepository interface {
	GetUser(ctx context.Context, chatID int64) (*model.User, error)
	GetMatto(ctx context.Context, id int64) (*model.Matto, error)
	RecordSighting(ctx context.Context, s *model.Sighting) (int, error)
	DeleteSighting(ctx context.Context, id int64) (*model.Sighting, error)
	GalleryForMatto(ctx context.Context, mattoID int64) ([]*model.MattoSighting, error)
	GalleryForUser(ctx context.Context, chatID int64) (*model.UserGallery, error)
}

type BroadcastRepository interface {
	ListRegisteredIDs(ctx context.Context) ([]int64, error)
	SetRegistered(ctx context.Context, chatID int64, registered bool) error
}

// Messenger delivers broadcast content to a single chat.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error
}

type Publisher interface {
	Publish(event model.FeedEvent) int
}
