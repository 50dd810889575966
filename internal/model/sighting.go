package model

import "time"

type Sighting struct {
	ID            int64
	UserChatID    int64
	MattoID       int64
	MattoName     string
	PointsAwarded int
	FileID        string
	CreatedAt     time.Time
}

// PendingReport is the target snapshot taken when a user picks a matto,
// waiting for the photo that completes the report.
type PendingReport struct {
	MattoID   int64
	MattoName string
	Points    int
	Username  string
	FirstName string
}

// ReportResult is what a completed report produced.
type ReportResult struct {
	Sighting    *Sighting
	TotalPoints int
}

// MattoSighting is a row of a matto's gallery, joined with the reporter.
type MattoSighting struct {
	SightingID int64
	FileID     string
	CreatedAt  time.Time
	ChatID     int64
	Username   string
	FirstName  string
}

func (s *MattoSighting) Reporter() string {
	return DisplayName(s.ChatID, s.Username, s.FirstName)
}

type GalleryPhoto struct {
	SightingID int64
	FileID     string
	CreatedAt  time.Time
}

// GalleryGroup aggregates one user's sightings of a single matto.
type GalleryGroup struct {
	MattoName   string
	Count       int
	TotalPoints int
	Photos      []GalleryPhoto
}

// UserGallery lists groups ordered by their most recent sighting.
type UserGallery struct {
	ChatID int64
	Groups []*GalleryGroup
}

func (g *UserGallery) Empty() bool {
	return g == nil || len(g.Groups) == 0
}

// FeedEvent is published on the live feed whenever a sighting is recorded.
type FeedEvent struct {
	Type        string    `json:"type"`
	SightingID  int64     `json:"sighting_id"`
	ChatID      int64     `json:"chat_id"`
	Reporter    string    `json:"reporter"`
	MattoID     int64     `json:"matto_id"`
	MattoName   string    `json:"matto_name"`
	Points      int       `json:"points"`
	TotalPoints int       `json:"total_points"`
	CreatedAt   time.Time `json:"created_at"`
}

const FeedEventSighting = "SIGHTING_RECORDED"
