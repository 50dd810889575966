package model

type Matto struct {
	ID     int64
	Name   string
	Points int
}

// CatalogEntry is one parsed line of a catalog upload.
type CatalogEntry struct {
	Name   string
	Points int
}
