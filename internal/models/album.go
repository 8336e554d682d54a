package models

import (
	"time"

	"github.com/uptrace/bun"
)

type AlbumEntry struct {
	bun.BaseModel `bun:"table:sign_album"`
	GroupID       string    `bun:"group_id,pk" json:"group_id"`
	UserID        string    `bun:"user_id,pk" json:"user_id"`
	StampID       string    `bun:"stamp_id,pk" json:"stamp_id"`
	Collected     bool      `bun:"collected,notnull" json:"collected"`
	CollectedAt   time.Time `bun:"collected_at,notnull" json:"collected_at"`
}

// CollectCount is one row of the per-group collection aggregate.
type CollectCount struct {
	UserID string `bun:"user_id" json:"user_id"`
	Stamps int    `bun:"stamps" json:"stamps"`
}

type AlbumView struct {
	GroupID string   `json:"group_id"`
	UserID  string   `json:"user_id"`
	Rank    int      `json:"rank"`
	Stamps  []string `json:"stamps"`
	Total   int      `json:"total"`
}
