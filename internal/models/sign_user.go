package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SignUser is the per-group sign-in state of a chat member.
type SignUser struct {
	bun.BaseModel `bun:"table:sign_user"`
	GroupID       string    `bun:"group_id,pk" json:"group_id"`
	UserID        string    `bun:"user_id,pk" json:"user_id"`
	Affection     int       `bun:"affection,notnull" json:"affection"`
	LastSign      time.Time `bun:"last_sign,type:date,notnull" json:"last_sign"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updated_at"`
}
