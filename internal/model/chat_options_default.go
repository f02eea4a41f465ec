package model

import "time"

// ScopeGlobal is the scope of the single platform-wide default record.
// Section-scoped defaults use the section's public ID as scope.
const ScopeGlobal = "global"

// ChatOptionsDefault stores one complete options record per scope. The
// global record always exists (seeded at migration); section records are
// optional.
type ChatOptionsDefault struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	Scope     string      `json:"scope" gorm:"not null;uniqueIndex"`
	Options   ChatOptions `json:"options" gorm:"type:jsonb;serializer:json"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
