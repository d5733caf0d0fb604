package models

import "time"

// Board is the row locked while a layer is appended. LayerCount is kept in
// step with the number of layers so the cap check needs no COUNT(*).
type Board struct {
	ID         string    `json:"id" gorm:"type:varchar(128);primaryKey"`
	LayerCount int       `json:"layer_count" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Board) TableName() string {
	return "boards"
}
