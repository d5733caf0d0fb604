package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardai/boardai/types"
)

type Layer struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BoardID   string    `json:"board_id" gorm:"type:varchar(128);not null;uniqueIndex:idx_layers_board_position"`
	Board     Board     `json:"-" gorm:"foreignKey:BoardID;references:ID;constraint:OnDelete:CASCADE"`
	Position  int       `json:"position" gorm:"not null;uniqueIndex:idx_layers_board_position"`
	Type      string    `json:"type" gorm:"type:varchar(16);not null"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	FillR     int       `json:"fill_r"`
	FillG     int       `json:"fill_g"`
	FillB     int       `json:"fill_b"`
	Value     string    `json:"value" gorm:"type:text;default:''"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Layer) TableName() string {
	return "layers"
}

// BeforeCreate assigns the id in Go so the schema works on any dialect.
func (l *Layer) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (l Layer) Spec() types.LayerSpec {
	return types.LayerSpec{
		Type:   types.LayerType(l.Type),
		X:      l.X,
		Y:      l.Y,
		Width:  l.Width,
		Height: l.Height,
		Fill:   types.Color{R: l.FillR, G: l.FillG, B: l.FillB},
		Value:  l.Value,
	}
}

func LayerFromSpec(boardID string, spec types.LayerSpec) Layer {
	return Layer{
		BoardID: boardID,
		Type:    string(spec.Type),
		X:       spec.X,
		Y:       spec.Y,
		Width:   spec.Width,
		Height:  spec.Height,
		FillR:   spec.Fill.R,
		FillG:   spec.Fill.G,
		FillB:   spec.Fill.B,
		Value:   spec.Value,
	}
}

func (l Layer) View() types.Layer {
	return types.Layer{
		ID:        l.ID.String(),
		BoardID:   l.BoardID,
		Position:  l.Position,
		LayerSpec: l.Spec(),
		CreatedBy: l.CreatedBy,
	}
}
