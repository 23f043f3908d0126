package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/erp/stockdesk/internal/domain/inventory"
)

// StockMovementModel is the append-only audit row of one stock adjustment.
type StockMovementModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Mode           string    `gorm:"type:varchar(20);not null"`
	RequestedValue int64     `gorm:"not null"`
	OldQuantity    int64     `gorm:"not null"`
	NewQuantity    int64     `gorm:"not null"`
	Delta          int64     `gorm:"not null"`
	Reason         string    `gorm:"type:varchar(500)"`
	Source         string    `gorm:"type:varchar(20);not null"`
	CreatedAt      time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the model to a domain movement
func (m *StockMovementModel) ToDomain() inventory.StockMovement {
	return inventory.StockMovement{
		ID:             m.ID,
		ProductID:      m.ProductID,
		Mode:           inventory.AdjustmentMode(m.Mode),
		RequestedValue: m.RequestedValue,
		OldQuantity:    m.OldQuantity,
		NewQuantity:    m.NewQuantity,
		Delta:          m.Delta,
		Reason:         m.Reason,
		Source:         m.Source,
		CreatedAt:      m.CreatedAt,
	}
}

// StockMovementModelFromDomain builds a model from a domain movement
func StockMovementModelFromDomain(mv *inventory.StockMovement) *StockMovementModel {
	return &StockMovementModel{
		ID:             mv.ID,
		ProductID:      mv.ProductID,
		Mode:           string(mv.Mode),
		RequestedValue: mv.RequestedValue,
		OldQuantity:    mv.OldQuantity,
		NewQuantity:    mv.NewQuantity,
		Delta:          mv.Delta,
		Reason:         mv.Reason,
		Source:         mv.Source,
		CreatedAt:      mv.CreatedAt,
	}
}
