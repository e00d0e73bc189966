package query

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"supercollab/dao/model"
	"supercollab/ledger"
)

// Journal records every committed event in program_events.
type Journal struct {
	db *gorm.DB
}

func NewJournal(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

func (j *Journal) Publish(ctx context.Context, signature string, ev ledger.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	row := model.ProgramEvent{
		Signature: signature,
		Name:      ev.EventName(),
		Payload:   datatypes.JSON(payload),
	}
	if err := j.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to journal %s: %w", ev.EventName(), err)
	}
	return nil
}

// BySignature returns the events one operation emitted, oldest first.
func (j *Journal) BySignature(ctx context.Context, signature string) ([]model.ProgramEvent, error) {
	var rows []model.ProgramEvent
	err := j.db.WithContext(ctx).
		Where("signature = ?", signature).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events for %s: %w", signature, err)
	}
	return rows, nil
}
