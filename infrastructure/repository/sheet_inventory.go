// Package repository contains the stores behind the tracking use case
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/adlibrary-tracker/infrastructure/integrator/gsheets"
	"github.com/vfg2006/adlibrary-tracker/internal/codec"
	"github.com/vfg2006/adlibrary-tracker/internal/domain"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
)

// persistTimeout bounds a detached clear and paste, retries included
const persistTimeout = 10 * time.Minute

// SheetInventoryRepository keeps each partition in a spreadsheet tab, one
// record per row starting at firstRow
type SheetInventoryRepository struct {
	client   gsheets.Client
	layout   codec.Layout
	firstRow int
	maxRow   int
}

func NewSheetInventoryRepository(client gsheets.Client, layout codec.Layout, firstRow, maxRow int) *SheetInventoryRepository {
	return &SheetInventoryRepository{
		client:   client,
		layout:   layout,
		firstRow: firstRow,
		maxRow:   maxRow,
	}
}

// Load reads every stored row of the partition. Corrupt cells are logged and
// dropped from the record; they never fail the load.
func (r *SheetInventoryRepository) Load(ctx context.Context, partition string) (*domain.Inventory, error) {
	logger := log.ForContext(ctx).WithField("partition", partition)

	values, err := r.client.Values(ctx, r.dataRange(partition))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read partition %q", partition)
	}

	records := make([]*domain.AdRecord, 0, len(values))
	for i, row := range values {
		columns := make([]string, len(row))
		for j, v := range row {
			columns[j] = cellText(v)
		}

		record, errs := codec.DecodeRow(columns, r.layout)
		if record == nil {
			continue
		}

		for _, decodeErr := range errs {
			logger.WithFields(log.Fields{
				"brand":       record.BrandName,
				"creative_id": record.CreativeID,
				"row":         r.firstRow + i,
			}).WithError(decodeErr).Warn("Corrupt cell in stored row")
		}

		records = append(records, record)
	}

	inventory, duplicates := domain.NewInventory(records)
	for _, key := range duplicates {
		logger.WithFields(log.Fields{
			"brand":       key.Brand,
			"creative_id": key.CreativeID,
		}).Warn("Creative stored more than once, only the first row is tracked")
	}

	logger.WithField("records", inventory.Len()).Debug("Partition loaded")

	return inventory, nil
}

// Save replaces the rows of the partition with the inventory in order. Once
// the clear starts the write runs to completion even if ctx is cancelled, so
// a shutdown never leaves the partition empty.
func (r *SheetInventoryRepository) Save(ctx context.Context, partition string, inventory *domain.Inventory) error {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := r.client.Clear(writeCtx, r.dataRange(partition)); err != nil {
		return errors.Wrapf(err, "failed to clear partition %q", partition)
	}

	if inventory == nil || inventory.Len() == 0 {
		return nil
	}

	payload := codec.JoinRows(codec.EncodeRows(inventory.Records(), r.layout))
	rowIndex := int64(r.firstRow - 1)

	if err := r.client.InsertAndPaste(writeCtx, partition, rowIndex, payload, codec.FieldSeparator); err != nil {
		return errors.Wrapf(err, "failed to write partition %q", partition)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"partition": partition,
		"records":   inventory.Len(),
	}).Debug("Partition saved")

	return nil
}

func (r *SheetInventoryRepository) dataRange(partition string) string {
	return fmt.Sprintf("%s!A%d:%s%d", quoteSheet(partition), r.firstRow, r.layout.LastColumn(), r.maxRow)
}

// quoteSheet renders a tab title for A1 notation
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// cellText converts an API cell to text without normalizing it
func cellText(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}
