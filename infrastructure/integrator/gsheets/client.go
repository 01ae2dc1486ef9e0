// Package gsheets talks to the Google Sheets v4 API with the retry policy the
// tracker relies on: every call is attempted several times with a long pause
// in between, and a short pause follows every successful call.
package gsheets

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/adlibrary-tracker/internal/config"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const userEntered = "USER_ENTERED"

var ErrSheetNotFound = errors.New("sheet not found")

//go:generate mockgen -source=client.go -destination=mocks/client.go -package=mocks

// Client is the subset of the Sheets API used by the repositories
type Client interface {
	// Values reads a range. Trailing empty cells and rows are omitted by the API.
	Values(ctx context.Context, rng string) ([][]interface{}, error)
	Clear(ctx context.Context, rng string) error
	AppendRow(ctx context.Context, rng string, row []string) error
	// InsertAndPaste inserts one row below the header of the sheet and pastes
	// the delimited data starting at rowIndex
	InsertAndPaste(ctx context.Context, sheetTitle string, rowIndex int64, data, delimiter string) error
}

// RetryPolicy controls how calls are repeated
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	CallDelay   time.Duration
}

type SheetsClient struct {
	svc           *sheets.Service
	spreadsheetID string
	policy        RetryPolicy

	mu       sync.Mutex
	sheetIDs map[string]int64
}

// New creates a client authenticated with the service account key file
func New(ctx context.Context, cfg *config.Config) (*SheetsClient, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.Sheets.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sheets service")
	}

	return NewWithService(svc, cfg.Sheets.SpreadsheetID, RetryPolicy{
		MaxAttempts: cfg.Sheets.MaxRetries,
		Delay:       cfg.Sheets.RetryDelay,
		CallDelay:   cfg.Sheets.CallDelay,
	}), nil
}

// NewWithService wraps an existing sheets service
func NewWithService(svc *sheets.Service, spreadsheetID string, policy RetryPolicy) *SheetsClient {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &SheetsClient{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		policy:        policy,
		sheetIDs:      make(map[string]int64),
	}
}

func (c *SheetsClient) Values(ctx context.Context, rng string) ([][]interface{}, error) {
	var values [][]interface{}
	err := c.do(ctx, "get "+rng, func() error {
		resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
		if err != nil {
			return err
		}
		values = resp.Values
		return nil
	})
	return values, err
}

func (c *SheetsClient) Clear(ctx context.Context, rng string) error {
	return c.do(ctx, "clear "+rng, func() error {
		_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
		return err
	})
}

func (c *SheetsClient) AppendRow(ctx context.Context, rng string, row []string) error {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}

	return c.do(ctx, "append "+rng, func() error {
		_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &sheets.ValueRange{
			MajorDimension: "ROWS",
			Values:         [][]interface{}{cells},
		}).ValueInputOption(userEntered).Context(ctx).Do()
		return err
	})
}

func (c *SheetsClient) InsertAndPaste(ctx context.Context, sheetTitle string, rowIndex int64, data, delimiter string) error {
	sheetID, err := c.SheetID(ctx, sheetTitle)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				InsertDimension: &sheets.InsertDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "ROWS",
						StartIndex: rowIndex,
						EndIndex:   rowIndex + 1,
					},
					InheritFromBefore: false,
				},
			},
			{
				PasteData: &sheets.PasteDataRequest{
					Coordinate: &sheets.GridCoordinate{
						SheetId:     sheetID,
						RowIndex:    rowIndex,
						ColumnIndex: 0,
					},
					Data:      data,
					Delimiter: delimiter,
					Type:      "PASTE_NORMAL",
				},
			},
		},
	}

	return c.do(ctx, "paste "+sheetTitle, func() error {
		_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
		return err
	})
}

// SheetID resolves the numeric id of a tab by its title
func (c *SheetsClient) SheetID(ctx context.Context, title string) (int64, error) {
	c.mu.Lock()
	id, ok := c.sheetIDs[title]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	var spreadsheet *sheets.Spreadsheet
	err := c.do(ctx, "metadata", func() error {
		var err error
		spreadsheet, err = c.svc.Spreadsheets.Get(c.spreadsheetID).
			Fields("sheets.properties.sheetId", "sheets.properties.title").
			Context(ctx).Do()
		return err
	})
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties == nil {
			continue
		}
		c.sheetIDs[sheet.Properties.Title] = sheet.Properties.SheetId
	}

	id, ok = c.sheetIDs[title]
	if !ok {
		return 0, errors.Wrapf(ErrSheetNotFound, "title %q", title)
	}
	return id, nil
}

// do runs fn under the retry policy
func (c *SheetsClient) do(ctx context.Context, op string, fn func() error) error {
	logger := log.ForContext(ctx).WithField("operation", op)

	var err error
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			// the call already landed, a cancelled pacing delay is not a failure
			_ = wait(ctx, c.policy.CallDelay)
			return nil
		}

		if !retryable(err) || attempt == c.policy.MaxAttempts {
			break
		}

		logger.WithError(err).Warnf("Sheets call failed (attempt %d/%d), retrying in %s",
			attempt, c.policy.MaxAttempts, c.policy.Delay)

		if waitErr := wait(ctx, c.policy.Delay); waitErr != nil {
			return errors.Wrapf(waitErr, "sheets %s cancelled", op)
		}
	}

	return errors.Wrapf(err, "sheets %s failed", op)
}

func retryable(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
