package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/adlibrary-tracker/infrastructure/integrator/gsheets/mocks"
	"github.com/vfg2006/adlibrary-tracker/internal/codec"
	"github.com/vfg2006/adlibrary-tracker/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestSheetInventoryRepository_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	repo := NewSheetInventoryRepository(client, codec.LayoutHistory, 2, 90000)
	ctx := context.Background()

	client.EXPECT().Values(ctx, "'All Records'!A2:N90000").Return([][]interface{}{
		{"Acme", "Active", "1", "Header &amp; more", "", "", "", "2024-05-01 10:00:00", "2024-05-02 10:00:00", "May 1, 2024", "1 days", "", "", ""},
		{},
		{"Acme", "Active", "2", "", "", "", "", "2024-05-01 10:00:00", "2024-05-01 10:00:00", "", "oops", "2024-05-02 10:00:00", "", "[2024-05-02 10:00:00]: Ad has disappeared."},
		{"Acme", "Active", "1", "shadow"},
	}, nil)

	inv, err := repo.Load(ctx, "All Records")
	require.NoError(t, err)
	require.Equal(t, 3, inv.Len())

	first, ok := inv.Find(domain.Key{Brand: "Acme", CreativeID: "1"})
	require.True(t, ok)
	assert.Equal(t, "Header & more", first.AdHeader)
	require.NotNil(t, first.TotalRuntimeDays)
	assert.Equal(t, 1, *first.TotalRuntimeDays)

	second, ok := inv.Find(domain.Key{Brand: "Acme", CreativeID: "2"})
	require.True(t, ok)
	assert.Nil(t, second.TotalRuntimeDays)
	assert.True(t, second.IsDisappeared())
}

func TestSheetInventoryRepository_LoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	repo := NewSheetInventoryRepository(client, codec.LayoutClassic, 2, 90000)

	client.EXPECT().Values(gomock.Any(), gomock.Any()).Return(nil, errors.New("quota"))

	_, err := repo.Load(context.Background(), "All Records")
	assert.Error(t, err)
}

func TestSheetInventoryRepository_Save(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	repo := NewSheetInventoryRepository(client, codec.LayoutClassic, 2, 90000)
	ctx := context.Background()

	records := []*domain.AdRecord{
		{BrandName: "Acme", AdStatus: "Active", CreativeID: "1"},
		{BrandName: "Acme", AdStatus: "Active", CreativeID: "2"},
	}
	inv, _ := domain.NewInventory(records)
	wantPayload := codec.JoinRows(codec.EncodeRows(records, codec.LayoutClassic))

	gomock.InOrder(
		client.EXPECT().Clear(gomock.Any(), "'All Records'!A2:M90000").Return(nil),
		client.EXPECT().InsertAndPaste(gomock.Any(), "All Records", int64(1), wantPayload, ";%_").Return(nil),
	)

	require.NoError(t, repo.Save(ctx, "All Records", inv))
}

func TestSheetInventoryRepository_SaveSurvivesCancelAfterClear(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	repo := NewSheetInventoryRepository(client, codec.LayoutClassic, 2, 90000)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inv, _ := domain.NewInventory([]*domain.AdRecord{{BrandName: "Acme", AdStatus: "Active", CreativeID: "1"}})

	gomock.InOrder(
		client.EXPECT().Clear(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string) error {
				cancel()
				return nil
			}),
		client.EXPECT().InsertAndPaste(gomock.Any(), "All Records", int64(1), gomock.Any(), ";%_").
			DoAndReturn(func(writeCtx context.Context, _ string, _ int64, _, _ string) error {
				assert.NoError(t, writeCtx.Err())
				_, hasDeadline := writeCtx.Deadline()
				assert.True(t, hasDeadline)
				return nil
			}),
	)

	require.NoError(t, repo.Save(ctx, "All Records", inv))
	assert.Error(t, ctx.Err())
}

func TestSheetInventoryRepository_SaveEmptyOnlyClears(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	repo := NewSheetInventoryRepository(client, codec.LayoutClassic, 2, 90000)

	client.EXPECT().Clear(gomock.Any(), "'Brand''s Tab'!A2:M90000").Return(nil)

	empty, _ := domain.NewInventory(nil)
	require.NoError(t, repo.Save(context.Background(), "Brand's Tab", empty))
}

func TestSheetStatisticsRepository_Append(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	repo := NewSheetStatisticsRepository(client, "Daily Data!A2:G2")

	stats := domain.Statistics{Timestamp: "2024-05-01 10:00:00", Brand: "Acme", TotalActive: 4, NewAds: 1}
	client.EXPECT().
		AppendRow(gomock.Any(), "Daily Data!A2:G2", []string{"2024-05-01 10:00:00", "Acme", "4", "1", "0", "0", "0"}).
		Return(nil)

	require.NoError(t, repo.Append(context.Background(), stats))
}

func TestSheetTargetRepository_ListTargets(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	repo := NewSheetTargetRepository(client, "Config!A2:B500", "All Records")

	client.EXPECT().Values(gomock.Any(), "Config!A2:B500").Return([][]interface{}{
		{" https://library.example/?id=1 "},
		{},
		{"", "Other"},
		{"https://library.example/?id=2", "Brand Two"},
		{"https://library.example/?id=1", "Brand Two"},
		{"https://library.example/?id=3", ""},
	}, nil)

	targets, err := repo.ListTargets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Target{
		{URL: "https://library.example/?id=1", Partition: "All Records"},
		{URL: "https://library.example/?id=2", Partition: "Brand Two"},
		{URL: "https://library.example/?id=3", Partition: "All Records"},
	}, targets)
}
