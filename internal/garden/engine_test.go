package garden_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edge-social/edge-sync/internal/cache"
	"github.com/edge-social/edge-sync/internal/garden"
	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/remote"
)

type stubCall struct {
	Method string
	ID     models.ID
}

type stubCaller struct {
	mu     sync.Mutex
	calls  []stubCall
	result remote.Result
	err    error
}

func (s *stubCaller) Call(_ context.Context, method, _ string, _ any, id models.ID) (remote.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, stubCall{Method: method, ID: id})
	return s.result, s.err
}

func (s *stubCaller) recorded() []stubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stubCall(nil), s.calls...)
}

func newEngine(t *testing.T, window time.Duration) (*garden.Engine, *cache.Store, *garden.Autosaver, *stubCaller) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	store := cache.NewStore(logger)
	rc := &stubCaller{}
	autosaver := garden.NewAutosaver(store, rc, window, logger)
	return garden.NewEngine(store, autosaver, logger), store, autosaver, rc
}

func TestStageAtCapsAtMaxStage(t *testing.T) {
	plantedAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	plot := models.Plot{PlantType: "rose", PlantedAt: models.FormatTimestamp(plantedAt)}
	rose := garden.Catalogue["rose"]
	require.Equal(t, 8*time.Hour, rose.StageInterval)
	require.Equal(t, 5, rose.MaxStage)

	cases := []struct {
		name     string
		elapsed  time.Duration
		watered  int
		expected int
	}{
		{name: "just planted", elapsed: 0, watered: 0, expected: 0},
		{name: "one interval", elapsed: 8 * time.Hour, watered: 0, expected: 1},
		{name: "watering advances growth", elapsed: 8 * time.Hour, watered: 2, expected: 3},
		{name: "forty hours caps at max", elapsed: 40 * time.Hour, watered: 0, expected: 5},
		{name: "beyond max stays capped", elapsed: 100 * time.Hour, watered: 3, expected: 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := plot
			p.TimesWatered = tc.watered
			require.Equal(t, tc.expected, garden.StageAt(p, rose, plantedAt.Add(tc.elapsed)))
		})
	}
}

func TestStageAtUnparseableTimestamp(t *testing.T) {
	plot := models.Plot{PlantType: "rose", PlantedAt: "garbage"}
	require.Zero(t, garden.StageAt(plot, garden.Catalogue["rose"], time.Now()))
}

func TestNewStateHasSixPlots(t *testing.T) {
	state := garden.NewState("u1")
	require.Len(t, state.Plots, garden.PlotCount)
	for _, plot := range state.Plots {
		require.True(t, plot.Empty())
	}
	require.NotEmpty(t, state.Shop)
}

func TestPlantConsumesSeed(t *testing.T) {
	engine, store, _, _ := newEngine(t, time.Hour)
	store.UpsertGarden(garden.NewState("u1"))

	state, err := engine.Plant("u1", 0, "sunflower")
	require.NoError(t, err)
	require.Equal(t, 1, state.Seeds["sunflower"])
	require.Equal(t, "sunflower", state.Plots[0].PlantType)
	require.NotEmpty(t, state.Plots[0].PlantedAt)

	_, err = engine.Plant("u1", 0, "sunflower")
	require.ErrorIs(t, err, garden.ErrPlotOccupied)

	_, err = engine.Plant("u1", 1, "rose")
	require.ErrorIs(t, err, garden.ErrNoSeeds)

	_, err = engine.Plant("u1", 9, "sunflower")
	require.ErrorIs(t, err, garden.ErrPlotOutOfRange)

	_, err = engine.Plant("u1", 1, "tumbleweed")
	require.ErrorIs(t, err, garden.ErrUnknownPlant)
}

func TestWaterSpendsDropAndAdvancesGrowth(t *testing.T) {
	engine, store, _, _ := newEngine(t, time.Hour)
	store.UpsertGarden(garden.NewState("u1"))

	_, err := engine.Plant("u1", 0, "sunflower")
	require.NoError(t, err)

	state, err := engine.Water("u1", 0)
	require.NoError(t, err)
	require.Equal(t, 4, state.WaterDrops)
	require.Equal(t, 1, state.Plots[0].TimesWatered)

	_, err = engine.Water("u1", 1)
	require.ErrorIs(t, err, garden.ErrPlotEmpty)
}

func TestWaterRefusesFullyGrownPlant(t *testing.T) {
	engine, store, _, _ := newEngine(t, time.Hour)
	state := garden.NewState("u1")
	state.Plots[0] = models.Plot{
		PlantType: "sunflower",
		PlantedAt: models.FormatTimestamp(time.Now().Add(-48 * time.Hour)),
	}
	store.UpsertGarden(state)

	_, err := engine.Water("u1", 0)
	require.ErrorIs(t, err, garden.ErrNotMature)
}

func TestHarvestPaysOutAndClearsPlot(t *testing.T) {
	engine, store, _, _ := newEngine(t, time.Hour)
	state := garden.NewState("u1")
	state.Plots[0] = models.Plot{
		PlantType: "rose",
		PlantedAt: models.FormatTimestamp(time.Now().Add(-48 * time.Hour)),
	}
	store.UpsertGarden(state)

	rose := garden.Catalogue["rose"]
	harvested, err := engine.Harvest("u1", 0)
	require.NoError(t, err)
	require.Equal(t, state.Coins+rose.HarvestCoins, harvested.Coins)
	require.Equal(t, rose.HarvestPoints, harvested.Points)
	require.True(t, harvested.Plots[0].Empty())
}

func TestHarvestRejectsImmaturePlant(t *testing.T) {
	engine, store, _, _ := newEngine(t, time.Hour)
	store.UpsertGarden(garden.NewState("u1"))

	_, err := engine.Plant("u1", 0, "sunflower")
	require.NoError(t, err)

	_, err = engine.Harvest("u1", 0)
	require.ErrorIs(t, err, garden.ErrNotMature)
}

func TestBuySeed(t *testing.T) {
	engine, store, _, _ := newEngine(t, time.Hour)
	store.UpsertGarden(garden.NewState("u1"))

	state, err := engine.BuySeed("u1", "tomato")
	require.NoError(t, err)
	require.Equal(t, 1, state.Seeds["tomato"])
	require.Equal(t, 20-garden.Catalogue["tomato"].SeedCost, state.Coins)

	for _, item := range state.Shop {
		if item.PlantType == "tomato" {
			require.Equal(t, garden.Catalogue["tomato"].ShopStock-1, item.Stock)
		}
	}
}

func TestBuySeedRequiresCoinsAndStock(t *testing.T) {
	engine, store, _, _ := newEngine(t, time.Hour)

	broke := garden.NewState("u1")
	broke.Coins = 0
	store.UpsertGarden(broke)
	_, err := engine.BuySeed("u1", "tomato")
	require.ErrorIs(t, err, garden.ErrNotEnoughCoins)

	empty := garden.NewState("u2")
	for i := range empty.Shop {
		empty.Shop[i].Stock = 0
	}
	store.UpsertGarden(empty)
	_, err = engine.BuySeed("u2", "tomato")
	require.ErrorIs(t, err, garden.ErrOutOfStock)
}

func TestCheckInOncePerDay(t *testing.T) {
	engine, store, _, _ := newEngine(t, time.Hour)
	store.UpsertGarden(garden.NewState("u1"))

	state, err := engine.CheckIn("u1")
	require.NoError(t, err)
	require.Equal(t, 8, state.WaterDrops)
	require.Equal(t, 30, state.Coins)
	require.NotEmpty(t, state.LastCheckIn)

	_, err = engine.CheckIn("u1")
	require.ErrorIs(t, err, garden.ErrAlreadyCheckedIn)
}

func TestRefreshShopRestocks(t *testing.T) {
	engine, store, _, _ := newEngine(t, time.Hour)
	state := garden.NewState("u1")
	for i := range state.Shop {
		state.Shop[i].Stock = 0
	}
	state.LastShopRefresh = models.FormatTimestamp(time.Now().Add(-48 * time.Hour))
	store.UpsertGarden(state)

	refreshed, err := engine.RefreshShop("u1")
	require.NoError(t, err)
	for _, item := range refreshed.Shop {
		require.Positive(t, item.Stock)
	}

	_, err = engine.RefreshShop("u1")
	require.ErrorIs(t, err, garden.ErrShopNotRefreshing)
}

func TestActionsRequireCachedGarden(t *testing.T) {
	engine, _, _, _ := newEngine(t, time.Hour)

	_, err := engine.Plant("ghost", 0, "sunflower")
	require.ErrorIs(t, err, garden.ErrGardenNotInCache)
}
