package garden

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/edge-social/edge-sync/internal/cache"
	"github.com/edge-social/edge-sync/internal/models"
)

// PlotCount is fixed for the lifetime of the game.
const PlotCount = 6

// Daily check-in rewards.
const (
	checkInWaterDrops = 3
	checkInCoins      = 10
)

const shopRefreshInterval = 24 * time.Hour

// Plant describes one species: how fast it grows, what its seeds cost and
// what a mature harvest pays out.
type Plant struct {
	Type          string
	StageInterval time.Duration
	MaxStage      int
	SeedCost      int
	HarvestCoins  int
	HarvestPoints int
	ShopStock     int
}

// Catalogue is the full set of growable plants, keyed by type.
var Catalogue = map[string]Plant{
	"sunflower": {Type: "sunflower", StageInterval: 4 * time.Hour, MaxStage: 4, SeedCost: 5, HarvestCoins: 12, HarvestPoints: 10, ShopStock: 8},
	"tomato":    {Type: "tomato", StageInterval: 6 * time.Hour, MaxStage: 4, SeedCost: 8, HarvestCoins: 20, HarvestPoints: 15, ShopStock: 6},
	"rose":      {Type: "rose", StageInterval: 8 * time.Hour, MaxStage: 5, SeedCost: 12, HarvestCoins: 35, HarvestPoints: 25, ShopStock: 4},
	"cactus":    {Type: "cactus", StageInterval: 12 * time.Hour, MaxStage: 3, SeedCost: 15, HarvestCoins: 45, HarvestPoints: 35, ShopStock: 3},
}

var (
	ErrUnknownPlant      = errors.New("unknown plant type")
	ErrPlotOutOfRange    = errors.New("plot index out of range")
	ErrPlotOccupied      = errors.New("plot already occupied")
	ErrPlotEmpty         = errors.New("nothing planted in plot")
	ErrNoSeeds           = errors.New("no seeds of that type")
	ErrNoWaterDrops      = errors.New("no water drops left")
	ErrNotMature         = errors.New("plant is not fully grown")
	ErrNotEnoughCoins    = errors.New("not enough coins")
	ErrOutOfStock        = errors.New("seed out of stock")
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrGardenNotInCache  = errors.New("garden state not in cache")
	ErrShopNotRefreshing = errors.New("shop was refreshed recently")
)

// StageAt computes growth purely from elapsed time since planting plus
// accumulated watering, capped at the plant's maximum stage.
func StageAt(plot models.Plot, plant Plant, at time.Time) int {
	plantedAt, ok := models.ParseTimestamp(plot.PlantedAt)
	if !ok {
		return 0
	}

	elapsed := at.Sub(plantedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	stage := int(elapsed/plant.StageInterval) + plot.TimesWatered
	if stage > plant.MaxStage {
		return plant.MaxStage
	}
	return stage
}

// Engine applies mini-game actions to the cached garden state. Every action
// is computed client-side; persistence happens through the autosaver's
// debounced writes rather than per action.
type Engine struct {
	store    *cache.Store
	autosave *Autosaver
	logger   zerolog.Logger
	now      func() time.Time
}

// NewEngine builds the engine around the cache and the autosaver.
func NewEngine(store *cache.Store, autosave *Autosaver, logger zerolog.Logger) *Engine {
	return &Engine{
		store:    store,
		autosave: autosave,
		logger:   logger.With().Str("component", "garden_engine").Logger(),
		now:      time.Now,
	}
}

// NewState returns a starter garden for a user who has never played.
func NewState(userID models.ID) models.GardenState {
	plots := make(models.PlotList, PlotCount)
	return models.GardenState{
		UserID:     userID,
		Plots:      plots,
		Seeds:      models.SeedCounts{"sunflower": 2},
		WaterDrops: 5,
		Coins:      20,
		Shop:       shopSnapshot(),
	}
}

func shopSnapshot() []models.ShopItem {
	items := make([]models.ShopItem, 0, len(Catalogue))
	for _, plant := range Catalogue {
		items = append(items, models.ShopItem{
			PlantType: plant.Type,
			SeedPrice: plant.SeedCost,
			Stock:     plant.ShopStock,
		})
	}
	return items
}

func (e *Engine) state(userID models.ID) (models.GardenState, error) {
	state, ok := e.store.FindGarden(userID)
	if !ok {
		return models.GardenState{}, ErrGardenNotInCache
	}
	if len(state.Plots) < PlotCount {
		padded := make(models.PlotList, PlotCount)
		copy(padded, state.Plots)
		state.Plots = padded
	}
	return state, nil
}

func (e *Engine) commit(state models.GardenState) {
	e.store.UpsertGarden(state)
	e.autosave.MarkDirty(state.UserID)
}

// Plant sows a seed into an empty plot, consuming one seed of that type.
func (e *Engine) Plant(userID models.ID, plotIndex int, plantType string) (models.GardenState, error) {
	plant, ok := Catalogue[plantType]
	if !ok {
		return models.GardenState{}, ErrUnknownPlant
	}

	state, err := e.state(userID)
	if err != nil {
		return models.GardenState{}, err
	}
	if plotIndex < 0 || plotIndex >= PlotCount {
		return models.GardenState{}, ErrPlotOutOfRange
	}
	if !state.Plots[plotIndex].Empty() {
		return models.GardenState{}, ErrPlotOccupied
	}
	if state.Seeds[plant.Type] <= 0 {
		return models.GardenState{}, ErrNoSeeds
	}

	if state.Seeds == nil {
		state.Seeds = models.SeedCounts{}
	}
	state.Seeds[plant.Type]--
	state.Plots[plotIndex] = models.Plot{
		PlantType: plant.Type,
		PlantedAt: models.FormatTimestamp(e.now()),
	}

	e.commit(state)
	return state, nil
}

// Water spends one water drop to advance the plot's growth by one stage.
// Watering a fully grown plant is refused so drops are never wasted.
func (e *Engine) Water(userID models.ID, plotIndex int) (models.GardenState, error) {
	state, err := e.state(userID)
	if err != nil {
		return models.GardenState{}, err
	}
	if plotIndex < 0 || plotIndex >= PlotCount {
		return models.GardenState{}, ErrPlotOutOfRange
	}

	plot := state.Plots[plotIndex]
	if plot.Empty() {
		return models.GardenState{}, ErrPlotEmpty
	}
	if state.WaterDrops <= 0 {
		return models.GardenState{}, ErrNoWaterDrops
	}

	plant := Catalogue[plot.PlantType]
	if StageAt(plot, plant, e.now()) >= plant.MaxStage {
		return models.GardenState{}, ErrNotMature
	}

	state.WaterDrops--
	state.Plots[plotIndex].TimesWatered++

	e.commit(state)
	return state, nil
}

// Harvest clears a fully grown plot and pays out the plant's rewards.
func (e *Engine) Harvest(userID models.ID, plotIndex int) (models.GardenState, error) {
	state, err := e.state(userID)
	if err != nil {
		return models.GardenState{}, err
	}
	if plotIndex < 0 || plotIndex >= PlotCount {
		return models.GardenState{}, ErrPlotOutOfRange
	}

	plot := state.Plots[plotIndex]
	if plot.Empty() {
		return models.GardenState{}, ErrPlotEmpty
	}

	plant := Catalogue[plot.PlantType]
	if StageAt(plot, plant, e.now()) < plant.MaxStage {
		return models.GardenState{}, ErrNotMature
	}

	state.Coins += plant.HarvestCoins
	state.Points += plant.HarvestPoints
	state.Plots[plotIndex] = models.Plot{}

	e.commit(state)
	return state, nil
}

// BuySeed exchanges coins for one seed, drawing down the shop's stock.
func (e *Engine) BuySeed(userID models.ID, plantType string) (models.GardenState, error) {
	if _, ok := Catalogue[plantType]; !ok {
		return models.GardenState{}, ErrUnknownPlant
	}

	state, err := e.state(userID)
	if err != nil {
		return models.GardenState{}, err
	}

	itemIndex := -1
	for i, item := range state.Shop {
		if item.PlantType == plantType {
			itemIndex = i
			break
		}
	}
	if itemIndex < 0 || state.Shop[itemIndex].Stock <= 0 {
		return models.GardenState{}, ErrOutOfStock
	}
	if state.Coins < state.Shop[itemIndex].SeedPrice {
		return models.GardenState{}, ErrNotEnoughCoins
	}

	state.Coins -= state.Shop[itemIndex].SeedPrice
	state.Shop[itemIndex].Stock--
	if state.Seeds == nil {
		state.Seeds = models.SeedCounts{}
	}
	state.Seeds[plantType]++

	e.commit(state)
	return state, nil
}

// CheckIn grants the once-per-day login reward of water drops and coins.
func (e *Engine) CheckIn(userID models.ID) (models.GardenState, error) {
	state, err := e.state(userID)
	if err != nil {
		return models.GardenState{}, err
	}

	today := e.now().UTC().Format("2006-01-02")
	if last, ok := models.ParseTimestamp(state.LastCheckIn); ok && last.UTC().Format("2006-01-02") == today {
		return models.GardenState{}, ErrAlreadyCheckedIn
	}

	state.WaterDrops += checkInWaterDrops
	state.Coins += checkInCoins
	state.LastCheckIn = models.FormatTimestamp(e.now())

	e.commit(state)
	return state, nil
}

// RefreshShop restocks the shop from the catalogue once the refresh interval
// has passed since the last restock.
func (e *Engine) RefreshShop(userID models.ID) (models.GardenState, error) {
	state, err := e.state(userID)
	if err != nil {
		return models.GardenState{}, err
	}

	if last, ok := models.ParseTimestamp(state.LastShopRefresh); ok {
		if e.now().Sub(last) < shopRefreshInterval {
			return models.GardenState{}, ErrShopNotRefreshing
		}
	}

	state.Shop = shopSnapshot()
	state.LastShopRefresh = models.FormatTimestamp(e.now())

	e.commit(state)
	return state, nil
}
