package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planche-service/internal/domain/entity"
	"planche-service/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRosterRepository implements the RosterRepository interface
type GormRosterRepository struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

// NewGormRosterRepository creates a new GORM roster repository
func NewGormRosterRepository(db *gorm.DB, queryTimeout time.Duration) repository.RosterRepository {
	return &GormRosterRepository{
		db:           db,
		queryTimeout: queryTimeout,
	}
}

// Roster GORM model for database mapping
type Roster struct {
	ID         uint           `gorm:"primaryKey"`
	Day        string         `gorm:"column:day;uniqueIndex;size:10"`
	WinchPilot string         `gorm:"column:winch_pilot"`
	Winch      string         `gorm:"column:winch"`
	TowPilot   string         `gorm:"column:tow_pilot"`
	TowPlane   string         `gorm:"column:tow_plane"`
	FieldChief string         `gorm:"column:field_chief"`
	Flights    []RosterFlight `gorm:"foreignKey:RosterID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides the default table name
func (Roster) TableName() string {
	return "rosters"
}

// RosterFlight GORM model, Position keeps the arrival order
type RosterFlight struct {
	ID                  uint   `gorm:"primaryKey"`
	RosterID            uint   `gorm:"column:roster_id;index"`
	Position            int    `gorm:"column:position"`
	OgnNumber           int    `gorm:"column:ogn_number"`
	TakeoffCode         string `gorm:"column:takeoff_code"`
	TakeoffMachine      string `gorm:"column:takeoff_machine"`
	TakeoffMachinePilot string `gorm:"column:takeoff_machine_pilot"`
	Glider              string `gorm:"column:glider"`
	FlightCode          string `gorm:"column:flight_code"`
	Pilot1              string `gorm:"column:pilot1"`
	Pilot2              string `gorm:"column:pilot2"`
	TakeoffMinute       int    `gorm:"column:takeoff_minute"`
	LandingMinute       int    `gorm:"column:landing_minute"`
}

// TableName overrides the default table name
func (RosterFlight) TableName() string {
	return "roster_flights"
}

// Migrate creates or updates the roster tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Roster{}, &RosterFlight{})
}

// FindByDate loads the roster stored for date
func (r *GormRosterRepository) FindByDate(ctx context.Context, date entity.Date) (*entity.DailyRoster, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var model Roster
	result := r.db.WithContext(ctx).
		Preload("Flights", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("day = ?", date.String()).
		First(&model)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, repository.ErrRosterNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load roster %s: %w", date, result.Error)
	}

	// Convert GORM model to domain entity
	roster := entity.NewDailyRoster(date)
	roster.WinchPilot = model.WinchPilot
	roster.Winch = model.Winch
	roster.TowPilot = model.TowPilot
	roster.TowPlane = model.TowPlane
	roster.FieldChief = model.FieldChief
	for _, flight := range model.Flights {
		roster.Flights = append(roster.Flights, entity.FlightRecord{
			OgnNumber:           flight.OgnNumber,
			TakeoffCode:         flight.TakeoffCode,
			TakeoffMachine:      flight.TakeoffMachine,
			TakeoffMachinePilot: flight.TakeoffMachinePilot,
			Glider:              flight.Glider,
			FlightCode:          flight.FlightCode,
			Pilot1:              flight.Pilot1,
			Pilot2:              flight.Pilot2,
			Takeoff:             entity.TimeOfDay(flight.TakeoffMinute),
			Landing:             entity.TimeOfDay(flight.LandingMinute),
		})
	}
	return roster, nil
}

// Save upserts the roster row and replaces its flights in one transaction
func (r *GormRosterRepository) Save(ctx context.Context, roster *entity.DailyRoster) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := Roster{
			Day:        roster.Date.String(),
			WinchPilot: roster.WinchPilot,
			Winch:      roster.Winch,
			TowPilot:   roster.TowPilot,
			TowPlane:   roster.TowPlane,
			FieldChief: roster.FieldChief,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"winch_pilot", "winch", "tow_pilot", "tow_plane", "field_chief", "updated_at"}),
		}).Omit("Flights").Create(&model).Error
		if err != nil {
			return fmt.Errorf("failed to save roster %s: %w", roster.Date, err)
		}

		// The upsert does not report the id of an existing row on every driver
		var stored Roster
		if err := tx.Select("id").Where("day = ?", model.Day).First(&stored).Error; err != nil {
			return fmt.Errorf("failed to reload roster %s: %w", roster.Date, err)
		}

		if err := tx.Where("roster_id = ?", stored.ID).Delete(&RosterFlight{}).Error; err != nil {
			return fmt.Errorf("failed to clear flights of %s: %w", roster.Date, err)
		}
		if len(roster.Flights) == 0 {
			return nil
		}

		flights := make([]RosterFlight, 0, len(roster.Flights))
		for i, flight := range roster.Flights {
			flights = append(flights, RosterFlight{
				RosterID:            stored.ID,
				Position:            i,
				OgnNumber:           flight.OgnNumber,
				TakeoffCode:         flight.TakeoffCode,
				TakeoffMachine:      flight.TakeoffMachine,
				TakeoffMachinePilot: flight.TakeoffMachinePilot,
				Glider:              flight.Glider,
				FlightCode:          flight.FlightCode,
				Pilot1:              flight.Pilot1,
				Pilot2:              flight.Pilot2,
				TakeoffMinute:       int(flight.Takeoff),
				LandingMinute:       int(flight.Landing),
			})
		}
		if err := tx.Create(&flights).Error; err != nil {
			return fmt.Errorf("failed to save flights of %s: %w", roster.Date, err)
		}
		return nil
	})
}
