// Command seeder loads a small idempotent fixture set: one floor of rooms
// and the stock service catalog. Safe to run repeatedly against the same
// database.
package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"grandstay/internal/adapters/observability"
	"grandstay/internal/domain"
	"grandstay/internal/shared"
	mysqlrepo "grandstay/internal/storage/mysql"
)

func svc(id int64, name string, pt domain.PricingType, price string, duration *string) domain.HotelService {
	return domain.HotelService{
		ID:          id,
		Name:        name,
		PricingType: pt,
		Price:       decimal.RequireFromString(price),
		Duration:    duration,
	}
}

func strPtr(s string) *string { return &s }

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	repo := mysqlrepo.New(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rooms := []domain.Room{
		{Number: "101", Type: domain.RoomSingle, Status: domain.RoomAvailable},
		{Number: "102", Type: domain.RoomSingle, Status: domain.RoomAvailable},
		{Number: "103", Type: domain.RoomSingle, Status: domain.RoomAvailable},
		{Number: "104", Type: domain.RoomDouble, Status: domain.RoomAvailable},
		{Number: "105", Type: domain.RoomDouble, Status: domain.RoomAvailable},
		{Number: "106", Type: domain.RoomDouble, Status: domain.RoomAvailable},
		{Number: "201", Type: domain.RoomDeluxe, Status: domain.RoomAvailable},
		{Number: "202", Type: domain.RoomDeluxe, Status: domain.RoomAvailable},
		{Number: "301", Type: domain.RoomSuite, Status: domain.RoomAvailable},
		{Number: "302", Type: domain.RoomSuite, Status: domain.RoomMaintenance},
	}
	for _, rm := range rooms {
		if _, err := repo.SaveRoom(ctx, rm); err != nil {
			log.Fatal().Err(err).Str("room", rm.Number).Msg("seed room failed")
		}
	}
	log.Info().Int("count", len(rooms)).Msg("rooms seeded")

	services := []domain.HotelService{
		svc(1, "Food", domain.PerOrder, "15.00", nil),
		svc(2, "Spa Treatment", domain.PerOrder, "75.00", strPtr("1 hour")),
		svc(3, "Gym Access", domain.PerNight, "20.00", nil),
		svc(4, "Sauna Access", domain.PerNight, "25.00", nil),
		svc(5, "Gaming", domain.PerHour, "10.00", strPtr("1 hour")),
	}
	for _, s := range services {
		if err := repo.UpsertService(ctx, s); err != nil {
			log.Fatal().Err(err).Str("service", s.Name).Msg("seed service failed")
		}
	}
	log.Info().Int("count", len(services)).Msg("services seeded")
}
