package main

import (
	stdlog "log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"aqarat/internal/database"
	"aqarat/internal/pkg/logger"
)

// Marks pending installments past their due date as overdue. The read path
// derives the same view on the fly; this sweep persists it so reports and
// plain SQL see the real status. Run it from cron, once a day is enough.
func main() {
	_ = godotenv.Load()

	log := logger.New(os.Getenv("APP_ENV"))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		stdlog.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	now := time.Now().UTC()
	res := db.Exec(`
		UPDATE installments
		SET status = 'overdue', updated_at = ?
		WHERE status = 'pending'
		  AND due_date < ?
		  AND booking_id IN (SELECT id FROM bookings WHERE status = 'active')`,
		now, now,
	)
	if res.Error != nil {
		log.Fatal().Err(res.Error).Msg("overdue sweep failed")
	}

	log.Info().Int64("installments", res.RowsAffected).Msg("overdue sweep completed")
}
