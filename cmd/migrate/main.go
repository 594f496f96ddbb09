package main

import (
	stdlog "log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"aqarat/internal/database"
	"aqarat/internal/domain"
)

func models() []any {
	return []any{
		&domain.User{},
		&domain.Property{},
		&domain.PropertyOffer{},
		&domain.Booking{},
		&domain.Installment{},
		&domain.Contract{},
		&domain.TransferRequest{},
	}
}

func connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "aqarat.db"
	}
	return database.Connect(dsn)
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply the schema to the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			if err := db.AutoMigrate(models()...); err != nil {
				return err
			}
			// AutoMigrate cannot express a partial unique index; this one
			// backs the one-open-booking-per-property rule under concurrency.
			if db.Dialector.Name() == "postgres" {
				err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_open_booking
					ON bookings (user_id, property_id)
					WHERE status IN ('pending', 'approved', 'active')`).Error
				if err != nil {
					return err
				}
			}
			stdlog.Println("migration complete")
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report which tables exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			for _, m := range models() {
				stmt := &gorm.Statement{DB: db}
				if err := stmt.Parse(m); err != nil {
					return err
				}
				stdlog.Printf("%-20s exists=%v", stmt.Table, db.Migrator().HasTable(m))
			}
			return nil
		},
	}
}

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aqarat database migration tool",
	}
	rootCmd.AddCommand(upCmd(), statusCmd())

	if err := rootCmd.Execute(); err != nil {
		stdlog.Fatal(err)
	}
}
