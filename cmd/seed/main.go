package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"aqarat/internal/database"
	"aqarat/internal/domain"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "aqarat.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Property{},
		&domain.PropertyOffer{},
		&domain.Booking{},
		&domain.Installment{},
		&domain.Contract{},
		&domain.TransferRequest{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup in FK-safe order.
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM transfer_requests")
	db.Exec("DELETE FROM contracts")
	db.Exec("DELETE FROM installments")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM property_offers")
	db.Exec("DELETE FROM properties")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@aqarat.qa",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Platform Admin",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@aqarat.qa / admin123")

	owners := make([]domain.User, 0, 2)
	for i, email := range []string{"khalid@pearl-estates.qa", "noora@lusail-homes.qa"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("owner123"), bcrypt.DefaultCost)
		owner := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleOwner,
			Name:         fmt.Sprintf("Owner %d", i+1),
			Phone:        fmt.Sprintf("+974 5511 22%02d", i+10),
		}
		db.Create(&owner)
		owners = append(owners, owner)
	}

	for i, email := range []string{"amina@mail.qa", "yusuf@gmail.com", "sara@outlook.com"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
		db.Create(&domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleClient,
			Name:         fmt.Sprintf("Client %d", i+1),
			Phone:        fmt.Sprintf("+974 3344 55%02d", i+20),
		})
	}

	log.Println("Creating properties...")

	type listing struct {
		property domain.Property
		offer    domain.PropertyOffer
	}

	listings := []listing{
		{
			property: domain.Property{
				OwnerID:  owners[0].ID,
				Title:    "Two-bedroom apartment in The Pearl",
				Type:     domain.PropertyApartment,
				City:     "Doha",
				District: "The Pearl",
				AreaSqm:  105, Bedrooms: 2, Bathrooms: 2,
				Status: domain.PropertyActive,
			},
			offer: domain.PropertyOffer{
				AvailableForRent:       true,
				RentPrice:              decimal.NewFromInt(9500),
				ContractDurationMonths: 12,
				NumberOfInstallments:   12,
				InsuranceDeposit:       decimal.NewFromInt(9500),
				Currency:               domain.Currency,
			},
		},
		{
			property: domain.Property{
				OwnerID:  owners[0].ID,
				Title:    "Similar two-bedroom apartment, Porto Arabia",
				Type:     domain.PropertyApartment,
				City:     "Doha",
				District: "The Pearl",
				AreaSqm:  98, Bedrooms: 2, Bathrooms: 2,
				Status: domain.PropertyActive,
			},
			offer: domain.PropertyOffer{
				AvailableForRent:       true,
				RentPrice:              decimal.NewFromInt(9000),
				ContractDurationMonths: 12,
				NumberOfInstallments:   12,
				InsuranceDeposit:       decimal.NewFromInt(9000),
				Currency:               domain.Currency,
			},
		},
		{
			property: domain.Property{
				OwnerID:  owners[1].ID,
				Title:    "Lusail marina villa, dual listed",
				Type:     domain.PropertyVilla,
				City:     "Lusail",
				District: "Marina",
				AreaSqm:  320, Bedrooms: 4, Bathrooms: 5,
				Status: domain.PropertyActive,
			},
			offer: domain.PropertyOffer{
				AvailableForRent:       true,
				AvailableForSale:       true,
				RentPrice:              decimal.NewFromInt(28000),
				ContractDurationMonths: 24,
				NumberOfInstallments:   24,
				InsuranceDeposit:       decimal.NewFromInt(28000),
				SalePrice:              decimal.NewFromInt(5200000),
				Currency:               domain.Currency,
			},
		},
		{
			property: domain.Property{
				OwnerID:  owners[1].ID,
				Title:    "West Bay office floor",
				Type:     domain.PropertyOffice,
				City:     "Doha",
				District: "West Bay",
				AreaSqm:  450,
				Status:   domain.PropertyActive,
			},
			offer: domain.PropertyOffer{
				AvailableForSale: true,
				SalePrice:        decimal.NewFromInt(8900000),
				Currency:         domain.Currency,
			},
		},
	}

	for _, l := range listings {
		db.Create(&l.property)
		l.offer.PropertyID = l.property.ID
		db.Create(&l.offer)
	}

	log.Println("Seed completed.")
	log.Println("Test accounts:")
	log.Println("  admin@aqarat.qa / admin123")
	log.Println("  khalid@pearl-estates.qa, noora@lusail-homes.qa / owner123")
	log.Println("  amina@mail.qa, yusuf@gmail.com, sara@outlook.com / client123")
}
