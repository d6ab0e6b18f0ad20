// Seeds a handful of demo registrations for local development.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wak-lab-e-v/jw-db-manager/models"
)

func main() {
	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Registration{}); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	demo := []models.Registration{
		{OrderNumber: "A1", Surname: "Müller", GivenName: "Anna", EventDate: "24.05.2025", EventTime: "14-00", Location: "Stadthalle", Status: "neu"},
		{OrderNumber: "A2", Surname: "Schüßler", GivenName: "Müsli", EventDate: "24.05.2025", EventTime: "14-00", Location: "Stadthalle", Status: "neu"},
		{OrderNumber: "B1", Surname: "Schmidt", GivenName: "Lena Marie", EventDate: "31.05.2025", EventTime: "10-30", Location: "Festsaal", Status: "in Bearbeitung"},
		{OrderNumber: "B2", Surname: "Weiss", GivenName: "Jonas", EventDate: "31.05.2025", EventTime: "10-30", Location: "Festsaal", Status: "neu"},
	}

	created := 0
	for _, r := range demo {
		r.Fingerprint = models.Fingerprint(r.Surname, r.GivenName, r.OrderNumber)
		var cnt int64
		db.Model(&models.Registration{}).Where("fingerprint = ?", r.Fingerprint).Count(&cnt)
		if cnt > 0 {
			continue
		}
		if err := db.Create(&r).Error; err != nil {
			log.Printf("seed %s %s failed: %v", r.GivenName, r.Surname, err)
			continue
		}
		created++
	}
	fmt.Printf("seeded %d registrations\n", created)
}
