package models

import (
	"fmt"
	"hash/crc32"
	"time"
)

// Registration represents one registrant imported from the Excel export.
type Registration struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	OrderNumber string `gorm:"size:64;not null"`
	Surname     string `gorm:"size:255;not null"`
	GivenName   string `gorm:"size:255;not null"`
	// Fingerprint is the dedup key: crc32 over surname+given_name+order_number,
	// rendered as 8 lowercase hex digits. Re-importing the same triple never
	// creates a second row.
	Fingerprint string `gorm:"size:8;not null;uniqueIndex"`
	EventDate   string `gorm:"size:32"` // DD.MM.YYYY
	EventTime   string `gorm:"size:16"` // HH-MM
	Location    string `gorm:"size:255"`
	Note        string `gorm:"size:1024"`
	// SourceDir is where the original photos are expected to live; set once by
	// the checksrc pass. WorkDir is where matched photos were relocated to; set
	// by the checkpic pass on the first successful relocation.
	SourceDir     string `gorm:"size:512"`
	WorkDir       string `gorm:"size:512"`
	FinalPicture1 string `gorm:"size:512"`
	FinalPicture2 string `gorm:"size:512"`
	FinalPicture3 string `gorm:"size:512"`
	Status        string `gorm:"size:64;index"`
}

// Fingerprint derives the dedup key for a (surname, given name, order number)
// triple. Identical triples always yield the same value.
func Fingerprint(surname, givenName, orderNumber string) string {
	sum := crc32.ChecksumIEEE([]byte(surname + givenName + orderNumber))
	return fmt.Sprintf("%08x", sum)
}
