package database

import (
	"log"
	"os"

	"deckshare-app/internal/domain/cards"
	"deckshare-app/internal/domain/decklists"
	"deckshare-app/internal/domain/decks"
	"deckshare-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = db

	if err := MigrateAll(DB); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}

	log.Println("Connected and migrated successfully")
}

// MigrateAll runs AutoMigrate for every domain model. Shared with the test
// fixture, which runs it against an in-memory database.
func MigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// accounts
		&users.User{},
		&users.VerificationToken{},

		// reference data
		&cards.Cycle{},
		&cards.Pack{},
		&cards.Faction{},
		&cards.Card{},

		// decks (mutable)
		&decks.Deck{},
		&decks.DeckSlot{},

		// decklists (published snapshots)
		&decklists.Tournament{},
		&decklists.Decklist{},
		&decklists.DecklistSlot{},
		&decklists.Comment{},
	)
}
