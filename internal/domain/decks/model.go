package decks

import (
	"time"

	"deckshare-app/internal/domain/cards"
)

// Deck is a user's mutable work in progress. It is never versioned itself:
// each publication copies its current content into an immutable decklist.
type Deck struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	UUID string `gorm:"not null;uniqueIndex" json:"uuid"`

	UserID uint `gorm:"not null;index" json:"-"`

	Name          string `gorm:"not null" json:"name"`
	DescriptionMd string `json:"description_md"`

	// Most recent pack any card of the deck belongs to. Publication is
	// refused while this pack is unreleased.
	LastPackID *uint       `gorm:"index" json:"-"`
	LastPack   *cards.Pack `json:"last_pack,omitempty"`

	// Decklist this deck was derived from, if any. Rewired to the
	// decklist's precedent when that decklist is deleted.
	ParentDecklistID *uint `gorm:"index" json:"parent_decklist_id,omitempty"`

	Slots []DeckSlot `gorm:"foreignKey:DeckID;constraint:OnDelete:CASCADE;" json:"slots,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DeckSlot struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	DeckID   uint   `gorm:"not null;index:idx_deck_slots_deck_card,priority:1" json:"-"`
	CardCode string `gorm:"not null;index:idx_deck_slots_deck_card,priority:2" json:"card_code"`
	Quantity int    `gorm:"not null" json:"quantity"`
}

// SlotContent returns the deck's card-quantity mapping.
func (d *Deck) SlotContent() map[string]int {
	content := make(map[string]int, len(d.Slots))
	for _, s := range d.Slots {
		content[s.CardCode] = s.Quantity
	}
	return content
}
