package decklists

import (
	"strconv"
	"strings"
	"time"

	"deckshare-app/internal/domain/decklists"
	"deckshare-app/internal/domain/decks"
	"deckshare-app/internal/domain/texts"

	"gorm.io/gorm"
)

const maxNameLength = 60

// normalizeName trims, caps at 60 characters and falls back to "Untitled".
func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if runes := []rune(name); len(runes) > maxNameLength {
		name = strings.TrimSpace(string(runes[:maxNameLength]))
	}
	if name == "" {
		name = "Untitled"
	}
	return name
}

func canonicalName(name string, version int) string {
	return texts.Slugify(name) + "-" + strconv.Itoa(version)
}

// newDecklistFromDeck builds an unpersisted decklist snapshot from the
// deck's current state. The deck itself is never mutated; the slot content
// is a frozen copy. The first publication of a chain is version 1,
// publishing onto a precedent continues its numbering.
func newDecklistFromDeck(deck *decks.Deck, name, descriptionMd string, precedent *decklists.Decklist) *decklists.Decklist {
	name = normalizeName(name)
	descriptionMd = strings.TrimSpace(descriptionMd)

	version := 1
	var precedentID *uint
	if precedent != nil {
		version = precedent.Version + 1
		precedentID = &precedent.ID
	}

	content := deck.SlotContent()
	slots := make([]decklists.DecklistSlot, 0, len(content))
	for _, s := range deck.Slots {
		slots = append(slots, decklists.DecklistSlot{
			CardCode: s.CardCode,
			Quantity: s.Quantity,
		})
	}

	now := time.Now()
	return &decklists.Decklist{
		UserID:          deck.UserID,
		Name:            name,
		NameCanonical:   canonicalName(name, version),
		Version:         version,
		DescriptionMd:   descriptionMd,
		DescriptionHtml: texts.Markdown(descriptionMd),
		Signature:       decklists.Signature(content),
		PrecedentID:     precedentID,
		Slots:           slots,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// findDuplicates returns already-published decklists whose slot content is
// byte-for-byte identical to the given mapping. Signature narrows the
// candidates, content comparison confirms.
func findDuplicates(tx *gorm.DB, content map[string]int) ([]decklists.Decklist, error) {
	var candidates []decklists.Decklist
	err := tx.Preload("Slots").
		Where("signature = ?", decklists.Signature(content)).
		Order("created_at ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	var duplicates []decklists.Decklist
	for _, candidate := range candidates {
		if decklists.SameContent(candidate.SlotContent(), content) {
			duplicates = append(duplicates, candidate)
		}
	}
	return duplicates, nil
}
