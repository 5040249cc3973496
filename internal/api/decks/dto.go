package decks

import (
	"time"

	"deckshare-app/internal/domain/decks"
)

type SaveRequest struct {
	Name          string         `json:"name" binding:"required"`
	DescriptionMd string         `json:"description_md"`
	Slots         map[string]int `json:"slots" binding:"required"`
}

type SlotDTO struct {
	CardCode string `json:"card_code"`
	Quantity int    `json:"quantity"`
}

type DeckDTO struct {
	UUID             string    `json:"uuid"`
	Name             string    `json:"name"`
	DescriptionMd    string    `json:"description_md"`
	ParentDecklistID *uint     `json:"parent_decklist_id,omitempty"`
	LastPackName     string    `json:"last_pack,omitempty"`
	Slots            []SlotDTO `json:"slots"`
	DateCreation     time.Time `json:"date_creation"`
	DateUpdate       time.Time `json:"date_update"`
}

func toDeckDTO(d *decks.Deck) DeckDTO {
	dto := DeckDTO{
		UUID:             d.UUID,
		Name:             d.Name,
		DescriptionMd:    d.DescriptionMd,
		ParentDecklistID: d.ParentDecklistID,
		Slots:            make([]SlotDTO, 0, len(d.Slots)),
		DateCreation:     d.CreatedAt,
		DateUpdate:       d.UpdatedAt,
	}
	if d.LastPack != nil {
		dto.LastPackName = d.LastPack.Name
	}
	for _, s := range d.Slots {
		dto.Slots = append(dto.Slots, SlotDTO{CardCode: s.CardCode, Quantity: s.Quantity})
	}
	return dto
}
