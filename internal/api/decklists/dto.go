package decklists

import (
	"time"

	"deckshare-app/internal/domain/decklists"
)

type PublishRequest struct {
	DeckID        uint   `json:"deck_id" binding:"required"`
	Name          string `json:"name"`
	DescriptionMd string `json:"description_md"`
	TournamentID  *uint  `json:"tournament_id"`
	// Precedent is free-form: a bare decklist id or a detail URL.
	Precedent string `json:"precedent"`
}

type SaveRequest struct {
	Name          string `json:"name"`
	DescriptionMd string `json:"description_md"`
	TournamentID  *uint  `json:"tournament_id"`
	Precedent     string `json:"precedent"`
}

type DuplicateWarning struct {
	DecklistID    uint   `json:"decklist_id"`
	NameCanonical string `json:"name_canonical"`
}

type PublishPreviewDTO struct {
	Deck        uint               `json:"deck_id"`
	Decklist    DecklistSummaryDTO `json:"decklist"`
	Duplicates  []DuplicateWarning `json:"already_published,omitempty"`
	Tournaments []TournamentDTO    `json:"tournaments"`
}

type DecklistSummaryDTO struct {
	ID            uint      `json:"id,omitempty"`
	Name          string    `json:"name"`
	NameCanonical string    `json:"name_canonical"`
	Version       int       `json:"version"`
	Username      string    `json:"username,omitempty"`
	NbVotes       int       `json:"nb_votes"`
	NbFavorites   int       `json:"nb_favorites"`
	NbComments    int       `json:"nb_comments"`
	DateCreation  time.Time `json:"date_creation"`
}

type TournamentDTO struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type ListResponse struct {
	Decklists []DecklistSummaryDTO `json:"decklists"`
	Page      int                  `json:"page"`
	Pages     int                  `json:"pages"`
	Total     int64                `json:"total"`
}

type PackFacetDTO struct {
	ID      uint   `json:"id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
	Future  bool   `json:"future"`
}

type PackCategoryDTO struct {
	Label string         `json:"label"`
	Packs []PackFacetDTO `json:"packs"`
}

type SearchFormDTO struct {
	Allowed             []PackCategoryDTO `json:"allowed"`
	On                  int               `json:"on"`
	Off                 int               `json:"off"`
	Factions            []FactionDTO      `json:"factions"`
	ActiveTournaments   []TournamentDTO   `json:"active_tournaments"`
	InactiveTournaments []TournamentDTO   `json:"inactive_tournaments"`
}

type FactionDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type SlotDTO struct {
	CardCode string `json:"card_code"`
	Quantity int    `json:"quantity"`
}

type CommentDTO struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Text         string    `json:"text"`
	IsHidden     bool      `json:"is_hidden"`
	DateCreation time.Time `json:"date_creation"`
}

type DecklistDetailDTO struct {
	DecklistSummaryDTO
	DescriptionMd   string               `json:"description_md"`
	DescriptionHtml string               `json:"description_html"`
	Signature       string               `json:"signature"`
	Tournament      *TournamentDTO       `json:"tournament,omitempty"`
	PrecedentID     *uint                `json:"precedent_id,omitempty"`
	Slots           []SlotDTO            `json:"slots"`
	Comments        []CommentDTO         `json:"comments"`
	Commenters      []string             `json:"commenters"`
	Duplicate       *DuplicateWarning    `json:"duplicate,omitempty"`
	Versions        []DecklistSummaryDTO `json:"versions"`
}

func toSummaryDTO(d decklists.Decklist) DecklistSummaryDTO {
	out := DecklistSummaryDTO{
		ID:            d.ID,
		Name:          d.Name,
		NameCanonical: d.NameCanonical,
		Version:       d.Version,
		NbVotes:       d.NbVotes,
		NbFavorites:   d.NbFavorites,
		NbComments:    d.NbComments,
		DateCreation:  d.CreatedAt,
	}
	if d.User != nil {
		out.Username = d.User.Username
	}
	return out
}

func toTournamentDTOs(rows []decklists.Tournament) []TournamentDTO {
	out := make([]TournamentDTO, 0, len(rows))
	for _, t := range rows {
		out = append(out, TournamentDTO{ID: t.ID, Name: t.Name, Active: t.Active})
	}
	return out
}
