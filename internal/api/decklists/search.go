package decklists

import (
	"net/http"

	"deckshare-app/database"
	"deckshare-app/internal/domain/cards"
	"deckshare-app/internal/domain/decklists"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ------------------------------
// GET /decklists/search
// ------------------------------
// Builds the faceted search form payload: packs grouped by cycle (core and
// single-pack cycles collapse into the first category), factions, and
// tournament tiers. A pack is pre-checked when released; unreleased packs
// carry the future flag.
func SearchForm(c *gin.Context) {
	var cycles []cards.Cycle
	err := database.DB.Preload("Packs", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Order("position ASC").Find(&cycles).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cycles"})
		return
	}

	on, off := 0, 0
	categories := []PackCategoryDTO{{Label: "Core & Deluxe", Packs: []PackFacetDTO{}}}

	for _, cycle := range cycles {
		if cycle.Position == 0 || len(cycle.Packs) == 0 {
			continue
		}

		first := cycle.Packs[0]
		if cycle.Code == "core" || (len(cycle.Packs) == 1 && first.Name == cycle.Name) {
			facet := packFacet(first)
			countFacet(facet, &on, &off)
			categories[0].Packs = append(categories[0].Packs, facet)
			continue
		}

		category := PackCategoryDTO{Label: cycle.Name, Packs: make([]PackFacetDTO, 0, len(cycle.Packs))}
		for _, pack := range cycle.Packs {
			facet := packFacet(pack)
			countFacet(facet, &on, &off)
			category.Packs = append(category.Packs, facet)
		}
		categories = append(categories, category)
	}

	var factions []cards.Faction
	if err := database.DB.Order("name ASC").Find(&factions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load factions"})
		return
	}

	var active, inactive []decklists.Tournament
	if err := database.DB.Where("active = ?", true).Order("name ASC").Find(&active).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tournaments"})
		return
	}
	if err := database.DB.Where("active = ?", false).Order("name ASC").Find(&inactive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tournaments"})
		return
	}

	out := SearchFormDTO{
		Allowed:             categories,
		On:                  on,
		Off:                 off,
		Factions:            make([]FactionDTO, 0, len(factions)),
		ActiveTournaments:   toTournamentDTOs(active),
		InactiveTournaments: toTournamentDTOs(inactive),
	}
	for _, f := range factions {
		out.Factions = append(out.Factions, FactionDTO{Code: f.Code, Name: f.Name})
	}

	c.JSON(http.StatusOK, out)
}

func packFacet(p cards.Pack) PackFacetDTO {
	return PackFacetDTO{
		ID:      p.ID,
		Label:   p.Name,
		Checked: p.DateRelease != nil,
		Future:  p.DateRelease == nil,
	}
}

func countFacet(f PackFacetDTO, on, off *int) {
	if f.Checked {
		*on++
	} else {
		*off++
	}
}
