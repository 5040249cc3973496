package decklists

import (
	"net/http"
	"strings"

	"deckshare-app/database"
	"deckshare-app/internal/domain/decklists"

	"github.com/gin-gonic/gin"
)

type tournamentRequest struct {
	Name   string `json:"name" binding:"required"`
	Active *bool  `json:"active"`
}

// ------------------------------
// POST /admin/tournaments
// ------------------------------
func CreateTournament(c *gin.Context) {
	var req tournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tournament := decklists.Tournament{
		Name:   strings.TrimSpace(req.Name),
		Active: true,
	}
	if req.Active != nil {
		tournament.Active = *req.Active
	}

	if err := database.DB.Create(&tournament).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tournament"})
		return
	}

	c.JSON(http.StatusCreated, TournamentDTO{
		ID:     tournament.ID,
		Name:   tournament.Name,
		Active: tournament.Active,
	})
}

// ------------------------------
// PUT /admin/tournaments/:id
// ------------------------------
// Renames a tournament or retires it from the active tier.
func UpdateTournament(c *gin.Context) {
	var req tournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var tournament decklists.Tournament
	if err := database.DB.First(&tournament, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tournament not found"})
		return
	}

	tournament.Name = strings.TrimSpace(req.Name)
	if req.Active != nil {
		tournament.Active = *req.Active
	}

	if err := database.DB.Model(&tournament).Updates(map[string]interface{}{
		"name":   tournament.Name,
		"active": tournament.Active,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tournament"})
		return
	}

	c.JSON(http.StatusOK, TournamentDTO{
		ID:     tournament.ID,
		Name:   tournament.Name,
		Active: tournament.Active,
	})
}
