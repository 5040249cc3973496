package decks

import (
	"errors"
	"net/http"

	"deckshare-app/database"
	"deckshare-app/internal/domain/cards"
	"deckshare-app/internal/domain/decks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

func findOwnDeck(tx *gorm.DB, userUUID string, userID uint) (*decks.Deck, error) {
	var deck decks.Deck
	err := tx.Preload("Slots").Preload("LastPack").
		First(&deck, "uuid = ? AND user_id = ?", userUUID, userID).Error
	if err != nil {
		return nil, err
	}
	return &deck, nil
}

// latestPackID resolves the most recently positioned pack among the given
// cards, ordering by cycle position then pack position.
func latestPackID(tx *gorm.DB, content map[string]int) (*uint, error) {
	if len(content) == 0 {
		return nil, nil
	}
	codes := make([]string, 0, len(content))
	for code := range content {
		codes = append(codes, code)
	}

	var pack cards.Pack
	err := tx.Model(&cards.Pack{}).
		Joins("JOIN cards ON cards.pack_id = packs.id").
		Joins("JOIN cycles ON cycles.id = packs.cycle_id").
		Where("cards.code IN ?", codes).
		Order("cycles.position DESC, packs.position DESC").
		First(&pack).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pack.ID, nil
}

func slotRows(deckID uint, content map[string]int) []decks.DeckSlot {
	rows := make([]decks.DeckSlot, 0, len(content))
	for code, qty := range content {
		rows = append(rows, decks.DeckSlot{DeckID: deckID, CardCode: code, Quantity: qty})
	}
	return rows
}

// ------------------------------
// GET /decks
// ------------------------------
func List(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var rows []decks.Deck
	err := database.DB.Preload("Slots").Preload("LastPack").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load decks"})
		return
	}

	out := make([]DeckDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDeckDTO(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"decks": out})
}

// ------------------------------
// GET /decks/:uuid
// ------------------------------
func View(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	deck, err := findOwnDeck(database.DB, c.Param("uuid"), userID)
	if err != nil {
		respondError(c, err, "Failed to load deck")
		return
	}
	c.JSON(http.StatusOK, toDeckDTO(deck))
}

// ------------------------------
// POST /decks
// ------------------------------
func Create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var deck decks.Deck
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		lastPackID, err := latestPackID(tx, req.Slots)
		if err != nil {
			return err
		}

		deck = decks.Deck{
			UUID:          uuid.NewString(),
			UserID:        userID,
			Name:          req.Name,
			DescriptionMd: req.DescriptionMd,
			LastPackID:    lastPackID,
		}
		if err := tx.Create(&deck).Error; err != nil {
			return err
		}

		rows := slotRows(deck.ID, req.Slots)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})

	if err != nil {
		respondError(c, err, "Failed to create deck")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"uuid": deck.UUID})
}

// ------------------------------
// PUT /decks/:uuid
// ------------------------------
func Save(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		deck, err := findOwnDeck(tx, c.Param("uuid"), userID)
		if err != nil {
			return err
		}

		lastPackID, err := latestPackID(tx, req.Slots)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":           req.Name,
			"description_md": req.DescriptionMd,
			"last_pack_id":   lastPackID,
		}
		if err := tx.Model(&decks.Deck{}).Where("id = ?", deck.ID).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("deck_id = ?", deck.ID).Delete(&decks.DeckSlot{}).Error; err != nil {
			return err
		}
		rows := slotRows(deck.ID, req.Slots)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})

	if err != nil {
		respondError(c, err, "Failed to save deck")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ------------------------------
// DELETE /decks/:uuid
// ------------------------------
func Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		deck, err := findOwnDeck(tx, c.Param("uuid"), userID)
		if err != nil {
			return err
		}
		if err := tx.Where("deck_id = ?", deck.ID).Delete(&decks.DeckSlot{}).Error; err != nil {
			return err
		}
		return tx.Delete(&decks.Deck{}, "id = ?", deck.ID).Error
	})

	if err != nil {
		respondError(c, err, "Failed to delete deck")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func respondError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
