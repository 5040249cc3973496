package decklists

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"deckshare-app/database"
	"deckshare-app/internal/domain/cards"
	"deckshare-app/internal/domain/decklists"
	"deckshare-app/internal/domain/decks"
	"deckshare-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	digitsOnly = regexp.MustCompile(`^\d+$`)
	// decklist detail URLs look like /decklists/view/123/some-name
	detailURLRef = regexp.MustCompile(`view/(\d+)`)
)

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

func currentUser(c *gin.Context) (*users.User, bool) {
	userID, ok := mustUserID(c)
	if !ok {
		return nil, false
	}
	var u users.User
	if err := database.DB.First(&u, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	return &u, true
}

// parseEntityRef resolves a free-form reference to an entity id. Accepts a
// bare numeric id or a detail URL containing view/<id>; anything else
// resolves to absent rather than erroring.
func parseEntityRef(raw string) (uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if !digitsOnly.MatchString(raw) {
		m := detailURLRef.FindStringSubmatch(raw)
		if m == nil {
			return 0, false
		}
		raw = m[1]
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseIDList splits a comma-separated id list, dropping anything that is
// not a positive integer.
func parseIDList(raw string) []uint {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

// resolvePrecedent looks up the decklist a free-form precedent reference
// points at. selfID, when nonzero, rejects self-reference by resolving it
// to nil.
func resolvePrecedent(tx *gorm.DB, raw string, selfID uint) *decklists.Decklist {
	id, ok := parseEntityRef(raw)
	if !ok || (selfID != 0 && id == selfID) {
		return nil
	}
	var precedent decklists.Decklist
	if err := tx.First(&precedent, "id = ?", id).Error; err != nil {
		return nil
	}
	return &precedent
}

// findDeckProblem loads the reference data the validator needs and runs
// the structural checks.
func findDeckProblem(deck *decks.Deck) *decks.Problem {
	codes := make([]string, 0, len(deck.Slots))
	for _, s := range deck.Slots {
		codes = append(codes, s.CardCode)
	}

	var rows []cards.Card
	if len(codes) > 0 {
		if err := database.DB.Where("code IN ?", codes).Find(&rows).Error; err != nil {
			return &decks.Problem{Code: "lookup_failed", Message: "failed to load card data"}
		}
	}

	cardTypes := make(map[string]string, len(rows))
	deckLimits := make(map[string]int, len(rows))
	for _, card := range rows {
		cardTypes[card.Code] = card.Type
		deckLimits[card.Code] = card.DeckLimit
	}

	return decks.FindProblem(deck, cardTypes, deckLimits)
}

func resolveTournament(tx *gorm.DB, id *uint) *decklists.Tournament {
	if id == nil || *id == 0 {
		return nil
	}
	var tournament decklists.Tournament
	if err := tx.First(&tournament, "id = ?", *id).Error; err != nil {
		return nil
	}
	return &tournament
}
