package decklists

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"deckshare-app/database"
	"deckshare-app/internal/domain/decklists"
	"deckshare-app/internal/domain/decks"
	"deckshare-app/internal/domain/texts"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const pageSize = 30

// ------------------------------
// GET /decks/:uuid/publish
// ------------------------------
// Checks whether the deck can be published in its current saved state and
// returns the unpersisted decklist draft plus duplicate warnings.
func PublishForm(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var deck decks.Deck
	err := database.DB.Preload("Slots").Preload("LastPack").
		First(&deck, "uuid = ?", c.Param("uuid")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load deck"})
		return
	}

	if deck.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied to this deck"})
		return
	}

	if deck.LastPack == nil || !deck.LastPack.Released(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This deck uses unreleased cards and cannot be published yet"})
		return
	}

	if problem := findDeckProblem(&deck); problem != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This deck cannot be published", "problem": problem})
		return
	}

	// Duplicate publication is a warning, not a blocker: people republish
	// on purpose.
	duplicates, err := findDuplicates(database.DB, deck.SlotContent())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check for duplicates"})
		return
	}
	warnings := make([]DuplicateWarning, 0, len(duplicates))
	for _, d := range duplicates {
		warnings = append(warnings, DuplicateWarning{DecklistID: d.ID, NameCanonical: d.NameCanonical})
	}

	draft := newDecklistFromDeck(&deck, deck.Name, deck.DescriptionMd, nil)

	var tournaments []decklists.Tournament
	if err := database.DB.Order("name ASC").Find(&tournaments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tournaments"})
		return
	}

	c.JSON(http.StatusOK, PublishPreviewDTO{
		Deck:        deck.ID,
		Decklist:    toSummaryDTO(*draft),
		Duplicates:  warnings,
		Tournaments: toTournamentDTOs(tournaments),
	})
}

// ------------------------------
// POST /decklists
// ------------------------------
// Publishes a deck as a new immutable decklist. Validation happened on the
// publish form; only ownership is re-verified here since deck and user
// state may have changed between requests.
func Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var created *decklists.Decklist
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var deck decks.Deck
		if err := tx.Preload("Slots").First(&deck, "id = ?", req.DeckID).Error; err != nil {
			return err
		}
		if deck.UserID != user.ID {
			return decklists.ErrForbidden
		}

		precedent := resolvePrecedent(tx, req.Precedent, 0)
		tournament := resolveTournament(tx, req.TournamentID)

		decklist := newDecklistFromDeck(&deck, req.Name, req.DescriptionMd, precedent)
		if tournament != nil {
			decklist.TournamentID = &tournament.ID
		}

		if err := tx.Create(decklist).Error; err != nil {
			return err
		}

		// The deck now descends from its own publication.
		if err := tx.Model(&decks.Deck{}).
			Where("id = ?", deck.ID).
			Update("parent_decklist_id", decklist.ID).Error; err != nil {
			return err
		}

		created = decklist
		return nil
	})

	if err != nil {
		respondError(c, err, "Failed to publish decklist")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":             created.ID,
		"name_canonical": created.NameCanonical,
	})
}

// ------------------------------
// PUT /decklists/:id
// ------------------------------
// Lets the publisher (or an admin) rename and re-describe a decklist. The
// version number, slots and signature are immutable.
func Save(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	var saved decklists.Decklist
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var decklist decklists.Decklist
		if err := tx.First(&decklist, "id = ?", id).Error; err != nil {
			return err
		}
		if !decklist.CanEdit(user) {
			return decklists.ErrForbidden
		}

		name := normalizeName(req.Name)
		precedent := resolvePrecedent(tx, req.Precedent, decklist.ID)
		tournament := resolveTournament(tx, req.TournamentID)

		updates := map[string]interface{}{
			"name":             name,
			"name_canonical":   canonicalName(name, decklist.Version),
			"description_md":   strings.TrimSpace(req.DescriptionMd),
			"description_html": texts.Markdown(strings.TrimSpace(req.DescriptionMd)),
			"precedent_id":     nil,
			"tournament_id":    nil,
			"updated_at":       time.Now(),
		}
		if precedent != nil {
			updates["precedent_id"] = precedent.ID
		}
		if tournament != nil {
			updates["tournament_id"] = tournament.ID
		}

		if err := tx.Model(&decklists.Decklist{}).
			Where("id = ?", decklist.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&saved, "id = ?", decklist.ID).Error
	})

	if err != nil {
		respondError(c, err, "Failed to save decklist")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             saved.ID,
		"name_canonical": saved.NameCanonical,
	})
}

// ------------------------------
// DELETE /decklists/:id
// ------------------------------
// Removes a decklist nobody has interacted with, splicing it out of its
// version chain: children decks and successor decklists are repointed to
// its precedent before removal.
func Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id := c.Param("id")
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var decklist decklists.Decklist
		if err := tx.First(&decklist, "id = ?", id).Error; err != nil {
			return err
		}
		if !decklist.CanDelete(user) {
			return decklists.ErrForbidden
		}
		if !decklist.Deletable() {
			return decklists.ErrNotDeletable
		}

		var precedentID interface{}
		if decklist.PrecedentID != nil {
			precedentID = *decklist.PrecedentID
		}

		if err := tx.Model(&decks.Deck{}).
			Where("parent_decklist_id = ?", decklist.ID).
			Update("parent_decklist_id", precedentID).Error; err != nil {
			return err
		}
		if err := tx.Model(&decklists.Decklist{}).
			Where("precedent_id = ?", decklist.ID).
			Update("precedent_id", precedentID).Error; err != nil {
			return err
		}

		if err := tx.Where("decklist_id = ?", decklist.ID).
			Delete(&decklists.DecklistSlot{}).Error; err != nil {
			return err
		}
		return tx.Delete(&decklist).Error
	})

	if err != nil {
		respondError(c, err, "Failed to delete decklist")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ------------------------------
// GET /decklists/:id
// ------------------------------
func View(c *gin.Context) {
	id := c.Param("id")

	var decklist decklists.Decklist
	err := database.DB.
		Preload("User").
		Preload("Tournament").
		Preload("Slots").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.User").
		First(&decklist, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Decklist not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load decklist"})
		return
	}

	detail := DecklistDetailDTO{
		DecklistSummaryDTO: toSummaryDTO(decklist),
		DescriptionMd:      decklist.DescriptionMd,
		DescriptionHtml:    decklist.DescriptionHtml,
		Signature:          decklist.Signature,
		PrecedentID:        decklist.PrecedentID,
		Slots:              make([]SlotDTO, 0, len(decklist.Slots)),
		Comments:           make([]CommentDTO, 0, len(decklist.Comments)),
		Commenters:         make([]string, 0, len(decklist.Comments)),
	}
	if decklist.Tournament != nil {
		detail.Tournament = &TournamentDTO{
			ID:     decklist.Tournament.ID,
			Name:   decklist.Tournament.Name,
			Active: decklist.Tournament.Active,
		}
	}
	for _, s := range decklist.Slots {
		detail.Slots = append(detail.Slots, SlotDTO{CardCode: s.CardCode, Quantity: s.Quantity})
	}
	for _, comment := range decklist.Comments {
		dto := CommentDTO{
			ID:           comment.ID,
			Text:         comment.Text,
			IsHidden:     comment.IsHidden,
			DateCreation: comment.CreatedAt,
		}
		if comment.User != nil {
			dto.Username = comment.User.Username
			detail.Commenters = append(detail.Commenters, comment.User.Username)
		}
		detail.Comments = append(detail.Comments, dto)
	}

	// an older decklist with the exact same content, if one exists
	duplicates, err := findDuplicates(database.DB, decklist.SlotContent())
	if err == nil {
		for _, d := range duplicates {
			if d.ID != decklist.ID && d.CreatedAt.Before(decklist.CreatedAt) {
				detail.Duplicate = &DuplicateWarning{DecklistID: d.ID, NameCanonical: d.NameCanonical}
				break
			}
		}
	}

	versions, err := findVersions(database.DB, &decklist)
	if err == nil {
		for _, v := range versions {
			detail.Versions = append(detail.Versions, toSummaryDTO(v))
		}
	}

	c.JSON(http.StatusOK, detail)
}

// ------------------------------
// GET /decklists/list/:type
// ------------------------------
func List(c *gin.Context) {
	listType := c.Param("type")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	var q *gorm.DB
	switch listType {
	case "find":
		tournamentID, _ := parseEntityRef(c.Query("tournament"))
		q = withSearch(database.DB, searchFilters{
			Name:         c.Query("name"),
			Author:       c.Query("author"),
			FactionCode:  c.Query("faction"),
			PackIDs:      parseIDList(c.Query("packs")),
			TournamentID: tournamentID,
			Sort:         c.Query("sort"),
		})
	case "favorites":
		userID, ok := mustUserID(c)
		if !ok {
			return
		}
		q = byFavorite(database.DB, userID)
	case "mine":
		userID, ok := mustUserID(c)
		if !ok {
			return
		}
		q = byAuthor(database.DB, userID)
	case "recent":
		q = byAge(database.DB)
	case "halloffame":
		q = inHallOfFame(database.DB)
	case "hottopics":
		q = inHotTopics(database.DB)
	case "tournament":
		q = inTournaments(database.DB)
	case "popular":
		q = byPopularity(database.DB)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown list type"})
		return
	}

	rows, total, err := paginate(q, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load decklists"})
		return
	}

	out := ListResponse{
		Decklists: make([]DecklistSummaryDTO, 0, len(rows)),
		Page:      page,
		Pages:     int((total + pageSize - 1) / pageSize),
		Total:     total,
	}
	for _, row := range rows {
		out.Decklists = append(out.Decklists, toSummaryDTO(row))
	}
	c.JSON(http.StatusOK, out)
}

// findVersions walks the version chain the decklist belongs to: ancestors
// through precedent links, descendants through successor queries. Bounded
// to guard against corrupt chains.
func findVersions(db *gorm.DB, decklist *decklists.Decklist) ([]decklists.Decklist, error) {
	const maxChain = 100

	var chain []decklists.Decklist

	// ancestors, oldest first
	var ancestors []decklists.Decklist
	precedentID := decklist.PrecedentID
	for i := 0; precedentID != nil && i < maxChain; i++ {
		var ancestor decklists.Decklist
		if err := db.Preload("User").First(&ancestor, "id = ?", *precedentID).Error; err != nil {
			break
		}
		ancestors = append(ancestors, ancestor)
		precedentID = ancestor.PrecedentID
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		chain = append(chain, ancestors[i])
	}

	chain = append(chain, *decklist)

	// descendants, breadth-first on precedent links
	frontier := []uint{decklist.ID}
	for i := 0; len(frontier) > 0 && i < maxChain; i++ {
		var successors []decklists.Decklist
		if err := db.Preload("User").
			Where("precedent_id IN ?", frontier).
			Order("created_at ASC").
			Find(&successors).Error; err != nil {
			return chain, err
		}
		frontier = frontier[:0]
		for _, s := range successors {
			chain = append(chain, s)
			frontier = append(frontier, s.ID)
		}
	}

	return chain, nil
}

func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, decklists.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case errors.Is(err, decklists.ErrNotDeletable):
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete a decklist with votes, favorites or comments"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
