package decklists

import (
	"strings"

	"deckshare-app/internal/domain/decklists"

	"gorm.io/gorm"
)

const hallOfFameThreshold = 10

func byPopularity(db *gorm.DB) *gorm.DB {
	return db.Model(&decklists.Decklist{}).
		Order("nb_votes DESC, created_at DESC")
}

func byAge(db *gorm.DB) *gorm.DB {
	return db.Model(&decklists.Decklist{}).
		Order("created_at DESC")
}

func byAuthor(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&decklists.Decklist{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")
}

func byFavorite(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&decklists.Decklist{}).
		Joins("JOIN decklist_favorites f ON f.decklist_id = decklists.id").
		Where("f.user_id = ?", userID).
		Order("decklists.created_at DESC")
}

func inHallOfFame(db *gorm.DB) *gorm.DB {
	return db.Model(&decklists.Decklist{}).
		Where("nb_votes >= ?", hallOfFameThreshold).
		Order("nb_votes DESC")
}

func inHotTopics(db *gorm.DB) *gorm.DB {
	return db.Model(&decklists.Decklist{}).
		Where("nb_comments > 0").
		Order("nb_comments DESC, updated_at DESC")
}

func inTournaments(db *gorm.DB) *gorm.DB {
	return db.Model(&decklists.Decklist{}).
		Where("tournament_id IS NOT NULL").
		Order("created_at DESC")
}

type searchFilters struct {
	Name         string
	Author       string
	FactionCode  string
	PackIDs      []uint
	TournamentID uint
	Sort         string
}

// withSearch applies the faceted search filters. The faction facet keeps
// decklists playing at least one card of that faction; the pack facet
// keeps decklists buildable from the checked packs alone.
func withSearch(db *gorm.DB, f searchFilters) *gorm.DB {
	q := db.Model(&decklists.Decklist{})

	if name := strings.TrimSpace(f.Name); name != "" {
		q = q.Where("decklists.name LIKE ?", "%"+name+"%")
	}
	if author := strings.TrimSpace(f.Author); author != "" {
		q = q.Joins("JOIN users ON users.id = decklists.user_id").
			Where("users.username = ?", author)
	}
	if faction := strings.TrimSpace(f.FactionCode); faction != "" {
		q = q.Where(`EXISTS (
			SELECT 1 FROM decklist_slots s
			JOIN cards ON cards.code = s.card_code
			JOIN factions ON factions.id = cards.faction_id
			WHERE s.decklist_id = decklists.id AND factions.code = ?)`, faction)
	}
	if len(f.PackIDs) > 0 {
		q = q.Where(`NOT EXISTS (
			SELECT 1 FROM decklist_slots s
			JOIN cards ON cards.code = s.card_code
			WHERE s.decklist_id = decklists.id AND cards.pack_id NOT IN ?)`, f.PackIDs)
	}
	if f.TournamentID != 0 {
		q = q.Where("tournament_id = ?", f.TournamentID)
	}

	switch f.Sort {
	case "likes":
		q = q.Order("nb_votes DESC, decklists.created_at DESC")
	case "reputation":
		q = q.Joins("JOIN users u ON u.id = decklists.user_id").
			Order("u.reputation DESC, decklists.created_at DESC")
	case "date":
		q = q.Order("decklists.created_at DESC")
	default:
		q = q.Order("nb_votes DESC, decklists.created_at DESC")
	}
	return q
}

// paginate runs the query with page/limit and returns the page rows plus
// the total row count.
func paginate(q *gorm.DB, page, limit int) ([]decklists.Decklist, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []decklists.Decklist
	err := q.Preload("User").Preload("Tournament").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}
