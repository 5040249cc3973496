package decklists

import (
	"errors"
	"time"

	"deckshare-app/internal/domain/users"
)

var (
	// ErrForbidden is returned when the acting user lacks ownership or
	// role for a mutating operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotDeletable is returned when a decklist still has votes,
	// favorites or comments.
	ErrNotDeletable = errors.New("decklist has votes, favorites or comments")
)

// Decklist is an immutable published snapshot of a deck. Its slot content
// and signature never change after creation; only name, description,
// tournament and precedent may be edited by the owner.
type Decklist struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	User   *users.User `json:"user,omitempty"`

	Name          string `gorm:"not null" json:"name"`
	NameCanonical string `gorm:"not null;index" json:"name_canonical"`

	// Version places the decklist in its chain; the canonical name is
	// slugify(name) + "-" + version. Never changes on edit.
	Version int `gorm:"not null;default:1" json:"version"`

	DescriptionMd   string `json:"description_md"`
	DescriptionHtml string `json:"description_html"`

	// Signature is an md5 over the canonical JSON encoding of the slot
	// content, stable under slot insertion order.
	Signature string `gorm:"not null;index" json:"signature"`

	NbVotes     int `gorm:"not null;default:0" json:"nb_votes"`
	NbFavorites int `gorm:"not null;default:0" json:"nb_favorites"`
	NbComments  int `gorm:"not null;default:0" json:"nb_comments"`

	TournamentID *uint       `gorm:"index" json:"tournament_id,omitempty"`
	Tournament   *Tournament `json:"tournament,omitempty"`

	// Precedent links the decklist into its version chain. Precedent must
	// exist before a successor is created, so the chain cannot cycle.
	PrecedentID *uint      `gorm:"index" json:"precedent_id,omitempty"`
	Precedent   *Decklist  `json:"-"`
	Successors  []Decklist `gorm:"foreignKey:PrecedentID" json:"-"`

	Slots    []DecklistSlot `gorm:"foreignKey:DecklistID;constraint:OnDelete:CASCADE;" json:"slots,omitempty"`
	Comments []Comment      `gorm:"foreignKey:DecklistID" json:"comments,omitempty"`

	Votes     []users.User `gorm:"many2many:decklist_votes;" json:"-"`
	Favorites []users.User `gorm:"many2many:decklist_favorites;" json:"-"`

	CreatedAt time.Time `json:"date_creation"`
	UpdatedAt time.Time `json:"date_update"`
}

type DecklistSlot struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	DecklistID uint   `gorm:"not null;index:idx_decklist_slots_list_card,priority:1" json:"-"`
	CardCode   string `gorm:"not null;index:idx_decklist_slots_list_card,priority:2" json:"card_code"`
	Quantity   int    `gorm:"not null" json:"quantity"`
}

type Comment struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	DecklistID uint `gorm:"not null;index" json:"decklist_id"`
	UserID     uint `gorm:"not null;index" json:"user_id"`
	User       *users.User `json:"user,omitempty"`

	// Text holds the rendered HTML; the markdown source is not kept.
	Text     string `gorm:"not null" json:"text"`
	IsHidden bool   `gorm:"not null;default:false" json:"is_hidden"`

	CreatedAt time.Time `json:"date_creation"`
}

type Tournament struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"not null" json:"name"`
	Active bool   `gorm:"not null;default:true" json:"active"`
}

// SlotContent returns the decklist's card-quantity mapping.
func (d *Decklist) SlotContent() map[string]int {
	content := make(map[string]int, len(d.Slots))
	for _, s := range d.Slots {
		content[s.CardCode] = s.Quantity
	}
	return content
}

// Deletable reports whether the decklist may be removed: only while nobody
// has voted, favorited or commented.
func (d *Decklist) Deletable() bool {
	return d.NbVotes == 0 && d.NbFavorites == 0 && d.NbComments == 0
}

// CanEdit reports whether the user may change the decklist's name,
// description, tournament or precedent.
func (d *Decklist) CanEdit(u *users.User) bool {
	return u != nil && (u.ID == d.UserID || u.IsAdmin())
}

// CanDelete reports whether the user may delete the decklist. Unlike edit,
// no admin override is granted.
func (d *Decklist) CanDelete(u *users.User) bool {
	return u != nil && u.ID == d.UserID
}
