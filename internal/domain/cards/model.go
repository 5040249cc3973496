package cards

import "time"

// Reference data: cycles group packs, packs contain cards. A pack with a
// nil DateRelease has not been released yet.

type Cycle struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Code     string `gorm:"not null;uniqueIndex" json:"code"`
	Name     string `gorm:"not null" json:"name"`
	Position int    `gorm:"not null;default:0" json:"position"`

	Packs []Pack `gorm:"foreignKey:CycleID" json:"packs,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type Pack struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CycleID     uint       `gorm:"not null;index" json:"-"`
	Code        string     `gorm:"not null;uniqueIndex" json:"code"`
	Name        string     `gorm:"not null" json:"name"`
	Position    int        `gorm:"not null;default:0" json:"position"`
	DateRelease *time.Time `json:"date_release"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type Faction struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"not null;uniqueIndex" json:"code"`
	Name string `gorm:"not null" json:"name"`
}

type Card struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Code      string `gorm:"not null;uniqueIndex" json:"code"`
	Name      string `gorm:"not null" json:"name"`
	Type      string `gorm:"not null" json:"type"`
	PackID    uint   `gorm:"not null;index" json:"-"`
	FactionID *uint  `gorm:"index" json:"-"`

	Pack    Pack     `json:"-"`
	Faction *Faction `json:"-"`

	// Max copies of this card allowed in a deck.
	DeckLimit int `gorm:"not null;default:3" json:"deck_limit"`
}

// Released reports whether the pack is out: a nil release date or one in
// the future both count as unreleased.
func (p *Pack) Released(now time.Time) bool {
	return p.DateRelease != nil && !p.DateRelease.After(now)
}
