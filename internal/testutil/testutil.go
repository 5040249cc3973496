package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"deckshare-app/config"
	"deckshare-app/database"
	"deckshare-app/internal/domain/cards"
	"deckshare-app/internal/domain/decklists"
	"deckshare-app/internal/domain/decks"
	"deckshare-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// SetupTestDB points the global connection at a fresh in-memory database
// with the full schema. Each test gets its own named database so the
// connection pool shares it without leaking state between tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:test%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.MigrateAll(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	database.DB = db
	config.JWT_SECRET = "test-secret"

	return db
}

// NewRouter returns a quiet gin engine for handler tests.
func NewRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// AuthToken issues a signed token the auth middleware accepts.
func AuthToken(t *testing.T, u *users.User) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  u.ID,
		"username": u.Username,
		"role":     u.Role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(config.JWT_SECRET))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return signed
}

// DoJSON performs a request with a JSON body against the router. A non-nil
// user gets a bearer token.
func DoJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, u *users.User) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if u != nil {
		req.Header.Set("Authorization", "Bearer "+AuthToken(t, u))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// DecodeJSON unmarshals the recorded response body.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

// CreateUser seeds a verified user.
func CreateUser(t *testing.T, db *gorm.DB, username string) *users.User {
	t.Helper()

	u := users.User{
		Username:     username,
		Email:        username + "@example.com",
		AuthProvider: "local",
		Role:         "user",
		IsVerified:   true,

		IsNotifAuthor:    true,
		IsNotifCommenter: true,
		IsNotifMention:   true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return &u
}

// CreateAdmin seeds a verified admin user.
func CreateAdmin(t *testing.T, db *gorm.DB, username string) *users.User {
	t.Helper()

	u := CreateUser(t, db, username)
	if err := db.Model(&users.User{}).Where("id = ?", u.ID).Update("role", "admin").Error; err != nil {
		t.Fatalf("Failed to promote user %s: %v", username, err)
	}
	u.Role = "admin"
	return u
}

// SeedCardSet inserts a released cycle/pack and enough cards to build
// valid decks: seven plots and a filler card with a high deck limit.
func SeedCardSet(t *testing.T, db *gorm.DB) {
	t.Helper()

	released := time.Now().AddDate(0, -1, 0)
	cycle := cards.Cycle{Code: "core", Name: "Core Set", Position: 1}
	if err := db.Create(&cycle).Error; err != nil {
		t.Fatalf("Failed to seed cycle: %v", err)
	}
	pack := cards.Pack{CycleID: cycle.ID, Code: "Core", Name: "Core Set", Position: 1, DateRelease: &released}
	if err := db.Create(&pack).Error; err != nil {
		t.Fatalf("Failed to seed pack: %v", err)
	}

	set := []cards.Card{
		{Code: "01001", Name: "A Clash of Kings", Type: "plot", PackID: pack.ID, DeckLimit: 2},
		{Code: "01002", Name: "A Game of Thrones", Type: "plot", PackID: pack.ID, DeckLimit: 2},
		{Code: "01003", Name: "A Storm of Swords", Type: "plot", PackID: pack.ID, DeckLimit: 2},
		{Code: "01004", Name: "Wildfire Assault", Type: "plot", PackID: pack.ID, DeckLimit: 2},
		{Code: "01005", Name: "Power Behind the Throne", Type: "plot", PackID: pack.ID, DeckLimit: 2},
		{Code: "01006", Name: "Calm Over Westeros", Type: "plot", PackID: pack.ID, DeckLimit: 2},
		{Code: "01007", Name: "Confiscation", Type: "plot", PackID: pack.ID, DeckLimit: 2},
		{Code: "01033", Name: "Hedge Knight", Type: "character", PackID: pack.ID, DeckLimit: 60},
	}
	if err := db.Create(&set).Error; err != nil {
		t.Fatalf("Failed to seed cards: %v", err)
	}
}

// ValidSlots returns content that passes deck validation: a full plot
// deck and a 60-card draw deck.
func ValidSlots() map[string]int {
	return map[string]int{
		"01001": 1, "01002": 1, "01003": 1, "01004": 1,
		"01005": 1, "01006": 1, "01007": 1,
		"01033": 60,
	}
}

// CreateDeck seeds a deck with the given content for the user.
func CreateDeck(t *testing.T, db *gorm.DB, owner *users.User, name string, content map[string]int) *decks.Deck {
	t.Helper()

	var pack cards.Pack
	var lastPackID *uint
	if err := db.First(&pack).Error; err == nil {
		lastPackID = &pack.ID
	}

	d := decks.Deck{
		UUID:       uuid.NewString(),
		UserID:     owner.ID,
		Name:       name,
		LastPackID: lastPackID,
	}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("Failed to create deck: %v", err)
	}
	for code, qty := range content {
		if err := db.Create(&decks.DeckSlot{DeckID: d.ID, CardCode: code, Quantity: qty}).Error; err != nil {
			t.Fatalf("Failed to create deck slot: %v", err)
		}
	}
	if err := db.Preload("Slots").Preload("LastPack").First(&d, d.ID).Error; err != nil {
		t.Fatalf("Failed to reload deck: %v", err)
	}
	return &d
}

// CreateDecklist seeds a published decklist snapshot directly.
func CreateDecklist(t *testing.T, db *gorm.DB, owner *users.User, name string, version int, content map[string]int) *decklists.Decklist {
	t.Helper()

	dl := decklists.Decklist{
		UserID:        owner.ID,
		Name:          name,
		NameCanonical: name + "-" + strconv.Itoa(version),
		Version:       version,
		Signature:     decklists.Signature(content),
	}
	if err := db.Create(&dl).Error; err != nil {
		t.Fatalf("Failed to create decklist: %v", err)
	}
	for code, qty := range content {
		if err := db.Create(&decklists.DecklistSlot{DecklistID: dl.ID, CardCode: code, Quantity: qty}).Error; err != nil {
			t.Fatalf("Failed to create decklist slot: %v", err)
		}
	}
	return &dl
}
