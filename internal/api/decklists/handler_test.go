package decklists

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"testing"
	"time"

	"deckshare-app/internal/app/http/middleware"
	"deckshare-app/internal/domain/cards"
	"deckshare-app/internal/domain/decklists"
	"deckshare-app/internal/domain/decks"
	"deckshare-app/internal/testutil"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func newTestRouter() *gin.Engine {
	r := testutil.NewRouter()
	auth := r.Group("/", middleware.AuthMiddleware())
	auth.GET("/decks/:uuid/publish", PublishForm)
	auth.POST("/decklists", Create)
	auth.PUT("/decklists/:id", Save)
	auth.DELETE("/decklists/:id", Delete)
	r.GET("/decklists/:id", View)
	r.GET("/decklists/list/:type", List)
	return r
}

func TestPublishFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedCardSet(t, db)
	r := newTestRouter()

	owner := testutil.CreateUser(t, db, "alice")
	deck := testutil.CreateDeck(t, db, owner, "Wolves of Winter", testutil.ValidSlots())

	t.Run("publish form previews the decklist", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/decks/"+deck.UUID+"/publish", nil, owner)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp PublishPreviewDTO
		testutil.DecodeJSON(t, w, &resp)
		if resp.Decklist.Version != 1 {
			t.Errorf("expected draft version 1, got %d", resp.Decklist.Version)
		}
		if resp.Decklist.NameCanonical != "wolves-of-winter-1" {
			t.Errorf("unexpected canonical name %q", resp.Decklist.NameCanonical)
		}
		if len(resp.Duplicates) != 0 {
			t.Errorf("expected no duplicate warnings, got %d", len(resp.Duplicates))
		}
	})

	t.Run("publish creates an immutable snapshot", func(t *testing.T) {
		body := PublishRequest{DeckID: deck.ID, Name: "Wolves of Winter", DescriptionMd: "Run them down."}
		w := testutil.DoJSON(t, r, http.MethodPost, "/decklists", body, owner)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			ID            uint   `json:"id"`
			NameCanonical string `json:"name_canonical"`
		}
		testutil.DecodeJSON(t, w, &resp)
		if resp.NameCanonical != "wolves-of-winter-1" {
			t.Errorf("unexpected canonical name %q", resp.NameCanonical)
		}

		var published decklists.Decklist
		if err := db.Preload("Slots").First(&published, resp.ID).Error; err != nil {
			t.Fatalf("published decklist not found: %v", err)
		}
		if !decklists.SameContent(published.SlotContent(), deck.SlotContent()) {
			t.Error("published slots differ from the deck's content")
		}
		if published.Signature != decklists.Signature(deck.SlotContent()) {
			t.Error("signature does not match the published content")
		}

		var reloaded decks.Deck
		if err := db.First(&reloaded, deck.ID).Error; err != nil {
			t.Fatal(err)
		}
		if reloaded.ParentDecklistID == nil || *reloaded.ParentDecklistID != resp.ID {
			t.Error("deck was not linked to its publication")
		}
	})

	t.Run("duplicate content warns without blocking", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/decks/"+deck.UUID+"/publish", nil, owner)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp PublishPreviewDTO
		testutil.DecodeJSON(t, w, &resp)
		if len(resp.Duplicates) != 1 {
			t.Fatalf("expected one duplicate warning, got %d", len(resp.Duplicates))
		}
		if resp.Duplicates[0].NameCanonical != "wolves-of-winter-1" {
			t.Errorf("unexpected duplicate %q", resp.Duplicates[0].NameCanonical)
		}
	})

	t.Run("publishing onto a precedent continues its numbering", func(t *testing.T) {
		var first decklists.Decklist
		if err := db.First(&first, "name_canonical = ?", "wolves-of-winter-1").Error; err != nil {
			t.Fatal(err)
		}

		body := PublishRequest{
			DeckID:    deck.ID,
			Name:      "Wolves of Winter",
			Precedent: fmt.Sprintf("%d", first.ID),
		}
		w := testutil.DoJSON(t, r, http.MethodPost, "/decklists", body, owner)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			ID            uint   `json:"id"`
			NameCanonical string `json:"name_canonical"`
		}
		testutil.DecodeJSON(t, w, &resp)
		if resp.NameCanonical != "wolves-of-winter-2" {
			t.Errorf("expected version 2 canonical name, got %q", resp.NameCanonical)
		}

		var second decklists.Decklist
		if err := db.First(&second, resp.ID).Error; err != nil {
			t.Fatal(err)
		}
		if second.Version != 2 {
			t.Errorf("expected version 2, got %d", second.Version)
		}
		if second.PrecedentID == nil || *second.PrecedentID != first.ID {
			t.Error("precedent link missing")
		}
	})

	t.Run("precedent accepts a detail URL", func(t *testing.T) {
		var first decklists.Decklist
		if err := db.First(&first, "name_canonical = ?", "wolves-of-winter-1").Error; err != nil {
			t.Fatal(err)
		}

		body := PublishRequest{
			DeckID:    deck.ID,
			Name:      "Wolves of Winter",
			Precedent: fmt.Sprintf("https://example.com/decklists/view/%d/wolves", first.ID),
		}
		w := testutil.DoJSON(t, r, http.MethodPost, "/decklists", body, owner)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			ID uint `json:"id"`
		}
		testutil.DecodeJSON(t, w, &resp)
		var created decklists.Decklist
		if err := db.First(&created, resp.ID).Error; err != nil {
			t.Fatal(err)
		}
		if created.PrecedentID == nil || *created.PrecedentID != first.ID {
			t.Error("detail URL precedent not resolved")
		}
	})

	t.Run("garbage precedent fails open", func(t *testing.T) {
		body := PublishRequest{DeckID: deck.ID, Name: "Loose Ref", Precedent: "not a reference"}
		w := testutil.DoJSON(t, r, http.MethodPost, "/decklists", body, owner)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			ID uint `json:"id"`
		}
		testutil.DecodeJSON(t, w, &resp)
		var created decklists.Decklist
		if err := db.First(&created, resp.ID).Error; err != nil {
			t.Fatal(err)
		}
		if created.PrecedentID != nil {
			t.Error("garbage precedent should resolve to none")
		}
	})
}

func TestPublishFormRejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedCardSet(t, db)
	r := newTestRouter()

	owner := testutil.CreateUser(t, db, "alice")
	intruder := testutil.CreateUser(t, db, "mallory")
	deck := testutil.CreateDeck(t, db, owner, "Guarded", testutil.ValidSlots())

	t.Run("foreign deck is forbidden", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/decks/"+deck.UUID+"/publish", nil, intruder)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	t.Run("unknown deck is 404", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/decks/no-such-uuid/publish", nil, owner)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("unreleased pack blocks publication", func(t *testing.T) {
		future := time.Now().AddDate(0, 1, 0)
		pack := cards.Pack{CycleID: 1, Code: "next", Name: "Next Pack", Position: 99, DateRelease: &future}
		if err := db.Create(&pack).Error; err != nil {
			t.Fatal(err)
		}
		unreleased := testutil.CreateDeck(t, db, owner, "Too Soon", testutil.ValidSlots())
		if err := db.Model(&decks.Deck{}).Where("id = ?", unreleased.ID).
			Update("last_pack_id", pack.ID).Error; err != nil {
			t.Fatal(err)
		}

		w := testutil.DoJSON(t, r, http.MethodGet, "/decks/"+unreleased.UUID+"/publish", nil, owner)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("invalid deck blocks publication", func(t *testing.T) {
		short := testutil.ValidSlots()
		short["01033"] = 10
		invalid := testutil.CreateDeck(t, db, owner, "Thin Deck", short)

		w := testutil.DoJSON(t, r, http.MethodGet, "/decks/"+invalid.UUID+"/publish", nil, owner)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("publishing a foreign deck is forbidden", func(t *testing.T) {
		body := PublishRequest{DeckID: deck.ID, Name: "Stolen"}
		w := testutil.DoJSON(t, r, http.MethodPost, "/decklists", body, intruder)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})
}

func TestSaveDecklist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	r := newTestRouter()

	owner := testutil.CreateUser(t, db, "alice")
	intruder := testutil.CreateUser(t, db, "mallory")
	admin := testutil.CreateAdmin(t, db, "root")
	content := map[string]int{"01001": 2}

	t.Run("blank name falls back to Untitled", func(t *testing.T) {
		dl := testutil.CreateDecklist(t, db, owner, "original", 1, content)
		w := testutil.DoJSON(t, r, http.MethodPut, fmt.Sprintf("/decklists/%d", dl.ID),
			SaveRequest{Name: "   "}, owner)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var saved decklists.Decklist
		if err := db.First(&saved, dl.ID).Error; err != nil {
			t.Fatal(err)
		}
		if saved.Name != "Untitled" {
			t.Errorf("expected Untitled, got %q", saved.Name)
		}
		if saved.NameCanonical != "untitled-1" {
			t.Errorf("expected untitled-1, got %q", saved.NameCanonical)
		}
	})

	t.Run("name is capped at 60 characters", func(t *testing.T) {
		dl := testutil.CreateDecklist(t, db, owner, "short", 3, content)
		long := strings.Repeat("x", 80)
		w := testutil.DoJSON(t, r, http.MethodPut, fmt.Sprintf("/decklists/%d", dl.ID),
			SaveRequest{Name: long}, owner)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var saved decklists.Decklist
		if err := db.First(&saved, dl.ID).Error; err != nil {
			t.Fatal(err)
		}
		if len(saved.Name) != 60 {
			t.Errorf("expected 60-char name, got %d chars", len(saved.Name))
		}
		// the version suffix survives the rename
		if !strings.HasSuffix(saved.NameCanonical, "-3") {
			t.Errorf("version suffix lost: %q", saved.NameCanonical)
		}
	})

	t.Run("self-precedent is dropped", func(t *testing.T) {
		older := testutil.CreateDecklist(t, db, owner, "older", 1, content)
		dl := testutil.CreateDecklist(t, db, owner, "loops", 2, content)
		if err := db.Model(&decklists.Decklist{}).Where("id = ?", dl.ID).
			Update("precedent_id", older.ID).Error; err != nil {
			t.Fatal(err)
		}

		w := testutil.DoJSON(t, r, http.MethodPut, fmt.Sprintf("/decklists/%d", dl.ID),
			SaveRequest{Name: "loops", Precedent: fmt.Sprintf("%d", dl.ID)}, owner)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var saved decklists.Decklist
		if err := db.First(&saved, dl.ID).Error; err != nil {
			t.Fatal(err)
		}
		if saved.PrecedentID != nil {
			t.Error("self-precedent should clear the link")
		}
	})

	t.Run("stranger cannot edit", func(t *testing.T) {
		dl := testutil.CreateDecklist(t, db, owner, "locked", 1, content)
		w := testutil.DoJSON(t, r, http.MethodPut, fmt.Sprintf("/decklists/%d", dl.ID),
			SaveRequest{Name: "hijacked"}, intruder)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	t.Run("admin can edit anyone's decklist", func(t *testing.T) {
		dl := testutil.CreateDecklist(t, db, owner, "moderated", 1, content)
		w := testutil.DoJSON(t, r, http.MethodPut, fmt.Sprintf("/decklists/%d", dl.ID),
			SaveRequest{Name: "cleaned up"}, admin)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestDeleteDecklist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	r := newTestRouter()

	owner := testutil.CreateUser(t, db, "alice")
	admin := testutil.CreateAdmin(t, db, "root")
	content := map[string]int{"01001": 2}

	t.Run("interactions block deletion", func(t *testing.T) {
		dl := testutil.CreateDecklist(t, db, owner, "beloved", 1, content)
		if err := db.Model(&decklists.Decklist{}).Where("id = ?", dl.ID).
			Update("nb_votes", 1).Error; err != nil {
			t.Fatal(err)
		}

		w := testutil.DoJSON(t, r, http.MethodDelete, fmt.Sprintf("/decklists/%d", dl.ID), nil, owner)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("even an admin cannot delete another user's decklist", func(t *testing.T) {
		dl := testutil.CreateDecklist(t, db, owner, "not yours", 1, content)
		w := testutil.DoJSON(t, r, http.MethodDelete, fmt.Sprintf("/decklists/%d", dl.ID), nil, admin)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	t.Run("deletion splices the version chain", func(t *testing.T) {
		v1 := testutil.CreateDecklist(t, db, owner, "chain", 1, content)
		v2 := testutil.CreateDecklist(t, db, owner, "chain", 2, content)
		v3 := testutil.CreateDecklist(t, db, owner, "chain", 3, content)
		if err := db.Model(&decklists.Decklist{}).Where("id = ?", v2.ID).
			Update("precedent_id", v1.ID).Error; err != nil {
			t.Fatal(err)
		}
		if err := db.Model(&decklists.Decklist{}).Where("id = ?", v3.ID).
			Update("precedent_id", v2.ID).Error; err != nil {
			t.Fatal(err)
		}
		deck := testutil.CreateDeck(t, db, owner, "chained deck", content)
		if err := db.Model(&decks.Deck{}).Where("id = ?", deck.ID).
			Update("parent_decklist_id", v2.ID).Error; err != nil {
			t.Fatal(err)
		}

		w := testutil.DoJSON(t, r, http.MethodDelete, fmt.Sprintf("/decklists/%d", v2.ID), nil, owner)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var gone decklists.Decklist
		if err := db.First(&gone, v2.ID).Error; err != gorm.ErrRecordNotFound {
			t.Errorf("expected record gone, got %v", err)
		}

		var successor decklists.Decklist
		if err := db.First(&successor, v3.ID).Error; err != nil {
			t.Fatal(err)
		}
		if successor.PrecedentID == nil || *successor.PrecedentID != v1.ID {
			t.Error("successor was not repointed to the deleted node's precedent")
		}

		var child decks.Deck
		if err := db.First(&child, deck.ID).Error; err != nil {
			t.Fatal(err)
		}
		if child.ParentDecklistID == nil || *child.ParentDecklistID != v1.ID {
			t.Error("deck was not repointed to the deleted node's precedent")
		}
	})

	t.Run("deleting a chain head clears successor links", func(t *testing.T) {
		head := testutil.CreateDecklist(t, db, owner, "head", 1, content)
		next := testutil.CreateDecklist(t, db, owner, "head", 2, content)
		if err := db.Model(&decklists.Decklist{}).Where("id = ?", next.ID).
			Update("precedent_id", head.ID).Error; err != nil {
			t.Fatal(err)
		}

		w := testutil.DoJSON(t, r, http.MethodDelete, fmt.Sprintf("/decklists/%d", head.ID), nil, owner)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var successor decklists.Decklist
		if err := db.First(&successor, next.ID).Error; err != nil {
			t.Fatal(err)
		}
		if successor.PrecedentID != nil {
			t.Error("successor of a chain head should have no precedent after deletion")
		}
	})
}

func TestViewDecklist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	r := newTestRouter()

	owner := testutil.CreateUser(t, db, "alice")
	content := map[string]int{"01001": 2, "01002": 1}

	v1 := testutil.CreateDecklist(t, db, owner, "lineage", 1, content)
	v2 := testutil.CreateDecklist(t, db, owner, "lineage", 2, map[string]int{"01001": 3})
	if err := db.Model(&decklists.Decklist{}).Where("id = ?", v2.ID).
		Update("precedent_id", v1.ID).Error; err != nil {
		t.Fatal(err)
	}

	t.Run("detail includes the full version chain", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, fmt.Sprintf("/decklists/%d", v1.ID), nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp DecklistDetailDTO
		testutil.DecodeJSON(t, w, &resp)
		if len(resp.Versions) != 2 {
			t.Fatalf("expected 2 versions in chain, got %d", len(resp.Versions))
		}
		if resp.Versions[0].Version != 1 || resp.Versions[1].Version != 2 {
			t.Errorf("chain out of order: %+v", resp.Versions)
		}
		if len(resp.Slots) != 2 {
			t.Errorf("expected 2 slots, got %d", len(resp.Slots))
		}
	})

	t.Run("older identical decklist is surfaced as duplicate", func(t *testing.T) {
		reprint := testutil.CreateDecklist(t, db, owner, "reprint", 1, content)

		w := testutil.DoJSON(t, r, http.MethodGet, fmt.Sprintf("/decklists/%d", reprint.ID), nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp DecklistDetailDTO
		testutil.DecodeJSON(t, w, &resp)
		if resp.Duplicate == nil {
			t.Fatal("expected a duplicate pointer to the older decklist")
		}
		if resp.Duplicate.DecklistID != v1.ID {
			t.Errorf("expected duplicate %d, got %d", v1.ID, resp.Duplicate.DecklistID)
		}
	})

	t.Run("unknown decklist is 404", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/decklists/999999", nil, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}

func TestListDecklists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	r := newTestRouter()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	famous := testutil.CreateDecklist(t, db, alice, "famous", 1, map[string]int{"01001": 1})
	if err := db.Model(&decklists.Decklist{}).Where("id = ?", famous.ID).
		Update("nb_votes", 12).Error; err != nil {
		t.Fatal(err)
	}
	testutil.CreateDecklist(t, db, bob, "obscure", 1, map[string]int{"01002": 1})

	t.Run("hall of fame filters by vote threshold", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/decklists/list/halloffame", nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp ListResponse
		testutil.DecodeJSON(t, w, &resp)
		if resp.Total != 1 {
			t.Fatalf("expected 1 decklist, got %d", resp.Total)
		}
		if resp.Decklists[0].Name != "famous" {
			t.Errorf("unexpected decklist %q", resp.Decklists[0].Name)
		}
	})

	t.Run("search by author", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/decklists/list/find?author=bob", nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp ListResponse
		testutil.DecodeJSON(t, w, &resp)
		if resp.Total != 1 || resp.Decklists[0].Username != "bob" {
			t.Errorf("expected bob's single decklist, got %+v", resp)
		}
	})

	t.Run("search by name fragment", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/decklists/list/find?name=fam", nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp ListResponse
		testutil.DecodeJSON(t, w, &resp)
		if resp.Total != 1 || resp.Decklists[0].Name != "famous" {
			t.Errorf("expected the famous decklist, got %+v", resp)
		}
	})

	t.Run("mine requires authentication", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/decklists/list/mine", nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("unknown list type is rejected", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/decklists/list/whatever", nil, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestSearchFacetFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedCardSet(t, db)
	r := newTestRouter()

	stark := cards.Faction{Code: "stark", Name: "House Stark"}
	if err := db.Create(&stark).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&cards.Card{}).Where("code = ?", "01033").
		Update("faction_id", stark.ID).Error; err != nil {
		t.Fatal(err)
	}

	var corePack cards.Pack
	if err := db.First(&corePack, "code = ?", "Core").Error; err != nil {
		t.Fatal(err)
	}
	released := time.Now().AddDate(0, -1, 0)
	wolves := cards.Pack{CycleID: corePack.CycleID, Code: "wolves", Name: "Wolves of the North", Position: 2, DateRelease: &released}
	if err := db.Create(&wolves).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&cards.Card{Code: "02001", Name: "Grey Wind", Type: "character", PackID: wolves.ID, DeckLimit: 3}).Error; err != nil {
		t.Fatal(err)
	}

	alice := testutil.CreateUser(t, db, "alice")
	testutil.CreateDecklist(t, db, alice, "knights", 1, map[string]int{"01033": 3})
	testutil.CreateDecklist(t, db, alice, "direwolves", 1, map[string]int{"02001": 3})
	testutil.CreateDecklist(t, db, alice, "plots", 1, map[string]int{"01001": 1})

	search := func(t *testing.T, query string) []string {
		t.Helper()
		w := testutil.DoJSON(t, r, http.MethodGet, "/decklists/list/find?"+query, nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp ListResponse
		testutil.DecodeJSON(t, w, &resp)
		names := make([]string, 0, len(resp.Decklists))
		for _, d := range resp.Decklists {
			names = append(names, d.Name)
		}
		sort.Strings(names)
		return names
	}

	t.Run("faction keeps decklists playing that faction", func(t *testing.T) {
		got := search(t, "faction=stark")
		if len(got) != 1 || got[0] != "knights" {
			t.Errorf("expected only the stark decklist, got %v", got)
		}
	})

	t.Run("unknown faction matches nothing", func(t *testing.T) {
		if got := search(t, "faction=greyjoy"); len(got) != 0 {
			t.Errorf("expected no decklists, got %v", got)
		}
	})

	t.Run("pack facet keeps decklists buildable from the checked packs", func(t *testing.T) {
		got := search(t, fmt.Sprintf("packs=%d", corePack.ID))
		if len(got) != 2 || got[0] != "knights" || got[1] != "plots" {
			t.Errorf("expected the two core-only decklists, got %v", got)
		}
	})

	t.Run("checking every pack keeps everything", func(t *testing.T) {
		got := search(t, fmt.Sprintf("packs=%d,%d", corePack.ID, wolves.ID))
		if len(got) != 3 {
			t.Errorf("expected all decklists, got %v", got)
		}
	})

	t.Run("facets combine", func(t *testing.T) {
		got := search(t, fmt.Sprintf("faction=stark&packs=%d", wolves.ID))
		if len(got) != 0 {
			t.Errorf("expected no matches, got %v", got)
		}
	})

	t.Run("garbage pack ids degrade to absent", func(t *testing.T) {
		got := search(t, "packs=abc,-1,")
		if len(got) != 3 {
			t.Errorf("expected the filter to be ignored, got %v", got)
		}
	})
}
