package decklists

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"deckshare-app/internal/testutil"
)

func TestDownload(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedCardSet(t, db)
	r := newTestRouter()
	r.GET("/decklists/:id/export", Download)

	owner := testutil.CreateUser(t, db, "alice")
	dl := testutil.CreateDecklist(t, db, owner, "Export Me", 1,
		map[string]int{"01001": 1, "01033": 3})

	t.Run("text export resolves card names", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet,
			fmt.Sprintf("/decklists/%d/export?format=text", dl.ID), nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		body := w.Body.String()
		if !strings.HasPrefix(body, "Export Me\r\nby alice\r\n") {
			t.Errorf("unexpected header: %q", body)
		}
		if !strings.Contains(body, "1x A Clash of Kings\r\n") {
			t.Errorf("plot line missing: %q", body)
		}
		if !strings.Contains(body, "3x Hedge Knight\r\n") {
			t.Errorf("character line missing: %q", body)
		}

		disposition := w.Header().Get("Content-Disposition")
		if !strings.Contains(disposition, `"export-me.txt"`) {
			t.Errorf("unexpected disposition %q", disposition)
		}
	})

	t.Run("json export returns the raw slots", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet,
			fmt.Sprintf("/decklists/%d/export?format=json", dl.ID), nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Name  string         `json:"name"`
			Slots map[string]int `json:"slots"`
		}
		testutil.DecodeJSON(t, w, &resp)
		if resp.Name != "Export Me" {
			t.Errorf("unexpected name %q", resp.Name)
		}
		if resp.Slots["01033"] != 3 {
			t.Errorf("unexpected slots %v", resp.Slots)
		}
	})

	t.Run("unknown decklist is 404", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodGet, "/decklists/999999/export", nil, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}
