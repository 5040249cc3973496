package decklists

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"deckshare-app/database"
	"deckshare-app/internal/domain/cards"
	"deckshare-app/internal/domain/decklists"
	"deckshare-app/internal/domain/texts"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type exportLine struct {
	Quantity int
	Name     string
	Type     string
	Cycle    int
	PackPos  int
}

// ------------------------------
// GET /decklists/:id/export?format=text|text_cycle|json
// ------------------------------
func Download(c *gin.Context) {
	var decklist decklists.Decklist
	err := database.DB.Preload("User").Preload("Slots").
		First(&decklist, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Decklist not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load decklist"})
		return
	}

	switch c.DefaultQuery("format", "text") {
	case "json":
		c.JSON(http.StatusOK, gin.H{
			"name":      decklist.Name,
			"signature": decklist.Signature,
			"slots":     decklist.SlotContent(),
		})
	case "text_cycle":
		writeTextAttachment(c, &decklist, renderExport(&decklist, true))
	case "text":
		fallthrough
	default:
		writeTextAttachment(c, &decklist, renderExport(&decklist, false))
	}
}

func writeTextAttachment(c *gin.Context, decklist *decklists.Decklist, content string) {
	filename := texts.Slugify(decklist.Name) + ".txt"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	// downloads use CRLF line endings
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(strings.ReplaceAll(content, "\n", "\r\n")))
}

func renderExport(decklist *decklists.Decklist, byCycle bool) string {
	lines := exportLines(decklist)

	if byCycle {
		sort.Slice(lines, func(i, j int) bool {
			if lines[i].Cycle != lines[j].Cycle {
				return lines[i].Cycle < lines[j].Cycle
			}
			if lines[i].PackPos != lines[j].PackPos {
				return lines[i].PackPos < lines[j].PackPos
			}
			return lines[i].Name < lines[j].Name
		})
	} else {
		sort.Slice(lines, func(i, j int) bool {
			if lines[i].Type != lines[j].Type {
				return lines[i].Type < lines[j].Type
			}
			return lines[i].Name < lines[j].Name
		})
	}

	var b strings.Builder
	b.WriteString(decklist.Name)
	b.WriteByte('\n')
	if decklist.User != nil {
		fmt.Fprintf(&b, "by %s\n", decklist.User.Username)
	}
	b.WriteByte('\n')
	for _, line := range lines {
		fmt.Fprintf(&b, "%dx %s\n", line.Quantity, line.Name)
	}
	return b.String()
}

func exportLines(decklist *decklists.Decklist) []exportLine {
	codes := make([]string, 0, len(decklist.Slots))
	for _, s := range decklist.Slots {
		codes = append(codes, s.CardCode)
	}

	byCode := make(map[string]cards.Card, len(codes))
	if len(codes) > 0 {
		var rows []cards.Card
		if err := database.DB.Preload("Pack").Where("code IN ?", codes).Find(&rows).Error; err == nil {
			for _, card := range rows {
				byCode[card.Code] = card
			}
		}
	}

	var cyclePositions map[uint]int
	{
		var cycles []cards.Cycle
		if err := database.DB.Find(&cycles).Error; err == nil {
			cyclePositions = make(map[uint]int, len(cycles))
			for _, cy := range cycles {
				cyclePositions[cy.ID] = cy.Position
			}
		}
	}

	lines := make([]exportLine, 0, len(decklist.Slots))
	for _, s := range decklist.Slots {
		line := exportLine{Quantity: s.Quantity, Name: s.CardCode}
		if card, ok := byCode[s.CardCode]; ok {
			line.Name = card.Name
			line.Type = card.Type
			line.PackPos = card.Pack.Position
			line.Cycle = cyclePositions[card.Pack.CycleID]
		}
		lines = append(lines, line)
	}
	return lines
}
