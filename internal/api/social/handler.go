package social

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"deckshare-app/database"
	"deckshare-app/internal/domain/decklists"
	"deckshare-app/internal/domain/texts"
	"deckshare-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type toggleRequest struct {
	ID uint `json:"id" binding:"required"`
}

type commentRequest struct {
	ID      uint   `json:"id" binding:"required"`
	Comment string `json:"comment"`
}

type visibilityRequest struct {
	Hidden bool `json:"hidden"`
}

func mustUser(c *gin.Context) (*users.User, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	var u users.User
	if err := database.DB.First(&u, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	return &u, true
}

// ------------------------------
// POST /social/favorite
// ------------------------------
// Toggles the acting user's favorite on a decklist and returns the new
// favorite count. Membership is re-checked at write time inside the
// transaction so a retried request cannot double-toggle.
func Favorite(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var decklist decklists.Decklist
		if err := tx.First(&decklist, "id = ?", req.ID).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Table("decklist_favorites").
			Where("decklist_id = ? AND user_id = ?", decklist.ID, user.ID).
			Count(&existing).Error; err != nil {
			return err
		}

		if existing > 0 {
			if err := tx.Exec("DELETE FROM decklist_favorites WHERE decklist_id = ? AND user_id = ?",
				decklist.ID, user.ID).Error; err != nil {
				return err
			}
			// no updated_at bump on removal
			if err := tx.Model(&decklists.Decklist{}).
				Where("id = ?", decklist.ID).
				UpdateColumn("nb_favorites", gorm.Expr("nb_favorites - 1")).Error; err != nil {
				return err
			}
			if decklist.UserID != user.ID {
				if err := adjustReputation(tx, decklist.UserID, -5); err != nil {
					return err
				}
			}
		} else {
			if err := tx.Exec("INSERT INTO decklist_favorites (decklist_id, user_id) VALUES (?, ?)",
				decklist.ID, user.ID).Error; err != nil {
				return err
			}
			if err := tx.Model(&decklists.Decklist{}).
				Where("id = ?", decklist.ID).
				UpdateColumns(map[string]interface{}{
					"nb_favorites": gorm.Expr("nb_favorites + 1"),
					"updated_at":   time.Now(),
				}).Error; err != nil {
				return err
			}
			if decklist.UserID != user.ID {
				if err := adjustReputation(tx, decklist.UserID, 5); err != nil {
					return err
				}
			}
		}

		return tx.Model(&decklists.Decklist{}).
			Select("nb_favorites").
			Where("id = ?", decklist.ID).
			Scan(&count).Error
	})

	if err != nil {
		respondError(c, err, "Failed to toggle favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"nb_favorites": count})
}

// ------------------------------
// POST /social/like
// ------------------------------
// Toggles the acting user's vote. A vote on one's own decklist is a
// complete no-op: unlike favorites, neither the counter nor reputation
// moves.
func Vote(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var decklist decklists.Decklist
		if err := tx.First(&decklist, "id = ?", req.ID).Error; err != nil {
			return err
		}

		count = decklist.NbVotes
		if decklist.UserID == user.ID {
			return nil
		}

		var existing int64
		if err := tx.Table("decklist_votes").
			Where("decklist_id = ? AND user_id = ?", decklist.ID, user.ID).
			Count(&existing).Error; err != nil {
			return err
		}

		delta := 1
		if existing > 0 {
			delta = -1
			if err := tx.Exec("DELETE FROM decklist_votes WHERE decklist_id = ? AND user_id = ?",
				decklist.ID, user.ID).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Exec("INSERT INTO decklist_votes (decklist_id, user_id) VALUES (?, ?)",
				decklist.ID, user.ID).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&decklists.Decklist{}).
			Where("id = ?", decklist.ID).
			UpdateColumns(map[string]interface{}{
				"nb_votes":   gorm.Expr("nb_votes + ?", delta),
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}
		if err := adjustReputation(tx, decklist.UserID, delta); err != nil {
			return err
		}

		return tx.Model(&decklists.Decklist{}).
			Select("nb_votes").
			Where("id = ?", decklist.ID).
			Scan(&count).Error
	})

	if err != nil {
		respondError(c, err, "Failed to toggle vote")
		return
	}

	c.JSON(http.StatusOK, gin.H{"nb_votes": count})
}

// ------------------------------
// POST /social/comment
// ------------------------------
// Records a comment: bare URLs are auto-linked, `@username` mentions are
// extracted, markdown is rendered to sanitized HTML. Notifications go out
// after the transaction commits and never fail the request.
func Comment(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text := strings.TrimSpace(req.Comment)
	if text == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	text = texts.AutoLinkURLs(text)
	mentioned := texts.ExtractMentions(text)
	rendered := texts.Markdown(text)

	var comment decklists.Comment
	var decklist decklists.Decklist
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").First(&decklist, "id = ?", req.ID).Error; err != nil {
			return err
		}

		comment = decklists.Comment{
			DecklistID: decklist.ID,
			UserID:     user.ID,
			Text:       rendered,
			IsHidden:   false,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		return tx.Model(&decklists.Decklist{}).
			Where("id = ?", decklist.ID).
			UpdateColumns(map[string]interface{}{
				"nb_comments": gorm.Expr("nb_comments + 1"),
				"updated_at":  time.Now(),
			}).Error
	})

	if err != nil {
		respondError(c, err, "Failed to post comment")
		return
	}

	// strictly downstream of the authoritative write
	notifyNewComment(&decklist, user, mentioned)

	c.JSON(http.StatusCreated, gin.H{"id": comment.ID, "text": comment.Text})
}

// ------------------------------
// PUT /social/comments/:id/visibility
// ------------------------------
// Only the owner of the commented decklist may hide or unhide; comment
// authorship grants no say.
func SetCommentVisibility(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var comment decklists.Comment
		if err := tx.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}

		var decklist decklists.Decklist
		if err := tx.First(&decklist, "id = ?", comment.DecklistID).Error; err != nil {
			return err
		}
		if decklist.UserID != user.ID {
			return decklists.ErrForbidden
		}

		return tx.Model(&decklists.Comment{}).
			Where("id = ?", comment.ID).
			Update("is_hidden", req.Hidden).Error
	})

	if err != nil {
		respondError(c, err, "Failed to update comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func adjustReputation(tx *gorm.DB, userID uint, delta int) error {
	return tx.Model(&users.User{}).
		Where("id = ?", userID).
		UpdateColumn("reputation", gorm.Expr("reputation + ?", delta)).Error
}

func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, decklists.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
