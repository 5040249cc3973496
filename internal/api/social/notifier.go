package social

import (
	"fmt"
	"log"
	"net/smtp"

	"deckshare-app/config"
	"deckshare-app/database"
	"deckshare-app/internal/domain/decklists"
	"deckshare-app/internal/domain/users"

	"gorm.io/gorm"
)

type notification struct {
	user    users.User
	subject string
	body    string
}

// deliver is swapped out in tests.
var deliver = sendMail

// notifyNewComment emails everyone with a stake in the decklist who opted
// in: its author, every prior commenter, and anyone mentioned in the new
// comment. The acting user never gets a copy of their own comment, and
// each address is notified at most once, with the most specific reason
// winning (mention > author > commenter).
func notifyNewComment(decklist *decklists.Decklist, actor *users.User, mentioned []string) {
	spool, err := commentSpool(database.DB, decklist, actor, mentioned)
	if err != nil {
		log.Println("comment notification query failed:", err)
		return
	}

	for _, n := range spool {
		if err := deliver(n.user.Email, n.subject, n.body); err != nil {
			log.Println("comment notification failed:", err)
		}
	}
}

// commentSpool computes the recipient set for a new comment, keyed by user
// ID so overlapping reasons collapse to a single mail.
func commentSpool(db *gorm.DB, decklist *decklists.Decklist, actor *users.User, mentioned []string) (map[uint]notification, error) {
	link := fmt.Sprintf("%s/decklist/view/%d", config.BASE_URL, decklist.ID)
	spool := map[uint]notification{}

	var commenters []users.User
	err := db.
		Distinct("users.*").
		Model(&users.User{}).
		Joins("JOIN comments ON comments.user_id = users.id").
		Where("comments.decklist_id = ?", decklist.ID).
		Find(&commenters).Error
	if err != nil {
		return nil, err
	}
	for _, u := range commenters {
		if !u.IsNotifCommenter {
			continue
		}
		spool[u.ID] = notification{
			user:    u,
			subject: fmt.Sprintf("New comment on %s", decklist.Name),
			body: fmt.Sprintf("%s commented on a decklist you also commented on:\n\n%s\n\n%s",
				actor.Username, decklist.Name, link),
		}
	}

	if decklist.User != nil && decklist.User.IsNotifAuthor {
		spool[decklist.User.ID] = notification{
			user:    *decklist.User,
			subject: fmt.Sprintf("New comment on %s", decklist.Name),
			body: fmt.Sprintf("%s commented on your decklist:\n\n%s\n\n%s",
				actor.Username, decklist.Name, link),
		}
	}

	if len(mentioned) > 0 {
		var mentionedUsers []users.User
		if err := db.Where("username IN ?", mentioned).Find(&mentionedUsers).Error; err != nil {
			log.Println("mention lookup failed:", err)
		}
		for _, u := range mentionedUsers {
			if !u.IsNotifMention {
				continue
			}
			spool[u.ID] = notification{
				user:    u,
				subject: fmt.Sprintf("%s mentioned you", actor.Username),
				body: fmt.Sprintf("%s mentioned you in a comment on %s:\n\n%s",
					actor.Username, decklist.Name, link),
			}
		}
	}

	delete(spool, actor.ID)
	return spool, nil
}

func sendMail(to, subject, body string) error {
	if config.SMTP_HOST == "" {
		return nil
	}

	auth := smtp.PlainAuth("", config.SMTP_FROM, config.SMTP_PASSWORD, config.SMTP_HOST)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + config.SMTP_FROM + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	return smtp.SendMail(config.SMTP_HOST+":"+config.SMTP_PORT, auth, config.SMTP_FROM, []string{to}, message)
}
