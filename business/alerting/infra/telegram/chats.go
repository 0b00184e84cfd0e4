package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fd1az/optrack/internal/apperror"
)

// Chat is a chat the bot has received a message from.
type Chat struct {
	ID   int64
	Name string
	Type string
}

// FindChats lists the distinct chats in the bot's pending updates, in the
// order they first appear.
func FindChats(bot *tgbotapi.BotAPI) ([]Chat, error) {
	updates, err := bot.GetUpdates(tgbotapi.UpdateConfig{Limit: 100})
	if err != nil {
		return nil, apperror.New(apperror.CodeTelegramSendFailed,
			apperror.WithCause(err),
			apperror.WithContext("getUpdates"))
	}

	seen := make(map[int64]bool)
	var chats []Chat
	for _, u := range updates {
		if u.Message == nil || u.Message.Chat == nil {
			continue
		}
		c := u.Message.Chat
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		chats = append(chats, Chat{ID: c.ID, Name: chatName(c), Type: c.Type})
	}
	return chats, nil
}

func chatName(c *tgbotapi.Chat) string {
	switch {
	case c.Title != "":
		return c.Title
	case c.FirstName != "":
		return c.FirstName
	case c.UserName != "":
		return c.UserName
	default:
		return "Unknown"
	}
}
