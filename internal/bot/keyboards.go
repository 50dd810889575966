package bot

import (
	"fmt"
	"strconv"
	"strings"

	"fantamatto_bot/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback actions, encoded as "<action>|<arg>".
const (
	actionMatto          = "matto"
	actionSelectUser     = "select_user"
	actionSelectMatto    = "select_matto"
	actionGalleryMode    = "gallery_mode"
	actionMattoMode      = "matto_mode"
	actionManageUser     = "manage_user"
	actionDeleteSighting = "delete_sighting"
)

const (
	modeText   = "text"
	modePhotos = "photos"
)

func callbackData(action string, arg any) string {
	return fmt.Sprintf("%s|%v", action, arg)
}

func parseCallback(data string) (action, arg string) {
	action, arg, _ = strings.Cut(data, "|")
	return action, arg
}

func parseID(arg string) (int64, bool) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// rows lays buttons out perRow at a time.
func rows(buttons []tgbotapi.InlineKeyboardButton, perRow int) tgbotapi.InlineKeyboardMarkup {
	var out [][]tgbotapi.InlineKeyboardButton
	for len(buttons) > 0 {
		n := perRow
		if len(buttons) < n {
			n = len(buttons)
		}
		out = append(out, tgbotapi.NewInlineKeyboardRow(buttons[:n]...))
		buttons = buttons[n:]
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}

func reportKeyboard(matti []*model.Matto) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, len(matti))
	for i, m := range matti {
		buttons[i] = tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%s (+%d)", m.Name, m.Points),
			callbackData(actionMatto, m.ID),
		)
	}
	return rows(buttons, 2)
}

func mattoGalleryKeyboard(matti []*model.Matto) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, len(matti))
	for i, m := range matti {
		buttons[i] = tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%s (%d punti)", m.Name, m.Points),
			callbackData(actionSelectMatto, m.ID),
		)
	}
	return rows(buttons, 2)
}

func usersKeyboard(users []*model.User, action string) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, len(users))
	for i, u := range users {
		buttons[i] = tgbotapi.NewInlineKeyboardButtonData(u.DisplayName(), callbackData(action, u.ChatID))
	}
	return rows(buttons, 1)
}

func modeKeyboard(action string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Solo testo", callbackData(action, modeText)),
			tgbotapi.NewInlineKeyboardButtonData("Con foto", callbackData(action, modePhotos)),
		),
	)
}

func deleteKeyboard(sightingID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Elimina segnalazione", callbackData(actionDeleteSighting, sightingID)),
		),
	)
}
