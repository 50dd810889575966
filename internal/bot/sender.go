package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fantamatto_bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxDownloadSize = 5 << 20

// Sender is everything the bot needs from the Telegram API. It also satisfies
// service.Messenger so broadcasts go through the same path.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error
	SendKeyboard(ctx context.Context, chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error
	SendPhotoKeyboard(ctx context.Context, chatID int64, fileID, caption string, keyboard tgbotapi.InlineKeyboardMarkup) error
	SendDocument(ctx context.Context, chatID int64, name string, content []byte, caption string) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

var _ service.Messenger = (Sender)(nil)

var unreachableKeywords = []string{"blocked", "not found", "deactivated"}

// classify wraps Telegram errors that mean the chat is gone for good with
// service.ErrRecipientUnreachable.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	desc := strings.ToLower(apiErr.Message)
	for _, kw := range unreachableKeywords {
		if strings.Contains(desc, kw) {
			return fmt.Errorf("%w: %s", service.ErrRecipientUnreachable, apiErr.Message)
		}
	}

	return fmt.Errorf("telegram api error %d: %s", apiErr.Code, apiErr.Message)
}

type TelegramSender struct {
	api    *tgbotapi.BotAPI
	client *http.Client
}

func NewTelegramSender(api *tgbotapi.BotAPI) *TelegramSender {
	return &TelegramSender{
		api:    api,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *TelegramSender) send(ctx context.Context, c tgbotapi.Chattable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.api.Send(c)
	return classify(err)
}

func (s *TelegramSender) request(ctx context.Context, c tgbotapi.Chattable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.api.Request(c)
	return classify(err)
}

func (s *TelegramSender) SendText(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	return s.send(ctx, msg)
}

func (s *TelegramSender) SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	return s.send(ctx, photo)
}

func (s *TelegramSender) SendKeyboard(ctx context.Context, chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	return s.send(ctx, msg)
}

func (s *TelegramSender) SendPhotoKeyboard(ctx context.Context, chatID int64, fileID, caption string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	photo.ReplyMarkup = keyboard
	return s.send(ctx, photo)
}

func (s *TelegramSender) SendDocument(ctx context.Context, chatID int64, name string, content []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  name,
		Bytes: content,
	})
	doc.Caption = caption
	return s.send(ctx, doc)
}

func (s *TelegramSender) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	cb.ShowAlert = alert
	return s.request(ctx, cb)
}

func (s *TelegramSender) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return s.request(ctx, tgbotapi.NewDeleteMessage(chatID, messageID))
}

func (s *TelegramSender) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := s.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", classify(err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading file: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if len(body) > maxDownloadSize {
		return nil, fmt.Errorf("file larger than %d bytes", maxDownloadSize)
	}

	return body, nil
}
