package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"unicode/utf8"

	"fantamatto_bot/internal/metrics"
	"fantamatto_bot/internal/service"
	"fantamatto_bot/internal/session"
	"fantamatto_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Config struct {
	BotToken             string `mapstructure:"botToken" validate:"required"`
	AdminChatID          int64  `mapstructure:"adminChatID"`
	RegistrationPassword string `mapstructure:"registrationPassword" validate:"required"`
	Debug                bool   `mapstructure:"debug"`
}

type Bot struct {
	api         *tgbotapi.BotAPI
	sender      Sender
	svc         *service.Service
	sessions    *session.Store
	adminChatID int64

	wg sync.WaitGroup
}

// NewAPI authorizes against Telegram.
func NewAPI(cfg Config) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	api.Debug = cfg.Debug

	return api, nil
}

// New builds the dispatcher. api may be nil when only HandleUpdate is used.
func New(api *tgbotapi.BotAPI, sender Sender, svc *service.Service, sessions *session.Store, adminChatID int64) *Bot {
	return &Bot{
		api:         api,
		sender:      sender,
		svc:         svc,
		sessions:    sessions,
		adminChatID: adminChatID,
	}
}

// Run long-polls Telegram and dispatches every update on its own goroutine
// until ctx is cancelled. It waits for in-flight handlers before returning.
func (b *Bot) Run(ctx context.Context) error {
	log := logger.Logger()

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)

	log.Info("bot started, waiting for commands", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return nil
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.HandleUpdate(ctx, u)
			}(update)

		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			log.Info("bot stopped")
			return nil
		}
	}
}

// HandleUpdate dispatches a single update. Failures and panics are logged
// with a trace id and answered with a generic message.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	traceID := uuid.NewString()
	kind := updateKind(update)
	chatID := updateChatID(update)

	log := logger.Logger().With(
		zap.String("trace_id", traceID),
		zap.String("kind", kind),
		zap.Int64("chat_id", chatID),
	)

	metrics.UpdatesHandled.WithLabelValues(kind).Inc()

	defer func() {
		if r := recover(); r != nil {
			metrics.UpdatesFailed.WithLabelValues(kind).Inc()
			log.Error("panic while handling update",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			b.fail(ctx, update, chatID)
		}
	}()

	var err error
	switch {
	case update.CallbackQuery != nil:
		err = b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		err = b.handleMessage(ctx, update.Message)
	default:
		return
	}

	if err != nil {
		metrics.UpdatesFailed.WithLabelValues(kind).Inc()
		log.Error("failed to handle update", zap.Error(err))
		b.fail(ctx, update, chatID)
	}
}

func (b *Bot) fail(ctx context.Context, update tgbotapi.Update, chatID int64) {
	if cq := update.CallbackQuery; cq != nil {
		_ = b.sender.AnswerCallback(ctx, cq.ID, "", false)
	}
	if chatID == 0 {
		return
	}
	if err := b.sender.SendText(ctx, chatID, msgInternalError); err != nil {
		logger.Logger().Warn("failed to send failure notice", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	switch {
	case msg.IsCommand():
		return b.handleCommand(ctx, msg)
	case len(msg.Photo) > 0:
		return b.handlePhoto(ctx, msg)
	case msg.Document != nil:
		return b.handleDocument(ctx, msg)
	case msg.Text != "":
		return b.handleText(ctx, msg)
	}
	return nil
}

func (b *Bot) isAdmin(chatID int64) bool {
	return b.adminChatID != 0 && chatID == b.adminChatID
}

// sendLong sends text, falling back to a .txt attachment when it does not
// fit in a single message.
func (b *Bot) sendLong(ctx context.Context, chatID int64, text, name, caption string) error {
	if utf8.RuneCountInString(text) <= maxMessageLen {
		return b.sender.SendText(ctx, chatID, text)
	}

	filename := fmt.Sprintf("%s-%s.txt", name, uuid.NewString()[:8])
	return b.sender.SendDocument(ctx, chatID, filename, []byte(plainText(text)), caption)
}

func updateKind(update tgbotapi.Update) string {
	switch {
	case update.CallbackQuery != nil:
		return "callback"
	case update.Message == nil:
		return "other"
	case update.Message.IsCommand():
		return "command"
	case len(update.Message.Photo) > 0:
		return "photo"
	case update.Message.Document != nil:
		return "document"
	default:
		return "text"
	}
}

func updateChatID(update tgbotapi.Update) int64 {
	switch {
	case update.CallbackQuery != nil:
		return callbackChatID(update.CallbackQuery)
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID
	}
	return 0
}

// senderNames tolerates updates without a From, such as channel posts.
func senderNames(from *tgbotapi.User) (username, firstName string) {
	if from == nil {
		return "", ""
	}
	return from.UserName, from.FirstName
}

func callbackChatID(cq *tgbotapi.CallbackQuery) int64 {
	if cq.Message != nil && cq.Message.Chat != nil {
		return cq.Message.Chat.ID
	}
	if cq.From != nil {
		return cq.From.ID
	}
	return 0
}
