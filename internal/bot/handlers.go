package bot

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"fantamatto_bot/internal/service"
	"fantamatto_bot/internal/session"
	"fantamatto_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "me":
		return b.handleMe(ctx, msg)
	case "comandi", "help":
		return b.handleHelp(ctx, msg)
	case "classifica":
		return b.handleLeaderboard(ctx, msg)
	case "listmatti":
		return b.handleListMatti(ctx, msg)
	case "report":
		return b.handleReport(ctx, msg)
	case "galleria_utente":
		return b.handleUserGalleryPicker(ctx, msg)
	case "galleria_matto":
		return b.handleMattoGalleryPicker(ctx, msg)
	case "admin":
		return b.adminOnly(b.handleAdmin)(ctx, msg)
	case "upload_matti":
		return b.adminOnly(b.handleUploadMatti)(ctx, msg)
	default:
		return b.sender.SendText(ctx, msg.Chat.ID, msgUnknownCommand)
	}
}

type messageHandler func(ctx context.Context, msg *tgbotapi.Message) error

func (b *Bot) adminOnly(next messageHandler) messageHandler {
	return func(ctx context.Context, msg *tgbotapi.Message) error {
		if !b.isAdmin(msg.Chat.ID) {
			logger.Logger().Info("admin command refused", zap.Int64("chat_id", msg.Chat.ID), zap.String("command", msg.Command()))
			return b.sender.SendText(ctx, msg.Chat.ID, msgAdminOnly)
		}
		return next(ctx, msg)
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID

	username, firstName := senderNames(msg.From)

	user, err := b.svc.Users.Start(ctx, chatID, username, firstName)
	if err != nil {
		return err
	}

	if user.Registered {
		return b.sender.SendText(ctx, chatID, msgAlreadyRegistered)
	}

	b.sessions.Set(chatID, session.Password())
	return b.sender.SendText(ctx, chatID, msgAskPassword)
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID

	if b.sessions.Get(chatID).Kind != session.AwaitingPassword {
		return nil
	}

	err := b.svc.Users.Register(ctx, chatID, msg.Text)
	switch {
	case errors.Is(err, service.ErrWrongPassword):
		return b.sender.SendText(ctx, chatID, msgPasswordWrong)
	case errors.Is(err, service.ErrUserNotFound):
		b.sessions.Clear(chatID)
		return b.sender.SendText(ctx, chatID, msgNotRegistered)
	case err != nil:
		return err
	}

	b.sessions.Clear(chatID)
	logger.Logger().Info("user registered", zap.Int64("chat_id", chatID))

	return b.sender.SendText(ctx, chatID, msgPasswordOK)
}

func (b *Bot) handleMe(ctx context.Context, msg *tgbotapi.Message) error {
	standing, err := b.svc.Users.Standing(ctx, msg.Chat.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotRegistered) {
			return b.sender.SendText(ctx, msg.Chat.ID, msgNotRegistered)
		}
		return err
	}

	return b.sender.SendText(ctx, msg.Chat.ID, renderStanding(standing))
}

func (b *Bot) handleHelp(ctx context.Context, msg *tgbotapi.Message) error {
	text := helpText
	if b.isAdmin(msg.Chat.ID) {
		text += adminHelpText
	}
	return b.sender.SendText(ctx, msg.Chat.ID, text)
}

func (b *Bot) handleLeaderboard(ctx context.Context, msg *tgbotapi.Message) error {
	users, err := b.svc.Users.Leaderboard(ctx, 0)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		return b.sender.SendText(ctx, msg.Chat.ID, msgEmptyLeaderboard)
	}

	return b.sendLong(ctx, msg.Chat.ID, renderLeaderboard(users), "classifica", "Classifica completa")
}

func (b *Bot) handleListMatti(ctx context.Context, msg *tgbotapi.Message) error {
	matti, err := b.svc.Catalog.List(ctx)
	if err != nil {
		return err
	}

	if len(matti) == 0 {
		return b.sender.SendText(ctx, msg.Chat.ID, msgEmptyCatalog)
	}

	return b.sendLong(ctx, msg.Chat.ID, renderCatalog(matti), "matti", "Lista matti")
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID

	registered, err := b.svc.Users.IsRegistered(ctx, chatID)
	if err != nil {
		return err
	}
	if !registered {
		return b.sender.SendText(ctx, chatID, msgRegisterFirst)
	}

	matti, err := b.svc.Catalog.List(ctx)
	if err != nil {
		return err
	}
	if len(matti) == 0 {
		return b.sender.SendText(ctx, chatID, msgNoMatti)
	}

	return b.sender.SendKeyboard(ctx, chatID, msgPickMatto, reportKeyboard(matti))
}

func (b *Bot) handleUserGalleryPicker(ctx context.Context, msg *tgbotapi.Message) error {
	users, err := b.svc.Users.ListRegistered(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return b.sender.SendText(ctx, msg.Chat.ID, msgNoUsers)
	}

	return b.sender.SendKeyboard(ctx, msg.Chat.ID, msgPickUserGallery, usersKeyboard(users, actionSelectUser))
}

func (b *Bot) handleMattoGalleryPicker(ctx context.Context, msg *tgbotapi.Message) error {
	matti, err := b.svc.Catalog.List(ctx)
	if err != nil {
		return err
	}
	if len(matti) == 0 {
		return b.sender.SendText(ctx, msg.Chat.ID, msgNoMatti)
	}

	return b.sender.SendKeyboard(ctx, msg.Chat.ID, msgPickMattoGallery, mattoGalleryKeyboard(matti))
}

func (b *Bot) handleAdmin(ctx context.Context, msg *tgbotapi.Message) error {
	users, err := b.svc.Users.ListRegistered(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return b.sender.SendText(ctx, msg.Chat.ID, msgNoUsers)
	}

	return b.sender.SendKeyboard(ctx, msg.Chat.ID, msgPickUserManage, usersKeyboard(users, actionManageUser))
}

func (b *Bot) handleUploadMatti(ctx context.Context, msg *tgbotapi.Message) error {
	b.sessions.Set(msg.Chat.ID, session.CatalogUpload())
	return b.sender.SendText(ctx, msg.Chat.ID, msgUploadPrompt)
}

// handlePhoto completes a pending report and broadcasts it.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID

	st, ok := b.sessions.Take(chatID, session.AwaitingPhoto)
	if !ok || st.Report == nil {
		return nil
	}

	// The last size is the largest.
	fileID := msg.Photo[len(msg.Photo)-1].FileID

	res, err := b.svc.Sightings.Report(ctx, chatID, *st.Report, fileID)
	switch {
	case errors.Is(err, service.ErrMattoNotFound):
		return b.sender.SendText(ctx, chatID, msgMattoGone)
	case errors.Is(err, service.ErrUserNotFound):
		return b.sender.SendText(ctx, chatID, msgRegisterFirst)
	case err != nil:
		return err
	}

	text := renderSightingBroadcast(chatID, *st.Report, res.TotalPoints)
	out, err := b.svc.Broadcast.Broadcast(ctx, text, fileID)
	if err != nil {
		return err
	}

	logger.Logger().Info("sighting broadcast",
		zap.Int64("sighting_id", res.Sighting.ID),
		zap.Int("sent", out.Sent),
		zap.Int("removed", len(out.Removed)),
		zap.Int("failed", out.Failed),
	)

	return b.sender.SendText(ctx, chatID, renderReportConfirmation(out.Sent))
}

// handleDocument accepts a catalog upload from the admin.
func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	if !b.isAdmin(chatID) {
		return nil
	}

	if _, ok := b.sessions.Take(chatID, session.AwaitingCatalogUpload); !ok {
		return nil
	}

	doc := msg.Document
	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".txt") {
		return b.sender.SendText(ctx, chatID, msgUploadNotText)
	}

	content, err := b.sender.DownloadFile(ctx, doc.FileID)
	if err != nil {
		logger.Logger().Error("failed to download catalog", zap.Error(err))
		return b.sender.SendText(ctx, chatID, renderUploadFailed(err))
	}

	res, err := b.svc.Catalog.Reload(ctx, bytes.NewReader(content))
	if err != nil {
		logger.Logger().Error("failed to load catalog", zap.Error(err))
		return b.sender.SendText(ctx, chatID, renderUploadFailed(err))
	}

	return b.sender.SendText(ctx, chatID, renderCatalogLoaded(res.Loaded, len(res.Skipped)))
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) error {
	action, arg := parseCallback(cq.Data)

	switch action {
	case actionMatto:
		return b.onMatto(ctx, cq, arg)
	case actionSelectUser:
		return b.onSelectSubject(ctx, cq, arg, session.SubjectUser)
	case actionSelectMatto:
		return b.onSelectSubject(ctx, cq, arg, session.SubjectMatto)
	case actionGalleryMode:
		return b.onGalleryMode(ctx, cq, arg, session.SubjectUser)
	case actionMattoMode:
		return b.onGalleryMode(ctx, cq, arg, session.SubjectMatto)
	case actionManageUser:
		return b.onManageUser(ctx, cq, arg)
	case actionDeleteSighting:
		return b.onDeleteSighting(ctx, cq, arg)
	default:
		return b.sender.AnswerCallback(ctx, cq.ID, "", false)
	}
}

func (b *Bot) onMatto(ctx context.Context, cq *tgbotapi.CallbackQuery, arg string) error {
	chatID := callbackChatID(cq)

	mattoID, ok := parseID(arg)
	if !ok {
		return b.sender.AnswerCallback(ctx, cq.ID, msgInvalidID, true)
	}

	registered, err := b.svc.Users.IsRegistered(ctx, chatID)
	if err != nil {
		return err
	}
	if !registered {
		return b.sender.AnswerCallback(ctx, cq.ID, msgRegisterFirst, true)
	}

	username, firstName := senderNames(cq.From)
	pending, err := b.svc.Sightings.Select(ctx, mattoID, username, firstName)
	if err != nil {
		if errors.Is(err, service.ErrMattoNotFound) {
			return b.sender.AnswerCallback(ctx, cq.ID, msgMattoNotFound, true)
		}
		return err
	}

	b.sessions.Set(chatID, session.Photo(*pending))

	if err := b.sender.AnswerCallback(ctx, cq.ID, "Hai scelto: "+pending.MattoName, false); err != nil {
		logger.Logger().Warn("failed to answer callback", zap.Error(err))
	}

	return b.sender.SendText(ctx, chatID, renderSelected(pending))
}

func (b *Bot) onSelectSubject(ctx context.Context, cq *tgbotapi.CallbackQuery, arg string, kind session.SubjectKind) error {
	chatID := callbackChatID(cq)

	id, ok := parseID(arg)
	if !ok {
		return b.sender.AnswerCallback(ctx, cq.ID, msgInvalidID, true)
	}

	b.sessions.Set(chatID, session.GalleryMode(session.Subject{Kind: kind, ID: id}))

	text, keyboard := msgUserGalleryMode, modeKeyboard(actionGalleryMode)
	if kind == session.SubjectMatto {
		text, keyboard = msgMattoGalleryMode, modeKeyboard(actionMattoMode)
	}

	if err := b.sender.SendKeyboard(ctx, chatID, text, keyboard); err != nil {
		return err
	}

	return b.sender.AnswerCallback(ctx, cq.ID, "", false)
}

func (b *Bot) onGalleryMode(ctx context.Context, cq *tgbotapi.CallbackQuery, mode string, kind session.SubjectKind) error {
	chatID := callbackChatID(cq)

	if mode != modeText && mode != modePhotos {
		return b.sender.AnswerCallback(ctx, cq.ID, msgInvalidMode, true)
	}

	st, ok := b.sessions.Take(chatID, session.AwaitingGalleryMode)
	if !ok || st.Subject.Kind != kind {
		return b.sender.AnswerCallback(ctx, cq.ID, msgSessionExpired, false)
	}

	var err error
	if kind == session.SubjectUser {
		err = b.renderUserGallery(ctx, chatID, st.Subject.ID, mode)
	} else {
		err = b.renderMattoGallery(ctx, chatID, st.Subject.ID, mode)
	}
	if err != nil {
		return err
	}

	return b.sender.AnswerCallback(ctx, cq.ID, "", false)
}

func (b *Bot) renderUserGallery(ctx context.Context, chatID, userChatID int64, mode string) error {
	user, gallery, err := b.svc.Sightings.UserGallery(ctx, userChatID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return b.sender.SendText(ctx, chatID, msgUserNotFound)
		}
		return err
	}

	if gallery.Empty() {
		return b.sender.SendText(ctx, chatID, msgUserNoSightings)
	}

	if mode == modeText {
		return b.sendLong(ctx, chatID, renderUserGalleryText(user, gallery), "galleria", "Galleria")
	}

	if err := b.sender.SendText(ctx, chatID, renderUserGalleryHeader(user)); err != nil {
		return err
	}
	for _, group := range gallery.Groups {
		if err := b.sender.SendText(ctx, chatID, renderGroupSummary(group)); err != nil {
			return err
		}
		for i, photo := range group.Photos {
			b.sendPhoto(ctx, chatID, photo.FileID, renderGroupPhotoCaption(i+1, group.Count))
		}
	}

	return nil
}

func (b *Bot) renderMattoGallery(ctx context.Context, chatID, mattoID int64, mode string) error {
	m, gallery, err := b.svc.Sightings.MattoGallery(ctx, mattoID)
	if err != nil {
		if errors.Is(err, service.ErrMattoNotFound) {
			return b.sender.SendText(ctx, chatID, msgMattoNotFound)
		}
		return err
	}

	if len(gallery) == 0 {
		return b.sender.SendText(ctx, chatID, renderMattoEmpty(m))
	}

	if mode == modeText {
		return b.sendLong(ctx, chatID, renderMattoGalleryText(m, gallery), "galleria", "Galleria "+m.Name)
	}

	if err := b.sender.SendText(ctx, chatID, renderMattoGalleryHeader(m, len(gallery))); err != nil {
		return err
	}
	for i, s := range gallery {
		b.sendPhoto(ctx, chatID, s.FileID, renderMattoPhotoCaption(i+1, len(gallery), s))
	}

	return nil
}

// sendPhoto logs and moves on; one broken file id must not stop a gallery.
func (b *Bot) sendPhoto(ctx context.Context, chatID int64, fileID, caption string) {
	if err := b.sender.SendPhoto(ctx, chatID, fileID, caption); err != nil {
		logger.Logger().Error("failed to send photo", zap.Int64("chat_id", chatID), zap.String("file_id", fileID), zap.Error(err))
	}
}

func (b *Bot) onManageUser(ctx context.Context, cq *tgbotapi.CallbackQuery, arg string) error {
	chatID := callbackChatID(cq)

	if !b.isAdmin(chatID) {
		return b.sender.AnswerCallback(ctx, cq.ID, msgAdminOnly, true)
	}

	userChatID, ok := parseID(arg)
	if !ok {
		return b.sender.AnswerCallback(ctx, cq.ID, msgInvalidID, true)
	}

	b.sessions.Set(chatID, session.AdminAction(userChatID))

	user, gallery, err := b.svc.Sightings.UserGallery(ctx, userChatID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return b.sender.AnswerCallback(ctx, cq.ID, msgUserNotFound, true)
		}
		return err
	}

	if gallery.Empty() {
		if err := b.sender.SendText(ctx, chatID, msgManageNoSightings); err != nil {
			return err
		}
		return b.sender.AnswerCallback(ctx, cq.ID, "", false)
	}

	if err := b.sendLong(ctx, chatID, renderManageSummary(user, gallery), "segnalazioni", "Segnalazioni"); err != nil {
		return err
	}

	for _, group := range gallery.Groups {
		if err := b.sender.SendText(ctx, chatID, renderManageGroupHeader(group)); err != nil {
			return err
		}
		for _, photo := range group.Photos {
			err := b.sender.SendPhotoKeyboard(ctx, chatID, photo.FileID, "", deleteKeyboard(photo.SightingID))
			if err != nil {
				logger.Logger().Error("failed to send photo", zap.Int64("sighting_id", photo.SightingID), zap.Error(err))
			}
		}
	}

	return b.sender.AnswerCallback(ctx, cq.ID, "", false)
}

func (b *Bot) onDeleteSighting(ctx context.Context, cq *tgbotapi.CallbackQuery, arg string) error {
	chatID := callbackChatID(cq)

	sightingID, ok := parseID(arg)
	if !ok {
		return b.sender.AnswerCallback(ctx, cq.ID, msgInvalidID, true)
	}

	if !b.isAdmin(chatID) {
		return b.sender.AnswerCallback(ctx, cq.ID, msgDeleteAdminOnly, true)
	}

	deleted, err := b.svc.Sightings.Delete(ctx, sightingID)
	switch {
	case errors.Is(err, service.ErrSightingNotFound):
		return b.sender.AnswerCallback(ctx, cq.ID, msgDeleteNotFound, true)
	case err != nil:
		logger.Logger().Error("failed to delete sighting", zap.Int64("sighting_id", sightingID), zap.Error(err))
		return b.sender.AnswerCallback(ctx, cq.ID, msgDeleteFailed, true)
	}

	// Buttons from an older listing stay valid, so the owner may differ from
	// the user currently being managed.
	var managed int64
	if st := b.sessions.Get(chatID); st.Kind == session.AwaitingAdminAction {
		managed = st.ManagedUser
	}
	logger.Logger().Info("admin deleted sighting",
		zap.Int64("sighting_id", deleted.ID),
		zap.Int64("owner", deleted.UserChatID),
		zap.Int64("managed_user", managed),
	)

	if err := b.sender.AnswerCallback(ctx, cq.ID, msgDeleteOK, true); err != nil {
		logger.Logger().Warn("failed to answer callback", zap.Error(err))
	}

	if cq.Message != nil {
		if err := b.sender.DeleteMessage(ctx, chatID, cq.Message.MessageID); err != nil {
			logger.Logger().Warn("failed to delete admin message", zap.Int("message_id", cq.Message.MessageID), zap.Error(err))
		}
	}

	return nil
}
