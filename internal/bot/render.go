package bot

import (
	"fmt"
	"html"
	"strings"
	"time"

	"fantamatto_bot/internal/model"
)

// maxMessageLen leaves headroom under Telegram's 4096 character limit.
const maxMessageLen = 4000

const dateLayout = "2006-01-02 15:04"

const (
	msgAskPassword       = "🔒 Per registrarti, inserisci la password:"
	msgAlreadyRegistered = "✅ Sei già registrato! Usa /report per segnalare un matto."
	msgPasswordOK        = "✅ Password corretta! Sei registrato. Usa /report per segnalare un matto."
	msgPasswordWrong     = "❌ Password errata. Riprova o contatta l'amministratore."
	msgNotRegistered     = "🤔 Non sei registrato. Usa /start."
	msgRegisterFirst     = "❌ Devi prima registrarti con /start."
	msgAdminOnly         = "❌ Comando riservato all'admin!"
	msgEmptyLeaderboard  = "🏆 La classifica è vuota!"
	msgEmptyCatalog      = "📂 Lista matti vuota. L'admin può usare /upload_matti per caricarla."
	msgNoMatti           = "📂 Nessun matto definito. L'admin può caricarli con /upload_matti."
	msgNoUsers           = "👥 Nessun utente registrato."
	msgPickMatto         = "🏹 Scegli il matto cliccando sul pulsante:"
	msgPickUserGallery   = "👤 Scegli un utente per vedere la sua galleria:"
	msgPickMattoGallery  = "🏞️ Scegli un matto per vedere la sua galleria:"
	msgPickUserManage    = "👤 Scegli un utente per gestire le sue segnalazioni:"
	msgUserGalleryMode   = "📸 Come vuoi visualizzare la galleria di questo utente?"
	msgMattoGalleryMode  = "📸 Come vuoi visualizzare la galleria di questo matto?"
	msgSessionExpired    = "❌ Sessione scaduta, riprova."
	msgInvalidID         = "ID non valido!"
	msgInvalidMode       = "Modalità non valida!"
	msgMattoNotFound     = "Matto non trovato!"
	msgUserNotFound      = "Utente non trovato!"
	msgMattoGone         = "❌ Il matto scelto non esiste più, la lista è stata aggiornata. Usa /report per riprovare."
	msgUserNoSightings   = "📭 Questo utente non ha segnalato nessun matto!"
	msgManageNoSightings = "📭 Questo utente non ha ancora segnalato nessun matto!"
	msgDeleteAdminOnly   = "❌ Solo l'admin può eliminare segnalazioni!"
	msgDeleteOK          = "✅ Segnalazione eliminata con successo!"
	msgDeleteNotFound    = "❌ Segnalazione non trovata!"
	msgDeleteFailed      = "❌ Errore durante l'eliminazione!"
	msgUploadPrompt      = "📄 Invia ora il file <code>.txt</code> con la lista (ogni riga: <code>nome, punti</code>)."
	msgUploadNotText     = "❌ Per favore invia un file di testo <code>.txt</code>. Caricamento annullato."
	msgUnknownCommand    = "Comando sconosciuto. Usa /comandi per la lista dei comandi."
	msgInternalError     = "⚠️ Si è verificato un errore, riprova più tardi."
)

const helpText = `📜 <b>Lista Comandi Disponibili</b>

1. /start - Registrati al bot (richiede password)
2. /me - Mostra la tua posizione in classifica e punti
3. /classifica - Classifica completa di tutti gli sfidanti
4. /listmatti - Lista di tutti i matti con relativi punti
5. /report - Segnala un nuovo avvistamento matto
6. /galleria_utente - Visualizza le segnalazioni di un utente
7. /galleria_matto - Visualizza tutte le segnalazioni di un matto`

const adminHelpText = `

🔧 <b>Comandi admin</b>

/admin - Gestisci ed elimina le segnalazioni
/upload_matti - Carica una nuova lista matti (azzera punti e segnalazioni)`

func esc(s string) string {
	return html.EscapeString(s)
}

func renderStanding(s *model.Standing) string {
	return fmt.Sprintf("Sei <b>#%d</b> in classifica con <b>%d punti</b>.", s.Rank, s.TotalPoints)
}

func renderLeaderboard(users []*model.User) string {
	var b strings.Builder
	b.WriteString("🏆 <b>Classifica Completa</b>\n")
	for i, u := range users {
		fmt.Fprintf(&b, "%d. %s – <b>%d punti</b>\n", i+1, esc(u.DisplayName()), u.TotalPoints)
	}
	return b.String()
}

func renderCatalog(matti []*model.Matto) string {
	var b strings.Builder
	b.WriteString("<b>Lista matti disponibili:</b>")
	for _, m := range matti {
		fmt.Fprintf(&b, "\n• %s – <b>%d punti</b>", esc(m.Name), m.Points)
	}
	return b.String()
}

func renderSelected(p *model.PendingReport) string {
	return fmt.Sprintf("Hai scelto <b>%s</b> (+%d punti).\nAdesso inviami la <b>foto</b>.", esc(p.MattoName), p.Points)
}

// reporterLabel renders "First (@user)" when both are known.
func reporterLabel(chatID int64, username, firstName string) string {
	if username != "" && firstName != "" {
		return fmt.Sprintf("%s (@%s)", esc(firstName), esc(username))
	}
	return esc(model.DisplayName(chatID, username, firstName))
}

func renderSightingBroadcast(chatID int64, p model.PendingReport, total int) string {
	return fmt.Sprintf("📸 <b>%s</b> ha trovato il matto <b>%s</b> ➕ <b>%d punti</b>\n🏅 Ora ha <b>%d punti</b>.",
		reporterLabel(chatID, p.Username, p.FirstName),
		esc(p.MattoName),
		p.Points,
		total,
	)
}

func renderReportConfirmation(sent int) string {
	return fmt.Sprintf("✅ Segnalazione inviata a %d utenti.", sent)
}

func renderUserGalleryText(user *model.User, g *model.UserGallery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Galleria di %s:</b>\n", esc(user.DisplayName()))
	for _, group := range g.Groups {
		fmt.Fprintf(&b, "\n- <b>%s</b>: %d volte, %d punti", esc(group.MattoName), group.Count, group.TotalPoints)
	}
	return b.String()
}

func renderUserGalleryHeader(user *model.User) string {
	return fmt.Sprintf("📸 <b>Galleria di %s:</b>", esc(user.DisplayName()))
}

func renderGroupSummary(group *model.GalleryGroup) string {
	return fmt.Sprintf("<b>%s</b>: %d segnalazioni, %d punti", esc(group.MattoName), group.Count, group.TotalPoints)
}

func renderGroupPhotoCaption(i, n int) string {
	return fmt.Sprintf("Segnalazione %d/%d", i, n)
}

func renderMattoGalleryText(m *model.Matto, gallery []*model.MattoSighting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Segnalazioni per %s:</b>\n\n", esc(m.Name))
	for _, s := range gallery {
		fmt.Fprintf(&b, "• %s: %s\n", esc(s.Reporter()), formatDate(s.CreatedAt))
	}
	return b.String()
}

func renderMattoGalleryHeader(m *model.Matto, n int) string {
	return fmt.Sprintf("🖼️ <b>Galleria di %s</b> (%d foto):", esc(m.Name), n)
}

func renderMattoPhotoCaption(i, n int, s *model.MattoSighting) string {
	return fmt.Sprintf("Foto %d/%d\nSegnalata da: %s\nData: %s",
		i, n,
		esc(s.Reporter()),
		formatDate(s.CreatedAt),
	)
}

func renderMattoEmpty(m *model.Matto) string {
	return fmt.Sprintf("🖼️ Nessuna foto disponibile per <b>%s</b>.", esc(m.Name))
}

func renderManageSummary(user *model.User, g *model.UserGallery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 <b>Galleria di %s</b>\n\n", esc(user.DisplayName()))
	for _, group := range g.Groups {
		fmt.Fprintf(&b, "• <b>%s</b>: %d segnalazioni, %d punti\n", esc(group.MattoName), group.Count, group.TotalPoints)
	}
	return b.String()
}

func renderManageGroupHeader(group *model.GalleryGroup) string {
	return fmt.Sprintf("🖼️ <b>%s</b> - Segnalazioni:", esc(group.MattoName))
}

func renderCatalogLoaded(loaded, skipped int) string {
	text := fmt.Sprintf("✅ Caricati %d matti nel database.", loaded)
	if skipped > 0 {
		text += fmt.Sprintf("\n⚠️ Righe ignorate: %d", skipped)
	}
	return text
}

func renderUploadFailed(err error) string {
	return "❌ Errore durante il caricamento: " + esc(err.Error())
}

func formatDate(t time.Time) string {
	return t.Local().Format(dateLayout)
}

// plainText strips the HTML markup used in messages, for document attachments.
func plainText(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(b.String())
}
