package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/shelf-planogram/internal/domain/entity"
	"github.com/yourusername/shelf-planogram/internal/usecase"
	"go.uber.org/zap"
)

const catalogPageSize = 20

// BotHandler Telegram bot handler
type BotHandler struct {
	bot            *tgbotapi.BotAPI
	draftUseCase   usecase.DraftUseCase
	catalogUseCase usecase.CatalogUseCase
	defaultOrgID   string
	maxUploadBytes int
	sessions       *sessionStore
	logger         *zap.Logger
}

// NewBotHandler creates the bot handler
func NewBotHandler(
	token string,
	defaultOrgID string,
	maxUploadBytes int,
	draftUseCase usecase.DraftUseCase,
	catalogUseCase usecase.CatalogUseCase,
	logger *zap.Logger,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BotHandler{
		bot:            bot,
		draftUseCase:   draftUseCase,
		catalogUseCase: catalogUseCase,
		defaultOrgID:   defaultOrgID,
		maxUploadBytes: maxUploadBytes,
		sessions:       newSessionStore(),
		logger:         logger,
	}, nil
}

// Start polls updates until ctx is cancelled
func (h *BotHandler) Start(ctx context.Context) error {
	h.logger.Info("bot started", zap.String("username", h.bot.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("bot stopping")
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.CallbackQuery != nil {
				go h.handleCallback(ctx, update.CallbackQuery)
				continue
			}

			if update.Message == nil {
				continue
			}

			go h.handleMessage(ctx, update.Message)
		}
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	// facings count after a keyboard selection
	if sku, ok := h.sessions.popAwaitingFacing(message.From.ID); ok {
		h.handleFacingCount(ctx, message, sku)
		return
	}

	if message.Text != "" {
		h.sendMessage(message.Chat.ID, "Send a planogram file or use /help.")
	}
}

func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start", "help":
		h.sendMessage(message.Chat.ID, helpMessage)
	case "newshop":
		h.handleNewShopCommand(ctx, message)
	case "shop":
		h.handleShopFieldCommand(ctx, message)
	case "addrow":
		h.handleAddRowCommand(ctx, message)
	case "editrow":
		h.handleEditRowCommand(ctx, message)
	case "removerow":
		h.handleRemoveRowCommand(ctx, message)
	case "clearrows":
		h.withDraft(ctx, message, func(draftID string) error {
			return h.draftUseCase.ClearPlanogram(ctx, draftID)
		}, "✅ Planogram cleared.")
	case "addfacing":
		h.handleAddFacingCommand(ctx, message)
	case "editfacing":
		h.handleEditFacingCommand(ctx, message)
	case "removefacing":
		h.handleRemoveFacingCommand(ctx, message)
	case "clearfacings":
		h.withDraft(ctx, message, func(draftID string) error {
			return h.draftUseCase.ClearFacings(ctx, draftID)
		}, "✅ Facings cleared.")
	case "catalog":
		h.handleCatalogCommand(ctx, message)
	case "draft":
		h.handleDraftCommand(ctx, message)
	case "submit":
		h.handleSubmitCommand(ctx, message)
	case "cancel":
		h.handleCancelCommand(ctx, message)
	default:
		h.sendMessage(message.Chat.ID, "Unknown command. /help lists the commands.")
	}
}

// activeDraft the caller's open draft, replying when there is none
func (h *BotHandler) activeDraft(message *tgbotapi.Message) (chatSession, bool) {
	sess, ok := h.sessions.get(message.From.ID)
	if !ok {
		h.sendMessage(message.Chat.ID, userMessage(entity.ErrDraftNotFound))
		return chatSession{}, false
	}
	return sess, true
}

// withDraft runs a draft mutation and replies with success text or the error
func (h *BotHandler) withDraft(ctx context.Context, message *tgbotapi.Message, fn func(draftID string) error, success string) {
	sess, ok := h.activeDraft(message)
	if !ok {
		return
	}
	if err := fn(sess.DraftID); err != nil {
		h.replyError(message.Chat.ID, sess.DraftID, err)
		return
	}
	h.sendMessage(message.Chat.ID, success)
}

func (h *BotHandler) handleNewShopCommand(ctx context.Context, message *tgbotapi.Message) {
	orgID := nonEmpty(strings.TrimSpace(message.CommandArguments()), h.defaultOrgID)
	if orgID == "" {
		h.sendMessage(message.Chat.ID, "Usage: /newshop <organization>")
		return
	}

	draft, err := h.draftUseCase.OpenDraft(ctx, orgID, message.From.ID)
	if err != nil {
		h.replyError(message.Chat.ID, "", err)
		return
	}

	if prev, replaced := h.sessions.open(message.From.ID, draft.ID, orgID); replaced {
		if err := h.draftUseCase.Cancel(ctx, prev); err != nil && !errors.Is(err, entity.ErrDraftNotFound) {
			h.logger.Warn("failed to discard replaced draft", zap.String("draft", prev), zap.Error(err))
		}
	}

	hasCatalog, err := h.catalogUseCase.HasCatalog(ctx, orgID)
	if err != nil {
		h.logger.Warn("catalog check failed", zap.String("org", orgID), zap.Error(err))
		hasCatalog = true
	}
	h.sendMessage(message.Chat.ID, newShopMessage(orgID, hasCatalog))
}

func (h *BotHandler) handleShopFieldCommand(ctx context.Context, message *tgbotapi.Message) {
	arg, value, _ := strings.Cut(strings.TrimSpace(message.CommandArguments()), " ")
	field, ok := shopFieldFromArg(arg)
	if !ok {
		h.sendMessage(message.Chat.ID, "Usage: /shop <id|name|location|type> <value>")
		return
	}

	h.withDraft(ctx, message, func(draftID string) error {
		return h.draftUseCase.SetShopField(ctx, draftID, field, value)
	}, fmt.Sprintf("✅ %s set.", field))
}

func (h *BotHandler) handleAddRowCommand(ctx context.Context, message *tgbotapi.Message) {
	h.sendSkuSelector(ctx, message, strings.TrimSpace(message.CommandArguments()), cbPlanogramAdd,
		"Choose the SKU for the next planogram row:")
}

func (h *BotHandler) handleEditRowCommand(ctx context.Context, message *tgbotapi.Message) {
	num, query, _ := strings.Cut(strings.TrimSpace(message.CommandArguments()), " ")
	index, err := parseRowNumber(num)
	if err != nil {
		h.sendMessage(message.Chat.ID, "Usage: /editrow <n> [search]")
		return
	}

	h.sendSkuSelector(ctx, message, strings.TrimSpace(query), fmt.Sprintf("%s:%d", cbPlanogramEdit, index),
		fmt.Sprintf("Choose the new SKU for row %d:", index+1))
}

func (h *BotHandler) handleRemoveRowCommand(ctx context.Context, message *tgbotapi.Message) {
	index, err := parseRowNumber(message.CommandArguments())
	if err != nil {
		h.sendMessage(message.Chat.ID, "Usage: /removerow <n>")
		return
	}

	h.withDraft(ctx, message, func(draftID string) error {
		return h.draftUseCase.RemovePlanogramRow(ctx, draftID, index)
	}, fmt.Sprintf("✅ Row %d removed.", index+1))
}

func (h *BotHandler) handleAddFacingCommand(ctx context.Context, message *tgbotapi.Message) {
	h.sendSkuSelector(ctx, message, strings.TrimSpace(message.CommandArguments()), cbFacingAdd,
		"Choose the SKU to set facings for:")
}

func (h *BotHandler) handleEditFacingCommand(ctx context.Context, message *tgbotapi.Message) {
	args := strings.Fields(message.CommandArguments())
	if len(args) != 2 {
		h.sendMessage(message.Chat.ID, "Usage: /editfacing <sku> <count>")
		return
	}

	h.withDraft(ctx, message, func(draftID string) error {
		return h.draftUseCase.EditFacing(ctx, draftID, args[0], args[1])
	}, fmt.Sprintf("✅ %s facings set to %s.", args[0], args[1]))
}

func (h *BotHandler) handleRemoveFacingCommand(ctx context.Context, message *tgbotapi.Message) {
	skuID := strings.TrimSpace(message.CommandArguments())
	if skuID == "" {
		h.sendMessage(message.Chat.ID, "Usage: /removefacing <sku>")
		return
	}

	h.withDraft(ctx, message, func(draftID string) error {
		return h.draftUseCase.RemoveFacing(ctx, draftID, skuID)
	}, fmt.Sprintf("✅ %s facings removed.", skuID))
}

// handleFacingCount second step of /addfacing
func (h *BotHandler) handleFacingCount(ctx context.Context, message *tgbotapi.Message, skuID string) {
	h.withDraft(ctx, message, func(draftID string) error {
		return h.draftUseCase.AddFacing(ctx, draftID, skuID, message.Text)
	}, fmt.Sprintf("✅ %s facings set to %s.", skuID, strings.TrimSpace(message.Text)))
}

// handleCatalogCommand /catalog [org] [search]; with an open draft the arguments are the search
func (h *BotHandler) handleCatalogCommand(ctx context.Context, message *tgbotapi.Message) {
	sessionOrg := ""
	if sess, ok := h.sessions.get(message.From.ID); ok {
		sessionOrg = sess.OrgID
	}
	orgID, query := parseCatalogArgs(message.CommandArguments(), sessionOrg, h.defaultOrgID)
	if orgID == "" {
		h.sendMessage(message.Chat.ID, "Usage: /catalog <organization> [search]")
		return
	}

	if query == "" {
		text, err := h.catalogUseCase.CatalogAsText(ctx, orgID)
		if err != nil {
			h.sendMessage(message.Chat.ID, fmt.Sprintf("No SKUs registered for %s.", orgID))
			return
		}
		h.sendMessage(message.Chat.ID, truncateString(text, 4000))
		return
	}

	entries, err := h.catalogUseCase.Search(ctx, orgID, query, catalogPageSize)
	if err != nil {
		h.replyError(message.Chat.ID, "", err)
		return
	}
	h.sendMessage(message.Chat.ID, formatSkuMatches(query, entries))
}

func (h *BotHandler) handleDraftCommand(ctx context.Context, message *tgbotapi.Message) {
	sess, ok := h.activeDraft(message)
	if !ok {
		return
	}

	draft, err := h.draftUseCase.GetDraft(ctx, sess.DraftID)
	if err != nil {
		h.replyError(message.Chat.ID, sess.DraftID, err)
		return
	}
	h.sendMessage(message.Chat.ID, formatDraft(draft))
}

func (h *BotHandler) handleSubmitCommand(ctx context.Context, message *tgbotapi.Message) {
	sess, ok := h.activeDraft(message)
	if !ok {
		return
	}

	h.sendMessage(message.Chat.ID, "⏳ Creating the shop...")
	if err := h.draftUseCase.Submit(ctx, sess.DraftID); err != nil {
		h.replyError(message.Chat.ID, sess.DraftID, err)
		return
	}

	h.sessions.close(message.From.ID, sess.DraftID)
	h.sendMessage(message.Chat.ID, "✅ Shop created.")
}

func (h *BotHandler) handleCancelCommand(ctx context.Context, message *tgbotapi.Message) {
	sess, ok := h.activeDraft(message)
	if !ok {
		return
	}

	if err := h.draftUseCase.Cancel(ctx, sess.DraftID); err != nil && !errors.Is(err, entity.ErrDraftNotFound) {
		h.replyError(message.Chat.ID, sess.DraftID, err)
		return
	}
	h.sessions.close(message.From.ID, sess.DraftID)
	h.sendMessage(message.Chat.ID, "Draft discarded.")
}

// handleDocumentMessage imports a planogram file into the open draft
func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	sess, ok := h.activeDraft(message)
	if !ok {
		return
	}

	doc := message.Document
	if h.maxUploadBytes > 0 && doc.FileSize > h.maxUploadBytes {
		h.sendMessage(message.Chat.ID, userMessage(&usecase.FileTooLargeError{Size: doc.FileSize, Limit: h.maxUploadBytes}))
		return
	}

	h.sendMessage(message.Chat.ID, "⏳ Reading the file...")

	fileBytes, err := h.downloadFile(ctx, doc.FileID)
	if err != nil {
		h.logger.Error("file download failed", zap.String("file", doc.FileName), zap.Error(err))
		h.sendMessage(message.Chat.ID, "❌ Could not download the file.")
		return
	}

	var outcome usecase.UploadOutcome
	select {
	case outcome = <-h.draftUseCase.UploadFileAsync(ctx, sess.DraftID, fileBytes, doc.FileName):
	case <-ctx.Done():
		return
	}

	if outcome.Err != nil {
		// cancelled while decoding
		if errors.Is(outcome.Err, entity.ErrDraftNotFound) {
			return
		}
		h.replyError(message.Chat.ID, sess.DraftID, outcome.Err)
		return
	}

	result := outcome.Result
	text := fmt.Sprintf("✅ %s imported.\n\nPlanogram rows: %d", doc.FileName, len(result.Planogram))
	if result.DroppedRows > 0 {
		text += fmt.Sprintf(" (%d empty rows skipped)", result.DroppedRows)
	}
	if result.HasFacingsColumn {
		text += fmt.Sprintf("\nFacings entries: %d", len(result.Facings))
	} else {
		text += "\nNo facings column, existing facings kept."
	}
	h.sendMessage(message.Chat.ID, text+"\n\n/draft to review, /submit to create the shop.")
}

func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	callback := tgbotapi.NewCallback(cq.ID, "")
	if _, err := h.bot.Request(callback); err != nil {
		h.logger.Warn("callback answer failed", zap.Error(err))
	}

	action, err := parseCallback(cq.Data)
	if err != nil {
		h.logger.Warn("unexpected callback", zap.String("data", cq.Data), zap.Error(err))
		return
	}

	sess, ok := h.sessions.get(userID)
	if !ok {
		h.sendMessage(chatID, userMessage(entity.ErrDraftNotFound))
		return
	}

	switch action.Kind {
	case cbPlanogramAdd:
		if err := h.draftUseCase.AddPlanogramRow(ctx, sess.DraftID, action.SkuID); err != nil {
			h.replyError(chatID, sess.DraftID, err)
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("✅ %s added to the planogram.", action.SkuID))
	case cbPlanogramEdit:
		if err := h.draftUseCase.EditPlanogramRow(ctx, sess.DraftID, action.Index, action.SkuID); err != nil {
			h.replyError(chatID, sess.DraftID, err)
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("✅ Row %d is now %s.", action.Index+1, action.SkuID))
	case cbFacingAdd:
		h.sessions.setAwaitingFacing(userID, action.SkuID)
		h.sendMessage(chatID, fmt.Sprintf("How many facings for %s?", action.SkuID))
	}
}

// sendSkuSelector catalog keyboard for the open draft's organization
func (h *BotHandler) sendSkuSelector(ctx context.Context, message *tgbotapi.Message, query, prefix, prompt string) {
	sess, ok := h.activeDraft(message)
	if !ok {
		return
	}

	options, err := h.draftUseCase.CatalogOptions(ctx, sess.DraftID, query, catalogPageSize)
	if err != nil {
		h.replyError(message.Chat.ID, sess.DraftID, err)
		return
	}
	if len(options) == 0 {
		h.sendMessage(message.Chat.ID, fmt.Sprintf("No catalog SKUs match %q.", query))
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, prompt)
	msg.ReplyMarkup = buildSkuKeyboard(options, prefix)
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Warn("send failed", zap.Int64("chat", message.Chat.ID), zap.Error(err))
	}
}

func (h *BotHandler) replyError(chatID int64, draftID string, err error) {
	h.logger.Info("operation failed", zap.String("draft", draftID), zap.Error(err))
	h.sendMessage(chatID, userMessage(err))
}

// downloadFile fetches a document from Telegram
func (h *BotHandler) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := h.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(h.bot.Token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (h *BotHandler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Warn("send failed", zap.Int64("chat", chatID), zap.Error(err))
	}
}

// GetBotUsername bot username
func (h *BotHandler) GetBotUsername() string {
	return h.bot.Self.UserName
}
