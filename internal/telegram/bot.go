package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vitalplan/internal/app"
	"vitalplan/internal/checkout"
	"vitalplan/internal/config"
	"vitalplan/internal/domain"
	"vitalplan/internal/marketplace"
	"vitalplan/internal/metrics"
	"vitalplan/internal/onboarding"
	"vitalplan/internal/report"
	"vitalplan/internal/scanner"
)

const (
	planTimeout   = 2 * time.Minute
	scanTimeout   = time.Minute
	maxPhotoSize  = 10 << 20
	marketButtons = 8
)

// sender is the part of tgbotapi.BotAPI the bot uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// StoreFactory builds the application state for a new chat.
type StoreFactory func(chatID int64) *app.Store

// Bot maps Telegram chats onto application stores. Each chat gets its own
// store, created on first contact.
type Bot struct {
	api          sender
	cfg          *config.Config
	newStore     StoreFactory
	sessions     *SessionRepository
	metricsStore *metrics.Store
	httpClient   *http.Client
	dataDir      string
	now          func() time.Time
	run          func(func())

	mu     sync.Mutex
	stores map[int64]*app.Store
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, newStore StoreFactory, sessions *SessionRepository, metricsStore *metrics.Store) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	zap.S().Infow("authorized on telegram", "account", bot.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	zap.S().Infow("webhook set", "description", resp.Description)

	return newBot(bot, cfg, newStore, sessions, metricsStore), nil
}

func newBot(api sender, cfg *config.Config, newStore StoreFactory, sessions *SessionRepository, metricsStore *metrics.Store) *Bot {
	return &Bot{
		api:          api,
		cfg:          cfg,
		newStore:     newStore,
		sessions:     sessions,
		metricsStore: metricsStore,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		dataDir:      filepath.Dir(cfg.DatabasePath),
		now:          time.Now,
		run:          func(f func()) { go f() },
		stores:       make(map[int64]*app.Store),
	}
}

// Router serves the webhook, a health check and Prometheus metrics.
func (b *Bot) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/webhook", metrics.InstrumentHandler("/webhook", http.HandlerFunc(b.handleWebhook))).Methods(http.MethodPost)
	r.Handle("/health", metrics.InstrumentHandler("/health", http.HandlerFunc(handleHealth))).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	return r
}

// Close releases every chat's store.
func (b *Bot) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, s := range b.stores {
		if err := s.Close(); err != nil {
			zap.S().Warnw("failed to close chat store", "chat_id", id, "error", err)
		}
	}
	b.stores = make(map[int64]*app.Store)
}

func (b *Bot) store(chatID int64) *app.Store {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.stores[chatID]
	if !ok {
		s = b.newStore(chatID)
		b.stores[chatID] = s
	}
	return s
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		zap.S().Warnw("error parsing update", "error", err)
		http.Error(w, "bad update", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	switch {
	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		if q.From == nil || q.Message == nil || !b.isAllowed(q.From) {
			return
		}
		b.run(func() { b.handleCallbackQuery(q) })
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || msg.Chat == nil || !b.isAllowed(msg.From) {
			return
		}
		b.run(func() { b.processMessage(msg) })
	}
}

func (b *Bot) isAllowed(u *tgbotapi.User) bool {
	if slices.Contains(b.cfg.TelegramAllowedUserIDs, u.ID) {
		return true
	}
	zap.S().Warnw("unauthorized access attempt", "user_id", u.ID, "username", u.UserName)
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx := context.Background()
	chatID := msg.Chat.ID

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	sess, err := b.sessions.GetActive(ctx, chatID, b.now())
	if err != nil {
		zap.S().Errorw("failed to load chat session", "chat_id", chatID, "error", err)
	}
	if sess != nil {
		switch sess.SessionType {
		case SessionAwaitingProfile:
			b.submitProfile(ctx, chatID, msg.Text, sess)
			return
		case SessionAwaitingAddress:
			b.placeOrder(ctx, chatID, msg.Text, sess)
			return
		}
	}
	b.reply(chatID, helpText, nil)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())
	s := b.store(chatID)

	switch msg.Command() {
	case "start":
		s.GetStarted()
		b.awaitInput(ctx, chatID, SessionAwaitingProfile, "🌿 *Welcome to VitalPlan!*\nLet's set up your profile.\n\n"+profileFormat)
	case "profile":
		if args != "" {
			b.submitProfile(ctx, chatID, args, nil)
			return
		}
		s.Navigate(onboarding.ViewProfile)
		b.awaitInput(ctx, chatID, SessionAwaitingProfile, "👤 *Edit your profile*\n\n"+profileFormat)
	case "goals":
		b.sendGoals(chatID)
	case "plan":
		b.generatePlan(ctx, chatID)
	case "pdf":
		b.sendPlanPDF(chatID)
	case "market":
		s.Navigate(onboarding.ViewMarketplace)
		b.sendMarket(chatID, args)
	case "recommend":
		s.Navigate(onboarding.ViewMarketplace)
		items := marketplace.Recommendations(s.Snapshot().Goals, 0)
		b.sendItems(chatID, marketplace.Result{Items: items, Total: len(items)})
	case "cart":
		b.sendCart(chatID)
	case "vendor":
		if err := s.SelectVendor(domain.VendorID(args)); err != nil {
			b.reply(chatID, "❌ Unknown vendor. Choose one of: "+vendorIDs(), nil)
			return
		}
		b.sendCart(chatID)
	case "pay":
		if err := s.SelectPaymentMethod(args); err != nil {
			b.reply(chatID, "❌ Unknown payment method. Choose one of: "+paymentIDs(), nil)
			return
		}
		b.reply(chatID, fmt.Sprintf("💳 Payment method set to %s.", emphasize("*", args)), nil)
	case "checkout":
		b.startCheckout(ctx, chatID)
	case "orders":
		s.Navigate(onboarding.ViewOrders)
		b.reply(chatID, formatOrdersMarkdown(s.Snapshot().Orders), nil)
	case "scan":
		s.Navigate(onboarding.ViewScanner)
		s.ResetScan()
		b.reply(chatID, "📸 Send a photo of your food and I'll analyze it.", nil)
	case "metrics":
		b.handleMetricsRequest(msg)
	case "cancel":
		if err := b.sessions.DeleteForChat(ctx, chatID); err != nil {
			zap.S().Errorw("failed to clear chat session", "chat_id", chatID, "error", err)
		}
		s.CancelPlan()
		s.ResetScan()
		b.reply(chatID, "👌 Cancelled.", nil)
	default:
		b.reply(chatID, helpText, nil)
	}
}

func (b *Bot) handleCallbackQuery(q *tgbotapi.CallbackQuery) {
	ctx := context.Background()
	chatID := q.Message.Chat.ID
	messageID := q.Message.MessageID
	s := b.store(chatID)

	parts := strings.Split(q.Data, "|")
	action := parts[0]
	arg := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	answer := ""
	switch action {
	case "goal":
		if err := s.ToggleGoal(domain.GoalType(arg(1))); err != nil {
			answer = err.Error()
			break
		}
		b.editGoals(chatID, messageID)
	case "prio":
		if err := s.SetGoalPriority(domain.GoalType(arg(1)), domain.Priority(arg(2))); err != nil {
			answer = err.Error()
			break
		}
		b.editGoals(chatID, messageID)
	case "goals-done":
		if err := s.ContinueFromGoals(); err != nil {
			answer = err.Error()
			break
		}
		keyboard := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🥗 Generate plan", "plan"),
		))
		b.edit(chatID, messageID, "🎯 *Goals saved!*", &keyboard)
	case "plan":
		b.api.Request(tgbotapi.NewCallback(q.ID, ""))
		b.generatePlan(ctx, chatID)
		return
	case "plan-cart":
		if n, err := s.AddPlanToCart(); err != nil {
			answer = err.Error()
		} else {
			answer = fmt.Sprintf("%d item(s) added to cart!", n)
		}
	case "plan-pdf":
		b.api.Request(tgbotapi.NewCallback(q.ID, ""))
		b.sendPlanPDF(chatID)
		return
	case "buy":
		if err := s.AddMarketplaceItem(arg(1), 1); err != nil {
			answer = err.Error()
		} else {
			answer = "Added to cart!"
		}
	case "fav":
		if s.ToggleFavorite(arg(1)) {
			answer = "❤️ Saved to favorites"
		} else {
			answer = "Removed from favorites"
		}
	case "vendor":
		if err := s.SelectVendor(domain.VendorID(arg(1))); err != nil {
			answer = err.Error()
			break
		}
		b.editCart(chatID, messageID)
	case "checkout":
		b.api.Request(tgbotapi.NewCallback(q.ID, ""))
		b.startCheckout(ctx, chatID)
		return
	case "scan-cart":
		if err := s.AddScanToCart(); err != nil {
			answer = err.Error()
		} else {
			answer = "Added to cart!"
		}
	}

	b.api.Request(tgbotapi.NewCallback(q.ID, answer))
}

// awaitInput sends prompt and records that the next free-text message of
// the chat answers it.
func (b *Bot) awaitInput(ctx context.Context, chatID int64, sessionType, prompt string) {
	sent, err := b.reply(chatID, prompt, nil)
	if err != nil {
		return
	}
	data := SessionContextData{PromptMessageID: sent.MessageID}
	if _, err := b.sessions.Create(ctx, chatID, sessionType, data, sessionTTL, b.now()); err != nil {
		zap.S().Errorw("failed to create chat session", "chat_id", chatID, "type", sessionType, "error", err)
	}
}

// endInput closes the pending step. When it came from a session, the prompt
// message is replaced by done.
func (b *Bot) endInput(ctx context.Context, chatID int64, sess *Session, done string) {
	if sess == nil {
		if err := b.sessions.DeleteForChat(ctx, chatID); err != nil {
			zap.S().Errorw("failed to clear chat session", "chat_id", chatID, "error", err)
		}
		return
	}
	if err := b.sessions.Delete(ctx, sess.ID); err != nil {
		zap.S().Errorw("failed to delete chat session", "chat_id", chatID, "session_id", sess.ID, "error", err)
	}
	data, err := sess.GetContextData()
	if err != nil {
		zap.S().Warnw("invalid session context", "chat_id", chatID, "session_id", sess.ID, "error", err)
		return
	}
	if data.PromptMessageID != 0 {
		b.edit(chatID, data.PromptMessageID, done, nil)
	}
}

func (b *Bot) submitProfile(ctx context.Context, chatID int64, text string, sess *Session) {
	s := b.store(chatID)
	in, err := parseProfile(text, s.ProfileForm())
	if err != nil {
		b.reply(chatID, "❌ "+md(err.Error())+"\n\n"+profileFormat, nil)
		return
	}
	if err := s.SubmitProfile(in); err != nil {
		b.reply(chatID, formatFieldErrors(err), nil)
		return
	}
	b.endInput(ctx, chatID, sess, "👤 Profile received.")

	st := s.Snapshot()
	if st.EditOnly {
		b.reply(chatID, "✅ Profile updated.", nil)
		return
	}
	bmi := onboarding.BMI(st.User.Height, st.User.Weight)
	b.reply(chatID, fmt.Sprintf("✅ Profile saved, %s! BMI %.1f (%s).", md(st.User.Name), bmi, onboarding.BMICategory(bmi)), nil)
	if st.Step == onboarding.StepGoals {
		b.sendGoals(chatID)
	}
}

func goalsKeyboard(goals []domain.Goal) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, opt := range onboarding.GoalOptions() {
		label := opt.Title
		var selected *domain.Goal
		for i := range goals {
			if goals[i].Type == opt.Type {
				selected = &goals[i]
			}
		}
		if selected != nil {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "goal|"+string(opt.Type)),
		))
		if selected == nil {
			continue
		}
		var prio []tgbotapi.InlineKeyboardButton
		for _, p := range []domain.Priority{domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh} {
			text := string(p)
			if selected.Priority == p {
				text = "• " + text
			}
			prio = append(prio, tgbotapi.NewInlineKeyboardButtonData(text, "prio|"+string(opt.Type)+"|"+string(p)))
		}
		rows = append(rows, prio)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Continue ➡️", "goals-done"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) sendGoals(chatID int64) {
	st := b.store(chatID).Snapshot()
	keyboard := goalsKeyboard(st.Goals)
	b.reply(chatID, formatGoalsMarkdown(st.Goals), &keyboard)
}

func (b *Bot) editGoals(chatID int64, messageID int) {
	st := b.store(chatID).Snapshot()
	keyboard := goalsKeyboard(st.Goals)
	b.edit(chatID, messageID, formatGoalsMarkdown(st.Goals), &keyboard)
}

func (b *Bot) generatePlan(ctx context.Context, chatID int64) {
	s := b.store(chatID)
	if err := s.Navigate(onboarding.ViewPlans); err != nil {
		zap.S().Errorw("failed to navigate", "chat_id", chatID, "error", err)
	}
	sent, err := b.reply(chatID, "🧑‍🍳 *Thinking...*\n(Generating your diet plan)", nil)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, planTimeout)
	defer cancel()
	plan, err := s.GeneratePlan(ctx)
	switch {
	case errors.Is(err, app.ErrStale):
		b.edit(chatID, sent.MessageID, "⏭️ Plan request was replaced.", nil)
	case err != nil:
		b.edit(chatID, sent.MessageID, "❌ "+app.NoticePlanFailed, nil)
	default:
		keyboard := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 Add plan to cart", "plan-cart"),
			tgbotapi.NewInlineKeyboardButtonData("📄 Export PDF", "plan-pdf"),
		))
		b.edit(chatID, sent.MessageID, formatPlanMarkdown(&plan), &keyboard)
	}
}

func (b *Bot) sendPlanPDF(chatID int64) {
	st := b.store(chatID).Snapshot()
	if st.Plan == nil {
		b.reply(chatID, "No diet plan yet. Use /plan first.", nil)
		return
	}
	data, err := report.Export(st.Plan, st.User, st.Goals)
	if err != nil {
		zap.S().Errorw("failed to export plan", "chat_id", chatID, "error", err)
		b.reply(chatID, "❌ Failed to export the plan.", nil)
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: report.FileName(b.now()), Bytes: data})
	if _, err := b.api.Send(doc); err != nil {
		zap.S().Errorw("failed to send plan pdf", "chat_id", chatID, "error", err)
	}
}

// marketQuery reads "[category] [sort=key] [search words]".
func marketQuery(args string) marketplace.Query {
	q := marketplace.Query{Category: marketplace.CategoryAll}
	var terms []string
	for i, f := range strings.Fields(args) {
		if key, ok := strings.CutPrefix(f, "sort="); ok {
			q.Sort = marketplace.ParseSort(key)
			continue
		}
		if i == 0 && isCategory(f) {
			q.Category = domain.Category(f)
			continue
		}
		terms = append(terms, f)
	}
	q.Term = strings.Join(terms, " ")
	return q
}

func isCategory(s string) bool {
	for _, c := range marketplace.Categories() {
		if string(c.ID) == s {
			return true
		}
	}
	return false
}

func (b *Bot) sendMarket(chatID int64, args string) {
	b.sendItems(chatID, marketplace.Search(marketQuery(args)))
}

func (b *Bot) sendItems(chatID int64, res marketplace.Result) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, it := range res.Items {
		if i == marketButtons {
			break
		}
		if !it.InStock {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 "+it.Name, "buy|"+it.ID),
			tgbotapi.NewInlineKeyboardButtonData("♡", "fav|"+it.ID),
		))
	}
	if len(rows) == 0 {
		b.reply(chatID, formatItemsMarkdown(res), nil)
		return
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.reply(chatID, formatItemsMarkdown(res), &keyboard)
}

func (b *Bot) cartView(chatID int64) (string, *tgbotapi.InlineKeyboardMarkup) {
	s := b.store(chatID)
	st := s.Snapshot()
	q, err := s.Quote()
	if err != nil || len(st.Cart) == 0 {
		return formatCartMarkdown(nil, checkout.Quote{}, ""), nil
	}

	var vendorRow []tgbotapi.InlineKeyboardButton
	for _, v := range checkout.Vendors() {
		label := v.Name
		if v.ID == st.Vendor {
			label = "✓ " + label
		}
		vendorRow = append(vendorRow, tgbotapi.NewInlineKeyboardButtonData(label, "vendor|"+string(v.ID)))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		vendorRow,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Checkout", "checkout")),
	)
	return formatCartMarkdown(st.Cart, q, st.PaymentMethod), &keyboard
}

func (b *Bot) sendCart(chatID int64) {
	text, keyboard := b.cartView(chatID)
	b.reply(chatID, text, keyboard)
}

func (b *Bot) editCart(chatID int64, messageID int) {
	text, keyboard := b.cartView(chatID)
	b.edit(chatID, messageID, text, keyboard)
}

func (b *Bot) startCheckout(ctx context.Context, chatID int64) {
	if b.store(chatID).Snapshot().CartCount == 0 {
		b.reply(chatID, "🛒 Your cart is empty.", nil)
		return
	}
	b.awaitInput(ctx, chatID, SessionAwaitingAddress, "📍 Send your delivery address.")
}

func (b *Bot) placeOrder(ctx context.Context, chatID int64, address string, sess *Session) {
	order, err := b.store(chatID).PlaceOrder(ctx, address)
	if errors.Is(err, checkout.ErrBlankAddress) {
		b.reply(chatID, "📍 Please send a delivery address.", nil)
		return
	}
	b.endInput(ctx, chatID, sess, "📍 Delivery address received.")
	if err != nil {
		zap.S().Errorw("failed to place order", "chat_id", chatID, "error", err)
		b.reply(chatID, "❌ "+app.NoticeOrderFailed, nil)
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ *Order placed!*\nTotal $%s via %s.\nDelivering to %s.",
		order.Total.StringFixed(2), md(string(order.Vendor)), emphasize("_", order.DeliveryAddress)), nil)
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	s := b.store(chatID)
	s.Navigate(onboarding.ViewScanner)

	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	photo := msg.Photo[len(msg.Photo)-1]
	data, err := b.download(ctx, photo.FileID)
	if err != nil {
		zap.S().Errorw("failed to download photo", "chat_id", chatID, "error", err)
		b.reply(chatID, "❌ "+scanner.AnalyzeErrorMessage, nil)
		return
	}

	sent, err := b.reply(chatID, "🔍 *Analyzing...*", nil)
	if err != nil {
		return
	}
	food, err := s.AnalyzeUpload(ctx, data, "")
	switch {
	case errors.Is(err, app.ErrStale):
		b.edit(chatID, sent.MessageID, "⏭️ Analysis was replaced.", nil)
	case err != nil:
		b.edit(chatID, sent.MessageID, "❌ "+scanner.AnalyzeErrorMessage, nil)
	default:
		keyboard := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 Add to cart", "scan-cart"),
		))
		b.edit(chatID, sent.MessageID, formatFoodMarkdown(food), &keyboard)
	}
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPhotoSize))
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.", nil)
		return
	}

	var usage []metrics.DailyUsage
	if b.metricsStore != nil {
		var err error
		usage, err = b.metricsStore.GetDailyUsage(7)
		if err != nil {
			b.reply(msg.Chat.ID, "❌ Error fetching metrics.", nil)
			return
		}
	}
	b.reply(msg.Chat.ID, formatUsageMarkdown(usage, metrics.GetSysHealth(b.dataDir)), nil)
}

func (b *Bot) reply(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		zap.S().Errorw("failed to send reply", "chat_id", chatID, "error", err)
	}
	return sent, err
}

func (b *Bot) edit(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.ReplyMarkup = keyboard
	if _, err := b.api.Send(edit); err != nil {
		zap.S().Errorw("failed to edit message", "chat_id", chatID, "error", err)
	}
}

func vendorIDs() string {
	var ids []string
	for _, v := range checkout.Vendors() {
		ids = append(ids, string(v.ID))
	}
	return strings.Join(ids, ", ")
}

func paymentIDs() string {
	var ids []string
	for _, p := range checkout.PaymentMethods() {
		ids = append(ids, p.ID)
	}
	return strings.Join(ids, ", ")
}
