package telegram

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalplan/internal/app"
	"vitalplan/internal/checkout"
	"vitalplan/internal/config"
	"vitalplan/internal/database"
	"vitalplan/internal/domain"
	"vitalplan/internal/onboarding"
	"vitalplan/internal/planner"
	"vitalplan/internal/scanner"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
	next int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	f.next++
	return tgbotapi.Message{MessageID: f.next}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) GetFileDirectURL(fileID string) (string, error) {
	return "", nil
}

// texts returns the text of every message and edit sent so far.
func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeSender) last() string {
	t := f.texts()
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1]
}

const testUser = 7

func newTestBot(t *testing.T) (*Bot, *fakeSender) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "bot.db")
	db, err := database.NewDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		DatabasePath:           dbPath,
		TelegramAllowedUserIDs: []int64{testUser},
		AdminTelegramID:        testUser,
	}
	factory := func(chatID int64) *app.Store {
		return app.New(app.Deps{
			Generator: planner.NewMockGenerator(planner.WithLatency(0)),
			Analyzer:  scanner.NewMockAnalyzer(scanner.WithLatency(0)),
		})
	}
	fake := &fakeSender{}
	b := newBot(fake, cfg, factory, NewSessionRepository(db.SQL), nil)
	b.run = func(f func()) { f() }
	t.Cleanup(b.Close)
	return b, fake
}

func textMessage(from int64, text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: from},
		Chat:      &tgbotapi.Chat{ID: from},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		cmd, _, _ := strings.Cut(text, " ")
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	return msg
}

func postUpdate(t *testing.T, b *Bot, u tgbotapi.Update) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(u)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	b.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body)))
	return rec
}

func TestRouter(t *testing.T) {
	b, fake := newTestBot(t)

	rec := httptest.NewRecorder()
	b.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	b.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "vitalplan_http_requests_total")

	rec = httptest.NewRecorder()
	b.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, fake.texts())
}

func TestWebhookIgnoresUnknownUsers(t *testing.T) {
	b, fake := newTestBot(t)

	rec := postUpdate(t, b, tgbotapi.Update{UpdateID: 1, Message: textMessage(99, "/start")})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, fake.texts())

	rec = postUpdate(t, b, tgbotapi.Update{UpdateID: 2, Message: textMessage(testUser, "/start")})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, fake.last(), "Welcome to VitalPlan")
}

func TestProfileConversation(t *testing.T) {
	b, fake := newTestBot(t)

	b.processMessage(textMessage(testUser, "/start"))
	b.processMessage(textMessage(testUser, "name=Sam; age=5"))
	assert.Contains(t, fake.last(), "Please enter a valid age between 13 and 120")

	b.processMessage(textMessage(testUser, "name=Sam; email=sam@example.com; age=30; height=170; weight=70"))
	texts := fake.texts()
	require.GreaterOrEqual(t, len(texts), 2)
	assert.Contains(t, texts[len(texts)-2], "Profile saved, Sam")
	assert.Contains(t, fake.last(), "Choose your goals")

	st := b.store(testUser).Snapshot()
	require.NotNil(t, st.User)
	assert.Equal(t, onboarding.StepGoals, st.Step)

	// The awaiting-profile session is gone, so free text gets the help.
	b.processMessage(textMessage(testUser, "hello"))
	assert.Contains(t, fake.last(), "/plan")
}

func TestGoalCallbacksAndPlan(t *testing.T) {
	b, fake := newTestBot(t)
	b.processMessage(textMessage(testUser, "/profile name=Sam; email=s@e.com; age=30; height=170; weight=70"))

	query := func(data string) *tgbotapi.CallbackQuery {
		return &tgbotapi.CallbackQuery{
			ID:      "q",
			From:    &tgbotapi.User{ID: testUser},
			Message: &tgbotapi.Message{MessageID: 5, Chat: &tgbotapi.Chat{ID: testUser}},
			Data:    data,
		}
	}

	b.handleCallbackQuery(query("goal|" + string(domain.GoalHealthyAging)))
	b.handleCallbackQuery(query("prio|" + string(domain.GoalHealthyAging) + "|high"))
	b.handleCallbackQuery(query("goals-done"))
	assert.Contains(t, fake.last(), "Goals saved")

	st := b.store(testUser).Snapshot()
	require.Len(t, st.Goals, 1)
	assert.Equal(t, domain.PriorityHigh, st.Goals[0].Priority)
	assert.Equal(t, onboarding.ViewPlans, st.View)

	b.handleCallbackQuery(query("plan"))
	assert.Contains(t, fake.last(), "Your Diet Plan")

	b.handleCallbackQuery(query("plan-cart"))
	assert.NotZero(t, b.store(testUser).Snapshot().CartCount)

	b.handleCallbackQuery(query("plan-pdf"))
	var doc *tgbotapi.DocumentConfig
	for _, c := range fake.sent {
		if d, ok := c.(tgbotapi.DocumentConfig); ok {
			doc = &d
		}
	}
	require.NotNil(t, doc)
	file, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.True(t, bytes.HasPrefix(file.Bytes, []byte("%PDF-")))
}

func TestCheckoutConversation(t *testing.T) {
	b, fake := newTestBot(t)

	b.processMessage(textMessage(testUser, "/checkout"))
	assert.Contains(t, fake.last(), "cart is empty")

	require.NoError(t, b.store(testUser).AddMarketplaceItem("market-1", 2))
	b.processMessage(textMessage(testUser, "/vendor local"))
	assert.Contains(t, fake.last(), "Local Store")

	b.processMessage(textMessage(testUser, "/checkout"))
	assert.Contains(t, fake.last(), "delivery address")
	promptID := fake.next

	b.processMessage(textMessage(testUser, "   "))
	assert.Contains(t, fake.last(), "Please send a delivery address")

	b.processMessage(textMessage(testUser, "1 Main St"))
	assert.Contains(t, fake.last(), "Order placed")

	var promptEdit *tgbotapi.EditMessageTextConfig
	for _, c := range fake.sent {
		if e, ok := c.(tgbotapi.EditMessageTextConfig); ok && e.MessageID == promptID {
			promptEdit = &e
		}
	}
	require.NotNil(t, promptEdit)
	assert.Equal(t, "📍 Delivery address received.", promptEdit.Text)

	st := b.store(testUser).Snapshot()
	assert.Empty(t, st.Cart)
	require.Len(t, st.Orders, 1)
	assert.Equal(t, domain.VendorLocal, st.Orders[0].Vendor)

	b.processMessage(textMessage(testUser, "/orders"))
	assert.Contains(t, fake.last(), "1 Main St")
}

func TestUserTextIsEscaped(t *testing.T) {
	b, fake := newTestBot(t)

	b.processMessage(textMessage(testUser, "/profile name=sam_b; email=s@e.com; age=30; height=170; weight=70"))
	var saved string
	for _, txt := range fake.texts() {
		if strings.Contains(txt, "Profile saved") {
			saved = txt
		}
	}
	assert.Contains(t, saved, `Profile saved, sam\_b!`)

	require.NoError(t, b.store(testUser).AddMarketplaceItem("market-1", 1))
	b.processMessage(textMessage(testUser, "/checkout"))
	b.processMessage(textMessage(testUser, "Flat 2_B*"))
	assert.Contains(t, fake.last(), `Delivering to Flat 2\_B\*.`)
	assert.NotContains(t, fake.last(), "_Flat")

	b.processMessage(textMessage(testUser, "/orders"))
	assert.Contains(t, fake.last(), `Flat 2\_B\*`)
}

func TestEmphasize(t *testing.T) {
	assert.Equal(t, "_1 Main St_", emphasize("_", "1 Main St"))
	assert.Equal(t, "*Whey*", emphasize("*", "Whey"))
	assert.Equal(t, `flat\_2 \[a]`, emphasize("_", "flat_2 [a]"))
	assert.Equal(t, "a\\`b", md("a`b"))
}

func TestMetricsCommandIsAdminOnly(t *testing.T) {
	b, fake := newTestBot(t)
	b.cfg.AdminTelegramID = 1

	b.processMessage(textMessage(testUser, "/metrics"))
	assert.Contains(t, fake.last(), "Access Denied")

	b.cfg.AdminTelegramID = testUser
	b.processMessage(textMessage(testUser, "/metrics"))
	assert.Contains(t, fake.last(), "System Health")
}

func TestSessionRepository(t *testing.T) {
	db, err := database.NewDB(filepath.Join(t.TempDir(), "s.db"))
	require.NoError(t, err)
	defer db.Close()
	repo := NewSessionRepository(db.SQL)
	ctx := t.Context()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	_, err = repo.Create(ctx, 1, SessionAwaitingProfile, SessionContextData{}, time.Minute, now)
	require.NoError(t, err)
	id, err := repo.Create(ctx, 1, SessionAwaitingAddress, SessionContextData{PromptMessageID: 12}, time.Minute, now)
	require.NoError(t, err)

	s, err := repo.GetActive(ctx, 1, now)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, id, s.ID)
	assert.Equal(t, SessionAwaitingAddress, s.SessionType)
	data, err := s.GetContextData()
	require.NoError(t, err)
	assert.Equal(t, 12, data.PromptMessageID)

	require.NoError(t, repo.Delete(ctx, id))
	s, err = repo.GetActive(ctx, 1, now)
	require.NoError(t, err)
	assert.Nil(t, s, "creating a session replaces earlier ones of the chat")

	_, err = repo.Create(ctx, 1, SessionAwaitingProfile, SessionContextData{}, time.Minute, now)
	require.NoError(t, err)

	s, err = repo.GetActive(ctx, 1, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Nil(t, s)

	n, err := repo.CleanupExpired(ctx, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFormatPlanMarkdown(t *testing.T) {
	plan := &domain.DietPlan{
		Meals: []domain.Meal{
			{Name: "Tacos", Type: domain.MealDinner, Calories: 500, PrepTime: 15, Ingredients: []string{"tortilla", "beans"}},
		},
		Supplements:   []domain.Supplement{{Name: "Omega-3", Dosage: "1000mg", Timing: "With meals", Price: decimal.RequireFromString("24.99")}},
		TotalCalories: 500,
		Macros:        domain.Macros{Protein: 20, Carbs: 60, Fat: 15},
	}

	out := formatPlanMarkdown(plan)
	assert.Contains(t, out, "*Dinner*: Tacos (500 kcal, 15 min)")
	assert.Contains(t, out, "_tortilla, beans_")
	assert.Contains(t, out, "• Omega-3: 1000mg, With meals ($24.99)")
	assert.Contains(t, out, "_500 kcal · P 20g · C 60g · F 15g_")

	plan.Meals[0].Name = "Chef_s *special*"
	plan.Meals[0].Ingredients = []string{"pico_de_gallo"}
	out = formatPlanMarkdown(plan)
	assert.Contains(t, out, `*Dinner*: Chef\_s \*special\* (500 kcal`)
	assert.Contains(t, out, "pico\\_de\\_gallo\n")
	assert.NotContains(t, out, "_pico")
}

func TestFormatCartMarkdown(t *testing.T) {
	items := []domain.OrderItem{
		{ID: "a", Name: "Kale", Quantity: 2, Price: decimal.NewFromInt(10), Type: domain.ItemGrocery},
		{ID: "b", Name: "Zinc", Quantity: 1, Price: decimal.NewFromInt(5), Type: domain.ItemSupplement},
	}
	q, err := checkout.NewQuote(items, domain.VendorAmazon)
	require.NoError(t, err)

	out := formatCartMarkdown(items, q, "card")
	assert.Contains(t, out, "*Cart* (3 items)")
	assert.Contains(t, out, "• Kale × 2  $20.00")
	assert.Contains(t, out, "*Total: $32.99*")
	assert.Equal(t, "🛒 Your cart is empty.", formatCartMarkdown(nil, checkout.Quote{}, ""))
}

func TestParseProfile(t *testing.T) {
	base := onboarding.NewProfileInput(nil)

	in, err := parseProfile("name=Sam; age=41; height=180.5; restrictions=vegan, gluten-free; activity=Active", base)
	require.NoError(t, err)
	assert.Equal(t, "Sam", in.Name)
	assert.Equal(t, 41, in.Age)
	assert.Equal(t, 180.5, in.Height)
	assert.Equal(t, base.Weight, in.Weight)
	assert.Equal(t, []string{"vegan", "gluten-free"}, in.DietaryRestrictions)
	assert.Equal(t, domain.ActivityActive, in.ActivityLevel)

	_, err = parseProfile("age=old", base)
	assert.ErrorContains(t, err, `invalid age "old"`)
	_, err = parseProfile("shoe=42", base)
	assert.ErrorContains(t, err, "unknown profile field")
	_, err = parseProfile("justtext", base)
	assert.Error(t, err)
}

func TestMarketQuery(t *testing.T) {
	q := marketQuery("protein sort=price-low whey isolate")
	assert.Equal(t, domain.CategoryProtein, q.Category)
	assert.Equal(t, "whey isolate", q.Term)

	q = marketQuery("omega")
	assert.Equal(t, "omega", q.Term)
	assert.EqualValues(t, "all", q.Category)
}
