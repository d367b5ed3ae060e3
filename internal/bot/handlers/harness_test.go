package handlers

import (
	"RelayBot/internal/adapters/locales"
	"RelayBot/internal/bot"
	"RelayBot/internal/core/ports"
	"RelayBot/internal/core/services"
	"RelayBot/internal/core/verification"
	"RelayBot/internal/shared/config"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

// fakeBot records everything sent through the transport.
type fakeBot struct {
	mu       sync.Mutex
	messages []ports.SendMessageParams
	files    []ports.SendFileParams
	answers  []ports.AnswerCallbackParams
	menus    map[int64][]ports.BotCommand
	failTo   map[int64]bool
	failFile bool
}

var _ ports.BotClientPort = (*fakeBot)(nil)

func newFakeBot() *fakeBot {
	return &fakeBot{menus: make(map[int64][]ports.BotCommand), failTo: make(map[int64]bool)}
}

var errBlocked = errors.New("Forbidden: bot was blocked by the user")

func (f *fakeBot) SendMessage(ctx context.Context, p ports.SendMessageParams) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTo[p.ChatID] {
		return 0, errBlocked
	}
	f.messages = append(f.messages, p)
	return len(f.messages), nil
}

func (f *fakeBot) SendFile(ctx context.Context, p ports.SendFileParams) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTo[p.ChatID] || f.failFile {
		return 0, errBlocked
	}
	f.files = append(f.files, p)
	return len(f.files), nil
}

func (f *fakeBot) AnswerCallbackQuery(ctx context.Context, p ports.AnswerCallbackParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, p)
	return nil
}

func (f *fakeBot) SetMenuCommands(ctx context.Context, chatID int64, commands []ports.BotCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.menus[chatID] = commands
	return nil
}

func (f *fakeBot) Identity(ctx context.Context) (ports.BotIdentity, error) {
	return ports.BotIdentity{ID: 1, UserName: "relay_bot"}, nil
}

func (f *fakeBot) messagesTo(chatID int64) []ports.SendMessageParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ports.SendMessageParams
	for _, m := range f.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeBot) lastTo(t *testing.T, chatID int64) ports.SendMessageParams {
	t.Helper()
	msgs := f.messagesTo(chatID)
	require.NotEmpty(t, msgs, "no message sent to %d", chatID)
	return msgs[len(msgs)-1]
}

func (f *fakeBot) lastAnswer(t *testing.T) ports.AnswerCallbackParams {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.answers)
	return f.answers[len(f.answers)-1]
}

func (f *fakeBot) menuOf(chatID int64) ([]ports.BotCommand, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.menus[chatID]
	return m, ok
}

// recordingBus keeps published events and runs subscribers on demand.
type recordingBus struct {
	mu          sync.Mutex
	published   []ports.Event
	subscribers map[string][]ports.EventHandler
	failPublish bool
}

var _ ports.EventBus = (*recordingBus)(nil)

func (b *recordingBus) Publish(ctx context.Context, topic string, data any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failPublish {
		return errors.New("bus closed")
	}
	b.published = append(b.published, ports.Event{Topic: topic, Data: data})
	return nil
}

func (b *recordingBus) Subscribe(topic string, handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subscribers == nil {
		b.subscribers = make(map[string][]ports.EventHandler)
	}
	b.subscribers[topic] = append(b.subscribers[topic], handler)
}

// deliver runs every subscriber of topic with data.
func (b *recordingBus) deliver(ctx context.Context, topic string, data any) error {
	b.mu.Lock()
	handlers := b.subscribers[topic]
	b.mu.Unlock()
	var errs []error
	for _, h := range handlers {
		errs = append(errs, h(ctx, ports.Event{Topic: topic, Data: data}))
	}
	return errors.Join(errs...)
}

// MockAdminStore
type MockAdminStore struct {
	mock.Mock
}

var _ ports.AdminStore = (*MockAdminStore)(nil)

func (m *MockAdminStore) Load(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
func (m *MockAdminStore) Save(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// --- Harness ---

type harness struct {
	t      *testing.T
	deps   *bot.Deps
	router *bot.Router
	bot    *fakeBot
	store  *MockAdminStore
	bus    *recordingBus
}

type harnessOption func(*config.Config, *verification.Config)

func withWelcomePhoto(path string) harnessOption {
	return func(c *config.Config, _ *verification.Config) { c.Bot.WelcomePhoto = path }
}

func withMaxPending(n int) harnessOption {
	return func(_ *config.Config, v *verification.Config) { v.MaxPending = n }
}

// newHarness wires the real services behind the router, seeded with admins.
func newHarness(t *testing.T, admins []int64, opts ...harnessOption) *harness {
	t.Helper()
	ctx := context.Background()
	nopLogger := zerolog.Nop()

	cfg := &config.Config{
		I18n: config.I18nConfig{DefaultLanguage: "en", FallbackLanguage: "en"},
	}
	vcfg := verification.Config{Delay: 10 * time.Minute}
	for _, opt := range opts {
		opt(cfg, &vcfg)
	}

	loc, err := locales.Load()
	require.NoError(t, err)

	fb := newFakeBot()
	store := new(MockAdminStore)
	store.On("Load", mock.Anything).Return(admins, nil)

	registry, err := services.NewAdminRegistry(ctx, store, nil, &nopLogger)
	require.NoError(t, err)

	sessions := services.NewSessionStore(cfg.I18n.DefaultLanguage, &nopLogger)
	renderer := services.NewRenderer(loc, cfg.I18n.FallbackLanguage)
	notifier := services.NewUserNotifier(fb, renderer, sessions, &nopLogger)
	scheduler, err := verification.NewScheduler(vcfg, verification.SystemClock{}, func() float64 { return 0.5 }, notifier, &nopLogger)
	require.NoError(t, err)

	bus := &recordingBus{}
	deps := &bot.Deps{
		Cfg:        cfg,
		Bot:        fb,
		Admins:     registry,
		Sessions:   sessions,
		Renderer:   renderer,
		Validator:  services.NewSubmissionValidator(services.DefaultAllowedExtensions, services.DefaultAllowedMimeTypes),
		Dispatcher: services.NewBroadcastDispatcher(fb, renderer, sessions, 0, &nopLogger),
		Scheduler:  scheduler,
		Notifier:   notifier,
		Bus:        bus,
		Pending:    bot.NewPendingInputs(),
	}

	router := bot.NewRouter(deps, &nopLogger)
	bot.RegisterAllHandlers(deps, router, &nopLogger)

	return &harness{t: t, deps: deps, router: router, bot: fb, store: store, bus: bus}
}

// render is what the user is expected to read.
func (h *harness) render(userID int64, key string, params map[string]any) string {
	return h.deps.Renderer.Render(h.deps.Sessions.Language(userID), key, params)
}

func (h *harness) handle(update *tgbotapi.Update) {
	h.router.HandleUpdate(context.Background(), update)
}

// --- Update builders ---

var nextMessageID = 100

func user(id int64) *tgbotapi.User {
	return &tgbotapi.User{ID: id, FirstName: "User", LastName: "Test", UserName: "user_test"}
}

func baseMessage(userID int64) *tgbotapi.Message {
	nextMessageID++
	return &tgbotapi.Message{
		MessageID: nextMessageID,
		From:      user(userID),
		Chat:      &tgbotapi.Chat{ID: userID, Type: "private"},
	}
}

func command(userID int64, name, args string) *tgbotapi.Update {
	msg := baseMessage(userID)
	msg.Text = "/" + name
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(msg.Text)}}
	if args != "" {
		msg.Text += " " + args
	}
	return &tgbotapi.Update{Message: msg}
}

func text(userID int64, body string) *tgbotapi.Update {
	msg := baseMessage(userID)
	msg.Text = body
	return &tgbotapi.Update{Message: msg}
}

func document(userID int64, name, mime string, size int) *tgbotapi.Update {
	msg := baseMessage(userID)
	msg.Document = &tgbotapi.Document{FileID: "file-" + name, FileName: name, MimeType: mime, FileSize: size}
	return &tgbotapi.Update{Message: msg}
}

func photo(userID int64) *tgbotapi.Update {
	msg := baseMessage(userID)
	msg.Photo = []tgbotapi.PhotoSize{{FileID: "p-small"}, {FileID: "p-big"}}
	return &tgbotapi.Update{Message: msg}
}

func callback(userID int64, data string) *tgbotapi.Update {
	return &tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-" + data,
		From:    user(userID),
		Message: baseMessage(userID),
		Data:    data,
	}}
}

func buttonData(markup *ports.ReplyMarkup) []string {
	if markup == nil {
		return nil
	}
	var out []string
	for _, row := range markup.Buttons {
		for _, b := range row {
			out = append(out, b.Data)
		}
	}
	return out
}
