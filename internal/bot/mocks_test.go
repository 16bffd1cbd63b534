package bot

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"linkbot/internal/admin"
	"linkbot/internal/broadcast"
	"linkbot/internal/config"
	"linkbot/internal/coupon"
	"linkbot/internal/model"
	"linkbot/internal/repository"
	"linkbot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	adminID = int64(1000)
	userID  = int64(2000)
)

// MockClient is a mock implementation of Client.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

func (m *MockClient) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	args := m.Called(c)
	resp, _ := args.Get(0).(*tgbotapi.APIResponse)
	return resp, args.Error(1)
}

func newMockClient() *MockClient {
	client := new(MockClient)
	client.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)
	client.On("Request", mock.Anything).Return(&tgbotapi.APIResponse{Ok: true}, nil)
	return client
}

// texts returns the text of every MessageConfig sent to chatID, in order.
func (m *MockClient) texts(chatID int64) []string {
	var out []string
	for _, call := range m.Calls {
		if call.Method != "Send" {
			continue
		}
		if msg, ok := call.Arguments.Get(0).(tgbotapi.MessageConfig); ok && msg.ChatID == chatID {
			out = append(out, msg.Text)
		}
	}
	return out
}

// messages returns every MessageConfig sent.
func (m *MockClient) messages() []tgbotapi.MessageConfig {
	var out []tgbotapi.MessageConfig
	for _, call := range m.Calls {
		if msg, ok := call.Arguments.Get(0).(tgbotapi.MessageConfig); ok && call.Method == "Send" {
			out = append(out, msg)
		}
	}
	return out
}

// photos returns every PhotoConfig sent.
func (m *MockClient) photos() []tgbotapi.PhotoConfig {
	var out []tgbotapi.PhotoConfig
	for _, call := range m.Calls {
		if p, ok := call.Arguments.Get(0).(tgbotapi.PhotoConfig); ok && call.Method == "Send" {
			out = append(out, p)
		}
	}
	return out
}

// requests returns every Chattable passed to Request.
func (m *MockClient) requests() []tgbotapi.Chattable {
	var out []tgbotapi.Chattable
	for _, call := range m.Calls {
		if call.Method == "Request" {
			out = append(out, call.Arguments.Get(0).(tgbotapi.Chattable))
		}
	}
	return out
}

// MockPromoService is a mock implementation of service.PromoService.
type MockPromoService struct {
	mock.Mock
}

func (m *MockPromoService) RequestCode(ctx context.Context, requesterID string) (model.Outcome, error) {
	args := m.Called(ctx, requesterID)
	return args.Get(0).(model.Outcome), args.Error(1)
}

func (m *MockPromoService) Snapshot(ctx context.Context) (*model.PromoStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PromoStatus), args.Error(1)
}

func (m *MockPromoService) UpdateSettings(ctx context.Context, settings model.PromoSettings) (*model.PromoStatus, error) {
	args := m.Called(ctx, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PromoStatus), args.Error(1)
}

func newFastBroadcaster(client Client) Broadcaster {
	return broadcast.New(NewBroadcastSender(client), config.BroadcastConfig{Rate: 1000, Workers: 2}, zerolog.Nop())
}

// testEnv wires a handler to real services over a file repository.
type testEnv struct {
	handler  *Handler
	client   *MockClient
	repo     repository.DocumentRepository
	promo    service.PromoService
	audience service.AudienceService
}

func newTestEnv(t *testing.T, promo model.PromoConfig) *testEnv {
	t.Helper()

	repo := repository.NewFileRepository(filepath.Join(t.TempDir(), "links.json"), promo, zerolog.Nop())
	require.NoError(t, repo.Init(context.Background()))

	client := newMockClient()
	promoSvc := service.NewPromoService(repo, coupon.NewGenerator(zerolog.Nop()), zerolog.Nop())
	audience := service.NewAudienceService(repo, zerolog.Nop())

	h := NewHandler(Options{
		Client:             client,
		Promo:              promoSvc,
		Links:              service.NewLinkService(repo, zerolog.Nop()),
		Audience:           audience,
		Broadcaster:        newFastBroadcaster(client),
		Admins:             admin.NewSet([]int64{adminID}),
		FastReservationURL: "https://t.me/lotusprivate?direct",
	}, zerolog.Nop())

	return &testEnv{handler: h, client: client, repo: repo, promo: promoSvc, audience: audience}
}

func (e *testEnv) doc(t *testing.T) *model.Document {
	t.Helper()
	doc, err := e.repo.Load(context.Background())
	require.NoError(t, err)
	return doc
}

func (e *testEnv) send(update tgbotapi.Update) {
	e.handler.HandleUpdate(context.Background(), update)
}

var enabledPromo = model.PromoConfig{Enabled: true, Limit: 5, Prefix: "LP"}

// commandUpdate builds a private-chat command message.
func commandUpdate(from int64, text string) tgbotapi.Update {
	command, _, _ := strings.Cut(text, " ")
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: from},
		Chat:      &tgbotapi.Chat{ID: from},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}},
	}}
}

// textUpdate builds a plain private-chat message.
func textUpdate(from int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 2,
		From:      &tgbotapi.User{ID: from},
		Chat:      &tgbotapi.Chat{ID: from},
		Text:      text,
	}}
}

// photoUpdate builds a photo message with sizes ending in fileID.
func photoUpdate(from int64, fileID, caption string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 3,
		From:      &tgbotapi.User{ID: from},
		Chat:      &tgbotapi.Chat{ID: from},
		Caption:   caption,
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small"},
			{FileID: fileID},
		},
	}}
}

// callbackUpdate builds a callback query on a message, optionally a photo message.
func callbackUpdate(from int64, data string, onPhoto bool) tgbotapi.Update {
	msg := &tgbotapi.Message{MessageID: 42, Chat: &tgbotapi.Chat{ID: from}}
	if onPhoto {
		msg.Photo = []tgbotapi.PhotoSize{{FileID: "banner"}}
	}
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: from},
		Message: msg,
		Data:    data,
	}}
}
