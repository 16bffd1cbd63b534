package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"linkbot/internal/admin"
	"linkbot/internal/banner"
	"linkbot/internal/model"
	"linkbot/internal/service"
	"linkbot/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandler_Start_IssuesCode(t *testing.T) {
	env := newTestEnv(t, enabledPromo)

	env.send(commandUpdate(userID, "/start"))

	texts := env.client.texts(userID)
	require.Len(t, texts, 2)
	assert.Equal(t, homeText, texts[0])
	assert.Contains(t, texts[1], "Promosyon kodun")
	assert.Contains(t, texts[1], "Kalan kod: 4")

	doc := env.doc(t)
	code := doc.Promo.Winners["2000"]
	assert.NotEmpty(t, code)
	assert.Contains(t, texts[1], code)
	assert.Equal(t, []int64{userID}, doc.Users)

	home := env.client.messages()[0]
	markup, ok := home.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, "🚀 HIZLI REZERVASYON", markup.InlineKeyboard[0][0].Text)
}

func TestHandler_Start_Repeat(t *testing.T) {
	env := newTestEnv(t, enabledPromo)

	env.send(commandUpdate(userID, "/start"))
	env.send(commandUpdate(userID, "/start"))

	texts := env.client.texts(userID)
	require.Len(t, texts, 4)
	assert.Contains(t, texts[3], "Zaten bir promosyon kodun var")
	assert.Contains(t, texts[3], env.doc(t).Promo.Winners["2000"])
	assert.Equal(t, []int64{userID}, env.doc(t).Users, "chat is registered once")
}

func TestHandler_Start_Disabled(t *testing.T) {
	env := newTestEnv(t, model.PromoConfig{Enabled: false, Limit: 5, Prefix: "LP"})

	env.send(commandUpdate(userID, "/start"))

	assert.Equal(t, []string{homeText}, env.client.texts(userID))
	assert.Empty(t, env.doc(t).Promo.Winners)
}

func TestHandler_Start_Exhausted(t *testing.T) {
	env := newTestEnv(t, model.PromoConfig{Enabled: true, Limit: 0, Prefix: "LP"})

	env.send(commandUpdate(userID, "/start"))

	assert.Equal(t, []string{homeText, promoExhaustedText}, env.client.texts(userID))
}

func TestHandler_Start_PromoFailure(t *testing.T) {
	env := newTestEnv(t, enabledPromo)
	promo := new(MockPromoService)
	promo.On("RequestCode", mock.Anything, "2000").
		Return(model.Outcome{}, fmt.Errorf("%w: write: disk full", model.ErrStorage))
	env.handler.promo = promo

	env.send(commandUpdate(userID, "/start"))

	assert.Equal(t, []string{homeText, promoFailureText}, env.client.texts(userID))
	promo.AssertExpectations(t)
}

func TestHandler_Start_WithBanner(t *testing.T) {
	env := newTestEnv(t, model.PromoConfig{Enabled: false, Limit: 5, Prefix: "LP"})

	path := filepath.Join(t.TempDir(), "banner.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0o644))
	env.handler.banner = banner.NewProvider(banner.NewFileLoader(zerolog.Nop()), path, zerolog.Nop())

	env.send(commandUpdate(userID, "/start"))

	photos := env.client.photos()
	require.Len(t, photos, 1)
	assert.Equal(t, homeText, photos[0].Caption)
	assert.Equal(t, tgbotapi.FileBytes{Name: "banner.jpg", Bytes: []byte("jpeg-bytes")}, photos[0].File)
	assert.Empty(t, env.client.texts(userID))
}

func TestHandler_ID(t *testing.T) {
	env := newTestEnv(t, enabledPromo)

	env.send(commandUpdate(userID, "/id"))

	assert.Equal(t, []string{"Senin Telegram ID: 2000"}, env.client.texts(userID))
}

func TestHandler_AdminCommandsIgnoredForUsers(t *testing.T) {
	commands := []string{
		"/panel",
		"/list",
		"/addquick Name | https://x.com",
		"/addsite",
		"/delchannel 1",
		"/promo off",
		"/broadcast",
	}

	for _, command := range commands {
		t.Run(command, func(t *testing.T) {
			env := newTestEnv(t, enabledPromo)
			before := env.doc(t)

			env.send(commandUpdate(userID, command))

			assert.Empty(t, env.client.Calls)
			assert.Equal(t, before, env.doc(t))
			_, ok := env.handler.sessions.Get(userID)
			assert.False(t, ok)
		})
	}
}

func TestHandler_Panel(t *testing.T) {
	env := newTestEnv(t, enabledPromo)

	env.send(commandUpdate(adminID, "/panel"))

	msgs := env.client.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, panelText, msgs[0].Text)
	assert.Equal(t, adminPanelMenu(), msgs[0].ReplyMarkup)
}

func TestHandler_List(t *testing.T) {
	env := newTestEnv(t, enabledPromo)

	env.send(commandUpdate(adminID, "/list"))

	texts := env.client.texts(adminID)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "1) 🔥 Lotus Private — https://t.me/lotusprivate")
	assert.Contains(t, texts[0], "_Boş_")
}

func TestHandler_AddOneLine(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		category model.Category
		reply    string
		added    bool
	}{
		{
			name:     "quick",
			command:  "/addquick Rezervasyon | https://r.example.com",
			category: model.CategoryQuick,
			reply:    "✅ Ana menüye eklendi. /start ile görebilirsin.",
			added:    true,
		},
		{
			name:     "site",
			command:  "/addsite Site | http://s.example.com",
			category: model.CategorySites,
			reply:    "✅ Site eklendi. /list ile kontrol et.",
			added:    true,
		},
		{
			name:     "channel",
			command:  "/addchannel Kanal | tg://resolve?domain=lotus",
			category: model.CategoryChannels,
			reply:    "✅ Kanal eklendi. /list ile kontrol et.",
			added:    true,
		},
		{
			name:     "bad url",
			command:  "/addquick Bad | ftp://x",
			category: model.CategoryQuick,
			reply:    addBadURLText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, enabledPromo)
			before := len(env.doc(t).Links(tt.category))

			env.send(commandUpdate(adminID, tt.command))

			assert.Equal(t, []string{tt.reply}, env.client.texts(adminID))
			after := len(env.doc(t).Links(tt.category))
			if tt.added {
				assert.Equal(t, before+1, after)
			} else {
				assert.Equal(t, before, after)
			}
		})
	}
}

func TestHandler_AddWizard(t *testing.T) {
	env := newTestEnv(t, enabledPromo)

	env.send(commandUpdate(adminID, "/addsite"))
	env.send(textUpdate(adminID, "  Yeni Site  "))
	env.send(textUpdate(adminID, "yenisite.com"))

	flow, ok := env.handler.sessions.Get(adminID)
	require.True(t, ok, "invalid url keeps the flow")
	assert.Equal(t, session.StepLinkURL, flow.Step)

	env.send(textUpdate(adminID, "https://yenisite.com"))

	texts := env.client.texts(adminID)
	require.Len(t, texts, 4)
	assert.Equal(t, addFlowStartText, texts[0])
	assert.Equal(t, addFlowURLText, texts[1])
	assert.Equal(t, addFlowBadURLText, texts[2])
	assert.Contains(t, texts[3], "Eklendi")

	sites := env.doc(t).Sites
	assert.Equal(t, model.Link{Title: "Yeni Site", URL: "https://yenisite.com"}, sites[len(sites)-1])

	_, ok = env.handler.sessions.Get(adminID)
	assert.False(t, ok)
}

func TestHandler_Cancel(t *testing.T) {
	env := newTestEnv(t, enabledPromo)

	env.send(commandUpdate(adminID, "/cancel"))
	env.send(commandUpdate(adminID, "/addquick"))
	env.send(commandUpdate(adminID, "/cancel"))

	texts := env.client.texts(adminID)
	require.Len(t, texts, 3)
	assert.Equal(t, nothingToCancel, texts[0])
	assert.Equal(t, cancelledText, texts[2])
	_, ok := env.handler.sessions.Get(adminID)
	assert.False(t, ok)
}

func TestHandler_FlowDroppedForNonAdmin(t *testing.T) {
	env := newTestEnv(t, enabledPromo)
	env.handler.sessions.Set(userID, session.NewAddLinkFlow(model.CategoryQuick))

	env.send(textUpdate(userID, "Name"))

	assert.Empty(t, env.client.Calls)
	_, ok := env.handler.sessions.Get(userID)
	assert.False(t, ok)
}

func TestHandler_PlainTextWithoutFlowIgnored(t *testing.T) {
	env := newTestEnv(t, enabledPromo)

	env.send(textUpdate(adminID, "hello"))

	assert.Empty(t, env.client.Calls)
}

func TestHandler_Delete(t *testing.T) {
	tests := []struct {
		name      string
		command   string
		reply     string
		remaining int
	}{
		{name: "valid", command: "/delchannel 2", reply: "🗑️ Silindi: 🎥 Lotus Private Live", remaining: 2},
		{name: "out of range", command: "/delchannel 9", reply: badPositionText, remaining: 3},
		{name: "zero", command: "/delchannel 0", reply: badPositionText, remaining: 3},
		{name: "not a number", command: "/delchannel x", reply: "Kullanım: /delchannel 1", remaining: 3},
		{name: "missing", command: "/delchannel", reply: "Kullanım: /delchannel 1", remaining: 3},
		{name: "too many args", command: "/delchannel 1 2", reply: "Kullanım: /delchannel 1", remaining: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, enabledPromo)

			env.send(commandUpdate(adminID, tt.command))

			assert.Equal(t, []string{tt.reply}, env.client.texts(adminID))
			assert.Len(t, env.doc(t).Channels, tt.remaining)
		})
	}
}

func TestHandler_Promo(t *testing.T) {
	env := newTestEnv(t, enabledPromo)
	ctx := context.Background()
	for _, id := range []string{"a", "b"} {
		_, err := env.promo.RequestCode(ctx, id)
		require.NoError(t, err)
	}

	env.send(commandUpdate(adminID, "/promo"))
	env.send(commandUpdate(adminID, "/promo off"))
	env.send(commandUpdate(adminID, "/promo limit 1"))
	env.send(commandUpdate(adminID, "/promo limit 10"))
	env.send(commandUpdate(adminID, "/promo prefix VIP"))
	env.send(commandUpdate(adminID, "/promo limit many"))
	env.send(commandUpdate(adminID, "/promo bogus"))

	texts := env.client.texts(adminID)
	require.Len(t, texts, 7)
	assert.Contains(t, texts[0], "Verilen: 2")
	assert.Contains(t, texts[0], "🟢 Açık")
	assert.Contains(t, texts[1], "🔴 Kapalı")
	assert.Equal(t, promoInvalidText, texts[2])
	assert.Contains(t, texts[3], "Limit: 10")
	assert.Contains(t, texts[4], "`VIP`")
	assert.Equal(t, promoUsageText, texts[5])
	assert.Equal(t, promoUsageText, texts[6])

	promo := env.doc(t).Promo
	assert.False(t, promo.Enabled)
	assert.Equal(t, 10, promo.Limit)
	assert.Equal(t, "VIP", promo.Prefix)
}

func TestHandler_BroadcastText(t *testing.T) {
	env := newTestEnv(t, enabledPromo)
	ctx := context.Background()
	for _, id := range []int64{11, 12, 13} {
		_, err := env.audience.Register(ctx, id)
		require.NoError(t, err)
	}

	env.send(commandUpdate(adminID, "/broadcast"))
	env.send(textUpdate(adminID, "Bu akşam etkinlik var!"))
	env.handler.Wait()

	for _, id := range []int64{11, 12, 13} {
		assert.Equal(t, []string{"Bu akşam etkinlik var!"}, env.client.texts(id))
	}

	texts := env.client.texts(adminID)
	require.Len(t, texts, 3)
	assert.Equal(t, broadcastStartText, texts[0])
	assert.Equal(t, broadcastStartedText(3), texts[1])
	assert.Contains(t, texts[2], "Gönderilen: 3")

	_, ok := env.handler.sessions.Get(adminID)
	assert.False(t, ok)
}

func TestHandler_BroadcastPhoto(t *testing.T) {
	env := newTestEnv(t, enabledPromo)
	_, err := env.audience.Register(context.Background(), 11)
	require.NoError(t, err)

	env.send(commandUpdate(adminID, "/broadcast"))
	env.send(photoUpdate(adminID, "big-photo", ""))

	flow, ok := env.handler.sessions.Get(adminID)
	require.True(t, ok)
	assert.Equal(t, session.StepBroadcastCaption, flow.Step)

	env.send(textUpdate(adminID, "Yeni sezon"))
	env.handler.Wait()

	photos := env.client.photos()
	require.Len(t, photos, 1)
	assert.Equal(t, int64(11), photos[0].ChatID)
	assert.Equal(t, tgbotapi.FileID("big-photo"), photos[0].File)
	assert.Equal(t, "Yeni sezon", photos[0].Caption)
}

func TestHandler_BroadcastPhotoWithCaption(t *testing.T) {
	env := newTestEnv(t, enabledPromo)
	_, err := env.audience.Register(context.Background(), 11)
	require.NoError(t, err)

	env.send(commandUpdate(adminID, "/broadcast"))
	env.send(photoUpdate(adminID, "big-photo", "Hazır açıklama"))
	env.handler.Wait()

	photos := env.client.photos()
	require.Len(t, photos, 1)
	assert.Equal(t, "Hazır açıklama", photos[0].Caption)
}

func TestHandler_BroadcastCountsFailures(t *testing.T) {
	env := newTestEnv(t, enabledPromo)
	ctx := context.Background()
	for _, id := range []int64{11, 12} {
		_, err := env.audience.Register(ctx, id)
		require.NoError(t, err)
	}

	client := new(MockClient)
	client.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == 12
	})).Return(tgbotapi.Message{}, errors.New("Forbidden: bot was blocked by the user"))
	client.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)
	client.On("Request", mock.Anything).Return(&tgbotapi.APIResponse{Ok: true}, nil)
	env.handler.client = client
	env.handler.broadcaster = newFastBroadcaster(client)

	env.send(commandUpdate(adminID, "/broadcast"))
	env.send(textUpdate(adminID, "duyuru"))
	env.handler.Wait()

	texts := client.texts(adminID)
	require.NotEmpty(t, texts)
	report := texts[len(texts)-1]
	assert.Contains(t, report, "Gönderilen: 1")
	assert.Contains(t, report, "Başarısız: 1")
}

func TestHandler_Callbacks_Menus(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		onPhoto bool
		text    string
	}{
		{name: "channels on photo", data: CallbackMenuChannels, onPhoto: true, text: channelsText},
		{name: "sites on text", data: CallbackMenuSites, onPhoto: false, text: sitesText},
		{name: "back home on photo", data: CallbackBackHome, onPhoto: true, text: homeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, enabledPromo)

			env.send(callbackUpdate(userID, tt.data, tt.onPhoto))

			reqs := env.client.requests()
			require.Len(t, reqs, 2)
			assert.Equal(t, tgbotapi.NewCallback("cb-1", ""), reqs[0])

			if tt.onPhoto {
				edit, ok := reqs[1].(tgbotapi.EditMessageCaptionConfig)
				require.True(t, ok, "photo messages get their caption edited")
				assert.Equal(t, tt.text, edit.Caption)
				assert.Equal(t, 42, edit.MessageID)
				require.NotNil(t, edit.ReplyMarkup)
			} else {
				edit, ok := reqs[1].(tgbotapi.EditMessageTextConfig)
				require.True(t, ok, "text messages get their text edited")
				assert.Equal(t, tt.text, edit.Text)
				assert.True(t, edit.DisableWebPagePreview)
			}
		})
	}
}

func TestHandler_Callbacks_ChannelsKeyboard(t *testing.T) {
	env := newTestEnv(t, enabledPromo)

	env.send(callbackUpdate(userID, CallbackMenuChannels, false))

	edit := env.client.requests()[1].(tgbotapi.EditMessageTextConfig)
	rows := edit.ReplyMarkup.InlineKeyboard
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], 2)
	assert.Len(t, rows[1], 1)
	assert.Equal(t, CallbackBackHome, *rows[2][0].CallbackData)
}

func TestHandler_Callbacks_AdminOnly(t *testing.T) {
	adminCallbacks := []string{
		CallbackBackPanel,
		CallbackAdminList,
		CallbackAdminAdd,
		CallbackAdminDelete,
		CallbackAdminPromo,
	}

	for _, data := range adminCallbacks {
		t.Run(data, func(t *testing.T) {
			env := newTestEnv(t, enabledPromo)

			env.send(callbackUpdate(userID, data, false))
			assert.Len(t, env.client.requests(), 1, "non-admin only gets the callback answered")

			env.send(callbackUpdate(adminID, data, false))
			assert.Len(t, env.client.requests(), 3)
		})
	}
}

func TestHandler_Callbacks_AdminPromo(t *testing.T) {
	env := newTestEnv(t, enabledPromo)

	env.send(callbackUpdate(adminID, CallbackAdminPromo, true))

	edit, ok := env.client.requests()[1].(tgbotapi.EditMessageCaptionConfig)
	require.True(t, ok)
	assert.Contains(t, edit.Caption, "Limit: 5")
	assert.Equal(t, panelBackMenu(), *edit.ReplyMarkup)
}

func TestNewHandler_NilAdminsAllowsNobody(t *testing.T) {
	env := newTestEnv(t, enabledPromo)
	env.handler.admins = (*admin.Set)(nil)

	env.send(commandUpdate(adminID, "/panel"))

	assert.Empty(t, env.client.Calls)
}

func TestParseAddArgsFromCommand(t *testing.T) {
	update := commandUpdate(adminID, "/addquick İsim | https://link")
	name, url, ok := service.ParseAddArgs(update.Message.CommandArguments())

	require.True(t, ok)
	assert.Equal(t, "İsim", name)
	assert.Equal(t, "https://link", url)
}
