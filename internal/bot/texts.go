package bot

import (
	"fmt"
	"strings"

	"linkbot/internal/model"
)

const (
	homeText = "✨ *Lotus Private Link Merkezi*\n" +
		"_Kanallarımız ve sitelerimiz tek yerde._\n\n" +
		"Aşağıdan bir menü seç 👇"

	channelsText = "📣 *Telegram Kanallarımız*\nAşağıdan kanala tıkla 👇"
	sitesText    = "🌐 *İnternet Sitelerimiz*\nAşağıdan siteye tıkla 👇"
	panelText    = "🛠 *Admin Panel*\nAşağıdan seç 👇"

	addHelpText = "➕ *Ekleme (Wizard)*\n\n" +
		"Quick (ana menü):\n" +
		"`/addquick`  (sonra isim, sonra link)\n" +
		"veya tek satır:\n" +
		"`/addquick İsim | https://link`\n\n" +
		"Site:\n" +
		"`/addsite`  veya  `/addsite İsim | https://link`\n\n" +
		"Kanal:\n" +
		"`/addchannel`  veya  `/addchannel İsim | https://t.me/kanal`\n\n" +
		"İptal:\n" +
		"`/cancel`"

	deleteHelpText = "➖ *Silme*\n\n" +
		"Önce listele:\n`/list`\n\n" +
		"Quick sil:\n`/delquick 1`\n" +
		"Site sil:\n`/delsite 1`\n" +
		"Kanal sil:\n`/delchannel 1`"

	addFlowStartText   = "✅ *Ekleme başlatıldı*\n\n1) Link adı yaz (butonda gözükecek isim):"
	addFlowURLText     = "2) Şimdi linki yapıştır (https://...):"
	addFlowBadURLText  = "❌ Link formatı yanlış.\nhttps:// ile başlayan link gönder."
	addBadURLText      = "❌ Link formatı yanlış (https:// ile başlamalı)."
	badPositionText    = "❌ Geçersiz sıra numarası. /list ile bak."
	cancelledText      = "❌ İptal edildi."
	nothingToCancel    = "İptal edilecek bir işlem yok."
	genericFailureText = "⚠️ İşlem başarısız oldu. Lütfen daha sonra tekrar dene."

	promoFailureText   = "⚠️ Şu anda promosyon kodu verilemiyor. Lütfen daha sonra tekrar dene."
	promoExhaustedText = "😔 Promosyon kampanyası doldu, tüm kodlar dağıtıldı."
	promoUsageText     = "Kullanım:\n`/promo`  `/promo on`  `/promo off`\n`/promo limit 100`  `/promo prefix LP`"
	promoInvalidText   = "❌ Geçersiz ayar. Limit verilen kod sayısından az olamaz, önek boş olamaz."

	broadcastStartText   = "📢 *Duyuru*\n\nFotoğraf gönder ya da sadece metin yaz.\n`/cancel` ile iptal."
	broadcastCaptionText = "✍️ Şimdi fotoğrafın açıklamasını yaz:"
	broadcastPhotoText   = "Fotoğraf ya da metin gönder. `/cancel` ile iptal."
)

// addedText is the confirmation for a one-line add.
func addedText(category model.Category) string {
	switch category {
	case model.CategoryQuick:
		return "✅ Ana menüye eklendi. /start ile görebilirsin."
	case model.CategorySites:
		return "✅ Site eklendi. /list ile kontrol et."
	default:
		return "✅ Kanal eklendi. /list ile kontrol et."
	}
}

func addFlowDoneText(category model.Category, link model.Link) string {
	return fmt.Sprintf(
		"✅ Eklendi!\n\nKategori: *%s*\nİsim: *%s*\nLink: %s\n\n/start ile kontrol edebilirsin.",
		category, link.Title, link.URL,
	)
}

func idText(userID int64) string {
	return fmt.Sprintf("Senin Telegram ID: %d", userID)
}

func deleteUsageText(command string) string {
	return fmt.Sprintf("Kullanım: /%s 1", command)
}

func deletedText(link model.Link) string {
	return "🗑️ Silindi: " + link.Title
}

// linkListText renders every category with 1-based positions.
func linkListText(doc *model.Document, footer string) string {
	var b strings.Builder
	b.WriteString("📌 *Kayıtlı Linkler*\n\n")

	sections := []struct {
		title    string
		category model.Category
	}{
		{"⚡️ *Ana Menü (Quick):*", model.CategoryQuick},
		{"📣 *Kanallar:*", model.CategoryChannels},
		{"🌐 *Siteler:*", model.CategorySites},
	}
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.title + "\n")
		links := doc.Links(s.category)
		if len(links) == 0 {
			b.WriteString("_Boş_\n")
			continue
		}
		for n, l := range links {
			fmt.Fprintf(&b, "%d) %s — %s\n", n+1, l.Title, l.URL)
		}
	}

	b.WriteString("\n" + footer)
	return b.String()
}

const (
	listFooterCommand  = "Silmek için örnek:\n`/delquick 1`  `/delchannel 2`  `/delsite 1`"
	listFooterCallback = "Silmek için:\n`/delquick 1`  `/delchannel 1`  `/delsite 1`"
)

// outcomeText renders a promo outcome. Disabled renders nothing.
func outcomeText(o model.Outcome) string {
	switch o.Kind {
	case model.OutcomeIssued:
		return fmt.Sprintf("🎟 *Promosyon kodun:* `%s`\nKalan kod: %d", o.Code, o.Remaining)
	case model.OutcomeAlreadyIssued:
		return fmt.Sprintf("🎟 Zaten bir promosyon kodun var: `%s`\nKalan kod: %d", o.Code, o.Remaining)
	case model.OutcomeExhausted:
		return promoExhaustedText
	}
	return ""
}

func promoStatusText(s *model.PromoStatus) string {
	state := "🔴 Kapalı"
	if s.Enabled {
		state = "🟢 Açık"
	}
	return fmt.Sprintf(
		"🎟 *Promosyon*\n\nDurum: %s\nÖnek: `%s`\nLimit: %d\nVerilen: %d\nKalan: %d",
		state, s.Prefix, s.Limit, s.IssuedCount, s.Remaining,
	)
}

func broadcastStartedText(recipients int) string {
	return fmt.Sprintf("📤 Duyuru gönderiliyor... (%d kişi)", recipients)
}

func broadcastReportText(r model.BroadcastReport) string {
	return fmt.Sprintf(
		"✅ Duyuru tamamlandı.\n\nToplam: %d\nGönderilen: %d\nBaşarısız: %d\nİş: `%s`",
		r.Total, r.Sent, r.Failed, r.JobID,
	)
}

func broadcastAbortedText(r model.BroadcastReport) string {
	return fmt.Sprintf(
		"⚠️ Duyuru yarıda kesildi.\n\nToplam: %d\nGönderilen: %d\nBaşarısız: %d\nİş: `%s`",
		r.Total, r.Sent, r.Failed, r.JobID,
	)
}
