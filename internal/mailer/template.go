package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"PhoneCompare/internal/interfaces"

	"github.com/shopspring/decimal"
)

// PriceDropData 降价邮件模板数据
type PriceDropData struct {
	To               string
	PhoneName        string
	PhoneSlug        string
	ImageURL         string
	OldPrice         float64
	NewPrice         float64
	SiteURL          string
	UnsubscribeToken string
}

// priceDropView 模板渲染用，金额已格式化
type priceDropView struct {
	PhoneName      string
	ImageURL       string
	OldPrice       string
	NewPrice       string
	Saving         string
	SavingPct      string
	PhoneURL       string
	UnsubscribeURL string
}

var priceDropHTML = template.Must(template.New("price_drop").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif">
<h2>{{.PhoneName}} just got cheaper</h2>
{{if .ImageURL}}<p><img src="{{.ImageURL}}" alt="{{.PhoneName}}" width="160"></p>{{end}}
<p>Price dropped from <s>${{.OldPrice}}</s> to <strong>${{.NewPrice}}</strong>. You save ${{.Saving}} ({{.SavingPct}}%).</p>
<p><a href="{{.PhoneURL}}">See the deal</a></p>
<p style="font-size:12px;color:#888"><a href="{{.UnsubscribeURL}}">Unsubscribe from this alert</a></p>
</body></html>`))

// RenderPriceDrop 生成降价提醒邮件
func RenderPriceDrop(data PriceDropData) (*interfaces.Email, error) {
	oldP := decimal.NewFromFloat(data.OldPrice)
	newP := decimal.NewFromFloat(data.NewPrice)
	saving := oldP.Sub(newP)
	pct := decimal.Zero
	if oldP.IsPositive() {
		pct = saving.Div(oldP).Mul(decimal.NewFromInt(100))
	}

	site := strings.TrimSuffix(data.SiteURL, "/")
	view := priceDropView{
		PhoneName:      data.PhoneName,
		ImageURL:       data.ImageURL,
		OldPrice:       oldP.StringFixed(2),
		NewPrice:       newP.StringFixed(2),
		Saving:         saving.StringFixed(2),
		SavingPct:      pct.Round(1).StringFixed(1),
		PhoneURL:       site + "/phones/" + url.PathEscape(data.PhoneSlug),
		UnsubscribeURL: site + "/api/alerts/unsubscribe?token=" + url.QueryEscape(data.UnsubscribeToken),
	}

	var buf bytes.Buffer
	if err := priceDropHTML.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("渲染降价邮件失败: %w", err)
	}
	text := fmt.Sprintf("%s dropped from $%s to $%s (save $%s, %s%%).\nSee the deal: %s\nUnsubscribe: %s\n",
		view.PhoneName, view.OldPrice, view.NewPrice, view.Saving, view.SavingPct, view.PhoneURL, view.UnsubscribeURL)

	return &interfaces.Email{
		To:      data.To,
		Subject: fmt.Sprintf("Price drop: %s is now $%s", data.PhoneName, view.NewPrice),
		HTML:    buf.String(),
		Text:    text,
		Headers: map[string]string{"List-Unsubscribe": "<" + view.UnsubscribeURL + ">"},
	}, nil
}
