// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/tomtom215/carbonoffset/internal/payment"
)

// Subject is the receipt email subject line.
const Subject = "Thank You for Your Carbon Offset Purchase!"

// Message is a rendered email ready for a Sender.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

type receiptView struct {
	Email          string
	MetricTons     string
	PaymentLabel   string
	IsSubscription bool
	MonthlyCost    string
	TotalCost      string
}

var htmlTemplate = template.Must(template.New("receipt").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #2c3e50; border-bottom: 3px solid #27ae60; padding-bottom: 10px;">Thank You for Offsetting Your Carbon Footprint!</h1>
  <p style="font-size: 16px; color: #34495e; line-height: 1.6;">Dear {{.Email}},</p>
  <p style="font-size: 16px; color: #34495e; line-height: 1.6;">Thank you for taking action on climate change! Your purchase helps support verified carbon offset projects around the world.</p>
  <div style="background-color: #f8f9fa; border-left: 4px solid #27ae60; padding: 20px; margin: 20px 0;">
    <h2 style="color: #27ae60; margin-top: 0;">Purchase Summary</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <tr>
        <td style="padding: 8px 0; color: #34495e;"><strong>CO₂ Offset:</strong></td>
        <td style="padding: 8px 0; color: #34495e; text-align: right;">{{.MetricTons}} metric tons</td>
      </tr>
      <tr>
        <td style="padding: 8px 0; color: #34495e;"><strong>Payment Type:</strong></td>
        <td style="padding: 8px 0; color: #34495e; text-align: right;">{{.PaymentLabel}}</td>
      </tr>
      {{- if .IsSubscription}}
      <tr>
        <td style="padding: 8px 0; color: #34495e;"><strong>Monthly Amount:</strong></td>
        <td style="padding: 8px 0; color: #34495e; text-align: right;">${{.MonthlyCost}}</td>
      </tr>
      {{- end}}
      <tr style="border-top: 2px solid #27ae60;">
        <td style="padding: 8px 0; color: #27ae60;"><strong>Total Annual Cost:</strong></td>
        <td style="padding: 8px 0; color: #27ae60; text-align: right; font-size: 18px;"><strong>${{.TotalCost}}</strong></td>
      </tr>
    </table>
  </div>
  <p style="font-size: 16px; color: #34495e; line-height: 1.6;">Your contribution makes a real difference in fighting climate change. Together, we can create a more sustainable future!</p>
  <p style="font-size: 14px; color: #7f8c8d; margin-top: 30px;">Questions? Contact us at support@carbonoffset.com</p>
</div>
`))

// Render builds the receipt for a completed offset purchase.
func Render(from string, req payment.Request) (*Message, error) {
	view := receiptView{
		Email:          req.Email,
		MetricTons:     fmt.Sprintf("%.2f", req.MetricTons),
		PaymentLabel:   paymentLabel(req),
		IsSubscription: req.IsSubscription(),
		MonthlyCost:    fmt.Sprintf("%.2f", req.MonthlyCost()),
		TotalCost:      fmt.Sprintf("%.2f", req.TotalCost),
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}

	return &Message{
		From:    from,
		To:      req.Email,
		Subject: Subject,
		HTML:    buf.String(),
		Text:    renderText(view),
	}, nil
}

func paymentLabel(req payment.Request) string {
	if req.IsSubscription() {
		return "Monthly Subscription"
	}
	return "One-Time Payment"
}

func renderText(v receiptView) string {
	var b strings.Builder
	b.WriteString("Thank You for Offsetting Your Carbon Footprint!\n\n")
	fmt.Fprintf(&b, "CO2 Offset: %s metric tons\n", v.MetricTons)
	fmt.Fprintf(&b, "Payment Type: %s\n", v.PaymentLabel)
	if v.IsSubscription {
		fmt.Fprintf(&b, "Monthly Amount: $%s\n", v.MonthlyCost)
	}
	fmt.Fprintf(&b, "Total Annual Cost: $%s\n\n", v.TotalCost)
	b.WriteString("Questions? Contact us at support@carbonoffset.com\n")
	return b.String()
}
