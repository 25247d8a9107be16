package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"acquisition_desk/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100) //nolint:gochecknoglobals

// FormatReview renders an alert as Telegram HTML.
func FormatReview(alert entity.ReviewAlert) string {
	var b strings.Builder

	b.WriteString("🚩 <b>Review needed</b>\n\n")
	fmt.Fprintf(&b, "🔖 <b>Stock:</b> %s\n", html.EscapeString(alert.StockNumber.String()))

	if alert.Description != "" {
		fmt.Fprintf(&b, "🚗 <b>Vehicle:</b> %s\n", html.EscapeString(alert.Description))
	}

	fmt.Fprintf(&b, "🔑 <b>VIN:</b> %s\n", html.EscapeString(alert.VIN))

	if alert.BuyerName != "" {
		fmt.Fprintf(&b, "👤 <b>Buyer:</b> %s\n", html.EscapeString(alert.BuyerName))
	}

	fmt.Fprintf(&b, "💵 <b>Purchase:</b> $%s\n", alert.PurchasePrice.StringFixed(2))
	fmt.Fprintf(&b, "📈 <b>Projected gross:</b> $%s\n", alert.ProjectedGross.StringFixed(2))
	fmt.Fprintf(&b, "🔧 <b>Recon:</b> %s%%\n", alert.ReconPercentage.Mul(hundred).StringFixed(1))

	if alert.RedFlag.Raised() {
		fmt.Fprintf(&b, "\n⚠️ <b>%s</b>", html.EscapeString(alert.RedFlag.String()))
	}

	if alert.HQAppraisalSuggested {
		b.WriteString("\n🏢 <b>HQ appraisal suggested</b>")
	}

	return b.String()
}
