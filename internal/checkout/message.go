package checkout

import (
	"net/url"
	"strconv"
	"strings"

	"chocostore/internal/domain"
)

// FormatPrice renders an FCFA amount with space-grouped thousands,
// e.g. 25000 -> "25 000 FCFA".
func FormatPrice(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(' ')
		b.WriteString(digits[i : i+3])
	}
	b.WriteString(" FCFA")
	return b.String()
}

// Message builds the order text sent to the shop over WhatsApp.
func Message(shop string, snap domain.CartSnapshot, c CustomerInfo) string {
	var b strings.Builder
	b.WriteString("Bonjour " + shop + ", je souhaite commander :\n\n")
	for _, l := range snap.Lines {
		b.WriteString("• " + l.Name + " x" + strconv.Itoa(l.Quantity) + " = " + FormatPrice(l.LineTotal) + "\n")
	}
	b.WriteString("\n*Total : " + FormatPrice(snap.TotalPrice) + "*\n\n")
	b.WriteString("📋 *Mes informations :*\n")
	b.WriteString("👤 Nom : " + c.Name + "\n")
	b.WriteString("📱 Téléphone : " + c.Phone + "\n")
	b.WriteString("📍 Adresse : " + c.Address + "\n")
	if strings.TrimSpace(c.Notes) != "" {
		b.WriteString("💬 Notes : " + c.Notes + "\n")
	}
	return b.String()
}

// WhatsAppLink is the click-to-chat URL opening a conversation with number
// prefilled with message.
func WhatsAppLink(number, message string) string {
	number = strings.TrimPrefix(strings.Join(strings.Fields(number), ""), "+")
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + number + "?text=" + text
}
