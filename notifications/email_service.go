package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	config "github.com/dwisetyo88/bimbel_online/configs"
)

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
}

var EmailClient *BrevoService

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func InitEmailService() {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")

	if apiKey == "" || senderEmail == "" || senderName == "" {
		log.Println("⚠️ Email service not configured. Missing API Key, Sender Email, or Sender Name.")
		EmailClient = nil
		return
	}

	EmailClient = &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
	}
	log.Println("✅ Email service initialized successfully.")
}

func SendEmail(toName, toEmail, subject, htmlContent string) {
	if EmailClient == nil {
		log.Printf("Email service disabled, skipping email to %s (%s)", toName, toEmail)
		return
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": EmailClient.SenderName, "email": EmailClient.SenderEmail},
		To:          []map[string]string{{"name": toName, "email": toEmail}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("🔥 Failed to marshal email payload: %v", err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, "https://api.brevo.com/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		log.Printf("🔥 Failed to build email request: %v", err)
		return
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", EmailClient.APIKey)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("🔥 Email API returned %d for %s: %s", resp.StatusCode, toEmail, string(respBody))
		return
	}
}

// FormatRupiah renders an amount with Indonesian thousand separators,
// e.g. 1500000 becomes "Rp 1.500.000".
func FormatRupiah(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	if amount < 0 {
		s = s[1:]
	}

	var out []byte
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	if amount < 0 {
		return "Rp -" + string(out)
	}
	return "Rp " + string(out)
}
