package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const brevoURL = "https://api.brevo.com/v3/smtp/email"

type BrevoSender struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	client      *http.Client
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func NewBrevoSender(apiKey, senderEmail, senderName string) *BrevoSender {
	return &BrevoSender{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *BrevoSender) Send(ctx context.Context, msg Message) error {
	if err := checkRecipient(msg.ToEmail); err != nil {
		return err
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": msg.ToEmail, "name": recipientName(msg)}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo: status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func checkRecipient(email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid recipient email: %s", email)
	}
	return nil
}

func recipientName(msg Message) string {
	if msg.ToName != "" {
		return msg.ToName
	}
	return msg.ToEmail[:strings.Index(msg.ToEmail, "@")]
}
