// Package email sends operational notifications through Resend.
package email

import (
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// Notifier emails reviewers about parse outcomes. With no API key
// configured it degrades to logging only, so local development does not
// need Resend credentials.
type Notifier struct {
	client    *resend.Client
	logger    *slog.Logger
	fromEmail string
	toEmails  []string
}

// NewNotifier creates a notifier. apiKey may be empty.
func NewNotifier(apiKey, fromEmail string, toEmails []string, logger *slog.Logger) *Notifier {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	if fromEmail == "" {
		fromEmail = "Bid Ledger <noreply@bid-ledger.local>"
	}

	return &Notifier{
		client:    client,
		logger:    logger,
		fromEmail: fromEmail,
		toEmails:  toEmails,
	}
}

// NotifyParseFailure reports a fatal parse failure for a document.
func (n *Notifier) NotifyParseFailure(documentID, filename, reason string) {
	if n.client == nil || len(n.toEmails) == 0 {
		n.logger.Warn("resend client not configured, skipping failure email",
			slog.String("document_id", documentID),
		)
		return
	}

	_, err := n.client.Emails.Send(&resend.SendEmailRequest{
		From:    n.fromEmail,
		To:      n.toEmails,
		Subject: fmt.Sprintf("Bid document parse failed: %s", filename),
		Text: fmt.Sprintf(
			"Document %s (%s) was rejected by the extraction engine.\n\nReason: %s\n",
			documentID, filename, reason,
		),
	})
	if err != nil {
		n.logger.Error("failed to send parse failure email",
			slog.String("document_id", documentID),
			slog.Any("error", err),
		)
	}
}
