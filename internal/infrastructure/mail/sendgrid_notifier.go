package mail

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/yuzvak/storefront-service/internal/application/ports"
	"github.com/yuzvak/storefront-service/internal/config"
	"github.com/yuzvak/storefront-service/internal/domain/order"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

var (
	_ ports.Notifier = (*SendGridNotifier)(nil)
	_ ports.Notifier = (*LogNotifier)(nil)
)

// SendGridNotifier emails the billing address a confirmation for each
// placed order.
type SendGridNotifier struct {
	client   *sendgrid.Client
	from     string
	fromName string
	log      *logger.Logger
}

func NewSendGridNotifier(cfg config.MailConfig, log *logger.Logger) (*SendGridNotifier, error) {
	if strings.TrimSpace(cfg.SendGridAPIKey) == "" {
		return nil, errors.New("sendgrid api key is empty")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("from address is empty")
	}

	return &SendGridNotifier{
		client:   sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:     cfg.From,
		fromName: cfg.FromName,
		log:      log,
	}, nil
}

func (n *SendGridNotifier) OrderPlaced(ctx context.Context, o *order.Order) error {
	to := strings.TrimSpace(o.Billing.Email)
	if to == "" {
		return errors.New("order has no billing email")
	}

	subject, body := confirmation(o)
	message := mail.NewSingleEmail(
		mail.NewEmail(n.fromName, n.from),
		subject,
		mail.NewEmail(billingName(o.Billing), to),
		body,
		"<pre>"+html.EscapeString(body)+"</pre>",
	)

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", resp.StatusCode, resp.Body)
	}

	n.log.Info("Order confirmation sent",
		"order_id", o.ID,
		"status", resp.StatusCode,
	)
	return nil
}

// LogNotifier records confirmations in the log when no mail provider is
// configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) OrderPlaced(_ context.Context, o *order.Order) error {
	subject, _ := confirmation(o)
	n.log.Info("Order confirmation",
		"order_id", o.ID,
		"user_id", o.UserID,
		"subject", subject,
		"total", o.Total.String(),
	)
	return nil
}

func confirmation(o *order.Order) (subject, body string) {
	subject = fmt.Sprintf("Your order %s has been placed", o.ID)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order %s.\n\n", o.Billing.FirstName, o.ID)
	for _, item := range o.Items {
		fmt.Fprintf(&b, "%d x %s  %s\n", item.Quantity, item.Title, item.LineTotal())
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", o.Subtotal)
	fmt.Fprintf(&b, "Tax: %s\n", o.Tax)
	fmt.Fprintf(&b, "Shipping: %s\n", o.ShippingFee)
	fmt.Fprintf(&b, "Total: %s\n", o.Total)
	fmt.Fprintf(&b, "\nPayment: %s\n", o.PaymentMethod)
	return subject, b.String()
}

func billingName(b order.Billing) string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}
