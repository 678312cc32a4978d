package stripe

import (
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

type Config struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// TipSessionParams describes the one-off payment a checkout session is
// created for.
type TipSessionParams struct {
	TipID       string
	AuthorName  string
	BookTitle   string
	AmountCents int64
	Currency    string
	ReaderEmail string
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	stripe.Key = cfg.SecretKey
	return &Client{cfg: cfg}
}

// CreateTipSession creates a payment-mode checkout session and returns its
// id and hosted URL. The tip id travels in the session metadata so the
// webhook can find its way back.
func (c *Client) CreateTipSession(params TipSessionParams) (string, string, error) {
	name := "Tip for " + params.AuthorName
	if params.BookTitle != "" {
		name = fmt.Sprintf("Tip for %s (%s)", params.AuthorName, params.BookTitle)
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(params.Currency),
					UnitAmount: stripe.Int64(params.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.cfg.SuccessURL),
		CancelURL:  stripe.String(c.cfg.CancelURL),
		Metadata:   map[string]string{"tip_id": params.TipID},
	}
	if params.ReaderEmail != "" {
		sessionParams.CustomerEmail = stripe.String(params.ReaderEmail)
	}

	sess, err := checkoutsession.New(sessionParams)
	if err != nil {
		return "", "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.ID, sess.URL, nil
}

// ConstructWebhookEvent verifies the signature and returns the parsed event.
func (c *Client) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, c.cfg.WebhookSecret)
}
