package dto

// CheckoutResponseDTO carries the hosted Stripe Checkout redirect URL.
type CheckoutResponseDTO struct {
	CheckoutURL string `json:"checkoutUrl"`
}
