package donations

import (
	"fmt"
	"net/http"

	"deckshare-app/config"
	"deckshare-app/database"
	"deckshare-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

const minDonationCents = 100

// ------------------------------
// POST /donations/checkout
// ------------------------------
// Opens a one-time Stripe checkout for the given amount. The donation is
// only recorded once the webhook confirms the payment.
func CreateCheckoutSession(c *gin.Context) {
	var body struct {
		AmountCents int64 `json:"amount_cents" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.AmountCents < minDonationCents {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Donation must be at least 1 EUR"})
		return
	}

	stripe.Key = config.STRIPE_SECRET_KEY
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(config.BASE_URL + "/donators?thanks=1"),
		CancelURL:  stripe.String(config.BASE_URL + "/donators?canceled=1"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyEUR)),
					UnitAmount: stripe.Int64(body.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Donation"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},

		ClientReferenceID: stripe.String(fmt.Sprint(user.ID)),
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}

// ------------------------------
// GET /donators
// ------------------------------
func Donators(c *gin.Context) {
	var donators []users.User
	err := database.DB.
		Where("donation > 0").
		Order("donation DESC, username ASC").
		Find(&donators).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load donators"})
		return
	}

	out := make([]gin.H, 0, len(donators))
	for _, u := range donators {
		out = append(out, gin.H{"username": u.Username, "reputation": u.Reputation})
	}
	c.JSON(http.StatusOK, gin.H{"donators": out})
}
