package controllers

import (
	"log"

	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// WebhookController consumes trust-verified external notifications: payment
// settlements and identity provider account sync events.
type WebhookController struct {
	Purchases *services.PurchaseService
	Users     *services.UserService
}

// PaymentWebhook finalizes a purchase from a settlement notification. The
// reference field carries the correlation token issued at checkout.
// Deliveries are at-least-once; duplicate deliveries settle as no-ops.
func (ctrl *WebhookController) PaymentWebhook(c *fiber.Ctx) error {
	reqData := new(struct {
		Type string `json:"type"`
		Data struct {
			Reference string `json:"reference"`
		} `json:"data"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var outcome string
	switch reqData.Type {
	case "checkout.session.completed":
		outcome = services.OutcomeSuccess
	case "checkout.session.expired", "payment_intent.payment_failed":
		outcome = services.OutcomeFailure
	default:
		// Unhandled event types are acknowledged so the provider stops
		// retrying them.
		log.Printf("[WEBHOOK] Unhandled payment event type: %s", reqData.Type)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Event ignored.", nil)
	}

	if reqData.Data.Reference == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing purchase reference!", nil)
	}

	if err := ctrl.Purchases.Settle(reqData.Data.Reference, outcome); err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settlement processed.", nil)
}

// IdentityWebhook applies identity provider account events: create, update
// and delete by external id.
func (ctrl *WebhookController) IdentityWebhook(c *fiber.Ctx) error {
	reqData := new(struct {
		Type string `json:"type"`
		Data struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Email    string `json:"email"`
			ImageURL string `json:"image_url"`
		} `json:"data"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var err error
	switch reqData.Type {
	case "user.created", "user.updated":
		err = ctrl.Users.UpsertFromIdentity(reqData.Data.ID, reqData.Data.Name, reqData.Data.Email, reqData.Data.ImageURL)
	case "user.deleted":
		err = ctrl.Users.DeleteByID(reqData.Data.ID)
	default:
		log.Printf("[WEBHOOK] Unhandled identity event type: %s", reqData.Type)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Event ignored.", nil)
	}

	if err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account synced.", nil)
}
