package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/madhavprabhu/hostelhub/internal/middleware"
	"github.com/madhavprabhu/hostelhub/internal/model"
	"github.com/madhavprabhu/hostelhub/internal/repository"
)

// PaymentHandler records hostel fee payments. No gateway is involved;
// residents record offline cash/UPI payments and admins adjust them.
type PaymentHandler struct {
	Payments *repository.PaymentRepo
	Log      *zap.SugaredLogger
}

func NewPaymentHandler(payments *repository.PaymentRepo, log *zap.SugaredLogger) *PaymentHandler {
	return &PaymentHandler{Payments: payments, Log: log}
}

// Amounts travel as integer paise on the wire so no float ever touches
// money.
type paymentReq struct {
	AmountCents uint64 `json:"amountCents"`
	Method      string `json:"method"`
}

type paymentUpdateReq struct {
	AmountCents uint64 `json:"amountCents"`
	Method      string `json:"method"`
	Status      string `json:"status"`
}

type paymentJSON struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"userId"`
	AmountCents uint64    `json:"amountCents"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func paymentView(p model.Payment) paymentJSON {
	return paymentJSON{ID: p.ID, UserID: p.UserID, AmountCents: p.AmountCents,
		Method: p.Method, Status: p.Status, CreatedAt: p.CreatedAt}
}

func paymentViewList(list []model.Payment) []paymentJSON {
	out := make([]paymentJSON, 0, len(list))
	for _, p := range list {
		out = append(out, paymentView(p))
	}
	return out
}

// Create records a pending payment for the calling resident.
func (h *PaymentHandler) Create(c echo.Context) error {
	userID := middleware.PrincipalID(c)
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if req.AmountCents == 0 {
		return respondErr(c, http.StatusBadRequest, "Amount must be greater than zero")
	}
	if !model.ValidPaymentMethod(req.Method) {
		return respondErr(c, http.StatusBadRequest, "Invalid payment method")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Payments.Create(ctx, userID, req.AmountCents, req.Method)
	if err != nil {
		h.Log.Errorw("payment create failed", "user_id", userID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to record payment")
	}
	p, err := h.Payments.GetByID(ctx, id)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "Failed to record payment")
	}
	return respondOK(c, http.StatusCreated, "Payment recorded successfully", paymentView(p))
}

// History returns the calling resident's payments, newest first.
func (h *PaymentHandler) History(c echo.Context) error {
	userID := middleware.PrincipalID(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Payments.ListByUser(ctx, userID)
	if err != nil {
		h.Log.Errorw("payment history failed", "user_id", userID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load payments")
	}
	return respondOK(c, http.StatusOK, "", paymentViewList(list))
}

// UserHistory is the admin view of one resident's payments.
func (h *PaymentHandler) UserHistory(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid user id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Payments.ListByUser(ctx, userID)
	if err != nil {
		h.Log.Errorw("payment history failed", "user_id", userID, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to load payments")
	}
	return respondOK(c, http.StatusOK, "", paymentViewList(list))
}

// Update lets an admin overwrite a payment's amount, method and status.
// The previous values are gone after this; there is no audit trail.
func (h *PaymentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "paymentId")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid payment id")
	}
	var req paymentUpdateReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if req.AmountCents == 0 {
		return respondErr(c, http.StatusBadRequest, "Amount must be greater than zero")
	}
	if !model.ValidPaymentMethod(req.Method) {
		return respondErr(c, http.StatusBadRequest, "Invalid payment method")
	}
	if !model.ValidPaymentStatus(req.Status) {
		return respondErr(c, http.StatusBadRequest, "Invalid payment status")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Payments.Overwrite(ctx, id, req.AmountCents, req.Method, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusNotFound, "Payment not found")
		}
		h.Log.Errorw("payment update failed", "payment_id", id, "error", err)
		return respondErr(c, http.StatusInternalServerError, "Failed to update payment")
	}
	return respondOK(c, http.StatusOK, "Payment updated successfully", paymentView(p))
}
