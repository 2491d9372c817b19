package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/thanhngvn/foodcourt-backend/api/responses"
	"github.com/thanhngvn/foodcourt-backend/api/validators"
	checkoutsvc "github.com/thanhngvn/foodcourt-backend/internal/checkout"
	"github.com/thanhngvn/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
	"github.com/thanhngvn/foodcourt-backend/pkg/logger"
)

type checkoutRequest struct {
	AddressID     string  `json:"address_id" validate:"required,uuid"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
	CouponCode    string  `json:"coupon_code,omitempty" validate:"omitempty,max=64"`
	Note          *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// CheckoutPreview prices the checked cart lines without creating an order.
func CheckoutPreview(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		couponCode := strings.TrimSpace(r.URL.Query().Get("coupon_code"))
		preview, err := svc.Preview(r.Context(), userID, couponCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, preview)
	}
}

// CheckoutSubmit turns the checked cart lines into an order.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := uuid.Parse(payload.AddressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address id"))
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		result, err := svc.Submit(r.Context(), userID, checkoutsvc.SubmitInput{
			AddressID:     addressID,
			PaymentMethod: method,
			CouponCode:    payload.CouponCode,
			Note:          payload.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
