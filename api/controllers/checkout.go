package controllers

import (
	"net/http"

	"github.com/DisguisedKairos/supermarket-backend/api/responses"
	invoicesvc "github.com/DisguisedKairos/supermarket-backend/internal/invoices"
	pkgerrors "github.com/DisguisedKairos/supermarket-backend/pkg/errors"
	"github.com/DisguisedKairos/supermarket-backend/pkg/logger"
)

// Checkout converts the caller's cart into an invoice.
func Checkout(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Checkout(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}
