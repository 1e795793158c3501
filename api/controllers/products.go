package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/DisguisedKairos/supermarket-backend/api/responses"
	"github.com/DisguisedKairos/supermarket-backend/api/validators"
	productsvc "github.com/DisguisedKairos/supermarket-backend/internal/products"
	pkgerrors "github.com/DisguisedKairos/supermarket-backend/pkg/errors"
	"github.com/DisguisedKairos/supermarket-backend/pkg/logger"
)

// ProductList serves the filterable, sortable catalog.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		params, err := parseListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListProducts(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// ProductDetail serves a single catalog entry.
func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductCategories returns the distinct category list.
func ProductCategories(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string][]string{"categories": categories})
	}
}

func parseListParams(r *http.Request) (productsvc.ListParams, error) {
	query := r.URL.Query()

	page, err := validators.ParsePageParams(r)
	if err != nil {
		return productsvc.ListParams{}, err
	}

	filters := productsvc.ListFilters{
		Query:    strings.TrimSpace(query.Get("q")),
		Category: strings.TrimSpace(query.Get("category")),
	}

	if raw := strings.TrimSpace(query.Get("in_stock")); raw != "" {
		switch strings.ToLower(raw) {
		case "true", "1":
			v := true
			filters.InStock = &v
		case "false", "0":
			v := false
			filters.InStock = &v
		default:
			return productsvc.ListParams{}, pkgerrors.New(pkgerrors.CodeValidation, "in_stock must be a boolean").
				WithDetails(map[string]any{"field": "in_stock"})
		}
	}

	if raw := strings.TrimSpace(query.Get("price_min")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return productsvc.ListParams{}, pkgerrors.New(pkgerrors.CodeValidation, "price_min must be a number").
				WithDetails(map[string]any{"field": "price_min"})
		}
		filters.PriceMin = &value
	}
	if raw := strings.TrimSpace(query.Get("price_max")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return productsvc.ListParams{}, pkgerrors.New(pkgerrors.CodeValidation, "price_max must be a number").
				WithDetails(map[string]any{"field": "price_max"})
		}
		filters.PriceMax = &value
	}

	return productsvc.ListParams{
		Filters: filters,
		SortBy:  strings.TrimSpace(query.Get("sort_by")),
		SortDir: strings.TrimSpace(query.Get("sort_dir")),
		Page:    page,
	}, nil
}
