package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/Simplici0/planquote/internal/catalog"
	"github.com/Simplici0/planquote/internal/pricing"
	"github.com/Simplici0/planquote/internal/quotes"
)

// handleCalculate previews the monthly fee for a device/plan selection
// against the current settings without storing anything.
func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var sel catalog.Selection
	if !s.decodeJSON(w, r, &sel) {
		return
	}

	input, err := s.catalog.Resolve(r.Context(), sel)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	settings, err := s.catalog.GetSettings(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	result, err := pricing.Calculate(input, settings)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

type createQuoteRequest struct {
	Title     string            `json:"title"`
	Notes     string            `json:"notes"`
	Selection catalog.Selection `json:"selection"`
}

func (s *server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	var req createQuoteRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	input, err := s.catalog.Resolve(r.Context(), req.Selection)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	settings, err := s.catalog.GetSettings(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	q, err := s.quotes.Create(r.Context(), strings.TrimSpace(req.Title), strings.TrimSpace(req.Notes), input, settings)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.log.Info().Str("quote_id", q.ID).Int64("total", q.Result.TotalMonthlyFee).Msg("quote saved")
	s.writeJSON(w, http.StatusCreated, q)
}

func (s *server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	items, err := s.quotes.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, q)
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(quotes.RenderText(q)))
}

func (s *server) handleVerifyQuote(w http.ResponseWriter, r *http.Request) {
	v, err := s.quotes.Verify(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if !v.Matches {
		s.log.Warn().Str("quote_id", v.QuoteID).Msg("stored quote does not reproduce")
	}
	s.writeJSON(w, http.StatusOK, v)
}

type storefrontPrice struct {
	Device pricing.Device             `json:"device"`
	Result *pricing.CalculationResult `json:"result,omitempty"`
	Error  *pricing.ValidationError   `json:"error,omitempty"`
}

// handleStorefrontPlanPrices prices every device offered on a plan with the
// same engine the admin preview uses, so both show identical figures.
func (s *server) handleStorefrontPlanPrices(w http.ResponseWriter, r *http.Request) {
	terms, err := parseTerms(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if err := pricing.ValidateTerms(terms.JoinType, terms.ContractType, terms.InstallmentMonths); err != nil {
		s.writeDomainError(w, err)
		return
	}

	inputs, err := s.catalog.InputsForPlan(r.Context(), chi.URLParam(r, "id"), terms)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	settings, err := s.catalog.GetSettings(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	results, err := pricing.CalculateBatch(r.Context(), inputs, settings, s.batchConcurrency)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	// Settings are shared, so a bad rate fails every row alike.
	allFailed := lo.EveryBy(results, func(br pricing.BatchResult) bool { return br.Err != nil })
	if len(results) > 0 && allFailed {
		s.writeDomainError(w, results[0].Err)
		return
	}

	prices := lo.Map(results, func(br pricing.BatchResult, _ int) storefrontPrice {
		p := storefrontPrice{Device: br.Input.Device}
		if verr, ok := pricing.AsValidationError(br.Err); ok {
			p.Error = verr
			return p
		}
		res := br.Result
		p.Result = &res
		return p
	})
	s.writeJSON(w, http.StatusOK, prices)
}

func parseTerms(r *http.Request) (catalog.Terms, error) {
	q := r.URL.Query()
	terms := catalog.Terms{
		JoinType:     pricing.JoinType(q.Get("joinType")),
		ContractType: pricing.ContractType(q.Get("contractType")),
	}
	if terms.JoinType == "" {
		terms.JoinType = pricing.JoinDeviceChange
	}

	if raw := q.Get("months"); raw != "" {
		months, err := strconv.Atoi(raw)
		if err != nil {
			return terms, &pricing.ValidationError{Field: "installmentMonths", Message: "must be a whole number"}
		}
		terms.InstallmentMonths = months
	}
	if raw := q.Get("bundle"); raw != "" {
		bundle, err := strconv.ParseBool(raw)
		if err != nil {
			return terms, &pricing.ValidationError{Field: "bundleDiscount", Message: "must be true or false"}
		}
		terms.BundleDiscount = bundle
	}
	return terms, nil
}
