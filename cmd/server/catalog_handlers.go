package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/planquote/internal/pricing"
)

func (s *server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.catalog.GetSettings(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings pricing.GlobalSettings
	if !s.decodeJSON(w, r, &settings) {
		return
	}
	if err := s.catalog.UpdateSettings(r.Context(), settings); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.catalog.ListDevices(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, devices)
}

func (s *server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	device, err := s.catalog.GetDevice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, device)
}

func (s *server) handleUpsertDevice(w http.ResponseWriter, r *http.Request) {
	var device pricing.Device
	if !s.decodeJSON(w, r, &device) {
		return
	}
	if err := s.catalog.UpsertDevice(r.Context(), device); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, device)
}

func (s *server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.catalog.ListPlans(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, plans)
}

func (s *server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.catalog.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

func (s *server) handleUpsertPlan(w http.ResponseWriter, r *http.Request) {
	var plan pricing.Plan
	if !s.decodeJSON(w, r, &plan) {
		return
	}
	if err := s.catalog.UpsertPlan(r.Context(), plan); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

func (s *server) handleListPlanSubsidies(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "id")
	if _, err := s.catalog.GetPlan(r.Context(), planID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	subsidies, err := s.catalog.ListSubsidiesForPlan(r.Context(), planID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, subsidies)
}

func (s *server) handleUpsertSubsidy(w http.ResponseWriter, r *http.Request) {
	var subsidy pricing.Subsidy
	if !s.decodeJSON(w, r, &subsidy) {
		return
	}
	if err := s.catalog.UpsertSubsidy(r.Context(), subsidy); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, subsidy)
}
