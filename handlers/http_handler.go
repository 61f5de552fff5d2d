// Package handlers provides HTTP request handlers for the immunization calendar API.
// Every handler reaches the calendar through the injected PlanStore, which
// serialises access to the single-threaded provider.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/giygas/immunization-calendar/calendar"
	"github.com/giygas/immunization-calendar/catalog"
	"github.com/giygas/immunization-calendar/catalog/entities"
	"github.com/giygas/immunization-calendar/data"
	"github.com/giygas/immunization-calendar/interfaces"
	"github.com/giygas/immunization-calendar/logging"
	"github.com/go-chi/chi/v5"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	store     interfaces.PlanStore
	validator interfaces.InputValidator
	health    interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(store interfaces.PlanStore, validator interfaces.InputValidator, health interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		store:     store,
		validator: validator,
		health:    health,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err, "payload_type", fmt.Sprintf("%T", payload))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	w.Write(body)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// respondWithStoreError maps errors coming out of the store to status codes
func (h *HTTPHandlerImpl) respondWithStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, data.ErrNotLoaded):
		h.RespondWithError(w, http.StatusServiceUnavailable, "Calendar is not loaded yet")
	case errors.Is(err, calendar.ErrUnknownScheme):
		h.RespondWithError(w, http.StatusNotFound, "Scheme not found")
	case errors.Is(err, catalog.ErrUnknownVaccine):
		h.RespondWithError(w, http.StatusNotFound, "Vaccine not found")
	case errors.Is(err, catalog.ErrUnknownDisease):
		h.RespondWithError(w, http.StatusNotFound, "Disease not found")
	case errors.Is(err, entities.ErrInvalidScheme):
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		logging.Error("Unexpected store error", "error", err)
		h.RespondWithError(w, http.StatusInternalServerError, "Internal error")
	}
}

// pathID validates the {id} URL parameter
func (h *HTTPHandlerImpl) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := h.validator.ValidateID(raw)
	if err != nil {
		logging.Warn("Unusual user input", "id", raw)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid id: "+err.Error())
		return 0, false
	}
	return id, true
}

// decodeBody reads a JSON request body into dst, rejecting unknown fields
func (h *HTTPHandlerImpl) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// ServeSchemes returns the composed base schemes in their fixed order
func (h *HTTPHandlerImpl) ServeSchemes(w http.ResponseWriter, r *http.Request) {
	schemes := []SchemeResponse{}
	err := h.store.View(func(p *calendar.Provider) error {
		for _, s := range p.Schemes() {
			schemes = append(schemes, newSchemeResponse(s))
		}
		return nil
	})
	if err != nil {
		h.respondWithStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, schemes)
}

// ServeScheme returns one base scheme with its diseases and vaccines expanded
func (h *HTTPHandlerImpl) ServeScheme(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var resp SchemeDetailResponse
	err := h.store.View(func(p *calendar.Provider) error {
		s, err := p.Scheme(entities.SchemeID(id))
		if err != nil {
			return err
		}
		resp = newSchemeDetailResponse(s)
		return nil
	})
	if err != nil {
		h.respondWithStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, resp)
}

// ServeVaccines returns the working vaccine list, or the whole catalog with ?all=true
func (h *HTTPHandlerImpl) ServeVaccines(w http.ResponseWriter, r *http.Request) {
	all := false
	if raw := r.URL.Query().Get("all"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.RespondWithError(w, http.StatusBadRequest, "Invalid value for all")
			return
		}
		all = parsed
	}

	var vaccines []VaccineResponse
	err := h.store.View(func(p *calendar.Provider) error {
		if all {
			vaccines = newVaccineResponses(p.AllVaccines())
		} else {
			vaccines = newVaccineResponses(p.Vaccines())
		}
		return nil
	})
	if err != nil {
		h.respondWithStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, vaccines)
}

// ServeVaccine returns a vaccine by id
func (h *HTTPHandlerImpl) ServeVaccine(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var resp VaccineResponse
	err := h.store.View(func(p *calendar.Provider) error {
		v, err := p.Catalog().Vaccine(entities.VaccineID(id))
		if err != nil {
			return err
		}
		resp = newVaccineResponse(v)
		return nil
	})
	if err != nil {
		h.respondWithStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, resp)
}

// SearchVaccines matches vaccine names ignoring case and accents
func (h *HTTPHandlerImpl) SearchVaccines(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.validator.ValidateInput(name); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var results []VaccineResponse
	err := h.store.View(func(p *calendar.Provider) error {
		results = newVaccineResponses(p.Catalog().SearchVaccines(name))
		return nil
	})
	if err != nil {
		h.respondWithStoreError(w, err)
		return
	}

	// Always return 200 with results array (empty if no matches)
	h.RespondWithJSON(w, http.StatusOK, results)
}

// ServeDiseases returns every catalog disease
func (h *HTTPHandlerImpl) ServeDiseases(w http.ResponseWriter, r *http.Request) {
	diseases := []DiseaseResponse{}
	err := h.store.View(func(p *calendar.Provider) error {
		for _, d := range p.Diseases() {
			diseases = append(diseases, newDiseaseResponse(d))
		}
		return nil
	})
	if err != nil {
		h.respondWithStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, diseases)
}

// ServeSelection returns the ids of everything currently selected or checked
func (h *HTTPHandlerImpl) ServeSelection(w http.ResponseWriter, r *http.Request) {
	var resp SelectionResponse
	err := h.store.View(func(p *calendar.Provider) error {
		resp = selectionOf(p)
		return nil
	})
	if err != nil {
		h.respondWithStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, resp)
}

func selectionOf(p *calendar.Provider) SelectionResponse {
	sel := p.Selector()
	resp := SelectionResponse{
		SelectedVaccines: []int{},
		CheckedSchemes:   []int{},
		CheckedDiseases:  []int{},
	}
	if active, ok := p.ActiveScheme(); ok {
		id := int(active.ID)
		resp.ActiveScheme = &id
	}
	for _, v := range sel.SelectedVaccines() {
		resp.SelectedVaccines = append(resp.SelectedVaccines, int(v.ID))
	}
	for _, s := range sel.SelectedSchemes() {
		resp.CheckedSchemes = append(resp.CheckedSchemes, int(s.ID))
	}
	for _, d := range sel.CheckedDiseases() {
		resp.CheckedDiseases = append(resp.CheckedDiseases, int(d.ID))
	}
	return resp
}

// SetVaccineSelected selects or deselects a vaccine. Every call notifies the
// vaccine's selection handlers, even when the flag does not change.
func (h *HTTPHandlerImpl) SetVaccineSelected(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req selectedRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Selected == nil {
		h.RespondWithError(w, http.StatusBadRequest, "Missing field: selected")
		return
	}

	var resp VaccineResponse
	err := h.store.Update(func(p *calendar.Provider) error {
		v, err := p.Catalog().Vaccine(entities.VaccineID(id))
		if err != nil {
			return err
		}
		v.SetSelected(*req.Selected)
		resp = newVaccineResponse(v)
		return nil
	})
	if err != nil {
		h.respondWithStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, resp)
}

// SetVaccineScheme switches a vaccine to one of its alternative schemes
func (h *HTTPHandlerImpl) SetVaccineScheme(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req schemeIndexRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Index == nil {
		h.RespondWithError(w, http.StatusBadRequest, "Missing field: index")
		return
	}

	var resp VaccineResponse
	err := h.store.Update(func(p *calendar.Provider) error {
		v, err := p.Catalog().Vaccine(entities.VaccineID(id))
		if err != nil {
			return err
		}
		if err := v.UseScheme(*req.Index); err != nil {
			return err
		}
		resp = newVaccineResponse(v)
		return nil
	})
	if err != nil {
		h.respondWithStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, resp)
}

// SetSchemeChecked sets the checked flag of one base scheme without touching the others
func (h *HTTPHandlerImpl) SetSchemeChecked(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req checkedRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Checked == nil {
		h.RespondWithError(w, http.StatusBadRequest, "Missing field: checked")
		return
	}

	var resp SchemeResponse
	err := h.store.Update(func(p *calendar.Provider) error {
		s, err := p.Scheme(entities.SchemeID(id))
		if err != nil {
			return err
		}
		s.SetChecked(*req.Checked)
		resp = newSchemeResponse(s)
		return nil
	})
	if err != nil {
		h.respondWithStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, resp)
}

// SetDiseaseChecked sets the checked flag of a disease
func (h *HTTPHandlerImpl) SetDiseaseChecked(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req checkedRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Checked == nil {
		h.RespondWithError(w, http.StatusBadRequest, "Missing field: checked")
		return
	}

	var resp DiseaseResponse
	err := h.store.Update(func(p *calendar.Provider) error {
		d, err := p.Catalog().Disease(entities.DiseaseID(id))
		if err != nil {
			return err
		}
		d.SetChecked(*req.Checked)
		resp = newDiseaseResponse(d)
		return nil
	})
	if err != nil {
		h.respondWithStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, resp)
}

// ActivateScheme makes a base scheme the working vaccine list
func (h *HTTPHandlerImpl) ActivateScheme(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var resp SelectionResponse
	err := h.store.Update(func(p *calendar.Provider) error {
		if err := p.SetBaseScheme(entities.SchemeID(id)); err != nil {
			return err
		}
		resp = selectionOf(p)
		return nil
	})
	if err != nil {
		h.respondWithStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, resp)
}

// ClearActiveScheme restores the whole catalog as the working vaccine list
func (h *HTTPHandlerImpl) ClearActiveScheme(w http.ResponseWriter, r *http.Request) {
	var resp SelectionResponse
	err := h.store.Update(func(p *calendar.Provider) error {
		p.ClearBaseScheme()
		resp = selectionOf(p)
		return nil
	})
	if err != nil {
		h.respondWithStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, resp)
}

// SubmitForm hands the submitted fields to every vaccine's form handlers
func (h *HTTPHandlerImpl) SubmitForm(w http.ResponseWriter, r *http.Request) {
	var req formRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	form := entities.Form(req.Fields)
	if form == nil {
		form = entities.Form{}
	}
	if err := h.validator.ValidateForm(form); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.store.SubmitForm(form)
	if err != nil {
		h.respondWithStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusCreated, newSubmissionResponse(sub))
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, code := h.health.HealthCheck()
	details["checked_at"] = time.Now().UTC().Format(time.RFC3339)

	h.RespondWithJSON(w, code, HealthResponse{Status: status, Data: details})
}
