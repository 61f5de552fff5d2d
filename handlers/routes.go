package handlers

import "github.com/go-chi/chi/v5"

// Mount registers the API routes on r
func (h *HTTPHandlerImpl) Mount(r chi.Router) {
	r.Get("/schemes", h.ServeSchemes)
	r.Get("/schemes/{id}", h.ServeScheme)
	r.Post("/schemes/{id}/checked", h.SetSchemeChecked)
	r.Post("/schemes/{id}/activate", h.ActivateScheme)
	r.Delete("/schemes/active", h.ClearActiveScheme)

	r.Get("/vaccines", h.ServeVaccines)
	r.Get("/vaccines/{id}", h.ServeVaccine)
	r.Get("/vaccines/search/{name}", h.SearchVaccines)
	r.Post("/vaccines/{id}/selected", h.SetVaccineSelected)
	r.Post("/vaccines/{id}/scheme", h.SetVaccineScheme)

	r.Get("/diseases", h.ServeDiseases)
	r.Post("/diseases/{id}/checked", h.SetDiseaseChecked)

	r.Get("/selection", h.ServeSelection)
	r.Post("/form", h.SubmitForm)

	r.Get("/health", h.HealthCheck)
}
