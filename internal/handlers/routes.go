package handlers

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(r *mux.Router, h *APIHandler) {
	r.HandleFunc("/healthz", h.HandleHealth).Methods("GET")
	r.HandleFunc("/api/customers", h.HandleListCustomers).Methods("GET")
	r.HandleFunc("/api/customers/{id}/calls", h.HandleListCalls).Methods("GET")
	r.HandleFunc("/api/workspaces/{id}/stats", h.HandleWorkspaceStats).Methods("GET")
	r.HandleFunc("/api/profiles/{request_id}", h.HandleGetProfile).Methods("GET")
	r.HandleFunc("/admin/diagnostics/purge", h.HandlePurgeDiagnostics).Methods("POST")
}
