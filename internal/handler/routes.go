package handler

import (
	"net/http"

	"github.com/Dan9191/finpyme/internal/config"
	"github.com/Dan9191/finpyme/internal/middleware"
	"github.com/gorilla/mux"
)

// NewRouter wires every route. Everything under /api except auth requires a
// bearer token; routes with {userId} also require it to match the token.
func NewRouter(h *Handler, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(h.log))

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	// Protected routes
	authRouter := api.NewRoute().Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/transaction-categories", h.ListCategories).Methods(http.MethodGet)
	authRouter.HandleFunc("/transaction-categories", h.CreateCategory).Methods(http.MethodPost)
	authRouter.HandleFunc("/rates", h.Rates).Methods(http.MethodGet)
	authRouter.HandleFunc("/rates/refresh", h.RefreshRates).Methods(http.MethodPost)
	authRouter.HandleFunc("/inflation/latest", h.LatestInflation).Methods(http.MethodGet)
	authRouter.HandleFunc("/scenarios", h.Scenarios).Methods(http.MethodGet)

	owned := authRouter.NewRoute().Subrouter()
	owned.Use(middleware.RequireOwner)
	owned.HandleFunc("/transactions/{userId}", h.ListTransactions).Methods(http.MethodGet)
	owned.HandleFunc("/transactions/{userId}", h.CreateTransaction).Methods(http.MethodPost)
	owned.HandleFunc("/dashboard/{userId}", h.Dashboard).Methods(http.MethodGet)
	owned.HandleFunc("/cash-flow-projections/{userId}", h.ListProjections).Methods(http.MethodGet)
	owned.HandleFunc("/cash-flow-projections/{userId}", h.CreateProjection).Methods(http.MethodPost)
	owned.HandleFunc("/ai-insights/{userId}", h.ListInsights).Methods(http.MethodGet)
	owned.HandleFunc("/ai-insights/{userId}", h.GenerateInsights).Methods(http.MethodPost)
	owned.HandleFunc("/notifications/{userId}", h.ListNotifications).Methods(http.MethodGet)
	owned.HandleFunc("/notifications/{userId}", h.CreateNotification).Methods(http.MethodPost)
	owned.HandleFunc("/notifications/{userId}/{id}", h.MarkNotificationRead).Methods(http.MethodPatch)
	owned.HandleFunc("/notifications/{userId}/{id}", h.DeleteNotification).Methods(http.MethodDelete)
	owned.HandleFunc("/preferences/{userId}", h.GetPreferences).Methods(http.MethodGet)
	owned.HandleFunc("/preferences/{userId}", h.UpdatePreferences).Methods(http.MethodPut)

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	return r
}
