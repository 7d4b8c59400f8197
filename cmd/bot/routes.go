package main

import (
	"net/http"

	"github.com/gorilla/mux"
)

func newRouter(app *App) *mux.Router {
	r := mux.NewRouter()
	r.Use(recoverMiddleware(app))

	r.HandleFunc("/health", app.healthHandler).Methods("GET")
	r.HandleFunc("/wxcallback", app.callbackHandler).Methods("POST")

	// Rendered chart PNGs are served straight from the output directory.
	r.PathPrefix("/charts/").Handler(
		http.StripPrefix("/charts/", http.FileServer(http.Dir(app.envVars.chartDir))))

	return r
}

// recoverMiddleware keeps an unexpected panic in a handler from killing the
// process: it is logged and answered with a 500.
func recoverMiddleware(app *App) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					app.logger.WithField("panic", rec).Error("Recovered from panic in HTTP handler")
					writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
