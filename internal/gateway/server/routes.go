package server

import (
	"net/http"

	"threatvisor/internal/gateway/handler"
	"threatvisor/internal/gateway/middleware"
)

func NewMux(api *handler.API) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/analyze", api.HandleAnalyze)
	mux.HandleFunc("/api/export", api.HandleExport)
	mux.HandleFunc("/api/templates", api.HandleTemplates)
	mux.HandleFunc("/api/templates/", api.HandleTemplateByID)
	mux.HandleFunc("/api/models", api.HandleModels)
	mux.HandleFunc("/api/models/", api.HandleModelByID)
	mux.HandleFunc("/ws/editor", api.HandleEditorWS)

	return middleware.CORS(mux)
}
