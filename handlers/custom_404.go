package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// Custom404Handler renders the not found page inside the base layout.
func (s *Site) Custom404Handler(w http.ResponseWriter, r *http.Request) {
	ctx := s.newContext(r)

	notFoundContent, err := s.renderPlushTemplate(s.Manifest.NotFoundPageSource, ctx)
	if err != nil {
		s.log.Error("Unable to render not found page", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	page, err := s.renderLayout(notFoundContent, ctx)
	if err != nil {
		s.log.Error("Unable to render not found page", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write(page)
}
