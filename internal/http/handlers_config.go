package http

import (
	"log/slog"
	"net/http"

	"rota/internal/core"
	"rota/internal/storage"
)

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.entries.GetConfig(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Get config failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg core.Config
	if !decodeBody(w, r, &cfg) {
		return
	}

	if err := s.entries.UpdateConfig(r.Context(), cfg); err != nil {
		slog.ErrorContext(r.Context(), "Update config failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	updated, err := s.entries.GetConfig(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.entries.Export(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="rota-export.json"`)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var snap storage.Snapshot
	if !decodeBody(w, r, &snap) {
		return
	}

	if err := s.entries.Import(r.Context(), snap); err != nil {
		slog.ErrorContext(r.Context(), "Import failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	slog.InfoContext(r.Context(), "Snapshot imported", "entries", len(snap.Entries))
	writeJSON(w, http.StatusOK, map[string]int{"imported": len(snap.Entries)})
}
