package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"kpolitics-backend/services/pledges"
	"kpolitics-backend/services/roster"
)

func writeJson(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", "err", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJson(w, status, errorResponse{Error: message})
}

type rosterResponse struct {
	Governors   any       `json:"governors"`
	LastUpdated time.Time `json:"lastUpdated"`
	Count       int       `json:"count"`
}

func writeRoster(w http.ResponseWriter, snapshot roster.Snapshot, err error) {
	if errors.Is(err, roster.ErrNotReady) {
		writeError(w, http.StatusServiceUnavailable, "데이터가 아직 준비되지 않았습니다. 잠시 후 다시 시도해주세요.")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "데이터 조회 실패")
		return
	}
	writeJson(w, http.StatusOK, rosterResponse{
		Governors:   snapshot.Officials,
		LastUpdated: snapshot.FetchedAt,
		Count:       len(snapshot.Officials),
	})
}

func RegisterHandlers(mux *http.ServeMux, rosterService *roster.Service, pledgeService pledges.Service) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /api/governors/metropolitan", func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := rosterService.Metropolitan(r.Context(), r.URL.Query().Get("region"))
		writeRoster(w, snapshot, err)
	})

	mux.HandleFunc("GET /api/governors/basic", func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := rosterService.BasicLevel(r.Context(), r.URL.Query().Get("metro"))
		writeRoster(w, snapshot, err)
	})

	mux.HandleFunc("POST /api/governors/refresh", func(w http.ResponseWriter, r *http.Request) {
		if err := rosterService.RefreshAll(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "manual refresh", "err", err)
			writeError(w, http.StatusInternalServerError, "일부 데이터 갱신 실패")
			return
		}
		writeJson(w, http.StatusOK, map[string]any{"success": true})
	})

	mux.HandleFunc("GET /api/governors/previous/{region}", func(w http.ResponseWriter, r *http.Request) {
		region := r.PathValue("region")
		typ := roster.Metropolitan
		if r.URL.Query().Get("isBasic") == "true" {
			typ = roster.Basic
		}

		results, err := rosterService.FindPredecessors(r.Context(), region, typ)
		if errors.Is(err, roster.ErrNotReady) {
			writeError(w, http.StatusServiceUnavailable, "데이터가 아직 준비되지 않았습니다. 잠시 후 다시 시도해주세요.")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "역대 단체장 조회 실패")
			return
		}
		if len(results) == 0 {
			writeError(w, http.StatusNotFound, "역대 단체장을 찾을 수 없습니다")
			return
		}
		writeJson(w, http.StatusOK, map[string]any{
			"region":    region,
			"isBasic":   typ == roster.Basic,
			"governors": results,
			"count":     len(results),
		})
	})

	mux.HandleFunc("GET /api/governors/pledges/{name}", func(w http.ResponseWriter, r *http.Request) {
		data, err := pledgeService.Resolve(r.Context(), r.PathValue("name"))
		if errors.Is(err, pledges.ErrNoCandidate) {
			writeError(w, http.StatusNotFound, "후보자를 찾을 수 없습니다")
			return
		}
		if errors.Is(err, pledges.ErrNoPledges) {
			writeError(w, http.StatusNotFound, "공약 데이터를 찾을 수 없습니다")
			return
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "resolve pledges", "err", err)
			writeError(w, http.StatusInternalServerError, "공약 조회 실패")
			return
		}
		writeJson(w, http.StatusOK, data)
	})

	mux.HandleFunc("GET /api/governors/pledges-debug/{name}", func(w http.ResponseWriter, r *http.Request) {
		entry, err := pledgeService.CachedEntry(r.Context(), r.PathValue("name"))
		if errors.Is(err, pledges.ErrNotCached) {
			writeError(w, http.StatusNotFound, "캐시된 데이터 없음")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJson(w, http.StatusOK, entry)
	})

	mux.HandleFunc("DELETE /api/governors/pledges-debug/{name}", func(w http.ResponseWriter, r *http.Request) {
		deleted, err := pledgeService.DeleteEntry(r.Context(), r.PathValue("name"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJson(w, http.StatusOK, map[string]int64{"deleted": deleted})
	})
}
