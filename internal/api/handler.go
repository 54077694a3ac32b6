package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gstassist/internal/config"
	"gstassist/internal/extract"
	"gstassist/internal/observability"
	"gstassist/internal/provider"
	"gstassist/internal/store"
)

const (
	msgUnsupportedFile = "Unsupported file format. Please upload PDF, DOC, DOCX or TXT files."
	msgMissingFile     = "Please upload a notice file first."

	// Room for multipart framing and form fields on top of the file limit.
	formOverhead = 1 << 20
)

type Resolver interface {
	ResolveQuery(ctx context.Context, question string) provider.AnswerResult
	ResolveDraft(ctx context.Context, fileContent, additionalContext string) provider.DraftResult
}

type Extractor interface {
	Extract(ctx context.Context, f extract.File) (string, error)
}

type AuditRecorder interface {
	RecordResolution(ctx context.Context, r store.Resolution) (string, error)
}

type StatsSource interface {
	Snapshot() observability.Snapshot
}

type Handler struct {
	Config    config.Config
	Resolver  Resolver
	Extractor Extractor
	Audit     AuditRecorder
	Stats     StatsSource
	Limiter   *RateLimiter
}

func NewHandler(cfg config.Config, res Resolver, ex Extractor, audit AuditRecorder, stats StatsSource) *Handler {
	return &Handler{
		Config:    cfg,
		Resolver:  res,
		Extractor: ex,
		Audit:     audit,
		Stats:     stats,
		Limiter:   NewRateLimiter(),
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/v1/query", h.guard(h.handleQuery))
	mux.Handle("/v1/draft", h.guard(h.handleDraft))
	mux.Handle("/v1/extract", h.guard(h.handleExtract))
	mux.Handle("/v1/notice", h.guard(h.handleNotice))
	mux.HandleFunc("/debug/stats", h.handleStats)
}

// guard applies CORS and per-client rate limiting to a public endpoint.
func (h *Handler) guard(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			if !h.originAllowed(origin) {
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}
			if len(h.Config.HTTP.AllowOrigins) > 0 {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if h.Limiter != nil {
			allowed, retryAfter := h.Limiter.Allow(clientKey(r), h.Config.HTTP.RateLimitRPM)
			if !allowed {
				log.Printf("api rate_limited client=%s path=%s retry_after=%d", clientKey(r), r.URL.Path, retryAfter)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
		}
		next(w, r)
	})
}

func (h *Handler) originAllowed(origin string) bool {
	if len(h.Config.HTTP.AllowOrigins) == 0 {
		return true
	}
	for _, allowed := range h.Config.HTTP.AllowOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := h.decodeJSON(w, r, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		http.Error(w, "missing question", http.StatusBadRequest)
		return
	}

	start := time.Now()
	res := h.Resolver.ResolveQuery(r.Context(), question)
	h.audit(r, "query", string(res.Source), res.Success, start, store.Hash(question), store.Hash(res.Answer))
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req provider.DraftRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	start := time.Now()
	res := h.Resolver.ResolveDraft(r.Context(), req.FileContent, req.AdditionalContext)
	h.audit(r, "draft", string(res.Source), res.Success, start, store.Hash(req.FileContent, req.AdditionalContext), store.Hash(res.Draft))
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	text, ok := h.extractUpload(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"text": text})
}

// handleNotice extracts the uploaded notice and drafts a reply to it.
func (h *Handler) handleNotice(w http.ResponseWriter, r *http.Request) {
	text, ok := h.extractUpload(w, r)
	if !ok {
		return
	}
	additional := r.FormValue("additional_context")

	start := time.Now()
	res := h.Resolver.ResolveDraft(r.Context(), text, additional)
	h.audit(r, "notice", string(res.Source), res.Success, start, store.Hash(text, additional), store.Hash(res.Draft))
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.Stats == nil {
		http.Error(w, "stats not configured", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.Stats.Snapshot())
}

func (h *Handler) extractUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	limit := h.maxFileBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, tooLargeMessage(limit), http.StatusRequestEntityTooLarge)
			return "", false
		}
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return "", false
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, msgMissingFile, http.StatusBadRequest)
		return "", false
	}
	defer f.Close()

	text, err := h.Extractor.Extract(r.Context(), extract.File{
		Name:      header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Size:      header.Size,
		Body:      f,
	})
	switch {
	case err == nil:
		return text, true
	case errors.Is(err, extract.ErrUnsupportedFileType):
		http.Error(w, msgUnsupportedFile, http.StatusUnsupportedMediaType)
	case errors.Is(err, extract.ErrFileTooLarge):
		http.Error(w, tooLargeMessage(limit), http.StatusRequestEntityTooLarge)
	default:
		log.Printf("api extract_failed file=%q err=%v", header.Filename, err)
		http.Error(w, "could not read file", http.StatusUnprocessableEntity)
	}
	return "", false
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileBytes()+formOverhead)
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) maxFileBytes() int64 {
	if h.Config.Extract.MaxBytes > 0 {
		return h.Config.Extract.MaxBytes
	}
	return extract.DefaultMaxBytes
}

func (h *Handler) audit(r *http.Request, op, source string, success bool, start time.Time, inputHash, outputHash string) {
	if h.Audit == nil {
		return
	}
	_, err := h.Audit.RecordResolution(r.Context(), store.Resolution{
		Operation:  op,
		Source:     source,
		Success:    success,
		InputHash:  inputHash,
		OutputHash: outputHash,
		Client:     clientKey(r),
		LatencyMS:  int(time.Since(start).Milliseconds()),
	})
	if err != nil {
		log.Printf("api audit_failed op=%s err=%v", op, err)
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func tooLargeMessage(limit int64) string {
	if limit >= 1<<20 {
		return fmt.Sprintf("File size must be less than %dMB.", limit>>20)
	}
	return fmt.Sprintf("File size must be less than %d bytes.", limit)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
