package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"svw.info/indices/internal/command"
	"svw.info/indices/internal/domain"
	"svw.info/indices/internal/usecase"
	"svw.info/indices/internal/validator"
)

type Handler struct {
	UC *usecase.Service
}

func New(uc *usecase.Service) *Handler { return &Handler{UC: uc} }

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/start", h.handleStart)
	mux.HandleFunc("/api/guess", h.handleGuess)
	mux.HandleFunc("/api/resume", h.handleResume)
	mux.HandleFunc("/api/state", h.handleState)
	mux.HandleFunc("/api/command", h.handleCommand)
	mux.HandleFunc("/api/hint", h.handleHint)
	mux.HandleFunc("/api/solve", h.handleSolve)
	mux.HandleFunc("/api/end", h.handleEnd)
	mux.HandleFunc("/api/list", h.handleList)
	mux.HandleFunc("/api/variants", h.handleVariants)
}

// statusFor maps usecase errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownVariant),
		errors.Is(err, domain.ErrInvalidConfig),
		errors.Is(err, command.ErrUnknownCommand),
		errors.Is(err, command.ErrMalformed),
		errors.Is(err, command.ErrUnknownLabel),
		errors.Is(err, validator.ErrFractionNotAllowed):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads an optional JSON body; an empty body leaves dst untouched.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != method {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

type idReq struct {
	ID string `json:"id"`
}

type snapshotResp struct {
	Snapshot *domain.Snapshot `json:"snapshot,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// ---- Start ----

type startReq struct {
	Variant string         `json:"variant,omitempty"`
	Seed    int64          `json:"seed,omitempty"`
	Config  *domain.Config `json:"config,omitempty"`
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req startReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, snapshotResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	snap, err := h.UC.Start(r.Context(), usecase.StartRequest{Variant: req.Variant, Seed: req.Seed, Config: req.Config})
	if err != nil {
		writeJSON(w, statusFor(err), snapshotResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snapshotResp{Snapshot: &snap})
}

// ---- Guess ----

type guessReq struct {
	ID          string `json:"id"`
	Numerator   int    `json:"numerator"`
	Denominator *int   `json:"denominator,omitempty"`
	Index       *int   `json:"index,omitempty"`
}

type guessResp struct {
	Result *domain.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func (h *Handler) handleGuess(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, guessResp{Error: "invalid JSON or missing id"})
		return
	}
	var g domain.Guess
	switch {
	case req.Index != nil:
		g = domain.GuessButton(*req.Index)
	case req.Denominator != nil:
		g = domain.GuessFraction(req.Numerator, *req.Denominator)
	default:
		g = domain.GuessInt(req.Numerator)
	}
	res, err := h.UC.Guess(r.Context(), req.ID, g)
	if err != nil {
		writeJSON(w, statusFor(err), guessResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, guessResp{Result: &res})
}

// ---- Resume / State ----

func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req idReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, snapshotResp{Error: "invalid JSON or missing id"})
		return
	}
	snap, err := h.UC.Resume(r.Context(), req.ID)
	if err != nil {
		writeJSON(w, statusFor(err), snapshotResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snapshotResp{Snapshot: &snap})
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeJSON(w, http.StatusBadRequest, snapshotResp{Error: "missing id"})
		return
	}
	snap, err := h.UC.State(r.Context(), id)
	if err != nil {
		writeJSON(w, statusFor(err), snapshotResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snapshotResp{Snapshot: &snap})
}

// ---- Command ----

type commandReq struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type commandResp struct {
	usecase.CommandResult
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req commandReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, commandResp{Error: "invalid JSON or missing id"})
		return
	}
	out, err := h.UC.Command(r.Context(), req.ID, req.Text)
	if err != nil {
		writeJSON(w, statusFor(err), commandResp{CommandResult: out, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, commandResp{CommandResult: out})
}

// ---- Hint / Solve ----

type hintResp struct {
	Found bool         `json:"found"`
	Hint  *domain.Hint `json:"hint,omitempty"`
	Error string       `json:"error,omitempty"`
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req idReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, hintResp{Error: "invalid JSON or missing id"})
		return
	}
	hh, ok, err := h.UC.Hint(r.Context(), req.ID)
	if err != nil {
		writeJSON(w, statusFor(err), hintResp{Error: err.Error()})
		return
	}
	resp := hintResp{Found: ok}
	if ok {
		resp.Hint = &hh
	}
	writeJSON(w, http.StatusOK, resp)
}

type solveResp struct {
	usecase.SolveResult
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req idReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, solveResp{Error: "invalid JSON or missing id"})
		return
	}
	out, err := h.UC.Solve(r.Context(), req.ID)
	if err != nil {
		writeJSON(w, statusFor(err), solveResp{SolveResult: out, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, solveResp{SolveResult: out})
}

// ---- End / List / Variants ----

type endResp struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req idReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, endResp{Error: "invalid JSON or missing id"})
		return
	}
	if err := h.UC.End(r.Context(), req.ID); err != nil {
		writeJSON(w, statusFor(err), endResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, endResp{ID: req.ID})
}

type listResp struct {
	Sessions []domain.SessionMeta `json:"sessions"`
	Error    string               `json:"error,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	ss, err := h.UC.List(r.Context())
	if err != nil {
		writeJSON(w, statusFor(err), listResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, listResp{Sessions: ss})
}

type variantsResp struct {
	Variants []string `json:"variants"`
}

func (h *Handler) handleVariants(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, variantsResp{Variants: h.UC.Variants()})
}
