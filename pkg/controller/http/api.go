package http

import (
	"net/http"
	"sort"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/rtxtools/remixer/pkg/domain/model"
	"github.com/rtxtools/remixer/pkg/domain/types"
)

// GamesResponse lists the session state
type GamesResponse struct {
	GameDirectory string             `json:"game_directory"`
	Installed     []model.GameRecord `json:"installed"`
	Candidates    []model.Candidate  `json:"candidates"`
}

// DownloadRequest starts a download. URL is resolved from the latest release when empty.
type DownloadRequest struct {
	URL string `json:"url"`
}

// DownloadResponse describes a started download
type DownloadResponse struct {
	Job        *model.DownloadJob       `json:"job"`
	Resolution *model.ReleaseResolution `json:"resolution,omitempty"`
}

// ScanRequest scans Root for a game directory
type ScanRequest struct {
	Root string `json:"root"`
}

// SelectRequest selects a candidate or an installed game by name
type SelectRequest struct {
	Name string `json:"name"`
}

// InstallRequest installs into GameDirectory, or into the selected game when empty
type InstallRequest struct {
	GameDirectory string `json:"game_directory"`
}

// OpenRequest opens the directory of the named game, or the extraction directory when empty
type OpenRequest struct {
	Name string `json:"name"`
}

func (h *handler) games() *GamesResponse {
	resp := &GamesResponse{
		GameDirectory: h.state.GameDirectory,
		Installed:     []model.GameRecord{},
		Candidates:    []model.Candidate{},
	}
	for _, name := range h.state.Records.Names() {
		resp.Installed = append(resp.Installed, h.state.Records[name])
	}
	for _, candidate := range h.state.Candidates {
		resp.Candidates = append(resp.Candidates, candidate)
	}
	sort.Slice(resp.Candidates, func(i, j int) bool {
		return resp.Candidates[i].Name < resp.Candidates[j].Name
	})
	return resp
}

func (h *handler) handleListGames(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	resp := h.games()
	h.mu.Unlock()

	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *handler) handleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ScanRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	candidates, err := h.uc.Registry.Scan(ctx, h.state, req.Root)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, candidates)
}

func (h *handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SelectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.uc.Registry.Select(h.state, req.Name); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, h.games())
}

func (h *handler) handleRelease(w http.ResponseWriter, r *http.Request) {
	resolution := h.uc.Resolver.Resolve(r.Context(), h.cfg.owner, h.cfg.repo)
	writeJSON(r.Context(), w, http.StatusOK, resolution)
}

func (h *handler) handleStartDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DownloadRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if current := h.uc.Download.Current(); current != nil && current.Status.IsActive() {
		writeError(ctx, w, goerr.Wrap(types.ErrDownloadInProgress, "download already running",
			goerr.V("job_id", current.ID)))
		return
	}

	resp := &DownloadResponse{}
	url := req.URL
	if url == "" {
		resp.Resolution = h.uc.Resolver.Resolve(ctx, h.cfg.owner, h.cfg.repo)
		url = resp.Resolution.URL
	}

	job, err := h.uc.Download.Start(ctx, url, h.cfg.archive)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	// Progress is polled through GET /api/download; events only need draining
	go func() {
		for range job.Events() {
		}
		ctxlog.From(ctx).Debug("Download job finished", "job_id", job.ID())
	}()

	resp.Job = h.uc.Download.Current()
	writeJSON(ctx, w, http.StatusAccepted, resp)
}

func (h *handler) handleGetDownload(w http.ResponseWriter, r *http.Request) {
	job := h.uc.Download.Current()
	if job == nil {
		writeJSON(r.Context(), w, http.StatusNotFound, map[string]string{"error": "no download started"})
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, job)
}

func (h *handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if current := h.uc.Download.Current(); current != nil && current.Status.IsActive() {
		writeError(ctx, w, goerr.Wrap(types.ErrDownloadInProgress, "archive is still being downloaded"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := h.uc.Extract.Extract(ctx, h.cfg.archive, h.cfg.extractDir)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *handler) handleInstall(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req InstallRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// session state takes the requested directory only once the install succeeds
	state := *h.state
	if req.GameDirectory != "" {
		state.GameDirectory = req.GameDirectory
	}

	result, err := h.uc.Install.Install(ctx, &state, h.cfg.extractDir)
	if err != nil {
		if result != nil {
			ctxlog.From(ctx).Warn("Install left a partial copy",
				"dest", result.Destination, "copied", len(result.Copied))
		}
		writeError(ctx, w, err)
		return
	}
	*h.state = state
	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OpenRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	dir := h.cfg.extractDir
	if req.Name != "" {
		h.mu.Lock()
		path, ok := h.state.GamePath(req.Name)
		h.mu.Unlock()
		if !ok {
			writeError(ctx, w, goerr.Wrap(types.ErrUsage, "unknown game", goerr.V("name", req.Name)))
			return
		}
		dir = path
	}

	if err := h.uc.Opener.Open(ctx, dir); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]string{"opened": dir})
}
