package handler

import (
	"errors"
	"io"
	"net/http"

	"lead_triage_backend/internal/leads/service"
	"lead_triage_backend/internal/leads/transport"
	"lead_triage_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const (
	formFieldFile   = "file"
	msgFileRequired = "a CSV file is required in the 'file' form field"
	msgUnreadable   = "uploaded file could not be read"
)

type Handler struct {
	svc *service.Processor
}

func New(svc *service.Processor) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/process", h.Process)
	rg.GET("/leads", h.List)
	rg.GET("/report", h.Report)
	rg.DELETE("/clear", h.Clear)
	rg.GET("/scoring-rules", h.ScoringRules)
}

func (h *Handler) Process(c *gin.Context) {
	fh, err := c.FormFile(formFieldFile)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpkit.HandleError(c, err)
			return
		}
		httpkit.Error(c, http.StatusBadRequest, msgFileRequired, nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgUnreadable, nil)
		return
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgUnreadable, nil)
		return
	}

	res, err := h.svc.Process(c.Request.Context(), service.Upload{FileName: fh.Filename, Body: body})
	if httpkit.HandleError(c, err) {
		return
	}

	tiers := make(map[string]int, len(res.Tiers))
	for t, n := range res.Tiers {
		tiers[string(t)] = n
	}

	httpkit.OK(c, transport.ProcessResponse{
		Message:            transport.ProcessedMessage(res.Count),
		Count:              res.Count,
		Skipped:            res.Skipped,
		ClassifierFailures: res.ClassifierFailures,
		NoContact:          res.NoContact,
		BatchID:            res.BatchID,
		Tiers:              tiers,
		ArchiveKey:         res.ArchiveKey,
	})
}

func (h *Handler) List(c *gin.Context) {
	leads, err := h.svc.Leads(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromLeads(leads))
}

func (h *Handler) Report(c *gin.Context) {
	r, err := h.svc.Report(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromReport(r))
}

func (h *Handler) Clear(c *gin.Context) {
	n, err := h.svc.Clear(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ClearResponse{Message: transport.ClearedMessage(n), Count: n})
}

func (h *Handler) ScoringRules(c *gin.Context) {
	snap := h.svc.Rules()
	labels := snap.Policy.DowngradeLabels
	if labels == nil {
		labels = []string{}
	}
	httpkit.OK(c, transport.ScoringRulesResponse{
		Version: snap.Version,
		Weights: transport.Weights(),
		Thresholds: transport.ThresholdsResponse{
			Hot:    snap.Thresholds.Hot,
			Medium: snap.Thresholds.Medium,
			Low:    snap.Thresholds.Low,
		},
		DowngradeLabels: labels,
		IntentBackend:   snap.IntentBackend,
		Rules:           snap.Rules,
	})
}
