// Package server exposes the appraisal engine over HTTP for presentation
// layers. It owns no computation of its own; requests are converted into a
// configuration, run through the analysis package, and rendered as JSON.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/capital-metrics/internal/analysis"
	"github.com/iwvelando/capital-metrics/internal/config"
	"github.com/iwvelando/capital-metrics/pkg/constants"
	"github.com/iwvelando/capital-metrics/pkg/mathutil"
	"github.com/iwvelando/capital-metrics/pkg/sensitivity"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the appraisal API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Appraisal API endpoint (JSON request body)
	mux.HandleFunc("/api/appraise", h.handleAppraise)

	// Appraisal API endpoint (YAML config upload)
	mux.HandleFunc("/api/appraise/upload", h.handleAppraiseUpload)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type appraiseRequest struct {
	Project     projectRequest      `json:"project"`
	Sensitivity *sensitivityRequest `json:"sensitivity,omitempty"`
	Solver      *solverRequest      `json:"solver,omitempty"`
}

type projectRequest struct {
	Name              string    `json:"name"`
	InitialInvestment float64   `json:"initialInvestment"`
	DiscountRate      float64   `json:"discountRate"` // percent
	CashFlows         []float64 `json:"cashFlows"`
}

type sensitivityRequest struct {
	Rate        *sweepRequest   `json:"rate,omitempty"`
	FlowScaling *scalingRequest `json:"flowScaling,omitempty"`
}

type sweepRequest struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Points int     `json:"points"`
}

type scalingRequest struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Points  int     `json:"points"`
	Applied float64 `json:"applied"`
}

type solverRequest struct {
	MaxIterations int     `json:"maxIterations"`
	Tolerance     float64 `json:"tolerance"`
}

type appraiseResponse struct {
	Project           string       `json:"project"`
	NPV               float64      `json:"npv"`
	IRR               *float64     `json:"irr,omitempty"`
	IRRDisplay        string       `json:"irrDisplay"`
	DiscountedPayback *float64     `json:"discountedPayback,omitempty"`
	PaybackDisplay    string       `json:"paybackDisplay"`
	ViableByNPV       bool         `json:"viableByNpv"`
	IRRExceedsHurdle  *bool        `json:"irrExceedsHurdle,omitempty"`
	ScaledNPV         *scaledValue `json:"scaledNpv,omitempty"`
	RateCurve         []curvePoint `json:"rateCurve"`
	FlowScalingCurve  []curvePoint `json:"flowScalingCurve"`
	Warnings          []string     `json:"warnings,omitempty"`
	Duration          string       `json:"duration"`
}

type scaledValue struct {
	ScalingPercent float64 `json:"scalingPercent"`
	NPV            float64 `json:"npv"`
}

type curvePoint struct {
	Parameter float64 `json:"parameter"`
	NPV       float64 `json:"npv"`
}

func (h *handler) handleAppraise(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	var req appraiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), "server.handleAppraise")
			return
		}
		h.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("failed to decode request: %v", err), "server.handleAppraise")
		return
	}

	h.runAppraisal(w, req.toConfiguration(), start, "server.handleAppraise")
}

func (h *handler) handleAppraiseUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), "server.handleAppraiseUpload")
			return
		}
		h.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("failed to parse upload: %v", err), "server.handleAppraiseUpload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing configuration file", "server.handleAppraiseUpload")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && h.logger != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleAppraiseUpload"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError,
			fmt.Sprintf("failed to read configuration: %v", err), "server.handleAppraiseUpload")
		return
	}

	var conf config.Configuration
	if err := yaml.Unmarshal(buf.Bytes(), &conf); err != nil {
		h.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("error reading config data, %v", err), "server.handleAppraiseUpload")
		return
	}

	h.runAppraisal(w, conf, start, "server.handleAppraiseUpload")
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) runAppraisal(w http.ResponseWriter, conf config.Configuration, start time.Time, op string) {
	conf.ApplyDefaults()

	if err := conf.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings := conf.ValidateConfiguration()

	result, err := analysis.Run(h.logger, conf)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError,
			fmt.Sprintf("failed to compute appraisal: %v", err), op)
		return
	}

	resp := appraiseResponse{
		Project:          result.Name,
		NPV:              mathutil.Round(result.NPV),
		IRR:              result.IRR,
		IRRDisplay:       "N/A",
		PaybackDisplay:   "not recovered",
		ViableByNPV:      result.ViableByNPV,
		IRRExceedsHurdle: result.IRRExceedsHurdle,
		RateCurve:        toCurvePoints(result.RateCurve),
		FlowScalingCurve: toCurvePoints(result.FlowScalingCurve),
		Warnings:         warnings,
		Duration:         time.Since(start).String(),
	}
	if result.IRR != nil {
		resp.IRRDisplay = fmt.Sprintf("%.2f%%", *result.IRR)
	}
	if result.DiscountedPayback != nil {
		resp.DiscountedPayback = result.DiscountedPayback
		resp.PaybackDisplay = fmt.Sprintf("%.2f periods", *result.DiscountedPayback)
	}
	if result.ScaledNPV != nil {
		resp.ScaledNPV = &scaledValue{
			ScalingPercent: result.ScaledNPV.ScalingPercent,
			NPV:            mathutil.Round(result.ScaledNPV.NPV),
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (req appraiseRequest) toConfiguration() config.Configuration {
	conf := config.Configuration{
		Project: config.Project{
			Name:              req.Project.Name,
			InitialInvestment: req.Project.InitialInvestment,
			DiscountRate:      req.Project.DiscountRate,
			CashFlows:         req.Project.CashFlows,
		},
	}
	if req.Solver != nil {
		conf.Solver.MaxIterations = req.Solver.MaxIterations
		conf.Solver.Tolerance = req.Solver.Tolerance
	}
	if req.Sensitivity != nil {
		if req.Sensitivity.Rate != nil {
			conf.Sensitivity.Rate.Min = req.Sensitivity.Rate.Min
			conf.Sensitivity.Rate.Max = req.Sensitivity.Rate.Max
			conf.Sensitivity.Rate.Points = req.Sensitivity.Rate.Points
		}
		if req.Sensitivity.FlowScaling != nil {
			conf.Sensitivity.FlowScaling.Min = req.Sensitivity.FlowScaling.Min
			conf.Sensitivity.FlowScaling.Max = req.Sensitivity.FlowScaling.Max
			conf.Sensitivity.FlowScaling.Points = req.Sensitivity.FlowScaling.Points
			conf.Sensitivity.FlowScaling.Applied = req.Sensitivity.FlowScaling.Applied
		}
	}
	return conf
}

func toCurvePoints(points []sensitivity.Point) []curvePoint {
	curve := make([]curvePoint, len(points))
	for i, point := range points {
		curve[i] = curvePoint{Parameter: point.Parameter, NPV: point.NPV}
	}
	return curve
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	if h.logger != nil {
		h.logger.Error("appraisal request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
