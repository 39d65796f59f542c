package server

import (
	"bytes"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iwvelando/capital-metrics/pkg/constants"
	"go.uber.org/zap"
)

const testConfigYAML = `
project:
  name: widget line
  initialInvestment: -100.0
  discountRate: 10.0
  cashFlows: [60, 60, 60]
sensitivity:
  rate:
    min: 5.0
    max: 15.0
    points: 20
  flowScaling:
    min: -50.0
    max: 50.0
    points: 20
`

func TestHandleAppraiseSuccess(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "test")

	payload := map[string]interface{}{
		"project": map[string]interface{}{
			"name":              "widget line",
			"initialInvestment": -100.0,
			"discountRate":      10.0,
			"cashFlows":         []float64{60, 60, 60},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/appraise", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp appraiseResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Project != "widget line" {
		t.Errorf("project = %q, expected %q", resp.Project, "widget line")
	}
	if math.Abs(resp.NPV-49.21) > 0.01 {
		t.Errorf("NPV = %.4f, expected 49.21", resp.NPV)
	}
	if resp.IRR == nil {
		t.Fatal("expected a defined IRR")
	}
	if math.Abs(*resp.IRR-36.31) > 0.1 {
		t.Errorf("IRR = %.4f%%, expected 36.31%%", *resp.IRR)
	}
	if !strings.HasSuffix(resp.IRRDisplay, "%") {
		t.Errorf("IRR display = %q, expected a percentage", resp.IRRDisplay)
	}
	if resp.DiscountedPayback == nil {
		t.Fatal("expected a defined discounted payback")
	}
	if !resp.ViableByNPV {
		t.Error("expected the project to be viable by NPV")
	}
	if len(resp.RateCurve) != constants.DefaultSweepPoints {
		t.Errorf("rate curve has %d points, expected %d", len(resp.RateCurve), constants.DefaultSweepPoints)
	}
	if len(resp.FlowScalingCurve) != constants.DefaultSweepPoints {
		t.Errorf("flow scaling curve has %d points, expected %d",
			len(resp.FlowScalingCurve), constants.DefaultSweepPoints)
	}
	if resp.Duration == "" {
		t.Error("expected duration in response")
	}
}

func TestHandleAppraiseSentinels(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "test")

	// All-positive flows: no IRR, immediate payback.
	payload := map[string]interface{}{
		"project": map[string]interface{}{
			"name":              "gift",
			"initialInvestment": 100.0,
			"discountRate":      10.0,
			"cashFlows":         []float64{10, 10},
		},
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/appraise", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp appraiseResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.IRR != nil {
		t.Errorf("IRR = %v, expected undefined", *resp.IRR)
	}
	if resp.IRRDisplay != "N/A" {
		t.Errorf("IRR display = %q, expected N/A", resp.IRRDisplay)
	}
	if len(resp.Warnings) == 0 {
		t.Error("expected a warning about the non-negative initial investment")
	}
}

func TestHandleAppraiseInvalidRate(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "test")

	payload := map[string]interface{}{
		"project": map[string]interface{}{
			"initialInvestment": -100.0,
			"discountRate":      -100.0,
			"cashFlows":         []float64{60},
		},
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/appraise", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleAppraiseMalformedBody(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "test")

	req := httptest.NewRequest(http.MethodPost, "/api/appraise", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleAppraiseMethodNotAllowed(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "test")

	req := httptest.NewRequest(http.MethodGet, "/api/appraise", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleAppraiseUploadSuccess(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "test")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "config.yaml")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(testConfigYAML)); err != nil {
		t.Fatalf("failed to write form data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/appraise/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp appraiseResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Project != "widget line" {
		t.Errorf("project = %q, expected %q", resp.Project, "widget line")
	}
	if math.Abs(resp.NPV-49.21) > 0.01 {
		t.Errorf("NPV = %.4f, expected 49.21", resp.NPV)
	}
	if len(resp.RateCurve) != 20 {
		t.Errorf("rate curve has %d points, expected 20", len(resp.RateCurve))
	}
}

func TestHandleAppraiseUploadMissingFile(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "test")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/appraise/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "v1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "v1.2.3" {
		t.Errorf("version = %q, expected v1.2.3", resp["version"])
	}
}
