package predict

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestServer() *echo.Echo {
	e := echo.New()
	h := NewHandler(NewService())
	h.RegisterRoutes(e.Group("/api/v1"))
	return e
}

func TestCreatePrediction(t *testing.T) {
	e := newTestServer()
	body := `{"patientData": {"age": 55, "records": [
		{"date": "2024-11-20", "disease": "Hypertension", "risk": "high"},
		{"date": "2024-10-10", "disease": "Hypertension", "risk": "medium"}
	]}}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Prediction == nil {
		t.Fatal("prediction missing from response")
	}
	if len(resp.Prediction.Predictions) == 0 {
		t.Fatal("expected at least one prediction")
	}
	if got := resp.Prediction.Predictions[0].Condition; got != ConditionHypertension {
		t.Errorf("top condition = %q, want %q", got, ConditionHypertension)
	}
}

func TestCreatePrediction_MissingPatientData(t *testing.T) {
	e := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No patient data provided") {
		t.Errorf("body = %s, want the missing-data message", rec.Body.String())
	}
}

func TestCreatePrediction_MalformedBody(t *testing.T) {
	e := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader(`{"patientData":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
