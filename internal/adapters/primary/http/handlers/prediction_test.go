package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"diabetes-prediction-service/internal/adapters/primary/http/dto"
	"diabetes-prediction-service/internal/adapters/secondary/linear"
	"diabetes-prediction-service/internal/core/domain"
	"diabetes-prediction-service/internal/core/ports/output"
	"diabetes-prediction-service/internal/core/services"
	"diabetes-prediction-service/internal/testutil"
)

var testOrigins = []string{"http://localhost:5500", "http://127.0.0.1:5500"}

const samplePatientJSON = `{"Pregnancies":2,"Glucose":120,"BloodPressure":70,"SkinThickness":20,"Insulin":80,"BMI":25.5,"DiabetesPedigreeFunction":0.5,"Age":33}`

func setupRouter(model ports.Classifier, features []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := services.NewPredictionService(&ports.Artifact{Model: model, Features: features})
	return NewRouter(New(svc), testOrigins)
}

func setupMockRouter() (*testutil.MockClassifier, *gin.Engine) {
	model := new(testutil.MockClassifier)
	return model, setupRouter(model, domain.FeatureNames())
}

func postPredict(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeValidation(t *testing.T, w *httptest.ResponseRecorder) dto.ValidationErrorResponse {
	t.Helper()
	var resp dto.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// fixtureModel scores only glucose: z = 0.01*Glucose - 1.
func fixtureModel() *linear.Pipeline {
	coef := make([]float64, 8)
	coef[1] = 0.01
	return &linear.Pipeline{
		Scaler: &linear.StandardScaler{
			Mean:  make([]float64, 8),
			Scale: []float64{1, 1, 1, 1, 1, 1, 1, 1},
		},
		Classifier: &linear.LogisticRegression{Coef: coef, Intercept: -1},
	}
}

func TestRoot(t *testing.T) {
	_, r := setupMockRouter()

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Diabetes prediction API"}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	_, r := setupMockRouter()

	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","features":8}`, w.Body.String())
}

func TestPredict(t *testing.T) {
	model, r := setupMockRouter()

	want := []float64{2, 120, 70, 20, 80, 25.5, 0.5, 33}
	model.On("PredictProbability", want).Return(0.42, nil)
	model.On("Predict", want).Return(0, nil)

	w := postPredict(r, samplePatientJSON)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"diabetic_probability":0.42,"predicted_class":0}`, w.Body.String())
	model.AssertExpectations(t)
}

func TestPredict_ZeroValuesAreValid(t *testing.T) {
	model, r := setupMockRouter()

	model.On("PredictProbability", make([]float64, 8)).Return(0.01, nil)
	model.On("Predict", make([]float64, 8)).Return(0, nil)

	w := postPredict(r, `{"Pregnancies":0,"Glucose":0,"BloodPressure":0,"SkinThickness":0,"Insulin":0,"BMI":0,"DiabetesPedigreeFunction":0,"Age":0}`)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPredict_MissingField(t *testing.T) {
	model, r := setupMockRouter()

	w := postPredict(r, `{"Pregnancies":2,"BloodPressure":70,"SkinThickness":20,"Insulin":80,"BMI":25.5,"DiabetesPedigreeFunction":0.5,"Age":33}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeValidation(t, w)
	require.Len(t, resp.Detail, 1)
	assert.Equal(t, []string{"body", "Glucose"}, resp.Detail[0].Loc)
	assert.Equal(t, "missing", resp.Detail[0].Type)
	assert.Empty(t, model.Calls)
}

func TestPredict_NegativeValues(t *testing.T) {
	model, r := setupMockRouter()

	w := postPredict(r, `{"Pregnancies":2,"Glucose":120,"BloodPressure":-70,"SkinThickness":20,"Insulin":80,"BMI":25.5,"DiabetesPedigreeFunction":0.5,"Age":-1}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeValidation(t, w)
	require.Len(t, resp.Detail, 2)
	assert.Equal(t, []string{"body", "BloodPressure"}, resp.Detail[0].Loc)
	assert.Equal(t, []string{"body", "Age"}, resp.Detail[1].Loc)
	assert.Equal(t, "greater_than_equal", resp.Detail[0].Type)
	model.AssertNotCalled(t, "PredictProbability", mock.Anything)
	model.AssertNotCalled(t, "Predict", mock.Anything)
}

func TestPredict_NullField(t *testing.T) {
	model, r := setupMockRouter()

	w := postPredict(r, `{"Pregnancies":2,"Glucose":null,"BloodPressure":70,"SkinThickness":20,"Insulin":80,"BMI":25.5,"DiabetesPedigreeFunction":0.5,"Age":33}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeValidation(t, w)
	require.Len(t, resp.Detail, 1)
	assert.Equal(t, []string{"body", "Glucose"}, resp.Detail[0].Loc)
	assert.Equal(t, "float_type", resp.Detail[0].Type)
	assert.Empty(t, model.Calls)
}

func TestPredict_ReportsEveryRejectedField(t *testing.T) {
	model, r := setupMockRouter()

	w := postPredict(r, `{"Glucose":"high","Age":-1,"Cholesterol":180}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeValidation(t, w)
	want := []dto.ValidationError{
		{Loc: []string{"body", "Pregnancies"}, Msg: "Field required", Type: "missing"},
		{Loc: []string{"body", "Glucose"}, Msg: "Input should be a valid number", Type: "float_type"},
		{Loc: []string{"body", "BloodPressure"}, Msg: "Field required", Type: "missing"},
		{Loc: []string{"body", "SkinThickness"}, Msg: "Field required", Type: "missing"},
		{Loc: []string{"body", "Insulin"}, Msg: "Field required", Type: "missing"},
		{Loc: []string{"body", "BMI"}, Msg: "Field required", Type: "missing"},
		{Loc: []string{"body", "DiabetesPedigreeFunction"}, Msg: "Field required", Type: "missing"},
		{Loc: []string{"body", "Age"}, Msg: "Input should be greater than or equal to 0", Type: "greater_than_equal"},
	}
	assert.Equal(t, want, resp.Detail)
	assert.Empty(t, model.Calls)
}

func TestPredict_EmptyObjectListsAllFields(t *testing.T) {
	model, r := setupMockRouter()

	w := postPredict(r, `{}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeValidation(t, w)
	require.Len(t, resp.Detail, len(domain.FeatureNames()))
	for i, name := range domain.FeatureNames() {
		assert.Equal(t, []string{"body", name}, resp.Detail[i].Loc)
		assert.Equal(t, "missing", resp.Detail[i].Type)
	}
	assert.Empty(t, model.Calls)
}

func TestPredict_WrongType(t *testing.T) {
	model, r := setupMockRouter()

	w := postPredict(r, `{"Pregnancies":2,"Glucose":"high","BloodPressure":70,"SkinThickness":20,"Insulin":80,"BMI":25.5,"DiabetesPedigreeFunction":0.5,"Age":33}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeValidation(t, w)
	require.Len(t, resp.Detail, 1)
	assert.Equal(t, []string{"body", "Glucose"}, resp.Detail[0].Loc)
	assert.Equal(t, "float_type", resp.Detail[0].Type)
	assert.Empty(t, model.Calls)
}

func TestPredict_MalformedBodies(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantType string
	}{
		{"empty body", "", "missing"},
		{"broken json", `{"Glucose": 1,`, "json_invalid"},
		{"array body", `[1,2,3]`, "model_attributes_type"},
		{"number body", `42`, "model_attributes_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, r := setupMockRouter()

			w := postPredict(r, tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			resp := decodeValidation(t, w)
			require.NotEmpty(t, resp.Detail)
			assert.Equal(t, tt.wantType, resp.Detail[0].Type)
			assert.Empty(t, model.Calls)
		})
	}
}

func TestPredict_ModelFailure(t *testing.T) {
	model, r := setupMockRouter()

	model.On("PredictProbability", mock.Anything).Return(0.0, domain.ErrDimensionMismatch)

	w := postPredict(r, samplePatientJSON)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestPredict_PermutedFeatureOrder(t *testing.T) {
	model := new(testutil.MockClassifier)
	features := []string{
		domain.FeatureBMI, domain.FeatureAge, domain.FeatureGlucose, domain.FeaturePregnancies,
		domain.FeatureInsulin, domain.FeatureBloodPressure, domain.FeatureDiabetesPedigreeFunction, domain.FeatureSkinThickness,
	}
	r := setupRouter(model, features)

	want := []float64{25.5, 33, 120, 2, 80, 70, 0.5, 20}
	model.On("PredictProbability", want).Return(0.6, nil)
	model.On("Predict", want).Return(1, nil)

	w := postPredict(r, samplePatientJSON)

	assert.Equal(t, http.StatusOK, w.Code)
	model.AssertExpectations(t)
}

func TestPredict_FixtureModelIsReproducible(t *testing.T) {
	r := setupRouter(fixtureModel(), domain.FeatureNames())
	wantProb := 1 / (1 + math.Exp(-0.2))

	var first dto.PredictionResponse
	for i := 0; i < 3; i++ {
		w := postPredict(r, samplePatientJSON)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.PredictionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.InDelta(t, wantProb, resp.DiabeticProbability, 1e-12)
		assert.InDelta(t, 0.549833997312478, resp.DiabeticProbability, 1e-12)
		assert.Equal(t, 1, resp.PredictedClass)

		if i == 0 {
			first = resp
			continue
		}
		assert.Equal(t, first, resp)
	}
}

func TestPredict_ProbabilityRangeAndClassDomain(t *testing.T) {
	r := setupRouter(fixtureModel(), domain.FeatureNames())

	for _, glucose := range []float64{0, 50, 100, 199, 5000} {
		body, _ := json.Marshal(map[string]float64{
			"Pregnancies": 1, "Glucose": glucose, "BloodPressure": 70, "SkinThickness": 20,
			"Insulin": 80, "BMI": 30, "DiabetesPedigreeFunction": 0.4, "Age": 40,
		})
		w := postPredict(r, string(body))
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.PredictionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.GreaterOrEqual(t, resp.DiabeticProbability, 0.0)
		assert.LessOrEqual(t, resp.DiabeticProbability, 1.0)
		assert.Contains(t, []int{0, 1}, resp.PredictedClass)
	}
}

func TestCORS_AllowedOriginPreflight(t *testing.T) {
	_, r := setupMockRouter()

	req, _ := http.NewRequest(http.MethodOptions, "/predict", nil)
	req.Header.Set("Origin", "http://localhost:5500")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type, x-custom")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5500", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Equal(t, "content-type, x-custom", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_AllowedOriginRequest(t *testing.T) {
	model, r := setupMockRouter()
	model.On("PredictProbability", mock.Anything).Return(0.3, nil)
	model.On("Predict", mock.Anything).Return(0, nil)

	req, _ := http.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(samplePatientJSON))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://127.0.0.1:5500")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://127.0.0.1:5500", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	model, r := setupMockRouter()

	preflight, _ := http.NewRequest(http.MethodOptions, "/predict", nil)
	preflight.Header.Set("Origin", "http://evil.example")
	preflight.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, preflight)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req, _ := http.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(samplePatientJSON))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, model.Calls)
}

func TestRequestID(t *testing.T) {
	_, r := setupMockRouter()

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	req, _ = http.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}
