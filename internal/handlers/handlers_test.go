package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/kevkotuto/freelance_backend/internal/handlers"
	"github.com/kevkotuto/freelance_backend/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	testJWTSecret = "test-secret-for-handler-tests"
	testUserID    = "8b0f3f4e-4f55-4a3e-9d36-2d7f2f9a1c01"
)

type HandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	cfg       *config.Config
	users     *MockUserService
	tokens    *MockTokenService
	clients   *MockClientService
	invoices  *MockInvoiceService
	time      *MockTimeEntryService
	files     *MockFileService
	assistant *MockAssistantService
	webhooks  *MockWaveWebhookService
	authToken string
}

func generateTestToken(userID, secret string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "test",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.cfg = &config.Config{
		JWTSecret:           testJWTSecret,
		SessionCookieName:   "fb_session",
		LoginRateLimit:      "100-M",
		MaxUploadBytes:      16,
		AIRequestsPerMinute: 2,
		IsProduction:        true,
		FrontendBaseURL:     "http://localhost:3000",
	}
	s.users = new(MockUserService)
	s.tokens = new(MockTokenService)
	s.clients = new(MockClientService)
	s.invoices = new(MockInvoiceService)
	s.time = new(MockTimeEntryService)
	s.files = new(MockFileService)
	s.assistant = new(MockAssistantService)
	s.webhooks = new(MockWaveWebhookService)

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, s.cfg, &portssvc.ServiceContainer{
		User:         s.users,
		TokenService: s.tokens,
		Client:       s.clients,
		Invoice:      s.invoices,
		TimeEntry:    s.time,
		File:         s.files,
		Assistant:    s.assistant,
		WaveWebhook:  s.webhooks,
	})

	var err error
	s.authToken, err = generateTestToken(testUserID, testJWTSecret)
	s.Require().NoError(err)
}

func (s *HandlerTestSuite) TearDownTest() {
	s.users.AssertExpectations(s.T())
	s.tokens.AssertExpectations(s.T())
	s.clients.AssertExpectations(s.T())
	s.invoices.AssertExpectations(s.T())
	s.time.AssertExpectations(s.T())
	s.files.AssertExpectations(s.T())
	s.assistant.AssertExpectations(s.T())
	s.webhooks.AssertExpectations(s.T())
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+s.authToken)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var res dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func (s *HandlerTestSuite) TestHealth() {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *HandlerTestSuite) TestProtectedRoute_NoToken() {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))

	s.Equal(http.StatusUnauthorized, w.Code)
}

// --- Auth ---

func (s *HandlerTestSuite) TestLogin_Success() {
	user := &domain.User{UserID: testUserID, Name: "Awa", Email: "awa@example.com"}
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	s.users.On("AuthenticateUser", mock.Anything, "awa@example.com", "s3cret-pass").Return(user, nil).Once()
	s.tokens.On("GenerateAccessToken", mock.Anything, user).Return("signed-token", expires, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Email: "awa@example.com", Password: "s3cret-pass"})

	s.Equal(http.StatusOK, w.Code)
	var res dto.LoginResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Equal("signed-token", res.Token)
	s.Equal(testUserID, res.User.UserID)

	cookies := w.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal("fb_session", cookies[0].Name)
	s.Equal("signed-token", cookies[0].Value)
	s.True(cookies[0].HttpOnly)
}

func (s *HandlerTestSuite) TestLogin_WrongCredentials() {
	s.users.On("AuthenticateUser", mock.Anything, "awa@example.com", "nope-nope").
		Return(nil, apperrors.NewUnauthorizedError("Invalid email or password")).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Email: "awa@example.com", Password: "nope-nope"})

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid email or password", decodeError(s.T(), w).Error)
	s.Empty(w.Result().Cookies())
}

func (s *HandlerTestSuite) TestRegister_ValidationFields() {
	w := s.do(http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{Name: "Awa", Email: "awa@example.com", Password: "short"})

	s.Equal(http.StatusBadRequest, w.Code)
	res := decodeError(s.T(), w)
	s.Equal("Invalid request body", res.Error)
	s.Equal("min=8", res.Fields["password"])
	s.users.AssertNotCalled(s.T(), "Register", mock.Anything, mock.Anything)
}

// --- Profile ---

func (s *HandlerTestSuite) TestGetMe() {
	user := &domain.User{UserID: testUserID, Name: "Awa", Email: "awa@example.com", AuthProvider: domain.ProviderLocal}
	s.users.On("GetUserByID", mock.Anything, testUserID).Return(user, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/me", nil)

	s.Equal(http.StatusOK, w.Code)
	var res dto.UserResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Equal(testUserID, res.UserID)
	s.Equal("awa@example.com", res.Email)
}

func (s *HandlerTestSuite) TestUpdateMe() {
	req := dto.UpdateProfileRequest{Name: "Awa Kone"}
	user := &domain.User{UserID: testUserID, Name: "Awa Kone", Email: "awa@example.com"}
	s.users.On("UpdateProfile", mock.Anything, testUserID, req).Return(user, nil).Once()

	w := s.do(http.MethodPut, "/api/v1/me", req)

	s.Equal(http.StatusOK, w.Code)
	var res dto.UserResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Equal("Awa Kone", res.Name)
}

func (s *HandlerTestSuite) TestUpdateMe_RequiresName() {
	w := s.do(http.MethodPut, "/api/v1/me", map[string]string{})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("required", decodeError(s.T(), w).Fields["name"])
	s.users.AssertNotCalled(s.T(), "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

// --- Clients ---

func (s *HandlerTestSuite) TestCreateClient() {
	req := dto.CreateClientRequest{Name: "Orange CI", Email: "billing@orange.ci"}
	client := &domain.Client{ClientID: "c-1", UserID: testUserID, Name: "Orange CI", Email: "billing@orange.ci"}
	s.clients.On("CreateClient", mock.Anything, testUserID, req).Return(client, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/clients", req)

	s.Equal(http.StatusCreated, w.Code)
	var res dto.ClientResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Equal("c-1", res.ClientID)
	s.Equal("Orange CI", res.Name)
}

func (s *HandlerTestSuite) TestGetClient_NotFound() {
	s.clients.On("GetClient", mock.Anything, testUserID, "missing").
		Return(nil, nil, fmt.Errorf("client missing: %w", apperrors.ErrNotFound)).Once()

	w := s.do(http.MethodGet, "/api/v1/clients/missing", nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestDeleteClient_Conflict() {
	s.clients.On("DeleteClient", mock.Anything, testUserID, "c-1").
		Return(apperrors.NewConflictError("Client has invoices and cannot be deleted")).Once()

	w := s.do(http.MethodDelete, "/api/v1/clients/c-1", nil)

	s.Equal(http.StatusConflict, w.Code)
	s.Equal("Client has invoices and cannot be deleted", decodeError(s.T(), w).Error)
}

func (s *HandlerTestSuite) TestListClients_NormalizesParams() {
	s.clients.On("ListClients", mock.Anything, testUserID, "ora", domain.ListParams{Limit: 20, Offset: 5}).
		Return([]domain.Client{{ClientID: "c-1", Name: "Orange CI"}}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/clients?search=ora&offset=5", nil)

	s.Equal(http.StatusOK, w.Code)
	var res []dto.ClientResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Len(res, 1)
}

func (s *HandlerTestSuite) TestListClients_InternalErrorIsGeneric() {
	s.clients.On("ListClients", mock.Anything, testUserID, "", mock.Anything).
		Return(nil, fmt.Errorf("pq: connection refused")).Once()

	w := s.do(http.MethodGet, "/api/v1/clients", nil)

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("Failed to list clients", decodeError(s.T(), w).Error)
}

// --- Invoices ---

func (s *HandlerTestSuite) TestListInvoices_StatusFilter() {
	s.invoices.On("ListInvoices", mock.Anything, testUserID, mock.MatchedBy(func(f domain.InvoiceFilter) bool {
		return f.Status != nil && *f.Status == domain.InvoiceOverdue &&
			f.Type != nil && *f.Type == domain.InvoiceTypeInvoice &&
			f.ClientID == nil
	})).Return([]domain.Invoice{}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/invoices?status=OVERDUE&type=INVOICE", nil)

	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestListInvoices_RejectsUnknownStatus() {
	w := s.do(http.MethodGet, "/api/v1/invoices?status=LOST", nil)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Invalid query parameters", decodeError(s.T(), w).Error)
}

func (s *HandlerTestSuite) TestUpdateInvoiceStatus_IllegalTransition() {
	s.invoices.On("UpdateStatus", mock.Anything, testUserID, "inv-1", domain.InvoicePending).
		Return(nil, apperrors.NewConflictError("Cannot move invoice from PAID to PENDING")).Once()

	w := s.do(http.MethodPatch, "/api/v1/invoices/inv-1/status", dto.UpdateInvoiceStatusRequest{Status: "PENDING"})

	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestUpdateInvoiceStatus_Paid() {
	paidAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	inv := &domain.Invoice{
		InvoiceID: "inv-1",
		Type:      domain.InvoiceTypeInvoice,
		Number:    "INV-2026-0001",
		Status:    domain.InvoicePaid,
		Total:     decimal.RequireFromString("150000"),
		PaidAt:    &paidAt,
	}
	s.invoices.On("UpdateStatus", mock.Anything, testUserID, "inv-1", domain.InvoicePaid).Return(inv, nil).Once()

	w := s.do(http.MethodPatch, "/api/v1/invoices/inv-1/status", dto.UpdateInvoiceStatusRequest{Status: "PAID"})

	s.Equal(http.StatusOK, w.Code)
	var res dto.InvoiceResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Equal("PAID", res.Status)
	s.Require().NotNil(res.PaidAt)
	s.True(paidAt.Equal(*res.PaidAt))
}

func (s *HandlerTestSuite) TestInvoicePDF() {
	s.invoices.On("RenderPDF", mock.Anything, testUserID, "inv-1").
		Return([]byte("%PDF-1.3 fake"), "INV-2026-0001.pdf", nil).Once()

	w := s.do(http.MethodGet, "/api/v1/invoices/inv-1/pdf", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Equal("application/pdf", w.Header().Get("Content-Type"))
	s.Equal(`inline; filename="INV-2026-0001.pdf"`, w.Header().Get("Content-Disposition"))
	s.True(strings.HasPrefix(w.Body.String(), "%PDF"))
}

// --- Time tracking ---

func (s *HandlerTestSuite) TestStartTimer_AlreadyRunning() {
	s.time.On("StartTimer", mock.Anything, testUserID, dto.StartTimerRequest{Description: "design"}).
		Return(nil, apperrors.NewConflictError("A timer is already running")).Once()

	w := s.do(http.MethodPost, "/api/v1/time-entries/start", dto.StartTimerRequest{Description: "design"})

	s.Equal(http.StatusConflict, w.Code)
	s.Equal("A timer is already running", decodeError(s.T(), w).Error)
}

func (s *HandlerTestSuite) TestRunningTimer() {
	s.Run("none running", func() {
		s.time.On("RunningTimer", mock.Anything, testUserID).Return(nil, nil).Once()

		w := s.do(http.MethodGet, "/api/v1/time-entries/running", nil)

		s.Equal(http.StatusNoContent, w.Code)
	})
	s.Run("running", func() {
		started := time.Now().Add(-30 * time.Minute).UTC()
		entry := &domain.TimeEntry{TimeEntryID: "te-1", UserID: testUserID, Description: "design", StartedAt: started}
		s.time.On("RunningTimer", mock.Anything, testUserID).Return(entry, nil).Once()

		w := s.do(http.MethodGet, "/api/v1/time-entries/running", nil)

		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), `"te-1"`)
	})
}

// --- Files ---

func (s *HandlerTestSuite) multipartRequest(filename string, content []byte) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	s.Require().NoError(err)
	_, err = part.Write(content)
	s.Require().NoError(err)
	s.Require().NoError(mw.WriteField("projectId", "p-1"))
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.authToken)
	return req
}

func (s *HandlerTestSuite) TestUploadFile_TooLarge() {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.multipartRequest("big.txt", bytes.Repeat([]byte("x"), 64)))

	s.Equal(http.StatusRequestEntityTooLarge, w.Code)
	s.files.AssertNotCalled(s.T(), "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestUploadFile_Success() {
	stored := &domain.StoredFile{FileID: "f-1", UserID: testUserID, OriginalName: "brief.txt", SizeBytes: 5}
	s.files.On("Upload", mock.Anything, testUserID, mock.MatchedBy(func(in portssvc.UploadInput) bool {
		return in.OriginalName == "brief.txt" && in.ProjectID != nil && *in.ProjectID == "p-1"
	})).Return(stored, nil).Once()

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.multipartRequest("brief.txt", []byte("hello")))

	s.Equal(http.StatusCreated, w.Code)
	s.Contains(w.Body.String(), `"f-1"`)
}

func (s *HandlerTestSuite) TestUploadFile_MissingPart() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer "+s.authToken)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestDownloadFile() {
	meta := &domain.StoredFile{FileID: "f-1", OriginalName: "contrat final.pdf", MimeType: "application/pdf", SizeBytes: 7}
	s.files.On("Open", mock.Anything, testUserID, "f-1").
		Return(meta, io.NopCloser(strings.NewReader("%PDF-xx")), nil).Once()

	w := s.do(http.MethodGet, "/api/v1/files/f-1/download", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Equal(`attachment; filename="contrat final.pdf"`, w.Header().Get("Content-Disposition"))
	s.Equal("application/pdf", w.Header().Get("Content-Type"))
	s.Equal("%PDF-xx", w.Body.String())
}

// --- Wave webhook ---

func (s *HandlerTestSuite) postWebhook(body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/wave", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Wave-Signature", signature)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) TestWebhook_Accepted() {
	body := []byte(`{"id":"EV_1","type":"checkout.session.completed","data":{}}`)
	event := &domain.WebhookEvent{EventID: "EV_1", UserID: testUserID, EventType: "checkout.session.completed"}
	s.webhooks.On("Receive", mock.Anything, mock.Anything, body).Return(event, false, nil).Once()

	w := s.postWebhook(body, "t=1,v1=abc")

	s.Equal(http.StatusOK, w.Code)
	var res dto.WebhookAckResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.True(res.Received)
}

func (s *HandlerTestSuite) TestWebhook_BadSignature() {
	body := []byte(`{"id":"EV_2"}`)
	s.webhooks.On("Receive", mock.Anything, mock.Anything, body).
		Return(nil, false, fmt.Errorf("signature mismatch: %w", apperrors.ErrInvalidSignature)).Once()

	w := s.postWebhook(body, "t=1,v1=bad")

	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestWebhook_BodyTooLarge() {
	body := bytes.Repeat([]byte("a"), (1<<20)+1)

	w := s.postWebhook(body, "t=1,v1=abc")

	s.Equal(http.StatusRequestEntityTooLarge, w.Code)
	s.webhooks.AssertNotCalled(s.T(), "Receive", mock.Anything, mock.Anything, mock.Anything)
}

// --- Assistant ---

func (s *HandlerTestSuite) TestAssistant_RateLimited() {
	req := dto.ChatRequest{Messages: []dto.ChatMessageRequest{{Role: "user", Content: "How much did I invoice in March?"}}}
	s.assistant.On("Chat", mock.Anything, testUserID, req).Return("You invoiced 450 000 XOF.", nil).Twice()

	for i := 0; i < 2; i++ {
		w := s.do(http.MethodPost, "/api/v1/assistant/chat", req)
		s.Equal(http.StatusOK, w.Code)
	}
	w := s.do(http.MethodPost, "/api/v1/assistant/chat", req)

	s.Equal(http.StatusTooManyRequests, w.Code)
}

func (s *HandlerTestSuite) TestAssistant_Unavailable() {
	req := dto.ChatRequest{Messages: []dto.ChatMessageRequest{{Role: "user", Content: "hi"}}}
	s.assistant.On("Chat", mock.Anything, testUserID, req).
		Return("", fmt.Errorf("no api key: %w", apperrors.ErrUnavailable)).Once()

	w := s.do(http.MethodPost, "/api/v1/assistant/chat", req)

	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func TestRespondErrorMapsSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.ErrValidation, http.StatusBadRequest},
		{"duplicate", apperrors.ErrDuplicate, http.StatusConflict},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"upstream", fmt.Errorf("wave: %w", apperrors.ErrUpstream), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.StatusCode(tt.err))
		})
	}
}
