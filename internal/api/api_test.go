package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/page-comments-api/internal/api"
	"github.com/page-comments-api/internal/config"
	"github.com/page-comments-api/internal/mocks"
	"github.com/page-comments-api/internal/models"
	"github.com/page-comments-api/internal/service"
	"github.com/rs/zerolog"
)

const testSecret = "correct-horse-battery"

// stubStoreHealth stands in for the database wrapper in router tests
type stubStoreHealth struct {
	err error
}

func (s stubStoreHealth) HealthCheck(ctx context.Context) error { return s.err }
func (s stubStoreHealth) Stats() sql.DBStats                    { return sql.DBStats{} }

func setupTestRouter() (*gin.Engine, *mocks.MockCommentService, *mocks.MockSecretService) {
	return setupTestRouterWithHealth(nil)
}

func setupTestRouterWithHealth(healthErr error) (*gin.Engine, *mocks.MockCommentService, *mocks.MockSecretService) {
	gin.SetMode(gin.TestMode)

	mockComment := mocks.NewMockCommentService()
	mockSecret := mocks.NewMockSecretService(testSecret)

	services := &service.Services{
		Comment: mockComment,
		Secret:  mockSecret,
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Admin:  config.AdminConfig{BaseURL: "http://localhost:8080"},
	}

	log := zerolog.Nop()
	router := api.NewRouter(services, cfg, stubStoreHealth{err: healthErr}, log)

	return router, mockComment, mockSecret
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "page-comments-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestHealthEndpoint_StoreDown(t *testing.T) {
	router, _, _ := setupTestRouterWithHealth(errors.New("pq: connection refused"))

	w := doJSON(router, "GET", "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 when the store is unreachable, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["status"] != "unhealthy" {
		t.Errorf("Expected status 'unhealthy', got %v", response["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.Comments[1] = &models.Comment{ID: 1, PageURL: "https://example.com", Status: models.StatusApproved, CreatedAt: time.Now()}
	mockComment.Comments[2] = &models.Comment{ID: 2, PageURL: "https://example.com", Status: models.StatusApproved, CreatedAt: time.Now()}

	w := doJSON(router, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	db := response["database"].(map[string]interface{})
	if db["comments"].(float64) != 2 {
		t.Errorf("Expected 2 comments, got %v", db["comments"])
	}
}

func TestListComments_MissingPageURL(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "GET", "/api/comments", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestListComments_MalformedPageURL(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "GET", "/api/comments?page_url=not%20a%20url", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["error"] == nil {
		t.Error("Expected error envelope")
	}
}

func TestListComments_PublicViewOmitsStatus(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.Comments[1] = &models.Comment{
		ID: 1, PageURL: "https://example.com/post", AuthorName: "Ada",
		CommentContent: "hello", Status: models.StatusApproved, CreatedAt: time.Now(),
	}

	w := doJSON(router, "GET", "/api/comments?page_url=https%3A%2F%2Fexample.com%2Fpost", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Comments []map[string]interface{} `json:"comments"`
		Count    int                      `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response.Count != 1 || len(response.Comments) != 1 {
		t.Fatalf("Expected 1 comment, got count=%d len=%d", response.Count, len(response.Comments))
	}
	if _, present := response.Comments[0]["status"]; present {
		t.Error("Public listing must not include status")
	}
	if response.Comments[0]["author_name"] != "Ada" {
		t.Errorf("Expected author Ada, got %v", response.Comments[0]["author_name"])
	}
}

func TestListComments_EmptyPage(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "GET", "/api/comments?page_url=https%3A%2F%2Fexample.com%2Fempty", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Comments []json.RawMessage `json:"comments"`
		Count    int               `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response.Count != 0 || response.Comments == nil {
		t.Errorf("Expected empty comments array with count 0, got %s", w.Body.String())
	}
}

func TestCreateComment(t *testing.T) {
	router, mockComment, _ := setupTestRouter()

	body := `{"page_url":"https://example.com/post","author_name":"Ada","comment_content":"Nice post"}`
	w := doJSON(router, "POST", "/api/comments", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Success bool                   `json:"success"`
		Comment map[string]interface{} `json:"comment"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if !response.Success {
		t.Error("Expected success true")
	}
	if response.Comment["author_name"] != "Ada" {
		t.Errorf("Expected comment echoed back, got %v", response.Comment)
	}
	if len(mockComment.Comments) != 1 {
		t.Errorf("Expected 1 stored comment, got %d", len(mockComment.Comments))
	}
}

func TestCreateComment_InvalidBody(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "POST", "/api/comments", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestCreateComment_ValidationErrorsCombined(t *testing.T) {
	router, mockComment, _ := setupTestRouter()

	w := doJSON(router, "POST", "/api/comments", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	msg := response["error"]
	for _, field := range []string{"page_url", "author_name", "comment_content"} {
		if !strings.Contains(msg, field) {
			t.Errorf("Expected combined message to mention %s, got %q", field, msg)
		}
	}
	if !strings.Contains(msg, "; ") {
		t.Errorf("Expected semicolon-joined message, got %q", msg)
	}
	if len(mockComment.Comments) != 0 {
		t.Error("Nothing must reach the store on validation failure")
	}
}

func TestCreateComment_AuthorNameLengthEdges(t *testing.T) {
	router, _, _ := setupTestRouter()

	long := strings.Repeat("a", 101)
	body := `{"page_url":"https://example.com/post","author_name":"` + long + `","comment_content":"hi"}`
	w := doJSON(router, "POST", "/api/comments", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for 101-char author, got %d", w.Code)
	}
	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	if !strings.Contains(response["error"], "100 characters or less") {
		t.Errorf("Expected message containing '100 characters or less', got %q", response["error"])
	}

	atLimit := strings.Repeat("a", 100)
	body = `{"page_url":"https://example.com/post","author_name":"` + atLimit + `","comment_content":"hi"}`
	w = doJSON(router, "POST", "/api/comments", body)
	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201 for 100-char author, got %d", w.Code)
	}
}

func TestCreateComment_ContentLengthEdges(t *testing.T) {
	router, _, _ := setupTestRouter()

	long := strings.Repeat("x", 1001)
	body := `{"page_url":"https://example.com/post","author_name":"Ada","comment_content":"` + long + `"}`
	w := doJSON(router, "POST", "/api/comments", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for 1001-char content, got %d", w.Code)
	}

	atLimit := strings.Repeat("x", 1000)
	body = `{"page_url":"https://example.com/post","author_name":"Ada","comment_content":"` + atLimit + `"}`
	w = doJSON(router, "POST", "/api/comments", body)
	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201 for 1000-char content, got %d", w.Code)
	}
}

func TestCreateComment_MalformedPageURL(t *testing.T) {
	router, _, _ := setupTestRouter()

	body := `{"page_url":"not a url","author_name":"Ada","comment_content":"hi"}`
	w := doJSON(router, "POST", "/api/comments", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestDeleteComment_InvalidID(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "DELETE", "/api/comments/abc?secret="+testSecret, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for non-numeric id, got %d", w.Code)
	}
}

func TestDeleteComment_AuthCheckedBeforeExistence(t *testing.T) {
	router, _, _ := setupTestRouter()

	// Nonexistent id with a missing secret: 401, not 404
	w := doJSON(router, "DELETE", "/api/comments/9999999", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 with missing secret, got %d", w.Code)
	}

	w = doJSON(router, "DELETE", "/api/comments/9999999?secret=wrong", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 with wrong secret, got %d", w.Code)
	}

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["error"] != "Unauthorized" {
		t.Errorf("Expected generic Unauthorized message, got %q", response["error"])
	}
}

func TestDeleteComment_NotFoundWithCorrectSecret(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "DELETE", "/api/comments/9999999?secret="+testSecret, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestDeleteComment_ThenRepeatIs404(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.Comments[42] = &models.Comment{ID: 42, PageURL: "https://example.com", Status: models.StatusApproved, CreatedAt: time.Now()}

	w := doJSON(router, "DELETE", "/api/comments/42?secret="+testSecret, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["success"] != true {
		t.Error("Expected success true")
	}

	// The id is permanently gone
	w = doJSON(router, "GET", "/api/comments/all?secret="+testSecret, "")
	if strings.Contains(w.Body.String(), `"id":42`) {
		t.Error("Deleted comment must not appear in the moderation listing")
	}

	w = doJSON(router, "DELETE", "/api/comments/42?secret="+testSecret, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on repeat delete, got %d", w.Code)
	}
}

func TestListAll_RequiresSecret(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "GET", "/api/comments/all", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}

	w = doJSON(router, "GET", "/api/comments/all?secret=wrong", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for wrong secret, got %d", w.Code)
	}
}

func TestListAll_IncludesStatus(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.Comments[1] = &models.Comment{
		ID: 1, PageURL: "https://example.com/post", AuthorName: "Ada",
		CommentContent: "hello", Status: models.StatusApproved, CreatedAt: time.Now(),
	}

	w := doJSON(router, "GET", "/api/comments/all?secret="+testSecret, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Comments []map[string]interface{} `json:"comments"`
		Count    int                      `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response.Count != 1 {
		t.Fatalf("Expected count 1, got %d", response.Count)
	}
	if response.Comments[0]["status"] != models.StatusApproved {
		t.Errorf("Moderation listing must include status, got %v", response.Comments[0])
	}
}

func TestSetup_NewSecretTooShort(t *testing.T) {
	router, _, mockSecret := setupTestRouter()

	w := doJSON(router, "POST", "/setup", `{"currentSecret":"`+testSecret+`","newSecret":"seven77"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for 7-char secret, got %d", w.Code)
	}
	if mockSecret.Secret != testSecret {
		t.Error("Secret must be unchanged after rejected update")
	}
}

func TestSetup_Success(t *testing.T) {
	router, _, mockSecret := setupTestRouter()

	w := doJSON(router, "POST", "/setup", `{"currentSecret":"`+testSecret+`","newSecret":"eight888"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["success"] != true {
		t.Error("Expected success true")
	}
	adminURL, _ := response["adminUrl"].(string)
	if !strings.HasPrefix(adminURL, "http://localhost:8080/admin?secret=") {
		t.Errorf("Expected constructed admin URL, got %q", adminURL)
	}
	if mockSecret.Secret != "eight888" {
		t.Errorf("Expected rotated secret, got %q", mockSecret.Secret)
	}

	// Old secret rejected, new secret accepted
	w = doJSON(router, "GET", "/api/comments/all?secret="+testSecret, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected old secret to be rejected, got %d", w.Code)
	}
	w = doJSON(router, "GET", "/api/comments/all?secret=eight888", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected new secret to be accepted, got %d", w.Code)
	}
}

func TestSetup_WrongCurrentSecret(t *testing.T) {
	router, _, mockSecret := setupTestRouter()

	w := doJSON(router, "POST", "/setup", `{"currentSecret":"wrong","newSecret":"eight888"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
	if mockSecret.Secret != testSecret {
		t.Error("Secret must be unchanged after failed rotation")
	}
}

func TestSetupPage(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "GET", "/setup", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Expected HTML response, got %s", w.Header().Get("Content-Type"))
	}
}

func TestAdminPage(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "GET", "/admin", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without secret, got %d", w.Code)
	}

	w = doJSON(router, "GET", "/admin?secret="+testSecret, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 with secret, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Expected HTML response, got %s", w.Header().Get("Content-Type"))
	}
}

func TestWidgetPage(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "GET", "/comment-widget", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without page_url, got %d", w.Code)
	}

	w = doJSON(router, "GET", "/comment-widget?page_url=https%3A%2F%2Fexample.com%2Fpost", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "https://example.com/post") {
		t.Error("Widget page must embed the target page_url")
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _, _ := setupTestRouter()

	req := httptest.NewRequest("OPTIONS", "/api/comments", nil)
	// httptest defaults the request host to example.com; the Origin must
	// differ or the CORS middleware treats the request as same-origin.
	req.Header.Set("Origin", "https://widget.example.net")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected wildcard origin, got %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "DELETE") {
		t.Errorf("Expected DELETE in allowed methods, got %q", w.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestCORSHeadersOnSimpleRequest(t *testing.T) {
	router, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/comments?page_url=https%3A%2F%2Fexample.com", nil)
	// See TestCORSPreflight: Origin must differ from the httptest default host.
	req.Header.Set("Origin", "https://widget.example.net")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected wildcard origin on JSON response, got %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestUnmatchedRoute(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "GET", "/nope", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["error"] == "" {
		t.Error("Expected JSON error envelope on fallback")
	}
}

func TestListComments_Idempotent(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.Comments[1] = &models.Comment{
		ID: 1, PageURL: "https://example.com/post", AuthorName: "Ada",
		CommentContent: "hello", Status: models.StatusApproved, CreatedAt: time.Now(),
	}

	first := doJSON(router, "GET", "/api/comments?page_url=https%3A%2F%2Fexample.com%2Fpost", "")
	second := doJSON(router, "GET", "/api/comments?page_url=https%3A%2F%2Fexample.com%2Fpost", "")
	if first.Body.String() != second.Body.String() {
		t.Error("Repeated reads with no intervening writes must return identical results")
	}
}

func TestStorageFailureIsGeneric500(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.ListError = errors.New("pq: connection refused")

	w := doJSON(router, "GET", "/api/comments?page_url=https%3A%2F%2Fexample.com", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "pq:") || strings.Contains(w.Body.String(), "connection") {
		t.Errorf("Raw storage detail must not leak to the client: %s", w.Body.String())
	}
}
