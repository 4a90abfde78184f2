package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/util"
	"recruit-backend/internal/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func buildTestApp(t *testing.T) *App {
	t.Helper()
	app, err := Build(config.Config{
		Env:                "dev",
		AccessTokenSecret:  "test-access-secret",
		RefreshTokenSecret: "test-refresh-secret",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *App, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return envelope.Data
}

func decodeDataList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return envelope.Data
}

func signUpAndIn(t *testing.T, app *App, email, name string) (accessToken, refreshToken string) {
	t.Helper()
	w := doJSON(t, app, http.MethodPost, "/auth/sign-up", "", gin.H{
		"email":           email,
		"password":        "secret1",
		"passwordConfirm": "secret1",
		"name":            name,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("sign-up status %d: %s", w.Code, w.Body.String())
	}
	return signIn(t, app, email)
}

func signIn(t *testing.T, app *App, email string) (accessToken, refreshToken string) {
	t.Helper()
	w := doJSON(t, app, http.MethodPost, "/auth/sign-in", "", gin.H{
		"email":    email,
		"password": "secret1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("sign-in status %d: %s", w.Code, w.Body.String())
	}
	data := decodeData(t, w)
	access, _ := data["accessToken"].(string)
	refresh, _ := data["refreshToken"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("expected token pair, got %s", w.Body.String())
	}
	return access, refresh
}

func seedRecruiter(t *testing.T, app *App, email, name string) {
	t.Helper()
	hash, err := util.HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	err = app.UsersRepo.Create(context.Background(), users.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         users.RoleRecruiter,
	})
	if err != nil {
		t.Fatalf("seed recruiter: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	app := buildTestApp(t)
	w := doJSON(t, app, http.MethodGet, "/health-check", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("unexpected health response %d: %s", w.Code, w.Body.String())
	}
}

func TestProtectedRoutesRequireCredential(t *testing.T) {
	app := buildTestApp(t)

	w := doJSON(t, app, http.MethodGet, "/resumes", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "credentials required") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestResumeLifecycle(t *testing.T) {
	app := buildTestApp(t)
	statement := strings.Repeat("a", 150)

	applicantAccess, _ := signUpAndIn(t, app, "alice@example.com", "Alice")

	// Profile reflects the default role.
	w := doJSON(t, app, http.MethodGet, "/users", applicantAccess, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status %d: %s", w.Code, w.Body.String())
	}
	if role := decodeData(t, w)["role"]; role != users.RoleApplicant {
		t.Fatalf("expected role %s, got %v", users.RoleApplicant, role)
	}

	// 149 characters is rejected, 150 accepted.
	w = doJSON(t, app, http.MethodPost, "/resumes", applicantAccess, gin.H{
		"title":             "Backend engineer",
		"personalStatement": strings.Repeat("a", 149),
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short statement, got %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, app, http.MethodPost, "/resumes", applicantAccess, gin.H{
		"title":             "Backend engineer",
		"personalStatement": statement,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", w.Code, w.Body.String())
	}
	created := decodeData(t, w)
	resumeID, _ := created["id"].(string)
	if resumeID == "" || created["applicationStatus"] != "APPLY" || created["name"] != "Alice" {
		t.Fatalf("unexpected created resume %s", w.Body.String())
	}

	// Owner sees the resume in the list.
	w = doJSON(t, app, http.MethodGet, "/resumes", applicantAccess, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status %d: %s", w.Code, w.Body.String())
	}
	if items := decodeDataList(t, w); len(items) != 1 || items[0]["id"] != resumeID {
		t.Fatalf("unexpected list %s", w.Body.String())
	}

	// Applicants may not run the status workflow.
	w = doJSON(t, app, http.MethodPatch, "/resumes/"+resumeID+"/status", applicantAccess, gin.H{
		"applicationStatus": "PASS",
		"reason":            "self-serve",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for applicant transition, got %d: %s", w.Code, w.Body.String())
	}

	seedRecruiter(t, app, "rita@example.com", "Rita")
	recruiterAccess, _ := signIn(t, app, "rita@example.com")

	// Recruiters may not author resumes.
	w = doJSON(t, app, http.MethodPost, "/resumes", recruiterAccess, gin.H{
		"title":             "Recruiter resume",
		"personalStatement": statement,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for recruiter create, got %d: %s", w.Code, w.Body.String())
	}

	// Recruiter sees the applicant's resume.
	w = doJSON(t, app, http.MethodGet, "/resumes/"+resumeID, recruiterAccess, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("recruiter get status %d: %s", w.Code, w.Body.String())
	}

	// Same-status transition is rejected, a real one logged.
	w = doJSON(t, app, http.MethodPatch, "/resumes/"+resumeID+"/status", recruiterAccess, gin.H{
		"applicationStatus": "APPLY",
		"reason":            "no change",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for same-status transition, got %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, app, http.MethodPatch, "/resumes/"+resumeID+"/status", recruiterAccess, gin.H{
		"applicationStatus": "PASS",
		"reason":            "strong profile",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("transition status %d: %s", w.Code, w.Body.String())
	}
	log := decodeData(t, w)
	if log["prevStatus"] != "APPLY" || log["currStatus"] != "PASS" || log["name"] != "Rita" {
		t.Fatalf("unexpected transition log %s", w.Body.String())
	}

	w = doJSON(t, app, http.MethodGet, "/resumes/"+resumeID+"/logs", recruiterAccess, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logs status %d: %s", w.Code, w.Body.String())
	}
	logs := decodeDataList(t, w)
	if len(logs) != 1 || logs[0]["prevStatus"] != "APPLY" || logs[0]["currStatus"] != "PASS" {
		t.Fatalf("unexpected logs %s", w.Body.String())
	}

	// An update must carry at least one field.
	w = doJSON(t, app, http.MethodPatch, "/resumes/"+resumeID, applicantAccess, gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty update, got %d: %s", w.Code, w.Body.String())
	}

	// Owner update and delete round out the lifecycle.
	w = doJSON(t, app, http.MethodPatch, "/resumes/"+resumeID, applicantAccess, gin.H{
		"title": "Platform engineer",
	})
	if w.Code != http.StatusOK || decodeData(t, w)["title"] != "Platform engineer" {
		t.Fatalf("update status %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, app, http.MethodDelete, "/resumes/"+resumeID, applicantAccess, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, app, http.MethodGet, "/resumes/"+resumeID, applicantAccess, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOwnershipIsolation(t *testing.T) {
	app := buildTestApp(t)
	statement := strings.Repeat("a", 150)

	aliceAccess, _ := signUpAndIn(t, app, "alice@example.com", "Alice")
	amirAccess, _ := signUpAndIn(t, app, "amir@example.com", "Amir")

	w := doJSON(t, app, http.MethodPost, "/resumes", aliceAccess, gin.H{
		"title":             "Backend engineer",
		"personalStatement": statement,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", w.Code, w.Body.String())
	}
	resumeID, _ := decodeData(t, w)["id"].(string)

	if w := doJSON(t, app, http.MethodGet, "/resumes/"+resumeID, amirAccess, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected foreign read 404, got %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, app, http.MethodPatch, "/resumes/"+resumeID, amirAccess, gin.H{"title": "Mine now"}); w.Code != http.StatusNotFound {
		t.Fatalf("expected foreign update 404, got %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, app, http.MethodDelete, "/resumes/"+resumeID, amirAccess, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected foreign delete 404, got %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, app, http.MethodGet, "/resumes", amirAccess, nil); w.Code != http.StatusOK {
		t.Fatalf("list status %d: %s", w.Code, w.Body.String())
	} else if items := decodeDataList(t, w); len(items) != 0 {
		t.Fatalf("expected empty list for non-owner, got %s", w.Body.String())
	}
}

func TestSessionRenewalAndSignOut(t *testing.T) {
	app := buildTestApp(t)

	_, refresh := signUpAndIn(t, app, "alice@example.com", "Alice")

	w := doJSON(t, app, http.MethodPatch, "/auth/renew", refresh, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("renew status %d: %s", w.Code, w.Body.String())
	}
	renewed := decodeData(t, w)
	newRefresh, _ := renewed["refreshToken"].(string)
	if newRefresh == "" || newRefresh == refresh {
		t.Fatalf("expected a rotated refresh token, got %s", w.Body.String())
	}

	// The replaced token no longer renews.
	w = doJSON(t, app, http.MethodPatch, "/auth/renew", refresh, nil)
	if w.Code != http.StatusUnauthorized || !strings.Contains(w.Body.String(), "credentials revoked") {
		t.Fatalf("expected revoked old token, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, app, http.MethodPost, "/auth/sign-out", newRefresh, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-out status %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, app, http.MethodPatch, "/auth/renew", newRefresh, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected renew to fail after sign-out, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAccessTokenRejectedOnRefreshPath(t *testing.T) {
	app := buildTestApp(t)

	access, _ := signUpAndIn(t, app, "alice@example.com", "Alice")

	w := doJSON(t, app, http.MethodPatch, "/auth/renew", access, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected access token rejected on refresh path, got %d: %s", w.Code, w.Body.String())
	}
}
