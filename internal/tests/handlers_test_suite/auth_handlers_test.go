package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http"
	handler "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http/handlers"
)

func postJSON(r http.Handler, path string, payload any, bearer string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterHandler(t *testing.T) {
	r := api.NewRouter()

	w := postJSON(r, "/register", handler.CredentialsRequest{Username: "abebe", Password: "secret123"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.RegisterResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token for the new user")
	}

	w = postJSON(r, "/register", handler.CredentialsRequest{Username: "abebe", Password: "secret123"}, "")
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 on duplicate username, got %d", w.Code)
	}
}

func TestRegisterHandler_TooShort(t *testing.T) {
	r := api.NewRouter()

	w := postJSON(r, "/register", handler.CredentialsRequest{Username: "ab", Password: "short"}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for short credentials, got %d", w.Code)
	}
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	r := api.NewRouter()

	w := postJSON(r, "/login", handler.CredentialsRequest{Username: "admin", Password: "wrong"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 Unauthorized, got %d", w.Code)
	}
}

func TestRefreshHandler(t *testing.T) {
	r := api.NewRouter()

	w := postJSON(r, "/login", handler.CredentialsRequest{Username: "admin", Password: "secret"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on login, got %d", w.Code)
	}
	var login handler.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&login); err != nil {
		t.Fatalf("error decoding login: %v", err)
	}
	if login.RefreshToken == "" {
		t.Fatal("expected a refresh token on login")
	}

	w = postJSON(r, "/refresh", handler.RefreshRequest{RefreshToken: login.RefreshToken}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on refresh, got %d: %s", w.Code, w.Body.String())
	}
	var refreshed handler.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&refreshed); err != nil {
		t.Fatalf("error decoding refresh: %v", err)
	}
	if refreshed.Token == "" || refreshed.RefreshToken == "" {
		t.Error("expected new token pair on refresh")
	}

	// Refresh tokens are single use.
	w = postJSON(r, "/refresh", handler.RefreshRequest{RefreshToken: login.RefreshToken}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 on redeemed token, got %d", w.Code)
	}
}

func TestRegisterAsAdminHandler(t *testing.T) {
	r := api.NewRouter()

	w := postJSON(r, "/admin/users", handler.RegisterAsAdminRequest{
		Username: "annotator1",
		Password: "secret123",
		Role:     "annotator",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterAsAdminHandler_Forbidden(t *testing.T) {
	r := api.NewRouter()

	w := postJSON(r, "/register", handler.CredentialsRequest{Username: "kebede", Password: "secret123"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 registering plain user, got %d", w.Code)
	}

	userToken, err := generateToken(r, "kebede", "secret123")
	if err != nil {
		t.Fatalf("error generating token: %v", err)
	}

	w = postJSON(r, "/admin/users", handler.RegisterAsAdminRequest{
		Username: "sneaky",
		Password: "secret123",
		Role:     "admin",
	}, userToken)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 Forbidden for non-admin, got %d", w.Code)
	}
}
