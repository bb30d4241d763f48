package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/academic-records/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		AdminEmail:    "admin@example.com",
		AdminPassword: "letmein",
		JWTSecret:     "test-secret",
		SessionTTLMin: 60,
		BcryptCost:    4,
	}
}

// postForm builds an echo context for a form submission.
func postForm(path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// getPage builds an echo context for a GET request.
func getPage(path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asSession injects the context values the session middleware would
// set for an authenticated request.
func asSession(c echo.Context, userID uint64, role, name string) {
	c.Set("user_id", userID)
	c.Set("role", role)
	c.Set("name", name)
}

// flashFrom returns the flash message set on the response, if any.
func flashFrom(rec *httptest.ResponseRecorder) string {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == flashCookie && ck.MaxAge >= 0 {
			msg, err := url.QueryUnescape(ck.Value)
			if err != nil {
				return ""
			}
			return msg
		}
	}
	return ""
}

// sessionCookieFrom returns the session cookie set on the response, or
// nil when none was issued.
func sessionCookieFrom(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "session" {
			return ck
		}
	}
	return nil
}
