package middleware // middleware provides reusable request processing shared by the handlers

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/academic-records/internal/utils"
)

// SessionCookie is the name of the cookie carrying the signed session
// token.  It is the only client-side state the application keeps.
const SessionCookie = "session"

// SessionAuth returns an Echo middleware that validates the session
// cookie and injects the caller's identity into the request context
// under "user_id", "role" and "name".  Requests without a valid
// session are redirected to the login page with a `next` parameter
// pointing back at the original URL, so the browser lands where it
// was headed after logging in.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return redirectToLogin(c)
			}
			claims, err := utils.ParseSessionToken(secret, cookie.Value)
			if err != nil {
				// Expired or tampered cookie; drop it so the browser
				// does not resend it on every request.
				c.SetCookie(&http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
				return redirectToLogin(c)
			}
			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)
			c.Set("name", claims.Name)
			return next(c)
		}
	}
}

func redirectToLogin(c echo.Context) error {
	next := c.Request().URL.RequestURI()
	return c.Redirect(http.StatusSeeOther, "/login/?next="+url.QueryEscape(next))
}
