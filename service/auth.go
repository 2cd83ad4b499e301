package service

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yaoapp/kun/log"

	"github.com/nirman-app/nirman/user"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login the password sign-in entry point. On success the client gets
// the token and the post-login route; on failure the provider's error
// text, nothing more specific.
func (service *Service) login(c *gin.Context) {
	req := loginRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, 400, err)
		return
	}

	res, err := user.PasswordSignIn(service.store, req.Email, req.Password)
	if err != nil {
		abort(c, 401, err)
		return
	}

	service.setSessionCookie(c, res.Token, res.ExpiresAt)
	c.JSON(200, res)
}

// oauthAuthorize redirect the browser to the provider's consent page
func (service *Service) oauthAuthorize(c *gin.Context) {
	if !service.provider.Configured() {
		abort(c, 503, fmt.Errorf("no OAuth provider is configured"))
		return
	}

	state := user.NewState()
	service.states.put(state)
	c.Redirect(http.StatusFound, service.provider.AuthorizeURL(state))
}

// oauthCallback the provider's redirect target. Completes the code
// exchange and lands the browser on the dashboard.
func (service *Service) oauthCallback(c *gin.Context) {
	if errCode := c.Query("error"); errCode != "" {
		service.failLogin(c, fmt.Errorf("%s: %s", errCode, c.Query("error_description")))
		return
	}

	state := c.Query("state")
	if !service.states.take(state) {
		service.failLogin(c, fmt.Errorf("invalid or expired state token"))
		return
	}

	code := c.Query("code")
	if code == "" {
		service.failLogin(c, fmt.Errorf("authorization code is missing"))
		return
	}

	res, err := service.provider.CallbackSignIn(c.Request.Context(), service.store, code)
	if err != nil {
		service.failLogin(c, err)
		return
	}

	service.setSessionCookie(c, res.Token, res.ExpiresAt)
	c.Redirect(http.StatusFound, service.conf.OAuth.SuccessURL)
}

// failLogin land the browser back on the sign-in page with the raw
// error text, no navigation to the dashboard
func (service *Service) failLogin(c *gin.Context, err error) {
	log.Warn("[auth] sign-in failed: %s", err.Error())
	c.Redirect(http.StatusFound, "/?error="+url.QueryEscape(err.Error()))
}

func (service *Service) setSessionCookie(c *gin.Context, token string, expiresAt int64) {
	maxAge := int(time.Until(time.Unix(expiresAt, 0)).Seconds())
	c.SetCookie("nirman_token", token, maxAge, "/", "", false, true)
}

// stateStore remembers outstanding OAuth state tokens for one
// authorization round-trip
type stateStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[string]time.Time
}

func newStateStore(ttl time.Duration) *stateStore {
	return &stateStore{ttl: ttl, states: map[string]time.Time{}}
}

func (store *stateStore) put(state string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	now := time.Now()
	for key, issued := range store.states {
		if now.Sub(issued) > store.ttl {
			delete(store.states, key)
		}
	}
	store.states[state] = now
}

// take consume a state token, valid exactly once
func (store *stateStore) take(state string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	issued, has := store.states[state]
	if !has {
		return false
	}
	delete(store.states, state)
	return time.Since(issued) <= store.ttl
}
