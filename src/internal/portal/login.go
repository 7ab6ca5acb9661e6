package portal

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/credential"
	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
	"github.com/valyala/fasttemplate"
)

// formSuccessMarker appears on the page returned by a successful form login.
const formSuccessMarker = "成功"

// LoginClient performs the portal login exchange.
type LoginClient struct {
	client    *http.Client
	prober    *Prober
	endpoints Endpoints
	loginURL  *fasttemplate.Template
}

// NewLoginClient validates the login URL template and returns a client.
// The prober is used to confirm the outcome when the response cannot be read.
func NewLoginClient(client *http.Client, prober *Prober, endpoints Endpoints) (*LoginClient, error) {
	endpoints = endpoints.WithDefaults()
	tpl, err := fasttemplate.NewTemplate(endpoints.LoginURL, "{{", "}}")
	if err != nil {
		return nil, apperrors.NewConfigError("invalid login url template", err)
	}
	return &LoginClient{
		client:    client,
		prober:    prober,
		endpoints: endpoints,
		loginURL:  tpl,
	}, nil
}

// Login authenticates cred on the access point. It returns nil on success,
// an OFF_HOURS or SERVER_REJECTED error when the portal refuses, a
// PASSWORD_ERROR when the password cannot be recovered, and
// AUTHENTICATION_FAILED when the outcome is unknown and the network is still closed.
func (c *LoginClient) Login(ctx context.Context, cred credential.Credential, ap ApInfo) error {
	account := cred.DeriveAccount()
	secret, err := cred.Password.Get()
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if c.endpoints.Protocol == ProtocolForm {
		return c.loginForm(ctx, account, secret, ap)
	}
	return c.loginJSONP(ctx, account, secret, ap)
}

func (c *LoginClient) renderURL(account, secret string, ap ApInfo) string {
	return c.loginURL.ExecuteString(map[string]interface{}{
		TagAccount:  url.QueryEscape(account),
		TagPassword: url.QueryEscape(secret),
		TagUserIP:   url.QueryEscape(ap.UserIP),
		TagACIP:     url.QueryEscape(ap.ACIP),
		TagACName:   url.QueryEscape(ap.ACName),
	})
}

func (c *LoginClient) loginJSONP(ctx context.Context, account, secret string, ap ApInfo) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.renderURL(account, secret, ap), nil)
	if err != nil {
		return apperrors.NewConfigError("invalid login url", err)
	}

	body, err := c.do(req)
	if err != nil {
		log.Warnf("Login request failed: %v", err)
		return c.fallback(ctx)
	}

	resp, err := parseLoginResponse(body)
	if err != nil {
		log.Warnf("Failed to parse login response: %v", err)
		return c.fallback(ctx)
	}

	if *resp.Result == 1 {
		return nil
	}
	if c.isOffHours(resp.Msg) {
		return apperrors.ErrOffHours
	}
	return apperrors.NewServerRejectedError(resp.Msg)
}

func (c *LoginClient) loginForm(ctx context.Context, account, secret string, ap ApInfo) error {
	form := url.Values{
		"R1":            {"0"},
		"R2":            {"0"},
		"R3":            {"0"},
		"R6":            {"0"},
		"para":          {"0"},
		"0MKKey":        {"123456"},
		"buttonClicked": {""},
		"redirect_url":  {""},
		"err_flag":      {""},
		"username":      {""},
		"password":      {""},
		"user":          {""},
		"cmd":           {""},
		"Login":         {""},
		"v6ip":          {""},
		"DDDDD":         {",0," + account},
		"upass":         {secret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.renderURL(account, "", ap), strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.NewConfigError("invalid login url", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		log.Warnf("Login request failed: %v", err)
	} else if strings.Contains(string(body), formSuccessMarker) {
		return nil
	}
	return c.fallback(ctx)
}

// do returns the body of a 2xx response.
func (c *LoginClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("login request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to read login response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewNetworkError("login answered "+resp.Status, nil)
	}
	return body, nil
}

// fallback treats an unreadable login response as success if the network is now open.
func (c *LoginClient) fallback(ctx context.Context) error {
	if ctx.Err() == nil && c.prober.Reachable(ctx) {
		log.Infof("Login response was not understood but the network is reachable")
		return nil
	}
	return apperrors.ErrAuthFailed
}

func (c *LoginClient) isOffHours(msg string) bool {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return false
	}
	for _, m := range c.endpoints.OffHoursMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
