package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/credential"
	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginFixture struct {
	srv        *httptest.Server
	client     *LoginClient
	loginHits  atomic.Int32
	checkCode  atomic.Int32
	lastQuery  atomic.Value
	lastForm   atomic.Value
	loginReply func(w http.ResponseWriter, r *http.Request)
}

func newLoginFixture(t *testing.T, protocol Protocol, reply func(w http.ResponseWriter, r *http.Request)) *loginFixture {
	t.Helper()
	f := &loginFixture{loginReply: reply}
	f.checkCode.Store(http.StatusOK)

	mux := http.NewServeMux()
	mux.HandleFunc("/generate_204", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(f.checkCode.Load()))
	})
	mux.HandleFunc("/eportal/portal/login", func(w http.ResponseWriter, r *http.Request) {
		f.loginHits.Add(1)
		f.lastQuery.Store(r.URL.Query())
		if r.Method == http.MethodPost {
			_ = r.ParseForm()
			f.lastForm.Store(r.PostForm)
		}
		f.loginReply(w, r)
	})
	f.srv = newServer(t, mux)

	endpoints := Endpoints{
		CheckURLs: []string{f.srv.URL + "/generate_204"},
		InfoURL:   f.srv.URL + "/",
		Protocol:  protocol,
		LoginURL: f.srv.URL + "/eportal/portal/login?callback=dr1003&user_account=%2C0%2C{{account}}" +
			"&user_password={{password}}&wlan_user_ip={{user_ip}}&wlan_ac_ip={{ac_ip}}&wlan_ac_name={{ac_name}}",
	}
	httpClient := newClient()
	lc, err := NewLoginClient(httpClient, NewProber(httpClient, endpoints), endpoints)
	require.NoError(t, err)
	f.client = lc
	return f
}

func jsonpReply(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		fmt.Fprint(w, body)
	}
}

var testCredential = credential.Credential{
	UserID:   "B21000000",
	Password: credential.Basic("p@ss&word"),
	ISP:      credential.IspCMCC,
}

var testAP = ApInfo{UserIP: "10.163.12.34"}

func TestLogin_Success(t *testing.T) {
	f := newLoginFixture(t, ProtocolJSONP, jsonpReply(`dr1003({"result":1,"msg":"Portal协议认证成功！"});`))

	require.NoError(t, f.client.Login(context.Background(), testCredential, testAP))

	q := f.lastQuery.Load().(url.Values)
	assert.Equal(t, ",0,B21000000@cmcc", q["user_account"][0])
	assert.Equal(t, "p@ss&word", q["user_password"][0])
	assert.Equal(t, "10.163.12.34", q["wlan_user_ip"][0])
	assert.Equal(t, "", q["wlan_ac_ip"][0])
}

func TestLogin_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		checkCode int
		wantErr   error
		wantMsg   string
	}{
		{name: "plain json", body: `{"result":1,"msg":""}`},
		{name: "string result", body: `dr1003({"result":"1","msg":""})`},
		{name: "off hours", body: `dr1003({"result":0,"msg":"Rad:Limit Time Err","ret_code":1});`, wantErr: apperrors.ErrOffHours},
		{name: "rejected", body: `dr1003({"result":0,"msg":"ldap auth error","ret_code":1});`, wantErr: apperrors.ErrServerRejected, wantMsg: "ldap auth error"},
		{name: "garbage, network open", body: `<html>oops</html>`, checkCode: http.StatusNoContent},
		{name: "garbage, network closed", body: `<html>oops</html>`, checkCode: http.StatusOK, wantErr: apperrors.ErrAuthFailed},
		{name: "missing result", body: `dr1003({"msg":"?"});`, checkCode: http.StatusOK, wantErr: apperrors.ErrAuthFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLoginFixture(t, ProtocolJSONP, jsonpReply(tt.body))
			if tt.checkCode != 0 {
				f.checkCode.Store(int32(tt.checkCode))
			}

			err := f.client.Login(context.Background(), testCredential, testAP)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			if tt.wantMsg != "" {
				var domainErr *apperrors.Error
				require.True(t, errors.As(err, &domainErr))
				assert.Equal(t, tt.wantMsg, domainErr.Message)
			}
		})
	}
}

func TestLogin_RedirectIsNotFollowed(t *testing.T) {
	f := newLoginFixture(t, ProtocolJSONP, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/generate_204", http.StatusFound)
	})

	err := f.client.Login(context.Background(), testCredential, testAP)
	assert.True(t, errors.Is(err, apperrors.ErrAuthFailed))
	assert.Equal(t, int32(1), f.loginHits.Load())
}

func TestLogin_PasswordError(t *testing.T) {
	f := newLoginFixture(t, ProtocolJSONP, jsonpReply(`{"result":1}`))

	broken, err := credential.ParsePassword("v1$w$AQIDBA==")
	require.NoError(t, err)
	cred := testCredential
	cred.Password = broken

	err = f.client.Login(context.Background(), cred, testAP)
	assert.True(t, errors.Is(err, apperrors.ErrPassword))
	assert.Zero(t, f.loginHits.Load())
}

func TestLogin_Cancelled(t *testing.T) {
	f := newLoginFixture(t, ProtocolJSONP, jsonpReply(`{"result":1}`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, f.client.Login(ctx, testCredential, testAP), context.Canceled)
	assert.Zero(t, f.loginHits.Load())
}

func TestLogin_Form(t *testing.T) {
	f := newLoginFixture(t, ProtocolForm, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><title>认证成功页</title></html>")
	})

	ap := ApInfo{UserIP: "10.1.2.3", ACIP: "10.255.252.150", ACName: "XL-BRAS"}
	require.NoError(t, f.client.Login(context.Background(), testCredential, ap))

	form := f.lastForm.Load().(url.Values)
	assert.Equal(t, ",0,B21000000@cmcc", form["DDDDD"][0])
	assert.Equal(t, "p@ss&word", form["upass"][0])

	q := f.lastQuery.Load().(url.Values)
	assert.Equal(t, "10.255.252.150", q["wlan_ac_ip"][0])
	assert.Equal(t, "", q["user_password"][0])
}

func TestLogin_FormFailureUsesFallback(t *testing.T) {
	f := newLoginFixture(t, ProtocolForm, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>error</html>")
	})

	err := f.client.Login(context.Background(), testCredential, testAP)
	assert.True(t, errors.Is(err, apperrors.ErrAuthFailed))

	f.checkCode.Store(http.StatusNoContent)
	assert.NoError(t, f.client.Login(context.Background(), testCredential, testAP))
}

func TestNewLoginClient_InvalidTemplate(t *testing.T) {
	_, err := NewLoginClient(newClient(), nil, Endpoints{LoginURL: "http://x/?a={{account"})
	assert.True(t, errors.Is(err, apperrors.ErrConfig))
}
