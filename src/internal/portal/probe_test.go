package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const portalPage = `<html><script>v46ip='10.163.12.34';v4serip='10.10.244.11'</script></html>`

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
		want Status
	}{
		{"no content", http.StatusNoContent, "", StatusConnected},
		{"portal page", http.StatusOK, `<script>location.href="http://p.njupt.edu.cn/a79.htm"</script>`, StatusAuthenticationRequired},
		{"other page", http.StatusOK, "<html>hotel wifi</html>", StatusAuthenticationUnknown},
		{"found", http.StatusFound, "", StatusAuthenticationUnknown},
		{"temporary redirect", http.StatusTemporaryRedirect, "", StatusAuthenticationUnknown},
		{"moved permanently", http.StatusMovedPermanently, "", StatusDisconnected},
		{"server error", http.StatusInternalServerError, "", StatusDisconnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.code, tt.body, DefaultMarker))
		})
	}
}

func TestAPExtractor(t *testing.T) {
	extractor := NewAPExtractor()

	tests := []struct {
		name string
		page string
		want *ApInfo
	}{
		{"current portal", portalPage, &ApInfo{UserIP: "10.163.12.34"}},
		{
			"dormitory redirect",
			`<a href="http://p.njupt.edu.cn/?ip=10.1.2.3&wlanacip=10.255.252.150&wlanacname=XL-BRAS-SR8806-X">`,
			&ApInfo{UserIP: "10.1.2.3", ACIP: "10.255.252.150", ACName: "XL-BRAS-SR8806-X"},
		},
		{
			"library redirect",
			`href="http://p.njupt.edu.cn/?UserIP=10.9.8.7&wlanacname=TSG-AC&ssid=NJUPT"`,
			&ApInfo{UserIP: "10.9.8.7", ACName: "TSG-AC"},
		},
		{"empty ip", `v46ip=''`, nil},
		{"nothing", "<html></html>", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractor.Extract(tt.page)
			if tt.want == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewProber_OwnsExtractor(t *testing.T) {
	a := NewProber(newClient(), Endpoints{})
	b := NewProber(newClient(), Endpoints{})

	require.NotNil(t, a.extractor)
	assert.NotSame(t, a.extractor, b.extractor)
	_, ok := a.extractor.Extract(portalPage)
	assert.True(t, ok)
}

func portalEndpoints(srv *httptest.Server, checkPaths ...string) Endpoints {
	var urls []string
	for _, p := range checkPaths {
		urls = append(urls, srv.URL+p)
	}
	return Endpoints{CheckURLs: urls, InfoURL: srv.URL + "/"}
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name     string
		check    http.HandlerFunc
		info     http.HandlerFunc
		want     Status
		wantIP   string
		infoHits int32
	}{
		{
			name:  "connected",
			check: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) },
			want:  StatusConnected,
		},
		{
			name: "portal",
			check: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<script>top.self.location.href='http://p.njupt.edu.cn/a79.htm'</script>`)
			},
			info:     func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, portalPage) },
			want:     StatusAuthenticationRequired,
			wantIP:   "10.163.12.34",
			infoHits: 1,
		},
		{
			name: "portal with parameters in redirect",
			check: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<a href="http://p.njupt.edu.cn/?ip=10.1.2.3&wlanacip=10.0.0.1&wlanacname=AC">`)
			},
			want:   StatusAuthenticationRequired,
			wantIP: "10.1.2.3",
		},
		{
			name: "portal page without parameters",
			check: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `p.njupt.edu.cn`)
			},
			info:     func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "<html></html>") },
			want:     StatusAuthenticationUnknown,
			infoHits: 1,
		},
		{
			name:  "foreign portal",
			check: func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "welcome to hotel wifi") },
			want:  StatusAuthenticationUnknown,
		},
		{
			name: "redirect is not followed",
			check: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/", http.StatusFound)
			},
			want: StatusAuthenticationUnknown,
		},
		{
			name:  "server error",
			check: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			want:  StatusDisconnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var infoHits atomic.Int32
			mux := http.NewServeMux()
			mux.HandleFunc("/generate_204", tt.check)
			mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
				infoHits.Add(1)
				if tt.info != nil {
					tt.info(w, r)
				}
			})
			srv := newServer(t, mux)

			p := NewProber(newClient(), portalEndpoints(srv, "/generate_204"))
			got := p.Probe(context.Background())

			assert.Equal(t, tt.want, got.Status, "status %s", got)
			if tt.wantIP != "" {
				require.NotNil(t, got.AP)
				assert.Equal(t, tt.wantIP, got.AP.UserIP)
			} else {
				assert.Nil(t, got.AP)
			}
			assert.Equal(t, tt.infoHits, infoHits.Load())
		})
	}
}

func TestProbe_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoints := portalEndpoints(srv, "/generate_204")
	srv.Close()

	p := NewProber(newClient(), endpoints)
	got := p.Probe(context.Background())
	assert.Equal(t, StatusDisconnected, got.Status)
	assert.Error(t, got.Cause)
}

func TestProbe_HostnameThroughResolver(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/generate_204", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Host, "connect.rom.miui.com:"))
		w.WriteHeader(http.StatusNoContent)
	})
	srv := newServer(t, mux)
	port := srv.URL[strings.LastIndex(srv.URL, ":")+1:]

	p := NewProber(newClient(), Endpoints{CheckURLs: []string{"http://connect.rom.miui.com:" + port + "/generate_204"}})
	assert.Equal(t, StatusConnected, p.Probe(context.Background()).Status)
}

func TestProbe_RoundRobin(t *testing.T) {
	var hitsA, hitsB atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		hitsA.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		hitsB.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	srv := newServer(t, mux)

	p := NewProber(newClient(), portalEndpoints(srv, "/a", "/b"))
	for i := 0; i < 4; i++ {
		p.Probe(context.Background())
	}
	assert.Equal(t, int32(2), hitsA.Load())
	assert.Equal(t, int32(2), hitsB.Load())
}

func TestProbe_Cancelled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/generate_204", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := newServer(t, mux)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProber(newClient(), portalEndpoints(srv, "/generate_204"))
	assert.Equal(t, StatusDisconnected, p.Probe(ctx).Status)
}
