package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync/atomic"

	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
)

// maxBodySize caps how much of a portal page is read.
const maxBodySize = 1 << 20

type apPattern struct {
	re     *regexp.Regexp
	userIP int
	acIP   int
	acName int
}

// APExtractor finds the access-point parameters on a portal page. The
// current page layout is tried first, then the two older redirect formats.
type APExtractor struct {
	patterns []apPattern
}

func NewAPExtractor() *APExtractor {
	return &APExtractor{patterns: []apPattern{
		{re: regexp.MustCompile(`v46ip='([^']+)'`), userIP: 1},
		{re: regexp.MustCompile(`ip=(.*?)&wlanacip=(.*?)&wlanacname=(.*?)"`), userIP: 1, acIP: 2, acName: 3},
		{re: regexp.MustCompile(`UserIP=(.*?)&wlanacname=(.*?)&(.*?)=`), userIP: 1, acName: 2},
	}}
}

// Extract returns the first match with a non-empty user IP.
func (e *APExtractor) Extract(page string) (*ApInfo, bool) {
	for _, p := range e.patterns {
		m := p.re.FindStringSubmatch(page)
		if m == nil {
			continue
		}
		info := &ApInfo{UserIP: m[p.userIP]}
		if p.acIP > 0 {
			info.ACIP = m[p.acIP]
		}
		if p.acName > 0 {
			info.ACName = m[p.acName]
		}
		if info.UserIP == "" {
			continue
		}
		return info, true
	}
	return nil, false
}

// Classify maps a probe response to a status. StatusAuthenticationRequired
// here means "portal detected"; the caller still has to read the info page.
func Classify(code int, body, marker string) Status {
	switch code {
	case http.StatusNoContent:
		return StatusConnected
	case http.StatusOK:
		if strings.Contains(body, marker) {
			return StatusAuthenticationRequired
		}
		return StatusAuthenticationUnknown
	case http.StatusFound, http.StatusTemporaryRedirect:
		return StatusAuthenticationUnknown
	default:
		return StatusDisconnected
	}
}

// Prober checks connectivity by requesting 204 endpoints in rotation.
type Prober struct {
	client    *http.Client
	endpoints Endpoints
	extractor *APExtractor
	next      atomic.Uint32
}

// NewProber creates a prober. Empty endpoint fields take the defaults.
func NewProber(client *http.Client, endpoints Endpoints) *Prober {
	return &Prober{
		client:    client,
		endpoints: endpoints.WithDefaults(),
		extractor: NewAPExtractor(),
	}
}

func (p *Prober) nextCheckURL() string {
	i := p.next.Add(1) - 1
	return p.endpoints.CheckURLs[int(i)%len(p.endpoints.CheckURLs)]
}

// Probe determines the network status.
func (p *Prober) Probe(ctx context.Context) NetworkStatus {
	url := p.nextCheckURL()
	log.Debugf("Probing %s", url)

	code, body, err := p.get(ctx, url)
	if err != nil {
		return NetworkStatus{Status: StatusDisconnected, Cause: err}
	}

	status := Classify(code, body, p.endpoints.Marker)
	switch status {
	case StatusAuthenticationRequired:
		// Older portal pages carry the parameters in the redirect itself.
		if info, ok := p.extractor.Extract(body); ok {
			return NetworkStatus{Status: status, AP: info}
		}
		return p.readApInfo(ctx)
	case StatusAuthenticationUnknown:
		return NetworkStatus{Status: status, Cause: fmt.Errorf("unrecognized response %d from %s", code, url)}
	case StatusDisconnected:
		return NetworkStatus{Status: status, Cause: apperrors.NewNetworkError(fmt.Sprintf("unexpected status %d from %s", code, url), nil)}
	default:
		return NetworkStatus{Status: status}
	}
}

func (p *Prober) readApInfo(ctx context.Context) NetworkStatus {
	code, body, err := p.get(ctx, p.endpoints.InfoURL)
	if err != nil {
		return NetworkStatus{Status: StatusAuthenticationUnknown, Cause: err}
	}
	if code != http.StatusOK {
		return NetworkStatus{Status: StatusAuthenticationUnknown, Cause: fmt.Errorf("portal info page answered %d", code)}
	}
	info, ok := p.extractor.Extract(body)
	if !ok {
		return NetworkStatus{Status: StatusAuthenticationUnknown, Cause: fmt.Errorf("no access point parameters on portal page")}
	}
	return NetworkStatus{Status: StatusAuthenticationRequired, AP: info}
}

// Reachable reports whether a check URL currently answers 204.
func (p *Prober) Reachable(ctx context.Context) bool {
	code, _, err := p.get(ctx, p.nextCheckURL())
	return err == nil && code == http.StatusNoContent
}

func (p *Prober) get(ctx context.Context, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", apperrors.NewInternalError("failed to build request", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, "", apperrors.NewNetworkError("request to "+url+" failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, "", apperrors.NewNetworkError("failed to read response from "+url, err)
	}
	return resp.StatusCode, string(body), nil
}
