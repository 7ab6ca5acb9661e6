package portal

// Protocol selects the login exchange.
type Protocol string

const (
	// ProtocolJSONP is the current eportal GET interface answering with JSONP.
	ProtocolJSONP Protocol = "jsonp"
	// ProtocolForm is the older eportal form POST answering with an HTML page.
	ProtocolForm Protocol = "form"
)

// Template placeholders available in login URLs.
const (
	TagAccount  = "account"
	TagPassword = "password"
	TagUserIP   = "user_ip"
	TagACIP     = "ac_ip"
	TagACName   = "ac_name"
)

const (
	DefaultMarker  = "p.njupt.edu.cn"
	DefaultInfoURL = "http://p.njupt.edu.cn/"

	DefaultLoginURL = "https://p.njupt.edu.cn:802/eportal/portal/login?callback=dr1003&login_method=1" +
		"&user_account=%2C0%2C{{account}}&user_password={{password}}" +
		"&wlan_user_ip={{user_ip}}&wlan_user_ipv6=&wlan_user_mac=000000000000" +
		"&wlan_ac_ip={{ac_ip}}&wlan_ac_name={{ac_name}}&jsVersion=4.1.3&terminal_type=1&lang=zh-cn"

	DefaultFormLoginURL = "http://p.njupt.edu.cn:801/eportal/?c=ACSetting&a=Login&protocol=http:" +
		"&hostname=p.njupt.edu.cn&iTermType=1&wlanuserip={{user_ip}}&wlanacip={{ac_ip}}" +
		"&wlanacname={{ac_name}}&mac=00-00-00-00-00-00&ip={{user_ip}}&enAdvert=0&queryACIP=0&loginMethod=1"
)

// DefaultCheckURLs answer 204 when the internet is reachable.
var DefaultCheckURLs = []string{
	"http://connect.rom.miui.com/generate_204",
	"http://connectivitycheck.platform.hicloud.com/generate_204",
	"http://wifi.vivo.com.cn/generate_204",
	"http://www.gstatic.com/generate_204",
}

// DefaultOffHoursMessages are portal replies meaning logins are closed for the night.
var DefaultOffHoursMessages = []string{
	"Rad:Limit Time Err",
	"Rad:Oppp error: Limit Time Err",
	"本时段禁止上网",
}

// Endpoints describes the portal. Zero fields take the defaults.
type Endpoints struct {
	CheckURLs        []string
	InfoURL          string
	LoginURL         string
	Protocol         Protocol
	Marker           string
	OffHoursMessages []string
}

// WithDefaults returns a copy with every empty field set to its default.
func (e Endpoints) WithDefaults() Endpoints {
	if len(e.CheckURLs) == 0 {
		e.CheckURLs = DefaultCheckURLs
	}
	if e.InfoURL == "" {
		e.InfoURL = DefaultInfoURL
	}
	if e.Protocol == "" {
		e.Protocol = ProtocolJSONP
	}
	if e.LoginURL == "" {
		if e.Protocol == ProtocolForm {
			e.LoginURL = DefaultFormLoginURL
		} else {
			e.LoginURL = DefaultLoginURL
		}
	}
	if e.Marker == "" {
		e.Marker = DefaultMarker
	}
	if len(e.OffHoursMessages) == 0 {
		e.OffHoursMessages = DefaultOffHoursMessages
	}
	return e
}
