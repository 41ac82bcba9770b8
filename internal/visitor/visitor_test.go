package visitor

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/VyankateshKedar/sparkAppBackend/internal/model"
)

const (
	uaChromeDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaChromeAndroid = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	uaSafariIPad    = "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
)

type staticResolver struct {
	loc Location
	ok  bool
}

func (r staticResolver) Lookup(net.IP) (Location, bool) { return r.loc, r.ok }

func TestClassifyDeviceClass(t *testing.T) {
	c := NewClassifier(nil)
	now := time.Now()

	cases := []struct {
		name string
		ua   string
		want string
	}{
		{name: "desktop chrome", ua: uaChromeDesktop, want: model.DeviceDesktop},
		{name: "android phone", ua: uaChromeAndroid, want: model.DeviceMobile},
		{name: "ipad", ua: uaSafariIPad, want: model.DeviceTablet},
		{name: "empty user agent", ua: "", want: model.DeviceUnknown},
		{name: "curl", ua: "curl/8.4.0", want: model.DeviceUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(Visit{IP: "203.0.113.9", UserAgent: tc.ua}, now)
			assert.Equal(t, tc.want, got.Device)
		})
	}
}

func TestClassifyReferrerDefaultsToDirect(t *testing.T) {
	c := NewClassifier(nil)

	got := c.Classify(Visit{IP: "203.0.113.9"}, time.Now())
	assert.Equal(t, "direct", got.Referrer)

	got = c.Classify(Visit{IP: "203.0.113.9", Referrer: "https://x.com"}, time.Now())
	assert.Equal(t, "https://x.com", got.Referrer)
}

func TestClassifyLocation(t *testing.T) {
	geo := staticResolver{loc: Location{Country: "DE", City: "Berlin"}, ok: true}
	c := NewClassifier(geo)

	got := c.Classify(Visit{IP: "203.0.113.9"}, time.Now())
	assert.Equal(t, "DE", got.Country)
	assert.Equal(t, "Berlin", got.City)
}

func TestClassifySkipsUnresolvableIPs(t *testing.T) {
	// The resolver must never be consulted for these, so a resolver that
	// would answer still yields unknown.
	geo := staticResolver{loc: Location{Country: "DE", City: "Berlin"}, ok: true}
	c := NewClassifier(geo)

	for _, ip := range []string{"", "not-an-ip", "127.0.0.1", "10.0.0.5", "192.168.1.1", "0.0.0.0", "::1"} {
		got := c.Classify(Visit{IP: ip}, time.Now())
		assert.Equal(t, "unknown", got.Country, "ip=%q", ip)
		assert.Equal(t, "unknown", got.City, "ip=%q", ip)
	}
}

func TestClassifyGeoMissIsUnknown(t *testing.T) {
	c := NewClassifier(staticResolver{})

	got := c.Classify(Visit{IP: "203.0.113.9"}, time.Now())
	assert.Equal(t, "unknown", got.Country)
	assert.Equal(t, "unknown", got.City)
}

func TestClassifyPartialGeoAnswer(t *testing.T) {
	geo := staticResolver{loc: Location{Country: "DE"}, ok: true}
	c := NewClassifier(geo)

	got := c.Classify(Visit{IP: "203.0.113.9"}, time.Now())
	assert.Equal(t, "DE", got.Country)
	assert.Equal(t, "unknown", got.City)
}

func TestClassifyStampsTimestamp(t *testing.T) {
	c := NewClassifier(nil)
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	got := c.Classify(Visit{IP: "203.0.113.9", UserAgent: uaChromeDesktop}, now)
	assert.Equal(t, now, got.Timestamp)
	assert.Equal(t, "203.0.113.9", got.IP)
	assert.Equal(t, uaChromeDesktop, got.UserAgent)
}
