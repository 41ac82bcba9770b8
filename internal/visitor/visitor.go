package visitor

import (
	"net"
	"time"

	ua "github.com/mileusna/useragent"

	"github.com/VyankateshKedar/sparkAppBackend/internal/model"
)

// Visit is the raw request context captured for a tracked hit.
type Visit struct {
	IP        string
	UserAgent string
	Referrer  string
}

// Location is a resolved IP location. Fields fall back to "unknown".
type Location struct {
	Country string
	City    string
}

// GeoResolver maps an IP to a location. A miss is reported via ok=false,
// never an error.
type GeoResolver interface {
	Lookup(ip net.IP) (Location, bool)
}

// Classifier turns a raw visit into a visitor record. It never fails;
// anything it cannot resolve degrades to "unknown".
type Classifier struct {
	geo GeoResolver
}

func NewClassifier(geo GeoResolver) *Classifier {
	if geo == nil {
		geo = NoopResolver{}
	}
	return &Classifier{geo: geo}
}

// Classify resolves device class and location for one visit.
func (c *Classifier) Classify(v Visit, now time.Time) model.Visitor {
	referrer := v.Referrer
	if referrer == "" {
		referrer = "direct"
	}

	loc := c.locate(v.IP)

	return model.Visitor{
		IP:        v.IP,
		UserAgent: v.UserAgent,
		Device:    deviceClass(v.UserAgent),
		Country:   loc.Country,
		City:      loc.City,
		Referrer:  referrer,
		Timestamp: now,
	}
}

// deviceClass resolves the device with mobile winning ties over tablet,
// and tablet over desktop.
func deviceClass(rawUA string) string {
	agent := ua.Parse(rawUA)
	switch {
	case agent.Mobile:
		return model.DeviceMobile
	case agent.Tablet:
		return model.DeviceTablet
	case agent.Desktop:
		return model.DeviceDesktop
	default:
		return model.DeviceUnknown
	}
}

func (c *Classifier) locate(rawIP string) Location {
	unknown := Location{Country: "unknown", City: "unknown"}

	ip := net.ParseIP(rawIP)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return unknown
	}

	loc, ok := c.geo.Lookup(ip)
	if !ok {
		return unknown
	}
	if loc.Country == "" {
		loc.Country = "unknown"
	}
	if loc.City == "" {
		loc.City = "unknown"
	}
	return loc
}

// NoopResolver always misses. Used when no GeoIP database is configured.
type NoopResolver struct{}

func (NoopResolver) Lookup(net.IP) (Location, bool) { return Location{}, false }
