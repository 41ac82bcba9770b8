package visitor

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// MaxMindResolver resolves locations from a local MaxMind City database.
type MaxMindResolver struct {
	reader *geoip2.Reader
}

func NewMaxMindResolver(mmdbPath string) (*MaxMindResolver, error) {
	reader, err := geoip2.Open(mmdbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open geoip database: %w", err)
	}
	return &MaxMindResolver{reader: reader}, nil
}

func (r *MaxMindResolver) Close() error {
	return r.reader.Close()
}

func (r *MaxMindResolver) Lookup(ip net.IP) (Location, bool) {
	record, err := r.reader.City(ip)
	if err != nil || record == nil {
		return Location{}, false
	}

	loc := Location{
		Country: record.Country.IsoCode,
		City:    record.City.Names["en"],
	}
	if loc.Country == "" && loc.City == "" {
		return Location{}, false
	}
	return loc, true
}
