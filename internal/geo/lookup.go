package geo

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

const unknownCountry = "N/A"

// Lookup resolves country codes from a GeoLite2 country database. A nil
// *Lookup is valid and resolves everything to N/A.
type Lookup struct {
	reader *geoip2.Reader
}

func Open(path string) (*Lookup, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database: %w", err)
	}
	return &Lookup{reader: reader}, nil
}

func FromBytes(data []byte) (*Lookup, error) {
	reader, err := geoip2.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("load geoip database: %w", err)
	}
	return &Lookup{reader: reader}, nil
}

func (l *Lookup) CountryCode(ipAddress string) string {
	if l == nil || l.reader == nil {
		return unknownCountry
	}

	ip := net.ParseIP(ipAddress)
	if ip == nil {
		return unknownCountry
	}

	record, err := l.reader.Country(ip)
	if err != nil || record.Country.IsoCode == "" {
		return unknownCountry
	}

	return record.Country.IsoCode
}

func (l *Lookup) Close() error {
	if l == nil || l.reader == nil {
		return nil
	}
	return l.reader.Close()
}
