package geo

import (
	"context"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// MaxMindResolver GeoLite2-City/GeoIP2-City .mmdb dosyasından okuma yapar.
// Okuyucu eşzamanlı kullanım için güvenlidir.
type MaxMindResolver struct {
	db *geoip2.Reader
}

// OpenMaxMind veritabanı dosyasını açar.
func OpenMaxMind(path string) (*MaxMindResolver, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &MaxMindResolver{db: db}, nil
}

func (m *MaxMindResolver) Lookup(ctx context.Context, addr string) (Location, error) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return Unknown(), ErrMalformedAddress
	}
	if err := ctx.Err(); err != nil {
		return Unknown(), err
	}

	record, err := m.db.City(ip)
	if err != nil {
		return Unknown(), err
	}

	loc := Location{
		City:    record.City.Names["en"],
		Country: record.Country.Names["en"],
	}
	// Özel/ayrılmış adresler boş kayıt döndürür; 0,0 koordinatı gerçek bir konum sayılmaz.
	if record.Location.Latitude != 0 || record.Location.Longitude != 0 {
		lat, lon := record.Location.Latitude, record.Location.Longitude
		loc.Latitude, loc.Longitude = &lat, &lon
	}
	if loc.City == "" && loc.Country == "" && loc.Latitude == nil {
		return Unknown(), ErrNotFound
	}
	return loc.fill(), nil
}

// Close veritabanı dosyasını serbest bırakır.
func (m *MaxMindResolver) Close() error {
	return m.db.Close()
}
