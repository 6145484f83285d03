// Package geo scan event'leri için kaynak adresten çevrimdışı konum çözümler.
//
// Çözümleme her zaman en iyi çabadır: başarısız, zaman aşımına uğrayan veya bozuk
// adresli sorgular hata değil, Unknown() sonucunu üretir.
package geo

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// UnknownName çözülemeyen şehir/ülke için kullanılır.
const UnknownName = "Unknown"

var (
	ErrMalformedAddress = errors.New("geçersiz IP adresi")
	ErrNotFound         = errors.New("adres için konum bulunamadı")
)

// Location bir kaynak adresin en iyi çabayla çözülmüş konumudur.
type Location struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
}

// Unknown çözülemeyen konumun sabit karşılığıdır.
func Unknown() Location {
	return Location{City: UnknownName, Country: UnknownName}
}

// IsUnknown konumun hiçbir bilgi taşımadığını bildirir.
func (l Location) IsUnknown() bool {
	return l.Latitude == nil && l.Longitude == nil && l.City == UnknownName && l.Country == UnknownName
}

// fill boş şehir/ülke alanlarını Unknown ile doldurur.
func (l Location) fill() Location {
	if l.City == "" {
		l.City = UnknownName
	}
	if l.Country == "" {
		l.Country = UnknownName
	}
	return l
}

// Resolver bir adresi konuma çevirir. Uygulamalar hata döndürebilir;
// hatayı sentinel'e çevirmek LookupWithTimeout'un işidir.
type Resolver interface {
	Lookup(ctx context.Context, addr string) (Location, error)
}

// NoopResolver GeoIP veritabanı yapılandırılmadığında kullanılır.
type NoopResolver struct{}

func (NoopResolver) Lookup(context.Context, string) (Location, error) {
	return Unknown(), nil
}

// LookupWithTimeout r.Lookup'ı d süresiyle sınırlar. Asla hata döndürmez: zaman aşımı,
// hata veya boş sonuç Unknown() olur.
func LookupWithTimeout(ctx context.Context, r Resolver, addr string, d time.Duration) Location {
	if r == nil || net.ParseIP(addr) == nil {
		return Unknown()
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		loc Location
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- result{err: errors.New("geo lookup panic")}
			}
		}()
		loc, err := r.Lookup(ctx, addr)
		ch <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return Unknown()
	case res := <-ch:
		if res.err != nil {
			return Unknown()
		}
		return res.loc.fill()
	}
}

// NormalizeAddress X-Forwarded-For benzeri ham değerden tek bir IP çıkarır: ilk girdiyi
// alır, port ve IPv6 içine gömülü IPv4 önekini ("::ffff:") atar.
func NormalizeAddress(raw string) string {
	addr := strings.TrimSpace(raw)
	if i := strings.IndexByte(addr, ','); i >= 0 {
		addr = strings.TrimSpace(addr[:i])
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	addr = strings.TrimPrefix(addr, "[")
	addr = strings.TrimSuffix(addr, "]")
	if strings.HasPrefix(strings.ToLower(addr), "::ffff:") {
		addr = addr[len("::ffff:"):]
	}
	return addr
}
