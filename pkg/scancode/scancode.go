// Package scancode kartvizit kayıtlarına ait callback URL'sini QR koda çevirir.
package scancode

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

// ScanPath ingestion endpoint'inin, PreviewPath herkese açık önizlemenin sabit yoludur.
const (
	ScanPath    = "/scan/"
	PreviewPath = "/c/"
)

var ErrInvalidBaseURL = errors.New("scan kodu için mutlak bir base URL gerekli")

// CallbackURL kayıt kimliğiyle adreslenen, doğrudan açılabilir mutlak URL'yi üretir.
func CallbackURL(baseURL string, id uuid.UUID) string {
	return strings.TrimRight(baseURL, "/") + ScanPath + id.String()
}

// PreviewURL scan sonrası yönlendirilen önizleme sayfasının mutlak adresidir.
func PreviewURL(baseURL string, id uuid.UUID) string {
	return strings.TrimRight(baseURL, "/") + PreviewPath + id.String()
}

// Mint callback URL'sini en yüksek hata düzeltme seviyesinde PNG olarak kodlar; basılı
// kartın bir kısmı kirlense de kod okunabilir kalır. Aynı kimlik her zaman aynı içeriği üretir.
func Mint(baseURL string, id uuid.UUID, size int) (png []byte, url string, err error) {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, "", ErrInvalidBaseURL
	}
	url = CallbackURL(baseURL, id)
	png, err = qrcode.Encode(url, qrcode.Highest, size)
	if err != nil {
		return nil, "", err
	}
	return png, url, nil
}
