package services

import (
	"kartvizit.link/models"
	"kartvizit.link/pkg/scancode"

	"github.com/google/uuid"
)

// IScanLinkService kartvizitlerin scan callback URL'lerini ve QR kodlarını üretir.
type IScanLinkService interface {
	Mint(id uuid.UUID) ([]byte, string, error)
	CallbackURL(id uuid.UUID) string
	PreviewURL(id uuid.UUID) string
	NeedsRemint(card *models.Card) bool
}

// ScanLinkService yapılandırılmış servis adresiyle çalışır. Durumsuzdur.
type ScanLinkService struct {
	baseURL string
	size    int
}

func NewScanLinkService(baseURL string, size int) *ScanLinkService {
	return &ScanLinkService{baseURL: baseURL, size: size}
}

// Mint kartvizit kimliği için PNG QR kodunu ve içine gömülen URL'yi döndürür.
func (s *ScanLinkService) Mint(id uuid.UUID) ([]byte, string, error) {
	return scancode.Mint(s.baseURL, id, s.size)
}

func (s *ScanLinkService) CallbackURL(id uuid.UUID) string {
	return scancode.CallbackURL(s.baseURL, id)
}

// PreviewURL scan sonrası yönlendirilen herkese açık önizleme sayfasıdır.
func (s *ScanLinkService) PreviewURL(id uuid.UUID) string {
	return scancode.PreviewURL(s.baseURL, id)
}

// NeedsRemint kayıtlı kod güncel callback URL'sinden farklıysa (örn. servis adresi değişti) true döner.
func (s *ScanLinkService) NeedsRemint(card *models.Card) bool {
	if card == nil {
		return false
	}
	return len(card.ScanCode) == 0 || card.ScanCodeURL != s.CallbackURL(card.ID)
}

var _ IScanLinkService = (*ScanLinkService)(nil)
