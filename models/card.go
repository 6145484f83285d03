package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Bilinen alan adları. Sözlük açıktır; şablonlar burada olmayan alanlar da kullanabilir.
const (
	FieldName         = "name"
	FieldFirstName    = "firstName"
	FieldLastName     = "lastName"
	FieldJobTitle     = "jobTitle"
	FieldCompanyName  = "companyName"
	FieldPhone        = "phone"
	FieldMobile       = "mobile"
	FieldEmail        = "email"
	FieldWebsite      = "website"
	FieldAddress      = "address"
	FieldCity         = "city"
	FieldState        = "state"
	FieldPostalCode   = "postalCode"
	FieldCountry      = "country"
	FieldLinkedIn     = "linkedin"
	FieldTwitter      = "twitter"
	FieldProfileImage = "profileImage"
	FieldBio          = "bio"
	FieldNote         = "note"
)

// CardField sıralı alan listesindeki tek bir ad/değer çiftidir.
type CardField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CardFields kartvizitin sıralı alan listesidir. Ad bir kart içinde tekildir.
type CardFields []CardField

// Get adı eşleşen ilk alanın boşlukları kırpılmış değerini döndürür.
func (f CardFields) Get(name string) string {
	for _, field := range f {
		if field.Name == name {
			return strings.TrimSpace(field.Value)
		}
	}
	return ""
}

// Has alan mevcut ve boş değilse true döner.
func (f CardFields) Has(name string) bool {
	return f.Get(name) != ""
}

// Card dijital kartvizitin ana kaydıdır.
type Card struct {
	BaseModel
	OwnerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"ownerId"`
	LayoutID uint      `gorm:"not null;index" json:"layoutId"`

	Fields datatypes.JSONType[CardFields] `gorm:"type:jsonb;not null" json:"fields"`

	// Scan kodu oluşturulduğunda bir kez üretilir; içindeki URL değişmedikçe yeniden üretilmez.
	ScanCode    []byte `gorm:"type:bytea" json:"-"`
	ScanCodeURL string `gorm:"type:varchar(512)" json:"scanCodeUrl"`

	// Bu kartı referans alan scan event'lerinin önbelleği. Eşzamanlı yazımlarda güncelleme
	// kaybedebilir; sayım için asla kaynak olarak kullanılmaz.
	ScanEventRefs datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb" json:"-"`

	Layout *Layout `gorm:"foreignKey:LayoutID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"layout,omitempty"`
}

// FieldList alan listesini döndürür.
func (c *Card) FieldList() CardFields {
	return c.Fields.Data()
}

// ScanCount liste görünümleri için önbellekteki scan sayısıdır (ipucu).
func (c *Card) ScanCount() int {
	return len(c.ScanEventRefs)
}

// MarshalJSON önbellekteki scan sayısını "scanCount" olarak yanıta ekler.
func (c Card) MarshalJSON() ([]byte, error) {
	type cardAlias Card
	return json.Marshal(struct {
		cardAlias
		ScanCount int `json:"scanCount"`
	}{cardAlias(c), c.ScanCount()})
}
