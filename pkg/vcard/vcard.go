// Package vcard kartvizit alanlarını vCard 3.0 metnine dönüştürür.
//
// Çıktının çerçevesi (BEGIN/VERSION/END), satır sonları (CRLF), alan etiketleri ve kaçış
// kuralları üçüncü parti rehber uygulamalarıyla uyumluluk sözleşmesidir; değiştirilmemelidir.
package vcard

import (
	"strings"
)

const crlf = "\r\n"

// Layout 3 ("minimal") sosyal profil ve not satırlarını okumaz.
const minimalLayoutID uint = 3

// Fields ada göre (kırpılmış) değer döndüren alan kaynağıdır; models.CardFields bunu sağlar.
type Fields interface {
	Get(name string) string
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// Escape metni kırpar ve vCard kurallarına göre kaçışlar.
func Escape(s string) string {
	return escaper.Replace(strings.TrimSpace(s))
}

// Unescape Escape'in tersidir. Başka üreticilerin yazdığı `\N` de satır sonu sayılır;
// tanınmayan kaçış dizileri olduğu gibi bırakılır.
func Unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		next := s[i+1]
		switch next {
		case 'n', 'N':
			b.WriteByte('\n')
		case '\\', ';', ',':
			b.WriteByte(next)
		default:
			b.WriteByte(c)
			b.WriteByte(next)
		}
		i++
	}
	return b.String()
}

// NormalizePhone rakamlar ve baştaki tek bir '+' dışındaki tüm karakterleri atar.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	if strings.HasPrefix(raw, "+") {
		b.WriteByte('+')
	}
	digits := 0
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			digits++
		}
	}
	if digits == 0 {
		return ""
	}
	return b.String()
}

// FullName açık "name" alanını tercih eder, yoksa ad ve soyadı tek boşlukla birleştirir.
func FullName(f Fields) string {
	if name := f.Get("name"); name != "" {
		return name
	}
	return strings.TrimSpace(f.Get("firstName") + " " + f.Get("lastName"))
}

// Serialize alanları vCard 3.0 metnine çevirir. Saf fonksiyondur, hata döndürmez.
//
// Sadece "name" verildiğinde ad/soyad ayrıştırılmaz: N satırı "N:;;;;" olur.
func Serialize(f Fields, layoutID uint) string {
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + Escape(FullName(f)),
		"N:" + Escape(f.Get("lastName")) + ";" + Escape(f.Get("firstName")) + ";;;",
	}

	add := func(tag, value string) {
		if value != "" {
			lines = append(lines, tag+":"+value)
		}
	}

	add("ORG", Escape(f.Get("companyName")))
	add("TITLE", Escape(f.Get("jobTitle")))
	add("TEL;TYPE=WORK,VOICE", NormalizePhone(f.Get("phone")))
	add("TEL;TYPE=CELL", NormalizePhone(f.Get("mobile")))
	add("EMAIL;TYPE=WORK,INTERNET", Escape(f.Get("email")))
	add("URL", Escape(f.Get("website")))

	if adr, ok := address(f); ok {
		lines = append(lines, "ADR;TYPE=WORK:"+adr)
	}

	if layoutID != minimalLayoutID {
		add("X-SOCIALPROFILE;TYPE=linkedin", Escape(f.Get("linkedin")))
		add("X-SOCIALPROFILE;TYPE=twitter", Escape(f.Get("twitter")))

		note := f.Get("note")
		if note == "" {
			note = f.Get("bio")
		}
		add("NOTE", Escape(note))
	}

	lines = append(lines, "END:VCARD")
	return strings.Join(lines, crlf)
}

// address ADR değerini üretir: posta kutusu ve ek adres boş, ardından
// sokak;şehir;bölge;posta kodu;ülke. Hiçbir bileşen yoksa ok=false.
func address(f Fields) (string, bool) {
	parts := []string{
		Escape(f.Get("address")),
		Escape(f.Get("city")),
		Escape(f.Get("state")),
		Escape(f.Get("postalCode")),
		Escape(f.Get("country")),
	}
	for _, p := range parts {
		if p != "" {
			return ";;" + strings.Join(parts, ";"), true
		}
	}
	return "", false
}

var fileNameReplacer = strings.NewReplacer(
	"ç", "c", "Ç", "c", "ğ", "g", "Ğ", "g", "ı", "i", "İ", "i",
	"ö", "o", "Ö", "o", "ş", "s", "Ş", "s", "ü", "u", "Ü", "u",
)

// FileName indirme için güvenli bir .vcf dosya adı üretir.
func FileName(f Fields) string {
	name := strings.ToLower(fileNameReplacer.Replace(FullName(f)))
	var b strings.Builder
	dash := false
	for _, r := range name {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		slug = "contact"
	}
	return slug + ".vcf"
}
