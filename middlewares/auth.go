package middlewares

import (
	"errors"
	"strings"

	"kartvizit.link/configs"
	"kartvizit.link/configs/configslog"
	"kartvizit.link/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IdentityKey doğrulanmış kimliğin c.Locals altındaki anahtarıdır.
const IdentityKey = "identity"

// AuthMiddleware "Authorization: Bearer <token>" başlığını doğrular ve kimliği Locals'a yazar.
func AuthMiddleware(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(tokenString) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Yetkilendirme gerekli"})
	}

	identity, err := auth.ParseToken(strings.TrimSpace(tokenString), []byte(configs.GetAppConfig().JWTSecret))
	if err != nil {
		msg := "Geçersiz token"
		if errors.Is(err, auth.ErrTokenExpired) {
			msg = "Token süresi dolmuş"
		}
		configslog.Log.Debug("AuthMiddleware: token reddedildi", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
	}

	c.Locals(IdentityKey, identity)
	return c.Next()
}

// RequireSystem sadece sistem yöneticilerinin geçmesine izin verir. AuthMiddleware'den sonra kullanılmalı.
func RequireSystem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Yetkilendirme gerekli"})
		}
		if !identity.IsSystem {
			configslog.Log.Warn("Yönetici olmayan kullanıcı yönetici rotasına erişmeye çalıştı",
				zap.String("user_id", identity.UserID.String()),
				zap.String("path", c.Path()),
			)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Bu işlem için yetkiniz yok"})
		}
		return c.Next()
	}
}

// GetIdentity AuthMiddleware'in yazdığı kimliği okur.
func GetIdentity(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(IdentityKey).(auth.Identity)
	return identity, ok
}
