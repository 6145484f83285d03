package configsredis

import (
	"context"
	"time"

	"kartvizit.link/configs/configslog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var rdb *redis.Client

// InitRedis adres boş değilse Redis istemcisini kurar. Redis opsiyoneldir:
// bağlantı kurulamazsa istemci nil kalır ve tüketiciler önbelleksiz çalışır.
func InitRedis(addr, password string, dbIndex int) {
	if addr == "" {
		configslog.SLog.Info("REDIS_ADDRESS tanımlı değil, Redis önbelleği devre dışı")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbIndex,
		PoolSize: 50,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		configslog.Log.Warn("Redis'e bağlanılamadı, önbellek devre dışı", zap.String("addr", addr), zap.Error(err))
		_ = client.Close()
		return
	}

	rdb = client
	configslog.SLog.Infof("Redis bağlantısı kuruldu: %s", addr)
}

// GetRedis Redis istemcisini döndürür; yapılandırılmamışsa nil'dir.
func GetRedis() *redis.Client {
	return rdb
}

// CloseRedis istemciyi kapatır.
func CloseRedis() {
	if rdb == nil {
		return
	}
	if err := rdb.Close(); err != nil {
		configslog.Log.Warn("Redis bağlantısı kapatılamadı", zap.Error(err))
	}
	rdb = nil
}
