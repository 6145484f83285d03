package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kartvizit.link/configs"
	"kartvizit.link/configs/configsdatabase"
	"kartvizit.link/configs/configslog"
	"kartvizit.link/configs/configsredis"
	"kartvizit.link/database"
	"kartvizit.link/pkg/geo"
	"kartvizit.link/routes"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveMigrate bool
	serveSeed    bool
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP sunucusunu başlatır",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "başlamadan önce migration'ları çalıştır")
	serveCmd.Flags().BoolVar(&serveSeed, "seed", false, "başlamadan önce seeder'ları çalıştır")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := configs.GetAppConfig()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	if serveMigrate || serveSeed {
		if err := database.Initialize(configsdatabase.GetDB(), serveMigrate, serveSeed); err != nil {
			return fmt.Errorf("veritabanı hazırlanamadı: %w", err)
		}
	}

	configsredis.InitRedis(cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
	defer configsredis.CloseRedis()

	resolver, closeResolver := buildResolver(cfg)
	defer closeResolver()

	app := routes.NewApp(routes.NewServices(resolver), cfg.IsDevelopment())

	errCh := make(chan error, 1)
	go func() {
		configslog.SLog.Infof("Sunucu %s portunda dinleniyor", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		configslog.Log.Info("Kapatma sinyali alındı", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		configslog.Log.Error("Sunucu düzgün kapatılamadı", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Sunucu kapatıldı")
	return nil
}

// buildResolver GEOIP_DB_PATH tanımlıysa MaxMind veritabanını açar, değilse konum
// çözümlemesi devre dışıdır. Sonuç her durumda Redis önbelleğiyle sarılır.
func buildResolver(cfg *configs.AppConfig) (geo.Resolver, func()) {
	var base geo.Resolver = geo.NoopResolver{}
	closeFn := func() {}

	if cfg.GeoIPDBPath != "" {
		mm, err := geo.OpenMaxMind(cfg.GeoIPDBPath)
		if err != nil {
			configslog.Log.Warn("GeoIP veritabanı açılamadı, konum çözümlemesi devre dışı",
				zap.String("path", cfg.GeoIPDBPath), zap.Error(err))
		} else {
			base = mm
			closeFn = func() { _ = mm.Close() }
		}
	}

	return geo.NewCachedResolver(base, configsredis.GetRedis(), cfg.GeoCacheTTL), closeFn
}
