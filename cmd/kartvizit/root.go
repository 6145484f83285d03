package main

import (
	"fmt"

	"kartvizit.link/configs"
	"kartvizit.link/configs/configslog"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kartvizit",
	Short: "kartvizit.link dijital kartvizit servisi",
	Long: `kartvizit.link dijital kartvizitleri barındırır, scan kodlarını üretir
ve her taramayı konum ve cihaz bilgisiyle kaydeder.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		configslog.SyncLogger()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Sürüm bilgisini yazdırır",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "kartvizit v0.1.0")
	},
}

// loadConfig her komuttan önce .env ve ortam değişkenlerini okur, loglayıcıyı kurar.
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := configs.LoadAppConfig()
	if err != nil {
		return fmt.Errorf("yapılandırma yüklenemedi: %w", err)
	}
	configs.SetAppConfig(cfg)
	configslog.InitLogger()
	return nil
}
