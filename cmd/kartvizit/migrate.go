package main

import (
	"fmt"

	"kartvizit.link/configs/configsdatabase"
	"kartvizit.link/database"

	"github.com/spf13/cobra"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Veritabanı tablolarını oluşturur/günceller",
	RunE: func(cmd *cobra.Command, args []string) error {
		configsdatabase.InitDB()
		defer configsdatabase.CloseDB()

		if err := database.Initialize(configsdatabase.GetDB(), true, migrateSeed); err != nil {
			return fmt.Errorf("migration başarısız: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migration tamamlandı")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "şablon seeder'larını da çalıştır")
}
