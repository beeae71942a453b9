package main

import (
	"log"

	"wspace-be/internal/config"
	"wspace-be/pkg/database"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/spf13/cobra"
)

func main() {
	var driver, dsn string

	open := func() (*gormigrate.Gormigrate, error) {
		cfg := config.Load()
		if driver == "" {
			driver = cfg.Database.Driver
		}
		if dsn == "" {
			dsn = cfg.Database.Connection
		}
		db, err := database.NewGormDB(driver, dsn)
		if err != nil {
			return nil, err
		}
		return database.GetMigrator(db), nil
	}

	root := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}
	root.PersistentFlags().StringVar(&driver, "driver", "", "postgres or sqlite (default DB_DRIVER)")
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "connection string (default DB_CONNECTION_STRING)")

	root.AddCommand(&cobra.Command{
		Use:   "up [migration-id]",
		Short: "Migrate to the latest version, or up to the given migration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				err = m.MigrateTo(args[0])
			} else {
				err = m.Migrate()
			}
			if err != nil {
				return err
			}
			log.Println("✅ Migration completed")
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "down [migration-id]",
		Short: "Roll back the last migration, or down to the given migration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				err = m.RollbackTo(args[0])
			} else {
				err = m.RollbackLast()
			}
			if err != nil {
				return err
			}
			log.Println("✅ Rollback completed")
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
