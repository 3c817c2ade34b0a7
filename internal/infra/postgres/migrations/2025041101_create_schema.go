package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_schema.sql
var createSchemaSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createSchemaSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`
				DROP TABLE IF EXISTS test_results;
				DROP TABLE IF EXISTS tests;
				DROP TABLE IF EXISTS wordbook_students;
				DROP TABLE IF EXISTS words;
				DROP TABLE IF EXISTS wordbooks;
				DROP TABLE IF EXISTS users;
			`)
			return err
		},
	)
}
