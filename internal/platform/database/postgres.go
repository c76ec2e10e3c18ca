package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/TLEonTestCase37/devbits/internal/platform/config"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

var DB *sql.DB

func Connect() {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err = DB.Ping(); err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	fmt.Println("Successfully connected to PostgreSQL database!")
}

// Migrate applies pending schema migrations from the configured directory.
func Migrate() {
	driver, err := migratepgx.WithInstance(DB, &migratepgx.Config{})
	if err != nil {
		log.Fatalf("Error creating migration driver: %v", err)
	}

	migrator, err := migrate.NewWithDatabaseInstance(
		"file://"+config.AppConfig.MigrationsDir,
		config.AppConfig.DBName,
		driver,
	)
	if err != nil {
		log.Fatalf("Error creating migrator: %v", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("Error applying migrations: %v", err)
	}
	fmt.Println("Database migrations applied.")
}

func Close() {
	if DB != nil {
		DB.Close()
		fmt.Println("Database connection closed.")
	}
}
