package model

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/assetkid/gallery/src/utils/build_info"
	"github.com/assetkid/gallery/src/utils/config"
	l "github.com/assetkid/gallery/src/utils/logger"
	"github.com/assetkid/gallery/src/utils/model/sql_migrations"

	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const MigrationTable = "gallery_migrations"

// Opens a pooled connection and pings the database
func Connect(ctx context.Context, dbConfig *config.Database, username, password, applicationName string) (self *gorm.DB, err error) {
	log := l.NewSublogger("db")

	dsn, cleanup, err := dataSourceName(dbConfig, username, password, applicationName)
	if err != nil {
		return
	}
	defer cleanup()

	self, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	})
	if err != nil {
		return
	}

	db, err := self.DB()
	if err != nil {
		return
	}

	db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	db.SetConnMaxIdleTime(dbConfig.ConnMaxIdleTime)
	db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	err = ping(ctx, dbConfig, self)
	if err != nil {
		return
	}

	log.WithField("application", applicationName).WithField("host", dbConfig.Host).Debug("Connected to database")
	return
}

// Certificates given as values are written to temporary files, removed by cleanup once the driver has read them
func dataSourceName(dbConfig *config.Database, username, password, applicationName string) (dsn string, cleanup func(), err error) {
	var files []string
	cleanup = func() {
		for _, f := range files {
			os.Remove(f)
		}
	}

	params := []string{
		"host=" + dbConfig.Host,
		fmt.Sprintf("port=%d", dbConfig.Port),
		"user=" + username,
		"password=" + password,
		"dbname=" + dbConfig.Name,
		"sslmode=" + dbConfig.SslMode,
		fmt.Sprintf("application_name=%s/gallery/%s", applicationName, build_info.Version),
	}

	cert, key, ca := dbConfig.ClientCertPath, dbConfig.ClientKeyPath, dbConfig.CaCertPath
	if cert == "" || key == "" || ca == "" {
		if dbConfig.ClientCert == "" || dbConfig.ClientKey == "" || dbConfig.CaCert == "" {
			// No TLS client certificates
			return strings.Join(params, " "), cleanup, nil
		}

		for _, pem := range []struct {
			path    *string
			name    string
			content string
		}{
			{&cert, "cert.pem", dbConfig.ClientCert},
			{&key, "key.pem", dbConfig.ClientKey},
			{&ca, "ca.pem", dbConfig.CaCert},
		} {
			*pem.path, err = writeTemp(pem.name, pem.content)
			if err != nil {
				cleanup()
				return
			}
			files = append(files, *pem.path)
		}
	}

	params = append(params, "sslcert="+cert, "sslkey="+key, "sslrootcert="+ca)
	return strings.Join(params, " "), cleanup, nil
}

func writeTemp(name, content string) (path string, err error) {
	f, err := os.CreateTemp("", name)
	if err != nil {
		return
	}
	defer f.Close()

	_, err = f.WriteString(content)
	if err != nil {
		os.Remove(f.Name())
		return
	}
	return f.Name(), nil
}

// Applies migrations with the migration user, then connects with the regular one
func NewConnection(ctx context.Context, config *config.Config, applicationName string) (self *gorm.DB, err error) {
	err = Migrate(ctx, config)
	if err != nil {
		return
	}

	return Connect(ctx, &config.Database, config.Database.User, config.Database.Password, applicationName)
}

// Applies all pending migrations
func Migrate(ctx context.Context, config *config.Config) (err error) {
	_, err = ExecMigrations(ctx, config, migrate.Up, 0)
	return
}

// Runs at most max migrations in the given direction, 0 is no limit.
// Skipped when no migration user is configured. Clears the migration credentials afterwards.
func ExecMigrations(ctx context.Context, config *config.Config, direction migrate.MigrationDirection, max int) (n int, err error) {
	log := l.NewSublogger("db-migrate")

	if config.Database.MigrationUser == "" || config.Database.MigrationPassword == "" {
		log.Info("Migration user not set, skipping migrations")
		return
	}

	self, err := Connect(ctx, &config.Database, config.Database.MigrationUser, config.Database.MigrationPassword, "migration")
	if err != nil {
		return
	}

	db, err := self.DB()
	if err != nil {
		return
	}
	defer db.Close()

	migrations := &migrate.HttpFileSystemMigrationSource{
		FileSystem: http.FS(sql_migrations.FS),
	}

	migrate.SetTable(MigrationTable)
	n, err = migrate.ExecMax(db, "postgres", migrations, direction, max)
	if err != nil {
		return
	}

	log.WithField("num", n).WithField("down", direction == migrate.Down).Info("Applied migrations")

	config.Database.MigrationUser = ""
	config.Database.MigrationPassword = ""

	return
}

func ping(ctx context.Context, dbConfig *config.Database, db *gorm.DB) (err error) {
	if dbConfig.PingTimeout < 0 {
		// Ping disabled
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, dbConfig.PingTimeout)
	defer cancel()

	return sqlDB.PingContext(ctx)
}
