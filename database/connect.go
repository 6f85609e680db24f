// file: database/connect.go
package database

import (
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/JuanSign/iecom-itb/models"
)

func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		// Duplicate-key inserts surface as gorm.ErrDuplicatedKey so the
		// join-code retry and the email uniqueness check can rely on them.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	// Connections older than an hour are re-established before reuse,
	// which keeps MySQL's wait_timeout from killing pooled connections.
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection successfully established and connection pool configured.")
	return db, nil
}

// MigrateTables creates the account table plus the team and member tables of
// both competition families. Not called at startup; production schemas are
// managed externally.
func MigrateTables(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		return err
	}
	for _, family := range []models.Family{models.FamilyIECOM, models.FamilyNICE} {
		if err := db.Table(family.TeamTable()).AutoMigrate(&models.Team{}); err != nil {
			return err
		}
		if err := db.Table(family.MemberTable()).AutoMigrate(&models.Member{}); err != nil {
			return err
		}
	}
	return nil
}
