package dao

import (
	"fmt"

	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Event{},
		&Layout{},
		&UserElement{},
	)
}

// dropAllTables wipes the schema; only the integration tests use it.
func dropAllTables(db *gorm.DB) error {
	for _, table := range []string{"layouts", "user_elements", "events", "users"} {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return err
		}
	}

	return nil
}
