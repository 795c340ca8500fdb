package model

import (
	"gorm.io/gorm"
)

// Models every model migrated by AutoMigrate, in dependency order
var Models = []any{
	&User{},
	&Note{},
	&NoteSharedUser{},
	&NoteHistory{},
}

// AutoMigrate migrates the named model, or every model when key is empty.
// AutoMigrate 迁移指定模型，key 为空时迁移全部
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "":
		return db.AutoMigrate(Models...)
	case "User":
		return db.AutoMigrate(&User{})
	case "Note":
		return db.AutoMigrate(&Note{})
	case "NoteSharedUser":
		return db.AutoMigrate(&NoteSharedUser{})
	case "NoteHistory":
		return db.AutoMigrate(&NoteHistory{})
	}
	return nil
}
