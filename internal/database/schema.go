package database

import (
	"blogapp/internal/models"

	"gorm.io/gorm"
)

// TableStatus reports whether a model's table exists.
type TableStatus struct {
	Table  string
	Exists bool
}

// Migrate registers the post_likes join model and auto-migrates every
// persistent model. The join table must be set up before AutoMigrate so the
// many2many relation picks up its created_at column and composite key.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Post{}, "Likes", &models.PostLike{}); err != nil {
		return err
	}
	return db.AutoMigrate(PersistentModels()...)
}

// SchemaStatus lists each persistent model's table and whether it exists.
func SchemaStatus(db *gorm.DB) ([]TableStatus, error) {
	migrator := db.Migrator()
	out := make([]TableStatus, 0, len(PersistentModels()))
	for _, model := range PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, err
		}
		out = append(out, TableStatus{
			Table:  stmt.Schema.Table,
			Exists: migrator.HasTable(model),
		})
	}
	return out, nil
}
