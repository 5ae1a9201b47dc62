package database

import "github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Reply{},
		&models.Reaction{},
		&models.Share{},
		&models.Media{},
		&models.Photo{},
		&models.FriendRequest{},
		&models.PostCounter{},
	}
}
