package utils

import (
	"encoding/json"
	"lms/database"
	"lms/models"
	"log"

	"gorm.io/datatypes"
)

// LogActivity records an action in the organisation activity feed. Failures
// are logged and swallowed so they never fail the calling request.
func LogActivity(userID, organisationID uint, action string, metadata, displayMetadata map[string]interface{}) {
	entry := models.ActivityLog{
		UserID:         userID,
		OrganisationID: organisationID,
		Action:         action,
	}

	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			entry.Metadata = datatypes.JSON(raw)
		}
	}
	if displayMetadata != nil {
		if raw, err := json.Marshal(displayMetadata); err == nil {
			entry.DisplayMetadata = datatypes.JSON(raw)
		}
	}

	if err := database.Database.Db.Create(&entry).Error; err != nil {
		log.Printf("Failed to write activity log for user %d: %v", userID, err)
	}
}
