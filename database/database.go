package database

import (
	"fmt"
	"lms/config"
	"lms/models"
	courseModels "lms/models/course"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		config.AppConfig.DBHost,
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBName,
		config.AppConfig.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// Open runs migrations against any gorm dialector and installs the result as
// the global instance. Tests use this with the sqlite driver.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	Database = DbInstance{Db: db}
	return db, nil
}

// Migrate performs database migrations
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Organisation{},
		&models.OrganisationUser{},
		&models.Skill{},
		&models.Channel{},
		&models.Level{},
		&models.Tag{},
		&models.OnboardingQuestion{},
		&models.OnboardingQuestionOption{},
		&models.OnboardingResponse{},
		&models.UserChannel{},
		&models.UserLevel{},
		&models.UserSkill{},
		&models.Roadmap{},
		&models.RoadmapItem{},
		&models.ActivityLog{},
		&models.ChatLog{},
		&models.Badge{},
		&models.UserBadge{},
		&courseModels.Course{},
		&courseModels.CourseChannel{},
		&courseModels.CourseTag{},
		&courseModels.Module{},
		&courseModels.ModuleSkill{},
		&courseModels.ModuleTag{},
		&courseModels.Revision{},
		&courseModels.Quiz{},
		&courseModels.Question{},
		&courseModels.QuestionOption{},
		&courseModels.Enrollment{},
		&courseModels.ModuleStatus{},
		&courseModels.QuizResponse{},
		&courseModels.QuizAnswer{},
	)
}
