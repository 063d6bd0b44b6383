package service

import (
	"testing"
	"time"

	"daily-bread/internal/calendar"
	"daily-bread/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite store. Connections are capped at one
// so every goroutine sees the same database and writes serialize the way a
// single remote store would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.ContentUnit{}, &model.CompletionRecord{},
		&model.Message{}, &model.UserBadge{}, &model.DeviceToken{},
	))
	return db
}

func seedDevotional(t *testing.T, db *gorm.DB, date, title string) model.ContentUnit {
	t.Helper()
	u := model.ContentUnit{Kind: model.KindDevotional, AssignedDate: date, Title: title}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedChapter(t *testing.T, db *gorm.DB, date, book string, chapter int) model.ContentUnit {
	t.Helper()
	u := model.ContentUnit{Kind: model.KindChapter, AssignedDate: date, Book: book, Chapter: chapter}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedUser(t *testing.T, db *gorm.DB, username string) model.User {
	t.Helper()
	u := model.User{Username: username, Name: username, Role: model.RoleDisciple}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func fixedResolver(t time.Time) *calendar.Resolver {
	return &calendar.Resolver{Now: func() time.Time { return t }}
}
