package ledger

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

// newTestDB opens an in-memory SQLite database carrying the module's schema.
// Models that declare MySQL enum column types get hand-written DDL here,
// because SQLite does not parse enum(...) and AutoMigrate would fail on them.
// The single-connection pool keeps every session on the same :memory: database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			password TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'member',
			union_id INTEGER,
			association_id INTEGER,
			region_id INTEGER,
			district_id INTEGER,
			base_id INTEGER,
			current_xp INTEGER NOT NULL DEFAULT 0,
			completed_tasks INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			status TEXT NOT NULL DEFAULT 'Active',
			fcm_token TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL DEFAULT 'check',
			points INTEGER NOT NULL DEFAULT 0,
			deadline DATETIME,
			start_at DATETIME,
			scope TEXT NOT NULL DEFAULT 'global',
			union_id INTEGER,
			association_id INTEGER,
			region_id INTEGER,
			district_id INTEGER,
			base_id INTEGER,
			tag TEXT,
			collective INTEGER NOT NULL DEFAULT 0,
			active INTEGER NOT NULL DEFAULT 1,
			created_by INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE submissions (
			id TEXT PRIMARY KEY,
			task_id INTEGER NOT NULL,
			task_title TEXT NOT NULL DEFAULT '',
			user_id INTEGER NOT NULL,
			base_id INTEGER,
			district_id INTEGER,
			proof TEXT,
			xp_reward INTEGER NOT NULL DEFAULT 0,
			submitted_at DATETIME NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			awarded_xp INTEGER,
			feedback TEXT,
			timeline TEXT,
			reviewed_at DATETIME,
			reviewed_by INTEGER,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE base_submissions (
			id TEXT PRIMARY KEY,
			task_id INTEGER NOT NULL,
			task_title TEXT NOT NULL DEFAULT '',
			base_id INTEGER NOT NULL,
			district_id INTEGER,
			proof TEXT,
			xp_reward INTEGER NOT NULL DEFAULT 0,
			submitted_at DATETIME NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			awarded_xp INTEGER,
			feedback TEXT,
			timeline TEXT,
			reviewed_at DATETIME,
			reviewed_by INTEGER,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE quizzes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			questions TEXT,
			xp_reward INTEGER NOT NULL DEFAULT 0,
			start_at DATETIME,
			end_at DATETIME,
			scope TEXT NOT NULL DEFAULT 'global',
			union_id INTEGER,
			association_id INTEGER,
			region_id INTEGER,
			district_id INTEGER,
			base_id INTEGER,
			active INTEGER NOT NULL DEFAULT 1,
			created_by INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	if err := db.AutoMigrate(
		&models.Base{},
		&models.XPHistory{},
		&models.BaseXPHistory{},
		&models.Notification{},
		&models.AttendanceConfig{},
		&models.AttendanceDay{},
		&models.QuizAttempt{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedMember(t *testing.T, db *gorm.DB, name string, baseID *uint) *models.User {
	t.Helper()
	u := &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hash",
		Role:     models.RoleMember,
		BaseID:   baseID,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return u
}

func seedTask(t *testing.T, db *gorm.DB, title string, points int64) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:  title,
		Kind:   models.TaskKindCheck,
		Points: points,
		Scope:  models.ScopeGlobal,
		Active: true,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

func userBalance(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}
	return &u
}

func historyFor(t *testing.T, db *gorm.DB, userID uint) []models.XPHistory {
	t.Helper()
	var entries []models.XPHistory
	if err := db.Where("user_id = ?", userID).Order("id ASC").Find(&entries).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	return entries
}

func sumHistory(entries []models.XPHistory) int64 {
	var sum int64
	for _, e := range entries {
		sum += e.Amount
	}
	return sum
}
