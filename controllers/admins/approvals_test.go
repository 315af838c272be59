package admins

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SunshineAppV2/baseteen-sub001/database"
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

// newHandlerDB wires database.DB to an in-memory SQLite with just the tables
// the approval handlers touch. Tables with MySQL enum column types get raw
// DDL; SQLite does not parse enum(...).
func newHandlerDB(t *testing.T) *gorm.DB {
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
	} {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	if err := db.AutoMigrate(&models.XPHistory{}, &models.Notification{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		_ = sqlDB.Close()
	})
	return db
}

func asCoordinator(r *http.Request, id uint, role string) *http.Request {
	ctx := context.WithValue(r.Context(), utils.UserIDKey, id)
	ctx = context.WithValue(ctx, utils.UserRoleKey, role)
	return r.WithContext(ctx)
}

func TestRevokeSubmissionHandler_RequiresConfirmation(t *testing.T) {
	db := newHandlerDB(t)

	reviewer := &models.User{Name: "Coord", Email: "coord@example.com", Password: "x", Role: models.RoleMaster}
	member := &models.User{Name: "Ana", Email: "ana@example.com", Password: "x", Role: models.RoleMember, CurrentXP: 80, CompletedTasks: 1}
	for _, u := range []*models.User{reviewer, member} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	awarded := int64(80)
	sub := &models.Submission{
		ID:          models.SubmissionID(1, member.ID),
		TaskID:      1,
		TaskTitle:   "Leitura",
		UserID:      member.ID,
		Proof:       models.Proof{Kind: models.ProofCheck},
		XPReward:    80,
		SubmittedAt: time.Now().UTC(),
		Status:      models.StatusApproved,
		AwardedXP:   &awarded,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	// A bare POST must not debit anything.
	req := httptest.NewRequest(http.MethodPost, "/api/admin/submissions/"+sub.ID+"/revoke", nil)
	req = mux.SetURLVars(asCoordinator(req, reviewer.ID, reviewer.Role), map[string]string{"id": sub.ID})
	rr := httptest.NewRecorder()
	RevokeSubmissionHandler(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bare POST: status = %d, want 400", rr.Code)
	}
	var untouched models.User
	if err := db.First(&untouched, member.ID).Error; err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if untouched.CurrentXP != 80 {
		t.Fatalf("bare POST changed the balance: %d", untouched.CurrentXP)
	}

	// With the confirmation field the revocation goes through.
	body := strings.NewReader(`{"confirm": true}`)
	req = httptest.NewRequest(http.MethodPost, "/api/admin/submissions/"+sub.ID+"/revoke", body)
	req = mux.SetURLVars(asCoordinator(req, reviewer.ID, reviewer.Role), map[string]string{"id": sub.ID})
	rr = httptest.NewRecorder()
	RevokeSubmissionHandler(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("confirmed revoke: status = %d, body %s", rr.Code, rr.Body.String())
	}

	var debited models.User
	if err := db.First(&debited, member.ID).Error; err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if debited.CurrentXP != 0 || debited.CompletedTasks != 0 {
		t.Fatalf("balance after revoke = %d / %d tasks, want 0 / 0", debited.CurrentXP, debited.CompletedTasks)
	}
	var stored models.Submission
	if err := db.First(&stored, "id = ?", sub.ID).Error; err != nil {
		t.Fatalf("reload submission: %v", err)
	}
	if stored.Status != models.StatusPending || stored.AwardedXP != nil {
		t.Fatalf("submission should be pending again: %+v", stored)
	}
}

func TestRevokeSubmissionHandler_FalseConfirmRejected(t *testing.T) {
	db := newHandlerDB(t)

	reviewer := &models.User{Name: "Coord", Email: "coord@example.com", Password: "x", Role: models.RoleMaster}
	member := &models.User{Name: "Bia", Email: "bia@example.com", Password: "x", Role: models.RoleMember}
	for _, u := range []*models.User{reviewer, member} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	awarded := int64(40)
	sub := &models.Submission{
		ID:          models.SubmissionID(2, member.ID),
		TaskID:      2,
		TaskTitle:   "Estudo",
		UserID:      member.ID,
		Proof:       models.Proof{Kind: models.ProofCheck},
		XPReward:    40,
		SubmittedAt: time.Now().UTC(),
		Status:      models.StatusApproved,
		AwardedXP:   &awarded,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	body := strings.NewReader(`{"confirm": false}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/submissions/"+sub.ID+"/revoke", body)
	req = mux.SetURLVars(asCoordinator(req, reviewer.ID, reviewer.Role), map[string]string{"id": sub.ID})
	rr := httptest.NewRecorder()
	RevokeSubmissionHandler(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("confirm=false: status = %d, want 400", rr.Code)
	}
}
