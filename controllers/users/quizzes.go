package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/SunshineAppV2/baseteen-sub001/database"
	"github.com/SunshineAppV2/baseteen-sub001/ledger"
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

// visibleQuizzes mirrors visibleTasks: global quizzes plus anything owned by
// a tier the member belongs to.
func visibleQuizzes(db *gorm.DB, u *models.User) *gorm.DB {
	q := db.Model(&models.Quiz{}).Where("active = ?", true)
	cond := db.Where("scope = ?", models.ScopeGlobal)
	if u.UnionID != nil {
		cond = cond.Or("union_id = ?", *u.UnionID)
	}
	if u.AssociationID != nil {
		cond = cond.Or("association_id = ?", *u.AssociationID)
	}
	if u.RegionID != nil {
		cond = cond.Or("region_id = ?", *u.RegionID)
	}
	if u.DistrictID != nil {
		cond = cond.Or("district_id = ?", *u.DistrictID)
	}
	if u.BaseID != nil {
		cond = cond.Or("base_id = ?", *u.BaseID)
	}
	return q.Where(cond)
}

// quizQuestionView is the question as members see it: no correct answer.
type quizQuestionView struct {
	Text      string   `json:"text"`
	Options   []string `json:"options"`
	Points    int64    `json:"points"`
	TimeLimit int      `json:"time_limit,omitempty"`
}

type quizView struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []quizQuestionView  `json:"questions"`
	XPReward    int64               `json:"xp_reward"`
	StartAt     *time.Time          `json:"start_at,omitempty"`
	EndAt       *time.Time          `json:"end_at,omitempty"`
	Attempt     *models.QuizAttempt `json:"attempt,omitempty"`
}

func viewOf(q *models.Quiz, attempt *models.QuizAttempt) quizView {
	questions := make([]quizQuestionView, 0, len(q.Questions))
	for _, qq := range q.Questions {
		questions = append(questions, quizQuestionView{
			Text:      qq.Text,
			Options:   qq.Options,
			Points:    qq.Points,
			TimeLimit: qq.TimeLimit,
		})
	}
	return quizView{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Questions:   questions,
		XPReward:    q.XPReward,
		StartAt:     q.StartAt,
		EndAt:       q.EndAt,
		Attempt:     attempt,
	}
}

// GET /api/quizzes
func ListQuizzesHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	db := database.DB

	var quizzes []models.Quiz
	if err := visibleQuizzes(db, user).Order("created_at DESC").Find(&quizzes).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao listar quizzes"})
		return
	}

	now := time.Now().UTC()
	open := quizzes[:0]
	for _, q := range quizzes {
		if q.AvailableAt(now) {
			open = append(open, q)
		}
	}

	var attempts []models.QuizAttempt
	db.Where("user_id = ?", user.ID).Find(&attempts)
	attemptByQuiz := make(map[uint]*models.QuizAttempt, len(attempts))
	for i := range attempts {
		attemptByQuiz[attempts[i].QuizID] = &attempts[i]
	}

	out := make([]quizView, 0, len(open))
	for i := range open {
		out = append(out, viewOf(&open[i], attemptByQuiz[open[i].ID]))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"quizzes": out},
	})
}

// POST /api/quizzes/{id}/submit
func SubmitQuizHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}

	var req struct {
		Answers []int `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Quiz não encontrado"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao carregar quiz"})
		return
	}

	svc := ledger.NewService(database.DB)
	attempt, err := svc.SubmitQuizAttempt(r.Context(), &quiz, user, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrQuizNotAvailable):
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Quiz indisponível no momento"})
		case errors.Is(err, ledger.ErrQuizAttempted):
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Quiz já respondido"})
		default:
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao enviar respostas"})
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Quiz respondido",
		Data:    attempt,
	})
}
