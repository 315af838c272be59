package admins

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

type quizQuestionRequest struct {
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"gte=0"`
	Points        int64    `json:"points" validate:"gte=0"`
	TimeLimit     int      `json:"time_limit" validate:"gte=0"`
}

type quizRequest struct {
	Title         string                `json:"title" validate:"required,max=150"`
	Description   string                `json:"description"`
	Questions     []quizQuestionRequest `json:"questions" validate:"required,min=1,dive"`
	StartAt       *time.Time            `json:"start_at"`
	EndAt         *time.Time            `json:"end_at"`
	Scope         string                `json:"scope" validate:"required,oneof=global union association region district base"`
	UnionID       *uint                 `json:"union_id"`
	AssociationID *uint                 `json:"association_id"`
	RegionID      *uint                 `json:"region_id"`
	DistrictID    *uint                 `json:"district_id"`
	BaseID        *uint                 `json:"base_id"`
	Active        *bool                 `json:"active"`
}

// questions converts the payload, rejecting answer indexes that point past
// the option list.
func (r quizRequest) questions() ([]models.QuizQuestion, error) {
	out := make([]models.QuizQuestion, 0, len(r.Questions))
	for _, q := range r.Questions {
		if q.CorrectAnswer >= len(q.Options) {
			return nil, errors.New("correct answer out of range")
		}
		out = append(out, models.QuizQuestion{
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Points:        q.Points,
			TimeLimit:     q.TimeLimit,
		})
	}
	return out, nil
}

func sumQuizPoints(questions []models.QuizQuestion) int64 {
	var total int64
	for _, q := range questions {
		total += q.Points
	}
	return total
}

// canEditQuiz limits edits to the owning tier or a wider one.
func canEditQuiz(u *models.User, q *models.Quiz) bool {
	switch u.Role {
	case models.RoleMaster, models.RoleCoordGeral, models.RoleSecretaria:
		return true
	case models.RoleCoordUniao:
		return q.UnionID != nil && u.UnionID != nil && *q.UnionID == *u.UnionID
	case models.RoleCoordAssociacao:
		return q.AssociationID != nil && u.AssociationID != nil && *q.AssociationID == *u.AssociationID
	case models.RoleCoordRegiao:
		return q.RegionID != nil && u.RegionID != nil && *q.RegionID == *u.RegionID
	case models.RoleCoordDistrital:
		return q.DistrictID != nil && u.DistrictID != nil && *q.DistrictID == *u.DistrictID
	case models.RoleCoordBase:
		return q.BaseID != nil && u.BaseID != nil && *q.BaseID == *u.BaseID
	}
	return false
}

// GET /api/admin/quizzes
func ListQuizzesHandler(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}
	db := database.DB

	q := db.Model(&models.Quiz{})
	if !scope.Global() {
		cond, args := scope.Cond()
		q = q.Where("scope = ? OR ("+cond+")", append([]interface{}{models.ScopeGlobal}, args...)...)
	}
	if active := r.URL.Query().Get("active"); active != "" {
		q = q.Where("active = ?", active == "true")
	}

	var quizzes []models.Quiz
	if err := q.Order("created_at DESC").Find(&quizzes).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao listar quizzes"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"quizzes": quizzes},
	})
}

// POST /api/admin/quizzes
func CreateQuizHandler(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}
	questions, err := req.questions()
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Resposta correta fora do intervalo de opções"})
		return
	}

	quiz := models.Quiz{
		Title:         req.Title,
		Description:   req.Description,
		Questions:     questions,
		XPReward:      sumQuizPoints(questions),
		StartAt:       req.StartAt,
		EndAt:         req.EndAt,
		Scope:         req.Scope,
		UnionID:       req.UnionID,
		AssociationID: req.AssociationID,
		RegionID:      req.RegionID,
		DistrictID:    req.DistrictID,
		BaseID:        req.BaseID,
		Active:        true,
		CreatedBy:     user.ID,
	}
	if req.Active != nil {
		quiz.Active = *req.Active
	}
	// Scoped creators own the quiz at their own tier regardless of what the
	// payload claims.
	switch user.Role {
	case models.RoleCoordUniao:
		quiz.UnionID = user.UnionID
	case models.RoleCoordAssociacao:
		quiz.AssociationID = user.AssociationID
	case models.RoleCoordRegiao:
		quiz.RegionID = user.RegionID
	case models.RoleCoordDistrital:
		quiz.DistrictID = user.DistrictID
	case models.RoleCoordBase:
		quiz.BaseID = user.BaseID
	}

	if err := database.DB.Create(&quiz).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao criar quiz"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Quiz criado",
		Data:    quiz,
	})
}

// PUT /api/admin/quizzes/{id}
func UpdateQuizHandler(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
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
	if !canEditQuiz(user, &quiz) {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Sem permissão para editar este quiz"})
		return
	}

	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}
	questions, err := req.questions()
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Resposta correta fora do intervalo de opções"})
		return
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.Questions = questions
	quiz.XPReward = sumQuizPoints(questions)
	quiz.StartAt = req.StartAt
	quiz.EndAt = req.EndAt
	if req.Active != nil {
		quiz.Active = *req.Active
	}

	if err := database.DB.Save(&quiz).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao salvar quiz"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Quiz atualizado",
		Data:    quiz,
	})
}

// DELETE /api/admin/quizzes/{id} — soft delete, same rule as tasks: attempts
// pointing at the quiz keep resolving.
func DeleteQuizHandler(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, uint(id)).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Quiz não encontrado"})
		return
	}
	if !canEditQuiz(user, &quiz) {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Sem permissão para excluir este quiz"})
		return
	}

	if err := database.DB.Model(&quiz).Update("active", false).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao excluir quiz"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Quiz desativado"})
}

// GET /api/admin/quizzes/{id}/attempts
func ListQuizAttemptsHandler(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}
	db := database.DB

	q := db.Where("quiz_id = ?", uint(id))
	if !scope.Global() {
		cond, args := scope.Cond()
		q = q.Where("user_id IN (?)", db.Model(&models.User{}).Select("id").Where(cond, args...))
	}

	var attempts []models.QuizAttempt
	if err := q.Order("score DESC").Find(&attempts).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao listar tentativas"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"attempts": attempts},
	})
}

// DELETE /api/admin/quizzes/{id}/attempts/{userId}
// Reopens the quiz for one member. The XP the attempt earned is debited
// through the ledger before the attempt row goes away.
func ResetQuizAttemptHandler(w http.ResponseWriter, r *http.Request) {
	coordinator, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	quizID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil || quizID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}
	userID, err := strconv.ParseUint(vars["userId"], 10, 64)
	if err != nil || userID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}

	var member models.User
	if err := database.DB.First(&member, uint(userID)).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Membro não encontrado"})
		return
	}
	if !scope.CanReviewUser(&member) {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Sem permissão sobre este membro"})
		return
	}

	svc := ledger.NewService(database.DB)
	if err := svc.ResetQuizAttempt(r.Context(), uint(quizID), uint(userID), coordinator.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Tentativa não encontrada"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao resetar tentativa"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Tentativa resetada"})
}
