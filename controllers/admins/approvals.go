package admins

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/SunshineAppV2/baseteen-sub001/database"
	"github.com/SunshineAppV2/baseteen-sub001/ledger"
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

// GET /api/admin/submissions?status=pending
func ListSubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}
	db := database.DB

	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.StatusPending
	}

	var subs []models.Submission
	q := db.Where("status = ?", status).Scopes(scope.Filter()).Order("submitted_at ASC")
	if taskID := r.URL.Query().Get("task_id"); taskID != "" {
		q = q.Where("task_id = ?", taskID)
	}
	if err := q.Find(&subs).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao listar submissões"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"submissions": subs},
	})
}

// loadReviewable fetches the submission and checks the reviewer's authority
// over the submitting member. Writes the response on failure.
func loadReviewable(w http.ResponseWriter, r *http.Request) (*models.User, *models.Submission, bool) {
	reviewer, scope, ok := currentCoordinator(w, r)
	if !ok {
		return nil, nil, false
	}
	id := mux.Vars(r)["id"]

	var sub models.Submission
	if err := database.DB.First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Submissão não encontrada"})
			return nil, nil, false
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao carregar submissão"})
		return nil, nil, false
	}

	var member models.User
	if err := database.DB.First(&member, sub.UserID).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao carregar membro"})
		return nil, nil, false
	}
	if !scope.CanReviewUser(&member) {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Sem permissão para revisar esta submissão"})
		return nil, nil, false
	}
	return reviewer, &sub, true
}

// POST /api/admin/submissions/{id}/approve
func ApproveSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	reviewer, sub, ok := loadReviewable(w, r)
	if !ok {
		return
	}

	var req struct {
		FinalXP *int64 `json:"final_xp"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	svc := ledger.NewService(database.DB)
	updated, err := svc.ApproveSubmission(r.Context(), sub.ID, reviewer.ID, req.FinalXP)
	if err != nil {
		if errors.Is(err, ledger.ErrNotPending) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Submissão já revisada"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao aprovar submissão"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Submissão aprovada",
		Data:    updated,
	})
}

// POST /api/admin/submissions/{id}/reject
func RejectSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	reviewer, sub, ok := loadReviewable(w, r)
	if !ok {
		return
	}

	var req struct {
		Feedback string `json:"feedback" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "O motivo da recusa é obrigatório"})
		return
	}

	svc := ledger.NewService(database.DB)
	updated, err := svc.RejectSubmission(r.Context(), sub.ID, reviewer.ID, req.Feedback)
	if err != nil {
		if errors.Is(err, ledger.ErrNotPending) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Submissão já revisada"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao recusar submissão"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Submissão recusada",
		Data:    updated,
	})
}

// POST /api/admin/submissions/{id}/revoke
// Revoking debits points already credited, so the caller must confirm
// explicitly; a bare POST is rejected.
func RevokeSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	reviewer, sub, ok := loadReviewable(w, r)
	if !ok {
		return
	}

	var req struct {
		Confirm bool `json:"confirm"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if !req.Confirm {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Confirme a revogação para continuar"})
		return
	}

	svc := ledger.NewService(database.DB)
	updated, err := svc.RevokeSubmission(r.Context(), sub.ID, reviewer.ID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotApproved) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Apenas submissões aprovadas podem ser revogadas"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao revogar submissão"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Aprovação revogada",
		Data:    updated,
	})
}
