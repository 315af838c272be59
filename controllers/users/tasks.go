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

// visibleTasks restricts tasks to the member's position in the tree: global
// tasks plus anything owned by a tier the member belongs to.
func visibleTasks(db *gorm.DB, u *models.User) *gorm.DB {
	q := db.Model(&models.Task{}).Where("active = ?", true)
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

// GET /api/tasks
// Tasks whose start window has not opened yet are filtered out; expired
// deadlines stay listed because late submissions are allowed at reduced
// points.
func ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	db := database.DB

	var tasks []models.Task
	if err := visibleTasks(db, user).Order("created_at DESC").Find(&tasks).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao listar tarefas"})
		return
	}

	now := time.Now().UTC()
	available := tasks[:0]
	for _, t := range tasks {
		if t.AvailableAt(now) {
			available = append(available, t)
		}
	}

	// Attach this member's submission state per task.
	var subs []models.Submission
	db.Where("user_id = ?", user.ID).Find(&subs)
	statusByTask := make(map[uint]*models.Submission, len(subs))
	for i := range subs {
		statusByTask[subs[i].TaskID] = &subs[i]
	}

	type taskWithStatus struct {
		models.Task
		Submission *models.Submission `json:"submission,omitempty"`
	}
	out := make([]taskWithStatus, 0, len(available))
	for _, t := range available {
		out = append(out, taskWithStatus{Task: t, Submission: statusByTask[t.ID]})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"tasks": out},
	})
}

// POST /api/tasks/{id}/submit
func SubmitTaskHandler(w http.ResponseWriter, r *http.Request) {
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
		Proof models.Proof `json:"proof"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}

	var task models.Task
	if err := database.DB.First(&task, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Tarefa não encontrada"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao carregar tarefa"})
		return
	}
	if req.Proof.Kind == "" {
		req.Proof.Kind = models.ProofKindForTask(task.Kind)
	}

	svc := ledger.NewService(database.DB)

	// Collective tasks are submitted on behalf of the whole base by its
	// coordinator.
	if task.Collective {
		if user.Role != models.RoleCoordBase || user.BaseID == nil {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Tarefas coletivas são enviadas pela coordenação da base"})
			return
		}
		var base models.Base
		if err := database.DB.First(&base, *user.BaseID).Error; err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao carregar base"})
			return
		}
		sub, err := svc.SubmitBaseProof(r.Context(), &task, &base, user.ID, req.Proof)
		if err != nil {
			writeSubmitError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Prova enviada", Data: sub})
		return
	}

	sub, err := svc.SubmitProof(r.Context(), &task, user, req.Proof)
	if err != nil {
		writeSubmitError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Prova enviada",
		Data:    sub,
	})
}

func writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidProof):
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Prova inválida para este tipo de tarefa"})
	case errors.Is(err, ledger.ErrTaskNotAvailable):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Tarefa indisponível no momento"})
	case errors.Is(err, ledger.ErrNotPending):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Tarefa já aprovada; não é possível reenviar"})
	default:
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao enviar prova"})
	}
}

// GET /api/submissions
func ListMySubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var subs []models.Submission
	if err := database.DB.Where("user_id = ?", user.ID).
		Order("submitted_at DESC").Find(&subs).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao listar submissões"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"submissions": subs},
	})
}
