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
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

type taskRequest struct {
	Title         string     `json:"title" validate:"required,max=150"`
	Description   string     `json:"description"`
	Kind          string     `json:"kind" validate:"required,oneof=upload text check link"`
	Points        int64      `json:"points" validate:"gte=0"`
	Deadline      *time.Time `json:"deadline"`
	StartAt       *time.Time `json:"start_at"`
	Scope         string     `json:"scope" validate:"required,oneof=global union association region district base"`
	UnionID       *uint      `json:"union_id"`
	AssociationID *uint      `json:"association_id"`
	RegionID      *uint      `json:"region_id"`
	DistrictID    *uint      `json:"district_id"`
	BaseID        *uint      `json:"base_id"`
	Tag           string     `json:"tag"`
	Collective    bool       `json:"collective"`
	Active        *bool      `json:"active"`
}

// canEditTask limits edits to the owning tier or a wider one.
func canEditTask(u *models.User, t *models.Task) bool {
	switch u.Role {
	case models.RoleMaster, models.RoleCoordGeral, models.RoleSecretaria:
		return true
	case models.RoleCoordUniao:
		return t.UnionID != nil && u.UnionID != nil && *t.UnionID == *u.UnionID
	case models.RoleCoordAssociacao:
		return t.AssociationID != nil && u.AssociationID != nil && *t.AssociationID == *u.AssociationID
	case models.RoleCoordRegiao:
		return t.RegionID != nil && u.RegionID != nil && *t.RegionID == *u.RegionID
	case models.RoleCoordDistrital:
		return t.DistrictID != nil && u.DistrictID != nil && *t.DistrictID == *u.DistrictID
	case models.RoleCoordBase:
		return t.BaseID != nil && u.BaseID != nil && *t.BaseID == *u.BaseID
	}
	return false
}

// GET /api/admin/tasks
func ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}
	db := database.DB

	q := db.Model(&models.Task{})
	if !scope.Global() {
		// Scoped coordinators see global tasks plus their own subtree's.
		cond, args := scope.Cond()
		q = q.Where("scope = ? OR ("+cond+")", append([]interface{}{models.ScopeGlobal}, args...)...)
	}
	if active := r.URL.Query().Get("active"); active != "" {
		q = q.Where("active = ?", active == "true")
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		q = q.Where("kind = ?", kind)
	}

	var tasks []models.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao listar tarefas"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"tasks": tasks},
	})
}

// POST /api/admin/tasks
func CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	task := models.Task{
		Title:         req.Title,
		Description:   req.Description,
		Kind:          req.Kind,
		Points:        req.Points,
		Deadline:      req.Deadline,
		StartAt:       req.StartAt,
		Scope:         req.Scope,
		UnionID:       req.UnionID,
		AssociationID: req.AssociationID,
		RegionID:      req.RegionID,
		DistrictID:    req.DistrictID,
		BaseID:        req.BaseID,
		Tag:           req.Tag,
		Collective:    req.Collective,
		Active:        true,
		CreatedBy:     user.ID,
	}
	if req.Active != nil {
		task.Active = *req.Active
	}
	// Scoped creators own the task at their own tier regardless of what the
	// payload claims.
	switch user.Role {
	case models.RoleCoordUniao:
		task.UnionID = user.UnionID
	case models.RoleCoordAssociacao:
		task.AssociationID = user.AssociationID
	case models.RoleCoordRegiao:
		task.RegionID = user.RegionID
	case models.RoleCoordDistrital:
		task.DistrictID = user.DistrictID
	case models.RoleCoordBase:
		task.BaseID = user.BaseID
	}

	if err := database.DB.Create(&task).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao criar tarefa"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Tarefa criada",
		Data:    task,
	})
}

// PUT /api/admin/tasks/{id}
func UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
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
	if !canEditTask(user, &task) {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Sem permissão para editar esta tarefa"})
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.Kind = req.Kind
	task.Points = req.Points
	task.Deadline = req.Deadline
	task.StartAt = req.StartAt
	task.Tag = req.Tag
	task.Collective = req.Collective
	if req.Active != nil {
		task.Active = *req.Active
	}

	if err := database.DB.Save(&task).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao salvar tarefa"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Tarefa atualizada",
		Data:    task,
	})
}

// DELETE /api/admin/tasks/{id} — soft delete: the task is deactivated, not
// removed, so submissions pointing at it keep resolving.
func DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}

	var task models.Task
	if err := database.DB.First(&task, uint(id)).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Tarefa não encontrada"})
		return
	}
	if !canEditTask(user, &task) {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Sem permissão para excluir esta tarefa"})
		return
	}

	if err := database.DB.Model(&task).Update("active", false).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao excluir tarefa"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Tarefa desativada"})
}

// GET /api/admin/tasks/{id}/stats
func TaskStatsHandler(w http.ResponseWriter, r *http.Request) {
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

	counts := map[string]int64{}
	for _, status := range []string{models.StatusPending, models.StatusApproved, models.StatusRejected} {
		var n int64
		db.Model(&models.Submission{}).Where("task_id = ? AND status = ?", uint(id), status).
			Scopes(scope.Filter()).Count(&n)
		counts[status] = n
	}

	var awarded int64
	db.Model(&models.Submission{}).Where("task_id = ? AND status = ?", uint(id), models.StatusApproved).
		Scopes(scope.Filter()).
		Select("COALESCE(SUM(awarded_xp), 0)").Scan(&awarded)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"task_id":    uint(id),
			"pending":    counts[models.StatusPending],
			"approved":   counts[models.StatusApproved],
			"rejected":   counts[models.StatusRejected],
			"awarded_xp": awarded,
		},
	})
}
