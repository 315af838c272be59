package admins

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/SunshineAppV2/baseteen-sub001/database"
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

type noticeRequest struct {
	Title      string `json:"title" validate:"required,max=150"`
	Body       string `json:"body" validate:"required"`
	Scope      string `json:"scope" validate:"required,oneof=global union association region district base"`
	DistrictID *uint  `json:"district_id"`
	BaseID     *uint  `json:"base_id"`
}

// GET /api/admin/notices
func ListNoticesHandler(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	q := database.DB.Model(&models.Notice{})
	if !scope.Global() {
		cond, args := scope.Cond()
		q = q.Where("scope = ? OR ("+cond+")", append([]interface{}{models.ScopeGlobal}, args...)...)
	}

	var notices []models.Notice
	if err := q.Order("created_at DESC").Limit(100).Find(&notices).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao listar avisos"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"notices": notices},
	})
}

// POST /api/admin/notices
func CreateNoticeHandler(w http.ResponseWriter, r *http.Request) {
	coordinator, _, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	var req noticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	notice := models.Notice{
		Title:      req.Title,
		Body:       req.Body,
		Scope:      req.Scope,
		DistrictID: req.DistrictID,
		BaseID:     req.BaseID,
		CreatedBy:  coordinator.ID,
	}
	if err := database.DB.Create(&notice).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao criar aviso"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Aviso publicado",
		Data:    notice,
	})
}

// PUT /api/admin/notices/{id}
func UpdateNoticeHandler(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := currentCoordinator(w, r); !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}

	var notice models.Notice
	if err := database.DB.First(&notice, uint(id)).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Aviso não encontrado"})
		return
	}

	var req noticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	notice.Title = req.Title
	notice.Body = req.Body
	notice.Scope = req.Scope
	notice.DistrictID = req.DistrictID
	notice.BaseID = req.BaseID

	if err := database.DB.Save(&notice).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao salvar aviso"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Aviso atualizado",
		Data:    notice,
	})
}

// DELETE /api/admin/notices/{id}
func DeleteNoticeHandler(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := currentCoordinator(w, r); !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}

	if err := database.DB.Delete(&models.Notice{}, uint(id)).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao excluir aviso"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Aviso excluído"})
}
