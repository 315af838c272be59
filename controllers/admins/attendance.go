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

// scopedBase resolves the {baseId} path var and checks authority over it.
func scopedBase(w http.ResponseWriter, r *http.Request) (*models.User, *models.Base, bool) {
	coordinator, scope, ok := currentCoordinator(w, r)
	if !ok {
		return nil, nil, false
	}

	id, err := strconv.ParseUint(mux.Vars(r)["baseId"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return nil, nil, false
	}

	var base models.Base
	if err := database.DB.First(&base, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Base não encontrada"})
			return nil, nil, false
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao carregar base"})
		return nil, nil, false
	}
	if !scope.CanReviewBase(&base) {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Sem permissão sobre esta base"})
		return nil, nil, false
	}
	return coordinator, &base, true
}

// GET /api/admin/bases/{baseId}/attendance?date=2026-03-07
// Returns the saved sheet (if any), the member roster and the criteria so
// the console can render the whole grid in one request.
func GetAttendanceHandler(w http.ResponseWriter, r *http.Request) {
	_, base, ok := scopedBase(w, r)
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Data inválida (use AAAA-MM-DD)"})
		return
	}

	var day *models.AttendanceDay
	var stored models.AttendanceDay
	err := database.DB.First(&stored, "id = ?", models.AttendanceDayID(base.ID, date)).Error
	switch {
	case err == nil:
		day = &stored
	case errors.Is(err, gorm.ErrRecordNotFound):
		// not saved yet
	default:
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao carregar chamada"})
		return
	}

	var members []models.User
	database.DB.Where("base_id = ? AND role = ?", base.ID, models.RoleMember).
		Order("name ASC").Find(&members)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"date":     date,
			"day":      day,
			"members":  members,
			"criteria": ledger.CriteriaForBase(database.DB, base.ID),
		},
	})
}

// PUT /api/admin/bases/{baseId}/attendance
// Saves (or edits) the sheet for one date. Point changes are the delta
// between the previous save and this one; unchanged members cost nothing.
func SaveAttendanceHandler(w http.ResponseWriter, r *http.Request) {
	coordinator, base, ok := scopedBase(w, r)
	if !ok {
		return
	}

	var req struct {
		Date      string               `json:"date" validate:"required,datetime=2006-01-02"`
		QuarterID *uint                `json:"quarter_id"`
		Marks     []models.MemberMarks `json:"marks" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Data e marcações são obrigatórias"})
		return
	}

	svc := ledger.NewService(database.DB)
	err := svc.SaveAttendance(r.Context(), base.ID, req.Date, req.QuarterID, req.Marks, coordinator.ID)
	if err != nil {
		if errors.Is(err, ledger.ErrDayLocked) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Chamada já salva. Reabra o dia para editar."})
			return
		}
		// A mid-batch failure leaves earlier chunks applied; tell the
		// operator the truth instead of a clean failure.
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Falha ao salvar a chamada; parte dos pontos pode ter sido aplicada. Recarregue e confira.", Error: err.Error()})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Chamada salva"})
}

// POST /api/admin/bases/{baseId}/attendance/unlock
// Reopens a saved date so it can be edited; the next save computes deltas
// against what was stored.
func UnlockAttendanceHandler(w http.ResponseWriter, r *http.Request) {
	_, base, ok := scopedBase(w, r)
	if !ok {
		return
	}

	var req struct {
		Date string `json:"date" validate:"required,datetime=2006-01-02"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Data inválida (use AAAA-MM-DD)"})
		return
	}

	res := database.DB.Model(&models.AttendanceDay{}).
		Where("id = ?", models.AttendanceDayID(base.ID, req.Date)).
		Update("locked", false)
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao reabrir chamada"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Chamada não encontrada"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Chamada reaberta"})
}

// GET /api/admin/bases/{baseId}/attendance/criteria
func GetAttendanceCriteriaHandler(w http.ResponseWriter, r *http.Request) {
	_, base, ok := scopedBase(w, r)
	if !ok {
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"criteria": ledger.CriteriaForBase(database.DB, base.ID)},
	})
}

// PUT /api/admin/bases/{baseId}/attendance/criteria
// New weights apply to future saves only; saved days keep the totals they
// were scored with.
func SaveAttendanceCriteriaHandler(w http.ResponseWriter, r *http.Request) {
	_, base, ok := scopedBase(w, r)
	if !ok {
		return
	}

	var req struct {
		Criteria []models.AttendanceCriterion `json:"criteria" validate:"required,min=1"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Informe ao menos um critério"})
		return
	}
	for _, c := range req.Criteria {
		if c.ID == "" || c.Points < 0 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Critério inválido"})
			return
		}
	}

	cfg := models.AttendanceConfig{BaseID: base.ID, Criteria: req.Criteria}
	if err := database.DB.Save(&cfg).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao salvar critérios"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Critérios atualizados",
		Data:    cfg,
	})
}
