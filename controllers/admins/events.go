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

var errAlreadyCheckedIn = errors.New("already checked in")

type eventRequest struct {
	Name        string     `json:"name" validate:"required,max=150"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	Scope       string     `json:"scope" validate:"required,oneof=global union association region district base"`
	DistrictID  *uint      `json:"district_id"`
	BaseID      *uint      `json:"base_id"`
	XPReward    int64      `json:"xp_reward" validate:"gte=0"`
}

// GET /api/admin/events
func ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	q := database.DB.Model(&models.Event{})
	if !scope.Global() {
		cond, args := scope.Cond()
		q = q.Where("scope = ? OR ("+cond+")", append([]interface{}{models.ScopeGlobal}, args...)...)
	}

	var events []models.Event
	if err := q.Order("starts_at DESC").Limit(100).Find(&events).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao listar eventos"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"events": events},
	})
}

// POST /api/admin/events
func CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	coordinator, _, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	event := models.Event{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Scope:       req.Scope,
		DistrictID:  req.DistrictID,
		BaseID:      req.BaseID,
		XPReward:    req.XPReward,
		CreatedBy:   coordinator.ID,
	}
	if err := database.DB.Create(&event).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao criar evento"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Evento criado",
		Data:    event,
	})
}

// PUT /api/admin/events/{id}
func UpdateEventHandler(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := currentCoordinator(w, r); !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}

	var event models.Event
	if err := database.DB.First(&event, uint(id)).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Evento não encontrado"})
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	event.Name = req.Name
	event.Description = req.Description
	event.Location = req.Location
	event.StartsAt = req.StartsAt
	event.EndsAt = req.EndsAt
	event.Scope = req.Scope
	event.DistrictID = req.DistrictID
	event.BaseID = req.BaseID
	event.XPReward = req.XPReward

	if err := database.DB.Save(&event).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao salvar evento"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Evento atualizado",
		Data:    event,
	})
}

// GET /api/admin/events/{id}/registrations
func ListEventRegistrationsHandler(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := currentCoordinator(w, r); !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}

	var regs []models.EventRegistration
	if err := database.DB.Where("event_id = ?", uint(id)).Find(&regs).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao listar inscrições"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"registrations": regs},
	})
}

// POST /api/admin/events/{id}/checkin
// Marks a registered member as present and credits the event reward once.
func EventCheckinHandler(w http.ResponseWriter, r *http.Request) {
	coordinator, _, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}

	var req struct {
		UserID uint `json:"user_id" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Membro é obrigatório"})
		return
	}

	var event models.Event
	if err := database.DB.First(&event, uint(id)).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Evento não encontrado"})
		return
	}

	performedBy := coordinator.ID
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var reg models.EventRegistration
		if err := tx.Where("event_id = ? AND user_id = ?", event.ID, req.UserID).First(&reg).Error; err != nil {
			return err
		}
		if reg.CheckedIn {
			return errAlreadyCheckedIn
		}
		if err := tx.Model(&reg).Update("checked_in", true).Error; err != nil {
			return err
		}
		if event.XPReward == 0 {
			return nil
		}
		return ledger.Apply(tx, ledger.Delta{
			Actor:       ledger.UserActor(req.UserID),
			Amount:      event.XPReward,
			Reason:      "Evento: " + event.Name,
			Category:    models.CategoryEvent,
			PerformedBy: &performedBy,
		})
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Inscrição não encontrada"})
		case errors.Is(err, errAlreadyCheckedIn):
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Check-in já registrado"})
		default:
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao registrar check-in"})
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Check-in registrado"})
}
