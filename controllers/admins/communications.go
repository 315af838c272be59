package admins

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/SunshineAppV2/baseteen-sub001/database"
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/notify"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

type sendCommunicationRequest struct {
	Title      string `json:"title" validate:"required,max=150"`
	Message    string `json:"message" validate:"required"`
	Type       string `json:"type"`
	TargetType string `json:"target_type" validate:"required,oneof=all base district user"`
	TargetID   uint   `json:"target_id"`
	Priority   string `json:"priority"`
}

// POST /api/communications/send
// Fans the message out as in-app notification rows, then forwards one push
// to the provider. A provider failure leaves the rows pending so the
// dispatcher retries delivery; the caller is told which half failed.
func SendCommunicationHandler(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	var req sendCommunicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}
	if req.TargetType != "all" && req.TargetID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Destino é obrigatório"})
		return
	}
	if req.Type == "" {
		req.Type = "info"
	}

	// Resolve the audience inside the sender's scope.
	userQuery := database.DB.Model(&models.User{}).Scopes(scope.Filter())
	switch req.TargetType {
	case "base":
		userQuery = userQuery.Where("base_id = ?", req.TargetID)
	case "district":
		userQuery = userQuery.Where("district_id = ?", req.TargetID)
	case "user":
		userQuery = userQuery.Where("id = ?", req.TargetID)
	}

	var userIDs []uint
	if err := userQuery.Pluck("id", &userIDs).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao resolver destinatários"})
		return
	}
	if len(userIDs) == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Nenhum destinatário encontrado"})
		return
	}

	rows := make([]models.Notification, 0, len(userIDs))
	for _, uid := range userIDs {
		uid := uid
		rows = append(rows, models.Notification{
			UserID:     &uid,
			Title:      req.Title,
			Message:    req.Message,
			Type:       req.Type,
			PushStatus: models.PushPending,
		})
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, 100).Error
	})
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao gravar notificações"})
		return
	}

	push := notify.NewPushClient()
	msg := notify.PushMessage{
		Title:      req.Title,
		Message:    req.Message,
		TargetType: req.TargetType,
		Priority:   req.Priority,
	}
	if req.TargetType != "all" {
		msg.TargetID = strconv.FormatUint(uint64(req.TargetID), 10)
	}
	if err := push.Send(r.Context(), msg); err != nil && !errors.Is(err, notify.ErrDisabled) {
		// rows stay pending; the dispatcher retries with backoff
		utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{Success: false, Message: "Notificações gravadas, mas o envio push falhou", Error: err.Error()})
		return
	}

	// The fan-out already went through the provider; stop the dispatcher
	// from sending it a second time.
	ids := make([]uint, 0, len(rows))
	for _, n := range rows {
		ids = append(ids, n.ID)
	}
	database.DB.Model(&models.Notification{}).Where("id IN ?", ids).
		Update("push_status", models.PushSent)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Comunicação enviada",
		Data:    map[string]interface{}{"recipients": len(userIDs)},
	})
}
