package admins

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SunshineAppV2/baseteen-sub001/database"
	"github.com/SunshineAppV2/baseteen-sub001/ledger"
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

// GET /api/admin/members
func ListMembersHandler(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}
	db := database.DB

	q := db.Model(&models.User{}).Scopes(scope.Filter())
	if role := r.URL.Query().Get("role"); role != "" {
		q = q.Where("role = ?", role)
	} else {
		q = q.Where("role = ?", models.RoleMember)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if baseID := r.URL.Query().Get("base_id"); baseID != "" {
		q = q.Where("base_id = ?", baseID)
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	var total int64
	q.Count(&total)

	var members []models.User
	if err := q.Order("name ASC").Limit(perPage).Offset((page - 1) * perPage).Find(&members).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao listar membros"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"members":  members,
			"total":    total,
			"page":     page,
			"per_page": perPage,
		},
	})
}

// loadScopedMember fetches a member the caller is allowed to manage.
func loadScopedMember(w http.ResponseWriter, r *http.Request) (*models.User, *models.User, bool) {
	coordinator, scope, ok := currentCoordinator(w, r)
	if !ok {
		return nil, nil, false
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return nil, nil, false
	}

	var member models.User
	if err := database.DB.First(&member, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Membro não encontrado"})
			return nil, nil, false
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao carregar membro"})
		return nil, nil, false
	}
	if !scope.CanReviewUser(&member) {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Sem permissão sobre este membro"})
		return nil, nil, false
	}
	return coordinator, &member, true
}

// GET /api/admin/members/{id}
func GetMemberHandler(w http.ResponseWriter, r *http.Request) {
	_, member, ok := loadScopedMember(w, r)
	if !ok {
		return
	}

	var history []models.XPHistory
	database.DB.Where("user_id = ?", member.ID).Order("created_at DESC").Limit(50).Find(&history)

	var submissions []models.Submission
	database.DB.Where("user_id = ?", member.ID).Order("submitted_at DESC").Limit(20).Find(&submissions)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"member":      member,
			"history":     history,
			"submissions": submissions,
		},
	})
}

// POST /api/admin/members
func CreateMemberHandler(w http.ResponseWriter, r *http.Request) {
	coordinator, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	var req struct {
		Name          string `json:"name" validate:"required,max=100"`
		Email         string `json:"email" validate:"required,email"`
		Password      string `json:"password" validate:"required,min=6"`
		Role          string `json:"role"`
		UnionID       *uint  `json:"union_id"`
		AssociationID *uint  `json:"association_id"`
		RegionID      *uint  `json:"region_id"`
		DistrictID    *uint  `json:"district_id"`
		BaseID        *uint  `json:"base_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleMember
	}
	// A coordinator can only grant roles at or below their own tier.
	if !coordinator.CanAssignRole(req.Role) {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Sem permissão para atribuir este papel"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao criar membro"})
		return
	}

	member := models.User{
		Name:          req.Name,
		Email:         req.Email,
		Password:      string(hash),
		Role:          req.Role,
		UnionID:       req.UnionID,
		AssociationID: req.AssociationID,
		RegionID:      req.RegionID,
		DistrictID:    req.DistrictID,
		BaseID:        req.BaseID,
		Level:         1,
		Status:        "Active",
	}
	if !scope.CanReviewUser(&member) {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Membro fora do seu escopo"})
		return
	}

	if err := database.DB.Create(&member).Error; err != nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Email já cadastrado"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Membro criado",
		Data:    member,
	})
}

// PUT /api/admin/members/{id}
func UpdateMemberHandler(w http.ResponseWriter, r *http.Request) {
	coordinator, member, ok := loadScopedMember(w, r)
	if !ok {
		return
	}

	var req struct {
		Name          *string `json:"name"`
		Email         *string `json:"email"`
		Role          *string `json:"role"`
		Status        *string `json:"status"`
		Password      *string `json:"password"`
		UnionID       *uint   `json:"union_id"`
		AssociationID *uint   `json:"association_id"`
		RegionID      *uint   `json:"region_id"`
		DistrictID    *uint   `json:"district_id"`
		BaseID        *uint   `json:"base_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}

	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.Role != nil {
		if !coordinator.CanAssignRole(*req.Role) {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Sem permissão para atribuir este papel"})
			return
		}
		member.Role = *req.Role
	}
	if req.Status != nil {
		member.Status = *req.Status
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao atualizar senha"})
			return
		}
		member.Password = string(hash)
	}
	if req.UnionID != nil {
		member.UnionID = req.UnionID
	}
	if req.AssociationID != nil {
		member.AssociationID = req.AssociationID
	}
	if req.RegionID != nil {
		member.RegionID = req.RegionID
	}
	if req.DistrictID != nil {
		member.DistrictID = req.DistrictID
	}
	if req.BaseID != nil {
		member.BaseID = req.BaseID
	}

	if err := database.DB.Save(member).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao salvar membro"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Membro atualizado",
		Data:    member,
	})
}

// POST /api/admin/members/{id}/adjust-xp
// Manual credit or debit, recorded in the ledger like any other change.
func AdjustMemberXPHandler(w http.ResponseWriter, r *http.Request) {
	coordinator, member, ok := loadScopedMember(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount int64  `json:"amount" validate:"required"`
		Reason string `json:"reason" validate:"required,max=255"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Valor e motivo são obrigatórios"})
		return
	}

	performedBy := coordinator.ID
	writer := ledger.NewWriter(database.DB)
	if err := writer.ApplyDelta(r.Context(), ledger.Delta{
		Actor:       ledger.UserActor(member.ID),
		Amount:      req.Amount,
		Reason:      req.Reason,
		Category:    models.CategoryManual,
		PerformedBy: &performedBy,
	}); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao ajustar pontuação"})
		return
	}

	var updated models.User
	database.DB.First(&updated, member.ID)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Pontuação ajustada",
		Data:    updated,
	})
}

// GET /api/admin/members/{id}/history
func MemberHistoryHandler(w http.ResponseWriter, r *http.Request) {
	_, member, ok := loadScopedMember(w, r)
	if !ok {
		return
	}

	q := database.DB.Where("user_id = ?", member.ID)
	if category := r.URL.Query().Get("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var history []models.XPHistory
	if err := q.Order("created_at DESC").Limit(200).Find(&history).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao carregar histórico"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"history": history},
	})
}
