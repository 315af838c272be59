package admins

import (
	"context"
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

// baseSaveTimeout bounds how long a base save may hang before the caller is
// told to check their connection.
const baseSaveTimeout = 5 * time.Second

// GET /api/admin/structure
// Returns the whole hierarchy in one payload for the console tree view.
func StructureHandler(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}
	db := database.DB

	var unions []models.Union
	var associations []models.Association
	var regions []models.Region
	var districts []models.District
	var bases []models.Base

	db.Order("name ASC").Find(&unions)
	db.Order("name ASC").Find(&associations)
	db.Order("name ASC").Find(&regions)
	db.Order("name ASC").Find(&districts)
	db.Scopes(scope.FilterBases()).Order("name ASC").Find(&bases)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"unions":       unions,
			"associations": associations,
			"regions":      regions,
			"districts":    districts,
			"bases":        bases,
		},
	})
}

// POST /api/admin/unions
func CreateUnionHandler(w http.ResponseWriter, r *http.Request) {
	createNamedOrg(w, r, func(name string, _ uint) (interface{}, error) {
		u := models.Union{Name: name}
		return &u, database.DB.Create(&u).Error
	}, false)
}

// POST /api/admin/associations
func CreateAssociationHandler(w http.ResponseWriter, r *http.Request) {
	createNamedOrg(w, r, func(name string, parent uint) (interface{}, error) {
		a := models.Association{Name: name, UnionID: parent}
		return &a, database.DB.Create(&a).Error
	}, true)
}

// POST /api/admin/regions
func CreateRegionHandler(w http.ResponseWriter, r *http.Request) {
	createNamedOrg(w, r, func(name string, parent uint) (interface{}, error) {
		reg := models.Region{Name: name, AssociationID: parent}
		return &reg, database.DB.Create(&reg).Error
	}, true)
}

// POST /api/admin/districts
func CreateDistrictHandler(w http.ResponseWriter, r *http.Request) {
	createNamedOrg(w, r, func(name string, parent uint) (interface{}, error) {
		d := models.District{Name: name, RegionID: parent}
		return &d, database.DB.Create(&d).Error
	}, true)
}

func createNamedOrg(w http.ResponseWriter, r *http.Request, create func(name string, parent uint) (interface{}, error), needsParent bool) {
	if _, _, ok := currentCoordinator(w, r); !ok {
		return
	}

	var req struct {
		Name     string `json:"name" validate:"required,max=100"`
		ParentID uint   `json:"parent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nome é obrigatório"})
		return
	}
	if needsParent && req.ParentID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Vínculo superior é obrigatório"})
		return
	}

	created, err := create(req.Name, req.ParentID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao salvar"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Criado com sucesso",
		Data:    created,
	})
}

// pinBaseTier forces the base's ref at the caller's own tier, the same way
// task creation pins scoped creators. A scoped coordinator cannot file a
// base under someone else's subtree.
func pinBaseTier(u *models.User, b *models.Base) {
	switch u.Role {
	case models.RoleCoordUniao:
		b.UnionID = u.UnionID
	case models.RoleCoordAssociacao:
		b.AssociationID = u.AssociationID
	case models.RoleCoordRegiao:
		b.RegionID = u.RegionID
	case models.RoleCoordDistrital:
		if u.DistrictID != nil {
			b.DistrictID = *u.DistrictID
		}
	}
}

type baseRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Type          string `json:"type"`
	DistrictID    uint   `json:"district_id" validate:"required"`
	RegionID      *uint  `json:"region_id"`
	AssociationID *uint  `json:"association_id"`
	UnionID       *uint  `json:"union_id"`
	MemberLimit   int    `json:"member_limit"`
}

// POST /api/admin/bases
// The save races a 5-second timer; on timeout the write may or may not have
// landed server-side, so the message tells the operator to check, not retry
// blindly.
func CreateBaseHandler(w http.ResponseWriter, r *http.Request) {
	user, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	var req baseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nome e distrito são obrigatórios"})
		return
	}

	base := models.Base{
		Name:          req.Name,
		Type:          req.Type,
		DistrictID:    req.DistrictID,
		RegionID:      req.RegionID,
		AssociationID: req.AssociationID,
		UnionID:       req.UnionID,
		MemberLimit:   req.MemberLimit,
	}
	if base.Type == "" {
		base.Type = "mista"
	}
	pinBaseTier(user, &base)
	if !scope.CanReviewBase(&base) {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Sem permissão para criar bases neste escopo"})
		return
	}

	if err := saveBaseWithTimeout(r.Context(), &base); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			utils.WriteJSON(w, http.StatusGatewayTimeout, utils.APIResponse{Success: false, Message: "A operação demorou demais. Verifique sua conexão e confira se a base foi salva."})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao salvar base"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Base criada",
		Data:    base,
	})
}

// PUT /api/admin/bases/{id}
func UpdateBaseHandler(w http.ResponseWriter, r *http.Request) {
	user, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}

	var base models.Base
	if err := database.DB.First(&base, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Base não encontrada"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao carregar base"})
		return
	}
	if !scope.CanReviewBase(&base) {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Sem permissão sobre esta base"})
		return
	}

	var req baseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nome e distrito são obrigatórios"})
		return
	}

	base.Name = req.Name
	if req.Type != "" {
		base.Type = req.Type
	}
	base.DistrictID = req.DistrictID
	base.RegionID = req.RegionID
	base.AssociationID = req.AssociationID
	base.UnionID = req.UnionID
	base.MemberLimit = req.MemberLimit
	// An edit cannot move the base out of the editor's own subtree.
	pinBaseTier(user, &base)

	if err := saveBaseWithTimeout(r.Context(), &base); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			utils.WriteJSON(w, http.StatusGatewayTimeout, utils.APIResponse{Success: false, Message: "A operação demorou demais. Verifique sua conexão e confira se a base foi salva."})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao salvar base"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Base atualizada",
		Data:    base,
	})
}

func saveBaseWithTimeout(parent context.Context, base *models.Base) error {
	ctx, cancel := context.WithTimeout(parent, baseSaveTimeout)
	defer cancel()
	err := database.DB.WithContext(ctx).Save(base).Error
	if err != nil && ctx.Err() != nil {
		return context.DeadlineExceeded
	}
	return err
}

// GET /api/admin/bases/{id}
func GetBaseHandler(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := currentCoordinator(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}

	var base models.Base
	if err := database.DB.First(&base, uint(id)).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Base não encontrada"})
		return
	}
	if !scope.CanReviewBase(&base) {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Sem permissão sobre esta base"})
		return
	}

	var members []models.User
	database.DB.Where("base_id = ?", base.ID).Order("current_xp DESC").Find(&members)

	var history []models.BaseXPHistory
	database.DB.Where("base_id = ?", base.ID).Order("created_at DESC").Limit(50).Find(&history)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"base":    base,
			"members": members,
			"history": history,
		},
	})
}
