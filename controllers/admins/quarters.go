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

type quarterRequest struct {
	Name   string   `json:"name" validate:"required,max=100"`
	Year   int      `json:"year" validate:"required,gte=2020"`
	Number int      `json:"number" validate:"required,gte=1,lte=4"`
	Dates  []string `json:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`
}

// GET /api/admin/quarters
func ListQuartersHandler(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := currentCoordinator(w, r); !ok {
		return
	}

	q := database.DB.Model(&models.Quarter{})
	if year := r.URL.Query().Get("year"); year != "" {
		q = q.Where("year = ?", year)
	}

	var quarters []models.Quarter
	if err := q.Order("year DESC, number ASC").Find(&quarters).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao listar trimestres"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"quarters": quarters},
	})
}

// POST /api/admin/quarters
func CreateQuarterHandler(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := currentCoordinator(w, r); !ok {
		return
	}

	var req quarterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	quarter := models.Quarter{
		Name:   req.Name,
		Year:   req.Year,
		Number: req.Number,
		Dates:  req.Dates,
	}
	if err := database.DB.Create(&quarter).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao criar trimestre"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Trimestre criado",
		Data:    quarter,
	})
}

// PUT /api/admin/quarters/{id}
func UpdateQuarterHandler(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := currentCoordinator(w, r); !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}

	var quarter models.Quarter
	if err := database.DB.First(&quarter, uint(id)).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Trimestre não encontrado"})
		return
	}

	var req quarterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	quarter.Name = req.Name
	quarter.Year = req.Year
	quarter.Number = req.Number
	quarter.Dates = req.Dates

	if err := database.DB.Save(&quarter).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao salvar trimestre"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Trimestre atualizado",
		Data:    quarter,
	})
}

// DELETE /api/admin/quarters/{id}
func DeleteQuarterHandler(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := currentCoordinator(w, r); !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ID inválido"})
		return
	}

	var used int64
	database.DB.Model(&models.AttendanceDay{}).Where("quarter_id = ?", uint(id)).Count(&used)
	if used > 0 {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Trimestre possui chamadas registradas"})
		return
	}

	if err := database.DB.Delete(&models.Quarter{}, uint(id)).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao excluir trimestre"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Trimestre excluído"})
}
