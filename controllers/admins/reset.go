package admins

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/SunshineAppV2/baseteen-sub001/database"
	"github.com/SunshineAppV2/baseteen-sub001/ledger"
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

// POST /api/admin/danger/reset
// Restricted beyond the usual coordinator check: only master and the general
// coordination can wipe data, and the confirmation phrase must be typed
// verbatim.
func DangerResetHandler(w http.ResponseWriter, r *http.Request) {
	coordinator, _, ok := currentCoordinator(w, r)
	if !ok {
		return
	}
	if coordinator.Role != models.RoleMaster && coordinator.Role != models.RoleCoordGeral {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Apenas a coordenação geral pode executar o reset"})
		return
	}

	var req struct {
		Options      ledger.ResetOptions `json:"options"`
		Confirmation string              `json:"confirmation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}

	svc := ledger.NewService(database.DB)
	report, err := svc.DangerReset(r.Context(), req.Options, req.Confirmation)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrBadConfirmation):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Frase de confirmação incorreta"})
		case errors.Is(err, ledger.ErrNothingSelected):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nenhuma categoria selecionada"})
		default:
			// Partial progress is possible; the report carries what landed.
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Reset interrompido; parte dos dados pode ter sido apagada", Error: err.Error(), Data: report})
		}
		return
	}

	log.Printf("[reset] executed by user %d: %+v", coordinator.ID, req.Options)
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Reset concluído",
		Data:    report,
	})
}
