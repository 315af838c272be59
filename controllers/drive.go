package controllers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

var allowedUploadExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
	".pdf": true, ".mp4": true, ".heic": true,
}

// POST /api/drive/upload
// Hands the client a short-lived presigned PUT URL; the file itself never
// passes through this server. The returned file_id is what a proof of kind
// "file" carries.
func DriveUploadHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserID(r); !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req struct {
		Filename    string `json:"filename" validate:"required,max=255"`
		ContentType string `json:"content_type" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "JSON inválido"})
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nome e tipo do arquivo são obrigatórios"})
		return
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !allowedUploadExts[ext] {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Tipo de arquivo não permitido"})
		return
	}

	uploadURL, fileID, err := utils.PresignUpload(r.Context(), req.Filename, req.ContentType)
	if err != nil {
		utils.WriteJSON(w, http.StatusServiceUnavailable, utils.APIResponse{Success: false, Message: "Armazenamento indisponível", Error: err.Error()})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"upload_url": uploadURL,
			"file_id":    fileID,
		},
	})
}
