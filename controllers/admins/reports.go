package admins

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/SunshineAppV2/baseteen-sub001/database"
	"github.com/SunshineAppV2/baseteen-sub001/models"
	"github.com/SunshineAppV2/baseteen-sub001/utils"
)

type reportRow struct {
	Position int
	Name     string
	Email    string
	XP       int64
	Base     string
	District string
	Role     string
}

// reportRows loads the scoped member ranking with base and district names
// resolved.
func reportRows(w http.ResponseWriter, r *http.Request) ([]reportRow, bool) {
	_, scope, ok := currentCoordinator(w, r)
	if !ok {
		return nil, false
	}

	var members []models.User
	if err := database.DB.Where("role = ?", models.RoleMember).
		Scopes(scope.Filter()).Order("current_xp DESC").Find(&members).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Erro ao gerar relatório"})
		return nil, false
	}

	var bases []models.Base
	database.DB.Find(&bases)
	baseNames := make(map[uint]string, len(bases))
	for _, b := range bases {
		baseNames[b.ID] = b.Name
	}

	var districts []models.District
	database.DB.Find(&districts)
	districtNames := make(map[uint]string, len(districts))
	for _, d := range districts {
		districtNames[d.ID] = d.Name
	}

	rows := make([]reportRow, 0, len(members))
	for i, m := range members {
		row := reportRow{
			Position: i + 1,
			Name:     m.Name,
			Email:    m.Email,
			XP:       m.CurrentXP,
			Role:     m.Role,
		}
		if m.BaseID != nil {
			row.Base = baseNames[*m.BaseID]
		}
		if m.DistrictID != nil {
			row.District = districtNames[*m.DistrictID]
		}
		rows = append(rows, row)
	}
	return rows, true
}

var reportHeaders = []string{"Posição", "Nome", "Email", "XP", "Base", "Distrito", "Função"}

// GET /api/admin/reports/members.xlsx
func ExportMembersXLSXHandler(w http.ResponseWriter, r *http.Request) {
	rows, ok := reportRows(w, r)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Membros"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, row := range rows {
		values := []interface{}{row.Position, row.Name, row.Email, row.XP, row.Base, row.District, row.Role}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	f.SetColWidth(sheet, "B", "C", 28)
	f.SetColWidth(sheet, "E", "F", 22)

	filename := fmt.Sprintf("membros_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(w); err != nil {
		// headers already sent; nothing useful left to report
		return
	}
}

// GET /api/admin/reports/members.pdf
func ExportMembersPDFHandler(w http.ResponseWriter, r *http.Request) {
	rows, ok := reportRows(w, r)
	if !ok {
		return
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Ranking de Membros", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Ranking de Membros")
	pdf.Ln(12)

	widths := []float64{18, 55, 65, 20, 45, 45, 30}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range reportHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		values := []string{
			fmt.Sprintf("%d", row.Position), row.Name, row.Email,
			fmt.Sprintf("%d", row.XP), row.Base, row.District, row.Role,
		}
		for i, v := range values {
			pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	filename := fmt.Sprintf("membros_%s.pdf", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := pdf.Output(w); err != nil {
		return
	}
}
