// Package importer loads raft parameter rows from XLSX workbooks and
// exports batch results back to XLSX.
package importer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"Raftex/internal/batch"
	"Raftex/internal/pipeline"
	"Raftex/internal/raft"

	"github.com/xuri/excelize/v2"
)

type Handler struct {
	Service *pipeline.Service
}

// Raft accepts a workbook with one parameter row per raft and runs the
// batch. Malformed rows are skipped, matching spreadsheet reality.
func (h *Handler) Raft(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		http.Error(w, "Empty sheet", http.StatusBadRequest)
		return
	}

	var items []pipeline.Request
	for i := 1; i < len(rows); i++ {
		params, err := parseRaftRow(rows[i])
		if err != nil {
			continue
		}
		items = append(items, pipeline.Request{Params: params})
	}
	if len(items) == 0 {
		http.Error(w, "No usable rows", http.StatusBadRequest)
		return
	}

	out, err := batch.Run(h.Service, batch.Input{Items: items})
	if err != nil {
		http.Error(w, "Batch error", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Export runs a batch and streams the outcomes as a workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var input batch.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	out, err := batch.Run(h.Service, input)
	if err != nil {
		http.Error(w, "Batch error", http.StatusBadRequest)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []string{"index", "settlement_mm", "punching_shear_ratio", "bearing_pressure_kpa",
		"bottom_x_area", "bottom_y_area", "top_x_area", "top_y_area", "pass", "error"}
	for c, name := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		f.SetCellValue(sheet, cell, name)
	}
	for i, item := range out.Results {
		values := rowValues(item)
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"raft-batch.xlsx\"")
	if err := f.Write(w); err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
}

func rowValues(item batch.ItemResult) []interface{} {
	if item.Result == nil {
		return []interface{}{item.Index, "", "", "", "", "", "", "", "", item.Error}
	}
	res := item.Result
	return []interface{}{
		item.Index,
		res.Structural.SettlementMM,
		res.Structural.PunchingShearRatio,
		res.Structural.BearingPressureKPa,
		res.Reinforcement.BottomX.AreaMM2PerM,
		res.Reinforcement.BottomY.AreaMM2PerM,
		res.Reinforcement.TopX.AreaMM2PerM,
		res.Reinforcement.TopY.AreaMM2PerM,
		res.Verdict.Pass,
		"",
	}
}

// expected columns: column_count, raft_area_m2, column_area_m2,
// strength_mpa, unit_weight_kn_m3, subgrade_modulus_kn_m3,
// max_axial_load_kn, total_axial_load_kn, thickness_mm,
// bar_diameters_mm ("16;20;25")
func parseRaftRow(row []string) (raft.RawParameters, error) {
	if len(row) < 10 {
		return raft.RawParameters{}, fmt.Errorf("bad row")
	}

	var p raft.RawParameters
	count, err := toFloat(row[0])
	if err != nil {
		return raft.RawParameters{}, err
	}
	p.ColumnCount = int(count)

	floats := []*float64{
		&p.RaftAreaM2, &p.ColumnAreaM2, &p.ConcreteStrengthMPa, &p.UnitWeightKNM3,
		&p.SubgradeModulusKNM3, &p.MaxAxialLoadKN, &p.TotalAxialLoadKN, &p.ThicknessMM,
	}
	for i, dst := range floats {
		v, err := toFloat(row[i+1])
		if err != nil {
			return raft.RawParameters{}, err
		}
		*dst = v
	}

	for _, part := range strings.Split(row[9], ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := toFloat(part)
		if err != nil {
			return raft.RawParameters{}, err
		}
		p.BarDiametersMM = append(p.BarDiametersMM, d)
	}
	if len(p.BarDiametersMM) == 0 {
		return raft.RawParameters{}, fmt.Errorf("no bar diameters")
	}
	return p, nil
}

func toFloat(s string) (float64, error) {
	var v float64
	_, err := fmt.Sscanf(s, "%f", &v)
	return v, err
}
