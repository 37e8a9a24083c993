// Package report renders an analysis result as a PDF for design review.
package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"Raftex/internal/compliance"
	"Raftex/internal/pipeline"
	"Raftex/internal/predict"

	"github.com/phpdave11/gofpdf"
)

type Input struct {
	Project string          `json:"project"`
	Author  string          `json:"author"`
	Title   string          `json:"title"`
	Notes   string          `json:"notes"`
	Result  pipeline.Result `json:"result"`
}

type Handler struct{}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		input.Title = "Raft Foundation Compliance Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, input.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", input.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", input.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	res := input.Result

	section(pdf, "Structural response")
	row(pdf, "Settlement", fmt.Sprintf("%.1f mm", res.Structural.SettlementMM))
	row(pdf, "Punching shear ratio", fmt.Sprintf("%.3f", res.Structural.PunchingShearRatio))
	row(pdf, "Bearing pressure", fmt.Sprintf("%.1f kPa", res.Structural.BearingPressureKPa))
	pdf.Ln(4)

	section(pdf, "Reinforcement design")
	direction(pdf, "Bottom X", res.Reinforcement.BottomX)
	direction(pdf, "Bottom Y", res.Reinforcement.BottomY)
	direction(pdf, "Top X", res.Reinforcement.TopX)
	direction(pdf, "Top Y", res.Reinforcement.TopY)
	pdf.Ln(4)

	section(pdf, "Compliance")
	criterion(pdf, res.Verdict.Settlement)
	criterion(pdf, res.Verdict.PunchingShear)
	criterion(pdf, res.Verdict.BearingPressure)
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	if res.Verdict.Pass {
		pdf.Cell(0, 8, "OVERALL: PASS")
	} else {
		pdf.Cell(0, 8, "OVERALL: FAIL")
	}
	pdf.Ln(10)

	if len(res.Warnings) > 0 {
		section(pdf, "Warnings")
		pdf.SetFont("Helvetica", "", 10)
		for _, warn := range res.Warnings {
			pdf.MultiCell(0, 5, "- "+warn, "", "L", false)
		}
		pdf.Ln(4)
	}

	if input.Notes != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, input.Notes, "", "L", false)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"raft-report.pdf\"")
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}

func section(pdf *gofpdf.Fpdf, name string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, name)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
}

func row(pdf *gofpdf.Fpdf, name, value string) {
	pdf.Cell(70, 6, name)
	pdf.Cell(0, 6, value)
	pdf.Ln(6)
}

func direction(pdf *gofpdf.Fpdf, name string, d predict.DirectionDesign) {
	row(pdf, name, fmt.Sprintf("%.0f mm2/m, d%.0f @ %.0f mm, %d bars",
		d.AreaMM2PerM, d.BarDiameterMM, d.SpacingMM, d.BarCount))
}

func criterion(pdf *gofpdf.Fpdf, c compliance.CriterionResult) {
	status := "PASS"
	if !c.Pass {
		status = "FAIL"
	}
	row(pdf, c.Criterion, fmt.Sprintf("%s (value %.3f, threshold %.3f)", status, c.Value, c.Threshold))
	if c.Reason != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, "  "+c.Reason, "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
	}
}
