package service

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/pageza/fitplate/backend/internal/models"
)

// Workout export sheet names
const (
	SheetSets    = "Sets"
	SheetSummary = "Summary"
)

type exportStyles struct {
	header int
	text   int
	number int
	date   int
}

func createExportStyles(f *excelize.File) (*exportStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "#BFBFBF", Style: 1},
		{Type: "right", Color: "#BFBFBF", Style: 1},
		{Type: "top", Color: "#BFBFBF", Style: 1},
		{Type: "bottom", Color: "#BFBFBF", Style: 1},
	}

	styles := &exportStyles{}
	var err error

	styles.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}

	styles.text, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}

	styles.number, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}

	dateFormat := "yyyy-mm-dd hh:mm"
	styles.date, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Alignment:    &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:       border,
		CustomNumFmt: &dateFormat,
	})
	if err != nil {
		return nil, err
	}

	return styles, nil
}

type exerciseSummary struct {
	name     string
	sets     int
	reps     int
	volume   float64
	topKg    float64
	sessions map[uuid.UUID]bool
}

// ExportXLSX renders every logged set of the user into a workbook with a
// Sets sheet and a per-exercise Summary sheet.
func (s *WorkoutService) ExportXLSX(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var sessions []models.WorkoutSession
	err := s.db.WithContext(ctx).
		Preload("Sets", func(db *gorm.DB) *gorm.DB {
			return db.Order("performed_at ASC, set_number ASC")
		}).
		Where("user_id = ?", userID).
		Order("started_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetSets); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	styles, err := createExportStyles(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create styles: %w", err)
	}

	summaries, err := writeSetsSheet(f, styles, sessions)
	if err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, styles, summaries); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	log.Printf("[WorkoutService] Exported %d sessions for user %s", len(sessions), userID)
	return buf.Bytes(), nil
}

func writeSetsSheet(f *excelize.File, styles *exportStyles, sessions []models.WorkoutSession) (map[string]*exerciseSummary, error) {
	headers := []string{"Date", "Session", "Exercise", "Set", "Reps", "Weight (kg)", "RPE", "Volume (kg)"}
	if err := writeHeader(f, SheetSets, headers, styles.header); err != nil {
		return nil, err
	}

	widths := map[string]float64{"A": 18, "B": 22, "C": 30, "D": 8, "E": 8, "F": 12, "G": 8, "H": 12}
	for col, w := range widths {
		if err := f.SetColWidth(SheetSets, col, col, w); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	summaries := make(map[string]*exerciseSummary)
	row := 2
	for _, session := range sessions {
		for _, set := range session.Sets {
			name := set.ExerciseName
			if name == "" {
				name = set.ExerciseID
			}

			values := []interface{}{set.PerformedAt, session.Name, name, set.SetNumber, set.Reps, set.WeightKg, nil, set.Volume()}
			if set.RPE != nil {
				values[6] = *set.RPE
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if err := f.SetCellValue(SheetSets, cell, v); err != nil {
					return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
				}
			}
			_ = f.SetCellStyle(SheetSets, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.date)
			_ = f.SetCellStyle(SheetSets, fmt.Sprintf("B%d", row), fmt.Sprintf("C%d", row), styles.text)
			_ = f.SetCellStyle(SheetSets, fmt.Sprintf("D%d", row), fmt.Sprintf("H%d", row), styles.number)
			row++

			sum, ok := summaries[set.ExerciseID]
			if !ok {
				sum = &exerciseSummary{name: name, sessions: make(map[uuid.UUID]bool)}
				summaries[set.ExerciseID] = sum
			}
			sum.sets++
			sum.reps += set.Reps
			sum.volume += set.Volume()
			if set.WeightKg > sum.topKg {
				sum.topKg = set.WeightKg
			}
			sum.sessions[session.ID] = true
		}
	}

	if err := f.SetPanes(SheetSets, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		log.Printf("[WorkoutService] Failed to freeze header row: %v", err)
	}

	return summaries, nil
}

func writeSummarySheet(f *excelize.File, styles *exportStyles, summaries map[string]*exerciseSummary) error {
	headers := []string{"Exercise", "Sessions", "Sets", "Reps", "Volume (kg)", "Top weight (kg)"}
	if err := writeHeader(f, SheetSummary, headers, styles.header); err != nil {
		return err
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 30)
	_ = f.SetColWidth(SheetSummary, "B", "F", 14)

	list := make([]*exerciseSummary, 0, len(summaries))
	for _, sum := range summaries {
		list = append(list, sum)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].volume != list[j].volume {
			return list[i].volume > list[j].volume
		}
		return list[i].name < list[j].name
	})

	for i, sum := range list {
		row := i + 2
		values := []interface{}{sum.name, len(sum.sessions), sum.sets, sum.reps, sum.volume, sum.topKg}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellValue(SheetSummary, cell, v); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
		_ = f.SetCellStyle(SheetSummary, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.text)
		_ = f.SetCellStyle(SheetSummary, fmt.Sprintf("B%d", row), fmt.Sprintf("F%d", row), styles.number)
	}

	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header %s: %w", h, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return nil
}
