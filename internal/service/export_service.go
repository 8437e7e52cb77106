package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"vanguard-hq/backend/config"
	"vanguard-hq/backend/internal/repository"
)

// ExportService renders roster data for offline use.
type ExportService interface {
	// RosterXLSX builds a spreadsheet of all active members.
	RosterXLSX(ctx context.Context) (*bytes.Buffer, error)
}

type exportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates the ExportService.
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger}
}

const rosterSheet = "Roster"

func (s *exportService) RosterXLSX(ctx context.Context) (*bytes.Buffer, error) {
	users, err := s.repo.User.ListActive(ctx)
	if err != nil {
		s.logger.Error("list active users failed", zap.Error(err))
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(rosterSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"Callsign", "Rank", "Branch", "Unit", "Join Date", "Email"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(rosterSheet, cell, h); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		_ = f.SetCellStyle(rosterSheet, "A1", "F1", headerStyle)
	}

	for i := range users {
		u := &users[i]
		row := i + 2

		rankName := ""
		if u.CurrentRank != nil {
			rankName = u.CurrentRank.Name
		}
		unitName := ""
		if u.Unit != nil {
			unitName = u.Unit.Name
		}
		joinDate := ""
		if u.JoinDate != nil {
			joinDate = u.JoinDate.Format("2006-01-02")
		}

		values := []interface{}{u.Callsign, rankName, u.Branch, unitName, joinDate, u.Email}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(rosterSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(rosterSheet, "A", "F", 22); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("write roster workbook failed", zap.Error(err))
		return nil, fmt.Errorf("write roster workbook: %w", err)
	}

	s.logger.Info("roster exported",
		zap.String("org", s.cfg.Org.Name),
		zap.Int("members", len(users)),
	)
	return buf, nil
}
