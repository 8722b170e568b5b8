package rankingservice

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"
)

const ladderSheet = "Ladder"

// ExportLadderRanking renders the ladder ranking as an xlsx workbook.
func (s *RankingService) ExportLadderRanking(ctx context.Context, ladderID int64) ([]byte, error) {
	return withTelemetry(s, ctx, "ExportLadderRanking", idString(ladderID), func(ctx context.Context) ([]byte, error) {
		ranking, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*LadderRanking, error) {
			return s.getLadderRankingLogic(ctx, db, ladderID)
		})
		if err != nil {
			return nil, err
		}
		return BuildLadderWorkbook(ranking)
	})
}

// BuildLadderWorkbook writes one row per entry: rank, player, AF, SRPR, last
// active, each tag total, then each chart's display value.
func BuildLadderWorkbook(ranking *LadderRanking) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ladderSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"Rank", "Player", "AF", "SRPR", "Last active"}
	if len(ranking.Entries) > 0 {
		for _, t := range ranking.Entries[0].Totals {
			header = append(header, t.Name)
		}
	}
	for _, c := range ranking.Charts {
		header = append(header, c.Name)
	}
	if err := f.SetSheetRow(ladderSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, e := range ranking.Entries {
		row := []interface{}{e.Rank, e.Username, e.AF, e.SRPR, e.LastActive}
		for _, t := range e.Totals {
			if t.Display == nil {
				row = append(row, "")
				continue
			}
			row = append(row, *t.Display)
		}
		for _, c := range e.Cells {
			if c == nil {
				row = append(row, "")
				continue
			}
			row = append(row, c.Display)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(ladderSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
