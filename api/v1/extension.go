package v1

import (
	"github.com/kubev2v/datatables/internal/models"
)

// NewTableFromModel converts a models.GridSummary to an API Table.
func NewTableFromModel(g models.GridSummary) Table {
	columns := make([]string, len(g.Columns))
	copy(columns, g.Columns)
	return Table{
		Name:    g.Name,
		Columns: columns,
	}
}

// NewTableList builds the table list, attaching row counts from stats by
// grid name. Stats that failed carry no count.
func NewTableList(grids []models.GridSummary, stats []models.TableStats) TableList {
	rows := make(map[string]int, len(stats))
	for _, s := range stats {
		if s.Error == "" {
			rows[s.Name] = s.Rows
		}
	}

	list := TableList{Tables: make([]Table, 0, len(grids))}
	for _, g := range grids {
		t := NewTableFromModel(g)
		if n, found := rows[g.Name]; found {
			t.Rows = &n
		}
		list.Tables = append(list.Tables, t)
	}
	return list
}

func NewTableStatsFromModel(s models.TableStats) TableStats {
	out := TableStats{
		Name:      s.Name,
		Rows:      s.Rows,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Error != "" {
		e := s.Error
		out.Error = &e
	}
	return out
}

func NewStatsResponse(stats []models.TableStats) StatsResponse {
	resp := StatsResponse{Tables: make([]TableStats, 0, len(stats))}
	for _, s := range stats {
		resp.Tables = append(resp.Tables, NewTableStatsFromModel(s))
	}
	return resp
}
