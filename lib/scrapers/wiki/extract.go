package wiki

import (
	"context"
	"log/slog"

	"kpolitics-backend/lib/htmlutil"
	"kpolitics-backend/lib/regions"
)

const (
	// every metropolitan-level region has exactly one governor
	ExpectedMetropolitanCount = 17
	// 226 basic-level offices exist; the source occasionally loses a
	// few rows to markup churn, so the floor is deliberately loose
	ExpectedBasicCountFloor = 200

	defaultParty  = "무소속"
	unknownRegion = "미분류"
)

// DroppedRow records a data-bearing row that failed validation. Kept so
// operators can tell a source layout change from ordinary markup noise.
type DroppedRow struct {
	Table  int
	Row    int
	Cells  []string
	Reason string
}

type ExtractResult struct {
	Officials []OfficialRecord
	Dropped   []DroppedRow
}

// both roster pages lay data rows out the same way:
// office | party color | party | name | notes
func recordFromCells(cells []string) OfficialRecord {
	record := OfficialRecord{
		Position:         cells[0],
		Party:            cells[2],
		Name:             cells[3],
		InaugurationDate: DefaultInaugurationDate,
	}
	if record.Party == "" {
		record.Party = defaultParty
	}
	if len(cells) >= 5 {
		record.Notes = cells[4]
	}
	record.Status = DeriveStatus(record.Notes, record.Name)
	return record
}

// ExtractMetropolitan pulls the 17 metropolitan governors out of the
// scraped tables. Rows with fewer than 4 cells are markup, not offices,
// and are skipped silently; rows that look like data but fail region
// validation are returned in Dropped.
func ExtractMetropolitan(ctx context.Context, tables []htmlutil.Table) ExtractResult {
	var result ExtractResult
	for tableIdx, table := range tables {
		for rowIdx, row := range table.Rows {
			if len(row.Cells) < 4 {
				continue
			}
			record := recordFromCells(row.Cells)
			record.Region = regions.MetroRegionFromTitle(record.Position)

			if record.Name == "" || !regions.IsMetropolitan(record.Region) {
				if record.Position != "" && record.Name != "" {
					result.Dropped = append(result.Dropped, DroppedRow{
						Table:  tableIdx,
						Row:    rowIdx,
						Cells:  row.Cells,
						Reason: "not a metropolitan office",
					})
				}
				continue
			}
			result.Officials = append(result.Officials, record)
		}
	}

	if len(result.Officials) != ExpectedMetropolitanCount {
		slog.WarnContext(ctx, "unexpected metropolitan governor count",
			"got", len(result.Officials),
			"want", ExpectedMetropolitanCount,
			"dropped", len(result.Dropped))
	}
	return result
}

// BasicSchema maps the Nth basic-level table on the page to the
// metropolitan region it belongs to. The rows themselves carry no
// region field, only table position does, and Sejong has no basic-level
// offices so its table simply does not exist. That gap lives here as
// data rather than in extraction logic.
type BasicSchema struct {
	// bump when the page layout changes so stored snapshots can be
	// told apart
	Version    string
	TableOrder []string
}

func DefaultBasicSchema() BasicSchema {
	return BasicSchema{
		Version: "2022-local-election",
		TableOrder: []string{
			"서울특별시",
			"부산광역시",
			"대구광역시",
			"인천광역시",
			"광주광역시",
			"대전광역시",
			"울산광역시",
			"경기도",
			"강원특별자치도",
			"충청북도",
			"충청남도",
			"전북특별자치도",
			"전라남도",
			"경상북도",
			"경상남도",
		},
	}
}

func (s BasicSchema) regionForTable(idx int) string {
	if idx >= 0 && idx < len(s.TableOrder) {
		return s.TableOrder[idx]
	}
	return unknownRegion
}

// Extract pulls the basic-level officeholders out of the scraped
// tables. The region for each row comes from the table's position in
// the schema, overridden by any low-cell-count section header row
// naming a metropolitan region.
func (s BasicSchema) Extract(ctx context.Context, tables []htmlutil.Table) ExtractResult {
	var result ExtractResult
	for tableIdx, table := range tables {
		region := s.regionForTable(tableIdx)

		for _, row := range table.Rows {
			// section header rows span the table and carry the region
			// name, trust them over the table-index guess
			if len(row.Cells) >= 1 && len(row.Cells) <= 2 {
				if text := row.Cells[0]; regions.IsMetropolitan(text) {
					region = text
				}
				continue
			}
			if len(row.Cells) < 4 {
				continue
			}

			record := recordFromCells(row.Cells)
			record.Region = region
			if record.Position == "" || record.Name == "" {
				continue
			}
			result.Officials = append(result.Officials, record)
		}
	}

	if len(result.Officials) < ExpectedBasicCountFloor {
		slog.WarnContext(ctx, "basic-level governor count below expectation",
			"got", len(result.Officials),
			"floor", ExpectedBasicCountFloor)
	}
	return result
}
