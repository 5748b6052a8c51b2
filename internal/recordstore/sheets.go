package recordstore

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// SheetsStore is the production backend: one Google Sheets spreadsheet with
// one worksheet per table. All calls are raw-valued (no formula evaluation)
// so what the engine writes is what it reads back.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string

	// worksheet title → numeric sheet ID, needed for structural requests
	// (row deletion, sheet creation). Refreshed on miss.
	sheetIDs map[string]int64
}

// NewSheetsStore connects to the spreadsheet. credentialsFile may be empty,
// in which case application default credentials are used.
func NewSheetsStore(ctx context.Context, spreadsheetID, credentialsFile string) (*SheetsStore, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	s := &SheetsStore{svc: svc, spreadsheetID: spreadsheetID}
	if err := s.refreshSheetIDs(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SheetsStore) refreshSheetIDs(ctx context.Context) error {
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties(sheetId,title)").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("spreadsheet metadata: %w", err)
	}
	ids := make(map[string]int64, len(meta.Sheets))
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			ids[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	s.sheetIDs = ids
	return nil
}

func (s *SheetsStore) sheetID(ctx context.Context, table string) (int64, error) {
	if id, ok := s.sheetIDs[table]; ok {
		return id, nil
	}
	if err := s.refreshSheetIDs(ctx); err != nil {
		return 0, err
	}
	if id, ok := s.sheetIDs[table]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("%s: %w", table, ErrTableNotFound)
}

func (s *SheetsStore) ReadAll(ctx context.Context, table string) ([][]string, error) {
	if _, err := s.sheetID(ctx, table); err != nil {
		return nil, err
	}
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, table).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = fmt.Sprint(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

func (s *SheetsStore) AppendRow(ctx context.Context, table string, row []string) error {
	if _, err := s.sheetID(ctx, table); err != nil {
		return err
	}
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, table,
		&sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", table, err)
	}
	return nil
}

func (s *SheetsStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	if _, err := s.sheetID(ctx, table); err != nil {
		return err
	}
	rng := fmt.Sprintf("%s!%s%d", table, columnLetters(col), row)
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng,
		&sheets.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (s *SheetsStore) DeleteRow(ctx context.Context, table string, row int) error {
	id, err := s.sheetID(ctx, table)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    id,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d from %s: %w", row, table, err)
	}
	return nil
}

func (s *SheetsStore) EnsureTable(ctx context.Context, table string, headers []string) error {
	if _, ok := s.sheetIDs[table]; !ok {
		if err := s.refreshSheetIDs(ctx); err != nil {
			return err
		}
	}
	if _, ok := s.sheetIDs[table]; !ok {
		req := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: table},
				},
			}},
		}
		if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return fmt.Errorf("create sheet %s: %w", table, err)
		}
		if err := s.refreshSheetIDs(ctx); err != nil {
			return err
		}
	}
	rows, err := s.ReadAll(ctx, table)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return s.AppendRow(ctx, table, headers)
	}
	return nil
}

// columnLetters converts a 1-based column index to its A1 letter form.
func columnLetters(col int) string {
	var out []byte
	for col > 0 {
		col--
		out = append([]byte{byte('A' + col%26)}, out...)
		col /= 26
	}
	return string(out)
}
