package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRows() []history.Row {
	cardID := uuid.MustParse("0b7e5d6a-1c2f-4e3a-9b8c-7d6e5f4a3b2c")
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return []history.Row{
		{
			CardID: cardID, Rating: 2, RatingLabel: "good", ReviewedAt: at,
			ScheduledDays: 2.5, ElapsedDays: 0, Stage: "learning", Mode: "scheduled",
			Change: history.ChangeFirstReview,
		},
		{
			CardID: cardID, Rating: 9, RatingLabel: "good", ReviewedAt: at.Add(48 * time.Hour),
			ScheduledDays: 0, ElapsedDays: 2, Stage: "learning", Mode: "cram",
			Change: history.ChangeNone,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"csv", FormatCSV, false},
		{" XLSX ", FormatXLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, "history.xlsx", FormatXLSX.Filename("history"))
	assert.Contains(t, FormatCSV.ContentType(), "text/csv")
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleRows()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{
		"0b7e5d6a-1c2f-4e3a-9b8c-7d6e5f4a3b2c", "2", "good", "2026-03-01T09:30:00Z",
		"2.5", "0", "learning", "scheduled", "first_review",
	}, records[1])
	assert.Equal(t, "9", records[2][1])
	assert.Equal(t, "", records[2][8])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{Header}, records)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "0b7e5d6a-1c2f-4e3a-9b8c-7d6e5f4a3b2c", rows[1][0])
	assert.Equal(t, "2.5", rows[1][4])
	assert.Equal(t, "first_review", rows[1][8])
	assert.Equal(t, "cram", rows[2][7])
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, "pdf", nil), ErrUnknownFormat)
}
