package features

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/smallbiznis/pixomat/internal/dispatch"
	"github.com/xuri/excelize/v2"
)

// sheetRows opens a workbook and returns the rows of its first sheet.
func sheetRows(upload *dispatch.Upload) ([][]string, error) {
	if upload == nil {
		return nil, fmt.Errorf("%w: no file provided", dispatch.ErrInvalidInput)
	}
	book, err := excelize.OpenReader(bytes.NewReader(upload.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dispatch.ErrInvalidInput, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", dispatch.ErrInvalidInput)
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dispatch.ErrInvalidInput, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet is empty", dispatch.ErrInvalidInput)
	}
	return rows, nil
}

// cell pads ragged rows with empty strings.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func xlsToCSV(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	rows, err := sheetRows(req.File)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	width := len(rows[0])
	for _, row := range rows {
		record := make([]string, width)
		for i := range record {
			record[i] = cell(row, i)
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return &dispatch.Result{Artifact: &dispatch.Artifact{
		Name: "converted.csv",
		MIME: "text/csv",
		Data: buf.Bytes(),
	}}, nil
}

func xlsToJSON(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	rows, err := sheetRows(req.File)
	if err != nil {
		return nil, err
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, col := range header {
			record[col] = cell(row, i)
		}
		records = append(records, record)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	return &dispatch.Result{Artifact: &dispatch.Artifact{
		Name: "converted.json",
		MIME: "application/json",
		Data: data,
	}}, nil
}

func xlsToXML(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	rows, err := sheetRows(req.File)
	if err != nil {
		return nil, err
	}

	header := rows[0]
	var buf bytes.Buffer
	buf.WriteString("<Records>")
	for _, row := range rows[1:] {
		buf.WriteString("<Record>")
		for i, col := range header {
			buf.WriteString("<" + col + ">")
			xml.EscapeText(&buf, []byte(cell(row, i)))
			buf.WriteString("</" + col + ">")
		}
		buf.WriteString("</Record>")
	}
	buf.WriteString("</Records>")

	return &dispatch.Result{Artifact: &dispatch.Artifact{
		Name: "converted.xml",
		MIME: "application/xml",
		Data: buf.Bytes(),
	}}, nil
}
