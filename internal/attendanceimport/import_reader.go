package attendanceimport

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	importerrors "go-payroll/internal/attendanceimport/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadRows splits a plain text or CSV export into rows. CSV separators are
// turned into spaces since the export has no fixed columns.
func ReadRows(r io.Reader, csv bool) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, importerrors.ErrUnreadableFile.WithCause(err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, importerrors.ErrNoRows
	}
	if !utf8.Valid(data) {
		return nil, importerrors.ErrInvalidEncoding
	}

	var rows []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if csv {
			line = strings.NewReplacer(",", " ", ";", " ", "\t", " ", `"`, "").Replace(line)
		}
		rows = append(rows, line)
	}
	if err := sc.Err(); err != nil {
		return nil, importerrors.ErrUnreadableFile.WithCause(err)
	}
	return rows, nil
}

func IsCSV(fileName string) bool {
	return strings.HasSuffix(strings.ToLower(fileName), ".csv")
}
