package sheet

import (
	"errors"
	"fmt"
	"strings"
)

// Recognized upload extensions.
const (
	ExtXLSX = ".xlsx"
	ExtXLS  = ".xls"
)

// ErrUnsupportedExtension is returned when a file name does not end in a
// recognized spreadsheet extension.
var ErrUnsupportedExtension = errors.New("unsupported spreadsheet extension")

// Ext returns the recognized extension of name, or "" if there is none.
// The match is on the lowercase suffix only, so "roster.XLSX" is rejected.
func Ext(name string) string {
	switch {
	case strings.HasSuffix(name, ExtXLSX):
		return ExtXLSX
	case strings.HasSuffix(name, ExtXLS):
		return ExtXLS
	default:
		return ""
	}
}

// Reader parses spreadsheet bytes. The zero value is ready to use.
type Reader struct{}

// Read parses the first worksheet of the file. The extension of fileName
// selects the decoder.
func (Reader) Read(fileName string, data []byte) (*Data, error) {
	switch Ext(fileName) {
	case ExtXLSX:
		return readXLSX(data)
	case ExtXLS:
		return readXLS(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, fileName)
	}
}
