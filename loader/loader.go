// Package loader reads and writes the textual Pep/10 object format: object
// bytes as uppercase hex pairs separated by whitespace, terminated by "zz".
package loader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Terminator marks the end of an object-code file.
const Terminator = "zz"

// DefaultBytesPerLine is the row width used when none is configured.
const DefaultBytesPerLine = 16

// FormatObject renders object code as hex text, bytesPerLine pairs per row,
// with the terminator on its own row.
func FormatObject(code []byte, bytesPerLine int) string {
	if bytesPerLine <= 0 {
		bytesPerLine = DefaultBytesPerLine
	}

	var sb strings.Builder
	for i, b := range code {
		fmt.Fprintf(&sb, "%02X", b)
		if (i+1)%bytesPerLine == 0 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
	if len(code)%bytesPerLine != 0 {
		sb.WriteByte('\n')
	}
	sb.WriteString(Terminator)
	sb.WriteByte('\n')
	return sb.String()
}

// ParseObject decodes hex object text back into the byte stream. Reading
// stops at the terminator, which must be present.
func ParseObject(text string) ([]byte, error) {
	var code []byte
	for _, field := range strings.Fields(text) {
		if field == Terminator {
			return code, nil
		}
		if len(field) != 2 {
			return nil, errors.Errorf("malformed object byte %q", field)
		}
		b, err := strconv.ParseUint(field, 16, 8)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed object byte %q", field)
		}
		code = append(code, byte(b))
	}
	return nil, errors.New("object text missing terminator")
}

// WriteFile writes object code to path in the textual format.
func WriteFile(path string, code []byte, bytesPerLine int) error {
	if err := os.WriteFile(path, []byte(FormatObject(code, bytesPerLine)), 0644); err != nil {
		return errors.Wrapf(err, "writing object file %s", path)
	}
	return nil
}

// ReadFile loads an object file and decodes it.
func ReadFile(path string) ([]byte, error) {
	text, err := os.ReadFile(path) // #nosec G304 -- user-supplied object file path
	if err != nil {
		return nil, errors.Wrapf(err, "reading object file %s", path)
	}
	code, err := ParseObject(string(text))
	if err != nil {
		return nil, errors.Wrapf(err, "decoding object file %s", path)
	}
	return code, nil
}
