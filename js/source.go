package js

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidUTF8 the source is not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 source")

// ReadSource reads the file as UTF-8 text.
// A leading byte order mark is dropped and a leading "#!" line is
// commented out, keeping line numbers intact.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	source, err := DecodeSource(data)
	if err != nil {
		return "", &fs.PathError{Op: "decode", Path: path, Err: err}
	}
	return source, nil
}

// DecodeSource decodes the UTF-8 source bytes.
// Invalid UTF-8 fails with ErrInvalidUTF8.
func DecodeSource(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrInvalidUTF8
	}
	data, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", err
	}
	if bytes.HasPrefix(data, []byte("#!")) {
		data = append([]byte("//"), data...)
	}
	return string(data), nil
}
