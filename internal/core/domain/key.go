package domain

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Params is a transform whose canonical string form names its derivatives.
type Params interface {
	String() string
}

func (p CropParams) String() string {
	return fmt.Sprintf("x%dy%d-w%dh%d", p.X, p.Y, p.Width, p.Height)
}

func (p ResizeParams) String() string {
	return fmt.Sprintf("%dx%df%t", p.Width, p.Height, p.CenterOnFace)
}

// ParseResizeParams reads the canonical form produced by ResizeParams.String.
//
// The string is split on every 'x' and 'f' and the first three fields are read positionally.
// "50x50ffalse" therefore yields "50", "50", "", "alse": the empty third field reads as false.
func ParseResizeParams(s string) (ResizeParams, error) {
	fields := splitAny(s, "xf")
	if len(fields) < 3 {
		return ResizeParams{}, fmt.Errorf("%w: resize params %q", ErrInvalidParameters, s)
	}

	width, err := strconv.Atoi(fields[0])
	if err != nil {
		return ResizeParams{}, fmt.Errorf("%w: width %q", ErrInvalidParameters, fields[0])
	}

	height, err := strconv.Atoi(fields[1])
	if err != nil {
		return ResizeParams{}, fmt.Errorf("%w: height %q", ErrInvalidParameters, fields[1])
	}

	p := ResizeParams{
		Width:        width,
		Height:       height,
		CenterOnFace: strings.EqualFold(fields[2], "true"),
	}

	if err := p.Validate(); err != nil {
		return ResizeParams{}, fmt.Errorf("%w: resize params %q", err, s)
	}

	return p, nil
}

// DerivativeKey names the derivative of source produced by params.
func DerivativeKey(source string, params Params) string {
	base, ext := SplitName(source)
	return fmt.Sprintf("%s-%s.%s", base, params, ext)
}

// SplitName splits a filename into base name and extension at the last dot.
func SplitName(name string) (string, string) {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext), strings.TrimPrefix(ext, ".")
}

// ValidateFilename accepts only names that are a single path segment.
func ValidateFilename(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}

	return nil
}

func splitAny(s, delimiters string) []string {
	var fields []string
	start := 0
	for i, r := range s {
		if strings.ContainsRune(delimiters, r) {
			fields = append(fields, s[start:i])
			start = i + 1
		}
	}

	return append(fields, s[start:])
}
