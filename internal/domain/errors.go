package domain

import "errors"

// Domain errors.
var (
	ErrMalformedCatalog   = errors.New("malformed catalog")
	ErrStructuralConflict = errors.New("structural conflict")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrMissingFile        = errors.New("missing file")
	ErrInvalidKeyPath     = errors.New("invalid key path")
	ErrNoCatalogs         = errors.New("no catalog could be loaded")
	ErrUnknownFormat      = errors.New("unknown format")
	ErrInvalidLanguage    = errors.New("invalid language identifier")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrMalformedCatalog, "malformed_catalog"},
	{ErrStructuralConflict, "structural_conflict"},
	{ErrDuplicateKey, "duplicate_key"},
	{ErrMissingFile, "missing_file"},
	{ErrInvalidKeyPath, "invalid_key_path"},
	{ErrNoCatalogs, "no_catalogs"},
	{ErrUnknownFormat, "unknown_format"},
	{ErrInvalidLanguage, "invalid_language"},
}

// Code returns the stable code of the first domain error found in err's chain,
// or "" when err is nil or carries no domain error.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}
