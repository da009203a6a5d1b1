// internal/core/validation.go
package core

// Column limits enforced before a row is written.
const (
	MaxUserIDLen       = 50
	MaxNameLen         = 100
	MaxPasswordLen     = 255
	MaxSexLen          = 50
	MaxActivityTypeLen = 50
	MaxMoodLen         = 50
	MaxDurationLen     = 8
	MaxSongTitleLen    = 100
	MaxArtistLen       = 100
)

// Field pairs a labeled value with its maximum byte length for limit checks.
type Field struct {
	Label string
	Value string
	Max   int
}

// ExceedsLimits reports the label of the first field longer than its limit.
func ExceedsLimits(fields ...Field) (string, bool) {
	for _, f := range fields {
		if len(f.Value) > f.Max {
			return f.Label, true
		}
	}
	return "", false
}

// FirstMissing reports the label of the first field with an empty value.
// Fields are checked in the order given so error messages stay stable.
func FirstMissing(fields ...Field) (string, bool) {
	for _, f := range fields {
		if f.Value == "" {
			return f.Label, true
		}
	}
	return "", false
}
