// internal/exercise/codec_test.go
package exercise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEmptyInput(t *testing.T) {
	d := Decode("")
	assert.Empty(t, d.Names())
	assert.Zero(t, d.Len())
	assert.Empty(t, d.All())
}

func TestDecodeSingleEntry(t *testing.T) {
	d := Decode("Pushups: reps 20 count")

	assert.Equal(t, []string{"Pushups"}, d.Names())
	assert.Equal(t, []Entry{{Metric: "reps", Value: "20", Unit: "count"}}, d.Entries("Pushups"))
}

func TestDecodePreservesOrder(t *testing.T) {
	d := Decode("A: x 1 y, B: z 2 w")

	assert.Equal(t, []string{"A", "B"}, d.Names())
	assert.Equal(t, []Entry{{Metric: "x", Value: "1", Unit: "y"}}, d.Entries("A"))
	assert.Equal(t, []Entry{{Metric: "z", Value: "2", Unit: "w"}}, d.Entries("B"))
}

func TestDecodeGroupsRepeatedNames(t *testing.T) {
	d := Decode("Squats: reps 15 count, Plank: time 60 sec, Squats: weight 40 kg")

	assert.Equal(t, []string{"Squats", "Plank"}, d.Names())
	assert.Equal(t, []Entry{
		{Metric: "reps", Value: "15", Unit: "count"},
		{Metric: "weight", Value: "40", Unit: "kg"},
	}, d.Entries("Squats"))
	assert.Equal(t, 3, d.Len())
}

func TestDecodeDropsMalformedEntries(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  int
	}{
		{"no colon separator", "NoColonHere", 0},
		{"too few tokens", "Pushups: reps 20", 0},
		{"double colon separator", "A: b: c 1 x", 0},
		{"malformed among valid", "Bad, Pushups: reps 20 count, AlsoBad: x", 1},
		{"extra tokens ignored", "Rowing: distance 5 km split 2:05", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Decode(tc.input)
			assert.Equal(t, tc.want, d.Len())
		})
	}
}

func TestDecodeTrimsNames(t *testing.T) {
	d := Decode("  Pushups : reps 20 count")

	// The name side of ": " is trimmed before grouping.
	assert.Equal(t, []string{"Pushups"}, d.Names())
}

func TestDecodeAllFlattensGroupedOrder(t *testing.T) {
	d := Decode("A: x 1 y, B: z 2 w, A: q 3 r")

	all := d.All()
	assert.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, "A", all[1].Name)
	assert.Equal(t, "B", all[2].Name)
	assert.Equal(t, Entry{Metric: "q", Value: "3", Unit: "r"}, all[1].Entry)
}
