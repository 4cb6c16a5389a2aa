package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvert(t *testing.T) {
	tests := []struct {
		name      string
		intervals []int
		n         int
		expected  []int
	}{
		{"root position", []int{0, 4, 7}, 0, []int{0, 4, 7}},
		{"first inversion", []int{0, 4, 7}, 1, []int{4, 7, 12}},
		{"second inversion", []int{0, 4, 7}, 2, []int{7, 12, 16}},
		{"full cycle raises an octave", []int{0, 4, 7}, 3, []int{12, 16, 19}},
		{"seventh chord", []int{0, 3, 7, 10}, 1, []int{3, 7, 10, 12}},
		{"empty", []int{}, 2, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Invert(tt.intervals, tt.n))
		})
	}
}

func TestInvert_DoesNotMutateInput(t *testing.T) {
	in := []int{0, 4, 7}
	_ = Invert(in, 2)
	assert.Equal(t, []int{0, 4, 7}, in)
}

func TestRotate(t *testing.T) {
	assert.Equal(t, []int{2, 1, 2, 2, 2, 1, 2}, Rotate([]int{2, 2, 1, 2, 2, 2, 1}, 1))
	assert.Equal(t, []int{2, 2, 1, 2}, Rotate([]int{2, 1, 2, 2}, -1))
	assert.Empty(t, Rotate(nil, 3))
}

func TestTriadIntervals(t *testing.T) {
	tests := []struct {
		quality   ChordQuality
		inversion int
		expected  []int
	}{
		{Major, 0, []int{0, 4, 7}},
		{Major, 1, []int{4, 7, 12}},
		{Major7, 0, []int{0, 4, 7, 11}},
		{Minor, 2, []int{7, 12, 15}},
		{Minor7, 0, []int{0, 3, 7, 10}},
		{Dominant7, 0, []int{0, 4, 7, 10}},
		{"dom_7", 0, []int{0, 4, 7, 10}},
		{Diminished, 0, []int{0, 3, 6}},
		{"dim", 1, []int{3, 6, 12}},
	}

	for _, tt := range tests {
		t.Run(string(tt.quality), func(t *testing.T) {
			got, err := TriadIntervals(tt.quality, tt.inversion)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTriadIntervals_TableIsNotShared(t *testing.T) {
	first, err := TriadIntervals(Major, 0)
	require.NoError(t, err)
	first[0] = 99

	again, err := TriadIntervals(Major, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 7}, again)
}

func TestTriadIntervals_Invalid(t *testing.T) {
	_, err := TriadIntervals("augmented", 0)
	assert.ErrorIs(t, err, ErrInvalidChordQuality)
}

func TestModeIntervals(t *testing.T) {
	ionian, err := ModeIntervals("ionian")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1, 2, 2, 2, 1}, ionian)

	aeolian, err := ModeIntervals("aeolian")
	require.NoError(t, err)
	minor, err := ScaleIntervals(MinorScale)
	require.NoError(t, err)
	assert.Equal(t, minor, aeolian)

	for _, mode := range Modes() {
		steps, err := ModeIntervals(mode)
		require.NoError(t, err)
		sum := 0
		for _, s := range steps {
			sum += s
		}
		assert.Equal(t, 12, sum, mode)
	}

	// Modes rotate the steps; octave-raising them with Invert would break the
	// twelve-semitone sum.
	phrygian, err := ModeIntervals("phrygian")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 2, 2, 1, 2, 2}, phrygian)
	assert.Equal(t, []int{1, 2, 2, 2, 1, 14, 14}, Invert(ionian, 2))
	assert.NotEqual(t, Invert(ionian, 2), phrygian)

	_, err = ModeIntervals("hypodorian")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestScaleIntervals(t *testing.T) {
	dim, err := ScaleIntervals(DiminishedScale)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 2, 1, 2, 1, 2}, dim)

	_, err = ScaleIntervals("blues")
	assert.ErrorIs(t, err, ErrInvalidScale)
}
