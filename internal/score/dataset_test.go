package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionLengths(t *testing.T) {
	ds := Default()
	for _, tier := range Tiers {
		for _, sec := range Sections {
			for _, d := range Difficulties {
				seq, err := ds.Section(tier, sec, d)
				require.NoError(t, err)
				assert.Len(t, seq, sec.MaxRaw()+1, "%s/%s/%s", tier, sec, d)
			}
		}
	}
}

func TestReferenceCurvesNonDecreasing(t *testing.T) {
	ds := Default()
	for _, tier := range Tiers {
		for _, sec := range Sections {
			for _, d := range Difficulties {
				seq, err := ds.Section(tier, sec, d)
				require.NoError(t, err)
				for i := 1; i < len(seq); i++ {
					assert.LessOrEqual(t, seq[i-1], seq[i], "%s/%s/%s at %d", tier, sec, d, i)
				}
			}
		}
	}
}

func TestSectionSpotValues(t *testing.T) {
	tests := []struct {
		tier Tier
		sec  Section
		diff Difficulty
		raw  int
		want int
	}{
		{CET4, Listening, Medium, 0, 86},
		{CET4, Listening, Medium, 35, 249},
		{CET4, Listening, Hard, 20, 174},
		{CET4, Listening, Easy, 5, 87},
		{CET4, Reading, Hard, 1, 83},
		{CET4, Reading, Medium, 15, 143},
		{CET4, Writing, "", 0, 68},
		{CET4, Writing, "", 10, 116},
		{CET4, Writing, "", 30, 212},
		{CET6, Listening, Hard, 2, 51},
		{CET6, Reading, Hard, 33, 248},
		{CET6, Reading, Hard, 34, 248},
		{CET6, Reading, Medium, 1, 48},
		{CET6, Writing, "", 0, 32},
		{CET6, Writing, "", 30, 212},
	}
	for _, tt := range tests {
		seq, err := Default().Section(tt.tier, tt.sec, tt.diff)
		require.NoError(t, err)
		assert.Equal(t, tt.want, seq[tt.raw], "%s/%s/%s raw %d", tt.tier, tt.sec, tt.diff, tt.raw)
		assert.Equal(t, tt.want, ScaleScore(seq, tt.raw))
	}
}

func TestSectionWritingIgnoresDifficulty(t *testing.T) {
	base, err := Default().Section(CET6, Writing, "")
	require.NoError(t, err)
	for _, d := range append(Difficulties, "bogus") {
		seq, err := Default().Section(CET6, Writing, d)
		require.NoError(t, err)
		assert.Equal(t, base, seq)
	}
}

func TestSectionUnknownCombination(t *testing.T) {
	_, err := Default().Section("CET8", Listening, Medium)
	assert.ErrorIs(t, err, ErrUnknownCombination)

	_, err = Default().Section(CET4, "speaking", Medium)
	assert.ErrorIs(t, err, ErrUnknownCombination)

	_, err = Default().Section(CET4, Reading, "Insane")
	assert.ErrorIs(t, err, ErrUnknownCombination)
}

func TestSectionReturnsCopy(t *testing.T) {
	seq, err := Default().Section(CET4, Listening, Medium)
	require.NoError(t, err)
	seq[0] = 9999

	again, err := Default().Section(CET4, Listening, Medium)
	require.NoError(t, err)
	assert.Equal(t, 86, again[0])
}

func TestParseEnums(t *testing.T) {
	tier, err := ParseTier(" cet6 ")
	require.NoError(t, err)
	assert.Equal(t, CET6, tier)
	_, err = ParseTier("TOEFL")
	assert.ErrorIs(t, err, ErrUnknownCombination)

	d, err := ParseDifficulty("HARD")
	require.NoError(t, err)
	assert.Equal(t, Hard, d)
	_, err = ParseDifficulty("")
	assert.Error(t, err)

	sec, err := ParseSection("Writing")
	require.NoError(t, err)
	assert.Equal(t, Writing, sec)
	assert.False(t, sec.HasDifficulty())
	assert.True(t, Listening.HasDifficulty())
}
