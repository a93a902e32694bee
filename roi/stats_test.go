package roi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	records := []Record{
		{AnnualizedROI: 30.0},
		{AnnualizedROI: 10.0},
		{AnnualizedROI: 20.0},
	}

	s := Summarize(records)
	require.Equal(t, 3, s.Count)
	require.Equal(t, 20.0, s.Mean)
	require.Equal(t, 20.0, s.Median)
	require.Equal(t, 10.0, s.Std)
	require.Equal(t, 30.0, s.Max)
}

func TestSummarizeEmpty(t *testing.T) {
	require.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarizeSingle(t *testing.T) {
	s := Summarize([]Record{{AnnualizedROI: 12.17}})
	require.Equal(t, 1, s.Count)
	require.Equal(t, 12.17, s.Mean)
	require.Equal(t, 12.17, s.Median)
	require.Zero(t, s.Std)
	require.Equal(t, 12.17, s.Max)
}
