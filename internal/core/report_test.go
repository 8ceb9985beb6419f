package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ref(s string) *string { return &s }

func TestAggregate_SingleDemand(t *testing.T) {
	entries := []TimeEntry{{ID: "t1", DemandID: ref("D1"), DurationHours: SecondsToHours(7200)}}

	rep, err := Aggregate(entries, map[string]string{"D1": "Design"})
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"Demand", "Hours"}, {"Design", 2.0}}, rep.Table())
}

func TestAggregate_SumsPerDemandName(t *testing.T) {
	names := map[string]string{"D1": "Design", "D2": "Build", "D3": "Design"}
	entries := []TimeEntry{
		{ID: "t1", DemandID: ref("D1"), DurationHours: 0.1},
		{ID: "t2", DemandID: ref("D2"), DurationHours: 1.25},
		{ID: "t3", DemandID: ref("D1"), DurationHours: 0.2},
		{ID: "t4", DemandID: ref("D3"), DurationHours: 0.0003},
	}

	rep, err := Aggregate(entries, names)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, ReportRow{DemandName: "Design", TotalHours: 0.3003}, rep.Rows[0])
	assert.Equal(t, ReportRow{DemandName: "Build", TotalHours: 1.25}, rep.Rows[1])
}

func TestAggregate_UnknownDemand(t *testing.T) {
	entries := []TimeEntry{{ID: "t1", DemandID: ref("gone"), DurationHours: 1}}

	rep, err := Aggregate(entries, map[string]string{"D1": "Design"})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, UnknownDemandName, rep.Rows[0].DemandName)
}

func TestAggregate_MissingRelationAborts(t *testing.T) {
	entries := []TimeEntry{
		{ID: "t1", DemandID: ref("D1"), DurationHours: 1},
		{ID: "t2", DurationHours: 1},
	}

	_, err := Aggregate(entries, map[string]string{"D1": "Design"})
	assert.ErrorIs(t, err, ErrDataIntegrity)

	_, err = Aggregate([]TimeEntry{{ID: "t3", DemandID: ref("")}}, nil)
	assert.ErrorIs(t, err, ErrDataIntegrity)
}

func TestAggregate_Empty(t *testing.T) {
	rep, err := Aggregate(nil, nil)
	require.NoError(t, err)
	assert.True(t, rep.Empty())
	assert.Equal(t, [][]any{{"Demand", "Hours"}}, rep.Table())
}
