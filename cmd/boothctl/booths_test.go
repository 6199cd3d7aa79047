package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"electoral/internal/election/models"
)

func TestParseBooths(t *testing.T) {
	t.Run("reads columns by header name", func(t *testing.T) {
		in := "name,state,district,ac_name_no,part_name_no,address,latitude,longitude\n" +
			"Library,Kerala,Ernakulam,81-Kochi,1,MG Road,9.97,76.28\n" +
			"Temple Hall,Kerala,Ernakulam,81-Kochi,2,,,\n"

		booths, err := parseBooths(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, booths, 2)

		assert.Equal(t, "Library", booths[0].Name)
		assert.Equal(t, "81-Kochi", booths[0].ACNameNo)
		require.NotNil(t, booths[0].Latitude)
		assert.InDelta(t, 9.97, *booths[0].Latitude, 1e-9)
		assert.Nil(t, booths[1].Latitude)
		assert.Nil(t, booths[1].Longitude)
	})

	t.Run("bad coordinate names the row", func(t *testing.T) {
		in := "name,state,district,latitude\nLibrary,Kerala,Ernakulam,north\n"
		_, err := parseBooths(strings.NewReader(in))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 1: latitude")
	})
}

func TestRenderHierarchy(t *testing.T) {
	var buf bytes.Buffer
	renderHierarchy(&buf, []models.HierarchyRow{
		{State: "Kerala", District: "Ernakulam", ACNameNo: "81-Kochi", PartNameNo: "1", Booths: 2},
		{State: "Kerala", District: "Thrissur", ACNameNo: "60-Thrissur", PartNameNo: "1", Booths: 3},
	})
	out := buf.String()
	assert.Contains(t, out, "Ernakulam")
	assert.Contains(t, out, "DISTRICT")
	assert.Contains(t, out, "81-Kochi")
	assert.Contains(t, out, "5")
}
