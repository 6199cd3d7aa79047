package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"

	"electoral/internal/election/models"
)

// boothRow is one CSV line. Coordinates stay strings so an empty cell means
// "unknown" instead of failing the parse.
type boothRow struct {
	State      string `csv:"state"`
	District   string `csv:"district"`
	ACNameNo   string `csv:"ac_name_no"`
	PartNameNo string `csv:"part_name_no"`
	Name       string `csv:"name"`
	Address    string `csv:"address"`
	Latitude   string `csv:"latitude"`
	Longitude  string `csv:"longitude"`
}

func parseBooths(r io.Reader) ([]models.Booth, error) {
	var rows []*boothRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	booths := make([]models.Booth, 0, len(rows))
	for i, row := range rows {
		lat, err := parseCoordinate(row.Latitude)
		if err != nil {
			return nil, fmt.Errorf("row %d: latitude: %w", i+1, err)
		}
		lng, err := parseCoordinate(row.Longitude)
		if err != nil {
			return nil, fmt.Errorf("row %d: longitude: %w", i+1, err)
		}
		booths = append(booths, models.Booth{
			State:      row.State,
			District:   row.District,
			ACNameNo:   row.ACNameNo,
			PartNameNo: row.PartNameNo,
			Name:       row.Name,
			Address:    row.Address,
			Latitude:   lat,
			Longitude:  lng,
		})
	}
	return booths, nil
}

func parseCoordinate(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func renderHierarchy(w io.Writer, rows []models.HierarchyRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"State", "District", "AC", "Part", "Booths"})
	total := 0
	for _, row := range rows {
		table.Append([]string{row.State, row.District, row.ACNameNo, row.PartNameNo, strconv.Itoa(row.Booths)})
		total += row.Booths
	}
	table.SetFooter([]string{"", "", "", "Total", strconv.Itoa(total)})
	table.Render()
}
