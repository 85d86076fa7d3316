/*
Copyright © 2020 the LakeGas authors.
This file is part of LakeGas.

LakeGas is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

LakeGas is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with LakeGas.  If not, see <http://www.gnu.org/licenses/>.
*/

package lakegasutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/limnomodel/lakegas"
	"github.com/spf13/cast"
	"github.com/tealeg/xlsx"
)

// Observation dataset column names, as produced by the upstream
// data-preparation step.
const (
	colSiteID   = "SITE_ID"
	colVisit    = "VISIT_NO"
	colSiteType = "SITE_TYPE"
	colLat      = "LAT_DD"
	colLon      = "LON_DD"
	colRatio    = "N2O_SAT_RATIO"
)

// ReadObservations loads the empirical site-visit dataset from a CSV
// or XLSX file.
func ReadObservations(filename string) ([]lakegas.Observation, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("lakegas: opening observation file: %v", err)
		}
		defer f.Close()
		return readObservationsCSV(f)
	case ".xlsx":
		return readObservationsXLSX(filename)
	default:
		return nil, fmt.Errorf("lakegas: unsupported observation file extension %q", ext)
	}
}

// header maps column names to their indices, ignoring case.
type header map[string]int

func newHeader(cells []string) header {
	h := make(header, len(cells))
	for i, c := range cells {
		h[strings.ToUpper(strings.TrimSpace(c))] = i
	}
	return h
}

func (h header) get(cells []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// observationFromRow builds one observation from a row of cells.
// Missing or unparseable saturation ratios become NaN so the
// classifier can flag the record instead of the load aborting.
func observationFromRow(h header, cells []string) lakegas.Observation {
	o := lakegas.Observation{
		SiteID:          h.get(cells, colSiteID),
		SiteType:        h.get(cells, colSiteType),
		SaturationRatio: math.NaN(),
	}
	if v, err := strconv.Atoi(h.get(cells, colVisit)); err == nil {
		o.Visit = v
	}
	if v, err := strconv.ParseFloat(h.get(cells, colLat), 64); err == nil {
		o.Lat = v
	}
	if v, err := strconv.ParseFloat(h.get(cells, colLon), 64); err == nil {
		o.Lon = v
	}
	if v, err := strconv.ParseFloat(h.get(cells, colRatio), 64); err == nil {
		o.SaturationRatio = v
	}
	return o
}

func readObservationsCSV(r io.Reader) ([]lakegas.Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("lakegas: reading observation CSV: %v", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("lakegas: observation CSV is empty")
	}
	h := newHeader(rows[0])
	if _, ok := h[colSiteID]; !ok {
		return nil, fmt.Errorf("lakegas: observation CSV has no %s column", colSiteID)
	}
	if _, ok := h[colRatio]; !ok {
		return nil, fmt.Errorf("lakegas: observation CSV has no %s column", colRatio)
	}
	obs := make([]lakegas.Observation, 0, len(rows)-1)
	for _, row := range rows[1:] {
		obs = append(obs, observationFromRow(h, row))
	}
	return obs, nil
}

func readObservationsXLSX(filename string) ([]lakegas.Observation, error) {
	f, err := xlsx.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("lakegas: opening observation XLSX: %v", err)
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("lakegas: observation XLSX has no sheets")
	}
	s := f.Sheets[0]
	if s.MaxRow < 2 {
		return nil, fmt.Errorf("lakegas: observation XLSX has no data rows")
	}
	row := func(j int) []string {
		cells := make([]string, s.MaxCol)
		for i := 0; i < s.MaxCol; i++ {
			cells[i] = s.Cell(j, i).Value
		}
		return cells
	}
	h := newHeader(row(0))
	if _, ok := h[colSiteID]; !ok {
		return nil, fmt.Errorf("lakegas: observation XLSX has no %s column", colSiteID)
	}
	if _, ok := h[colRatio]; !ok {
		return nil, fmt.Errorf("lakegas: observation XLSX has no %s column", colRatio)
	}
	obs := make([]lakegas.Observation, 0, s.MaxRow-1)
	for j := 1; j < s.MaxRow; j++ {
		obs = append(obs, observationFromRow(h, row(j)))
	}
	return obs, nil
}

// summaryParams exposes a result's summary fields to output-variable
// expressions.
func summaryParams(r *lakegas.Result) map[string]interface{} {
	return map[string]interface{}{
		"trueValue":     r.True,
		"mean":          r.Summary.Mean,
		"sd":            r.Summary.SD,
		"normalLow":     r.Summary.Normal.Low,
		"normalHigh":    r.Summary.Normal.High,
		"empiricalLow":  r.Summary.Empirical.Low,
		"empiricalHigh": r.Summary.Empirical.High,
		"halfWidth":     r.Summary.HalfWidth(),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteResults writes per-scenario uncertainty summaries as CSV. The
// fixed summary columns are followed by one column per configured
// output-variable expression, evaluated against the summary fields.
func WriteResults(w io.Writer, results []*lakegas.Result, derived map[string]string) error {
	exprs := make(map[string]*govaluate.EvaluableExpression, len(derived))
	names := make([]string, 0, len(derived))
	for name, text := range derived {
		expr, err := govaluate.NewEvaluableExpression(text)
		if err != nil {
			return fmt.Errorf("lakegas: output variable %s: %v", name, err)
		}
		exprs[name] = expr
		names = append(names, name)
	}
	sort.Strings(names)

	cw := csv.NewWriter(w)
	head := []string{"scenario", "target", "trueValue", "mean", "sd",
		"normalLow", "normalHigh", "empiricalLow", "empiricalHigh", "halfWidth"}
	head = append(head, names...)
	if err := cw.Write(head); err != nil {
		return err
	}
	for _, r := range results {
		params := summaryParams(r)
		rec := []string{
			r.Scenario.Name,
			string(r.Scenario.Target),
			formatFloat(r.True),
			formatFloat(r.Summary.Mean),
			formatFloat(r.Summary.SD),
			formatFloat(r.Summary.Normal.Low),
			formatFloat(r.Summary.Normal.High),
			formatFloat(r.Summary.Empirical.Low),
			formatFloat(r.Summary.Empirical.High),
			formatFloat(r.Summary.HalfWidth()),
		}
		for _, name := range names {
			v, err := exprs[name].Evaluate(params)
			if err != nil {
				return fmt.Errorf("lakegas: evaluating output variable %s: %v", name, err)
			}
			f, err := cast.ToFloat64E(v)
			if err != nil {
				return fmt.Errorf("lakegas: output variable %s: %v", name, err)
			}
			rec = append(rec, formatFloat(f))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteClassifications writes the per-scenario source/sink
// classifications as CSV, one row per scenario and site visit.
func WriteClassifications(w io.Writer, classified map[string][]lakegas.ClassifiedObservation) error {
	names := make([]string, 0, len(classified))
	for name := range classified {
		names = append(names, name)
	}
	sort.Strings(names)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"scenario", colSiteID, colVisit, colSiteType,
		colLat, colLon, colRatio, "status", "flag"}); err != nil {
		return err
	}
	for _, name := range names {
		for _, o := range classified[name] {
			flag := ""
			if o.Err != nil {
				flag = o.Err.Error()
			}
			rec := []string{
				name,
				o.SiteID,
				strconv.Itoa(o.Visit),
				o.SiteType,
				formatFloat(o.Lat),
				formatFloat(o.Lon),
				formatFloat(o.SaturationRatio),
				string(o.Status),
				flag,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
