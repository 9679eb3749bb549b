package review

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Source table columns consulted by the row file lookup. The new/old pairs
// describe the two acquisition epochs of a candidate.
const (
	colAttribute   = "attribute"
	colSequenceNum = "sequence_number"
	colFitsNew     = "fits_filename_new"
	colFitsOld     = "fits_filename_old"
	colTimeNew     = "time_utc_new"
	colTimeOld     = "time_utc_old"
	colRADeg       = "ra_deg_new"
	colDecDeg      = "dec_deg_new"
	colRAHMS       = "RA_hms_new"
	colDecDMS      = "Dec_dms_new"
)

// RowFile describes one on-disk artifact belonging to a candidate row.
type RowFile struct {
	// Name is the bare filename inside the date directory.
	Name string

	// Type is "fits" or "jpg".
	Type string

	// Subtype distinguishes jpg renderings: "lib" (reference) or "new".
	// Empty for fits files.
	Subtype string

	// Path is the absolute path.
	Path string
}

// RowFileSet groups a row's artifacts by acquisition epoch, earlier epoch on
// the left, plus the candidate's coordinates when present.
type RowFileSet struct {
	Left      []RowFile
	Right     []RowFile
	LeftTime  string
	RightTime string

	// Coordinates of the new detection; nil/empty when the source table
	// lacks the columns.
	RADeg  *float64
	DecDeg *float64
	RAHMS  string
	DecDMS string
}

// fits/jpg artifact suffixes probed next to the source table.
var (
	fitsSuffixes = []string{"_lib.fits", "_new.fits"}
	jpgSuffixes  = []string{"_SEPlib.jpg", "_SEPnew.jpg"}
)

// RowFiles locates the image artifacts for one candidate row (1-based).
//
// Artifacts follow the pipeline's naming scheme
// "<attribute>_<seq:04d>_<base><suffix>" where base derives from the epoch's
// fits filename. Only files actually present are returned; a row whose
// artifacts were never written yields empty groups, not an error.
func (s *Store) RowFiles(ctx context.Context, date string, row int) (*RowFileSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, rowErr(date, row, err)
	}

	if err := validateDate(date); err != nil {
		return nil, rowErr(date, row, err)
	}

	_, tbl, err := s.loadSnapshotShared(ctx, date)
	if err != nil {
		return nil, rowErr(date, row, err)
	}

	if row < 1 || row > tbl.RowCount() {
		return nil, rowErr(date, row, fmt.Errorf("%w: row %d of %d", ErrRowNotFound, row, tbl.RowCount()))
	}

	idx := row - 1

	cell := func(name string) string {
		col := tbl.ColumnIndex(name)
		if col < 0 {
			return ""
		}

		return tbl.Cell(idx, col)
	}

	attribute := cell(colAttribute)
	seq, _ := strconv.Atoi(cell(colSequenceNum))

	newFiles := s.epochFiles(date, attribute, seq, cell(colFitsNew))
	oldFiles := s.epochFiles(date, attribute, seq, cell(colFitsOld))

	timeNew := cell(colTimeNew)
	timeOld := cell(colTimeOld)

	set := &RowFileSet{
		RAHMS:  cell(colRAHMS),
		DecDMS: cell(colDecDMS),
	}

	if v, err := strconv.ParseFloat(cell(colRADeg), 64); err == nil {
		set.RADeg = &v
	}

	if v, err := strconv.ParseFloat(cell(colDecDeg), 64); err == nil {
		set.DecDeg = &v
	}

	// Earlier acquisition goes on the left. String comparison matches the
	// source's lexically sortable UTC timestamps.
	if timeOld != "" && timeNew != "" && timeOld < timeNew {
		set.Left, set.Right = oldFiles, newFiles
		set.LeftTime, set.RightTime = timeOld, timeNew
	} else {
		set.Left, set.Right = newFiles, oldFiles
		set.LeftTime, set.RightTime = timeNew, timeOld
	}

	return set, nil
}

// epochFiles probes the date directory for one epoch's artifacts. The base
// name is the epoch's fits filename with its "_new.fits" suffix removed.
func (s *Store) epochFiles(date, attribute string, seq int, fitsName string) []RowFile {
	if fitsName == "" {
		return nil
	}

	base := strings.TrimSuffix(fitsName, "_new.fits")
	prefix := fmt.Sprintf("%s_%04d_%s", attribute, seq, base)
	dir := s.dateDir(date)

	var files []RowFile

	for _, suffix := range fitsSuffixes {
		path := filepath.Join(dir, prefix+suffix)

		if ok, err := s.fsys.Exists(path); err == nil && ok {
			files = append(files, RowFile{
				Name: prefix + suffix,
				Type: "fits",
				Path: path,
			})
		}
	}

	for _, suffix := range jpgSuffixes {
		path := filepath.Join(dir, prefix+suffix)

		if ok, err := s.fsys.Exists(path); err == nil && ok {
			subtype := "new"
			if strings.Contains(suffix, "lib") {
				subtype = "lib"
			}

			files = append(files, RowFile{
				Name:    prefix + suffix,
				Type:    "jpg",
				Subtype: subtype,
				Path:    path,
			})
		}
	}

	return files
}
