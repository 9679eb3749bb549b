package review

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const fileColumnsCSV = "attribute,sequence_number,fits_filename_new,fits_filename_old," +
	"time_utc_new,time_utc_old,ra_deg_new,dec_deg_new,RA_hms_new,Dec_dms_new\n" +
	"GWAC,7,M31_021_C3_new.fits,M31_015_C3_new.fits," +
	"2026-01-15T21:00:00,2026-01-15T19:00:00,10.6847,41.2692,00:42:44.3,+41:16:09\n"

// touchArtifacts creates empty artifact files in the date directory.
func touchArtifacts(t *testing.T, root string, names ...string) {
	t.Helper()

	for _, name := range names {
		err := os.WriteFile(filepath.Join(root, testDate, name), nil, 0o644)
		if err != nil {
			t.Fatalf("touch %s: %v", name, err)
		}
	}
}

func TestRowFilesGroupsByEpoch(t *testing.T) {
	t.Parallel()

	store, root := newTestStore(t, fileColumnsCSV)
	ctx := context.Background()

	touchArtifacts(t, root,
		"GWAC_0007_M31_021_C3_lib.fits",
		"GWAC_0007_M31_021_C3_new.fits",
		"GWAC_0007_M31_021_C3_SEPlib.jpg",
		"GWAC_0007_M31_021_C3_SEPnew.jpg",
		"GWAC_0007_M31_015_C3_SEPnew.jpg",
	)

	set, err := store.RowFiles(ctx, testDate, 1)
	require.NoError(t, err)

	// The old epoch is earlier, so it lands on the left.
	require.Equal(t, "2026-01-15T19:00:00", set.LeftTime)
	require.Equal(t, "2026-01-15T21:00:00", set.RightTime)
	require.Len(t, set.Left, 1)
	require.Len(t, set.Right, 4)

	require.Equal(t, "GWAC_0007_M31_015_C3_SEPnew.jpg", set.Left[0].Name)
	require.Equal(t, "jpg", set.Left[0].Type)
	require.Equal(t, "new", set.Left[0].Subtype)

	// fits files come first, then jpgs tagged lib/new.
	require.Equal(t, "fits", set.Right[0].Type)
	require.Equal(t, "GWAC_0007_M31_021_C3_lib.fits", set.Right[0].Name)
	require.Equal(t, "lib", set.Right[2].Subtype)
	require.Equal(t, "new", set.Right[3].Subtype)
}

func TestRowFilesCoordinates(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, fileColumnsCSV)

	set, err := store.RowFiles(context.Background(), testDate, 1)
	require.NoError(t, err)

	require.NotNil(t, set.RADeg)
	require.InDelta(t, 10.6847, *set.RADeg, 1e-9)
	require.NotNil(t, set.DecDeg)
	require.InDelta(t, 41.2692, *set.DecDeg, 1e-9)
	require.Equal(t, "00:42:44.3", set.RAHMS)
	require.Equal(t, "+41:16:09", set.DecDMS)
}

func TestRowFilesMissingArtifacts(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, fileColumnsCSV)

	// No artifacts on disk: empty groups, not an error.
	set, err := store.RowFiles(context.Background(), testDate, 1)
	require.NoError(t, err)
	require.Empty(t, set.Left)
	require.Empty(t, set.Right)
}

func TestRowFilesRowNotFound(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, fileColumnsCSV)

	_, err := store.RowFiles(context.Background(), testDate, 5)
	require.ErrorIs(t, err, ErrRowNotFound)

	var re *Error
	require.True(t, errors.As(err, &re))
	require.Equal(t, 5, re.Row)
}

func TestRowFilesTableWithoutCoordinateColumns(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, threeRowCSV)

	set, err := store.RowFiles(context.Background(), testDate, 1)
	require.NoError(t, err)
	require.Nil(t, set.RADeg)
	require.Nil(t, set.DecDeg)
	require.Empty(t, set.RAHMS)
}
