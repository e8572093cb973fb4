package preproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdmitConstellationWithinCapIsNoOp(t *testing.T) {
	recs := []*Record{
		{Sat: "G01", Elev: 10, ValidL1: true},
		{Sat: "G02", Elev: 20, ValidL1: true},
	}

	admitConstellation(recs, "G", 4, RejNChannelsGPS)

	for _, r := range recs {
		assert.True(t, r.ValidL1)
	}
}

func TestAdmitConstellationTiesBrokenByAscendingSatID(t *testing.T) {
	recs := []*Record{
		{Sat: "G02", Elev: 10, ValidL1: true},
		{Sat: "G01", Elev: 10, ValidL1: true},
		{Sat: "G03", Elev: 10, ValidL1: true},
	}

	admitConstellation(recs, "G", 2, RejNChannelsGPS)

	byID := map[string]*Record{}
	for _, r := range recs {
		byID[r.Sat] = r
	}
	assert.False(t, byID["G01"].ValidL1) // lowest PRN among the tied-elevation trio
	assert.True(t, byID["G02"].ValidL1)
	assert.True(t, byID["G03"].ValidL1)
}

func TestAdmitConstellationIgnoresAlreadyInvalidSatellites(t *testing.T) {
	recs := []*Record{
		{Sat: "G01", Elev: 5, ValidL1: false, RejectionCause: RejMaskAngle},
		{Sat: "G02", Elev: 20, ValidL1: true},
		{Sat: "G03", Elev: 30, ValidL1: true},
	}

	admitConstellation(recs, "G", 2, RejNChannelsGPS)

	assert.Equal(t, RejMaskAngle, recs[0].RejectionCause) // untouched
	assert.True(t, recs[1].ValidL1)
	assert.True(t, recs[2].ValidL1)
}

func TestAdmitConstellationOtherConstellationUntouched(t *testing.T) {
	recs := []*Record{
		{Sat: "G01", Elev: 5, ValidL1: true},
		{Sat: "E01", Elev: 1, ValidL1: true},
	}

	admitConstellation(recs, "G", 0, RejNChannelsGPS)

	assert.False(t, recs[0].ValidL1)
	assert.True(t, recs[1].ValidL1)
}
