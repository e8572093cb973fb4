package preproc

import "sort"

// applyChannelAdmission enforces the per-constellation channel cap (spec
// §4.1): when more satellites are active than NCHANNELS_*, the surplus with
// the lowest elevation is rejected first, ties broken by ascending
// satellite id (P6, I8). Grounded on
// _examples/original_source/PreprocessingFunc.py's ActiveSats +
// ChannelsFlag + SatElevation + RejectSatMinElevation, collapsed into a
// single sort-and-truncate pass per constellation.
func applyChannelAdmission(conf Conf, recs []*Record) {
	admitConstellation(recs, "G", conf.NChannelsGPS, RejNChannelsGPS)
	admitConstellation(recs, "E", conf.NChannelsGAL, RejNChannelsGAL)
}

func admitConstellation(recs []*Record, constellation string, maxChannels int, cause RejectionCause) {
	var active []*Record
	for _, r := range recs {
		if r.ValidL1 && len(r.Sat) > 0 && r.Sat[:1] == constellation {
			active = append(active, r)
		}
	}

	if len(active) <= maxChannels {
		return
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Elev != active[j].Elev {
			return active[i].Elev < active[j].Elev
		}
		return active[i].Sat < active[j].Sat
	})

	surplus := len(active) - maxChannels
	for i := 0; i < surplus; i++ {
		raiseFlag(active[i], cause)
	}
}

// raiseFlag rejects a satellite's measurement (spec §7 propagation: first
// triggered cause wins, I1).
func raiseFlag(r *Record, cause RejectionCause) {
	r.ValidL1 = false
	r.RejectionCause = cause
}
