package sadm

import (
	"admkit/internal/adm"
	"admkit/internal/admid"
)

var silentUID = admid.SilentTrackUID.String()

// Diff returns the changedIDs that describe next relative to prev, in
// canonical element order. A nil prev marks every entity of next as new.
//
// A channel format whose attributes are unchanged and whose blocks only grew
// at the end is reported as extended. The silent track UID never appears.
func Diff(prev, next *adm.Document) adm.ChangedIDs {
	var out adm.ChangedIDs
	for _, kind := range adm.Kinds {
		if next != nil {
			for _, e := range next.Entities(kind) {
				if status, ok := compare(prev, e); ok {
					out = append(out, adm.ChangedID{Kind: kind, ID: e.IDText(), Status: status})
				}
			}
		}
		if prev == nil {
			continue
		}
		for _, e := range prev.Entities(kind) {
			if e.IDText() == silentUID {
				continue
			}
			if next == nil || next.Lookup(kind, e.IDText()) == nil {
				out = append(out, adm.ChangedID{Kind: kind, ID: e.IDText(), Status: adm.StatusExpired})
			}
		}
	}
	return out.Canonical()
}

func compare(prev *adm.Document, e adm.Entity) (adm.ChangedIDStatus, bool) {
	if e.IDText() == silentUID {
		return "", false
	}
	if prev == nil {
		return adm.StatusNew, true
	}
	old := prev.Lookup(e.Kind(), e.IDText())
	switch {
	case old == nil:
		return adm.StatusNew, true
	case adm.Equal(old, e):
		return "", false
	}
	if channel, ok := e.(*adm.AudioChannelFormat); ok {
		if adm.Extends(old.(*adm.AudioChannelFormat), channel) {
			return adm.StatusExtended, true
		}
	}
	return adm.StatusChanged, true
}
