package admxml

import (
	"github.com/beevik/etree"

	"admkit/internal/adm"
)

// refElements maps each relation to the XML element carrying it.
var refElements = map[adm.Relation]string{
	adm.ProgrammeContents:     "audioContentIDRef",
	adm.ContentObjects:        "audioObjectIDRef",
	adm.ObjectObjects:         "audioObjectIDRef",
	adm.ObjectPackFormats:     "audioPackFormatIDRef",
	adm.ObjectTrackUIDs:       "audioTrackUIDRef",
	adm.ObjectComplementaries: "audioComplementaryObjectIDRef",
	adm.PackChannelFormats:    "audioChannelFormatIDRef",
	adm.PackPackFormats:       "audioPackFormatIDRef",
	adm.StreamChannelFormat:   "audioChannelFormatIDRef",
	adm.StreamPackFormat:      "audioPackFormatIDRef",
	adm.StreamTrackFormats:    "audioTrackFormatIDRef",
	adm.TrackStreamFormat:     "audioStreamFormatIDRef",
	adm.TrackUIDTrackFormat:   "audioTrackFormatIDRef",
	adm.TrackUIDChannelFormat: "audioChannelFormatIDRef",
	adm.TrackUIDPackFormat:    "audioPackFormatIDRef",
}

// changedIDElements names the changedIDs children per kind.
var changedIDElements = map[adm.Kind]string{
	adm.KindProgramme:     "audioProgrammeIDRef",
	adm.KindContent:       "audioContentIDRef",
	adm.KindObject:        "audioObjectIDRef",
	adm.KindPackFormat:    "audioPackFormatIDRef",
	adm.KindChannelFormat: "audioChannelFormatIDRef",
	adm.KindStreamFormat:  "audioStreamFormatIDRef",
	adm.KindTrackFormat:   "audioTrackFormatIDRef",
	adm.KindTrackUID:      "audioTrackUIDRef",
}

// writeRefs emits one reference element per target, relation by relation.
func writeRefs(el *etree.Element, e adm.Entity, rels ...adm.Relation) {
	for _, rel := range rels {
		for _, id := range e.RefIDs(rel) {
			el.CreateElement(refElements[rel]).SetText(id)
		}
	}
}
