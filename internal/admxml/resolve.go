package admxml

import (
	"admkit/internal/adm"
	"admkit/internal/admerr"
	"admkit/internal/admid"
)

// resolve connects every pending reference once all entities exist.
func (p *parser) resolve() error {
	silent := admid.SilentTrackUID.String()
	for _, ref := range p.pending {
		source := ref.source
		target := p.doc.Lookup(ref.relation.Target(), ref.id)
		if target == nil && ref.relation == adm.ObjectTrackUIDs && ref.id == silent {
			uid := adm.NewAudioTrackUID(admid.SilentTrackUID)
			if err := p.doc.Add(uid); err != nil {
				return wrapParse(source.Kind().String(), source.IDText(), err)
			}
			target = uid
		}
		if target == nil {
			return &ParseError{
				Element: source.Kind().String(),
				ID:      source.IDText(),
				Err: admerr.UnresolvedReference(source.Kind().String(), ref.id,
					"referenced from "+source.IDText()+" by "+refElements[ref.relation]),
			}
		}
		if err := adm.Connect(source, ref.relation, target); err != nil {
			return wrapParse(source.Kind().String(), source.IDText(), err)
		}
	}
	return nil
}
