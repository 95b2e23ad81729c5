package adm

import (
	"admkit/internal/admid"
	"admkit/internal/attr"
)

// AudioProgramme groups the content of a complete programme.
type AudioProgramme struct {
	element
	id               admid.AudioProgrammeID
	LoudnessMetadata []LoudnessMetadata
	Labels           []Label
}

// NewAudioProgramme creates a programme with its required attributes set.
func NewAudioProgramme(id admid.AudioProgrammeID, name string) *AudioProgramme {
	p := &AudioProgramme{element: newElement(programmeSchema), id: id}
	mustSet(p, KeyName, name)
	return p
}

func (p *AudioProgramme) ID() admid.AudioProgrammeID { return p.id }
func (p *AudioProgramme) Kind() Kind                 { return KindProgramme }
func (p *AudioProgramme) IDText() string             { return p.id.String() }

// AddContent references c from the programme.
func (p *AudioProgramme) AddContent(c *AudioContent) error {
	return Connect(p, ProgrammeContents, c)
}

// Contents resolves the referenced contents.
func (p *AudioProgramme) Contents() []*AudioContent {
	return resolve[*AudioContent](&p.element, ProgrammeContents)
}

// AudioContent groups objects that carry one kind of content.
type AudioContent struct {
	element
	id               admid.AudioContentID
	LoudnessMetadata []LoudnessMetadata
	Labels           []Label
}

// NewAudioContent creates a content with its required attributes set.
func NewAudioContent(id admid.AudioContentID, name string) *AudioContent {
	c := &AudioContent{element: newElement(contentSchema), id: id}
	mustSet(c, KeyName, name)
	return c
}

func (c *AudioContent) ID() admid.AudioContentID { return c.id }
func (c *AudioContent) Kind() Kind               { return KindContent }
func (c *AudioContent) IDText() string           { return c.id.String() }

// AddObject references o from the content.
func (c *AudioContent) AddObject(o *AudioObject) error {
	return Connect(c, ContentObjects, o)
}

// Objects resolves the referenced objects.
func (c *AudioContent) Objects() []*AudioObject {
	return resolve[*AudioObject](&c.element, ContentObjects)
}

// AudioObject binds pack formats to track UIDs.
type AudioObject struct {
	element
	id     admid.AudioObjectID
	Labels []Label
}

// NewAudioObject creates an object with its required attributes set.
func NewAudioObject(id admid.AudioObjectID, name string) *AudioObject {
	o := &AudioObject{element: newElement(objectSchema), id: id}
	mustSet(o, KeyName, name)
	return o
}

func (o *AudioObject) ID() admid.AudioObjectID { return o.id }
func (o *AudioObject) Kind() Kind              { return KindObject }
func (o *AudioObject) IDText() string          { return o.id.String() }

// AddObject nests child under o. Nesting must stay acyclic.
func (o *AudioObject) AddObject(child *AudioObject) error {
	return Connect(o, ObjectObjects, child)
}

// Objects resolves the nested objects.
func (o *AudioObject) Objects() []*AudioObject {
	return resolve[*AudioObject](&o.element, ObjectObjects)
}

func (o *AudioObject) AddPackFormat(p *AudioPackFormat) error {
	return Connect(o, ObjectPackFormats, p)
}

func (o *AudioObject) PackFormats() []*AudioPackFormat {
	return resolve[*AudioPackFormat](&o.element, ObjectPackFormats)
}

func (o *AudioObject) AddTrackUID(u *AudioTrackUID) error {
	return Connect(o, ObjectTrackUIDs, u)
}

func (o *AudioObject) TrackUIDs() []*AudioTrackUID {
	return resolve[*AudioTrackUID](&o.element, ObjectTrackUIDs)
}

// AddComplementary marks other as a complementary object of o.
func (o *AudioObject) AddComplementary(other *AudioObject) error {
	return Connect(o, ObjectComplementaries, other)
}

func (o *AudioObject) Complementaries() []*AudioObject {
	return resolve[*AudioObject](&o.element, ObjectComplementaries)
}

// AudioPackFormat groups channel formats into a renderable configuration.
type AudioPackFormat struct {
	element
	id admid.AudioPackFormatID
}

// NewAudioPackFormat creates a pack format. The type definition comes from id.
func NewAudioPackFormat(id admid.AudioPackFormatID, name string) *AudioPackFormat {
	p := &AudioPackFormat{element: newElement(packFormatSchema), id: id}
	mustSet(p, KeyName, name)
	return p
}

func (p *AudioPackFormat) ID() admid.AudioPackFormatID   { return p.id }
func (p *AudioPackFormat) Kind() Kind                    { return KindPackFormat }
func (p *AudioPackFormat) IDText() string                { return p.id.String() }
func (p *AudioPackFormat) Type() admid.TypeDefinition    { return p.id.Type }
func (p *AudioPackFormat) IsCommonDefinition() bool      { return admid.IsCommonDefinition(p.id) }

func (p *AudioPackFormat) AddChannelFormat(c *AudioChannelFormat) error {
	return Connect(p, PackChannelFormats, c)
}

func (p *AudioPackFormat) ChannelFormats() []*AudioChannelFormat {
	return resolve[*AudioChannelFormat](&p.element, PackChannelFormats)
}

// AddPackFormat nests sub under p. Sub-packs may be shared, but nesting must
// stay acyclic.
func (p *AudioPackFormat) AddPackFormat(sub *AudioPackFormat) error {
	return Connect(p, PackPackFormats, sub)
}

func (p *AudioPackFormat) PackFormats() []*AudioPackFormat {
	return resolve[*AudioPackFormat](&p.element, PackPackFormats)
}

// AudioStreamFormat describes one decodable stream.
type AudioStreamFormat struct {
	element
	id admid.AudioStreamFormatID
}

func NewAudioStreamFormat(id admid.AudioStreamFormatID, name string) *AudioStreamFormat {
	s := &AudioStreamFormat{element: newElement(streamFormatSchema), id: id}
	mustSet(s, KeyName, name)
	return s
}

func (s *AudioStreamFormat) ID() admid.AudioStreamFormatID { return s.id }
func (s *AudioStreamFormat) Kind() Kind                    { return KindStreamFormat }
func (s *AudioStreamFormat) IDText() string                { return s.id.String() }

// SetChannelFormat points the stream at c and clears any pack format.
func (s *AudioStreamFormat) SetChannelFormat(c *AudioChannelFormat) error {
	return Connect(s, StreamChannelFormat, c)
}

func (s *AudioStreamFormat) ChannelFormat() (*AudioChannelFormat, bool) {
	return resolveOne[*AudioChannelFormat](&s.element, StreamChannelFormat)
}

// SetPackFormat points the stream at p and clears any channel format.
func (s *AudioStreamFormat) SetPackFormat(p *AudioPackFormat) error {
	return Connect(s, StreamPackFormat, p)
}

func (s *AudioStreamFormat) PackFormat() (*AudioPackFormat, bool) {
	return resolveOne[*AudioPackFormat](&s.element, StreamPackFormat)
}

func (s *AudioStreamFormat) AddTrackFormat(t *AudioTrackFormat) error {
	return Connect(s, StreamTrackFormats, t)
}

func (s *AudioStreamFormat) TrackFormats() []*AudioTrackFormat {
	return resolve[*AudioTrackFormat](&s.element, StreamTrackFormats)
}

// AudioTrackFormat describes the samples of one track of a stream.
type AudioTrackFormat struct {
	element
	id admid.AudioTrackFormatID
}

func NewAudioTrackFormat(id admid.AudioTrackFormatID, name string) *AudioTrackFormat {
	t := &AudioTrackFormat{element: newElement(trackFormatSchema), id: id}
	mustSet(t, KeyName, name)
	return t
}

func (t *AudioTrackFormat) ID() admid.AudioTrackFormatID { return t.id }
func (t *AudioTrackFormat) Kind() Kind                   { return KindTrackFormat }
func (t *AudioTrackFormat) IDText() string               { return t.id.String() }

func (t *AudioTrackFormat) SetStreamFormat(s *AudioStreamFormat) error {
	return Connect(t, TrackStreamFormat, s)
}

func (t *AudioTrackFormat) StreamFormat() (*AudioStreamFormat, bool) {
	return resolveOne[*AudioStreamFormat](&t.element, TrackStreamFormat)
}

// AudioTrackUID links a physical track to the metadata describing it.
type AudioTrackUID struct {
	element
	id admid.AudioTrackUIDID
}

func NewAudioTrackUID(id admid.AudioTrackUIDID) *AudioTrackUID {
	return &AudioTrackUID{element: newElement(trackUIDSchema), id: id}
}

func (u *AudioTrackUID) ID() admid.AudioTrackUIDID { return u.id }
func (u *AudioTrackUID) Kind() Kind                { return KindTrackUID }
func (u *AudioTrackUID) IDText() string            { return u.id.String() }

// IsSilent reports whether u is the reserved silent track UID.
func (u *AudioTrackUID) IsSilent() bool {
	return u.id == admid.SilentTrackUID
}

// HasFormat reports whether the UID references a track, channel or pack
// format. A UID without one is still written; only the silent UID is not.
func (u *AudioTrackUID) HasFormat() bool {
	return u.hasRefs(TrackUIDTrackFormat, TrackUIDChannelFormat, TrackUIDPackFormat)
}

func (u *AudioTrackUID) SetTrackFormat(t *AudioTrackFormat) error {
	return Connect(u, TrackUIDTrackFormat, t)
}

func (u *AudioTrackUID) TrackFormat() (*AudioTrackFormat, bool) {
	return resolveOne[*AudioTrackFormat](&u.element, TrackUIDTrackFormat)
}

func (u *AudioTrackUID) SetChannelFormat(c *AudioChannelFormat) error {
	return Connect(u, TrackUIDChannelFormat, c)
}

func (u *AudioTrackUID) ChannelFormat() (*AudioChannelFormat, bool) {
	return resolveOne[*AudioChannelFormat](&u.element, TrackUIDChannelFormat)
}

func (u *AudioTrackUID) SetPackFormat(p *AudioPackFormat) error {
	return Connect(u, TrackUIDPackFormat, p)
}

func (u *AudioTrackUID) PackFormat() (*AudioPackFormat, bool) {
	return resolveOne[*AudioPackFormat](&u.element, TrackUIDPackFormat)
}

// mustSet is used by constructors for values whose type is fixed by the
// schema; a failure is a programming error.
func mustSet[T any](h attr.Holder, key attr.Key, value T) {
	if err := attr.Set(h, key, value); err != nil {
		panic(err)
	}
}
