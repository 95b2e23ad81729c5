package adm

import (
	"fmt"
	"slices"
	"time"

	"admkit/internal/admerr"
	"admkit/internal/admid"
	"admkit/internal/attr"
)

// BlockFormat is one time window of a channel format. The concrete type is
// one of BlockDirectSpeakers, BlockMatrix, BlockObjects, BlockHOA or
// BlockBinaural and always matches the owning channel's type.
type BlockFormat interface {
	attr.Holder
	ID() admid.AudioBlockFormatID
	Type() admid.TypeDefinition
	blockVariant()
}

type blockCommon struct {
	attr.Table
	id admid.AudioBlockFormatID
}

func newBlockCommon(schema *attr.Schema, id admid.AudioBlockFormatID) blockCommon {
	return blockCommon{Table: attr.NewTable(schema), id: id}
}

func (b *blockCommon) ID() admid.AudioBlockFormatID { return b.id }
func (b *blockCommon) blockVariant()                {}

// Window returns the block's start and, when set, its duration.
func (b *blockCommon) Window() (start time.Duration, duration time.Duration, hasDuration bool) {
	start, _ = attr.Get[time.Duration](b, KeyRtime)
	duration, hasDuration = attr.Lookup[time.Duration](b, KeyDuration)
	return start, duration, hasDuration
}

// BlockDirectSpeakers positions a single loudspeaker feed.
type BlockDirectSpeakers struct {
	blockCommon
	SpeakerLabels []string
}

func NewBlockDirectSpeakers(id admid.AudioBlockFormatID, position SpeakerPosition) *BlockDirectSpeakers {
	b := &BlockDirectSpeakers{blockCommon: newBlockCommon(directSpeakersSchema, id)}
	mustSet(b, KeyPosition, position)
	return b
}

func (b *BlockDirectSpeakers) Type() admid.TypeDefinition { return admid.TypeDirectSpeakers }

// BlockMatrix carries only the common block attributes.
type BlockMatrix struct {
	blockCommon
}

func NewBlockMatrix(id admid.AudioBlockFormatID) *BlockMatrix {
	return &BlockMatrix{blockCommon: newBlockCommon(matrixSchema, id)}
}

func (b *BlockMatrix) Type() admid.TypeDefinition { return admid.TypeMatrix }

// BlockObjects positions an audio object.
type BlockObjects struct {
	blockCommon
}

func NewBlockObjects(id admid.AudioBlockFormatID, position Position) *BlockObjects {
	b := &BlockObjects{blockCommon: newBlockCommon(objectsSchema, id)}
	mustSet(b, KeyPosition, position)
	return b
}

func (b *BlockObjects) Type() admid.TypeDefinition { return admid.TypeObjects }

// BlockHOA describes one ambisonic component.
type BlockHOA struct {
	blockCommon
}

func NewBlockHOA(id admid.AudioBlockFormatID, order, degree int) *BlockHOA {
	b := &BlockHOA{blockCommon: newBlockCommon(hoaSchema, id)}
	mustSet(b, KeyOrder, order)
	mustSet(b, KeyDegree, degree)
	return b
}

func (b *BlockHOA) Type() admid.TypeDefinition { return admid.TypeHOA }

// BlockBinaural carries only the common block attributes.
type BlockBinaural struct {
	blockCommon
}

func NewBlockBinaural(id admid.AudioBlockFormatID) *BlockBinaural {
	return &BlockBinaural{blockCommon: newBlockCommon(binauralSchema, id)}
}

func (b *BlockBinaural) Type() admid.TypeDefinition { return admid.TypeBinaural }

// NewBlockFormat returns an empty block of the variant selected by typ.
// Variants with required attributes must have them set before writing.
func NewBlockFormat(typ admid.TypeDefinition, id admid.AudioBlockFormatID) (BlockFormat, error) {
	switch typ {
	case admid.TypeDirectSpeakers:
		return &BlockDirectSpeakers{blockCommon: newBlockCommon(directSpeakersSchema, id)}, nil
	case admid.TypeMatrix:
		return NewBlockMatrix(id), nil
	case admid.TypeObjects:
		return &BlockObjects{blockCommon: newBlockCommon(objectsSchema, id)}, nil
	case admid.TypeHOA:
		return &BlockHOA{blockCommon: newBlockCommon(hoaSchema, id)}, nil
	case admid.TypeBinaural:
		return NewBlockBinaural(id), nil
	default:
		return nil, admerr.InvalidOperation("audioBlockFormat", "", "no block variant for type "+typ.Label())
	}
}

// AudioChannelFormat is a single channel and the time-ordered blocks
// describing it.
type AudioChannelFormat struct {
	element
	id     admid.AudioChannelFormatID
	blocks []BlockFormat
}

// NewAudioChannelFormat creates a channel format. The type definition comes
// from id and selects the legal block variant.
func NewAudioChannelFormat(id admid.AudioChannelFormatID, name string) *AudioChannelFormat {
	c := &AudioChannelFormat{element: newElement(channelFormatSchema), id: id}
	mustSet(c, KeyName, name)
	return c
}

func (c *AudioChannelFormat) ID() admid.AudioChannelFormatID { return c.id }
func (c *AudioChannelFormat) Kind() Kind                     { return KindChannelFormat }
func (c *AudioChannelFormat) IDText() string                 { return c.id.String() }
func (c *AudioChannelFormat) Type() admid.TypeDefinition     { return c.id.Type }

// AddBlockFormat appends b. The variant must match the channel type and the
// block ID must belong to this channel.
func (c *AudioChannelFormat) AddBlockFormat(b BlockFormat) error {
	if b == nil {
		return admerr.InvalidOperation(entityLabel(c), "audioBlockFormat", "nil block")
	}
	if b.Type() != c.Type() {
		return admerr.InvalidOperation(entityLabel(c), "audioBlockFormat",
			fmt.Sprintf("%s block in %s channel", b.Type(), c.Type()))
	}
	if b.ID().Channel() != c.id {
		return admerr.InvalidOperation(entityLabel(c), "audioBlockFormat",
			b.ID().String()+" does not belong to this channel")
	}
	if _, exists := c.BlockFormat(b.ID()); exists {
		return admerr.DuplicateID("audioBlockFormat", b.ID().String())
	}
	c.blocks = append(c.blocks, b)
	return nil
}

// BlockFormats returns the blocks in order.
func (c *AudioChannelFormat) BlockFormats() []BlockFormat {
	return slices.Clone(c.blocks)
}

// BlockFormat finds a block by ID.
func (c *AudioChannelFormat) BlockFormat(id admid.AudioBlockFormatID) (BlockFormat, bool) {
	for _, b := range c.blocks {
		if b.ID() == id {
			return b, true
		}
	}
	return nil, false
}

// RemoveBlockFormat drops the block with id and reports whether it existed.
func (c *AudioChannelFormat) RemoveBlockFormat(id admid.AudioBlockFormatID) bool {
	i := slices.IndexFunc(c.blocks, func(b BlockFormat) bool { return b.ID() == id })
	if i < 0 {
		return false
	}
	c.blocks = slices.Delete(c.blocks, i, i+1)
	return true
}

// NextBlockID returns the first unused block ID of the channel.
func (c *AudioChannelFormat) NextBlockID() admid.AudioBlockFormatID {
	id := admid.AudioBlockFormatID{Type: c.id.Type, Value: c.id.Value, Counter: 1}
	for _, b := range c.blocks {
		if b.ID().Counter >= id.Counter {
			id.Counter = b.ID().Counter + 1
		}
	}
	return id
}
