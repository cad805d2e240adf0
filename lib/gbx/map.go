// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

// Map class ids.
const (
	ClassMap                 = 0x03043000
	ClassCollectorList       = 0x0301B000
	ClassChallengeParameters = 0x0305B000
	ClassSkin                = 0x03059000
	ClassWaypointProperty    = 0x2E009000
	ClassItemPlacement       = 0x03101000
)

func init() {
	registerHeaderChunk(ClassMap, 0x03043002, func() ChunkBody { return &MapInfoChunk{} })
	registerHeaderChunk(ClassMap, 0x03043003, func() ChunkBody { return &MapIdentChunk{} })
	registerHeaderChunk(ClassMap, 0x03043004, func() ChunkBody { return &MapVersionChunk{} })
	registerHeaderChunk(ClassMap, 0x03043005, func() ChunkBody { return &MapXMLChunk{} })
	registerHeaderChunk(ClassMap, 0x03043007, func() ChunkBody { return &MapThumbnailChunk{} })
	registerHeaderChunk(ClassMap, 0x03043008, func() ChunkBody { return &MapAuthorChunk{} })

	registerBodyChunk(ClassMap, 0x0304300D, func() ChunkBody { return &MapVehicleChunk{} })
	registerBodyChunk(ClassMap, 0x03043011, func() ChunkBody { return &MapParametersChunk{} })
	registerBodyChunk(ClassMap, 0x03043018, func() ChunkBody { return &MapLapsChunk{} })
	registerBodyChunk(ClassMap, 0x03043019, func() ChunkBody { return &MapTextureModChunk{} })
	registerBodyChunk(ClassMap, 0x0304301F, func() ChunkBody { return &MapBlocksChunk{} })
	registerBodyChunk(ClassMap, 0x03043022, func() ChunkBody { return &MapChunk022{} })
	registerBodyChunk(ClassMap, 0x03043024, func() ChunkBody { return &MapMusicChunk{} })
	registerBodyChunk(ClassMap, 0x03043025, func() ChunkBody { return &MapChunk025{} })
	registerBodyChunk(ClassMap, 0x03043026, func() ChunkBody { return &MapChunk026{} })
	registerBodyChunk(ClassMap, 0x03043028, func() ChunkBody { return &MapChunk028{} })
	registerBodyChunk(ClassMap, 0x0304302A, func() ChunkBody { return &MapChunk02A{} })
	registerBodyChunk(ClassMap, 0x03043040, func() ChunkBody { return &MapItemsChunk{} })
	registerBodyChunk(ClassMap, 0x03043042, func() ChunkBody { return &MapAuthorChunk{} })
	registerBodyChunk(ClassMap, 0x03043048, func() ChunkBody { return &MapBakedBlocksChunk{} })
	registerBodyChunk(ClassMap, 0x03043049, func() ChunkBody { return &MapMediaChunk{} })
	registerBodyChunk(ClassMap, 0x03043054, func() ChunkBody { return &MapEmbeddedFilesChunk{} })
	registerBodyChunk(ClassMap, 0x03043056, func() ChunkBody { return &MapTimeOfDayChunk{} })
	registerBodyChunk(ClassMap, 0x0304305F, func() ChunkBody { return &MapFreeBlockDataChunk{} })
	registerBodyChunk(ClassMap, 0x03043062, func() ChunkBody { return &MapBlockColorsChunk{} })
	registerBodyChunk(ClassMap, 0x03043063, func() ChunkBody { return &MapItemPhaseOffsetsChunk{} })
	registerBodyChunk(ClassMap, 0x03043068, func() ChunkBody { return &MapLightmapQualityChunk{} })

	registerBodyChunk(ClassCollectorList, 0x0301B000, func() ChunkBody { return &CollectorListChunk{} })

	registerBodyChunk(ClassChallengeParameters, 0x0305B001, func() ChunkBody { return &ChallengeChunk001{} })
	registerBodyChunk(ClassChallengeParameters, 0x0305B004, func() ChunkBody { return &ChallengeMedalsChunk{} })
	registerBodyChunk(ClassChallengeParameters, 0x0305B008, func() ChunkBody { return &ChallengeLimitsChunk{} })
	registerBodyChunk(ClassChallengeParameters, 0x0305B00D, func() ChunkBody { return &ChallengeValidationChunk{} })
	registerBodyChunk(ClassChallengeParameters, 0x0305B00E, func() ChunkBody { return &ChallengeMapTypeChunk{} })

	registerBodyChunk(ClassSkin, 0x03059002, func() ChunkBody { return &SkinChunk002{} })
	registerBodyChunk(ClassSkin, 0x03059003, func() ChunkBody { return &SkinChunk003{} })

	registerBodyChunk(ClassWaypointProperty, 0x2E009000, func() ChunkBody { return &WaypointChunk{} })

	registerBodyChunk(ClassItemPlacement, 0x03101002, func() ChunkBody { return &ItemPlacementChunk{} })
}

// MapInfoChunk (0x03043002) holds the medal times, the display cost
// and the lap configuration.
type MapInfoChunk struct {
	Version         uint8
	Unknown1        uint32
	BronzeTime      uint32
	SilverTime      uint32
	GoldTime        uint32
	AuthorTime      uint32
	Cost            uint32
	IsMultilap      bool
	Unknown2        [5]uint32
	CheckpointCount uint32
	LapCount        uint32
}

func (c *MapInfoChunk) read(d *decoder) {
	c.Version = d.r.uint8()
	c.Unknown1 = d.r.uint32()
	c.BronzeTime = d.r.uint32()
	c.SilverTime = d.r.uint32()
	c.GoldTime = d.r.uint32()
	c.AuthorTime = d.r.uint32()
	c.Cost = d.r.uint32()
	c.IsMultilap = d.r.boolean()
	for i := range c.Unknown2 {
		c.Unknown2[i] = d.r.uint32()
	}
	c.CheckpointCount = d.r.uint32()
	c.LapCount = d.r.uint32()
}

func (c *MapInfoChunk) write(e *encoder) {
	e.w.uint8(c.Version)
	e.w.uint32(c.Unknown1)
	e.w.uint32(c.BronzeTime)
	e.w.uint32(c.SilverTime)
	e.w.uint32(c.GoldTime)
	e.w.uint32(c.AuthorTime)
	e.w.uint32(c.Cost)
	e.w.boolean(c.IsMultilap)
	for _, v := range c.Unknown2 {
		e.w.uint32(v)
	}
	e.w.uint32(c.CheckpointCount)
	e.w.uint32(c.LapCount)
}

// MapIdentChunk (0x03043003) holds the map's identity: UID, name,
// author and decoration.
type MapIdentChunk struct {
	Version          uint8
	MapID            string
	Unknown1         uint32
	Author           string
	Name             string
	Kind             uint8
	Unknown2         uint32
	Unknown3         uint32
	Decoration       string
	Unknown4         uint32
	DecorationAuthor string
	Unknown5         [8]uint32
	MapType          string
	MapStyle         string
	LightmapCacheUID uint64
	LightmapVersion  uint8
	TitleID          string
}

func (c *MapIdentChunk) read(d *decoder) {
	c.Version = d.r.uint8()
	c.MapID = d.identifier()
	c.Unknown1 = d.r.uint32()
	c.Author = d.identifier()
	c.Name = d.r.stringField()
	c.Kind = d.r.uint8()
	c.Unknown2 = d.r.uint32()
	c.Unknown3 = d.r.uint32()
	c.Decoration = d.identifier()
	c.Unknown4 = d.r.uint32()
	c.DecorationAuthor = d.identifier()
	for i := range c.Unknown5 {
		c.Unknown5[i] = d.r.uint32()
	}
	c.MapType = d.r.stringField()
	c.MapStyle = d.r.stringField()
	c.LightmapCacheUID = d.r.uint64()
	c.LightmapVersion = d.r.uint8()
	c.TitleID = d.identifier()
}

func (c *MapIdentChunk) write(e *encoder) {
	e.w.uint8(c.Version)
	e.identifier(c.MapID)
	e.w.uint32(c.Unknown1)
	e.identifier(c.Author)
	e.w.stringField(c.Name)
	e.w.uint8(c.Kind)
	e.w.uint32(c.Unknown2)
	e.w.uint32(c.Unknown3)
	e.identifier(c.Decoration)
	e.w.uint32(c.Unknown4)
	e.identifier(c.DecorationAuthor)
	for _, v := range c.Unknown5 {
		e.w.uint32(v)
	}
	e.w.stringField(c.MapType)
	e.w.stringField(c.MapStyle)
	e.w.uint64(c.LightmapCacheUID)
	e.w.uint8(c.LightmapVersion)
	e.identifier(c.TitleID)
}

// MapVersionChunk (0x03043004).
type MapVersionChunk struct {
	Version uint32
}

func (c *MapVersionChunk) read(d *decoder) {
	c.Version = d.r.uint32()
}

func (c *MapVersionChunk) write(e *encoder) {
	e.w.uint32(c.Version)
}

// MapXMLChunk (0x03043005) carries the map metadata as an XML
// document.
type MapXMLChunk struct {
	XML string
}

func (c *MapXMLChunk) read(d *decoder) {
	c.XML = d.r.stringField()
}

func (c *MapXMLChunk) write(e *encoder) {
	e.w.stringField(c.XML)
}

// Thumbnail framing tags. The payload sits between fixed ASCII
// markers.
var (
	thumbnailOpen  = []byte("<Thumbnail.jpg>")
	thumbnailClose = []byte("</Thumbnail.jpg>")
	commentsOpen   = []byte("<Comments>")
	commentsClose  = []byte("</Comments>")
)

// MapThumbnailChunk (0x03043007) carries the thumbnail as raw JPEG
// plus the map comments.
type MapThumbnailChunk struct {
	Present   bool
	Thumbnail []byte
	Comments  string
}

func (c *MapThumbnailChunk) read(d *decoder) {
	c.Present = d.r.boolean()
	if !c.Present {
		return
	}
	size := d.r.uint32()
	d.r.skip(len(thumbnailOpen))
	if !d.r.need(int(size)) {
		return
	}
	c.Thumbnail = append([]byte(nil), d.r.bytes(int(size))...)
	d.r.skip(len(thumbnailClose))
	d.r.skip(len(commentsOpen))
	c.Comments = d.r.stringField()
	d.r.skip(len(commentsClose))
}

func (c *MapThumbnailChunk) write(e *encoder) {
	e.w.boolean(c.Present)
	if !c.Present {
		return
	}
	e.w.uint32(uint32(len(c.Thumbnail)))
	e.w.bytes(thumbnailOpen)
	e.w.bytes(c.Thumbnail)
	e.w.bytes(thumbnailClose)
	e.w.bytes(commentsOpen)
	e.w.stringField(c.Comments)
	e.w.bytes(commentsClose)
}

// MapAuthorChunk holds author identity. The same layout appears in
// the header as 0x03043008 and in the body as 0x03043042.
type MapAuthorChunk struct {
	Version       uint32
	AuthorVersion uint32
	Login         string
	Nickname      string
	Zone          string
	Unknown1      uint32
}

func (c *MapAuthorChunk) read(d *decoder) {
	c.Version = d.r.uint32()
	c.AuthorVersion = d.r.uint32()
	c.Login = d.r.stringField()
	c.Nickname = d.r.stringField()
	c.Zone = d.r.stringField()
	c.Unknown1 = d.r.uint32()
}

func (c *MapAuthorChunk) write(e *encoder) {
	e.w.uint32(c.Version)
	e.w.uint32(c.AuthorVersion)
	e.w.stringField(c.Login)
	e.w.stringField(c.Nickname)
	e.w.stringField(c.Zone)
	e.w.uint32(c.Unknown1)
}

// MapVehicleChunk (0x0304300D) names the player vehicle.
type MapVehicleChunk struct {
	Vehicle  string
	Unknown1 uint32
	Unknown2 uint32
}

func (c *MapVehicleChunk) read(d *decoder) {
	c.Vehicle = d.identifier()
	c.Unknown1 = d.r.uint32()
	c.Unknown2 = d.r.uint32()
}

func (c *MapVehicleChunk) write(e *encoder) {
	e.identifier(c.Vehicle)
	e.w.uint32(c.Unknown1)
	e.w.uint32(c.Unknown2)
}

// MapParametersChunk (0x03043011) references the collector list and
// the challenge parameters nodes.
type MapParametersChunk struct {
	CollectorList       *Node
	ChallengeParameters *Node
	MapKind             uint32
}

func (c *MapParametersChunk) read(d *decoder) {
	c.CollectorList = d.readNodeRef()
	c.ChallengeParameters = d.readNodeRef()
	c.MapKind = d.r.uint32()
}

func (c *MapParametersChunk) write(e *encoder) {
	e.writeNodeRef(c.CollectorList)
	e.writeNodeRef(c.ChallengeParameters)
	e.w.uint32(c.MapKind)
}

// MapLapsChunk (0x03043018, skippable).
type MapLapsChunk struct {
	IsMultilap bool
	LapCount   uint32
}

func (c *MapLapsChunk) read(d *decoder) {
	c.IsMultilap = d.r.boolean()
	c.LapCount = d.r.uint32()
}

func (c *MapLapsChunk) write(e *encoder) {
	e.w.boolean(c.IsMultilap)
	e.w.uint32(c.LapCount)
}

// MapTextureModChunk (0x03043019, skippable).
type MapTextureModChunk struct {
	TextureMod FileRef
}

func (c *MapTextureModChunk) read(d *decoder) {
	c.TextureMod = d.r.fileRef()
}

func (c *MapTextureModChunk) write(e *encoder) {
	e.w.fileRef(c.TextureMod)
}

// Block placement flags.
const (
	// blockAbsent marks a placeholder entry that carries no
	// placement data. Placeholders still count toward the declared
	// block count.
	blockAbsent = 0xFFFFFFFF

	BlockFlagGround   = 0x00001000
	BlockFlagSkin     = 0x00008000
	BlockFlagWaypoint = 0x00100000
	BlockFlagVariant  = 0x00200000
	BlockFlagGhost    = 0x10000000
	BlockFlagFree     = 0x20000000
)

// blockListMask matches the lookback control word that opens every
// block entry. The block list is terminated by whatever follows it,
// not by its declared count, so the decoder peeks for this shape.
const blockListMask = 0x4FFFF000

// Block is one block placement. Position data for free blocks
// (BlockFlagFree) and the color and lightmap fields live in separate
// chunks of the map node and are folded in here during decode.
type Block struct {
	ModelID   string
	Direction uint8
	Coord     Byte3
	Flags     uint32

	// SkinAuthor and Skin are present when BlockFlagSkin is set.
	SkinAuthor string
	Skin       *Node

	// Waypoint is present when BlockFlagWaypoint is set.
	Waypoint *Node

	// Free block placement, from chunk 0x0304305F.
	Pos   Vec3
	Yaw   float32
	Pitch float32
	Roll  float32

	// From chunks 0x03043062 and 0x03043068.
	Color           uint8
	LightmapQuality uint8
}

// Absent reports whether the entry is a placeholder.
func (b *Block) Absent() bool {
	return b.Flags == blockAbsent
}

// IsFree reports whether the block is placed freely instead of on
// the grid.
func (b *Block) IsFree() bool {
	return !b.Absent() && b.Flags&BlockFlagFree != 0
}

// MapBlocksChunk (0x0304301F) holds the map identity again plus the
// full block list.
type MapBlocksChunk struct {
	MapID            string
	Unknown1         uint32
	Author           string
	Name             string
	Decoration       string
	Unknown2         uint32
	DecorationAuthor string
	Size             Int3
	Unknown3         uint32
	Unknown4         uint32

	// BlockCount is the declared count, which placeholder entries
	// count toward. Builders set it to the number of entries.
	BlockCount uint32
	Blocks     []Block
}

func (c *MapBlocksChunk) read(d *decoder) {
	c.MapID = d.identifier()
	c.Unknown1 = d.r.uint32()
	c.Author = d.identifier()
	c.Name = d.r.stringField()
	c.Decoration = d.identifier()
	c.Unknown2 = d.r.uint32()
	c.DecorationAuthor = d.identifier()
	c.Size = d.r.int3()
	c.Unknown3 = d.r.uint32()
	c.Unknown4 = d.r.uint32()
	c.BlockCount = d.r.uint32()
	for d.r.ok() && d.r.peekUint32()&blockListMask == lookbackDefine {
		var b Block
		b.ModelID = d.identifier()
		b.Direction = d.r.uint8()
		b.Coord = d.r.byte3()
		b.Flags = d.r.uint32()
		if !d.r.ok() {
			return
		}
		if !b.Absent() {
			if b.Flags&BlockFlagSkin != 0 {
				b.SkinAuthor = d.identifier()
				b.Skin = d.readNodeRef()
			}
			if b.Flags&BlockFlagWaypoint != 0 {
				b.Waypoint = d.readNodeRef()
			}
		}
		c.Blocks = append(c.Blocks, b)
	}
}

func (c *MapBlocksChunk) write(e *encoder) {
	e.identifier(c.MapID)
	e.w.uint32(c.Unknown1)
	e.identifier(c.Author)
	e.w.stringField(c.Name)
	e.identifier(c.Decoration)
	e.w.uint32(c.Unknown2)
	e.identifier(c.DecorationAuthor)
	e.w.int3(c.Size)
	e.w.uint32(c.Unknown3)
	e.w.uint32(c.Unknown4)
	e.w.uint32(c.BlockCount)
	for i := range c.Blocks {
		b := &c.Blocks[i]
		e.identifier(b.ModelID)
		e.w.uint8(b.Direction)
		e.w.byte3(b.Coord)
		e.w.uint32(b.Flags)
		if b.Absent() {
			continue
		}
		if b.Flags&BlockFlagSkin != 0 {
			e.identifier(b.SkinAuthor)
			e.writeNodeRef(b.Skin)
		}
		if b.Flags&BlockFlagWaypoint != 0 {
			e.writeNodeRef(b.Waypoint)
		}
	}
}

// MapChunk022 (0x03043022).
type MapChunk022 struct {
	Unknown1 uint32
}

func (c *MapChunk022) read(d *decoder)  { c.Unknown1 = d.r.uint32() }
func (c *MapChunk022) write(e *encoder) { e.w.uint32(c.Unknown1) }

// MapMusicChunk (0x03043024).
type MapMusicChunk struct {
	Music FileRef
}

func (c *MapMusicChunk) read(d *decoder)  { c.Music = d.r.fileRef() }
func (c *MapMusicChunk) write(e *encoder) { e.w.fileRef(c.Music) }

// MapChunk025 (0x03043025).
type MapChunk025 struct {
	Unknown1 [4]uint32
}

func (c *MapChunk025) read(d *decoder) {
	for i := range c.Unknown1 {
		c.Unknown1[i] = d.r.uint32()
	}
}

func (c *MapChunk025) write(e *encoder) {
	for _, v := range c.Unknown1 {
		e.w.uint32(v)
	}
}

// MapChunk026 (0x03043026).
type MapChunk026 struct {
	Unknown1 uint32
}

func (c *MapChunk026) read(d *decoder)  { c.Unknown1 = d.r.uint32() }
func (c *MapChunk026) write(e *encoder) { e.w.uint32(c.Unknown1) }

// MapChunk028 (0x03043028).
type MapChunk028 struct {
	Unknown1 uint32
	Unknown2 string
}

func (c *MapChunk028) read(d *decoder) {
	c.Unknown1 = d.r.uint32()
	c.Unknown2 = d.r.stringField()
}

func (c *MapChunk028) write(e *encoder) {
	e.w.uint32(c.Unknown1)
	e.w.stringField(c.Unknown2)
}

// MapChunk02A (0x0304302A).
type MapChunk02A struct {
	Unknown1 uint32
}

func (c *MapChunk02A) read(d *decoder)  { c.Unknown1 = d.r.uint32() }
func (c *MapChunk02A) write(e *encoder) { e.w.uint32(c.Unknown1) }

// MapItemsChunk (0x03043040, skippable) holds the item placements in
// an embedded buffer with its own lookback table.
type MapItemsChunk struct {
	Version  uint32
	Unknown1 uint32
	Unknown2 uint32
	Items    []*Node
	Unknown3 []uint32
	Unknown4 []uint32
	Unknown5 []uint32
}

func (c *MapItemsChunk) read(d *decoder) {
	c.Version = d.r.uint32()
	c.Unknown1 = d.r.uint32()
	payload := d.r.blob()
	if !d.r.ok() {
		return
	}
	sub := d.nested(payload)
	c.Unknown2 = sub.r.uint32()
	count := sub.r.listCount(4)
	for i := 0; i < count && sub.r.ok(); i++ {
		c.Items = append(c.Items, sub.readFlatNode())
	}
	c.Unknown3 = readUint32List(sub.r)
	c.Unknown4 = readUint32List(sub.r)
	c.Unknown5 = readUint32List(sub.r)
	if sub.r.err != nil {
		d.r.err = sub.r.err
		return
	}
	if sub.r.remaining() != 0 {
		d.r.failf(ErrMalformedValue, "item buffer left %d bytes unread", sub.r.remaining())
	}
}

func (c *MapItemsChunk) write(e *encoder) {
	e.w.uint32(c.Version)
	e.w.uint32(c.Unknown1)
	sub := e.nested()
	sub.w.uint32(c.Unknown2)
	sub.w.uint32(uint32(len(c.Items)))
	for _, item := range c.Items {
		sub.writeFlatNode(item)
	}
	writeUint32List(sub.w, c.Unknown3)
	writeUint32List(sub.w, c.Unknown4)
	writeUint32List(sub.w, c.Unknown5)
	if sub.err != nil {
		e.err = sub.err
		return
	}
	e.w.blob(sub.w.buf)
}

func readUint32List(r *reader) []uint32 {
	count := r.listCount(4)
	if count == 0 {
		return nil
	}
	list := make([]uint32, count)
	for i := range list {
		list[i] = r.uint32()
	}
	return list
}

func writeUint32List(w *writer, list []uint32) {
	w.uint32(uint32(len(list)))
	for _, v := range list {
		w.uint32(v)
	}
}

// BakedBlock is one entry of the baked block list. Unlike Block, a
// baked block's skin is an index, not a node.
type BakedBlock struct {
	ModelID   string
	Direction uint8
	Coord     Byte3
	Flags     uint32

	SkinAuthor string
	SkinIndex  uint32

	// Free block placement, from chunk 0x0304305F.
	Pos   Vec3
	Yaw   float32
	Pitch float32
	Roll  float32

	// From chunks 0x03043062 and 0x03043068.
	Color           uint8
	LightmapQuality uint8
}

// Absent reports whether the entry is a placeholder.
func (b *BakedBlock) Absent() bool {
	return b.Flags == blockAbsent
}

// IsFree reports whether the block is placed freely.
func (b *BakedBlock) IsFree() bool {
	return !b.Absent() && b.Flags&BlockFlagFree != 0
}

// MapBakedBlocksChunk (0x03043048, skippable).
type MapBakedBlocksChunk struct {
	Version    uint32
	Unknown1   uint32
	BlockCount uint32
	Blocks     []BakedBlock
	Unknown2   uint32
	Unknown3   uint32
}

func (c *MapBakedBlocksChunk) read(d *decoder) {
	c.Version = d.r.uint32()
	c.Unknown1 = d.r.uint32()
	c.BlockCount = d.r.uint32()
	for d.r.ok() && d.r.peekUint32()&blockListMask == lookbackDefine {
		var b BakedBlock
		b.ModelID = d.identifier()
		b.Direction = d.r.uint8()
		b.Coord = d.r.byte3()
		b.Flags = d.r.uint32()
		if !d.r.ok() {
			return
		}
		if !b.Absent() && b.Flags&BlockFlagSkin != 0 {
			b.SkinAuthor = d.identifier()
			b.SkinIndex = d.r.uint32()
		}
		c.Blocks = append(c.Blocks, b)
	}
	c.Unknown2 = d.r.uint32()
	c.Unknown3 = d.r.uint32()
}

func (c *MapBakedBlocksChunk) write(e *encoder) {
	e.w.uint32(c.Version)
	e.w.uint32(c.Unknown1)
	e.w.uint32(c.BlockCount)
	for i := range c.Blocks {
		b := &c.Blocks[i]
		e.identifier(b.ModelID)
		e.w.uint8(b.Direction)
		e.w.byte3(b.Coord)
		e.w.uint32(b.Flags)
		if !b.Absent() && b.Flags&BlockFlagSkin != 0 {
			e.identifier(b.SkinAuthor)
			e.w.uint32(b.SkinIndex)
		}
	}
	e.w.uint32(c.Unknown2)
	e.w.uint32(c.Unknown3)
}

// MapMediaChunk (0x03043049) references the MediaTracker clips.
type MapMediaChunk struct {
	Version  uint32
	Intro    *Node
	Podium   *Node
	InGame   *Node
	EndRace  *Node
	Ambiance *Node
	Unknown1 [3]uint32
}

func (c *MapMediaChunk) read(d *decoder) {
	c.Version = d.r.uint32()
	c.Intro = d.readNodeRef()
	c.Podium = d.readNodeRef()
	c.InGame = d.readNodeRef()
	c.EndRace = d.readNodeRef()
	c.Ambiance = d.readNodeRef()
	for i := range c.Unknown1 {
		c.Unknown1[i] = d.r.uint32()
	}
}

func (c *MapMediaChunk) write(e *encoder) {
	e.w.uint32(c.Version)
	e.writeNodeRef(c.Intro)
	e.writeNodeRef(c.Podium)
	e.writeNodeRef(c.InGame)
	e.writeNodeRef(c.EndRace)
	e.writeNodeRef(c.Ambiance)
	for _, v := range c.Unknown1 {
		e.w.uint32(v)
	}
}

// EmbeddedFileID names one file inside the embedded archive.
type EmbeddedFileID struct {
	ID       string
	Unknown1 uint32
	Author   string
}

// MapEmbeddedFilesChunk (0x03043054, skippable) carries custom
// resources as a ZIP archive inside an embedded buffer.
type MapEmbeddedFilesChunk struct {
	Version  uint32
	Unknown1 uint32
	FileIDs  []EmbeddedFileID
	Archive  []byte
	Unknown2 uint32
}

func (c *MapEmbeddedFilesChunk) read(d *decoder) {
	c.Version = d.r.uint32()
	c.Unknown1 = d.r.uint32()
	payload := d.r.blob()
	if !d.r.ok() {
		return
	}
	sub := d.nested(payload)
	count := sub.r.listCount(8)
	for i := 0; i < count && sub.r.ok(); i++ {
		var id EmbeddedFileID
		id.ID = sub.identifier()
		id.Unknown1 = sub.r.uint32()
		id.Author = sub.identifier()
		c.FileIDs = append(c.FileIDs, id)
	}
	archive := sub.r.blob()
	if len(archive) > 0 {
		c.Archive = append([]byte(nil), archive...)
	}
	c.Unknown2 = sub.r.uint32()
	if sub.r.err != nil {
		d.r.err = sub.r.err
		return
	}
	if sub.r.remaining() != 0 {
		d.r.failf(ErrMalformedValue, "embedded file buffer left %d bytes unread", sub.r.remaining())
	}
}

func (c *MapEmbeddedFilesChunk) write(e *encoder) {
	e.w.uint32(c.Version)
	e.w.uint32(c.Unknown1)
	sub := e.nested()
	sub.w.uint32(uint32(len(c.FileIDs)))
	for i := range c.FileIDs {
		sub.identifier(c.FileIDs[i].ID)
		sub.w.uint32(c.FileIDs[i].Unknown1)
		sub.identifier(c.FileIDs[i].Author)
	}
	sub.w.blob(c.Archive)
	sub.w.uint32(c.Unknown2)
	e.w.blob(sub.w.buf)
}

// MapTimeOfDayChunk (0x03043056, skippable).
type MapTimeOfDayChunk struct {
	Version   uint32
	Unknown1  uint32
	TimeOfDay uint32
	Unknown2  [3]uint32
}

func (c *MapTimeOfDayChunk) read(d *decoder) {
	c.Version = d.r.uint32()
	c.Unknown1 = d.r.uint32()
	c.TimeOfDay = d.r.uint32()
	for i := range c.Unknown2 {
		c.Unknown2[i] = d.r.uint32()
	}
}

func (c *MapTimeOfDayChunk) write(e *encoder) {
	e.w.uint32(c.Version)
	e.w.uint32(c.Unknown1)
	e.w.uint32(c.TimeOfDay)
	for _, v := range c.Unknown2 {
		e.w.uint32(v)
	}
}

// mapBlocks returns the node's block chunk, or nil.
func mapBlocks(n *Node) *MapBlocksChunk {
	if n == nil {
		return nil
	}
	if c := n.Chunk(0x0304301F); c != nil {
		if body, ok := c.Body.(*MapBlocksChunk); ok {
			return body
		}
	}
	return nil
}

// mapBakedBlocks returns the node's baked block chunk, or nil.
func mapBakedBlocks(n *Node) *MapBakedBlocksChunk {
	if n == nil {
		return nil
	}
	if c := n.Chunk(0x03043048); c != nil {
		if body, ok := c.Body.(*MapBakedBlocksChunk); ok {
			return body
		}
	}
	return nil
}

// mapItems returns the item placement bodies of the node's item
// chunk, in order.
func mapItems(n *Node) []*ItemPlacementChunk {
	if n == nil {
		return nil
	}
	c := n.Chunk(0x03043040)
	if c == nil {
		return nil
	}
	body, ok := c.Body.(*MapItemsChunk)
	if !ok {
		return nil
	}
	var items []*ItemPlacementChunk
	for _, item := range body.Items {
		if item == nil {
			continue
		}
		if ic := item.Chunk(0x03101002); ic != nil {
			if placement, ok := ic.Body.(*ItemPlacementChunk); ok {
				items = append(items, placement)
			}
		}
	}
	return items
}

// MapFreeBlockDataChunk (0x0304305F, skippable) carries the absolute
// placement of every free block, in block list order. The data lands
// in the Block and BakedBlock entries of the sibling chunks.
type MapFreeBlockDataChunk struct {
	Version uint32
}

func (c *MapFreeBlockDataChunk) read(d *decoder) {
	c.Version = d.r.uint32()
	if blocks := mapBlocks(d.node); blocks != nil {
		for i := range blocks.Blocks {
			b := &blocks.Blocks[i]
			if b.IsFree() {
				b.Pos = d.r.vec3()
				b.Yaw = d.r.float32()
				b.Pitch = d.r.float32()
				b.Roll = d.r.float32()
			}
		}
	}
	if baked := mapBakedBlocks(d.node); baked != nil {
		for i := range baked.Blocks {
			b := &baked.Blocks[i]
			if b.IsFree() {
				b.Pos = d.r.vec3()
				b.Yaw = d.r.float32()
				b.Pitch = d.r.float32()
				b.Roll = d.r.float32()
			}
		}
	}
}

func (c *MapFreeBlockDataChunk) write(e *encoder) {
	e.w.uint32(c.Version)
	if blocks := mapBlocks(e.node); blocks != nil {
		for i := range blocks.Blocks {
			b := &blocks.Blocks[i]
			if b.IsFree() {
				e.w.vec3(b.Pos)
				e.w.float32(b.Yaw)
				e.w.float32(b.Pitch)
				e.w.float32(b.Roll)
			}
		}
	}
	if baked := mapBakedBlocks(e.node); baked != nil {
		for i := range baked.Blocks {
			b := &baked.Blocks[i]
			if b.IsFree() {
				e.w.vec3(b.Pos)
				e.w.float32(b.Yaw)
				e.w.float32(b.Pitch)
				e.w.float32(b.Roll)
			}
		}
	}
}

// MapBlockColorsChunk (0x03043062, skippable) carries one color byte
// per block, baked block and item, in list order.
type MapBlockColorsChunk struct {
	Version uint32
}

func (c *MapBlockColorsChunk) read(d *decoder) {
	c.Version = d.r.uint32()
	if blocks := mapBlocks(d.node); blocks != nil {
		for i := range blocks.Blocks {
			if !blocks.Blocks[i].Absent() {
				blocks.Blocks[i].Color = d.r.uint8()
			}
		}
	}
	if baked := mapBakedBlocks(d.node); baked != nil {
		for i := range baked.Blocks {
			if !baked.Blocks[i].Absent() {
				baked.Blocks[i].Color = d.r.uint8()
			}
		}
	}
	for _, item := range mapItems(d.node) {
		item.Color = d.r.uint8()
	}
}

func (c *MapBlockColorsChunk) write(e *encoder) {
	e.w.uint32(c.Version)
	if blocks := mapBlocks(e.node); blocks != nil {
		for i := range blocks.Blocks {
			if !blocks.Blocks[i].Absent() {
				e.w.uint8(blocks.Blocks[i].Color)
			}
		}
	}
	if baked := mapBakedBlocks(e.node); baked != nil {
		for i := range baked.Blocks {
			if !baked.Blocks[i].Absent() {
				e.w.uint8(baked.Blocks[i].Color)
			}
		}
	}
	for _, item := range mapItems(e.node) {
		e.w.uint8(item.Color)
	}
}

// MapItemPhaseOffsetsChunk (0x03043063, skippable) carries one
// animation phase offset byte per item.
type MapItemPhaseOffsetsChunk struct {
	Version uint32
}

func (c *MapItemPhaseOffsetsChunk) read(d *decoder) {
	c.Version = d.r.uint32()
	for _, item := range mapItems(d.node) {
		item.AnimOffset = d.r.uint8()
	}
}

func (c *MapItemPhaseOffsetsChunk) write(e *encoder) {
	e.w.uint32(c.Version)
	for _, item := range mapItems(e.node) {
		e.w.uint8(item.AnimOffset)
	}
}

// MapLightmapQualityChunk (0x03043068, skippable) carries one
// lightmap quality byte per block, baked block and item.
type MapLightmapQualityChunk struct {
	Version uint32
}

func (c *MapLightmapQualityChunk) read(d *decoder) {
	c.Version = d.r.uint32()
	if blocks := mapBlocks(d.node); blocks != nil {
		for i := range blocks.Blocks {
			if !blocks.Blocks[i].Absent() {
				blocks.Blocks[i].LightmapQuality = d.r.uint8()
			}
		}
	}
	if baked := mapBakedBlocks(d.node); baked != nil {
		for i := range baked.Blocks {
			if !baked.Blocks[i].Absent() {
				baked.Blocks[i].LightmapQuality = d.r.uint8()
			}
		}
	}
	for _, item := range mapItems(d.node) {
		item.LightmapQuality = d.r.uint8()
	}
}

func (c *MapLightmapQualityChunk) write(e *encoder) {
	e.w.uint32(c.Version)
	if blocks := mapBlocks(e.node); blocks != nil {
		for i := range blocks.Blocks {
			if !blocks.Blocks[i].Absent() {
				e.w.uint8(blocks.Blocks[i].LightmapQuality)
			}
		}
	}
	if baked := mapBakedBlocks(e.node); baked != nil {
		for i := range baked.Blocks {
			if !baked.Blocks[i].Absent() {
				e.w.uint8(baked.Blocks[i].LightmapQuality)
			}
		}
	}
	for _, item := range mapItems(e.node) {
		e.w.uint8(item.LightmapQuality)
	}
}

// CollectorListChunk (0x0301B000) on the collector list node.
type CollectorListChunk struct {
	Present  bool
	ID       string
	Unknown1 uint32
	Author   string
	Unknown2 uint32
}

func (c *CollectorListChunk) read(d *decoder) {
	c.Present = d.r.boolean()
	if !c.Present {
		return
	}
	c.ID = d.identifier()
	c.Unknown1 = d.r.uint32()
	c.Author = d.identifier()
	c.Unknown2 = d.r.uint32()
}

func (c *CollectorListChunk) write(e *encoder) {
	e.w.boolean(c.Present)
	if !c.Present {
		return
	}
	e.identifier(c.ID)
	e.w.uint32(c.Unknown1)
	e.identifier(c.Author)
	e.w.uint32(c.Unknown2)
}

// ChallengeChunk001 (0x0305B001).
type ChallengeChunk001 struct {
	Unknown1 [4]uint32
}

func (c *ChallengeChunk001) read(d *decoder) {
	for i := range c.Unknown1 {
		c.Unknown1[i] = d.r.uint32()
	}
}

func (c *ChallengeChunk001) write(e *encoder) {
	for _, v := range c.Unknown1 {
		e.w.uint32(v)
	}
}

// ChallengeMedalsChunk (0x0305B004) holds the validated medal times.
type ChallengeMedalsChunk struct {
	BronzeTime  uint32
	SilverTime  uint32
	GoldTime    uint32
	AuthorTime  uint32
	AuthorScore uint32
}

func (c *ChallengeMedalsChunk) read(d *decoder) {
	c.BronzeTime = d.r.uint32()
	c.SilverTime = d.r.uint32()
	c.GoldTime = d.r.uint32()
	c.AuthorTime = d.r.uint32()
	c.AuthorScore = d.r.uint32()
}

func (c *ChallengeMedalsChunk) write(e *encoder) {
	e.w.uint32(c.BronzeTime)
	e.w.uint32(c.SilverTime)
	e.w.uint32(c.GoldTime)
	e.w.uint32(c.AuthorTime)
	e.w.uint32(c.AuthorScore)
}

// ChallengeLimitsChunk (0x0305B008).
type ChallengeLimitsChunk struct {
	TimeLimit   uint32
	AuthorScore uint32
}

func (c *ChallengeLimitsChunk) read(d *decoder) {
	c.TimeLimit = d.r.uint32()
	c.AuthorScore = d.r.uint32()
}

func (c *ChallengeLimitsChunk) write(e *encoder) {
	e.w.uint32(c.TimeLimit)
	e.w.uint32(c.AuthorScore)
}

// ChallengeValidationChunk (0x0305B00D) references the validation
// ghost.
type ChallengeValidationChunk struct {
	ValidationGhost *Node
}

func (c *ChallengeValidationChunk) read(d *decoder) {
	c.ValidationGhost = d.readNodeRef()
}

func (c *ChallengeValidationChunk) write(e *encoder) {
	e.writeNodeRef(c.ValidationGhost)
}

// ChallengeMapTypeChunk (0x0305B00E, skippable).
type ChallengeMapTypeChunk struct {
	MapType     string
	MapStyle    string
	IsValidated bool
}

func (c *ChallengeMapTypeChunk) read(d *decoder) {
	c.MapType = d.r.stringField()
	c.MapStyle = d.r.stringField()
	c.IsValidated = d.r.boolean()
}

func (c *ChallengeMapTypeChunk) write(e *encoder) {
	e.w.stringField(c.MapType)
	e.w.stringField(c.MapStyle)
	e.w.boolean(c.IsValidated)
}

// SkinChunk002 (0x03059002) holds the skin file references.
type SkinChunk002 struct {
	Version    uint32
	Unknown1   uint16
	Skin       FileRef
	ParentSkin FileRef
}

func (c *SkinChunk002) read(d *decoder) {
	c.Version = d.r.uint32()
	c.Unknown1 = d.r.uint16()
	c.Skin = d.r.fileRef()
	c.ParentSkin = d.r.fileRef()
}

func (c *SkinChunk002) write(e *encoder) {
	e.w.uint32(c.Version)
	e.w.uint16(c.Unknown1)
	e.w.fileRef(c.Skin)
	e.w.fileRef(c.ParentSkin)
}

// SkinChunk003 (0x03059003) holds the overlay effect.
type SkinChunk003 struct {
	Version uint32
	Effect  FileRef
}

func (c *SkinChunk003) read(d *decoder) {
	c.Version = d.r.uint32()
	c.Effect = d.r.fileRef()
}

func (c *SkinChunk003) write(e *encoder) {
	e.w.uint32(c.Version)
	e.w.fileRef(c.Effect)
}

// Waypoint tags.
const (
	WaypointCheckpoint       = "Checkpoint"
	WaypointLinkedCheckpoint = "LinkedCheckpoint"
	WaypointStart            = "Spawn"
	WaypointFinish           = "Goal"
	WaypointStartFinish      = "StartFinish"
)

// WaypointChunk (0x2E009000) tags a block or item as a race waypoint.
// Order holds the group number for linked checkpoints and the royal
// order for start and finish waypoints.
type WaypointChunk struct {
	Version uint32
	Tag     string
	Order   uint32
}

func (c *WaypointChunk) read(d *decoder) {
	c.Version = d.r.uint32()
	c.Tag = d.r.stringField()
	if !d.r.ok() {
		return
	}
	switch c.Tag {
	case WaypointCheckpoint, WaypointLinkedCheckpoint, WaypointStart, WaypointFinish, WaypointStartFinish:
		c.Order = d.r.uint32()
	default:
		d.r.failf(ErrMalformedValue, "waypoint tag %q", c.Tag)
	}
}

func (c *WaypointChunk) write(e *encoder) {
	e.w.uint32(c.Version)
	e.w.stringField(c.Tag)
	e.w.uint32(c.Order)
}

// itemFlagPackDesc marks item placements that carry a skin file
// reference.
const itemFlagPackDesc = 0x0004

// ItemPlacementChunk (0x03101002) is the body of one placed item.
// Color, AnimOffset and LightmapQuality are folded in from the map
// node's per-item chunks.
type ItemPlacementChunk struct {
	Version  uint32
	ModelID  string
	Unknown1 uint32
	Author   string
	Yaw      float32
	Pitch    float32
	Roll     float32
	Coord    Byte3
	Unknown2 uint32
	Pos      Vec3
	Waypoint *Node
	Flags    uint16
	PivotPos Vec3
	Scale    float32
	PackDesc FileRef
	Unknown3 [3]uint32
	Unknown4 [3]float32

	Color           uint8
	AnimOffset      uint8
	LightmapQuality uint8
}

func (c *ItemPlacementChunk) read(d *decoder) {
	c.Version = d.r.uint32()
	c.ModelID = d.identifier()
	c.Unknown1 = d.r.uint32()
	c.Author = d.identifier()
	c.Yaw = d.r.float32()
	c.Pitch = d.r.float32()
	c.Roll = d.r.float32()
	c.Coord = d.r.byte3()
	c.Unknown2 = d.r.uint32()
	c.Pos = d.r.vec3()
	c.Waypoint = d.readOptionalFlatNode()
	c.Flags = d.r.uint16()
	c.PivotPos = d.r.vec3()
	c.Scale = d.r.float32()
	if c.Flags&itemFlagPackDesc != 0 {
		c.PackDesc = d.r.fileRef()
	}
	for i := range c.Unknown3 {
		c.Unknown3[i] = d.r.uint32()
	}
	for i := range c.Unknown4 {
		c.Unknown4[i] = d.r.float32()
	}
}

func (c *ItemPlacementChunk) write(e *encoder) {
	e.w.uint32(c.Version)
	e.identifier(c.ModelID)
	e.w.uint32(c.Unknown1)
	e.identifier(c.Author)
	e.w.float32(c.Yaw)
	e.w.float32(c.Pitch)
	e.w.float32(c.Roll)
	e.w.byte3(c.Coord)
	e.w.uint32(c.Unknown2)
	e.w.vec3(c.Pos)
	e.writeOptionalFlatNode(c.Waypoint)
	e.w.uint16(c.Flags)
	e.w.vec3(c.PivotPos)
	e.w.float32(c.Scale)
	if c.Flags&itemFlagPackDesc != 0 {
		e.w.fileRef(c.PackDesc)
	}
	for _, v := range c.Unknown3 {
		e.w.uint32(v)
	}
	for _, v := range c.Unknown4 {
		e.w.float32(v)
	}
}
