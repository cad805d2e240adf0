// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import (
	"bytes"
	"testing"
)

// buildTestMap assembles a map exercising the structured chunk set:
// header chunks, block and item lists, skins, waypoints, MediaTracker
// clips, a validation ghost with an entity record, and embedded
// files.
func buildTestMap() *File {
	waypoint := &Node{ClassID: ClassWaypointProperty, Chunks: []Chunk{
		{ID: 0x2E009000, Body: &WaypointChunk{Version: 2, Tag: WaypointCheckpoint, Order: 1}},
	}}

	skin := &Node{ClassID: ClassSkin, Chunks: []Chunk{
		{ID: 0x03059002, Body: &SkinChunk002{
			Version: 2,
			Skin:    InternalFileRef("Skins/Stadium/Decal.zip"),
		}},
	}}

	collectorList := &Node{ClassID: ClassCollectorList, Chunks: []Chunk{
		{ID: 0x0301B000, Body: &CollectorListChunk{}},
	}}

	entityRecord := &Node{ClassID: ClassEntityRecord, Chunks: []Chunk{
		{ID: 0x0911F000, Body: &EntityRecordChunk{
			Version: 10,
			Data:    bytes.Repeat([]byte("sample telemetry frame "), 40),
		}},
	}}

	ghost := &Node{ClassID: ClassGhost, Chunks: []Chunk{
		{ID: 0x0303F006, Body: &GhostChunk3F006{Unknown1: 1}},
		{ID: 0x03092000, Skippable: true, Body: &GhostInfoChunk{
			Version:  7,
			ModelID:  "CarSport",
			SkinRefs: []FileRef{InternalFileRef("Skins/Models/CarSport/Classic.zip")},
			Record:   entityRecord,
			Login:    "validator",
		}},
		{ID: 0x0309200F, Body: &GhostChunk00F{Login: "validator"}},
	}}

	challenge := &Node{ClassID: ClassChallengeParameters, Chunks: []Chunk{
		{ID: 0x0305B001, Body: &ChallengeChunk001{}},
		{ID: 0x0305B004, Body: &ChallengeMedalsChunk{
			BronzeTime: 60000, SilverTime: 50000, GoldTime: 45000,
			AuthorTime: 42137, AuthorScore: 0,
		}},
		{ID: 0x0305B00D, Body: &ChallengeValidationChunk{ValidationGhost: ghost}},
		{ID: 0x0305B00E, Skippable: true, Body: &ChallengeMapTypeChunk{
			MapType: "TrackMania\\TM_Race", IsValidated: true,
		}},
	}}

	itemWaypoint := &Node{ClassID: ClassWaypointProperty, Chunks: []Chunk{
		{ID: 0x2E009000, Body: &WaypointChunk{Version: 2, Tag: WaypointFinish}},
	}}
	item := &Node{ClassID: ClassItemPlacement, Chunks: []Chunk{
		{ID: 0x03101002, Body: &ItemPlacementChunk{
			Version:  8,
			ModelID:  "GateCheckpoint",
			Author:   "Nadeo",
			Coord:    Byte3{10, 4, 12},
			Unknown2: 0xFFFFFFFF,
			Pos:      Vec3{320, 64, 384},
			Waypoint: itemWaypoint,
			Flags:    itemFlagPackDesc,
			Scale:    1,
			PackDesc: InternalFileRef("Items/GateCheckpoint.zip"),
		}},
	}}

	fadeBlock := &Node{ClassID: ClassMediaBlockTransitionFade, Chunks: []Chunk{
		{ID: 0x030AB000, Body: &MediaTransitionFadeChunk{
			Keys: []TransitionFadeKey{{Time: 0, Opacity: 1}, {Time: 2, Opacity: 0}},
		}},
	}}
	track := &Node{ClassID: ClassMediaTrack, Chunks: []Chunk{
		{ID: 0x03078001, Body: &MediaTrackChunk{
			Name:     "Fade in",
			Unknown1: 10,
			Blocks:   []*Node{fadeBlock},
			Unknown2: 0xFFFFFFFF,
		}},
		{ID: 0x03078005, Body: &MediaTrackSettingsChunk{}},
	}}
	introClip := &Node{ClassID: ClassMediaClip, Chunks: []Chunk{
		{ID: 0x0307900D, Body: &MediaClipChunk{
			Unknown1: 10,
			Tracks:   []*Node{track},
			Name:     "Intro",
		}},
	}}

	blocks := &MapBlocksChunk{
		MapID:            "aBcDeFg01",
		Author:           "tester",
		Name:             "Round Trip Ring",
		Decoration:       "48x48Day",
		DecorationAuthor: "Nadeo",
		Size:             Int3{48, 40, 48},
		BlockCount:       5,
		Blocks: []Block{
			{ModelID: "RoadTechStraight", Direction: 1, Coord: Byte3{10, 4, 12}, Flags: BlockFlagGround, Color: 2},
			{ModelID: "RoadTechCheckpoint", Coord: Byte3{11, 4, 12}, Flags: BlockFlagWaypoint, Waypoint: waypoint},
			{ModelID: "RoadTechStraight", Direction: 3, Coord: Byte3{12, 4, 12}, Flags: BlockFlagSkin, SkinAuthor: "Nadeo", Skin: skin},
			{ModelID: "RoadTechStraight", Flags: blockAbsent},
			{ModelID: "DecoWallBase", Coord: Byte3{13, 5, 12}, Flags: BlockFlagFree,
				Pos: Vec3{416, 80, 384}, Yaw: 1.5, LightmapQuality: 1},
		},
	}

	baked := &MapBakedBlocksChunk{
		BlockCount: 1,
		Blocks: []BakedBlock{
			{ModelID: "RoadTechStraightBaked", Coord: Byte3{10, 4, 12}, Flags: BlockFlagGround},
		},
	}

	root := &Node{ClassID: ClassMap, Chunks: []Chunk{
		{ID: 0x0304300D, Body: &MapVehicleChunk{Vehicle: "CarSport"}},
		{ID: 0x03043011, Body: &MapParametersChunk{
			CollectorList:       collectorList,
			ChallengeParameters: challenge,
			MapKind:             6,
		}},
		{ID: 0x03043018, Skippable: true, Body: &MapLapsChunk{LapCount: 1}},
		{ID: 0x03043019, Skippable: true, Body: &MapTextureModChunk{}},
		{ID: 0x0304301F, Body: blocks},
		{ID: 0x03043022, Body: &MapChunk022{Unknown1: 1}},
		{ID: 0x03043024, Body: &MapMusicChunk{}},
		{ID: 0x03043028, Body: &MapChunk028{}},
		{ID: 0x03043029, Skippable: true, Raw: bytes.Repeat([]byte{0xAB}, 32)},
		{ID: 0x03043040, Skippable: true, Body: &MapItemsChunk{
			Version:  7,
			Unknown2: 10,
			Items:    []*Node{item},
		}},
		{ID: 0x03043048, Skippable: true, Body: baked},
		{ID: 0x03043049, Body: &MapMediaChunk{
			Version:  2,
			Intro:    introClip,
			Ambiance: introClip,
		}},
		{ID: 0x03043054, Skippable: true, Body: &MapEmbeddedFilesChunk{
			Version: 1,
			FileIDs: []EmbeddedFileID{{ID: "GateCheckpoint", Author: "Nadeo"}},
			Archive: []byte("PK\x03\x04 not a real archive"),
		}},
		{ID: 0x03043056, Skippable: true, Body: &MapTimeOfDayChunk{TimeOfDay: 0x8000}},
		{ID: 0x0304305F, Skippable: true, Body: &MapFreeBlockDataChunk{}},
		{ID: 0x03043062, Skippable: true, Body: &MapBlockColorsChunk{}},
		{ID: 0x03043063, Skippable: true, Body: &MapItemPhaseOffsetsChunk{}},
		{ID: 0x03043068, Skippable: true, Body: &MapLightmapQualityChunk{Version: 1}},
	}}

	return &File{
		BodyCompressed: true,
		HeaderChunks: []HeaderChunk{
			{ID: 0x03043002, Body: &MapInfoChunk{
				Version: 13, BronzeTime: 60000, SilverTime: 50000,
				GoldTime: 45000, AuthorTime: 42137, Cost: 4000,
				CheckpointCount: 2, LapCount: 1,
			}},
			{ID: 0x03043003, Body: &MapIdentChunk{
				Version: 11, MapID: "aBcDeFg01", Author: "tester",
				Name: "Round Trip Ring", Kind: 6, Decoration: "48x48Day",
				DecorationAuthor: "Nadeo", MapType: "TrackMania\\TM_Race",
				TitleID: "TMStadium",
			}},
			{ID: 0x03043004, Body: &MapVersionChunk{Version: 6}},
			{ID: 0x03043005, Body: &MapXMLChunk{XML: `<header type="map" exever="3.3.0"/>`}},
			{ID: 0x03043007, Body: &MapThumbnailChunk{
				Present:   true,
				Thumbnail: bytes.Repeat([]byte{0xFF, 0xD8}, 200),
				Comments:  "test map",
			}},
			{ID: 0x03043008, Body: &MapAuthorChunk{
				Version: 1, AuthorVersion: 4, Login: "tester",
				Nickname: "Tester", Zone: "World",
			}},
		},
		Root: root,
	}
}

func TestMapRoundTripByteStable(t *testing.T) {
	first := mustEncode(t, buildTestMap())
	decoded := mustDecode(t, first)
	second := mustEncode(t, decoded)
	if !bytes.Equal(first, second) {
		t.Fatalf("re-encode differs: %d vs %d bytes", len(first), len(second))
	}
}

func TestMapHeaderChunksDecode(t *testing.T) {
	decoded := mustDecode(t, mustEncode(t, buildTestMap()))

	info, ok := decoded.HeaderChunk(0x03043002).Body.(*MapInfoChunk)
	if !ok {
		t.Fatal("info chunk did not decode structurally")
	}
	if info.AuthorTime != 42137 || info.CheckpointCount != 2 {
		t.Errorf("info chunk = %+v", info)
	}

	ident, ok := decoded.HeaderChunk(0x03043003).Body.(*MapIdentChunk)
	if !ok {
		t.Fatal("ident chunk did not decode structurally")
	}
	if ident.Name != "Round Trip Ring" || ident.MapID != "aBcDeFg01" {
		t.Errorf("ident chunk = %+v", ident)
	}

	thumb := decoded.HeaderChunk(0x03043007)
	if thumb == nil || !thumb.Heavy {
		t.Error("thumbnail chunk should decode with the heavy flag")
	}
	body, ok := thumb.Body.(*MapThumbnailChunk)
	if !ok || len(body.Thumbnail) != 400 || body.Comments != "test map" {
		t.Errorf("thumbnail chunk = %+v", body)
	}
}

func TestMapBlocksDecode(t *testing.T) {
	decoded := mustDecode(t, mustEncode(t, buildTestMap()))

	blocks := mapBlocks(decoded.Root)
	if blocks == nil {
		t.Fatal("blocks chunk did not decode structurally")
	}
	if len(blocks.Blocks) != 5 || blocks.BlockCount != 5 {
		t.Fatalf("blocks = %d declared %d", len(blocks.Blocks), blocks.BlockCount)
	}

	if got := blocks.Blocks[0]; got.ModelID != "RoadTechStraight" || got.Flags&BlockFlagGround == 0 || got.Color != 2 {
		t.Errorf("block 0 = %+v", got)
	}

	wp := blocks.Blocks[1].Waypoint
	if wp == nil || wp.ClassID != ClassWaypointProperty {
		t.Fatal("checkpoint block lost its waypoint node")
	}
	tag, ok := wp.Chunk(0x2E009000).Body.(*WaypointChunk)
	if !ok || tag.Tag != WaypointCheckpoint || tag.Order != 1 {
		t.Errorf("waypoint = %+v", tag)
	}

	sk := blocks.Blocks[2].Skin
	if sk == nil || sk.ClassID != ClassSkin {
		t.Fatal("skinned block lost its skin node")
	}

	if !blocks.Blocks[3].Absent() {
		t.Error("placeholder entry lost")
	}

	free := blocks.Blocks[4]
	if !free.IsFree() || free.Pos != (Vec3{416, 80, 384}) || free.Yaw != 1.5 {
		t.Errorf("free block placement = %+v", free)
	}
	if free.LightmapQuality != 1 {
		t.Errorf("free block lightmap quality = %d", free.LightmapQuality)
	}
}

func TestMapItemsDecode(t *testing.T) {
	decoded := mustDecode(t, mustEncode(t, buildTestMap()))

	items := mapItems(decoded.Root)
	if len(items) != 1 {
		t.Fatalf("items = %d", len(items))
	}
	item := items[0]
	if item.ModelID != "GateCheckpoint" || item.Author != "Nadeo" {
		t.Errorf("item = %+v", item)
	}
	if item.PackDesc.Path != "Items/GateCheckpoint.zip" {
		t.Errorf("item pack desc = %+v", item.PackDesc)
	}
	if item.Waypoint == nil {
		t.Fatal("item lost its waypoint")
	}
	tag, ok := item.Waypoint.Chunk(0x2E009000).Body.(*WaypointChunk)
	if !ok || tag.Tag != WaypointFinish {
		t.Errorf("item waypoint = %+v", tag)
	}
}

func TestMapSharedNodesDecodeToSharedPointers(t *testing.T) {
	decoded := mustDecode(t, mustEncode(t, buildTestMap()))

	media, ok := decoded.Root.Chunk(0x03043049).Body.(*MapMediaChunk)
	if !ok {
		t.Fatal("media chunk did not decode structurally")
	}
	if media.Intro == nil || media.Intro != media.Ambiance {
		t.Error("shared clip decoded to distinct nodes")
	}
	if media.Podium != nil {
		t.Error("nil clip reference decoded to a node")
	}

	clip, ok := media.Intro.Chunk(0x0307900D).Body.(*MediaClipChunk)
	if !ok || clip.Name != "Intro" || len(clip.Tracks) != 1 {
		t.Fatalf("clip = %+v", clip)
	}
	track, ok := clip.Tracks[0].Chunk(0x03078001).Body.(*MediaTrackChunk)
	if !ok || track.Name != "Fade in" || len(track.Blocks) != 1 {
		t.Fatalf("track = %+v", track)
	}
	fade, ok := track.Blocks[0].Chunk(0x030AB000).Body.(*MediaTransitionFadeChunk)
	if !ok || len(fade.Keys) != 2 || fade.Keys[1].Time != 2 {
		t.Errorf("fade block = %+v", fade)
	}
}

func TestMapValidationGhostDecode(t *testing.T) {
	decoded := mustDecode(t, mustEncode(t, buildTestMap()))

	params, ok := decoded.Root.Chunk(0x03043011).Body.(*MapParametersChunk)
	if !ok {
		t.Fatal("parameters chunk did not decode structurally")
	}
	validation, ok := params.ChallengeParameters.Chunk(0x0305B00D).Body.(*ChallengeValidationChunk)
	if !ok || validation.ValidationGhost == nil {
		t.Fatal("validation ghost lost")
	}

	info, ok := validation.ValidationGhost.Chunk(0x03092000).Body.(*GhostInfoChunk)
	if !ok || info.ModelID != "CarSport" || info.Login != "validator" {
		t.Fatalf("ghost info = %+v", info)
	}
	record, ok := info.Record.Chunk(0x0911F000).Body.(*EntityRecordChunk)
	if !ok {
		t.Fatal("entity record lost")
	}
	// The record payload travels zlib-compressed and must inflate
	// back to the original samples.
	if !bytes.Equal(record.Data, bytes.Repeat([]byte("sample telemetry frame "), 40)) {
		t.Error("entity record data corrupted")
	}
}

func TestMapUnknownSkippableChunkPreserved(t *testing.T) {
	decoded := mustDecode(t, mustEncode(t, buildTestMap()))

	raw := decoded.Root.Chunk(0x03043029)
	if raw == nil || !raw.Skippable {
		t.Fatal("unregistered skippable chunk lost")
	}
	if raw.Body != nil || !bytes.Equal(raw.Raw, bytes.Repeat([]byte{0xAB}, 32)) {
		t.Errorf("raw chunk = %+v", raw)
	}
}

func TestMapEmbeddedFilesDecode(t *testing.T) {
	decoded := mustDecode(t, mustEncode(t, buildTestMap()))

	embedded, ok := decoded.Root.Chunk(0x03043054).Body.(*MapEmbeddedFilesChunk)
	if !ok {
		t.Fatal("embedded files chunk did not decode structurally")
	}
	if len(embedded.FileIDs) != 1 || embedded.FileIDs[0].ID != "GateCheckpoint" {
		t.Errorf("file ids = %+v", embedded.FileIDs)
	}
	if !bytes.Equal(embedded.Archive, []byte("PK\x03\x04 not a real archive")) {
		t.Error("embedded archive corrupted")
	}
}

func TestWaypointRejectsUnknownTag(t *testing.T) {
	f := &File{Root: &Node{ClassID: ClassWaypointProperty, Chunks: []Chunk{
		{ID: 0x2E009000, Body: &WaypointChunk{Version: 2, Tag: "Teleporter"}},
	}}}
	data := mustEncode(t, f)
	if _, err := Decode(data); err == nil {
		t.Error("unknown waypoint tag should fail decode")
	}
}
