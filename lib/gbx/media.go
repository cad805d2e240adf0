// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

// MediaTracker class ids.
const (
	ClassMediaClip      = 0x03079000
	ClassMediaClipGroup = 0x0307A000
	ClassMediaTrack     = 0x03078000

	ClassMediaBlockTime           = 0x03085000
	ClassMediaBlockMusicEffect    = 0x030A6000
	ClassMediaBlockTransitionFade = 0x030AB000
	ClassMediaBlockTimeSpeed      = 0x03129000
)

func init() {
	registerBodyChunk(ClassMediaClip, 0x0307900D, func() ChunkBody { return &MediaClipChunk{} })
	registerBodyChunk(ClassMediaClipGroup, 0x0307A003, func() ChunkBody { return &MediaClipGroupChunk{} })
	registerBodyChunk(ClassMediaTrack, 0x03078001, func() ChunkBody { return &MediaTrackChunk{} })
	registerBodyChunk(ClassMediaTrack, 0x03078005, func() ChunkBody { return &MediaTrackSettingsChunk{} })

	registerBodyChunk(ClassMediaBlockTime, 0x03085000, func() ChunkBody { return &MediaTimeChunk{} })
	registerBodyChunk(ClassMediaBlockMusicEffect, 0x030A6001, func() ChunkBody { return &MediaMusicEffectChunk{} })
	registerBodyChunk(ClassMediaBlockTransitionFade, 0x030AB000, func() ChunkBody { return &MediaTransitionFadeChunk{} })
	registerBodyChunk(ClassMediaBlockTimeSpeed, 0x03129000, func() ChunkBody { return &MediaTimeSpeedChunk{} })
}

// MediaClipChunk (0x0307900D) holds the clip's tracks.
type MediaClipChunk struct {
	Unknown1 uint32
	Unknown2 uint32
	Tracks   []*Node
	Name     string
	Unknown3 [6]uint32
}

func (c *MediaClipChunk) read(d *decoder) {
	c.Unknown1 = d.r.uint32()
	c.Unknown2 = d.r.uint32()
	count := d.r.listCount(4)
	for i := 0; i < count && d.r.ok(); i++ {
		c.Tracks = append(c.Tracks, d.readNodeRef())
	}
	c.Name = d.r.stringField()
	for i := range c.Unknown3 {
		c.Unknown3[i] = d.r.uint32()
	}
}

func (c *MediaClipChunk) write(e *encoder) {
	e.w.uint32(c.Unknown1)
	e.w.uint32(c.Unknown2)
	e.w.uint32(uint32(len(c.Tracks)))
	for _, track := range c.Tracks {
		e.writeNodeRef(track)
	}
	e.w.stringField(c.Name)
	for _, v := range c.Unknown3 {
		e.w.uint32(v)
	}
}

// Trigger conditions.
const (
	TriggerConditionNone = iota
	TriggerConditionRaceTimeLessThan
	TriggerConditionRaceTimeGreaterThan
	TriggerConditionAlreadyTriggered
	TriggerConditionSpeedLessThan
	TriggerConditionSpeedGreaterThan
	TriggerConditionNotAlreadyTriggered
	TriggerConditionMaxPlayCount
	TriggerConditionRandomOnce
	TriggerConditionRandom

	triggerConditionMax = TriggerConditionRandom
)

// ClipTrigger fires a clip when the player enters one of its
// coordinates and the condition holds.
type ClipTrigger struct {
	Unknown1  [4]uint32
	Condition uint32

	// Argument parameterizes the condition. For TriggerConditionNone
	// the slot exists on the wire but carries no meaning.
	Argument float32

	Coords []Int3
}

// MediaClipGroupChunk (0x0307A003) holds the triggered clips.
type MediaClipGroupChunk struct {
	Unknown1 uint32
	Clips    []*Node
	Triggers []ClipTrigger
}

func (c *MediaClipGroupChunk) read(d *decoder) {
	c.Unknown1 = d.r.uint32()
	count := d.r.listCount(4)
	for i := 0; i < count && d.r.ok(); i++ {
		c.Clips = append(c.Clips, d.readNodeRef())
	}
	count = d.r.listCount(28)
	for i := 0; i < count && d.r.ok(); i++ {
		var trigger ClipTrigger
		for j := range trigger.Unknown1 {
			trigger.Unknown1[j] = d.r.uint32()
		}
		trigger.Condition = d.r.uint32()
		if d.r.ok() && trigger.Condition > triggerConditionMax {
			d.r.failf(ErrMalformedValue, "trigger condition %d", trigger.Condition)
			return
		}
		trigger.Argument = d.r.float32()
		coords := d.r.listCount(12)
		for j := 0; j < coords && d.r.ok(); j++ {
			trigger.Coords = append(trigger.Coords, d.r.int3())
		}
		c.Triggers = append(c.Triggers, trigger)
	}
}

func (c *MediaClipGroupChunk) write(e *encoder) {
	e.w.uint32(c.Unknown1)
	e.w.uint32(uint32(len(c.Clips)))
	for _, clip := range c.Clips {
		e.writeNodeRef(clip)
	}
	e.w.uint32(uint32(len(c.Triggers)))
	for i := range c.Triggers {
		trigger := &c.Triggers[i]
		for _, v := range trigger.Unknown1 {
			e.w.uint32(v)
		}
		e.w.uint32(trigger.Condition)
		e.w.float32(trigger.Argument)
		e.w.uint32(uint32(len(trigger.Coords)))
		for _, coord := range trigger.Coords {
			e.w.int3(coord)
		}
	}
}

// MediaTrackChunk (0x03078001) holds the track's media blocks.
type MediaTrackChunk struct {
	Name     string
	Unknown1 uint32
	Blocks   []*Node
	Unknown2 uint32
}

func (c *MediaTrackChunk) read(d *decoder) {
	c.Name = d.r.stringField()
	c.Unknown1 = d.r.uint32()
	count := d.r.listCount(4)
	for i := 0; i < count && d.r.ok(); i++ {
		c.Blocks = append(c.Blocks, d.readNodeRef())
	}
	c.Unknown2 = d.r.uint32()
}

func (c *MediaTrackChunk) write(e *encoder) {
	e.w.stringField(c.Name)
	e.w.uint32(c.Unknown1)
	e.w.uint32(uint32(len(c.Blocks)))
	for _, block := range c.Blocks {
		e.writeNodeRef(block)
	}
	e.w.uint32(c.Unknown2)
}

// MediaTrackSettingsChunk (0x03078005).
type MediaTrackSettingsChunk struct {
	Unknown1 [6]uint32
}

func (c *MediaTrackSettingsChunk) read(d *decoder) {
	for i := range c.Unknown1 {
		c.Unknown1[i] = d.r.uint32()
	}
}

func (c *MediaTrackSettingsChunk) write(e *encoder) {
	for _, v := range c.Unknown1 {
		e.w.uint32(v)
	}
}

// TimeKey is one key of a time remapping block.
type TimeKey struct {
	Time    float32
	Value   float32
	Tangent float32
}

// MediaTimeChunk (0x03085000).
type MediaTimeChunk struct {
	Keys []TimeKey
}

func (c *MediaTimeChunk) read(d *decoder) {
	count := d.r.listCount(12)
	for i := 0; i < count && d.r.ok(); i++ {
		c.Keys = append(c.Keys, TimeKey{
			Time:    d.r.float32(),
			Value:   d.r.float32(),
			Tangent: d.r.float32(),
		})
	}
}

func (c *MediaTimeChunk) write(e *encoder) {
	e.w.uint32(uint32(len(c.Keys)))
	for _, key := range c.Keys {
		e.w.float32(key.Time)
		e.w.float32(key.Value)
		e.w.float32(key.Tangent)
	}
}

// MusicEffectKey is one key of a music volume block.
type MusicEffectKey struct {
	Unknown1    uint32
	MusicVolume float32
	SoundVolume float32
}

// MediaMusicEffectChunk (0x030A6001).
type MediaMusicEffectChunk struct {
	Keys []MusicEffectKey
}

func (c *MediaMusicEffectChunk) read(d *decoder) {
	count := d.r.listCount(12)
	for i := 0; i < count && d.r.ok(); i++ {
		c.Keys = append(c.Keys, MusicEffectKey{
			Unknown1:    d.r.uint32(),
			MusicVolume: d.r.float32(),
			SoundVolume: d.r.float32(),
		})
	}
}

func (c *MediaMusicEffectChunk) write(e *encoder) {
	e.w.uint32(uint32(len(c.Keys)))
	for _, key := range c.Keys {
		e.w.uint32(key.Unknown1)
		e.w.float32(key.MusicVolume)
		e.w.float32(key.SoundVolume)
	}
}

// TransitionFadeKey is one key of a fade block.
type TransitionFadeKey struct {
	Time    float32
	Opacity float32
}

// MediaTransitionFadeChunk (0x030AB000).
type MediaTransitionFadeChunk struct {
	Keys     []TransitionFadeKey
	Red      float32
	Green    float32
	Blue     float32
	Unknown1 uint32
}

func (c *MediaTransitionFadeChunk) read(d *decoder) {
	count := d.r.listCount(8)
	for i := 0; i < count && d.r.ok(); i++ {
		c.Keys = append(c.Keys, TransitionFadeKey{
			Time:    d.r.float32(),
			Opacity: d.r.float32(),
		})
	}
	c.Red = d.r.float32()
	c.Green = d.r.float32()
	c.Blue = d.r.float32()
	c.Unknown1 = d.r.uint32()
}

func (c *MediaTransitionFadeChunk) write(e *encoder) {
	e.w.uint32(uint32(len(c.Keys)))
	for _, key := range c.Keys {
		e.w.float32(key.Time)
		e.w.float32(key.Opacity)
	}
	e.w.float32(c.Red)
	e.w.float32(c.Green)
	e.w.float32(c.Blue)
	e.w.uint32(c.Unknown1)
}

// TimeSpeedKey is one key of a playback speed block.
type TimeSpeedKey struct {
	Time  float32
	Speed float32
}

// MediaTimeSpeedChunk (0x03129000).
type MediaTimeSpeedChunk struct {
	Keys []TimeSpeedKey
}

func (c *MediaTimeSpeedChunk) read(d *decoder) {
	count := d.r.listCount(8)
	for i := 0; i < count && d.r.ok(); i++ {
		c.Keys = append(c.Keys, TimeSpeedKey{
			Time:  d.r.float32(),
			Speed: d.r.float32(),
		})
	}
}

func (c *MediaTimeSpeedChunk) write(e *encoder) {
	e.w.uint32(uint32(len(c.Keys)))
	for _, key := range c.Keys {
		e.w.float32(key.Time)
		e.w.float32(key.Speed)
	}
}
