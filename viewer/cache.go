// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package viewer

import (
	"sync"

	"github.com/Lexer747/fits-examine/fitsfile"
	"github.com/Lexer747/fits-examine/pixel"
)

// FrameInfo is everything cached about one frame of the display: which file and extension it shows, the
// loaded pixel data, and whether the data arrived from disk or was pushed as an in-memory array.
type FrameInfo struct {
	fitsfile.Info
	Grid *pixel.Grid
	// UserArray is true when the frame displays data pushed by [Viewer.ViewGrid] rather than a file, the
	// Info fields other than Axes are then zero.
	UserArray bool
}

// Cache is the per-frame metadata store every backend embeds. Loading a frame is expensive enough (a full
// file read and float conversion) that the interactive loop must not redo it per keystroke, entries only
// invalidate when the frame is given new content or a cube changes plane.
type Cache struct {
	mu     sync.Mutex
	frames map[int]*FrameInfo
}

func NewCache() *Cache {
	return &Cache{frames: map[int]*FrameInfo{}}
}

// Lookup returns the cached info for a frame, nil when the frame has never been described.
func (c *Cache) Lookup(frame int) *FrameInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames[frame]
}

// Store records what a frame currently displays, replacing any previous entry.
func (c *Cache) Store(frame int, info *FrameInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames[frame] = info
}

// Invalidate drops a frame's entry, the next lookup reloads it.
func (c *Cache) Invalidate(frame int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.frames, frame)
}

// Frames lists the frame numbers with cached entries.
func (c *Cache) Frames() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, 0, len(c.frames))
	for f := range c.frames {
		out = append(out, f)
	}
	return out
}
