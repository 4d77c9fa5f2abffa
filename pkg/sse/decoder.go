package sse

import (
	"bytes"
	"strings"
)

// Decoder maintains state across chunks so that lines split over chunk
// boundaries are reassembled before parsing. Feed it raw bytes in arrival
// order; the resulting frames are identical for any chunking of the same
// logical byte stream.
type Decoder struct {
	buf   []byte
	event string // pending event type from the last "event:" line
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed processes raw bytes from the stream and returns the frames completed
// by this chunk, in order. A trailing partial line is held back until the
// next call supplies its newline.
//
// Line rules:
//   - a blank line clears the pending event type and emits nothing
//   - "event: <type>" sets the pending event type (empty remainder means none)
//   - "data: <payload>" with a non-empty trimmed payload emits a frame
//     carrying the pending event type; the type persists across consecutive
//     data lines until the next blank line
//   - anything else is ignored
func (d *Decoder) Feed(chunk []byte) []Frame {
	d.buf = append(d.buf, chunk...)

	var frames []Frame
	for {
		idx := bytes.IndexByte(d.buf, '\n')
		if idx == -1 {
			break
		}

		line := strings.TrimSpace(string(d.buf[:idx]))
		d.buf = d.buf[idx+1:]

		if line == "" {
			d.event = ""
			continue
		}

		if rest, ok := strings.CutPrefix(line, "event:"); ok {
			d.event = strings.TrimSpace(rest)
			continue
		}

		rest, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}

		data := strings.TrimSpace(rest)
		if data == "" {
			continue
		}

		frames = append(frames, Frame{Event: d.event, Data: data})
	}

	return frames
}
