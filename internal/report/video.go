package report

import (
	"bytes"
	"image/color"
	"image/jpeg"

	"github.com/icza/mjpeg"
	"github.com/iotaledger/hive.go/ierrors"

	"forest-disease/internal/core"
	"forest-disease/internal/render"
)

// Recorder writes one MJPEG frame per recorded tick into an AVI file.
type Recorder struct {
	aw     mjpeg.AviWriter
	size   core.Size
	scale  int
	buf    bytes.Buffer
	frames int
}

// NewRecorder creates the AVI file at path. Frames are size scaled by scale.
func NewRecorder(path string, size core.Size, scale, fps int) (*Recorder, error) {
	if scale <= 0 {
		scale = 1
	}
	if fps <= 0 {
		fps = 10
	}
	aw, err := mjpeg.New(path, int32(size.W*scale), int32(size.H*scale), int32(fps))
	if err != nil {
		return nil, ierrors.Wrapf(err, "create video %s", path)
	}
	return &Recorder{aw: aw, size: size, scale: scale}, nil
}

// Record renders cells with palette and appends the frame.
func (r *Recorder) Record(cells []uint8, palette []color.RGBA) error {
	img := render.Frame(cells, r.size, palette, r.scale)
	r.buf.Reset()
	if err := jpeg.Encode(&r.buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return ierrors.Wrap(err, "encode frame")
	}
	if err := r.aw.AddFrame(r.buf.Bytes()); err != nil {
		return ierrors.Wrapf(err, "add frame %d", r.frames)
	}
	r.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int { return r.frames }

// Close finalises the AVI index.
func (r *Recorder) Close() error {
	return r.aw.Close()
}
