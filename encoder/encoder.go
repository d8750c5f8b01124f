// Package encoder streams rendered frames to an ffmpeg process.
package encoder

import (
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"
	"sync"

	options "github.com/richinsley/goshaderfx/options"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// numBuffers is how many frames may queue between renderer and encoder.
const numBuffers = 3

var errClosed = errors.New("encoder is closed")

// Settings describes the output video.
type Settings struct {
	Width      int
	Height     int
	FPS        int
	OutputFile string
	Codec      string // "h264" or "hevc"
	FFMPEGPath string
}

func SettingsFromOptions(o *options.ShaderOptions) Settings {
	return Settings{
		Width:      *o.Width,
		Height:     *o.Height,
		FPS:        *o.FPS,
		OutputFile: *o.OutputFile,
		Codec:      *o.Codec,
		FFMPEGPath: *o.FFMPEGPath,
	}
}

func (s Settings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid output size %dx%d", s.Width, s.Height)
	}
	if s.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %d", s.FPS)
	}
	if s.OutputFile == "" {
		return fmt.Errorf("no output file")
	}
	switch s.Codec {
	case "h264", "hevc":
	default:
		return fmt.Errorf("unsupported codec %q", s.Codec)
	}
	return nil
}

// FrameSize is the byte length of one RGBA frame.
func (s Settings) FrameSize() int {
	return s.Width * s.Height * 4
}

// InputArgs describes the raw RGBA stream written to ffmpeg's stdin.
func InputArgs(s Settings) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", s.Width, s.Height),
		"framerate": fmt.Sprintf("%d", s.FPS),
	}
}

// OutputArgs picks the encoder for the platform. GL reads rows bottom-up, so
// the stream is flipped on the way out.
func OutputArgs(s Settings, goos string) ffmpeg.KwArgs {
	outputArgs := ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
		"b:v":     "25M",
	}

	switch goos {
	case "darwin":
		if s.Codec == "hevc" {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
	default:
		if s.Codec == "hevc" {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}

	if s.Codec == "hevc" && strings.HasSuffix(s.OutputFile, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return outputArgs
}

// Frame is one rendered frame queued for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// Encoder owns an ffmpeg process fed through a pipe. WriteFrame is the
// producer side and must be called from a single goroutine.
type Encoder struct {
	settings Settings
	frames   chan *Frame
	failed   chan struct{}
	done     chan error
	pts      int64
	closed   bool

	failOnce sync.Once
	writeErr error
}

// New starts ffmpeg and the goroutine that feeds it.
func New(s Settings) (*Encoder, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	e := &Encoder{
		settings: s,
		frames:   make(chan *Frame, numBuffers),
		failed:   make(chan struct{}),
		done:     make(chan error, 1),
	}

	pipeReader, pipeWriter := io.Pipe()
	ffmpegCmd := ffmpeg.Input("pipe:", InputArgs(s)).
		Output(s.OutputFile, OutputArgs(s, runtime.GOOS)).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if s.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(s.FFMPEGPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		if err != nil {
			pipeReader.CloseWithError(err)
		} else {
			pipeReader.CloseWithError(io.ErrClosedPipe)
		}
		errc <- err
	}()
	go e.consume(pipeWriter, errc)

	log.Printf("Encoding %dx%d@%d to %s (%s)", s.Width, s.Height, s.FPS, s.OutputFile, OutputArgs(s, runtime.GOOS)["c:v"])
	return e, nil
}

func (e *Encoder) fail(err error) {
	e.failOnce.Do(func() {
		e.writeErr = err
		close(e.failed)
	})
}

// consume writes queued frames to ffmpeg. After a write error it keeps
// draining the queue so the producer never blocks.
func (e *Encoder) consume(pipeWriter *io.PipeWriter, errc <-chan error) {
	for frame := range e.frames {
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			log.Printf("Error writing frame %d to FFmpeg: %v", frame.PTS, err)
			e.fail(fmt.Errorf("failed to write frame %d: %w", frame.PTS, err))
		}
	}
	pipeWriter.Close()

	err := <-errc
	if err == nil {
		err = e.writeErr
	}
	e.done <- err
}

// WriteFrame queues one RGBA frame of exactly Settings.FrameSize bytes.
func (e *Encoder) WriteFrame(pixels []byte) error {
	if e.closed {
		return errClosed
	}
	if len(pixels) != e.settings.FrameSize() {
		return fmt.Errorf("frame is %d bytes, want %d", len(pixels), e.settings.FrameSize())
	}
	frame := &Frame{Pixels: pixels, PTS: e.pts}
	select {
	case <-e.failed:
		return e.writeErr
	case e.frames <- frame:
		e.pts++
		return nil
	}
}

// Frames is the number of frames accepted so far.
func (e *Encoder) Frames() int64 { return e.pts }

// Close flushes queued frames and waits for ffmpeg to exit.
func (e *Encoder) Close() error {
	if e.closed {
		return errClosed
	}
	e.closed = true
	close(e.frames)
	return <-e.done
}
