// Package output plays an audio.Synth on the default sound device.
package output

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
	"github.com/san-kum/boxsim/internal/audio"
)

type Output struct {
	stream *portaudio.Stream
	logger *log.Logger
}

// Open starts an output-only stereo stream fed by s.
func Open(s *audio.Synth, logger *log.Logger) (*Output, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: initialize: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, audio.SampleRate, audio.BufferSize, s.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("audio: start stream: %w", err)
	}
	logger.Info("audio started", "rate", audio.SampleRate, "buffer", audio.BufferSize)
	return &Output{stream: stream, logger: logger}, nil
}

func (o *Output) Close() error {
	if o == nil || o.stream == nil {
		return nil
	}
	if err := o.stream.Stop(); err != nil {
		o.logger.Warn("audio stop failed", "err", err)
	}
	err := o.stream.Close()
	portaudio.Terminate()
	o.stream = nil
	return err
}
