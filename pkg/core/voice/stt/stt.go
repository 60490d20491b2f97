// Package stt provides streaming speech-to-text. A Transcriber opens one
// Stream per utterance burst; the stream accepts raw audio writes and
// emits interim and final recognition results on a channel.
package stt

import "context"

// StreamConfig is the negotiated audio configuration for one stream.
type StreamConfig struct {
	Encoding        string
	SampleRateHertz int
	LanguageCode    string
}

// Result is one recognition update.
type Result struct {
	Text    string
	IsFinal bool
}

// Stream is one live transcription session. Results closes when the
// provider finishes (after CloseSend) or fails; Err reports the terminal
// error, if any, once Results is closed.
type Stream interface {
	Send(audio []byte) error
	Results() <-chan Result
	Err() error
	// CloseSend signals end of audio so pending finals are flushed.
	CloseSend() error
	// Close tears the session down without waiting for flushes.
	Close() error
}

// Transcriber opens transcription streams.
type Transcriber interface {
	NewStream(ctx context.Context, cfg StreamConfig) (Stream, error)
}
