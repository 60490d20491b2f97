package stt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// recognitionModel is tuned for long-form conversational audio.
const recognitionModel = "latest_long"

// GoogleTranscriber opens streaming recognition sessions against the Google
// Cloud Speech-to-Text API.
type GoogleTranscriber struct {
	client *speech.Client
	logger *slog.Logger
}

// NewGoogleTranscriber creates the transcriber. Credentials come from the
// environment (GOOGLE_APPLICATION_CREDENTIALS) unless overridden by opts.
func NewGoogleTranscriber(ctx context.Context, logger *slog.Logger, opts ...option.ClientOption) (*GoogleTranscriber, error) {
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("stt: create speech client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GoogleTranscriber{client: client, logger: logger}, nil
}

// Close releases the underlying gRPC connection.
func (t *GoogleTranscriber) Close() error {
	return t.client.Close()
}

func encodingOf(name string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch strings.ToUpper(name) {
	case "", "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC, nil
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW, nil
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return 0, fmt.Errorf("stt: unsupported encoding %q", name)
	}
}

// NewStream opens one streaming recognition session and starts its receive
// loop.
func (t *GoogleTranscriber) NewStream(ctx context.Context, cfg StreamConfig) (Stream, error) {
	encoding, err := encodingOf(cfg.Encoding)
	if err != nil {
		return nil, err
	}

	grpcStream, err := t.client.StreamingRecognize(ctx)
	if err != nil {
		return nil, fmt.Errorf("stt: open streaming recognize: %w", err)
	}

	err = grpcStream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:                   encoding,
					SampleRateHertz:            int32(cfg.SampleRateHertz),
					LanguageCode:               cfg.LanguageCode,
					EnableAutomaticPunctuation: true,
					Model:                      recognitionModel,
				},
				InterimResults: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("stt: send streaming config: %w", err)
	}

	gs := &googleStream{
		stream:  grpcStream,
		logger:  t.logger,
		results: make(chan Result, 16),
	}
	go gs.recvLoop()
	return gs, nil
}

type googleStream struct {
	stream  speechpb.Speech_StreamingRecognizeClient
	logger  *slog.Logger
	results chan Result

	mu       sync.Mutex
	sendDone bool
	err      error
}

func (s *googleStream) Send(audio []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendDone {
		return fmt.Errorf("stt: stream already closed for sending")
	}
	err := s.stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audio,
		},
	})
	if err != nil {
		return fmt.Errorf("stt: send audio: %w", err)
	}
	return nil
}

func (s *googleStream) Results() <-chan Result {
	return s.results
}

func (s *googleStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *googleStream) CloseSend() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendDone {
		return nil
	}
	s.sendDone = true
	return s.stream.CloseSend()
}

func (s *googleStream) Close() error {
	return s.CloseSend()
}

func (s *googleStream) recvLoop() {
	defer close(s.results)
	for {
		resp, err := s.stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			// A canceled session tears the stream down; that is a
			// clean end, not a recognition failure.
			if status.Code(err) == codes.Canceled {
				return
			}
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			return
		}
		for _, result := range resp.Results {
			if len(result.Alternatives) == 0 {
				continue
			}
			s.results <- Result{
				Text:    result.Alternatives[0].Transcript,
				IsFinal: result.IsFinal,
			}
		}
	}
}
