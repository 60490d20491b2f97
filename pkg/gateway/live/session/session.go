// Package session runs one live voice conversation over a WebSocket.
// The client streams microphone audio as binary frames and steers the
// session with small JSON control messages; the session answers with
// transcripts, the persona's reply text, and optionally synthesized
// speech.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/coolcat-ia/barkeep/pkg/core/characters"
	"github.com/coolcat-ia/barkeep/pkg/core/chat"
	"github.com/coolcat-ia/barkeep/pkg/core/geo"
	"github.com/coolcat-ia/barkeep/pkg/core/voice/stt"
	"github.com/coolcat-ia/barkeep/pkg/core/voice/tts"
	"github.com/coolcat-ia/barkeep/pkg/gateway/live/protocol"
)

const (
	outboundPriorityQueueSize = 8
	defaultAudioChunkBytes    = 32 * 1024
)

// Responder produces one persona reply for a finished utterance.
type Responder interface {
	Reply(ctx context.Context, req *chat.ReplyRequest) (string, error)
}

// CharacterSource resolves persona ids to localized personas.
type CharacterSource interface {
	Get(id, language string) (characters.Character, bool)
}

// Conn is the slice of *websocket.Conn the session drives.
type Conn interface {
	wsWriter
	ReadMessage() (messageType int, data []byte, err error)
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
}

type Config struct {
	MaxMessageBytes   int64
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	PingInterval      time.Duration
	OutboundQueueSize int
	AudioChunkBytes   int
}

type Dependencies struct {
	Conn        Conn
	Logger      *slog.Logger
	Characters  CharacterSource
	Transcriber stt.Transcriber
	Synthesizer tts.Synthesizer
	Responder   Responder
	SessionID   string
	Config      Config
}

// Session is one live voice conversation. All socket writes funnel
// through the outbound writer goroutine; the Run loop owns every other
// piece of state.
type Session struct {
	conn        Conn
	logger      *slog.Logger
	characters  CharacterSource
	transcriber stt.Transcriber
	synthesizer tts.Synthesizer
	responder   Responder
	sessionID   string
	cfg         Config

	ctx    context.Context
	cancel context.CancelFunc

	outboundPriority chan outboundFrame
	outboundNormal   chan outboundFrame
}

type inboundFrame struct {
	messageType int
	data        []byte
	err         error
}

type sttEvent struct {
	result stt.Result
	closed bool
	err    error
}

type replyOutcome struct {
	replyText string
	err       error
}

func New(deps Dependencies) (*Session, error) {
	if deps.Conn == nil {
		return nil, fmt.Errorf("connection is required")
	}
	if deps.Characters == nil {
		return nil, fmt.Errorf("character source is required")
	}
	if deps.Transcriber == nil {
		return nil, fmt.Errorf("transcriber is required")
	}
	if deps.Synthesizer == nil {
		return nil, fmt.Errorf("synthesizer is required")
	}
	if deps.Responder == nil {
		return nil, fmt.Errorf("responder is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Config.OutboundQueueSize <= 0 {
		deps.Config.OutboundQueueSize = 128
	}
	if deps.Config.AudioChunkBytes <= 0 {
		deps.Config.AudioChunkBytes = defaultAudioChunkBytes
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		conn:             deps.Conn,
		logger:           deps.Logger,
		characters:       deps.Characters,
		transcriber:      deps.Transcriber,
		synthesizer:      deps.Synthesizer,
		responder:        deps.Responder,
		sessionID:        deps.SessionID,
		cfg:              deps.Config,
		ctx:              ctx,
		cancel:           cancel,
		outboundPriority: make(chan outboundFrame, outboundPriorityQueueSize),
		outboundNormal:   make(chan outboundFrame, deps.Config.OutboundQueueSize),
	}, nil
}

// Cancel tears the session down from outside the Run loop, used on
// server shutdown.
func (s *Session) Cancel() {
	s.cancel()
}

// Run drives the session until the client stops, the socket drops, or
// the context is canceled. Protocol violations are reported as error
// events and never close the connection; only stop, a dead socket, or a
// failed transcriber bootstrap end the loop.
func (s *Session) Run() error {
	defer s.cancel()

	if s.cfg.MaxMessageBytes > 0 {
		s.conn.SetReadLimit(s.cfg.MaxMessageBytes)
	}
	if s.cfg.ReadTimeout > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		s.conn.SetPongHandler(func(string) error {
			return s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		})
	}

	readCh := make(chan inboundFrame, 64)
	writerErrCh := make(chan error, 1)
	go s.readLoop(readCh)
	go func() {
		w := outboundWriter{
			ws:       s.conn,
			ctx:      s.ctx,
			cfg:      s.cfg,
			priority: s.outboundPriority,
			normal:   s.outboundNormal,
		}
		writerErrCh <- w.Run()
		close(writerErrCh)
		// With the writer gone nothing drains the outbound queues;
		// cancel so pending enqueues unblock and the loop can exit.
		s.cancel()
	}()

	var (
		started      bool
		persona      characters.Character
		language     string
		languageCode string
		sampleRate   int
		encoding     string
		returnAudio  bool
		userLocation *geo.UserLocation
		history      []chat.Turn

		stream    stt.Stream
		replying  bool
		sttEvents = make(chan sttEvent, 16)
		replyCh   = make(chan replyOutcome, 1)
	)

	closeStream := func() {
		if stream == nil {
			return
		}
		_ = stream.Close()
		stream = nil
	}
	defer closeStream()

	openStream := func() error {
		st, err := s.transcriber.NewStream(s.ctx, stt.StreamConfig{
			Encoding:        encoding,
			SampleRateHertz: sampleRate,
			LanguageCode:    languageCode,
		})
		if err != nil {
			return err
		}
		stream = st
		s.watchStream(st, sttEvents)
		return nil
	}

	for {
		select {
		case frame, ok := <-readCh:
			if !ok {
				return nil
			}
			if frame.err != nil {
				if isExpectedClose(frame.err) {
					return nil
				}
				return frame.err
			}

			switch frame.messageType {
			case websocket.BinaryMessage:
				if !started {
					s.sendError("audio received before start", "")
					continue
				}
				if stream == nil {
					// The previous utterance was committed; a new
					// binary frame opens a fresh transcription stream
					// with the negotiated settings.
					if err := openStream(); err != nil {
						s.logger.Error("stt restart failed", "session", s.sessionID, "error", err)
						s.sendError("transcription unavailable", err.Error())
						continue
					}
				}
				if err := stream.Send(frame.data); err != nil {
					s.logger.Warn("stt send failed", "session", s.sessionID, "error", err)
					closeStream()
				}

			case websocket.TextMessage:
				msg, err := protocol.DecodeClientMessage(frame.data)
				if err != nil {
					var decErr *protocol.DecodeError
					if errors.As(err, &decErr) {
						s.sendError(decErr.Message, decErr.Param)
					} else {
						s.sendError("invalid message", err.Error())
					}
					continue
				}

				switch m := msg.(type) {
				case protocol.ClientStart:
					if stream != nil {
						s.sendError("session already started", "")
						continue
					}
					language = m.Language
					if language == "" {
						language = protocol.DefaultLanguage
					}
					p, ok := s.characters.Get(m.PersonaID, language)
					if !ok {
						s.sendError(fmt.Sprintf("unknown persona %q", m.PersonaID), "personaId")
						continue
					}
					if p.Voice.ElevenLabsVoiceID == "" {
						s.sendError(fmt.Sprintf("persona %q has no voice configured", m.PersonaID), "personaId")
						continue
					}
					persona = p
					languageCode = m.LanguageCode
					if languageCode == "" {
						languageCode = protocol.SupportedLanguages[language]
					}
					sampleRate = m.SampleRateHertz
					if sampleRate == 0 {
						sampleRate = protocol.DefaultSampleRate
					}
					encoding = m.Encoding
					if encoding == "" {
						encoding = protocol.DefaultEncoding
					}
					returnAudio = m.ReturnAudio == nil || *m.ReturnAudio
					userLocation = m.UserLocation
					history = append([]chat.Turn(nil), m.History...)

					if err := openStream(); err != nil {
						// Without a transcriber the session cannot do
						// anything useful, so this is the one error
						// that ends it.
						s.sendError("transcription unavailable", err.Error())
						return fmt.Errorf("open transcription stream: %w", err)
					}
					started = true
					s.sendJSON(protocol.ServerReady{
						Type:            "ready",
						PersonaID:       persona.ID,
						Language:        language,
						LanguageCode:    languageCode,
						SampleRateHertz: sampleRate,
						Encoding:        encoding,
					})
					s.logger.Info("voice session started",
						"session", s.sessionID,
						"persona", persona.ID,
						"language", language)

				case protocol.ClientCommit:
					if !started {
						s.sendError("session not started", "")
						continue
					}
					if stream != nil {
						if err := stream.CloseSend(); err != nil {
							s.logger.Warn("stt close-send failed", "session", s.sessionID, "error", err)
						}
						// Final results keep flowing through sttEvents
						// until the provider flushes and closes.
						stream = nil
					}

				case protocol.ClientConfigUpdate:
					if m.ReturnAudio != nil {
						returnAudio = *m.ReturnAudio
					}

				case protocol.ClientStop:
					s.sendPriorityJSON(protocol.ServerEnded{Type: "ended"})
					return nil

				case protocol.ClientPing:
					s.sendPriorityJSON(protocol.ServerPong{Type: "pong"})
				}
			}

		case ev := <-sttEvents:
			if ev.closed {
				if ev.err != nil {
					s.logger.Warn("stt stream failed", "session", s.sessionID, "error", ev.err)
					s.sendError("transcription failed", ev.err.Error())
					closeStream()
				}
				continue
			}
			text := strings.TrimSpace(ev.result.Text)
			if text == "" {
				continue
			}
			if !ev.result.IsFinal {
				s.sendJSON(protocol.ServerTranscript{Type: "transcript_partial", Text: text})
				continue
			}
			s.sendJSON(protocol.ServerTranscript{Type: "transcript_final", Text: text})
			prior := append([]chat.Turn(nil), history...)
			history = append(history, chat.Turn{Role: "user", Content: text})
			if replying {
				// One reply at a time. Finals that land while the
				// previous reply is still being produced join the
				// history but trigger nothing.
				continue
			}
			replying = true
			s.sendJSON(protocol.ServerThinking{Type: "assistant_thinking"})
			go s.produceReply(text, persona, language, userLocation, prior, returnAudio, replyCh)

		case out := <-replyCh:
			replying = false
			if out.err != nil {
				s.logger.Error("reply failed", "session", s.sessionID, "error", out.err)
				s.sendError("reply generation failed", out.err.Error())
				continue
			}
			history = append(history, chat.Turn{Role: "model", Content: out.replyText})

		case err := <-writerErrCh:
			return err

		case <-s.ctx.Done():
			return nil
		}
	}
}

// produceReply generates one persona reply and streams it out. It always
// posts exactly one outcome so the Run loop can clear the guard.
func (s *Session) produceReply(userText string, persona characters.Character, language string, loc *geo.UserLocation, history []chat.Turn, returnAudio bool, out chan<- replyOutcome) {
	reply, err := s.responder.Reply(s.ctx, &chat.ReplyRequest{
		Character:    persona,
		Message:      userText,
		History:      history,
		Language:     language,
		UserLocation: loc,
	})
	if err != nil {
		s.post(out, replyOutcome{err: err})
		return
	}

	s.sendJSON(protocol.ServerReplyText{Type: "reply_text", Text: reply})

	if returnAudio {
		// Synthesis failures degrade the reply to text only; the
		// client already has the words.
		if err := s.streamReplyAudio(reply, persona.Voice); err != nil {
			s.logger.Warn("voice synthesis failed", "session", s.sessionID, "error", err)
			s.sendError("voice synthesis failed", err.Error())
		}
	}

	s.post(out, replyOutcome{replyText: reply})
}

func (s *Session) streamReplyAudio(text string, voice characters.Voice) error {
	body, err := s.synthesizer.Synthesize(s.ctx, text, tts.VoiceParams{
		VoiceID:         voice.ElevenLabsVoiceID,
		Stability:       voice.Stability,
		SimilarityBoost: voice.SimilarityBoost,
		Style:           voice.Style,
	})
	if err != nil {
		return err
	}
	defer body.Close()

	s.sendJSON(protocol.ServerReplyAudioStart{Type: "reply_audio_start", Format: tts.OutputFormat})

	buf := make([]byte, s.cfg.AudioChunkBytes)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if err := s.enqueueNormal(outboundFrame{binaryPayload: chunk}); err != nil {
				return err
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read synthesized audio: %w", err)
		}
	}

	s.sendJSON(protocol.ServerReplyAudioEnd{Type: "reply_audio_end"})
	return nil
}

// watchStream forwards one stream's recognition results into the shared
// event channel, then reports the terminal state. Streams from before a
// commit keep draining here while a new one starts.
func (s *Session) watchStream(st stt.Stream, out chan<- sttEvent) {
	go func() {
		for res := range st.Results() {
			select {
			case out <- sttEvent{result: res}:
			case <-s.ctx.Done():
				return
			}
		}
		select {
		case out <- sttEvent{closed: true, err: st.Err()}:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Session) post(out chan<- replyOutcome, o replyOutcome) {
	select {
	case out <- o:
	case <-s.ctx.Done():
	}
}

func (s *Session) sendError(message, details string) {
	s.sendPriorityJSON(protocol.ServerError{Type: "error", Message: message, Details: details})
}

func (s *Session) sendJSON(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("marshal outbound event", "error", err)
		return
	}
	_ = s.enqueueNormal(outboundFrame{textPayload: payload})
}

func (s *Session) sendPriorityJSON(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("marshal outbound event", "error", err)
		return
	}
	select {
	case s.outboundPriority <- outboundFrame{textPayload: payload}:
	case <-s.ctx.Done():
	}
}

func (s *Session) enqueueNormal(frame outboundFrame) error {
	select {
	case s.outboundNormal <- frame:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

func (s *Session) readLoop(out chan<- inboundFrame) {
	defer close(out)
	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case out <- inboundFrame{err: err}:
			case <-s.ctx.Done():
			}
			return
		}
		select {
		case out <- inboundFrame{messageType: messageType, data: data}:
		case <-s.ctx.Done():
			return
		}
	}
}

func isExpectedClose(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		return true
	}
	return errors.Is(err, io.EOF)
}
