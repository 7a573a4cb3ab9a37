// ABOUTME: Read-aloud speech service splitting text into synthesis-sized chunks
// ABOUTME: Concatenates chunk audio and caches the result by text hash

package speech

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	"smart-reader-api/core/errors"
	"smart-reader-api/core/interfaces"
)

const (
	// MaxChunkSize is the largest text chunk sent in one synthesis call
	MaxChunkSize = 1000

	// ContentType is the encoding of the synthesized audio
	ContentType = "audio/mpeg"

	audioCacheTTL = 7 * 24 * time.Hour
)

// ChunkSynthesizer converts one chunk of text into encoded audio
type ChunkSynthesizer interface {
	SynthesizeChunk(ctx context.Context, text string) ([]byte, error)
}

// Service implements interfaces.SpeechSynthesizer
type Service struct {
	backend ChunkSynthesizer
	cache   interfaces.Cache
	logger  interfaces.Logger
	voice   string
}

// NewService creates a speech service. voice is part of the cache key so a
// voice change never serves stale audio.
func NewService(deps interfaces.Dependencies, backend ChunkSynthesizer, voice string) *Service {
	return &Service{
		backend: backend,
		cache:   deps.Cache,
		logger:  deps.Logger,
		voice:   voice,
	}
}

// Synthesize returns audio for the whole text
func (s *Service) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &errors.ValidationError{Field: "text", Message: "no text provided"}
	}

	key := s.cacheKey(text)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && len(cached) > 0 {
			s.log("Audio content found in cache", map[string]interface{}{"bytes": len(cached)})
			return cached, nil
		}
	}

	chunks := SplitTextIntoChunks(text, MaxChunkSize)
	var audio bytes.Buffer
	for i, chunk := range chunks {
		data, err := s.backend.SynthesizeChunk(ctx, chunk)
		if err != nil {
			return nil, errors.WrapError(err, "failed to synthesize speech")
		}
		audio.Write(data)
		s.log("Speech chunk synthesized", map[string]interface{}{
			"chunk":  i + 1,
			"chunks": len(chunks),
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, audio.Bytes(), audioCacheTTL); err != nil && s.logger != nil {
			s.logger.Warn("Failed to cache audio content", map[string]interface{}{"error": err.Error()})
		}
	}
	return audio.Bytes(), nil
}

func (s *Service) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(s.voice + "\x00" + text))
	return "audio:" + hex.EncodeToString(sum[:])
}

func (s *Service) log(msg string, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, fields)
	}
}

// SplitTextIntoChunks splits text on word boundaries into chunks of at most
// maxChunkSize bytes. Words longer than the limit are split on rune boundaries.
func SplitTextIntoChunks(text string, maxChunkSize int) []string {
	var chunks []string
	var chunk strings.Builder

	flush := func() {
		if chunk.Len() > 0 {
			chunks = append(chunks, chunk.String())
			chunk.Reset()
		}
	}

	for _, word := range strings.Fields(text) {
		for len(word) > maxChunkSize {
			flush()
			cut := maxChunkSize
			for cut > 0 && !utf8.RuneStart(word[cut]) {
				cut--
			}
			chunks = append(chunks, word[:cut])
			word = word[cut:]
		}
		if chunk.Len() > 0 && chunk.Len()+1+len(word) > maxChunkSize {
			flush()
		}
		if chunk.Len() > 0 {
			chunk.WriteByte(' ')
		}
		chunk.WriteString(word)
	}
	flush()
	return chunks
}
