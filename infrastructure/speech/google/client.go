// ABOUTME: Google Cloud Text-to-Speech adapter for the speech service
// ABOUTME: Synthesizes one chunk of text into MP3 audio

package google

import (
	"context"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"

	"smart-reader-api/core/errors"
)

// synthesizeClient is the subset of the TTS client used here
type synthesizeClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	Close() error
}

// Client implements speech.ChunkSynthesizer with Google Cloud TTS
type Client struct {
	tts          synthesizeClient
	voice        string
	languageCode string
}

// NewClient creates a TTS client using application default credentials
func NewClient(ctx context.Context, voice, languageCode string) (*Client, error) {
	tts, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS client: %w", err)
	}
	return newClient(tts, voice, languageCode), nil
}

func newClient(tts synthesizeClient, voice, languageCode string) *Client {
	if languageCode == "" {
		languageCode = "en-US"
	}
	return &Client{tts: tts, voice: voice, languageCode: languageCode}
}

// SynthesizeChunk converts text into MP3 audio
func (c *Client) SynthesizeChunk(ctx context.Context, text string) ([]byte, error) {
	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: c.languageCode,
			Name:         c.voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	}

	resp, err := c.tts.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, &errors.ExternalAPIError{StatusCode: 502, Message: err.Error(), API: "text-to-speech"}
	}
	return resp.AudioContent, nil
}

// Close releases the underlying connection
func (c *Client) Close() error {
	return c.tts.Close()
}
