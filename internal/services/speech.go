package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/models"
)

const (
	defaultSampleRate = 24000
	pcmBitsPerSample  = 16
	pcmChannels       = 1
)

type SpeechService interface {
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
}

type speechService struct {
	client    *genai.Client
	modelName string
	voice     string
}

func NewSpeechService(client *genai.Client, cfg config.GeminiConfig) SpeechService {
	return &speechService{
		client:    client,
		modelName: cfg.TTSModel,
		voice:     cfg.Voice,
	}
}

// SynthesizeSpeech returns the text spoken by the configured prebuilt voice as
// a WAV file.
func (s *speechService) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is empty", models.ErrInvalidArgument)
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: s.voice,
				},
			},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.modelName, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to synthesize speech: %v", models.ErrUpstream, err)
	}

	blob := firstInlineAudio(resp)
	if blob == nil || len(blob.Data) == 0 {
		return nil, fmt.Errorf("%w: no audio content in response", models.ErrUpstream)
	}

	log.Printf("🔊 Synthesized %d bytes of audio (%s)\n", len(blob.Data), blob.MIMEType)
	return WrapPCMAsWAV(blob.Data, SampleRateFromMIME(blob.MIMEType)), nil
}

func firstInlineAudio(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil {
				return part.InlineData
			}
		}
	}
	return nil
}

// SampleRateFromMIME reads the rate parameter of an "audio/L16;rate=24000"
// style type, defaulting to 24 kHz.
func SampleRateFromMIME(mimeType string) int {
	for _, param := range strings.Split(mimeType, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || key != "rate" {
			continue
		}
		if rate, err := strconv.Atoi(value); err == nil && rate > 0 {
			return rate
		}
	}
	return defaultSampleRate
}

// WrapPCMAsWAV prefixes 16-bit mono little-endian PCM with a RIFF/WAVE header.
func WrapPCMAsWAV(pcm []byte, sampleRate int) []byte {
	blockAlign := pcmChannels * pcmBitsPerSample / 8
	byteRate := sampleRate * blockAlign

	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(pcmChannels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(pcmBitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
