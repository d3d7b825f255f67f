package tts

import (
	"context"
	"fmt"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type GoogleCloudConfig struct {
	LanguageCode string
	VoiceName    string
	// Credentials is a credentials JSON document or a path to one; empty uses ADC.
	Credentials string
}

// GoogleCloud is an alternative secondary tier backed by Cloud Text-to-Speech.
type GoogleCloud struct {
	client       *texttospeech.Client
	languageCode string
	voiceName    string
}

var _ Synthesizer = (*GoogleCloud)(nil)

func NewGoogleCloud(ctx context.Context, cfg GoogleCloudConfig) (*GoogleCloud, error) {
	c, err := texttospeech.NewClient(ctx, clientOptions(cfg.Credentials)...)
	if err != nil {
		return nil, fmt.Errorf("texttospeech client: %w", err)
	}
	lang := strings.TrimSpace(cfg.LanguageCode)
	if lang == "" {
		lang = "en-US"
	}
	return &GoogleCloud{client: c, languageCode: lang, voiceName: strings.TrimSpace(cfg.VoiceName)}, nil
}

func clientOptions(creds string) []option.ClientOption {
	creds = strings.TrimSpace(creds)
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (g *GoogleCloud) Name() string { return "google_cloud" }

func (g *GoogleCloud) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GoogleCloud) Synthesize(ctx context.Context, text string) (*Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: g.languageCode,
			Name:         g.voiceName,
			SsmlGender:   texttospeechpb.SsmlVoiceGender_NEUTRAL,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		st := status.Code(err)
		retryable := st == codes.Unavailable || st == codes.ResourceExhausted || st == codes.DeadlineExceeded
		return nil, NewSynthesisError(g.Name(), st.String(), "synthesize speech", err, retryable)
	}
	if len(resp.GetAudioContent()) == 0 {
		return nil, NewSynthesisError(g.Name(), "", "empty audio", ErrEmptyAudio, true)
	}
	return &Audio{Data: resp.GetAudioContent(), ContentType: ContentTypeMPEG, Provider: g.Name()}, nil
}
