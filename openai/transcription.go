package openai

import (
	"context"
	"os"
	"path/filepath"

	"github.com/lgc202/openai-kit/httpx"
)

// TranscriptionClient is stateless apart from the shared transport.
type TranscriptionClient struct {
	tr *transport
}

// Transcribe reads the file at audioPath and uploads it under its base name.
// Read failures are returned unchanged (*fs.PathError) and nothing is sent.
//
// Defaults: model DefaultTranscriptionModel, language DefaultLanguage.
func (c *TranscriptionClient) Transcribe(ctx context.Context, audioPath string, opts ...RequestOption) (*TranscriptionResponse, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, err
	}
	return c.TranscribeBytes(ctx, filepath.Base(audioPath), audio, opts...)
}

// TranscribeBytes uploads in-memory audio. fileName tags the file part; the API
// uses its extension to detect the format.
func (c *TranscriptionClient) TranscribeBytes(ctx context.Context, fileName string, audio []byte, opts ...RequestOption) (*TranscriptionResponse, error) {
	rc := buildRequestConfig(opts)

	form := httpx.NewForm().Field("model", rc.model(DefaultTranscriptionModel))
	lang := DefaultLanguage
	if rc.Language != nil {
		lang = *rc.Language
	}
	if lang != "" {
		form.Field("language", lang)
	}
	if rc.Verbose {
		form.Field("response_format", "verbose_json")
	}
	form.File("file", fileName, audio)

	var out TranscriptionResponse
	ok, err := c.tr.post(ctx, TranscriptionsPath, httpx.WithForm(form), &out)
	if err != nil || !ok {
		return nil, err
	}
	return &out, nil
}
