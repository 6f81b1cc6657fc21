package openai

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/lgc202/openai-kit/httpx"
)

type formPart struct {
	name, fileName, value string
}

func readParts(t *testing.T, r *http.Request) []formPart {
	t.Helper()
	mt, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "multipart/form-data" {
		t.Fatalf("Content-Type=%q err=%v", r.Header.Get("Content-Type"), err)
	}
	mr := multipart.NewReader(r.Body, params["boundary"])
	var parts []formPart
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return parts
		}
		if err != nil {
			t.Fatalf("NextPart() err=%v", err)
		}
		b, _ := io.ReadAll(p)
		parts = append(parts, formPart{p.FormName(), p.FileName(), string(b)})
	}
}

func TestTranscribe_MultipartLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meeting.m4a")
	if err := os.WriteFile(path, []byte("AUDIO"), 0o600); err != nil {
		t.Fatal(err)
	}

	var parts []formPart
	var reqPath string
	rt := httpx.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		reqPath = r.URL.Path
		parts = readParts(t, r)
		return jsonResponse(r, http.StatusOK, `{"text":"hello world","usage":{"type":"duration","seconds":3}}`), nil
	})
	c := newTestClient(t, rt)

	resp, err := c.Transcription.Transcribe(context.Background(), path)
	if err != nil {
		t.Fatalf("Transcribe() err=%v", err)
	}
	if resp.Text != "hello world" {
		t.Fatalf("Text=%q", resp.Text)
	}
	if resp.Usage == nil || resp.Usage.Type != "duration" || resp.Usage.Seconds != 3 {
		t.Fatalf("Usage=%+v", resp.Usage)
	}
	if reqPath != "/v1/audio/transcriptions" {
		t.Fatalf("path=%q", reqPath)
	}

	want := []formPart{
		{"model", "", "whisper-1"},
		{"language", "", "en"},
		{"file", "meeting.m4a", "AUDIO"},
	}
	if len(parts) != len(want) {
		t.Fatalf("parts=%+v, want %+v", parts, want)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Fatalf("part %d=%+v, want %+v", i, parts[i], want[i])
		}
	}
}

func TestTranscribeBytes_Overrides(t *testing.T) {
	var parts []formPart
	rt := httpx.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		parts = readParts(t, r)
		return jsonResponse(r, http.StatusOK, `{
			"text":"hola","language":"spanish","duration":1.5,
			"segments":[{"id":0,"seek":0,"start":0,"end":1.5,"text":"hola","avg_logprob":-0.2}],
			"words":[{"word":"hola","start":0.1,"end":0.9}]
		}`), nil
	})
	c := newTestClient(t, rt)

	resp, err := c.Transcription.TranscribeBytes(context.Background(), "clip.wav", []byte{1}, WithModel("gpt-4o-transcribe"), WithLanguage("es"), WithVerboseJSON())
	if err != nil {
		t.Fatalf("TranscribeBytes() err=%v", err)
	}
	if len(parts) != 4 || parts[0].value != "gpt-4o-transcribe" || parts[1].value != "es" ||
		parts[2] != (formPart{"response_format", "", "verbose_json"}) || parts[3].name != "file" {
		t.Fatalf("parts=%+v", parts)
	}
	if resp.Language != "spanish" || resp.Duration != 1.5 || len(resp.Segments) != 1 || len(resp.Words) != 1 {
		t.Fatalf("resp=%+v", resp)
	}
	if resp.Segments[0].End != 1.5 || resp.Words[0].Word != "hola" {
		t.Fatalf("segments=%+v words=%+v", resp.Segments, resp.Words)
	}
}

func TestTranscribeBytes_EmptyLanguageOmitted(t *testing.T) {
	var parts []formPart
	rt := httpx.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		parts = readParts(t, r)
		return jsonResponse(r, http.StatusOK, `{"text":""}`), nil
	})
	c := newTestClient(t, rt)

	if _, err := c.Transcription.TranscribeBytes(context.Background(), "clip.wav", []byte{1}, WithLanguage("")); err != nil {
		t.Fatalf("TranscribeBytes() err=%v", err)
	}
	if len(parts) != 2 || parts[0].name != "model" || parts[1].name != "file" {
		t.Fatalf("parts=%+v", parts)
	}
}

func TestTranscribe_MissingFileSendsNothing(t *testing.T) {
	rec := &httpx.Recorder{Next: httpx.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(r, http.StatusOK, `{"text":""}`), nil
	})}
	c := newTestClient(t, rec)

	resp, err := c.Transcription.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	if resp != nil {
		t.Fatalf("resp=%v", resp)
	}
	var pe *fs.PathError
	if !errors.As(err, &pe) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err=%T %v, want *fs.PathError", err, err)
	}
	if rec.Calls() != 0 {
		t.Fatalf("calls=%d, want 0", rec.Calls())
	}
}

func TestTranscribe_NonSuccessYieldsNil(t *testing.T) {
	rt := httpx.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(r, http.StatusInternalServerError, `{"error":{"message":"boom"}}`), nil
	})
	c := newTestClient(t, rt)

	resp, err := c.Transcription.TranscribeBytes(context.Background(), "a.mp3", []byte{1})
	if resp != nil || err != nil {
		t.Fatalf("TranscribeBytes()=(%v, %v), want (nil, nil)", resp, err)
	}
}

func TestTranscribe_ConnectionError(t *testing.T) {
	refused := errors.New("connection refused")
	rt := httpx.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, refused
	})
	c := newTestClient(t, rt)

	_, err := c.Transcription.TranscribeBytes(context.Background(), "a.mp3", []byte{1})
	ce, ok := AsConnectionError(err)
	if !ok || ce.Endpoint != TranscriptionsPath || !errors.Is(err, refused) {
		t.Fatalf("err=%T %v, want *ConnectionError wrapping the cause", err, err)
	}
}
