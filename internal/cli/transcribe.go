package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/lgc202/openai-kit/openai"
)

type transcribeOptions struct {
	model    string
	language string
	segments bool
	output   string
}

func newTranscribeCommand(a *app) *cobra.Command {
	o := &transcribeOptions{}
	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe an audio file",
		Example: `  openai transcribe meeting.mp3
  openai transcribe --language pt-BR --segments interview.m4a`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(o.output); err != nil {
				return err
			}
			return runTranscribe(cmd, a, o, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.model, "model", "", "model (default transcription_model from config)")
	f.StringVar(&o.language, "language", "", "spoken language as a BCP 47 tag, e.g. en, pt-BR, deu (default language from config)")
	f.BoolVar(&o.segments, "segments", false, "request timestamped segments (verbose_json)")
	f.StringVarP(&o.output, "output", "o", outputText, "output format: text, json or yaml")
	return cmd
}

// isoLanguage 将 BCP 47 标签规范化为 API 接受的 ISO-639-1 代码，例如 "pt-BR" -> "pt"，"deu" -> "de"
func isoLanguage(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", nil
	}
	t, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", tag, err)
	}
	base, conf := t.Base()
	if conf == language.No {
		return "", fmt.Errorf("invalid language %q: unknown base language", tag)
	}
	return base.String(), nil
}

func runTranscribe(cmd *cobra.Command, a *app, o *transcribeOptions, path string) error {
	s := a.cfg.Get()

	lang := s.Language
	if cmd.Flags().Changed("language") {
		lang = o.language
	}
	lang, err := isoLanguage(lang)
	if err != nil {
		return err
	}
	model := s.TranscriptionModel
	if o.model != "" {
		model = o.model
	}

	client, err := a.newClient(s)
	if err != nil {
		return err
	}

	opts := []openai.RequestOption{openai.WithModel(model), openai.WithLanguage(lang)}
	if o.segments {
		opts = append(opts, openai.WithVerboseJSON())
	}
	resp, err := client.Transcription.Transcribe(cmd.Context(), path, opts...)
	if err != nil {
		return err
	}
	if resp == nil {
		return errRejected
	}

	return render(a.out, o.output, resp, func(w io.Writer) error {
		if len(resp.Segments) == 0 {
			_, err := fmt.Fprintln(w, resp.Text)
			return err
		}
		_, err := fmt.Fprintln(w, segmentTable(resp.Segments))
		return err
	})
}

func segmentTable(segs []openai.TranscriptionSegment) string {
	table := uitable.New()
	table.MaxColWidth = 80
	table.Wrap = true
	table.AddRow("START", "END", "TEXT")
	for _, s := range segs {
		table.AddRow(formatSeconds(s.Start), formatSeconds(s.End), strings.TrimSpace(s.Text))
	}
	return table.String()
}

// formatSeconds 格式化为 mm:ss.mmm
func formatSeconds(sec float64) string {
	ms := int64(sec*1000 + 0.5)
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}
