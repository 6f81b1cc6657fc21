package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/lgc202/openai-kit/openai"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: transcribe <audio-file>")
	}

	client, err := openai.New(os.Getenv("OPENAI_API_KEY"), openai.WithStatusErrors(true))
	if err != nil {
		log.Fatal(err)
	}

	resp, err := client.Transcription.Transcribe(context.Background(), os.Args[1], openai.WithLanguage("en"))
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Fatalf("no such file: %s", os.Args[1])
	case openai.IsAuth(err):
		log.Fatal("check OPENAI_API_KEY")
	case err != nil:
		log.Fatal(err)
	}
	fmt.Println(resp.Text)
}
