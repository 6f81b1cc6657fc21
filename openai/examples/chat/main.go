package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lgc202/openai-kit/openai"
)

func main() {
	client, err := openai.New(os.Getenv("OPENAI_API_KEY"), openai.WithTimeout(60*time.Second))
	if err != nil {
		log.Fatal(err)
	}

	chat := client.Chat
	chat.AddSystemMessage("You are a terse assistant.")
	chat.AddUserMessage("Name three Go proverbs.")

	resp, err := chat.Completion(context.Background(), openai.WithMaxTokens(120))
	if err != nil {
		if ce, ok := openai.AsConnectionError(err); ok {
			log.Fatalf("network: %v", ce)
		}
		log.Fatal(err)
	}
	if resp == nil {
		// rejected by the API; details were logged
		os.Exit(1)
	}
	fmt.Println(resp.FirstText())

	chat.AddResponse(resp)
	chat.AddUserMessage("Pick your favourite and explain it in one sentence.")
	if resp, err = chat.Completion(context.Background()); err == nil && resp != nil {
		fmt.Println(resp.FirstText())
	}
}
